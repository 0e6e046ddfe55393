package httpserver

import (
	"net/http"
	"time"

	"hotel_backoffice/internal/app"
	"hotel_backoffice/internal/domain"
)

type customerResponse struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     *string   `json:"address"`
	City        *string   `json:"city"`
	State       *string   `json:"state"`
	Country     *string   `json:"country"`
	ZipCode     *string   `json:"zip_code"`
	IDType      *string   `json:"id_type"`
	IDNumber    *string   `json:"id_number"`
	DateOfBirth *string   `json:"date_of_birth"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCustomer(c domain.Customer) customerResponse {
	return customerResponse{
		ID: c.ID, FirstName: c.FirstName, LastName: c.LastName, FullName: c.FullName(),
		Email: c.Email, Phone: c.Phone, Address: c.Address, City: c.City, State: c.State,
		Country: c.Country, ZipCode: c.ZipCode, IDType: c.IDType, IDNumber: c.IDNumber,
		DateOfBirth: dateStr(c.DateOfBirth), CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

type customerRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,min=1,max=50"`
	LastName    *string `json:"last_name" validate:"omitempty,min=1,max=50"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,min=5,max=20"`
	Address     *string `json:"address" validate:"omitempty,max=200"`
	City        *string `json:"city" validate:"omitempty,max=50"`
	State       *string `json:"state" validate:"omitempty,max=50"`
	Country     *string `json:"country" validate:"omitempty,max=50"`
	ZipCode     *string `json:"zip_code" validate:"omitempty,max=20"`
	IDType      *string `json:"id_type" validate:"omitempty,max=30"`
	IDNumber    *string `json:"id_number" validate:"omitempty,max=50"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
}

// customerCreateRequest makes the identifying fields mandatory.
type customerCreateRequest struct {
	customerRequest
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,min=5,max=20"`
}

func (c customerRequest) patch() app.CustomerPatch {
	return app.CustomerPatch{
		FirstName: c.FirstName, LastName: c.LastName, Email: c.Email, Phone: c.Phone,
		Address: c.Address, City: c.City, State: c.State, Country: c.Country, ZipCode: c.ZipCode,
		IDType: c.IDType, IDNumber: c.IDNumber, DateOfBirth: optDate(c.DateOfBirth),
	}
}

func (h *Handlers) listCustomers(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	f := domain.CustomerFilter{Search: q.str("search")}
	f.Skip, f.Limit = q.page()
	if q.err != nil {
		writeError(w, r, q.err)
		return
	}
	page, err := h.Customers.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toPage(page.Total, f.Skip, f.Limit, page.Items, toCustomer))
}

func (h *Handlers) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.Customers.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCustomer(c))
}

func (h *Handlers) findCustomer(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	var (
		c   domain.Customer
		err error
	)
	switch {
	case q.str("email") != "":
		c, err = h.Customers.GetByEmail(r.Context(), q.str("email"))
	case q.str("phone") != "":
		c, err = h.Customers.GetByPhone(r.Context(), q.str("phone"))
	default:
		err = domain.Validation(domain.CodeInvalidInput, "email or phone is required")
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCustomer(c))
}

func (h *Handlers) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerCreateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.Customers.Create(r.Context(), identity(r), domain.Customer{
		FirstName: req.FirstName, LastName: req.LastName, Email: req.Email, Phone: req.Phone,
		Address: req.Address, City: req.City, State: req.State, Country: req.Country, ZipCode: req.ZipCode,
		IDType: req.IDType, IDNumber: req.IDNumber, DateOfBirth: optDate(req.DateOfBirth),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toCustomer(c))
}

func (h *Handlers) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req customerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.Customers.Update(r.Context(), identity(r), id, req.patch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCustomer(c))
}

func (h *Handlers) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Customers.Delete(r.Context(), identity(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
