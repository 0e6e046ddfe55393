package httpserver

import (
	"net/http"
	"time"

	"hotel_backoffice/internal/app"
	"hotel_backoffice/internal/domain"
)

type bookingResponse struct {
	ID              int64      `json:"id"`
	Reference       string     `json:"booking_reference"`
	CustomerID      int64      `json:"customer_id"`
	RoomID          int64      `json:"room_id"`
	CreatedBy       int64      `json:"created_by"`
	CheckIn         string     `json:"check_in_date"`
	CheckOut        string     `json:"check_out_date"`
	Guests          int        `json:"number_of_guests"`
	Nights          int        `json:"number_of_nights"`
	RoomPrice       float64    `json:"room_price"`
	TotalAmount     float64    `json:"total_amount"`
	Discount        float64    `json:"discount_amount"`
	TaxPercent      float64    `json:"tax_percent"`
	Tax             float64    `json:"tax_amount"`
	FinalAmount     float64    `json:"final_amount"`
	Status          string     `json:"status"`
	SpecialRequests *string    `json:"special_requests"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CheckedInAt     *time.Time `json:"checked_in_at"`
	CheckedOutAt    *time.Time `json:"checked_out_at"`
}

func toBooking(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID: b.ID, Reference: b.Reference, CustomerID: b.CustomerID, RoomID: b.RoomID, CreatedBy: b.CreatedBy,
		CheckIn: b.CheckIn.Format(domain.DateLayout), CheckOut: b.CheckOut.Format(domain.DateLayout),
		Guests: b.Guests, Nights: b.Nights, RoomPrice: b.RoomPrice, TotalAmount: b.TotalAmount,
		Discount: b.Discount, TaxPercent: b.TaxPercent, Tax: b.Tax, FinalAmount: b.FinalAmount,
		Status: string(b.Status), SpecialRequests: b.SpecialRequests,
		CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt, CheckedInAt: b.CheckedInAt, CheckedOutAt: b.CheckedOutAt,
	}
}

type bookingCreateRequest struct {
	CustomerID      int64    `json:"customer_id" validate:"required,gt=0"`
	RoomID          int64    `json:"room_id" validate:"required,gt=0"`
	CheckIn         string   `json:"check_in_date" validate:"required,datetime=2006-01-02"`
	CheckOut        string   `json:"check_out_date" validate:"required,datetime=2006-01-02"`
	Guests          int      `json:"number_of_guests" validate:"required,gte=1,lte=10"`
	Discount        float64  `json:"discount_amount" validate:"gte=0"`
	TaxPercent      *float64 `json:"tax_percent" validate:"omitempty,gte=0,lte=100"`
	SpecialRequests *string  `json:"special_requests" validate:"omitempty,max=500"`
}

type bookingUpdateRequest struct {
	CheckIn         *string  `json:"check_in_date" validate:"omitempty,datetime=2006-01-02"`
	CheckOut        *string  `json:"check_out_date" validate:"omitempty,datetime=2006-01-02"`
	Guests          *int     `json:"number_of_guests" validate:"omitempty,gte=1,lte=10"`
	Discount        *float64 `json:"discount_amount" validate:"omitempty,gte=0"`
	TaxPercent      *float64 `json:"tax_percent" validate:"omitempty,gte=0,lte=100"`
	SpecialRequests *string  `json:"special_requests" validate:"omitempty,max=500"`
}

type bookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type availabilityResponse struct {
	Available           bool     `json:"available"`
	Message             string   `json:"message"`
	ConflictingBookings []string `json:"conflicting_bookings,omitempty"`
}

type receiptResponse struct {
	BookingReference  string  `json:"booking_reference"`
	CustomerName      string  `json:"customer_name"`
	CustomerEmail     string  `json:"customer_email"`
	RoomNumber        string  `json:"room_number"`
	RoomType          string  `json:"room_type"`
	CheckIn           string  `json:"check_in_date"`
	CheckOut          string  `json:"check_out_date"`
	Nights            int     `json:"number_of_nights"`
	Guests            int     `json:"number_of_guests"`
	RoomPricePerNight float64 `json:"room_price_per_night"`
	Subtotal          float64 `json:"subtotal"`
	Discount          float64 `json:"discount"`
	Tax               float64 `json:"tax"`
	FinalAmount       float64 `json:"final_amount"`
	TotalPaid         float64 `json:"total_paid"`
	BalanceDue        float64 `json:"balance_due"`
	Status            string  `json:"booking_status"`
	BookingDate       string  `json:"booking_date"`
	SpecialRequests   *string `json:"special_requests"`
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	f := domain.BookingFilter{
		CustomerID: q.id("customer_id"),
		RoomID:     q.id("room_id"),
		Reference:  q.str("reference"),
	}
	if v := q.str("status"); v != "" {
		f.Statuses = []domain.BookingStatus{domain.BookingStatus(v)}
	}
	if d := q.date("check_in_date", false); !d.IsZero() {
		f.CheckInDate = &d
	}
	f.Skip, f.Limit = q.page()
	if q.err != nil {
		writeError(w, r, q.err)
		return
	}
	page, err := h.Bookings.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toPage(page.Total, f.Skip, f.Limit, page.Items, toBooking))
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Bookings.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toBooking(b))
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingCreateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Bookings.Create(r.Context(), identity(r), app.CreateBookingInput{
		CustomerID: req.CustomerID, RoomID: req.RoomID,
		CheckIn: mustDate(req.CheckIn), CheckOut: mustDate(req.CheckOut),
		Guests: req.Guests, Discount: req.Discount, TaxPercent: req.TaxPercent,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toBooking(b))
}

func (h *Handlers) updateBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req bookingUpdateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Bookings.Update(r.Context(), identity(r), id, app.UpdateBookingInput{
		CheckIn: optDate(req.CheckIn), CheckOut: optDate(req.CheckOut), Guests: req.Guests,
		Discount: req.Discount, TaxPercent: req.TaxPercent, SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toBooking(b))
}

func (h *Handlers) setBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req bookingStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Bookings.Transition(r.Context(), identity(r), id, domain.BookingStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toBooking(b))
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Bookings.Cancel(r.Context(), identity(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toBooking(b))
}

func (h *Handlers) checkAvailability(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	roomID := q.id("room_id")
	in, out := q.date("check_in_date", true), q.date("check_out_date", true)
	if q.err == nil && roomID == nil {
		q.fail("room_id", "a positive integer")
	}
	if q.err != nil {
		writeError(w, r, q.err)
		return
	}
	av, err := h.Bookings.CheckAvailability(r.Context(), *roomID, in, out)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, availabilityResponse{Available: av.Available, Message: av.Message, ConflictingBookings: av.Conflicting})
}

func (h *Handlers) todayCheckIns(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Bookings.TodayCheckIns(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mapSlice(bs, toBooking))
}

func (h *Handlers) todayCheckOuts(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Bookings.TodayCheckOuts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mapSlice(bs, toBooking))
}

func (h *Handlers) receipt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rc, err := h.Bookings.Receipt(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, receiptResponse{
		BookingReference: rc.BookingReference, CustomerName: rc.CustomerName, CustomerEmail: rc.CustomerEmail,
		RoomNumber: rc.RoomNumber, RoomType: string(rc.RoomType),
		CheckIn: rc.CheckIn.Format(domain.DateLayout), CheckOut: rc.CheckOut.Format(domain.DateLayout),
		Nights: rc.Nights, Guests: rc.Guests, RoomPricePerNight: rc.RoomPricePerNight,
		Subtotal: rc.Subtotal, Discount: rc.Discount, Tax: rc.Tax, FinalAmount: rc.FinalAmount,
		TotalPaid: rc.TotalPaid, BalanceDue: rc.BalanceDue, Status: string(rc.Status),
		BookingDate: rc.CreatedAt.Format(domain.DateLayout), SpecialRequests: rc.SpecialRequests,
	})
}
