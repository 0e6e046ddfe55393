package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hotel_backoffice/internal/app"
	"hotel_backoffice/internal/domain"
)

type paymentResponse struct {
	ID              int64      `json:"id"`
	TransactionID   string     `json:"transaction_id"`
	BookingID       int64      `json:"booking_id"`
	Amount          float64    `json:"amount"`
	Method          string     `json:"payment_method"`
	Status          string     `json:"status"`
	PaidAt          *time.Time `json:"payment_date"`
	ReferenceNumber *string    `json:"reference_number"`
	Notes           *string    `json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func toPayment(p domain.Payment) paymentResponse {
	return paymentResponse{
		ID: p.ID, TransactionID: p.TransactionID, BookingID: p.BookingID, Amount: p.Amount,
		Method: string(p.Method), Status: string(p.Status), PaidAt: p.PaidAt,
		ReferenceNumber: p.ReferenceNumber, Notes: p.Notes, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

type paymentCreateRequest struct {
	BookingID       int64   `json:"booking_id" validate:"required,gt=0"`
	Amount          float64 `json:"amount" validate:"gt=0"`
	Method          string  `json:"payment_method" validate:"required,oneof=cash credit_card debit_card upi net_banking wallet"`
	ReferenceNumber *string `json:"reference_number" validate:"omitempty,max=100"`
	Notes           *string `json:"notes" validate:"omitempty,max=500"`
}

type paymentUpdateRequest struct {
	Status          *string `json:"status" validate:"omitempty,oneof=pending completed failed refunded"`
	ReferenceNumber *string `json:"reference_number" validate:"omitempty,max=100"`
	Notes           *string `json:"notes" validate:"omitempty,max=500"`
}

type refundRequest struct {
	Reason string `json:"reason" validate:"required,max=255"`
}

type refundResponse struct {
	Message       string    `json:"message"`
	PaymentID     int64     `json:"payment_id"`
	TransactionID string    `json:"transaction_id"`
	RefundAmount  float64   `json:"refund_amount"`
	RefundDate    time.Time `json:"refund_date"`
}

type summaryResponse struct {
	BookingID        int64   `json:"booking_id"`
	BookingReference string  `json:"booking_reference"`
	TotalAmount      float64 `json:"total_amount"`
	TotalPaid        float64 `json:"total_paid"`
	TotalPending     float64 `json:"total_pending"`
	TotalRefunded    float64 `json:"total_refunded"`
	BalanceDue       float64 `json:"balance_due"`
	PaymentCount     int     `json:"payment_count"`
}

func (h *Handlers) listPayments(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	f := domain.PaymentFilter{BookingID: q.id("booking_id")}
	if v := q.str("status"); v != "" {
		s := domain.PaymentStatus(v)
		f.Status = &s
	}
	if v := q.str("payment_method"); v != "" {
		m := domain.PaymentMethod(v)
		f.Method = &m
	}
	f.Skip, f.Limit = q.page()
	if q.err != nil {
		writeError(w, r, q.err)
		return
	}
	page, err := h.Payments.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toPage(page.Total, f.Skip, f.Limit, page.Items, toPayment))
}

func (h *Handlers) getPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Payments.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toPayment(p))
}

func (h *Handlers) getPaymentByTransaction(w http.ResponseWriter, r *http.Request) {
	p, err := h.Payments.GetByTransaction(r.Context(), chi.URLParam(r, "txn"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toPayment(p))
}

func (h *Handlers) createPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentCreateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Payments.Create(r.Context(), identity(r), app.CreatePaymentInput{
		BookingID: req.BookingID, Amount: req.Amount, Method: domain.PaymentMethod(req.Method),
		ReferenceNumber: req.ReferenceNumber, Notes: req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toPayment(p))
}

func (h *Handlers) updatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req paymentUpdateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u := app.PaymentUpdate{ReferenceNumber: req.ReferenceNumber, Notes: req.Notes}
	if req.Status != nil {
		s := domain.PaymentStatus(*req.Status)
		u.Status = &s
	}
	p, err := h.Payments.UpdateStatus(r.Context(), identity(r), id, u)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toPayment(p))
}

func (h *Handlers) refundPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req refundRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rf, err := h.Payments.Refund(r.Context(), identity(r), id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, refundResponse{
		Message: "Payment refunded successfully", PaymentID: rf.PaymentID, TransactionID: rf.TransactionID,
		RefundAmount: rf.Amount, RefundDate: rf.Date,
	})
}

func (h *Handlers) paymentSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.Payments.Summary(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summaryResponse(s))
}

func (h *Handlers) paymentHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ps, err := h.Payments.History(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mapSlice(ps, toPayment))
}
