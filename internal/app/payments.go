package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"hotel_backoffice/internal/domain"
)

// amountTolerance absorbs float rounding when comparing money totals.
const amountTolerance = 0.01

type PaymentService struct {
	store domain.Store
	clock domain.Clock
}

func NewPaymentService(st domain.Store, clk domain.Clock) *PaymentService {
	return &PaymentService{store: st, clock: clk}
}

type CreatePaymentInput struct {
	BookingID       int64
	Amount          float64
	Method          domain.PaymentMethod
	ReferenceNumber *string
	Notes           *string
}

type PaymentUpdate struct {
	Status          *domain.PaymentStatus
	ReferenceNumber *string
	Notes           *string
}

type Refund struct {
	PaymentID     int64
	TransactionID string
	Amount        float64
	Date          time.Time
}

func sumWhere(ps []domain.Payment, st domain.PaymentStatus) float64 {
	total := decimal.Zero
	for _, p := range ps {
		if p.Status == st {
			total = total.Add(decimal.NewFromFloat(p.Amount))
		}
	}
	return total.InexactFloat64()
}

func summarize(b domain.Booking, ps []domain.Payment) domain.PaymentSummary {
	paid := sumWhere(ps, domain.PaymentCompleted)
	return domain.PaymentSummary{
		BookingID:        b.ID,
		BookingReference: b.Reference,
		TotalAmount:      b.FinalAmount,
		TotalPaid:        paid,
		TotalPending:     sumWhere(ps, domain.PaymentPending),
		TotalRefunded:    sumWhere(ps, domain.PaymentRefunded),
		BalanceDue:       decimal.NewFromFloat(b.FinalAmount).Sub(decimal.NewFromFloat(paid)).InexactFloat64(),
		PaymentCount:     len(ps),
	}
}

// Create records a pending payment. Outstanding claims (completed plus
// pending) may not exceed the booking's final amount.
func (s *PaymentService) Create(ctx context.Context, who domain.Identity, in CreatePaymentInput) (domain.Payment, error) {
	if err := domain.Require(who, domain.Writers...); err != nil {
		return domain.Payment{}, err
	}
	if in.Amount <= 0 {
		return domain.Payment{}, domain.Validation(domain.CodeInvalidInput, "payment amount must be positive")
	}
	if !in.Method.Valid() {
		return domain.Payment{}, domain.Validation(domain.CodeInvalidInput, "unknown payment method %q", in.Method)
	}

	var out domain.Payment
	err := s.store.InTx(ctx, func(tx domain.Repos) error {
		b, err := tx.LockBooking(ctx, in.BookingID)
		if err != nil {
			return err
		}
		if b.Status == domain.BookingCancelled {
			return domain.Conflict(domain.CodeBookingClosed, "cannot process payment for cancelled booking")
		}
		ps, _, err := tx.ListPayments(ctx, domain.PaymentFilter{BookingID: &b.ID})
		if err != nil {
			return err
		}
		claimed := sumWhere(ps, domain.PaymentCompleted) + sumWhere(ps, domain.PaymentPending)
		if claimed+in.Amount > b.FinalAmount+amountTolerance {
			return domain.Conflict(domain.CodeOverpayment,
				"payment of %.2f exceeds the outstanding balance %.2f of booking %s", in.Amount, b.FinalAmount-claimed, b.Reference)
		}
		p := domain.Payment{
			TransactionID:   newTransactionID(s.clock.Now()),
			BookingID:       b.ID,
			Amount:          in.Amount,
			Method:          in.Method,
			Status:          domain.PaymentPending,
			ReferenceNumber: in.ReferenceNumber,
			Notes:           in.Notes,
		}
		if err := tx.CreatePayment(ctx, &p); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

func (s *PaymentService) Get(ctx context.Context, id int64) (domain.Payment, error) {
	return s.store.GetPayment(ctx, id)
}

func (s *PaymentService) GetByTransaction(ctx context.Context, txn string) (domain.Payment, error) {
	return s.store.GetPaymentByTransaction(ctx, txn)
}

func (s *PaymentService) List(ctx context.Context, f domain.PaymentFilter) (Page[domain.Payment], error) {
	f.Limit = clampLimit(f.Limit)
	items, total, err := s.store.ListPayments(ctx, f)
	if err != nil {
		return Page[domain.Payment]{}, err
	}
	return Page[domain.Payment]{Total: total, Items: items}, nil
}

// UpdateStatus settles a pending payment as completed or failed and edits
// its reference number and notes. Refunds go through Refund.
func (s *PaymentService) UpdateStatus(ctx context.Context, who domain.Identity, id int64, u PaymentUpdate) (domain.Payment, error) {
	if err := domain.Require(who, domain.Writers...); err != nil {
		return domain.Payment{}, err
	}
	pre, err := s.store.GetPayment(ctx, id)
	if err != nil {
		return domain.Payment{}, err
	}
	var out domain.Payment
	err = s.store.InTx(ctx, func(tx domain.Repos) error {
		b, err := tx.LockBooking(ctx, pre.BookingID)
		if err != nil {
			return err
		}
		p, err := tx.GetPayment(ctx, id)
		if err != nil {
			return err
		}
		if u.Status != nil && *u.Status != p.Status {
			to := *u.Status
			if !to.Valid() {
				return domain.Validation(domain.CodeInvalidInput, "unknown payment status %q", to)
			}
			if p.Status != domain.PaymentPending || (to != domain.PaymentCompleted && to != domain.PaymentFailed) {
				return domain.Conflict(domain.CodeIllegalTransition, "cannot move payment from %s to %s", p.Status, to)
			}
			if to == domain.PaymentCompleted {
				ps, _, err := tx.ListPayments(ctx, domain.PaymentFilter{BookingID: &b.ID})
				if err != nil {
					return err
				}
				if sumWhere(ps, domain.PaymentCompleted)+p.Amount > b.FinalAmount+amountTolerance {
					return domain.Conflict(domain.CodeOverpayment, "completing payment %s would exceed the booking total", p.TransactionID)
				}
				if p.PaidAt == nil {
					now := s.clock.Now()
					p.PaidAt = &now
				}
			}
			p.Status = to
		}
		if u.ReferenceNumber != nil {
			p.ReferenceNumber = u.ReferenceNumber
		}
		if u.Notes != nil {
			p.Notes = u.Notes
		}
		if err := tx.UpdatePayment(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

// Refund fully refunds a completed payment. Admin only.
func (s *PaymentService) Refund(ctx context.Context, who domain.Identity, id int64, reason string) (Refund, error) {
	if err := domain.Require(who, domain.RoleAdmin); err != nil {
		return Refund{}, err
	}
	pre, err := s.store.GetPayment(ctx, id)
	if err != nil {
		return Refund{}, err
	}
	var out Refund
	err = s.store.InTx(ctx, func(tx domain.Repos) error {
		if _, err := tx.LockBooking(ctx, pre.BookingID); err != nil {
			return err
		}
		p, err := tx.GetPayment(ctx, id)
		if err != nil {
			return err
		}
		if p.Status != domain.PaymentCompleted {
			return domain.Conflict(domain.CodeNotRefundable, "only completed payments can be refunded")
		}
		prev := "None"
		if p.Notes != nil && *p.Notes != "" {
			prev = *p.Notes
		}
		notes := fmt.Sprintf("REFUNDED: %s. Original notes: %s", reason, prev)
		p.Status, p.Notes = domain.PaymentRefunded, &notes
		if err := tx.UpdatePayment(ctx, p); err != nil {
			return err
		}
		out = Refund{PaymentID: p.ID, TransactionID: p.TransactionID, Amount: p.Amount, Date: s.clock.Now()}
		return nil
	})
	if err != nil {
		return Refund{}, err
	}
	log.Info().Str("txn", out.TransactionID).Float64("amount", out.Amount).Msg("payment refunded")
	return out, nil
}

func (s *PaymentService) Summary(ctx context.Context, bookingID int64) (domain.PaymentSummary, error) {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.PaymentSummary{}, err
	}
	ps, _, err := s.store.ListPayments(ctx, domain.PaymentFilter{BookingID: &b.ID})
	if err != nil {
		return domain.PaymentSummary{}, err
	}
	return summarize(b, ps), nil
}

func (s *PaymentService) History(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	if _, err := s.store.GetBooking(ctx, bookingID); err != nil {
		return nil, err
	}
	ps, _, err := s.store.ListPayments(ctx, domain.PaymentFilter{BookingID: &bookingID})
	return ps, err
}
