package domain

import "time"

type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetBanking PaymentMethod = "net_banking"
	PaymentWallet     PaymentMethod = "wallet"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentUPI, PaymentNetBanking, PaymentWallet:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type Payment struct {
	ID              int64
	TransactionID   string
	BookingID       int64
	Amount          float64
	Method          PaymentMethod
	Status          PaymentStatus
	PaidAt          *time.Time
	ReferenceNumber *string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type PaymentFilter struct {
	BookingID *int64
	Status    *PaymentStatus
	Method    *PaymentMethod
	Skip      int
	Limit     int
}

// PaymentSummary totals the payments of one booking.
type PaymentSummary struct {
	BookingID        int64
	BookingReference string
	TotalAmount      float64
	TotalPaid        float64
	TotalPending     float64
	TotalRefunded    float64
	BalanceDue       float64
	PaymentCount     int
}
