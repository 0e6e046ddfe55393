package domain

import "time"

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCheckedIn  BookingStatus = "checked_in"
	BookingCheckedOut BookingStatus = "checked_out"
	BookingCancelled  BookingStatus = "cancelled"
)

// ActiveStatuses hold a room's dates and take part in overlap checks.
var ActiveStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingCheckedIn}

func (s BookingStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s BookingStatus) Active() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

type Booking struct {
	ID              int64
	Reference       string
	CustomerID      int64
	RoomID          int64
	CreatedBy       int64
	CheckIn         time.Time // UTC midnight
	CheckOut        time.Time // UTC midnight
	Guests          int
	Nights          int
	RoomPrice       float64
	TotalAmount     float64
	Discount        float64
	TaxPercent      float64
	Tax             float64
	FinalAmount     float64
	Status          BookingStatus
	SpecialRequests *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CheckedInAt     *time.Time
	CheckedOutAt    *time.Time
}

func (b Booking) Range() DateRange { return DateRange{Start: b.CheckIn, End: b.CheckOut} }

// ApplyQuote copies computed pricing onto the booking.
func (b *Booking) ApplyQuote(nights int, q Quote) {
	b.Nights = nights
	b.TotalAmount = q.Total
	b.Discount = q.Discount
	b.Tax = q.Tax
	b.FinalAmount = q.Final
}

// BookingFilter narrows ListBookings. Zero values are ignored.
type BookingFilter struct {
	Statuses    []BookingStatus
	CustomerID  *int64
	RoomID      *int64
	CheckInDate *time.Time
	Reference   string // substring match
	Skip        int
	Limit       int
}

// DateRange is the half-open interval [Start, End) of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [a.Start,a.End) and [b.Start,b.End) intersect.
func (a DateRange) Overlaps(b DateRange) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// DateOf truncates t to its calendar day, expressed as UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

const DateLayout = "2006-01-02"

// Clock supplies the current time; the calendar day of Now is "today".
type Clock interface {
	Now() time.Time
}

// Today returns the current calendar day of c.
func Today(c Clock) time.Time { return DateOf(c.Now()) }
