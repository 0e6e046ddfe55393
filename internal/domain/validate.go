package domain

import (
	"fmt"
	"time"
)

// Stay is a requested occupation of one room.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
	// ExcludeID skips the booking being edited during the overlap check.
	ExcludeID int64
}

func (s Stay) Range() DateRange {
	return DateRange{Start: DateOf(s.CheckIn), End: DateOf(s.CheckOut)}
}

// Nights is the number of nights charged; same-day stays count as one.
func Nights(checkIn, checkOut time.Time) int {
	n := int(DateOf(checkOut).Sub(DateOf(checkIn)).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}

// ValidateRange checks the date range alone.
func ValidateRange(checkIn, checkOut, today time.Time) error {
	in, out := DateOf(checkIn), DateOf(checkOut)
	if !out.After(in) {
		return Validation(CodeInvalidRange, "check-out date must be after check-in date")
	}
	if in.Before(DateOf(today)) {
		return Validation(CodePastCheckIn, "check-in date cannot be in the past")
	}
	return nil
}

// ValidateBooking decides whether room can take stay given the bookings
// currently recorded for it. existing may contain bookings of other rooms
// or inactive bookings; those are ignored.
func ValidateBooking(room Room, stay Stay, today time.Time, existing []Booking) error {
	if err := ValidateRange(stay.CheckIn, stay.CheckOut, today); err != nil {
		return err
	}
	if stay.Guests <= 0 {
		return Validation(CodeInvalidInput, "number of guests must be positive")
	}
	if stay.Guests > room.Capacity {
		return Validation(CodeCapacityExceeded, "number of guests (%d) exceeds room capacity (%d)", stay.Guests, room.Capacity)
	}
	if !room.IsActive {
		return Validation(CodeRoomInactive, "room %s is not active", room.Number)
	}
	if clash := Conflicting(room.ID, stay.Range(), stay.ExcludeID, existing); len(clash) > 0 {
		return BookingConflict(room.Number, ConflictRefs(clash))
	}
	return nil
}

// Conflicting returns the active bookings of roomID overlapping rng.
func Conflicting(roomID int64, rng DateRange, excludeID int64, existing []Booking) []Booking {
	var out []Booking
	for _, b := range existing {
		if b.RoomID != roomID || b.ID == excludeID || !b.Status.Active() {
			continue
		}
		if b.Range().Overlaps(rng) {
			out = append(out, b)
		}
	}
	return out
}

// ConflictRefs renders "BK... (2024-06-01 to 2024-06-03)" per booking.
func ConflictRefs(bs []Booking) []string {
	refs := make([]string, 0, len(bs))
	for _, b := range bs {
		refs = append(refs, fmt.Sprintf("%s (%s to %s)", b.Reference,
			b.CheckIn.Format(DateLayout), b.CheckOut.Format(DateLayout)))
	}
	return refs
}
