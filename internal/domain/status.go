package domain

import "time"

var transitions = map[BookingStatus][]BookingStatus{
	BookingPending:    {BookingConfirmed, BookingCancelled},
	BookingConfirmed:  {BookingCheckedIn, BookingCancelled},
	BookingCheckedIn:  {BookingCheckedOut, BookingCancelled},
	BookingCheckedOut: {},
	BookingCancelled:  {},
}

// CanTransitionTo reports whether the booking lifecycle allows s -> to.
func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

// Terminal statuses accept no further transition.
func (s BookingStatus) Terminal() bool {
	next, ok := transitions[s]
	return !ok || len(next) == 0
}

// Effect is the full set of writes one status transition performs.
type Effect struct {
	From         BookingStatus
	To           BookingStatus
	CheckedInAt  *time.Time
	CheckedOutAt *time.Time
	// RoomStatus is nil when the room is left untouched.
	RoomStatus *RoomStatus
}

// PlanTransition computes the writes for moving b to status to. roomStatus is
// the room's current status; today and now come from the caller's clock.
func PlanTransition(b Booking, roomStatus RoomStatus, to BookingStatus, today, now time.Time) (Effect, error) {
	if !to.Valid() {
		return Effect{}, Validation(CodeInvalidInput, "unknown booking status %q", to)
	}
	if !b.Status.CanTransitionTo(to) {
		return Effect{}, IllegalTransition(b.Status, to)
	}

	eff := Effect{From: b.Status, To: to, CheckedInAt: b.CheckedInAt, CheckedOutAt: b.CheckedOutAt}
	set := func(s RoomStatus) { eff.RoomStatus = &s }

	switch to {
	case BookingConfirmed:
		// Arrivals on later days are picked up by the daily reconciler.
		if DateOf(b.CheckIn).Equal(DateOf(today)) {
			set(RoomReserved)
		}
	case BookingCheckedIn:
		set(RoomOccupied)
		eff.CheckedInAt = &now
	case BookingCheckedOut:
		set(RoomAvailable)
		eff.CheckedOutAt = &now
	case BookingCancelled:
		if roomStatus == RoomReserved || roomStatus == RoomOccupied {
			set(RoomAvailable)
		}
	}
	return eff, nil
}

// Apply writes the booking side of e onto b.
func (e Effect) Apply(b *Booking) {
	b.Status = e.To
	b.CheckedInAt = e.CheckedInAt
	b.CheckedOutAt = e.CheckedOutAt
}

// RescheduleRoomStatus is the room write implied by moving a confirmed
// booking's check-in from oldCheckIn to newCheckIn. It follows the confirm
// rule: an arrival today holds the room reserved, and a reservation for an
// arrival moved off today is released. nil leaves the room untouched.
func RescheduleRoomStatus(b BookingStatus, oldCheckIn, newCheckIn time.Time, room RoomStatus, today time.Time) *RoomStatus {
	oldDay, newDay, t := DateOf(oldCheckIn), DateOf(newCheckIn), DateOf(today)
	if b != BookingConfirmed || oldDay.Equal(newDay) {
		return nil
	}
	var s RoomStatus
	switch {
	case newDay.Equal(t) && room != RoomReserved:
		s = RoomReserved
	case oldDay.Equal(t) && room == RoomReserved:
		s = RoomAvailable
	default:
		return nil
	}
	return &s
}
