package domain_test

import (
	"errors"
	"testing"
	"time"

	"hotel_backoffice/internal/domain"
)

func day(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func room101() domain.Room {
	return domain.Room{ID: 1, Number: "101", Capacity: 2, IsActive: true, Status: domain.RoomAvailable, PricePerNight: 100}
}

func TestNights(t *testing.T) {
	d := day("2024-06-01")
	if n := domain.Nights(d, d); n != 1 {
		t.Fatalf("same day: want 1, got %d", n)
	}
	if n := domain.Nights(d, d.AddDate(0, 0, 3)); n != 3 {
		t.Fatalf("3 nights: want 3, got %d", n)
	}
}

func TestValidateBooking_Reasons(t *testing.T) {
	today := day("2024-05-30")
	inactive := room101()
	inactive.IsActive = false

	cases := []struct {
		name string
		room domain.Room
		stay domain.Stay
		code string
	}{
		{"inverted range", room101(), domain.Stay{CheckIn: day("2024-06-03"), CheckOut: day("2024-06-01"), Guests: 1}, domain.CodeInvalidRange},
		{"empty range", room101(), domain.Stay{CheckIn: day("2024-06-01"), CheckOut: day("2024-06-01"), Guests: 1}, domain.CodeInvalidRange},
		{"past check-in", room101(), domain.Stay{CheckIn: day("2024-05-29"), CheckOut: day("2024-06-01"), Guests: 1}, domain.CodePastCheckIn},
		{"capacity", room101(), domain.Stay{CheckIn: day("2024-06-01"), CheckOut: day("2024-06-03"), Guests: 3}, domain.CodeCapacityExceeded},
		{"inactive", inactive, domain.Stay{CheckIn: day("2024-06-01"), CheckOut: day("2024-06-03"), Guests: 1}, domain.CodeRoomInactive},
		{"capacity before inactive", inactive, domain.Stay{CheckIn: day("2024-06-01"), CheckOut: day("2024-06-03"), Guests: 3}, domain.CodeCapacityExceeded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := domain.ValidateBooking(tc.room, tc.stay, today, nil)
			if got := domain.CodeOf(err); got != tc.code {
				t.Fatalf("want %s, got %v", tc.code, err)
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation kind, got %v", err)
			}
		})
	}
}

func TestValidateBooking_TodayIsAllowed(t *testing.T) {
	today := day("2024-06-01")
	stay := domain.Stay{CheckIn: today, CheckOut: today.AddDate(0, 0, 1), Guests: 2}
	if err := domain.ValidateBooking(room101(), stay, today, nil); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestValidateBooking_ConflictNamesExisting(t *testing.T) {
	first := domain.Booking{
		ID: 7, Reference: "BK20240601AAAAAA", RoomID: 1, Status: domain.BookingPending,
		CheckIn: day("2024-06-01"), CheckOut: day("2024-06-03"),
	}
	stay := domain.Stay{CheckIn: day("2024-06-02"), CheckOut: day("2024-06-05"), Guests: 1}

	err := domain.ValidateBooking(room101(), stay, day("2024-05-01"), []domain.Booking{first})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	var de *domain.Error
	if !errors.As(err, &de) || len(de.Refs) != 1 {
		t.Fatalf("expected one ref, got %+v", de)
	}
	if want := "BK20240601AAAAAA (2024-06-01 to 2024-06-03)"; de.Refs[0] != want {
		t.Fatalf("ref: want %q, got %q", want, de.Refs[0])
	}

	// editing the existing booking itself is not a conflict
	stay.ExcludeID = 7
	if err := domain.ValidateBooking(room101(), stay, day("2024-05-01"), []domain.Booking{first}); err != nil {
		t.Fatalf("self-exclusion failed: %v", err)
	}
}

func TestConflicting_IgnoresInactiveAndOtherRooms(t *testing.T) {
	rng := domain.DateRange{Start: day("2024-06-01"), End: day("2024-06-05")}
	existing := []domain.Booking{
		{ID: 1, RoomID: 1, Status: domain.BookingCancelled, CheckIn: day("2024-06-01"), CheckOut: day("2024-06-05")},
		{ID: 2, RoomID: 1, Status: domain.BookingCheckedOut, CheckIn: day("2024-06-01"), CheckOut: day("2024-06-05")},
		{ID: 3, RoomID: 2, Status: domain.BookingConfirmed, CheckIn: day("2024-06-01"), CheckOut: day("2024-06-05")},
		{ID: 4, RoomID: 1, Status: domain.BookingCheckedIn, CheckIn: day("2024-05-28"), CheckOut: day("2024-06-01")}, // back-to-back
		{ID: 5, RoomID: 1, Status: domain.BookingConfirmed, CheckIn: day("2024-06-05"), CheckOut: day("2024-06-07")}, // back-to-back
		{ID: 6, RoomID: 1, Status: domain.BookingConfirmed, CheckIn: day("2024-06-02"), CheckOut: day("2024-06-03")}, // contained
	}
	got := domain.Conflicting(1, rng, 0, existing)
	if len(got) != 1 || got[0].ID != 6 {
		t.Fatalf("want only booking 6, got %+v", got)
	}
}

func TestOverlaps_MatchesThreeWayTest(t *testing.T) {
	base := day("2024-06-01")
	threeWay := func(ex, nw domain.DateRange) bool {
		startsDuring := !ex.Start.After(nw.Start) && ex.End.After(nw.Start)
		endsDuring := ex.Start.Before(nw.End) && !ex.End.Before(nw.End)
		contains := !ex.Start.Before(nw.Start) && !ex.End.After(nw.End)
		return startsDuring || endsDuring || contains
	}
	for a := 0; a < 6; a++ {
		for b := a + 1; b <= 6; b++ {
			for c := 0; c < 6; c++ {
				for d := c + 1; d <= 6; d++ {
					ex := domain.DateRange{Start: base.AddDate(0, 0, a), End: base.AddDate(0, 0, b)}
					nw := domain.DateRange{Start: base.AddDate(0, 0, c), End: base.AddDate(0, 0, d)}
					if got, want := ex.Overlaps(nw), threeWay(ex, nw); got != want {
						t.Fatalf("%v vs %v: simplified=%v three-way=%v", ex, nw, got, want)
					}
				}
			}
		}
	}
}
