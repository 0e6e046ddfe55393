package domain_test

import (
	"testing"

	"hotel_backoffice/internal/domain"
)

func TestRoomTypeName(t *testing.T) {
	cases := map[string]domain.RoomType{
		"Deluxe Suite":      "deluxe_suite",
		"  Family   Room  ": "family_room",
		"Penthouse":         "penthouse",
	}
	for in, want := range cases {
		if got := domain.RoomTypeName(in); got != want {
			t.Fatalf("RoomTypeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRoomType_WellFormed(t *testing.T) {
	for _, ok := range []domain.RoomType{"single", "king_2", "a"} {
		if !ok.WellFormed() {
			t.Fatalf("%q should be well formed", ok)
		}
	}
	for _, bad := range []domain.RoomType{"", "Single", "sea-view", "two words", "ünï", "abcdefghijklmnopqrstuvwxyz_12345"} {
		if bad.WellFormed() {
			t.Fatalf("%q should be rejected", bad)
		}
	}
	for _, d := range domain.DefaultRoomTypes() {
		if !d.Name.WellFormed() || !d.IsActive {
			t.Fatalf("bad default %+v", d)
		}
	}
}
