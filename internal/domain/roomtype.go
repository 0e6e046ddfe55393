package domain

import (
	"strings"
	"time"
)

const maxRoomTypeName = 30

// RoomTypeConfig is one entry of the room type catalogue. Rooms reference it
// by Name; price and capacity stay on the room itself. Inactive types are
// kept for existing rooms but cannot be given to new ones.
type RoomTypeConfig struct {
	ID          int64
	Name        RoomType
	DisplayName string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DefaultRoomTypes is the catalogue a fresh install starts with.
func DefaultRoomTypes() []RoomTypeConfig {
	return []RoomTypeConfig{
		{Name: RoomSingle, DisplayName: "Single Room", IsActive: true},
		{Name: RoomDouble, DisplayName: "Double Room", IsActive: true},
		{Name: RoomSuite, DisplayName: "Suite", IsActive: true},
		{Name: RoomDeluxe, DisplayName: "Deluxe Room", IsActive: true},
	}
}

// RoomTypeName derives an internal name from a display name:
// "Deluxe Suite" becomes "deluxe_suite".
func RoomTypeName(display string) RoomType {
	return RoomType(strings.Join(strings.Fields(strings.ToLower(display)), "_"))
}

// WellFormed reports whether t is 1-30 characters of a-z, 0-9 and '_'.
func (t RoomType) WellFormed() bool {
	if t == "" || len(t) > maxRoomTypeName {
		return false
	}
	for _, r := range string(t) {
		if r != '_' && (r < '0' || r > '9') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
