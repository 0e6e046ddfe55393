package domain

import "time"

type HotelSettings struct {
	Name      string
	Address   *string
	Phone     *string
	Email     *string
	GSTNumber *string
	UpdatedAt time.Time
}

const DefaultHotelName = "My Hotel"
