package domain

import "time"

type Customer struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Address     *string
	City        *string
	State       *string
	Country     *string
	ZipCode     *string
	IDType      *string // passport|driver_license|national_id
	IDNumber    *string
	DateOfBirth *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// CustomerFilter matches Search as a substring of name, email or phone.
type CustomerFilter struct {
	Search string
	Skip   int
	Limit  int
}
