package domain

import (
	"context"
	"time"
)

type RoomRepository interface {
	CreateRoom(ctx context.Context, r *Room) error
	GetRoom(ctx context.Context, id int64) (Room, error)
	// LockRoom reads the room and, inside a transaction, holds its row lock
	// until commit. Booking writes for a room serialize on this lock.
	LockRoom(ctx context.Context, id int64) (Room, error)
	ListRooms(ctx context.Context, f RoomFilter) ([]Room, int, error)
	UpdateRoom(ctx context.Context, r Room) error
	UpdateRoomStatus(ctx context.Context, id int64, s RoomStatus) error
	DeleteRoom(ctx context.Context, id int64) error
	CountRoomBookings(ctx context.Context, roomID int64) (int, error)
}

type RoomTypeRepository interface {
	CreateRoomType(ctx context.Context, t *RoomTypeConfig) error
	GetRoomType(ctx context.Context, id int64) (RoomTypeConfig, error)
	GetRoomTypeByName(ctx context.Context, name RoomType) (RoomTypeConfig, error)
	// ListRoomTypes orders by display name.
	ListRoomTypes(ctx context.Context, includeInactive bool) ([]RoomTypeConfig, error)
	UpdateRoomType(ctx context.Context, t RoomTypeConfig) error
	DeleteRoomType(ctx context.Context, id int64) error
	CountRoomsOfType(ctx context.Context, name RoomType) (int, error)
}

type CustomerRepository interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomer(ctx context.Context, id int64) (Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (Customer, error)
	GetCustomerByPhone(ctx context.Context, phone string) (Customer, error)
	ListCustomers(ctx context.Context, f CustomerFilter) ([]Customer, int, error)
	UpdateCustomer(ctx context.Context, c Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
	CountCustomerBookings(ctx context.Context, customerID int64) (int, error)
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, b *Booking) error
	GetBooking(ctx context.Context, id int64) (Booking, error)
	// LockBooking is GetBooking holding the row lock until commit.
	LockBooking(ctx context.Context, id int64) (Booking, error)
	// FindOverlappingBookings returns active bookings of roomID whose
	// [check_in, check_out) intersects rng, skipping excludeID.
	FindOverlappingBookings(ctx context.Context, roomID int64, rng DateRange, excludeID int64) ([]Booking, error)
	UpdateBooking(ctx context.Context, b Booking) error
	UpdateBookingStatus(ctx context.Context, id int64, s BookingStatus, checkedInAt, checkedOutAt *time.Time) error
	ListBookings(ctx context.Context, f BookingFilter) ([]Booking, int, error)
	GetBookingsByCheckInDate(ctx context.Context, day time.Time, statuses ...BookingStatus) ([]Booking, error)
	GetBookingsByCheckOutDate(ctx context.Context, day time.Time, statuses ...BookingStatus) ([]Booking, error)
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, p *Payment) error
	GetPayment(ctx context.Context, id int64) (Payment, error)
	GetPaymentByTransaction(ctx context.Context, txn string) (Payment, error)
	// ListPayments and the other List calls treat Limit <= 0 as unbounded.
	ListPayments(ctx context.Context, f PaymentFilter) ([]Payment, int, error)
	UpdatePayment(ctx context.Context, p Payment) error
}

type SettingsRepository interface {
	GetSettings(ctx context.Context) (HotelSettings, error)
	SaveSettings(ctx context.Context, s HotelSettings) error
}

// JobRunRepository persists the last calendar day a named job completed.
type JobRunRepository interface {
	// LockLastRun returns the marker for job (ok=false when never run) and,
	// inside a transaction, locks it until commit.
	LockLastRun(ctx context.Context, job string) (day time.Time, ok bool, err error)
	SetLastRun(ctx context.Context, job string, day time.Time) error
}

type Repos interface {
	RoomRepository
	RoomTypeRepository
	CustomerRepository
	BookingRepository
	PaymentRepository
	SettingsRepository
	JobRunRepository
}

// Store is the persistence collaborator. Calls made directly on the Store run
// in their own implicit transaction; InTx composes several calls into one
// serializable transaction that commits only if fn returns nil.
type Store interface {
	Repos
	InTx(ctx context.Context, fn func(tx Repos) error) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Locker is a cross-process mutual exclusion primitive.
type Locker interface {
	// TryLock returns ok=false without blocking when key is already held.
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(), ok bool, err error)
}
