package memory

import (
	"context"
	"time"

	"hotel_backoffice/internal/domain"
)

// Store methods outside InTx each take the lock for a single call.

func (s *Store) CreateRoom(ctx context.Context, r *domain.Room) error {
	return exec(s, func(d *data) error { return d.CreateRoom(ctx, r) })
}

func (s *Store) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	return call(s, func(d *data) (domain.Room, error) { return d.GetRoom(ctx, id) })
}

func (s *Store) LockRoom(ctx context.Context, id int64) (domain.Room, error) {
	return call(s, func(d *data) (domain.Room, error) { return d.LockRoom(ctx, id) })
}

func (s *Store) ListRooms(ctx context.Context, f domain.RoomFilter) ([]domain.Room, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.ListRooms(ctx, f)
}

func (s *Store) UpdateRoom(ctx context.Context, r domain.Room) error {
	return exec(s, func(d *data) error { return d.UpdateRoom(ctx, r) })
}

func (s *Store) UpdateRoomStatus(ctx context.Context, id int64, st domain.RoomStatus) error {
	return exec(s, func(d *data) error { return d.UpdateRoomStatus(ctx, id, st) })
}

func (s *Store) DeleteRoom(ctx context.Context, id int64) error {
	return exec(s, func(d *data) error { return d.DeleteRoom(ctx, id) })
}

func (s *Store) CountRoomBookings(ctx context.Context, roomID int64) (int, error) {
	return call(s, func(d *data) (int, error) { return d.CountRoomBookings(ctx, roomID) })
}

func (s *Store) CreateRoomType(ctx context.Context, t *domain.RoomTypeConfig) error {
	return exec(s, func(d *data) error { return d.CreateRoomType(ctx, t) })
}

func (s *Store) GetRoomType(ctx context.Context, id int64) (domain.RoomTypeConfig, error) {
	return call(s, func(d *data) (domain.RoomTypeConfig, error) { return d.GetRoomType(ctx, id) })
}

func (s *Store) GetRoomTypeByName(ctx context.Context, name domain.RoomType) (domain.RoomTypeConfig, error) {
	return call(s, func(d *data) (domain.RoomTypeConfig, error) { return d.GetRoomTypeByName(ctx, name) })
}

func (s *Store) ListRoomTypes(ctx context.Context, includeInactive bool) ([]domain.RoomTypeConfig, error) {
	return call(s, func(d *data) ([]domain.RoomTypeConfig, error) { return d.ListRoomTypes(ctx, includeInactive) })
}

func (s *Store) UpdateRoomType(ctx context.Context, t domain.RoomTypeConfig) error {
	return exec(s, func(d *data) error { return d.UpdateRoomType(ctx, t) })
}

func (s *Store) DeleteRoomType(ctx context.Context, id int64) error {
	return exec(s, func(d *data) error { return d.DeleteRoomType(ctx, id) })
}

func (s *Store) CountRoomsOfType(ctx context.Context, name domain.RoomType) (int, error) {
	return call(s, func(d *data) (int, error) { return d.CountRoomsOfType(ctx, name) })
}

func (s *Store) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	return exec(s, func(d *data) error { return d.CreateCustomer(ctx, c) })
}

func (s *Store) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	return call(s, func(d *data) (domain.Customer, error) { return d.GetCustomer(ctx, id) })
}

func (s *Store) GetCustomerByEmail(ctx context.Context, email string) (domain.Customer, error) {
	return call(s, func(d *data) (domain.Customer, error) { return d.GetCustomerByEmail(ctx, email) })
}

func (s *Store) GetCustomerByPhone(ctx context.Context, phone string) (domain.Customer, error) {
	return call(s, func(d *data) (domain.Customer, error) { return d.GetCustomerByPhone(ctx, phone) })
}

func (s *Store) ListCustomers(ctx context.Context, f domain.CustomerFilter) ([]domain.Customer, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.ListCustomers(ctx, f)
}

func (s *Store) UpdateCustomer(ctx context.Context, c domain.Customer) error {
	return exec(s, func(d *data) error { return d.UpdateCustomer(ctx, c) })
}

func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	return exec(s, func(d *data) error { return d.DeleteCustomer(ctx, id) })
}

func (s *Store) CountCustomerBookings(ctx context.Context, customerID int64) (int, error) {
	return call(s, func(d *data) (int, error) { return d.CountCustomerBookings(ctx, customerID) })
}

func (s *Store) CreateBooking(ctx context.Context, b *domain.Booking) error {
	return exec(s, func(d *data) error { return d.CreateBooking(ctx, b) })
}

func (s *Store) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	return call(s, func(d *data) (domain.Booking, error) { return d.GetBooking(ctx, id) })
}

func (s *Store) LockBooking(ctx context.Context, id int64) (domain.Booking, error) {
	return call(s, func(d *data) (domain.Booking, error) { return d.LockBooking(ctx, id) })
}

func (s *Store) FindOverlappingBookings(ctx context.Context, roomID int64, rng domain.DateRange, excludeID int64) ([]domain.Booking, error) {
	return call(s, func(d *data) ([]domain.Booking, error) { return d.FindOverlappingBookings(ctx, roomID, rng, excludeID) })
}

func (s *Store) UpdateBooking(ctx context.Context, b domain.Booking) error {
	return exec(s, func(d *data) error { return d.UpdateBooking(ctx, b) })
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id int64, st domain.BookingStatus, checkedInAt, checkedOutAt *time.Time) error {
	return exec(s, func(d *data) error { return d.UpdateBookingStatus(ctx, id, st, checkedInAt, checkedOutAt) })
}

func (s *Store) ListBookings(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.ListBookings(ctx, f)
}

func (s *Store) GetBookingsByCheckInDate(ctx context.Context, day time.Time, statuses ...domain.BookingStatus) ([]domain.Booking, error) {
	return call(s, func(d *data) ([]domain.Booking, error) { return d.GetBookingsByCheckInDate(ctx, day, statuses...) })
}

func (s *Store) GetBookingsByCheckOutDate(ctx context.Context, day time.Time, statuses ...domain.BookingStatus) ([]domain.Booking, error) {
	return call(s, func(d *data) ([]domain.Booking, error) { return d.GetBookingsByCheckOutDate(ctx, day, statuses...) })
}

func (s *Store) CreatePayment(ctx context.Context, p *domain.Payment) error {
	return exec(s, func(d *data) error { return d.CreatePayment(ctx, p) })
}

func (s *Store) GetPayment(ctx context.Context, id int64) (domain.Payment, error) {
	return call(s, func(d *data) (domain.Payment, error) { return d.GetPayment(ctx, id) })
}

func (s *Store) GetPaymentByTransaction(ctx context.Context, txn string) (domain.Payment, error) {
	return call(s, func(d *data) (domain.Payment, error) { return d.GetPaymentByTransaction(ctx, txn) })
}

func (s *Store) ListPayments(ctx context.Context, f domain.PaymentFilter) ([]domain.Payment, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.ListPayments(ctx, f)
}

func (s *Store) UpdatePayment(ctx context.Context, p domain.Payment) error {
	return exec(s, func(d *data) error { return d.UpdatePayment(ctx, p) })
}

func (s *Store) GetSettings(ctx context.Context) (domain.HotelSettings, error) {
	return call(s, func(d *data) (domain.HotelSettings, error) { return d.GetSettings(ctx) })
}

func (s *Store) SaveSettings(ctx context.Context, hs domain.HotelSettings) error {
	return exec(s, func(d *data) error { return d.SaveSettings(ctx, hs) })
}

func (s *Store) SetLastRun(ctx context.Context, job string, day time.Time) error {
	return exec(s, func(d *data) error { return d.SetLastRun(ctx, job, day) })
}

func (s *Store) LockLastRun(ctx context.Context, job string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.LockLastRun(ctx, job)
}

// SetNow replaces the timestamp source used for CreatedAt and UpdatedAt.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.now = now
}
