// Package memory is a process-local Store. Every call, and every InTx
// callback as a whole, runs under one mutex, so transactions are trivially
// serializable. A failed InTx restores the snapshot taken at its start.
package memory

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"hotel_backoffice/internal/domain"
)

type data struct {
	rooms     map[int64]domain.Room
	roomTypes map[int64]domain.RoomTypeConfig
	customers map[int64]domain.Customer
	bookings  map[int64]domain.Booking
	payments  map[int64]domain.Payment
	settings  *domain.HotelSettings
	jobRuns   map[string]time.Time
	seq       int64
	now       func() time.Time
}

func (d *data) clone() *data {
	c := *d
	c.rooms = maps.Clone(d.rooms)
	c.roomTypes = maps.Clone(d.roomTypes)
	c.customers = maps.Clone(d.customers)
	c.bookings = maps.Clone(d.bookings)
	c.payments = maps.Clone(d.payments)
	c.jobRuns = maps.Clone(d.jobRuns)
	if d.settings != nil {
		s := *d.settings
		c.settings = &s
	}
	return &c
}

func (d *data) nextID() int64 {
	d.seq++
	return d.seq
}

type Store struct {
	mu sync.Mutex
	d  *data
}

var (
	_ domain.Store = (*Store)(nil)
	_ domain.Repos = (*data)(nil)
)

// New returns an empty store holding the default room type catalogue, as a
// freshly migrated database does.
func New() *Store {
	d := &data{
		rooms:     map[int64]domain.Room{},
		roomTypes: map[int64]domain.RoomTypeConfig{},
		customers: map[int64]domain.Customer{},
		bookings:  map[int64]domain.Booking{},
		payments:  map[int64]domain.Payment{},
		jobRuns:   map[string]time.Time{},
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, t := range domain.DefaultRoomTypes() {
		_ = d.CreateRoomType(context.Background(), &t)
	}
	return &Store{d: d}
}

func (s *Store) InTx(ctx context.Context, fn func(tx domain.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.d.clone()
	if err := fn(s.d); err != nil {
		s.d = snap
		return err
	}
	return nil
}

func call[T any](s *Store, fn func(d *data) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.d)
}

func exec(s *Store, fn func(d *data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.d)
}

// window applies Skip/Limit; Limit <= 0 returns everything after Skip.
func window[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	if skip > 0 {
		items = items[skip:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func duplicate(format string, args ...any) error {
	return domain.Conflict(domain.CodeDuplicate, format, args...)
}

// ---- rooms ----

func (d *data) CreateRoom(_ context.Context, r *domain.Room) error {
	if err := d.typeExists(r.Type); err != nil {
		return err
	}
	for _, o := range d.rooms {
		if o.Number == r.Number {
			return duplicate("room number %s already exists", r.Number)
		}
	}
	r.ID = d.nextID()
	r.CreatedAt, r.UpdatedAt = d.now(), d.now()
	d.rooms[r.ID] = *r
	return nil
}

func (d *data) GetRoom(_ context.Context, id int64) (domain.Room, error) {
	r, ok := d.rooms[id]
	if !ok {
		return domain.Room{}, domain.NotFound("room", id)
	}
	return r, nil
}

func (d *data) LockRoom(ctx context.Context, id int64) (domain.Room, error) {
	return d.GetRoom(ctx, id)
}

func (d *data) ListRooms(_ context.Context, f domain.RoomFilter) ([]domain.Room, int, error) {
	var out []domain.Room
	for _, r := range d.rooms {
		switch {
		case f.Type != nil && r.Type != *f.Type,
			f.Status != nil && r.Status != *f.Status,
			f.Floor != nil && r.Floor != *f.Floor,
			f.Active != nil && r.IsActive != *f.Active,
			f.MinPrice != nil && r.PricePerNight < *f.MinPrice,
			f.MaxPrice != nil && r.PricePerNight > *f.MaxPrice:
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return window(out, f.Skip, f.Limit), len(out), nil
}

func (d *data) UpdateRoom(_ context.Context, r domain.Room) error {
	cur, ok := d.rooms[r.ID]
	if !ok {
		return domain.NotFound("room", r.ID)
	}
	if err := d.typeExists(r.Type); err != nil {
		return err
	}
	for _, o := range d.rooms {
		if o.ID != r.ID && o.Number == r.Number {
			return duplicate("room number %s already exists", r.Number)
		}
	}
	r.CreatedAt, r.UpdatedAt = cur.CreatedAt, d.now()
	d.rooms[r.ID] = r
	return nil
}

func (d *data) UpdateRoomStatus(_ context.Context, id int64, st domain.RoomStatus) error {
	r, ok := d.rooms[id]
	if !ok {
		return domain.NotFound("room", id)
	}
	r.Status, r.UpdatedAt = st, d.now()
	d.rooms[id] = r
	return nil
}

func (d *data) DeleteRoom(_ context.Context, id int64) error {
	if _, ok := d.rooms[id]; !ok {
		return domain.NotFound("room", id)
	}
	delete(d.rooms, id)
	return nil
}

func (d *data) CountRoomBookings(_ context.Context, roomID int64) (int, error) {
	n := 0
	for _, b := range d.bookings {
		if b.RoomID == roomID {
			n++
		}
	}
	return n, nil
}

// ---- room types ----

// typeExists mirrors the rooms.room_type foreign key.
func (d *data) typeExists(name domain.RoomType) error {
	for _, t := range d.roomTypes {
		if t.Name == name {
			return nil
		}
	}
	return domain.NotFound("room type", name)
}

func (d *data) CreateRoomType(_ context.Context, t *domain.RoomTypeConfig) error {
	for _, o := range d.roomTypes {
		if o.Name == t.Name {
			return duplicate("room type %s already exists", t.Name)
		}
	}
	t.ID = d.nextID()
	t.CreatedAt, t.UpdatedAt = d.now(), d.now()
	d.roomTypes[t.ID] = *t
	return nil
}

func (d *data) GetRoomType(_ context.Context, id int64) (domain.RoomTypeConfig, error) {
	t, ok := d.roomTypes[id]
	if !ok {
		return domain.RoomTypeConfig{}, domain.NotFound("room type", id)
	}
	return t, nil
}

func (d *data) GetRoomTypeByName(_ context.Context, name domain.RoomType) (domain.RoomTypeConfig, error) {
	for _, t := range d.roomTypes {
		if t.Name == name {
			return t, nil
		}
	}
	return domain.RoomTypeConfig{}, domain.NotFound("room type", name)
}

func (d *data) ListRoomTypes(_ context.Context, includeInactive bool) ([]domain.RoomTypeConfig, error) {
	out := []domain.RoomTypeConfig{}
	for _, t := range d.roomTypes {
		if includeInactive || t.IsActive {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out, nil
}

func (d *data) UpdateRoomType(_ context.Context, t domain.RoomTypeConfig) error {
	cur, ok := d.roomTypes[t.ID]
	if !ok {
		return domain.NotFound("room type", t.ID)
	}
	// the name is the rooms' reference and never changes
	cur.DisplayName, cur.IsActive, cur.UpdatedAt = t.DisplayName, t.IsActive, d.now()
	d.roomTypes[t.ID] = cur
	return nil
}

func (d *data) DeleteRoomType(_ context.Context, id int64) error {
	t, ok := d.roomTypes[id]
	if !ok {
		return domain.NotFound("room type", id)
	}
	for _, r := range d.rooms {
		if r.Type == t.Name {
			return domain.Conflict(domain.CodeInUse, "room type %s is still used by rooms", t.Name)
		}
	}
	delete(d.roomTypes, id)
	return nil
}

func (d *data) CountRoomsOfType(_ context.Context, name domain.RoomType) (int, error) {
	n := 0
	for _, r := range d.rooms {
		if r.Type == name {
			n++
		}
	}
	return n, nil
}

// ---- customers ----

func (d *data) uniqueCustomer(c domain.Customer) error {
	for _, o := range d.customers {
		if o.ID == c.ID {
			continue
		}
		if strings.EqualFold(o.Email, c.Email) {
			return duplicate("email %s already registered", c.Email)
		}
		if o.Phone == c.Phone {
			return duplicate("phone %s already registered", c.Phone)
		}
	}
	return nil
}

func (d *data) CreateCustomer(_ context.Context, c *domain.Customer) error {
	if err := d.uniqueCustomer(*c); err != nil {
		return err
	}
	c.ID = d.nextID()
	c.CreatedAt, c.UpdatedAt = d.now(), d.now()
	d.customers[c.ID] = *c
	return nil
}

func (d *data) GetCustomer(_ context.Context, id int64) (domain.Customer, error) {
	c, ok := d.customers[id]
	if !ok {
		return domain.Customer{}, domain.NotFound("customer", id)
	}
	return c, nil
}

func (d *data) GetCustomerByEmail(_ context.Context, email string) (domain.Customer, error) {
	for _, c := range d.customers {
		if strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return domain.Customer{}, domain.NotFound("customer", email)
}

func (d *data) GetCustomerByPhone(_ context.Context, phone string) (domain.Customer, error) {
	for _, c := range d.customers {
		if c.Phone == phone {
			return c, nil
		}
	}
	return domain.Customer{}, domain.NotFound("customer", phone)
}

func (d *data) ListCustomers(_ context.Context, f domain.CustomerFilter) ([]domain.Customer, int, error) {
	q := strings.ToLower(f.Search)
	var out []domain.Customer
	for _, c := range d.customers {
		if q != "" &&
			!strings.Contains(strings.ToLower(c.FirstName), q) &&
			!strings.Contains(strings.ToLower(c.LastName), q) &&
			!strings.Contains(strings.ToLower(c.Email), q) &&
			!strings.Contains(c.Phone, q) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return window(out, f.Skip, f.Limit), len(out), nil
}

func (d *data) UpdateCustomer(_ context.Context, c domain.Customer) error {
	cur, ok := d.customers[c.ID]
	if !ok {
		return domain.NotFound("customer", c.ID)
	}
	if err := d.uniqueCustomer(c); err != nil {
		return err
	}
	c.CreatedAt, c.UpdatedAt = cur.CreatedAt, d.now()
	d.customers[c.ID] = c
	return nil
}

func (d *data) DeleteCustomer(_ context.Context, id int64) error {
	if _, ok := d.customers[id]; !ok {
		return domain.NotFound("customer", id)
	}
	delete(d.customers, id)
	return nil
}

func (d *data) CountCustomerBookings(_ context.Context, customerID int64) (int, error) {
	n := 0
	for _, b := range d.bookings {
		if b.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

// ---- bookings ----

func (d *data) CreateBooking(_ context.Context, b *domain.Booking) error {
	if _, ok := d.customers[b.CustomerID]; !ok {
		return domain.NotFound("customer", b.CustomerID)
	}
	if _, ok := d.rooms[b.RoomID]; !ok {
		return domain.NotFound("room", b.RoomID)
	}
	for _, o := range d.bookings {
		if o.Reference == b.Reference {
			return duplicate("booking reference %s already exists", b.Reference)
		}
	}
	b.ID = d.nextID()
	b.CreatedAt, b.UpdatedAt = d.now(), d.now()
	d.bookings[b.ID] = *b
	return nil
}

func (d *data) GetBooking(_ context.Context, id int64) (domain.Booking, error) {
	b, ok := d.bookings[id]
	if !ok {
		return domain.Booking{}, domain.NotFound("booking", id)
	}
	return b, nil
}

func (d *data) LockBooking(ctx context.Context, id int64) (domain.Booking, error) {
	return d.GetBooking(ctx, id)
}

func (d *data) FindOverlappingBookings(_ context.Context, roomID int64, rng domain.DateRange, excludeID int64) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range d.bookings {
		if b.RoomID == roomID && b.ID != excludeID && b.Status.Active() && b.Range().Overlaps(rng) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}

func (d *data) UpdateBooking(_ context.Context, b domain.Booking) error {
	cur, ok := d.bookings[b.ID]
	if !ok {
		return domain.NotFound("booking", b.ID)
	}
	b.CreatedAt, b.UpdatedAt = cur.CreatedAt, d.now()
	d.bookings[b.ID] = b
	return nil
}

func (d *data) UpdateBookingStatus(_ context.Context, id int64, st domain.BookingStatus, checkedInAt, checkedOutAt *time.Time) error {
	b, ok := d.bookings[id]
	if !ok {
		return domain.NotFound("booking", id)
	}
	b.Status, b.CheckedInAt, b.CheckedOutAt, b.UpdatedAt = st, checkedInAt, checkedOutAt, d.now()
	d.bookings[id] = b
	return nil
}

func hasStatus(s domain.BookingStatus, in []domain.BookingStatus) bool {
	if len(in) == 0 {
		return true
	}
	for _, x := range in {
		if s == x {
			return true
		}
	}
	return false
}

func (d *data) ListBookings(_ context.Context, f domain.BookingFilter) ([]domain.Booking, int, error) {
	var out []domain.Booking
	for _, b := range d.bookings {
		switch {
		case !hasStatus(b.Status, f.Statuses),
			f.CustomerID != nil && b.CustomerID != *f.CustomerID,
			f.RoomID != nil && b.RoomID != *f.RoomID,
			f.CheckInDate != nil && !b.CheckIn.Equal(domain.DateOf(*f.CheckInDate)),
			f.Reference != "" && !strings.Contains(b.Reference, f.Reference):
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return window(out, f.Skip, f.Limit), len(out), nil
}

func (d *data) bookingsOn(day time.Time, pick func(domain.Booking) time.Time, statuses []domain.BookingStatus) []domain.Booking {
	day = domain.DateOf(day)
	var out []domain.Booking
	for _, b := range d.bookings {
		if pick(b).Equal(day) && hasStatus(b.Status, statuses) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *data) GetBookingsByCheckInDate(_ context.Context, day time.Time, statuses ...domain.BookingStatus) ([]domain.Booking, error) {
	return d.bookingsOn(day, func(b domain.Booking) time.Time { return b.CheckIn }, statuses), nil
}

func (d *data) GetBookingsByCheckOutDate(_ context.Context, day time.Time, statuses ...domain.BookingStatus) ([]domain.Booking, error) {
	return d.bookingsOn(day, func(b domain.Booking) time.Time { return b.CheckOut }, statuses), nil
}

// ---- payments ----

func (d *data) CreatePayment(_ context.Context, p *domain.Payment) error {
	if _, ok := d.bookings[p.BookingID]; !ok {
		return domain.NotFound("booking", p.BookingID)
	}
	for _, o := range d.payments {
		if o.TransactionID == p.TransactionID {
			return duplicate("transaction %s already exists", p.TransactionID)
		}
	}
	p.ID = d.nextID()
	p.CreatedAt, p.UpdatedAt = d.now(), d.now()
	d.payments[p.ID] = *p
	return nil
}

func (d *data) GetPayment(_ context.Context, id int64) (domain.Payment, error) {
	p, ok := d.payments[id]
	if !ok {
		return domain.Payment{}, domain.NotFound("payment", id)
	}
	return p, nil
}

func (d *data) GetPaymentByTransaction(_ context.Context, txn string) (domain.Payment, error) {
	for _, p := range d.payments {
		if p.TransactionID == txn {
			return p, nil
		}
	}
	return domain.Payment{}, domain.NotFound("payment", txn)
}

func (d *data) ListPayments(_ context.Context, f domain.PaymentFilter) ([]domain.Payment, int, error) {
	var out []domain.Payment
	for _, p := range d.payments {
		switch {
		case f.BookingID != nil && p.BookingID != *f.BookingID,
			f.Status != nil && p.Status != *f.Status,
			f.Method != nil && p.Method != *f.Method:
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return window(out, f.Skip, f.Limit), len(out), nil
}

func (d *data) UpdatePayment(_ context.Context, p domain.Payment) error {
	cur, ok := d.payments[p.ID]
	if !ok {
		return domain.NotFound("payment", p.ID)
	}
	p.CreatedAt, p.UpdatedAt = cur.CreatedAt, d.now()
	d.payments[p.ID] = p
	return nil
}

// ---- settings and job runs ----

func (d *data) GetSettings(context.Context) (domain.HotelSettings, error) {
	if d.settings == nil {
		return domain.HotelSettings{}, domain.NotFound("settings", "hotel")
	}
	return *d.settings, nil
}

func (d *data) SaveSettings(_ context.Context, hs domain.HotelSettings) error {
	d.settings = &hs
	return nil
}

func (d *data) LockLastRun(_ context.Context, job string) (time.Time, bool, error) {
	day, ok := d.jobRuns[job]
	return day, ok, nil
}

func (d *data) SetLastRun(_ context.Context, job string, day time.Time) error {
	d.jobRuns[job] = domain.DateOf(day)
	return nil
}
