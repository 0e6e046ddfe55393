package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"hotel_backoffice/internal/app"
	"hotel_backoffice/internal/domain"
	"hotel_backoffice/internal/storage/memory"
)

var (
	admin  = domain.Identity{UserID: 1, Role: domain.RoleAdmin}
	staff  = domain.Identity{UserID: 2, Role: domain.RoleStaff}
	viewer = domain.Identity{UserID: 3, Role: domain.RoleViewer}
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// mapCache stores JSON so reads never alias the cached value.
type mapCache struct {
	mu   sync.Mutex
	m    map[string][]byte
	hits int
}

func (c *mapCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.m[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dst)
}

func (c *mapCache) Set(_ context.Context, key string, v any, _ int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = map[string][]byte{}
	}
	c.m[key] = b
	return nil
}

func (c *mapCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
	return nil
}

type fixture struct {
	store     *memory.Store
	clock     *testClock
	cache     *mapCache
	rooms     *app.RoomService
	roomTypes *app.RoomTypeService
	customers *app.CustomerService
	bookings  *app.BookingService
	payments  *app.PaymentService
	settings  *app.SettingsService
	rec       *app.Reconciler
	room      domain.Room
	customer  domain.Customer
}

func day(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// newFixture seeds room 101 (double, capacity 2, 100/night) and one guest,
// with the clock at 2024-05-20 10:00 UTC.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: memory.New(),
		clock: &testClock{t: time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)},
		cache: &mapCache{},
	}
	f.rooms = app.NewRoomService(f.store, f.cache, time.Minute)
	f.roomTypes = app.NewRoomTypeService(f.store)
	f.customers = app.NewCustomerService(f.store)
	f.bookings = app.NewBookingService(f.store, f.cache, f.clock, 12)
	f.payments = app.NewPaymentService(f.store, f.clock)
	f.settings = app.NewSettingsService(f.store, f.clock)
	f.rec = app.NewReconciler(f.store, f.cache, f.clock)

	var err error
	f.room, err = f.rooms.Create(context.Background(), admin, domain.Room{
		Number: "101", Type: domain.RoomDouble, PricePerNight: 100, Capacity: 2, Floor: 1, IsActive: true,
	})
	if err != nil {
		t.Fatalf("seed room: %v", err)
	}
	f.customer = f.addCustomer(t, "Ana", "ana@example.com", "+100")
	return f
}

func (f *fixture) addCustomer(t *testing.T, first, email, phone string) domain.Customer {
	t.Helper()
	c, err := f.customers.Create(context.Background(), staff, domain.Customer{
		FirstName: first, LastName: "Guest", Email: email, Phone: phone,
	})
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c
}

func (f *fixture) addRoom(t *testing.T, number string) domain.Room {
	t.Helper()
	r, err := f.rooms.Create(context.Background(), admin, domain.Room{
		Number: number, Type: domain.RoomSingle, PricePerNight: 80, Capacity: 1, Floor: 2, IsActive: true,
	})
	if err != nil {
		t.Fatalf("seed room: %v", err)
	}
	return r
}

func (f *fixture) book(t *testing.T, roomID int64, in, out string) domain.Booking {
	t.Helper()
	b, err := f.bookings.Create(context.Background(), staff, app.CreateBookingInput{
		CustomerID: f.customer.ID, RoomID: roomID, CheckIn: day(in), CheckOut: day(out), Guests: 1,
	})
	if err != nil {
		t.Fatalf("book %s..%s: %v", in, out, err)
	}
	return b
}

func (f *fixture) move(t *testing.T, id int64, to ...domain.BookingStatus) domain.Booking {
	t.Helper()
	var b domain.Booking
	for _, s := range to {
		var err error
		if b, err = f.bookings.Transition(context.Background(), staff, id, s); err != nil {
			t.Fatalf("transition to %s: %v", s, err)
		}
	}
	return b
}

func (f *fixture) roomStatus(t *testing.T, id int64) domain.RoomStatus {
	t.Helper()
	r, err := f.store.GetRoom(context.Background(), id)
	if err != nil {
		t.Fatalf("get room: %v", err)
	}
	return r.Status
}

func wantCode(t *testing.T, err error, kind error, code string) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("want %v, got %v", kind, err)
	}
	if got := domain.CodeOf(err); got != code {
		t.Fatalf("want code %q, got %q (%v)", code, got, err)
	}
}
