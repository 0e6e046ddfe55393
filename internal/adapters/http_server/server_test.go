package httpserver_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotel_backoffice/internal/adapters/auth"
	httpserver "hotel_backoffice/internal/adapters/http_server"
	"hotel_backoffice/internal/app"
	"hotel_backoffice/internal/domain"
	"hotel_backoffice/internal/storage/memory"
)

const secret = "http-test-secret"

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type env struct {
	t      *testing.T
	srv    *httptest.Server
	tokens map[domain.Role]string
}

func newEnv(t *testing.T, opts httpserver.Options) *env {
	t.Helper()
	st := memory.New()
	clk := fixedClock{t: time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)}
	rec := app.NewReconciler(st, nil, clk)
	h := &httpserver.Handlers{
		Auth:       auth.NewVerifier(secret),
		Rooms:      app.NewRoomService(st, nil, time.Minute),
		RoomTypes:  app.NewRoomTypeService(st),
		Customers:  app.NewCustomerService(st),
		Bookings:   app.NewBookingService(st, nil, clk, 12),
		Payments:   app.NewPaymentService(st, clk),
		Settings:   app.NewSettingsService(st, clk),
		Reconciler: rec,
		Scheduler:  app.NewScheduler(rec, time.Hour, nil),
	}
	s := httpserver.New(opts)
	s.MountHandlers(h)
	ts := httptest.NewServer(s.Mux())
	t.Cleanup(ts.Close)

	e := &env{t: t, srv: ts, tokens: map[domain.Role]string{}}
	for i, role := range []domain.Role{domain.RoleAdmin, domain.RoleStaff, domain.RoleViewer} {
		tok, err := auth.Issue(secret, domain.Identity{UserID: int64(i + 1), Role: role}, time.Hour, time.Now())
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		e.tokens[role] = tok
	}
	return e
}

// do sends body as JSON with role's token and decodes the reply into out.
func (e *env) do(role domain.Role, method, path string, body, out any) *http.Response {
	e.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, e.srv.URL+path, rd)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+e.tokens[role])
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		e.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			e.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return res
}

type problem struct {
	Status              int      `json:"status"`
	Code                string   `json:"code"`
	Detail              string   `json:"detail"`
	ConflictingBookings []string `json:"conflicting_bookings"`
}

type idRef struct {
	ID        int64  `json:"id"`
	Reference string `json:"booking_reference"`
	Status    string `json:"status"`
}

func (e *env) seed() (roomID, customerID int64) {
	e.t.Helper()
	var room, cust idRef
	if res := e.do(domain.RoleStaff, "POST", "/v1/rooms", map[string]any{
		"room_number": "101", "room_type": "double", "price_per_night": 100, "capacity": 2, "floor": 1,
	}, &room); res.StatusCode != http.StatusCreated {
		e.t.Fatalf("create room: %d", res.StatusCode)
	}
	if res := e.do(domain.RoleStaff, "POST", "/v1/customers", map[string]any{
		"first_name": "Ana", "last_name": "Guest", "email": "ana@example.com", "phone": "+1000000",
	}, &cust); res.StatusCode != http.StatusCreated {
		e.t.Fatalf("create customer: %d", res.StatusCode)
	}
	return room.ID, cust.ID
}

func TestHealthzIsPublic(t *testing.T) {
	e := newEnv(t, httpserver.Options{})
	res, err := http.Get(e.srv.URL + "/healthz")
	if err != nil || res.StatusCode != http.StatusOK {
		t.Fatalf("healthz: %v %v", res, err)
	}
}

func TestAuthRequired(t *testing.T) {
	e := newEnv(t, httpserver.Options{})
	var p problem
	res := e.do("", "GET", "/v1/rooms", nil, &p)
	if res.StatusCode != http.StatusUnauthorized || res.Header.Get("WWW-Authenticate") == "" {
		t.Fatalf("status %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type %q", ct)
	}

	e.tokens[domain.RoleViewer] = "garbage"
	if res := e.do(domain.RoleViewer, "GET", "/v1/rooms", nil, nil); res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", res.StatusCode)
	}
}

func TestViewerCannotWrite(t *testing.T) {
	e := newEnv(t, httpserver.Options{})
	var p problem
	res := e.do(domain.RoleViewer, "POST", "/v1/rooms", map[string]any{
		"room_number": "101", "room_type": "double", "price_per_night": 100, "capacity": 2,
	}, &p)
	if res.StatusCode != http.StatusForbidden || p.Code != domain.CodeForbidden {
		t.Fatalf("status %d code %q", res.StatusCode, p.Code)
	}
	if res := e.do(domain.RoleViewer, "GET", "/v1/rooms", nil, nil); res.StatusCode != http.StatusOK {
		t.Fatalf("viewer read: %d", res.StatusCode)
	}
}

func TestBookingFlow(t *testing.T) {
	e := newEnv(t, httpserver.Options{})
	roomID, custID := e.seed()

	var b struct {
		idRef
		FinalAmount float64 `json:"final_amount"`
		Nights      int     `json:"number_of_nights"`
		CheckIn     string  `json:"check_in_date"`
	}
	res := e.do(domain.RoleStaff, "POST", "/v1/bookings", map[string]any{
		"customer_id": custID, "room_id": roomID, "check_in_date": "2024-06-01", "check_out_date": "2024-06-03", "number_of_guests": 2,
	}, &b)
	if res.StatusCode != http.StatusCreated || b.FinalAmount != 224 || b.Nights != 2 || b.CheckIn != "2024-06-01" || b.Status != "pending" {
		t.Fatalf("create: %d %+v", res.StatusCode, b)
	}

	// overlapping request is rejected and names the existing booking
	var p problem
	res = e.do(domain.RoleStaff, "POST", "/v1/bookings", map[string]any{
		"customer_id": custID, "room_id": roomID, "check_in_date": "2024-06-02", "check_out_date": "2024-06-05", "number_of_guests": 1,
	}, &p)
	want := b.Reference + " (2024-06-01 to 2024-06-03)"
	if res.StatusCode != http.StatusConflict || p.Code != domain.CodeBookingConflict || len(p.ConflictingBookings) != 1 || p.ConflictingBookings[0] != want {
		t.Fatalf("conflict: %d %+v", res.StatusCode, p)
	}

	// capacity
	res = e.do(domain.RoleStaff, "POST", "/v1/bookings", map[string]any{
		"customer_id": custID, "room_id": roomID, "check_in_date": "2024-07-01", "check_out_date": "2024-07-03", "number_of_guests": 3,
	}, &p)
	if res.StatusCode != http.StatusBadRequest || p.Code != domain.CodeCapacityExceeded {
		t.Fatalf("capacity: %d %+v", res.StatusCode, p)
	}

	var av struct {
		Available           bool     `json:"available"`
		ConflictingBookings []string `json:"conflicting_bookings"`
	}
	e.do(domain.RoleViewer, "GET", fmt.Sprintf("/v1/bookings/check-availability?room_id=%d&check_in_date=2024-06-02&check_out_date=2024-06-04", roomID), nil, &av)
	if av.Available || len(av.ConflictingBookings) != 1 {
		t.Fatalf("availability: %+v", av)
	}

	// lifecycle: skipping confirmation is illegal
	res = e.do(domain.RoleStaff, "PATCH", fmt.Sprintf("/v1/bookings/%d/status", b.ID), map[string]any{"status": "checked_in"}, &p)
	if res.StatusCode != http.StatusConflict || p.Code != domain.CodeIllegalTransition {
		t.Fatalf("illegal move: %d %+v", res.StatusCode, p)
	}
	var moved idRef
	e.do(domain.RoleStaff, "PATCH", fmt.Sprintf("/v1/bookings/%d/status", b.ID), map[string]any{"status": "confirmed"}, &moved)
	if moved.Status != "confirmed" {
		t.Fatalf("confirm: %+v", moved)
	}
	e.do(domain.RoleStaff, "POST", fmt.Sprintf("/v1/bookings/%d/cancel", b.ID), nil, &moved)
	if moved.Status != "cancelled" {
		t.Fatalf("cancel: %+v", moved)
	}
}

func TestBookingValidationErrors(t *testing.T) {
	e := newEnv(t, httpserver.Options{})
	roomID, custID := e.seed()
	cases := map[string]map[string]any{
		"bad date":       {"customer_id": custID, "room_id": roomID, "check_in_date": "06/01/2024", "check_out_date": "2024-06-03", "number_of_guests": 1},
		"missing guests": {"customer_id": custID, "room_id": roomID, "check_in_date": "2024-06-01", "check_out_date": "2024-06-03"},
		"unknown field":  {"customer_id": custID, "room_id": roomID, "check_in_date": "2024-06-01", "check_out_date": "2024-06-03", "number_of_guests": 1, "vip": true},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var p problem
			res := e.do(domain.RoleStaff, "POST", "/v1/bookings", body, &p)
			if res.StatusCode != http.StatusBadRequest || p.Code != domain.CodeInvalidInput {
				t.Fatalf("status %d %+v", res.StatusCode, p)
			}
		})
	}

	var p problem
	res := e.do(domain.RoleStaff, "POST", "/v1/bookings", map[string]any{
		"customer_id": custID, "room_id": roomID, "check_in_date": "2024-06-03", "check_out_date": "2024-06-03", "number_of_guests": 1,
	}, &p)
	if res.StatusCode != http.StatusBadRequest || p.Code != domain.CodeInvalidRange {
		t.Fatalf("range: %d %+v", res.StatusCode, p)
	}
	if res := e.do(domain.RoleViewer, "GET", "/v1/bookings/999", nil, &p); res.StatusCode != http.StatusNotFound {
		t.Fatalf("missing booking: %d", res.StatusCode)
	}
}

func TestPaymentsAndRefund(t *testing.T) {
	e := newEnv(t, httpserver.Options{})
	roomID, custID := e.seed()
	var b idRef
	e.do(domain.RoleStaff, "POST", "/v1/bookings", map[string]any{
		"customer_id": custID, "room_id": roomID, "check_in_date": "2024-06-01", "check_out_date": "2024-06-03", "number_of_guests": 1,
	}, &b)

	var pay struct {
		ID            int64  `json:"id"`
		TransactionID string `json:"transaction_id"`
		Status        string `json:"status"`
	}
	res := e.do(domain.RoleStaff, "POST", "/v1/payments", map[string]any{"booking_id": b.ID, "amount": 224, "payment_method": "upi"}, &pay)
	if res.StatusCode != http.StatusCreated || pay.Status != "pending" || !strings.HasPrefix(pay.TransactionID, "TXN") {
		t.Fatalf("create payment: %d %+v", res.StatusCode, pay)
	}
	var p problem
	res = e.do(domain.RoleStaff, "POST", "/v1/payments", map[string]any{"booking_id": b.ID, "amount": 1, "payment_method": "cash"}, &p)
	if res.StatusCode != http.StatusConflict || p.Code != domain.CodeOverpayment {
		t.Fatalf("overpay: %d %+v", res.StatusCode, p)
	}

	e.do(domain.RoleStaff, "PATCH", fmt.Sprintf("/v1/payments/%d/status", pay.ID), map[string]any{"status": "completed"}, &pay)
	if pay.Status != "completed" {
		t.Fatalf("complete: %+v", pay)
	}

	if res := e.do(domain.RoleStaff, "POST", fmt.Sprintf("/v1/payments/%d/refund", pay.ID), map[string]any{"reason": "x"}, nil); res.StatusCode != http.StatusForbidden {
		t.Fatalf("staff refund: %d", res.StatusCode)
	}
	var rf struct {
		RefundAmount float64 `json:"refund_amount"`
	}
	if res := e.do(domain.RoleAdmin, "POST", fmt.Sprintf("/v1/payments/%d/refund", pay.ID), map[string]any{"reason": "x"}, &rf); res.StatusCode != http.StatusOK || rf.RefundAmount != 224 {
		t.Fatalf("refund: %d %+v", res.StatusCode, rf)
	}

	var sum struct {
		TotalRefunded float64 `json:"total_refunded"`
		BalanceDue    float64 `json:"balance_due"`
	}
	e.do(domain.RoleViewer, "GET", fmt.Sprintf("/v1/payments/booking/%d/summary", b.ID), nil, &sum)
	if sum.TotalRefunded != 224 || sum.BalanceDue != 224 {
		t.Fatalf("summary: %+v", sum)
	}
	var byTxn struct {
		ID int64 `json:"id"`
	}
	e.do(domain.RoleViewer, "GET", "/v1/payments/transaction/"+pay.TransactionID, nil, &byTxn)
	if byTxn.ID != pay.ID {
		t.Fatalf("by transaction: %+v", byTxn)
	}
}

func TestReconcileEndpoint(t *testing.T) {
	e := newEnv(t, httpserver.Options{})
	roomID, custID := e.seed()
	var b idRef
	e.do(domain.RoleStaff, "POST", "/v1/bookings", map[string]any{
		"customer_id": custID, "room_id": roomID, "check_in_date": "2024-05-21", "check_out_date": "2024-05-22", "number_of_guests": 1,
	}, &b)
	e.do(domain.RoleStaff, "PATCH", fmt.Sprintf("/v1/bookings/%d/status", b.ID), map[string]any{"status": "confirmed"}, nil)

	if res := e.do(domain.RoleStaff, "POST", "/v1/bookings/system/reconcile", nil, nil); res.StatusCode != http.StatusForbidden {
		t.Fatalf("staff reconcile: %d", res.StatusCode)
	}
	var run struct {
		Status string `json:"status"`
		Forced bool   `json:"forced"`
		Alerts struct {
			Date     string `json:"date"`
			Arrivals []struct {
				BookingReference string `json:"booking_reference"`
			} `json:"arrivals"`
		} `json:"checkin_alerts"`
	}
	res := e.do(domain.RoleAdmin, "POST", "/v1/bookings/system/reconcile", nil, &run)
	if res.StatusCode != http.StatusOK || run.Status != "completed" || !run.Forced {
		t.Fatalf("reconcile: %d %+v", res.StatusCode, run)
	}
	if run.Alerts.Date != "2024-05-21" || len(run.Alerts.Arrivals) != 1 || run.Alerts.Arrivals[0].BookingReference != b.Reference {
		t.Fatalf("alerts: %+v", run.Alerts)
	}
}

func TestSettingsEndpoint(t *testing.T) {
	e := newEnv(t, httpserver.Options{})
	var hs struct {
		HotelName string `json:"hotel_name"`
	}
	e.do(domain.RoleViewer, "GET", "/v1/settings/hotel", nil, &hs)
	if hs.HotelName != domain.DefaultHotelName {
		t.Fatalf("defaults: %+v", hs)
	}
	if res := e.do(domain.RoleAdmin, "PUT", "/v1/settings/hotel", map[string]any{"hotel_name": "Seaside", "hotel_email": "bad"}, nil); res.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad email: %d", res.StatusCode)
	}
	e.do(domain.RoleAdmin, "PUT", "/v1/settings/hotel", map[string]any{"hotel_name": "Seaside"}, &hs)
	if hs.HotelName != "Seaside" {
		t.Fatalf("update: %+v", hs)
	}
}

func TestRoomTypesEndpoint(t *testing.T) {
	e := newEnv(t, httpserver.Options{})
	type roomType struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		IsActive bool   `json:"is_active"`
	}
	var list struct {
		Total     int        `json:"total"`
		RoomTypes []roomType `json:"room_types"`
	}
	e.do(domain.RoleViewer, "GET", "/v1/room-types", nil, &list)
	if list.Total != 4 || len(list.RoomTypes) != 4 {
		t.Fatalf("default catalogue: %+v", list)
	}

	if res := e.do(domain.RoleStaff, "POST", "/v1/room-types", map[string]any{"display_name": "Loft"}, nil); res.StatusCode != http.StatusForbidden {
		t.Fatalf("staff create: %d", res.StatusCode)
	}
	var loft roomType
	if res := e.do(domain.RoleAdmin, "POST", "/v1/room-types", map[string]any{"display_name": "Sky Loft"}, &loft); res.StatusCode != http.StatusCreated || loft.Name != "sky_loft" {
		t.Fatalf("create: %d %+v", res.StatusCode, loft)
	}
	var room idRef
	if res := e.do(domain.RoleStaff, "POST", "/v1/rooms", map[string]any{
		"room_number": "700", "room_type": "sky_loft", "price_per_night": 300, "capacity": 2,
	}, &room); res.StatusCode != http.StatusCreated {
		t.Fatalf("room on new type: %d", res.StatusCode)
	}

	var p problem
	if res := e.do(domain.RoleAdmin, "DELETE", fmt.Sprintf("/v1/room-types/%d", loft.ID), nil, &p); res.StatusCode != http.StatusConflict || p.Code != domain.CodeInUse {
		t.Fatalf("delete used type: %d %+v", res.StatusCode, p)
	}
	if res := e.do(domain.RoleAdmin, "PUT", fmt.Sprintf("/v1/room-types/%d", loft.ID), map[string]any{"is_active": false}, &loft); res.StatusCode != http.StatusOK || loft.IsActive {
		t.Fatalf("deactivate: %d %+v", res.StatusCode, loft)
	}
	if res := e.do(domain.RoleStaff, "POST", "/v1/rooms", map[string]any{
		"room_number": "701", "room_type": "sky_loft", "price_per_night": 300, "capacity": 2,
	}, &p); res.StatusCode != http.StatusBadRequest {
		t.Fatalf("room on inactive type: %d", res.StatusCode)
	}
	e.do(domain.RoleViewer, "GET", "/v1/room-types?include_inactive=true", nil, &list)
	if list.Total != 5 {
		t.Fatalf("include inactive: %d", list.Total)
	}
	if res := e.do(domain.RoleViewer, "GET", "/v1/room-types/9999", nil, &p); res.StatusCode != http.StatusNotFound {
		t.Fatalf("missing type: %d", res.StatusCode)
	}
}

func TestETagNotModified(t *testing.T) {
	e := newEnv(t, httpserver.Options{})
	roomID, _ := e.seed()
	url := fmt.Sprintf("%s/v1/rooms/%d", e.srv.URL, roomID)

	req, _ := http.NewRequest("GET", url, nil)
	req.Header.Set("Authorization", "Bearer "+e.tokens[domain.RoleViewer])
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	res.Body.Close()
	etag := res.Header.Get("ETag")
	if etag == "" {
		t.Fatalf("no ETag")
	}
	req.Header.Set("If-None-Match", etag)
	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotModified {
		t.Fatalf("status %d", res.StatusCode)
	}
}

func TestRateLimit(t *testing.T) {
	e := newEnv(t, httpserver.Options{RateLimitRPS: 1, RateLimitBurst: 2})
	codes := map[int]int{}
	for i := 0; i < 5; i++ {
		res, err := http.Get(e.srv.URL + "/healthz")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		res.Body.Close()
		codes[res.StatusCode]++
	}
	if codes[http.StatusTooManyRequests] == 0 {
		t.Fatalf("expected throttling, got %v", codes)
	}
}
