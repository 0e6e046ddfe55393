package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"hotel_backoffice/internal/adapters/observability"
	"hotel_backoffice/internal/domain"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record one sample so counters are non-zero
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	if !strings.Contains(out, "hotel_http_requests_total") {
		t.Fatalf("expected hotel_http_requests_total in output")
	}
}

func TestObserveTransition_Classifies(t *testing.T) {
	get := func(result string) float64 {
		return testutil.ToFloat64(observability.BookingTransitions.WithLabelValues("pending", "checked_in", result))
	}
	ok0, rej0, err0 := get("ok"), get("rejected"), get("error")

	observability.ObserveTransition("pending", "checked_in", nil)
	observability.ObserveTransition("pending", "checked_in", domain.IllegalTransition(domain.BookingPending, domain.BookingCheckedIn))
	observability.ObserveTransition("pending", "checked_in", domain.Persistence("update booking", io.ErrUnexpectedEOF))

	if get("ok")-ok0 != 1 || get("rejected")-rej0 != 1 || get("error")-err0 != 1 {
		t.Fatalf("unexpected counts ok=%v rejected=%v error=%v", get("ok")-ok0, get("rejected")-rej0, get("error")-err0)
	}
}

func TestObserveReconcile_CountsReservedRooms(t *testing.T) {
	before := testutil.ToFloat64(observability.RoomsReserved)
	runs := testutil.ToFloat64(observability.ReconcileRuns.WithLabelValues("completed"))

	observability.ObserveReconcile("completed", 3)
	observability.ObserveReconcile("completed", 0)

	if got := testutil.ToFloat64(observability.RoomsReserved) - before; got != 3 {
		t.Fatalf("rooms reserved delta = %v, want 3", got)
	}
	if got := testutil.ToFloat64(observability.ReconcileRuns.WithLabelValues("completed")) - runs; got != 2 {
		t.Fatalf("runs delta = %v, want 2", got)
	}
}
