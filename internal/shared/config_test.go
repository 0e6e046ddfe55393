package shared

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"STORE", "CACHE_TTL_SECONDS", "DEFAULT_TAX_PERCENT", "RECONCILE_INTERVAL_SECONDS", "HOTEL_TZ"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.Store != "mysql" || c.CacheTTL != 5*time.Minute || c.DefaultTaxPercent != 12 {
		t.Fatalf("defaults: %+v", c)
	}
	if c.ReconcileEvery != time.Hour || c.Location != time.UTC {
		t.Fatalf("defaults: every=%s loc=%s", c.ReconcileEvery, c.Location)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE", "memory")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("DEFAULT_TAX_PERCENT", "18.5")
	t.Setenv("RECONCILE_INTERVAL_SECONDS", "0")
	t.Setenv("REDIS_DB", "nope")
	c := Load()
	if c.Store != "memory" || c.CacheTTL != time.Minute || c.DefaultTaxPercent != 18.5 {
		t.Fatalf("overrides: %+v", c)
	}
	if c.ReconcileEvery != 0 {
		t.Fatalf("interval 0 must disable the scheduler, got %s", c.ReconcileEvery)
	}
	if c.RedisDB != 0 {
		t.Fatalf("bad int should fall back, got %d", c.RedisDB)
	}
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("STORE", "postgres")
	t.Setenv("HOTEL_TZ", "Not/AZone")
	c := Load()
	if c.Store != "mysql" || c.Location != time.UTC {
		t.Fatalf("fallbacks: store=%s loc=%s", c.Store, c.Location)
	}
}

func TestSystemClock(t *testing.T) {
	if loc := (SystemClock{}).Now().Location(); loc != time.UTC {
		t.Fatalf("nil location should read UTC, got %s", loc)
	}
	loc := time.FixedZone("hotel", 5*3600)
	if got := (SystemClock{Loc: loc}).Now().Location(); got != loc {
		t.Fatalf("got %s", got)
	}
}
