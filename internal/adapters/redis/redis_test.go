package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	redisad "hotel_backoffice/internal/adapters/redis"
	"hotel_backoffice/internal/domain"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestCache_SetGetDel(t *testing.T) {
	mr, c := newClient(t)
	cache := redisad.New(c)
	ctx := context.Background()

	var got domain.Room
	if ok, err := cache.Get(ctx, "room:1", &got); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	in := domain.Room{ID: 1, Number: "101", Type: domain.RoomDouble, Status: domain.RoomAvailable, PricePerNight: 100, Capacity: 2, IsActive: true}
	if err := cache.Set(ctx, "room:1", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("room:1"); ttl != 60*time.Second {
		t.Fatalf("ttl = %v", ttl)
	}
	ok, err := cache.Get(ctx, "room:1", &got)
	if !ok || err != nil {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Number != "101" || got.Capacity != 2 {
		t.Fatalf("unexpected room: %+v", got)
	}

	if err := cache.Del(ctx, "room:1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if mr.Exists("room:1") {
		t.Fatalf("key still present after Del")
	}
}

func TestCache_GarbageIsAMiss(t *testing.T) {
	mr, c := newClient(t)
	_ = mr.Set("room:2", "not json")
	var got domain.Room
	ok, err := redisad.New(c).Get(context.Background(), "room:2", &got)
	if ok || err != nil {
		t.Fatalf("expected silent miss, got ok=%v err=%v", ok, err)
	}
}

func TestLocker_ExclusiveUntilReleased(t *testing.T) {
	mr, c := newClient(t)
	l := redisad.NewLocker(c)
	ctx := context.Background()

	unlock, ok, err := l.TryLock(ctx, "lock:reconcile", time.Minute)
	if !ok || err != nil {
		t.Fatalf("first lock: ok=%v err=%v", ok, err)
	}
	if _, ok, err := l.TryLock(ctx, "lock:reconcile", time.Minute); ok || err != nil {
		t.Fatalf("second lock should be refused: ok=%v err=%v", ok, err)
	}
	unlock()
	if mr.Exists("lock:reconcile") {
		t.Fatalf("lock key not released")
	}
	if _, ok, _ := l.TryLock(ctx, "lock:reconcile", time.Minute); !ok {
		t.Fatalf("lock should be free again")
	}
}

func TestLocker_ExpiredLeaseIsNotStolenBack(t *testing.T) {
	mr, c := newClient(t)
	l := redisad.NewLocker(c)
	ctx := context.Background()

	unlock, ok, _ := l.TryLock(ctx, "k", time.Second)
	if !ok {
		t.Fatalf("lock failed")
	}
	mr.FastForward(2 * time.Second)
	if _, ok, _ := l.TryLock(ctx, "k", time.Minute); !ok {
		t.Fatalf("expired lease should be free")
	}
	// the stale holder must not release the new lease
	unlock()
	if !mr.Exists("k") {
		t.Fatalf("stale unlock removed another holder's lease")
	}
}
