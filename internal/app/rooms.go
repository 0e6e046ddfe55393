package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotel_backoffice/internal/domain"
)

type RoomService struct {
	store    domain.Store
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewRoomService(st domain.Store, c domain.Cache, ttl time.Duration) *RoomService {
	return &RoomService{store: st, cache: c, cacheTTL: ttl}
}

// RoomPatch carries the fields being changed. Status is changed through
// SetStatus only.
type RoomPatch struct {
	Number        *string
	Type          *domain.RoomType
	PricePerNight *float64
	Capacity      *int
	Floor         *int
	Description   *string
	Amenities     []string
	IsActive      *bool
}

func roomKey(id int64) string { return fmt.Sprintf("room:%d", id) }

func invalidateRoom(ctx context.Context, c domain.Cache, id int64) {
	if c != nil {
		_ = c.Del(ctx, roomKey(id))
	}
}

func checkRoom(r domain.Room) error {
	switch {
	case strings.TrimSpace(r.Number) == "":
		return domain.Validation(domain.CodeInvalidInput, "room number is required")
	case !r.Status.Valid():
		return domain.Validation(domain.CodeInvalidInput, "unknown room status %q", r.Status)
	case r.PricePerNight <= 0:
		return domain.Validation(domain.CodeInvalidInput, "price per night must be positive")
	case r.Capacity <= 0:
		return domain.Validation(domain.CodeInvalidInput, "capacity must be positive")
	case r.Floor < 0:
		return domain.Validation(domain.CodeInvalidInput, "floor must not be negative")
	}
	return nil
}

func (s *RoomService) Create(ctx context.Context, who domain.Identity, r domain.Room) (domain.Room, error) {
	if err := domain.Require(who, domain.Writers...); err != nil {
		return domain.Room{}, err
	}
	if r.Status == "" {
		r.Status = domain.RoomAvailable
	}
	if err := checkRoom(r); err != nil {
		return domain.Room{}, err
	}
	err := s.store.InTx(ctx, func(tx domain.Repos) error {
		if err := requireActiveType(ctx, tx, r.Type); err != nil {
			return err
		}
		return tx.CreateRoom(ctx, &r)
	})
	if err != nil {
		return domain.Room{}, err
	}
	return r, nil
}

// Get is a cache-aside read.
func (s *RoomService) Get(ctx context.Context, id int64) (domain.Room, error) {
	key := roomKey(id)
	var r domain.Room
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &r); ok {
			return r, nil
		}
	}
	r, err := s.store.GetRoom(ctx, id)
	if err != nil {
		return domain.Room{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, r, int(s.cacheTTL.Seconds()))
	}
	return r, nil
}

func (s *RoomService) List(ctx context.Context, f domain.RoomFilter) (Page[domain.Room], error) {
	f.Limit = clampLimit(f.Limit)
	items, total, err := s.store.ListRooms(ctx, f)
	if err != nil {
		return Page[domain.Room]{}, err
	}
	return Page[domain.Room]{Total: total, Items: items}, nil
}

// Available lists active rooms whose status is available.
func (s *RoomService) Available(ctx context.Context, f domain.RoomFilter) (Page[domain.Room], error) {
	st, active := domain.RoomAvailable, true
	f.Status, f.Active = &st, &active
	return s.List(ctx, f)
}

func (s *RoomService) Update(ctx context.Context, who domain.Identity, id int64, p RoomPatch) (domain.Room, error) {
	if err := domain.Require(who, domain.Writers...); err != nil {
		return domain.Room{}, err
	}
	var out domain.Room
	err := s.store.InTx(ctx, func(tx domain.Repos) error {
		r, err := tx.LockRoom(ctx, id)
		if err != nil {
			return err
		}
		if p.Number != nil {
			r.Number = *p.Number
		}
		if p.Type != nil && *p.Type != r.Type {
			if err := requireActiveType(ctx, tx, *p.Type); err != nil {
				return err
			}
			r.Type = *p.Type
		}
		if p.PricePerNight != nil {
			r.PricePerNight = *p.PricePerNight
		}
		if p.Capacity != nil {
			r.Capacity = *p.Capacity
		}
		if p.Floor != nil {
			r.Floor = *p.Floor
		}
		if p.Description != nil {
			r.Description = p.Description
		}
		if p.Amenities != nil {
			r.Amenities = p.Amenities
		}
		if p.IsActive != nil {
			r.IsActive = *p.IsActive
		}
		if err := checkRoom(r); err != nil {
			return err
		}
		if err := tx.UpdateRoom(ctx, r); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return domain.Room{}, err
	}
	invalidateRoom(ctx, s.cache, id)
	return out, nil
}

// SetStatus is the manual override used by front desk and housekeeping.
func (s *RoomService) SetStatus(ctx context.Context, who domain.Identity, id int64, st domain.RoomStatus) (domain.Room, error) {
	if err := domain.Require(who, domain.Writers...); err != nil {
		return domain.Room{}, err
	}
	if !st.Valid() {
		return domain.Room{}, domain.Validation(domain.CodeInvalidInput, "unknown room status %q", st)
	}
	var out domain.Room
	err := s.store.InTx(ctx, func(tx domain.Repos) error {
		r, err := tx.LockRoom(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.UpdateRoomStatus(ctx, id, st); err != nil {
			return err
		}
		r.Status = st
		out = r
		return nil
	})
	if err != nil {
		return domain.Room{}, err
	}
	invalidateRoom(ctx, s.cache, id)
	return out, nil
}

// Delete removes a room that has never been booked; deactivate otherwise.
func (s *RoomService) Delete(ctx context.Context, who domain.Identity, id int64) error {
	if err := domain.Require(who, domain.RoleAdmin); err != nil {
		return err
	}
	err := s.store.InTx(ctx, func(tx domain.Repos) error {
		if _, err := tx.LockRoom(ctx, id); err != nil {
			return err
		}
		n, err := tx.CountRoomBookings(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.Conflict(domain.CodeInUse, "cannot delete room with existing bookings; deactivate it instead")
		}
		return tx.DeleteRoom(ctx, id)
	})
	if err != nil {
		return err
	}
	invalidateRoom(ctx, s.cache, id)
	return nil
}
