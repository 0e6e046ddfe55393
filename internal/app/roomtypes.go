package app

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_backoffice/internal/domain"
)

// RoomTypeService manages the room type catalogue. Reads are open to every
// role; changes are admin only, like hotel settings.
type RoomTypeService struct {
	store domain.Store
}

func NewRoomTypeService(st domain.Store) *RoomTypeService {
	return &RoomTypeService{store: st}
}

type RoomTypePatch struct {
	DisplayName *string
	IsActive    *bool
}

func (s *RoomTypeService) List(ctx context.Context, includeInactive bool) ([]domain.RoomTypeConfig, error) {
	return s.store.ListRoomTypes(ctx, includeInactive)
}

func (s *RoomTypeService) Get(ctx context.Context, id int64) (domain.RoomTypeConfig, error) {
	return s.store.GetRoomType(ctx, id)
}

// Create adds an active type. An empty name is derived from the display name.
func (s *RoomTypeService) Create(ctx context.Context, who domain.Identity, name domain.RoomType, display string) (domain.RoomTypeConfig, error) {
	if err := domain.Require(who, domain.RoleAdmin); err != nil {
		return domain.RoomTypeConfig{}, err
	}
	display = strings.TrimSpace(display)
	if display == "" {
		return domain.RoomTypeConfig{}, domain.Validation(domain.CodeInvalidInput, "display name is required")
	}
	if name == "" {
		name = domain.RoomTypeName(display)
	}
	if !name.WellFormed() {
		return domain.RoomTypeConfig{}, domain.Validation(domain.CodeInvalidInput,
			"room type name %q must be 1-30 characters of a-z, 0-9 and _", name)
	}
	t := domain.RoomTypeConfig{Name: name, DisplayName: display, IsActive: true}
	if err := s.store.CreateRoomType(ctx, &t); err != nil {
		return domain.RoomTypeConfig{}, err
	}
	log.Info().Str("room_type", string(t.Name)).Msg("room type created")
	return t, nil
}

// Update renames or (de)activates a type. Deactivating keeps existing rooms
// on it but stops new rooms from using it.
func (s *RoomTypeService) Update(ctx context.Context, who domain.Identity, id int64, p RoomTypePatch) (domain.RoomTypeConfig, error) {
	if err := domain.Require(who, domain.RoleAdmin); err != nil {
		return domain.RoomTypeConfig{}, err
	}
	var out domain.RoomTypeConfig
	err := s.store.InTx(ctx, func(tx domain.Repos) error {
		t, err := tx.GetRoomType(ctx, id)
		if err != nil {
			return err
		}
		if p.DisplayName != nil {
			d := strings.TrimSpace(*p.DisplayName)
			if d == "" {
				return domain.Validation(domain.CodeInvalidInput, "display name is required")
			}
			t.DisplayName = d
		}
		if p.IsActive != nil {
			t.IsActive = *p.IsActive
		}
		if err := tx.UpdateRoomType(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	return out, err
}

// Delete removes a type no room uses; deactivate it otherwise.
func (s *RoomTypeService) Delete(ctx context.Context, who domain.Identity, id int64) error {
	if err := domain.Require(who, domain.RoleAdmin); err != nil {
		return err
	}
	return s.store.InTx(ctx, func(tx domain.Repos) error {
		t, err := tx.GetRoomType(ctx, id)
		if err != nil {
			return err
		}
		n, err := tx.CountRoomsOfType(ctx, t.Name)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.Conflict(domain.CodeInUse,
				"cannot delete room type %q: %d room(s) use it; reassign them or deactivate the type", t.DisplayName, n)
		}
		return tx.DeleteRoomType(ctx, id)
	})
}

// SeedDefaults restores the default catalogue when it is empty and reports
// how many types were added.
func (s *RoomTypeService) SeedDefaults(ctx context.Context, who domain.Identity) (int, error) {
	if err := domain.Require(who, domain.RoleAdmin); err != nil {
		return 0, err
	}
	added := 0
	err := s.store.InTx(ctx, func(tx domain.Repos) error {
		added = 0
		existing, err := tx.ListRoomTypes(ctx, true)
		if err != nil || len(existing) > 0 {
			return err
		}
		for _, t := range domain.DefaultRoomTypes() {
			if err := tx.CreateRoomType(ctx, &t); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	return added, err
}

// requireActiveType resolves a room's type against the catalogue.
func requireActiveType(ctx context.Context, tx domain.Repos, name domain.RoomType) error {
	t, err := tx.GetRoomTypeByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Validation(domain.CodeInvalidInput, "unknown room type %q", name)
	}
	if err != nil {
		return err
	}
	if !t.IsActive {
		return domain.Validation(domain.CodeInvalidInput, "room type %q is inactive", name)
	}
	return nil
}
