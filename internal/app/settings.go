package app

import (
	"context"
	"errors"
	"strings"

	"hotel_backoffice/internal/domain"
)

type SettingsService struct {
	store domain.Store
	clock domain.Clock
}

func NewSettingsService(st domain.Store, clk domain.Clock) *SettingsService {
	return &SettingsService{store: st, clock: clk}
}

// Get returns the stored settings, or defaults before the first save.
func (s *SettingsService) Get(ctx context.Context) (domain.HotelSettings, error) {
	hs, err := s.store.GetSettings(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.HotelSettings{Name: domain.DefaultHotelName}, nil
	}
	return hs, err
}

func (s *SettingsService) Update(ctx context.Context, who domain.Identity, hs domain.HotelSettings) (domain.HotelSettings, error) {
	if err := domain.Require(who, domain.RoleAdmin); err != nil {
		return domain.HotelSettings{}, err
	}
	hs.Name = strings.TrimSpace(hs.Name)
	if hs.Name == "" {
		return domain.HotelSettings{}, domain.Validation(domain.CodeInvalidInput, "hotel name is required")
	}
	hs.UpdatedAt = s.clock.Now()
	if err := s.store.SaveSettings(ctx, hs); err != nil {
		return domain.HotelSettings{}, err
	}
	return hs, nil
}
