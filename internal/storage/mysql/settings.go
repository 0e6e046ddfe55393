package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hotel_backoffice/internal/domain"
)

func (r *Repo) GetSettings(ctx context.Context) (domain.HotelSettings, error) {
	var (
		hs                        domain.HotelSettings
		addr, phone, email, gstin sql.NullString
	)
	err := r.q.QueryRowContext(ctx, getSettingsSQL).Scan(&hs.Name, &addr, &phone, &email, &gstin, &hs.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.HotelSettings{}, domain.NotFound("settings", "hotel")
	}
	if err != nil {
		return domain.HotelSettings{}, wrap("get settings", err)
	}
	hs.Address, hs.Phone, hs.Email, hs.GSTNumber = strPtr(addr), strPtr(phone), strPtr(email), strPtr(gstin)
	return hs, nil
}

func (r *Repo) SaveSettings(ctx context.Context, hs domain.HotelSettings) error {
	at := hs.UpdatedAt
	if at.IsZero() {
		at = r.now()
	}
	_, err := r.q.ExecContext(ctx, saveSettingsSQL,
		hs.Name, valStr(hs.Address), valStr(hs.Phone), valStr(hs.Email), valStr(hs.GSTNumber), at.UTC())
	return wrap("save settings", err)
}

// LockLastRun takes the job's marker row FOR UPDATE; a concurrent run blocks
// here until the first commits and then sees its date.
func (r *Repo) LockLastRun(ctx context.Context, job string) (time.Time, bool, error) {
	var day sql.NullTime
	err := r.q.QueryRowContext(ctx, lockLastRunSQL, job).Scan(&day)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, wrap("lock job run", err)
	}
	if !day.Valid {
		return time.Time{}, false, nil
	}
	return domain.DateOf(day.Time), true, nil
}

func (r *Repo) SetLastRun(ctx context.Context, job string, day time.Time) error {
	_, err := r.q.ExecContext(ctx, setLastRunSQL, job, valDate(day))
	return wrap("set job run", err)
}
