package mysql

import (
	"context"
	"database/sql"
	"errors"

	"hotel_backoffice/internal/domain"
)

func scanRoomType(s scanner) (domain.RoomTypeConfig, error) {
	var t domain.RoomTypeConfig
	err := s.Scan(&t.ID, &t.Name, &t.DisplayName, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *Repo) CreateRoomType(ctx context.Context, t *domain.RoomTypeConfig) error {
	now := r.now()
	res, err := r.q.ExecContext(ctx, insertRoomTypeSQL, t.Name, t.DisplayName, t.IsActive, now, now)
	if err != nil {
		return wrap("insert room type", err)
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return wrap("insert room type", err)
	}
	t.CreatedAt, t.UpdatedAt = now, now
	return nil
}

func (r *Repo) getRoomType(ctx context.Context, col string, key any) (domain.RoomTypeConfig, error) {
	t, err := scanRoomType(r.q.QueryRowContext(ctx,
		"SELECT "+roomTypeCols+" FROM room_type_configs WHERE "+col+" = ?", key))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RoomTypeConfig{}, domain.NotFound("room type", key)
	}
	return t, wrap("get room type", err)
}

func (r *Repo) GetRoomType(ctx context.Context, id int64) (domain.RoomTypeConfig, error) {
	return r.getRoomType(ctx, "id", id)
}

func (r *Repo) GetRoomTypeByName(ctx context.Context, name domain.RoomType) (domain.RoomTypeConfig, error) {
	return r.getRoomType(ctx, "name", name)
}

func (r *Repo) ListRoomTypes(ctx context.Context, includeInactive bool) ([]domain.RoomTypeConfig, error) {
	var w where
	if !includeInactive {
		w.add("is_active = TRUE")
	}
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+roomTypeCols+" FROM room_type_configs"+w.String()+" ORDER BY display_name", w.args...)
	if err != nil {
		return nil, wrap("list room types", err)
	}
	defer rows.Close()

	out := []domain.RoomTypeConfig{}
	for rows.Next() {
		t, err := scanRoomType(rows)
		if err != nil {
			return nil, wrap("scan room type", err)
		}
		out = append(out, t)
	}
	return out, wrap("list room types", rows.Err())
}

// UpdateRoomType writes the display name and active flag; the name is the
// rooms' foreign key and never changes.
func (r *Repo) UpdateRoomType(ctx context.Context, t domain.RoomTypeConfig) error {
	res, err := r.q.ExecContext(ctx,
		"UPDATE room_type_configs SET display_name = ?, is_active = ?, updated_at = ? WHERE id = ?",
		t.DisplayName, t.IsActive, r.now(), t.ID)
	if err != nil {
		return wrap("update room type", err)
	}
	return r.mustAffectIn(ctx, "room_type_configs", "room type", t.ID, res)
}

func (r *Repo) DeleteRoomType(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM room_type_configs WHERE id = ?", id)
	if err != nil {
		return wrap("delete room type", err)
	}
	return r.mustAffectIn(ctx, "room_type_configs", "room type", id, res)
}

func (r *Repo) CountRoomsOfType(ctx context.Context, name domain.RoomType) (int, error) {
	var w where
	w.add("room_type = ?", name)
	return r.count(ctx, "rooms", &w)
}
