package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"hotel_backoffice/internal/domain"
)

type scanner interface{ Scan(dest ...any) error }

func scanRoom(s scanner) (domain.Room, error) {
	var (
		rm        domain.Room
		desc      sql.NullString
		amenities []byte
	)
	err := s.Scan(&rm.ID, &rm.Number, &rm.Type, &rm.Status, &rm.PricePerNight, &rm.Capacity, &rm.Floor,
		&desc, &amenities, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		return domain.Room{}, err
	}
	rm.Description = strPtr(desc)
	if len(amenities) > 0 {
		if err := json.Unmarshal(amenities, &rm.Amenities); err != nil {
			return domain.Room{}, err
		}
	}
	return rm, nil
}

func amenitiesJSON(a []string) any {
	if a == nil {
		return nil
	}
	b, _ := json.Marshal(a)
	return string(b)
}

func (r *Repo) CreateRoom(ctx context.Context, rm *domain.Room) error {
	now := r.now()
	res, err := r.q.ExecContext(ctx, insertRoomSQL,
		rm.Number, rm.Type, rm.Status, rm.PricePerNight, rm.Capacity, rm.Floor,
		valStr(rm.Description), amenitiesJSON(rm.Amenities), rm.IsActive, now, now)
	if err != nil {
		return wrap("insert room", err)
	}
	if rm.ID, err = res.LastInsertId(); err != nil {
		return wrap("insert room", err)
	}
	rm.CreatedAt, rm.UpdatedAt = now, now
	return nil
}

func (r *Repo) getRoom(ctx context.Context, id int64, lock bool) (domain.Room, error) {
	q := "SELECT " + roomCols + " FROM rooms WHERE id = ?"
	if lock {
		q += " FOR UPDATE"
	}
	rm, err := scanRoom(r.q.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Room{}, domain.NotFound("room", id)
	}
	return rm, wrap("get room", err)
}

func (r *Repo) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	return r.getRoom(ctx, id, false)
}

func (r *Repo) LockRoom(ctx context.Context, id int64) (domain.Room, error) {
	return r.getRoom(ctx, id, true)
}

func (r *Repo) ListRooms(ctx context.Context, f domain.RoomFilter) ([]domain.Room, int, error) {
	var w where
	if f.Type != nil {
		w.add("room_type = ?", *f.Type)
	}
	if f.Status != nil {
		w.add("status = ?", *f.Status)
	}
	if f.Floor != nil {
		w.add("floor = ?", *f.Floor)
	}
	if f.Active != nil {
		w.add("is_active = ?", *f.Active)
	}
	if f.MinPrice != nil {
		w.add("price_per_night >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		w.add("price_per_night <= ?", *f.MaxPrice)
	}
	total, err := r.count(ctx, "rooms", &w)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+roomCols+" FROM rooms"+w.String()+" ORDER BY room_number"+page(f.Skip, f.Limit), w.args...)
	if err != nil {
		return nil, 0, wrap("list rooms", err)
	}
	defer rows.Close()

	out := []domain.Room{}
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, 0, wrap("scan room", err)
		}
		out = append(out, rm)
	}
	return out, total, wrap("list rooms", rows.Err())
}

func (r *Repo) UpdateRoom(ctx context.Context, rm domain.Room) error {
	res, err := r.q.ExecContext(ctx, updateRoomSQL,
		rm.Number, rm.Type, rm.Status, rm.PricePerNight, rm.Capacity, rm.Floor,
		valStr(rm.Description), amenitiesJSON(rm.Amenities), rm.IsActive, r.now(), rm.ID)
	if err != nil {
		return wrap("update room", err)
	}
	return r.mustAffect(ctx, "room", rm.ID, res)
}

func (r *Repo) UpdateRoomStatus(ctx context.Context, id int64, s domain.RoomStatus) error {
	res, err := r.q.ExecContext(ctx, "UPDATE rooms SET status = ?, updated_at = ? WHERE id = ?", s, r.now(), id)
	if err != nil {
		return wrap("update room status", err)
	}
	return r.mustAffect(ctx, "room", id, res)
}

func (r *Repo) DeleteRoom(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
	if err != nil {
		return wrap("delete room", err)
	}
	return r.mustAffect(ctx, "room", id, res)
}

func (r *Repo) CountRoomBookings(ctx context.Context, roomID int64) (int, error) {
	var w where
	w.add("room_id = ?", roomID)
	return r.count(ctx, "bookings", &w)
}
