package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hotel_backoffice/internal/domain"
)

func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b        domain.Booking
		requests sql.NullString
		in, out  sql.NullTime
	)
	err := s.Scan(&b.ID, &b.Reference, &b.CustomerID, &b.RoomID, &b.CreatedBy, &b.CheckIn, &b.CheckOut,
		&b.Guests, &b.Nights, &b.RoomPrice, &b.TotalAmount, &b.Discount, &b.TaxPercent, &b.Tax,
		&b.FinalAmount, &b.Status, &requests, &b.CreatedAt, &b.UpdatedAt, &in, &out)
	if err != nil {
		return domain.Booking{}, err
	}
	b.CheckIn, b.CheckOut = domain.DateOf(b.CheckIn), domain.DateOf(b.CheckOut)
	b.SpecialRequests = strPtr(requests)
	b.CheckedInAt, b.CheckedOutAt = timePtr(in), timePtr(out)
	return b, nil
}

func (r *Repo) queryBookings(ctx context.Context, op, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	out := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, wrap("scan booking", err)
		}
		out = append(out, b)
	}
	return out, wrap(op, rows.Err())
}

func (r *Repo) CreateBooking(ctx context.Context, b *domain.Booking) error {
	now := r.now()
	res, err := r.q.ExecContext(ctx, insertBookingSQL,
		b.Reference, b.CustomerID, b.RoomID, b.CreatedBy, valDate(b.CheckIn), valDate(b.CheckOut),
		b.Guests, b.Nights, b.RoomPrice, b.TotalAmount, b.Discount, b.TaxPercent, b.Tax, b.FinalAmount,
		b.Status, valStr(b.SpecialRequests), now, now, valTime(b.CheckedInAt), valTime(b.CheckedOutAt))
	if err != nil {
		return wrap("insert booking", err)
	}
	if b.ID, err = res.LastInsertId(); err != nil {
		return wrap("insert booking", err)
	}
	b.CreatedAt, b.UpdatedAt = now, now
	return nil
}

func (r *Repo) getBooking(ctx context.Context, id int64, lock bool) (domain.Booking, error) {
	q := "SELECT " + bookingCols + " FROM bookings WHERE id = ?"
	if lock {
		q += " FOR UPDATE"
	}
	b, err := scanBooking(r.q.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, domain.NotFound("booking", id)
	}
	return b, wrap("get booking", err)
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	return r.getBooking(ctx, id, false)
}

func (r *Repo) LockBooking(ctx context.Context, id int64) (domain.Booking, error) {
	return r.getBooking(ctx, id, true)
}

func (r *Repo) FindOverlappingBookings(ctx context.Context, roomID int64, rng domain.DateRange, excludeID int64) ([]domain.Booking, error) {
	return r.queryBookings(ctx, "find overlapping bookings", overlapSQL,
		roomID, excludeID, valDate(rng.End), valDate(rng.Start))
}

func (r *Repo) UpdateBooking(ctx context.Context, b domain.Booking) error {
	res, err := r.q.ExecContext(ctx, updateBookingSQL,
		valDate(b.CheckIn), valDate(b.CheckOut), b.Guests, b.Nights, b.RoomPrice, b.TotalAmount,
		b.Discount, b.TaxPercent, b.Tax, b.FinalAmount, b.Status, valStr(b.SpecialRequests), r.now(),
		valTime(b.CheckedInAt), valTime(b.CheckedOutAt), b.ID)
	if err != nil {
		return wrap("update booking", err)
	}
	return r.mustAffect(ctx, "booking", b.ID, res)
}

func (r *Repo) UpdateBookingStatus(ctx context.Context, id int64, s domain.BookingStatus, checkedInAt, checkedOutAt *time.Time) error {
	res, err := r.q.ExecContext(ctx, updateBookingStatusSQL, s, valTime(checkedInAt), valTime(checkedOutAt), r.now(), id)
	if err != nil {
		return wrap("update booking status", err)
	}
	return r.mustAffect(ctx, "booking", id, res)
}

func statusStrings(ss []domain.BookingStatus) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}

func (r *Repo) ListBookings(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, int, error) {
	var w where
	w.in("status", statusStrings(f.Statuses))
	if f.CustomerID != nil {
		w.add("customer_id = ?", *f.CustomerID)
	}
	if f.RoomID != nil {
		w.add("room_id = ?", *f.RoomID)
	}
	if f.CheckInDate != nil {
		w.add("check_in_date = ?", valDate(*f.CheckInDate))
	}
	if f.Reference != "" {
		w.add("booking_reference LIKE ?", likeArg(f.Reference))
	}
	total, err := r.count(ctx, "bookings", &w)
	if err != nil {
		return nil, 0, err
	}
	out, err := r.queryBookings(ctx, "list bookings",
		"SELECT "+bookingCols+" FROM bookings"+w.String()+" ORDER BY id DESC"+page(f.Skip, f.Limit), w.args...)
	return out, total, err
}

func (r *Repo) bookingsOn(ctx context.Context, col string, day time.Time, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	var w where
	w.add(col+" = ?", valDate(day))
	w.in("status", statusStrings(statuses))
	return r.queryBookings(ctx, "bookings by "+col,
		"SELECT "+bookingCols+" FROM bookings"+w.String()+" ORDER BY id", w.args...)
}

func (r *Repo) GetBookingsByCheckInDate(ctx context.Context, day time.Time, statuses ...domain.BookingStatus) ([]domain.Booking, error) {
	return r.bookingsOn(ctx, "check_in_date", day, statuses)
}

func (r *Repo) GetBookingsByCheckOutDate(ctx context.Context, day time.Time, statuses ...domain.BookingStatus) ([]domain.Booking, error) {
	return r.bookingsOn(ctx, "check_out_date", day, statuses)
}
