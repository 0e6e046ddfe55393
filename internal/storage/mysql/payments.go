package mysql

import (
	"context"
	"database/sql"
	"errors"

	"hotel_backoffice/internal/domain"
)

func scanPayment(s scanner) (domain.Payment, error) {
	var (
		p          domain.Payment
		paidAt     sql.NullTime
		ref, notes sql.NullString
	)
	err := s.Scan(&p.ID, &p.TransactionID, &p.BookingID, &p.Amount, &p.Method, &p.Status, &paidAt,
		&ref, &notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Payment{}, err
	}
	p.PaidAt, p.ReferenceNumber, p.Notes = timePtr(paidAt), strPtr(ref), strPtr(notes)
	return p, nil
}

func (r *Repo) CreatePayment(ctx context.Context, p *domain.Payment) error {
	now := r.now()
	res, err := r.q.ExecContext(ctx, insertPaymentSQL,
		p.TransactionID, p.BookingID, p.Amount, p.Method, p.Status, valTime(p.PaidAt),
		valStr(p.ReferenceNumber), valStr(p.Notes), now, now)
	if err != nil {
		return wrap("insert payment", err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return wrap("insert payment", err)
	}
	p.CreatedAt, p.UpdatedAt = now, now
	return nil
}

func (r *Repo) paymentBy(ctx context.Context, col string, key any) (domain.Payment, error) {
	p, err := scanPayment(r.q.QueryRowContext(ctx, "SELECT "+paymentCols+" FROM payments WHERE "+col+" = ?", key))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Payment{}, domain.NotFound("payment", key)
	}
	return p, wrap("get payment", err)
}

func (r *Repo) GetPayment(ctx context.Context, id int64) (domain.Payment, error) {
	return r.paymentBy(ctx, "id", id)
}

func (r *Repo) GetPaymentByTransaction(ctx context.Context, txn string) (domain.Payment, error) {
	return r.paymentBy(ctx, "transaction_id", txn)
}

func (r *Repo) ListPayments(ctx context.Context, f domain.PaymentFilter) ([]domain.Payment, int, error) {
	var w where
	if f.BookingID != nil {
		w.add("booking_id = ?", *f.BookingID)
	}
	if f.Status != nil {
		w.add("status = ?", *f.Status)
	}
	if f.Method != nil {
		w.add("payment_method = ?", *f.Method)
	}
	total, err := r.count(ctx, "payments", &w)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+paymentCols+" FROM payments"+w.String()+" ORDER BY id DESC"+page(f.Skip, f.Limit), w.args...)
	if err != nil {
		return nil, 0, wrap("list payments", err)
	}
	defer rows.Close()

	out := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, wrap("scan payment", err)
		}
		out = append(out, p)
	}
	return out, total, wrap("list payments", rows.Err())
}

func (r *Repo) UpdatePayment(ctx context.Context, p domain.Payment) error {
	res, err := r.q.ExecContext(ctx, updatePaymentSQL,
		p.Amount, p.Method, p.Status, valTime(p.PaidAt), valStr(p.ReferenceNumber), valStr(p.Notes), r.now(), p.ID)
	if err != nil {
		return wrap("update payment", err)
	}
	return r.mustAffect(ctx, "payment", p.ID, res)
}
