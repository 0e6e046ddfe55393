package mysql

import (
	"context"
	"database/sql"
	"errors"

	"hotel_backoffice/internal/domain"
)

func scanCustomer(s scanner) (domain.Customer, error) {
	var (
		c                                           domain.Customer
		addr, city, state, country, zip, idt, idnum sql.NullString
		dob                                         sql.NullTime
	)
	err := s.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &addr, &city, &state, &country,
		&zip, &idt, &idnum, &dob, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Customer{}, err
	}
	c.Address, c.City, c.State, c.Country = strPtr(addr), strPtr(city), strPtr(state), strPtr(country)
	c.ZipCode, c.IDType, c.IDNumber = strPtr(zip), strPtr(idt), strPtr(idnum)
	c.DateOfBirth = timePtr(dob)
	return c, nil
}

func (r *Repo) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	now := r.now()
	res, err := r.q.ExecContext(ctx, insertCustomerSQL,
		c.FirstName, c.LastName, c.Email, c.Phone, valStr(c.Address), valStr(c.City), valStr(c.State),
		valStr(c.Country), valStr(c.ZipCode), valStr(c.IDType), valStr(c.IDNumber), valDatePtr(c.DateOfBirth),
		now, now)
	if err != nil {
		return wrap("insert customer", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return wrap("insert customer", err)
	}
	c.CreatedAt, c.UpdatedAt = now, now
	return nil
}

func (r *Repo) customerBy(ctx context.Context, col string, key any) (domain.Customer, error) {
	c, err := scanCustomer(r.q.QueryRowContext(ctx, "SELECT "+customerCols+" FROM customers WHERE "+col+" = ?", key))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, domain.NotFound("customer", key)
	}
	return c, wrap("get customer", err)
}

func (r *Repo) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	return r.customerBy(ctx, "id", id)
}

// GetCustomerByEmail relies on the column's case-insensitive collation.
func (r *Repo) GetCustomerByEmail(ctx context.Context, email string) (domain.Customer, error) {
	return r.customerBy(ctx, "email", email)
}

func (r *Repo) GetCustomerByPhone(ctx context.Context, phone string) (domain.Customer, error) {
	return r.customerBy(ctx, "phone", phone)
}

func (r *Repo) ListCustomers(ctx context.Context, f domain.CustomerFilter) ([]domain.Customer, int, error) {
	var w where
	if f.Search != "" {
		p := likeArg(f.Search)
		w.add("(first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR phone LIKE ?)", p, p, p, p)
	}
	total, err := r.count(ctx, "customers", &w)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+customerCols+" FROM customers"+w.String()+" ORDER BY id DESC"+page(f.Skip, f.Limit), w.args...)
	if err != nil {
		return nil, 0, wrap("list customers", err)
	}
	defer rows.Close()

	out := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, wrap("scan customer", err)
		}
		out = append(out, c)
	}
	return out, total, wrap("list customers", rows.Err())
}

func (r *Repo) UpdateCustomer(ctx context.Context, c domain.Customer) error {
	res, err := r.q.ExecContext(ctx, updateCustomerSQL,
		c.FirstName, c.LastName, c.Email, c.Phone, valStr(c.Address), valStr(c.City), valStr(c.State),
		valStr(c.Country), valStr(c.ZipCode), valStr(c.IDType), valStr(c.IDNumber), valDatePtr(c.DateOfBirth),
		r.now(), c.ID)
	if err != nil {
		return wrap("update customer", err)
	}
	return r.mustAffect(ctx, "customer", c.ID, res)
}

func (r *Repo) DeleteCustomer(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM customers WHERE id = ?", id)
	if err != nil {
		return wrap("delete customer", err)
	}
	return r.mustAffect(ctx, "customer", id, res)
}

func (r *Repo) CountCustomerBookings(ctx context.Context, customerID int64) (int, error) {
	var w where
	w.add("customer_id = ?", customerID)
	return r.count(ctx, "bookings", &w)
}
