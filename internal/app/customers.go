package app

import (
	"context"
	"strings"
	"time"

	"hotel_backoffice/internal/domain"
)

type CustomerService struct {
	store domain.Store
}

func NewCustomerService(st domain.Store) *CustomerService {
	return &CustomerService{store: st}
}

type CustomerPatch struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Phone       *string
	Address     *string
	City        *string
	State       *string
	Country     *string
	ZipCode     *string
	IDType      *string
	IDNumber    *string
	DateOfBirth *time.Time
}

func checkCustomer(c domain.Customer) error {
	switch {
	case strings.TrimSpace(c.FirstName) == "" || strings.TrimSpace(c.LastName) == "":
		return domain.Validation(domain.CodeInvalidInput, "first and last name are required")
	case !strings.Contains(c.Email, "@"):
		return domain.Validation(domain.CodeInvalidInput, "a valid email is required")
	case strings.TrimSpace(c.Phone) == "":
		return domain.Validation(domain.CodeInvalidInput, "phone is required")
	}
	return nil
}

func (s *CustomerService) Create(ctx context.Context, who domain.Identity, c domain.Customer) (domain.Customer, error) {
	if err := domain.Require(who, domain.Writers...); err != nil {
		return domain.Customer{}, err
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if err := checkCustomer(c); err != nil {
		return domain.Customer{}, err
	}
	if err := s.store.CreateCustomer(ctx, &c); err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

func (s *CustomerService) Get(ctx context.Context, id int64) (domain.Customer, error) {
	return s.store.GetCustomer(ctx, id)
}

func (s *CustomerService) GetByEmail(ctx context.Context, email string) (domain.Customer, error) {
	return s.store.GetCustomerByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *CustomerService) GetByPhone(ctx context.Context, phone string) (domain.Customer, error) {
	return s.store.GetCustomerByPhone(ctx, strings.TrimSpace(phone))
}

// List with a non-empty Search matches name, email or phone substrings.
func (s *CustomerService) List(ctx context.Context, f domain.CustomerFilter) (Page[domain.Customer], error) {
	f.Limit = clampLimit(f.Limit)
	f.Search = strings.TrimSpace(f.Search)
	items, total, err := s.store.ListCustomers(ctx, f)
	if err != nil {
		return Page[domain.Customer]{}, err
	}
	return Page[domain.Customer]{Total: total, Items: items}, nil
}

func (s *CustomerService) Update(ctx context.Context, who domain.Identity, id int64, p CustomerPatch) (domain.Customer, error) {
	if err := domain.Require(who, domain.Writers...); err != nil {
		return domain.Customer{}, err
	}
	c, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}
	str := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	opt := func(dst **string, v *string) {
		if v != nil {
			*dst = v
		}
	}
	str(&c.FirstName, p.FirstName)
	str(&c.LastName, p.LastName)
	str(&c.Phone, p.Phone)
	if p.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	opt(&c.Address, p.Address)
	opt(&c.City, p.City)
	opt(&c.State, p.State)
	opt(&c.Country, p.Country)
	opt(&c.ZipCode, p.ZipCode)
	opt(&c.IDType, p.IDType)
	opt(&c.IDNumber, p.IDNumber)
	if p.DateOfBirth != nil {
		c.DateOfBirth = p.DateOfBirth
	}
	if err := checkCustomer(c); err != nil {
		return domain.Customer{}, err
	}
	if err := s.store.UpdateCustomer(ctx, c); err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

func (s *CustomerService) Delete(ctx context.Context, who domain.Identity, id int64) error {
	if err := domain.Require(who, domain.RoleAdmin); err != nil {
		return err
	}
	return s.store.InTx(ctx, func(tx domain.Repos) error {
		if _, err := tx.GetCustomer(ctx, id); err != nil {
			return err
		}
		n, err := tx.CountCustomerBookings(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.Conflict(domain.CodeInUse, "cannot delete customer with existing bookings")
		}
		return tx.DeleteCustomer(ctx, id)
	})
}
