package app_test

import (
	"context"
	"testing"

	"hotel_backoffice/internal/app"
	"hotel_backoffice/internal/domain"
)

func TestCustomerCreate_NormalizesAndRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.addCustomer(t, "Cy", "  Cy@Example.COM ", "+300")
	if c.Email != "cy@example.com" || c.FullName() != "Cy Guest" {
		t.Fatalf("unexpected customer: %+v", c)
	}
	got, err := f.customers.GetByEmail(ctx, "CY@example.com")
	if err != nil || got.ID != c.ID {
		t.Fatalf("by email: %+v (%v)", got, err)
	}
	if got, err = f.customers.GetByPhone(ctx, "+300"); err != nil || got.ID != c.ID {
		t.Fatalf("by phone: %+v (%v)", got, err)
	}

	_, err = f.customers.Create(ctx, staff, domain.Customer{FirstName: "X", LastName: "Y", Email: "cy@example.com", Phone: "+999"})
	wantCode(t, err, domain.ErrConflict, domain.CodeDuplicate)

	_, err = f.customers.Create(ctx, staff, domain.Customer{FirstName: "X", LastName: "Y", Email: "nope", Phone: "+999"})
	wantCode(t, err, domain.ErrValidation, domain.CodeInvalidInput)
}

func TestCustomerSearchAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCustomer(t, "Bea", "bea@example.com", "+201")

	page, err := f.customers.List(ctx, domain.CustomerFilter{Search: "bea"})
	if err != nil || page.Total != 1 || page.Items[0].FirstName != "Bea" {
		t.Fatalf("search: %+v (%v)", page, err)
	}

	city := "Lisbon"
	c, err := f.customers.Update(ctx, staff, f.customer.ID, app.CustomerPatch{City: &city})
	if err != nil || c.City == nil || *c.City != city || c.Email != f.customer.Email {
		t.Fatalf("update: %+v (%v)", c, err)
	}
	taken := "bea@example.com"
	_, err = f.customers.Update(ctx, staff, f.customer.ID, app.CustomerPatch{Email: &taken})
	wantCode(t, err, domain.ErrConflict, domain.CodeDuplicate)
}

func TestCustomerDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	idle := f.addCustomer(t, "Dee", "dee@example.com", "+400")
	f.book(t, f.room.ID, "2024-06-01", "2024-06-02")

	wantCode(t, f.customers.Delete(ctx, admin, f.customer.ID), domain.ErrConflict, domain.CodeInUse)
	wantCode(t, f.customers.Delete(ctx, staff, idle.ID), domain.ErrForbidden, domain.CodeForbidden)
	if err := f.customers.Delete(ctx, admin, idle.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hs, err := f.settings.Get(ctx)
	if err != nil || hs.Name != domain.DefaultHotelName {
		t.Fatalf("defaults: %+v (%v)", hs, err)
	}
	_, err = f.settings.Update(ctx, staff, domain.HotelSettings{Name: "Seaside"})
	wantCode(t, err, domain.ErrForbidden, domain.CodeForbidden)
	_, err = f.settings.Update(ctx, admin, domain.HotelSettings{Name: "  "})
	wantCode(t, err, domain.ErrValidation, domain.CodeInvalidInput)

	gst := "GST-1"
	if _, err := f.settings.Update(ctx, admin, domain.HotelSettings{Name: "Seaside", GSTNumber: &gst}); err != nil {
		t.Fatalf("update: %v", err)
	}
	hs, _ = f.settings.Get(ctx)
	if hs.Name != "Seaside" || hs.GSTNumber == nil || !hs.UpdatedAt.Equal(f.clock.Now()) {
		t.Fatalf("unexpected settings: %+v", hs)
	}
}
