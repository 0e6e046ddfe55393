package app_test

import (
	"context"
	"testing"

	"hotel_backoffice/internal/app"
	"hotel_backoffice/internal/domain"
	"hotel_backoffice/internal/storage/memory"
)

func TestRoomTypes_DefaultCatalogue(t *testing.T) {
	f := newFixture(t)
	types, err := f.roomTypes.List(context.Background(), false)
	if err != nil || len(types) != 4 {
		t.Fatalf("list: %+v (%v)", types, err)
	}
	want := []string{"Deluxe Room", "Double Room", "Single Room", "Suite"}
	for i, ty := range types {
		if ty.DisplayName != want[i] || !ty.IsActive {
			t.Fatalf("type %d: %+v", i, ty)
		}
	}
}

func TestRoomTypes_CreateDerivesName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ty, err := f.roomTypes.Create(ctx, admin, "", "  Garden   Villa ")
	if err != nil || ty.Name != "garden_villa" || ty.DisplayName != "Garden   Villa" || !ty.IsActive {
		t.Fatalf("create: %+v (%v)", ty, err)
	}
	_, err = f.roomTypes.Create(ctx, admin, "", "Garden Villa")
	wantCode(t, err, domain.ErrConflict, domain.CodeDuplicate)

	_, err = f.roomTypes.Create(ctx, admin, "Bad-Name", "Bad")
	wantCode(t, err, domain.ErrValidation, domain.CodeInvalidInput)
	_, err = f.roomTypes.Create(ctx, admin, "", " ")
	wantCode(t, err, domain.ErrValidation, domain.CodeInvalidInput)
	_, err = f.roomTypes.Create(ctx, staff, "loft", "Loft")
	wantCode(t, err, domain.ErrForbidden, domain.CodeForbidden)

	r, err := f.rooms.Create(ctx, staff, domain.Room{Number: "500", Type: ty.Name, PricePerNight: 300, Capacity: 4, IsActive: true})
	if err != nil || r.Type != "garden_villa" {
		t.Fatalf("room on new type: %+v (%v)", r, err)
	}
}

func TestRoomTypes_InactiveTypeRejectsNewRooms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	suite, err := f.store.GetRoomTypeByName(ctx, domain.RoomSuite)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	off := false
	if _, err := f.roomTypes.Update(ctx, admin, suite.ID, app.RoomTypePatch{IsActive: &off}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if active, _ := f.roomTypes.List(ctx, false); len(active) != 3 {
		t.Fatalf("active types = %d", len(active))
	}
	if all, _ := f.roomTypes.List(ctx, true); len(all) != 4 {
		t.Fatalf("all types = %d", len(all))
	}

	_, err = f.rooms.Create(ctx, staff, domain.Room{Number: "600", Type: domain.RoomSuite, PricePerNight: 250, Capacity: 3, IsActive: true})
	wantCode(t, err, domain.ErrValidation, domain.CodeInvalidInput)
	suiteType := domain.RoomSuite
	_, err = f.rooms.Update(ctx, staff, f.room.ID, app.RoomPatch{Type: &suiteType})
	wantCode(t, err, domain.ErrValidation, domain.CodeInvalidInput)

	// rooms already on a type keep working after it is deactivated
	double, _ := f.store.GetRoomTypeByName(ctx, domain.RoomDouble)
	if _, err := f.roomTypes.Update(ctx, admin, double.ID, app.RoomTypePatch{IsActive: &off}); err != nil {
		t.Fatalf("deactivate double: %v", err)
	}
	price := 110.0
	if _, err := f.rooms.Update(ctx, staff, f.room.ID, app.RoomPatch{PricePerNight: &price}); err != nil {
		t.Fatalf("update room on inactive type: %v", err)
	}
}

func TestRoomTypes_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	single, _ := f.store.GetRoomTypeByName(ctx, domain.RoomSingle)

	name := "Cosy Single"
	ty, err := f.roomTypes.Update(ctx, admin, single.ID, app.RoomTypePatch{DisplayName: &name})
	if err != nil || ty.DisplayName != name || ty.Name != domain.RoomSingle {
		t.Fatalf("rename: %+v (%v)", ty, err)
	}
	blank := ""
	_, err = f.roomTypes.Update(ctx, admin, single.ID, app.RoomTypePatch{DisplayName: &blank})
	wantCode(t, err, domain.ErrValidation, domain.CodeInvalidInput)
	_, err = f.roomTypes.Update(ctx, admin, 9999, app.RoomTypePatch{DisplayName: &name})
	wantCode(t, err, domain.ErrNotFound, domain.CodeNotFound)
}

func TestRoomTypes_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	double, _ := f.store.GetRoomTypeByName(ctx, domain.RoomDouble)
	deluxe, _ := f.store.GetRoomTypeByName(ctx, domain.RoomDeluxe)

	// room 101 is a double
	wantCode(t, f.roomTypes.Delete(ctx, admin, double.ID), domain.ErrConflict, domain.CodeInUse)
	wantCode(t, f.roomTypes.Delete(ctx, staff, deluxe.ID), domain.ErrForbidden, domain.CodeForbidden)
	if err := f.roomTypes.Delete(ctx, admin, deluxe.ID); err != nil {
		t.Fatalf("delete unused: %v", err)
	}
	_, err := f.roomTypes.Get(ctx, deluxe.ID)
	wantCode(t, err, domain.ErrNotFound, domain.CodeNotFound)
}

func TestRoomTypes_SeedDefaultsOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := app.NewRoomTypeService(st)

	if n, err := svc.SeedDefaults(ctx, admin); err != nil || n != 0 {
		t.Fatalf("seed over existing catalogue: %d (%v)", n, err)
	}
	types, _ := svc.List(ctx, true)
	for _, ty := range types {
		if err := svc.Delete(ctx, admin, ty.ID); err != nil {
			t.Fatalf("delete %s: %v", ty.Name, err)
		}
	}
	if n, err := svc.SeedDefaults(ctx, admin); err != nil || n != 4 {
		t.Fatalf("seed empty catalogue: %d (%v)", n, err)
	}
	if types, _ = svc.List(ctx, false); len(types) != 4 {
		t.Fatalf("after seed: %d", len(types))
	}
	_, err := svc.SeedDefaults(ctx, viewer)
	wantCode(t, err, domain.ErrForbidden, domain.CodeForbidden)
}
