package services

import (
	"testing"
	"time"

	"clubledger/internal/models"
	"clubledger/internal/pagination"
	"clubledger/internal/testutil"
)

func TestCreateAdmin(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdminService(db)

		admin, err := svc.CreateAdmin("CARD100", "Treasurer", "9812345678", models.RoleAdmin, time.Now())
		testutil.AssertNoError(t, err)

		if admin.Status != models.AccountStatusActive {
			t.Errorf("expected active, got %s", admin.Status)
		}
	})

	t.Run("duplicate_id_card", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdminService(db)

		_, err := svc.CreateAdmin("CARD100", "Treasurer", "9812345678", models.RoleAdmin, time.Now())
		testutil.AssertNoError(t, err)
		_, err = svc.CreateAdmin("CARD100", "Impostor", "9800000000", models.RoleAdmin, time.Now())
		testutil.AssertAppError(t, err, "DUPLICATE_ID_CARD")
	})

	t.Run("member_role_not_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdminService(db)

		_, err := svc.CreateAdmin("CARD101", "Someone", "9812345678", models.RoleMember, time.Now())
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestUpdateAdmin(t *testing.T) {
	t.Run("deactivate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdminService(db)
		admin := testutil.CreateTestAdmin(t, db, models.RoleAdmin)

		inactive := models.AccountStatusInactive
		_, err := svc.UpdateAdmin(admin.ID, "", "", nil, &inactive)
		testutil.AssertNoError(t, err)

		var stored models.Admin
		testutil.AssertNoError(t, db.First(&stored, admin.ID).Error)
		if stored.Status != models.AccountStatusInactive {
			t.Errorf("expected inactive, got %s", stored.Status)
		}
	})

	t.Run("promote_to_superadmin", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdminService(db)
		admin := testutil.CreateTestAdmin(t, db, models.RoleAdmin)

		super := models.RoleSuperadmin
		updated, err := svc.UpdateAdmin(admin.ID, "", "", &super, nil)
		testutil.AssertNoError(t, err)
		_ = updated

		var stored models.Admin
		testutil.AssertNoError(t, db.First(&stored, admin.ID).Error)
		if stored.Role != models.RoleSuperadmin {
			t.Errorf("expected superadmin, got %s", stored.Role)
		}
	})

	t.Run("missing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdminService(db)

		_, err := svc.UpdateAdmin(9999, "New Name", "", nil, nil)
		testutil.AssertAppError(t, err, "ADMIN_NOT_FOUND")
	})
}

func TestDeleteAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAdminService(db)
	admin := testutil.CreateTestAdmin(t, db, models.RoleAdmin)

	testutil.AssertNoError(t, svc.DeleteAdmin(admin.ID))

	_, err := svc.GetAdminByID(admin.ID)
	testutil.AssertAppError(t, err, "ADMIN_NOT_FOUND")
}

func TestGetAdmins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAdminService(db)
	testutil.CreateTestAdmin(t, db, models.RoleAdmin)
	testutil.CreateTestAdmin(t, db, models.RoleSuperadmin)

	page, err := svc.GetAdmins(pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 2 {
		t.Errorf("expected 2 admins, got %d", page.TotalItems)
	}
}
