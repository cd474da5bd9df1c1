package services

import (
	"fmt"
	"testing"

	"clubledger/internal/testutil"
)

func TestActivityLog(t *testing.T) {
	t.Run("records_entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewActivityService(db)

		svc.Log("expense_approved", "ADM0001", "approved expense Stage rental")

		entries, err := svc.GetRecent(10)
		testutil.AssertNoError(t, err)
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if entries[0].Type != "expense_approved" || entries[0].Actor != "ADM0001" {
			t.Errorf("unexpected entry: %+v", entries[0])
		}
	})

	t.Run("recent_is_capped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewActivityService(db)

		for i := 0; i < 25; i++ {
			svc.Log("budget_created", "ADM0001", fmt.Sprintf("entry %d", i))
		}

		entries, err := svc.GetRecent(20)
		testutil.AssertNoError(t, err)
		if len(entries) != 20 {
			t.Errorf("expected 20 entries, got %d", len(entries))
		}
	})

	t.Run("default_limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewActivityService(db)

		entries, err := svc.GetRecent(0)
		testutil.AssertNoError(t, err)
		if len(entries) != 0 {
			t.Errorf("expected empty feed, got %d entries", len(entries))
		}
	})
}
