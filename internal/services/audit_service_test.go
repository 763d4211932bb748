package services

import (
	"encoding/json"
	"testing"

	"folio/internal/models"
	"folio/internal/pagination"
	"folio/internal/testutil"
)

func TestAuditService_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)
	user := testutil.CreateTestUser(t, db)

	svc.Log(user.ID, ActionBuy, "portfolio", "AAPL", "127.0.0.1", map[string]any{"shares": "5"})

	var entries []models.AuditLog
	testutil.AssertNoError(t, db.Where("user_id = ?", user.ID).Find(&entries).Error)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Action != ActionBuy || e.ResourceID != "AAPL" || e.IPAddress != "127.0.0.1" {
		t.Errorf("unexpected entry: %+v", e)
	}
	var changes map[string]string
	testutil.AssertNoError(t, json.Unmarshal([]byte(e.Changes), &changes))
	if changes["shares"] != "5" {
		t.Errorf("expected shares change to be recorded, got %v", changes)
	}
}

func TestAuditService_ListByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	for i := 0; i < 3; i++ {
		svc.Log(user.ID, ActionAdjustCash, "portfolio", user.ID, "", nil)
	}
	svc.Log(other.ID, ActionAdjustCash, "portfolio", other.ID, "", nil)

	page, err := svc.ListByUser(user.ID, pagination.PageRequest{Page: 1, PageSize: 2})
	testutil.AssertNoError(t, err)
	if page.Total != 3 {
		t.Errorf("expected 3 total items, got %d", page.Total)
	}
	if len(page.Items) != 2 {
		t.Errorf("expected 2 entries on the first page, got %d", len(page.Items))
	}
	if !page.HasMore {
		t.Error("expected more entries after the first page")
	}
	for _, e := range page.Items {
		if e.UserID != user.ID {
			t.Errorf("expected only %s entries, got %s", user.ID, e.UserID)
		}
	}
}
