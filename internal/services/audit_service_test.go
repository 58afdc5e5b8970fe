package services

import (
	"testing"

	"finwise/internal/models"
	"finwise/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)
	user := testutil.CreateTestUser(t, db)

	svc.Log(user.ID, "CREATE", "budget", "b-1", "127.0.0.1", map[string]interface{}{"amount": "100.00"})
	svc.Log(user.ID, "LOGIN", "user", "", "127.0.0.1", nil)

	var logs []models.AuditLog
	if err := db.Where("user_id = ?", user.ID).Order("created_at, id").Find(&logs).Error; err != nil {
		t.Fatalf("failed to query audit logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(logs))
	}
	if logs[0].Action != "CREATE" || logs[0].ResourceType != "budget" {
		t.Errorf("unexpected first entry %+v", logs[0])
	}
}
