package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finwise/internal/errors"
	"finwise/internal/models"
	"finwise/internal/pagination"
	"finwise/internal/services"
)

const testReminderID = "0190a5e4-7b2c-7d3e-8f40-00000000e001"

// --- mock reminder service ---

type mockReminderService struct {
	createReminderFn   func(userID string, in services.ReminderInput) (*models.Reminder, error)
	getUserRemindersFn func(userID string, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Reminder], error)
	getReminderByIDFn  func(userID, reminderID string) (*models.Reminder, error)
	updateReminderFn   func(userID, reminderID string, update services.ReminderUpdate) (*models.Reminder, error)
	deleteReminderFn   func(userID, reminderID string) error
}

func (m *mockReminderService) CreateReminder(userID string, in services.ReminderInput) (*models.Reminder, error) {
	if m.createReminderFn != nil {
		return m.createReminderFn(userID, in)
	}
	return &models.Reminder{}, nil
}

func (m *mockReminderService) GetUserReminders(userID string, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Reminder], error) {
	if m.getUserRemindersFn != nil {
		return m.getUserRemindersFn(userID, page, isActive)
	}
	resp := pagination.NewPageResponse([]models.Reminder{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockReminderService) GetReminderByID(userID, reminderID string) (*models.Reminder, error) {
	if m.getReminderByIDFn != nil {
		return m.getReminderByIDFn(userID, reminderID)
	}
	return &models.Reminder{}, nil
}

func (m *mockReminderService) UpdateReminder(userID, reminderID string, update services.ReminderUpdate) (*models.Reminder, error) {
	if m.updateReminderFn != nil {
		return m.updateReminderFn(userID, reminderID, update)
	}
	return &models.Reminder{}, nil
}

func (m *mockReminderService) DeleteReminder(userID, reminderID string) error {
	if m.deleteReminderFn != nil {
		return m.deleteReminderFn(userID, reminderID)
	}
	return nil
}

var _ services.ReminderServicer = (*mockReminderService)(nil)

func setupReminderRouter(handler *ReminderHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/reminders", handler.CreateReminder)
	auth.GET("/reminders", handler.GetReminders)
	auth.GET("/reminders/:id", handler.GetReminder)
	auth.PUT("/reminders/:id", handler.UpdateReminder)
	auth.DELETE("/reminders/:id", handler.DeleteReminder)
	return r
}

func TestReminderHandler_CreateReminder(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.ReminderInput
		svc := &mockReminderService{
			createReminderFn: func(userID string, in services.ReminderInput) (*models.Reminder, error) {
				got = in
				return &models.Reminder{
					Base:         models.Base{ID: testReminderID},
					UserID:       userID,
					Title:        in.Title,
					ReminderType: in.ReminderType,
					Frequency:    in.Frequency,
					DueDate:      in.DueDate,
					IsActive:     true,
				}, nil
			},
		}
		r := setupReminderRouter(NewReminderHandler(svc, &mockAuditService{}))

		body := `{"title":"Rent","amount":"1200","reminder_type":"BILL","frequency":"MONTHLY","due_date":"2024-03-15"}`
		rec := doRequest(r, "POST", "/reminders", body)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Amount.Valid || !got.Amount.Decimal.Equal(decimal.NewFromInt(1200)) {
			t.Errorf("expected amount 1200, got %+v", got.Amount)
		}
		want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		if !got.DueDate.Equal(want) {
			t.Errorf("expected due date %v, got %v", want, got.DueDate)
		}
		reminder := parseJSON(t, rec)["reminder"].(map[string]interface{})
		if reminder["frequency"] != "MONTHLY" {
			t.Errorf("expected MONTHLY, got %v", reminder["frequency"])
		}
	})

	t.Run("omitted amount is null", func(t *testing.T) {
		var got services.ReminderInput
		svc := &mockReminderService{
			createReminderFn: func(_ string, in services.ReminderInput) (*models.Reminder, error) {
				got = in
				return &models.Reminder{}, nil
			},
		}
		r := setupReminderRouter(NewReminderHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/reminders", `{"title":"Check","reminder_type":"CUSTOM","frequency":"ONCE","due_date":"2024-03-15"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if got.Amount.Valid {
			t.Error("expected null amount")
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{name: "missing title", body: `{"reminder_type":"BILL","frequency":"MONTHLY","due_date":"2024-03-15"}`},
		{name: "unknown type", body: `{"title":"Rent","reminder_type":"LOAN","frequency":"MONTHLY","due_date":"2024-03-15"}`},
		{name: "unknown frequency", body: `{"title":"Rent","reminder_type":"BILL","frequency":"HOURLY","due_date":"2024-03-15"}`},
		{name: "bad due date", body: `{"title":"Rent","reminder_type":"BILL","frequency":"MONTHLY","due_date":"15/03/2024"}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupReminderRouter(NewReminderHandler(&mockReminderService{}, &mockAuditService{}))

			rec := doRequest(r, "POST", "/reminders", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}
}

func TestReminderHandler_GetReminders(t *testing.T) {
	t.Run("passes is_active filter", func(t *testing.T) {
		var got *bool
		svc := &mockReminderService{
			getUserRemindersFn: func(_ string, _ pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Reminder], error) {
				got = isActive
				resp := pagination.NewPageResponse([]models.Reminder{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupReminderRouter(NewReminderHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/reminders?is_active=true", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got == nil || !*got {
			t.Error("expected is_active=true to be passed")
		}
	})

	t.Run("returns 400 on bad is_active", func(t *testing.T) {
		r := setupReminderRouter(NewReminderHandler(&mockReminderService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/reminders?is_active=maybe", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestReminderHandler_UpdateReminder(t *testing.T) {
	t.Run("deactivates reminder", func(t *testing.T) {
		var got services.ReminderUpdate
		svc := &mockReminderService{
			updateReminderFn: func(_, _ string, update services.ReminderUpdate) (*models.Reminder, error) {
				got = update
				return &models.Reminder{}, nil
			},
		}
		r := setupReminderRouter(NewReminderHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/reminders/"+testReminderID, `{"is_active":false}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.IsActive == nil || *got.IsActive {
			t.Error("expected is_active=false to be passed")
		}
		if got.Title != nil || got.DueDate != nil {
			t.Errorf("expected untouched fields to be nil, got %+v", got)
		}
	})

	t.Run("returns 404 for other user's reminder", func(t *testing.T) {
		svc := &mockReminderService{
			updateReminderFn: func(_, _ string, _ services.ReminderUpdate) (*models.Reminder, error) {
				return nil, apperrors.ErrReminderNotFound
			},
		}
		r := setupReminderRouter(NewReminderHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/reminders/"+testReminderID, `{"title":"Rent"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "REMINDER_NOT_FOUND")
	})
}

func TestReminderHandler_DeleteReminder(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupReminderRouter(NewReminderHandler(&mockReminderService{}, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/reminders/"+testReminderID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid id", func(t *testing.T) {
		r := setupReminderRouter(NewReminderHandler(&mockReminderService{}, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/reminders/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
