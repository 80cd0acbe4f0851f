package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/wildcloud/starter-api/internal/api/middleware"
	"github.com/wildcloud/starter-api/internal/core/domain"
)

type stubSessionService struct {
	getSettingsFn    func(ctx context.Context, userID int64) (domain.Settings, error)
	updateSettingsFn func(ctx context.Context, userID int64, patch domain.SettingsPatch) (domain.Settings, error)
}

func (s *stubSessionService) GetSession(context.Context, int64) (*domain.Session, error) { return nil, nil }
func (s *stubSessionService) PutSession(context.Context, *domain.Session) error          { return nil }
func (s *stubSessionService) RefreshSession(context.Context, int64) error                { return nil }
func (s *stubSessionService) DeleteSession(context.Context, int64) error                 { return nil }
func (s *stubSessionService) PutSettings(context.Context, domain.Settings) error         { return nil }
func (s *stubSessionService) UpdateActivity(context.Context, int64) error                { return nil }
func (s *stubSessionService) UpdateCachedAvatar(context.Context, int64, string) error    { return nil }

func (s *stubSessionService) GetSettings(ctx context.Context, userID int64) (domain.Settings, error) {
	return s.getSettingsFn(ctx, userID)
}

func (s *stubSessionService) UpdateSettings(ctx context.Context, userID int64, patch domain.SettingsPatch) (domain.Settings, error) {
	return s.updateSettingsFn(ctx, userID, patch)
}

func TestSettingsHandler_SetLanguage_Success(t *testing.T) {
	var patched domain.SettingsPatch
	stub := &stubSessionService{
		updateSettingsFn: func(ctx context.Context, userID int64, patch domain.SettingsPatch) (domain.Settings, error) {
			if userID != 42 {
				t.Fatalf("unexpected user id: %d", userID)
			}
			patched = patch
			return domain.Settings{UserID: userID, Language: *patch.Language}, nil
		},
	}
	handler := NewSettingsHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/api/language", `{"language":"en"}`)
	c.Request().Header.Set(middleware.HeaderUserID, "42")

	if err := handler.SetLanguage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if patched.Language == nil || *patched.Language != "en" {
		t.Fatalf("expected language patch, got %+v", patched)
	}
	if patched.Theme != nil || patched.Timezone != nil {
		t.Fatalf("language update must not touch other fields: %+v", patched)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	data, ok := resp["data"].(map[string]any)
	if !ok || data["language"] != "en" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestSettingsHandler_SetLanguage_Anonymous(t *testing.T) {
	handler := NewSettingsHandler(&stubSessionService{
		updateSettingsFn: func(ctx context.Context, userID int64, patch domain.SettingsPatch) (domain.Settings, error) {
			t.Fatalf("should not be called")
			return domain.Settings{}, nil
		},
	})

	c, _ := newJSONContext(http.MethodPost, "/api/language", `{"language":"en"}`)

	if code := errCode(t, handler.SetLanguage(c)); code != domain.CodeAuthRequired {
		t.Fatalf("expected AUTH_REQUIRED, got %s", code)
	}
}

func TestSettingsHandler_SetLanguage_Missing(t *testing.T) {
	handler := NewSettingsHandler(&stubSessionService{})

	c, _ := newJSONContext(http.MethodPost, "/api/language", `{}`)
	c.Request().Header.Set(middleware.HeaderUserID, "42")

	if code := errCode(t, handler.SetLanguage(c)); code != domain.CodeMissingParams {
		t.Fatalf("expected REQUEST_MISSING_PARAMS, got %s", code)
	}
}

func TestSettingsHandler_SetLanguage_Unsupported(t *testing.T) {
	handler := NewSettingsHandler(&stubSessionService{})

	c, _ := newJSONContext(http.MethodPost, "/api/language", `{"language":"fr"}`)
	c.Request().Header.Set(middleware.HeaderUserID, "42")

	err := handler.SetLanguage(c)
	if code := errCode(t, err); code != domain.CodeInvalidParams {
		t.Fatalf("expected REQUEST_INVALID_PARAMS, got %s", code)
	}
	var appErr *domain.Error
	if !errors.As(err, &appErr) || appErr.Details == nil {
		t.Fatalf("expected supported languages in details, got %v", err)
	}
}

func TestSettingsHandler_GetSettings(t *testing.T) {
	stub := &stubSessionService{
		getSettingsFn: func(ctx context.Context, userID int64) (domain.Settings, error) {
			return domain.Settings{
				UserID:    userID,
				Language:  domain.DefaultLanguage,
				Theme:     domain.DefaultTheme,
				Timezone:  domain.DefaultTimezone,
				AvatarURL: "https://cdn.example.com/avatar/a.png",
			}, nil
		},
	}
	handler := NewSettingsHandler(stub)

	c, rec := newJSONContext(http.MethodGet, "/api/settings", "")
	c.Request().Header.Set(middleware.HeaderUserID, "7")

	if err := handler.GetSettings(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["userId"] != float64(7) || resp["languagePreference"] != domain.DefaultLanguage {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["avatarUrl"] != "https://cdn.example.com/avatar/a.png" {
		t.Fatalf("unexpected avatar url: %v", resp["avatarUrl"])
	}
}
