package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "clubledger/internal/errors"
	"clubledger/internal/middleware"
	"clubledger/internal/models"
	"clubledger/internal/services"
	"clubledger/internal/validator"
)

// --- mock auth service ---

type mockAuthService struct {
	loginFn   func(idCardNo, mobile string) (*services.AuthUser, *services.TokenPair, error)
	refreshFn func(refreshToken string) (*services.TokenPair, error)
	logoutFn  func(ctx context.Context, tokenID string, expiresAt time.Time) error
}

func (m *mockAuthService) Login(idCardNo, mobile string) (*services.AuthUser, *services.TokenPair, error) {
	if m.loginFn != nil {
		return m.loginFn(idCardNo, mobile)
	}
	return &services.AuthUser{}, &services.TokenPair{}, nil
}

func (m *mockAuthService) Refresh(refreshToken string) (*services.TokenPair, error) {
	if m.refreshFn != nil {
		return m.refreshFn(refreshToken)
	}
	return &services.TokenPair{}, nil
}

func (m *mockAuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, tokenID, expiresAt)
	}
	return nil
}

var _ services.AuthServicer = (*mockAuthService)(nil)

type mockActivityService struct {
	entries []string
}

func (m *mockActivityService) Log(activityType, _, _ string) {
	m.entries = append(m.entries, activityType)
}

func (m *mockActivityService) GetRecent(_ int) ([]models.Activity, error) {
	return []models.Activity{}, nil
}

var _ services.ActivityServicer = (*mockActivityService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectIdentity(userID uint, idCardNo string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextIDCardNo, idCardNo)
		c.Set(middleware.ContextRole, role)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/login", handler.Login)
	r.POST("/auth/refresh", handler.Refresh)
	r.POST("/auth/logout", injectIdentity(1, "ADM0001", models.RoleAdmin), handler.Logout)
	return r
}

// --- tests ---

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns 200 with user and tokens", func(t *testing.T) {
		svc := &mockAuthService{
			loginFn: func(idCardNo, _ string) (*services.AuthUser, *services.TokenPair, error) {
				return &services.AuthUser{ID: 1, IDCardNo: idCardNo, Name: "Treasurer", Role: models.RoleAdmin},
					&services.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil
			},
		}
		activity := &mockActivityService{}
		r := setupAuthRouter(NewAuthHandler(svc, activity))

		rec := doRequest(r, http.MethodPost, "/auth/login", `{"id_card_no":"ADM0001","mobile":"9812345678"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["tokens"] == nil || result["user"] == nil {
			t.Errorf("expected user and tokens in response: %v", result)
		}
		if len(activity.entries) != 1 || activity.entries[0] != "login" {
			t.Errorf("expected login activity, got %v", activity.entries)
		}
	})

	t.Run("returns 401 on bad credentials", func(t *testing.T) {
		svc := &mockAuthService{
			loginFn: func(_, _ string) (*services.AuthUser, *services.TokenPair, error) {
				return nil, nil, apperrors.ErrInvalidCredentials
			},
		}
		r := setupAuthRouter(NewAuthHandler(svc, &mockActivityService{}))

		rec := doRequest(r, http.MethodPost, "/auth/login", `{"id_card_no":"NOBODY","mobile":"123456789"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("returns 400 on missing fields", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockAuthService{}, &mockActivityService{}))

		rec := doRequest(r, http.MethodPost, "/auth/login", `{"id_card_no":"ADM0001"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "VALIDATION_ERROR")
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("returns new pair", func(t *testing.T) {
		svc := &mockAuthService{
			refreshFn: func(_ string) (*services.TokenPair, error) {
				return &services.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(svc, &mockActivityService{}))

		rec := doRequest(r, http.MethodPost, "/auth/refresh", `{"refresh_token":"old"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 401 on invalid token", func(t *testing.T) {
		svc := &mockAuthService{
			refreshFn: func(_ string) (*services.TokenPair, error) {
				return nil, apperrors.ErrUnauthorized
			},
		}
		r := setupAuthRouter(NewAuthHandler(svc, &mockActivityService{}))

		rec := doRequest(r, http.MethodPost, "/auth/refresh", `{"refresh_token":"garbage"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("returns 200", func(t *testing.T) {
		called := false
		svc := &mockAuthService{
			logoutFn: func(_ context.Context, _ string, _ time.Time) error {
				called = true
				return nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(svc, &mockActivityService{}))

		rec := doRequest(r, http.MethodPost, "/auth/logout", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !called {
			t.Error("expected logout service to be called")
		}
	})
}
