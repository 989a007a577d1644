package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog-service/apperrors"
	"catalog-service/models"
	"catalog-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type fakeAuthService struct {
	registerFn func(ctx context.Context, name, email, password string) (*models.User, error)
	loginFn    func(ctx context.Context, email, password string) (*services.TokenPair, *models.User, error)
	refreshFn  func(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	logoutFn   func(ctx context.Context, refreshToken string) error
	currentFn  func(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

func (f *fakeAuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return f.registerFn(ctx, name, email, password)
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*services.TokenPair, *models.User, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeAuthService) Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	return f.refreshFn(ctx, refreshToken)
}

func (f *fakeAuthService) Logout(ctx context.Context, refreshToken string) error {
	return f.logoutFn(ctx, refreshToken)
}

func (f *fakeAuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return f.currentFn(ctx, userID)
}

func newAuthRouter(svc IAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ac := NewAuthController(svc)
	group := r.Group("/api/auth")
	group.POST("/register", ac.Register)
	group.POST("/login", ac.Login)
	group.POST("/refresh", ac.Refresh)
	group.POST("/logout", ac.Logout)
	return r
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterEndpoint(t *testing.T) {
	svc := &fakeAuthService{
		registerFn: func(ctx context.Context, name, email, password string) (*models.User, error) {
			return &models.User{ID: uuid.New(), Name: name, Email: email, Role: "user"}, nil
		},
	}
	router := newAuthRouter(svc)

	w := postJSON(router, "/api/auth/register",
		`{"name": "New User", "email": "new@example.com", "password": "password123"}`)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]models.User
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp["user"].Email != "new@example.com" {
		t.Errorf("Unexpected user in response: %+v", resp["user"])
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Errorf("Response leaks credential material: %s", w.Body.String())
	}
}

func TestRegisterEndpointValidation(t *testing.T) {
	router := newAuthRouter(&fakeAuthService{})

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"name": "x", "password": "password123"}`},
		{"bad email", `{"name": "x", "email": "nope", "password": "password123"}`},
		{"short password", `{"name": "x", "email": "a@b.com", "password": "short"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(router, "/api/auth/register", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestLoginEndpoint(t *testing.T) {
	svc := &fakeAuthService{
		loginFn: func(ctx context.Context, email, password string) (*services.TokenPair, *models.User, error) {
			return &services.TokenPair{AccessToken: "access", RefreshToken: "refresh"},
				&models.User{ID: uuid.New(), Email: email}, nil
		},
	}
	router := newAuthRouter(svc)

	w := postJSON(router, "/api/auth/login",
		`{"email": "user@example.com", "password": "correct-horse"}`)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	for _, key := range []string{"accessToken", "refreshToken", "user"} {
		if _, ok := resp[key]; !ok {
			t.Errorf("Response missing %q: %s", key, w.Body.String())
		}
	}
}

func TestLoginEndpointUnauthorized(t *testing.T) {
	svc := &fakeAuthService{
		loginFn: func(ctx context.Context, email, password string) (*services.TokenPair, *models.User, error) {
			return nil, nil, apperrors.Unauthorized("Invalid email or password")
		},
	}
	router := newAuthRouter(svc)

	w := postJSON(router, "/api/auth/login",
		`{"email": "user@example.com", "password": "wrong"}`)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestRefreshEndpoint(t *testing.T) {
	svc := &fakeAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
			return &services.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	}
	router := newAuthRouter(svc)

	w := postJSON(router, "/api/auth/refresh", `{"refreshToken": "old-refresh"}`)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "new-access") {
		t.Errorf("Unexpected body: %s", w.Body.String())
	}
}

func TestLogoutEndpoint(t *testing.T) {
	var revoked string
	svc := &fakeAuthService{
		logoutFn: func(ctx context.Context, refreshToken string) error {
			revoked = refreshToken
			return nil
		},
	}
	router := newAuthRouter(svc)

	w := postJSON(router, "/api/auth/logout", `{"refreshToken": "the-token"}`)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if revoked != "the-token" {
		t.Errorf("Expected revocation of the presented token, got %q", revoked)
	}
}
