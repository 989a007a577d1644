package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog-service/services"

	"github.com/gin-gonic/gin"
)

func newProtectedRouter(tokens *services.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAuth(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"role":    c.GetString("role"),
		})
	})
	return r
}

func TestRequireAuthMissingToken(t *testing.T) {
	router := newProtectedRouter(services.NewTokenService("test-secret"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	router := newProtectedRouter(services.NewTokenService("test-secret"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestRequireAuthRejectsRefreshToken(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	router := newProtectedRouter(tokens)

	pair, _, err := tokens.GenerateTokenPair("user-1", "user@example.com", "user")
	if err != nil {
		t.Fatalf("Failed to generate tokens: %v", err)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for refresh token, got %d", w.Code)
	}
}

func TestRequireAuthSetsClaims(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	router := newProtectedRouter(tokens)

	pair, _, err := tokens.GenerateTokenPair("user-1", "user@example.com", "admin")
	if err != nil {
		t.Fatalf("Failed to generate tokens: %v", err)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	for _, want := range []string{`"user_id":"user-1"`, `"role":"admin"`} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %s in response, got %s", want, body)
		}
	}
}
