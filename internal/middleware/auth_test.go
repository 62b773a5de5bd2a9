package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pratty2304/MedConnect/internal/middleware"
	"github.com/pratty2304/MedConnect/internal/models"
	"github.com/pratty2304/MedConnect/internal/security"
)

func newAuthRouter(tokens *security.TokenIssuer, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := append([]gin.HandlerFunc{middleware.AuthMiddleware(tokens)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := middleware.UserID(c)
		role, _ := middleware.UserRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.String(), "role": string(role)})
	})
	router.GET("/protected", handlers...)
	return router
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	tokens := security.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	router := newAuthRouter(tokens)

	for _, header := range []string{"", "Basic abc", "bearer lowercase"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, rec.Code)
		}
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	tokens := security.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	foreign := security.NewTokenIssuer("other-secret", time.Hour, 24*time.Hour)
	router := newAuthRouter(tokens)

	foreignAccess, _, err := foreign.Issue(uuid.New(), models.RolePatient)
	if err != nil {
		t.Fatalf("issuing foreign token: %v", err)
	}
	_, refresh, err := tokens.Issue(uuid.New(), models.RolePatient)
	if err != nil {
		t.Fatalf("issuing tokens: %v", err)
	}

	for name, token := range map[string]string{
		"garbage":           "not.a.jwt",
		"foreign signature": foreignAccess,
		"refresh-as-access": refresh,
	} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, rec.Code)
		}
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	tokens := security.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	router := newAuthRouter(tokens)

	issuedAt := time.Now()
	tokens.SetClock(func() time.Time { return issuedAt })
	access, _, err := tokens.Issue(uuid.New(), models.RolePatient)
	if err != nil {
		t.Fatalf("issuing tokens: %v", err)
	}
	tokens.SetClock(func() time.Time { return issuedAt.Add(61 * time.Minute) })

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	tokens := security.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	router := newAuthRouter(tokens)

	userID := uuid.New()
	access, _, err := tokens.Issue(userID, models.RoleDoctor)
	if err != nil {
		t.Fatalf("issuing tokens: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if want := userID.String(); !strings.Contains(body, want) {
		t.Errorf("body %q missing user id %q", body, want)
	}
	if !strings.Contains(body, string(models.RoleDoctor)) {
		t.Errorf("body %q missing role", body)
	}
}

func TestRequireRole(t *testing.T) {
	tokens := security.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	router := newAuthRouter(tokens, middleware.RequireRole(models.RoleDoctor))

	patientAccess, _, err := tokens.Issue(uuid.New(), models.RolePatient)
	if err != nil {
		t.Fatalf("issuing tokens: %v", err)
	}
	doctorAccess, _, err := tokens.Issue(uuid.New(), models.RoleDoctor)
	if err != nil {
		t.Fatalf("issuing tokens: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+patientAccess)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("patient: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+doctorAccess)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("doctor: status = %d, want 200", rec.Code)
	}
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/doctor-only", middleware.RequireRole(models.RoleDoctor), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/doctor-only", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
