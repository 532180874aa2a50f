package router

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/carewise/triage-api/internal/handler"
	"github.com/carewise/triage-api/internal/middleware"
	"github.com/carewise/triage-api/internal/model"
)

type stubHandler struct {
	path string
}

func (h *stubHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET(h.path, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
}

type stubAuthHandler struct{}

func (h *stubAuthHandler) RegisterRoutes(g *gin.RouterGroup)          {}
func (h *stubAuthHandler) RegisterProtectedRoutes(g *gin.RouterGroup) {}

type stubValidator struct{}

func (s *stubValidator) ValidateToken(token string) (*model.TokenClaims, error) {
	if token != "valid-token" {
		return nil, errors.New("invalid token")
	}
	return &model.TokenClaims{
		UserID: uuid.New(),
		Email:  "clinician@example.com",
		Role:   "clinician",
	}, nil
}

func newTestRouter(config RouterConfig) *Router {
	auth := middleware.NewAuthMiddleware(&stubValidator{})
	r := NewRouter(
		auth,
		&stubHandler{path: "/analyze"},
		&stubAuthHandler{},
		&stubHandler{path: "/patients"},
		&stubHandler{path: "/cases"},
		handler.NewHandler(),
		config,
	)
	r.Setup()
	return r
}

func defaultTestConfig(prefix string) RouterConfig {
	return RouterConfig{
		RateLimit:     rate.Limit(100),
		RateBurst:     100,
		CORSConfig:    middleware.DefaultCORSConfig(),
		MetricsPrefix: prefix,
	}
}

func TestRouter_HealthRoute(t *testing.T) {
	r := newTestRouter(defaultTestConfig("test_health"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRouter_ProtectedRoutesRequireAuth(t *testing.T) {
	r := newTestRouter(defaultTestConfig("test_auth"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	r.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	r.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RateLimitApplied(t *testing.T) {
	config := defaultTestConfig("test_rate")
	config.RateLimit = rate.Limit(1)
	config.RateBurst = 1
	r := newTestRouter(config)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
