package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "sales_performance_backend/internal/http"
	"sales_performance_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type testConfig struct {
	allowAll bool
}

func (testConfig) GetHTTPAddr() string        { return ":0" }
func (c testConfig) GetCORSAllowAll() bool    { return c.allowAll }
func (testConfig) GetCORSOrigins() []string   { return []string{"http://localhost:4200"} }
func (testConfig) GetCORSAllowCreds() bool    { return true }
func (testConfig) GetRateLimitRPS() float64   { return 0 }
func (testConfig) GetRateLimitBurst() int     { return 0 }
func (testConfig) GetJWTAccessSecret() string { return "secret" }

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type pingModule struct{}

func (pingModule) Name() string { return "ping" }

func (pingModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	ctx.Protected.GET("/secret", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
}

func newEngine(health apphttp.HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(&apphttp.App{
		Config:  testConfig{},
		Logger:  logger.Discard(),
		Health:  health,
		Modules: []apphttp.Module{pingModule{}},
	})
}

func serve(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndReadiness(t *testing.T) {
	engine := newEngine(pinger{})
	if rec := serve(engine, "/api/health"); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	if rec := serve(engine, "/api/ready"); rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", rec.Code)
	}

	down := newEngine(pinger{err: errors.New("db down")})
	if rec := serve(down, "/api/ready"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready with failing ping: expected 503, got %d", rec.Code)
	}
}

func TestModulesAreMounted(t *testing.T) {
	engine := newEngine(pinger{})

	rec := serve(engine, "/api/v1/ping")
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("expected public module route, got %d %q", rec.Code, rec.Body.String())
	}

	if rec := serve(engine, "/api/v1/secret"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("protected route without token: expected 401, got %d", rec.Code)
	}
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	rec := serve(newEngine(pinger{}), "/api/health")
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("expected security headers")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a generated request id")
	}
}

func TestCORSAllowAllDropsCredentials(t *testing.T) {
	cfg := corsConfig(testConfig{allowAll: true})
	if !cfg.AllowAllOrigins || cfg.AllowCredentials {
		t.Fatalf("allow-all must not send credentials: %+v", cfg)
	}

	cfg = corsConfig(testConfig{})
	if cfg.AllowAllOrigins || len(cfg.AllowOrigins) != 1 || !cfg.AllowCredentials {
		t.Fatalf("unexpected origin config: %+v", cfg)
	}
}
