package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/salonbill-api/internal/infrastructure/repository"
	"github.com/sangkips/salonbill-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func TestAuthMiddleware(t *testing.T) {
	jwt := utils.NewJWTManager("secret", time.Hour)
	userID := uuid.New()
	token, err := jwt.GenerateAccessToken(userID, "desk@salon.test")
	require.NoError(t, err)

	router := gin.New()
	router.Use(AuthMiddleware(jwt))
	router.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, c.MustGet(UserIDKey).(uuid.UUID).String())
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, userID.String(), w.Body.String())
			}
		})
	}
}

func TestLoggerMiddlewareRequestID(t *testing.T) {
	router := gin.New()
	router.Use(LoggerMiddleware(zap.NewNop()))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestUserRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewUserRateLimiter(ctx, RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	busy, quiet := uuid.New(), uuid.New()

	serve := func(userID uuid.UUID) int {
		router := gin.New()
		router.Use(withUser(userID), rl.Middleware())
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, serve(busy))
	assert.Equal(t, http.StatusOK, serve(busy))
	assert.Equal(t, http.StatusTooManyRequests, serve(busy))
	assert.Equal(t, http.StatusOK, serve(quiet))

	rl.now = func() time.Time { return time.Now().Add(time.Hour) }
	assert.Equal(t, 2, rl.cleanup())
	assert.Equal(t, 0, rl.Stats()["active_users"])
}

func TestRateLimiterConfigFor(t *testing.T) {
	cfg := RateLimiterConfigFor(120, 60)
	assert.Equal(t, 2.0, cfg.RequestsPerSecond)
	assert.Equal(t, 120, cfg.BurstSize)

	assert.Equal(t, DefaultRateLimiterConfig(), RateLimiterConfigFor(0, 60))
}

func TestIdempotencyReplaysSuccessfulResponse(t *testing.T) {
	db, err := database.NewSQLiteDB(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	repo := infraRepo.NewIdempotencyRepository(db)

	userID := uuid.New()
	now := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	var calls atomic.Int32
	var fail atomic.Bool

	router := gin.New()
	router.Use(withUser(userID), Idempotency(IdempotencyConfig{
		Repo: repo,
		TTL:  time.Hour,
		Now:  func() time.Time { return now },
	}))
	router.POST("/drafts/:id/save", func(c *gin.Context) {
		n := calls.Add(1)
		if fail.Load() {
			c.JSON(http.StatusBadGateway, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"call": n})
	})
	router.POST("/drafts/:id/hold", func(c *gin.Context) { c.Status(http.StatusOK) })

	post := func(path, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{}"))
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := post("/drafts/d1/save", "k1")
	require.Equal(t, http.StatusCreated, first.Code)
	second := post("/drafts/d1/save", "k1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(IdempotencyReplayedHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.EqualValues(t, 1, calls.Load())

	t.Run("no key passes through", func(t *testing.T) {
		post("/drafts/d1/save", "")
		assert.EqualValues(t, 2, calls.Load())
	})

	t.Run("key reused on another endpoint", func(t *testing.T) {
		w := post("/drafts/d1/hold", "k1")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("failures are not stored", func(t *testing.T) {
		fail.Store(true)
		assert.Equal(t, http.StatusBadGateway, post("/drafts/d2/save", "k2").Code)
		fail.Store(false)
		w := post("/drafts/d2/save", "k2")
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Empty(t, w.Header().Get(IdempotencyReplayedHeader))
	})

	t.Run("expired key runs again", func(t *testing.T) {
		before := calls.Load()
		now = now.Add(2 * time.Hour)
		w := post("/drafts/d1/save", "k1")
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Empty(t, w.Header().Get(IdempotencyReplayedHeader))
		assert.Equal(t, before+1, calls.Load())

		replay := post("/drafts/d1/save", "k1")
		assert.Equal(t, "true", replay.Header().Get(IdempotencyReplayedHeader))
		assert.JSONEq(t, w.Body.String(), replay.Body.String())
	})
}
