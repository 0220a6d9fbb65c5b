package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blog-api/cache"
	"blog-api/helper"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newStore(t *testing.T) *cache.Store {
	s, err := cache.New("", "", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func perform(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestResponseCacheServesRepeatedGets(t *testing.T) {
	store := newStore(t)
	calls := 0

	r := gin.New()
	r.Use(ResponseCache(store, time.Minute, zap.NewNop()))
	r.GET("/api/articles/", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})

	first := perform(r, http.MethodGet, "/api/articles/?page=1")
	second := perform(r, http.MethodGet, "/api/articles/?page=1")
	other := perform(r, http.MethodGet, "/api/articles/?page=2")

	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", second.Header().Get("Content-Type"))
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestResponseCacheKeysByUser(t *testing.T) {
	store := newStore(t)
	calls := 0

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-User") == "7" {
			c.Set(ctxUserID, uint(7))
		}
		c.Next()
	})
	r.Use(ResponseCache(store, time.Minute, zap.NewNop()))
	r.GET("/api/articles/", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})

	perform(r, http.MethodGet, "/api/articles/")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/articles/", nil)
	req.Header.Set("X-User", "7")
	r.ServeHTTP(w, req)

	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestResponseCacheSkipsErrorsAndDisabled(t *testing.T) {
	store := newStore(t)
	calls := 0

	r := gin.New()
	r.Use(ResponseCache(store, time.Minute, zap.NewNop()))
	r.GET("/missing", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusNotFound, gin.H{"detail": "nope"})
	})
	perform(r, http.MethodGet, "/missing")
	perform(r, http.MethodGet, "/missing")
	assert.Equal(t, 2, calls)

	disabled := gin.New()
	disabled.Use(ResponseCache(store, 0, zap.NewNop()))
	disabled.GET("/ok", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
	assert.Empty(t, perform(disabled, http.MethodGet, "/ok").Header().Get("X-Cache"))
}

func TestRateLimit(t *testing.T) {
	store := newStore(t)

	r := gin.New()
	r.Use(RateLimit(store, 2, helper.NewHTTPHelper(nil), zap.NewNop()))
	r.POST("/api/token/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/api/token/").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/api/token/").Code)
	w := perform(r, http.MethodPost, "/api/token/")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), helper.CodeRateLimited)
}

func TestRecoveryWritesServerError(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()), Recovery(zap.NewNop(), helper.NewHTTPHelper(nil)))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := perform(r, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), helper.CodeServerError)
	assert.NotContains(t, w.Body.String(), "kaboom")
}

func TestResponseCacheKey(t *testing.T) {
	assert.Equal(t, "http:anon:/api/articles/", responseCacheKey(0, "/api/articles/", ""))
	assert.Contains(t, responseCacheKey(3, "/api/articles/", "page=2"), "http:user:3:/api/articles/:")
}
