package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"blog-api/cache"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// bodyWriter copies everything written to the client into body.
type bodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache serves successful GET responses from the store for ttl. Keys
// include the requester so privileged listings never leak to readers. A zero
// ttl disables caching.
func ResponseCache(store *cache.Store, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ttl <= 0 || store == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := responseCacheKey(c.GetUint(ctxUserID), c.Request.URL.Path, c.Request.URL.RawQuery)
		ctx := c.Request.Context()

		var hit cachedResponse
		err := store.GetJSON(ctx, key, &hit)
		if err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(hit.Status, hit.ContentType, hit.Body)
			c.Abort()
			return
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warn("response cache read failed", zap.String("key", key), zap.Error(err))
		}

		w := &bodyWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w
		c.Header("X-Cache", "MISS")

		c.Next()

		if w.Status() != http.StatusOK {
			return
		}
		entry := cachedResponse{
			Status:      http.StatusOK,
			ContentType: w.Header().Get("Content-Type"),
			Body:        w.body.Bytes(),
		}
		if err := store.SetJSON(ctx, key, entry, ttl); err != nil {
			log.Warn("response cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func responseCacheKey(userID uint, path, query string) string {
	identity := "anon"
	if userID != 0 {
		identity = fmt.Sprintf("user:%d", userID)
	}
	key := fmt.Sprintf("http:%s:%s", identity, path)
	if query != "" {
		hash := sha256.Sum256([]byte(query))
		key += ":" + hex.EncodeToString(hash[:])[:16]
	}
	return key
}
