package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gustavopprado/Sistema-RH/internal/shared/contextutil"
	"github.com/gustavopprado/Sistema-RH/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	ReplayHeader      = "Idempotent-Replay"

	CodeProcessing = "PROCESSING"

	idempotencyLockTTL   = 30 * time.Second
	idempotencyResultTTL = 24 * time.Hour
)

type cachedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response of a POST carrying a previously seen Idempotency-Key.
// A second request arriving while the first is still running gets 409 PROCESSING.
// With a nil client the middleware is a pass-through.
func Idempotency(rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if rdb == nil || key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		l := contextutil.GetLogger(ctx, logger)
		cacheKey := fmt.Sprintf("idemp:%s:%s", c.FullPath(), key)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var cached cachedResponse
			if json.Unmarshal(val, &cached) == nil {
				c.Header(ReplayHeader, "true")
				c.Data(cached.Status, "application/json; charset=utf-8", cached.Body)
				c.Abort()
				return
			}
		} else if !errors.Is(err, redis.Nil) {
			l.Warn("idempotency lookup failed, continuing without it", zap.Error(err))
			c.Next()
			return
		}

		acquired, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			l.Warn("idempotency lock failed, continuing without it", zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			response.Abort(c, http.StatusConflict, CodeProcessing, "A request with this Idempotency-Key is still being processed")
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec

		c.Next()

		if status := rec.Status(); status < http.StatusInternalServerError {
			data, err := json.Marshal(cachedResponse{Status: status, Body: rec.buf.Bytes()})
			if err == nil {
				if err := rdb.Set(ctx, cacheKey, data, idempotencyResultTTL).Err(); err != nil {
					l.Warn("idempotency store failed", zap.Error(err))
				}
			}
		}
		if err := rdb.Del(ctx, lockKey).Err(); err != nil {
			l.Warn("idempotency unlock failed", zap.Error(err))
		}
	}
}
