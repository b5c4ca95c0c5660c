package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// storedResponse is the replayed response for a repeated key. Body is
// []byte so non-JSON and empty bodies survive the marshal round-trip.
type storedResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// captureWriter tees the response body so it can be stored.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response for a repeated
// Idempotency-Key instead of re-running the request. Keys are scoped
// per method and path so the same key cannot cross endpoints. Clients
// use it on booking and trip commands to make retries safe.
func IdempotencyMiddleware(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		storeKey := "idempotency:" + c.Request.Method + ":" + c.FullPath() + ":" + key

		stored, err := loadResponse(ctx, redisClient, storeKey)
		if err != nil && err != redis.Nil {
			// Redis down: run the request rather than fail it.
			c.Next()
			return
		}
		if stored != nil {
			if stored.ContentType != "" {
				c.Header("Content-Type", stored.ContentType)
			}
			c.Data(stored.StatusCode, stored.ContentType, stored.Body)
			c.Abort()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w

		c.Next()

		// Server errors are not replayed; the client should retry for real.
		status := c.Writer.Status()
		if status >= 200 && status < 500 {
			err := saveResponse(ctx, redisClient, storeKey, &storedResponse{
				StatusCode:  status,
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        w.body.Bytes(),
			})
			if err != nil {
				log.Printf("idempotency: failed to store response for %s: %v", storeKey, err)
			}
		}
	}
}

func loadResponse(ctx context.Context, client *redis.Client, key string) (*storedResponse, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var stored storedResponse
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func saveResponse(ctx context.Context, client *redis.Client, key string, resp *storedResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, idempotencyTTL).Err()
}
