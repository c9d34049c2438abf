package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/forgo/ideaboard/api/internal/model"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"
	idempotencyPrefix = "ideaboard:idem:"
)

// IdempotencyStore keeps reservations and finished responses in Redis so
// every API instance sees the same keys.
type IdempotencyStore struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	lockTTL time.Duration
}

// IdempotencyConfig holds configuration for idempotency middleware
type IdempotencyConfig struct {
	TTL     time.Duration // How long to keep finished responses (default 24h)
	LockTTL time.Duration // How long an in-flight reservation lives (default 1m)
}

// storedResponse is the Redis value for a key. Pending marks a request
// that is still being processed.
type storedResponse struct {
	Pending bool        `json:"pending,omitempty"`
	Status  int         `json:"status,omitempty"`
	Header  http.Header `json:"header,omitempty"`
	Body    []byte      `json:"body,omitempty"`
}

// NewIdempotencyStore creates a new idempotency store
func NewIdempotencyStore(client *redis.Client, cfg IdempotencyConfig) *IdempotencyStore {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = time.Minute
	}
	return &IdempotencyStore{
		client:  client,
		prefix:  idempotencyPrefix,
		ttl:     cfg.TTL,
		lockTTL: cfg.LockTTL,
	}
}

// reserve claims key for this request. When the key is already taken the
// existing entry is returned instead.
func (s *IdempotencyStore) reserve(ctx context.Context, key string) (bool, *storedResponse, error) {
	pending, _ := json.Marshal(storedResponse{Pending: true})

	// Two rounds cover a reservation that expires between SETNX and GET.
	for i := 0; i < 2; i++ {
		ok, err := s.client.SetNX(ctx, s.prefix+key, pending, s.lockTTL).Result()
		if err != nil {
			return false, nil, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if ok {
			return true, nil, nil
		}

		raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return false, nil, fmt.Errorf("load idempotency key: %w", err)
		}

		var existing storedResponse
		if err := json.Unmarshal(raw, &existing); err != nil {
			return false, nil, fmt.Errorf("decode idempotency entry: %w", err)
		}
		return false, &existing, nil
	}
	return false, &storedResponse{Pending: true}, nil
}

func (s *IdempotencyStore) complete(ctx context.Context, key string, resp storedResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, data, s.ttl).Err()
}

func (s *IdempotencyStore) release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// generateKey creates a unique key from user ID, idempotency key, and request fingerprint
func generateKey(userID, idempotencyKey, method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(userID))
	h.Write([]byte{0})
	h.Write([]byte(idempotencyKey))
	h.Write([]byte{0})
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// idempotencyResponseWriter captures the response for caching
type idempotencyResponseWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *idempotencyResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *idempotencyResponseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency returns middleware that replays the stored response for a
// repeated POST carrying the same Idempotency-Key. Server errors are not
// stored so the client can retry. A nil store, or a Redis failure,
// disables the middleware for the request.
func Idempotency(store *IdempotencyStore) Middleware {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := r.Header.Get(idempotencyHeader)
			if idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID := GetUserID(r.Context())
			if userID == "" {
				userID = r.RemoteAddr
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				model.NewBadRequestError("Failed to read request body").WriteJSON(w)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := generateKey(userID, idempotencyKey, r.Method, r.URL.Path, body)

			reserved, existing, err := store.reserve(r.Context(), key)
			if err != nil {
				slog.Warn("idempotency store unavailable",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			if !reserved {
				if existing.Pending {
					model.NewInProgressError().WriteJSON(w)
					return
				}
				replay(w, existing)
				return
			}

			// Storing must outlive a client that hangs up mid-request.
			storeCtx := context.WithoutCancel(r.Context())
			irw := &idempotencyResponseWriter{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				if p := recover(); p != nil {
					_ = store.release(storeCtx, key)
					panic(p)
				}
			}()

			next.ServeHTTP(irw, r)

			if irw.status >= http.StatusInternalServerError {
				if err := store.release(storeCtx, key); err != nil {
					slog.Warn("failed to release idempotency key", slog.String("error", err.Error()))
				}
				return
			}

			header := irw.Header().Clone()
			header.Del("X-Request-ID")
			resp := storedResponse{Status: irw.status, Header: header, Body: irw.body.Bytes()}
			if err := store.complete(storeCtx, key, resp); err != nil {
				slog.Warn("failed to store idempotent response", slog.String("error", err.Error()))
			}
		})
	}
}

func replay(w http.ResponseWriter, resp *storedResponse) {
	for k, v := range resp.Header {
		w.Header()[k] = append([]string(nil), v...)
	}
	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}
