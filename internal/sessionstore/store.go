// Package sessionstore remembers the recommendation made for each booking so playback and
// the follow-up email reuse the frequency chosen during intake.
package sessionstore

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"frequency-workers/internal/common/errors"
	"frequency-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:frequency:"

// Store is what workers and the HTTP API depend on.
type Store interface {
	Save(ctx context.Context, rec models.SessionRecord) error
	Get(ctx context.Context, bookingID string) (*models.SessionRecord, error)
}

// Redis keeps one JSON record per booking with a TTL.
type Redis struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedis(client redis.Cmdable, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func Key(bookingID string) string {
	return keyPrefix + bookingID
}

// Save overwrites any earlier recommendation for the booking.
func (r *Redis) Save(ctx context.Context, rec models.SessionRecord) error {
	if rec.BookingID == "" {
		return errors.NewSessionStoreFailedError(fmt.Errorf("booking id is required"))
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return errors.NewSessionStoreFailedError(err)
	}
	if err := r.client.Set(ctx, Key(rec.BookingID), data, r.ttl).Err(); err != nil {
		return errors.NewSessionStoreFailedError(fmt.Errorf("redis set: %w", err))
	}
	return nil
}

// Get returns SESSION_NOT_FOUND when the booking has no record or it expired.
func (r *Redis) Get(ctx context.Context, bookingID string) (*models.SessionRecord, error) {
	data, err := r.client.Get(ctx, Key(bookingID)).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, errors.NewSessionNotFoundError(bookingID)
		}
		return nil, errors.NewSessionStoreFailedError(fmt.Errorf("redis get: %w", err))
	}

	var rec models.SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.NewSessionStoreFailedError(fmt.Errorf("decode session %s: %w", bookingID, err))
	}
	return &rec, nil
}

// IsNotFound reports whether err is the SESSION_NOT_FOUND error from Get.
func IsNotFound(err error) bool {
	var stdErr *errors.StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == errors.ErrCodeSessionNotFound
}
