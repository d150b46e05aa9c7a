// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"frequency-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// RetryConfig defines exponential backoff for connecting to infrastructure.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

var DefaultRetryConfig = RetryConfig{
	MaxAttempts: 10,
	BaseDelay:   2 * time.Second,
	MaxDelay:    30 * time.Second,
}

// Retry runs operation until it succeeds, attempts run out or ctx is done.
// Errors that are not transient stop the loop immediately.
func Retry(ctx context.Context, rc RetryConfig, log logger.Logger, operationName string, operation func(context.Context) error) error {
	var err error
	delay := rc.BaseDelay

	for attempt := 1; attempt <= rc.MaxAttempts; attempt++ {
		if err = operation(ctx); err == nil {
			return nil
		}
		if !IsTransient(err) || attempt == rc.MaxAttempts {
			break
		}

		log.Warn(operationName+" failed, retrying", map[string]interface{}{
			"error":       err,
			"attempt":     attempt,
			"maxAttempts": rc.MaxAttempts,
			"nextRetryIn": delay.String(),
		})

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled after %d attempts: %w", operationName, attempt, ctx.Err())
		}

		delay *= 2
		if rc.MaxDelay > 0 && delay > rc.MaxDelay {
			delay = rc.MaxDelay
		}
	}
	return fmt.Errorf("%s failed: %w", operationName, err)
}

// IsTransient reports whether err looks like a network hiccup worth retrying.
func IsTransient(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, phrase := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"deadline exceeded",
		"unavailable",
		"unreachable",
		"broken pipe",
		"no such host",
		"eof",
	} {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// Connect dials the Zeebe gateway and waits for a topology response.
func Connect(ctx context.Context, address string, plaintext bool, rc RetryConfig, log logger.Logger) (zbc.Client, error) {
	var client zbc.Client
	err := Retry(ctx, rc, log, "zeebe connection", func(ctx context.Context) error {
		c, err := zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         address,
			UsePlaintextConnection: plaintext,
		})
		if err != nil {
			return err
		}
		if err := HealthCheck(ctx, c); err != nil {
			_ = c.Close()
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// HealthCheck sends a topology request to the broker.
func HealthCheck(ctx context.Context, client zbc.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}
