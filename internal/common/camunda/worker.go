// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"sync"
	"time"

	"frequency-workers/internal/common/config"
	"frequency-workers/internal/common/logger"
	"frequency-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
)

// Workers tracks opened job workers so they can be closed together on shutdown.
type Workers struct {
	mu      sync.Mutex
	client  zbc.Client
	log     logger.Logger
	running map[string]worker.JobWorker
}

func NewWorkers(client zbc.Client, log logger.Logger) *Workers {
	return &Workers{
		client:  client,
		log:     log,
		running: make(map[string]worker.JobWorker),
	}
}

// Start opens a job worker for taskType unless it is disabled in wcfg.
func (w *Workers) Start(taskType string, wcfg config.WorkerConfig, handler worker.JobHandler) bool {
	if !wcfg.Enabled {
		w.log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	jw := w.client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	w.mu.Lock()
	w.running[taskType] = jw
	w.mu.Unlock()

	w.log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

// Running returns the task types with an open worker.
func (w *Workers) Running() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.running))
	for t := range w.running {
		out = append(out, t)
	}
	return out
}

// Close stops polling and waits for in-flight jobs.
func (w *Workers) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for taskType, jw := range w.running {
		w.log.Info("stopping worker", map[string]interface{}{"taskType": taskType})
		jw.Close()
		jw.AwaitClose()
		delete(w.running, taskType)
	}
}

// Instrument wraps handler with a span and the otel job counters. obs may be nil.
func Instrument(obs *observability.Observability, taskType string, handler worker.JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		ctx, span := obs.StartSpan(context.Background(), "job."+taskType,
			attribute.Int64("job.key", job.Key),
			attribute.Int64("process.instance.key", job.ProcessInstanceKey),
		)
		defer span.End()

		handler(client, job)

		obs.RecordJobProcessed(ctx, taskType, "handled")
		obs.RecordJobDuration(ctx, taskType, time.Since(start), "handled")
	}
}
