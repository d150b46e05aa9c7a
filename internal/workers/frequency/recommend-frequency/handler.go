// internal/workers/frequency/recommend-frequency/handler.go
package recommendfrequency

import (
	"context"
	"encoding/json"
	"fmt"

	"frequency-workers/internal/booking"
	"frequency-workers/internal/common/errors"
	"frequency-workers/internal/common/logger"
	"frequency-workers/internal/common/metrics"
	"frequency-workers/internal/intake"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "recommend-frequency"
)

type Handler struct {
	config       *Config
	service      *booking.Service
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, service *booking.Service, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		service:      service,
		logger:       l,
		errorHandler: errors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	done := metrics.JobStarted(TaskType)

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(client, job, errors.NewInvalidIntakeError(fmt.Sprintf("parse input: %v", err)), done)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.fail(client, job, err, done)
		return
	}

	h.completeJob(client, job, output)
	done("")
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	signal, err := intake.Parse(input.Intake)
	if err != nil {
		return nil, err
	}

	rec := h.service.Recommend(ctx, input.BookingID, signal)

	h.logger.Info("frequency recommended", map[string]interface{}{
		"bookingId": input.BookingID,
		"frequency": rec.Frequency,
		"source":    rec.Source,
		"score":     rec.Score,
	})

	return &Output{
		RecommendationID: rec.RecommendationID,
		Frequency:        rec.Frequency,
		Source:           rec.Source,
		Score:            rec.Score,
		HasAsset:         rec.HasAsset,
		AssetID:          rec.AssetID,
		AudioURL:         rec.AudioURL,
		Metadata:         rec.Metadata,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) fail(client worker.JobClient, job entities.Job, err error, done func(string)) {
	done(string(errors.Normalize(err).Code))
	h.errorHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
