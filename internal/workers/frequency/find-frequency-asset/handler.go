// internal/workers/frequency/find-frequency-asset/handler.go
package findfrequencyasset

import (
	"context"
	"encoding/json"
	"fmt"

	"frequency-workers/internal/booking"
	"frequency-workers/internal/common/errors"
	"frequency-workers/internal/common/logger"
	"frequency-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "find-frequency-asset"
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
		h.fail(client, job, errors.NewInvalidFrequencyError(fmt.Sprintf("parse input: %v", err)), done)
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
	hz, err := h.service.FrequencyFor(ctx, input.BookingID, input.Frequency.Ptr())
	if err != nil {
		return nil, err
	}

	asset, err := h.service.FindAsset(ctx, hz)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		h.logger.Info("no audio available for frequency", map[string]interface{}{
			"frequency": hz,
			"bookingId": input.BookingID,
		})
		return &Output{Found: false, Frequency: hz}, nil
	}

	return &Output{
		Found:     true,
		AssetID:   asset.ID,
		Name:      asset.Name,
		AudioURL:  asset.AudioURL,
		Frequency: hz,
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
	if _, err = cmd.Send(context.Background()); err != nil {
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
