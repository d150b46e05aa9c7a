// internal/workers/communication/send-frequency-report/handler.go
package sendfrequencyreport

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"frequency-workers/internal/booking"
	"frequency-workers/internal/common/errors"
	"frequency-workers/internal/common/logger"
	"frequency-workers/internal/common/metrics"
	"frequency-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-frequency-report"
)

// Sender delivers rendered reports. *aws.Notifier implements it with SES and SNS.
type Sender interface {
	SendEmail(ctx context.Context, from, to, subject, body string) (string, error)
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config       *Config
	service      *booking.Service
	sender       Sender
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, service *booking.Service, sender Sender, log logger.Logger) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		service:      service,
		sender:       sender,
		logger:       l,
		errorHandler: errors.NewErrorHandler(l),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	done := metrics.JobStarted(TaskType)

	input, err := parseInput(job.Variables)
	if err != nil {
		h.fail(client, job, err, done)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, input)
	if err != nil {
		h.fail(client, job, err, done)
		return
	}

	h.completeJob(client, job, output)
	done("")
}

// parseInput decodes job variables. Malformed JSON is an input error, not a missing recipient.
func parseInput(variables string) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	hz, err := h.service.FrequencyFor(ctx, input.BookingID, input.Frequency.Ptr())
	if err != nil {
		return nil, err
	}
	meta, err := h.service.Describe(ctx, hz)
	if err != nil {
		return nil, err
	}
	asset, err := h.service.FindAsset(ctx, hz)
	if err != nil {
		return nil, err
	}

	data := templateData(input, meta, asset)
	notification := models.Notification{
		ID:        uuid.New().String(),
		BookingID: input.BookingID,
		Type:      h.config.Template.Type,
		Status:    models.NotificationStatusDisabled,
		Payload: map[string]interface{}{
			"frequency": hz,
			"name":      meta.Name,
		},
		SentAt: time.Now().UTC().Format(time.RFC3339),
	}

	sendSMS := h.config.SMSEnabled && input.RecipientPhone != "" && h.config.Template.SMS != ""

	if h.config.EmailEnabled {
		subject := renderTemplate(h.config.Template.Subject, data)
		body := renderTemplate(h.config.Template.Body, data)
		messageID, err := h.sender.SendEmail(ctx, h.config.FromEmail, input.RecipientEmail, subject, body)
		if err != nil {
			return nil, errors.NewNotificationSendFailedError(ChannelEmail, err)
		}
		notification.Channel = ChannelEmail
		notification.Status = models.NotificationStatusSent
		notification.Payload["emailMessageId"] = messageID
	}

	if sendSMS {
		messageID, err := h.sender.SendSMS(ctx, input.RecipientPhone, renderTemplate(h.config.Template.SMS, data))
		switch {
		case err != nil && notification.Status == models.NotificationStatusSent:
			// the email already went out; a retry would send it twice
			h.logger.Warn("sms send failed after email was sent", map[string]interface{}{
				"error":     err.Error(),
				"bookingId": input.BookingID,
			})
		case err != nil:
			h.logger.Error("sms send failed", map[string]interface{}{
				"error":     err.Error(),
				"bookingId": input.BookingID,
			})
			notification.Channel = ChannelSMS
			notification.Status = models.NotificationStatusFailed
		default:
			notification.Channel = joinChannel(notification.Channel, ChannelSMS)
			notification.Status = models.NotificationStatusSent
			notification.Payload["smsMessageId"] = messageID
		}
	}

	h.logger.Info("frequency report processed", map[string]interface{}{
		"notificationId": notification.ID,
		"bookingId":      notification.BookingID,
		"channel":        notification.Channel,
		"status":         notification.Status,
		"frequency":      hz,
	})

	return &Output{
		NotificationID: notification.ID,
		Status:         notification.Status,
		SentAt:         notification.SentAt,
		Frequency:      hz,
	}, nil
}

func templateData(input *Input, meta models.DisplayMetadata, asset *models.Candidate) map[string]string {
	clientName := strings.TrimSpace(input.ClientName)
	if clientName == "" {
		clientName = "there"
	}
	audioLine := "Audio for this frequency is not available yet."
	if asset != nil && asset.AudioURL != "" {
		audioLine = "Listen again: " + asset.AudioURL
	}

	related := make([]string, len(meta.RelatedFrequencies))
	for i, r := range meta.RelatedFrequencies {
		related[i] = strconv.Itoa(r) + " Hz"
	}

	return map[string]string{
		"clientName":         clientName,
		"name":               meta.Name,
		"frequency":          strconv.FormatFloat(meta.Hz, 'f', -1, 64),
		"family":             meta.Family,
		"intentions":         orNone(strings.Join(meta.PrimaryIntentions, ", ")),
		"healingProperties":  orNone(strings.Join(meta.HealingProperties, ", ")),
		"relatedFrequencies": orNone(strings.Join(related, ", ")),
		"audioLine":          audioLine,
	}
}

func orNone(s string) string {
	if s == "" {
		return "none listed"
	}
	return s
}

func joinChannel(existing, channel string) string {
	if existing == "" {
		return channel
	}
	return existing + "," + channel
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
