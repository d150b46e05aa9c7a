package sendfrequencyreport

import "frequency-workers/internal/intake"

type Input struct {
	BookingID      string     `json:"bookingId,omitempty"`
	Frequency      *intake.Hz `json:"frequency,omitempty"`
	RecipientEmail string     `json:"recipientEmail"`
	RecipientPhone string     `json:"recipientPhone,omitempty"`
	ClientName     string     `json:"clientName,omitempty"`
}

type Output struct {
	NotificationID string  `json:"notificationId"`
	Status         string  `json:"status"` // "sent", "failed", "disabled"
	SentAt         string  `json:"sentAt"` // RFC 3339
	Frequency      float64 `json:"frequency"`
}

const (
	NotificationType = "frequency_report"

	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
