// internal/models/notification.go
package models

type Notification struct {
	ID        string                 `json:"id"`
	BookingID string                 `json:"bookingId,omitempty"`
	Type      string                 `json:"type"`    // "frequency_report"
	Channel   string                 `json:"channel"` // "email", "sms"
	Status    string                 `json:"status"`  // "sent", "failed", "disabled"
	Payload   map[string]interface{} `json:"payload"`
	SentAt    string                 `json:"sentAt"`
}

type NotificationTemplate struct {
	Type    string `json:"type"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	SMS     string `json:"sms,omitempty"`
}

const (
	NotificationStatusSent     = "sent"
	NotificationStatusFailed   = "failed"
	NotificationStatusDisabled = "disabled"
)
