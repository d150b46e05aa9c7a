// internal/workers/communication/send-frequency-report/config.go
package sendfrequencyreport

import (
	"fmt"
	"time"

	"frequency-workers/internal/common/config"
	"frequency-workers/internal/models"
)

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	Timeout      time.Duration
	Template     models.NotificationTemplate
}

// LoadConfig combines the worker timeout with the notifications section.
func LoadConfig(wcfg config.WorkerConfig, ncfg config.NotificationConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Config{
		EmailEnabled: ncfg.Email.Enabled,
		SMSEnabled:   ncfg.SMS.Enabled,
		FromEmail:    ncfg.Email.FromEmail,
		Timeout:      timeout,
		Template:     DefaultTemplate(),
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.EmailEnabled && c.FromEmail == "" {
		return fmt.Errorf("from email is required when email is enabled")
	}
	if c.Template.Subject == "" || c.Template.Body == "" {
		return fmt.Errorf("template %q needs a subject and body", c.Template.Type)
	}
	return nil
}
