package sendfrequencyreport

import (
	"strings"

	"frequency-workers/internal/models"
)

func DefaultTemplate() models.NotificationTemplate {
	return models.NotificationTemplate{
		Type:    NotificationType,
		Subject: "Your session frequency: {{name}} ({{frequency}} Hz)",
		Body: "Hi {{clientName}},\n\n" +
			"Your session was tuned to {{name}} at {{frequency}} Hz ({{family}}).\n\n" +
			"Intentions: {{intentions}}\n" +
			"Healing properties: {{healingProperties}}\n" +
			"Related frequencies: {{relatedFrequencies}}\n\n" +
			"{{audioLine}}\n",
		SMS: "Hi {{clientName}}, your session frequency was {{name}} ({{frequency}} Hz).",
	}
}

// renderTemplate replaces {{key}} placeholders; unknown placeholders render empty.
func renderTemplate(tmpl string, data map[string]string) string {
	result := tmpl
	for k, v := range data {
		result = strings.ReplaceAll(result, "{{"+k+"}}", v)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+2:]
	}
	return result
}
