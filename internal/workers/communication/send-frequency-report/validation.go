package sendfrequencyreport

import (
	"frequency-workers/internal/common/errors"
	"frequency-workers/internal/common/validation"
)

var inputSchema = validation.MustCompile("send-frequency-report", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["recipientEmail"],
  "properties": {
    "bookingId": {"type": "string"},
    "frequency": {"type": ["number", "string", "null"]},
    "recipientEmail": {"type": "string", "format": "email"},
    "recipientPhone": {"type": "string", "pattern": "^(\\+[1-9][0-9]{6,14})?$"},
    "clientName": {"type": "string", "maxLength": 200}
  }
}`)

// validateInput requires a well-formed recipient email and an E.164 phone when given.
func validateInput(input *Input) error {
	result := inputSchema.Validate(map[string]interface{}{
		"bookingId":      input.BookingID,
		"recipientEmail": input.RecipientEmail,
		"recipientPhone": input.RecipientPhone,
		"clientName":     input.ClientName,
	})
	if !result.Valid {
		return errors.NewRecipientMissingError(result.Error())
	}
	return nil
}
