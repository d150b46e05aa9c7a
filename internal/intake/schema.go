package intake

import "frequency-workers/internal/common/validation"

const formSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "intake form",
  "type": "object",
  "definitions": {
    "textArray": {
      "type": ["array", "null"],
      "items": {"type": "string"}
    },
    "rating": {
      "type": ["number", "string", "null"]
    }
  },
  "properties": {
    "intentions": {"$ref": "#/definitions/textArray"},
    "goals": {"$ref": "#/definitions/textArray"},
    "selectedFrequencies": {
      "type": ["array", "null"],
      "items": {"type": ["number", "string"]}
    },
    "emotionalIndicators": {"$ref": "#/definitions/textArray"},
    "energyLevels": {
      "type": ["object", "null"],
      "properties": {
        "physical": {"$ref": "#/definitions/rating"},
        "emotional": {"$ref": "#/definitions/rating"},
        "mental": {"$ref": "#/definitions/rating"},
        "spiritual": {"$ref": "#/definitions/rating"}
      }
    },
    "healthConcerns": {
      "type": ["array", "string", "null"],
      "items": {"type": "string"}
    },
    "intensity": {"type": ["string", "null"]}
  }
}`

// FormSchema validates raw questionnaire payloads before they are decoded.
var FormSchema = validation.MustCompile("intake-form", formSchemaJSON)
