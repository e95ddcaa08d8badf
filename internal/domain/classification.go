package domain

import (
	"encoding/json"
	"strconv"
)

// TaskNone is the suggested-task value meaning "do not delegate".
const TaskNone = "none"

// IntentClarificationNeeded is the fallback intent used when the model's
// classification block cannot be parsed.
const IntentClarificationNeeded = "clarification_needed"

// Entities maps semantic slot names (industry, location, company identifier)
// to extracted values. Models occasionally emit non-string slot values, so
// decoding coerces scalars to strings and drops anything structured.
type Entities map[string]string

// UnmarshalJSON decodes an open JSON object, stringifying scalar values.
func (e *Entities) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Entities, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		}
	}
	*e = out
	return nil
}

// Classification is the structured interpretation of a user message,
// produced once per user turn and frozen into the turn's context entry.
type Classification struct {
	Intent        string   `json:"intent"`
	Entities      Entities `json:"entities"`
	SuggestedTask string   `json:"suggested_next_task"`
	Confidence    float64  `json:"confidence_score"`
}

// FallbackClassification is used when the model's classification block is
// missing or unparseable. It degrades quality, never surfaces an error.
func FallbackClassification() Classification {
	return Classification{
		Intent:        IntentClarificationNeeded,
		Entities:      Entities{},
		SuggestedTask: TaskNone,
		Confidence:    0.3,
	}
}
