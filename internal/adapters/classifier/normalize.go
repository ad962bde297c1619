package classifier

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/mikey/email-classifier/internal/core"
)

// Normalize maps an arbitrary JSON payload to the canonical result shape.
// It never fails: malformed or missing fields become absent, non-string
// keywords are dropped and a blank reply becomes absent.
func Normalize(raw []byte) core.ClassificationResult {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return core.ClassificationResult{}
	}
	return NormalizeMap(payload)
}

// NormalizeMap is Normalize for an already decoded payload
func NormalizeMap(payload map[string]any) core.ClassificationResult {
	var result core.ClassificationResult
	if payload == nil {
		return result
	}

	if v, ok := payload["productive"].(bool); ok {
		result.Productive = &v
	}

	if v, ok := payload["confidence"].(float64); ok && !math.IsNaN(v) {
		result.Confidence = &v
	}

	if v, ok := payload["reason"].(string); ok {
		result.Reason = &v
	}

	if list, ok := payload["keywords"].([]any); ok {
		keywords := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				keywords = append(keywords, s)
			}
		}
		result.Keywords = keywords
	}

	if v, ok := payload["reply"].(string); ok {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result.Reply = &trimmed
		}
	}

	if v, ok := payload["error"].(string); ok && v != "" {
		result.ServiceError = &v
	}

	return result
}

// errorField extracts a string "error" field from a JSON body
func errorField(raw []byte) (string, bool) {
	var payload struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", false
	}
	msg, ok := payload.Error.(string)
	return msg, ok
}
