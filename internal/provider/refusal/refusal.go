// Package refusal extracts a best-effort human-readable explanation from a
// response that arrived with HTTP 200 but no image. Upstream services
// routinely answer a blocked or misunderstood request with explanatory
// text instead of an image; the caller must see that text, not a generic
// "no image" message.
package refusal

import (
	"encoding/json"
	"strings"
)

// maxRaw is the length of the raw-body fallback.
const maxRaw = 300

// Extract returns the explanation for a missing image, looking in priority
// order at: the textual reply that accompanied the response (already
// pulled out by the family parser), a structured error object in the body,
// and finally the truncated raw body.
func Extract(accompanyingText string, body []byte) string {
	if s := strings.TrimSpace(accompanyingText); s != "" {
		return s
	}
	if s := structuredMessage(body); s != "" {
		return s
	}
	raw := strings.TrimSpace(string(body))
	if len(raw) > maxRaw {
		raw = raw[:maxRaw] + "…"
	}
	if raw == "" {
		return "response contained no image and no explanation"
	}
	return raw
}

// structuredMessage digs a message out of the common error envelopes:
// {"error":{"message":...}}, {"error":"..."}, {"message":...}, {"detail":...}.
func structuredMessage(body []byte) string {
	var env struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Detail  string          `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}

	if len(env.Error) > 0 {
		var obj struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		}
		if err := json.Unmarshal(env.Error, &obj); err == nil && obj.Message != "" {
			return obj.Message
		}
		var s string
		if err := json.Unmarshal(env.Error, &s); err == nil && s != "" {
			return s
		}
	}
	if env.Message != "" {
		return env.Message
	}
	return env.Detail
}
