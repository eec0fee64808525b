package brushwork

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageComposition(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewTransportError("POST https://example.com", 0, cause)
	assert.Equal(t, "POST https://example.com: connection reset", err.Error())

	withFamily := NewProtocolError("unexpected shape", FamilyChatCompletions, nil)
	assert.Equal(t, "unexpected shape [chat-completions]", withFamily.Error())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewConfigError("encode payload", cause)
	assert.ErrorIs(t, err, cause)
}

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		err  error
		kind ErrorKind
	}{
		{NewConfigError("x", nil), KindConfig},
		{NewTransportError("x", 500, nil), KindTransport},
		{NewRefusalError("x", FamilyGeminiNative), KindRefusal},
		{NewTimeoutError("x"), KindTimeout},
		{NewProtocolError("x", FamilyGraphExecutor, nil), KindProtocol},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
		})
	}

	assert.Empty(t, KindOf(nil))
	assert.Empty(t, KindOf(errors.New("foreign")))
}

func TestKindOfWrappedError(t *testing.T) {
	inner := NewRefusalError("content policy", FamilyUnifiedImage)
	wrapped := fmt.Errorf("generate: %w", inner)

	assert.True(t, IsRefusal(wrapped))
	assert.Equal(t, KindRefusal, KindOf(wrapped))
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected bool
	}{
		{"network error without status", NewTransportError("refused", 0, nil), true},
		{"rate limit", NewTransportError("slow down", 429, nil), true},
		{"server error", NewTransportError("oops", 503, nil), true},
		{"bad request", NewTransportError("bad", 400, nil), false},
		{"unauthorized", NewTransportError("key", 401, nil), false},
		{"refusal never retryable", NewRefusalError("no", FamilyGeminiNative), false},
		{"config never retryable", NewConfigError("no key", nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Retryable())
			assert.Equal(t, tt.expected, IsRetryable(tt.err))
		})
	}
}

func TestStatusCodeOf(t *testing.T) {
	assert.Equal(t, 429, StatusCodeOf(NewTransportError("x", 429, nil)))
	assert.Zero(t, StatusCodeOf(errors.New("foreign")))
	assert.Zero(t, StatusCodeOf(nil))
}
