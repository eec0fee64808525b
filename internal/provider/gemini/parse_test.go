package gemini

import (
	"encoding/base64"
	"fmt"
	"testing"

	bw "github.com/danfortner/brushwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponseInlineImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nimage-bytes")
	body := fmt.Sprintf(`{
		"candidates": [{
			"content": {"parts": [
				{"text": "Here is your image."},
				{"inlineData": {"mimeType": "image/png", "data": %q}}
			]}
		}]
	}`, base64.StdEncoding.EncodeToString(png))

	res, err := parseResponse([]byte(body), bw.FamilyGeminiCompatible)
	require.NoError(t, err)
	assert.Equal(t, png, res.Bytes)
	assert.Equal(t, "image/png", res.MIMEType)
}

func TestParseResponseSniffsMissingMIME(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2, 3}
	body := fmt.Sprintf(`{
		"candidates": [{"content": {"parts": [
			{"inlineData": {"data": %q}}
		]}}]
	}`, base64.StdEncoding.EncodeToString(jpeg))

	res, err := parseResponse([]byte(body), bw.FamilyGeminiNative)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", res.MIMEType)
}

func TestParseResponseTextOnlyIsRefusal(t *testing.T) {
	body := `{
		"candidates": [{"content": {"parts": [
			{"text": "I can't create images of real people."}
		]}}]
	}`

	_, err := parseResponse([]byte(body), bw.FamilyGeminiCompatible)
	require.Error(t, err)
	assert.True(t, bw.IsRefusal(err))
	assert.Contains(t, err.Error(), "I can't create images of real people.")
}

func TestParseResponseBlockReason(t *testing.T) {
	body := `{"promptFeedback": {"blockReason": "SAFETY"}}`

	_, err := parseResponse([]byte(body), bw.FamilyGeminiNative)
	require.Error(t, err)
	assert.True(t, bw.IsRefusal(err))
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestParseResponseMalformedBodyIsProtocolError(t *testing.T) {
	_, err := parseResponse([]byte("<html>gateway error</html>"), bw.FamilyGeminiCompatible)
	require.Error(t, err)
	assert.True(t, bw.IsProtocol(err))
	assert.Contains(t, err.Error(), bw.FamilyGeminiCompatible.String())
}

func TestParseResponseEmptyCandidates(t *testing.T) {
	_, err := parseResponse([]byte(`{"candidates": []}`), bw.FamilyGeminiCompatible)
	require.Error(t, err)
	assert.True(t, bw.IsRefusal(err))
}
