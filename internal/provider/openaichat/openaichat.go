package openaichat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	bw "github.com/danfortner/brushwork"
	"github.com/danfortner/brushwork/internal/provider/wire"
	"github.com/openai/openai-go"
)

// Client dispatches generation requests to a chat-completions reseller.
type Client struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
	Capture    bw.CaptureSink
}

// Generate sends the single-message chat payload with bearer auth, then
// extracts and fetches the image URL from the reply.
func (c *Client) Generate(ctx context.Context, profile bw.Profile, req bw.Request, dims bw.Dimensions) (*bw.Result, error) {
	params := buildParams(profile, req)
	payload, err := json.Marshal(params)
	if err != nil {
		return nil, bw.NewConfigError("encode request payload", err)
	}
	if c.Capture != nil {
		if err := c.Capture.SavePayload(payload); err != nil {
			c.Logger.Warn("debug capture of payload failed", "error", err)
		}
	}

	c.Logger.Debug("dispatching generation request",
		"family", bw.FamilyChatCompletions.String(), "model", params.Model, "width", dims.Width, "height", dims.Height)

	headers := map[string]string{"Authorization": "Bearer " + profile.APIKey}
	status, body, err := wire.PostJSON(ctx, c.HTTPClient, endpointURL(profile.BaseURL), headers, payload)
	if err != nil {
		return nil, err
	}
	if c.Capture != nil {
		if err := c.Capture.SaveResponse(body); err != nil {
			c.Logger.Warn("debug capture of response failed", "error", err)
		}
	}

	if status < 200 || status >= 300 {
		return nil, bw.NewTransportError(
			fmt.Sprintf("generate: status %d, body: %s", status, wire.Truncate(body)), status, nil)
	}

	var completion openai.ChatCompletion
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, bw.NewProtocolError(
			fmt.Sprintf("response is not in the expected shape: %s", wire.Truncate(body)),
			bw.FamilyChatCompletions, err)
	}

	return c.parseCompletion(ctx, completion, body)
}

// endpointURL appends /chat/completions, tolerating base URLs supplied
// with or without a /v1 suffix.
func endpointURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base + "/chat/completions"
}
