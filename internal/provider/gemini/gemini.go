package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	bw "github.com/danfortner/brushwork"
	"github.com/danfortner/brushwork/internal/provider/wire"
)

// DefaultModel is used when the profile does not name one.
const DefaultModel = "gemini-2.5-flash-image"

// Client dispatches generation requests to a Gemini-format backend.
type Client struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
	Capture    bw.CaptureSink
	Family     bw.Family // gemini-native or gemini-compatible
}

// Generate builds the parts-array payload, dispatches it with ?key= auth,
// and parses the inline image out of the response.
func (c *Client) Generate(ctx context.Context, profile bw.Profile, req bw.Request, dims bw.Dimensions) (*bw.Result, error) {
	payload, err := buildPayload(req)
	if err != nil {
		return nil, bw.NewConfigError("encode request payload", err)
	}
	c.capturePayload(payload)

	endpoint := endpointURL(profile)
	c.Logger.Debug("dispatching generation request",
		"family", c.Family.String(), "model", modelFor(profile), "width", dims.Width, "height", dims.Height)

	status, body, err := wire.PostJSON(ctx, c.HTTPClient, endpoint, nil, payload)
	if err != nil {
		return nil, err
	}
	c.captureResponse(body)

	if status < 200 || status >= 300 {
		return nil, bw.NewTransportError(
			fmt.Sprintf("generate: status %d, body: %s", status, wire.Truncate(body)), status, nil)
	}
	return parseResponse(body, c.Family)
}

func modelFor(p bw.Profile) string {
	if p.Model != "" {
		return p.Model
	}
	return DefaultModel
}

// endpointURL assembles the :generateContent endpoint. The key rides in
// the query string; that is the wire contract for the Gemini families.
func endpointURL(p bw.Profile) string {
	base := strings.TrimRight(p.BaseURL, "/")
	if !strings.Contains(base, "/v1beta") && !strings.HasSuffix(base, "/v1") {
		base += "/v1beta"
	}
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		base, modelFor(p), url.QueryEscape(p.APIKey))
}

func (c *Client) capturePayload(data []byte) {
	if c.Capture == nil {
		return
	}
	if err := c.Capture.SavePayload(data); err != nil {
		c.Logger.Warn("debug capture of payload failed", "error", err)
	}
}

func (c *Client) captureResponse(data []byte) {
	if c.Capture == nil {
		return
	}
	if err := c.Capture.SaveResponse(data); err != nil {
		c.Logger.Warn("debug capture of response failed", "error", err)
	}
}
