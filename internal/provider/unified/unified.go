// Package unified implements the unified-image-endpoint protocol family:
// an aggregator exposing one images/generations style endpoint across many
// models. The aspect ratio has no structured field and is folded into the
// prompt as a natural-language clause.
package unified

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	bw "github.com/danfortner/brushwork"
	"github.com/danfortner/brushwork/internal/provider/refusal"
	"github.com/danfortner/brushwork/internal/provider/wire"
)

// DefaultModel is used when the profile does not name one.
const DefaultModel = "nano-banana"

// Client dispatches generation requests to the aggregator endpoint.
type Client struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
	Capture    bw.CaptureSink
}

type generationRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Size   string   `json:"size,omitempty"`
	Images []string `json:"image,omitempty"`
}

type generationResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// ratioClauses is the fixed lookup from aspect-ratio strings to the
// natural-language clause appended to the prompt.
var ratioClauses = map[string]string{
	"1:1":  "a perfectly square composition",
	"16:9": "a wide cinematic landscape composition",
	"21:9": "an ultra-wide panoramic composition",
	"9:16": "a tall vertical portrait composition",
	"4:3":  "a classic landscape composition",
	"3:4":  "a classic portrait composition",
	"3:2":  "a photographic landscape composition",
	"2:3":  "a photographic portrait composition",
}

// Generate posts the {model, prompt, size} body with bearer auth and
// resolves the first entry of the data array into image bytes.
func (c *Client) Generate(ctx context.Context, profile bw.Profile, req bw.Request, dims bw.Dimensions) (*bw.Result, error) {
	model := profile.Model
	if model == "" {
		model = DefaultModel
	}

	// The 4K model variants reject the lowest tier; upgrade silently
	// rather than fail the call.
	tier := req.Tier
	if strings.Contains(model, "4k") && tier == bw.TierLow {
		c.Logger.Warn("model does not support the low resolution tier, upgrading to mid", "model", model)
		tier = bw.TierMid
		dims = bw.ResolveDimensions(tier, req.AspectRatio)
	}

	body := generationRequest{
		Model:  model,
		Prompt: promptText(req),
		Size:   fmt.Sprintf("%dx%d", dims.Width, dims.Height),
		Images: imageDataURLs(req),
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, bw.NewConfigError("encode request payload", err)
	}
	if c.Capture != nil {
		if err := c.Capture.SavePayload(payload); err != nil {
			c.Logger.Warn("debug capture of payload failed", "error", err)
		}
	}

	c.Logger.Debug("dispatching generation request",
		"family", bw.FamilyUnifiedImage.String(), "model", model, "size", body.Size)

	headers := map[string]string{"Authorization": "Bearer " + profile.APIKey}
	status, raw, err := wire.PostJSON(ctx, c.HTTPClient, endpointURL(profile.BaseURL), headers, payload)
	if err != nil {
		return nil, err
	}
	if c.Capture != nil {
		if err := c.Capture.SaveResponse(raw); err != nil {
			c.Logger.Warn("debug capture of response failed", "error", err)
		}
	}

	if status < 200 || status >= 300 {
		return nil, bw.NewTransportError(
			fmt.Sprintf("generate: status %d, body: %s", status, wire.Truncate(raw)), status, nil)
	}
	return c.parseResponse(ctx, raw)
}

func (c *Client) parseResponse(ctx context.Context, raw []byte) (*bw.Result, error) {
	var resp generationResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, bw.NewProtocolError(
			fmt.Sprintf("response is not in the expected shape: %s", wire.Truncate(raw)),
			bw.FamilyUnifiedImage, err)
	}
	if len(resp.Data) == 0 {
		return nil, bw.NewRefusalError(refusal.Extract("", raw), bw.FamilyUnifiedImage)
	}

	datum := resp.Data[0]
	switch {
	case datum.B64JSON != "":
		data, err := base64.StdEncoding.DecodeString(datum.B64JSON)
		if err != nil {
			return nil, bw.NewProtocolError("image data is not valid base64", bw.FamilyUnifiedImage, err)
		}
		return &bw.Result{Bytes: data, MIMEType: bw.SniffImageMIME(data)}, nil
	case datum.URL != "":
		data, mime, err := wire.Download(ctx, c.HTTPClient, datum.URL)
		if err != nil {
			return nil, err
		}
		return &bw.Result{Bytes: data, URL: datum.URL, MIMEType: mime}, nil
	default:
		return nil, bw.NewRefusalError(refusal.Extract("", raw), bw.FamilyUnifiedImage)
	}
}

// promptText folds the aspect ratio into the prompt; for two-image edits
// the synthetic role instruction precedes the user prompt.
func promptText(req bw.Request) string {
	var b strings.Builder

	layers := layersFor(req)
	if len(layers) >= 2 {
		for i, layer := range layers {
			fmt.Fprintf(&b, "Image %d is the %s (%s). ", i+1, layer.Role.Label(), layer.Role.Describe())
		}
		b.WriteString("\n")
	}

	b.WriteString(req.Prompt)
	if clause := ratioClause(req.AspectRatio); clause != "" {
		b.WriteString(", rendered as ")
		b.WriteString(clause)
	}
	return b.String()
}

func ratioClause(ratio string) string {
	if ratio == "" {
		return ""
	}
	if clause, ok := ratioClauses[ratio]; ok {
		return clause
	}
	return fmt.Sprintf("a composition with a %s aspect ratio", ratio)
}

func layersFor(req bw.Request) []bw.LayerImage {
	if req.Mode != bw.ModeImageEdit {
		return nil
	}
	return req.EditImages()
}

func imageDataURLs(req bw.Request) []string {
	layers := layersFor(req)
	if len(layers) == 0 {
		return nil
	}
	urls := make([]string, 0, len(layers))
	for _, layer := range layers {
		urls = append(urls, fmt.Sprintf("data:%s;base64,%s",
			bw.SniffImageMIME(layer.Data), base64.StdEncoding.EncodeToString(layer.Data)))
	}
	return urls
}

func endpointURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base + "/images/generations"
}
