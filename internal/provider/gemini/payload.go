package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	bw "github.com/danfortner/brushwork"
	"google.golang.org/genai"
)

// generateRequest is the :generateContent envelope. Content, Part and Blob
// come from the genai SDK, whose types are the wire schema; only the
// envelope and the image-generation config are assembled here.
type generateRequest struct {
	Contents         []*genai.Content  `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
	Tools            []*genai.Tool     `json:"tools,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string     `json:"responseModalities,omitempty"`
	ImageConfig        *imageConfig `json:"imageConfig,omitempty"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
	ImageSize   string `json:"imageSize,omitempty"`
}

func buildPayload(req bw.Request) ([]byte, error) {
	parts := []*genai.Part{{Text: promptText(req)}}

	if req.Mode == bw.ModeImageEdit {
		for _, layer := range req.EditImages() {
			parts = append(parts, &genai.Part{
				InlineData: &genai.Blob{
					MIMEType: bw.SniffImageMIME(layer.Data),
					Data:     layer.Data,
				},
			})
		}
	}

	body := generateRequest{
		Contents: []*genai.Content{{Role: "user", Parts: parts}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
			ImageConfig: &imageConfig{
				AspectRatio: req.AspectRatio,
				ImageSize:   imageSizeHint(req.Tier),
			},
		},
	}
	if req.WebSearch {
		body.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	return json.Marshal(body)
}

// promptText prefixes the user prompt with the synthetic role instruction
// when a two-image edit is being transmitted. Image numbering follows
// transmission order, which is always Reference-then-Source.
func promptText(req bw.Request) string {
	layers := req.EditImages()
	if req.Mode != bw.ModeImageEdit || len(layers) < 2 {
		return req.Prompt
	}

	var b strings.Builder
	for i, layer := range layers {
		fmt.Fprintf(&b, "Image %d is the %s (%s). ", i+1, layer.Role.Label(), layer.Role.Describe())
	}
	b.WriteString("\n")
	b.WriteString(req.Prompt)
	return b.String()
}

// imageSizeHint maps the resolution tier to the wire-level size hint.
func imageSizeHint(tier bw.ResolutionTier) string {
	switch tier {
	case bw.TierHigh:
		return "4K"
	case bw.TierMid:
		return "2K"
	default:
		return "1K"
	}
}
