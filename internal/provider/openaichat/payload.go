package openaichat

import (
	"encoding/base64"
	"fmt"
	"strings"

	bw "github.com/danfortner/brushwork"
	"github.com/openai/openai-go"
)

// DefaultModel is the reseller model assumed when the profile does not
// name one.
const DefaultModel = "nano-banana"

// hdSuffix is appended to the default model at mid/high tiers; these
// resellers select resolution through the model id, not a parameter.
const hdSuffix = "-hd"

// resolveModel applies the resolution-driven model rewrite. Only the known
// default is rewritten; an explicitly chosen model is left alone.
func resolveModel(profile bw.Profile, tier bw.ResolutionTier) string {
	model := profile.Model
	if model == "" {
		model = DefaultModel
	}
	if model == DefaultModel && (tier == bw.TierMid || tier == bw.TierHigh) {
		model += hdSuffix
	}
	return model
}

// buildParams assembles the single-message chat payload. Image parts ride
// as data URLs in Reference-then-Source order, after the text part.
func buildParams(profile bw.Profile, req bw.Request) openai.ChatCompletionNewParams {
	text := promptText(req)
	layers := layersFor(req)

	var content openai.ChatCompletionUserMessageParamContentUnion
	if len(layers) == 0 {
		content.OfString = openai.String(text)
	} else {
		parts := []openai.ChatCompletionContentPartUnionParam{
			{OfText: &openai.ChatCompletionContentPartTextParam{Text: text}},
		}
		for _, layer := range layers {
			parts = append(parts, openai.ChatCompletionContentPartUnionParam{
				OfImageURL: &openai.ChatCompletionContentPartImageParam{
					ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
						URL: dataURL(layer.Data),
					},
				},
			})
		}
		content.OfArrayOfContentParts = parts
	}

	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(resolveModel(profile, req.Tier)),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{OfUser: &openai.ChatCompletionUserMessageParam{Content: content}},
		},
	}
}

func layersFor(req bw.Request) []bw.LayerImage {
	if req.Mode != bw.ModeImageEdit {
		return nil
	}
	return req.EditImages()
}

// promptText annotates attached images (two-image edits only), then the
// user prompt, then the aspect ratio as a literal trailing instruction —
// this family has no structured field for it.
func promptText(req bw.Request) string {
	var b strings.Builder

	layers := layersFor(req)
	if len(layers) >= 2 {
		for i, layer := range layers {
			fmt.Fprintf(&b, "[Attached Image %d: %s (%s)]\n", i+1, layer.Role.Label(), layer.Role.Describe())
		}
		b.WriteString("\n")
	}

	b.WriteString(req.Prompt)
	if req.AspectRatio != "" {
		fmt.Fprintf(&b, "\nAspect ratio: %s", req.AspectRatio)
	}
	return b.String()
}

func dataURL(data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s",
		bw.SniffImageMIME(data), base64.StdEncoding.EncodeToString(data))
}
