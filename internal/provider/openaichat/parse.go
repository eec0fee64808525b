package openaichat

import (
	"context"
	"regexp"
	"strings"

	bw "github.com/danfortner/brushwork"
	"github.com/danfortner/brushwork/internal/provider/refusal"
	"github.com/danfortner/brushwork/internal/provider/wire"
	"github.com/openai/openai-go"
)

var (
	// A markdown image whose target is the generated file.
	markdownImageRE = regexp.MustCompile(`!\[[^\]]*\]\((https?://[^\s)]+)\)`)
	// A bare URL in plain text; trailing punctuation is excluded.
	bareURLRE = regexp.MustCompile(`https?://[^\s)\]"'<>]+`)
)

// parseCompletion pulls the image URL out of the assistant message and
// downloads it. A reply with no URL is a refusal carrying the assistant's
// own words.
func (c *Client) parseCompletion(ctx context.Context, completion openai.ChatCompletion, rawBody []byte) (*bw.Result, error) {
	var content string
	if len(completion.Choices) > 0 {
		content = completion.Choices[0].Message.Content
	}

	imageURL := extractImageURL(content)
	if imageURL == "" {
		return nil, bw.NewRefusalError(refusal.Extract(content, rawBody), bw.FamilyChatCompletions)
	}

	data, mime, err := wire.Download(ctx, c.HTTPClient, imageURL)
	if err != nil {
		return nil, err
	}
	return &bw.Result{Bytes: data, URL: imageURL, MIMEType: mime}, nil
}

// extractImageURL prefers a markdown image link over a bare URL; either
// way trailing sentence punctuation is stripped.
func extractImageURL(content string) string {
	if m := markdownImageRE.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	if m := bareURLRE.FindString(content); m != "" {
		return strings.TrimRight(m, ".,;:!?")
	}
	return ""
}
