package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	bw "github.com/danfortner/brushwork"
	"github.com/danfortner/brushwork/internal/provider/refusal"
	"github.com/danfortner/brushwork/internal/provider/wire"
	"google.golang.org/genai"
)

// parseResponse extracts the first inline image from a generateContent
// response. A 200 with no image is an upstream refusal; the accompanying
// text (or block reason) travels back verbatim in the error.
func parseResponse(body []byte, family bw.Family) (*bw.Result, error) {
	var resp genai.GenerateContentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, bw.NewProtocolError(
			fmt.Sprintf("response is not in the expected shape: %s", wire.Truncate(body)), family, err)
	}

	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = bw.SniffImageMIME(part.InlineData.Data)
				}
				return &bw.Result{Bytes: part.InlineData.Data, MIMEType: mime}, nil
			}
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
	}

	accompanying := text.String()
	if accompanying == "" && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		accompanying = fmt.Sprintf("request blocked: %s", resp.PromptFeedback.BlockReason)
	}
	return nil, bw.NewRefusalError(refusal.Extract(accompanying, body), family)
}
