package comfy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	bw "github.com/danfortner/brushwork"
	"github.com/danfortner/brushwork/internal/provider/wire"
	"github.com/google/uuid"
)

// uploadResponse is the executor's reply to a successful image upload.
type uploadResponse struct {
	Name      string `json:"name"`
	Subfolder string `json:"subfolder"`
	Type      string `json:"type"`
}

// Upload registers an input image with the executor over multipart
// form-data and returns the server-assigned filename. Uploads are never
// retried; a failed upload fails the whole generation.
func (c *Client) Upload(ctx context.Context, data []byte) (string, error) {
	filename := fmt.Sprintf("brushwork_%s.png", uuid.NewString()[:8])

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", bw.NewConfigError("build upload form", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", bw.NewConfigError("build upload form", err)
	}
	if err := mw.WriteField("type", "input"); err != nil {
		return "", bw.NewConfigError("build upload form", err)
	}
	if err := mw.WriteField("overwrite", "true"); err != nil {
		return "", bw.NewConfigError("build upload form", err)
	}
	if err := mw.Close(); err != nil {
		return "", bw.NewConfigError("build upload form", err)
	}

	url := c.baseURL() + "/upload/image"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", bw.NewConfigError(fmt.Sprintf("build request for %s", url), err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", bw.NewTransportError(fmt.Sprintf("POST %s", url), 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", bw.NewTransportError(fmt.Sprintf("read response from %s", url), resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", bw.NewTransportError(
			fmt.Sprintf("upload image: status %d, body: %s", resp.StatusCode, wire.Truncate(body)),
			resp.StatusCode, nil)
	}

	var ur uploadResponse
	if err := json.Unmarshal(body, &ur); err != nil {
		return "", bw.NewProtocolError(
			fmt.Sprintf("upload response is not in the expected shape: %s", wire.Truncate(body)),
			bw.FamilyGraphExecutor, err)
	}
	if ur.Name == "" {
		return "", bw.NewProtocolError("upload response carries no filename", bw.FamilyGraphExecutor, nil)
	}

	c.Logger.Debug("uploaded input image", "name", ur.Name, "bytes", len(data))
	return ur.Name, nil
}
