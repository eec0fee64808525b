// Package wire holds the small HTTP plumbing shared by every protocol
// family: JSON dispatch, body reading with a size cap, remote image
// download, and body truncation for error messages.
package wire

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	bw "github.com/danfortner/brushwork"
)

// maxBodyBytes caps how much of a response is read into memory. Generated
// images at the highest tier stay well under this.
const maxBodyBytes = 256 * 1024 * 1024

// truncateAt is the maximum length of a response body embedded in an
// error message.
const truncateAt = 500

// PostJSON dispatches a JSON payload and returns the status code and the
// full response body. Network-level failures come back as transport
// errors with no status code; reading the response to the end is the
// caller's signal that the connection can be reused.
func PostJSON(ctx context.Context, hc *http.Client, url string, headers map[string]string, payload []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, bw.NewConfigError(fmt.Sprintf("build request for %s", url), err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return 0, nil, bw.NewTransportError(fmt.Sprintf("POST %s", url), 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, bw.NewTransportError(fmt.Sprintf("read response from %s", url), resp.StatusCode, err)
	}
	return resp.StatusCode, body, nil
}

// Get fetches a URL and returns the status code, body and content type.
func Get(ctx context.Context, hc *http.Client, url string) (int, []byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, "", bw.NewConfigError(fmt.Sprintf("build request for %s", url), err)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return 0, nil, "", bw.NewTransportError(fmt.Sprintf("GET %s", url), 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, "", bw.NewTransportError(fmt.Sprintf("read response from %s", url), resp.StatusCode, err)
	}
	return resp.StatusCode, body, resp.Header.Get("Content-Type"), nil
}

// Download fetches a generated image by URL. A non-2xx status is a
// transport error carrying the truncated body.
func Download(ctx context.Context, hc *http.Client, url string) ([]byte, string, error) {
	status, body, contentType, err := Get(ctx, hc, url)
	if err != nil {
		return nil, "", err
	}
	if status < 200 || status >= 300 {
		return nil, "", bw.NewTransportError(
			fmt.Sprintf("download %s: status %d, body: %s", url, status, Truncate(body)), status, nil)
	}
	if contentType == "" {
		contentType = bw.SniffImageMIME(body)
	}
	return body, contentType, nil
}

// Truncate shortens a response body for inclusion in an error message.
func Truncate(body []byte) string {
	s := string(body)
	if len(s) > truncateAt {
		return s[:truncateAt] + "…"
	}
	return s
}
