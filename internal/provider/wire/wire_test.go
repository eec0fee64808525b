package wire

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	bw "github.com/danfortner/brushwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSONSetsContentTypeAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	status, body, err := PostJSON(context.Background(), srv.Client(), srv.URL,
		map[string]string{"Authorization": "Bearer k"}, []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestPostJSONNetworkFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, _, err := PostJSON(context.Background(), http.DefaultClient, srv.URL, nil, []byte(`{}`))
	require.Error(t, err)
	assert.True(t, bw.IsTransport(err))
	assert.Zero(t, bw.StatusCodeOf(err))
	assert.True(t, bw.IsRetryable(err))
}

func TestDownloadSniffsMissingContentType(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil // suppress auto-detection
		w.Write(jpeg)
	}))
	defer srv.Close()

	data, mime, err := Download(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, jpeg, data)
	assert.Equal(t, "image/jpeg", mime)
}

func TestDownloadNon2xxIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, _, err := Download(context.Background(), srv.Client(), srv.URL)
	require.Error(t, err)
	assert.True(t, bw.IsTransport(err))
	assert.Equal(t, http.StatusNotFound, bw.StatusCodeOf(err))
	assert.Contains(t, err.Error(), "gone")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate([]byte("short")))
	long := strings.Repeat("a", 600)
	got := Truncate([]byte(long))
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Len(t, got, 500+len("…"))
}
