package comfy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	bw "github.com/danfortner/brushwork"
	"github.com/danfortner/brushwork/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitEnvelope(t *testing.T) {
	var envelope map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/prompt", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&envelope))
		fmt.Fprint(w, `{"prompt_id":"42"}`)
	}))
	defer srv.Close()

	c := testClient(srv)
	wf := builtinTextToImage()

	job, err := c.Submit(context.Background(), wf)
	require.NoError(t, err)
	assert.Equal(t, "42", job.ID)
	assert.False(t, job.SubmittedAt.IsZero())

	require.Contains(t, envelope, "prompt")
	require.Contains(t, envelope, "client_id")
	var clientID string
	require.NoError(t, json.Unmarshal(envelope["client_id"], &clientID))
	assert.Equal(t, "test-client", clientID)
}

func TestSubmitMissingJobIDIsProtocolError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c := testClient(srv)
	_, err := c.Submit(context.Background(), builtinTextToImage())
	require.Error(t, err)
	assert.True(t, bw.IsProtocol(err))
}

func TestWaitSucceedsOnFourthPoll(t *testing.T) {
	var polls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/history/42", r.URL.Path)
		if polls.Add(1) < 4 {
			fmt.Fprint(w, `{}`)
			return
		}
		fmt.Fprint(w, `{"42":{"outputs":{"9":{"images":[{"filename":"out_00001.png","subfolder":"","type":"output"}]}}}}`)
	}))
	defer srv.Close()

	c := testClient(srv)
	c.Poll = retry.FixedInterval(time.Millisecond, 10)

	job := &PendingJob{ID: "42", SubmittedAt: time.Now()}
	refs, err := c.Wait(context.Background(), job)
	require.NoError(t, err)

	assert.Equal(t, int64(4), polls.Load())
	assert.Equal(t, 4, job.Polls)
	require.Len(t, refs, 1)
	assert.Equal(t, ImageRef{Filename: "out_00001.png", Subfolder: "", Type: "output"}, refs[0])
}

func TestWaitImmediateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"7":{"outputs":{"9":{"images":[{"filename":"a.png","type":"output"}]}}}}`)
	}))
	defer srv.Close()

	c := testClient(srv)
	c.Poll = retry.FixedInterval(time.Millisecond, 10)

	job := &PendingJob{ID: "7", SubmittedAt: time.Now()}
	_, err := c.Wait(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, 1, job.Polls, "terminates on the first poll when outputs are ready")
}

func TestWaitTimesOutInBoundedTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c := testClient(srv)
	c.Poll = retry.FixedInterval(time.Millisecond, 5)

	job := &PendingJob{ID: "never", SubmittedAt: time.Now()}
	_, err := c.Wait(context.Background(), job)
	require.Error(t, err)
	assert.True(t, bw.IsTimeout(err))
	assert.Equal(t, 5, job.Polls, "poll budget is the bound")
}

func TestWaitKeepsPollingThroughTransientFailures(t *testing.T) {
	var polls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"42":{"outputs":{"9":{"images":[{"filename":"a.png","type":"output"}]}}}}`)
	}))
	defer srv.Close()

	c := testClient(srv)
	c.Poll = retry.FixedInterval(time.Millisecond, 10)

	job := &PendingJob{ID: "42", SubmittedAt: time.Now()}
	_, err := c.Wait(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, 3, job.Polls)
}

func TestWaitMalformedHistoryAbortsImmediately(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer srv.Close()

	c := testClient(srv)
	c.Poll = retry.FixedInterval(time.Millisecond, 10)

	job := &PendingJob{ID: "42", SubmittedAt: time.Now()}
	_, err := c.Wait(context.Background(), job)
	require.Error(t, err)
	assert.True(t, bw.IsProtocol(err), "a malformed history will not heal on re-poll")
	assert.Equal(t, 1, job.Polls)
}

func TestWaitCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c := testClient(srv)
	c.Poll = retry.FixedInterval(time.Second, 300)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	job := &PendingJob{ID: "42", SubmittedAt: time.Now()}
	start := time.Now()
	_, err := c.Wait(ctx, job)
	require.Error(t, err)
	assert.True(t, bw.IsTimeout(err))
	assert.Less(t, time.Since(start), 2*time.Second, "abort unwinds without waiting out the budget")
}

func TestFetchView(t *testing.T) {
	image := []byte("\x89PNG\r\n\x1a\nview-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/view", r.URL.Path)
		assert.Equal(t, "out.png", r.URL.Query().Get("filename"))
		assert.Equal(t, "batch1", r.URL.Query().Get("subfolder"))
		assert.Equal(t, "output", r.URL.Query().Get("type"))
		w.Header().Set("Content-Type", "image/png")
		w.Write(image)
	}))
	defer srv.Close()

	c := testClient(srv)
	data, mime, err := c.FetchView(context.Background(), ImageRef{Filename: "out.png", Subfolder: "batch1", Type: "output"})
	require.NoError(t, err)
	assert.Equal(t, image, data)
	assert.Equal(t, "image/png", mime)
}
