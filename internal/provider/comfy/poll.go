package comfy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	bw "github.com/danfortner/brushwork"
	"github.com/danfortner/brushwork/internal/provider/wire"
	"github.com/danfortner/brushwork/internal/retry"
)

// PendingJob tracks one submitted generation between submission and the
// terminal poll. It is never persisted.
type PendingJob struct {
	ID          string
	SubmittedAt time.Time
	Polls       int
}

// ImageRef locates one output file on the executor, as reported by the
// job history.
type ImageRef struct {
	Filename  string `json:"filename"`
	Subfolder string `json:"subfolder"`
	Type      string `json:"type"`
}

type submitResponse struct {
	PromptID string `json:"prompt_id"`
}

type historyEntry struct {
	Outputs map[string]struct {
		Images []ImageRef `json:"images"`
	} `json:"outputs"`
}

// Submit posts the workflow under the {"prompt", "client_id"} envelope and
// returns the pending job.
func (c *Client) Submit(ctx context.Context, wf Workflow) (*PendingJob, error) {
	payload, err := json.Marshal(map[string]any{
		"prompt":    wf,
		"client_id": c.ClientID,
	})
	if err != nil {
		return nil, bw.NewConfigError("encode workflow submission", err)
	}
	c.capturePayload(payload)

	endpoint := c.baseURL() + "/prompt"
	status, body, err := wire.PostJSON(ctx, c.HTTPClient, endpoint, nil, payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, bw.NewTransportError(
			fmt.Sprintf("submit workflow: status %d, body: %s", status, wire.Truncate(body)), status, nil)
	}

	var sr submitResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, bw.NewProtocolError(
			fmt.Sprintf("submit response is not in the expected shape: %s", wire.Truncate(body)),
			bw.FamilyGraphExecutor, err)
	}
	if sr.PromptID == "" {
		return nil, bw.NewProtocolError("submit response carries no job id", bw.FamilyGraphExecutor, nil)
	}

	c.Logger.Debug("workflow submitted", "job_id", sr.PromptID)
	return &PendingJob{ID: sr.PromptID, SubmittedAt: time.Now()}, nil
}

// Wait polls the job history on a fixed schedule until the job reports
// outputs. A missing or output-less entry and transient HTTP failures keep
// the loop going; a history body that cannot be parsed aborts immediately,
// since re-polling a malformed job will not heal it. Exhausting the poll
// budget yields a timeout error.
func (c *Client) Wait(ctx context.Context, job *PendingJob) ([]ImageRef, error) {
	refs, err := retry.Do(ctx, c.Poll, func() ([]ImageRef, error) {
		job.Polls++
		return c.pollOnce(ctx, job)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, bw.NewTimeoutError(fmt.Sprintf("job %s cancelled: %v", job.ID, ctx.Err()))
		}
		if bw.IsRetryable(err) {
			return nil, bw.NewTimeoutError(fmt.Sprintf(
				"job %s produced no output after %d polls over %s",
				job.ID, job.Polls, time.Since(job.SubmittedAt).Round(time.Second)))
		}
		return nil, err
	}
	c.Logger.Debug("job completed", "job_id", job.ID, "polls", job.Polls)
	return refs, nil
}

// pollOnce reports a still-pending job as a retryable transport error so
// the retry engine keeps the loop alive.
func (c *Client) pollOnce(ctx context.Context, job *PendingJob) ([]ImageRef, error) {
	endpoint := c.baseURL() + "/history/" + url.PathEscape(job.ID)
	status, body, _, err := wire.Get(ctx, c.HTTPClient, endpoint)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, bw.NewTransportError(
			fmt.Sprintf("poll job %s: status %d", job.ID, status), status, nil)
	}

	var history map[string]historyEntry
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, bw.NewProtocolError(
			fmt.Sprintf("job history is not in the expected shape: %s", wire.Truncate(body)),
			bw.FamilyGraphExecutor, err)
	}

	entry, ok := history[job.ID]
	if !ok {
		return nil, bw.NewTransportError(fmt.Sprintf("job %s not finished", job.ID), 0, nil)
	}
	c.captureResponse(body)

	var refs []ImageRef
	for _, out := range entry.Outputs {
		refs = append(refs, out.Images...)
	}
	if len(refs) == 0 {
		return nil, bw.NewTransportError(fmt.Sprintf("job %s has no outputs yet", job.ID), 0, nil)
	}
	return refs, nil
}

// FetchView downloads one output file through the executor's view
// endpoint.
func (c *Client) FetchView(ctx context.Context, ref ImageRef) ([]byte, string, error) {
	q := url.Values{}
	q.Set("filename", ref.Filename)
	q.Set("subfolder", ref.Subfolder)
	q.Set("type", ref.Type)
	return wire.Download(ctx, c.HTTPClient, c.baseURL()+"/view?"+q.Encode())
}
