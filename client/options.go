package client

import (
	"log/slog"
	"net/http"
	"time"

	bw "github.com/danfortner/brushwork"
	"github.com/danfortner/brushwork/internal/retry"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the HTTP client used for every network call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger substitutes the structured logger. The default discards
// nothing and writes to the process-wide slog default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithCaptureSink enables debug capture for every call made through this
// client. Per-call WithDebugCapture overrides it.
func WithCaptureSink(sink bw.CaptureSink) Option {
	return func(c *Client) { c.capture = sink }
}

// WithPollSchedule overrides the graph-executor polling schedule: one poll
// every interval, at most attempts polls.
func WithPollSchedule(interval time.Duration, attempts int) Option {
	return func(c *Client) { c.poll = retry.FixedInterval(interval, attempts) }
}

// WithTemplateDir points the graph-executor adapter at a directory of
// user-editable workflow templates.
func WithTemplateDir(dir string) Option {
	return func(c *Client) { c.templateDir = dir }
}

// GenerateOption configures a single Generate call.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	capture bw.CaptureSink
}

// WithDebugCapture persists the exact outgoing payload and incoming body
// of this call to the sink.
func WithDebugCapture(sink bw.CaptureSink) GenerateOption {
	return func(g *generateConfig) { g.capture = sink }
}
