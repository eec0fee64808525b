package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	bw "github.com/danfortner/brushwork"
	"github.com/danfortner/brushwork/internal/provider/comfy"
	"github.com/danfortner/brushwork/internal/provider/gemini"
	"github.com/danfortner/brushwork/internal/provider/openaichat"
	"github.com/danfortner/brushwork/internal/provider/unified"
	"github.com/danfortner/brushwork/internal/retry"
	"github.com/google/uuid"
)

// Client orchestrates generation calls across every protocol family. It is
// stateless across calls and safe to reuse.
type Client struct {
	httpClient  *http.Client
	logger      *slog.Logger
	capture     bw.CaptureSink
	poll        retry.Config
	templateDir string

	// clientID identifies this process to the graph executor. Stable for
	// the client's lifetime.
	clientID string
}

// New creates a Client. The zero configuration talks plain HTTP with a
// 5-minute call timeout and logs through the process-wide slog default.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		logger:     slog.Default(),
		poll:       comfy.DefaultPoll,
		clientID:   uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate runs one generation call end to end: classify the profile,
// validate, resolve dimensions, dispatch to the family adapter, and return
// the normalized result. Every failure comes back as a *brushwork.Error.
func (c *Client) Generate(ctx context.Context, profile bw.Profile, req bw.Request, opts ...GenerateOption) (*bw.Result, error) {
	var gc generateConfig
	for _, opt := range opts {
		opt(&gc)
	}
	capture := c.capture
	if gc.capture != nil {
		capture = gc.capture
	}

	family := bw.ClassifyProvider(profile.Name, profile.BaseURL)
	if err := profile.Validate(family); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	dims := bw.ResolveDimensions(req.Tier, req.AspectRatio)

	c.logger.Info("generation request",
		"provider", profile.Name, "family", family.String(), "mode", string(req.Mode),
		"tier", string(req.Tier), "width", dims.Width, "height", dims.Height)

	res, err := c.dispatch(ctx, family, capture, profile, req, dims)
	if err != nil {
		if bw.KindOf(err) == "" {
			err = bw.NewTransportError(fmt.Sprintf("generate via %s", family), 0, err)
		}
		c.logger.Error("generation failed",
			"provider", profile.Name, "family", family.String(), "kind", string(bw.KindOf(err)), "error", err)
		return nil, err
	}

	c.logger.Info("generation complete",
		"provider", profile.Name, "family", family.String(), "bytes", len(res.Bytes), "mime", res.MIMEType)
	return res, nil
}

func (c *Client) dispatch(ctx context.Context, family bw.Family, capture bw.CaptureSink, profile bw.Profile, req bw.Request, dims bw.Dimensions) (*bw.Result, error) {
	switch family {
	case bw.FamilyGeminiNative, bw.FamilyGeminiCompatible:
		g := &gemini.Client{HTTPClient: c.httpClient, Logger: c.logger, Capture: capture, Family: family}
		return g.Generate(ctx, profile, req, dims)
	case bw.FamilyChatCompletions:
		o := &openaichat.Client{HTTPClient: c.httpClient, Logger: c.logger, Capture: capture}
		return o.Generate(ctx, profile, req, dims)
	case bw.FamilyUnifiedImage:
		u := &unified.Client{HTTPClient: c.httpClient, Logger: c.logger, Capture: capture}
		return u.Generate(ctx, profile, req, dims)
	case bw.FamilyGraphExecutor:
		g := &comfy.Client{
			HTTPClient:  c.httpClient,
			Logger:      c.logger,
			Capture:     capture,
			ClientID:    c.clientID,
			TemplateDir: c.templateDir,
			Poll:        c.poll,
		}
		return g.Generate(ctx, profile, req, dims)
	default:
		return nil, bw.NewConfigError(fmt.Sprintf("unknown protocol family %q", family), nil)
	}
}
