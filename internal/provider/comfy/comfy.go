// Package comfy implements the graph-executor protocol family: a locally
// running node-graph engine reached over plain HTTP. Generation is
// asynchronous — the workflow graph is submitted as a job, input images
// are registered through a multipart upload beforehand, and completion is
// observed by polling the job history.
package comfy

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	bw "github.com/danfortner/brushwork"
	"github.com/danfortner/brushwork/internal/retry"
	"golang.org/x/sync/errgroup"
)

// DefaultPoll is the stock polling schedule: one poll every two seconds,
// bounding the total wait to about five minutes.
var DefaultPoll = retry.FixedInterval(2*time.Second, 150)

// Client drives one executor instance. ClientID identifies this client in
// the submission envelope and should be stable for the process lifetime.
type Client struct {
	HTTPClient  *http.Client
	Logger      *slog.Logger
	Capture     bw.CaptureSink
	ClientID    string
	TemplateDir string
	Poll        retry.Config

	// base is the executor address, taken from the profile at the top of
	// Generate. One generation is in flight at a time, so this is not
	// guarded.
	base string
}

// Generate runs the full asynchronous path: upload inputs, build the
// graph, submit, poll to completion, fetch the first output image.
func (c *Client) Generate(ctx context.Context, profile bw.Profile, req bw.Request, dims bw.Dimensions) (*bw.Result, error) {
	c.base = profile.BaseURL

	wf, err := c.buildWorkflow(ctx, req, dims)
	if err != nil {
		return nil, err
	}

	job, err := c.Submit(ctx, wf)
	if err != nil {
		return nil, err
	}

	refs, err := c.Wait(ctx, job)
	if err != nil {
		return nil, err
	}

	data, mime, err := c.FetchView(ctx, refs[0])
	if err != nil {
		return nil, err
	}
	return &bw.Result{Bytes: data, MIMEType: mime}, nil
}

// buildWorkflow selects and fills the template. The image-edit graph is
// used only when the mode asks for it and an editable image is present;
// everything else falls back to text-to-image.
func (c *Client) buildWorkflow(ctx context.Context, req bw.Request, dims bw.Dimensions) (Workflow, error) {
	layers := req.EditImages()
	if req.Mode == bw.ModeImageEdit && len(layers) > 0 {
		tmpl, builtin, err := c.loadTemplate(imageEditTemplateFile, builtinImageEdit)
		if err != nil {
			return nil, bw.NewConfigError("load image-edit template", err)
		}

		sourceName, referenceName, err := c.uploadLayers(ctx, layers)
		if err != nil {
			return nil, err
		}
		wf, err := buildImageEdit(tmpl, builtin, req, sourceName, referenceName)
		if err != nil {
			return nil, bw.NewConfigError("build image-edit workflow", err)
		}
		return wf, nil
	}

	tmpl, builtin, err := c.loadTemplate(textToImageTemplateFile, builtinTextToImage)
	if err != nil {
		return nil, bw.NewConfigError("load text-to-image template", err)
	}
	wf, err := buildTextToImage(tmpl, builtin, req, dims)
	if err != nil {
		return nil, bw.NewConfigError("build text-to-image workflow", err)
	}
	return wf, nil
}

// uploadLayers registers the edit inputs with the executor, source and
// reference concurrently when both are present.
func (c *Client) uploadLayers(ctx context.Context, layers []bw.LayerImage) (sourceName, referenceName string, err error) {
	g, gctx := errgroup.WithContext(ctx)
	for _, layer := range layers {
		switch layer.Role {
		case bw.RoleSource:
			g.Go(func() error {
				var err error
				sourceName, err = c.Upload(gctx, layer.Data)
				return err
			})
		case bw.RoleReference:
			g.Go(func() error {
				var err error
				referenceName, err = c.Upload(gctx, layer.Data)
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return sourceName, referenceName, nil
}

func (c *Client) baseURL() string {
	return strings.TrimRight(c.base, "/")
}

func (c *Client) capturePayload(data []byte) {
	if c.Capture == nil {
		return
	}
	if err := c.Capture.SavePayload(data); err != nil {
		c.Logger.Warn("debug capture of payload failed", "error", err)
	}
}

func (c *Client) captureResponse(data []byte) {
	if c.Capture == nil {
		return
	}
	if err := c.Capture.SaveResponse(data); err != nil {
		c.Logger.Warn("debug capture of response failed", "error", err)
	}
}
