// Command brushwork generates an image from the command line. The provider
// is configured through the environment (a .env file is honored):
//
//	BRUSHWORK_PROVIDER_NAME  provider label, participates in classification
//	BRUSHWORK_BASE_URL       backend root endpoint (required)
//	BRUSHWORK_API_KEY        key for remote backends
//	BRUSHWORK_MODEL          model override, empty selects the default
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	bw "github.com/danfortner/brushwork"
	"github.com/danfortner/brushwork/client"
)

func main() {
	godotenv.Load()

	var (
		prompt     = flag.String("prompt", "", "generation prompt (required)")
		ratio      = flag.String("ratio", "1:1", "aspect ratio, W:H")
		tier       = flag.String("tier", "low", "resolution tier: low, mid, high")
		sourcePath = flag.String("source", "", "image to edit (switches to image-edit mode)")
		refPath    = flag.String("reference", "", "style/content reference image for edits")
		webSearch  = flag.Bool("web-search", false, "let the model ground the prompt with web search")
		out        = flag.String("out", "out.png", "output file")
		captureDir = flag.String("capture", "", "persist raw payload/response to this directory")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *prompt == "" {
		fmt.Fprintln(os.Stderr, "brushwork: -prompt is required")
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	profile := bw.Profile{
		Name:    os.Getenv("BRUSHWORK_PROVIDER_NAME"),
		BaseURL: os.Getenv("BRUSHWORK_BASE_URL"),
		APIKey:  os.Getenv("BRUSHWORK_API_KEY"),
		Model:   os.Getenv("BRUSHWORK_MODEL"),
	}

	req := bw.Request{
		Prompt:      *prompt,
		AspectRatio: *ratio,
		Tier:        bw.ResolutionTier(*tier),
		Mode:        bw.ModeTextToImage,
		WebSearch:   *webSearch,
	}
	if *sourcePath != "" {
		data, err := os.ReadFile(*sourcePath)
		if err != nil {
			fatal(logger, "read source image", err)
		}
		req.Mode = bw.ModeImageEdit
		req.SourceImage = data
	}
	if *refPath != "" {
		data, err := os.ReadFile(*refPath)
		if err != nil {
			fatal(logger, "read reference image", err)
		}
		req.Mode = bw.ModeImageEdit
		req.ReferenceImage = data
	}

	opts := []client.Option{client.WithLogger(logger)}
	if *captureDir != "" {
		sink, err := bw.NewDirSink(*captureDir)
		if err != nil {
			fatal(logger, "create capture dir", err)
		}
		opts = append(opts, client.WithCaptureSink(sink))
	}

	c := client.New(opts...)
	res, err := c.Generate(context.Background(), profile, req)
	if err != nil {
		fatal(logger, "generate", err)
	}

	if err := os.WriteFile(*out, res.Bytes, 0o644); err != nil {
		fatal(logger, "write output", err)
	}
	logger.Info("image written", "path", *out, "bytes", len(res.Bytes), "mime", res.MIMEType)
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
