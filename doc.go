// Package brushwork adapts normalized image-generation requests from an
// image-editing host to the wire protocols of several interchangeable
// backend services, and normalizes their responses back into a single
// raster image.
//
// The host supplies a Profile (which backend, credentials, model) and a
// Request (prompt, aspect ratio, resolution tier, generation mode, up to
// two reference images). The profile is classified into one of five
// protocol families; a family-specific adapter builds the payload,
// dispatches it, and parses the result. For the local graph-executor
// backend this includes uploading image inputs and polling an asynchronous
// job until completion.
//
// This package holds the normalized data model, the classifier, the pixel
// geometry, and the error taxonomy. The orchestrating façade lives in the
// client subpackage:
//
//	c := client.New()
//	res, err := c.Generate(ctx, profile, brushwork.Request{
//		Prompt:      "a red fox at dawn",
//		AspectRatio: "16:9",
//		Tier:        brushwork.TierMid,
//		Mode:        brushwork.ModeTextToImage,
//	})
//
// Errors returned anywhere in the module are *brushwork.Error values
// carrying a Kind (config, transport, refusal, timeout, protocol) so the
// host can distinguish a content-policy refusal from a dead backend.
package brushwork
