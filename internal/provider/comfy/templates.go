package comfy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Node ids the image-edit template reserves for uploaded inputs.
const (
	sourceLoadNodeID    = "1"
	referenceLoadNodeID = "2"
)

// Template file names looked up under the configured template directory.
const (
	textToImageTemplateFile = "text_to_image.json"
	imageEditTemplateFile   = "image_edit.json"
)

// builtinTextToImage is the stock SDXL-style generation graph.
func builtinTextToImage() Workflow {
	return Workflow{
		"3": {ClassType: "KSampler", Inputs: map[string]any{
			"seed":         0,
			"steps":        20,
			"cfg":          8.0,
			"sampler_name": "euler",
			"scheduler":    "normal",
			"denoise":      1.0,
			"model":        []any{"4", 0},
			"positive":     []any{"6", 0},
			"negative":     []any{"7", 0},
			"latent_image": []any{"5", 0},
		}},
		"4": {ClassType: "CheckpointLoaderSimple", Inputs: map[string]any{
			"ckpt_name": "sd_xl_base_1.0.safetensors",
		}},
		"5": {ClassType: "EmptyLatentImage", Inputs: map[string]any{
			"width":      1024,
			"height":     1024,
			"batch_size": 1,
		}},
		"6": {ClassType: "CLIPTextEncode", Inputs: map[string]any{
			"text": "",
			"clip": []any{"4", 1},
		}},
		"7": {ClassType: "CLIPTextEncode", Inputs: map[string]any{
			"text": "",
			"clip": []any{"4", 1},
		}},
		"8": {ClassType: "VAEDecode", Inputs: map[string]any{
			"samples": []any{"3", 0},
			"vae":     []any{"4", 2},
		}},
		"9": {ClassType: "SaveImage", Inputs: map[string]any{
			"filename_prefix": "brushwork",
			"images":          []any{"8", 0},
		}},
	}
}

// builtinImageEdit is the stock edit graph: two image inputs feeding both
// prompt encoders, with the source image also seeding the latent.
func builtinImageEdit() Workflow {
	return Workflow{
		sourceLoadNodeID: {ClassType: "LoadImage", Inputs: map[string]any{
			"image": "",
		}},
		referenceLoadNodeID: {ClassType: "LoadImage", Inputs: map[string]any{
			"image": "",
		}},
		"3": {ClassType: "KSampler", Inputs: map[string]any{
			"seed":         0,
			"steps":        20,
			"cfg":          2.5,
			"sampler_name": "euler",
			"scheduler":    "simple",
			"denoise":      1.0,
			"model":        []any{"4", 0},
			"positive":     []any{"6", 0},
			"negative":     []any{"7", 0},
			"latent_image": []any{"12", 0},
		}},
		"4": {ClassType: "CheckpointLoaderSimple", Inputs: map[string]any{
			"ckpt_name": "qwen_image_edit.safetensors",
		}},
		"6": {ClassType: "TextEncodeQwenImageEditPlus", Inputs: map[string]any{
			"prompt": "",
			"clip":   []any{"4", 1},
			"vae":    []any{"4", 2},
			"image1": []any{sourceLoadNodeID, 0},
			"image2": []any{referenceLoadNodeID, 0},
		}},
		"7": {ClassType: "TextEncodeQwenImageEditPlus", Inputs: map[string]any{
			"prompt": "",
			"clip":   []any{"4", 1},
			"vae":    []any{"4", 2},
			"image1": []any{sourceLoadNodeID, 0},
			"image2": []any{referenceLoadNodeID, 0},
		}},
		"12": {ClassType: "VAEEncode", Inputs: map[string]any{
			"pixels": []any{sourceLoadNodeID, 0},
			"vae":    []any{"4", 2},
		}},
		"8": {ClassType: "VAEDecode", Inputs: map[string]any{
			"samples": []any{"3", 0},
			"vae":     []any{"4", 2},
		}},
		"9": {ClassType: "SaveImage", Inputs: map[string]any{
			"filename_prefix": "brushwork_edit",
			"images":          []any{"8", 0},
		}},
	}
}

// loadTemplate returns the workflow template for the given file, preferring
// a user-supplied file under the template directory. The second return
// reports whether the built-in was used; injection rules differ for user
// templates (dimensions, checkpoint and negative text are left alone).
//
// When the built-in text-to-image template is used and a template dir is
// configured, the built-in is written out as an editable starting point.
func (c *Client) loadTemplate(file string, builtin func() Workflow) (Workflow, bool, error) {
	if c.TemplateDir == "" {
		return builtin(), true, nil
	}

	path := filepath.Join(c.TemplateDir, file)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var wf Workflow
		if err := json.Unmarshal(data, &wf); err != nil {
			return nil, false, fmt.Errorf("parse template %s: %w", path, err)
		}
		return wf, false, nil
	case errors.Is(err, fs.ErrNotExist):
		wf := builtin()
		if err := c.persistTemplate(path, wf); err != nil {
			c.Logger.Warn("could not persist built-in template", "path", path, "error", err)
		}
		return wf, true, nil
	default:
		return nil, false, fmt.Errorf("read template %s: %w", path, err)
	}
}

func (c *Client) persistTemplate(path string, wf Workflow) error {
	data, err := json.MarshalIndent(wf, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
