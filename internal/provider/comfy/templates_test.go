package comfy

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplateWithoutDirUsesBuiltin(t *testing.T) {
	c := &Client{Logger: slog.New(slog.DiscardHandler)}

	wf, builtin, err := c.loadTemplate(textToImageTemplateFile, builtinTextToImage)
	require.NoError(t, err)
	assert.True(t, builtin)
	assert.Contains(t, wf, "3")
}

func TestLoadTemplatePersistsBuiltinAsStartingPoint(t *testing.T) {
	dir := t.TempDir()
	c := &Client{Logger: slog.New(slog.DiscardHandler), TemplateDir: dir}

	_, builtin, err := c.loadTemplate(textToImageTemplateFile, builtinTextToImage)
	require.NoError(t, err)
	assert.True(t, builtin)

	data, err := os.ReadFile(filepath.Join(dir, textToImageTemplateFile))
	require.NoError(t, err, "built-in written out for the user to edit")

	var persisted Workflow
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Contains(t, persisted, "3")
}

func TestLoadTemplatePrefersUserFile(t *testing.T) {
	dir := t.TempDir()
	user := Workflow{
		"s": {ClassType: "KSampler", Inputs: map[string]any{"seed": 1, "positive": []any{"p", 0}}},
		"p": {ClassType: "CLIPTextEncode", Inputs: map[string]any{"text": "house style"}},
	}
	data, err := json.Marshal(user)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, textToImageTemplateFile), data, 0o644))

	c := &Client{Logger: slog.New(slog.DiscardHandler), TemplateDir: dir}
	wf, builtin, err := c.loadTemplate(textToImageTemplateFile, builtinTextToImage)
	require.NoError(t, err)
	assert.False(t, builtin)
	assert.Contains(t, wf, "s")
	assert.NotContains(t, wf, "3")
}

func TestLoadTemplateRejectsCorruptUserFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, imageEditTemplateFile), []byte("{broken"), 0o644))

	c := &Client{Logger: slog.New(slog.DiscardHandler), TemplateDir: dir}
	_, _, err := c.loadTemplate(imageEditTemplateFile, builtinImageEdit)
	assert.Error(t, err)
}
