package smithygen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
model: model.json
outDir: generated/src
mode: server
validateInput: true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "model.json", cfg.Model)
	assert.Equal(t, "generated/src", cfg.OutDir)
	assert.Equal(t, "server", cfg.Mode)
	assert.True(t, cfg.ValidateInput)
}

func TestLoadConfig_DefaultsMode(t *testing.T) {
	path := writeConfig(t, `
model: model.json
outDir: generated/src
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "client", cfg.Mode)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "not yaml",
			content: "{{{",
		},
		{
			name:    "missing model",
			content: "outDir: generated/src\n",
		},
		{
			name:    "missing outDir",
			content: "model: model.json\n",
		},
		{
			name:    "bad mode",
			content: "model: model.json\noutDir: out\nmode: proxy\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
