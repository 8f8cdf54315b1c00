package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCredentialPair(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		userID  string
		wantErr bool
	}{
		{"both absent", "", "", false},
		{"both present", "key", "1234", false},
		{"key only", "key", "", true},
		{"id only", "", "1234", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{OutputDir: t.TempDir(), APIKey: tt.apiKey, UserID: tt.userID}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateOutputDir(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		cfg := &Config{}
		assert.Error(t, cfg.Validate())
	})

	t.Run("collides with file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "not-a-dir")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		cfg := &Config{OutputDir: file}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})

	t.Run("nonexistent is fine", func(t *testing.T) {
		cfg := &Config{OutputDir: filepath.Join(t.TempDir(), "new")}
		assert.NoError(t, cfg.Validate())
	})
}

func TestValidateDefaults(t *testing.T) {
	cfg := &Config{OutputDir: t.TempDir(), EmitMode: EmitCompact}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, HTTPAuto, cfg.HTTPVersion)
	assert.Equal(t, "posts.json", cfg.EmitPath)
}

func TestParseHTTPVersion(t *testing.T) {
	for _, valid := range []string{"auto", "http1", "http2"} {
		v, err := ParseHTTPVersion(valid)
		require.NoError(t, err)
		assert.Equal(t, HTTPVersion(valid), v)
	}

	_, err := ParseHTTPVersion("http3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")

	_, err = ParseHTTPVersion("spdy")
	assert.Error(t, err)
}
