package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigNewYAML(t *testing.T) {
	cfg, err := New("testdata/base.yaml")
	assert.NoError(t, err)

	assert.Equal(t, "/builds/workspace", cfg.DestPath)
	assert.Equal(t, "/home/test/.cache", cfg.CachePath)
	assert.Equal(t, "https://mirror.example.com/download/", cfg.ListingURL)
	assert.Equal(t, "https://mirror.example.com/files", cfg.DownloadURL)
	assert.Equal(t, "3.22.0", cfg.MinimumVersion)
	assert.True(t, cfg.NoChecksumVerify)
}

func TestConfigNewTOML(t *testing.T) {
	cfg, err := New("testdata/base.toml")
	assert.NoError(t, err)

	assert.Equal(t, "/builds/workspace", cfg.DestPath)
	assert.Equal(t, "/home/test/.cache", cfg.CachePath)
	assert.Equal(t, "https://mirror.example.com/download/", cfg.ListingURL)
	assert.Equal(t, "https://mirror.example.com/files", cfg.DownloadURL)
	assert.Equal(t, "3.22.0", cfg.MinimumVersion)
	assert.True(t, cfg.NoChecksumVerify)
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := New("")
	assert.NoError(t, err)

	assert.Equal(t, "https://cmake.org/download/", cfg.ListingURL)
	assert.Equal(t, "https://github.com/Kitware/CMake/releases/download", cfg.DownloadURL)
	assert.Equal(t, ResolverDownloadPage, cfg.Resolver)
	assert.NotEmpty(t, cfg.DestPath)
	assert.NotEmpty(t, cfg.CachePath)

	minimum, err := cfg.Minimum()
	assert.NoError(t, err)
	assert.Equal(t, "3.20.0", minimum.String())
}

func TestConfigMinimumOverride(t *testing.T) {
	cfg := &Config{MinimumVersion: "3.22.0"}
	minimum, err := cfg.Minimum()
	assert.NoError(t, err)
	assert.Equal(t, "3.22.0", minimum.String())

	cfg = &Config{MinimumVersion: "nonsense"}
	_, err = cfg.Minimum()
	assert.Error(t, err)
}

func TestConfigUnknownSuffix(t *testing.T) {
	cfg := &Config{}
	err := cfg.Load("testdata/base.yaml")
	assert.NoError(t, err)

	err = cfg.Load("testdata/base.json")
	assert.Error(t, err)
}
