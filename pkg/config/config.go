package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pelletier/go-toml/v2"

	"github.com/cmget/cmget/pkg/common"
	"github.com/cmget/cmget/pkg/version"
)

const (
	// ResolverDownloadPage scrapes cmake.org/download for the latest versions
	ResolverDownloadPage = "download-page"
	// ResolverGitHub asks the GitHub API for Kitware/CMake releases
	ResolverGitHub = "github"

	defaultListingURL  = "https://cmake.org/download/"
	defaultDownloadURL = "https://github.com/Kitware/CMake/releases/download"
)

type Config struct {
	// DestPath - directory the archive is extracted into. Defaults to the
	// current working directory, CI workspaces want the tree local to the run
	DestPath string `yaml:"dest_path" toml:"dest_path"`

	// CachePath - path to store downloaded archives and HTTP cache metadata,
	// set by default based on the operating system type
	CachePath string `yaml:"cache_path" toml:"cache_path"`

	// ListingURL - the page enumerating available CMake versions
	ListingURL string `yaml:"listing_url" toml:"listing_url"`

	// DownloadURL - base URL the archive and checksum file URLs are built from
	DownloadURL string `yaml:"download_url" toml:"download_url"`

	// Resolver - how "latest" is resolved, download-page (default) or github
	Resolver string `yaml:"resolver" toml:"resolver"`

	// MinimumVersion - override the oldest version considered installable
	MinimumVersion string `yaml:"minimum_version" toml:"minimum_version"`

	// NoChecksumVerify - skip verification against the release checksum file
	NoChecksumVerify bool `yaml:"no_checksum_verify" toml:"no_checksum_verify"`
}

func (c *Config) GetCachePath() string {
	return filepath.Join(c.CachePath, common.NAME)
}

func (c *Config) GetMetadataPath() string {
	return filepath.Join(c.CachePath, common.NAME, "metadata")
}

func (c *Config) GetDownloadsPath() string {
	return filepath.Join(c.CachePath, common.NAME, "downloads")
}

// Minimum returns the minimum installable version, the packaged floor unless
// the configuration overrides it.
func (c *Config) Minimum() (*version.Version, error) {
	if c.MinimumVersion == "" {
		return version.MustParse(version.Minimum), nil
	}
	return version.Parse(c.MinimumVersion)
}

func (c *Config) MkdirAll() error {
	paths := []string{c.DestPath, c.GetMetadataPath(), c.GetDownloadsPath()}

	for _, path := range paths {
		err := os.MkdirAll(path, 0755)
		if err != nil {
			return err
		}
	}

	return nil
}

// Load - load the configuration file
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return yaml.Unmarshal(data, c)
	} else if strings.HasSuffix(path, ".toml") {
		return toml.Unmarshal(data, c)
	}

	return fmt.Errorf("unknown configuration file suffix")
}

// New - create a new configuration object
func New(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if err := cfg.Load(path); err != nil {
			return cfg, err
		}
	}

	if cfg.ListingURL == "" {
		cfg.ListingURL = defaultListingURL
	}

	if cfg.DownloadURL == "" {
		cfg.DownloadURL = defaultDownloadURL
	}

	if cfg.Resolver == "" {
		cfg.Resolver = ResolverDownloadPage
	}

	if cfg.DestPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return cfg, err
		}
		cfg.DestPath = cwd
	}

	if cfg.CachePath == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return cfg, err
		}
		cfg.CachePath = cacheDir
	}

	return cfg, nil
}
