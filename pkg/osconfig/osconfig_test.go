package osconfig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cmget/cmget/pkg/osconfig"
)

func TestOS_New(t *testing.T) {
	tests := []struct {
		name      string
		os        string
		arch      string
		platform  string
		extension string
	}{
		{
			name:      "Linux AMD64",
			os:        osconfig.Linux,
			arch:      osconfig.AMD64,
			platform:  "linux-x86_64",
			extension: ".tar.gz",
		},
		{
			name:      "Linux ARM64",
			os:        osconfig.Linux,
			arch:      osconfig.ARM64,
			platform:  "linux-aarch64",
			extension: ".tar.gz",
		},
		{
			name:      "Windows AMD64",
			os:        osconfig.Windows,
			arch:      osconfig.AMD64,
			platform:  "windows-x86_64",
			extension: ".zip",
		},
		{
			name:      "Darwin AMD64",
			os:        osconfig.Darwin,
			arch:      osconfig.AMD64,
			platform:  "macos-universal",
			extension: ".tar.gz",
		},
		{
			name:      "Darwin ARM64",
			os:        osconfig.Darwin,
			arch:      osconfig.ARM64,
			platform:  "macos-universal",
			extension: ".tar.gz",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			os1, err := osconfig.New(tt.os, tt.arch)
			assert.NoError(t, err)
			assert.Equal(t, tt.platform, os1.Platform)
			assert.Equal(t, tt.extension, os1.Extension)
		})
	}
}

func TestOS_NewUnsupported(t *testing.T) {
	tests := []struct {
		name string
		os   string
		arch string
	}{
		{name: "FreeBSD", os: "freebsd", arch: osconfig.AMD64},
		{name: "Linux 386", os: osconfig.Linux, arch: "386"},
		{name: "Windows 386", os: osconfig.Windows, arch: "386"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := osconfig.New(tt.os, tt.arch)
			assert.Error(t, err)
		})
	}
}

func TestOS_ArchiveName(t *testing.T) {
	tests := []struct {
		name    string
		os      string
		arch    string
		archive string
		dir     string
		binDir  string
		binary  string
	}{
		{
			name:    "Linux",
			os:      osconfig.Linux,
			arch:    osconfig.AMD64,
			archive: "cmake-3.24.3-linux-x86_64.tar.gz",
			dir:     "cmake-3.24.3-linux-x86_64",
			binDir:  "bin",
			binary:  "cmake",
		},
		{
			name:    "Windows",
			os:      osconfig.Windows,
			arch:    osconfig.AMD64,
			archive: "cmake-3.24.3-windows-x86_64.zip",
			dir:     "cmake-3.24.3-windows-x86_64",
			binDir:  "bin",
			binary:  "cmake.exe",
		},
		{
			name:    "Darwin",
			os:      osconfig.Darwin,
			arch:    osconfig.ARM64,
			archive: "cmake-3.24.3-macos-universal.tar.gz",
			dir:     "cmake-3.24.3-macos-universal",
			binary:  "cmake",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			os1, err := osconfig.New(tt.os, tt.arch)
			assert.NoError(t, err)
			assert.Equal(t, tt.archive, os1.ArchiveName("3.24.3"))
			assert.Equal(t, tt.dir, os1.DirName("3.24.3"))
			assert.Equal(t, tt.binary, os1.BinaryName())
			if tt.binDir != "" {
				assert.Equal(t, tt.binDir, os1.BinaryDir())
			}
		})
	}
}
