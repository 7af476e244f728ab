package osconfig

import (
	"fmt"
	"path/filepath"
)

const (
	Windows = "windows"
	Linux   = "linux"
	Darwin  = "darwin"

	AMD64 = "amd64"
	ARM64 = "arm64"
)

// OS describes the platform an archive is built for: the platform key used in
// Kitware's archive filenames, the archive format they publish for it, and
// where the binaries live inside the extracted tree.
type OS struct {
	Name string
	Arch string

	// Platform is the key embedded in the archive filename, e.g. linux-x86_64
	Platform string

	// Extension is the archive extension published for this platform
	Extension string

	// binaryDir is the bin directory relative to the extracted archive root,
	// macOS ships an app bundle rather than a plain tree
	binaryDir string
}

func (o *OS) GetOS() string {
	return o.Name
}

func (o *OS) GetArchitecture() string {
	return o.Arch
}

// ArchiveName returns the published archive filename for a version string.
func (o *OS) ArchiveName(version string) string {
	return fmt.Sprintf("cmake-%s-%s%s", version, o.Platform, o.Extension)
}

// DirName returns the top-level directory contained in the archive.
func (o *OS) DirName(version string) string {
	return fmt.Sprintf("cmake-%s-%s", version, o.Platform)
}

// BinaryDir returns the bin directory relative to the extracted archive root.
func (o *OS) BinaryDir() string {
	return filepath.FromSlash(o.binaryDir)
}

// BinaryName returns the name of the cmake executable on this platform.
func (o *OS) BinaryName() string {
	if o.Name == Windows {
		return "cmake.exe"
	}
	return "cmake"
}

// New maps a GOOS/GOARCH pair onto the platform key Kitware publishes
// archives under. Unsupported pairs return an error, there is no archive to
// fetch for them.
func New(os, arch string) (*OS, error) {
	newOS := &OS{
		Name: os,
		Arch: arch,
	}

	switch os {
	case Darwin:
		// universal binaries, both architectures share one archive
		newOS.Platform = "macos-universal"
		newOS.Extension = ".tar.gz"
		newOS.binaryDir = "CMake.app/Contents/bin"
	case Linux:
		newOS.Extension = ".tar.gz"
		newOS.binaryDir = "bin"
		switch arch {
		case AMD64:
			newOS.Platform = "linux-x86_64"
		case ARM64:
			newOS.Platform = "linux-aarch64"
		default:
			return nil, fmt.Errorf("unsupported platform: %s/%s", os, arch)
		}
	case Windows:
		newOS.Extension = ".zip"
		newOS.binaryDir = "bin"
		switch arch {
		case AMD64:
			newOS.Platform = "windows-x86_64"
		case ARM64:
			newOS.Platform = "windows-arm64"
		default:
			return nil, fmt.Errorf("unsupported platform: %s/%s", os, arch)
		}
	default:
		return nil, fmt.Errorf("unsupported platform: %s/%s", os, arch)
	}

	return newOS, nil
}
