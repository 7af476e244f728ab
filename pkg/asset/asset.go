package asset

import (
	"archive/tar"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"github.com/krolaw/zipstream"
	"github.com/sirupsen/logrus"
	"github.com/xi2/xz"

	"github.com/cmget/cmget/pkg/checksum"
	"github.com/cmget/cmget/pkg/osconfig"
	"github.com/cmget/cmget/pkg/version"
)

var (
	ErrDownload = errors.New("download failed")
	ErrExtract  = errors.New("archive extraction failed")

	// ErrNotFound is the 404 case of ErrDownload, callers use it to tell a
	// file that does not exist apart from a transfer that failed
	ErrNotFound = fmt.Errorf("%w: not found", ErrDownload)
)

var executableMimetypes = []string{
	"application/x-mach-binary",
	"application/x-executable",
	"application/x-elf",
	// position independent executables are detected as shared objects
	"application/x-sharedlib",
	"application/vnd.microsoft.portable-executable",
}

// processorFunc is a function that processes a reader
type processorFunc func(io.Reader) (io.Reader, error)

type File struct {
	Name string
}

// Asset is one published CMake archive: where it lives on the release host,
// where it gets downloaded to, and where it is extracted.
type Asset struct {
	Version  *version.Version
	Platform *osconfig.OS

	BaseURL      string
	DownloadsDir string
	DestDir      string

	DownloadPath string
	ChecksumPath string
	Files        []*File

	client *http.Client
}

type Options struct {
	BaseURL      string
	DownloadsDir string
	DestDir      string

	Client *http.Client
}

// New creates a new asset for a resolved version on a platform
func New(v *version.Version, platform *osconfig.OS, opts *Options) *Asset {
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	return &Asset{
		Version:      v,
		Platform:     platform,
		BaseURL:      opts.BaseURL,
		DownloadsDir: opts.DownloadsDir,
		DestDir:      opts.DestDir,
		Files:        make([]*File, 0),
		client:       client,
	}
}

func (a *Asset) Name() string {
	return a.Platform.ArchiveName(a.Version.String())
}

// ChecksumName returns the name of the checksum manifest published next to
// the archives of a release.
func (a *Asset) ChecksumName() string {
	return fmt.Sprintf("cmake-%s-SHA-256.txt", a.Version)
}

func (a *Asset) URL() string {
	return fmt.Sprintf("%s/v%s/%s", a.BaseURL, a.Version, a.Name())
}

func (a *Asset) ChecksumURL() string {
	return fmt.Sprintf("%s/v%s/%s", a.BaseURL, a.Version, a.ChecksumName())
}

// Download fetches the archive into the downloads directory. A sha256 sidecar
// file marks completed downloads so repeated runs skip the transfer.
func (a *Asset) Download(ctx context.Context) error {
	if err := os.MkdirAll(a.DownloadsDir, 0755); err != nil {
		return fmt.Errorf("%w: %s", ErrDownload, err)
	}

	assetFile := filepath.Join(a.DownloadsDir, a.Name())
	a.DownloadPath = assetFile

	assetFileHash := fmt.Sprintf("%s.sha256", assetFile)

	stats, err := os.Stat(assetFileHash)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrDownload, err)
	}

	if stats != nil {
		// trust the sidecar only while the archive itself is still there
		if _, err := os.Stat(assetFile); err == nil {
			logrus.Debugf("file already downloaded: %s", assetFile)
			return nil
		}

		logrus.Debugf("stale sidecar without archive, downloading again: %s", assetFile)
	}

	if err := a.fetch(ctx, a.URL(), assetFile); err != nil {
		return err
	}

	d, err := checksum.ComputeFileDigest(assetFile)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDownload, err)
	}
	_ = os.WriteFile(assetFileHash, []byte(d.Encoded()), 0600)

	logrus.Tracef("downloaded asset to: %s (%s)", assetFile, d)

	return nil
}

// DownloadChecksums fetches the release checksum manifest next to the
// archive. Callers decide whether a missing manifest is fatal.
func (a *Asset) DownloadChecksums(ctx context.Context) error {
	if err := os.MkdirAll(a.DownloadsDir, 0755); err != nil {
		return fmt.Errorf("%w: %s", ErrDownload, err)
	}

	checksumFile := filepath.Join(a.DownloadsDir, a.ChecksumName())

	if err := a.fetch(ctx, a.ChecksumURL(), checksumFile); err != nil {
		return err
	}

	a.ChecksumPath = checksumFile

	return nil
}

// fetch downloads url to dest via a temporary file, one attempt, no retries.
func (a *Asset) fetch(ctx context.Context, url, dest string) error {
	logrus.Debugf("fetching %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDownload, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, url)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %s", ErrDownload, url, resp.Status)
	}

	tmpFile, err := os.CreateTemp(a.DownloadsDir, ".cmget-*")
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDownload, err)
	}
	tmpPath := tmpFile.Name()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s", ErrDownload, err)
	}

	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s", ErrDownload, err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s", ErrDownload, err)
	}

	return nil
}

// Verify compares the downloaded archive against the release checksum
// manifest.
func (a *Asset) Verify() error {
	if a.ChecksumPath == "" {
		return fmt.Errorf("%w: no checksum manifest downloaded", ErrDownload)
	}

	match, err := checksum.CompareWithChecksumFile(a.Name(), a.DownloadPath, a.ChecksumPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDownload, err)
	}

	logrus.Tracef("checksum match: %v", match)

	if !match {
		return fmt.Errorf("%w: checksum verification failed for %s", ErrDownload, a.Name())
	}

	return nil
}

// Extract unpacks the downloaded archive into the destination directory. The
// archive keeps its own top-level directory, cmake-<version>-<platform>.
func (a *Asset) Extract() error {
	fileHandler, err := os.Open(a.DownloadPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrExtract, err)
	}
	defer fileHandler.Close()

	if err := os.MkdirAll(a.DestDir, 0755); err != nil {
		return fmt.Errorf("%w: %s", ErrExtract, err)
	}

	logrus.Debugf("opened and extracting file: %s", a.DownloadPath)

	if err := a.doExtract(fileHandler); err != nil {
		if errors.Is(err, ErrExtract) {
			return err
		}
		return fmt.Errorf("%w: %s", ErrExtract, err)
	}

	return nil
}

func (a *Asset) doExtract(in io.Reader) error {
	var buf bytes.Buffer
	tee := io.TeeReader(in, &buf)

	t, err := filetype.MatchReader(tee)
	if err != nil {
		return err
	}

	outputFile := io.MultiReader(&buf, in)

	logrus.Debugf("extracting file type: %s", t)

	var processor processorFunc

	switch t {
	case matchers.TypeTar:
		processor = a.processTar
	case matchers.TypeZip:
		processor = a.processZip
	case matchers.TypeBz2:
		processor = a.processBz2
	case matchers.TypeGz:
		processor = a.processGz
	case matchers.TypeXz:
		processor = a.processXz
	default:
		return fmt.Errorf("unexpected archive type: %s", t)
	}

	newReader, err := processor(outputFile)
	if err != nil {
		return err
	}

	if newReader == nil {
		return nil
	}

	// In case of e.g. a .tar.gz, process the uncompressed archive by calling recursively
	return a.doExtract(newReader)
}

func (a *Asset) processZip(in io.Reader) (io.Reader, error) {
	zr := zipstream.NewReader(in)
	a.Files = make([]*File, 0)

	for {
		header, err := zr.Next()

		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		target, err := sanitizeArchivePath(a.DestDir, header.Name)
		if err != nil {
			return nil, err
		}
		logrus.Tracef("zip > target %s", target)

		if header.Mode().IsDir() {
			if _, err := os.Stat(target); err != nil {
				if err := os.MkdirAll(target, 0755); err != nil {
					return nil, err
				}
				logrus.Tracef("zip > create directory %s", target)
			}

			continue
		}

		baseDir := filepath.Dir(target)
		if _, err := os.Stat(baseDir); err != nil {
			if err := os.MkdirAll(baseDir, 0755); err != nil {
				return nil, err
			}
		}

		f, err := os.OpenFile(target, os.O_CREATE|os.O_RDWR|os.O_TRUNC, header.Mode())
		if err != nil {
			return nil, err
		}

		// copy over contents
		if _, err := io.Copy(f, zr); err != nil {
			f.Close()
			return nil, err
		}

		// manually close here after each file operation; deferring would cause each file close
		// to wait until all operations have completed.
		f.Close()

		a.Files = append(a.Files, &File{Name: header.Name})
		logrus.Tracef("zip > create file %s", target)
	}

	if len(a.Files) == 0 {
		return nil, fmt.Errorf("no files found in zip archive")
	}

	return nil, nil
}

func (a *Asset) processTar(in io.Reader) (io.Reader, error) {
	logrus.Trace("processing tar file")
	tr := tar.NewReader(in)
	a.Files = make([]*File, 0)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		target, err := sanitizeArchivePath(a.DestDir, header.Name)
		if err != nil {
			return nil, err
		}

		logrus.Tracef("tar > target %s", target)

		switch header.Typeflag {
		// if it's a dir, and it doesn't exist create it
		case tar.TypeDir:
			if _, err := os.Stat(target); err != nil {
				if err := os.MkdirAll(target, 0755); err != nil {
					return nil, err
				}
				logrus.Tracef("tar > create directory %s", target)
			}
		// if it's a file create it
		case tar.TypeReg:
			baseDir := filepath.Dir(target)
			if _, err := os.Stat(baseDir); err != nil {
				if err := os.MkdirAll(baseDir, 0755); err != nil {
					return nil, err
				}
			}

			convertedMode, err := int64ToUint32(header.Mode)
			if err != nil {
				return nil, err
			}

			f, err := os.OpenFile(target, os.O_CREATE|os.O_RDWR|os.O_TRUNC, os.FileMode(convertedMode))
			if err != nil {
				return nil, err
			}

			// copy over contents
			if _, err := io.Copy(f, tr); err != nil { //nolint: gosec
				f.Close()
				return nil, err
			}

			// manually close here after each file operation; deferring would cause each file close
			// to wait until all operations have completed.
			f.Close()

			a.Files = append(a.Files, &File{Name: header.Name})
			logrus.Tracef("tar > create file %s", target)
		// the macOS app bundle contains symlinks
		case tar.TypeSymlink:
			if err := validateLinkTarget(a.DestDir, target, header.Linkname); err != nil {
				return nil, err
			}

			_ = os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return nil, err
			}

			a.Files = append(a.Files, &File{Name: header.Name})
			logrus.Tracef("tar > create symlink %s -> %s", target, header.Linkname)
		}
	}

	if len(a.Files) == 0 {
		return nil, fmt.Errorf("no files in tar archive")
	}

	return nil, nil
}

func (a *Asset) processGz(in io.Reader) (io.Reader, error) {
	gr, err := gzip.NewReader(in)
	if err != nil {
		return nil, err
	}

	return gr, nil
}

func (a *Asset) processXz(in io.Reader) (io.Reader, error) {
	xr, err := xz.NewReader(in, 0)
	if err != nil {
		return nil, err
	}

	return xr, nil
}

func (a *Asset) processBz2(in io.Reader) (io.Reader, error) {
	br := bzip2.NewReader(in)
	return br, nil
}

// BinDir returns the extracted bin directory to put on the PATH.
func (a *Asset) BinDir() string {
	return filepath.Join(a.DestDir, a.Platform.DirName(a.Version.String()), a.Platform.BinaryDir())
}

// Executable returns the path of the extracted cmake binary after confirming
// it exists and looks like an executable.
func (a *Asset) Executable() (string, error) {
	path := filepath.Join(a.BinDir(), a.Platform.BinaryName())

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: no %s in extracted archive: %s", ErrExtract, a.Platform.BinaryName(), err)
	}

	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrExtract, err)
	}

	logrus.Debugf("found mimetype: %s", m.String())

	if !slices.Contains(executableMimetypes, m.String()) {
		return "", fmt.Errorf("%w: %s is not an executable (%s)", ErrExtract, path, m.String())
	}

	return path, nil
}

func int64ToUint32(value int64) (uint32, error) {
	if value < 0 || value > math.MaxUint32 {
		return 0, errors.New("value out of range for uint32")
	}
	return uint32(value), nil
}

// containsPath reports whether path sits inside base. A bare prefix check is
// not enough, it would accept a sibling like base-evil.
func containsPath(base, path string) bool {
	base = filepath.Clean(base)
	return path == base || strings.HasPrefix(path, base+string(os.PathSeparator))
}

// sanitizeArchivePath ensures that the path is not tainted
// thanks https://github.com/securego/gosec/issues/324#issuecomment-935927967
func sanitizeArchivePath(d, t string) (v string, err error) {
	v = filepath.Join(d, t)
	if containsPath(d, v) {
		return v, nil
	}

	return "", fmt.Errorf("%s: %s", "content filepath is tainted", t)
}

// validateLinkTarget rejects absolute link targets and targets that resolve
// outside the extraction directory.
func validateLinkTarget(base, linkPath, linkname string) error {
	if filepath.IsAbs(linkname) {
		return fmt.Errorf("absolute link target not allowed: %s -> %s", linkPath, linkname)
	}

	resolved := filepath.Join(filepath.Dir(linkPath), linkname)
	if !containsPath(base, resolved) {
		return fmt.Errorf("link target escapes extraction directory: %s -> %s", linkPath, linkname)
	}

	return nil
}
