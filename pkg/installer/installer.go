package installer

import (
	"context"
	"errors"

	"github.com/apex/log"

	"github.com/cmget/cmget/pkg/asset"
	"github.com/cmget/cmget/pkg/config"
	"github.com/cmget/cmget/pkg/env"
	"github.com/cmget/cmget/pkg/osconfig"
	"github.com/cmget/cmget/pkg/release"
	"github.com/cmget/cmget/pkg/version"
)

// VersionProbe reports the cmake version already on the PATH, if any.
type VersionProbe interface {
	Installed(ctx context.Context) *version.Version
}

// Installer drives a single install run: resolve the requested version,
// download and verify the archive, extract it into the destination and export
// the bin directory.
type Installer struct {
	Config   *config.Config
	Platform *osconfig.OS
	Resolver release.IResolver
	Exporter *env.PathExporter
	Probe    VersionProbe

	Spec  version.Spec
	Force bool
}

// Resolve maps the requested spec onto a concrete published version.
func (i *Installer) Resolve(ctx context.Context) (*version.Version, error) {
	return i.Resolver.Resolve(ctx, i.Spec)
}

// Run performs the install. When the resolved version is already on the PATH
// the run is a no-op unless Force is set.
func (i *Installer) Run(ctx context.Context) error {
	v, err := i.Resolve(ctx)
	if err != nil {
		return err
	}

	log.Infof("resolved cmake version: %s", v)

	if !i.Force && i.Probe != nil {
		if installed := i.Probe.Installed(ctx); installed != nil && installed.Equal(v) {
			log.Infof("cmake %s already installed, nothing to do", v)
			return nil
		}
	}

	a := asset.New(v, i.Platform, &asset.Options{
		BaseURL:      i.Config.DownloadURL,
		DownloadsDir: i.Config.GetDownloadsPath(),
		DestDir:      i.Config.DestPath,
	})

	log.Infof("downloading %s", a.URL())
	if err := a.Download(ctx); err != nil {
		return err
	}

	if err := i.verify(ctx, a); err != nil {
		return err
	}

	log.Infof("extracting %s", a.Name())
	if err := a.Extract(); err != nil {
		return err
	}

	bin, err := a.Executable()
	if err != nil {
		return err
	}
	log.Infof("installed %s", bin)

	return i.Exporter.Add(a.BinDir())
}

func (i *Installer) verify(ctx context.Context, a *asset.Asset) error {
	if i.Config.NoChecksumVerify {
		log.Warn("checksum verification disabled")
		return nil
	}

	if err := a.DownloadChecksums(ctx); err != nil {
		// only an absent manifest is tolerated, a failed transfer is not
		if errors.Is(err, asset.ErrNotFound) {
			log.WithError(err).Warn("no checksum manifest for this release, skipping verification")
			return nil
		}
		return err
	}

	if err := a.Verify(); err != nil {
		return err
	}

	log.Infof("checksum verified for %s", a.Name())
	return nil
}
