package install

import (
	"runtime"

	"github.com/apex/log"

	"github.com/urfave/cli/v2"

	"github.com/cmget/cmget/pkg/common"
	"github.com/cmget/cmget/pkg/config"
	"github.com/cmget/cmget/pkg/env"
	"github.com/cmget/cmget/pkg/installer"
	"github.com/cmget/cmget/pkg/inventory"
	"github.com/cmget/cmget/pkg/osconfig"
	"github.com/cmget/cmget/pkg/release"
	"github.com/cmget/cmget/pkg/version"
)

func Execute(c *cli.Context) error {
	cfg, err := config.New(c.String("config"))
	if err != nil {
		return err
	}

	if c.String("dest") != "" {
		cfg.DestPath = c.String("dest")
	}
	if c.Bool("no-checksum-verify") {
		cfg.NoChecksumVerify = true
	}

	if err := cfg.MkdirAll(); err != nil {
		return err
	}

	platform, err := osconfig.New(c.String("os"), c.String("arch"))
	if err != nil {
		return err
	}

	resolver, err := release.New(cfg, c.String("github-token"))
	if err != nil {
		return err
	}

	spec := version.NewSpec(c.String("version"), c.Bool("release-candidate"))

	log.Infof("cmget/%s", common.AppVersion.Summary)
	log.Infof("version: %s", spec)
	log.Infof("     os: %s", platform.GetOS())
	log.Infof("   arch: %s", platform.GetArchitecture())
	log.Infof("   dest: %s", cfg.DestPath)

	inst := &installer.Installer{
		Config:   cfg,
		Platform: platform,
		Resolver: resolver,
		Exporter: env.NewPathExporter(),
		Probe:    inventory.New(),
		Spec:     spec,
		Force:    c.Bool("force"),
	}

	if err := inst.Run(c.Context); err != nil {
		if c.Bool("ignore-errors") {
			log.WithError(err).Warn("installation failed, continuing anyways (--ignore-errors)")
			return nil
		}
		return err
	}

	log.Infof("installation complete")

	return nil
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "version",
			Usage: "Specify a version to install, or '" + common.Latest + "' / '" + common.LatestReleaseCandidate + "'",
			Value: common.Latest,
		},
		&cli.BoolFlag{
			Name:    "release-candidate",
			Usage:   "Install the latest release candidate instead of the latest release",
			Aliases: []string{"rc"},
		},
		&cli.StringFlag{
			Name:    "dest",
			Usage:   "Directory to extract the release into (default is the working directory)",
			Aliases: []string{"d"},
		},
		&cli.StringFlag{
			Name:  "os",
			Usage: "Specify the OS to install for",
			Value: runtime.GOOS,
		},
		&cli.StringFlag{
			Name:  "arch",
			Usage: "Specify the architecture to install for",
			Value: runtime.GOARCH,
		},
		&cli.BoolFlag{
			Name:  "force",
			Usage: "Install even if the same version is already on the PATH",
		},
		&cli.StringFlag{
			Name:    "github-token",
			Usage:   "GitHub token for the github release resolver",
			EnvVars: []string{"GITHUB_TOKEN"},
		},
		&cli.BoolFlag{
			Name:  "no-checksum-verify",
			Usage: "Disable checksum verification of the downloaded archive",
		},
		&cli.BoolFlag{
			Name:  "ignore-errors",
			Usage: "Exit zero even when the installation fails",
		},
	}
}

func init() {
	cmd := &cli.Command{
		Name:        "install",
		Usage:       "install cmake",
		Description: `resolve, download and extract a cmake release, then export its bin directory`,
		Before:      common.Before,
		Flags:       append(Flags(), common.Flags()...),
		Action:      Execute,
	}

	common.RegisterCommand(cmd)
}
