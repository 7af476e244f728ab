package resolve

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/cmget/cmget/pkg/common"
	"github.com/cmget/cmget/pkg/config"
	"github.com/cmget/cmget/pkg/release"
	"github.com/cmget/cmget/pkg/version"
)

func Execute(c *cli.Context) error {
	cfg, err := config.New(c.String("config"))
	if err != nil {
		return err
	}

	if err := cfg.MkdirAll(); err != nil {
		return err
	}

	resolver, err := release.New(cfg, c.String("github-token"))
	if err != nil {
		return err
	}

	spec := version.NewSpec(c.String("version"), c.Bool("release-candidate"))

	v, err := resolver.Resolve(c.Context, spec)
	if err != nil {
		return err
	}

	fmt.Println(v)

	return nil
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "version",
			Usage: "Specify a version to resolve, or '" + common.Latest + "' / '" + common.LatestReleaseCandidate + "'",
			Value: common.Latest,
		},
		&cli.BoolFlag{
			Name:    "release-candidate",
			Usage:   "Resolve the latest release candidate instead of the latest release",
			Aliases: []string{"rc"},
		},
		&cli.StringFlag{
			Name:    "github-token",
			Usage:   "GitHub token for the github release resolver",
			EnvVars: []string{"GITHUB_TOKEN"},
		},
	}
}

func init() {
	cmd := &cli.Command{
		Name:        "resolve",
		Usage:       "resolve a cmake version without installing it",
		Description: `print the concrete version a request resolves to, without downloading anything`,
		Before:      common.Before,
		Flags:       append(Flags(), common.Flags()...),
		Action:      Execute,
	}

	common.RegisterCommand(cmd)
}
