package list

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/cmget/cmget/pkg/common"
	"github.com/cmget/cmget/pkg/config"
	"github.com/cmget/cmget/pkg/release"
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

	versions, err := resolver.List(c.Context)
	if err != nil {
		return err
	}

	for _, v := range versions {
		fmt.Println(v)
	}

	return nil
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "github-token",
			Usage:   "GitHub token for the github release resolver",
			EnvVars: []string{"GITHUB_TOKEN"},
		},
	}
}

func init() {
	cmd := &cli.Command{
		Name:        "list",
		Usage:       "list advertised cmake versions",
		Description: `list the versions currently advertised by the release source, newest first`,
		Before:      common.Before,
		Flags:       append(Flags(), common.Flags()...),
		Action:      Execute,
	}

	common.RegisterCommand(cmd)
}
