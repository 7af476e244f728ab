package info

import (
	"fmt"
	"runtime"

	"github.com/apex/log"
	"github.com/urfave/cli/v2"

	"github.com/cmget/cmget/pkg/common"
	"github.com/cmget/cmget/pkg/config"
)

func Execute(c *cli.Context) error {
	cfg, err := config.New(c.String("config"))
	if err != nil {
		return err
	}

	log.Infof("cmget/%s", common.AppVersion.Summary)
	fmt.Println("")
	log.Infof("system information")
	log.Infof("       os: %s", runtime.GOOS)
	log.Infof("     arch: %s", runtime.GOARCH)
	fmt.Println("")
	log.Infof("configuration")
	log.Infof("     dest: %s", cfg.DestPath)
	log.Infof("    cache: %s", cfg.GetCachePath())
	log.Infof("  listing: %s", cfg.ListingURL)
	log.Infof(" download: %s", cfg.DownloadURL)
	log.Infof(" resolver: %s", cfg.Resolver)
	fmt.Println("")
	log.Warnf("To cleanup all of cmget, remove the following directory:")
	log.Warnf("  - %s", cfg.GetCachePath())

	return nil
}

func Flags() []cli.Flag {
	return []cli.Flag{}
}

func init() {
	cmd := &cli.Command{
		Name:        "info",
		Usage:       "info",
		Description: `general information about cmget and the rendered configuration`,
		Before:      common.Before,
		Flags:       append(Flags(), common.Flags()...),
		Action:      Execute,
	}

	common.RegisterCommand(cmd)
}
