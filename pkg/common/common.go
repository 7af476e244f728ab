package common

import (
	"github.com/apex/log"
	clilog "github.com/apex/log/handlers/cli"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const (
	NAME = "cmget"

	Latest                 = "latest"
	LatestReleaseCandidate = "latest-rc"
)

var commands []*cli.Command

// RegisterCommand registers a command, this is used by the cli to register
// commands from their init functions
func RegisterCommand(command *cli.Command) {
	logrus.Debugln("registering", command.Name, "command")
	commands = append(commands, command)
}

func GetCommands() []*cli.Command {
	return commands
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log Level",
			Aliases: []string{"l"},
			EnvVars: []string{"CMGET_LOG_LEVEL"},
			Value:   "info",
		},
		&cli.BoolFlag{
			Name:    "log-caller",
			Usage:   "log the caller (aka line number and file)",
			EnvVars: []string{"CMGET_LOG_CALLER"},
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Specify the configuration file to use",
			EnvVars: []string{"CMGET_CONFIG"},
		},
	}
}

func Before(c *cli.Context) error {
	log.SetHandler(clilog.Default)

	formatter := &logrus.TextFormatter{
		DisableTimestamp: true,
	}
	logrus.SetFormatter(formatter)

	switch c.String("log-level") {
	case "trace":
		log.SetLevel(log.DebugLevel)
		logrus.SetLevel(logrus.TraceLevel)
	case "debug":
		log.SetLevel(log.DebugLevel)
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
		logrus.SetLevel(logrus.ErrorLevel)
	}

	if c.Bool("log-caller") {
		logrus.SetReportCaller(true)
	}

	return nil
}
