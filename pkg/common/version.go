package common

import "fmt"

// SUMMARY is overwritten at build time via ldflags
var SUMMARY = "unreleased"

// VERSION is overwritten at build time via ldflags
var VERSION = "dev"

// COMMIT is overwritten at build time via ldflags
var COMMIT = "dirty"

type Version struct {
	Name    string
	Version string
	Commit  string

	Summary string
}

var AppVersion Version

func init() {
	AppVersion = Version{
		Name:    NAME,
		Version: VERSION,
		Commit:  COMMIT,
		Summary: fmt.Sprintf("%s-%s", VERSION, SUMMARY),
	}
}
