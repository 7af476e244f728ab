package env

import (
	"fmt"
	"os"

	"github.com/apex/log"
)

// PathExporter appends directories to the path-export file consumed by the
// invoking CI environment, GITHUB_PATH semantics: one directory per line,
// picked up by subsequent steps of the same run.
type PathExporter struct {
	File string
}

func NewPathExporter() *PathExporter {
	return &PathExporter{
		File: os.Getenv("GITHUB_PATH"),
	}
}

// Add appends dir as a single entry to the path-export file. Outside of a CI
// run there is no file to write to, the directory is only logged.
func (e *PathExporter) Add(dir string) error {
	if e.File == "" {
		log.Warnf("no path-export file, add %s to your PATH manually", dir)
		return nil
	}

	log.Infof("writing %s to %s", dir, e.File)

	f, err := os.OpenFile(e.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, dir); err != nil {
		return err
	}

	return nil
}
