package inventory

import (
	"context"
	"os/exec"

	"github.com/sirupsen/logrus"

	"github.com/cmget/cmget/pkg/version"
)

// Probe inspects the cmake already present on the PATH, CI images usually
// ship one.
type Probe struct {
	lookPath func(string) (string, error)
	output   func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func New() *Probe {
	return &Probe{
		lookPath: exec.LookPath,
		output: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
	}
}

// Installed returns the version of the cmake on the PATH, or nil when there
// is none or its version cannot be determined.
func (p *Probe) Installed(ctx context.Context) *version.Version {
	path, err := p.lookPath("cmake")
	if err != nil {
		logrus.Debug("no cmake on PATH")
		return nil
	}

	out, err := p.output(ctx, path, "--version")
	if err != nil {
		logrus.WithError(err).Debug("unable to run cmake --version")
		return nil
	}

	raw := version.Extract(string(out))
	if raw == "" {
		logrus.Debugf("unrecognized cmake --version output: %q", string(out))
		return nil
	}

	v, err := version.Parse(raw)
	if err != nil {
		return nil
	}

	return v
}
