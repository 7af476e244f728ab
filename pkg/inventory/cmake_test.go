package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstalled(t *testing.T) {
	cases := []struct {
		name     string
		output   string
		expected string
	}{
		{
			name:     "release",
			output:   "cmake version 3.24.3\n\nCMake suite maintained and supported by Kitware (kitware.com/cmake).\n",
			expected: "3.24.3",
		},
		{
			name:     "release candidate",
			output:   "cmake version 3.25.0-rc4\n",
			expected: "3.25.0-rc4",
		},
		{
			name:     "unrecognized output",
			output:   "not cmake at all",
			expected: "",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := &Probe{
				lookPath: func(string) (string, error) { return "/usr/bin/cmake", nil },
				output: func(context.Context, string, ...string) ([]byte, error) {
					return []byte(c.output), nil
				},
			}

			v := p.Installed(context.Background())
			if c.expected == "" {
				assert.Nil(t, v)
				return
			}

			assert.NotNil(t, v)
			assert.Equal(t, c.expected, v.String())
		})
	}
}

func TestInstalledNotOnPath(t *testing.T) {
	p := &Probe{
		lookPath: func(string) (string, error) { return "", errors.New("not found") },
	}

	assert.Nil(t, p.Installed(context.Background()))
}

func TestInstalledCommandFails(t *testing.T) {
	p := &Probe{
		lookPath: func(string) (string, error) { return "/usr/bin/cmake", nil },
		output: func(context.Context, string, ...string) ([]byte, error) {
			return nil, errors.New("exit status 1")
		},
	}

	assert.Nil(t, p.Installed(context.Background()))
}
