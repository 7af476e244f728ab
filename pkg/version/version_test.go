package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cmget/cmget/pkg/version"
)

func TestParse(t *testing.T) {
	cases := []struct {
		raw      string
		expected string
		valid    bool
	}{
		{"3.24.3", "3.24.3", true},
		{"3.25.0-rc4", "3.25.0-rc4", true},
		{"v3.24.3", "3.24.3", true},
		{"'3.23.0'", "3.23.0", true},
		{`"3.23.0"`, "3.23.0", true},
		{"  3.23.0 ", "3.23.0", true},
		{"99.99.99-rc99", "99.99.99-rc99", true},
		{"", "", false},
		{"nonsense", "", false},
		{"3", "", false},
		{"3.18", "", false},
		{"3.18.4.1", "", false},
		{"3.25.0-rc", "", false},
		{"3.25.0rc4", "", false},
	}

	for _, c := range cases {
		t.Run(c.raw, func(t *testing.T) {
			v, err := version.Parse(c.raw)
			if !c.valid {
				assert.ErrorIs(t, err, version.ErrUnsupported)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, c.expected, v.String())
		})
	}
}

func TestExtract(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"blah", ""},
		{"3", ""},
		{"cmake version 3.18", ""},
		{"cmake version 3.18.4", "3.18.4"},
		{"cmake version 3.19.0-rc3", "3.19.0-rc3"},
		{"cmake version 99.99.99-rc99", "99.99.99-rc99"},
		{"cmake version 3.19.0-rc3\n\nCMake suite maintained and supported by Kitware (kitware.com/cmake).\n", "3.19.0-rc3"},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, version.Extract(c.input))
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		a        string
		b        string
		expected int
	}{
		{"3.24.3", "3.24.3", 0},
		{"3.24.3", "3.24.2", 1},
		{"3.24.3", "3.25.0", -1},
		{"3.25.0", "3.25.0-rc4", 1},
		{"3.25.0-rc4", "3.25.0", -1},
		{"3.25.0-rc4", "3.25.0-rc4", 0},
		{"3.25.0-rc2", "3.25.0-rc10", -1},
		{"3.25.0-rc4", "3.24.3", 1},
		{"3.9.0", "3.20.0", -1},
	}

	for _, c := range cases {
		a := version.MustParse(c.a)
		b := version.MustParse(c.b)
		assert.Equal(t, c.expected, a.Compare(b), "%s <> %s", c.a, c.b)
	}
}

func TestSelect(t *testing.T) {
	listing := []*version.Version{
		version.MustParse("3.23.1"),
		version.MustParse("3.24.3"),
		version.MustParse("3.25.0-rc4"),
		version.MustParse("3.25.0-rc2"),
	}

	cases := []struct {
		name     string
		channel  version.Channel
		expected string
	}{
		{"release", version.Release, "3.24.3"},
		{"release-candidate", version.ReleaseCandidate, "3.25.0-rc4"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			best := version.Select(listing, c.channel)
			assert.NotNil(t, best)
			assert.Equal(t, c.expected, best.String())
		})
	}
}

func TestSelectFinalOutranksOlderCandidate(t *testing.T) {
	listing := []*version.Version{
		version.MustParse("3.26.0"),
		version.MustParse("3.25.0-rc4"),
	}

	best := version.Select(listing, version.ReleaseCandidate)
	assert.NotNil(t, best)
	assert.Equal(t, "3.26.0", best.String())
}

func TestSelectEmpty(t *testing.T) {
	assert.Nil(t, version.Select(nil, version.Release))
	assert.Nil(t, version.Select([]*version.Version{version.MustParse("3.25.0-rc4")}, version.Release))
}

func TestNewSpec(t *testing.T) {
	cases := []struct {
		raw      string
		rc       bool
		explicit bool
		channel  version.Channel
	}{
		{"", false, false, version.Release},
		{"latest", false, false, version.Release},
		{"latest", true, false, version.ReleaseCandidate},
		{"latest-rc", false, false, version.ReleaseCandidate},
		{"latest-rc", true, false, version.ReleaseCandidate},
		{"3.24.3", false, true, version.Release},
	}

	for _, c := range cases {
		spec := version.NewSpec(c.raw, c.rc)
		assert.Equal(t, c.explicit, spec.IsExplicit())
		assert.Equal(t, c.channel, spec.Channel())
	}
}
