package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// Minimum is the oldest CMake release that ships prebuilt archives for every
// platform we know how to install.
const Minimum = "3.20.0"

// ErrUnsupported is returned for version strings that are malformed or below
// the minimum supported release.
var ErrUnsupported = errors.New("unsupported version")

var (
	pattern       = regexp.MustCompile(`^(\d+\.\d+\.\d+)(?:-rc(\d+))?$`)
	searchPattern = regexp.MustCompile(`\d+\.\d+\.\d+(?:-rc\d+)?`)
)

// Channel selects between final releases and release candidates when
// resolving "latest"
type Channel int

const (
	Release Channel = iota
	ReleaseCandidate
)

func (c Channel) String() string {
	return [...]string{"release", "release-candidate"}[c]
}

// Spec is the caller's request, either one of the latest channels or an
// explicit version string
type Spec struct {
	explicit string
	channel  Channel
}

// NewSpec builds a Spec from the raw --version value and the
// --release-candidate flag. An empty or "latest" value selects the channel,
// "latest-rc" forces the release-candidate channel, anything else is treated
// as an explicit version.
func NewSpec(raw string, rc bool) Spec {
	channel := Release
	if rc {
		channel = ReleaseCandidate
	}

	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "latest-rc") {
		return Spec{channel: ReleaseCandidate}
	}
	if raw == "" || strings.EqualFold(raw, "latest") {
		return Spec{channel: channel}
	}

	return Spec{explicit: raw, channel: channel}
}

func Latest() Spec {
	return Spec{channel: Release}
}

func LatestReleaseCandidate() Spec {
	return Spec{channel: ReleaseCandidate}
}

func Explicit(v string) Spec {
	return Spec{explicit: v}
}

func (s Spec) IsExplicit() bool {
	return s.explicit != ""
}

func (s Spec) Value() string {
	return s.explicit
}

func (s Spec) Channel() Channel {
	return s.channel
}

func (s Spec) String() string {
	if s.IsExplicit() {
		return s.explicit
	}
	return fmt.Sprintf("latest (%s)", s.channel)
}

// Version is a parsed CMake version, the numeric triple plus an optional
// release candidate number. A final release orders above every release
// candidate of the same triple.
type Version struct {
	core *goversion.Version
	rc   int
}

// Parse parses a version string of the form 3.24.3 or 3.25.0-rc4. Surrounding
// whitespace, quotes and a leading v are tolerated, quoted values coming out
// of CI config files are common.
func Parse(raw string) (*Version, error) {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"'`)
	s = strings.TrimPrefix(s, "v")

	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("%w: %q is not of the form 3.24.3 or 3.25.0-rc4", ErrUnsupported, raw)
	}

	core, err := goversion.NewVersion(m[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrUnsupported, raw, err)
	}

	rc := 0
	if m[2] != "" {
		rc, err = strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %s", ErrUnsupported, raw, err)
		}
	}

	return &Version{core: core, rc: rc}, nil
}

// MustParse is Parse for known-good constants, it panics on error.
func MustParse(raw string) *Version {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// Extract returns the first version-looking substring of s, or an empty
// string. Useful against `cmake --version` output.
func Extract(s string) string {
	return searchPattern.FindString(s)
}

// ExtractAll returns every version-looking substring of s.
func ExtractAll(s string) []string {
	return searchPattern.FindAllString(s, -1)
}

func (v *Version) String() string {
	if v.rc > 0 {
		return fmt.Sprintf("%s-rc%d", v.core.String(), v.rc)
	}
	return v.core.String()
}

func (v *Version) IsReleaseCandidate() bool {
	return v.rc > 0
}

// Compare returns -1, 0, or 1 depending on whether v is older than, equal to,
// or newer than o.
func (v *Version) Compare(o *Version) int {
	if c := v.core.Compare(o.core); c != 0 {
		return c
	}

	switch {
	case v.rc == o.rc:
		return 0
	case v.rc == 0:
		return 1
	case o.rc == 0:
		return -1
	case v.rc < o.rc:
		return -1
	}

	return 1
}

func (v *Version) LessThan(o *Version) bool {
	return v.Compare(o) < 0
}

func (v *Version) Equal(o *Version) bool {
	return v.Compare(o) == 0
}

// Select returns the highest candidate matching the channel, or nil when no
// candidate matches. The release channel ignores release candidates; the
// release-candidate channel considers everything, so a newer final release
// still outranks an older candidate.
func Select(candidates []*Version, channel Channel) *Version {
	var best *Version

	for _, c := range candidates {
		if channel == Release && c.IsReleaseCandidate() {
			continue
		}

		if best == nil || best.LessThan(c) {
			best = c
		}
	}

	return best
}
