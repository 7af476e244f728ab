package release

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v62/github"
	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/sirupsen/logrus"

	"github.com/cmget/cmget/pkg/config"
	"github.com/cmget/cmget/pkg/version"
)

const (
	githubOwner = "Kitware"
	githubRepo  = "CMake"
)

// GitHub resolves versions from the Kitware/CMake releases on the GitHub API
// instead of scraping the download page. Useful where cmake.org is blocked
// but the release host is not.
type GitHub struct {
	Owner   string
	Repo    string
	Minimum *version.Version

	client *github.Client
}

func NewGitHub(cfg *config.Config, githubToken string, minimum *version.Version) *GitHub {
	cacheFile := filepath.Join(cfg.GetMetadataPath(), "cache-github")

	client := github.NewClient(httpcache.NewTransport(diskcache.New(cacheFile)).Client())
	if githubToken != "" {
		client = client.WithAuthToken(githubToken)
	}

	return &GitHub{
		Owner:   githubOwner,
		Repo:    githubRepo,
		Minimum: minimum,
		client:  client,
	}
}

func (s *GitHub) Resolve(ctx context.Context, spec version.Spec) (*version.Version, error) {
	if spec.IsExplicit() {
		return resolveExplicit(spec.Value(), s.Minimum)
	}

	candidates, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	best := version.Select(candidates, spec.Channel())
	if best == nil {
		return nil, fmt.Errorf("%w: no %s releases on %s/%s", ErrFetch, spec.Channel(), s.Owner, s.Repo)
	}

	return validateFloor(best, s.Minimum)
}

func (s *GitHub) List(ctx context.Context) ([]*version.Version, error) {
	candidates, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	sortDescending(candidates)

	return candidates, nil
}

func (s *GitHub) fetch(ctx context.Context) ([]*version.Version, error) {
	releases, _, err := s.client.Repositories.ListReleases(ctx, s.Owner, s.Repo, &github.ListOptions{
		PerPage: 100,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetch, err)
	}

	var candidates []*version.Version
	for _, r := range releases {
		tag := strings.TrimPrefix(r.GetTagName(), "v")

		v, err := version.Parse(tag)
		if err != nil {
			logrus.Tracef("github > skipping tag %s", r.GetTagName())
			continue
		}

		candidates = append(candidates, v)
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no releases recognized on %s/%s", ErrFetch, s.Owner, s.Repo)
	}

	return candidates, nil
}
