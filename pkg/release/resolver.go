package release

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/cmget/cmget/pkg/config"
	"github.com/cmget/cmget/pkg/version"
)

// ErrFetch is returned when the list of available versions cannot be
// retrieved or nothing version-looking can be parsed out of it.
var ErrFetch = errors.New("unable to fetch available versions")

// the download page sits behind a CDN that rejects the default Go user agent
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) cmget"

type IResolver interface {
	// Resolve turns a Spec into a concrete installable version
	Resolve(ctx context.Context, spec version.Spec) (*version.Version, error)
	// List returns every advertised version, newest first
	List(ctx context.Context) ([]*version.Version, error)
}

// New builds the resolver selected by the configuration.
func New(cfg *config.Config, githubToken string) (IResolver, error) {
	minimum, err := cfg.Minimum()
	if err != nil {
		return nil, err
	}

	switch cfg.Resolver {
	case config.ResolverGitHub:
		return NewGitHub(cfg, githubToken, minimum), nil
	case config.ResolverDownloadPage, "":
		return NewDownloadPage(cfg, minimum), nil
	}

	return nil, fmt.Errorf("unknown resolver: %s", cfg.Resolver)
}

// DownloadPage resolves versions by scraping the CMake download page.
type DownloadPage struct {
	Client     *http.Client
	ListingURL string
	Minimum    *version.Version
}

func NewDownloadPage(cfg *config.Config, minimum *version.Version) *DownloadPage {
	cacheDir := filepath.Join(cfg.GetMetadataPath(), "httpcache")

	return &DownloadPage{
		Client: &http.Client{
			Transport: httpcache.NewTransport(diskcache.New(cacheDir)),
		},
		ListingURL: cfg.ListingURL,
		Minimum:    minimum,
	}
}

func (r *DownloadPage) Resolve(ctx context.Context, spec version.Spec) (*version.Version, error) {
	if spec.IsExplicit() {
		return resolveExplicit(spec.Value(), r.Minimum)
	}

	candidates, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}

	best := version.Select(candidates, spec.Channel())
	if best == nil {
		return nil, fmt.Errorf("%w: no %s versions on %s", ErrFetch, spec.Channel(), r.ListingURL)
	}

	return validateFloor(best, r.Minimum)
}

func (r *DownloadPage) List(ctx context.Context) ([]*version.Version, error) {
	candidates, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}

	sortDescending(candidates)

	return candidates, nil
}

func (r *DownloadPage) fetch(ctx context.Context) ([]*version.Version, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.ListingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetch, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrFetch, r.ListingURL, resp.Status)
	}

	page, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetch, err)
	}

	candidates := parseListing(page)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no versions recognized on %s", ErrFetch, r.ListingURL)
	}

	return candidates, nil
}

// parseListing pulls version identifiers out of the download page. The
// headings announcing "Latest Release" and "Release Candidate" are
// authoritative; when nothing can be read from headings the whole page is
// scanned for version-looking strings instead.
func parseListing(page []byte) []*version.Version {
	seen := map[string]*version.Version{}

	add := func(raw string) {
		if raw == "" {
			return
		}
		v, err := version.Parse(raw)
		if err != nil {
			return
		}
		seen[v.String()] = v
	}

	if doc, err := html.Parse(bytes.NewReader(page)); err == nil {
		walkHeadings(doc, func(id, text string) {
			if id == "latest" || strings.Contains(text, "Latest Release") || strings.Contains(text, "Release Candidate") {
				logrus.Tracef("listing > heading %q (id: %s)", text, id)
				add(version.Extract(text))
			}
		})
	}

	if len(seen) == 0 {
		logrus.Debug("listing > no versions in headings, scanning whole page")
		for _, raw := range version.ExtractAll(string(page)) {
			add(raw)
		}
	}

	candidates := make([]*version.Version, 0, len(seen))
	for _, v := range seen {
		candidates = append(candidates, v)
	}

	return candidates
}

func walkHeadings(n *html.Node, fn func(id, text string)) {
	if n.Type == html.ElementNode && n.Data == "h2" {
		var id string
		for _, attr := range n.Attr {
			if attr.Key == "id" {
				id = attr.Val
			}
		}
		fn(id, strings.TrimSpace(nodeText(n)))
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkHeadings(c, fn)
	}
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}

	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}

	return sb.String()
}

func resolveExplicit(raw string, minimum *version.Version) (*version.Version, error) {
	v, err := version.Parse(raw)
	if err != nil {
		return nil, err
	}

	return validateFloor(v, minimum)
}

func validateFloor(v, minimum *version.Version) (*version.Version, error) {
	if v.LessThan(minimum) {
		return nil, fmt.Errorf("%w: %s, the version must be %s or higher", version.ErrUnsupported, v, minimum)
	}

	return v, nil
}

func sortDescending(versions []*version.Version) {
	sort.Slice(versions, func(i, j int) bool {
		return versions[j].LessThan(versions[i])
	})
}
