package update

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
)

const (
	userAgent      = "skylift/%s"
	defaultTimeout = 30 * time.Second
)

// ManifestChecker checks for updates against one or more manifest endpoints
type ManifestChecker struct {
	currentVersion string
	endpoints      []string
	headers        map[string]string
	platform       Platform
	target         string // Overrides platform.Target() when set
	client         *http.Client
}

// NewManifestChecker creates a new manifest checker
func NewManifestChecker(currentVersion string, endpoints []string) *ManifestChecker {
	return &ManifestChecker{
		currentVersion: currentVersion,
		endpoints:      endpoints,
		headers:        map[string]string{},
		platform:       Detect(),
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// WithHeaders adds request headers sent to every endpoint
func (c *ManifestChecker) WithHeaders(headers map[string]string) *ManifestChecker {
	for k, v := range headers {
		c.headers[k] = v
	}
	return c
}

// WithTarget overrides the detected manifest target
func (c *ManifestChecker) WithTarget(target string) *ManifestChecker {
	c.target = target
	return c
}

// WithTimeout sets the HTTP client timeout
func (c *ManifestChecker) WithTimeout(timeout time.Duration) *ManifestChecker {
	if timeout > 0 {
		c.client.Timeout = timeout
	}
	return c
}

// WithHTTPClient replaces the HTTP client
func (c *ManifestChecker) WithHTTPClient(client *http.Client) *ManifestChecker {
	c.client = client
	return c
}

// Target returns the manifest key used for asset selection
func (c *ManifestChecker) Target() string {
	if c.target != "" {
		return c.target
	}
	return c.platform.Target()
}

// Check queries the endpoints in order and returns the newer release, or
// nil when the running version is current. Endpoints are a fallback list;
// each one is tried once.
func (c *ManifestChecker) Check(ctx context.Context) (*Release, error) {
	if len(c.endpoints) == 0 {
		return nil, fmt.Errorf("no update endpoints configured")
	}

	var errs *multierror.Error
	for _, endpoint := range c.endpoints {
		url := c.expandEndpoint(endpoint)

		manifest, err := c.fetchManifest(ctx, url)
		if err != nil {
			log.Warnf("update endpoint %s failed: %v", url, err)
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", url, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if manifest == nil {
			log.Debugf("update endpoint %s reported no update", url)
			return nil, nil
		}

		return c.releaseFrom(manifest)
	}

	return nil, fmt.Errorf("failed to check for updates: %w", errs.ErrorOrNil())
}

// releaseFrom compares the manifest against the running version
func (c *ManifestChecker) releaseFrom(m *Manifest) (*Release, error) {
	newer, err := IsNewer(m.Version, c.currentVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to compare versions: %w", err)
	}
	if !newer {
		return nil, nil
	}

	target := c.Target()
	asset, err := m.Asset(target)
	if err != nil {
		return nil, err
	}

	return &Release{
		CurrentVersion: NormalizeVersion(c.currentVersion),
		Version:        NormalizeVersion(m.Version),
		Notes:          m.Notes,
		PubDate:        m.PublishedAt(),
		Target:         target,
		Asset:          asset,
	}, nil
}

// fetchManifest returns nil without an error when the endpoint answers
// 204 No Content.
func (c *ManifestChecker) fetchManifest(ctx context.Context, url string) (*Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", fmt.Sprintf(userAgent, c.currentVersion))
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Warnf("error closing response body: %v", cerr)
		}
	}()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil, nil
	case http.StatusOK:
	default:
		return nil, fmt.Errorf("unexpected HTTP status: %d", resp.StatusCode)
	}

	return ParseManifest(resp.Body)
}

// expandEndpoint fills the {{target}}, {{os}}, {{arch}} and
// {{current_version}} placeholders.
func (c *ManifestChecker) expandEndpoint(endpoint string) string {
	r := strings.NewReplacer(
		"{{target}}", c.Target(),
		"{{os}}", c.platform.OS,
		"{{arch}}", c.platform.Arch,
		"{{current_version}}", NormalizeVersion(c.currentVersion),
	)
	return r.Replace(endpoint)
}
