package update

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// maxManifestSize bounds how much of a manifest response is read
const maxManifestSize = 1 << 20

// Manifest is the release document served by the update endpoint
// (the latest.json layout produced by desktop release pipelines).
type Manifest struct {
	Version   string                      `json:"version"`
	Notes     string                      `json:"notes,omitempty"`
	PubDate   string                      `json:"pub_date,omitempty"`
	Platforms map[string]ManifestPlatform `json:"platforms"`
}

// ManifestPlatform is one entry of the platforms map
type ManifestPlatform struct {
	URL       string `json:"url"`
	Signature string `json:"signature,omitempty"`
	SHA256    string `json:"sha256,omitempty"`
}

// ParseManifest decodes and validates a manifest document
func ParseManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := json.NewDecoder(io.LimitReader(r, maxManifestSize))
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	if strings.TrimSpace(m.Version) == "" {
		return nil, fmt.Errorf("manifest has no version")
	}
	if _, err := ParseVersion(m.Version); err != nil {
		return nil, fmt.Errorf("manifest version: %w", err)
	}

	return &m, nil
}

// Asset returns the artifact published for target
func (m *Manifest) Asset(target string) (Asset, error) {
	p, ok := m.Platforms[target]
	if !ok {
		return Asset{}, fmt.Errorf("no artifact for target %s in manifest version %s", target, m.Version)
	}
	if p.URL == "" {
		return Asset{}, fmt.Errorf("artifact for target %s has no url", target)
	}

	return Asset{
		URL:       p.URL,
		Signature: p.Signature,
		SHA256:    strings.ToLower(strings.TrimSpace(p.SHA256)),
	}, nil
}

// PublishedAt parses pub_date, returning the zero time when it is missing
// or malformed.
func (m *Manifest) PublishedAt() time.Time {
	if m.PubDate == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, m.PubDate)
	if err != nil {
		return time.Time{}
	}
	return t
}
