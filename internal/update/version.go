package update

import (
	"fmt"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// maxSegments is the number of numeric parts in a semantic version
const maxSegments = 3

// ParseVersion parses a semantic version string
// Supports formats like "0.8.2", "v0.8.2", "0.9.0-rc.1"
func ParseVersion(s string) (*goversion.Version, error) {
	v, err := goversion.NewSemver(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid version format: %s", s)
	}
	if len(v.Segments()) > maxSegments {
		return nil, fmt.Errorf("invalid version format: %s (more than %d segments)", s, maxSegments)
	}
	return v, nil
}

// CompareVersions compares two version strings
// Returns:
//   - 1 if v1 > v2
//   - 0 if v1 == v2
//   - -1 if v1 < v2
//   - error if either version is invalid
func CompareVersions(v1, v2 string) (int, error) {
	ver1, err := ParseVersion(v1)
	if err != nil {
		return 0, fmt.Errorf("invalid version v1: %w", err)
	}

	ver2, err := ParseVersion(v2)
	if err != nil {
		return 0, fmt.Errorf("invalid version v2: %w", err)
	}

	return ver1.Compare(ver2), nil
}

// IsNewer reports whether candidate is strictly greater than current
func IsNewer(candidate, current string) (bool, error) {
	cmp, err := CompareVersions(candidate, current)
	if err != nil {
		return false, err
	}
	return cmp > 0, nil
}

// NormalizeVersion removes the 'v' prefix if present
func NormalizeVersion(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "v")
}
