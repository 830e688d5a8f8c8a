package collection

import (
	"fmt"
	"time"
)

// Pipeline versioning. A persisted collection written by a version older
// than MinSupportedVersion is treated as stale and rebuilt.
const (
	// Version is the semantic version of the import pipeline, stamped into
	// every rebuilt collection's provenance block.
	Version = "1.3.0"

	// MinSupportedVersion is the oldest persisted-collection version this
	// implementation will reuse.
	MinSupportedVersion = "1.1.0"
)

// Provenance records how a collection was produced: the producing
// function, the pipeline version and the resolved rebuild parameters.
//
// Downstream analysis ignores it; the cache manager's staleness check
// depends on Version.
type Provenance struct {
	Function    string            `json:"function"`
	Version     string            `json:"version"`
	Params      map[string]string `json:"params,omitempty"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// Stamp creates a provenance block for a rebuild performed now by the
// current pipeline version.
func Stamp(function string, params map[string]string) Provenance {
	return Provenance{
		Function:    function,
		Version:     Version,
		Params:      params,
		GeneratedAt: time.Now().UTC(),
	}
}

// ParseVersion parses a "major.minor.patch" semantic version.
func ParseVersion(v string) (major, minor, patch int, err error) {
	n, err := fmt.Sscanf(v, "%d.%d.%d", &major, &minor, &patch)
	if err != nil || n != 3 {
		return 0, 0, 0, fmt.Errorf("invalid version %q", v)
	}

	return major, minor, patch, nil
}

// CompareVersions compares two semantic versions, returning -1, 0 or 1.
// Unparseable versions compare as 0.0.0.
func CompareVersions(a, b string) int {
	aMaj, aMin, aPat, _ := ParseVersion(a)
	bMaj, bMin, bPat, _ := ParseVersion(b)

	av := [3]int{aMaj, aMin, aPat}
	bv := [3]int{bMaj, bMin, bPat}

	for i := 0; i < 3; i++ {
		if av[i] < bv[i] {
			return -1
		}
		if av[i] > bv[i] {
			return 1
		}
	}

	return 0
}

// VersionSupported reports whether a persisted collection written by
// version v can be reused.
func VersionSupported(v string) bool {
	return CompareVersions(v, MinSupportedVersion) >= 0
}
