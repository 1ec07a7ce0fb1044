package semantic

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a platform version such as 2.0 or 13.4.1.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// ParseVersion parses one to three dot-separated integers.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) == 0 || len(parts) > 3 || parts[0] == "" {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version %q", s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func (v Version) String() string {
	if v.Patch != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(b []byte) error {
	parsed, err := ParseVersion(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Availability is one platform entry of a symbol's availability list.
type Availability struct {
	Platform                  string   `json:"platform"`
	Introduced                *Version `json:"introduced,omitempty"`
	Deprecated                *Version `json:"deprecated,omitempty"`
	Obsoleted                 *Version `json:"obsoleted,omitempty"`
	Unavailable               bool     `json:"unavailable,omitempty"`
	UnconditionallyDeprecated bool     `json:"unconditionallyDeprecated,omitempty"`
}

// PlatformVersion is the build's current version of one platform.
type PlatformVersion struct {
	Version Version `json:"version"`
	Beta    bool    `json:"beta"`
}

// CurrentPlatforms maps platform names to the versions the build targets.
type CurrentPlatforms map[string]PlatformVersion

// IsBeta reports whether a node with the given availability is in beta. Every
// entry for a tracked platform must be in beta and introduced exactly at that
// platform's current version. Nodes without availability, or available only
// on untracked platforms, are never beta.
func IsBeta(availability []Availability, current CurrentPlatforms) bool {
	if len(availability) == 0 || len(current) == 0 {
		return false
	}
	tracked := 0
	for _, a := range availability {
		pv, ok := current[a.Platform]
		if !ok {
			continue
		}
		tracked++
		if !pv.Beta || a.Introduced == nil || *a.Introduced != pv.Version {
			return false
		}
	}
	return tracked > 0
}

// IsPlatformBeta reports whether one availability entry is beta on its own.
func IsPlatformBeta(a Availability, current CurrentPlatforms) bool {
	pv, ok := current[a.Platform]
	return ok && pv.Beta && a.Introduced != nil && *a.Introduced == pv.Version
}

// IsDeprecated reports whether every availability entry is deprecated.
func IsDeprecated(availability []Availability) bool {
	if len(availability) == 0 {
		return false
	}
	for _, a := range availability {
		if a.Deprecated == nil && !a.UnconditionallyDeprecated {
			return false
		}
	}
	return true
}
