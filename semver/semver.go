package semver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// TagRegex matches the tag wire format: three dot-separated numeric
// components and an optional single integer build suffix. No "v" prefix,
// no pre-release identifiers, no leading zeros.
var TagRegex = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-(0|[1-9]\d*))?$`)

// ErrMalformed is returned when a tag does not match the grammar.
var ErrMalformed = errors.New("malformed version tag")

// Version is an immutable semantic version with an optional build counter.
// A version without a build counter is a release tag; one with a build
// counter marks an incremental build within the same base version.
type Version struct {
	Major    int
	Minor    int
	Patch    int
	Build    int
	HasBuild bool
}

// Zero is the version assumed when a project has no tag history.
var Zero = Version{}

// Parse converts a tag string into a Version. Tags that do not match the
// grammar are rejected with ErrMalformed; nothing is truncated or coerced.
func Parse(tag string) (Version, error) {
	m := TagRegex.FindStringSubmatch(tag)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformed, tag)
	}

	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])

	v := Version{Major: major, Minor: minor, Patch: patch}
	if m[4] != "" {
		v.Build, _ = strconv.Atoi(m[4])
		v.HasBuild = true
	}
	return v, nil
}

// IsValid reports whether tag matches the version grammar.
func IsValid(tag string) bool {
	return TagRegex.MatchString(tag)
}

// String renders the canonical tag form. Parse and String round-trip
// exactly for every representable Version.
func (v Version) String() string {
	if v.HasBuild {
		return fmt.Sprintf("%d.%d.%d-%d", v.Major, v.Minor, v.Patch, v.Build)
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns a negative number when v sorts before other, zero when
// equal, and a positive number otherwise. Ordering is total over
// (major, minor, patch, build) with an absent build sorting below any
// explicit build, including an explicit -0.
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		return v.Major - other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor - other.Minor
	}
	if v.Patch != other.Patch {
		return v.Patch - other.Patch
	}
	if v.HasBuild != other.HasBuild {
		if v.HasBuild {
			return 1
		}
		return -1
	}
	return v.Build - other.Build
}

// Latest selects the highest grammar-valid tag from tags. Strings that do
// not match the grammar are skipped, never treated as errors. The second
// return value is the original tag string; ok is false when no tag parses.
func Latest(tags []string) (latest Version, tag string, ok bool) {
	for _, t := range tags {
		v, err := Parse(t)
		if err != nil {
			continue
		}
		if !ok || v.Compare(latest) > 0 {
			latest, tag, ok = v, t, true
		}
	}
	return latest, tag, ok
}
