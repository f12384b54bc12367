package semver

import "errors"

// ErrNoOp is the terminal outcome of a bump request that asked for
// validation only. It means "nothing to publish", not a failure.
var ErrNoOp = errors.New("no version change requested")

// Field selects which base component a bump advances.
type Field int

const (
	// FieldNone advances nothing in the base version; combined with
	// TrackBuild it increments only the build counter.
	FieldNone Field = iota
	FieldMajor
	FieldMinor
	FieldPatch
)

func (f Field) String() string {
	switch f {
	case FieldMajor:
		return "major"
	case FieldMinor:
		return "minor"
	case FieldPatch:
		return "patch"
	default:
		return "none"
	}
}

// BumpRequest describes one bump transition.
type BumpRequest struct {
	// Field is the base component to advance.
	Field Field
	// TrackBuild requires the result to carry a build counter.
	TrackBuild bool
	// Increment actually advances the version. When false the engine
	// refuses to mutate and returns ErrNoOp.
	Increment bool
}

// Bump computes the next Version from current. Advancing major, minor or
// patch resets every lower base field, and with TrackBuild the build
// counter restarts at exactly 1. Without TrackBuild the result never
// carries a build counter: release tags strip build metadata.
//
// With FieldNone and TrackBuild, only the build counter moves; the base
// stays put even when no tag history exists, so the first build-only bump
// of a fresh project yields 0.0.0-1.
func Bump(current Version, req BumpRequest) (Version, error) {
	if !req.Increment {
		return Version{}, ErrNoOp
	}

	next := current
	switch req.Field {
	case FieldMajor:
		next.Major++
		next.Minor = 0
		next.Patch = 0
	case FieldMinor:
		next.Minor++
		next.Patch = 0
	case FieldPatch:
		next.Patch++
	case FieldNone:
		// base carried over unchanged
	}

	if req.TrackBuild {
		if req.Field == FieldNone {
			next.Build = current.Build + 1
		} else {
			next.Build = 1
		}
		next.HasBuild = true
	} else {
		next.Build = 0
		next.HasBuild = false
	}

	return next, nil
}
