package git

import (
	"context"
	"errors"
)

// ErrTagExists is returned by CreateTag when the tag is already present
// locally, usually a race with another publisher. Callers surface it
// verbatim and never retry with a re-bumped version.
var ErrTagExists = errors.New("tag already exists")

// Client is the source-control surface tagver needs. Implementations own
// timeout and retry policy; callers only cancel through the context.
type Client interface {
	// Clone creates a working copy of url at path.
	Clone(ctx context.Context, url, path string) error
	// ListLocalTags returns every tag known to the working copy.
	ListLocalTags(ctx context.Context, path string) ([]string, error)
	// DeleteLocalTag removes one local tag. Deleting a tag that does
	// not exist is an idempotent no-op, not an error.
	DeleteLocalTag(ctx context.Context, path, tag string) error
	// FetchRemoteTags imports the remote's tag set into the working copy.
	FetchRemoteTags(ctx context.Context, path string) error
	// CreateTag tags the current commit. Returns ErrTagExists when the
	// tag is already present.
	CreateTag(ctx context.Context, path, tag string) error
	// PushTag publishes one tag to the named remote.
	PushTag(ctx context.Context, path, remote, tag string) error
}
