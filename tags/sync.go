package tags

import (
	"context"
	"fmt"

	"github.com/linyows/tagver/git"
	"github.com/linyows/tagver/logging"
	"github.com/linyows/tagver/registry"
	"github.com/linyows/tagver/semver"
)

// Synchronizer rebuilds a working copy's tag set from the remote and
// selects the highest grammar-valid tag. It owns the local tag set: every
// run fully replaces it, never partially.
type Synchronizer struct {
	git    git.Client
	logger *logging.Logger
}

// NewSynchronizer returns a synchronizer backed by cl.
func NewSynchronizer(cl git.Client, log *logging.Logger) *Synchronizer {
	return &Synchronizer{git: cl, logger: log}
}

// Result of one synchronization run.
type Result struct {
	// Tags is the refreshed local tag set, exactly mirroring the remote.
	Tags []string
	// Current is the highest grammar-valid version; semver.Zero when the
	// remote has no valid version tag.
	Current semver.Version
	// CurrentTag is the selected tag string, empty when none matched.
	CurrentTag string
}

// Sync deletes every local tag, fetches the remote's authoritative set and
// selects the current version. A fetch failure aborts before any version
// is computed, so a stale local state is never used as a bump base.
func (s *Synchronizer) Sync(ctx context.Context, project *registry.ProjectRef) (*Result, error) {
	local, err := s.git.ListLocalTags(ctx, project.Path)
	if err != nil {
		return nil, fmt.Errorf("list local tags for %s: %w", project.Alias, err)
	}

	for _, t := range local {
		if err := s.git.DeleteLocalTag(ctx, project.Path, t); err != nil {
			return nil, fmt.Errorf("delete local tag %s for %s: %w", t, project.Alias, err)
		}
	}
	s.logger.Debug("local tags invalidated", "alias", project.Alias, "count", len(local))

	if err := s.git.FetchRemoteTags(ctx, project.Path); err != nil {
		return nil, fmt.Errorf("fetch tags for %s: %w", project.Alias, err)
	}

	refreshed, err := s.git.ListLocalTags(ctx, project.Path)
	if err != nil {
		return nil, fmt.Errorf("list fetched tags for %s: %w", project.Alias, err)
	}

	res := &Result{Tags: refreshed}
	if v, tag, ok := semver.Latest(refreshed); ok {
		res.Current = v
		res.CurrentTag = tag
	}
	s.logger.Info("tags synchronized", "alias", project.Alias, "tags", len(refreshed), "current", res.Current.String())

	return res, nil
}
