package tags

import (
	"context"
	"fmt"
	"io"

	"github.com/linyows/tagver/git"
	"github.com/linyows/tagver/logging"
	"github.com/linyows/tagver/registry"
	"github.com/linyows/tagver/semver"
)

// ActionKind distinguishes a real publish from a dry-run report.
type ActionKind int

const (
	// Execute creates the tag at the current commit and pushes it.
	Execute ActionKind = iota
	// Report only prints the equivalent push instruction.
	Report
)

func (k ActionKind) String() string {
	if k == Report {
		return "report"
	}
	return "execute"
}

// Action is the rendered outcome of a bump, ready to publish.
type Action struct {
	Kind ActionKind
	Tag  string
}

// Decide renders v into its canonical tag and picks the action kind.
func Decide(v semver.Version, dryRun bool) Action {
	kind := Execute
	if dryRun {
		kind = Report
	}
	return Action{Kind: kind, Tag: v.String()}
}

// DefaultRemote is where published tags are pushed.
const DefaultRemote = "origin"

// Publisher applies an Action against a working copy.
type Publisher struct {
	git    git.Client
	out    io.Writer
	logger *logging.Logger
}

// NewPublisher returns a publisher writing reports to out.
func NewPublisher(cl git.Client, out io.Writer, log *logging.Logger) *Publisher {
	return &Publisher{git: cl, out: out, logger: log}
}

// Apply executes or reports the action. A tag that already exists locally
// is a race with another publisher and is surfaced verbatim, never
// overwritten or silently re-bumped.
func (p *Publisher) Apply(ctx context.Context, project *registry.ProjectRef, a Action) error {
	if a.Kind == Report {
		fmt.Fprintf(p.out, "git tag %s && git push %s %s\n", a.Tag, DefaultRemote, a.Tag)
		return nil
	}

	if err := p.git.CreateTag(ctx, project.Path, a.Tag); err != nil {
		return fmt.Errorf("create tag for %s: %w", project.Alias, err)
	}
	if err := p.git.PushTag(ctx, project.Path, DefaultRemote, a.Tag); err != nil {
		return fmt.Errorf("push tag for %s: %w", project.Alias, err)
	}
	p.logger.Info("tag published", "alias", project.Alias, "tag", a.Tag)

	return nil
}
