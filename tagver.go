package tagver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/carlescere/scheduler"

	"github.com/linyows/tagver/git"
	"github.com/linyows/tagver/logging"
	"github.com/linyows/tagver/notify"
	"github.com/linyows/tagver/registry"
	"github.com/linyows/tagver/semver"
	"github.com/linyows/tagver/tags"
)

// Tagver wires the registry, the git client and the tag pipeline together.
// One instance serves one invocation; projects never share mutable state,
// so an outer driver may run different aliases in parallel.
type Tagver struct {
	config   Config
	registry registry.Registry
	git      git.Client
	sync     *tags.Synchronizer
	notifier notify.Notifier
	logger   *logging.Logger
	out      io.Writer
}

// New builds a Tagver from config. Registry problems surface here, before
// any repository is touched.
func New(ctx context.Context, c Config, out io.Writer, errOut io.Writer) (*Tagver, error) {
	logger := logging.New(c.LogLevel, c.LogFormat, errOut)

	reg, err := registry.New(ctx, c.Registry, logger)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cl, err := git.NewCLI()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	notifier, err := notify.New(ctx, c.Notify, logger)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &Tagver{
		config:   c,
		registry: reg,
		git:      cl,
		sync:     tags.NewSynchronizer(cl, logger),
		notifier: notifier,
		logger:   logger,
		out:      out,
	}, nil
}

// Add registers alias in the registry, cloning the remote into path when
// no working copy exists there yet.
func (t *Tagver) Add(ctx context.Context, alias, path, url string) error {
	ref := &registry.ProjectRef{Alias: alias, Path: path, URL: url}
	if err := ref.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.logger.Info("working copy missing, cloning", "alias", alias, "url", url)
		if err := t.git.Clone(ctx, url, path); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	if err := t.registry.Upsert(ctx, ref); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Remove drops alias from the registry. The working copy stays on disk.
func (t *Tagver) Remove(ctx context.Context, alias string) error {
	if err := t.registry.Remove(ctx, alias); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// List returns every registered project.
func (t *Tagver) List(ctx context.Context) ([]*registry.ProjectRef, error) {
	refs, err := t.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return refs, nil
}

// Sync resolves alias and reconciles its local tags with the remote.
func (t *Tagver) Sync(ctx context.Context, alias string) (*tags.Result, error) {
	ref, err := t.registry.Resolve(ctx, alias)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	res, err := t.sync.Sync(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("sync: %w", err)
	}
	return res, nil
}

// BumpResult reports one completed (or skipped) bump.
type BumpResult struct {
	Project *registry.ProjectRef
	Old     semver.Version
	OldTag  string
	New     semver.Version
	Action  tags.Action
	// NoOp is set when the request asked for validation only. Nothing
	// was published and nothing is pending.
	NoOp bool
}

// Bump runs the whole pipeline for alias: synchronize, select the current
// version, compute the next one and publish it (or report the command when
// dryRun is set). Every stage must finish before the next starts.
func (t *Tagver) Bump(ctx context.Context, alias string, req semver.BumpRequest, dryRun bool) (*BumpResult, error) {
	ref, err := t.registry.Resolve(ctx, alias)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	synced, err := t.sync.Sync(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("sync: %w", err)
	}

	res := &BumpResult{
		Project: ref,
		Old:     synced.Current,
		OldTag:  synced.CurrentTag,
	}

	next, err := semver.Bump(synced.Current, req)
	if errors.Is(err, semver.ErrNoOp) {
		res.NoOp = true
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	res.New = next

	action := tags.Decide(next, dryRun)
	res.Action = action

	publisher := tags.NewPublisher(t.git, t.out, t.logger)
	if err := publisher.Apply(ctx, ref, action); err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}

	if action.Kind == tags.Execute {
		t.notifier.Send(ctx, fmt.Sprintf("%s tagged %s (was %s)", ref.Alias, action.Tag, res.Old.String()))
	}
	return res, nil
}

// RemoteTags lists the remote's tags for alias through the GitHub API,
// without requiring a working copy.
func (t *Tagver) RemoteTags(ctx context.Context, alias string) ([]string, error) {
	ref, err := t.registry.Resolve(ctx, alias)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	owner, repo, ok := git.SplitRemote(ref.URL)
	if !ok {
		return nil, fmt.Errorf("config: %s is not a github.com remote: %s", alias, ref.URL)
	}

	gh, err := git.NewGitHub()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return gh.ListRemoteTags(ctx, owner, repo)
}

// Watch synchronizes alias every interval seconds until SIGINT, SIGTERM
// or SIGQUIT arrives.
func (t *Tagver) Watch(ctx context.Context, alias string, interval int) error {
	if _, err := t.registry.Resolve(ctx, alias); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	job, err := scheduler.Every(interval).Seconds().Run(func() {
		t.watchCycle(ctx, alias)
	})
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	sig := <-sigCh
	t.logger.Debug("signal received", "signal", sig.String())
	job.Quit <- true

	return nil
}

// watchCycle runs one scheduled synchronization. Failures feed the
// notifier's error limiter; a successful cycle resets it.
func (t *Tagver) watchCycle(ctx context.Context, alias string) {
	if _, err := t.Sync(ctx, alias); err != nil {
		t.logger.Error("scheduled sync failure", "alias", alias, "error", err)
		t.notifier.SendError(ctx, err)
		return
	}
	t.notifier.ResetErrorCount()
}
