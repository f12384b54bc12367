package registry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/schema"

	"github.com/linyows/tagver/logging"
)

var (
	decoder    = schema.NewDecoder()
	fileScheme = "file"
)

var (
	// ErrNotFound means no project is registered under the alias.
	ErrNotFound = errors.New("project not found")
	// ErrMalformed means the registry store itself cannot be read. It is
	// fatal and surfaced before any repository access is attempted.
	ErrMalformed = errors.New("malformed registry entry")
)

// ProjectRef binds an alias to a working copy and its remote. The core
// only ever reads it; creation and edits happen at the registry boundary.
type ProjectRef struct {
	Alias string
	Path  string
	URL   string
}

// Validate enforces the field rules before a ref may be stored.
func (p *ProjectRef) Validate() error {
	if p.Alias == "" || strings.ContainsAny(p.Alias, "| \t") {
		return fmt.Errorf("invalid alias %q: must be non-empty without whitespace or '|'", p.Alias)
	}
	if p.Path == "" || strings.Contains(p.Path, "|") {
		return fmt.Errorf("invalid path %q for alias %s", p.Path, p.Alias)
	}
	if p.URL == "" || strings.Contains(p.URL, "|") {
		return fmt.Errorf("invalid url %q for alias %s", p.URL, p.Alias)
	}
	if _, err := url.Parse(p.URL); err != nil {
		return fmt.Errorf("invalid url for alias %s: %w", p.Alias, err)
	}
	return nil
}

// Registry resolves and persists project refs by alias.
type Registry interface {
	// Resolve returns the ref registered under alias, or ErrNotFound.
	Resolve(ctx context.Context, alias string) (*ProjectRef, error)
	// Upsert registers ref, replacing any existing entry with the same
	// alias. Repeating the same upsert is idempotent.
	Upsert(ctx context.Context, ref *ProjectRef) error
	// Remove deletes the entry for alias, or returns ErrNotFound.
	Remove(ctx context.Context, alias string) error
	// List returns all refs in stored order.
	List(ctx context.Context) ([]*ProjectRef, error)
}

// New builds a registry from a scheme URL, for example
// file:///home/me/.config/tagver/projects?create=true.
func New(ctx context.Context, urlstr string, log *logging.Logger) (Registry, error) {
	splitted := strings.SplitN(urlstr, "://", 2)

	switch splitted[0] {
	case fileScheme:
		return NewFile(urlstr, log)
	default:
		return nil, fmt.Errorf("unsupported registry scheme: %s", urlstr)
	}
}
