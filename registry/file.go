package registry

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/linyows/tagver/logging"
)

// File stores refs in a flat text file, one "alias|path|url" row per line.
type File struct {
	Path   string `schema:"-"`
	Create bool   `schema:"create"`
	mu     sync.Mutex
	logger *logging.Logger
}

// DefaultFileURL points at the per-user registry store.
func DefaultFileURL() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return "file://" + filepath.Join(dir, "tagver", "projects") + "?create=true"
}

// NewFile returns a file-backed registry for a file:// URL.
func NewFile(urlstr string, log *logging.Logger) (*File, error) {
	u, err := url.Parse(urlstr)
	if err != nil {
		return nil, err
	}

	f := &File{Path: u.Path, logger: log}
	if err := decoder.Decode(f, u.Query()); err != nil {
		return nil, err
	}
	if f.Path == "" {
		return nil, fmt.Errorf("registry file path is required")
	}

	if f.Create {
		if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *File) Resolve(ctx context.Context, alias string) (*ProjectRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	refs, err := f.load()
	if err != nil {
		return nil, err
	}
	for _, r := range refs {
		if r.Alias == alias {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, alias)
}

func (f *File) Upsert(ctx context.Context, ref *ProjectRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	refs, err := f.load()
	if err != nil {
		return err
	}

	replaced := false
	for i, r := range refs {
		if r.Alias == ref.Alias {
			refs[i] = ref
			replaced = true
			break
		}
	}
	if !replaced {
		refs = append(refs, ref)
	}
	return f.save(refs)
}

func (f *File) Remove(ctx context.Context, alias string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	refs, err := f.load()
	if err != nil {
		return err
	}

	kept := refs[:0]
	for _, r := range refs {
		if r.Alias != alias {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(refs) {
		return fmt.Errorf("%w: %s", ErrNotFound, alias)
	}
	return f.save(kept)
}

func (f *File) List(ctx context.Context) ([]*ProjectRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *File) load() ([]*ProjectRef, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var refs []*ProjectRef
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) != 3 || fields[0] == "" || fields[1] == "" || fields[2] == "" {
			return nil, fmt.Errorf("%w: %s line %d", ErrMalformed, f.Path, i+1)
		}
		refs = append(refs, &ProjectRef{Alias: fields[0], Path: fields[1], URL: fields[2]})
	}
	return refs, nil
}

// save rewrites the whole store through a temp file so a crashed run never
// leaves a half-written registry behind.
func (f *File) save(refs []*ProjectRef) error {
	var b strings.Builder
	for _, r := range refs {
		fmt.Fprintf(&b, "%s|%s|%s\n", r.Alias, r.Path, r.URL)
	}

	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}
