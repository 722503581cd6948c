package file

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"

	"github.com/spf13/afero"

	"github.com/dmitrymomot/cookiejar/core/cookie"
	"github.com/dmitrymomot/cookiejar/core/jar"
)

// formatVersion tags the on-disk snapshot so future revisions can migrate.
const formatVersion = "cookiejar-file/1.0.0"

// snapshot is the on-disk shape: the serialized-cookie list in creation
// order. Creation indexes are never persisted; imports assign fresh ones.
type snapshot struct {
	Version string           `json:"version"`
	Cookies []*cookie.Cookie `json:"cookies"`
}

// Store is a file-backed cookie store: an in-memory reference index that
// persists every mutation as a JSON snapshot through an afero filesystem.
// It implements the jar's Store contract plus all optional capabilities.
type Store struct {
	mu       sync.Mutex
	fs       afero.Fs
	path     string
	mem      *jar.MemoryStore
	autoSync bool
}

// Option configures a Store.
type Option func(*Store)

// WithoutAutoSync disables the write-through flush after each mutation;
// callers must Sync explicitly.
func WithoutAutoSync() Option {
	return func(s *Store) { s.autoSync = false }
}

// New creates a file-backed store persisting to path on the given
// filesystem, loading any existing snapshot first. Pass afero.NewOsFs()
// for on-disk persistence or afero.NewMemMapFs() in tests.
func New(fs afero.Fs, path string, opts ...Option) (*Store, error) {
	s := &Store{
		fs:       fs,
		path:     path,
		mem:      jar.NewMemoryStore(),
		autoSync: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// FindCookie implements jar.Store.
func (s *Store) FindCookie(ctx context.Context, domain, path, name string) (*cookie.Cookie, error) {
	return s.mem.FindCookie(ctx, domain, path, name)
}

// FindCookies implements jar.Store.
func (s *Store) FindCookies(ctx context.Context, domain, path string, allowSpecialUseDomain bool) ([]*cookie.Cookie, error) {
	return s.mem.FindCookies(ctx, domain, path, allowSpecialUseDomain)
}

// PutCookie implements jar.Store.
func (s *Store) PutCookie(ctx context.Context, c *cookie.Cookie) error {
	if err := s.mem.PutCookie(ctx, c); err != nil {
		return err
	}
	return s.maybeSync(ctx)
}

// UpdateCookie implements the jar.Updater capability.
func (s *Store) UpdateCookie(ctx context.Context, old, updated *cookie.Cookie) error {
	if err := s.mem.UpdateCookie(ctx, old, updated); err != nil {
		return err
	}
	return s.maybeSync(ctx)
}

// RemoveCookie implements jar.Store.
func (s *Store) RemoveCookie(ctx context.Context, domain, path, name string) error {
	if err := s.mem.RemoveCookie(ctx, domain, path, name); err != nil {
		return err
	}
	return s.maybeSync(ctx)
}

// RemoveCookies implements the jar.BulkRemover capability.
func (s *Store) RemoveCookies(ctx context.Context, domain, path string) error {
	if err := s.mem.RemoveCookies(ctx, domain, path); err != nil {
		return err
	}
	return s.maybeSync(ctx)
}

// RemoveAllCookies implements the jar.BatchRemover capability.
func (s *Store) RemoveAllCookies(ctx context.Context) error {
	if err := s.mem.RemoveAllCookies(ctx); err != nil {
		return err
	}
	return s.maybeSync(ctx)
}

// AllCookies implements the jar.Lister capability.
func (s *Store) AllCookies(ctx context.Context) ([]*cookie.Cookie, error) {
	return s.mem.AllCookies(ctx)
}

// Sync writes the current contents to the backing file. The snapshot goes
// to a temp file first and is moved into place by rename, so an interrupted
// write never leaves a truncated snapshot behind.
func (s *Store) Sync(ctx context.Context) error {
	cookies, err := s.mem.AllCookies(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshot{Version: formatVersion, Cookies: cookies}, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o600); err != nil {
		return err
	}
	err = s.fs.Rename(tmp, s.path)
	if err != nil {
		// Some afero backends refuse to rename over an existing file.
		if s.fs.Remove(s.path) == nil {
			err = s.fs.Rename(tmp, s.path)
		}
	}
	return err
}

func (s *Store) maybeSync(ctx context.Context) error {
	if !s.autoSync {
		return nil
	}
	return s.Sync(ctx)
}

func (s *Store) load() error {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return errors.Join(ErrCorruptSnapshot, err)
	}
	ctx := context.Background()
	for _, c := range snap.Cookies {
		if c.CreationIndex == 0 {
			c.CreationIndex = cookie.NextCreationIndex()
		}
		if err := s.mem.PutCookie(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
