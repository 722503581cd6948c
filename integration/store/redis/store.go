package redis

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/cookiejar/core/cookie"
	"github.com/dmitrymomot/cookiejar/pkg/domain"
	"github.com/dmitrymomot/cookiejar/pkg/pathmatch"
)

// fieldSep joins path and name into a hash field. Neither can contain a
// semicolon: the Set-Cookie grammar splits on it before either value is
// produced.
const fieldSep = ";"

// Store is a Redis-backed cookie store implementing the jar's Store
// contract plus the Updater, BulkRemover, BatchRemover, and Lister
// capabilities. Each canonical domain maps to one hash keyed by
// "<prefix>:<domain>", with one field per (path, name) pair holding the
// serialized cookie.
//
// Creation indexes are process-scoped and never persisted, so enumeration
// order across processes reflects import order, not original creation
// order.
type Store struct {
	client goredis.UniversalClient
	prefix string
}

// Option configures a Store.
type Option func(*Store)

// WithKeyPrefix overrides the default "cookiejar" key namespace.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New creates a Redis-backed store on top of an existing client.
func New(client goredis.UniversalClient, opts ...Option) *Store {
	s := &Store{client: client, prefix: "cookiejar"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(domainKey string) string {
	return s.prefix + ":" + domainKey
}

func field(path, name string) string {
	return path + fieldSep + name
}

// FindCookie implements jar.Store.
func (s *Store) FindCookie(ctx context.Context, domainKey, path, name string) (*cookie.Cookie, error) {
	raw, err := s.client.HGet(ctx, s.key(domainKey), field(path, name)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeEntry(raw)
}

// FindCookies implements jar.Store. Candidate domains are enumerated with
// the same domain permutation the reference store uses.
func (s *Store) FindCookies(ctx context.Context, domainKey, path string, allowSpecialUseDomain bool) ([]*cookie.Cookie, error) {
	if domainKey == "" {
		return nil, nil
	}

	domains := domain.Permute(domainKey, allowSpecialUseDomain)
	if domains == nil {
		domains = []string{domainKey}
	}

	var results []*cookie.Cookie
	for _, d := range domains {
		entries, err := s.client.HGetAll(ctx, s.key(d)).Result()
		if err != nil {
			return nil, err
		}
		for f, raw := range entries {
			cookiePath, _, ok := strings.Cut(f, fieldSep)
			if !ok {
				return nil, ErrMalformedEntry
			}
			if path != "" && !pathmatch.Match(path, cookiePath) {
				continue
			}
			c, err := decodeEntry(raw)
			if err != nil {
				return nil, err
			}
			results = append(results, c)
		}
	}
	return results, nil
}

// PutCookie implements jar.Store.
func (s *Store) PutCookie(ctx context.Context, c *cookie.Cookie) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, s.key(c.Domain), field(c.Path, c.Name), raw).Err()
}

// UpdateCookie implements the jar.Updater capability as an overwrite.
func (s *Store) UpdateCookie(ctx context.Context, _, updated *cookie.Cookie) error {
	return s.PutCookie(ctx, updated)
}

// RemoveCookie implements jar.Store.
func (s *Store) RemoveCookie(ctx context.Context, domainKey, path, name string) error {
	return s.client.HDel(ctx, s.key(domainKey), field(path, name)).Err()
}

// RemoveCookies implements the jar.BulkRemover capability. An empty path
// drops the whole domain.
func (s *Store) RemoveCookies(ctx context.Context, domainKey, path string) error {
	key := s.key(domainKey)
	if path == "" {
		return s.client.Del(ctx, key).Err()
	}

	entries, err := s.client.HKeys(ctx, key).Result()
	if err != nil {
		return err
	}
	var fields []string
	for _, f := range entries {
		if strings.HasPrefix(f, path+fieldSep) {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return s.client.HDel(ctx, key, fields...).Err()
}

// RemoveAllCookies implements the jar.BatchRemover capability by deleting
// every key under the store's prefix.
func (s *Store) RemoveAllCookies(ctx context.Context) error {
	keys, err := s.scanKeys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// AllCookies implements the jar.Lister capability.
func (s *Store) AllCookies(ctx context.Context) ([]*cookie.Cookie, error) {
	keys, err := s.scanKeys(ctx)
	if err != nil {
		return nil, err
	}

	var cookies []*cookie.Cookie
	for _, key := range keys {
		entries, err := s.client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		for _, raw := range entries {
			c, err := decodeEntry(raw)
			if err != nil {
				return nil, err
			}
			cookies = append(cookies, c)
		}
	}
	slices.SortFunc(cookies, func(a, b *cookie.Cookie) int {
		switch {
		case a.CreationIndex < b.CreationIndex:
			return -1
		case a.CreationIndex > b.CreationIndex:
			return 1
		}
		return 0
	})
	return cookies, nil
}

func (s *Store) scanKeys(ctx context.Context) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := s.client.Scan(ctx, cursor, s.prefix+":*", 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

func decodeEntry(raw string) (*cookie.Cookie, error) {
	c, err := cookie.FromJSON([]byte(raw))
	if err != nil {
		return nil, errors.Join(ErrMalformedEntry, err)
	}
	return c, nil
}
