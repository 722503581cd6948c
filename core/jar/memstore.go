package jar

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrymomot/cookiejar/core/cookie"
	"github.com/dmitrymomot/cookiejar/pkg/domain"
	"github.com/dmitrymomot/cookiejar/pkg/pathmatch"
)

// MemoryStore is the reference in-memory Store: a three-level index of
// domain, path, and name. Native maps carry no inherited properties, so an
// attacker-controlled domain such as "__proto__" is an inert ordinary key
// at every level.
type MemoryStore struct {
	mu  sync.RWMutex
	idx map[string]map[string]map[string]*cookie.Cookie
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{idx: make(map[string]map[string]map[string]*cookie.Cookie)}
}

// FindCookie implements Store.
func (s *MemoryStore) FindCookie(_ context.Context, domainKey, path, name string) (*cookie.Cookie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx[domainKey][path][name], nil
}

// FindCookies implements Store. Candidates are gathered from every ancestor
// domain the request host can domain-match; an empty path selects all paths.
func (s *MemoryStore) FindCookies(_ context.Context, domainKey, path string, allowSpecialUseDomain bool) ([]*cookie.Cookie, error) {
	if domainKey == "" {
		return nil, nil
	}

	domains := domain.Permute(domainKey, allowSpecialUseDomain)
	if domains == nil {
		domains = []string{domainKey}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*cookie.Cookie
	for _, d := range domains {
		domainIdx, ok := s.idx[d]
		if !ok {
			continue
		}
		for cookiePath, pathIdx := range domainIdx {
			if path != "" && !pathmatch.Match(path, cookiePath) {
				continue
			}
			for _, c := range pathIdx {
				results = append(results, c)
			}
		}
	}
	return results, nil
}

// PutCookie implements Store.
func (s *MemoryStore) PutCookie(_ context.Context, c *cookie.Cookie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	domainIdx, ok := s.idx[c.Domain]
	if !ok {
		domainIdx = make(map[string]map[string]*cookie.Cookie)
		s.idx[c.Domain] = domainIdx
	}
	pathIdx, ok := domainIdx[c.Path]
	if !ok {
		pathIdx = make(map[string]*cookie.Cookie)
		domainIdx[c.Path] = pathIdx
	}
	pathIdx[c.Name] = c
	return nil
}

// UpdateCookie implements the Updater capability. Updates are plain
// overwrites; the old cookie is ignored.
func (s *MemoryStore) UpdateCookie(ctx context.Context, _, updated *cookie.Cookie) error {
	return s.PutCookie(ctx, updated)
}

// RemoveCookie implements Store.
func (s *MemoryStore) RemoveCookie(_ context.Context, domainKey, path, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pathIdx, ok := s.idx[domainKey][path]
	if !ok {
		return nil
	}
	delete(pathIdx, name)
	if len(pathIdx) == 0 {
		delete(s.idx[domainKey], path)
		if len(s.idx[domainKey]) == 0 {
			delete(s.idx, domainKey)
		}
	}
	return nil
}

// RemoveCookies implements the BulkRemover capability. An empty path drops
// the whole domain.
func (s *MemoryStore) RemoveCookies(_ context.Context, domainKey, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if path == "" {
		delete(s.idx, domainKey)
		return nil
	}
	if domainIdx, ok := s.idx[domainKey]; ok {
		delete(domainIdx, path)
		if len(domainIdx) == 0 {
			delete(s.idx, domainKey)
		}
	}
	return nil
}

// RemoveAllCookies implements the BatchRemover capability.
func (s *MemoryStore) RemoveAllCookies(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idx = make(map[string]map[string]map[string]*cookie.Cookie)
	return nil
}

// AllCookies implements the Lister capability. Cookies are returned in
// ascending creation-index order for deterministic, creation-order-stable
// enumeration even though the index is organized by domain first.
func (s *MemoryStore) AllCookies(_ context.Context) ([]*cookie.Cookie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cookies []*cookie.Cookie
	for _, domainIdx := range s.idx {
		for _, pathIdx := range domainIdx {
			for _, c := range pathIdx {
				cookies = append(cookies, c)
			}
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
