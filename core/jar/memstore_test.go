package jar_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cookiejar/core/cookie"
	"github.com/dmitrymomot/cookiejar/core/jar"
)

func put(t *testing.T, s *jar.MemoryStore, domain, path, name, value string) *cookie.Cookie {
	t.Helper()
	c := cookie.New()
	c.Name = name
	c.Value = value
	c.Domain = domain
	c.Path = path
	require.NoError(t, s.PutCookie(context.Background(), c))
	return c
}

func TestMemoryStore_PutFind(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := jar.NewMemoryStore()
	want := put(t, s, "example.com", "/", "a", "1")

	got, err := s.FindCookie(ctx, "example.com", "/", "a")
	require.NoError(t, err)
	assert.Same(t, want, got)

	got, err = s.FindCookie(ctx, "example.com", "/", "missing")
	require.NoError(t, err)
	assert.Nil(t, got, "a miss is a nil cookie, not an error")

	got, err = s.FindCookie(ctx, "nowhere.test", "/", "a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_PutReplacesSameKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := jar.NewMemoryStore()
	put(t, s, "example.com", "/", "a", "old")
	put(t, s, "example.com", "/", "a", "new")

	got, err := s.FindCookie(ctx, "example.com", "/", "a")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Value)

	all, err := s.AllCookies(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryStore_FindCookies_DomainAncestors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := jar.NewMemoryStore()
	put(t, s, "example.com", "/", "parent", "1")
	put(t, s, "sub.example.com", "/", "exact", "1")
	put(t, s, "other.example.com", "/", "sibling", "1")
	put(t, s, "unrelated.org", "/", "foreign", "1")

	got, err := s.FindCookies(ctx, "sub.example.com", "/", true)
	require.NoError(t, err)
	require.Len(t, got, 2)
	names := []string{got[0].Name, got[1].Name}
	assert.ElementsMatch(t, []string{"parent", "exact"}, names,
		"candidates come from the host and its registrable ancestors only")
}

func TestMemoryStore_FindCookies_PathFilter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := jar.NewMemoryStore()
	put(t, s, "example.com", "/", "root", "1")
	put(t, s, "example.com", "/admin", "admin", "1")
	put(t, s, "example.com", "/other", "other", "1")

	got, err := s.FindCookies(ctx, "example.com", "/admin/users", true)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Empty path selects every path.
	got, err = s.FindCookies(ctx, "example.com", "", true)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestMemoryStore_FindCookies_EmptyDomain(t *testing.T) {
	t.Parallel()

	s := jar.NewMemoryStore()
	got, err := s.FindCookies(context.Background(), "", "/", true)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStore_RemoveCookie(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := jar.NewMemoryStore()
	put(t, s, "example.com", "/", "a", "1")
	put(t, s, "example.com", "/", "b", "1")

	require.NoError(t, s.RemoveCookie(ctx, "example.com", "/", "a"))
	got, err := s.FindCookie(ctx, "example.com", "/", "a")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.FindCookie(ctx, "example.com", "/", "b")
	require.NoError(t, err)
	require.NotNil(t, got)

	// Removing what is not there is a no-op, not an error.
	require.NoError(t, s.RemoveCookie(ctx, "example.com", "/", "a"))
	require.NoError(t, s.RemoveCookie(ctx, "ghost.test", "/", "a"))
}

func TestMemoryStore_RemoveCookies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := jar.NewMemoryStore()
	put(t, s, "example.com", "/", "a", "1")
	put(t, s, "example.com", "/admin", "b", "1")
	put(t, s, "other.org", "/", "c", "1")

	require.NoError(t, s.RemoveCookies(ctx, "example.com", "/admin"))
	all, err := s.AllCookies(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Empty path drops the whole domain.
	require.NoError(t, s.RemoveCookies(ctx, "example.com", ""))
	all, err = s.AllCookies(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "c", all[0].Name)
}

func TestMemoryStore_RemoveAllCookies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := jar.NewMemoryStore()
	put(t, s, "example.com", "/", "a", "1")
	put(t, s, "other.org", "/", "b", "1")

	require.NoError(t, s.RemoveAllCookies(ctx))
	all, err := s.AllCookies(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryStore_AllCookies_CreationIndexOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := jar.NewMemoryStore()
	first := put(t, s, "zzz.org", "/", "first", "1")
	second := put(t, s, "aaa.org", "/", "second", "1")
	third := put(t, s, "mmm.org", "/", "third", "1")

	all, err := s.AllCookies(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Same(t, first, all[0])
	assert.Same(t, second, all[1])
	assert.Same(t, third, all[2])
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := jar.NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c := cookie.New()
			c.Name = "shared"
			c.Value = "v"
			c.Domain = "example.com"
			c.Path = "/"
			assert.NoError(t, s.PutCookie(ctx, c))
		}()
		go func() {
			defer wg.Done()
			_, err := s.FindCookies(ctx, "example.com", "/", true)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.FindCookie(ctx, "example.com", "/", "shared")
	require.NoError(t, err)
	require.NotNil(t, got)
}
