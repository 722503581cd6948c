package file_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cookiejar/core/jar"
	"github.com/dmitrymomot/cookiejar/integration/store/file"
)

func TestStore_PersistsAcrossInstances(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fs := afero.NewMemMapFs()
	const path = "/var/lib/app/cookies.json"

	st, err := file.New(fs, path)
	require.NoError(t, err)

	j := jar.New(jar.WithStore(st))
	_, err = j.SetCookieString(ctx, "http://example.com/", "a=1; Max-Age=3600")
	require.NoError(t, err)
	_, err = j.SetCookieString(ctx, "https://example.com/admin", "b=2; Path=/admin; Secure")
	require.NoError(t, err)

	// A fresh store over the same file sees the same cookies.
	st2, err := file.New(fs, path)
	require.NoError(t, err)
	j2 := jar.New(jar.WithStore(st2))

	got, err := j2.Cookies(ctx, "https://example.com/admin/x")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Name)
	assert.Equal(t, "a", got[1].Name)
}

func TestStore_MissingFileStartsEmpty(t *testing.T) {
	t.Parallel()

	st, err := file.New(afero.NewMemMapFs(), "/nope/cookies.json")
	require.NoError(t, err)

	all, err := st.AllCookies(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_CorruptSnapshot(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cookies.json", []byte("{broken"), 0o600))

	_, err := file.New(fs, "/cookies.json")
	require.ErrorIs(t, err, file.ErrCorruptSnapshot)
}

func TestStore_RemovePersists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fs := afero.NewMemMapFs()
	st, err := file.New(fs, "/cookies.json")
	require.NoError(t, err)

	j := jar.New(jar.WithStore(st))
	_, err = j.SetCookieString(ctx, "http://example.com/", "a=1")
	require.NoError(t, err)
	_, err = j.SetCookieString(ctx, "http://example.com/", "b=2")
	require.NoError(t, err)

	require.NoError(t, st.RemoveCookie(ctx, "example.com", "/", "a"))

	st2, err := file.New(fs, "/cookies.json")
	require.NoError(t, err)
	all, err := st2.AllCookies(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].Name)
}

func TestStore_RemoveAllPersists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fs := afero.NewMemMapFs()
	st, err := file.New(fs, "/cookies.json")
	require.NoError(t, err)

	j := jar.New(jar.WithStore(st))
	_, err = j.SetCookieString(ctx, "http://example.com/", "a=1")
	require.NoError(t, err)

	require.NoError(t, j.RemoveAllCookies(ctx))

	st2, err := file.New(fs, "/cookies.json")
	require.NoError(t, err)
	all, err := st2.AllCookies(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_SyncReplacesSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fs := afero.NewMemMapFs()
	const path = "/cookies.json"
	st, err := file.New(fs, path)
	require.NoError(t, err)

	// Repeated write-throughs replace the existing snapshot in place.
	j := jar.New(jar.WithStore(st))
	_, err = j.SetCookieString(ctx, "http://example.com/", "a=1")
	require.NoError(t, err)
	_, err = j.SetCookieString(ctx, "http://example.com/", "b=2")
	require.NoError(t, err)

	st2, err := file.New(fs, path)
	require.NoError(t, err)
	all, err := st2.AllCookies(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// The staging file never survives a completed sync.
	leftover, err := afero.Exists(fs, path+".tmp")
	require.NoError(t, err)
	assert.False(t, leftover)
}

func TestStore_WithoutAutoSync(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fs := afero.NewMemMapFs()
	st, err := file.New(fs, "/cookies.json", file.WithoutAutoSync())
	require.NoError(t, err)

	j := jar.New(jar.WithStore(st))
	_, err = j.SetCookieString(ctx, "http://example.com/", "a=1")
	require.NoError(t, err)

	// Nothing hits the file until an explicit Sync.
	exists, err := afero.Exists(fs, "/cookies.json")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, st.Sync(ctx))

	st2, err := file.New(fs, "/cookies.json")
	require.NoError(t, err)
	all, err := st2.AllCookies(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
