package pathmatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/cookiejar/pkg/pathmatch"
)

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		requestPath string
		cookiePath  string
		want        bool
	}{
		{"exact root", "/", "/", true},
		{"exact nested", "/foo/bar", "/foo/bar", true},
		{"root matches everything", "/foo/bar", "/", true},
		{"trailing slash cookie path", "/foo/bar", "/foo/", true},
		{"prefix on slash boundary", "/foo/bar", "/foo", true},
		{"prefix not on boundary", "/foobar", "/foo", false},
		{"cookie path longer than request", "/foo", "/foo/bar", false},
		{"unrelated paths", "/bar", "/foo", false},
		{"case sensitive", "/Foo", "/foo", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pathmatch.Match(tt.requestPath, tt.cookiePath))
		})
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		uriPath string
		want    string
	}{
		{"empty", "", "/"},
		{"relative", "foo", "/"},
		{"root", "/", "/"},
		{"top level file", "/index.html", "/"},
		{"nested file", "/foo/bar.html", "/foo"},
		{"trailing slash", "/foo/bar/", "/foo/bar"},
		{"deep", "/a/b/c/d", "/a/b/c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pathmatch.Default(tt.uriPath))
		})
	}
}

func TestPermute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want []string
	}{
		{"root", "/", []string{"/"}},
		{"empty", "", []string{"/"}},
		{"single segment", "/foo", []string{"/foo", "/"}},
		{"nested", "/foo/bar", []string{"/foo/bar", "/foo", "/"}},
		{"trailing slash keeps both forms", "/foo/bar/", []string{"/foo/bar/", "/foo/bar", "/foo", "/"}},
		{"deep", "/a/b/c", []string{"/a/b/c", "/a/b", "/a", "/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pathmatch.Permute(tt.path))
		})
	}
}

func TestPermute_EveryElementMatches(t *testing.T) {
	t.Parallel()

	for _, request := range []string{"/articles/2024/march", "/articles/2024/"} {
		permutations := pathmatch.Permute(request)
		assert.Equal(t, request, permutations[0], "a path must enumerate itself first")
		for _, p := range permutations {
			assert.True(t, pathmatch.Match(request, p), "permutation %q must path-match %q", p, request)
		}
	}
}
