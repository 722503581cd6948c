package pathmatch

import "strings"

// Match implements path-match per RFC 6265 section 5.1.4. It reports whether
// a cookie scoped to cookiePath applies to a request for requestPath.
func Match(requestPath, cookiePath string) bool {
	if requestPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(requestPath, cookiePath) {
		return false
	}
	if cookiePath != "" && cookiePath[len(cookiePath)-1] == '/' {
		// "/any/" matches "/any/path".
		return true
	}
	if len(requestPath) > len(cookiePath) && requestPath[len(cookiePath)] == '/' {
		// "/any" matches "/any/path" but not "/anything".
		return true
	}
	return false
}

// Default computes the default-path of a request URI per RFC 6265 section
// 5.1.4: the directory component of the path, falling back to "/" when the
// path is empty, relative, or a single slash.
func Default(uriPath string) string {
	if uriPath == "" || uriPath[0] != '/' {
		return "/"
	}
	if uriPath == "/" {
		return "/"
	}
	i := strings.LastIndexByte(uriPath, '/')
	if i == 0 {
		return "/"
	}
	return uriPath[:i]
}

// Permute returns every path that path-matches the given path, ordered from
// longest to shortest and always terminating in "/". The input itself is
// always the first element: a path ending in "/" matches itself, so both the
// slashed and unslashed forms appear. Store implementations use it to
// enumerate index entries across nested paths.
func Permute(path string) []string {
	if path == "" || path == "/" {
		return []string{"/"}
	}
	permutations := []string{path}
	trimmed := strings.TrimSuffix(path, "/")
	if trimmed != path && trimmed != "" && trimmed != "/" {
		permutations = append(permutations, trimmed)
	}
	path = trimmed
	for len(path) > 1 {
		i := strings.LastIndexByte(path, '/')
		if i == 0 {
			break
		}
		path = path[:i]
		permutations = append(permutations, path)
	}
	return append(permutations, "/")
}
