// Package pathmatch implements the RFC 6265 path-match relation, the
// default-path computation for cookies that declare no Path attribute, and
// the ancestor-path permutation used by stores to enumerate candidate
// lookup keys.
package pathmatch
