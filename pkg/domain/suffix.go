package domain

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Special-use top-level names per RFC 6761/6762 that receive
// legacy-compatible leniency instead of a public-suffix-list lookup.
var specialUseTLDs = map[string]bool{
	"local":     true,
	"example":   true,
	"invalid":   true,
	"localhost": true,
	"test":      true,
}

// Suffix resolves the registrable domain of an already-canonical domain
// against the embedded public suffix list. It returns ok=false when the
// domain itself is a bare public suffix, in which case a cookie scoped to
// it must be rejected.
//
// Special-use domains are handled separately when allowSpecialUse is set:
// "localhost" and "invalid" are registrable at the top level, and all five
// special-use names are registrable as the suffix of a subdomain. With
// allowSpecialUse false they are rejected outright.
func Suffix(canonicalDomain string, allowSpecialUse bool) (string, bool) {
	if canonicalDomain == "" {
		return "", false
	}
	labels := strings.Split(canonicalDomain, ".")
	top := labels[len(labels)-1]
	if specialUseTLDs[top] {
		if !allowSpecialUse {
			return "", false
		}
		if len(labels) > 1 {
			return strings.Join(labels[len(labels)-2:], "."), true
		}
		if top == "localhost" || top == "invalid" {
			return canonicalDomain, true
		}
		return "", false
	}

	registrable, err := publicsuffix.EffectiveTLDPlusOne(canonicalDomain)
	if err != nil {
		return "", false
	}
	return registrable, true
}

// Permute returns every ancestor of the given canonical domain down to its
// registrable suffix, ordered from shortest to longest. It returns nil when
// the domain has no registrable suffix. Store implementations use it to
// enumerate the index entries a request host can domain-match.
func Permute(canonicalDomain string, allowSpecialUse bool) []string {
	suffix, ok := Suffix(canonicalDomain, allowSpecialUse)
	if !ok {
		return nil
	}
	if suffix == canonicalDomain {
		return []string{canonicalDomain}
	}

	prefix := canonicalDomain[:len(canonicalDomain)-len(suffix)-1]
	parts := strings.Split(prefix, ".")
	permutations := []string{suffix}
	cur := suffix
	for i := len(parts) - 1; i >= 0; i-- {
		cur = parts[i] + "." + cur
		permutations = append(permutations, cur)
	}
	return permutations
}
