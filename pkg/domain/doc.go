// Package domain implements domain-name handling for client-side cookie
// semantics: canonicalization (case folding, punycode transcoding, IPv6
// bracket stripping), the RFC 6265 domain-match algorithm, and the
// public-suffix boundary check that keeps cookies from being scoped to
// registries such as "com" or "co.uk".
//
// The public-suffix oracle delegates to the dataset embedded in
// golang.org/x/net/publicsuffix; special-use domains (localhost, local,
// example, invalid, test) bypass the list with legacy-compatible rules.
//
// Basic usage:
//
//	host := domain.Canonical("WWW.Example.COM") // "www.example.com"
//	domain.Match(host, "example.com")           // true
//
//	if _, ok := domain.Suffix("kyoto.jp", true); !ok {
//		// bare public suffix; reject the cookie
//	}
package domain
