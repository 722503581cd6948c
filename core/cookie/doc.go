// Package cookie implements the cookie entity of RFC 6265(bis): parsing a
// Set-Cookie header into a structured value, serializing it back, attribute
// validation, and the TTL/expiry arithmetic the jar relies on.
//
// # Parsing and serialization
//
// Parse consumes one Set-Cookie header value. Strict mode rejects a
// name-value pair without "="; Loose tolerates it the way browsers do:
//
//	c, err := cookie.Parse("session=abc; Path=/; Max-Age=3600; Secure")
//	if err != nil {
//		// malformed header
//	}
//	header := c.String() // "session=abc; Max-Age=3600; Path=/; Secure"
//
// Serialization normalizes attribute order and casing, so round-trips are
// semantically rather than byte-for-byte equivalent.
//
// # Expiry
//
// A zero Expires means no expiry was declared. Max-Age is modeled by the
// MaxAge value type, which distinguishes absent, finite, and the two
// infinite sentinels that direct construction and deserialization can
// produce. ExpiryTime applies Max-Age relative to the cookie's last access,
// so re-setting an identical Max-Age cookie never shortens its life.
//
// # Dates
//
// ParseDate implements the lenient cookie-date grammar of RFC 6265 section
// 5.1.1 with single-pass token scanning, making adversarial inputs linear
// in cost rather than a backtracking hazard.
package cookie
