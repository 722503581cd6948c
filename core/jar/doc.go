// Package jar implements the orchestrating cookie jar of RFC 6265(bis): the
// full storage ("set") and retrieval ("get") algorithms over a pluggable
// Store, including domain and path scoping, Secure/HttpOnly/SameSite
// enforcement, the __Secure-/__Host- name-prefix rules, expiry-driven
// eviction, and the most-specific-first ordering the Cookie header requires.
//
// # Basic usage
//
//	j := jar.New()
//
//	_, err := j.SetCookieString(ctx, "https://app.example.com/login",
//		"session=abc; Path=/; Secure; HttpOnly; Max-Age=3600")
//	if err != nil {
//		// validation rejection or store failure
//	}
//
//	header, err := j.CookieString(ctx, "https://app.example.com/dashboard")
//	// "session=abc"
//
// # Stores
//
// A jar owns exactly one Store, fixed at construction via WithStore; the
// default is the in-memory reference store. Optional store operations are
// capabilities discovered by interface assertion (Updater, BulkRemover,
// BatchRemover, Lister) rather than overridable base methods, and the jar
// provides defined fallbacks where the contract allows one.
//
// # Blocking and deferred forms
//
// Every operation is implemented once as a blocking, context-aware call.
// The *Async variants wrap the same call in a future from pkg/async for
// callers that prefer a deferred result.
//
// # Serialization
//
// Serialize and NewFromSerialized implement the portable jar snapshot
// format: configuration plus cookies in creation order, with creation
// indexes omitted so imports re-assign them.
package jar
