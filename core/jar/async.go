package jar

import (
	"context"

	"github.com/dmitrymomot/cookiejar/core/cookie"
	"github.com/dmitrymomot/cookiejar/pkg/async"
)

// Deferred-result adapters. Each runs the corresponding blocking operation
// once on its own goroutine and exposes the outcome as a future; the
// algorithm itself is implemented only in the blocking form.

// SetCookieAsync is the deferred-result form of SetCookie.
func (j *Jar) SetCookieAsync(ctx context.Context, rawURL string, c *cookie.Cookie, opts ...CallOption) *async.Future[*cookie.Cookie] {
	return async.Async(ctx, c, func(ctx context.Context, c *cookie.Cookie) (*cookie.Cookie, error) {
		return j.SetCookie(ctx, rawURL, c, opts...)
	})
}

// SetCookieStringAsync is the deferred-result form of SetCookieString.
func (j *Jar) SetCookieStringAsync(ctx context.Context, rawURL, header string, opts ...CallOption) *async.Future[*cookie.Cookie] {
	return async.Async(ctx, header, func(ctx context.Context, header string) (*cookie.Cookie, error) {
		return j.SetCookieString(ctx, rawURL, header, opts...)
	})
}

// CookiesAsync is the deferred-result form of Cookies.
func (j *Jar) CookiesAsync(ctx context.Context, rawURL string, opts ...CallOption) *async.Future[[]*cookie.Cookie] {
	return async.Async(ctx, rawURL, func(ctx context.Context, rawURL string) ([]*cookie.Cookie, error) {
		return j.Cookies(ctx, rawURL, opts...)
	})
}

// CookieStringAsync is the deferred-result form of CookieString.
func (j *Jar) CookieStringAsync(ctx context.Context, rawURL string, opts ...CallOption) *async.Future[string] {
	return async.Async(ctx, rawURL, func(ctx context.Context, rawURL string) (string, error) {
		return j.CookieString(ctx, rawURL, opts...)
	})
}
