package cookie

import "errors"

// Error variables cover the recoverable parse failures of the cookie
// grammar. Parse failures are reported, never fatal; callers that tolerate
// malformed headers simply skip the cookie.
var (
	// ErrEmptyCookie indicates an empty or whitespace-only header string.
	ErrEmptyCookie = errors.New("empty cookie header string")

	// ErrMalformedPair indicates the name=value pair before the first
	// semicolon is malformed: no "=" in strict mode, or control
	// characters in the name or value.
	ErrMalformedPair = errors.New("malformed cookie name-value pair")

	// ErrInvalidJSON indicates a serialized cookie that cannot be decoded.
	ErrInvalidJSON = errors.New("invalid serialized cookie")
)
