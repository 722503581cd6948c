package cookie

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type maxAgeKind int8

const (
	maxAgeUnset maxAgeKind = iota
	maxAgeFinite
	maxAgeForever
	maxAgeExpired
)

// MaxAge models the Max-Age cookie attribute. The zero value means the
// attribute is absent. Besides finite second counts, it supports the
// infinite-future and infinite-past sentinels used by directly constructed
// and deserialized cookies; the header parser only ever produces finite
// values.
type MaxAge struct {
	secs int64
	kind maxAgeKind
}

// MaxAgeIn returns a finite Max-Age of the given number of seconds.
func MaxAgeIn(seconds int64) MaxAge {
	return MaxAge{secs: seconds, kind: maxAgeFinite}
}

// MaxAgeForever is the infinite-future Max-Age sentinel.
func MaxAgeForever() MaxAge { return MaxAge{kind: maxAgeForever} }

// MaxAgeExpired is the infinite-past Max-Age sentinel.
func MaxAgeExpired() MaxAge { return MaxAge{kind: maxAgeExpired} }

// IsSet reports whether the attribute is present.
func (m MaxAge) IsSet() bool { return m.kind != maxAgeUnset }

// IsForever reports whether the attribute is the infinite-future sentinel.
func (m MaxAge) IsForever() bool { return m.kind == maxAgeForever }

// Seconds returns the finite second count; ok is false for the unset state
// and both infinite sentinels.
func (m MaxAge) Seconds() (int64, bool) {
	if m.kind != maxAgeFinite {
		return 0, false
	}
	return m.secs, true
}

// NonPositive reports whether the attribute demands immediate expiry: a
// finite value of zero or less, or the infinite-past sentinel.
func (m MaxAge) NonPositive() bool {
	return m.kind == maxAgeExpired || (m.kind == maxAgeFinite && m.secs <= 0)
}

// String renders the value for diagnostics and serialization.
func (m MaxAge) String() string {
	switch m.kind {
	case maxAgeFinite:
		return strconv.FormatInt(m.secs, 10)
	case maxAgeForever:
		return "Infinity"
	case maxAgeExpired:
		return "-Infinity"
	}
	return ""
}

// MarshalJSON encodes finite values as numbers and the sentinels as the
// literal strings "Infinity" and "-Infinity".
func (m MaxAge) MarshalJSON() ([]byte, error) {
	switch m.kind {
	case maxAgeFinite:
		return []byte(strconv.FormatInt(m.secs, 10)), nil
	case maxAgeForever:
		return []byte(`"Infinity"`), nil
	case maxAgeExpired:
		return []byte(`"-Infinity"`), nil
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a number, the quoted infinity sentinels, or null.
func (m *MaxAge) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*m = MaxAge{}
	case float64:
		*m = MaxAgeIn(int64(v))
	case string:
		switch v {
		case "Infinity":
			*m = MaxAgeForever()
		case "-Infinity":
			*m = MaxAgeExpired()
		default:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: max-age %q", ErrInvalidJSON, v)
			}
			*m = MaxAgeIn(n)
		}
	default:
		return fmt.Errorf("%w: max-age %v", ErrInvalidJSON, raw)
	}
	return nil
}
