package cookie

import (
	"encoding/json"
	"fmt"
	"time"
)

// isoFormat matches the millisecond-precision ISO-8601 rendering used by
// the serialized jar format.
const isoFormat = "2006-01-02T15:04:05.000Z07:00"

// cookieJSON is the wire shape of a serialized cookie. Only non-default
// fields are emitted; CreationIndex is always omitted so a fresh index is
// assigned on import.
type cookieJSON struct {
	Key           string   `json:"key,omitempty"`
	Value         string   `json:"value,omitempty"`
	Expires       string   `json:"expires,omitempty"`
	MaxAge        MaxAge   `json:"maxAge,omitzero"`
	Domain        string   `json:"domain,omitempty"`
	Path          string   `json:"path,omitempty"`
	Secure        bool     `json:"secure,omitempty"`
	HttpOnly      bool     `json:"httpOnly,omitempty"`
	SameSite      string   `json:"sameSite,omitempty"`
	Extensions    []string `json:"extensions,omitempty"`
	HostOnly      bool     `json:"hostOnly,omitempty"`
	PathIsDefault bool     `json:"pathIsDefault,omitempty"`
	Creation      string   `json:"creation,omitempty"`
	LastAccessed  string   `json:"lastAccessed,omitempty"`
}

// MarshalJSON implements json.Marshaler using the serialized-cookie shape.
func (c *Cookie) MarshalJSON() ([]byte, error) {
	out := cookieJSON{
		Key:           c.Name,
		Value:         c.Value,
		MaxAge:        c.MaxAge,
		Domain:        c.Domain,
		Path:          c.Path,
		Secure:        c.Secure,
		HttpOnly:      c.HttpOnly,
		SameSite:      c.SameSite,
		Extensions:    c.Extensions,
		HostOnly:      c.HostOnly,
		PathIsDefault: c.PathIsDefault,
	}
	if !c.Expires.IsZero() {
		out.Expires = c.Expires.UTC().Format(isoFormat)
	}
	if !c.Creation.IsZero() {
		out.Creation = c.Creation.UTC().Format(isoFormat)
	}
	if !c.LastAccessed.IsZero() {
		out.LastAccessed = c.LastAccessed.UTC().Format(isoFormat)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. The decoded cookie receives a
// fresh creation index.
func (c *Cookie) UnmarshalJSON(data []byte) error {
	var in cookieJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	expires, err := parseSerializedDate(in.Expires)
	if err != nil {
		return err
	}
	creation, err := parseSerializedDate(in.Creation)
	if err != nil {
		return err
	}
	lastAccessed, err := parseSerializedDate(in.LastAccessed)
	if err != nil {
		return err
	}

	*c = Cookie{
		Name:          in.Key,
		Value:         in.Value,
		Domain:        in.Domain,
		Path:          in.Path,
		Expires:       expires,
		MaxAge:        in.MaxAge,
		Secure:        in.Secure,
		HttpOnly:      in.HttpOnly,
		SameSite:      in.SameSite,
		Extensions:    in.Extensions,
		HostOnly:      in.HostOnly,
		PathIsDefault: in.PathIsDefault,
		Creation:      creation,
		LastAccessed:  lastAccessed,
		CreationIndex: NextCreationIndex(),
	}
	return nil
}

// FromJSON decodes a single serialized cookie.
func FromJSON(data []byte) (*Cookie, error) {
	c := &Cookie{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}

// parseSerializedDate accepts the ISO-8601 renderings produced by
// MarshalJSON, the literal "Infinity" sentinel, and, as a legacy fallback,
// the RFC 6265 cookie-date grammar.
func parseSerializedDate(s string) (time.Time, error) {
	if s == "" || s == "Infinity" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, ok := ParseDate(s); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidJSON, s)
}
