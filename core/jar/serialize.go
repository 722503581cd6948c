package jar

import (
	"context"
	"reflect"

	"github.com/dmitrymomot/cookiejar/core/cookie"
)

// SerializerVersion tags serialized jars with the producing implementation.
const SerializerVersion = "cookiejar/1.0.0"

// Serialized is the persistence and cloning format of a jar: its
// configuration plus every stored cookie in creation order. Cookie entries
// carry only non-default fields, encode dates as ISO-8601 strings or the
// literal "Infinity", and always omit the creation index so a fresh one is
// assigned on import.
type Serialized struct {
	Version               string           `json:"version"`
	StoreType             string           `json:"storeType"`
	RejectPublicSuffixes  bool             `json:"rejectPublicSuffixes"`
	EnableLooseMode       bool             `json:"enableLooseMode"`
	AllowSpecialUseDomain bool             `json:"allowSpecialUseDomain"`
	PrefixSecurity        PrefixSecurity   `json:"prefixSecurity"`
	Cookies               []*cookie.Cookie `json:"cookies"`
}

// Serialize captures the jar's configuration and contents. The backing
// store must support enumeration; its absence is an error, never a silent
// partial snapshot.
func (j *Jar) Serialize(ctx context.Context) (*Serialized, error) {
	lister, ok := j.store.(Lister)
	if !ok {
		return nil, ErrStoreNotEnumerable
	}
	cookies, err := lister.AllCookies(ctx)
	if err != nil {
		return nil, err
	}

	return &Serialized{
		Version:               SerializerVersion,
		StoreType:             storeTypeName(j.store),
		RejectPublicSuffixes:  j.rejectPublicSuffixes,
		EnableLooseMode:       j.looseMode,
		AllowSpecialUseDomain: j.allowSpecialUseDomain,
		PrefixSecurity:        j.prefixSecurity,
		Cookies:               cookies,
	}, nil
}

// NewFromSerialized builds a jar from a serialized snapshot, restoring its
// configuration and importing every cookie directly into the store without
// re-running the set algorithm. Each cookie is deep-copied on import, so a
// snapshot taken from a live store never aliases entities between jars.
// Options are applied after the snapshot configuration and may override it,
// most usefully WithStore.
func NewFromSerialized(ctx context.Context, s *Serialized, opts ...Option) (*Jar, error) {
	base := []Option{
		WithRejectPublicSuffixes(s.RejectPublicSuffixes),
		WithLooseMode(s.EnableLooseMode),
		WithAllowSpecialUseDomain(s.AllowSpecialUseDomain),
		WithPrefixSecurity(s.PrefixSecurity),
	}
	j := New(append(base, opts...)...)

	for _, c := range s.Cookies {
		cc := c.Clone()
		if cc.CreationIndex == 0 {
			cc.CreationIndex = j.nextIndex()
		}
		if err := j.store.PutCookie(ctx, cc); err != nil {
			return nil, err
		}
	}
	return j, nil
}

// Clone copies the jar's configuration and contents into a new jar backed
// by dst. A nil dst clones into a fresh in-memory store.
func (j *Jar) Clone(ctx context.Context, dst Store) (*Jar, error) {
	s, err := j.Serialize(ctx)
	if err != nil {
		return nil, err
	}
	var opts []Option
	if dst != nil {
		opts = append(opts, WithStore(dst))
	}
	return NewFromSerialized(ctx, s, opts...)
}

// storeTypeName reports the concrete type name of a store for the
// serialized StoreType tag.
func storeTypeName(s Store) string {
	t := reflect.TypeOf(s)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}
