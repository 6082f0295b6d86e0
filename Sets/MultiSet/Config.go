package MultiSet

import (
	"cmp"
	"fmt"
	"log/slog"
	"sync/atomic"
)

var lastID atomic.Uint64

// index is the type erased form of A Key. cmp orders two elements by the
// aspect of the key.
type index[E any] struct {
	name string
	cmp  func(a, b E) int
}

func (u index[E]) probe(e E) func(E) int {
	return func(x E) int {
		return u.cmp(e, x)
	}
}

// Config is the ordered list of keys of an element type. The first key added
// is the primary key: it's the default iteration order and drives Union and
// Fold2.
// A Config gets A unique identity when it is created. Every Set remembers the
// identity of the Config it was built with and panics with *ConfigError when
// handed another one, as the trees of the set are only ordered by the keys of
// that Config.
// Keys can only be added before the first set is built with the Config.
type Config[E any] struct {
	// Logger receives debug records about collisions, nil disables them.
	Logger *slog.Logger

	id     uint64
	keys   []index[E]
	sealed atomic.Bool
}

// NewConfig returns A Config without keys.
func NewConfig[E any]() *Config[E] {
	return &Config[E]{id: lastID.Add(1)}
}

// Len is the number of keys.
func (u *Config[E]) Len() int {
	return len(u.keys)
}

// Names of the keys, primary first.
func (u *Config[E]) Names() []string {
	names := make([]string, len(u.keys))
	for i, k := range u.keys {
		names[i] = k.name
	}
	return names
}

func (u *Config[E]) seal() {
	if !u.sealed.Load() {
		if len(u.keys) == 0 {
			panic(&ConfigError{"configuration has no keys"})
		}
		u.sealed.Store(true)
	}
}

// Key is one unique, ordered aspect of E: extract projects an element to the
// aspect of type A and compare orders two aspects (see cmp.Compare).
// A Key belongs to the Config it was created with.
type Key[E, A any] struct {
	cfg     *Config[E]
	i       int
	extract func(E) A
	compare func(A, A) int
}

// NewKey adds A key to c. It panics with *ConfigError if A set was already
// built with c.
func NewKey[E, A any](c *Config[E], name string, extract func(E) A, compare func(A, A) int) *Key[E, A] {
	if c.sealed.Load() {
		panic(&ConfigError{fmt.Sprintf("key %q added to a configuration already in use", name)})
	}
	c.keys = append(c.keys, index[E]{name, func(a, b E) int {
		return compare(extract(a), extract(b))
	}})
	return &Key[E, A]{c, len(c.keys) - 1, extract, compare}
}

// NewOrderedKey is NewKey using cmp.Compare.
func NewOrderedKey[E any, A cmp.Ordered](c *Config[E], name string, extract func(E) A) *Key[E, A] {
	return NewKey(c, name, extract, cmp.Compare[A])
}

func (u *Key[E, A]) Name() string {
	return u.cfg.keys[u.i].name
}

func (u *Key[E, A]) Config() *Config[E] {
	return u.cfg
}

// Primary reports whether u is the first key of its Config.
func (u *Key[E, A]) Primary() bool {
	return u.i == 0
}

// Aspect of e under u.
func (u *Key[E, A]) Aspect(e E) A {
	return u.extract(e)
}

func (u *Key[E, A]) probe(a A) func(E) int {
	return func(x E) int {
		return u.compare(a, u.extract(x))
	}
}

// ConfigError is the panic value for sets used with the wrong Config or Key,
// and for keys added to A Config in use. It's A programming error.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string {
	return "multiset: " + e.msg
}

// IncoherentError is returned by Set.Validate when the trees of A set disagree.
type IncoherentError struct {
	Key    string
	Reason string
}

func (e *IncoherentError) Error() string {
	return fmt.Sprintf("multiset: key %s: %s", e.Key, e.Reason)
}
