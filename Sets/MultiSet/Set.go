package MultiSet

import (
	"fmt"

	"github.com/g-m-twostay/multikey/Sets"
	"github.com/g-m-twostay/multikey/Trees"
)

// Set holds elements of type E that are unique under every key of its
// Config, with one Trees.PTree per key ordered by that key.
// Set is A persistent value: receivers never modify the receiver, they return
// A new Set sharing structure with it. Sets can be read concurrently.
// The zero value is an empty set; it binds to the first Config used with it.
// Receivers taking A Config panic with *ConfigError if the set was built with
// another one.
type Set[E any] struct {
	trees []Trees.PTree[E] // trees[i] is ordered by keys[i]; never modified after creation.
	size  uint
	cfg   uint64
}

var _ Sets.Ordered[int] = Set[int]{}

func (u Set[E]) check(c *Config[E]) {
	c.seal()
	if u.cfg != 0 && u.cfg != c.id {
		panic(&ConfigError{fmt.Sprintf("set of configuration %d used with configuration %d", u.cfg, c.id)})
	}
}

func (u Set[E]) tree(i int) Trees.PTree[E] {
	if u.trees == nil {
		return Trees.Empty[E]()
	}
	return u.trees[i]
}

// clone the trees of u to be modified, allocating them for A zero set.
func (u Set[E]) clone(c *Config[E]) []Trees.PTree[E] {
	trees := make([]Trees.PTree[E], len(c.keys))
	copy(trees, u.trees)
	return trees
}

// Empty set of c.
func Empty[E any](c *Config[E]) Set[E] {
	c.seal()
	return Set[E]{cfg: c.id}
}

// One returns the set holding only e.
func One[E any](c *Config[E], e E) Set[E] {
	return Empty(c).Insert(c, Sets.PreferExisting, e)
}

// FromSlice inserts the elements of es in order with policy p.
// Time: O(N*n*log n) for N keys.
func FromSlice[E any](c *Config[E], p Sets.Policy, es []E) Set[E] {
	s := Empty(c)
	for _, e := range es {
		s = s.Insert(c, p, e)
	}
	return s
}

// FromIter inserts the elements given by next until it's exhausted, with the
// same conventions as Trees.Tree.InOrder.
func FromIter[E any](c *Config[E], p Sets.Policy, next func() (E, bool)) Set[E] {
	s := Empty(c)
	for e, ok := next(); ok; e, ok = next() {
		s = s.Insert(c, p, e)
	}
	return s
}

// Size of the set.
// Time: O(1)
func (u Set[E]) Size() uint {
	return u.size
}

func (u Set[E]) IsEmpty() bool {
	return u.size == 0
}

// Range over the elements in primary key order.
func (u Set[E]) Range(d Trees.Direction, f func(E) bool) {
	u.tree(0).Range(d, f)
}

// Slice of the elements in primary key order.
func (u Set[E]) Slice(d Trees.Direction) []E {
	return u.tree(0).Slice(d)
}

// InOrder iterates the elements in primary key order, see Trees.Tree.InOrder.
func (u Set[E]) InOrder(d Trees.Direction) func() (E, bool) {
	return u.tree(0).InOrder(d)
}

// Insert e with policy p. See Put.
func (u Set[E]) Insert(c *Config[E], p Sets.Policy, e E) Set[E] {
	s, _ := u.Put(c, p, e)
	return s
}

// Put e with policy p. The collisions of e are the elements of u sharing the
// aspect of any key with e. Collisions found under several keys are one
// collision set and p applies to all of them at once: PreferExisting returns u
// unchanged, PreferIncoming removes all of them before inserting e.
// Returns the new set and the collisions, at most one per key.
// Time: O(N*D) for N keys.
func (u Set[E]) Put(c *Config[E], p Sets.Policy, e E) (Set[E], []E) {
	u.check(c)
	var hit []E
	for i, k := range c.keys {
		if x, ok := u.tree(i).Find(k.probe(e)); ok && !collected(c, hit, x) {
			hit = append(hit, x)
		}
	}
	if len(hit) > 0 {
		if c.Logger != nil {
			c.Logger.Debug("insert collided", "policy", p, "collisions", len(hit), "size", u.size)
		}
		if p == Sets.PreferExisting {
			return u, hit
		}
	}
	trees := u.clone(c)
	for _, x := range hit {
		removeAll(c, trees, x)
	}
	for i, k := range c.keys {
		trees[i], _ = trees[i].Insert(e, k.cmp)
	}
	return Set[E]{trees, u.size + 1 - uint(len(hit)), c.id}, hit
}

// collected reports whether x is already in hit. Elements of a set are unique
// under the primary key, so that key alone tells them apart.
func collected[E any](c *Config[E], hit []E, x E) bool {
	for _, h := range hit {
		if c.keys[0].cmp(h, x) == 0 {
			return true
		}
	}
	return false
}

// removeAll removes x, which must be in the set, from every tree.
func removeAll[E any](c *Config[E], trees []Trees.PTree[E], x E) {
	for i, k := range c.keys {
		trees[i], _ = trees[i].Remove(k.probe(x))
	}
}

// without returns u with x, an element of u, removed.
func (u Set[E]) without(c *Config[E], x E) Set[E] {
	trees := u.clone(c)
	removeAll(c, trees, x)
	return Set[E]{trees, u.size - 1, c.id}
}

// Filter returns the elements for which keep returns true. keep is called
// once per element, in primary key order.
// Time: O(N*n*log n) for N keys.
func (u Set[E]) Filter(c *Config[E], keep func(E) bool) Set[E] {
	u.check(c)
	kept := make([]E, 0, u.size)
	u.tree(0).Range(Trees.Increasing, func(e E) bool {
		if keep(e) {
			kept = append(kept, e)
		}
		return true
	})
	if uint(len(kept)) == u.size {
		u.cfg = c.id
		return u
	}
	trees := make([]Trees.PTree[E], len(c.keys))
	trees[0] = Trees.FromSorted(kept, nil)
	primary := c.keys[0]
	for i := 1; i < len(trees); i++ {
		vs := make([]E, 0, len(kept))
		u.trees[i].Range(Trees.Increasing, func(e E) bool {
			if _, ok := trees[0].Find(primary.probe(e)); ok {
				vs = append(vs, e)
			}
			return true
		})
		trees[i] = Trees.FromSorted(vs, nil)
	}
	return Set[E]{trees, uint(len(kept)), c.id}
}

// Validate checks that every tree of u is ordered and balanced, that it holds
// Size elements and that all trees hold the same elements.
// Time: O(N*n*log n) for N keys.
func (u Set[E]) Validate(c *Config[E]) error {
	u.check(c)
	if u.trees == nil {
		if u.size != 0 {
			return &IncoherentError{c.keys[0].name, fmt.Sprintf("no trees but size %d", u.size)}
		}
		return nil
	}
	if len(u.trees) != len(c.keys) {
		return &IncoherentError{c.keys[0].name, fmt.Sprintf("%d trees for %d keys", len(u.trees), len(c.keys))}
	}
	primary := c.keys[0]
	for i, k := range c.keys {
		t := u.trees[i]
		if err := t.Validate(k.cmp); err != nil {
			return fmt.Errorf("multiset: key %s: %w", k.name, err)
		}
		if n := t.Size(); n != u.size {
			return &IncoherentError{k.name, fmt.Sprintf("tree holds %d elements, set size is %d", n, u.size)}
		}
		if i == 0 {
			continue
		}
		var err error
		t.Range(Trees.Increasing, func(e E) bool {
			x, ok := u.trees[0].Find(primary.probe(e))
			if !ok {
				err = &IncoherentError{k.name, "element missing from the primary tree"}
				return false
			}
			for _, other := range c.keys {
				if other.cmp(e, x) != 0 {
					err = &IncoherentError{k.name, fmt.Sprintf("element differs from the primary tree under key %s", other.name)}
					return false
				}
			}
			return true
		})
		if err != nil {
			return err
		}
	}
	return nil
}
