package MultiSet

import (
	"fmt"

	"github.com/g-m-twostay/multikey/Sets"
	"github.com/g-m-twostay/multikey/Trees"
)

// Side of A Step of Fold2.
type Side byte

const (
	OnlyA Side = iota
	OnlyB
	Both
)

func (s Side) String() string {
	switch s {
	case OnlyA:
		return "onlyA"
	case OnlyB:
		return "onlyB"
	case Both:
		return "both"
	}
	return fmt.Sprintf("Side(%d)", byte(s))
}

// Step of A merge of two sets. A is defined unless Side is OnlyB, B is
// defined unless Side is OnlyA.
type Step[E any] struct {
	Side Side
	A, B E
}

// Element of the step, preferring A.
func (s Step[E]) Element() E {
	if s.Side == OnlyB {
		return s.B
	}
	return s.A
}

// fold2 merges the trees of key i of a and b in increasing order.
func fold2[E, R any](c *Config[E], i int, a, b Set[E], acc R, f func(R, Step[E]) R) R {
	a.check(c)
	b.check(c)
	cmp := c.keys[i].cmp
	na, nb := a.tree(i).InOrder(Trees.Increasing), b.tree(i).InOrder(Trees.Increasing)
	x, okx := na()
	y, oky := nb()
	for okx || oky {
		if !oky || okx && cmp(x, y) < 0 {
			acc = f(acc, Step[E]{Side: OnlyA, A: x})
			x, okx = na()
		} else if !okx || cmp(x, y) > 0 {
			acc = f(acc, Step[E]{Side: OnlyB, B: y})
			y, oky = nb()
		} else {
			acc = f(acc, Step[E]{Both, x, y})
			x, okx = na()
			y, oky = nb()
		}
	}
	return acc
}

// Fold2 walks a and b together in increasing primary key order and
// accumulates f over the steps: elements only in a, only in b, or in both
// under the primary key.
// Time: O(n+m) comparisons.
func Fold2[E, R any](c *Config[E], a, b Set[E], init R, f func(R, Step[E]) R) R {
	return fold2(c, 0, a, b, init, f)
}

// Fold2By is Fold2 ordered and matched by k instead of the primary key.
func Fold2By[E, A, R any](k *Key[E, A], a, b Set[E], init R, f func(R, Step[E]) R) R {
	return fold2(k.cfg, k.i, a, b, init, f)
}

// Union of a and b. Elements are inserted with PreferExisting in increasing
// primary key order, taking the element of a when both sides match. An
// element colliding under another key with one inserted before it is dropped,
// whichever side it comes from.
func Union[E any](c *Config[E], a, b Set[E]) Set[E] {
	return fold2(c, 0, a, b, Empty(c), func(s Set[E], st Step[E]) Set[E] {
		return s.Insert(c, Sets.PreferExisting, st.Element())
	})
}

// Map builds A set of another element type by inserting f of every element of
// s with policy p, in increasing primary key order.
func Map[E, F any](s Set[E], from *Config[E], to *Config[F], p Sets.Policy, f func(E) F) Set[F] {
	s.check(from)
	return Trees.Fold(s.tree(0), Trees.Increasing, Empty(to), func(r Set[F], e E) Set[F] {
		return r.Insert(to, p, f(e))
	})
}

// MapTry is Map skipping the elements for which f returns false.
func MapTry[E, F any](s Set[E], from *Config[E], to *Config[F], p Sets.Policy, f func(E) (F, bool)) Set[F] {
	s.check(from)
	return Trees.Fold(s.tree(0), Trees.Increasing, Empty(to), func(r Set[F], e E) Set[F] {
		if v, ok := f(e); ok {
			return r.Insert(to, p, v)
		}
		return r
	})
}
