package MultiSet

import (
	"github.com/g-m-twostay/multikey/Sets"
	"github.com/g-m-twostay/multikey/Trees"
)

// Element of s whose aspect under u is a.
// Time: O(D)
func (u *Key[E, A]) Element(s Set[E], a A) (E, bool) {
	s.check(u.cfg)
	return s.tree(u.i).Find(u.probe(a))
}

// Has reports whether an element of s has the aspect a under u.
func (u *Key[E, A]) Has(s Set[E], a A) bool {
	_, ok := u.Element(s, a)
	return ok
}

// End is the extreme element of s in direction d under u.
func (u *Key[E, A]) End(s Set[E], d Trees.Direction) (E, bool) {
	s.check(u.cfg)
	return s.tree(u.i).End(d)
}

// Predecessor returns the element of s with the greatest aspect less than a.
func (u *Key[E, A]) Predecessor(s Set[E], a A) (E, bool) {
	s.check(u.cfg)
	return s.tree(u.i).Predecessor(u.probe(a))
}

// Successor returns the element of s with the smallest aspect greater than a.
func (u *Key[E, A]) Successor(s Set[E], a A) (E, bool) {
	s.check(u.cfg)
	return s.tree(u.i).Successor(u.probe(a))
}

// Range over s ordered by u.
func (u *Key[E, A]) Range(s Set[E], d Trees.Direction, f func(E) bool) {
	s.check(u.cfg)
	s.tree(u.i).Range(d, f)
}

// Slice of s ordered by u.
func (u *Key[E, A]) Slice(s Set[E], d Trees.Direction) []E {
	s.check(u.cfg)
	return s.tree(u.i).Slice(d)
}

// Tree of s ordered by u.
func (u *Key[E, A]) Tree(s Set[E]) Trees.PTree[E] {
	s.check(u.cfg)
	return s.tree(u.i)
}

// Remove the element of s whose aspect under u is a, from every tree. s is
// returned as is if there isn't one.
// Time: O(N*D) for N keys.
func (u *Key[E, A]) Remove(s Set[E], a A) Set[E] {
	if x, ok := u.Element(s, a); ok {
		return s.without(u.cfg, x)
	}
	return s
}

// Alter replaces the element of s whose aspect under u is a by f of it. The
// old element is removed first and the new one is inserted with policy p
// exactly like Set.Put, so under PreferExisting an altered element colliding
// with another element is dropped. s is returned as is if nothing matches a.
func (u *Key[E, A]) Alter(s Set[E], p Sets.Policy, a A, f func(E) E) Set[E] {
	x, ok := u.Element(s, a)
	if !ok {
		return s
	}
	return s.without(u.cfg, x).Insert(u.cfg, p, f(x))
}

// Intersect returns the elements of a matched under u by an element of b.
// Time: O(n+m) comparisons.
func (u *Key[E, A]) Intersect(a, b Set[E]) Set[E] {
	c := u.cfg
	return fold2(c, u.i, a, b, Empty(c), func(s Set[E], st Step[E]) Set[E] {
		if st.Side == Both {
			return s.Insert(c, Sets.PreferExisting, st.A)
		}
		return s
	})
}

// Except returns the elements of a not matched under u by any element of b.
// Time: O(n+m) comparisons.
func (u *Key[E, A]) Except(a, b Set[E]) Set[E] {
	c := u.cfg
	return fold2(c, u.i, a, b, Empty(c), func(s Set[E], st Step[E]) Set[E] {
		if st.Side == OnlyA {
			return s.Insert(c, Sets.PreferExisting, st.A)
		}
		return s
	})
}
