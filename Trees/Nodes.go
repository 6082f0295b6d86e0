package Trees

// A node in the PTree.
// Nodes are never modified once they are reachable from A PTree, so any
// number of trees may share them.
type node[T any] struct {
	v    T
	l, r *node[T]
	h    uint8 // 1 + max(l.h, r.h); A nil node has height 0.
}

func height[T any](n *node[T]) uint8 {
	if n == nil {
		return 0
	}
	return n.h
}

// mk allocates A node without checking balance.
// Time: O(1); Space: O(1)
func mk[T any](v T, l, r *node[T]) *node[T] {
	return &node[T]{v, l, r, max(height(l), height(r)) + 1}
}

// rotateLeft builds the left rotation of the node (v, l, r). r mustn't be nil.
// Time: O(1); Space: O(1)
func rotateLeft[T any](v T, l, r *node[T]) *node[T] {
	return mk(r.v, mk(v, l, r.l), r.r)
}

// rotateRight builds the right rotation of the node (v, l, r). l mustn't be nil.
// Time: O(1); Space: O(1)
func rotateRight[T any](v T, l, r *node[T]) *node[T] {
	return mk(l.v, l.l, mk(v, l.r, r))
}

// branch builds the node (v, l, r) and restores the AVL property with at most
// two rotations. l and r must be balanced and their heights may differ by at
// most 2, which is all A single insertion or removal below v can cause.
// Time: O(1); Space: O(1)
func branch[T any](v T, l, r *node[T]) *node[T] {
	if hl, hr := height(l), height(r); hl > hr+1 {
		if height(l.r) > height(l.l) {
			l = rotateLeft(l.v, l.l, l.r)
		}
		return rotateRight(v, l, r)
	} else if hr > hl+1 {
		if height(r.l) > height(r.r) {
			r = rotateRight(r.v, r.l, r.r)
		}
		return rotateLeft(v, l, r)
	}
	return mk(v, l, r)
}

// end is the last node walking towards d. n mustn't be nil.
func end[T any](n *node[T], d Direction) *node[T] {
	if d == Increasing {
		for n.r != nil {
			n = n.r
		}
	} else {
		for n.l != nil {
			n = n.l
		}
	}
	return n
}

// removeEnd rebuilds n without its last node towards d. Recursive.
// Time: O(D)
func removeEnd[T any](n *node[T], d Direction) *node[T] {
	if d == Increasing {
		if n.r == nil {
			return n.l
		}
		return branch(n.v, n.l, removeEnd(n.r, d))
	}
	if n.l == nil {
		return n.r
	}
	return branch(n.v, removeEnd(n.l, d), n.r)
}

// join two balanced subtrees whose heights differ by at most 1 and whose
// elements are all ordered l < r. The new root is taken from the taller side.
func join[T any](l, r *node[T]) *node[T] {
	if l == nil {
		return r
	} else if r == nil {
		return l
	} else if height(l) > height(r) {
		return branch(end(l, Increasing).v, removeEnd(l, Increasing), r)
	}
	return branch(end(r, Decreasing).v, l, removeEnd(r, Decreasing))
}

func insert[T any](n *node[T], v T, cmp func(T, T) int) (*node[T], bool) {
	if n == nil {
		return &node[T]{v: v, h: 1}, true
	}
	if order := cmp(v, n.v); order < 0 {
		if l, ok := insert(n.l, v, cmp); ok {
			return branch(n.v, l, n.r), true
		}
	} else if order > 0 {
		if r, ok := insert(n.r, v, cmp); ok {
			return branch(n.v, n.l, r), true
		}
	}
	return n, false
}

func remove[T any](n *node[T], probe func(T) int) (*node[T], bool) {
	if n == nil {
		return nil, false
	}
	if order := probe(n.v); order < 0 {
		if l, ok := remove(n.l, probe); ok {
			return branch(n.v, l, n.r), true
		}
	} else if order > 0 {
		if r, ok := remove(n.r, probe); ok {
			return branch(n.v, n.l, r), true
		}
	} else {
		return join(n.l, n.r), true
	}
	return n, false
}

func mapNode[T, U any](n *node[T], f func(T) U) *node[U] {
	if n == nil {
		return nil
	}
	return &node[U]{f(n.v), mapNode(n.l, f), mapNode(n.r, f), n.h}
}

func size[T any](n *node[T]) uint {
	if n == nil {
		return 0
	}
	return size(n.l) + size(n.r) + 1
}
