package Trees

// PTree is A persistent AVL tree. A PTree value is immutable: every modifying
// receiver returns A new PTree that shares all untouched subtrees with the
// receiver, so old values stay valid and can be read from any number of
// goroutines without locking.
// The tree doesn't remember its order. Receivers that need one take either A
// comparator cmp(a, b) (negative if a<b, 0 if a==b, positive if a>b; see
// cmp.Compare) or A probe as described in Tree. Using the same order for every
// call on A tree is up to the caller; Validate detects violations.
// The zero value is an empty tree.
// The height D of the tree is less than 1.44*log2(n+2), so every receiver
// documented as O(D) is O(log n).
type PTree[T any] struct {
	root *node[T]
}

var _ Tree[int] = PTree[int]{}

// Empty returns an empty tree.
func Empty[T any]() PTree[T] {
	return PTree[T]{}
}

// One returns the tree holding only v.
func One[T any](v T) PTree[T] {
	return PTree[T]{&node[T]{v: v, h: 1}}
}

// Branch builds the tree with root v and subtrees l and r, rebalancing it if
// needed. Every element of l must be ordered before v and every element of r
// after it, and the heights of l and r may differ by at most 2.
// Time: O(1); Space: O(1)
func Branch[T any](v T, l, r PTree[T]) PTree[T] {
	return PTree[T]{branch(v, l.root, r.root)}
}

// FromSorted builds A perfectly balanced tree from vs, which must be strictly
// increasing under cmp. It panics with InvalidSliceError otherwise. If cmp is
// nil the check is skipped and it is up to the caller to meet the condition.
// Time: O(n).
func FromSorted[T any](vs []T, cmp func(T, T) int) PTree[T] {
	if cmp != nil {
		for i := 1; i < len(vs); i++ {
			if cmp(vs[i-1], vs[i]) >= 0 {
				panic(InvalidSliceError{i})
			}
		}
	}
	var build func([]T) *node[T]
	build = func(s []T) *node[T] {
		if len(s) > 0 {
			mid := len(s) >> 1
			return mk(s[mid], build(s[:mid]), build(s[mid+1:]))
		}
		return nil
	}
	return PTree[T]{build(vs)}
}

// IsEmpty [Tree.IsEmpty]
// Time: O(1)
func (u PTree[T]) IsEmpty() bool {
	return u.root == nil
}

// Height [Tree.Height]
// Time: O(1)
func (u PTree[T]) Height() int {
	return int(height(u.root))
}

// Size [Tree.Size]. Sizes aren't cached per node. Recursive.
// Time: O(n)
func (u PTree[T]) Size() uint {
	return size(u.root)
}

// End [Tree.End]
// Time: O(D); Space: O(1)
func (u PTree[T]) End(d Direction) (T, bool) {
	if u.root == nil {
		return *new(T), false
	}
	return end(u.root, d).v, true
}

// RemoveEnd returns the tree without End(d). An empty tree is returned as is.
// Time: O(D)
func (u PTree[T]) RemoveEnd(d Direction) PTree[T] {
	if u.root == nil {
		return u
	}
	return PTree[T]{removeEnd(u.root, d)}
}

// Find [Tree.Find]
// Time: O(D); Space: O(1)
func (u PTree[T]) Find(probe func(T) int) (T, bool) {
	for cur := u.root; cur != nil; {
		if order := probe(cur.v); order < 0 {
			cur = cur.l
		} else if order > 0 {
			cur = cur.r
		} else {
			return cur.v, true
		}
	}
	return *new(T), false
}

// Predecessor [Tree.Predecessor]
// Time: O(D); Space: O(1)
func (u PTree[T]) Predecessor(probe func(T) int) (T, bool) {
	var p *node[T]
	for cur := u.root; cur != nil; {
		if probe(cur.v) <= 0 {
			cur = cur.l
		} else {
			p = cur
			cur = cur.r
		}
	}
	if p == nil {
		return *new(T), false
	}
	return p.v, true
}

// Successor [Tree.Successor]
// Time: O(D); Space: O(1)
func (u PTree[T]) Successor(probe func(T) int) (T, bool) {
	var p *node[T]
	for cur := u.root; cur != nil; {
		if probe(cur.v) < 0 {
			p = cur
			cur = cur.l
		} else {
			cur = cur.r
		}
	}
	if p == nil {
		return *new(T), false
	}
	return p.v, true
}

// Insert v ordered by cmp. Returns the receiver and false if an element equal
// to v is already in the tree. Recursive.
// Time: O(D)
func (u PTree[T]) Insert(v T, cmp func(T, T) int) (PTree[T], bool) {
	r, ok := insert(u.root, v, cmp)
	return PTree[T]{r}, ok
}

// Remove the element the probe points at. Returns the receiver and false if
// there isn't one. Recursive.
// Time: O(D)
func (u PTree[T]) Remove(probe func(T) int) (PTree[T], bool) {
	r, ok := remove(u.root, probe)
	return PTree[T]{r}, ok
}

// Root returns the root element and both subtrees, ok is false for an empty
// tree. It's meant for code that renders or inspects the shape of the tree.
func (u PTree[T]) Root() (v T, l, r PTree[T], ok bool) {
	if u.root == nil {
		return
	}
	return u.root.v, PTree[T]{u.root.l}, PTree[T]{u.root.r}, true
}

// Range [Tree.Range]
// Uses A stack of at most D nodes.
// Time: O(n)
func (u PTree[T]) Range(d Direction, f func(T) bool) {
	next := u.InOrder(d)
	for v, ok := next(); ok; v, ok = next() {
		if !f(v) {
			return
		}
	}
}

// InOrder [Tree.InOrder]
// The returned function keeps A stack of at most D nodes. Since the tree is
// immutable the iterator stays valid whatever happens to other versions.
// Time: f(): amortized O(1) at each call to the returned function.
func (u PTree[T]) InOrder(d Direction) func() (T, bool) {
	st := make([]*node[T], 0, height(u.root))
	descend := func(cur *node[T]) {
		if d == Increasing {
			for ; cur != nil; cur = cur.l {
				st = append(st, cur)
			}
		} else {
			for ; cur != nil; cur = cur.r {
				st = append(st, cur)
			}
		}
	}
	descend(u.root)
	return func() (T, bool) {
		if len(st) == 0 {
			return *new(T), false
		}
		cur := st[len(st)-1]
		st = st[:len(st)-1]
		if d == Increasing {
			descend(cur.r)
		} else {
			descend(cur.l)
		}
		return cur.v, true
	}
}

// Slice of all elements in direction d.
// Time: O(n)
func (u PTree[T]) Slice(d Direction) []T {
	return Fold(u, d, make([]T, 0, 8), func(s []T, v T) []T {
		return append(s, v)
	})
}

// Validate checks the ordering under cmp, the balance and the cached heights
// of every node. Returns A *CorruptError for the first violation found.
// Recursive.
// Time: O(n)
func (u PTree[T]) Validate(cmp func(T, T) int) error {
	_, err := validate(u.root, cmp, nil, nil, 0)
	return err
}

func validate[T any](n *node[T], cmp func(T, T) int, lo, hi *T, depth int) (uint8, error) {
	if n == nil {
		return 0, nil
	}
	if lo != nil && cmp(*lo, n.v) >= 0 {
		return 0, &CorruptError{"element not greater than its left bound", depth}
	}
	if hi != nil && cmp(n.v, *hi) >= 0 {
		return 0, &CorruptError{"element not less than its right bound", depth}
	}
	hl, err := validate(n.l, cmp, lo, &n.v, depth+1)
	if err != nil {
		return 0, err
	}
	hr, err := validate(n.r, cmp, &n.v, hi, depth+1)
	if err != nil {
		return 0, err
	}
	if hl > hr+1 || hr > hl+1 {
		return 0, &CorruptError{"subtree heights differ by more than 1", depth}
	}
	if h := max(hl, hr) + 1; h != n.h {
		return 0, &CorruptError{"cached height is wrong", depth}
	}
	return n.h, nil
}

// Fold visits every element of t in direction d, accumulating with f.
// Time: O(n)
func Fold[T, A any](t PTree[T], d Direction, init A, f func(A, T) A) A {
	next := t.InOrder(d)
	for v, ok := next(); ok; v, ok = next() {
		init = f(init, v)
	}
	return init
}

// Map applies f to every element keeping the shape of t. f must preserve the
// order used to build t, otherwise the result can't be searched.
// Time: O(n)
func Map[T, U any](t PTree[T], f func(T) U) PTree[U] {
	return PTree[U]{mapNode(t.root, f)}
}
