package Trees

import (
	"cmp"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rg = rand.New(rand.NewSource(0))

const (
	tAddN        = 20000
	tAddValRange = 40000
)

func probeOf(v int) func(int) int {
	return func(x int) int { return cmp.Compare(v, x) }
}

func (u PTree[T]) _depth(n *node[T], d int, leaves, total *int) {
	if n.l != nil {
		u._depth(n.l, d+1, leaves, total)
	}
	if n.r != nil {
		u._depth(n.r, d+1, leaves, total)
	}
	if n.l == nil && n.r == nil {
		*leaves++
		*total += d
	}
}

// depth is the average depth of the leaves.
func (u PTree[T]) depth() float32 {
	if u.root == nil {
		return 0
	}
	var leaves, total int
	u._depth(u.root, 1, &leaves, &total)
	return float32(total) / float32(leaves)
}

func randomTree(t testing.TB, n int) (PTree[int], map[int]struct{}) {
	t.Helper()
	tree := Empty[int]()
	content := make(map[int]struct{})
	for range n {
		b := rg.Intn(tAddValRange)
		_, in := content[b]
		var c bool
		if tree, c = tree.Insert(b, cmp.Compare[int]); c == in {
			t.Fatalf("insert of %v returned %v, key present: %v", b, c, in)
		}
		content[b] = struct{}{}
	}
	return tree, content
}

func TestPTree_Insert(t *testing.T) {
	tree, content := randomTree(t, tAddN)
	if int(tree.Size()) != len(content) {
		t.Errorf("tree size is %d, want %d", tree.Size(), len(content))
	}
	require.NoError(t, tree.Validate(cmp.Compare[int]))
	t.Logf("depth: %f, height: %d, size: %d.\n", tree.depth(), tree.Height(), tree.Size())
	for k := range content {
		if v, ok := tree.Find(probeOf(k)); !ok || v != k {
			t.Errorf("tree does not have key %v", k)
		}
	}
	tree.Range(Increasing, func(v int) bool {
		if _, in := content[v]; !in {
			t.Errorf("tree has non existent key %v", v)
		}
		return true
	})
}

func TestPTree_Monotonic(t *testing.T) {
	for _, d := range []Direction{Increasing, Decreasing} {
		tree := Empty[int]()
		for i := range tAddN {
			v := i
			if d == Decreasing {
				v = tAddN - i
			}
			tree, _ = tree.Insert(v, cmp.Compare[int])
		}
		require.NoError(t, tree.Validate(cmp.Compare[int]), d.String())
		// 1.44*log2(20002) is about 20.6
		assert.LessOrEqual(t, tree.Height(), 20, d.String())
		assert.EqualValues(t, tAddN, tree.Size())
	}
}

func TestPTree_Remove(t *testing.T) {
	tree, content := randomTree(t, tAddN)
	if _, ok := Empty[int]().Remove(probeOf(0)); ok {
		t.Errorf("empty tree has non existent key %v", 0)
	}
	for range rg.Intn(tAddN) {
		a := rg.Intn(tAddValRange)
		_, in := content[a]
		var b bool
		if tree, b = tree.Remove(probeOf(a)); b != in {
			t.Errorf("failed to delete key %v", a)
		}
		if _, b = tree.Remove(probeOf(a)); b {
			t.Errorf("can delete a second time key %v", a)
		}
		delete(content, a)
	}
	if int(tree.Size()) != len(content) {
		t.Errorf("tree size is %d, want %d", tree.Size(), len(content))
	}
	require.NoError(t, tree.Validate(cmp.Compare[int]))
	t.Logf("depth: %f, height: %d, size: %d.\n", tree.depth(), tree.Height(), tree.Size())
	for k := range content {
		if _, ok := tree.Find(probeOf(k)); !ok {
			t.Errorf("tree does not have key %v", k)
		}
	}
}

func TestPTree_RemoveAll(t *testing.T) {
	tree := Empty[int]()
	perm := rg.Perm(1 << 10)
	for _, v := range perm {
		tree, _ = tree.Insert(v, cmp.Compare[int])
	}
	rg.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
	for i, v := range perm {
		var ok bool
		tree, ok = tree.Remove(probeOf(v))
		require.True(t, ok, "remove %d", v)
		if i%64 == 0 {
			require.NoError(t, tree.Validate(cmp.Compare[int]))
		}
	}
	assert.True(t, tree.IsEmpty())
	assert.Equal(t, 0, tree.Height())
}

func TestPTree_Persistent(t *testing.T) {
	old, content := randomTree(t, 1000)
	before := old.Slice(Increasing)
	cur := old
	for k := range content {
		cur, _ = cur.Remove(probeOf(k))
		cur, _ = cur.Insert(k+tAddValRange, cmp.Compare[int])
	}
	assert.Equal(t, before, old.Slice(Increasing))
	assert.NoError(t, old.Validate(cmp.Compare[int]))
	assert.Equal(t, len(content), int(cur.Size()))
	if v, _ := cur.End(Decreasing); v < tAddValRange {
		t.Errorf("new version still has old key %v", v)
	}
}

func TestPTree_InOrder(t *testing.T) {
	tree, content := randomTree(t, tAddN)
	for _, d := range []Direction{Increasing, Decreasing} {
		var s []int
		next := tree.InOrder(d)
		for v, ok := next(); ok; v, ok = next() {
			s = append(s, v)
		}
		if _, ok := next(); ok {
			t.Errorf("exhausted iterator became valid again")
		}
		if len(s) != len(content) {
			t.Errorf("sorted size is %d, want %d", len(s), len(content))
		}
		if d == Decreasing {
			slices.Reverse(s)
		}
		if !slices.IsSorted(s) {
			t.Errorf("%v order is not sorted", d)
		}
	}
	var s []int
	tree.Range(Increasing, func(v int) bool {
		s = append(s, v)
		return len(s) < 10
	})
	assert.Len(t, s, 10)
}

func TestPTree_End(t *testing.T) {
	_, ok := Empty[int]().End(Increasing)
	assert.False(t, ok)
	assert.True(t, Empty[int]().RemoveEnd(Decreasing).IsEmpty())

	tree, content := randomTree(t, 5000)
	sorted := make([]int, 0, len(content))
	for k := range content {
		sorted = append(sorted, k)
	}
	slices.Sort(sorted)
	for len(sorted) > 0 {
		lo, _ := tree.End(Decreasing)
		hi, _ := tree.End(Increasing)
		require.Equal(t, sorted[0], lo)
		require.Equal(t, sorted[len(sorted)-1], hi)
		if len(sorted)%2 == 0 {
			tree, sorted = tree.RemoveEnd(Decreasing), sorted[1:]
		} else {
			tree, sorted = tree.RemoveEnd(Increasing), sorted[:len(sorted)-1]
		}
		if len(sorted)%97 == 0 {
			require.NoError(t, tree.Validate(cmp.Compare[int]))
		}
	}
	assert.True(t, tree.IsEmpty())
}

func TestPTree_PreSucc(t *testing.T) {
	content := make([]int, 1000)
	for i := range content {
		content[i] = i * 2
	}
	tree := FromSorted(content, cmp.Compare[int])
	for i := 1; i < len(content)-1; i++ {
		if a, _ := tree.Predecessor(probeOf(content[i])); a != content[i-1] {
			t.Fatalf("wrong predecessor %d %d", a, content[i-1])
		}
		if a, _ := tree.Successor(probeOf(content[i])); a != content[i+1] {
			t.Fatalf("wrong successor %d %d", a, content[i+1])
		}
		if a, _ := tree.Predecessor(probeOf(content[i] + 1)); a != content[i] {
			t.Fatalf("wrong predecessor %d %d", a, content[i])
		}
		if a, _ := tree.Successor(probeOf(content[i] - 1)); a != content[i] {
			t.Fatalf("wrong successor %d %d", a, content[i])
		}
	}
	if _, ok := tree.Predecessor(probeOf(content[0])); ok {
		t.Fatal("shouldn't have predecessor")
	}
	if _, ok := tree.Successor(probeOf(content[len(content)-1])); ok {
		t.Fatal("shouldn't have successor")
	}
}

func TestBranch(t *testing.T) {
	c := cmp.Compare[int]
	// left-left: single right rotation.
	ll := Branch(2, One(1), Empty[int]())
	tree := Branch(3, ll, Empty[int]())
	require.NoError(t, tree.Validate(c))
	v, _, _, _ := tree.Root()
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, tree.Height())

	// left-right: double rotation.
	lr := Branch(1, Empty[int](), One(2))
	tree = Branch(3, lr, Empty[int]())
	require.NoError(t, tree.Validate(c))
	v, _, _, _ = tree.Root()
	assert.Equal(t, 2, v)

	// right-left: double rotation.
	rl := Branch(3, One(2), Empty[int]())
	tree = Branch(1, Empty[int](), rl)
	require.NoError(t, tree.Validate(c))
	v, _, _, _ = tree.Root()
	assert.Equal(t, 2, v)

	// equal grandchildren favour the single rotation.
	l := FromSorted([]int{1, 2, 3}, c)
	tree = Branch(4, l, Empty[int]())
	require.NoError(t, tree.Validate(c))
	v, _, r, _ := tree.Root()
	assert.Equal(t, 2, v)
	assert.Equal(t, []int{3, 4}, r.Slice(Increasing))

	// balanced input is kept as is.
	tree = Branch(2, One(1), One(3))
	v, _, _, _ = tree.Root()
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, tree.Height())
}

func TestFoldMap(t *testing.T) {
	tree := FromSorted([]int{1, 2, 3, 4}, cmp.Compare[int])
	sum := Fold(tree, Increasing, 0, func(a, v int) int { return a*10 + v })
	assert.Equal(t, 1234, sum)
	rev := Fold(tree, Decreasing, 0, func(a, v int) int { return a*10 + v })
	assert.Equal(t, 4321, rev)

	doubled := Map(tree, func(v int) int { return v * 2 })
	assert.Equal(t, []int{2, 4, 6, 8}, doubled.Slice(Increasing))
	assert.Equal(t, tree.Height(), doubled.Height())
	assert.NoError(t, doubled.Validate(cmp.Compare[int]))
	assert.Equal(t, []int{1, 2, 3, 4}, tree.Slice(Increasing))
}

func TestFromSorted(t *testing.T) {
	vs := make([]int, 1000)
	for i := range vs {
		vs[i] = i * 3
	}
	tree := FromSorted(vs, cmp.Compare[int])
	require.NoError(t, tree.Validate(cmp.Compare[int]))
	assert.Equal(t, vs, tree.Slice(Increasing))
	assert.True(t, FromSorted[int](nil, nil).IsEmpty())
	assert.PanicsWithValue(t, InvalidSliceError{2}, func() {
		FromSorted([]int{1, 2, 2}, cmp.Compare[int])
	})
}

func TestPTree_Validate(t *testing.T) {
	c := cmp.Compare[int]
	bad := PTree[int]{&node[int]{2, &node[int]{3, nil, nil, 1}, nil, 2}}
	var ce *CorruptError
	require.ErrorAs(t, bad.Validate(c), &ce)
	assert.Equal(t, 1, ce.Depth)

	leaning := PTree[int]{mk(3, mk(2, mk(1, nil, nil), nil), nil)}
	require.ErrorAs(t, leaning.Validate(c), &ce)
	assert.Equal(t, 0, ce.Depth)

	wrongH := PTree[int]{&node[int]{1, nil, nil, 3}}
	require.ErrorAs(t, wrongH.Validate(c), &ce)
	assert.Contains(t, ce.Error(), "height")
}
