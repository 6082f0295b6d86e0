package Trees

import "fmt"

// Direction of a walk along the order of a tree. Increasing walks from the
// smallest element towards the largest, so End(Increasing) is the maximum.
type Direction byte

const (
	Increasing Direction = iota
	Decreasing
)

func (d Direction) String() string {
	if d == Decreasing {
		return "decreasing"
	}
	return "increasing"
}

// Reverse of d.
func (d Direction) Reverse() Direction {
	return d ^ 1
}

// Tree represents A read only view of an ordered tree like structure.
// Receivers that has A bool as A second return value indicates whether
// the first return value is defined. For example, if calling End on
// an empty tree, the return value will be (x T, false bool). In this
// case x is the zero value of T and shouldn't be used.
// Searches take A probe instead of A value: probe(x) reports the order of the
// searched target relative to x, negative if the target sorts before x, 0 if x
// is the target, positive otherwise. This lets A tree ordered by some aspect of
// T be searched by that aspect alone.
type Tree[T any] interface {
	//IsEmpty reports whether the tree holds no element.
	IsEmpty() bool
	//Size of the tree.
	Size() uint
	//Height of the tree, 0 for an empty tree.
	Height() int
	//End is the extreme element in direction d.
	End(d Direction) (T, bool)
	//Find the element the probe points at.
	Find(probe func(T) int) (T, bool)
	//Predecessor returns the greatest element ordered before the target.
	Predecessor(probe func(T) int) (T, bool)
	//Successor returns the smallest element ordered after the target.
	Successor(probe func(T) int) (T, bool)
	//Range calls f on every element in direction d until f returns false.
	Range(d Direction, f func(T) bool)
	//InOrder returns A closure function f acting like an iterator. f
	//gives elements in direction d. Calling f is like calling "Next()" of
	//iterators: val, valid=f(). val is meaningful only if valid is true.
	//When valid==false, then f is exhausted. valid can't turn true after
	//it first became false.
	InOrder(d Direction) func() (T, bool)
}

// CorruptError describes the first broken invariant Validate found.
type CorruptError struct {
	Reason string
	Depth  int // depth of the offending node, root is 0
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt tree at depth %d: %s", e.Depth, e.Reason)
}

// InvalidSliceError is the panic value of FromSorted when its input isn't
// strictly increasing.
type InvalidSliceError struct {
	Index int
}

func (e InvalidSliceError) Error() string {
	return fmt.Sprintf("slice not strictly increasing at index %d", e.Index)
}
