package Sets

import (
	"fmt"
	"strings"

	"github.com/g-m-twostay/multikey/Trees"
)

// Ordered is A read only, ordered collection of unique elements.
type Ordered[E any] interface {
	Size() uint
	IsEmpty() bool
	//Range calls f on the elements in direction d until f returns false.
	Range(d Trees.Direction, f func(E) bool)
	Slice(d Trees.Direction) []E
}

var _ Ordered[int] = Trees.PTree[int]{}

// Policy decides which element survives when an insertion collides with
// elements already in A set.
type Policy byte

const (
	// PreferExisting keeps the set unchanged and discards the new element.
	PreferExisting Policy = iota
	// PreferIncoming removes every colliding element and inserts the new one.
	PreferIncoming
)

func (p Policy) String() string {
	switch p {
	case PreferExisting:
		return "existing"
	case PreferIncoming:
		return "incoming"
	}
	return fmt.Sprintf("Policy(%d)", byte(p))
}

// ParsePolicy is the inverse of Policy.String. Case is ignored and the
// "prefer-" prefix is optional.
func ParsePolicy(s string) (Policy, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "prefer-") {
	case "existing":
		return PreferExisting, nil
	case "incoming":
		return PreferIncoming, nil
	}
	return 0, fmt.Errorf("unknown collision policy %q", s)
}
