package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/xlab/treeprint"

	"github.com/g-m-twostay/multikey/Sets/MultiSet"
	"github.com/g-m-twostay/multikey/Trees"
)

func label(key string, r Record) string {
	switch key {
	case "handle":
		return r.Handle
	case "email":
		return r.Email
	}
	return strconv.FormatInt(r.ID, 10)
}

// renderTree draws t with each node's height as meta. A missing child of a
// node that has the other one is drawn as "·".
func renderTree(key string, t Trees.PTree[Record]) treeprint.Tree {
	root := treeprint.NewWithRoot(fmt.Sprintf("%s (height %d)", key, t.Height()))
	addNode(root, key, t)
	return root
}

func addNode(parent treeprint.Tree, key string, t Trees.PTree[Record]) {
	v, l, r, ok := t.Root()
	if !ok {
		parent.AddNode("·")
		return
	}
	b := parent.AddMetaBranch(t.Height(), label(key, v))
	if l.IsEmpty() && r.IsEmpty() {
		return
	}
	addNode(b, key, l)
	addNode(b, key, r)
}

func encode(r Record) string {
	b, err := json.Marshal(r)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// diffLine prints records only in a with "-", only in b with "+", and those
// whose id is in both but whose fields differ with "~" and b's version.
func diffLine(all bool) func([]string, MultiSet.Step[Record]) []string {
	return func(out []string, st MultiSet.Step[Record]) []string {
		switch st.Side {
		case MultiSet.OnlyA:
			return append(out, "- "+encode(st.A))
		case MultiSet.OnlyB:
			return append(out, "+ "+encode(st.B))
		}
		if st.A != st.B {
			return append(out, "~ "+encode(st.B))
		}
		if all {
			return append(out, "  "+encode(st.A))
		}
		return out
	}
}
