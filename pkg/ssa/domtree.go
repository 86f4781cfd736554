// Package ssa implements the SSA construction pipeline: dominator tree
// computation, dominance frontiers, phi placement, and SSA renaming (§4 of
// the core spec). Every algorithm here visits blocks and variables in a
// deterministic order so that two runs over the same il.Function produce
// byte-identical results (§5).
package ssa

import (
	"sort"

	"github.com/blendsdk/blend65-sub005/pkg/il"
)

// DominatorTree is the immutable result of dominance analysis over a
// function's reachable-from-entry subgraph (§4.1). Unreachable blocks are
// simply absent from every query.
type DominatorTree struct {
	entry uint32

	// idom maps a reachable block id to its immediate dominator's id.
	// The entry maps to itself internally (simplifies the algorithm); the
	// public Idom query translates that back to -1.
	idom map[uint32]uint32

	rpoIndex map[uint32]int
	rpoOrder []uint32

	children map[uint32][]uint32
	depth    map[uint32]int
}

// BuildDominatorTree computes the dominator tree of fn using the iterative
// Cooper-Harvey-Kennedy algorithm of §4.1.
func BuildDominatorTree(fn *il.Function) *DominatorTree {
	rpo := reversePostorder(fn)
	rpoIndex := make(map[uint32]int, len(rpo))
	for i, id := range rpo {
		rpoIndex[id] = i
	}

	idom := make(map[uint32]uint32, len(rpo))
	idom[fn.EntryID] = fn.EntryID

	changed := true
	for changed {
		changed = false
		// Skip the entry (index 0); all others in RPO order.
		for i := 1; i < len(rpo); i++ {
			b := rpo[i]
			preds := processedPredecessors(fn, b, idom)
			if len(preds) == 0 {
				continue
			}
			newIdom := preds[0]
			for _, p := range preds[1:] {
				newIdom = intersect(newIdom, p, idom, rpoIndex)
			}
			if cur, ok := idom[b]; !ok || cur != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}

	tree := &DominatorTree{
		entry:    fn.EntryID,
		idom:     idom,
		rpoIndex: rpoIndex,
		rpoOrder: rpo,
		children: make(map[uint32][]uint32),
		depth:    make(map[uint32]int),
	}
	tree.buildChildren()
	tree.computeDepths()
	return tree
}

// reversePostorder returns the reachable-from-entry blocks of fn in reverse
// postorder, entry first.
func reversePostorder(fn *il.Function) []uint32 {
	visited := make(map[uint32]bool)
	var post []uint32

	var visit func(id uint32)
	visit = func(id uint32) {
		if visited[id] {
			return
		}
		visited[id] = true
		b := fn.Blocks[id]
		if b == nil {
			return
		}
		succs := append([]uint32(nil), b.Succs...)
		sort.Slice(succs, func(i, j int) bool { return succs[i] < succs[j] })
		for _, s := range succs {
			visit(s)
		}
		post = append(post, id)
	}
	visit(fn.EntryID)

	rpo := make([]uint32, len(post))
	for i, id := range post {
		rpo[len(post)-1-i] = id
	}
	return rpo
}

// processedPredecessors returns b's predecessors that already have an idom
// entry, in ascending block-id order so the first element is a stable,
// deterministic starting point for intersect.
func processedPredecessors(fn *il.Function, b uint32, idom map[uint32]uint32) []uint32 {
	block := fn.Blocks[b]
	var out []uint32
	for _, p := range block.Preds {
		if _, ok := idom[p]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// intersect walks back through idom pointers from a and b, comparing RPO
// numbers, until they meet (§4.1 step 4): the pointer with the larger RPO
// number is advanced.
func intersect(a, b uint32, idom map[uint32]uint32, rpoIndex map[uint32]int) uint32 {
	for a != b {
		for rpoIndex[a] > rpoIndex[b] {
			a = idom[a]
		}
		for rpoIndex[b] > rpoIndex[a] {
			b = idom[b]
		}
	}
	return a
}

func (t *DominatorTree) buildChildren() {
	ids := make([]uint32, 0, len(t.idom))
	for id := range t.idom {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if id == t.entry {
			continue
		}
		p := t.idom[id]
		t.children[p] = append(t.children[p], id)
	}
	for p := range t.children {
		sort.Slice(t.children[p], func(i, j int) bool { return t.children[p][i] < t.children[p][j] })
	}
}

func (t *DominatorTree) computeDepths() {
	var walk func(id uint32, d int)
	walk = func(id uint32, d int) {
		t.depth[id] = d
		for _, c := range t.children[id] {
			walk(c, d+1)
		}
	}
	walk(t.entry, 0)
}

// Idom returns the immediate dominator of b, or -1 if b is the entry block.
// Panics if b is unreachable.
func (t *DominatorTree) Idom(b uint32) int64 {
	if b == t.entry {
		return -1
	}
	id, ok := t.idom[b]
	if !ok {
		panic("ssa: Idom of unreachable block")
	}
	return int64(id)
}

// Depth returns the number of edges from the entry to b in the dominator tree.
func (t *DominatorTree) Depth(b uint32) int {
	d, ok := t.depth[b]
	if !ok {
		panic("ssa: Depth of unreachable block")
	}
	return d
}

// Dominates reports whether a dominates b (reflexive).
func (t *DominatorTree) Dominates(a, b uint32) bool {
	if _, ok := t.idom[a]; !ok {
		return false
	}
	cur := b
	for {
		if _, ok := t.idom[cur]; !ok {
			return false
		}
		if cur == a {
			return true
		}
		if cur == t.entry {
			return false
		}
		cur = t.idom[cur]
	}
}

// StrictlyDominates reports whether a dominates b and a != b.
func (t *DominatorTree) StrictlyDominates(a, b uint32) bool {
	return a != b && t.Dominates(a, b)
}

// DominatedBy returns the set of block ids that b dominates, including b itself.
func (t *DominatorTree) DominatedBy(b uint32) []uint32 {
	var out []uint32
	for id := range t.idom {
		if t.Dominates(b, id) {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ImmediatelyDominatedBy returns the dominator-tree children of b, ascending by id.
func (t *DominatorTree) ImmediatelyDominatedBy(b uint32) []uint32 {
	return append([]uint32(nil), t.children[b]...)
}

// Reachable reports whether b is present in the dominator tree (i.e.
// reachable from the entry block).
func (t *DominatorTree) Reachable(b uint32) bool {
	_, ok := t.idom[b]
	return ok
}

// Preorder returns all reachable blocks in dominator-tree preorder,
// visiting children in ascending block-id order at each level — the
// deterministic order required by §4.4.
func (t *DominatorTree) Preorder() []uint32 {
	var out []uint32
	var walk func(id uint32)
	walk = func(id uint32) {
		out = append(out, id)
		for _, c := range t.children[id] {
			walk(c)
		}
	}
	walk(t.entry)
	return out
}

// Postorder returns all reachable blocks in dominator-tree postorder.
func (t *DominatorTree) Postorder() []uint32 {
	var out []uint32
	var walk func(id uint32)
	walk = func(id uint32) {
		for _, c := range t.children[id] {
			walk(c)
		}
		out = append(out, id)
	}
	walk(t.entry)
	return out
}

// Entry returns the entry block id.
func (t *DominatorTree) Entry() uint32 { return t.entry }
