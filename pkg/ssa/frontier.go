package ssa

import (
	"sort"

	"github.com/blendsdk/blend65-sub005/pkg/il"
)

// DominanceFrontier maps a block id to the sorted set of blocks in its
// dominance frontier (§4.2).
type DominanceFrontier map[uint32][]uint32

// BuildDominanceFrontier computes the dominance frontier of every reachable
// block of fn using its dominator tree, per the Cooper-Harvey-Kennedy
// join-point algorithm of §4.2:
//
//	for each block y with at least two predecessors:
//	    for each predecessor p of y:
//	        runner := p
//	        while runner != idom(y):
//	            DF[runner] += y
//	            runner = idom(runner)
func BuildDominanceFrontier(fn *il.Function, tree *DominatorTree) DominanceFrontier {
	df := make(DominanceFrontier)
	seen := make(map[uint32]map[uint32]bool)

	add := func(b, y uint32) {
		if seen[b] == nil {
			seen[b] = make(map[uint32]bool)
		}
		if !seen[b][y] {
			seen[b][y] = true
			df[b] = append(df[b], y)
		}
	}

	for _, y := range fn.BlockIDs() {
		if !tree.Reachable(y) {
			continue
		}
		block := fn.Blocks[y]
		preds := preprocessedPreds(block, tree)
		if len(preds) < 2 {
			continue
		}
		idomY := idomAlgo(tree, y)
		for _, p := range preds {
			runner := p
			for runner != idomY {
				add(runner, y)
				runner = idomAlgo(tree, runner)
			}
		}
	}

	for b := range df {
		sort.Slice(df[b], func(i, j int) bool { return df[b][i] < df[b][j] })
	}
	return df
}

// preprocessedPreds returns b's predecessors that are themselves reachable.
func preprocessedPreds(b *il.BasicBlock, tree *DominatorTree) []uint32 {
	var out []uint32
	for _, p := range b.Preds {
		if tree.Reachable(p) {
			out = append(out, p)
		}
	}
	return out
}

// idomAlgo returns the immediate dominator of b for walking purposes, with
// the entry block mapping to itself (so the "runner != idom(y)" loop
// terminates correctly at the root).
func idomAlgo(tree *DominatorTree, b uint32) uint32 {
	if b == tree.entry {
		return tree.entry
	}
	return tree.idom[b]
}

// Of returns the dominance frontier of b, or nil if empty.
func (df DominanceFrontier) Of(b uint32) []uint32 { return df[b] }
