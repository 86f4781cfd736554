package ssa

import (
	"sort"

	"github.com/blendsdk/blend65-sub005/pkg/il"
)

// PhiPlacement is the result of iterated-dominance-frontier phi placement
// (§4.3): for each SSA-promotable local variable, the sorted set of block
// ids that need a phi for it.
type PhiPlacement struct {
	Blocks map[string][]uint32
	Stats  PhiStats
}

// PhiStats mirrors the statistics §4.3 requires a conforming implementation
// to expose.
type PhiStats struct {
	VariableCount   int
	BlocksWithPhis  int
	TotalPhiCount   int
	MaxPhisPerBlock int
	Iterations      int
}

// defSites collects, per promotable local variable, the blocks containing a
// definition: a STORE_VAR of that variable, or (for parameters) the entry
// block.
func defSites(fn *il.Function) map[string]map[uint32]bool {
	sites := make(map[string]map[uint32]bool)
	markDef := func(name string, block uint32) {
		if sites[name] == nil {
			sites[name] = make(map[uint32]bool)
		}
		sites[name][block] = true
	}

	for _, p := range fn.Params {
		if _, ok := fn.Locals[p.Name]; ok {
			markDef(p.Name, fn.EntryID)
		}
	}

	for _, id := range fn.BlockIDs() {
		b := fn.Blocks[id]
		for _, in := range b.Instructions {
			if in.Op == il.OpStoreVar {
				if _, ok := fn.Locals[in.VarName]; ok {
					markDef(in.VarName, id)
				}
			}
		}
	}
	return sites
}

// PlacePhis computes iterated-dominance-frontier phi placement for every
// SSA-promotable local variable of fn. Variables are processed in ascending
// lexicographic order and each variable's worklist is drained smallest
// block id first, so that two runs over the same function produce an
// identical result (§4.3, §5).
func PlacePhis(fn *il.Function, df DominanceFrontier) PhiPlacement {
	sites := defSites(fn)

	names := make([]string, 0, len(sites))
	for name := range sites {
		names = append(names, name)
	}
	sort.Strings(names)

	placement := PhiPlacement{Blocks: make(map[string][]uint32)}
	placement.Stats.VariableCount = len(names)

	blocksWithAnyPhi := make(map[uint32]bool)
	phiCountPerBlock := make(map[uint32]int)

	for _, name := range names {
		marked := make(map[uint32]bool)
		var worklist []uint32
		for b := range sites[name] {
			marked[b] = true
			worklist = append(worklist, b)
		}

		phiSet := make(map[uint32]bool)
		for len(worklist) > 0 {
			sort.Slice(worklist, func(i, j int) bool { return worklist[i] < worklist[j] })
			b := worklist[0]
			worklist = worklist[1:]
			placement.Stats.Iterations++

			for _, y := range df.Of(b) {
				if phiSet[y] {
					continue
				}
				phiSet[y] = true
				if !marked[y] {
					marked[y] = true
					worklist = append(worklist, y)
				}
			}
		}

		blocks := make([]uint32, 0, len(phiSet))
		for b := range phiSet {
			blocks = append(blocks, b)
		}
		sort.Slice(blocks, func(i, j int) bool { return blocks[i] < blocks[j] })
		if len(blocks) > 0 {
			placement.Blocks[name] = blocks
		}

		for _, b := range blocks {
			blocksWithAnyPhi[b] = true
			phiCountPerBlock[b]++
			placement.Stats.TotalPhiCount++
		}
	}

	placement.Stats.BlocksWithPhis = len(blocksWithAnyPhi)
	for _, n := range phiCountPerBlock {
		if n > placement.Stats.MaxPhisPerBlock {
			placement.Stats.MaxPhisPerBlock = n
		}
	}
	return placement
}
