package ssa

import (
	"fmt"
	"sort"

	"github.com/blendsdk/blend65-sub005/pkg/il"
)

// RenameResult carries the statistics §4.4 requires, plus any
// read-before-definition warnings recovered from during the walk (§7).
type RenameResult struct {
	BlocksProcessed  int
	PhisProcessed    int
	VariablesRenamed int
	VersionsCreated  int
	Warnings         []string
}

type renamer struct {
	fn        *il.Function
	tree      *DominatorTree
	stacks    map[string][]il.Value
	seen      map[string]bool
	subst     map[uint32]il.Value
	nextInstr uint32
	result    RenameResult
}

// materializePhis allocates a fresh result register for every (block,
// variable) pair named in placement and prepends an empty PHI instruction
// for it. Pairs are processed in ascending (block id, variable name) order
// so register numbering is deterministic (§4.3, §5).
func materializePhis(fn *il.Function, placement PhiPlacement) uint32 {
	type pair struct {
		block uint32
		name  string
	}
	var pairs []pair
	for name, blocks := range placement.Blocks {
		for _, b := range blocks {
			pairs = append(pairs, pair{block: b, name: name})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].block != pairs[j].block {
			return pairs[i].block < pairs[j].block
		}
		return pairs[i].name < pairs[j].name
	})

	nextInstr := maxInstructionID(fn) + 1
	for _, p := range pairs {
		info := fn.Locals[p.name]
		reg := fn.Factory.NewRegister(info.Type, p.name)
		phi := il.NewPhi(nextInstr, reg)
		nextInstr++
		fn.Blocks[p.block].PrependPhi(phi)
	}
	return nextInstr
}

func maxInstructionID(fn *il.Function) uint32 {
	var max uint32
	for _, id := range fn.BlockIDs() {
		for _, in := range fn.Blocks[id].Instructions {
			if in.ID > max {
				max = in.ID
			}
		}
	}
	return max
}

// Rename performs the SSA renaming pass of §4.4: it eliminates LOAD_VAR and
// STORE_VAR instructions for every local variable named in fn.Locals,
// replacing reads with the dominating definition's value and filling in
// phi operands. LOAD_VAR/STORE_VAR instructions referring to names not in
// fn.Locals (module-level globals) are left untouched.
func Rename(fn *il.Function, tree *DominatorTree, placement PhiPlacement) RenameResult {
	nextInstr := materializePhis(fn, placement)

	rn := &renamer{
		fn:        fn,
		tree:      tree,
		stacks:    make(map[string][]il.Value),
		seen:      make(map[string]bool),
		subst:     make(map[uint32]il.Value),
		nextInstr: nextInstr,
	}

	// Seed parameter initial versions.
	for _, p := range fn.Params {
		if _, ok := fn.Locals[p.Name]; ok {
			rn.push(p.Name, il.RegisterValue(p.Register))
			rn.result.VersionsCreated++
		}
	}

	rn.visit(tree.Entry())
	return rn.finalize()
}

func (rn *renamer) push(name string, v il.Value) {
	rn.stacks[name] = append(rn.stacks[name], v)
	rn.seen[name] = true
}

func (rn *renamer) pop(name string) {
	s := rn.stacks[name]
	rn.stacks[name] = s[:len(s)-1]
}

func (rn *renamer) top(name string) (il.Value, bool) {
	s := rn.stacks[name]
	if len(s) == 0 {
		return il.Value{}, false
	}
	return s[len(s)-1], true
}

func (rn *renamer) resolve(v il.Value) il.Value {
	if v.Kind == il.ValueRegister {
		if rep, ok := rn.subst[v.Register.ID]; ok {
			return rep
		}
	}
	return v
}

func (rn *renamer) warnUndefined(varName string, block uint32) il.Value {
	rn.result.Warnings = append(rn.result.Warnings,
		fmt.Sprintf("function %s: variable %q read before definition in block %d", rn.fn.Name, varName, block))
	t := rn.fn.Locals[varName].Type
	return il.ConstantValue(il.Constant{Value: 0, Type: t})
}

// visit renames block b, then recurses into its dominator-tree children in
// ascending block-id order, per §4.4's required traversal order.
func (rn *renamer) visit(b uint32) {
	block := rn.fn.Blocks[b]
	pushed := make(map[string]int)

	phis := block.Phis()
	for _, phi := range phis {
		name := phi.Result.Name
		rn.push(name, il.RegisterValue(*phi.Result))
		pushed[name]++
		rn.result.PhisProcessed++
		rn.result.VersionsCreated++
	}

	kept := append([]il.Instruction(nil), block.Instructions[:len(phis)]...)
	for _, in := range block.Instructions[len(phis):] {
		in = rn.substituteArgs(in)

		switch in.Op {
		case il.OpLoadVar:
			if _, local := rn.fn.Locals[in.VarName]; local {
				val, ok := rn.top(in.VarName)
				if !ok {
					val = rn.warnUndefined(in.VarName, b)
				}
				rn.subst[in.Result.ID] = val
				continue
			}
			kept = append(kept, in)

		case il.OpStoreVar:
			if _, local := rn.fn.Locals[in.VarName]; local {
				rn.push(in.VarName, in.Args[0])
				pushed[in.VarName]++
				rn.result.VersionsCreated++
				continue
			}
			kept = append(kept, in)

		default:
			kept = append(kept, in)
		}
	}
	block.Instructions = kept
	rn.result.BlocksProcessed++

	succs := append([]uint32(nil), block.Succs...)
	sort.Slice(succs, func(i, j int) bool { return succs[i] < succs[j] })
	for _, succID := range succs {
		succ := rn.fn.Blocks[succID]
		for _, phi := range succ.Phis() {
			name := phi.Result.Name
			val, ok := rn.top(name)
			if !ok {
				val = rn.warnUndefined(name, succID)
			}
			phi.PhiOperands = append(phi.PhiOperands, il.PhiOperand{PredBlockID: b, Value: val})
		}
	}

	for _, child := range rn.tree.ImmediatelyDominatedBy(b) {
		rn.visit(child)
	}

	for name, n := range pushed {
		for i := 0; i < n; i++ {
			rn.pop(name)
		}
	}
}

func (rn *renamer) substituteArgs(in il.Instruction) il.Instruction {
	if len(in.Args) == 0 {
		return in
	}
	newArgs := make([]il.Value, len(in.Args))
	for i, a := range in.Args {
		newArgs[i] = rn.resolve(a)
	}
	in.Args = newArgs
	return in
}

// VariablesRenamed is filled in lazily from rn.seen once the walk finishes;
// Rename wires it up before returning.
func (rn *renamer) finalize() RenameResult {
	rn.result.VariablesRenamed = len(rn.seen)
	return rn.result
}
