package ssa

import (
	"testing"

	"github.com/blendsdk/blend65-sub005/pkg/il"
	"github.com/blendsdk/blend65-sub005/pkg/types"
)

// buildDiamond builds:
//
//	entry -> then, else
//	then -> merge
//	else -> merge
//
// with a local "x" stored differently on each arm and read back in merge.
func buildDiamond(t *testing.T) *il.Function {
	t.Helper()
	fn := il.NewFunction("diamond", nil, types.Byte)
	fn.DeclareLocal("x", types.Byte, il.StorageRAM)

	entry := fn.Entry()
	thenB := fn.NewBlock("then")
	elseB := fn.NewBlock("else")
	mergeB := fn.NewBlock("merge")

	cond := fn.Factory.NewRegister(types.Bool, "cond")
	entry.Append(il.NewConst(0, cond, il.Constant{Value: 1, Type: types.Bool}))
	entry.Append(il.NewBranch(1, il.RegisterValue(cond), thenB.Label, elseB.Label))
	il.Link(entry, thenB)
	il.Link(entry, elseB)

	thenB.Append(il.NewStoreVar(2, "x", il.ConstantValue(il.Constant{Value: 1, Type: types.Byte})))
	thenB.Append(il.NewJump(3, mergeB.Label))
	il.Link(thenB, mergeB)

	elseB.Append(il.NewStoreVar(4, "x", il.ConstantValue(il.Constant{Value: 2, Type: types.Byte})))
	elseB.Append(il.NewJump(5, mergeB.Label))
	il.Link(elseB, mergeB)

	r := fn.Factory.NewRegister(types.Byte, "r")
	mergeB.Append(il.NewLoadVar(6, r, "x"))
	mergeB.Append(il.NewReturn(7, il.RegisterValue(r)))

	return fn
}

func TestDominatorTreeDiamond(t *testing.T) {
	fn := buildDiamond(t)
	tree := BuildDominatorTree(fn)

	entry := fn.EntryID
	var thenID, elseID, mergeID uint32
	for _, s := range fn.Blocks[entry].Succs {
		if fn.Blocks[s].Label.Name == "then" {
			thenID = s
		} else {
			elseID = s
		}
	}
	mergeID = fn.Blocks[thenID].Succs[0]

	if tree.Idom(thenID) != int64(entry) {
		t.Errorf("idom(then) = %d, want entry %d", tree.Idom(thenID), entry)
	}
	if tree.Idom(elseID) != int64(entry) {
		t.Errorf("idom(else) = %d, want entry %d", tree.Idom(elseID), entry)
	}
	if tree.Idom(mergeID) != int64(entry) {
		t.Errorf("idom(merge) = %d, want entry %d (neither arm alone dominates it)", tree.Idom(mergeID), entry)
	}
	if tree.Idom(entry) != -1 {
		t.Errorf("idom(entry) = %d, want -1", tree.Idom(entry))
	}
}

func TestDominanceFrontierDiamond(t *testing.T) {
	fn := buildDiamond(t)
	tree := BuildDominatorTree(fn)
	df := BuildDominanceFrontier(fn, tree)

	thenID := fn.Blocks[fn.EntryID].Succs[0]
	mergeID := fn.Blocks[thenID].Succs[0]

	for _, s := range fn.Blocks[fn.EntryID].Succs {
		frontier := df.Of(s)
		if len(frontier) != 1 || frontier[0] != mergeID {
			t.Errorf("DF(%d) = %v, want [%d]", s, frontier, mergeID)
		}
	}
}

func TestPlacePhisInsertsAtMerge(t *testing.T) {
	fn := buildDiamond(t)
	tree := BuildDominatorTree(fn)
	df := BuildDominanceFrontier(fn, tree)
	placement := PlacePhis(fn, df)

	blocks, ok := placement.Blocks["x"]
	if !ok || len(blocks) != 1 {
		t.Fatalf("placement.Blocks[x] = %v, want exactly one block", blocks)
	}

	mergeID := fn.Blocks[fn.Blocks[fn.EntryID].Succs[0]].Succs[0]
	if blocks[0] != mergeID {
		t.Errorf("phi placed at block %d, want merge block %d", blocks[0], mergeID)
	}
	if placement.Stats.VariableCount != 1 {
		t.Errorf("VariableCount = %d, want 1", placement.Stats.VariableCount)
	}
	if placement.Stats.TotalPhiCount != 1 {
		t.Errorf("TotalPhiCount = %d, want 1", placement.Stats.TotalPhiCount)
	}
}

func TestTransformEliminatesLoadStoreAndInsertsPhi(t *testing.T) {
	fn := buildDiamond(t)
	result, err := Transform(fn, TransformOptions{})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	mergeID := fn.Blocks[fn.Blocks[fn.EntryID].Succs[0]].Succs[0]
	merge := fn.Blocks[mergeID]

	phis := merge.Phis()
	if len(phis) != 1 {
		t.Fatalf("merge block has %d phis, want 1", len(phis))
	}
	if phis[0].Result.Name != "x" {
		t.Errorf("phi result name = %q, want x", phis[0].Result.Name)
	}
	if len(phis[0].PhiOperands) != 2 {
		t.Fatalf("phi has %d operands, want 2", len(phis[0].PhiOperands))
	}

	for _, id := range fn.BlockIDs() {
		for _, in := range fn.Blocks[id].Instructions {
			if in.Op == il.OpLoadVar || in.Op == il.OpStoreVar {
				if _, local := fn.Locals[in.VarName]; local {
					t.Errorf("block %d still has %s on local %q after Transform", id, in.Op, in.VarName)
				}
			}
		}
	}

	ret := merge.Terminator()
	if ret.Op != il.OpReturn {
		t.Fatalf("merge terminator = %s, want RETURN", ret.Op)
	}
	if !ret.Args[0].IsRegister() || ret.Args[0].Register.ID != phis[0].Result.ID {
		t.Errorf("RETURN operand = %v, want phi result %v", ret.Args[0], *phis[0].Result)
	}

	if result.Rename.BlocksProcessed != 4 {
		t.Errorf("BlocksProcessed = %d, want 4", result.Rename.BlocksProcessed)
	}
	if result.Rename.VariablesRenamed != 1 {
		t.Errorf("VariablesRenamed = %d, want 1", result.Rename.VariablesRenamed)
	}
}

func TestTransformLeavesGlobalsAlone(t *testing.T) {
	fn := il.NewFunction("f", nil, types.Void)
	entry := fn.Entry()
	r := fn.Factory.NewRegister(types.Byte, "r")
	entry.Append(il.NewLoadVar(0, r, "SCREEN_COLOR"))
	entry.Append(il.NewReturnVoid(1))

	if _, err := Transform(fn, TransformOptions{}); err != nil {
		t.Fatalf("Transform: %v", err)
	}

	found := false
	for _, in := range fn.Entry().Instructions {
		if in.Op == il.OpLoadVar && in.VarName == "SCREEN_COLOR" {
			found = true
		}
	}
	if !found {
		t.Error("LOAD_VAR of a non-local name was removed; globals must survive SSA construction")
	}
}

func TestRenameWarnsOnUseBeforeDefinition(t *testing.T) {
	fn := il.NewFunction("f", nil, types.Void)
	fn.DeclareLocal("y", types.Byte, il.StorageRAM)
	entry := fn.Entry()
	r := fn.Factory.NewRegister(types.Byte, "r")
	entry.Append(il.NewLoadVar(0, r, "y"))
	entry.Append(il.NewReturnVoid(1))

	tree := BuildDominatorTree(fn)
	df := BuildDominanceFrontier(fn, tree)
	placement := PlacePhis(fn, df)
	result := Rename(fn, tree, placement)

	if len(result.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want exactly one", result.Warnings)
	}
}

func TestVerifyCatchesDuplicateRegister(t *testing.T) {
	fn := il.NewFunction("f", nil, types.Void)
	r := il.Register{ID: 0, Type: types.Byte}
	entry := fn.Entry()
	entry.Instructions = append(entry.Instructions,
		il.NewConst(0, r, il.Constant{Value: 1, Type: types.Byte}),
		il.NewConst(1, r, il.Constant{Value: 2, Type: types.Byte}),
		il.NewReturnVoid(2),
	)

	if err := Verify(fn); err == nil {
		t.Fatal("expected verification error for duplicate register definition")
	}
}
