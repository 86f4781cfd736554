package il

import (
	"sort"

	"github.com/blendsdk/blend65-sub005/pkg/types"
)

// Param is one declared function parameter, with its pre-allocated register.
type Param struct {
	Name     string
	Type     types.Type
	Register Register
}

// LocalInfo records the declared type and storage class of a local variable.
type LocalInfo struct {
	Type    types.Type
	Storage StorageClass
}

// Function owns a single-entry, multi-exit CFG of basic blocks (entry id
// is always 0), its own value factory, and its local-variable table (§3.4).
type Function struct {
	Name       string
	Params     []Param
	ReturnType types.Type

	Blocks  map[uint32]*BasicBlock
	EntryID uint32

	Factory *ValueFactory
	Locals  map[string]LocalInfo
}

// NewFunction creates an empty function with a fresh entry block (id 0).
func NewFunction(name string, params []Param, returnType types.Type) *Function {
	f := &Function{
		Name:       name,
		Params:     append([]Param(nil), params...),
		ReturnType: returnType,
		Blocks:     make(map[uint32]*BasicBlock),
		Factory:    NewValueFactory(),
		Locals:     make(map[string]LocalInfo),
	}
	entryID := f.Factory.NewBlockID()
	f.EntryID = entryID
	f.Blocks[entryID] = NewBasicBlock(entryID, Label{Name: name + "_entry", BlockID: entryID})
	return f
}

// NewBlock allocates and registers a fresh basic block.
func (f *Function) NewBlock(name string) *BasicBlock {
	id := f.Factory.NewBlockID()
	b := NewBasicBlock(id, Label{Name: name, BlockID: id})
	f.Blocks[id] = b
	return b
}

// DeclareLocal records a local variable's type and storage class.
func (f *Function) DeclareLocal(name string, t types.Type, storage StorageClass) {
	f.Locals[name] = LocalInfo{Type: t, Storage: storage}
}

// Entry returns the function's entry block.
func (f *Function) Entry() *BasicBlock { return f.Blocks[f.EntryID] }

// BlockIDs returns all block ids in ascending order, the deterministic
// iteration order required by §5.
func (f *Function) BlockIDs() []uint32 {
	ids := make([]uint32, 0, len(f.Blocks))
	for id := range f.Blocks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Successors returns the given block's successor blocks, ascending by id.
func (f *Function) Successors(blockID uint32) []*BasicBlock {
	b := f.Blocks[blockID]
	if b == nil {
		return nil
	}
	ids := append([]uint32(nil), b.Succs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*BasicBlock, len(ids))
	for i, id := range ids {
		out[i] = f.Blocks[id]
	}
	return out
}

// Rehydrate recomputes the value factory's register/block counters from the
// function's current blocks and instructions. A function decoded from
// storage (see pkg/ilio) arrives with a zeroed factory, since ValueFactory's
// counters are unexported, process-local bookkeeping rather than
// serializable state; without this, a later pass minting a fresh register
// or block (the SSA renamer's phi placement, most notably) would hand out
// an id that collides with one already present in the decoded body.
func (f *Function) Rehydrate() {
	var maxReg, maxBlock uint32
	for id, b := range f.Blocks {
		if id > maxBlock {
			maxBlock = id
		}
		for i := range b.Instructions {
			if r := b.Instructions[i].Result; r != nil && r.ID >= maxReg {
				maxReg = r.ID + 1
			}
		}
	}
	for _, p := range f.Params {
		if p.Register.ID >= maxReg {
			maxReg = p.Register.ID + 1
		}
	}
	f.Factory.SetCounters(maxReg, maxBlock+1)
}

// Predecessors returns the given block's predecessor blocks, ascending by id.
func (f *Function) Predecessors(blockID uint32) []*BasicBlock {
	b := f.Blocks[blockID]
	if b == nil {
		return nil
	}
	ids := append([]uint32(nil), b.Preds...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*BasicBlock, len(ids))
	for i, id := range ids {
		out[i] = f.Blocks[id]
	}
	return out
}
