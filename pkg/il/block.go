package il

import "fmt"

// BasicBlock owns a label, an ordered instruction list terminated by a
// control instruction, and the ids of its CFG neighbors (§3.4).
type BasicBlock struct {
	ID           uint32
	Label        Label
	Instructions []Instruction
	Preds        []uint32
	Succs        []uint32
}

// NewBasicBlock creates an empty block with the given id and label.
func NewBasicBlock(id uint32, label Label) *BasicBlock {
	return &BasicBlock{ID: id, Label: label}
}

// Append adds an instruction to the end of the block.
//
// It panics if a terminator already closes the block — §3.3's invariant
// that at most one terminator exists per block, and it is always last.
func (b *BasicBlock) Append(in Instruction) {
	if b.Terminator() != nil {
		panic(fmt.Sprintf("il: block %d already terminated, cannot append %s", b.ID, in.Op))
	}
	b.Instructions = append(b.Instructions, in)
}

// Terminator returns the block's terminating instruction, or nil if the
// block is not yet closed.
func (b *BasicBlock) Terminator() *Instruction {
	if len(b.Instructions) == 0 {
		return nil
	}
	last := &b.Instructions[len(b.Instructions)-1]
	if last.IsTerminator() {
		return last
	}
	return nil
}

// Phis returns the leading PHI instructions of the block, in order.
func (b *BasicBlock) Phis() []*Instruction {
	var out []*Instruction
	for i := range b.Instructions {
		if b.Instructions[i].Op != OpPhi {
			break
		}
		out = append(out, &b.Instructions[i])
	}
	return out
}

// PrependPhi inserts a PHI instruction at the front of the block, after any
// existing phis (so phis remain contiguous at the head of the block).
func (b *BasicBlock) PrependPhi(phi Instruction) {
	n := len(b.Phis())
	b.Instructions = append(b.Instructions, Instruction{})
	copy(b.Instructions[n+1:], b.Instructions[n:])
	b.Instructions[n] = phi
}

// hasSucc reports whether id is already recorded as a successor.
func (b *BasicBlock) hasSucc(id uint32) bool {
	for _, s := range b.Succs {
		if s == id {
			return true
		}
	}
	return false
}

func (b *BasicBlock) hasPred(id uint32) bool {
	for _, p := range b.Preds {
		if p == id {
			return true
		}
	}
	return false
}

// Link records a CFG edge A -> B: B is inserted into A's successors and A
// into B's predecessors (§3.4).
func Link(a, b *BasicBlock) {
	if !a.hasSucc(b.ID) {
		a.Succs = append(a.Succs, b.ID)
	}
	if !b.hasPred(a.ID) {
		b.Preds = append(b.Preds, a.ID)
	}
}
