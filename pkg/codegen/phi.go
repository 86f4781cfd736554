package codegen

import (
	"fmt"

	"github.com/blendsdk/blend65-sub005/pkg/il"
)

// phiSlot returns the zero-page address backing a phi result register,
// allocating one on first use. A phi's value lives in a dedicated
// zero-page byte rather than a CPU register, since which predecessor ran
// is only known at runtime — every predecessor writes into the same slot
// before control reaches the merge block.
func (c *Context) phiSlot(reg *il.Register) uint16 {
	if addr, ok := c.phiSlots[reg.ID]; ok {
		return addr
	}
	name := fmt.Sprintf(".phi%d", reg.ID)
	addr, ok := c.Globals.AllocateZeroPage(name, 1)
	if !ok {
		c.warn("phi v%d: zero page exhausted, value will be incorrect", reg.ID)
	}
	if reg.Type.SizeInBytes() > 1 {
		c.warn("phi v%d: word-sized phi values are truncated to one byte by the tier-1 selector", reg.ID)
	}
	c.phiSlots[reg.ID] = addr
	return addr
}

type phiCopy struct {
	result *il.Register
	value  il.Value
}

// edgeTarget resolves the label a terminator in block predID should use to
// reach block succID. If succID's phis have no operand from predID, this is
// just the successor's own label. Otherwise it allocates a trampoline label
// and queues a body (flushed by flushTrampolines) that copies each phi
// operand into its slot and then jumps to the real successor.
//
// This is the classic critical-edge-splitting technique: a BRANCH's two
// successors can each need different phi copies, so the copies cannot live
// in the predecessor block ahead of a single conditional jump.
func (c *Context) edgeTarget(fn *il.Function, predID, succID uint32) string {
	succ := fn.Blocks[succID]
	var copies []phiCopy
	for _, phi := range succ.Phis() {
		for _, op := range phi.PhiOperands {
			if op.PredBlockID == predID {
				copies = append(copies, phiCopy{result: phi.Result, value: op.Value})
			}
		}
	}

	succLabel := c.blockLabel(fn, succID)
	if len(copies) == 0 {
		return succLabel
	}

	trampoline := c.Labels.Temp("edge")
	c.trampolines = append(c.trampolines, func() {
		c.Writer.Label(trampoline)
		for _, cp := range copies {
			c.loadToA(cp.value)
			addr := c.phiSlot(cp.result)
			c.emit("STA", fmt.Sprintf("$%02X", addr), 2, "", il.SourceSpan{})
		}
		c.emit("JMP", succLabel, 3, "", il.SourceSpan{})
	})
	return trampoline
}

// flushTrampolines emits every edge trampoline queued since the last flush,
// called once a JUMP or BRANCH's own instructions have been emitted so the
// trampoline bodies appear right after the edge that needs them.
func (c *Context) flushTrampolines() {
	pending := c.trampolines
	c.trampolines = nil
	for _, body := range pending {
		body()
	}
}
