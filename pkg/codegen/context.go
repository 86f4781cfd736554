package codegen

import (
	"fmt"

	"github.com/blendsdk/blend65-sub005/pkg/asmwriter"
	"github.com/blendsdk/blend65-sub005/pkg/il"
	"github.com/blendsdk/blend65-sub005/pkg/target"
)

// pendingCompare remembers a comparison opcode's operands without emitting
// code for it yet, so a BRANCH consuming it directly can fuse into a single
// compare-and-branch sequence (§4.10) instead of materializing a 0/1 byte
// first. If the comparison's result is consumed any other way, it is
// materialized lazily at that point.
type pendingCompare struct {
	op  il.Opcode
	lhs il.Value
	rhs il.Value
}

// Context is the mutable state threaded through one Generate call: the
// label generator, global allocator, value tracker, assembly writer,
// source mapper, and running counters. Generate resets it at the start of
// every invocation per §4.11's re-entrancy requirement.
type Context struct {
	Module  *il.Module
	Target  target.Descriptor
	Options Options

	Labels   *LabelGenerator
	Globals  *GlobalAllocator
	Tracker  *Tracker
	Writer   *asmwriter.Writer
	SrcMap   *SourceMapper
	Warnings []string

	CodeSize int
	pc       uint16

	pending     map[uint32]pendingCompare
	blockLabels map[uint32]string
	phiSlots    map[uint32]uint16
	trampolines []func()

	// callArgSlots holds the zero-page addresses reserved for the 4th and
	// later call arguments (the first three travel in A/X/Y, §4.10). They
	// are allocated once, lazily, and shared by every call site, since
	// calls never nest their argument-loading sequences.
	callArgSlots []uint16
}

// callArgSlot returns the zero-page address for extra call argument index
// (0-based, counting from the 4th argument), allocating one on first use.
func (c *Context) callArgSlot(index int) uint16 {
	for len(c.callArgSlots) <= index {
		addr, ok := c.Globals.AllocateZeroPage(fmt.Sprintf(".callarg%d", len(c.callArgSlots)), 1)
		if !ok {
			c.warn("call argument %d: zero page exhausted, value will be incorrect", len(c.callArgSlots))
		}
		c.callArgSlots = append(c.callArgSlots, addr)
	}
	return c.callArgSlots[index]
}

func newContext(m *il.Module, opts Options, desc target.Descriptor) *Context {
	c := &Context{
		Module:  m,
		Target:  desc,
		Options: opts,
		Labels:  NewLabelGenerator(),
		Writer:  asmwriter.New(),
		SrcMap:  NewSourceMapper(),
	}
	c.Tracker = NewTracker(&c.Warnings)
	return c
}

func (c *Context) warn(format string, args ...interface{}) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// emit appends one instruction, advances the simulated program counter and
// code-size counter by size, and records a source-map entry at the
// instruction's starting address.
func (c *Context) emit(mnemonic, operand string, size int, comment string, span il.SourceSpan) {
	c.SrcMap.Record(c.pc, span)
	c.Writer.Instruction(mnemonic, operand, size, comment)
	c.pc += uint16(size)
	c.CodeSize += size
}

// resetFunctionState clears per-function bookkeeping (block labels,
// pending comparisons, tracked values) ahead of lowering a new function.
func (c *Context) resetFunctionState() {
	c.pending = make(map[uint32]pendingCompare)
	c.blockLabels = make(map[uint32]string)
	c.phiSlots = make(map[uint32]uint16)
	c.trampolines = nil
	c.Tracker = NewTracker(&c.Warnings)
}

// blockLabel returns the assembly label for a block id within the function
// currently being lowered, allocating one on first use so forward
// references (a branch to a not-yet-lowered block) resolve correctly.
func (c *Context) blockLabel(fn *il.Function, id uint32) string {
	if lbl, ok := c.blockLabels[id]; ok {
		return lbl
	}
	name := fn.Blocks[id].Label.Name
	lbl := c.Labels.Block(name)
	c.blockLabels[id] = lbl
	return lbl
}

// ensureMaterialized forces a pending comparison's boolean result into a
// real register location, if v refers to one. It is called by every
// generic operand-consumption path so a comparison result used outside a
// direct BRANCH still produces a correct 0/1 value.
func (c *Context) ensureMaterialized(v il.Value) {
	if !v.IsRegister() {
		return
	}
	pc, ok := c.pending[v.Register.ID]
	if !ok {
		return
	}
	delete(c.pending, v.Register.ID)

	trueLbl := c.Labels.Temp("bool_true")
	falseLbl := c.Labels.Temp("bool_false")
	doneLbl := c.Labels.Temp("bool_done")

	c.emitCompareBranch(pc.op, pc.lhs, pc.rhs, trueLbl, falseLbl)
	c.Writer.Label(falseLbl)
	c.emit("LDA", "#$00", 2, "", il.SourceSpan{})
	c.emit("JMP", doneLbl, 3, "", il.SourceSpan{})
	c.Writer.Label(trueLbl)
	c.emit("LDA", "#$01", 2, "", il.SourceSpan{})
	c.Writer.Label(doneLbl)
	c.Tracker.Track(v.Register.ID, TrackedValue{Kind: LocAccumulator})
}

// loadToA loads any IL value (constant, register, or label) into A.
func (c *Context) loadToA(v il.Value) {
	c.ensureMaterialized(v)
	switch v.Kind {
	case il.ValueConstant:
		c.emit("LDA", fmt.Sprintf("#$%02X", v.Constant.Value), 2, "", il.SourceSpan{})
	case il.ValueLabel:
		c.emit("LDA", v.Label.Name, 3, "", il.SourceSpan{})
	default:
		c.loadRegisterToA(v.Register.ID)
	}
}

// loadRegisterToA drives the Tracker, translating its Writer-appending
// calls into Context bookkeeping (pc/code-size advance per instruction).
func (c *Context) loadRegisterToA(id uint32) {
	before := len(c.Writer.Lines)
	c.Tracker.LoadToA(c.Writer, id)
	c.accountFor(before)
}

func (c *Context) loadToX(v il.Value) {
	c.ensureMaterialized(v)
	if v.Kind == il.ValueRegister {
		before := len(c.Writer.Lines)
		c.Tracker.LoadToX(c.Writer, v.Register.ID)
		c.accountFor(before)
		return
	}
	c.loadToA(v)
	c.emit("TAX", "", 1, "", il.SourceSpan{})
}

func (c *Context) loadToY(v il.Value) {
	c.ensureMaterialized(v)
	if v.Kind == il.ValueRegister {
		before := len(c.Writer.Lines)
		c.Tracker.LoadToY(c.Writer, v.Register.ID)
		c.accountFor(before)
		return
	}
	c.loadToA(v)
	c.emit("TAY", "", 1, "", il.SourceSpan{})
}

// formatOperand renders v as an in-place operand text, sized for code-size
// accounting purposes by the caller.
func (c *Context) formatOperand(v il.Value) (string, int) {
	c.ensureMaterialized(v)
	switch v.Kind {
	case il.ValueConstant:
		return fmt.Sprintf("#$%02X", v.Constant.Value), 2
	case il.ValueLabel:
		return v.Label.Name, 3
	default:
		text, ok := c.Tracker.FormatOperand(v.Register.ID)
		if !ok {
			return text, 2
		}
		if len(text) > 0 && text[0] == '#' {
			return text, 2
		}
		if len(text) == 3 { // "$xx"
			return text, 2
		}
		return text, 3
	}
}

// formatAddressOperand is formatOperand's counterpart for instructions that
// read or write a memory-mapped location rather than an arithmetic operand:
// a constant is an absolute (or zero-page, if it fits) address, never an
// immediate, unlike formatOperand's treatment of the same constant.
func (c *Context) formatAddressOperand(v il.Value) (string, int) {
	c.ensureMaterialized(v)
	switch v.Kind {
	case il.ValueConstant:
		addr := uint16(v.Constant.Value)
		if addr <= 0xFF {
			return fmt.Sprintf("$%02X", addr), 2
		}
		return fmt.Sprintf("$%04X", addr), 3
	case il.ValueLabel:
		return v.Label.Name, 3
	default:
		text, ok := c.Tracker.FormatOperand(v.Register.ID)
		if !ok {
			return text, 2
		}
		if len(text) == 3 { // "$xx"
			return text, 2
		}
		return text, 3
	}
}

// accountFor advances pc/CodeSize for instructions the Tracker appended
// directly to the Writer (bypassing Context.emit), using each line's
// declared SizeBytes.
func (c *Context) accountFor(fromIndex int) {
	for _, l := range c.Writer.Lines[fromIndex:] {
		if l.Kind == asmwriter.KindInstruction {
			c.pc += uint16(l.SizeBytes)
			c.CodeSize += l.SizeBytes
		}
	}
}

// emitCompareBranch emits an unsigned byte comparison between lhs and rhs
// and a two-way branch to trueLabel/falseLabel (§4.10).
func (c *Context) emitCompareBranch(op il.Opcode, lhs, rhs il.Value, trueLabel, falseLabel string) {
	c.loadToA(lhs)
	operand, size := c.formatOperand(rhs)
	c.emit("CMP", operand, size, "", il.SourceSpan{})

	switch op {
	case il.OpEq:
		c.emit("BEQ", trueLabel, 2, "", il.SourceSpan{})
		c.emit("JMP", falseLabel, 3, "", il.SourceSpan{})
	case il.OpNe:
		c.emit("BNE", trueLabel, 2, "", il.SourceSpan{})
		c.emit("JMP", falseLabel, 3, "", il.SourceSpan{})
	case il.OpLt:
		c.emit("BCC", trueLabel, 2, "", il.SourceSpan{})
		c.emit("JMP", falseLabel, 3, "", il.SourceSpan{})
	case il.OpGe:
		c.emit("BCS", trueLabel, 2, "", il.SourceSpan{})
		c.emit("JMP", falseLabel, 3, "", il.SourceSpan{})
	case il.OpGt:
		c.emit("BEQ", falseLabel, 2, "", il.SourceSpan{})
		c.emit("BCS", trueLabel, 2, "", il.SourceSpan{})
		c.emit("JMP", falseLabel, 3, "", il.SourceSpan{})
	case il.OpLe:
		c.emit("BEQ", trueLabel, 2, "", il.SourceSpan{})
		c.emit("BCC", trueLabel, 2, "", il.SourceSpan{})
		c.emit("JMP", falseLabel, 3, "", il.SourceSpan{})
	}
}
