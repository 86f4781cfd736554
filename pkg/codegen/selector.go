package codegen

import (
	"fmt"

	"github.com/blendsdk/blend65-sub005/pkg/il"
)

// comparisonOps are deferred rather than lowered immediately, so a BRANCH
// that consumes one directly can fuse into a single compare-and-branch
// sequence instead of materializing an intermediate boolean byte.
var comparisonOps = map[il.Opcode]bool{
	il.OpEq: true, il.OpNe: true, il.OpLt: true, il.OpLe: true, il.OpGt: true, il.OpGe: true,
}

// SelectInstruction dispatches on in.Op and emits the 6502 translation for
// one IL instruction, per the opcode handler contract of §4.10. fn is the
// function currently being lowered; blockID is the block in is part of,
// needed by JUMP/BRANCH to resolve phi edge copies.
func (c *Context) SelectInstruction(fn *il.Function, blockID uint32, in il.Instruction) {
	span := in.Meta.Source

	if comparisonOps[in.Op] {
		c.pending[in.Result.ID] = pendingCompare{op: in.Op, lhs: in.Args[0], rhs: in.Args[1]}
		return
	}

	switch in.Op {
	case il.OpConst:
		c.ensureMaterialized(in.Args[0])
		if in.Result.Type.SizeInBytes() > 1 {
			c.warn("v%d: word CONST truncated to low byte by tier-1 selector", in.Result.ID)
		}
		c.emit("LDA", fmt.Sprintf("#$%02X", in.Args[0].Constant.Value), 2, "", span)
		c.Tracker.Track(in.Result.ID, TrackedValue{Kind: LocAccumulator})

	case il.OpLoadVar:
		c.selectLoadVar(in, span)

	case il.OpStoreVar:
		c.selectStoreVar(in, span)

	case il.OpHardwareRead:
		c.selectHardwareRead(in, span)

	case il.OpHardwareWrite:
		c.selectHardwareWrite(in, span)

	case il.OpLoadArray:
		c.selectLoadArray(in, span)

	case il.OpStoreArray:
		c.selectStoreArray(in, span)

	case il.OpLoadAddr:
		c.selectLoadAddr(in, span)

	case il.OpStoreAddr:
		c.selectStoreAddr(in, span)

	case il.OpAdd, il.OpSub, il.OpAnd, il.OpOr, il.OpXor:
		c.selectBinaryALU(in, span)

	case il.OpMul, il.OpDiv, il.OpMod:
		c.selectLibraryBinary(in, span)

	case il.OpShl, il.OpShr, il.OpNot, il.OpNeg:
		c.selectUnary(in, span)

	case il.OpJump:
		target := c.edgeTarget(fn, blockID, in.Targets[0].BlockID)
		c.emit("JMP", target, 3, "", span)
		c.flushTrampolines()

	case il.OpBranch:
		c.selectBranch(fn, blockID, in, span)
		c.flushTrampolines()

	case il.OpReturn:
		c.loadToA(in.Args[0])
		c.emit("RTS", "", 1, "", span)

	case il.OpReturnVoid:
		c.emit("RTS", "", 1, "", span)

	case il.OpCall:
		c.selectCall(in.Callee, in.Result, in.Args, span)

	case il.OpIntrinsicCall:
		c.selectCall(in.Intrinsic, in.Result, in.Args, span)

	case il.OpPhi:
		// No code is emitted here: every predecessor edge already writes
		// this phi's value into its zero-page slot (see edgeTarget). This
		// instruction just establishes where later reads of the result
		// register should look.
		addr := c.phiSlot(in.Result)
		c.Tracker.Track(in.Result.ID, TrackedValue{Kind: LocZeroPage, Address: addr})

	default:
		c.warn("no tier-1 lowering for opcode %s", in.Op)
	}
}

func (c *Context) selectLoadVar(in il.Instruction, span il.SourceSpan) {
	addr, ok := c.Globals.Lookup(in.VarName)
	if !ok {
		c.warn("LOAD_VAR: global %q has no allocated address", in.VarName)
		c.emit("LDA", "#$00", 2, "unresolved global", span)
		c.Tracker.Track(in.Result.ID, TrackedValue{Kind: LocAccumulator})
		return
	}
	if addr.IsZeroPage {
		c.emit("LDA", fmt.Sprintf("$%02X", addr.Address), 2, in.VarName, span)
	} else {
		c.emit("LDA", fmt.Sprintf("$%04X", addr.Address), 3, in.VarName, span)
	}
	c.Tracker.Track(in.Result.ID, TrackedValue{Kind: LocAccumulator})
}

func (c *Context) selectStoreVar(in il.Instruction, span il.SourceSpan) {
	addr, ok := c.Globals.Lookup(in.VarName)
	if !ok {
		c.warn("STORE_VAR: global %q has no allocated address", in.VarName)
		return
	}
	c.loadToA(in.Args[0])
	if addr.IsZeroPage {
		c.emit("STA", fmt.Sprintf("$%02X", addr.Address), 2, in.VarName, span)
	} else {
		c.emit("STA", fmt.Sprintf("$%04X", addr.Address), 3, in.VarName, span)
	}
}

func (c *Context) selectHardwareRead(in il.Instruction, span il.SourceSpan) {
	operand, size := c.formatAddressOperand(in.Args[0])
	c.emit("LDA", operand, size, "hardware read", span)
	c.Tracker.Track(in.Result.ID, TrackedValue{Kind: LocAccumulator})
}

func (c *Context) selectHardwareWrite(in il.Instruction, span il.SourceSpan) {
	c.loadToA(in.Args[1])
	operand, size := c.formatAddressOperand(in.Args[0])
	c.emit("STA", operand, size, "hardware write", span)
}

func (c *Context) selectLoadArray(in il.Instruction, span il.SourceSpan) {
	addr, ok := c.Globals.Lookup(in.VarName)
	if !ok {
		c.warn("LOAD_ARRAY: array %q has no allocated address", in.VarName)
		return
	}
	c.loadToX(in.Args[0])
	c.emit("LDA", fmt.Sprintf("$%04X,X", addr.Address), 3, in.VarName+"[x]", span)
	c.Tracker.Track(in.Result.ID, TrackedValue{Kind: LocAccumulator})
}

func (c *Context) selectStoreArray(in il.Instruction, span il.SourceSpan) {
	addr, ok := c.Globals.Lookup(in.VarName)
	if !ok {
		c.warn("STORE_ARRAY: array %q has no allocated address", in.VarName)
		return
	}
	c.loadToX(in.Args[0])
	c.loadToA(in.Args[1])
	c.emit("STA", fmt.Sprintf("$%04X,X", addr.Address), 3, in.VarName+"[x]", span)
}

func (c *Context) selectLoadAddr(in il.Instruction, span il.SourceSpan) {
	if in.Args[0].Kind != il.ValueConstant {
		c.warn("LOAD_ADDR: only constant addresses are supported by the tier-1 selector")
		c.emit("LDA", "#$00", 2, "unsupported address mode", span)
		c.Tracker.Track(in.Result.ID, TrackedValue{Kind: LocAccumulator})
		return
	}
	addr := uint16(in.Args[0].Constant.Value)
	c.emit("LDA", fmt.Sprintf("$%04X", addr), 3, "", span)
	c.Tracker.Track(in.Result.ID, TrackedValue{Kind: LocAccumulator})
}

func (c *Context) selectStoreAddr(in il.Instruction, span il.SourceSpan) {
	if in.Args[0].Kind != il.ValueConstant {
		c.warn("STORE_ADDR: only constant addresses are supported by the tier-1 selector")
		return
	}
	addr := uint16(in.Args[0].Constant.Value)
	c.loadToA(in.Args[1])
	c.emit("STA", fmt.Sprintf("$%04X", addr), 3, "", span)
}

// selectBinaryALU lowers ADD/SUB/AND/OR/XOR: load the left operand to A,
// apply carry-flag discipline for ADD/SUB, then the matching ALU op
// against the right operand's in-place operand text.
func (c *Context) selectBinaryALU(in il.Instruction, span il.SourceSpan) {
	c.loadToA(in.Args[0])
	operand, size := c.formatOperand(in.Args[1])

	switch in.Op {
	case il.OpAdd:
		c.emit("CLC", "", 1, "", il.SourceSpan{})
		c.emit("ADC", operand, size, "", span)
	case il.OpSub:
		c.emit("SEC", "", 1, "", il.SourceSpan{})
		c.emit("SBC", operand, size, "", span)
	case il.OpAnd:
		c.emit("AND", operand, size, "", span)
	case il.OpOr:
		c.emit("ORA", operand, size, "", span)
	case il.OpXor:
		c.emit("EOR", operand, size, "", span)
	}
	c.Tracker.Track(in.Result.ID, TrackedValue{Kind: LocAccumulator})
}

// selectUnary lowers SHL/SHR/NOT/NEG, all of which operate on A in place.
func (c *Context) selectUnary(in il.Instruction, span il.SourceSpan) {
	c.loadToA(in.Args[0])
	switch in.Op {
	case il.OpShl:
		c.emit("ASL", "A", 1, "", span)
	case il.OpShr:
		c.emit("LSR", "A", 1, "", span)
	case il.OpNot:
		c.emit("EOR", "#$FF", 2, "", span)
	case il.OpNeg:
		c.emit("EOR", "#$FF", 2, "", il.SourceSpan{})
		c.emit("CLC", "", 1, "", il.SourceSpan{})
		c.emit("ADC", "#$01", 2, "", span)
	}
	c.Tracker.Track(in.Result.ID, TrackedValue{Kind: LocAccumulator})
}

// selectLibraryBinary lowers MUL/DIV/MOD as calls into fixed runtime
// helper routines, per §4.10's "library-call expansion" fallback for
// opcodes the 6502 ALU cannot perform directly.
func (c *Context) selectLibraryBinary(in il.Instruction, span il.SourceSpan) {
	helper := map[il.Opcode]string{il.OpMul: "_rt_mul8", il.OpDiv: "_rt_div8", il.OpMod: "_rt_mod8"}[in.Op]
	c.loadToA(in.Args[0])
	c.loadToX(in.Args[1])
	c.emit("JSR", helper, 3, "", span)
	c.Tracker.InvalidateRegisters()
	c.Tracker.Track(in.Result.ID, TrackedValue{Kind: LocAccumulator})
}

func (c *Context) selectBranch(fn *il.Function, blockID uint32, in il.Instruction, span il.SourceSpan) {
	trueLabel := c.edgeTarget(fn, blockID, in.Targets[0].BlockID)
	falseLabel := c.edgeTarget(fn, blockID, in.Targets[1].BlockID)
	cond := in.Args[0]

	if cond.IsRegister() {
		if pc, ok := c.pending[cond.Register.ID]; ok {
			delete(c.pending, cond.Register.ID)
			c.emitCompareBranch(pc.op, pc.lhs, pc.rhs, trueLabel, falseLabel)
			return
		}
	}

	c.loadToA(cond)
	c.emit("CMP", "#$00", 2, "", span)
	c.emit("BNE", trueLabel, 2, "", il.SourceSpan{})
	c.emit("JMP", falseLabel, 3, "", il.SourceSpan{})
}

// selectCall lowers CALL/INTRINSIC_CALL per the reference calling
// convention (§4.10): the first three byte/word parameters travel in
// A/X/Y, and any further parameters go through shared zero-page slots,
// loaded in argument order ahead of the A/X/Y parameters so A is free for
// the final load.
func (c *Context) selectCall(callee string, result *il.Register, args []il.Value, span il.SourceSpan) {
	for i := 3; i < len(args); i++ {
		c.loadToA(args[i])
		c.emit("STA", fmt.Sprintf("$%02X", c.callArgSlot(i-3)), 2, fmt.Sprintf("arg%d", i), il.SourceSpan{})
	}
	if len(args) > 0 {
		c.loadToA(args[0])
	}
	if len(args) > 1 {
		c.loadToX(args[1])
	}
	if len(args) > 2 {
		c.loadToY(args[2])
	}

	label, ok := c.Labels.LookupByOriginal(callee, CategoryFunction)
	asm := "_" + Sanitize(callee)
	if ok {
		asm = label.Assembly
	}
	c.emit("JSR", asm, 3, "", span)
	c.Tracker.InvalidateRegisters()
	if result != nil {
		c.Tracker.Track(result.ID, TrackedValue{Kind: LocAccumulator})
	}
}
