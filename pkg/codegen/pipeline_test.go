package codegen

import (
	"strings"
	"testing"

	"github.com/blendsdk/blend65-sub005/pkg/il"
	"github.com/blendsdk/blend65-sub005/pkg/ssa"
	"github.com/blendsdk/blend65-sub005/pkg/target"
	"github.com/blendsdk/blend65-sub005/pkg/types"
)

func cgOptions(t *testing.T, target_ target.ID) Options {
	t.Helper()
	return Options{Target: target_}
}

func TestGenerateEmptyModuleEmitsBasicStub(t *testing.T) {
	m := il.NewModule("empty")
	opts := cgOptions(t, target.C64)
	opts.LoadAddress = 0x0801
	opts.SysLine = 10

	result, err := Generate(m, opts, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Assembly, "BASIC stub") {
		t.Error("expected a BASIC stub section divider in the assembly output")
	}
	if !strings.Contains(result.Assembly, "* = $C000") {
		t.Error("expected code to resume at the C64 code-start address after the stub")
	}
}

func TestGenerateMainFunctionEmitsHardwareWrite(t *testing.T) {
	fn := il.NewFunction("main", nil, types.Void)
	r := fn.Factory.NewRegister(types.Byte, "")
	entry := fn.Entry()
	entry.Append(il.NewConst(0, r, il.Constant{Value: 2, Type: types.Byte}))
	entry.Append(il.NewHardwareWrite(1, il.ConstantValue(il.Constant{Value: 0xD020, Type: types.Word}), il.RegisterValue(r)))
	entry.Append(il.NewReturnVoid(2))

	m := il.NewModule("border")
	m.AddFunction(fn)

	opts := cgOptions(t, target.C64)
	opts.LoadAddress = 0xC000

	result, err := Generate(m, opts, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Assembly, "_main:") {
		t.Error("expected a _main label in the output")
	}
	if !strings.Contains(result.Assembly, "STA") || !strings.Contains(result.Assembly, "D020") {
		t.Errorf("expected a store to $D020, got:\n%s", result.Assembly)
	}
	if result.Stats.FunctionCount != 1 {
		t.Errorf("FunctionCount = %d, want 1", result.Stats.FunctionCount)
	}
}

func TestGenerateWarnsWithoutMainFunction(t *testing.T) {
	m := il.NewModule("no_main")
	opts := cgOptions(t, target.C64)
	opts.LoadAddress = 0xC000

	result, err := Generate(m, opts, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Assembly, "No main function") {
		t.Error("expected a fallback comment when the module has no main function")
	}
}

func TestGenerateWarnsForUnimplementedTarget(t *testing.T) {
	m := il.NewModule("empty")
	opts := cgOptions(t, target.X16)
	opts.LoadAddress = 0x0801

	result, err := Generate(m, opts, nil)
	if err != nil {
		t.Fatalf("unexpected error for an accepted-but-unimplemented target: %v", err)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "not yet implemented") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an unimplemented-target warning, got %v", result.Warnings)
	}
}

func TestGenerateSucceedsForC128(t *testing.T) {
	m := il.NewModule("empty")
	opts := cgOptions(t, target.C128)
	opts.LoadAddress = 0x1C01

	result, err := Generate(m, opts, nil)
	if err != nil {
		t.Fatalf("unexpected error for c128: %v", err)
	}
	for _, w := range result.Warnings {
		if strings.Contains(w, "not yet implemented") {
			t.Errorf("c128 should not warn as unimplemented, got %v", result.Warnings)
		}
	}
	if !strings.Contains(result.Assembly, "* = $4000") {
		t.Error("expected code to resume at the c128 code-start address after the stub")
	}
}

func TestGeneratePRGFormatUsesInvoker(t *testing.T) {
	m := il.NewModule("empty")
	opts := cgOptions(t, target.C64)
	opts.LoadAddress = 0xC000
	opts.Format = FormatPRG

	fake := &FakeAssembler{Output: []byte{0x00, 0xC0}}
	result, err := Generate(m, opts, fake)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Binary) != 2 {
		t.Errorf("Binary = %v, want 2-byte fake output", result.Binary)
	}
}

func TestGeneratePRGFormatWarnsWithoutInvoker(t *testing.T) {
	m := il.NewModule("empty")
	opts := cgOptions(t, target.C64)
	opts.LoadAddress = 0xC000
	opts.Format = FormatPRG

	result, err := Generate(m, opts, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Binary != nil {
		t.Error("expected no binary without an assembler invoker")
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "invoker") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning about the missing invoker, got %v", result.Warnings)
	}
}

// buildDiamondFunction mirrors the SSA package's diamond-CFG fixture: entry
// branches on a condition register into two arms that each store a
// different constant into a local, which a merge block then returns.
func buildDiamondFunction(t *testing.T) *il.Function {
	t.Helper()
	fn := il.NewFunction("pick", nil, types.Byte)
	fn.DeclareLocal("x", types.Byte, il.StorageRAM)

	cond := fn.Factory.NewRegister(types.Byte, "cond")
	entry := fn.Entry()
	entry.Append(il.NewConst(0, cond, il.Constant{Value: 1, Type: types.Byte}))

	thenBlock := fn.NewBlock("then")
	elseBlock := fn.NewBlock("else")
	mergeBlock := fn.NewBlock("merge")

	entry.Append(il.NewBranch(1, il.RegisterValue(cond), thenBlock.Label, elseBlock.Label))
	il.Link(entry, thenBlock)
	il.Link(entry, elseBlock)

	thenBlock.Append(il.NewStoreVar(2, "x", il.ConstantValue(il.Constant{Value: 10, Type: types.Byte})))
	thenBlock.Append(il.NewJump(3, mergeBlock.Label))
	il.Link(thenBlock, mergeBlock)

	elseBlock.Append(il.NewStoreVar(4, "x", il.ConstantValue(il.Constant{Value: 20, Type: types.Byte})))
	elseBlock.Append(il.NewJump(5, mergeBlock.Label))
	il.Link(elseBlock, mergeBlock)

	result := fn.Factory.NewRegister(types.Byte, "")
	mergeBlock.Append(il.NewLoadVar(6, result, "x"))
	mergeBlock.Append(il.NewReturn(7, il.RegisterValue(result)))

	return fn
}

func TestGenerateLowersPhiThroughEdgeTrampoline(t *testing.T) {
	fn := buildDiamondFunction(t)
	if _, err := ssa.Transform(fn, ssa.TransformOptions{}); err != nil {
		t.Fatalf("ssa.Transform failed: %v", err)
	}

	m := il.NewModule("pick")
	m.AddFunction(fn)

	opts := cgOptions(t, target.C64)
	opts.LoadAddress = 0xC000

	result, err := Generate(m, opts, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Assembly, ".edge_") {
		t.Errorf("expected at least one edge trampoline in the output, got:\n%s", result.Assembly)
	}
	// The phi result gets the first free zero-page byte ($0A on the C64),
	// and each trampoline stores its operand there.
	if !strings.Contains(result.Assembly, "STA $0A") {
		t.Errorf("expected a store into the phi zero-page slot $0A, got:\n%s", result.Assembly)
	}
}
