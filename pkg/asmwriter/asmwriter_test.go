package asmwriter

import "testing"
import "strings"

func TestACMEEmitterRendersBasicProgram(t *testing.T) {
	w := New()
	w.Comment("blend65 output")
	w.Divider("Configuration")
	w.Org(0xC000)
	w.Label("_start")
	w.Instruction("LDA", "#$01", 2, "load 1")
	w.Instruction("RTS", "", 1, "")
	w.Byte(0x01, 0x02)
	w.Word(0xC000)
	w.Fill(3, 0x00)
	w.Reserve(4)

	text := ACMEEmitter{}.Emit(w)

	tests := []string{
		"; blend65 output",
		"; ---- Configuration ----",
		"* = $C000",
		"_start:",
		"LDA #$01",
		"; load 1",
		"RTS",
		"!byte $01, $02",
		"!word $C000",
		"!fill 3, $00",
		"* = * + 4",
	}
	for _, want := range tests {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q; got:\n%s", want, text)
		}
	}
}

func TestInstructionWithoutOperandOmitsTrailingSpace(t *testing.T) {
	w := New()
	w.Instruction("RTS", "", 1, "")
	text := ACMEEmitter{}.Emit(w)
	if strings.Contains(text, "RTS ") {
		t.Errorf("expected no trailing space after bare mnemonic, got %q", text)
	}
}
