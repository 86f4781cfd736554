package codegen

import (
	"strings"
	"testing"

	"github.com/blendsdk/blend65-sub005/pkg/asmwriter"
)

func TestLoadToAElidesRedundantLoad(t *testing.T) {
	var warnings []string
	tr := NewTracker(&warnings)
	tr.Track(1, TrackedValue{Kind: LocAccumulator})

	w := asmwriter.New()
	tr.LoadToA(w, 1)

	if len(w.Lines) != 1 || w.Lines[0].Kind != asmwriter.KindComment {
		t.Fatalf("expected a single comment line for an already-resident value, got %+v", w.Lines)
	}
}

func TestLoadToAFromZeroPage(t *testing.T) {
	var warnings []string
	tr := NewTracker(&warnings)
	tr.Track(1, TrackedValue{Kind: LocZeroPage, Address: 0x20})

	w := asmwriter.New()
	tr.LoadToA(w, 1)

	if len(w.Lines) != 1 || w.Lines[0].Mnemonic != "LDA" || !strings.Contains(w.Lines[0].Operand, "20") {
		t.Fatalf("unexpected emission: %+v", w.Lines)
	}
}

func TestLoadToXFromYGoesThroughA(t *testing.T) {
	var warnings []string
	tr := NewTracker(&warnings)
	tr.Track(1, TrackedValue{Kind: LocYRegister})

	w := asmwriter.New()
	tr.LoadToX(w, 1)

	if len(w.Lines) != 2 || w.Lines[0].Mnemonic != "TYA" || w.Lines[1].Mnemonic != "TAX" {
		t.Fatalf("expected TYA;TAX, got %+v", w.Lines)
	}
}

func TestLoadToAWarnsOnUnknownLocation(t *testing.T) {
	var warnings []string
	tr := NewTracker(&warnings)

	w := asmwriter.New()
	ok := tr.LoadToA(w, 99)

	if ok {
		t.Fatal("expected LoadToA to report failure for an untracked register")
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want 1 entry", warnings)
	}
	if w.Lines[0].Operand != "#$00" {
		t.Errorf("fallback operand = %q, want #$00", w.Lines[0].Operand)
	}
}

func TestFormatOperandRejectsRegisterResidentValue(t *testing.T) {
	var warnings []string
	tr := NewTracker(&warnings)
	tr.Track(1, TrackedValue{Kind: LocAccumulator})

	text, ok := tr.FormatOperand(1)
	if ok || text != "#$00" {
		t.Errorf("FormatOperand(register-resident) = (%q, %v), want (#$00, false)", text, ok)
	}
	if len(warnings) != 1 {
		t.Errorf("expected one warning, got %v", warnings)
	}
}

func TestInvalidateRegistersKeepsMemoryResident(t *testing.T) {
	var warnings []string
	tr := NewTracker(&warnings)
	tr.Track(1, TrackedValue{Kind: LocAccumulator})
	tr.Track(2, TrackedValue{Kind: LocZeroPage, Address: 0x10})

	tr.InvalidateRegisters()

	if _, ok := tr.locations[1]; ok {
		t.Error("expected accumulator-resident value to be invalidated")
	}
	if _, ok := tr.locations[2]; !ok {
		t.Error("expected zero-page-resident value to survive invalidation")
	}
}
