package target

import "testing"

func TestLookupKnownTargets(t *testing.T) {
	tests := []struct {
		id          ID
		implemented bool
	}{
		{C64, true},
		{C128, true},
		{X16, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.id), func(t *testing.T) {
			d, err := Lookup(tc.id)
			if err != nil {
				t.Fatalf("Lookup(%s): %v", tc.id, err)
			}
			if d.Implemented != tc.implemented {
				t.Errorf("Implemented = %v, want %v", d.Implemented, tc.implemented)
			}
		})
	}
}

func TestLookupUnknownTarget(t *testing.T) {
	if _, err := Lookup("amiga"); err == nil {
		t.Fatal("expected error for unknown target")
	}
}

func TestC64ZeroPageSize(t *testing.T) {
	d := MustLookup(C64)
	if got := d.ZeroPageSize(); got != 134 {
		t.Errorf("ZeroPageSize() = %d, want 134", got)
	}
}

func TestC128ZeroPageSize(t *testing.T) {
	d := MustLookup(C128)
	if got := d.ZeroPageSize(); got != 118 {
		t.Errorf("ZeroPageSize() = %d, want 118", got)
	}
	if d.BasicStart == MustLookup(C64).BasicStart && d.CodeStart == MustLookup(C64).CodeStart {
		t.Error("c128 descriptor should not be identical to c64's")
	}
}
