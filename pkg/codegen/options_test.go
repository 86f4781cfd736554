package codegen

import (
	"testing"

	"github.com/blendsdk/blend65-sub005/pkg/target"
)

func TestNormalizeEnablesBasicStubAtBasicStart(t *testing.T) {
	desc, _ := target.Lookup(target.C64)
	opts := Options{LoadAddress: desc.BasicStart}.Normalize(desc)

	if !opts.BasicStub {
		t.Error("expected BasicStub to default true when load address equals BASIC start")
	}
	if opts.Format != FormatAsm {
		t.Errorf("Format default = %q, want asm", opts.Format)
	}
	if opts.SysLine != 10 {
		t.Errorf("SysLine default = %d, want 10", opts.SysLine)
	}
}

func TestNormalizeLeavesExplicitBasicStubAlone(t *testing.T) {
	desc, _ := target.Lookup(target.C64)
	opts := Options{LoadAddress: desc.BasicStart, BasicStub: false, BasicStubSet: true}.Normalize(desc)

	if opts.BasicStub {
		t.Error("expected explicit BasicStub=false to survive Normalize")
	}
}

func TestValidateAcceptsUnimplementedTarget(t *testing.T) {
	desc, _ := target.Lookup(target.X16)
	opts := Options{Target: target.X16}.Normalize(desc)

	if err := opts.Validate(desc); err != nil {
		t.Fatalf("Validate should not reject an unimplemented target, got %v", err)
	}
}

func TestValidateRejectsUnknownFormat(t *testing.T) {
	desc, _ := target.Lookup(target.C64)
	opts := Options{Target: target.C64, Format: "weird"}.Normalize(desc)
	opts.Format = "weird" // Normalize only fills empty strings

	if err := opts.Validate(desc); err == nil {
		t.Fatal("expected ConfigError for an unrecognized format")
	}
}
