package codegen

import (
	"fmt"

	"github.com/blendsdk/blend65-sub005/pkg/target"
)

// Format selects what Generate produces (§6.1).
type Format string

const (
	FormatAsm  Format = "asm"
	FormatPRG  Format = "prg"
	FormatBoth Format = "both"
	FormatCRT  Format = "crt"
)

// DebugMode controls how much debug information accompanies the output.
type DebugMode string

const (
	DebugNone   DebugMode = "none"
	DebugInline DebugMode = "inline"
	DebugVICE   DebugMode = "vice"
	DebugBoth   DebugMode = "both"
)

// Options is the codegen-options record of §6.1.
type Options struct {
	Target       target.ID
	Format       Format
	SourceMap    bool
	Debug        DebugMode
	LoadAddress  uint16
	BasicStub    bool
	BasicStubSet bool // true if BasicStub was explicitly set by the caller
	SysLine      int
	OutFile      string
}

// Normalize fills in defaults that depend on the resolved target descriptor:
// basic_stub defaults to true iff load_address equals the target's BASIC
// start address, unless the caller already set it explicitly.
func (o Options) Normalize(desc target.Descriptor) Options {
	if !o.BasicStubSet {
		o.BasicStub = o.LoadAddress == desc.BasicStart
	}
	if o.SysLine == 0 {
		o.SysLine = 10
	}
	if o.Format == "" {
		o.Format = FormatAsm
	}
	if o.Debug == "" {
		o.Debug = DebugNone
	}
	return o
}

// Validate reports a ConfigError for an unsupported format/debug
// combination. An unimplemented target (§6.3: x16) is not a Validate
// failure: config parsing accepts it, and Generate degrades to a warning
// the same way it does for the unimplemented crt format.
func (o Options) Validate(desc target.Descriptor) error {
	switch o.Format {
	case FormatAsm, FormatPRG, FormatBoth, FormatCRT:
	default:
		return &ConfigError{Message: fmt.Sprintf("unknown output format %q", o.Format)}
	}
	switch o.Debug {
	case DebugNone, DebugInline, DebugVICE, DebugBoth:
	default:
		return &ConfigError{Message: fmt.Sprintf("unknown debug mode %q", o.Debug)}
	}
	return nil
}
