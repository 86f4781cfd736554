package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ErrAssemblerUnavailable signals the external macro assembler binary isn't
// present. Per §7's codegen-warning policy, callers should continue and
// record a warning rather than fail the build.
var ErrAssemblerUnavailable = errors.New("codegen: external assembler not available")

// AssemblerInvoker turns ACME-dialect assembly text into PRG bytes by
// driving an external macro assembler. §5 names this the compiler's only
// process-wide shared resource.
type AssemblerInvoker interface {
	Assemble(source string) ([]byte, error)
}

// ACMEBinaryPath is the path to the ACME cross-assembler binary. Override
// this before calling NewACMEInvoker if the binary is elsewhere.
var ACMEBinaryPath = "acme"

// ACMEInvoker drives the real ACME binary via a temporary-file round trip:
// write the source, run the assembler, read back the PRG bytes.
type ACMEInvoker struct{}

// NewACMEInvoker returns an invoker backed by ACMEBinaryPath.
func NewACMEInvoker() *ACMEInvoker { return &ACMEInvoker{} }

// Available reports whether the ACME binary can be found on PATH.
func (a *ACMEInvoker) Available() bool {
	_, err := exec.LookPath(ACMEBinaryPath)
	return err == nil
}

// Assemble writes source to a temporary file, invokes ACME to produce a
// PRG, and returns the resulting bytes.
func (a *ACMEInvoker) Assemble(source string) ([]byte, error) {
	if !a.Available() {
		return nil, ErrAssemblerUnavailable
	}

	dir, err := os.MkdirTemp("", "blend65-asm-")
	if err != nil {
		return nil, fmt.Errorf("codegen: create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	srcPath := filepath.Join(dir, "out.asm")
	outPath := filepath.Join(dir, "out.prg")
	if err := os.WriteFile(srcPath, []byte(source), 0o644); err != nil {
		return nil, fmt.Errorf("codegen: write assembly source: %w", err)
	}

	cmd := exec.Command(ACMEBinaryPath, "-o", outPath, "-f", "cbm", srcPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("codegen: acme failed: %w: %s", err, stderr.String())
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("codegen: read assembled output: %w", err)
	}
	return out, nil
}

// FakeAssembler is a test double that returns a fixed result without
// shelling out to a real assembler.
type FakeAssembler struct {
	Output []byte
	Err    error
}

// Assemble returns f.Output, f.Err, ignoring source.
func (f *FakeAssembler) Assemble(source string) ([]byte, error) { return f.Output, f.Err }
