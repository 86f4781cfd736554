// Package config decodes the Blend65 CLI's JSON project file (§6.3): a
// compilerOptions record plus include/exclude glob patterns, a rootDir, and
// an optional emulator record. File discovery and validation live here;
// nothing about the IL or codegen passes does.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/blendsdk/blend65-sub005/pkg/codegen"
	"github.com/blendsdk/blend65-sub005/pkg/target"
)

// ConfigError reports invalid JSON or a schema violation (§7 "Configuration
// error"): fatal to the invocation, carries the offending file path.
type ConfigError struct {
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return "config: " + e.Message
	}
	return fmt.Sprintf("config: %s: %s", e.Path, e.Message)
}

// FileResolutionError reports a missing explicit file or a pattern with no
// matches (§7 "File-resolution error").
type FileResolutionError struct {
	Missing []string
}

func (e *FileResolutionError) Error() string {
	return fmt.Sprintf("config: no files resolved, missing: %v", e.Missing)
}

// CompilerOptions is the `compilerOptions` record of §6.3.
type CompilerOptions struct {
	Target       string `json:"target"`
	Optimization string `json:"optimization"`
	Debug        string `json:"debug"`
	OutputFormat string `json:"outputFormat"`
	LoadAddress  uint16 `json:"loadAddress"`
	OutDir       string `json:"outDir"`
	OutFile      string `json:"outFile"`
	Verbose      bool   `json:"verbose"`
	Strict       bool   `json:"strict"`
}

// Emulator is the optional emulator-launch record; §6.3 names the field
// without specifying its shape beyond "a record", so this carries the
// minimum the CLI needs to hand off a compiled PRG to an external emulator.
type Emulator struct {
	Path string   `json:"path"`
	Args []string `json:"args"`
}

// Document is the top-level project file (§6.3).
type Document struct {
	CompilerOptions CompilerOptions `json:"compilerOptions"`
	Include         []string        `json:"include"`
	Exclude         []string        `json:"exclude"`
	RootDir         string          `json:"rootDir"`
	Emulator        *Emulator       `json:"emulator"`
}

var validTargets = map[string]bool{"c64": true, "c128": true, "x16": true}
var validOptimizations = map[string]bool{"O0": true, "O1": true, "O2": true, "O3": true, "Os": true, "Oz": true, "": true}
var validDebug = map[string]bool{"none": true, "inline": true, "vice": true, "both": true, "": true}
var validFormat = map[string]bool{"asm": true, "prg": true, "crt": true, "both": true, "": true}

// Load reads and validates a project file at path. Unknown top-level fields
// are ignored, per §6.3; recognized enum fields are validated strictly.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}
	defer f.Close()
	return Decode(f, path)
}

// Decode parses a project document from r. path is used only for error
// messages (pass "" when there is no backing file, e.g. in tests).
func Decode(r io.Reader, path string) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &ConfigError{Path: path, Message: "invalid JSON: " + err.Error()}
	}
	if doc.CompilerOptions.LoadAddress == 0 {
		doc.CompilerOptions.LoadAddress = 0x0801
	}
	if err := doc.CompilerOptions.validate(); err != nil {
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}
	return &doc, nil
}

func (co CompilerOptions) validate() error {
	if !validTargets[co.Target] && co.Target != "" {
		return fmt.Errorf("unrecognized target %q", co.Target)
	}
	if !validOptimizations[co.Optimization] {
		return fmt.Errorf("unrecognized optimization level %q", co.Optimization)
	}
	if !validDebug[co.Debug] {
		return fmt.Errorf("unrecognized debug mode %q", co.Debug)
	}
	if !validFormat[co.OutputFormat] {
		return fmt.Errorf("unrecognized outputFormat %q", co.OutputFormat)
	}
	return nil
}

// ResolveFiles expands Include against RootDir (or the current directory,
// if RootDir is empty) via path/filepath.Glob, then removes anything also
// matched by Exclude. Returns a FileResolutionError if Include is non-empty
// but nothing on disk matches it.
func (d *Document) ResolveFiles() ([]string, error) {
	root := d.RootDir
	if root == "" {
		root = "."
	}

	excluded := make(map[string]bool)
	for _, pattern := range d.Exclude {
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			return nil, &FileResolutionError{Missing: []string{pattern}}
		}
		for _, m := range matches {
			excluded[m] = true
		}
	}

	var missing []string
	var files []string
	for _, pattern := range d.Include {
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil || len(matches) == 0 {
			missing = append(missing, pattern)
			continue
		}
		for _, m := range matches {
			if !excluded[m] {
				files = append(files, m)
			}
		}
	}

	if len(d.Include) > 0 && len(files) == 0 {
		return nil, &FileResolutionError{Missing: missing}
	}
	return files, nil
}

// ToCodegenOptions translates the JSON-facing CompilerOptions into the
// codegen package's Options record, the boundary between §6.3's file format
// and §6.1's in-memory contract.
func (co CompilerOptions) ToCodegenOptions() codegen.Options {
	opts := codegen.Options{
		Target:      target.ID(co.Target),
		LoadAddress: co.LoadAddress,
		OutFile:     co.OutFile,
	}
	if opts.Target == "" {
		opts.Target = target.C64
	}
	if opts.LoadAddress == 0 {
		opts.LoadAddress = 0x0801
	}
	switch co.OutputFormat {
	case "prg":
		opts.Format = codegen.FormatPRG
	case "crt":
		opts.Format = codegen.FormatCRT
	case "both":
		opts.Format = codegen.FormatBoth
	default:
		opts.Format = codegen.FormatAsm
	}
	switch co.Debug {
	case "inline":
		opts.Debug = codegen.DebugInline
	case "vice":
		opts.Debug = codegen.DebugVICE
	case "both":
		opts.Debug = codegen.DebugBoth
	default:
		opts.Debug = codegen.DebugNone
	}
	opts.SourceMap = opts.Debug != codegen.DebugNone
	return opts
}
