package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blendsdk/blend65-sub005/pkg/codegen"
	"github.com/blendsdk/blend65-sub005/pkg/target"
)

func TestDecodeValidDocument(t *testing.T) {
	src := `{
		"compilerOptions": {"target": "c64", "outputFormat": "prg", "debug": "vice", "loadAddress": 49152},
		"include": ["*.bl"],
		"rootDir": "src",
		"unknownField": "ignored"
	}`
	doc, err := Decode(strings.NewReader(src), "")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.CompilerOptions.Target != "c64" {
		t.Errorf("Target = %q, want c64", doc.CompilerOptions.Target)
	}
	if doc.CompilerOptions.LoadAddress != 49152 {
		t.Errorf("LoadAddress = %d, want 49152", doc.CompilerOptions.LoadAddress)
	}
	if doc.RootDir != "src" {
		t.Errorf("RootDir = %q, want src", doc.RootDir)
	}
}

func TestDecodeDefaultsLoadAddress(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"compilerOptions": {"target": "c64"}}`), "")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.CompilerOptions.LoadAddress != 0x0801 {
		t.Errorf("LoadAddress default = %#x, want 0x0801", doc.CompilerOptions.LoadAddress)
	}
}

func TestDecodeRejectsInvalidJSON(t *testing.T) {
	if _, err := Decode(strings.NewReader(`{not json`), "proj.json"); err == nil {
		t.Fatal("expected a ConfigError for invalid JSON")
	} else if _, ok := err.(*ConfigError); !ok {
		t.Errorf("error type = %T, want *ConfigError", err)
	}
}

func TestDecodeRejectsUnknownTarget(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"compilerOptions": {"target": "amiga"}}`), "")
	if err == nil {
		t.Fatal("expected a ConfigError for an unrecognized target")
	}
}

func TestDecodeRejectsUnknownOutputFormat(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"compilerOptions": {"outputFormat": "wav"}}`), "")
	if err == nil {
		t.Fatal("expected a ConfigError for an unrecognized outputFormat")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json")); err == nil {
		t.Fatal("expected a ConfigError for a missing file")
	}
}

func TestResolveFilesMatchesIncludeExcludesMatch(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.bl", "b.bl", "skip.bl"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("// "+name), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	doc := &Document{RootDir: dir, Include: []string{"*.bl"}, Exclude: []string{"skip.bl"}}
	files, err := doc.ResolveFiles()
	if err != nil {
		t.Fatalf("ResolveFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %v, want 2 entries", files)
	}
	for _, f := range files {
		if filepath.Base(f) == "skip.bl" {
			t.Errorf("excluded file %q was not filtered out", f)
		}
	}
}

func TestResolveFilesReturnsFileResolutionErrorWhenNoMatch(t *testing.T) {
	doc := &Document{RootDir: t.TempDir(), Include: []string{"*.nope"}}
	if _, err := doc.ResolveFiles(); err == nil {
		t.Fatal("expected a FileResolutionError")
	} else if _, ok := err.(*FileResolutionError); !ok {
		t.Errorf("error type = %T, want *FileResolutionError", err)
	}
}

func TestToCodegenOptionsMapsFields(t *testing.T) {
	co := CompilerOptions{Target: "c64", OutputFormat: "both", Debug: "vice", LoadAddress: 0xC000}
	opts := co.ToCodegenOptions()
	if opts.Target != target.C64 {
		t.Errorf("Target = %v, want c64", opts.Target)
	}
	if opts.Format != codegen.FormatBoth {
		t.Errorf("Format = %v, want both", opts.Format)
	}
	if opts.Debug != codegen.DebugVICE {
		t.Errorf("Debug = %v, want vice", opts.Debug)
	}
	if !opts.SourceMap {
		t.Error("expected SourceMap to follow from a non-none debug mode")
	}
}

func TestToCodegenOptionsDefaultsTarget(t *testing.T) {
	opts := CompilerOptions{}.ToCodegenOptions()
	if opts.Target != target.C64 {
		t.Errorf("default Target = %v, want c64", opts.Target)
	}
	if opts.Format != codegen.FormatAsm {
		t.Errorf("default Format = %v, want asm", opts.Format)
	}
}
