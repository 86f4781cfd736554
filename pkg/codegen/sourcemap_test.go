package codegen

import (
	"testing"

	"github.com/blendsdk/blend65-sub005/pkg/il"
)

func TestSourceMapperSkipsUnknownSpans(t *testing.T) {
	m := NewSourceMapper()
	m.Record(0xC000, il.SourceSpan{})
	m.Record(0xC003, il.SourceSpan{File: "main.bl", Line: 5, Column: 1})

	entries := m.Entries()
	if len(entries) != 1 {
		t.Fatalf("Entries() len = %d, want 1", len(entries))
	}
	if entries[0].PC != 0xC003 {
		t.Errorf("entry PC = %#x, want 0xC003", entries[0].PC)
	}
}

func TestSourceMapperEntriesIsACopy(t *testing.T) {
	m := NewSourceMapper()
	m.Record(1, il.SourceSpan{Line: 1})

	entries := m.Entries()
	entries[0].PC = 999

	if m.Entries()[0].PC == 999 {
		t.Error("Entries() should return a defensive copy")
	}
}
