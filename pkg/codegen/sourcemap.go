package codegen

import "github.com/blendsdk/blend65-sub005/pkg/il"

// SourceMapEntry associates one assembly address with the IL source span
// that produced it (§4.8).
type SourceMapEntry struct {
	PC   uint16
	Span il.SourceSpan
}

// SourceMapper accumulates (pc, span) entries in emission order.
type SourceMapper struct {
	entries []SourceMapEntry
}

// NewSourceMapper creates an empty mapper.
func NewSourceMapper() *SourceMapper { return &SourceMapper{} }

// Record appends an entry if span carries real location information.
func (m *SourceMapper) Record(pc uint16, span il.SourceSpan) {
	if !span.Known() {
		return
	}
	m.entries = append(m.entries, SourceMapEntry{PC: pc, Span: span})
}

// Entries returns every recorded entry, in chronological (emission) order.
func (m *SourceMapper) Entries() []SourceMapEntry { return append([]SourceMapEntry(nil), m.entries...) }
