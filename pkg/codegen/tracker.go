package codegen

import (
	"fmt"

	"github.com/blendsdk/blend65-sub005/pkg/asmwriter"
)

// LocationKind tags where a tracked IL register's value currently lives.
type LocationKind uint8

const (
	LocImmediate LocationKind = iota
	LocAccumulator
	LocXRegister
	LocYRegister
	LocZeroPage
	LocAbsolute
	LocStack
	LocLabel
)

// TrackedValue records one IL register's current physical location (§4.5).
type TrackedValue struct {
	Kind      LocationKind
	Immediate int64
	Address   uint16
	Label     string
	IsWord    bool
}

// Tracker is the code generator's per-live-register value-location table.
type Tracker struct {
	locations map[uint32]TrackedValue
	inA       *uint32
	inX       *uint32
	inY       *uint32
	warnings  *[]string
}

// NewTracker creates a tracker that appends its warnings to the shared
// slice owned by the enclosing codegen context.
func NewTracker(warnings *[]string) *Tracker {
	return &Tracker{locations: make(map[uint32]TrackedValue), warnings: warnings}
}

func (t *Tracker) warn(format string, args ...interface{}) {
	*t.warnings = append(*t.warnings, fmt.Sprintf(format, args...))
}

// Track records id's location, overwriting any prior entry, and updates
// register-residency bookkeeping when loc names a CPU register.
func (t *Tracker) Track(id uint32, loc TrackedValue) {
	t.locations[id] = loc
	switch loc.Kind {
	case LocAccumulator:
		t.setHolder(&t.inA, LocAccumulator, id)
	case LocXRegister:
		t.setHolder(&t.inX, LocXRegister, id)
	case LocYRegister:
		t.setHolder(&t.inY, LocYRegister, id)
	}
}

// setHolder marks id as the occupant of a CPU register slot. A different
// value previously tracked in that register is displaced, so its location
// entry is dropped rather than left pointing at a register it no longer
// occupies.
func (t *Tracker) setHolder(slot **uint32, kind LocationKind, id uint32) {
	if prev := *slot; prev != nil && *prev != id {
		if loc, ok := t.locations[*prev]; ok && loc.Kind == kind {
			delete(t.locations, *prev)
		}
	}
	v := id
	*slot = &v
}

func (t *Tracker) holds(slot *uint32, id uint32) bool {
	return slot != nil && *slot == id
}

// LoadToA emits the cheapest instruction sequence moving id's value into
// the accumulator, and marks A as holding id. Returns false (with a
// recorded warning) if id has no known location.
func (t *Tracker) LoadToA(w *asmwriter.Writer, id uint32) bool {
	if t.holds(t.inA, id) {
		w.Comment(fmt.Sprintf("v%d already in A", id))
		return true
	}
	loc, ok := t.locations[id]
	if !ok {
		t.warn("unknown location for v%d, loading placeholder 0", id)
		w.Instruction("LDA", "#$00", 2, "unknown value location")
		t.Track(id, TrackedValue{Kind: LocAccumulator})
		return false
	}
	switch loc.Kind {
	case LocImmediate:
		w.Instruction("LDA", fmt.Sprintf("#$%02X", loc.Immediate), 2, "")
	case LocZeroPage:
		w.Instruction("LDA", fmt.Sprintf("$%02X", loc.Address), 2, "")
	case LocAbsolute:
		w.Instruction("LDA", fmt.Sprintf("$%04X", loc.Address), 3, "")
	case LocLabel:
		w.Instruction("LDA", loc.Label, 3, "")
	case LocXRegister:
		w.Instruction("TXA", "", 1, "")
	case LocYRegister:
		w.Instruction("TYA", "", 1, "")
	case LocStack:
		w.Instruction("PLA", "", 1, "")
	case LocAccumulator:
		// unreachable: handled by the holds() check above.
	}
	t.Track(id, TrackedValue{Kind: LocAccumulator, IsWord: loc.IsWord})
	return true
}

// LoadToX is LoadToA's analogue for the X register; a value resident in Y
// is moved via a two-step transfer through A, since the 6502 has no direct
// Y->X instruction.
func (t *Tracker) LoadToX(w *asmwriter.Writer, id uint32) bool {
	if t.holds(t.inX, id) {
		w.Comment(fmt.Sprintf("v%d already in X", id))
		return true
	}
	loc, ok := t.locations[id]
	if !ok {
		t.warn("unknown location for v%d, loading placeholder 0", id)
		w.Instruction("LDX", "#$00", 2, "unknown value location")
		t.Track(id, TrackedValue{Kind: LocXRegister})
		return false
	}
	switch loc.Kind {
	case LocImmediate:
		w.Instruction("LDX", fmt.Sprintf("#$%02X", loc.Immediate), 2, "")
	case LocZeroPage:
		w.Instruction("LDX", fmt.Sprintf("$%02X", loc.Address), 2, "")
	case LocAbsolute:
		w.Instruction("LDX", fmt.Sprintf("$%04X", loc.Address), 3, "")
	case LocLabel:
		w.Instruction("LDX", loc.Label, 3, "")
	case LocAccumulator:
		w.Instruction("TAX", "", 1, "")
	case LocYRegister:
		w.Instruction("TYA", "", 1, "")
		w.Instruction("TAX", "", 1, "")
	case LocStack:
		w.Instruction("PLA", "", 1, "")
		w.Instruction("TAX", "", 1, "")
	case LocXRegister:
		// unreachable
	}
	t.Track(id, TrackedValue{Kind: LocXRegister, IsWord: loc.IsWord})
	return true
}

// LoadToY is LoadToA's analogue for the Y register.
func (t *Tracker) LoadToY(w *asmwriter.Writer, id uint32) bool {
	if t.holds(t.inY, id) {
		w.Comment(fmt.Sprintf("v%d already in Y", id))
		return true
	}
	loc, ok := t.locations[id]
	if !ok {
		t.warn("unknown location for v%d, loading placeholder 0", id)
		w.Instruction("LDY", "#$00", 2, "unknown value location")
		t.Track(id, TrackedValue{Kind: LocYRegister})
		return false
	}
	switch loc.Kind {
	case LocImmediate:
		w.Instruction("LDY", fmt.Sprintf("#$%02X", loc.Immediate), 2, "")
	case LocZeroPage:
		w.Instruction("LDY", fmt.Sprintf("$%02X", loc.Address), 2, "")
	case LocAbsolute:
		w.Instruction("LDY", fmt.Sprintf("$%04X", loc.Address), 3, "")
	case LocLabel:
		w.Instruction("LDY", loc.Label, 3, "")
	case LocAccumulator:
		w.Instruction("TAY", "", 1, "")
	case LocXRegister:
		w.Instruction("TXA", "", 1, "")
		w.Instruction("TAY", "", 1, "")
	case LocStack:
		w.Instruction("PLA", "", 1, "")
		w.Instruction("TAY", "", 1, "")
	case LocYRegister:
		// unreachable
	}
	t.Track(id, TrackedValue{Kind: LocYRegister, IsWord: loc.IsWord})
	return true
}

// FormatOperand produces the textual operand for an instruction whose
// operand can refer to id's value in-place (immediate, zero-page, absolute,
// label). Register-resident values fall back to "#$00" with a warning,
// since using them here is a bug in upstream instruction selection.
func (t *Tracker) FormatOperand(id uint32) (string, bool) {
	loc, ok := t.locations[id]
	if !ok {
		t.warn("unknown location for v%d in operand position", id)
		return "#$00", false
	}
	switch loc.Kind {
	case LocImmediate:
		return fmt.Sprintf("#$%02X", loc.Immediate), true
	case LocZeroPage:
		return fmt.Sprintf("$%02X", loc.Address), true
	case LocAbsolute:
		return fmt.Sprintf("$%04X", loc.Address), true
	case LocLabel:
		return loc.Label, true
	default:
		t.warn("v%d is register-resident, cannot format as an in-place operand", id)
		return "#$00", false
	}
}

// InvalidateRegisters drops register-resident tracking (A/X/Y) after a call
// or other side effect, leaving memory-resident locations intact.
func (t *Tracker) InvalidateRegisters() {
	for id, loc := range t.locations {
		if loc.Kind == LocAccumulator || loc.Kind == LocXRegister || loc.Kind == LocYRegister {
			delete(t.locations, id)
		}
	}
	t.inA, t.inX, t.inY = nil, nil, nil
}

// InvalidateAccumulator drops only the accumulator's tracked residency.
func (t *Tracker) InvalidateAccumulator() {
	if t.inA != nil {
		delete(t.locations, *t.inA)
		t.inA = nil
	}
}
