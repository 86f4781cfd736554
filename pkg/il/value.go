package il

import (
	"fmt"

	"github.com/blendsdk/blend65-sub005/pkg/types"
)

// ValueKind tags the three disjoint value kinds of §3.2.
type ValueKind uint8

const (
	ValueRegister ValueKind = iota
	ValueConstant
	ValueLabel
)

// Register is a virtual register: {id, type, name}. id is globally unique
// within the owning function.
type Register struct {
	ID   uint32
	Type types.Type
	Name string // optional, empty if unnamed
}

// String prints "v{id}" or "v{id}:{name}".
func (r Register) String() string {
	if r.Name != "" {
		return fmt.Sprintf("v%d:%s", r.ID, r.Name)
	}
	return fmt.Sprintf("v%d", r.ID)
}

// Constant is an immutable typed integer value.
type Constant struct {
	Value int64
	Type  types.Type
}

func (c Constant) String() string {
	return fmt.Sprintf("%d", c.Value)
}

// Label identifies a basic block uniquely within a function.
type Label struct {
	Name    string
	BlockID uint32
}

func (l Label) String() string { return l.Name }

// Value is any operand an instruction can read: a register, a constant, or
// a label. Exactly one of the three pointer-ish fields is meaningful,
// selected by Kind.
type Value struct {
	Kind     ValueKind
	Register Register
	Constant Constant
	Label    Label
}

// RegisterValue wraps a register as a Value.
func RegisterValue(r Register) Value { return Value{Kind: ValueRegister, Register: r} }

// ConstantValue wraps a constant as a Value.
func ConstantValue(c Constant) Value { return Value{Kind: ValueConstant, Constant: c} }

// LabelValue wraps a label as a Value.
func LabelValue(l Label) Value { return Value{Kind: ValueLabel, Label: l} }

// Type returns the static type of the wrapped value.
func (v Value) Type() types.Type {
	switch v.Kind {
	case ValueRegister:
		return v.Register.Type
	case ValueConstant:
		return v.Constant.Type
	default:
		return types.Void
	}
}

func (v Value) String() string {
	switch v.Kind {
	case ValueRegister:
		return v.Register.String()
	case ValueConstant:
		return v.Constant.String()
	case ValueLabel:
		return v.Label.String()
	default:
		return "?"
	}
}

// IsRegister reports whether this value is a virtual register.
func (v Value) IsRegister() bool { return v.Kind == ValueRegister }

// ValueFactory hands out monotonically increasing register and label IDs
// for a single function, so that every register ever created for that
// function — including SSA versions inserted later — has a unique ID.
type ValueFactory struct {
	nextRegister uint32
	nextBlock    uint32
}

// NewValueFactory creates a factory starting its counters at zero.
func NewValueFactory() *ValueFactory {
	return &ValueFactory{}
}

// NewRegister allocates a fresh, uniquely-numbered register of the given type and optional name.
func (f *ValueFactory) NewRegister(t types.Type, name string) Register {
	id := f.nextRegister
	f.nextRegister++
	return Register{ID: id, Type: t, Name: name}
}

// NewBlockID allocates a fresh, uniquely-numbered basic block id.
func (f *ValueFactory) NewBlockID() uint32 {
	id := f.nextBlock
	f.nextBlock++
	return id
}

// GobEncode implements gob.GobEncoder. The counters are not serialized: a
// decoded factory starts from zero, and Function.Rehydrate advances it past
// the ids present in the decoded function.
func (f *ValueFactory) GobEncode() ([]byte, error) { return nil, nil }

// GobDecode implements gob.GobDecoder; see GobEncode.
func (f *ValueFactory) GobDecode(data []byte) error { return nil }

// NextRegisterID previews the id the next NewRegister call would hand out,
// without consuming it. Used by diagnostics and tests.
func (f *ValueFactory) NextRegisterID() uint32 { return f.nextRegister }

// SetCounters advances the factory's register/block counters to at least
// nextRegister/nextBlock, never backward. Used to rehydrate a factory for a
// function whose instructions were deserialized rather than built through
// the factory itself (see Function.Rehydrate), since the counters
// themselves carry no serializable state of their own.
func (f *ValueFactory) SetCounters(nextRegister, nextBlock uint32) {
	if nextRegister > f.nextRegister {
		f.nextRegister = nextRegister
	}
	if nextBlock > f.nextBlock {
		f.nextBlock = nextBlock
	}
}
