package il

import "github.com/blendsdk/blend65-sub005/pkg/types"

// Global describes a single module-level variable declaration (§3.4).
type Global struct {
	Name         string
	Type         types.Type
	Storage      StorageClass
	InitialValue []int64 // element values in declaration order; nil if uninitialized
	Address      uint16  // meaningful only when Storage == StorageMap
	IsConstant   bool
}

// IntrinsicSignature describes a compiler-known intrinsic function's shape.
type IntrinsicSignature struct {
	Name   string
	Params []types.Type
	Result types.Type
}

// Module owns an ordered list of functions, an ordered list of globals, and
// the intrinsic table available to CALL/INTRINSIC_CALL instructions (§3.4).
type Module struct {
	SourceName string
	Functions  []*Function
	Globals    []*Global
	Intrinsics map[string]IntrinsicSignature
}

// NewModule creates an empty module.
func NewModule(sourceName string) *Module {
	return &Module{
		SourceName: sourceName,
		Intrinsics: make(map[string]IntrinsicSignature),
	}
}

// AddFunction appends a function, preserving declaration order.
func (m *Module) AddFunction(f *Function) { m.Functions = append(m.Functions, f) }

// AddGlobal appends a global, preserving declaration order.
func (m *Module) AddGlobal(g *Global) { m.Globals = append(m.Globals, g) }

// DeclareIntrinsic registers an intrinsic's signature.
func (m *Module) DeclareIntrinsic(sig IntrinsicSignature) { m.Intrinsics[sig.Name] = sig }

// FindFunction looks up a function by name, in declaration order.
func (m *Module) FindFunction(name string) *Function {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FindGlobal looks up a global by name, in declaration order.
func (m *Module) FindGlobal(name string) *Global {
	for _, g := range m.Globals {
		if g.Name == name {
			return g
		}
	}
	return nil
}
