// Package types implements the Blend65 type system: primitive, array,
// pointer, function, struct, and enum types, plus the size-in-bytes
// invariant used throughout storage allocation and instruction selection.
package types

import "fmt"

// Kind tags the variant of a Type.
type Kind uint8

const (
	KindVoid Kind = iota
	KindBool
	KindByte
	KindWord
	KindArray
	KindPointer
	KindFunction
	KindStruct
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindByte:
		return "byte"
	case KindWord:
		return "word"
	case KindArray:
		return "array"
	case KindPointer:
		return "pointer"
	case KindFunction:
		return "function"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Field is one named member of a Struct type.
type Field struct {
	Name string
	Type Type
}

// Variant is one named member of an Enum type, with its underlying integer value.
type Variant struct {
	Name  string
	Value int
}

// Type is an immutable, structurally-equal tagged variant describing a
// Blend65 value's shape. Zero value is KindVoid.
type Type struct {
	kind Kind

	// KindArray
	elem   *Type
	length *uint32 // nil means dynamic (unknown length)

	// KindPointer
	pointee *Type

	// KindFunction
	params []Type
	result *Type

	// KindStruct
	fields []Field

	// KindEnum
	underlying Kind // KindByte or KindWord
	variants   []Variant
}

// Void is the empty type.
var Void = Type{kind: KindVoid}

// Bool is the 1-byte boolean type.
var Bool = Type{kind: KindBool}

// Byte is the 8-bit unsigned integer type.
var Byte = Type{kind: KindByte}

// Word is the 16-bit unsigned integer type.
var Word = Type{kind: KindWord}

// Kind reports the tag of this type.
func (t Type) Kind() Kind { return t.kind }

// NewArray constructs a sized array type element[length].
func NewArray(elem Type, length uint32) Type {
	e := elem
	l := length
	return Type{kind: KindArray, elem: &e, length: &l}
}

// NewDynamicArray constructs an array type of unknown length (represented as a pointer at runtime).
func NewDynamicArray(elem Type) Type {
	e := elem
	return Type{kind: KindArray, elem: &e, length: nil}
}

// Elem returns the element type of an array; panics if not an array.
func (t Type) Elem() Type {
	if t.kind != KindArray {
		panic("types: Elem on non-array type")
	}
	return *t.elem
}

// ArrayLength returns the declared length and whether it is known.
func (t Type) ArrayLength() (length uint32, known bool) {
	if t.kind != KindArray {
		panic("types: ArrayLength on non-array type")
	}
	if t.length == nil {
		return 0, false
	}
	return *t.length, true
}

// NewPointer constructs a pointer-to-pointee type.
func NewPointer(pointee Type) Type {
	p := pointee
	return Type{kind: KindPointer, pointee: &p}
}

// Pointee returns the pointed-to type; panics if not a pointer.
func (t Type) Pointee() Type {
	if t.kind != KindPointer {
		panic("types: Pointee on non-pointer type")
	}
	return *t.pointee
}

// NewFunction constructs a function type with the given parameter types and result type.
func NewFunction(params []Type, result Type) Type {
	ps := make([]Type, len(params))
	copy(ps, params)
	r := result
	return Type{kind: KindFunction, params: ps, result: &r}
}

// Params returns the parameter types of a function type; panics otherwise.
func (t Type) Params() []Type {
	if t.kind != KindFunction {
		panic("types: Params on non-function type")
	}
	return t.params
}

// Result returns the return type of a function type; panics otherwise.
func (t Type) Result() Type {
	if t.kind != KindFunction {
		panic("types: Result on non-function type")
	}
	return *t.result
}

// NewStruct constructs a struct type with fields laid out in declaration order.
func NewStruct(fields []Field) Type {
	fs := make([]Field, len(fields))
	copy(fs, fields)
	return Type{kind: KindStruct, fields: fs}
}

// Fields returns the declared fields of a struct type; panics otherwise.
func (t Type) Fields() []Field {
	if t.kind != KindStruct {
		panic("types: Fields on non-struct type")
	}
	return t.fields
}

// NewEnum constructs an enum type with the given underlying representation
// (must be Byte or Word) and ordered variants.
func NewEnum(underlying Kind, variants []Variant) Type {
	if underlying != KindByte && underlying != KindWord {
		panic("types: enum underlying type must be byte or word")
	}
	vs := make([]Variant, len(variants))
	copy(vs, variants)
	return Type{kind: KindEnum, underlying: underlying, variants: vs}
}

// Underlying returns the representation type of an enum; panics otherwise.
func (t Type) Underlying() Kind {
	if t.kind != KindEnum {
		panic("types: Underlying on non-enum type")
	}
	return t.underlying
}

// Variants returns the declared variants of an enum type; panics otherwise.
func (t Type) Variants() []Variant {
	if t.kind != KindEnum {
		panic("types: Variants on non-enum type")
	}
	return t.variants
}

// SizeInBytes computes the storage size of a type per §3.1:
//
//	Void=0, Bool=1, Byte=1, Word=2
//	Array[N] = N * size(elem); dynamic array = 2 (pointer)
//	Pointer = 2; Function = 2 (address)
//	Struct = sum of field sizes, no padding
//	Enum = size of its underlying representation
func (t Type) SizeInBytes() int {
	switch t.kind {
	case KindVoid:
		return 0
	case KindBool, KindByte:
		return 1
	case KindWord:
		return 2
	case KindArray:
		if t.length == nil {
			return 2
		}
		return int(*t.length) * t.elem.SizeInBytes()
	case KindPointer, KindFunction:
		return 2
	case KindStruct:
		n := 0
		for _, f := range t.fields {
			n += f.Type.SizeInBytes()
		}
		return n
	case KindEnum:
		if t.underlying == KindWord {
			return 2
		}
		return 1
	default:
		panic(fmt.Sprintf("types: unknown kind %d", t.kind))
	}
}

// Equal reports structural equality between two types.
func Equal(a, b Type) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindArray:
		if (a.length == nil) != (b.length == nil) {
			return false
		}
		if a.length != nil && *a.length != *b.length {
			return false
		}
		return Equal(*a.elem, *b.elem)
	case KindPointer:
		return Equal(*a.pointee, *b.pointee)
	case KindFunction:
		if len(a.params) != len(b.params) {
			return false
		}
		for i := range a.params {
			if !Equal(a.params[i], b.params[i]) {
				return false
			}
		}
		return Equal(*a.result, *b.result)
	case KindStruct:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if a.fields[i].Name != b.fields[i].Name || !Equal(a.fields[i].Type, b.fields[i].Type) {
				return false
			}
		}
		return true
	case KindEnum:
		if a.underlying != b.underlying || len(a.variants) != len(b.variants) {
			return false
		}
		for i := range a.variants {
			if a.variants[i] != b.variants[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders a human-readable type name, used in IL text dumps and error messages.
func (t Type) String() string {
	switch t.kind {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindByte:
		return "byte"
	case KindWord:
		return "word"
	case KindArray:
		if t.length == nil {
			return t.elem.String() + "[]"
		}
		return fmt.Sprintf("%s[%d]", t.elem.String(), *t.length)
	case KindPointer:
		return "*" + t.pointee.String()
	case KindFunction:
		s := "fn("
		for i, p := range t.params {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		return s + ") " + t.result.String()
	case KindStruct:
		s := "struct {"
		for i, f := range t.fields {
			if i > 0 {
				s += ", "
			}
			s += f.Name + ": " + f.Type.String()
		}
		return s + "}"
	case KindEnum:
		return "enum(" + t.underlying.String() + ")"
	default:
		return "?"
	}
}
