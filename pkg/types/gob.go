package types

import (
	"bytes"
	"encoding/gob"
)

// wireType mirrors Type's unexported layout with exported fields, so gob's
// reflection-based codec (which only sees exported fields) has something to
// work with. Type implements GobEncoder/GobDecoder in terms of this shape
// rather than exporting its fields directly, keeping the public API
// immutable and accessor-only.
type wireType struct {
	Kind       Kind
	Elem       *Type
	Length     *uint32
	Pointee    *Type
	Params     []Type
	Result     *Type
	Fields     []Field
	Underlying Kind
	Variants   []Variant
}

// GobEncode implements gob.GobEncoder.
func (t Type) GobEncode() ([]byte, error) {
	w := wireType{
		Kind:       t.kind,
		Elem:       t.elem,
		Length:     t.length,
		Pointee:    t.pointee,
		Params:     t.params,
		Result:     t.result,
		Fields:     t.fields,
		Underlying: t.underlying,
		Variants:   t.variants,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (t *Type) GobDecode(data []byte) error {
	var w wireType
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return err
	}
	t.kind = w.Kind
	t.elem = w.Elem
	t.length = w.Length
	t.pointee = w.Pointee
	t.params = w.Params
	t.result = w.Result
	t.fields = w.Fields
	t.underlying = w.Underlying
	t.variants = w.Variants
	return nil
}
