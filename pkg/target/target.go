// Package target describes the architecture-specific constants the code
// generator needs: load addresses, the BASIC autostart address, and the
// zero-page range available to the allocator (§6.1, §6.3).
package target

import "fmt"

// ID names a supported (or accepted-but-unimplemented) compilation target.
type ID string

const (
	C64  ID = "c64"
	C128 ID = "c128"
	X16  ID = "x16"
)

// Descriptor is the architecture record codegen options carry (§6.1).
type Descriptor struct {
	ID ID
	// Name is the human-readable name printed in the assembly header.
	Name string
	// CodeStart is the address code resumes at after a BASIC stub, and the
	// SYS address that stub jumps to. Without a stub, code is emitted at
	// the load address instead.
	CodeStart uint16
	// BasicStart is the address the loader expects a tokenized BASIC
	// program at; basic_stub is enabled by default iff load_address equals
	// this.
	BasicStart uint16
	// ZeroPageLo/ZeroPageHi bound the user-allocatable zero-page range,
	// inclusive.
	ZeroPageLo uint8
	ZeroPageHi uint8
	// Implemented is false for targets accepted by configuration parsing
	// but not supported by code generation (of the known targets: x16).
	Implemented bool
}

// ZeroPageSize returns the number of bytes available to the global allocator.
func (d Descriptor) ZeroPageSize() int {
	return int(d.ZeroPageHi) - int(d.ZeroPageLo) + 1
}

// descriptors holds every known target, keyed by ID.
var descriptors = map[ID]Descriptor{
	C64: {
		ID:          C64,
		Name:        "Commodore 64",
		CodeStart:   0xC000,
		BasicStart:  0x0801,
		ZeroPageLo:  0x0A,
		ZeroPageHi:  0x8F,
		Implemented: true,
	},
	C128: {
		ID:          C128,
		Name:        "Commodore 128",
		CodeStart:   0x4000,
		BasicStart:  0x1C01,
		ZeroPageLo:  0x0A,
		ZeroPageHi:  0x7F,
		Implemented: true,
	},
	X16: {
		ID:          X16,
		Name:        "Commander X16",
		CodeStart:   0x0810,
		BasicStart:  0x0801,
		ZeroPageLo:  0x22,
		ZeroPageHi:  0x7F,
		Implemented: false,
	},
}

// Lookup returns the descriptor for id, or an error if id is unknown.
func Lookup(id ID) (Descriptor, error) {
	d, ok := descriptors[id]
	if !ok {
		return Descriptor{}, fmt.Errorf("target: unknown target %q", id)
	}
	return d, nil
}

// MustLookup panics if id is unknown; reserved for call sites that have
// already validated id via configuration parsing.
func MustLookup(id ID) Descriptor {
	d, err := Lookup(id)
	if err != nil {
		panic(err)
	}
	return d
}
