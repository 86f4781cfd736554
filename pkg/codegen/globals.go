package codegen

import "fmt"

// GlobalAddress is the resolved placement of one module-level variable.
type GlobalAddress struct {
	Address    uint16
	IsZeroPage bool
}

// GlobalAllocator hands out placements for module globals per storage
// class (§4.7). Zero-page addresses come from the target's reserved user
// range; Data and RAM globals share a running program-counter that starts
// wherever the code generator's Data/RAM section begins in the emitted
// assembly stream.
type GlobalAllocator struct {
	zpNext     uint16
	zpHi       uint16
	zpBytes    int
	runningPC  uint16
	dataSize   int
	addresses  map[string]GlobalAddress
	warnings   []string
}

// NewGlobalAllocator creates an allocator for the given target's zero-page
// range, with the Data/RAM running program counter starting at startPC.
func NewGlobalAllocator(zpLo, zpHi uint8, startPC uint16) *GlobalAllocator {
	return &GlobalAllocator{
		zpNext:    uint16(zpLo),
		zpHi:      uint16(zpHi),
		runningPC: startPC,
		addresses: make(map[string]GlobalAddress),
	}
}

// AllocateZeroPage places name at the next free zero-page address. It
// refuses and emits a warning (continuing to accept later allocations) if
// the variable would cross the reserved range's boundary.
func (a *GlobalAllocator) AllocateZeroPage(name string, sizeBytes int) (uint16, bool) {
	end := a.zpNext + uint16(sizeBytes) - 1
	if end > a.zpHi {
		a.warnings = append(a.warnings, fmt.Sprintf("zero page exhausted: cannot place %q (%d bytes)", name, sizeBytes))
		return 0, false
	}
	addr := a.zpNext
	a.zpNext += uint16(sizeBytes)
	a.zpBytes += sizeBytes
	a.addresses[name] = GlobalAddress{Address: addr, IsZeroPage: true}
	return addr, true
}

// AllocateData places an initialized global at the current running address
// and advances it by sizeBytes.
func (a *GlobalAllocator) AllocateData(name string, sizeBytes int) uint16 {
	addr := a.runningPC
	a.runningPC += uint16(sizeBytes)
	a.dataSize += sizeBytes
	a.addresses[name] = GlobalAddress{Address: addr, IsZeroPage: false}
	return addr
}

// AllocateRAM reserves space for an uninitialized global at the current
// running address.
func (a *GlobalAllocator) AllocateRAM(name string, sizeBytes int) uint16 {
	addr := a.runningPC
	a.runningPC += uint16(sizeBytes)
	a.dataSize += sizeBytes
	a.addresses[name] = GlobalAddress{Address: addr, IsZeroPage: false}
	return addr
}

// AllocateMap records a fixed, user-declared address for a memory-mapped
// global without consuming any allocator space.
func (a *GlobalAllocator) AllocateMap(name string, address uint16) {
	a.addresses[name] = GlobalAddress{Address: address, IsZeroPage: false}
}

// Lookup returns the resolved placement of name, if any.
func (a *GlobalAllocator) Lookup(name string) (GlobalAddress, bool) {
	addr, ok := a.addresses[name]
	return addr, ok
}

// NextAddress returns the running program counter after all Data/RAM
// allocations, i.e. where the code generator should continue emitting.
func (a *GlobalAllocator) NextAddress() uint16 { return a.runningPC }

// ZeroPageBytesUsed returns the number of zero-page bytes allocated.
func (a *GlobalAllocator) ZeroPageBytesUsed() int { return a.zpBytes }

// DataSize returns the combined size of Data and RAM sections in bytes.
func (a *GlobalAllocator) DataSize() int { return a.dataSize }

// Warnings returns every warning recorded so far.
func (a *GlobalAllocator) Warnings() []string { return append([]string(nil), a.warnings...) }
