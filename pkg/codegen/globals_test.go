package codegen

import "testing"

func TestAllocateZeroPageSequentialAndBounded(t *testing.T) {
	a := NewGlobalAllocator(0x0A, 0x0B, 0xC000) // only 2 bytes available

	addr1, ok1 := a.AllocateZeroPage("flag", 1)
	if !ok1 || addr1 != 0x0A {
		t.Fatalf("first allocation = (%#x, %v), want (0xA, true)", addr1, ok1)
	}
	addr2, ok2 := a.AllocateZeroPage("counter", 1)
	if !ok2 || addr2 != 0x0B {
		t.Fatalf("second allocation = (%#x, %v), want (0xB, true)", addr2, ok2)
	}
	if _, ok3 := a.AllocateZeroPage("overflow", 1); ok3 {
		t.Fatal("expected zero page exhaustion to refuse placement")
	}
	if len(a.Warnings()) != 1 {
		t.Fatalf("Warnings() len = %d, want 1", len(a.Warnings()))
	}
	if a.ZeroPageBytesUsed() != 2 {
		t.Errorf("ZeroPageBytesUsed() = %d, want 2", a.ZeroPageBytesUsed())
	}
}

func TestAllocateDataAndRAMShareRunningCounter(t *testing.T) {
	a := NewGlobalAllocator(0x0A, 0x8F, 0xC000)

	dataAddr := a.AllocateData("score", 2)
	if dataAddr != 0xC000 {
		t.Errorf("data address = %#x, want 0xC000", dataAddr)
	}
	ramAddr := a.AllocateRAM("buffer", 4)
	if ramAddr != 0xC002 {
		t.Errorf("ram address = %#x, want 0xC002", ramAddr)
	}
	if a.DataSize() != 6 {
		t.Errorf("DataSize() = %d, want 6", a.DataSize())
	}
	if a.NextAddress() != 0xC006 {
		t.Errorf("NextAddress() = %#x, want 0xC006", a.NextAddress())
	}
}

func TestAllocateMapRecordsFixedAddressWithoutConsumingSpace(t *testing.T) {
	a := NewGlobalAllocator(0x0A, 0x8F, 0xC000)
	a.AllocateMap("border", 0xD020)

	addr, ok := a.Lookup("border")
	if !ok || addr.Address != 0xD020 || addr.IsZeroPage {
		t.Errorf("Lookup(border) = %+v, %v, want {0xD020 false}, true", addr, ok)
	}
	if a.NextAddress() != 0xC000 {
		t.Errorf("NextAddress() = %#x, want unchanged at 0xC000", a.NextAddress())
	}
}

func TestLookupMissingGlobal(t *testing.T) {
	a := NewGlobalAllocator(0x0A, 0x8F, 0xC000)
	if _, ok := a.Lookup("nonexistent"); ok {
		t.Fatal("expected Lookup to fail for an unallocated name")
	}
}
