package codegen

import "testing"

func TestBuildBasicStubMatchesC64Schema(t *testing.T) {
	// load=0x0801, sys=0x0810: digits "2064", stub size = 9 + 4 = 13,
	// next-line pointer = 0x0801 + 13 - 2 = 0x080C.
	stub, err := BuildBasicStub(0x0801, 10, 0x0810)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub[4] != 0x9E {
		t.Errorf("stub[4] = %#x, want SYS token 0x9E", stub[4])
	}
	if string(stub[5:9]) != "2064" {
		t.Fatalf("stub[5:9] = %q, want 2064 (decimal digits of 0x0810)", string(stub[5:9]))
	}
	nextLine := int(stub[0]) | int(stub[1])<<8
	if nextLine != 0x080C {
		t.Errorf("next-line pointer = %#x, want 0x080C", nextLine)
	}
	if stub[len(stub)-3] != 0x00 || stub[len(stub)-2] != 0x00 || stub[len(stub)-1] != 0x00 {
		t.Errorf("expected end-of-line and end-of-program markers, got %v", stub[len(stub)-3:])
	}
}

func TestBuildBasicStubRejectsOutOfRangeAddresses(t *testing.T) {
	if _, err := BuildBasicStub(0x0801, 10, -1); err == nil {
		t.Error("expected error for negative sys address")
	}
	if _, err := BuildBasicStub(0x0801, 10, 65536); err == nil {
		t.Error("expected error for sys address above 65535")
	}
	if _, err := BuildBasicStub(0x0801, 64000, 0xC000); err == nil {
		t.Error("expected error for line number above 63999")
	}
}

func TestVerifyBasicStubRoundTrips(t *testing.T) {
	stub, err := BuildBasicStub(0x0801, 10, 0xC000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ok, reason := VerifyBasicStub(stub, 0x0801)
	if !ok {
		t.Fatalf("expected valid stub, got reason %q", reason)
	}
}

func TestVerifyBasicStubCatchesCorruption(t *testing.T) {
	stub, _ := BuildBasicStub(0x0801, 10, 0xC000)

	tooShort := stub[:3]
	if ok, reason := VerifyBasicStub(tooShort, 0x0801); ok || reason != "too short" {
		t.Errorf("truncated stub = (%v, %q), want (false, too short)", ok, reason)
	}

	wrongToken := append([]byte(nil), stub...)
	wrongToken[4] = 0x00
	if ok, reason := VerifyBasicStub(wrongToken, 0x0801); ok || reason != "wrong SYS token" {
		t.Errorf("wrong-token stub = (%v, %q), want (false, wrong SYS token)", ok, reason)
	}

	badPointer := append([]byte(nil), stub...)
	badPointer[0]++
	if ok, reason := VerifyBasicStub(badPointer, 0x0801); ok || reason != "next-line-pointer mismatch" {
		t.Errorf("corrupted pointer stub = (%v, %q), want (false, next-line-pointer mismatch)", ok, reason)
	}
}
