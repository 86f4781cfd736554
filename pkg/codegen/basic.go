package codegen

import (
	"fmt"
	"strconv"
)

// BasicStubError reports an invalid SYS address or line number (§4.12).
type BasicStubError struct {
	Message string
}

func (e *BasicStubError) Error() string { return "basic stub: " + e.Message }

// BuildBasicStub renders the fixed-layout tokenized BASIC line that
// transfers control via SYS, per §4.12:
//
//	offset  contents                         size
//	 0..1   next-line pointer (little-end.)  2
//	 2..3   line number (little-end.)        2
//	 4      BASIC token SYS ($9E)            1
//	 5..    ASCII decimal SYS address digits d
//	 5+d    end-of-line marker ($00)         1
//	 6+d    end-of-program marker ($00 $00)  2
func BuildBasicStub(loadAddress uint16, lineNumber int, sysAddress int) ([]byte, error) {
	if sysAddress < 0 || sysAddress > 65535 {
		return nil, &BasicStubError{Message: fmt.Sprintf("sys address %d out of range [0, 65535]", sysAddress)}
	}
	if lineNumber < 0 || lineNumber > 63999 {
		return nil, &BasicStubError{Message: fmt.Sprintf("line number %d out of range [0, 63999]", lineNumber)}
	}

	digits := strconv.Itoa(sysAddress)
	size := 9 + len(digits)
	nextLine := int(loadAddress) + size - 2

	buf := make([]byte, 0, size)
	buf = append(buf, byte(nextLine&0xFF), byte(nextLine>>8&0xFF))
	buf = append(buf, byte(lineNumber&0xFF), byte(lineNumber>>8&0xFF))
	buf = append(buf, 0x9E)
	buf = append(buf, []byte(digits)...)
	buf = append(buf, 0x00)
	buf = append(buf, 0x00, 0x00)
	return buf, nil
}

// VerifyBasicStub parses buf as a BASIC stub and reports whether it matches
// the fixed layout BuildBasicStub produces, plus the first problem found.
func VerifyBasicStub(buf []byte, loadAddress uint16) (bool, string) {
	if len(buf) < 9 {
		return false, "too short"
	}
	if buf[4] != 0x9E {
		return false, "wrong SYS token"
	}

	end := 5
	for end < len(buf) && buf[end] != 0x00 {
		if buf[end] < '0' || buf[end] > '9' {
			return false, "missing address digits"
		}
		end++
	}
	if end == 5 {
		return false, "missing address digits"
	}
	if end >= len(buf) {
		return false, "missing address digits"
	}

	nextLine := int(buf[0]) | int(buf[1])<<8
	wantNextLine := int(loadAddress) + (end + 4) - 2
	if nextLine != wantNextLine {
		return false, "next-line-pointer mismatch"
	}

	return true, ""
}
