package asmwriter

import (
	"fmt"
	"strings"
)

// ACMEEmitter renders assembly IR in the ACME cross-assembler's dialect —
// the reference dialect named in §4.9.
type ACMEEmitter struct{}

// Emit renders w's lines as ACME source text.
func (ACMEEmitter) Emit(w *Writer) string {
	var b strings.Builder
	for _, l := range w.Lines {
		switch l.Kind {
		case KindComment:
			fmt.Fprintf(&b, "; %s\n", l.Text)
		case KindDivider:
			fmt.Fprintf(&b, "; ---- %s ----\n", l.Text)
		case KindBlank:
			b.WriteByte('\n')
		case KindLabel:
			fmt.Fprintf(&b, "%s:\n", l.Label)
		case KindOrg:
			fmt.Fprintf(&b, "* = $%04X\n", l.Address)
		case KindAssign:
			fmt.Fprintf(&b, "%s = $%02X\n", l.Symbol, l.Address)
		case KindByte:
			fmt.Fprintf(&b, "\t!byte %s\n", joinHexBytes(l.Bytes))
		case KindWord:
			fmt.Fprintf(&b, "\t!word %s\n", joinHexWords(l.Words))
		case KindFill:
			fmt.Fprintf(&b, "\t!fill %d, $%02X\n", l.FillCount, l.FillValue)
		case KindReserve:
			fmt.Fprintf(&b, "\t* = * + %d\n", l.FillCount)
		case KindInstruction:
			emitInstruction(&b, l)
		}
	}
	return b.String()
}

func emitInstruction(b *strings.Builder, l Line) {
	var stmt string
	if l.Operand == "" {
		stmt = l.Mnemonic
	} else {
		stmt = l.Mnemonic + " " + l.Operand
	}
	if l.Comment != "" {
		fmt.Fprintf(b, "\t%-20s ; %s\n", stmt, l.Comment)
	} else {
		fmt.Fprintf(b, "\t%s\n", stmt)
	}
}

func joinHexBytes(values []uint8) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("$%02X", v)
	}
	return strings.Join(parts, ", ")
}

func joinHexWords(values []uint16) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("$%04X", v)
	}
	return strings.Join(parts, ", ")
}
