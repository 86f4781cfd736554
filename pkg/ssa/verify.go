package ssa

import (
	"fmt"

	"github.com/blendsdk/blend65-sub005/pkg/il"
)

// VerificationError reports a broken SSA invariant found after renaming
// (§7 "Verification error"): normally unreachable unless the renamer or a
// later pass has a bug.
type VerificationError struct {
	Function string
	Message  string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("ssa: verification failed in function %q: %s", e.Function, e.Message)
}

// Verify checks that every virtual register in fn is defined by at most one
// instruction and that every PHI instruction has exactly one operand per
// predecessor block. It is the optional downstream checker named in §7; the
// renamer itself is trusted to produce correct output, but callers that
// skip_verification should not call this.
func Verify(fn *il.Function) error {
	defined := make(map[uint32]bool)
	for _, id := range fn.BlockIDs() {
		b := fn.Blocks[id]
		for _, in := range b.Instructions {
			if in.Result != nil {
				if defined[in.Result.ID] {
					return &VerificationError{Function: fn.Name, Message: fmt.Sprintf("register v%d defined more than once", in.Result.ID)}
				}
				defined[in.Result.ID] = true
			}
			if in.Op == il.OpPhi {
				if len(in.PhiOperands) != len(b.Preds) {
					return &VerificationError{
						Function: fn.Name,
						Message: fmt.Sprintf("block %d phi v%d has %d operands, want %d (one per predecessor)",
							id, in.Result.ID, len(in.PhiOperands), len(b.Preds)),
					}
				}
			}
		}
	}
	return nil
}
