package ssa

import "github.com/blendsdk/blend65-sub005/pkg/il"

// TransformOptions configures a single run of Transform.
type TransformOptions struct {
	// SkipVerification disables the post-rename duplicate-register and
	// phi-arity check (§7's skip_verification knob).
	SkipVerification bool
}

// Result bundles everything produced by one SSA construction run over a
// function, for callers that want to inspect intermediate analysis (tests,
// diagnostics, the `verify-ssa` CLI subcommand) rather than just the
// mutated function.
type Result struct {
	Dominators *DominatorTree
	Frontier   DominanceFrontier
	Placement  PhiPlacement
	Rename     RenameResult
}

// Transform runs the full SSA construction pipeline over fn in place (§4.1
// through §4.4): dominator tree, dominance frontiers, phi placement, and
// renaming. fn's LOAD_VAR/STORE_VAR instructions for locals are replaced
// with direct register references and PHI instructions at merge points;
// LOAD_VAR/STORE_VAR of module-level globals are left untouched.
func Transform(fn *il.Function, opts TransformOptions) (*Result, error) {
	tree := BuildDominatorTree(fn)
	frontier := BuildDominanceFrontier(fn, tree)
	placement := PlacePhis(fn, frontier)
	renameStats := Rename(fn, tree, placement)

	if !opts.SkipVerification {
		if err := Verify(fn); err != nil {
			return nil, err
		}
	}

	return &Result{
		Dominators: tree,
		Frontier:   frontier,
		Placement:  placement,
		Rename:     renameStats,
	}, nil
}
