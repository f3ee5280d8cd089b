package validate

import "github.com/nodalync/node/internal/ndltypes"

// Provenance checks provenance shape.
//
// L0: exactly one self-referential entry.
// L3: non-empty; total weight must be > 0; depth must not exceed
// MaxProvenanceDepth; and, when sourceDepths (source hash → depth of the
// manifests the derive call was given) is non-empty, depth must equal
// 1 + max(source depth). The entries are not compared against the
// source hashes: whether every source is referenced is not checked.
func Provenance(m ndltypes.Manifest, sourceDepths map[string]uint32) error {
	switch m.ContentType {
	case ndltypes.ContentL0:
		if !m.Provenance.IsL0(m.Hash) {
			return fail(CheckProvenance, "provenance", "L0 content must carry exactly one self-referential entry")
		}
		return nil
	case ndltypes.ContentL3:
		if len(m.Provenance.Entries) == 0 {
			return fail(CheckProvenance, "provenance.entries", "L3 content must carry non-empty provenance")
		}
		if m.Provenance.TotalWeight() == 0 {
			return fail(CheckProvenance, "provenance.entries", "provenance weight sum must be > 0")
		}
		if m.Provenance.Depth > ndltypes.MaxProvenanceDepth {
			return fail(CheckProvenance, "provenance.depth", "provenance depth exceeds MaxProvenanceDepth")
		}
		var maxSourceDepth uint32
		for _, d := range sourceDepths {
			if d > maxSourceDepth {
				maxSourceDepth = d
			}
		}
		if len(sourceDepths) > 0 && m.Provenance.Depth != maxSourceDepth+1 {
			return fail(CheckProvenance, "provenance.depth", "depth must equal 1 + max(source depth)")
		}
		return nil
	default:
		// L1/L2 carry provenance but its shape beyond what
		// Manifest.StructurallyValid already checks is unconstrained.
		return nil
	}
}
