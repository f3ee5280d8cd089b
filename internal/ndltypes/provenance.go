package ndltypes

import (
	"sort"

	"github.com/nodalync/node/internal/ndlcrypto"
)

// ProvenanceEntry is one root contributor in a manifest's weighted
// provenance DAG.
type ProvenanceEntry struct {
	Hash ndlcrypto.Hash `json:"hash"`
	Owner ndlcrypto.PeerId `json:"owner"`
	Visibility Visibility `json:"visibility"`
	Weight uint32 `json:"weight"`
}

// NewProvenanceEntry constructs a ProvenanceEntry with an explicit weight,
// mirroring the original's `ProvenanceEntry::with_weight` helper.
func NewProvenanceEntry(hash ndlcrypto.Hash, owner ndlcrypto.PeerId, vis Visibility, weight uint32) ProvenanceEntry {
	return ProvenanceEntry{Hash: hash, Owner: owner, Visibility: vis, Weight: weight}
}

// Provenance is the full provenance record carried by a manifest.
// For L0, Entries holds exactly one self-referential entry. For L3,
// Entries holds the merged root contributors and Depth records the
// derivation depth.
type Provenance struct {
	Entries []ProvenanceEntry `json:"entries"`
	Depth uint32 `json:"depth"`
}

// NewL0Provenance builds the single self-referential entry an L0
// manifest must carry.
func NewL0Provenance(ownHash ndlcrypto.Hash, owner ndlcrypto.PeerId) Provenance {
	return Provenance{
		Entries: []ProvenanceEntry{
			NewProvenanceEntry(ownHash, owner, VisibilityShared, 1),
		},
		Depth: 0,
	}
}

// IsL0 reports whether this provenance has the L0 shape: exactly one
// entry whose hash is selfHash.
func (p Provenance) IsL0(selfHash ndlcrypto.Hash) bool {
	return len(p.Entries) == 1 && p.Entries[0].Hash == selfHash
}

// TotalWeight sums the weight across all entries.
func (p Provenance) TotalWeight() uint32 {
	var total uint32
	for _, e := range p.Entries {
		total += e.Weight
	}
	return total
}

// UniqueOwners returns the distinct owners across all entries, sorted by
// PeerId byte order.
func (p Provenance) UniqueOwners() []ndlcrypto.PeerId {
	seen := make(map[ndlcrypto.PeerId]struct{}, len(p.Entries))
	owners := make([]ndlcrypto.PeerId, 0, len(p.Entries))
	for _, e := range p.Entries {
		if _, ok := seen[e.Owner]; ok {
			continue
		}
		seen[e.Owner] = struct{}{}
		owners = append(owners, e.Owner)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i].Less(owners[j]) })
	return owners
}

// MergeProvenanceEntries merges a flat list of entries by hash, summing
// weights and keeping the maximum visibility observed per hash. The
// result is sorted by hash, so it is the same for any input order.
func MergeProvenanceEntries(all []ProvenanceEntry) []ProvenanceEntry {
	type accum struct {
		entry ProvenanceEntry
		order int
	}
	byHash := make(map[ndlcrypto.Hash]*accum, len(all))
	order := 0
	for _, e := range all {
		if existing, ok := byHash[e.Hash]; ok {
			existing.entry.Weight += e.Weight
			existing.entry.Visibility = existing.entry.Visibility.Max(e.Visibility)
			continue
		}
		byHash[e.Hash] = &accum{entry: e, order: order}
		order++
	}
	merged := make([]ProvenanceEntry, 0, len(byHash))
	for _, a := range byHash {
		merged = append(merged, a.entry)
	}
	// Deterministic output order (by hash bytes) regardless of input
	// order or Go's randomized map iteration.
	sort.Slice(merged, func(i, j int) bool {
		return bytesLess(merged[i].Hash[:], merged[j].Hash[:])
	})
	return merged
}

func bytesLess(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
