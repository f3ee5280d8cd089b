package econ

import (
	"sort"

	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

// CalculateSynthesisFee returns the owner's cut of amount before the root
// pool split: floor(amount * 5/100).
func CalculateSynthesisFee(amount ndltypes.Tinybars) ndltypes.Tinybars {
	return amount * ndltypes.SynthesisFeeNumerator / ndltypes.SynthesisFeeDenominator
}

// CalculateRootPool returns the remainder after the synthesis fee is
// taken: the amount split pro-rata across root contributors.
func CalculateRootPool(amount ndltypes.Tinybars) ndltypes.Tinybars {
	return amount - CalculateSynthesisFee(amount)
}

// DistributeRevenue splits a payment of amount addressed to owner across
// the owner's synthesis fee and the root pool, weighted by each root
// contributor's provenance weight. The owner always receives the
// synthesis fee plus whatever dust is left after integer division, so
// the returned distributions sum to exactly amount. When the owner is
// itself a root contributor its two shares are merged into one entry.
func DistributeRevenue(amount ndltypes.Tinybars, owner ndlcrypto.PeerId, provenance []ndltypes.ProvenanceEntry) []ndltypes.Distribution {
	fee := CalculateSynthesisFee(amount)
	pool := amount - fee

	var totalWeight uint64
	for _, e := range provenance {
		totalWeight += uint64(e.Weight)
	}

	shares := make(map[ndlcrypto.PeerId]ndltypes.Tinybars, len(provenance)+1)
	var distributed ndltypes.Tinybars

	if totalWeight > 0 {
		for _, e := range provenance {
			share := ndltypes.Tinybars(uint64(pool) * uint64(e.Weight) / totalWeight)
			shares[e.Owner] += share
			distributed += share
		}
	}

	dust := amount - fee - distributed
	shares[owner] += fee + dust

	recipients := make([]ndlcrypto.PeerId, 0, len(shares))
	for r := range shares {
		recipients = append(recipients, r)
	}
	sort.Slice(recipients, func(i, j int) bool { return recipients[i].Less(recipients[j]) })

	out := make([]ndltypes.Distribution, 0, len(recipients))
	for _, r := range recipients {
		out = append(out, ndltypes.Distribution{Recipient: r, Amount: shares[r]})
	}
	return out
}
