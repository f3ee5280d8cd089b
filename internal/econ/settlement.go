package econ

import (
	"sort"
	"time"

	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

// ShouldSettle reports whether a settlement batch should be formed now:
// either the pending total has crossed SettlementBatchThreshold, or at
// least SettlementBatchInterval has elapsed since the last settlement.
func ShouldSettle(pendingTotal ndltypes.Tinybars, elapsedSinceLast time.Duration) bool {
	return pendingTotal >= ndltypes.SettlementBatchThreshold || elapsedSinceLast >= ndltypes.SettlementBatchInterval
}

// CalculatePendingTotal sums the amount of every queued distribution.
func CalculatePendingTotal(pending []ndltypes.QueuedDistribution) ndltypes.Tinybars {
	var total ndltypes.Tinybars
	for _, d := range pending {
		total += d.Amount
	}
	return total
}

// AccountResolver maps a protocol PeerId to the on-chain AccountId it
// should be paid to, so the batcher never needs chain access directly.
type AccountResolver func(recipient ndlcrypto.PeerId) (ndltypes.AccountId, error)

// CreateSettlementBatch aggregates a set of queued distributions by
// recipient into SettlementEntry rows, sorted by recipient PeerId byte
// order for determinism, and computes the batch's Merkle root and id.
func CreateSettlementBatch(pending []ndltypes.QueuedDistribution, accountFor AccountResolver) (ndltypes.SettlementBatch, error) {
	if len(pending) == 0 {
		return ndltypes.SettlementBatch{}, nil
	}

	type bucket struct {
		account    ndltypes.AccountId
		amount     ndltypes.Tinybars
		paymentIDs []ndlcrypto.Hash
		sources    []ndlcrypto.Hash
	}
	byRecipient := make(map[ndlcrypto.PeerId]*bucket)
	recipients := make([]ndlcrypto.PeerId, 0)

	for _, d := range pending {
		b, ok := byRecipient[d.Recipient]
		if !ok {
			account, err := accountFor(d.Recipient)
			if err != nil {
				return ndltypes.SettlementBatch{}, err
			}
			b = &bucket{account: account}
			byRecipient[d.Recipient] = b
			recipients = append(recipients, d.Recipient)
		}
		b.amount += d.Amount
		b.paymentIDs = append(b.paymentIDs, d.PaymentID)
		b.sources = append(b.sources, d.SourceHash)
	}

	sort.Slice(recipients, func(i, j int) bool { return recipients[i].Less(recipients[j]) })

	entries := make([]ndltypes.SettlementEntry, 0, len(recipients))
	for _, r := range recipients {
		b := byRecipient[r]
		entries = append(entries, ndltypes.SettlementEntry{
			Recipient:        b.account,
			Amount:           b.amount,
			SourcePaymentIDs: b.paymentIDs,
			ProvenancePath:   b.sources,
		})
	}

	return ndltypes.SettlementBatch{
		BatchID:    ComputeBatchID(entries),
		Entries:    entries,
		MerkleRoot: ComputeMerkleRoot(entries),
	}, nil
}
