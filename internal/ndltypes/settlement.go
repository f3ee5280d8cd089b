package ndltypes

import "github.com/nodalync/node/internal/ndlcrypto"

// AccountId identifies a recipient on the settlement chain. It is
// opaque to the core — the settlement capability maps PeerId to
// AccountId.
type AccountId string

// SettlementEntry aggregates one recipient's earnings into a single
// on-chain transfer line.
type SettlementEntry struct {
	Recipient        AccountId        `json:"recipient"`
	Amount           Tinybars         `json:"amount"`
	SourcePaymentIDs []ndlcrypto.Hash `json:"sourcePaymentIds"`
	ProvenancePath   []ndlcrypto.Hash `json:"provenancePath"`
}

// SettlementBatch is a Merkle-rooted unit of on-chain settlement.
type SettlementBatch struct {
	BatchID    ndlcrypto.Hash     `json:"batchId"`
	Entries    []SettlementEntry `json:"entries"`
	MerkleRoot ndlcrypto.Hash     `json:"merkleRoot"`
}

// IsEmpty reports whether the batch carries no entries.
func (b SettlementBatch) IsEmpty() bool {
	return len(b.Entries) == 0
}

// TotalAmount sums every entry's amount.
func (b SettlementBatch) TotalAmount() Tinybars {
	var total Tinybars
	for _, e := range b.Entries {
		total += e.Amount
	}
	return total
}

// QueuedDistribution is one pending row in the settlement queue,
// before it has been aggregated into a batch.
type QueuedDistribution struct {
	PaymentID  ndlcrypto.Hash   `json:"paymentId"`
	Recipient  ndlcrypto.PeerId `json:"recipient"`
	Amount     Tinybars         `json:"amount"`
	SourceHash ndlcrypto.Hash   `json:"sourceHash"`
	QueuedAt   int64            `json:"queuedAt"`
}

// CachedContent is locally-stored evidence that payment was made for a
// hash, which is the sole authorization for downstream derivation.
type CachedContent struct {
	Hash       ndlcrypto.Hash   `json:"hash"`
	Bytes      []byte           `json:"-"`
	SourcePeer ndlcrypto.PeerId `json:"sourcePeer"`
	QueriedAt  int64            `json:"queriedAt"`
	Receipt    PaymentReceipt   `json:"receipt"`
}
