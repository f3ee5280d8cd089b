package ndltypes

import "github.com/nodalync/node/internal/ndlcrypto"

// Channel is a bilateral off-chain payment channel.
//
// Invariant: MyBalance + TheirBalance equals the funded deposit minus
// whatever has already been settled out on-chain, for the life of the
// channel (deposits aside).
type Channel struct {
	ChannelID       ndlcrypto.Hash   `json:"channelId"`
	PeerID          ndlcrypto.PeerId `json:"peerId"`
	State           ChannelState     `json:"state"`
	MyBalance       Tinybars         `json:"myBalance"`
	TheirBalance    Tinybars         `json:"theirBalance"`
	Nonce           uint64           `json:"nonce"`
	PendingPayments []Payment        `json:"pendingPayments,omitempty"`
	FundingTxID     *string          `json:"fundingTxId,omitempty"`

	// LastSignedUpdate retains the highest-nonce signed state blob as
	// dispute evidence. Nil until at least one update has
	// been accepted.
	LastSignedUpdate []byte `json:"lastSignedUpdate,omitempty"`
}

// Total returns the conserved sum MyBalance + TheirBalance.
func (c Channel) Total() Tinybars {
	return c.MyBalance + c.TheirBalance
}

// AcceptsPayments reports whether the channel is in a state that can
// carry new payments — only Open channels do.
func (c Channel) AcceptsPayments() bool {
	return c.State == ChannelOpen
}
