package capability

import (
	"context"
	"errors"

	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

// TxID is an opaque on-chain transaction identifier.
type TxID string

// SettlementChain is the on-chain collaborator consumed by the
// settlement batcher and the channel state machine. The core never
// references a specific chain; only transient-classification and
// error-code mapping are core concerns.
type SettlementChain interface {
	Deposit(ctx context.Context, amount ndltypes.Tinybars) (TxID, error)
	Withdraw(ctx context.Context, amount ndltypes.Tinybars) (TxID, error)
	GetBalance(ctx context.Context) (ndltypes.Tinybars, error)
	Attest(ctx context.Context, contentHash, provenanceRoot ndlcrypto.Hash) (TxID, error)

	OpenChannel(ctx context.Context, peer ndlcrypto.PeerId, deposit ndltypes.Tinybars) (ndlcrypto.Hash, error)
	CloseChannel(ctx context.Context, channelID ndlcrypto.Hash, finalState []byte, sigs []ndlcrypto.Signature) (TxID, error)
	Dispute(ctx context.Context, channelID ndlcrypto.Hash, state []byte) error
	CounterDispute(ctx context.Context, channelID ndlcrypto.Hash, betterState []byte) error
	ResolveDispute(ctx context.Context, channelID ndlcrypto.Hash) error

	SettleBatch(ctx context.Context, batch ndltypes.SettlementBatch) (TxID, error)

	// AccountFor maps a protocol PeerId to its on-chain AccountId.
	AccountFor(peer ndlcrypto.PeerId) (ndltypes.AccountId, error)
}

// transientError is implemented by chain errors that classify
// themselves as transient (network, timeout — eligible for retry) or
// permanent (malformed batch, insufficient chain balance — moved to the
// dead-letter set). Only this classification is a core concern; the rest
// of chain-error semantics belongs to the concrete adapter.
type transientError interface {
	Transient() bool
}

// IsTransient classifies a settlement error as transient.
func IsTransient(err error) bool {
	var t transientError
	if errors.As(err, &t) {
		return t.Transient()
	}
	return false
}
