package ops

import (
	"context"
	"fmt"

	"github.com/nodalync/node/internal/capability"
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

// fakeChain is a minimal capability.SettlementChain double: OpenChannel
// and CloseChannel succeed trivially, Dispute records the call.
type fakeChain struct {
	disputed []ndlcrypto.Hash
}

func (c *fakeChain) Deposit(context.Context, ndltypes.Tinybars) (capability.TxID, error) {
	return "", nil
}
func (c *fakeChain) Withdraw(context.Context, ndltypes.Tinybars) (capability.TxID, error) {
	return "", nil
}
func (c *fakeChain) GetBalance(context.Context) (ndltypes.Tinybars, error) { return 0, nil }
func (c *fakeChain) Attest(context.Context, ndlcrypto.Hash, ndlcrypto.Hash) (capability.TxID, error) {
	return "", nil
}

func (c *fakeChain) OpenChannel(_ context.Context, _ ndlcrypto.PeerId, _ ndltypes.Tinybars) (ndlcrypto.Hash, error) {
	return ndlcrypto.Hash{}, nil
}

func (c *fakeChain) CloseChannel(context.Context, ndlcrypto.Hash, []byte, []ndlcrypto.Signature) (capability.TxID, error) {
	return "tx-close", nil
}

func (c *fakeChain) Dispute(_ context.Context, channelID ndlcrypto.Hash, _ []byte) error {
	c.disputed = append(c.disputed, channelID)
	return nil
}

func (c *fakeChain) CounterDispute(context.Context, ndlcrypto.Hash, []byte) error { return nil }
func (c *fakeChain) ResolveDispute(context.Context, ndlcrypto.Hash) error         { return nil }

func (c *fakeChain) SettleBatch(context.Context, ndltypes.SettlementBatch) (capability.TxID, error) {
	return "", nil
}

func (c *fakeChain) AccountFor(peer ndlcrypto.PeerId) (ndltypes.AccountId, error) {
	return ndltypes.AccountId(peer.String()), nil
}

// fakeExtractor is a capability.Extractor double that returns a fixed
// L1 payload derived from the input length, with no real extraction
// logic of its own.
type fakeExtractor struct{}

func (fakeExtractor) ExtractL1(_ context.Context, l0Content []byte) ([]byte, error) {
	return []byte(fmt.Sprintf("mentions-from-%d-bytes", len(l0Content))), nil
}
