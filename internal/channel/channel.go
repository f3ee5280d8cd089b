package channel

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/nodalync/node/internal/capability"
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

// Machine drives the payment channel state machine against a Store.
// It holds a clock, but no transition reads it: channel transitions are
// timestamp-independent.
type Machine struct {
	store Store
	clock capability.Clock
	self  ndlcrypto.PeerId
}

// New constructs a Machine for the local peer self.
func New(store Store, clock capability.Clock, self ndlcrypto.PeerId) Machine {
	return Machine{store: store, clock: clock, self: self}
}

// DeriveChannelID computes a channel's id from the two participants,
// sorted into byte order so both sides compute the same id regardless
// of who initiated, and the initiator's open nonce.
func DeriveChannelID(peerA, peerB ndlcrypto.PeerId, openNonce uint64) ndlcrypto.Hash {
	first, second := peerA, peerB
	if second.Less(first) {
		first, second = second, first
	}
	buf := make([]byte, 0, 20+20+8)
	buf = append(buf, first[:]...)
	buf = append(buf, second[:]...)
	var nonceBytes [8]byte
	binary.BigEndian.PutUint64(nonceBytes[:], openNonce)
	buf = append(buf, nonceBytes[:]...)
	return ndlcrypto.ContentHash(buf)
}

// Open creates the local Opening-state record for a channel the local
// peer is initiating, funded with deposit. Fails ErrChannelAlreadyExists
// if a channel with peer is already Opening or Open.
func (m Machine) Open(ctx context.Context, peer ndlcrypto.PeerId, deposit ndltypes.Tinybars, openNonce uint64) (ndltypes.Channel, error) {
	if _, exists, err := m.store.FindOpenByPeer(ctx, peer); err != nil {
		return ndltypes.Channel{}, err
	} else if exists {
		return ndltypes.Channel{}, ErrChannelAlreadyExists
	}

	ch := ndltypes.Channel{
		ChannelID:    DeriveChannelID(m.self, peer, openNonce),
		PeerID:       peer,
		State:        ndltypes.ChannelOpening,
		MyBalance:    deposit,
		TheirBalance: 0,
		Nonce:        0,
	}
	if err := m.store.Put(ctx, ch); err != nil {
		return ndltypes.Channel{}, err
	}
	return ch, nil
}

// Accept records the counterparty's mirror row for a channel opened by
// peer and moves both sides to Open. The counterparty's balances are
// mirrored: what the initiator calls MyBalance is TheirBalance here.
func (m Machine) Accept(ctx context.Context, channelID ndlcrypto.Hash, initiator ndlcrypto.PeerId, deposit ndltypes.Tinybars) (ndltypes.Channel, error) {
	if _, exists, err := m.store.FindOpenByPeer(ctx, initiator); err != nil {
		return ndltypes.Channel{}, err
	} else if exists {
		return ndltypes.Channel{}, ErrChannelAlreadyExists
	}

	ch := ndltypes.Channel{
		ChannelID:    channelID,
		PeerID:       initiator,
		State:        ndltypes.ChannelOpen,
		MyBalance:    0,
		TheirBalance: deposit,
		Nonce:        0,
	}
	if err := m.store.Put(ctx, ch); err != nil {
		return ndltypes.Channel{}, err
	}
	return ch, nil
}

// ConfirmOpen transitions the initiator's own Opening record to Open
// once the counterparty has accepted.
func (m Machine) ConfirmOpen(ctx context.Context, channelID ndlcrypto.Hash) (ndltypes.Channel, error) {
	ch, err := m.store.Get(ctx, channelID)
	if err != nil {
		return ndltypes.Channel{}, err
	}
	if ch.State != ndltypes.ChannelOpening {
		return ndltypes.Channel{}, ErrNotOpen
	}
	ch.State = ndltypes.ChannelOpen
	if err := m.store.Put(ctx, ch); err != nil {
		return ndltypes.Channel{}, err
	}
	return ch, nil
}

// ApplyUpdate applies a signed payment as payer: a transfer of
// payment.Amount from the payer's balance to the payee's, gated by
// strict nonce monotonicity, non-negative balances, and a valid
// signature. payerIsSelf tells ApplyUpdate which side of the local record
// the caller occupies — the same channel row serves as payer or payee
// state depending on who is applying it.
func (m Machine) ApplyUpdate(ctx context.Context, channelID ndlcrypto.Hash, nonce uint64, amount ndltypes.Tinybars, payerIsSelf bool, signerPub ndlcrypto.PublicKey, signature ndlcrypto.Signature, signedBlob []byte) (ndltypes.Channel, error) {
	ch, err := m.store.Get(ctx, channelID)
	if err != nil {
		return ndltypes.Channel{}, err
	}
	if !ch.AcceptsPayments() {
		return ndltypes.Channel{}, ErrNotOpen
	}
	if nonce != ch.Nonce+1 {
		return ndltypes.Channel{}, ErrNonceReplay
	}
	if !ndlcrypto.Verify(signerPub, signedBlob, signature) {
		return ndltypes.Channel{}, ErrInvalidSignature
	}

	var payerBalance, payeeBalance *ndltypes.Tinybars
	if payerIsSelf {
		payerBalance, payeeBalance = &ch.MyBalance, &ch.TheirBalance
	} else {
		payerBalance, payeeBalance = &ch.TheirBalance, &ch.MyBalance
	}
	if *payerBalance < amount {
		return ndltypes.Channel{}, ErrInsufficientBalance
	}

	*payerBalance -= amount
	*payeeBalance += amount
	ch.Nonce = nonce
	ch.LastSignedUpdate = signedBlob

	if err := m.store.Put(ctx, ch); err != nil {
		return ndltypes.Channel{}, err
	}
	return ch, nil
}

// CooperativeClose moves an Open channel to Closing ahead of on-chain
// submission of the mutually-signed final state.
func (m Machine) CooperativeClose(ctx context.Context, channelID ndlcrypto.Hash) (ndltypes.Channel, error) {
	ch, err := m.store.Get(ctx, channelID)
	if err != nil {
		return ndltypes.Channel{}, err
	}
	if ch.State != ndltypes.ChannelOpen {
		return ndltypes.Channel{}, ErrNotOpen
	}
	ch.State = ndltypes.ChannelClosing
	if err := m.store.Put(ctx, ch); err != nil {
		return ndltypes.Channel{}, err
	}
	return ch, nil
}

// FinalizeClose moves a Closing (or Disputed, once resolved) channel to
// Closed after the on-chain submission confirms.
func (m Machine) FinalizeClose(ctx context.Context, channelID ndlcrypto.Hash) (ndltypes.Channel, error) {
	ch, err := m.store.Get(ctx, channelID)
	if err != nil {
		return ndltypes.Channel{}, err
	}
	if ch.State != ndltypes.ChannelClosing && ch.State != ndltypes.ChannelDisputed {
		return ndltypes.Channel{}, ErrNotOpen
	}
	ch.State = ndltypes.ChannelClosed
	if err := m.store.Put(ctx, ch); err != nil {
		return ndltypes.Channel{}, err
	}
	return ch, nil
}

// Dispute moves an Open channel to Disputed unilaterally, on the basis
// of the highest-nonce signed state the disputing side holds.
func (m Machine) Dispute(ctx context.Context, channelID ndlcrypto.Hash) (ndltypes.Channel, error) {
	ch, err := m.store.Get(ctx, channelID)
	if err != nil {
		return ndltypes.Channel{}, err
	}
	if ch.State != ndltypes.ChannelOpen {
		return ndltypes.Channel{}, ErrNotOpen
	}
	ch.State = ndltypes.ChannelDisputed
	if err := m.store.Put(ctx, ch); err != nil {
		return ndltypes.Channel{}, err
	}
	return ch, nil
}

// CounterDispute replaces a Disputed channel's state with a
// higher-nonce signed state published within the dispute window.
// Anything at or below the recorded nonce is rejected as stale.
func (m Machine) CounterDispute(ctx context.Context, channelID ndlcrypto.Hash, nonce uint64, myBalance, theirBalance ndltypes.Tinybars, signedBlob []byte) (ndltypes.Channel, error) {
	ch, err := m.store.Get(ctx, channelID)
	if err != nil {
		return ndltypes.Channel{}, err
	}
	if ch.State != ndltypes.ChannelDisputed {
		return ndltypes.Channel{}, ErrNotOpen
	}
	if nonce <= ch.Nonce {
		return ndltypes.Channel{}, ErrStaleState
	}
	if myBalance+theirBalance != ch.Total() {
		return ndltypes.Channel{}, fmt.Errorf("channel: counter-dispute state does not conserve balance")
	}
	ch.Nonce = nonce
	ch.MyBalance = myBalance
	ch.TheirBalance = theirBalance
	ch.LastSignedUpdate = signedBlob
	if err := m.store.Put(ctx, ch); err != nil {
		return ndltypes.Channel{}, err
	}
	return ch, nil
}

// Resolve moves a Disputed channel to Closed once the dispute window
// has elapsed and the on-chain state with the highest nonce has won.
func (m Machine) Resolve(ctx context.Context, channelID ndlcrypto.Hash) (ndltypes.Channel, error) {
	ch, err := m.store.Get(ctx, channelID)
	if err != nil {
		return ndltypes.Channel{}, err
	}
	if ch.State != ndltypes.ChannelDisputed {
		return ndltypes.Channel{}, ErrNotOpen
	}
	ch.State = ndltypes.ChannelClosed
	if err := m.store.Put(ctx, ch); err != nil {
		return ndltypes.Channel{}, err
	}
	return ch, nil
}

// Get fetches a channel record by id.
func (m Machine) Get(ctx context.Context, channelID ndlcrypto.Hash) (ndltypes.Channel, error) {
	return m.store.Get(ctx, channelID)
}

// OpenWithPeer returns the Opening/Open channel with peer, if any.
func (m Machine) OpenWithPeer(ctx context.Context, peer ndlcrypto.PeerId) (ndltypes.Channel, bool, error) {
	return m.store.FindOpenByPeer(ctx, peer)
}
