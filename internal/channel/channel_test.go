package channel

import (
	"context"
	"testing"

	"github.com/nodalync/node/internal/capability"
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

type memStore struct {
	rows map[ndlcrypto.Hash]ndltypes.Channel
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[ndlcrypto.Hash]ndltypes.Channel)}
}

func (s *memStore) Put(_ context.Context, ch ndltypes.Channel) error {
	s.rows[ch.ChannelID] = ch
	return nil
}

func (s *memStore) Get(_ context.Context, id ndlcrypto.Hash) (ndltypes.Channel, error) {
	ch, ok := s.rows[id]
	if !ok {
		return ndltypes.Channel{}, ErrNotFound
	}
	return ch, nil
}

func (s *memStore) FindOpenByPeer(_ context.Context, peer ndlcrypto.PeerId) (ndltypes.Channel, bool, error) {
	for _, ch := range s.rows {
		if ch.PeerID == peer && (ch.State == ndltypes.ChannelOpening || ch.State == ndltypes.ChannelOpen) {
			return ch, true, nil
		}
	}
	return ndltypes.Channel{}, false, nil
}

func testIdentity(t *testing.T) (ndlcrypto.PrivateKey, ndlcrypto.PeerId) {
	t.Helper()
	priv, pub, err := ndlcrypto.GenerateIdentity()
	if err != nil {
		t.Fatalf("generate identity: %v", err)
	}
	return priv, ndlcrypto.PeerIdFromPublicKey(pub)
}

func TestOpenAcceptConfirm(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	_, alice := testIdentity(t)
	_, bob := testIdentity(t)

	m := New(store, capability.SystemClock{}, alice)
	opened, err := m.Open(ctx, bob, 1000, 1)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if opened.State != ndltypes.ChannelOpening {
		t.Fatalf("opened channel must start Opening, got %s", opened.State)
	}

	bobSide := New(store, capability.SystemClock{}, bob)
	accepted, err := bobSide.Accept(ctx, opened.ChannelID, alice, 1000)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.State != ndltypes.ChannelOpen {
		t.Fatalf("accepted channel must be Open, got %s", accepted.State)
	}

	confirmed, err := m.ConfirmOpen(ctx, opened.ChannelID)
	if err != nil {
		t.Fatalf("confirm open: %v", err)
	}
	if confirmed.State != ndltypes.ChannelOpen {
		t.Fatalf("confirmed channel must be Open, got %s", confirmed.State)
	}
}

func TestOpenRejectsSecondInFlight(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	_, alice := testIdentity(t)
	_, bob := testIdentity(t)

	m := New(store, capability.SystemClock{}, alice)
	if _, err := m.Open(ctx, bob, 1000, 1); err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := m.Open(ctx, bob, 500, 2); err != ErrChannelAlreadyExists {
		t.Fatalf("expected ErrChannelAlreadyExists, got %v", err)
	}
}

func TestApplyUpdateNonceAndBalance(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	alicePriv, alice := testIdentity(t)
	_, bob := testIdentity(t)

	m := New(store, capability.SystemClock{}, alice)
	opened, err := m.Open(ctx, bob, 1000, 1)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	opened.State = ndltypes.ChannelOpen
	if err := store.Put(ctx, opened); err != nil {
		t.Fatalf("seed open: %v", err)
	}

	blob := []byte("payment-1")
	sig := ndlcrypto.Sign(&alicePriv, blob)
	alicePub := derivePublic(t, alicePriv)

	updated, err := m.ApplyUpdate(ctx, opened.ChannelID, 1, 100, true, alicePub, sig, blob)
	if err != nil {
		t.Fatalf("apply update: %v", err)
	}
	if updated.MyBalance != 900 || updated.TheirBalance != 100 {
		t.Fatalf("unexpected balances after update: my=%d their=%d", updated.MyBalance, updated.TheirBalance)
	}

	if _, err := m.ApplyUpdate(ctx, opened.ChannelID, 1, 50, true, alicePub, sig, blob); err != ErrNonceReplay {
		t.Fatalf("expected ErrNonceReplay on replayed nonce, got %v", err)
	}

	wrongSig := ndlcrypto.Signature{}
	if _, err := m.ApplyUpdate(ctx, opened.ChannelID, 2, 50, true, alicePub, wrongSig, blob); err != ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestApplyUpdateInsufficientBalance(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	alicePriv, alice := testIdentity(t)
	_, bob := testIdentity(t)

	m := New(store, capability.SystemClock{}, alice)
	opened, _ := m.Open(ctx, bob, 100, 1)
	opened.State = ndltypes.ChannelOpen
	store.Put(ctx, opened)

	blob := []byte("over-balance")
	sig := ndlcrypto.Sign(&alicePriv, blob)
	alicePub := derivePublic(t, alicePriv)

	if _, err := m.ApplyUpdate(ctx, opened.ChannelID, 1, 1000, true, alicePub, sig, blob); err != ErrInsufficientBalance {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestDisputeFlow(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	_, alice := testIdentity(t)
	_, bob := testIdentity(t)

	m := New(store, capability.SystemClock{}, alice)
	opened, _ := m.Open(ctx, bob, 1000, 1)
	opened.State = ndltypes.ChannelOpen
	opened.Nonce = 3
	store.Put(ctx, opened)

	disputed, err := m.Dispute(ctx, opened.ChannelID)
	if err != nil {
		t.Fatalf("dispute: %v", err)
	}
	if disputed.State != ndltypes.ChannelDisputed {
		t.Fatalf("expected Disputed, got %s", disputed.State)
	}

	if _, err := m.CounterDispute(ctx, opened.ChannelID, 2, 700, 300, nil); err != ErrStaleState {
		t.Fatalf("expected ErrStaleState for lower nonce, got %v", err)
	}

	countered, err := m.CounterDispute(ctx, opened.ChannelID, 5, 400, 600, []byte("newer"))
	if err != nil {
		t.Fatalf("counter-dispute: %v", err)
	}
	if countered.Nonce != 5 || countered.MyBalance != 400 || countered.TheirBalance != 600 {
		t.Fatalf("unexpected counter-dispute state: %+v", countered)
	}

	resolved, err := m.Resolve(ctx, opened.ChannelID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.State != ndltypes.ChannelClosed {
		t.Fatalf("expected Closed after resolve, got %s", resolved.State)
	}
}

func derivePublic(t *testing.T, priv ndlcrypto.PrivateKey) ndlcrypto.PublicKey {
	t.Helper()
	// The private key's second half is the Ed25519 public key, mirroring
	// how crypto/ed25519 packs a keypair.
	raw := priv.Bytes()
	return ndlcrypto.PublicKey(raw[32:])
}
