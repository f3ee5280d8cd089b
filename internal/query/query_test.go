package query

import (
	"context"
	"testing"
	"time"

	"github.com/nodalync/node/internal/capability"
	"github.com/nodalync/node/internal/channel"
	"github.com/nodalync/node/internal/config"
	"github.com/nodalync/node/internal/econ"
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
	"github.com/nodalync/node/internal/store"
	"github.com/nodalync/node/internal/validate"
	"github.com/nodalync/node/internal/wire"
)

type memManifestStore struct {
	rows map[ndlcrypto.Hash]ndltypes.Manifest
}

func newMemManifestStore() *memManifestStore {
	return &memManifestStore{rows: make(map[ndlcrypto.Hash]ndltypes.Manifest)}
}

func (s *memManifestStore) Put(_ context.Context, m ndltypes.Manifest) error {
	s.rows[m.Hash] = m
	return nil
}

func (s *memManifestStore) Get(_ context.Context, hash ndlcrypto.Hash) (ndltypes.Manifest, error) {
	m, ok := s.rows[hash]
	if !ok {
		return ndltypes.Manifest{}, store.ErrNotFound
	}
	return m, nil
}

func (s *memManifestStore) Find(_ context.Context, f store.ManifestFilter) ([]ndltypes.Manifest, error) {
	var out []ndltypes.Manifest
	for _, m := range s.rows {
		out = append(out, m)
	}
	return out, nil
}

type memChannelStore struct {
	rows map[ndlcrypto.Hash]ndltypes.Channel
}

func newMemChannelStore() *memChannelStore {
	return &memChannelStore{rows: make(map[ndlcrypto.Hash]ndltypes.Channel)}
}

func (s *memChannelStore) Put(_ context.Context, ch ndltypes.Channel) error {
	s.rows[ch.ChannelID] = ch
	return nil
}

func (s *memChannelStore) Get(_ context.Context, id ndlcrypto.Hash) (ndltypes.Channel, error) {
	ch, ok := s.rows[id]
	if !ok {
		return ndltypes.Channel{}, channel.ErrNotFound
	}
	return ch, nil
}

func (s *memChannelStore) FindOpenByPeer(_ context.Context, peer ndlcrypto.PeerId) (ndltypes.Channel, bool, error) {
	for _, ch := range s.rows {
		if ch.PeerID == peer && (ch.State == ndltypes.ChannelOpening || ch.State == ndltypes.ChannelOpen) {
			return ch, true, nil
		}
	}
	return ndltypes.Channel{}, false, nil
}

type memEnqueuer struct {
	entries []ndltypes.QueuedDistribution
}

func (q *memEnqueuer) Enqueue(_ context.Context, d ndltypes.QueuedDistribution) error {
	q.entries = append(q.entries, d)
	return nil
}

// loopbackNetwork wires a requester's Send calls straight into an
// owner's Pipeline.HandleQueryRequest, simulating a two-node exchange
// within a single process.
type loopbackNetwork struct {
	owner  *Pipeline
	pubkey map[ndlcrypto.PeerId]ndlcrypto.PublicKey
}

func (n *loopbackNetwork) Announce(context.Context, ndlcrypto.Hash, []byte) error      { return nil }
func (n *loopbackNetwork) AnnounceUpdate(context.Context, ndlcrypto.Hash, []byte) error { return nil }
func (n *loopbackNetwork) Lookup(context.Context, ndlcrypto.Hash) ([]byte, bool, error) {
	return nil, false, nil
}
func (n *loopbackNetwork) Remove(context.Context, ndlcrypto.Hash) error { return nil }

func (n *loopbackNetwork) ResolvePublicKey(peer ndlcrypto.PeerId) (ndlcrypto.PublicKey, bool) {
	pub, ok := n.pubkey[peer]
	return pub, ok
}

func (n *loopbackNetwork) Send(ctx context.Context, peer ndlcrypto.PeerId, message []byte) ([]byte, error) {
	msg, err := wire.Decode(message[4:])
	if err != nil {
		return nil, err
	}
	resp, err := n.owner.HandleQueryRequest(ctx, msg)
	if err != nil {
		return nil, err
	}
	return wire.Encode(resp)
}

func testIdentity(t *testing.T) (*ndlcrypto.PrivateKey, ndlcrypto.PeerId, ndlcrypto.PublicKey) {
	t.Helper()
	priv, pub, err := ndlcrypto.GenerateIdentity()
	if err != nil {
		t.Fatalf("generate identity: %v", err)
	}
	return &priv, ndlcrypto.PeerIdFromPublicKey(pub), pub
}

// setup builds a requester and an owner Pipeline, each with its own
// channel store connected through a loopback network, with one L0
// manifest published by owner priced at 100 tinybars, and an Open
// channel between them funded with 1000 on the requester's side.
func setup(t *testing.T) (requester, owner *Pipeline, hash ndlcrypto.Hash, ownerManifests *memManifestStore) {
	t.Helper()
	ctx := context.Background()
	clock := capability.FixedClock{At: time.Unix(1_700_000_000, 0)}

	reqPriv, reqID, reqPub := testIdentity(t)
	ownPriv, ownID, ownPub := testIdentity(t)

	content := []byte("hello nodalync")
	hash = ndlcrypto.ContentHash(content)

	ownerContentStore := newTempContentStore(t)
	if _, err := ownerContentStore.Store(content); err != nil {
		t.Fatalf("store content: %v", err)
	}

	ownerManifests = newMemManifestStore()
	m := ndltypes.Manifest{
		Hash:        hash,
		Owner:       ownID,
		ContentType: ndltypes.ContentL0,
		Version:     ndltypes.Version{Number: 1, Root: hash},
		Visibility:  ndltypes.VisibilityShared,
		Economics:   ndltypes.Economics{Price: 100},
		Provenance:  ndltypes.NewL0Provenance(hash, ownID),
	}
	if err := ownerManifests.Put(ctx, m); err != nil {
		t.Fatalf("put manifest: %v", err)
	}

	reqManifests := newMemManifestStore()

	// Each side keeps its own local channel store, exactly as two real
	// nodes would — a shared store would conflate the two sides'
	// perspectives on the same channel id.
	reqMachine := channel.New(newMemChannelStore(), clock, reqID)
	ownMachine := channel.New(newMemChannelStore(), clock, ownID)

	opened, err := reqMachine.Open(ctx, ownID, 1000, 1)
	if err != nil {
		t.Fatalf("open channel: %v", err)
	}
	if _, err := ownMachine.Accept(ctx, opened.ChannelID, reqID, 1000); err != nil {
		t.Fatalf("accept channel: %v", err)
	}
	if _, err := reqMachine.ConfirmOpen(ctx, opened.ChannelID); err != nil {
		t.Fatalf("confirm open: %v", err)
	}

	validator := validate.New(clock)
	distributor := econ.NewDefaultDistributor()

	owner = &Pipeline{
		Self:        ownID,
		SelfPriv:    ownPriv,
		Content:     ownerContentStore,
		Manifests:   ownerManifests,
		Cache:       store.NewContentCache(1 << 20),
		Channels:    ownMachine,
		Validator:   validator,
		Distributor: distributor,
		Queue:       &memEnqueuer{},
		Bonds:       nil,
		Clock:       clock,
		Config:      config.DefaultChannelConfig(),
	}

	net := &loopbackNetwork{owner: owner, pubkey: map[ndlcrypto.PeerId]ndlcrypto.PublicKey{
		reqID: reqPub,
		ownID: ownPub,
	}}
	owner.Network = net

	requester = &Pipeline{
		Self:        reqID,
		SelfPriv:    reqPriv,
		Content:     newTempContentStore(t),
		Manifests:   reqManifests,
		Cache:       store.NewContentCache(1 << 20),
		Channels:    reqMachine,
		Validator:   validator,
		Distributor: distributor,
		Queue:       &memEnqueuer{},
		Bonds:       nil,
		Network:     net,
		Clock:       clock,
		Config:      config.DefaultChannelConfig(),
	}

	// The requester resolves manifests it hasn't seen locally via
	// Network.Lookup; since loopbackNetwork doesn't implement discovery,
	// seed the requester's own index with the owner's published manifest
	// to exercise Query's payment path directly.
	if err := reqManifests.Put(ctx, m); err != nil {
		t.Fatalf("seed requester manifest: %v", err)
	}

	return requester, owner, hash, ownerManifests
}

func newTempContentStore(t *testing.T) *store.ContentStore {
	t.Helper()
	cs, err := store.NewContentStore(t.TempDir())
	if err != nil {
		t.Fatalf("new content store: %v", err)
	}
	return cs
}

func TestQueryPaysAndRetrievesContent(t *testing.T) {
	ctx := context.Background()
	requester, _, hash, ownerManifests := setup(t)

	res, err := requester.Query(ctx, hash, 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if string(res.Bytes) != "hello nodalync" {
		t.Fatalf("unexpected content: %q", res.Bytes)
	}
	if res.Receipt.Amount != 100 {
		t.Fatalf("expected receipt amount 100, got %d", res.Receipt.Amount)
	}

	m, err := ownerManifests.Get(ctx, hash)
	if err != nil {
		t.Fatalf("get manifest: %v", err)
	}
	if m.Economics.TotalQueries != 1 {
		t.Fatalf("expected owner manifest to record one query, got %d", m.Economics.TotalQueries)
	}
}

func TestQueryOwnedContentSkipsPayment(t *testing.T) {
	ctx := context.Background()
	_, owner, hash, _ := setup(t)

	res, err := owner.Query(ctx, hash, 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if string(res.Bytes) != "hello nodalync" {
		t.Fatalf("unexpected content: %q", res.Bytes)
	}
	if (res.Receipt != ndltypes.PaymentReceipt{}) {
		t.Fatalf("owner querying its own content should not receive a receipt")
	}
}

func TestQueryRejectsInsufficientChannelBalance(t *testing.T) {
	ctx := context.Background()
	requester, _, hash, _ := setup(t)

	if _, err := requester.Query(ctx, hash, 10_000); err != ErrInsufficientChannelBalance {
		t.Fatalf("expected ErrInsufficientChannelBalance, got %v", err)
	}
}
