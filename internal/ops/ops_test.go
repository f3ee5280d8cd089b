package ops

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/nodalync/node/internal/capability"
	"github.com/nodalync/node/internal/channel"
	"github.com/nodalync/node/internal/config"
	"github.com/nodalync/node/internal/econ"
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
	"github.com/nodalync/node/internal/query"
	"github.com/nodalync/node/internal/store"
	"github.com/nodalync/node/internal/validate"
	"github.com/sirupsen/logrus"
)

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l.WithField("component", "ops-test")
}

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

func testIdentity(t *testing.T) (*ndlcrypto.PrivateKey, ndlcrypto.PeerId) {
	t.Helper()
	priv, pub, err := ndlcrypto.GenerateIdentity()
	if err != nil {
		t.Fatalf("generate identity: %v", err)
	}
	return &priv, ndlcrypto.PeerIdFromPublicKey(pub)
}

// newTestOps builds a NodeOps backed entirely by in-memory fakes: no
// network, no chain, no extractor. Built by struct literal rather than
// New because New takes a concrete *settlement.Queue, which requires a
// live pool; these tests never exercise the settlement batcher.
func newTestOps(t *testing.T) (*NodeOps, *memManifestStore) {
	t.Helper()
	clock := capability.FixedClock{At: time.Unix(1_700_000_000, 0)}
	selfPriv, selfID := testIdentity(t)

	manifests := newMemManifestStore()
	content, err := store.NewContentStore(t.TempDir())
	if err != nil {
		t.Fatalf("new content store: %v", err)
	}
	cache := store.NewContentCache(1 << 20)
	channels := channel.New(newMemChannelStore(), clock, selfID)
	validator := validate.New(clock)
	distributor := econ.NewDefaultDistributor()
	cfg := config.DefaultOpsConfig()

	pipeline := &query.Pipeline{
		Self:        selfID,
		SelfPriv:    selfPriv,
		Content:     content,
		Manifests:   manifests,
		Cache:       cache,
		Channels:    channels,
		Validator:   validator,
		Distributor: distributor,
		Queue:       &memEnqueuer{},
		Clock:       clock,
		Config:      cfg.Channel,
	}

	o := &NodeOps{
		Self:        selfID,
		SelfPriv:    selfPriv,
		Content:     content,
		Manifests:   manifests,
		Cache:       cache,
		Channels:    channels,
		Validator:   validator,
		Distributor: distributor,
		Pipeline:    pipeline,
		Clock:       clock,
		Config:      cfg,
		log:         discardLogger(),
	}
	return o, manifests
}
