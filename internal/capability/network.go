package capability

import (
	"context"

	"github.com/nodalync/node/internal/ndlcrypto"
)

// Network is the DHT-style transport collaborator consumed by the
// operations facade. The core never implements this — production
// wires a concrete DHT/gossip/transport stack, tests wire an in-memory
// fake.
type Network interface {
	// Announce publishes payload under hash to the discovery layer.
	Announce(ctx context.Context, hash ndlcrypto.Hash, payload []byte) error
	// AnnounceUpdate broadcasts that a previously-announced hash changed.
	AnnounceUpdate(ctx context.Context, hash ndlcrypto.Hash, payload []byte) error
	// Lookup resolves a hash to its announced payload, if known.
	Lookup(ctx context.Context, hash ndlcrypto.Hash) ([]byte, bool, error)
	// Remove withdraws a previously-announced hash.
	Remove(ctx context.Context, hash ndlcrypto.Hash) error
	// Send performs a point-to-point request/response exchange with peer,
	// returning the raw response bytes (a framed wire message).
	Send(ctx context.Context, peer ndlcrypto.PeerId, message []byte) ([]byte, error)
	// ResolvePublicKey maps a protocol PeerId to its Ed25519 public key
	// via the node's peer registry.
	ResolvePublicKey(peer ndlcrypto.PeerId) (ndlcrypto.PublicKey, bool)
}

// Extractor derives L1 content from L0 bytes: extraction of knowledge
// structure from raw text is not implemented here; only its interface
// is modeled so the operations facade's ExtractL1 call has something to
// invoke.
type Extractor interface {
	ExtractL1(ctx context.Context, l0Content []byte) ([]byte, error)
}
