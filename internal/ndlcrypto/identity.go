package ndlcrypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// PeerIdSize is the truncated length of the identity-domain hash used as
// a PeerId.
const PeerIdSize = 20

// peerIDHumanPrefix is prepended to the base58 encoding of a PeerId to
// form its human-readable form.
const peerIDHumanPrefix = "ndl1"

// PeerId is the first 20 bytes of H(0x00 ‖ public_key).
type PeerId [PeerIdSize]byte

// ZeroPeerId is the sentinel "unknown peer".
var ZeroPeerId = PeerId{}

// ErrInvalidPeerId is returned when a human-readable PeerId fails to parse.
var ErrInvalidPeerId = errors.New("ndlcrypto: invalid peer id")

// PrivateKey wraps an Ed25519 private key so it can be explicitly erased.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// PublicKey is an Ed25519 public key.
type PublicKey ed25519.PublicKey

// GenerateIdentity creates a fresh Ed25519 keypair.
func GenerateIdentity() (PrivateKey, PublicKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return PrivateKey{}, nil, fmt.Errorf("ndlcrypto: generate identity: %w", err)
	}
	return PrivateKey{key: priv}, PublicKey(pub), nil
}

// Bytes returns the raw private key bytes. Callers must not retain a
// reference beyond signing — use Zero to erase when the identity is
// dropped.
func (p *PrivateKey) Bytes() []byte {
	return p.key
}

// Zero overwrites the private key material in place. Call this when an
// identity is no longer needed, so key bytes don't linger in memory.
func (p *PrivateKey) Zero() {
	for i := range p.key {
		p.key[i] = 0
	}
}

// PeerIdFromPublicKey derives a PeerId as the first 20 bytes of
// H(0x00 ‖ public_key).
func PeerIdFromPublicKey(pub PublicKey) PeerId {
	digest := identityDomainHash(pub)
	var id PeerId
	copy(id[:], digest[:PeerIdSize])
	return id
}

// String renders the PeerId in its human form: "ndl1" + base58(id).
func (id PeerId) String() string {
	return peerIDHumanPrefix + base58.Encode(id[:])
}

// IsZero reports whether id is the sentinel unknown-peer value.
func (id PeerId) IsZero() bool {
	return id == ZeroPeerId
}

// ParsePeerId parses the "ndl1" + base58(PeerId) human form. Any other
// form is rejected.
func ParsePeerId(s string) (PeerId, error) {
	if len(s) <= len(peerIDHumanPrefix) || s[:len(peerIDHumanPrefix)] != peerIDHumanPrefix {
		return PeerId{}, ErrInvalidPeerId
	}
	decoded := base58.Decode(s[len(peerIDHumanPrefix):])
	if len(decoded) != PeerIdSize {
		return PeerId{}, ErrInvalidPeerId
	}
	var id PeerId
	copy(id[:], decoded)
	return id, nil
}

// MarshalText implements encoding.TextMarshaler.
func (id PeerId) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *PeerId) UnmarshalText(text []byte) error {
	parsed, err := ParsePeerId(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Less provides a stable byte-order comparator, used for sort.Slice over
// PeerId collections (settlement entry ordering, channel_id derivation).
func (id PeerId) Less(other PeerId) bool {
	for i := range id {
		if id[i] != other[i] {
			return id[i] < other[i]
		}
	}
	return false
}
