// Package ndlcrypto implements the protocol's content hashing, Ed25519
// identity, and signature primitives.
package ndlcrypto

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
)

// HashSize is the length in bytes of a content hash or message id.
const HashSize = 32

// domainContent and domainIdentity are disjoint leading bytes that keep
// the content-hash domain from colliding with the public-key domain used
// to derive a PeerId.
const (
	domainContent  = 0x01
	domainIdentity = 0x00
)

// Hash is a 32-byte SHA-256 digest.
type Hash [HashSize]byte

// ErrInvalidHashHex is returned when a hex string cannot decode to a Hash.
var ErrInvalidHashHex = errors.New("ndlcrypto: invalid hash hex")

// ContentHash computes H(0x01 ‖ len_be64(content) ‖ content).
// The length prefix prevents concatenation collisions across inputs of
// different length that would otherwise hash identically.
func ContentHash(content []byte) Hash {
	h := sha256.New()
	h.Write([]byte{domainContent})
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(content)))
	h.Write(lenBuf[:])
	h.Write(content)
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// VerifyContent reports whether bytes hash to the expected digest.
func VerifyContent(content []byte, expected Hash) bool {
	return ContentHash(content) == expected
}

// identityDomainHash computes H(0x00 ‖ data), used to derive a PeerId from
// a public key. Kept unexported: callers go through PeerIdFromPublicKey.
func identityDomainHash(data []byte) Hash {
	h := sha256.New()
	h.Write([]byte{domainIdentity})
	h.Write(data)
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// SHA256Sum is the plain, non-domain-separated digest used to compute the
// "hash of the message" that signatures are taken over.
func SHA256Sum(data []byte) Hash {
	return Hash(sha256.Sum256(data))
}

// String renders the hash as 64 lowercase hex characters.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the all-zero sentinel hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// ParseHash decodes a 64-char lowercase hex string into a Hash.
func ParseHash(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != HashSize {
		return Hash{}, ErrInvalidHashHex
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// MarshalText implements encoding.TextMarshaler so Hash round-trips through
// JSON/CBOR as its hex string rather than a raw byte array.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
