package ndlcrypto

import (
	"crypto/ed25519"
	"encoding/hex"
)

// SignatureSize is the length in bytes of an Ed25519 signature.
const SignatureSize = 64

// Signature is a 64-byte Ed25519 signature.
type Signature [SignatureSize]byte

// Sign computes a 64-byte Ed25519 signature over SHA-256(msg), not over
// msg directly.
func Sign(priv *PrivateKey, msg []byte) Signature {
	digest := SHA256Sum(msg)
	raw := ed25519.Sign(priv.key, digest[:])
	var sig Signature
	copy(sig[:], raw)
	return sig
}

// Verify checks that sig is a valid Ed25519 signature over SHA-256(msg)
// under pub.
func Verify(pub PublicKey, msg []byte, sig Signature) bool {
	digest := SHA256Sum(msg)
	return ed25519.Verify(ed25519.PublicKey(pub), digest[:], sig[:])
}

// Bytes returns the raw signature bytes.
func (s Signature) Bytes() []byte {
	return s[:]
}

// MarshalText implements encoding.TextMarshaler using the same lowercase
// hex convention as Hash (128 hex chars for a 64-byte signature), so
// receipts and payments serialize deterministically.
func (s Signature) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(s[:])), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Signature) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil || len(b) != SignatureSize {
		return ErrInvalidHashHex
	}
	copy(s[:], b)
	return nil
}
