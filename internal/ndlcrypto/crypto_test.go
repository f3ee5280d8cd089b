package ndlcrypto

import "testing"

func TestContentHashFidelity(t *testing.T) {
	data := []byte("hello")
	h := ContentHash(data)
	if !VerifyContent(data, h) {
		t.Fatalf("VerifyContent failed for its own hash")
	}
}

func TestContentHashDomainSeparation(t *testing.T) {
	data := []byte("some bytes")
	contentDigest := ContentHash(data)
	identityDigest := identityDomainHash(data)
	if contentDigest == identityDigest {
		t.Fatalf("content hash domain must differ from identity hash domain")
	}
}

func TestPeerIdRoundTrip(t *testing.T) {
	_, pub, err := GenerateIdentity()
	if err != nil {
		t.Fatalf("generate identity: %v", err)
	}
	id := PeerIdFromPublicKey(pub)

	parsed, err := ParsePeerId(id.String())
	if err != nil {
		t.Fatalf("parse peer id: %v", err)
	}
	if parsed != id {
		t.Fatalf("peer id round-trip mismatch: got %s want %s", parsed, id)
	}
}

func TestParsePeerIdRejectsBadPrefix(t *testing.T) {
	if _, err := ParsePeerId("xyz1abc"); err == nil {
		t.Fatalf("expected error for bad prefix")
	}
}

func TestSignVerify(t *testing.T) {
	priv, pub, err := GenerateIdentity()
	if err != nil {
		t.Fatalf("generate identity: %v", err)
	}
	msg := []byte("pay 10 tinybars")
	sig := Sign(&priv, msg)
	if !Verify(pub, msg, sig) {
		t.Fatalf("signature did not verify")
	}

	tampered := append([]byte{}, msg...)
	tampered[0] ^= 0x01
	if Verify(pub, tampered, sig) {
		t.Fatalf("signature verified against tampered message")
	}
}

func TestPrivateKeyZero(t *testing.T) {
	priv, _, err := GenerateIdentity()
	if err != nil {
		t.Fatalf("generate identity: %v", err)
	}
	priv.Zero()
	for _, b := range priv.Bytes() {
		if b != 0 {
			t.Fatalf("private key bytes not zeroed")
		}
	}
}
