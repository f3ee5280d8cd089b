package validate

import (
	"time"

	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
	"github.com/nodalync/node/internal/wire"
)

// Message checks that protocol magic and version match; the timestamp
// is within MessageTimestampSkew of now; the message id matches its
// contents; and the sender's signature over the message id verifies
// against senderPub, which the caller resolves via the peer registry
// before calling this.
func Message(m wire.Message, now time.Time, senderPub ndlcrypto.PublicKey) error {
	if m.Header.Magic != wire.ProtocolMagic {
		return fail(CheckMessage, "magic", "protocol magic mismatch")
	}
	if m.Header.Version != wire.ProtocolVersion {
		return fail(CheckMessage, "version", "protocol version mismatch")
	}

	msgTime := time.UnixMilli(m.Header.Timestamp)
	skew := now.Sub(msgTime)
	if skew < 0 {
		skew = -skew
	}
	if skew > ndltypes.MessageTimestampSkew {
		return fail(CheckMessage, "timestamp", "timestamp outside allowed clock skew")
	}

	expectedID := ndlcrypto.ContentHash(wire.IDInput(m.Header.Type, m.Header.Timestamp, m.Header.Sender, m.Payload))
	if expectedID != m.Header.ID {
		return fail(CheckMessage, "id", "message id does not match its contents")
	}

	if !ndlcrypto.Verify(senderPub, m.Header.ID[:], m.Signature) {
		return fail(CheckMessage, "signature", "sender signature does not verify")
	}
	return nil
}
