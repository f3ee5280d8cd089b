package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

const headerFixedSize = 1 + 1 + 2 + ndlcrypto.HashSize + 8 + ndlcrypto.PeerIdSize + 4

// EncodePayload CBOR-encodes a typed payload struct.
func EncodePayload(v any) ([]byte, error) {
	b, err := cbor.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("wire: encode payload: %w", err)
	}
	return b, nil
}

// DecodePayload CBOR-decodes a payload into v.
func DecodePayload(payload []byte, v any) error {
	if err := cbor.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("wire: decode payload: %w", err)
	}
	return nil
}

// Sign finalizes a message: computes its id and Ed25519 signature over
// that id.
func Sign(priv *ndlcrypto.PrivateKey, msgType Type, timestampMs int64, sender ndlcrypto.PeerId, payload []byte) Message {
	id := ndlcrypto.ContentHash(IDInput(msgType, timestampMs, sender, payload))
	sig := ndlcrypto.Sign(priv, id[:])
	return Message{
		Header: Header{
			Magic:     ProtocolMagic,
			Version:   ProtocolVersion,
			Type:      msgType,
			ID:        id,
			Timestamp: timestampMs,
			Sender:    sender,
		},
		Payload:   payload,
		Signature: sig,
	}
}

// Encode serializes a Message to its length-prefixed wire frame: a
// 4-byte BE length followed by the fixed header, payload, and signature.
func Encode(m Message) ([]byte, error) {
	body := len(m.Payload)
	total := headerFixedSize + body + ndlcrypto.SignatureSize
	if total > ndltypes.MaxMessageSize {
		return nil, ErrMessageTooLarge
	}

	buf := make([]byte, 4+total)
	binary.BigEndian.PutUint32(buf[0:4], uint32(total))

	w := buf[4:]
	w[0] = m.Header.Magic
	w[1] = m.Header.Version
	binary.BigEndian.PutUint16(w[2:4], uint16(m.Header.Type))
	copy(w[4:4+ndlcrypto.HashSize], m.Header.ID[:])
	offset := 4 + ndlcrypto.HashSize
	binary.BigEndian.PutUint64(w[offset:offset+8], uint64(m.Header.Timestamp))
	offset += 8
	copy(w[offset:offset+ndlcrypto.PeerIdSize], m.Header.Sender[:])
	offset += ndlcrypto.PeerIdSize
	binary.BigEndian.PutUint32(w[offset:offset+4], uint32(body))
	offset += 4
	copy(w[offset:offset+body], m.Payload)
	offset += body
	copy(w[offset:offset+ndlcrypto.SignatureSize], m.Signature[:])

	return buf, nil
}

// ReadFrameLength parses the 4-byte BE length prefix at the transport
// layer. Any length greater than MaxMessageSize is rejected before the
// caller allocates a buffer for the body.
func ReadFrameLength(prefix [4]byte) (uint32, error) {
	n := binary.BigEndian.Uint32(prefix[:])
	if n > ndltypes.MaxMessageSize {
		return 0, ErrMessageTooLarge
	}
	return n, nil
}

// Decode parses a length-prefixed frame (length prefix already stripped
// by the transport) into a Message, without checking magic/version/
// timestamp/signature — that is Validator.Message's job.
func Decode(frame []byte) (Message, error) {
	if len(frame) < headerFixedSize+ndlcrypto.SignatureSize {
		return Message{}, ErrTruncated
	}

	var h Header
	h.Magic = frame[0]
	h.Version = frame[1]
	h.Type = Type(binary.BigEndian.Uint16(frame[2:4]))
	copy(h.ID[:], frame[4:4+ndlcrypto.HashSize])
	offset := 4 + ndlcrypto.HashSize
	h.Timestamp = int64(binary.BigEndian.Uint64(frame[offset : offset+8]))
	offset += 8
	copy(h.Sender[:], frame[offset:offset+ndlcrypto.PeerIdSize])
	offset += ndlcrypto.PeerIdSize
	payloadLen := binary.BigEndian.Uint32(frame[offset : offset+4])
	offset += 4

	if uint32(len(frame)-offset) < payloadLen+ndlcrypto.SignatureSize {
		return Message{}, ErrTruncated
	}
	payload := make([]byte, payloadLen)
	copy(payload, frame[offset:offset+int(payloadLen)])
	offset += int(payloadLen)

	var sig ndlcrypto.Signature
	copy(sig[:], frame[offset:offset+ndlcrypto.SignatureSize])

	return Message{Header: h, Payload: payload, Signature: sig}, nil
}
