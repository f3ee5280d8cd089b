// Package wire implements the protocol's framed, signed, CBOR-bodied
// message format.
package wire

import (
	"github.com/nodalync/node/internal/ndlcrypto"
)

// ProtocolMagic and ProtocolVersion identify this wire format.
const (
	ProtocolMagic   byte = 0xDA
	ProtocolVersion byte = 1
)

// domainMessage separates message-id hashing from content hashing and
// identity hashing: id = H(domain_message ‖ ...).
const domainMessage = 0x02

// Type is the u16 opcode identifying a message's payload shape.
type Type uint16

const (
	TypePing Type = iota + 1
	TypePong
	TypeAnnounce
	TypeAnnounceUpdate
	TypeSearch
	TypeSearchResponse
	TypePreviewRequest
	TypePreviewResponse
	TypeQueryRequest
	TypeQueryResponse
	TypeChannelOpen
	TypeChannelAccept
	TypeChannelUpdate
	TypeChannelClose
	TypeSettleConfirm
	TypeError
)

// Header is the fixed-size framing preceding a message's CBOR payload:
//
//	magic(1) | version(1) | type(2 BE) | id(32) | timestamp(8 BE ms) |
//	sender(20) | payload_len(4 BE)
type Header struct {
	Magic     byte
	Version   byte
	Type      Type
	ID        ndlcrypto.Hash
	Timestamp int64 // unix millis
	Sender    ndlcrypto.PeerId
}

// Message is a fully framed, signed wire message.
type Message struct {
	Header    Header
	Payload   []byte // CBOR-encoded body
	Signature ndlcrypto.Signature
}

// IDInput returns the exact byte layout that id = H(domain_message ‖
// type ‖ timestamp ‖ sender ‖ payload) hashes over.
func IDInput(msgType Type, timestamp int64, sender ndlcrypto.PeerId, payload []byte) []byte {
	buf := make([]byte, 0, 1+2+8+ndlcrypto.PeerIdSize+len(payload))
	buf = append(buf, domainMessage)
	buf = append(buf, byte(msgType>>8), byte(msgType))
	buf = append(buf,
		byte(timestamp>>56), byte(timestamp>>48), byte(timestamp>>40), byte(timestamp>>32),
		byte(timestamp>>24), byte(timestamp>>16), byte(timestamp>>8), byte(timestamp))
	buf = append(buf, sender[:]...)
	buf = append(buf, payload...)
	return buf
}
