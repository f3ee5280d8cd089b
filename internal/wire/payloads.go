package wire

import (
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

// Payload types for the message catalogue. Field tags use CBOR
// keyasint encoding to keep wire payloads compact.

type PingPayload struct {
	Nonce uint64 `cbor:"1,keyasint"`
}

type PongPayload struct {
	Nonce uint64 `cbor:"1,keyasint"`
}

type AnnouncePayload struct {
	Hash     ndlcrypto.Hash `cbor:"1,keyasint"`
	Manifest []byte         `cbor:"2,keyasint"` // JSON-serialized Manifest
}

type SearchRequestPayload struct {
	Query       string                `cbor:"1,keyasint"`
	ContentType *ndltypes.ContentType `cbor:"2,keyasint,omitempty"`
	Limit       int                   `cbor:"3,keyasint"`
}

type SearchResultPayload struct {
	Hash   ndlcrypto.Hash `cbor:"1,keyasint"`
	Title  string         `cbor:"2,keyasint"`
	Source string         `cbor:"3,keyasint"` // "local" | "cached" | "peer"
}

type SearchResponsePayload struct {
	Results []SearchResultPayload `cbor:"1,keyasint"`
}

type PreviewRequestPayload struct {
	Hash ndlcrypto.Hash `cbor:"1,keyasint"`
}

type PreviewResponsePayload struct {
	Manifest []byte `cbor:"1,keyasint"` // JSON-serialized Manifest
	Found    bool   `cbor:"2,keyasint"`
}

type QueryRequestPayload struct {
	Hash    ndlcrypto.Hash `cbor:"1,keyasint"`
	Payment []byte         `cbor:"2,keyasint"` // JSON-serialized Payment
}

type QueryResponsePayload struct {
	Bytes   []byte `cbor:"1,keyasint"`
	Receipt []byte `cbor:"2,keyasint"` // JSON-serialized PaymentReceipt
}

type ChannelOpenPayload struct {
	ChannelID   ndlcrypto.Hash    `cbor:"1,keyasint"`
	Deposit     ndltypes.Tinybars `cbor:"2,keyasint"`
	FundingTxID string            `cbor:"3,keyasint,omitempty"`
}

type ChannelAcceptPayload struct {
	ChannelID ndlcrypto.Hash `cbor:"1,keyasint"`
	Accepted  bool           `cbor:"2,keyasint"`
}

type ChannelUpdatePayload struct {
	ChannelID ndlcrypto.Hash `cbor:"1,keyasint"`
	Payment   []byte         `cbor:"2,keyasint"` // JSON-serialized Payment
}

type ChannelClosePayload struct {
	ChannelID  ndlcrypto.Hash        `cbor:"1,keyasint"`
	FinalNonce uint64                `cbor:"2,keyasint"`
	Signatures []ndlcrypto.Signature `cbor:"3,keyasint"`
}

type SettleConfirmPayload struct {
	BatchID ndlcrypto.Hash `cbor:"1,keyasint"`
	TxID    string         `cbor:"2,keyasint"`
}

type ErrorPayload struct {
	Code       int    `cbor:"1,keyasint"`
	Message    string `cbor:"2,keyasint"`
	Suggestion string `cbor:"3,keyasint,omitempty"`
}
