package ndltypes

import "github.com/nodalync/node/internal/ndlcrypto"

// Payment is a signed micropayment attached to a query request.
type Payment struct {
	ID          ndlcrypto.Hash      `json:"id"`
	ChannelID   ndlcrypto.Hash      `json:"channelId"`
	Amount      Tinybars            `json:"amount"`
	Recipient   ndlcrypto.PeerId    `json:"recipient"`
	ContentHash ndlcrypto.Hash      `json:"contentHash"`
	Provenance  []ProvenanceEntry   `json:"provenance"`
	Timestamp   int64               `json:"timestamp"`
	SignerSig   ndlcrypto.Signature `json:"signerSignature"`
}

// ComputePaymentID derives a payment's id as
// H(content_hash ‖ requester ‖ amount ‖ nonce).
func ComputePaymentID(contentHash ndlcrypto.Hash, requester ndlcrypto.PeerId, amount Tinybars, nonce uint64) ndlcrypto.Hash {
	buf := make([]byte, 0, 32+20+8+8)
	buf = append(buf, contentHash[:]...)
	buf = append(buf, requester[:]...)
	buf = appendUint64(buf, amount)
	buf = appendUint64(buf, nonce)
	return ndlcrypto.ContentHash(buf)
}

// SigningBytes returns the canonical bytes the payer signs over: the
// fields that must not be tampered with after signing. Kept separate
// from any wire encoding so the signed payload doesn't shift if the
// wire format changes.
func (p Payment) SigningBytes() []byte {
	buf := make([]byte, 0, 32+32+8+20+8)
	buf = append(buf, p.ID[:]...)
	buf = append(buf, p.ChannelID[:]...)
	buf = appendUint64(buf, p.Amount)
	buf = append(buf, p.Recipient[:]...)
	buf = appendInt64(buf, p.Timestamp)
	return buf
}

func appendUint64(buf []byte, v uint64) []byte {
	return append(buf,
		byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func appendInt64(buf []byte, v int64) []byte {
	return appendUint64(buf, uint64(v))
}

// PaymentReceipt is the owner-signed proof that a query was paid. The
// distributor signature is always the content owner's, never the
// requester's.
type PaymentReceipt struct {
	PaymentID            ndlcrypto.Hash      `json:"paymentId"`
	Amount               Tinybars            `json:"amount"`
	Timestamp            int64               `json:"timestamp"`
	ChannelNonce         uint64              `json:"channelNonce"`
	DistributorSignature ndlcrypto.Signature `json:"distributorSignature"`
}

// SigningBytes returns the canonical bytes the content owner signs to
// produce DistributorSignature.
func (r PaymentReceipt) SigningBytes() []byte {
	buf := make([]byte, 0, 32+8+8+8)
	buf = append(buf, r.PaymentID[:]...)
	buf = appendUint64(buf, r.Amount)
	buf = appendInt64(buf, r.Timestamp)
	buf = appendUint64(buf, r.ChannelNonce)
	return buf
}

// Distribution is a (recipient, amount) pair produced by splitting a
// payment.
type Distribution struct {
	Recipient ndlcrypto.PeerId `json:"recipient"`
	Amount    Tinybars         `json:"amount"`
}
