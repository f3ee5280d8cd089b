package validate

import (
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

// Payment checks: amount ≥ price; channel must be
// Open; the channel's counterparty must be the payment signer; the
// payer's balance must cover the amount; the nonce must be exactly
// channel.nonce + 1; the Ed25519 signature must verify; and the payment
// must reference the content hash being queried.
//
// payerBalance is the paying side's balance as recorded in the
// validating node's own channel row — TheirBalance for an incoming
// payment, whose signer is the channel's counterparty.
func Payment(p ndltypes.Payment, price ndltypes.Tinybars, ch ndltypes.Channel, payerBalance ndltypes.Tinybars, signerPub ndlcrypto.PublicKey, expectedContentHash ndlcrypto.Hash, nextNonce uint64) error {
	if p.Amount < price {
		return fail(CheckPayment, "amount", "payment amount below manifest price")
	}
	if ch.State != ndltypes.ChannelOpen {
		return fail(CheckPayment, "channel.state", "channel is not open")
	}
	if p.ChannelID != ch.ChannelID {
		return fail(CheckPayment, "channelId", "payment does not reference this channel")
	}
	if ndlcrypto.PeerIdFromPublicKey(signerPub) != ch.PeerID {
		return fail(CheckPayment, "signer", "payment signer is not the channel's counterparty")
	}
	if payerBalance < p.Amount {
		return fail(CheckPayment, "amount", "channel balance insufficient for payment")
	}
	if nextNonce != ch.Nonce+1 {
		return fail(CheckPayment, "nonce", "nonce must be exactly channel.nonce + 1")
	}
	if !ndlcrypto.Verify(signerPub, p.SigningBytes(), p.SignerSig) {
		return fail(CheckPayment, "signerSignature", "signature does not verify")
	}
	if p.ContentHash != expectedContentHash {
		return fail(CheckPayment, "contentHash", "payment does not reference the queried content")
	}
	return nil
}
