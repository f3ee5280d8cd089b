package query

import (
	"context"
	"fmt"

	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
	"github.com/nodalync/node/internal/wire"
)

// HandleQueryRequest is the owner/provider side of Query: it validates
// the incoming message and payment, applies the channel update as
// payee, distributes the payment's revenue into the settlement queue,
// and returns the signed response message to frame back to the
// requester.
func (p *Pipeline) HandleQueryRequest(ctx context.Context, msg wire.Message) (wire.Message, error) {
	senderPub, ok := p.resolveSenderKey(msg.Header.Sender)
	if !ok {
		return wire.Message{}, wire.ErrUnknownSender
	}
	if err := p.Validator.ValidateIncomingMessage(msg, senderPub); err != nil {
		return wire.Message{}, err
	}

	var reqPayload wire.QueryRequestPayload
	if err := wire.DecodePayload(msg.Payload, &reqPayload); err != nil {
		return wire.Message{}, err
	}
	var payment ndltypes.Payment
	if err := unmarshal(reqPayload.Payment, &payment); err != nil {
		return wire.Message{}, err
	}

	manifest, err := p.Manifests.Get(ctx, reqPayload.Hash)
	if err != nil {
		return wire.Message{}, err
	}
	if !manifest.IsOwnedBy(p.Self) {
		return wire.Message{}, fmt.Errorf("query: this node does not own the requested content")
	}

	ch, err := p.Channels.Get(ctx, payment.ChannelID)
	if err != nil {
		return wire.Message{}, err
	}

	if err := p.Validator.ValidateQuery(manifest, msg.Header.Sender, p.Bonds, payment, ch, ch.TheirBalance, senderPub, ch.Nonce+1); err != nil {
		return wire.Message{}, err
	}

	ch, err = p.Channels.ApplyUpdate(ctx, payment.ChannelID, ch.Nonce+1, payment.Amount, false, senderPub, payment.SignerSig, payment.SigningBytes())
	if err != nil {
		return wire.Message{}, err
	}

	bytes, err := p.Content.Load(reqPayload.Hash)
	if err != nil {
		return wire.Message{}, err
	}

	manifest.Economics.RecordQuery(payment.Amount)
	if err := p.Manifests.Put(ctx, manifest); err != nil {
		return wire.Message{}, err
	}

	distributions := p.Distributor.Distribute(payment.Amount, manifest.Owner, manifest.Provenance.Entries)
	for _, d := range distributions {
		if err := p.Queue.Enqueue(ctx, ndltypes.QueuedDistribution{
			PaymentID:  payment.ID,
			Recipient:  d.Recipient,
			Amount:     d.Amount,
			SourceHash: reqPayload.Hash,
			QueuedAt:   p.Clock.Now().UnixMilli(),
		}); err != nil {
			return wire.Message{}, err
		}
	}

	receipt := ndltypes.PaymentReceipt{
		PaymentID:    payment.ID,
		Amount:       payment.Amount,
		Timestamp:    p.Clock.Now().UnixMilli(),
		ChannelNonce: ch.Nonce,
	}
	receipt.DistributorSignature = ndlcrypto.Sign(p.SelfPriv, receipt.SigningBytes())

	respPayload, err := wire.EncodePayload(wire.QueryResponsePayload{Bytes: bytes, Receipt: mustMarshal(receipt)})
	if err != nil {
		return wire.Message{}, err
	}
	return wire.Sign(p.SelfPriv, wire.TypeQueryResponse, p.Clock.Now().UnixMilli(), p.Self, respPayload), nil
}

func (p *Pipeline) resolveSenderKey(sender ndlcrypto.PeerId) (ndlcrypto.PublicKey, bool) {
	if p.Network == nil {
		return nil, false
	}
	return p.Network.ResolvePublicKey(sender)
}
