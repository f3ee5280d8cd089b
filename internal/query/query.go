package query

import (
	"context"
	"fmt"

	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
	"github.com/nodalync/node/internal/wire"
)

// Result is the outcome of a successful paid query.
type Result struct {
	Bytes   []byte
	Receipt ndltypes.PaymentReceipt
}

// Query resolves hash, pays for it if the local peer isn't the owner,
// and returns the content bytes plus the owner's receipt. Owned content
// is returned directly with no payment.
func (p *Pipeline) Query(ctx context.Context, hash ndlcrypto.Hash, requestedAmount ndltypes.Tinybars) (Result, error) {
	manifest, err := p.Preview(ctx, hash, p.Self)
	if err != nil {
		return Result{}, err
	}

	if manifest.IsOwnedBy(p.Self) {
		bytes, err := p.Content.Load(hash)
		if err != nil {
			return Result{}, err
		}
		return Result{Bytes: bytes}, nil
	}

	ch, err := p.ensureChannel(ctx, manifest.Owner)
	if err != nil {
		return Result{}, err
	}

	amount := requestedAmount
	if amount < manifest.Economics.Price {
		amount = manifest.Economics.Price
	}
	if amount > ch.MyBalance {
		return Result{}, ErrInsufficientChannelBalance
	}

	nonce := ch.Nonce + 1
	paymentID := ndltypes.ComputePaymentID(hash, p.Self, amount, nonce)
	payment := ndltypes.Payment{
		ID:          paymentID,
		ChannelID:   ch.ChannelID,
		Amount:      amount,
		Recipient:   manifest.Owner,
		ContentHash: hash,
		Provenance:  manifest.Provenance.Entries,
		Timestamp:   p.Clock.Now().UnixMilli(),
	}
	payment.SignerSig = ndlcrypto.Sign(p.SelfPriv, payment.SigningBytes())

	if p.Network == nil {
		return Result{}, ErrNoNetwork
	}

	reqPayload, err := wire.EncodePayload(wire.QueryRequestPayload{Hash: hash, Payment: mustMarshal(payment)})
	if err != nil {
		return Result{}, err
	}
	msg := wire.Sign(p.SelfPriv, wire.TypeQueryRequest, p.Clock.Now().UnixMilli(), p.Self, reqPayload)
	frame, err := wire.Encode(msg)
	if err != nil {
		return Result{}, err
	}

	respFrame, err := p.Network.Send(ctx, manifest.Owner, frame)
	if err != nil {
		return Result{}, err
	}
	respMsg, err := wire.Decode(respFrame[4:])
	if err != nil {
		return Result{}, err
	}
	var respPayload wire.QueryResponsePayload
	if err := wire.DecodePayload(respMsg.Payload, &respPayload); err != nil {
		return Result{}, err
	}

	if !ndlcrypto.VerifyContent(respPayload.Bytes, hash) {
		return Result{}, ErrContentHashMismatch
	}

	var receipt ndltypes.PaymentReceipt
	if err := unmarshal(respPayload.Receipt, &receipt); err != nil {
		return Result{}, err
	}

	updated, err := p.Channels.ApplyUpdate(ctx, ch.ChannelID, nonce, amount, true, p.resolveSelfPub(), payment.SignerSig, payment.SigningBytes())
	if err != nil {
		return Result{}, err
	}
	_ = updated

	p.Cache.Put(ndltypes.CachedContent{
		Hash:       hash,
		Bytes:      respPayload.Bytes,
		SourcePeer: manifest.Owner,
		QueriedAt:  p.Clock.Now().UnixMilli(),
		Receipt:    receipt,
	})

	return Result{Bytes: respPayload.Bytes, Receipt: receipt}, nil
}

// ensureChannel returns an Open channel with peer, auto-opening one
// funded with the configured default deposit if none exists.
func (p *Pipeline) ensureChannel(ctx context.Context, peer ndlcrypto.PeerId) (ndltypes.Channel, error) {
	if ch, ok, err := p.Channels.OpenWithPeer(ctx, peer); err != nil {
		return ndltypes.Channel{}, err
	} else if ok {
		if ch.State != ndltypes.ChannelOpen {
			return ndltypes.Channel{}, fmt.Errorf("query: channel with peer is not yet open")
		}
		return ch, nil
	}

	if p.Chain == nil {
		return ndltypes.Channel{}, fmt.Errorf("query: no open channel and no chain capability to fund one")
	}

	openNonce := p.Clock.Now().UnixNano()
	ch, err := p.Channels.Open(ctx, peer, p.Config.DefaultDeposit, uint64(openNonce))
	if err != nil {
		return ndltypes.Channel{}, err
	}
	if _, err := p.Chain.OpenChannel(ctx, peer, p.Config.DefaultDeposit); err != nil {
		return ndltypes.Channel{}, err
	}
	return p.Channels.ConfirmOpen(ctx, ch.ChannelID)
}

func (p *Pipeline) resolveSelfPub() ndlcrypto.PublicKey {
	raw := p.SelfPriv.Bytes()
	return ndlcrypto.PublicKey(raw[32:])
}
