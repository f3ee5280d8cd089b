package ops

import (
	"context"
	"fmt"

	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

// OpenChannel initiates a payment channel with peer, funded with
// deposit from this node's side. When a chain capability is wired, the
// local Opening record is mirrored on-chain and the local state moves
// to Open once the on-chain open confirms; without a chain, the channel
// stays Opening until the counterparty's accept arrives out of band.
func (o *NodeOps) OpenChannel(ctx context.Context, peer ndlcrypto.PeerId, deposit ndltypes.Tinybars) (ndltypes.Channel, error) {
	openNonce := uint64(o.Clock.Now().UnixNano())
	ch, err := o.Channels.Open(ctx, peer, deposit, openNonce)
	if err != nil {
		return ndltypes.Channel{}, translate(err)
	}
	if o.Chain == nil {
		return ch, nil
	}
	if _, err := o.Chain.OpenChannel(ctx, peer, deposit); err != nil {
		return ndltypes.Channel{}, translate(err)
	}
	return o.Channels.ConfirmOpen(ctx, ch.ChannelID)
}

// AcceptChannel records the counterparty's mirror of a channel another
// peer opened toward this node.
func (o *NodeOps) AcceptChannel(ctx context.Context, channelID ndlcrypto.Hash, initiator ndlcrypto.PeerId, deposit ndltypes.Tinybars) (ndltypes.Channel, error) {
	ch, err := o.Channels.Accept(ctx, channelID, initiator, deposit)
	if err != nil {
		return ndltypes.Channel{}, translate(err)
	}
	return ch, nil
}

// CloseChannel cooperatively closes an Open channel with peer and, when
// a chain capability is wired, submits the final signed state on-chain
// before marking the local record Closed.
func (o *NodeOps) CloseChannel(ctx context.Context, peer ndlcrypto.PeerId) (ndltypes.Channel, error) {
	ch, ok, err := o.Channels.OpenWithPeer(ctx, peer)
	if err != nil {
		return ndltypes.Channel{}, translate(err)
	}
	if !ok {
		return ndltypes.Channel{}, translate(fmt.Errorf("ops: no open channel with this peer"))
	}

	ch, err = o.Channels.CooperativeClose(ctx, ch.ChannelID)
	if err != nil {
		return ndltypes.Channel{}, translate(err)
	}

	if o.Chain != nil {
		if _, err := o.Chain.CloseChannel(ctx, ch.ChannelID, ch.LastSignedUpdate, nil); err != nil {
			return ndltypes.Channel{}, translate(err)
		}
	}
	return o.Channels.FinalizeClose(ctx, ch.ChannelID)
}

// DisputeChannel unilaterally moves a channel to Disputed on the basis
// of this node's highest-nonce signed state, submitting it on-chain
// when a chain capability is wired.
func (o *NodeOps) DisputeChannel(ctx context.Context, channelID ndlcrypto.Hash) (ndltypes.Channel, error) {
	ch, err := o.Channels.Dispute(ctx, channelID)
	if err != nil {
		return ndltypes.Channel{}, translate(err)
	}
	if o.Chain != nil {
		if err := o.Chain.Dispute(ctx, channelID, ch.LastSignedUpdate); err != nil {
			return ndltypes.Channel{}, translate(err)
		}
	}
	return ch, nil
}

// GetChannel fetches a channel record by id.
func (o *NodeOps) GetChannel(ctx context.Context, channelID ndlcrypto.Hash) (ndltypes.Channel, error) {
	ch, err := o.Channels.Get(ctx, channelID)
	if err != nil {
		return ndltypes.Channel{}, translate(err)
	}
	return ch, nil
}
