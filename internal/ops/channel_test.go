package ops

import (
	"context"
	"testing"

	"github.com/nodalync/node/internal/channel"
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

func TestOpenAcceptChannelLocalOnly(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOps(t)

	_, peer := testIdentity(t)
	peerMachine := channel.New(newMemChannelStore(), o.Clock, peer)

	ch, err := o.OpenChannel(ctx, peer, 1000)
	if err != nil {
		t.Fatalf("open channel: %v", err)
	}
	if ch.State != ndltypes.ChannelOpening {
		t.Fatalf("expected opening state with no chain wired, got %v", ch.State)
	}

	if _, err := peerMachine.Accept(ctx, ch.ChannelID, o.Self, 1000); err != nil {
		t.Fatalf("peer accept: %v", err)
	}

	got, err := o.GetChannel(ctx, ch.ChannelID)
	if err != nil {
		t.Fatalf("get channel: %v", err)
	}
	if got.PeerID != peer {
		t.Fatalf("expected channel peer to be %v, got %v", peer, got.PeerID)
	}
}

func TestCloseChannelFailsWithNoOpenChannel(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOps(t)
	_, peer := testIdentity(t)

	if _, err := o.CloseChannel(ctx, peer); err == nil {
		t.Fatalf("expected close to fail when no channel is open with peer")
	}
}

func TestDisputeChannelRequiresOpenChannel(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOps(t)

	if _, err := o.DisputeChannel(ctx, ndlcrypto.Hash{}); err == nil {
		t.Fatalf("expected dispute to fail for an unknown channel id")
	}
}
