package ops

import (
	"context"
	"testing"

	"github.com/nodalync/node/internal/ndltypes"
)

func TestOpenChannelConfirmsImmediatelyWithChain(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOps(t)
	chain := &fakeChain{}
	o.Chain = chain

	_, peer := testIdentity(t)
	ch, err := o.OpenChannel(ctx, peer, 1000)
	if err != nil {
		t.Fatalf("open channel: %v", err)
	}
	if ch.State != ndltypes.ChannelOpen {
		t.Fatalf("expected chain-confirmed open, got state %v", ch.State)
	}
}

func TestCloseChannelSubmitsToChain(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOps(t)
	o.Chain = &fakeChain{}

	_, peer := testIdentity(t)
	if _, err := o.OpenChannel(ctx, peer, 1000); err != nil {
		t.Fatalf("open channel: %v", err)
	}

	closed, err := o.CloseChannel(ctx, peer)
	if err != nil {
		t.Fatalf("close channel: %v", err)
	}
	if closed.State != ndltypes.ChannelClosed {
		t.Fatalf("expected closed state, got %v", closed.State)
	}
}

func TestDisputeChannelNotifiesChain(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOps(t)
	chain := &fakeChain{}
	o.Chain = chain

	_, peer := testIdentity(t)
	ch, err := o.OpenChannel(ctx, peer, 1000)
	if err != nil {
		t.Fatalf("open channel: %v", err)
	}

	disputed, err := o.DisputeChannel(ctx, ch.ChannelID)
	if err != nil {
		t.Fatalf("dispute channel: %v", err)
	}
	if disputed.State != ndltypes.ChannelDisputed {
		t.Fatalf("expected disputed state, got %v", disputed.State)
	}
	if len(chain.disputed) != 1 || chain.disputed[0] != ch.ChannelID {
		t.Fatalf("expected chain to record the dispute call")
	}
}

func TestExtractL1RequiresExtractor(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOps(t)

	hash, err := o.CreateContent(ctx, []byte("raw text to extract from"), ndltypes.Metadata{Title: "doc"})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}

	if _, err := o.ExtractL1(ctx, hash); err == nil {
		t.Fatalf("expected extraction to fail with no extractor configured")
	}

	o.Extractor = fakeExtractor{}
	mentions, err := o.ExtractL1(ctx, hash)
	if err != nil {
		t.Fatalf("extract L1: %v", err)
	}
	if len(mentions) == 0 {
		t.Fatalf("expected non-empty extracted mentions")
	}
}
