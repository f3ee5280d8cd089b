package ops

import (
	"context"
	"testing"

	"github.com/nodalync/node/internal/ndltypes"
)

func TestPreviewContentOwnedByCaller(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOps(t)

	hash, err := o.CreateContent(ctx, []byte("preview me"), ndltypes.Metadata{Title: "doc"})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}

	m, err := o.PreviewContent(ctx, hash)
	if err != nil {
		t.Fatalf("preview content: %v", err)
	}
	if m.Hash != hash {
		t.Fatalf("expected preview to return the requested manifest")
	}
}

func TestQueryContentOwnedSkipsPayment(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOps(t)

	hash, err := o.CreateContent(ctx, []byte("query me"), ndltypes.Metadata{Title: "doc"})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}

	res, err := o.QueryContent(ctx, hash, 0)
	if err != nil {
		t.Fatalf("query content: %v", err)
	}
	if string(res.Bytes) != "query me" {
		t.Fatalf("unexpected content: %q", res.Bytes)
	}
}

func TestSearchContentFindsPublishedTitle(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOps(t)

	hash, err := o.CreateContent(ctx, []byte("searchable body"), ndltypes.Metadata{Title: "findable title"})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}
	if err := o.PublishContent(ctx, hash, ndltypes.VisibilityShared, 10, ndltypes.AccessControl{}); err != nil {
		t.Fatalf("publish content: %v", err)
	}

	results, err := o.SearchContent(ctx, "findable", nil, 10)
	if err != nil {
		t.Fatalf("search content: %v", err)
	}
	found := false
	for _, r := range results {
		if r.Manifest.Hash == hash {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected search to surface the published manifest")
	}
}
