package ops

import (
	"context"
	"testing"

	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

func TestCreateContentStoresAndIndexes(t *testing.T) {
	ctx := context.Background()
	o, manifests := newTestOps(t)

	hash, err := o.CreateContent(ctx, []byte("hello world"), ndltypes.Metadata{Title: "greeting"})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}

	m, err := manifests.Get(ctx, hash)
	if err != nil {
		t.Fatalf("get manifest: %v", err)
	}
	if m.ContentType != ndltypes.ContentL0 {
		t.Fatalf("expected L0 content type, got %v", m.ContentType)
	}
	if m.Visibility != ndltypes.VisibilityPrivate {
		t.Fatalf("expected newly created content to default private, got %v", m.Visibility)
	}
	if !m.IsOwnedBy(o.Self) {
		t.Fatalf("expected new manifest to be owned by creator")
	}

	loaded, err := o.Content.Load(hash)
	if err != nil {
		t.Fatalf("load content: %v", err)
	}
	if string(loaded) != "hello world" {
		t.Fatalf("unexpected loaded content: %q", loaded)
	}
}

func TestPublishContentRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	o, manifests := newTestOps(t)

	_, otherOwner := testIdentity(t)
	foreignHash, err := o.CreateContent(ctx, []byte("not mine"), ndltypes.Metadata{Title: "x"})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}
	m, _ := manifests.Get(ctx, foreignHash)
	m.Owner = otherOwner
	if err := manifests.Put(ctx, m); err != nil {
		t.Fatalf("put manifest: %v", err)
	}

	if err := o.PublishContent(ctx, foreignHash, ndltypes.VisibilityShared, 100, ndltypes.AccessControl{}); err == nil {
		t.Fatalf("expected publish to fail for non-owned content")
	}
}

func TestPublishThenUnpublishContent(t *testing.T) {
	ctx := context.Background()
	o, manifests := newTestOps(t)

	hash, err := o.CreateContent(ctx, []byte("for sale"), ndltypes.Metadata{Title: "listing"})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}

	if err := o.PublishContent(ctx, hash, ndltypes.VisibilityShared, 250, ndltypes.AccessControl{}); err != nil {
		t.Fatalf("publish content: %v", err)
	}
	m, err := manifests.Get(ctx, hash)
	if err != nil {
		t.Fatalf("get manifest: %v", err)
	}
	if m.Visibility != ndltypes.VisibilityShared {
		t.Fatalf("expected shared visibility, got %v", m.Visibility)
	}
	if m.Economics.Price != 250 {
		t.Fatalf("expected price 250, got %d", m.Economics.Price)
	}

	if err := o.UnpublishContent(ctx, hash); err != nil {
		t.Fatalf("unpublish content: %v", err)
	}
	m, err = manifests.Get(ctx, hash)
	if err != nil {
		t.Fatalf("get manifest: %v", err)
	}
	if m.Visibility != ndltypes.VisibilityPrivate {
		t.Fatalf("expected private visibility after unpublish, got %v", m.Visibility)
	}
}

func TestUpdateContentLinksVersionChain(t *testing.T) {
	ctx := context.Background()
	o, manifests := newTestOps(t)

	v1, err := o.CreateContent(ctx, []byte("version one"), ndltypes.Metadata{Title: "doc"})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}

	v2, err := o.UpdateContent(ctx, v1, []byte("version two"), ndltypes.Metadata{Title: "doc"})
	if err != nil {
		t.Fatalf("update content: %v", err)
	}

	v2m, err := manifests.Get(ctx, v2)
	if err != nil {
		t.Fatalf("get v2 manifest: %v", err)
	}
	if v2m.Version.Number != 2 {
		t.Fatalf("expected version number 2, got %d", v2m.Version.Number)
	}
	if v2m.Version.Root != v1 {
		t.Fatalf("expected version root to be v1 hash")
	}
	if v2m.Version.Previous == nil || *v2m.Version.Previous != v1 {
		t.Fatalf("expected previous to point at v1 hash")
	}

	versions, err := o.GetVersions(ctx, v1)
	if err != nil {
		t.Fatalf("get versions: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("expected 2 versions in the chain, got %d", len(versions))
	}
}

func TestDeriveContentRequiresQueriedOrOwnedSources(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOps(t)

	_, otherOwner := testIdentity(t)
	srcHash := ndlcrypto.ContentHash([]byte("someone else's research"))
	src := ndltypes.Manifest{
		Hash:        srcHash,
		Owner:       otherOwner,
		ContentType: ndltypes.ContentL0,
		Version:     ndltypes.Version{Number: 1, Root: srcHash},
		Provenance:  ndltypes.NewL0Provenance(srcHash, otherOwner),
	}
	if err := o.Manifests.Put(ctx, src); err != nil {
		t.Fatalf("put source manifest: %v", err)
	}

	if _, err := o.DeriveContent(ctx, []ndlcrypto.Hash{srcHash}, []byte("derived insight"), ndltypes.Metadata{Title: "insight"}); err == nil {
		t.Fatalf("expected derive to fail when source was never queried or owned")
	}
}

func TestDeriveContentSucceedsForOwnedSources(t *testing.T) {
	ctx := context.Background()
	o, manifests := newTestOps(t)

	src, err := o.CreateContent(ctx, []byte("raw source material"), ndltypes.Metadata{Title: "source"})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}

	derived, err := o.DeriveContent(ctx, []ndlcrypto.Hash{src}, []byte("derived insight"), ndltypes.Metadata{Title: "insight"})
	if err != nil {
		t.Fatalf("derive content: %v", err)
	}

	dm, err := manifests.Get(ctx, derived)
	if err != nil {
		t.Fatalf("get derived manifest: %v", err)
	}
	if dm.ContentType != ndltypes.ContentL3 {
		t.Fatalf("expected derived content to be L3, got %v", dm.ContentType)
	}
	if dm.Provenance.Depth != 1 {
		t.Fatalf("expected derived depth 1, got %d", dm.Provenance.Depth)
	}
	if len(dm.Provenance.Entries) == 0 {
		t.Fatalf("expected merged provenance entries from the source")
	}
}

func TestReferenceL3AsL0RequiresOwnedOrCachedSource(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOps(t)

	_, otherOwner := testIdentity(t)
	foreignL3 := ndlcrypto.ContentHash([]byte("foreign insight"))
	m := ndltypes.Manifest{
		Hash:        foreignL3,
		Owner:       otherOwner,
		ContentType: ndltypes.ContentL3,
		Version:     ndltypes.Version{Number: 1, Root: foreignL3},
	}
	if err := o.Manifests.Put(ctx, m); err != nil {
		t.Fatalf("put manifest: %v", err)
	}

	if _, err := o.ReferenceL3AsL0(ctx, foreignL3); err == nil {
		t.Fatalf("expected reference to fail for a source neither owned nor cached")
	}
}

func TestReferenceL3AsL0ReusesHashAsL0(t *testing.T) {
	ctx := context.Background()
	o, manifests := newTestOps(t)

	src, err := o.CreateContent(ctx, []byte("my own insight"), ndltypes.Metadata{Title: "source"})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}
	sm, err := manifests.Get(ctx, src)
	if err != nil {
		t.Fatalf("get manifest: %v", err)
	}
	sm.ContentType = ndltypes.ContentL3
	if err := manifests.Put(ctx, sm); err != nil {
		t.Fatalf("put manifest: %v", err)
	}

	newHash, err := o.ReferenceL3AsL0(ctx, src)
	if err != nil {
		t.Fatalf("reference L3 as L0: %v", err)
	}
	if newHash != src {
		t.Fatalf("expected the new L0 manifest to reuse the source hash")
	}

	nm, err := manifests.Get(ctx, newHash)
	if err != nil {
		t.Fatalf("get new manifest: %v", err)
	}
	if nm.ContentType != ndltypes.ContentL0 {
		t.Fatalf("expected the new manifest to be typed L0, got %v", nm.ContentType)
	}
}
