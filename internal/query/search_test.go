package query

import (
	"context"
	"testing"

	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

func TestSearchFiltersPrivateContent(t *testing.T) {
	ctx := context.Background()
	requester, _, _, _ := setup(t)

	manifests := requester.Manifests.(*memManifestStore)
	secretHash := ndlcrypto.ContentHash([]byte("someone else's private notes"))
	if err := manifests.Put(ctx, ndltypes.Manifest{
		Hash:        secretHash,
		Owner:       ndlcrypto.PeerIdFromPublicKey(mustPub(t)),
		ContentType: ndltypes.ContentL0,
		Version:     ndltypes.Version{Number: 1, Root: secretHash},
		Visibility:  ndltypes.VisibilityPrivate,
		Metadata:    ndltypes.Metadata{Title: "secret project"},
	}); err != nil {
		t.Fatalf("put manifest: %v", err)
	}

	results, err := requester.Search(ctx, "", nil, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, r := range results {
		if r.Manifest.Hash == secretHash {
			t.Fatalf("search must not surface another peer's private content")
		}
	}
}

func mustPub(t *testing.T) ndlcrypto.PublicKey {
	t.Helper()
	_, pub, err := ndlcrypto.GenerateIdentity()
	if err != nil {
		t.Fatalf("generate identity: %v", err)
	}
	return pub
}
