package query

import (
	"context"
	"encoding/json"

	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
	"github.com/nodalync/node/internal/store"
)

// Preview resolves a manifest without transferring content bytes,
// preferring the local manifest index, then falling back to the
// discovery layer's announced/cached copy. Private content resolves to
// ErrNotFound for everyone but its owner — the visibility check itself
// must not leak that the content exists.
func (p *Pipeline) Preview(ctx context.Context, hash ndlcrypto.Hash, requester ndlcrypto.PeerId) (ndltypes.Manifest, error) {
	m, err := p.Manifests.Get(ctx, hash)
	if err == nil {
		return p.gateVisibility(m, requester)
	}
	if err != store.ErrNotFound {
		return ndltypes.Manifest{}, err
	}

	if p.Network == nil {
		return ndltypes.Manifest{}, ErrNotFound
	}
	payload, found, err := p.Network.Lookup(ctx, hash)
	if err != nil {
		return ndltypes.Manifest{}, err
	}
	if !found {
		return ndltypes.Manifest{}, ErrNotFound
	}
	var announced ndltypes.Manifest
	if err := json.Unmarshal(payload, &announced); err != nil {
		return ndltypes.Manifest{}, err
	}
	return p.gateVisibility(announced, requester)
}

func (p *Pipeline) gateVisibility(m ndltypes.Manifest, requester ndlcrypto.PeerId) (ndltypes.Manifest, error) {
	if m.Visibility == ndltypes.VisibilityPrivate && !m.IsOwnedBy(requester) {
		return ndltypes.Manifest{}, ErrNotFound
	}
	return m, nil
}
