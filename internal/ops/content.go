package ops

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nodalync/node/internal/econ"
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
	"github.com/nodalync/node/internal/store"
)

// CreateContent stores raw bytes as new L0 content: computes its hash,
// builds a v1 manifest with self-referential provenance owned by this
// node, validates, and persists both the bytes and the manifest.
func (o *NodeOps) CreateContent(ctx context.Context, content []byte, metadata ndltypes.Metadata) (ndlcrypto.Hash, error) {
	hash := ndlcrypto.ContentHash(content)
	metadata.ContentSize = int64(len(content))
	now := o.Clock.Now()

	m := ndltypes.Manifest{
		Hash: hash,
		Owner: o.Self,
		ContentType: ndltypes.ContentL0,
		Version: ndltypes.Version{Number: 1, Root: hash},
		Visibility: ndltypes.VisibilityPrivate,
		Metadata: metadata,
		Provenance: ndltypes.NewL0Provenance(hash, o.Self),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := o.Validator.ValidatePublish(m, content, nil, nil); err != nil {
		return ndlcrypto.Hash{}, translate(err)
	}
	if _, err := o.Content.Store(content); err != nil {
		return ndlcrypto.Hash{}, translate(err)
	}
	if err := o.Manifests.Put(ctx, m); err != nil {
		return ndlcrypto.Hash{}, translate(err)
	}
	return hash, nil
}

// ExtractL1 runs the configured extractor over L0 content and returns
// the derived bytes. Extraction itself is out of scope;
// this only orchestrates the capability call.
func (o *NodeOps) ExtractL1(ctx context.Context, hash ndlcrypto.Hash) ([]byte, error) {
	if o.Extractor == nil {
		return nil, translate(fmt.Errorf("ops: no extractor capability configured"))
	}
	content, err := o.Content.Load(hash)
	if err != nil {
		return nil, translate(err)
	}
	mentions, err := o.Extractor.ExtractL1(ctx, content)
	if err != nil {
		return nil, translate(err)
	}
	return mentions, nil
}

// PublishContent sets visibility, price, and access control for content
// this node owns, then announces it to discovery if a network
// capability is wired.
func (o *NodeOps) PublishContent(ctx context.Context, hash ndlcrypto.Hash, visibility ndltypes.Visibility, price ndltypes.Tinybars, access ndltypes.AccessControl) error {
	m, err := o.Manifests.Get(ctx, hash)
	if err != nil {
		return translate(err)
	}
	if !m.IsOwnedBy(o.Self) {
		return translate(fmt.Errorf("ops: content is not owned by this node"))
	}
	if err := econ.ValidatePrice(price); err != nil {
		return translate(err)
	}

	m.Visibility = visibility
	m.Economics.Price = price
	m.Access = access
	m.UpdatedAt = o.Clock.Now()

	if err := o.Manifests.Put(ctx, m); err != nil {
		return translate(err)
	}

	if o.Network != nil && visibility == ndltypes.VisibilityShared {
		payload, err := json.Marshal(m)
		if err != nil {
			return translate(fmt.Errorf("ops: marshal manifest for announce: %w", err))
		}
		if err := o.Network.Announce(ctx, hash, payload); err != nil {
			return translate(err)
		}
	}
	return nil
}

// UnpublishContent sets visibility back to Private and withdraws any
// discovery announcement. The manifest and bytes are retained — only
// discoverability changes.
func (o *NodeOps) UnpublishContent(ctx context.Context, hash ndlcrypto.Hash) error {
	m, err := o.Manifests.Get(ctx, hash)
	if err != nil {
		return translate(err)
	}
	if !m.IsOwnedBy(o.Self) {
		return translate(fmt.Errorf("ops: content is not owned by this node"))
	}

	m.Visibility = ndltypes.VisibilityPrivate
	m.UpdatedAt = o.Clock.Now()
	if err := o.Manifests.Put(ctx, m); err != nil {
		return translate(err)
	}

	if o.Network != nil {
		if err := o.Network.Remove(ctx, hash); err != nil {
			return translate(err)
		}
	}
	return nil
}

// UpdateContent stores newContent as the next version in oldHash's
// chain: the new manifest's version.previous links to oldHash,
// version.root stays the chain's v1 hash, and owner/content_type carry
// forward unchanged.
func (o *NodeOps) UpdateContent(ctx context.Context, oldHash ndlcrypto.Hash, newContent []byte, newMetadata ndltypes.Metadata) (ndlcrypto.Hash, error) {
	prev, err := o.Manifests.Get(ctx, oldHash)
	if err != nil {
		return ndlcrypto.Hash{}, translate(err)
	}
	if !prev.IsOwnedBy(o.Self) {
		return ndlcrypto.Hash{}, translate(fmt.Errorf("ops: content is not owned by this node"))
	}

	newHash := ndlcrypto.ContentHash(newContent)
	newMetadata.ContentSize = int64(len(newContent))
	now := o.Clock.Now()

	m := ndltypes.Manifest{
		Hash: newHash,
		Owner: prev.Owner,
		ContentType: prev.ContentType,
		Version: ndltypes.Version{
			Number: prev.Version.Number + 1,
			Root: prev.Version.Root,
			Previous: &oldHash,
		},
		Visibility: prev.Visibility,
		Metadata: newMetadata,
		Economics: prev.Economics,
		Provenance: ndltypes.NewL0Provenance(newHash, prev.Owner),
		Access: prev.Access,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := o.Validator.ValidatePublish(m, newContent, &prev, nil); err != nil {
		return ndlcrypto.Hash{}, translate(err)
	}
	if _, err := o.Content.Store(newContent); err != nil {
		return ndlcrypto.Hash{}, translate(err)
	}
	if err := o.Manifests.Put(ctx, m); err != nil {
		return ndlcrypto.Hash{}, translate(err)
	}
	return newHash, nil
}

// DeriveContent synthesizes L3 insight from N source manifests, which
// must each be either owned by this node or present in its local cache
// (i.e., already paid for). Provenance merges the sources' entries by
// hash, summing weight and keeping the maximum visibility observed;
// depth is one more than the deepest source.
func (o *NodeOps) DeriveContent(ctx context.Context, sources []ndlcrypto.Hash, insight []byte, metadata ndltypes.Metadata) (ndlcrypto.Hash, error) {
	if len(sources) == 0 {
		return ndlcrypto.Hash{}, translate(fmt.Errorf("ops: derive requires at least one source"))
	}

	var allEntries []ndltypes.ProvenanceEntry
	sourceDepths := make(map[string]uint32, len(sources))
	var maxDepth uint32

	for _, src := range sources {
		sm, err := o.Manifests.Get(ctx, src)
		if err != nil {
			return ndlcrypto.Hash{}, translate(err)
		}
		if !sm.IsOwnedBy(o.Self) && !o.Cache.Has(src) {
			return ndlcrypto.Hash{}, translate(fmt.Errorf("ops: source %s was not queried", src))
		}
		allEntries = append(allEntries, sm.Provenance.Entries...)
		sourceDepths[src.String()] = sm.Provenance.Depth
		if sm.Provenance.Depth > maxDepth {
			maxDepth = sm.Provenance.Depth
		}
	}

	merged := ndltypes.MergeProvenanceEntries(allEntries)
	newHash := ndlcrypto.ContentHash(insight)
	now := o.Clock.Now()

	m := ndltypes.Manifest{
		Hash: newHash,
		Owner: o.Self,
		ContentType: ndltypes.ContentL3,
		Version: ndltypes.Version{Number: 1, Root: newHash},
		Visibility: ndltypes.VisibilityPrivate,
		Metadata: metadata,
		Provenance: ndltypes.Provenance{Entries: merged, Depth: maxDepth + 1},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := o.Validator.ValidatePublish(m, insight, nil, sourceDepths); err != nil {
		return ndlcrypto.Hash{}, translate(err)
	}
	if _, err := o.Content.Store(insight); err != nil {
		return ndlcrypto.Hash{}, translate(err)
	}
	if err := o.Manifests.Put(ctx, m); err != nil {
		return ndlcrypto.Hash{}, translate(err)
	}
	return newHash, nil
}

// ReferenceL3AsL0 promotes a previously-queried L3 synthesis into a new
// L0-style root: the content bytes are kept verbatim, but the new
// manifest's provenance collapses to a single self-referential entry
// weighted 1, owned by this node. The source L3's receipt in the local
// cache is the sole authorization — it proves payment was made.
func (o *NodeOps) ReferenceL3AsL0(ctx context.Context, l3Hash ndlcrypto.Hash) (ndlcrypto.Hash, error) {
	sm, err := o.Manifests.Get(ctx, l3Hash)
	if err != nil {
		return ndlcrypto.Hash{}, translate(err)
	}
	if sm.ContentType != ndltypes.ContentL3 {
		return ndlcrypto.Hash{}, translate(fmt.Errorf("ops: %s is not an L3 manifest", l3Hash))
	}

	var content []byte
	if sm.IsOwnedBy(o.Self) {
		content, err = o.Content.Load(l3Hash)
		if err != nil {
			return ndlcrypto.Hash{}, translate(err)
		}
	} else if cached, ok := o.Cache.Get(l3Hash); ok {
		content = cached.Bytes
	} else {
		return ndlcrypto.Hash{}, translate(fmt.Errorf("ops: %s was not queried (no cached receipt)", l3Hash))
	}

	now := o.Clock.Now()
	newHash := l3Hash
	m := ndltypes.Manifest{
		Hash: newHash,
		Owner: o.Self,
		ContentType: ndltypes.ContentL0,
		Version: ndltypes.Version{Number: 1, Root: newHash},
		Visibility: ndltypes.VisibilityPrivate,
		Metadata: sm.Metadata,
		Provenance: ndltypes.NewL0Provenance(newHash, o.Self),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := o.Content.StoreVerified(newHash, content); err != nil {
		return ndlcrypto.Hash{}, translate(err)
	}
	if err := o.Manifests.Put(ctx, m); err != nil {
		return ndlcrypto.Hash{}, translate(err)
	}
	return newHash, nil
}

// GetVersions returns every manifest sharing root's version chain.
func (o *NodeOps) GetVersions(ctx context.Context, root ndlcrypto.Hash) ([]ndltypes.Manifest, error) {
	versions, err := o.Manifests.Find(ctx, store.NewManifestFilter().WithVersionRoot(root).Limit(1000))
	if err != nil {
		return nil, translate(err)
	}
	return versions, nil
}
