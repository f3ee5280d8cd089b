package query

import (
	"context"

	"github.com/nodalync/node/internal/ndltypes"
	"github.com/nodalync/node/internal/store"
)

// SearchResult is one match, tagged with where it was found.
type SearchResult struct {
	Manifest ndltypes.Manifest
	Source   string // always "local": Search reads only the local index
}

// Search matches against the local manifest index by title prefix,
// optionally restricted to a content type. The Network capability is
// not used, so no cached-announcement or peer results are returned.
// A manifest's visibility is enforced the same way Preview enforces it:
// private content never surfaces for non-owners.
func (p *Pipeline) Search(ctx context.Context, queryStr string, contentType *ndltypes.ContentType, limit int) ([]SearchResult, error) {
	filter := store.NewManifestFilter().WithTitlePrefix(queryStr).Limit(limit)
	if contentType != nil {
		filter = filter.WithContentType(*contentType)
	}

	matches, err := p.Manifests.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		if m.Visibility == ndltypes.VisibilityPrivate && !m.IsOwnedBy(p.Self) {
			continue
		}
		results = append(results, SearchResult{Manifest: m, Source: "local"})
	}
	return results, nil
}
