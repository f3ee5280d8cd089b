package ops

import (
	"context"

	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
	"github.com/nodalync/node/internal/query"
	"github.com/sirupsen/logrus"
)

// PreviewContent resolves hash's manifest, gated by visibility and
// access control, without moving any payment.
func (o *NodeOps) PreviewContent(ctx context.Context, hash ndlcrypto.Hash) (ndltypes.Manifest, error) {
	m, err := o.Pipeline.Preview(ctx, hash, o.Self)
	if err != nil {
		return ndltypes.Manifest{}, translate(err)
	}
	return m, nil
}

// QueryContent pays for and retrieves hash's content, opening a channel
// with the owner first if none exists.
func (o *NodeOps) QueryContent(ctx context.Context, hash ndlcrypto.Hash, amount ndltypes.Tinybars) (query.Result, error) {
	res, err := o.Pipeline.Query(ctx, hash, amount)
	if err != nil {
		return query.Result{}, translate(err)
	}
	return res, nil
}

// SearchContent runs a local title-prefix search over the manifest
// index, gated by the same visibility rules as PreviewContent.
func (o *NodeOps) SearchContent(ctx context.Context, queryStr string, contentType *ndltypes.ContentType, limit int) ([]query.SearchResult, error) {
	results, err := o.Pipeline.Search(ctx, queryStr, contentType, limit)
	if err != nil {
		return nil, translate(err)
	}
	for _, r := range results {
		o.log.WithFields(logrus.Fields{
			"hash":  r.Manifest.Hash.String(),
			"title": TruncateString(r.Manifest.Metadata.Title, 60),
		}).Debug("search result")
	}
	return results, nil
}
