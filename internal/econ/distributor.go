package econ

import (
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

// Distributor abstracts revenue distribution and settlement batch
// formation, so alternative fee structures or test doubles can stand in
// for the protocol's default rules.
type Distributor interface {
	Distribute(amount ndltypes.Tinybars, owner ndlcrypto.PeerId, provenance []ndltypes.ProvenanceEntry) []ndltypes.Distribution
	CalculateBatch(pending []ndltypes.QueuedDistribution, accountFor AccountResolver) (ndltypes.SettlementBatch, error)
}

// DefaultDistributor implements the protocol's 5% synthesis fee / 95%
// root pool distribution.
type DefaultDistributor struct{}

func NewDefaultDistributor() DefaultDistributor {
	return DefaultDistributor{}
}

func (DefaultDistributor) Distribute(amount ndltypes.Tinybars, owner ndlcrypto.PeerId, provenance []ndltypes.ProvenanceEntry) []ndltypes.Distribution {
	return DistributeRevenue(amount, owner, provenance)
}

func (DefaultDistributor) CalculateBatch(pending []ndltypes.QueuedDistribution, accountFor AccountResolver) (ndltypes.SettlementBatch, error) {
	return CreateSettlementBatch(pending, accountFor)
}
