package ops

import (
	"github.com/nodalync/node/internal/capability"
	"github.com/nodalync/node/internal/channel"
	"github.com/nodalync/node/internal/config"
	"github.com/nodalync/node/internal/econ"
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
	"github.com/nodalync/node/internal/query"
	"github.com/nodalync/node/internal/settlement"
	"github.com/nodalync/node/internal/store"
	"github.com/nodalync/node/internal/validate"
	"github.com/sirupsen/logrus"
)

// NodeOps is the node's operations facade: it owns content storage,
// the manifest index, channels, validation, and settlement, and exposes
// a narrow async surface for publishing, querying, and channel
// management. Network is optional — a nil Network restricts the node
// to local-only operation.
type NodeOps struct {
	Self     ndlcrypto.PeerId
	SelfPriv *ndlcrypto.PrivateKey

	Content   *store.ContentStore
	Manifests store.ManifestStore
	Cache     *store.ContentCache

	Channels    channel.Machine
	Validator   validate.Validator
	Distributor econ.Distributor
	Queue       *settlement.Queue
	Batcher     *settlement.Batcher
	Bonds       ndltypes.BondChecker

	Pipeline *query.Pipeline

	Extractor capability.Extractor
	Network   capability.Network
	Chain     capability.SettlementChain
	Clock     capability.Clock

	Config config.OpsConfig
	log    *logrus.Entry
}

// New builds a NodeOps with no network or chain capability attached —
// local-only operation until WithNetwork/WithChain are called.
func New(
	self ndlcrypto.PeerId,
	selfPriv *ndlcrypto.PrivateKey,
	content *store.ContentStore,
	manifests store.ManifestStore,
	cache *store.ContentCache,
	channels channel.Machine,
	queue *settlement.Queue,
	bonds ndltypes.BondChecker,
	clock capability.Clock,
	cfg config.OpsConfig,
) *NodeOps {
	validator := validate.New(clock)
	distributor := econ.NewDefaultDistributor()

	pipeline := &query.Pipeline{
		Self:        self,
		SelfPriv:    selfPriv,
		Content:     content,
		Manifests:   manifests,
		Cache:       cache,
		Channels:    channels,
		Validator:   validator,
		Distributor: distributor,
		Queue:       queue,
		Bonds:       bonds,
		Clock:       clock,
		Config:      cfg.Channel,
	}

	return &NodeOps{
		Self:        self,
		SelfPriv:    selfPriv,
		Content:     content,
		Manifests:   manifests,
		Cache:       cache,
		Channels:    channels,
		Validator:   validator,
		Distributor: distributor,
		Queue:       queue,
		Bonds:       bonds,
		Pipeline:    pipeline,
		Clock:       clock,
		Config:      cfg,
		log:         logrus.WithField("component", "ops"),
	}
}

// WithNetwork attaches a transport collaborator, enabling DHT announce,
// lookup, remove, and point-to-point query/channel messaging.
func (o *NodeOps) WithNetwork(network capability.Network) *NodeOps {
	o.Network = network
	o.Pipeline.Network = network
	return o
}

// WithChain attaches the on-chain settlement collaborator and
// constructs the settlement batcher around it.
func (o *NodeOps) WithChain(chain capability.SettlementChain, rng capability.RNG) *NodeOps {
	o.Chain = chain
	o.Pipeline.Chain = chain
	o.Batcher = settlement.NewBatcher(o.Queue, o.Distributor, chain, o.Clock, rng)
	return o
}

// WithExtractor attaches the L1 extractor used by ExtractL1.
func (o *NodeOps) WithExtractor(extractor capability.Extractor) *NodeOps {
	o.Extractor = extractor
	return o
}
