// Package query implements the preview/query/search pipeline: paid
// content retrieval that atomically couples delivery with a signed
// micropayment and a verifiable receipt.
package query

import (
	"github.com/nodalync/node/internal/capability"
	"github.com/nodalync/node/internal/channel"
	"github.com/nodalync/node/internal/config"
	"github.com/nodalync/node/internal/econ"
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
	"github.com/nodalync/node/internal/settlement"
	"github.com/nodalync/node/internal/store"
	"github.com/nodalync/node/internal/validate"
)

// Pipeline composes the collaborators Preview, Query, and Search need.
// Network may be nil — previewing a locally indexed manifest and
// querying owned content never need it. Without it, Query of content
// this node does not own returns ErrNoNetwork, Preview of a hash missing
// from the local index returns ErrNotFound, and HandleQueryRequest
// returns wire.ErrUnknownSender.
type Pipeline struct {
	Self     ndlcrypto.PeerId
	SelfPriv *ndlcrypto.PrivateKey

	Content   *store.ContentStore
	Manifests store.ManifestStore
	Cache     *store.ContentCache

	Channels    channel.Machine
	Validator   validate.Validator
	Distributor econ.Distributor
	Queue       settlement.Enqueuer
	Bonds       ndltypes.BondChecker

	Network capability.Network
	Chain   capability.SettlementChain
	Clock   capability.Clock

	Config config.ChannelConfig
}
