package validate

import (
	"github.com/nodalync/node/internal/capability"
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
	"github.com/nodalync/node/internal/wire"
)

// Validator composes the individual checks into the sequences the
// operations facade actually needs, short-circuiting on the first
// failure. It takes a Clock explicitly rather than reading a global, so
// tests can inject a fixed time.
type Validator struct {
	Clock capability.Clock
}

// New constructs a Validator bound to clock.
func New(clock capability.Clock) Validator {
	return Validator{Clock: clock}
}

// ValidatePublish runs the checks relevant to publishing or updating a
// manifest: content, version chain, and provenance, in that order.
func (v Validator) ValidatePublish(m ndltypes.Manifest, bytes []byte, previous *ndltypes.Manifest, sourceDepths map[string]uint32) error {
	if err := Content(m, bytes); err != nil {
		return err
	}
	if err := Version(m, previous); err != nil {
		return err
	}
	if err := Provenance(m, sourceDepths); err != nil {
		return err
	}
	return nil
}

// ValidateQuery runs the checks relevant to a paid query: access then
// payment, in that order — a requester who fails access never reaches
// payment validation. payerBalance is the payer's balance as seen in the
// validating node's own channel row (see Payment).
func (v Validator) ValidateQuery(
	m ndltypes.Manifest,
	requester ndlcrypto.PeerId,
	bonds ndltypes.BondChecker,
	p ndltypes.Payment,
	ch ndltypes.Channel,
	payerBalance ndltypes.Tinybars,
	signerPub ndlcrypto.PublicKey,
	nextNonce uint64,
) error {
	if err := Access(m, requester, bonds); err != nil {
		return err
	}
	if err := Payment(p, m.Economics.Price, ch, payerBalance, signerPub, m.Hash, nextNonce); err != nil {
		return err
	}
	return nil
}

// ValidateIncomingMessage runs the message-framing check using the
// Validator's clock for the timestamp window.
func (v Validator) ValidateIncomingMessage(m wire.Message, senderPub ndlcrypto.PublicKey) error {
	return Message(m, v.Clock.Now(), senderPub)
}
