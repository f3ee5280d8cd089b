package ndltypes

import (
	"time"

	"github.com/nodalync/node/internal/ndlcrypto"
)

// Manifest is the central, typed, content-addressed metadata record.
// A manifest is never deleted: the manifest row remains for provenance
// integrity. Unpublish only sets Visibility back to Private; it keeps
// both the manifest row and the content bytes.
type Manifest struct {
	Hash        ndlcrypto.Hash   `json:"hash"`
	Owner       ndlcrypto.PeerId `json:"owner"`
	ContentType ContentType      `json:"contentType"`
	Version     Version          `json:"version"`
	Visibility  Visibility       `json:"visibility"`
	Metadata    Metadata         `json:"metadata"`
	Economics   Economics        `json:"economics"`
	Provenance  Provenance       `json:"provenance"`
	Access      AccessControl    `json:"access"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// IsOwnedBy reports whether peer is the manifest's owner. Owners bypass
// visibility and price checks in several operations.
func (m Manifest) IsOwnedBy(peer ndlcrypto.PeerId) bool {
	return m.Owner == peer
}

// IsQueryableBy reports whether peer may query this manifest at all,
// independent of payment: Private content is never queryable by a
// non-owner; Unlisted and Shared content defer to AccessControl.
func (m Manifest) IsQueryableBy(peer ndlcrypto.PeerId, bonds BondChecker) bool {
	if m.IsOwnedBy(peer) {
		return true
	}
	if m.Visibility == VisibilityPrivate {
		return false
	}
	return m.Access.IsPeerAllowed(peer, bonds)
}

// StructurallyValid checks the local, non-cross-referencing invariants
// from hash/version/type-specific shape. Cross-manifest checks
// (version chains, provenance sourcing) belong to the Validator.
func (m Manifest) StructurallyValid() bool {
	if !m.Version.Consistent() {
		return false
	}
	switch m.ContentType {
	case ContentL0:
		if !m.Provenance.IsL0(m.Hash) {
			return false
		}
	case ContentL2:
		if m.Visibility != VisibilityPrivate || m.Economics.Price != 0 {
			return false
		}
	}
	return m.Metadata.WithinBounds()
}
