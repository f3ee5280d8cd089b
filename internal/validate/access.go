package validate

import (
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

// Access checks that private content is never visible to
// non-owners; the denylist wins over everything; the allowlist, if
// present, must contain the requester; and a bond requirement, if set,
// must be satisfied.
func Access(m ndltypes.Manifest, requester ndlcrypto.PeerId, bonds ndltypes.BondChecker) error {
	if m.IsOwnedBy(requester) {
		return nil
	}
	if m.Visibility == ndltypes.VisibilityPrivate {
		return fail(CheckAccess, "visibility", "content is private")
	}
	if !m.Access.IsPeerAllowed(requester, bonds) {
		return fail(CheckAccess, "access", "requester is not permitted")
	}
	return nil
}
