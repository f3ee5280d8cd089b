package ndltypes

import "github.com/nodalync/node/internal/ndlcrypto"

// BondChecker is supplied by the operations facade to answer "has this
// peer staked at least this much" without AccessControl needing to know
// how bonds are tracked on-chain.
type BondChecker interface {
	HasBond(peer ndlcrypto.PeerId, amount Tinybars) bool
}

// NoBondChecker rejects every bond requirement. It is the default when
// no on-chain staking backend is wired: manifests that set
// RequireBond are then unreachable by non-owners until a real checker
// is supplied.
type NoBondChecker struct{}

// HasBond always returns false.
func (NoBondChecker) HasBond(ndlcrypto.PeerId, Tinybars) bool { return false }

// AccessControl gates which peers may query a manifest.
type AccessControl struct {
	Allowlist   map[ndlcrypto.PeerId]struct{} `json:"allowlist,omitempty"`
	Denylist    map[ndlcrypto.PeerId]struct{} `json:"denylist,omitempty"`
	RequireBond bool                          `json:"requireBond"`
	BondAmount  Tinybars                      `json:"bondAmount,omitempty"`
}

// IsPeerAllowed applies the access semantics:
// denylist wins over everything; then allowlist, if present, must
// contain the requester; then a bond requirement, if set, must be met.
// bonds may be nil when RequireBond is false.
func (a AccessControl) IsPeerAllowed(requester ndlcrypto.PeerId, bonds BondChecker) bool {
	if _, denied := a.Denylist[requester]; denied {
		return false
	}
	if len(a.Allowlist) > 0 {
		if _, allowed := a.Allowlist[requester]; !allowed {
			return false
		}
	}
	if a.RequireBond {
		if bonds == nil || !bonds.HasBond(requester, a.BondAmount) {
			return false
		}
	}
	return true
}
