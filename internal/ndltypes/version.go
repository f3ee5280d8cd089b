package ndltypes

import "github.com/nodalync/node/internal/ndlcrypto"

// Version identifies a manifest's place in its logical version chain.
// All versions of one logical item share Root, which is the hash of
// the v1 manifest's content.
type Version struct {
	Number   uint32          `json:"number"`
	Root     ndlcrypto.Hash  `json:"root"`
	Previous *ndlcrypto.Hash `json:"previous,omitempty"`
}

// IsFirst reports whether this is version 1. Version 1 must have no
// Previous.
func (v Version) IsFirst() bool {
	return v.Number == 1
}

// Consistent checks the local invariant "number = 1 iff previous = nil".
// It does not check chain continuity against a prior manifest — that's
// the Validator's job.
func (v Version) Consistent() bool {
	if v.Number == 0 {
		return false
	}
	hasPrevious := v.Previous != nil
	return v.IsFirst() != hasPrevious
}
