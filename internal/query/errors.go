package query

import "errors"

var (
	// ErrNotFound is returned when a hash resolves to nothing locally,
	// in the discovery cache, or over the network — or resolves to
	// private content requested by a non-owner.
	ErrNotFound = errors.New("query: content not found")
	// ErrNoNetwork is returned when a remote operation is attempted on a
	// node with no Network capability wired.
	ErrNoNetwork = errors.New("query: no network capability configured")
	// ErrInsufficientChannelBalance is returned when the requester's
	// channel balance cannot cover the query amount.
	ErrInsufficientChannelBalance = errors.New("query: channel balance insufficient for amount")
	// ErrContentHashMismatch is returned when the delivered bytes do not
	// hash to the queried hash. The payment is not rolled back; the
	// remedy is an on-chain dispute.
	ErrContentHashMismatch = errors.New("query: delivered bytes do not match the queried hash")
)
