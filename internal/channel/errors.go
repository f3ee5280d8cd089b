package channel

import "errors"

var (
	// ErrChannelAlreadyExists is returned when a second ChannelOpen is
	// attempted while one is already in flight with the same peer.
	ErrChannelAlreadyExists = errors.New("channel: already open or opening with this peer")
	// ErrNotFound is returned when an operation references a channel id
	// that has no local record.
	ErrNotFound = errors.New("channel: not found")
	// ErrNotOpen is returned when a transition is attempted against a
	// channel whose state does not allow it: an update, close, or dispute
	// on a channel that is not Open, a confirm on one that is not Opening,
	// or a finalize, counter-dispute, or resolve from the wrong state.
	ErrNotOpen = errors.New("channel: not open")
	// ErrNonceReplay is returned when an update's nonce does not equal
	// the channel's current nonce plus one.
	ErrNonceReplay = errors.New("channel: nonce is not the next expected value")
	// ErrInsufficientBalance is returned when an update would drive the
	// payer's balance negative.
	ErrInsufficientBalance = errors.New("channel: payer balance insufficient for update")
	// ErrInvalidSignature is returned when an update's signature does
	// not verify against the payer's public key.
	ErrInvalidSignature = errors.New("channel: signature does not verify")
	// ErrStaleState is returned when a counter-dispute is submitted with
	// a nonce no higher than the one already on record.
	ErrStaleState = errors.New("channel: submitted state is not newer than the recorded one")
)
