package ops

import (
	"errors"

	"github.com/nodalync/node/internal/capability"
	"github.com/nodalync/node/internal/channel"
	"github.com/nodalync/node/internal/econ"
	"github.com/nodalync/node/internal/query"
	"github.com/nodalync/node/internal/store"
	"github.com/nodalync/node/internal/validate"
)

// translate maps an internal component error onto the protocol's
// boundary error code set. Unrecognized errors become
// CodeInternalError and are treated as non-recoverable: a caller that
// doesn't know what went wrong shouldn't assume retrying helps.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var opsErr *Error
	if errors.As(err, &opsErr) {
		return opsErr
	}

	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, query.ErrNotFound):
		return newError(CodeNotFound, false, "verify the content hash and try again", err)
	case errors.Is(err, store.ErrHashMismatch):
		return newError(CodeInvalidHash, false, "the stored bytes do not match the expected hash; re-fetch the content", err)
	case errors.Is(err, query.ErrContentHashMismatch):
		return newError(CodeInvalidHash, false, "delivered bytes failed hash verification; dispute the channel if this persists", err)
	case errors.Is(err, query.ErrNoNetwork):
		return newError(CodeConnectionFailed, false, "no network capability is configured on this node", err)
	case errors.Is(err, query.ErrInsufficientChannelBalance),
		errors.Is(err, channel.ErrInsufficientBalance):
		return newError(CodeInsufficientBalance, false, "top up the payment channel on-chain", err)
	case errors.Is(err, channel.ErrChannelAlreadyExists):
		return newError(CodeInvalidManifest, false, "close the existing channel with this peer before opening another", err)
	case errors.Is(err, channel.ErrNotFound):
		return newError(CodeNotFound, false, "no channel exists with this peer", err)
	case errors.Is(err, channel.ErrNotOpen), errors.Is(err, channel.ErrNonceReplay), errors.Is(err, channel.ErrStaleState):
		return newError(CodeInvalidManifest, false, "channel state rejected this operation", err)
	case errors.Is(err, channel.ErrInvalidSignature):
		return newError(CodePaymentRequired, false, "the payment signature did not verify", err)
	case errors.Is(err, econ.ErrEmptyEntries), errors.Is(err, econ.ErrIndexOutOfBounds):
		return newError(CodeInvalidManifest, false, "malformed settlement batch", err)
	case capability.IsTransient(err):
		return newError(CodeConnectionFailed, true, "a transient network or chain error occurred; it will be retried automatically", err)
	}

	var valErr *validate.ValidationError
	if errors.As(err, &valErr) {
		switch valErr.Check {
		case validate.CheckPayment:
			return newError(CodePaymentRequired, false, "payment did not satisfy the manifest's price or channel state", err)
		case validate.CheckAccess:
			return newError(CodeAccessDenied, false, "this peer is not permitted to query the content", err)
		default:
			return newError(CodeInvalidManifest, false, "manifest failed validation: "+valErr.Reason, err)
		}
	}

	var econErr *econ.PriceError
	if errors.As(err, &econErr) {
		return newError(CodeInvalidManifest, false, "price is outside the allowed range", err)
	}

	return newError(CodeInternalError, false, "an unexpected internal error occurred", err)
}
