package wire

import "errors"

// Errors returned by the wire codec.
var (
	ErrMessageTooLarge  = errors.New("wire: message exceeds MaxMessageSize")
	ErrBadMagic         = errors.New("wire: bad protocol magic")
	ErrBadVersion       = errors.New("wire: bad protocol version")
	ErrTruncated        = errors.New("wire: truncated frame")
	ErrUnknownSender    = errors.New("wire: sender public key not resolvable")
	ErrSignatureInvalid = errors.New("wire: signature does not verify")
)
