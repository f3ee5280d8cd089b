// Package ndltypes holds the protocol's data model:
// manifests, provenance, versions, economics, access control, payments,
// channels, and settlement entries.
package ndltypes

import "time"

// Tinybars is the smallest unit of account; currency is always HBAR
// (10^-8 HBAR per tinybar).
type Tinybars = uint64

const (
	// MaxContentSize bounds a single content object.
	MaxContentSize = 100 * 1024 * 1024

	// MaxTitleLength, MaxDescriptionLength, MaxTagCount, MaxTagLength
	// bound Metadata fields.
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxTagCount          = 20
	MaxTagLength         = 50

	// MinPrice and MaxPrice bound Economics.price.
	MinPrice Tinybars = 1
	MaxPrice Tinybars = 1_000_000_000_000

	// SynthesisFeeNumerator and SynthesisFeeDenominator implement the
	// 5% synthesis fee.
	SynthesisFeeNumerator   = 5
	SynthesisFeeDenominator = 100

	// MaxProvenanceDepth is the implementer-chosen cap on L3 derivation
	// depth.
	MaxProvenanceDepth = 64

	// MaxMessageSize bounds a wire message body.
	MaxMessageSize = 10 * 1024 * 1024

	// MessageTimestampSkew is the allowed clock drift for message
	// validation.
	MessageTimestampSkew = 5 * time.Minute

	// SettlementBatchThreshold and SettlementBatchInterval drive
	// whether a settlement batch should form.
	SettlementBatchThreshold Tinybars      = 100_000_000
	SettlementBatchInterval  time.Duration = 1 * time.Hour

	// DefaultRequestTimeout is the per-RPC timeout.
	DefaultRequestTimeout = 30 * time.Second

	// RetryBaseDelay, RetryMaxDelay, RetryMaxAttempts, RetryJitterFrac
	// implement the exponential-backoff retry policy for settlement
	// submission.
	RetryBaseDelay   = 500 * time.Millisecond
	RetryMaxDelay    = 10 * time.Second
	RetryMaxAttempts = 3
	RetryJitterFrac  = 0.25
)
