package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/nodalync/node/internal/capability"
	"github.com/nodalync/node/internal/econ"
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
	"github.com/sirupsen/logrus"
)

// Batcher drives the trigger → form → submit → mark cycle described for
// the settlement queue, retrying transient on-chain failures with
// exponential backoff and moving permanently-failing batches to the
// dead-letter set.
type Batcher struct {
	Queue        *Queue
	Distributor  econ.Distributor
	Chain        capability.SettlementChain
	Clock        capability.Clock
	RNG          capability.RNG
	Log          *logrus.Entry
}

// NewBatcher constructs a Batcher with a derived logger field.
func NewBatcher(queue *Queue, distributor econ.Distributor, chain capability.SettlementChain, clock capability.Clock, rng capability.RNG) *Batcher {
	return &Batcher{
		Queue:       queue,
		Distributor: distributor,
		Chain:       chain,
		Clock:       clock,
		RNG:         rng,
		Log:         logrus.WithField("component", "settlement.batcher"),
	}
}

// ShouldSettle reports whether a batch should be formed right now.
func (b *Batcher) ShouldSettle(ctx context.Context) (bool, error) {
	pendingTotal, err := b.Queue.PendingTotal(ctx)
	if err != nil {
		return false, err
	}
	lastMs, err := b.Queue.LastSettlementTime(ctx)
	if err != nil {
		return false, err
	}
	elapsed := time.Duration(b.Clock.Now().UnixMilli()-lastMs) * time.Millisecond
	return econ.ShouldSettle(pendingTotal, elapsed), nil
}

// TriggerSettlement forms and submits a batch if ShouldSettle holds.
// Returns the batch id, or the zero hash if no settlement was triggered.
func (b *Batcher) TriggerSettlement(ctx context.Context) (ndlcrypto.Hash, error) {
	should, err := b.ShouldSettle(ctx)
	if err != nil {
		return ndlcrypto.Hash{}, err
	}
	if !should {
		return ndlcrypto.Hash{}, nil
	}
	return b.ForceSettlement(ctx)
}

// ForceSettlement forms and submits a batch regardless of the
// threshold/interval trigger.
func (b *Batcher) ForceSettlement(ctx context.Context) (ndlcrypto.Hash, error) {
	pending, err := b.Queue.Pending(ctx)
	if err != nil {
		return ndlcrypto.Hash{}, err
	}
	if len(pending) == 0 {
		return ndlcrypto.Hash{}, nil
	}

	batch, err := b.Distributor.CalculateBatch(pending, b.Chain.AccountFor)
	if err != nil {
		return ndlcrypto.Hash{}, fmt.Errorf("settlement: calculate batch: %w", err)
	}
	if batch.IsEmpty() {
		return ndlcrypto.Hash{}, nil
	}

	ids := make([]ndlcrypto.Hash, len(pending))
	for i, d := range pending {
		ids[i] = d.PaymentID
	}

	if err := b.submitWithRetry(ctx, batch); err != nil {
		b.Log.WithError(err).WithField("batch_id", batch.BatchID).Warn("settlement batch submission failed permanently")
		if markErr := b.Queue.MarkDeadLetter(ctx, ids, err.Error()); markErr != nil {
			return ndlcrypto.Hash{}, markErr
		}
		return ndlcrypto.Hash{}, err
	}

	if err := b.Queue.MarkSettled(ctx, ids, batch.BatchID); err != nil {
		return ndlcrypto.Hash{}, err
	}
	if err := b.Queue.SetLastSettlementTime(ctx, b.Clock.Now().UnixMilli()); err != nil {
		return ndlcrypto.Hash{}, err
	}

	b.Log.WithField("batch_id", batch.BatchID).WithField("entries", len(batch.Entries)).Info("settlement batch submitted")
	return batch.BatchID, nil
}

// submitWithRetry submits batch to the chain, retrying transient
// failures with exponential backoff (base 500ms, max 10s, ±25% jitter)
// up to RetryMaxAttempts times. A permanent failure, or exhausting
// retries, returns the last error.
func (b *Batcher) submitWithRetry(ctx context.Context, batch ndltypes.SettlementBatch) error {
	var lastErr error
	delay := ndltypes.RetryBaseDelay

	for attempt := 1; attempt <= ndltypes.RetryMaxAttempts; attempt++ {
		_, err := b.Chain.SettleBatch(ctx, batch)
		if err == nil {
			return nil
		}
		lastErr = err
		if !capability.IsTransient(err) {
			return err
		}
		if attempt == ndltypes.RetryMaxAttempts {
			break
		}

		jitter := 1 + (b.RNG.Float64()*2-1)*ndltypes.RetryJitterFrac
		wait := time.Duration(float64(delay) * jitter)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay *= 2
		if delay > ndltypes.RetryMaxDelay {
			delay = ndltypes.RetryMaxDelay
		}
	}
	return lastErr
}
