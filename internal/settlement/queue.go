package settlement

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

// Enqueuer is the narrow surface the query pipeline needs to hand off a
// distribution for later settlement. It is satisfied by *Queue in
// production and can be faked in tests.
type Enqueuer interface {
	Enqueue(ctx context.Context, d ndltypes.QueuedDistribution) error
}

// Queue is the persistent settlement_queue table: pending distributions
// waiting to be aggregated into a batch, plus the single-row settlement
// meta tracking when the last batch was formed.
type Queue struct {
	pool *pgxpool.Pool
}

// NewQueue wraps an existing pool, shared with the manifest index.
func NewQueue(pool *pgxpool.Pool) *Queue {
	return &Queue{pool: pool}
}

// Enqueue inserts one distribution awaiting settlement.
func (q *Queue) Enqueue(ctx context.Context, d ndltypes.QueuedDistribution) error {
	const stmt = `
		INSERT INTO settlement_queue (payment_id, recipient, amount, source_hash, queued_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (payment_id) DO NOTHING;
	`
	_, err := q.pool.Exec(ctx, stmt, d.PaymentID.String(), d.Recipient.String(), int64(d.Amount), d.SourceHash.String(), d.QueuedAt)
	if err != nil {
		return fmt.Errorf("settlement: enqueue: %w", err)
	}
	return nil
}

// Pending returns every distribution not yet marked settled or
// dead-lettered.
func (q *Queue) Pending(ctx context.Context) ([]ndltypes.QueuedDistribution, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT payment_id, recipient, amount, source_hash, queued_at
		FROM settlement_queue
		WHERE batch_id IS NULL AND dead_letter = FALSE
		ORDER BY recipient, queued_at;
	`)
	if err != nil {
		return nil, fmt.Errorf("settlement: pending: %w", err)
	}
	defer rows.Close()

	var out []ndltypes.QueuedDistribution
	for rows.Next() {
		var d ndltypes.QueuedDistribution
		var paymentID, recipient, sourceHash string
		if err := rows.Scan(&paymentID, &recipient, &d.Amount, &sourceHash, &d.QueuedAt); err != nil {
			return nil, fmt.Errorf("settlement: scan pending: %w", err)
		}
		if d.PaymentID, err = ndlcrypto.ParseHash(paymentID); err != nil {
			return nil, err
		}
		if d.Recipient, err = ndlcrypto.ParsePeerId(recipient); err != nil {
			return nil, err
		}
		if d.SourceHash, err = ndlcrypto.ParseHash(sourceHash); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// PendingTotal sums the amount of every pending distribution.
func (q *Queue) PendingTotal(ctx context.Context) (ndltypes.Tinybars, error) {
	var total int64
	err := q.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM settlement_queue
		WHERE batch_id IS NULL AND dead_letter = FALSE;
	`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("settlement: pending total: %w", err)
	}
	return ndltypes.Tinybars(total), nil
}

// MarkSettled stamps every payment id in ids with batchID.
func (q *Queue) MarkSettled(ctx context.Context, ids []ndlcrypto.Hash, batchID ndlcrypto.Hash) error {
	if len(ids) == 0 {
		return nil
	}
	hexIDs := make([]string, len(ids))
	for i, id := range ids {
		hexIDs[i] = id.String()
	}
	_, err := q.pool.Exec(ctx, `
		UPDATE settlement_queue SET batch_id = $1 WHERE payment_id = ANY($2);
	`, batchID.String(), hexIDs)
	if err != nil {
		return fmt.Errorf("settlement: mark settled: %w", err)
	}
	return nil
}

// MarkDeadLetter moves ids to the dead-letter set with reason, after a
// permanent submission failure.
func (q *Queue) MarkDeadLetter(ctx context.Context, ids []ndlcrypto.Hash, reason string) error {
	if len(ids) == 0 {
		return nil
	}
	hexIDs := make([]string, len(ids))
	for i, id := range ids {
		hexIDs[i] = id.String()
	}
	_, err := q.pool.Exec(ctx, `
		UPDATE settlement_queue SET dead_letter = TRUE, failure_reason = $1 WHERE payment_id = ANY($2);
	`, reason, hexIDs)
	if err != nil {
		return fmt.Errorf("settlement: mark dead letter: %w", err)
	}
	return nil
}

// LastSettlementTime returns the millisecond timestamp the last batch
// was formed at, or 0 if none has ever been formed.
func (q *Queue) LastSettlementTime(ctx context.Context) (int64, error) {
	var t int64
	err := q.pool.QueryRow(ctx, `SELECT last_settlement_time FROM settlement_meta WHERE id = 1;`).Scan(&t)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("settlement: last settlement time: %w", err)
	}
	return t, nil
}

// SetLastSettlementTime records when a batch was formed.
func (q *Queue) SetLastSettlementTime(ctx context.Context, ms int64) error {
	_, err := q.pool.Exec(ctx, `
		INSERT INTO settlement_meta (id, last_settlement_time) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET last_settlement_time = EXCLUDED.last_settlement_time;
	`, ms)
	if err != nil {
		return fmt.Errorf("settlement: set last settlement time: %w", err)
	}
	return nil
}
