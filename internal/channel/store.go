package channel

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

// Store persists channel records. It is satisfied by PgStore in
// production and can be faked in tests.
type Store interface {
	Put(ctx context.Context, ch ndltypes.Channel) error
	Get(ctx context.Context, id ndlcrypto.Hash) (ndltypes.Channel, error)
	FindOpenByPeer(ctx context.Context, peer ndlcrypto.PeerId) (ndltypes.Channel, bool, error)
}

// PgStore is the pgx-backed Store, sharing the same pool as the manifest
// index (they live in the same database — see store.ManifestIndex.Pool).
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore wraps an existing pool. Callers are expected to have run
// InitSchema on it already.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) Put(ctx context.Context, ch ndltypes.Channel) error {
	data, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("channel: marshal: %w", err)
	}
	const q = `
		INSERT INTO channels (channel_id, peer_id, state, nonce, data)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (channel_id) DO UPDATE SET
			peer_id = EXCLUDED.peer_id,
			state   = EXCLUDED.state,
			nonce   = EXCLUDED.nonce,
			data    = EXCLUDED.data;
	`
	_, err = s.pool.Exec(ctx, q, ch.ChannelID.String(), ch.PeerID.String(), int(ch.State), int64(ch.Nonce), data)
	if err != nil {
		return fmt.Errorf("channel: put: %w", err)
	}
	return nil
}

func (s *PgStore) Get(ctx context.Context, id ndlcrypto.Hash) (ndltypes.Channel, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM channels WHERE channel_id = $1`, id.String()).Scan(&data)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ndltypes.Channel{}, ErrNotFound
		}
		return ndltypes.Channel{}, fmt.Errorf("channel: get: %w", err)
	}
	var ch ndltypes.Channel
	if err := json.Unmarshal(data, &ch); err != nil {
		return ndltypes.Channel{}, fmt.Errorf("channel: unmarshal: %w", err)
	}
	return ch, nil
}

// FindOpenByPeer returns the channel with peer that is Opening or Open,
// if any — the state set that blocks a second concurrent ChannelOpen.
func (s *PgStore) FindOpenByPeer(ctx context.Context, peer ndlcrypto.PeerId) (ndltypes.Channel, bool, error) {
	const q = `
		SELECT data FROM channels
		WHERE peer_id = $1 AND state IN ($2, $3)
		LIMIT 1;
	`
	var data []byte
	err := s.pool.QueryRow(ctx, q, peer.String(), int(ndltypes.ChannelOpening), int(ndltypes.ChannelOpen)).Scan(&data)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ndltypes.Channel{}, false, nil
		}
		return ndltypes.Channel{}, false, fmt.Errorf("channel: find open by peer: %w", err)
	}
	var ch ndltypes.Channel
	if err := json.Unmarshal(data, &ch); err != nil {
		return ndltypes.Channel{}, false, fmt.Errorf("channel: unmarshal: %w", err)
	}
	return ch, true, nil
}
