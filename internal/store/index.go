package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
	"github.com/sirupsen/logrus"
)

//go:embed schema.sql
var schemaSQL string

// ManifestStore is the manifest persistence surface the query pipeline
// and operations facade depend on. It is satisfied by *ManifestIndex in
// production and can be faked in tests, the same pattern channel.Store
// uses for channel records.
type ManifestStore interface {
	Put(ctx context.Context, m ndltypes.Manifest) error
	Get(ctx context.Context, hash ndlcrypto.Hash) (ndltypes.Manifest, error)
	Find(ctx context.Context, f ManifestFilter) ([]ndltypes.Manifest, error)
}

// ManifestIndex is the relational index over manifests, backed by
// Postgres via pgx.
type ManifestIndex struct {
	pool *pgxpool.Pool
	log  *logrus.Entry
}

// Connect opens a pgx pool against connStr and pings it.
func Connect(ctx context.Context, connStr string) (*ManifestIndex, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &ManifestIndex{pool: pool, log: logrus.WithField("component", "store.index")}, nil
}

// Close releases the underlying pool.
func (idx *ManifestIndex) Close() {
	idx.pool.Close()
}

// Pool exposes the underlying pgx pool for collaborators that need raw
// access (the settlement queue lives in the same database).
func (idx *ManifestIndex) Pool() *pgxpool.Pool {
	return idx.pool
}

// InitSchema creates the manifests and settlement_queue tables if absent.
func (idx *ManifestIndex) InitSchema(ctx context.Context) error {
	if _, err := idx.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("store: init schema: %w", err)
	}
	idx.log.Info("manifest index schema initialized")
	return nil
}

// Put upserts a manifest row.
func (idx *ManifestIndex) Put(ctx context.Context, m ndltypes.Manifest) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("store: marshal manifest: %w", err)
	}
	const q = `
		INSERT INTO manifests
			(hash, owner, content_type, visibility, version_root, version_number, title, created_at, updated_at, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (hash) DO UPDATE SET
			owner = EXCLUDED.owner,
			content_type = EXCLUDED.content_type,
			visibility = EXCLUDED.visibility,
			version_root = EXCLUDED.version_root,
			version_number = EXCLUDED.version_number,
			title = EXCLUDED.title,
			updated_at = EXCLUDED.updated_at,
			data = EXCLUDED.data;
	`
	_, err = idx.pool.Exec(ctx, q,
		m.Hash.String(), m.Owner.String(), int(m.ContentType), int(m.Visibility),
		m.Version.Root.String(), int(m.Version.Number), m.Metadata.Title,
		m.CreatedAt, m.UpdatedAt, data,
	)
	if err != nil {
		return fmt.Errorf("store: put manifest: %w", err)
	}
	return nil
}

// Get fetches a manifest by hash.
func (idx *ManifestIndex) Get(ctx context.Context, hash ndlcrypto.Hash) (ndltypes.Manifest, error) {
	var data []byte
	err := idx.pool.QueryRow(ctx, `SELECT data FROM manifests WHERE hash = $1`, hash.String()).Scan(&data)
	if err != nil {
		return ndltypes.Manifest{}, ErrNotFound
	}
	var m ndltypes.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return ndltypes.Manifest{}, fmt.Errorf("store: unmarshal manifest: %w", err)
	}
	return m, nil
}

// ManifestFilter is a builder over the manifests table's secondary
// index columns, plus an optional title prefix match.
type ManifestFilter struct {
	owner       *ndlcrypto.PeerId
	contentType *ndltypes.ContentType
	visibility  *ndltypes.Visibility
	versionRoot *ndlcrypto.Hash
	titlePrefix string
	limit       int
}

// NewManifestFilter starts an empty filter (matches everything).
func NewManifestFilter() ManifestFilter {
	return ManifestFilter{limit: 100}
}

// WithOwner restricts to manifests owned by peer.
func (f ManifestFilter) WithOwner(peer ndlcrypto.PeerId) ManifestFilter {
	f.owner = &peer
	return f
}

// WithContentType restricts to a single content type.
func (f ManifestFilter) WithContentType(ct ndltypes.ContentType) ManifestFilter {
	f.contentType = &ct
	return f
}

// WithVisibility restricts to a single visibility.
func (f ManifestFilter) WithVisibility(v ndltypes.Visibility) ManifestFilter {
	f.visibility = &v
	return f
}

// WithVersionRoot restricts to the version chain rooted at root.
func (f ManifestFilter) WithVersionRoot(root ndlcrypto.Hash) ManifestFilter {
	f.versionRoot = &root
	return f
}

// WithTitlePrefix restricts to manifests whose title starts with prefix.
func (f ManifestFilter) WithTitlePrefix(prefix string) ManifestFilter {
	f.titlePrefix = prefix
	return f
}

// Limit caps the number of rows returned.
func (f ManifestFilter) Limit(n int) ManifestFilter {
	f.limit = n
	return f
}

// Find runs the filter, returning manifests ordered created_at
// descending with hash as a tie-break, for a deterministic result order.
func (idx *ManifestIndex) Find(ctx context.Context, f ManifestFilter) ([]ndltypes.Manifest, error) {
	var conditions []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.owner != nil {
		conditions = append(conditions, "owner = "+arg(f.owner.String()))
	}
	if f.contentType != nil {
		conditions = append(conditions, "content_type = "+arg(int(*f.contentType)))
	}
	if f.visibility != nil {
		conditions = append(conditions, "visibility = "+arg(int(*f.visibility)))
	}
	if f.versionRoot != nil {
		conditions = append(conditions, "version_root = "+arg(f.versionRoot.String()))
	}
	if f.titlePrefix != "" {
		conditions = append(conditions, "title ILIKE "+arg(f.titlePrefix+"%"))
	}

	limit := f.limit
	if limit <= 0 {
		limit = 100
	}

	q := "SELECT data FROM manifests"
	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}
	q += " ORDER BY created_at DESC, hash DESC LIMIT " + arg(limit)

	rows, err := idx.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: filter manifests: %w", err)
	}
	defer rows.Close()

	var out []ndltypes.Manifest
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("store: scan manifest row: %w", err)
		}
		var m ndltypes.Manifest
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("store: unmarshal manifest row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
