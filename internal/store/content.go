package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/sirupsen/logrus"
)

// ContentStore is a filesystem-backed, content-addressed blob store.
// Each hash lives at <root>/<first-2-hex>/<full-hex>, sharding the
// top-level directory into at most 256 buckets so a directory listing
// stays bounded.
type ContentStore struct {
	root string
	log  *logrus.Entry
}

// NewContentStore creates a store rooted at dir, creating it if needed.
func NewContentStore(dir string) (*ContentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create content root: %w", err)
	}
	return &ContentStore{
		root: dir,
		log: logrus.WithField("component", "store.content"),
	}, nil
}

func (s *ContentStore) pathFor(h ndlcrypto.Hash) string {
	hex := h.String()
	return filepath.Join(s.root, hex[:2], hex)
}

// Store writes bytes under their own content hash. Re-storing identical
// bytes is a no-op that returns the same hash.
func (s *ContentStore) Store(content []byte) (ndlcrypto.Hash, error) {
	h := ndlcrypto.ContentHash(content)
	if err := s.writeAt(h, content); err != nil {
		return ndlcrypto.Hash{}, err
	}
	return h, nil
}

// StoreVerified writes bytes at an expected hash, failing with
// ErrHashMismatch if the bytes don't actually hash to it.
func (s *ContentStore) StoreVerified(h ndlcrypto.Hash, content []byte) error {
	if !ndlcrypto.VerifyContent(content, h) {
		return ErrHashMismatch
	}
	return s.writeAt(h, content)
}

func (s *ContentStore) writeAt(h ndlcrypto.Hash, content []byte) error {
	path := s.pathFor(h)
	if _, err := os.Stat(path); err == nil {
		// Idempotent: identical content at this hash already exists.
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("store: create shard dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("store: write content: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("store: finalize content: %w", err)
	}
	s.log.WithField("hash", h.String()).Debug("stored content")
	return nil
}

// Load reads bytes for a hash. It returns ErrNotFound if absent.
func (s *ContentStore) Load(h ndlcrypto.Hash) ([]byte, error) {
	b, err := os.ReadFile(s.pathFor(h))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: load content: %w", err)
	}
	return b, nil
}

// Exists reports whether a hash's bytes are present.
func (s *ContentStore) Exists(h ndlcrypto.Hash) bool {
	_, err := os.Stat(s.pathFor(h))
	return err == nil
}

// Size returns the byte length stored at a hash.
func (s *ContentStore) Size(h ndlcrypto.Hash) (int64, error) {
	info, err := os.Stat(s.pathFor(h))
	if os.IsNotExist(err) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("store: stat content: %w", err)
	}
	return info.Size(), nil
}

// Delete removes the bytes for a hash. Deleting content does not remove
// its manifest — provenance integrity requires manifests to persist.
func (s *ContentStore) Delete(h ndlcrypto.Hash) error {
	err := os.Remove(s.pathFor(h))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("store: delete content: %w", err)
	}
	return nil
}
