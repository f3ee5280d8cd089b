package validate

import (
	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

// Content checks that the stored bytes hash to the manifest's hash,
// the declared size matches, the byte length does not exceed
// MaxContentSize, and Metadata bounds hold.
func Content(m ndltypes.Manifest, bytes []byte) error {
	if !ndlcrypto.VerifyContent(bytes, m.Hash) {
		return fail(CheckContent, "hash", "stored bytes do not hash to manifest.hash")
	}
	if int64(len(bytes)) != m.Metadata.ContentSize {
		return fail(CheckContent, "metadata.contentSize", "declared size does not match stored bytes")
	}
	if len(bytes) > ndltypes.MaxContentSize {
		return fail(CheckContent, "size", "content exceeds MaxContentSize")
	}
	if !m.Metadata.WithinBounds() {
		return fail(CheckContent, "metadata", "metadata exceeds field bounds")
	}
	return nil
}
