package validate

import "github.com/nodalync/node/internal/ndltypes"

// Version checks the version chain. previous is nil for a v1 manifest.
//
// Rules: v1 ⇔ previous = None; the new
// manifest's version.previous must equal previous.hash; version.root
// must stay stable across the chain; owner and content_type must stay
// stable; the version number must increase by exactly 1.
func Version(next ndltypes.Manifest, previous *ndltypes.Manifest) error {
	if !next.Version.Consistent() {
		return fail(CheckVersion, "version", "number=1 must imply previous=nil and vice versa")
	}
	if previous == nil {
		if !next.Version.IsFirst() {
			return fail(CheckVersion, "version.number", "first manifest in a chain must be version 1")
		}
		if next.Version.Root != next.Hash {
			return fail(CheckVersion, "version.root", "v1 manifest must be its own root")
		}
		return nil
	}

	if next.Version.Previous == nil || *next.Version.Previous != previous.Hash {
		return fail(CheckVersion, "version.previous", "previous hash does not match the given parent manifest")
	}
	if next.Version.Root != previous.Version.Root {
		return fail(CheckVersion, "version.root", "root must be stable across versions")
	}
	if next.Owner != previous.Owner {
		return fail(CheckVersion, "owner", "owner must be stable across versions")
	}
	if next.ContentType != previous.ContentType {
		return fail(CheckVersion, "contentType", "content type must be stable across versions")
	}
	if next.Version.Number != previous.Version.Number+1 {
		return fail(CheckVersion, "version.number", "version number must increase by exactly 1")
	}
	return nil
}
