package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"

	"athens-property-lab/internal/domain"
)

// ComputeListingID computes a deterministic listing_id using SHA256.
// Formula: SHA256(url|source)
// Returns the base58-encoded digest (44 characters).
//
// The URL is the source-site identity of a listing; hashing it keeps IDs
// stable across re-ingestion so duplicate collection runs collapse onto
// the same row.
func ComputeListingID(url string, source domain.Source) string {
	data := fmt.Sprintf("%s|%s", url, string(source))
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}
