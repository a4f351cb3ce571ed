// Package fingerprint computes the content hash used as render cache key and artifact
// file name stem.
//
// The hash covers the exact diagram source text. No trimming or newline normalization
// takes place, so any textual change, including whitespace, yields a new fingerprint.
package fingerprint

import (
	"crypto/sha1" //nolint:gosec // content addressing, not a security boundary
	"crypto/sha256"
	"encoding/hex"
	"hash"

	"github.com/zeebo/blake3"

	"git.home.luguber.info/inful/docdiagram/internal/foundation/normalization"
)

// Fingerprint is a lowercase hex digest of a diagram's source text.
type Fingerprint string

func (f Fingerprint) String() string { return string(f) }

// Algorithm selects the digest used for fingerprints.
type Algorithm string

const (
	// SHA1 keeps cache file names compatible with existing plantuml-images directories.
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
	BLAKE3 Algorithm = "blake3"
)

var algorithmNormalizer = normalization.NewNormalizer("hash algorithm", map[string]Algorithm{
	"sha1":   SHA1,
	"sha256": SHA256,
	"blake3": BLAKE3,
}, SHA1)

// ParseAlgorithm resolves a configured algorithm name. Empty selects SHA1.
func ParseAlgorithm(raw string) (Algorithm, error) {
	return algorithmNormalizer.Parse(raw)
}

// Hasher computes fingerprints with a fixed algorithm.
type Hasher struct {
	algorithm Algorithm
	newHash   func() hash.Hash
}

// NewHasher returns a Hasher for algo. Unknown algorithms fall back to SHA1.
func NewHasher(algo Algorithm) Hasher {
	switch algo {
	case SHA256:
		return Hasher{algorithm: SHA256, newHash: sha256.New}
	case BLAKE3:
		return Hasher{algorithm: BLAKE3, newHash: func() hash.Hash { return blake3.New() }}
	default:
		return Hasher{algorithm: SHA1, newHash: sha1.New}
	}
}

// Algorithm reports the digest in use.
func (h Hasher) Algorithm() Algorithm {
	if h.newHash == nil {
		return SHA1
	}
	return h.algorithm
}

// Of fingerprints source. The zero Hasher uses SHA1.
func (h Hasher) Of(source string) Fingerprint {
	newHash := h.newHash
	if newHash == nil {
		newHash = sha1.New
	}
	d := newHash()
	_, _ = d.Write([]byte(source))
	return Fingerprint(hex.EncodeToString(d.Sum(nil)))
}

// Of fingerprints source with the default algorithm.
func Of(source string) Fingerprint {
	return Hasher{}.Of(source)
}
