// Package digestutil provides the "sha256:<hex>" fingerprint format used for
// every bytes_hash and pack_id in the system, built on the same digest
// library the teacher's manifest packages use for descriptor digests.
package digestutil

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/opencontainers/go-digest"
)

// Algorithm is the only digest algorithm this system ever produces or
// accepts. spec.md names no other.
const Algorithm = digest.SHA256

// FromBytes returns the sha256 digest of p in "sha256:<hex>" form.
func FromBytes(p []byte) digest.Digest {
	return Algorithm.FromBytes(p)
}

// Hasher streams bytes through a sha256 digest while copying them to dst,
// so a member's fingerprint can be computed without buffering the whole
// file in memory. Grounded on the filesystem storage driver's PutContent,
// which tees writes through a hash in the same fashion.
type Hasher struct {
	dst io.Writer
	h   io.Writer
	sum func() digest.Digest
}

// NewHasher wraps dst so that Write both writes to dst and accumulates a
// running sha256 digest, retrievable via Sum after all writes complete.
func NewHasher(dst io.Writer) *Hasher {
	h := sha256.New()
	return &Hasher{
		dst: io.MultiWriter(dst, h),
		h:   h,
		sum: func() digest.Digest { return digest.NewDigest(Algorithm, h) },
	}
}

func (hw *Hasher) Write(p []byte) (int, error) {
	return hw.dst.Write(p)
}

// Sum returns the digest of everything written so far.
func (hw *Hasher) Sum() digest.Digest {
	return hw.sum()
}

// Parse validates that s is a well-formed "sha256:<64 lowercase hex>"
// digest string, the only form the manifest's bytes_hash/pack_id fields
// may take (spec.md §3).
func Parse(s string) (digest.Digest, error) {
	d := digest.Digest(s)
	if err := d.Validate(); err != nil {
		return "", fmt.Errorf("digestutil: %w", err)
	}
	if d.Algorithm() != Algorithm {
		return "", fmt.Errorf("digestutil: unsupported algorithm %q", d.Algorithm())
	}
	return d, nil
}
