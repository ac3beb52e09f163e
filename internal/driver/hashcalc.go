package driver

import (
	"crypto/sha256"
	"encoding/hex"

	"a68/internal/config"
)

// Digest is a SHA-256 cache key.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports an unset digest.
func (d Digest) IsZero() bool { return d == Digest{} }

// combineDigest: H(content || part1 || part2 ...). Части разделяются нулевым байтом.
func combineDigest(content [32]byte, parts ...string) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(p))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// ResultKey identifies the outcome of compiling content with opts up to
// stage. Any option change gives a different key.
func ResultKey(content [32]byte, opts config.Options, stage Stage) Digest {
	if stage == "" {
		stage = StageAll
	}
	return combineDigest(content, opts.Normalize().Fingerprint(), string(stage))
}
