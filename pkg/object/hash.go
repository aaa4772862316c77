package object

import "strings"

// Hash is a hex-encoded commit digest as reported by the underlying VCS.
// The cache never computes hashes itself; it only stores and compares them.
type Hash string

// ZeroHash identifies the synthetic working-directory commit. It is the only
// non-historical hash the cache ever holds and it always lives at row 0.
const ZeroHash Hash = "0000000000000000000000000000000000000000"

// IsZero reports whether h is empty.
func (h Hash) IsZero() bool {
	return h == ""
}

// IsWIP reports whether h names the working-directory pseudo-commit.
// Always compare through this predicate instead of against the constant.
func (h Hash) IsWIP() bool {
	return h == ZeroHash
}

// Short returns an abbreviated form of h for display.
func (h Hash) Short() string {
	if len(h) > 8 {
		return string(h[:8])
	}
	return string(h)
}

// HasPrefix reports whether h starts with the (possibly abbreviated) prefix.
func (h Hash) HasPrefix(prefix Hash) bool {
	return strings.HasPrefix(string(h), string(prefix))
}
