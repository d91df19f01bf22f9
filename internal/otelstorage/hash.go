package otelstorage

import (
	"encoding/hex"

	"github.com/zeebo/xxh3"
)

// Hash is a 128-bit content hash.
type Hash [16]byte

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// StrHash computes string hash.
func StrHash(s string) Hash {
	h := xxh3.New()
	_, _ = h.WriteString(s)
	return h.Sum128().Bytes()
}
