package content

import (
	"crypto/rand"
	"math/big"
)

// MinShareKeyLen is the shortest caller-supplied share key that will be
// honored; anything shorter is replaced with a generated key.
const MinShareKeyLen = 16

// NewShareKey returns an opaque, unguessable token for unlisted content:
// 32 cryptographically random bytes, base62-encoded (~43 chars).
// Uniqueness is enforced by the unique index on the share_key column,
// not here; a collision at this length is negligible.
func NewShareKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	encoded := make([]byte, 0, 44)
	n := new(big.Int).SetBytes(b)
	base := big.NewInt(62)
	mod := new(big.Int)
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		encoded = append(encoded, alphabet[mod.Int64()])
	}
	for i, j := 0, len(encoded)-1; i < j; i, j = i+1, j-1 {
		encoded[i], encoded[j] = encoded[j], encoded[i]
	}
	return string(encoded), nil
}

// resolveShareKey applies the share-key invariant for a desired
// visibility: unlisted items always end up with a key (the supplied one
// when long enough, a fresh one otherwise), everything else ends up with
// none, so visibility == unlisted ⟺ shareKey != "".
func resolveShareKey(visibility Visibility, supplied, existing string) (string, error) {
	if visibility != VisibilityUnlisted {
		return "", nil
	}
	if len(supplied) >= MinShareKeyLen {
		return supplied, nil
	}
	if existing != "" {
		return existing, nil
	}
	return NewShareKey()
}
