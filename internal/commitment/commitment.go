package commitment

// Package commitment implements the commit-reveal binding used by the
// turn protocol: a player publishes hash(action||salt) before the
// opponent's action is known, then later reveals (action, salt) which is
// checked against the published hash.

import (
	crand "crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/veilduel/veilduel-backend/internal/battle"
)

// SaltBytes is the minimum entropy a salt must carry.
const SaltBytes = 16

// NewSalt returns a fresh random salt as a hex string.
func NewSalt() (string, error) {
	b := make([]byte, SaltBytes)
	if _, err := crand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Commit produces the hex-encoded SHA-256 digest binding an action and a
// salt. The digest does not leak the action on its own: the salt's
// entropy blocks a dictionary over the four action values.
func Commit(action battle.Action, salt string) string {
	sum := sha256.Sum256([]byte(string(action) + salt))
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the commitment for (action, salt) and compares it to
// the given hash in constant time.
func Verify(action battle.Action, salt, hash string) bool {
	computed := Commit(action, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}
