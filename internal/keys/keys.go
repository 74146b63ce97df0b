package keys

import (
	"fmt"
	"strings"
)

// ResolveKey produces the canonical dedupe key for a round-turn
// resolution, e.g. "resolve:42:3". All concurrent resolve triggers for
// the same match round collapse onto this key.
func ResolveKey(matchID uint, roundNumber int) string {
	return fmt.Sprintf("resolve:%d:%d", matchID, roundNumber)
}

// NormalizeJoinCode canonicalizes a user-supplied join code.
func NormalizeJoinCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
