package dedupe

// Package dedupe provides the shared singleflight group used to collapse
// concurrent turn-resolution triggers. Both players race to resolve the
// turn right after revealing; using a centralized singleflight.Group
// ensures only one resolution computation runs per round-turn key while
// the other caller waits for the same result.

import "golang.org/x/sync/singleflight"

// ResolveGroup deduplicates resolution requests keyed by
// keys.ResolveKey(matchID, roundNumber).
var ResolveGroup singleflight.Group
