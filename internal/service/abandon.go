package service

import (
	"errors"
	"time"

	"github.com/veilduel/veilduel-backend/internal/battle"
	"github.com/veilduel/veilduel-backend/internal/logging"
	"github.com/veilduel/veilduel-backend/internal/storage"
)

// StaleMatchRepo is the surface the background sweep needs.
type StaleMatchRepo interface {
	FindStaleMatches(updatedBefore time.Time) ([]battle.Match, error)
	UpdateMatch(m *battle.Match) error
}

// AbandonStaleMatches marks matches with no writes for the given window
// as abandoned. No winner is recorded and no ratings move; the sweep
// only stops dead matches from counting as live forever. Returns how
// many matches were closed.
func AbandonStaleMatches(repo StaleMatchRepo, staleAfter time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-staleAfter)
	stale, err := repo.FindStaleMatches(cutoff)
	if err != nil {
		return 0, err
	}
	closed := 0
	for i := range stale {
		m := &stale[i]
		m.Status = battle.StatusAbandoned
		m.CompletedAt = now()
		if err := repo.UpdateMatch(m); err != nil {
			// A conflicting write means the match just came back to
			// life; leave it alone.
			if errors.Is(err, storage.ErrConflict) {
				continue
			}
			logging.Error("failed to abandon stale match", err, logging.Fields{"match_id": m.ID})
			continue
		}
		closed++
		logging.Info("abandoned stale match", logging.Fields{"match_id": m.ID, "match_code": m.JoinCode})
	}
	return closed, nil
}
