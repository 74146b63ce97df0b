package service

import (
	"github.com/veilduel/veilduel-backend/internal/battle"
	"github.com/veilduel/veilduel-backend/internal/commitment"
)

// RevealAction discloses a player's action for the current turn. Reveals
// are only accepted once both players have committed, so nobody can bait
// an early reveal out of an opponent who is still free to choose. The
// action is checked against the stored commitment using the salt
// captured at commit time; the client never transmits the salt again.
// Revealing the same action twice is treated as an idempotent success so
// a retried request cannot fail its own turn.
func RevealAction(repo MatchRepo, matchCode string, roundNumber int, playerID string, action battle.Action) (*battle.Round, error) {
	if !action.Valid() {
		return nil, ErrInvalidAction
	}
	m, rd, err := loadMatchRound(repo, matchCode, roundNumber, playerID)
	if err != nil {
		return nil, err
	}
	if m.Status != battle.StatusInProgress {
		return nil, ErrMatchNotInProgress
	}

	isPlayer1 := m.IsPlayer1(playerID)
	return updateRoundRetrying(repo, rd, func(r *battle.Round) (bool, error) {
		commit, salt, revealed := r.Player2ActionCommit, r.Player2Salt, r.Player2Action
		if isPlayer1 {
			commit, salt, revealed = r.Player1ActionCommit, r.Player1Salt, r.Player1Action
		}
		if revealed != battle.ActionNone {
			if revealed == action {
				return false, nil
			}
			return false, ErrAlreadyRevealed
		}
		if commit == "" {
			return false, ErrNoCommitment
		}
		if !r.BothCommitted() {
			return false, ErrNotAllCommitted
		}
		if !commitment.Verify(action, salt, commit) {
			return false, ErrCommitMismatch
		}
		if isPlayer1 {
			r.Player1Action = action
			r.Player1RevealedAt = now()
		} else {
			r.Player2Action = action
			r.Player2RevealedAt = now()
		}
		return true, nil
	})
}
