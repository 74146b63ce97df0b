package service

import (
	"github.com/veilduel/veilduel-backend/internal/battle"
)

// CommitAction records a player's hashed action (plus the salt needed to
// verify the later reveal) for the addressed round's current turn.
// Re-committing overwrites while neither side has revealed, which is how
// a commitment that failed verification gets replaced. Once the caller
// revealed, or the opponent revealed against the caller's standing
// commitment, the commitment is locked: swapping it after that point
// would let the caller renegotiate their move mid-turn.
func CommitAction(repo MatchRepo, matchCode string, roundNumber int, playerID, commitHash, salt string) (*battle.Round, error) {
	m, rd, err := loadMatchRound(repo, matchCode, roundNumber, playerID)
	if err != nil {
		return nil, err
	}
	if m.Status != battle.StatusInProgress {
		return nil, ErrMatchNotInProgress
	}

	isPlayer1 := m.IsPlayer1(playerID)
	return updateRoundRetrying(repo, rd, func(r *battle.Round) (bool, error) {
		own, opp := r.Player2Action, r.Player1Action
		if isPlayer1 {
			own, opp = r.Player1Action, r.Player2Action
		}
		if own != battle.ActionNone {
			return false, ErrAlreadyRevealed
		}
		if opp != battle.ActionNone {
			return false, ErrCommitLocked
		}
		if isPlayer1 {
			r.Player1ActionCommit = commitHash
			r.Player1Salt = salt
			r.Player1CommittedAt = now()
		} else {
			r.Player2ActionCommit = commitHash
			r.Player2Salt = salt
			r.Player2CommittedAt = now()
		}
		return true, nil
	})
}
