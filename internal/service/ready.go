package service

import (
	"errors"

	"github.com/veilduel/veilduel-backend/internal/battle"
	"github.com/veilduel/veilduel-backend/internal/storage"
)

// ReadyForNextRound marks the calling player as ready to leave a decided
// round behind. Once both players are ready the next round is created
// with health reset to maximum and the match advances. The whole
// handshake is retry-safe: repeating a request after the round already
// advanced, or after the match completed, reports success rather than
// failing the retry.
func ReadyForNextRound(repo MatchRepo, matchCode string, roundNumber int, playerID string) (*battle.Match, *battle.Round, error) {
	m, rd, err := loadMatchRound(repo, matchCode, roundNumber, playerID)
	if err != nil {
		return nil, nil, err
	}
	if m.Status == battle.StatusCompleted {
		return m, rd, nil
	}
	if m.CurrentRound > roundNumber {
		// The round already handed off; a late retry must not touch the
		// match the next round is being fought over.
		return m, rd, nil
	}
	if rd.RoundWinnerID == "" {
		// Idempotency: both flags set means the round already
		// transitioned and its turn state was superseded.
		if rd.Player1Ready && rd.Player2Ready {
			return m, rd, nil
		}
		return nil, nil, ErrRoundNotEnded
	}

	isPlayer1 := m.IsPlayer1(playerID)
	rd, err = updateRoundRetrying(repo, rd, func(r *battle.Round) (bool, error) {
		if isPlayer1 {
			if r.Player1Ready {
				return false, nil
			}
			r.Player1Ready = true
		} else {
			if r.Player2Ready {
				return false, nil
			}
			r.Player2Ready = true
		}
		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if !rd.Player1Ready || !rd.Player2Ready {
		return m, rd, nil
	}

	// Both ready: create the next round and advance the match. The
	// unique (match_id, round_number) index makes the insert the
	// arbiter when both players' requests get here at the same time.
	next := &battle.Round{
		MatchID:             m.ID,
		RoundNumber:         roundNumber + 1,
		Player1HealthBefore: m.Player1MaxHealth,
		Player2HealthBefore: m.Player2MaxHealth,
	}
	if err := repo.CreateRound(next); err != nil && !errors.Is(err, storage.ErrDuplicate) {
		return nil, nil, err
	}
	m, err = updateMatchRetrying(repo, m, func(mm *battle.Match) {
		// Reset health only while actually advancing; when a concurrent
		// request moved the match first this write must change nothing.
		if mm.CurrentRound >= roundNumber+1 {
			return
		}
		mm.CurrentRound = roundNumber + 1
		mm.Player1Health = mm.Player1MaxHealth
		mm.Player2Health = mm.Player2MaxHealth
	})
	if err != nil {
		return nil, nil, err
	}
	return m, rd, nil
}
