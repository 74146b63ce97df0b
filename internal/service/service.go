package service

import (
	"errors"
	"time"

	"github.com/veilduel/veilduel-backend/internal/battle"
	"github.com/veilduel/veilduel-backend/internal/storage"
)

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrRoundNotFound      = errors.New("round not found")
	ErrNotAParticipant    = errors.New("player is not a participant of this match")
	ErrMatchNotInProgress = errors.New("match is not in progress")
	ErrMatchNotJoinable   = errors.New("match is not joinable")
	ErrInvalidAction      = errors.New("invalid action")
	ErrAlreadyRevealed    = errors.New("action already revealed")
	ErrCommitLocked       = errors.New("commitment is locked for this turn")
	ErrNoCommitment       = errors.New("no commitment for this round")
	ErrNotAllCommitted    = errors.New("both players must commit before revealing")
	ErrCommitMismatch     = errors.New("revealed action does not match commitment")
	ErrNotAllRevealed     = errors.New("both players must reveal before resolving")
	ErrRoundNotEnded      = errors.New("round has no winner yet")
)

// MatchRepo is the narrow persistence surface the round and match
// coordinators need.
type MatchRepo interface {
	GetMatchByID(id uint) (*battle.Match, error)
	FindMatchByJoinCode(code string) (*battle.Match, error)
	CreateMatch(m *battle.Match) error
	UpdateMatch(m *battle.Match) error
	GetRound(matchID uint, roundNumber int) (*battle.Round, error)
	CreateRound(rd *battle.Round) error
	UpdateRound(rd *battle.Round) error
	UpdateStatsOnMatchEnd(m *battle.Match) error
}

// maxRetries bounds optimistic-concurrency retry loops. Conflicts are
// rare (two players racing on the same row) so a small bound suffices.
const maxRetries = 3

// loadMatchRound fetches the match by join code plus the addressed
// round, checking the caller is a participant.
func loadMatchRound(repo MatchRepo, matchCode string, roundNumber int, playerID string) (*battle.Match, *battle.Round, error) {
	m, err := repo.FindMatchByJoinCode(matchCode)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrMatchNotFound
		}
		return nil, nil, err
	}
	if !m.IsParticipant(playerID) {
		return nil, nil, ErrNotAParticipant
	}
	rd, err := repo.GetRound(m.ID, roundNumber)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrRoundNotFound
		}
		return nil, nil, err
	}
	return m, rd, nil
}

// updateRoundRetrying applies mutate to the freshest copy of the round
// and persists it, reloading and re-applying on version conflicts. When
// mutate returns false the round is left untouched and no write happens.
func updateRoundRetrying(repo MatchRepo, rd *battle.Round, mutate func(*battle.Round) (bool, error)) (*battle.Round, error) {
	for attempt := 0; ; attempt++ {
		apply, err := mutate(rd)
		if err != nil {
			return rd, err
		}
		if !apply {
			return rd, nil
		}
		err = repo.UpdateRound(rd)
		if err == nil {
			return rd, nil
		}
		if !errors.Is(err, storage.ErrConflict) || attempt >= maxRetries {
			return rd, err
		}
		fresh, gerr := repo.GetRound(rd.MatchID, rd.RoundNumber)
		if gerr != nil {
			return rd, gerr
		}
		rd = fresh
	}
}

// updateMatchRetrying persists the match after applying mutate,
// re-applying on a fresh copy when the version moved on. mutate must
// tolerate running against a reloaded record.
func updateMatchRetrying(repo MatchRepo, m *battle.Match, mutate func(*battle.Match)) (*battle.Match, error) {
	for attempt := 0; ; attempt++ {
		mutate(m)
		err := repo.UpdateMatch(m)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, storage.ErrConflict) || attempt >= maxRetries {
			return m, err
		}
		fresh, gerr := repo.GetMatchByID(m.ID)
		if gerr != nil {
			return m, gerr
		}
		m = fresh
	}
}

func now() *time.Time {
	t := time.Now().UTC()
	return &t
}
