package service

import (
	"errors"
	"math/rand"

	"github.com/veilduel/veilduel-backend/internal/battle"
	"github.com/veilduel/veilduel-backend/internal/storage"
)

// Join codes exclude similar-looking characters (I/1, O/0).
const codeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const codeLength = 6

// generateJoinCode creates a short code for joining matches, e.g. "A3X9K2".
func generateJoinCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(b)
}

// codeAttempts bounds how many join codes are tried before giving up on
// a pathologically full code space.
const codeAttempts = 10

// createMatchWithCode persists m, retrying with fresh join codes when
// the generated one collides with an existing match.
func createMatchWithCode(repo MatchRepo, m *battle.Match) error {
	var err error
	for i := 0; i < codeAttempts; i++ {
		m.JoinCode = generateJoinCode()
		err = repo.CreateMatch(m)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrDuplicate) {
			return err
		}
	}
	return err
}

// CreatePrivateMatch opens a match joinable only by someone holding the
// returned join code, along with its first round.
func CreatePrivateMatch(repo MatchRepo, playerID string, ch battle.Character) (*battle.Match, error) {
	m := &battle.Match{
		Private: true,
		Mode:    battle.ModePrivate,

		Player1ID:        playerID,
		Player1Character: ch.Name,
		Player1MaxHealth: ch.MaxHealth,
		Player1Damage:    ch.Damage,
		Player1Health:    ch.MaxHealth,

		Status:       battle.StatusWaiting,
		CurrentRound: 1,
	}
	if err := createMatchWithCode(repo, m); err != nil {
		return nil, err
	}
	rd := &battle.Round{
		MatchID:             m.ID,
		RoundNumber:         1,
		Player1HealthBefore: ch.MaxHealth,
	}
	if err := repo.CreateRound(rd); err != nil {
		return nil, err
	}
	return m, nil
}

// JoinMatch seats the caller as player 2 of a waiting match and starts
// it. Joining a match you already sit in returns the match unchanged so
// a retried request cannot fail.
func JoinMatch(repo MatchRepo, matchCode, playerID string, ch battle.Character) (*battle.Match, error) {
	m, err := repo.FindMatchByJoinCode(matchCode)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if m.IsParticipant(playerID) {
		return m, nil
	}
	if m.Status != battle.StatusWaiting || m.Player2ID != "" {
		return nil, ErrMatchNotJoinable
	}

	m.Player2ID = playerID
	m.Player2Character = ch.Name
	m.Player2MaxHealth = ch.MaxHealth
	m.Player2Damage = ch.Damage
	m.Player2Health = ch.MaxHealth
	m.Status = battle.StatusInProgress
	m.StartedAt = now()
	if err := repo.UpdateMatch(m); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			// Someone else took the seat between our read and write.
			return nil, ErrMatchNotJoinable
		}
		return nil, err
	}

	// The first round was created with only player 1's health; fill in
	// the newcomer's baseline.
	rd, err := repo.GetRound(m.ID, 1)
	if err != nil {
		return nil, err
	}
	_, err = updateRoundRetrying(repo, rd, func(r *battle.Round) (bool, error) {
		r.Player2HealthBefore = ch.MaxHealth
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetMatch returns the match with the given join code together with its
// current round, restricted to participants. The round is redacted for
// the caller's side: an opponent's revealed action stays hidden until
// both players revealed.
func GetMatch(repo MatchRepo, matchCode, playerID string) (*battle.Match, *battle.Round, error) {
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
	rd, err := repo.GetRound(m.ID, m.CurrentRound)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return m, nil, nil
		}
		return nil, nil, err
	}
	return m, rd.Redacted(m.IsPlayer1(playerID)), nil
}
