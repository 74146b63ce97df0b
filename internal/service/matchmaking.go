package service

import (
	"errors"
	"time"

	"github.com/veilduel/veilduel-backend/internal/battle"
	"github.com/veilduel/veilduel-backend/internal/logging"
	"github.com/veilduel/veilduel-backend/internal/storage"
)

// QueueRepo is the persistence surface the matchmaker needs on top of
// the match coordinator's.
type QueueRepo interface {
	MatchRepo
	UpsertQueueEntry(e *battle.QueueEntry) error
	FindQueuedOpponent(playerID string, rating, tolerance int, notBefore time.Time) (*battle.QueueEntry, error)
	ClaimQueueEntry(entryID uint) (bool, error)
	RemoveQueueEntry(playerID string) error
	GetOrCreateProfile(playerID, displayName string) (*battle.PlayerProfile, error)
	FindActiveMatchByPlayer(playerID string) (*battle.Match, error)
}

// claimAttempts bounds how many queue candidates are tried when other
// matchmakers keep winning the claim race.
const claimAttempts = 5

// JoinQueue enters the caller into ranked matchmaking. When a queued
// opponent within the rating tolerance is available the pair is matched
// immediately and the new match returned; otherwise the caller is left
// waiting in the queue. Clients call this repeatedly while waiting: once
// an opponent pairs with them the call returns the match they were
// seated in.
func JoinQueue(repo QueueRepo, playerID, displayName string, ch battle.Character, tolerance int, expiry time.Duration) (*battle.Match, bool, error) {
	// A player already seated in a live match rejoins that match
	// instead of queueing; this is also how the waiting side of a pair
	// learns it got matched.
	if m, err := repo.FindActiveMatchByPlayer(playerID); err == nil {
		return m, true, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, err
	}

	profile, err := repo.GetOrCreateProfile(playerID, displayName)
	if err != nil {
		return nil, false, err
	}
	notBefore := time.Now().UTC().Add(-expiry)

	for i := 0; i < claimAttempts; i++ {
		opp, err := repo.FindQueuedOpponent(playerID, profile.Rating, tolerance, notBefore)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				break
			}
			return nil, false, err
		}
		claimed, err := repo.ClaimQueueEntry(opp.ID)
		if err != nil {
			return nil, false, err
		}
		if !claimed {
			// Another matchmaker paired with them first; try the next
			// candidate.
			continue
		}
		if err := repo.RemoveQueueEntry(playerID); err != nil {
			logging.Error("failed to remove own queue entry after pairing", err, logging.Fields{"player_id": playerID})
		}
		m, err := startRankedMatch(repo, opp, playerID, ch)
		if err != nil {
			return nil, false, err
		}
		logging.Info("matchmaking paired players", logging.Fields{
			"match_id":  m.ID,
			"player_id": playerID,
			"opponent":  opp.PlayerID,
		})
		return m, true, nil
	}

	entry := &battle.QueueEntry{
		PlayerID:  playerID,
		Rating:    profile.Rating,
		Character: ch.Name,
		MaxHealth: ch.MaxHealth,
		Damage:    ch.Damage,
		JoinedAt:  time.Now().UTC(),
	}
	if err := repo.UpsertQueueEntry(entry); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

// startRankedMatch seats a claimed queue entry as player 1 (they waited
// longer) and the caller as player 2, already in progress.
func startRankedMatch(repo QueueRepo, opp *battle.QueueEntry, playerID string, ch battle.Character) (*battle.Match, error) {
	m := &battle.Match{
		Mode: battle.ModeRanked,

		Player1ID:        opp.PlayerID,
		Player1Character: opp.Character,
		Player1MaxHealth: opp.MaxHealth,
		Player1Damage:    opp.Damage,
		Player1Health:    opp.MaxHealth,

		Player2ID:        playerID,
		Player2Character: ch.Name,
		Player2MaxHealth: ch.MaxHealth,
		Player2Damage:    ch.Damage,
		Player2Health:    ch.MaxHealth,

		Status:       battle.StatusInProgress,
		CurrentRound: 1,
		StartedAt:    now(),
	}
	if err := createMatchWithCode(repo, m); err != nil {
		return nil, err
	}
	rd := &battle.Round{
		MatchID:             m.ID,
		RoundNumber:         1,
		Player1HealthBefore: opp.MaxHealth,
		Player2HealthBefore: ch.MaxHealth,
	}
	if err := repo.CreateRound(rd); err != nil {
		return nil, err
	}
	return m, nil
}

// CancelQueue removes the caller from matchmaking. Cancelling when not
// queued is a no-op.
func CancelQueue(repo QueueRepo, playerID string) error {
	return repo.RemoveQueueEntry(playerID)
}
