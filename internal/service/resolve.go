package service

import (
	"errors"

	"github.com/veilduel/veilduel-backend/internal/battle"
	"github.com/veilduel/veilduel-backend/internal/dedupe"
	"github.com/veilduel/veilduel-backend/internal/engine"
	"github.com/veilduel/veilduel-backend/internal/keys"
	"github.com/veilduel/veilduel-backend/internal/logging"
	"github.com/veilduel/veilduel-backend/internal/storage"
)

// ResolveResult is the outcome of resolving one turn. Damage values are
// the amounts each player took; health values are the post-turn totals.
type ResolveResult struct {
	Match *battle.Match `json:"match"`
	Round *battle.Round `json:"round"`

	Player1Damage int `json:"player1_damage"`
	Player2Damage int `json:"player2_damage"`
	Player1Heal   int `json:"player1_heal"`
	Player2Heal   int `json:"player2_heal"`
	Player1Health int `json:"player1_health"`
	Player2Health int `json:"player2_health"`

	RoundWinnerID string `json:"round_winner_id"`
	RoundEnded    bool   `json:"round_ended"`
	MatchEnded    bool   `json:"match_ended"`
	// Cached marks a result served from an earlier resolution of the
	// same turn rather than computed by this call.
	Cached bool `json:"cached"`
}

// ResolveTurn computes and persists the outcome of the current turn of
// the addressed round. Both players trigger it after revealing; the
// first caller does the work and everyone else receives the identical
// cached result. When neither player is eliminated the turn's
// commitments are wiped and the round continues with the new health as
// baseline; a double knockout behaves the same way, replaying the turn
// with both players at zero so only healing can break the tie.
func ResolveTurn(repo MatchRepo, matchCode string, roundNumber int, playerID string) (*ResolveResult, error) {
	m, rd, err := loadMatchRound(repo, matchCode, roundNumber, playerID)
	if err != nil {
		return nil, err
	}
	if rd.Resolved() {
		return cachedResult(m, rd), nil
	}
	if m.Status != battle.StatusInProgress {
		return nil, ErrMatchNotInProgress
	}
	if !rd.BothRevealed() {
		return nil, ErrNotAllRevealed
	}

	v, err, _ := dedupe.ResolveGroup.Do(keys.ResolveKey(m.ID, roundNumber), func() (interface{}, error) {
		return resolveTurnOnce(repo, m.ID, roundNumber)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ResolveResult), nil
}

// resolveTurnOnce runs with fresh reads so a stale caller can never
// overwrite a concurrent resolution: the version-guarded round write is
// the arbiter, and the loser of that race returns the winner's result.
func resolveTurnOnce(repo MatchRepo, matchID uint, roundNumber int) (*ResolveResult, error) {
	for attempt := 0; ; attempt++ {
		m, err := repo.GetMatchByID(matchID)
		if err != nil {
			return nil, err
		}
		rd, err := repo.GetRound(matchID, roundNumber)
		if err != nil {
			return nil, err
		}
		if rd.Resolved() {
			return cachedResult(m, rd), nil
		}
		if !rd.BothRevealed() {
			return nil, ErrNotAllRevealed
		}

		res := engine.Resolve(rd.Player1Action, rd.Player2Action,
			m.Player1Damage, m.Player2Damage, m.Player1MaxHealth, m.Player2MaxHealth)
		h1 := engine.ApplyHealth(rd.Player1HealthBefore, res.DamageToP1, res.HealP1, m.Player1MaxHealth)
		h2 := engine.ApplyHealth(rd.Player2HealthBefore, res.DamageToP2, res.HealP2, m.Player2MaxHealth)

		winner := ""
		if h1 == 0 && h2 > 0 {
			winner = m.Player2ID
		} else if h2 == 0 && h1 > 0 {
			winner = m.Player1ID
		}

		out := &ResolveResult{
			Player1Damage: res.DamageToP1,
			Player2Damage: res.DamageToP2,
			Player1Heal:   res.HealP1,
			Player2Heal:   res.HealP2,
			Player1Health: h1,
			Player2Health: h2,
			RoundWinnerID: winner,
			RoundEnded:    winner != "",
		}

		if winner == "" {
			// Turn settled nothing; wipe it and fight again from the
			// new health baseline.
			rd.ClearTurn(h1, h2)
		} else {
			dealtBy1, dealtBy2 := res.DamageToP2, res.DamageToP1
			heal1, heal2 := res.HealP1, res.HealP2
			rd.Player1DamageDealt = &dealtBy1
			rd.Player2DamageDealt = &dealtBy2
			rd.Player1HealAmount = &heal1
			rd.Player2HealAmount = &heal2
			rd.Player1HealthAfter = &h1
			rd.Player2HealthAfter = &h2
			rd.RoundWinnerID = winner
		}
		if err := repo.UpdateRound(rd); err != nil {
			if errors.Is(err, storage.ErrConflict) && attempt < maxRetries {
				continue
			}
			return nil, err
		}

		m, err = updateMatchRetrying(repo, m, func(mm *battle.Match) {
			mm.Player1Health = h1
			mm.Player2Health = h2
			if winner == "" {
				return
			}
			if winner == mm.Player1ID {
				mm.Player1RoundWins++
			} else {
				mm.Player2RoundWins++
			}
			if mm.Player1RoundWins >= battle.RoundWinsToComplete || mm.Player2RoundWins >= battle.RoundWinsToComplete {
				mm.Status = battle.StatusCompleted
				mm.WinnerID = winner
				mm.CompletedAt = now()
			}
		})
		if err != nil {
			return nil, err
		}
		if m.Status == battle.StatusCompleted {
			out.MatchEnded = true
			if serr := repo.UpdateStatsOnMatchEnd(m); serr != nil {
				logging.Error("failed to update player stats", serr, logging.Fields{"match_id": m.ID})
			}
		}

		out.Match = m
		out.Round = rd
		return out, nil
	}
}

// cachedResult rebuilds a ResolveResult from a round whose current turn
// was already resolved by an earlier call.
func cachedResult(m *battle.Match, rd *battle.Round) *ResolveResult {
	out := &ResolveResult{
		Match:         m,
		Round:         rd,
		RoundWinnerID: rd.RoundWinnerID,
		RoundEnded:    rd.RoundWinnerID != "",
		MatchEnded:    m.Status == battle.StatusCompleted,
		Cached:        true,
	}
	// Damage is stored as dealt-by; the result reports damage taken.
	if rd.Player2DamageDealt != nil {
		out.Player1Damage = *rd.Player2DamageDealt
	}
	if rd.Player1DamageDealt != nil {
		out.Player2Damage = *rd.Player1DamageDealt
	}
	if rd.Player1HealAmount != nil {
		out.Player1Heal = *rd.Player1HealAmount
	}
	if rd.Player2HealAmount != nil {
		out.Player2Heal = *rd.Player2HealAmount
	}
	if rd.Player1HealthAfter != nil {
		out.Player1Health = *rd.Player1HealthAfter
	}
	if rd.Player2HealthAfter != nil {
		out.Player2Health = *rd.Player2HealthAfter
	}
	return out
}
