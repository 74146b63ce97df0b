package storage

import (
	"errors"
	"time"

	"github.com/veilduel/veilduel-backend/internal/battle"
)

// Sentinel errors returned by repository implementations so callers can
// branch without depending on the backing driver.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("storage: record not found")
	// ErrConflict is returned when a version-guarded update matched no
	// row: the record changed under the caller, who should reload and
	// retry (or accept the concurrent result).
	ErrConflict = errors.New("storage: version conflict")
	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint, e.g. two processes racing to create the same round.
	ErrDuplicate = errors.New("storage: duplicate record")
)

type Repository interface {
	CreateMatch(m *battle.Match) error
	GetMatchByID(id uint) (*battle.Match, error)
	FindMatchByJoinCode(code string) (*battle.Match, error)
	// FindActiveMatchByPlayer returns the newest waiting or in-progress
	// match the player sits in, or ErrNotFound.
	FindActiveMatchByPlayer(playerID string) (*battle.Match, error)
	// UpdateMatch persists m guarded by its Version column; it returns
	// ErrConflict when the stored version moved on.
	UpdateMatch(m *battle.Match) error

	// GetRound fetches one round of a match by its 1-based number.
	GetRound(matchID uint, roundNumber int) (*battle.Round, error)
	// CreateRound inserts a new round; ErrDuplicate signals the round
	// already exists (a concurrent creator won the race).
	CreateRound(rd *battle.Round) error
	// UpdateRound persists rd guarded by its Version column.
	UpdateRound(rd *battle.Round) error

	// Matchmaking queue. One entry per player; joining again refreshes
	// the existing entry.
	UpsertQueueEntry(e *battle.QueueEntry) error
	// FindQueuedOpponent returns the oldest entry whose rating lies
	// within tolerance of rating, excluding the given player, or
	// ErrNotFound when nobody suitable is waiting.
	FindQueuedOpponent(playerID string, rating, tolerance int, notBefore time.Time) (*battle.QueueEntry, error)
	// ClaimQueueEntry atomically removes the entry; false means another
	// matchmaker claimed it first.
	ClaimQueueEntry(entryID uint) (bool, error)
	RemoveQueueEntry(playerID string) error
	PurgeExpiredQueueEntries(olderThan time.Time) (int64, error)

	// Player profiles and ratings.
	GetOrCreateProfile(playerID, displayName string) (*battle.PlayerProfile, error)
	GetProfile(playerID string) (*battle.PlayerProfile, error)
	SaveProfile(p *battle.PlayerProfile) error
	GetTopPlayers(limit int) ([]battle.PlayerProfile, error)
	// UpdateStatsOnMatchEnd applies played/win counters and the rating
	// exchange for a completed match.
	UpdateStatsOnMatchEnd(m *battle.Match) error

	// FindStaleMatches returns in-progress matches with no update since
	// the provided time. The caller decides how to close them out.
	FindStaleMatches(updatedBefore time.Time) ([]battle.Match, error)
}
