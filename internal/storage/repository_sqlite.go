package storage

import (
	"errors"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/veilduel/veilduel-backend/internal/battle"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	// The sqlite driver reports constraint violations as plain errors;
	// match on the message rather than importing driver internals.
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}

func (r *sqliteRepository) CreateMatch(m *battle.Match) error {
	return translateErr(r.db.Create(m).Error)
}

func (r *sqliteRepository) GetMatchByID(id uint) (*battle.Match, error) {
	var m battle.Match
	if err := r.db.First(&m, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &m, nil
}

func (r *sqliteRepository) FindMatchByJoinCode(code string) (*battle.Match, error) {
	var m battle.Match
	if err := r.db.Where("join_code = ?", code).First(&m).Error; err != nil {
		return nil, translateErr(err)
	}
	return &m, nil
}

func (r *sqliteRepository) FindActiveMatchByPlayer(playerID string) (*battle.Match, error) {
	var m battle.Match
	err := r.db.Where("(player1_id = ? OR player2_id = ?) AND status IN ?",
		playerID, playerID, []string{battle.StatusWaiting, battle.StatusInProgress}).
		Order("created_at desc").
		First(&m).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &m, nil
}

// UpdateMatch writes every column of m guarded by the version it was
// loaded with. A lost race leaves RowsAffected at zero, which surfaces
// as ErrConflict so the caller can reload.
func (r *sqliteRepository) UpdateMatch(m *battle.Match) error {
	loaded := m.Version
	m.Version = loaded + 1
	res := r.db.Model(&battle.Match{}).
		Where("id = ? AND version = ?", m.ID, loaded).
		Select("*").Omit("id", "created_at").
		Updates(m)
	if res.Error != nil {
		m.Version = loaded
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		m.Version = loaded
		return ErrConflict
	}
	return nil
}

func (r *sqliteRepository) GetRound(matchID uint, roundNumber int) (*battle.Round, error) {
	var rd battle.Round
	if err := r.db.Where("match_id = ? AND round_number = ?", matchID, roundNumber).First(&rd).Error; err != nil {
		return nil, translateErr(err)
	}
	return &rd, nil
}

func (r *sqliteRepository) CreateRound(rd *battle.Round) error {
	return translateErr(r.db.Create(rd).Error)
}

func (r *sqliteRepository) UpdateRound(rd *battle.Round) error {
	loaded := rd.Version
	rd.Version = loaded + 1
	res := r.db.Model(&battle.Round{}).
		Where("id = ? AND version = ?", rd.ID, loaded).
		Select("*").Omit("id", "created_at").
		Updates(rd)
	if res.Error != nil {
		rd.Version = loaded
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		rd.Version = loaded
		return ErrConflict
	}
	return nil
}

func (r *sqliteRepository) UpsertQueueEntry(e *battle.QueueEntry) error {
	return translateErr(r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "character", "max_health", "damage", "joined_at", "deleted_at"}),
	}).Create(e).Error)
}

func (r *sqliteRepository) FindQueuedOpponent(playerID string, rating, tolerance int, notBefore time.Time) (*battle.QueueEntry, error) {
	var e battle.QueueEntry
	err := r.db.Where("player_id != ? AND rating BETWEEN ? AND ? AND joined_at >= ?",
		playerID, rating-tolerance, rating+tolerance, notBefore).
		Order("joined_at asc").
		First(&e).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &e, nil
}

// ClaimQueueEntry deletes the entry by primary key. Concurrent
// matchmakers can find the same candidate; the delete decides who gets
// to pair with them.
func (r *sqliteRepository) ClaimQueueEntry(entryID uint) (bool, error) {
	res := r.db.Unscoped().Delete(&battle.QueueEntry{}, entryID)
	if res.Error != nil {
		return false, translateErr(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *sqliteRepository) RemoveQueueEntry(playerID string) error {
	return translateErr(r.db.Unscoped().Where("player_id = ?", playerID).Delete(&battle.QueueEntry{}).Error)
}

func (r *sqliteRepository) PurgeExpiredQueueEntries(olderThan time.Time) (int64, error) {
	res := r.db.Unscoped().Where("joined_at < ?", olderThan).Delete(&battle.QueueEntry{})
	return res.RowsAffected, translateErr(res.Error)
}

func (r *sqliteRepository) GetOrCreateProfile(playerID, displayName string) (*battle.PlayerProfile, error) {
	var p battle.PlayerProfile
	err := r.db.Where("player_id = ?", playerID).First(&p).Error
	if err == nil {
		if displayName != "" && p.DisplayName != displayName {
			p.DisplayName = displayName
			if err := r.db.Save(&p).Error; err != nil {
				return nil, translateErr(err)
			}
		}
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translateErr(err)
	}
	p = battle.PlayerProfile{PlayerID: playerID, DisplayName: displayName, Rating: battle.DefaultRating}
	if err := r.db.Create(&p).Error; err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}

func (r *sqliteRepository) GetProfile(playerID string) (*battle.PlayerProfile, error) {
	var p battle.PlayerProfile
	if err := r.db.Where("player_id = ?", playerID).First(&p).Error; err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}

func (r *sqliteRepository) SaveProfile(p *battle.PlayerProfile) error {
	return translateErr(r.db.Save(p).Error)
}

// GetTopPlayers returns top N players ordered by rating desc, then wins desc.
func (r *sqliteRepository) GetTopPlayers(limit int) ([]battle.PlayerProfile, error) {
	if limit <= 0 {
		limit = 10
	}
	var profiles []battle.PlayerProfile
	if err := r.db.Model(&battle.PlayerProfile{}).
		Order("rating DESC").
		Order("wins DESC").
		Limit(limit).
		Find(&profiles).Error; err != nil {
		return nil, translateErr(err)
	}
	return profiles, nil
}

// eloK is the rating exchange factor applied on match completion.
const eloK = 32

// eloDelta returns the points transferred from loser to winner under a
// standard Elo update with factor eloK.
func eloDelta(winner, loser int) int {
	expected := 1.0 / (1.0 + math.Pow(10, (float64(loser)-float64(winner))/400.0))
	return int(eloK * (1.0 - expected))
}

func (r *sqliteRepository) UpdateStatsOnMatchEnd(m *battle.Match) error {
	if m.Status != battle.StatusCompleted || m.WinnerID == "" {
		return nil
	}
	loserID := m.Player1ID
	if m.WinnerID == m.Player1ID {
		loserID = m.Player2ID
	}
	winner, err := r.GetOrCreateProfile(m.WinnerID, "")
	if err != nil {
		return err
	}
	loser, err := r.GetOrCreateProfile(loserID, "")
	if err != nil {
		return err
	}
	delta := eloDelta(winner.Rating, loser.Rating)
	winner.Rating += delta
	winner.GamesPlayed++
	winner.Wins++
	loser.Rating -= delta
	if loser.Rating < 0 {
		loser.Rating = 0
	}
	loser.GamesPlayed++
	if err := r.db.Save(winner).Error; err != nil {
		return translateErr(err)
	}
	return translateErr(r.db.Save(loser).Error)
}

func (r *sqliteRepository) FindStaleMatches(updatedBefore time.Time) ([]battle.Match, error) {
	var matches []battle.Match
	err := r.db.Where("status IN ? AND updated_at < ?",
		[]string{battle.StatusWaiting, battle.StatusInProgress}, updatedBefore).
		Find(&matches).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return matches, nil
}
