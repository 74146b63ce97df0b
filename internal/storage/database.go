package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/veilduel/veilduel-backend/internal/battle"
)

func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&battle.Match{}, &battle.Round{}, &battle.QueueEntry{}, &battle.PlayerProfile{})
	if err != nil {
		return nil, err
	}

	// Ensure a unique constraint across (match_id, round_number). Two
	// processes advancing the same match race to insert the next round;
	// the index makes the insert the arbiter so exactly one wins.
	if execErr := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_rounds_match_round ON rounds(match_id, round_number);").Error; execErr != nil {
		return nil, execErr
	}
	return db, nil
}
