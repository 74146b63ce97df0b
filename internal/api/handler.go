package api

import (
	"time"

	"github.com/veilduel/veilduel-backend/internal/config"
	"github.com/veilduel/veilduel-backend/internal/storage"
)

// BattleHandler groups all match-related HTTP handlers.
type BattleHandler struct {
	repo storage.Repository
	cfg  *config.LoadedConfig
}

// NewBattleHandler creates a BattleHandler backed by the given
// repository and server configuration.
func NewBattleHandler(repo storage.Repository, cfg *config.LoadedConfig) *BattleHandler {
	return &BattleHandler{repo: repo, cfg: cfg}
}

func (h *BattleHandler) queueExpiry() time.Duration {
	return time.Duration(h.cfg.QueueExpirySeconds) * time.Second
}
