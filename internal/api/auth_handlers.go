package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veilduel/veilduel-backend/internal/constants"
	"github.com/veilduel/veilduel-backend/internal/logging"
)

const sessionTTL = 30 * 24 * time.Hour

type guestSessionRequest struct {
	DisplayName string `json:"display_name"`
}

// GuestSession mints an anonymous player identity and its session
// token. No account exists behind the identity; losing the token means
// losing the player.
func (h *BattleHandler) GuestSession(c *gin.Context) {
	var req guestSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		name = "Warrior"
	}
	if len(name) > 32 {
		name = name[:32]
	}

	playerID := uuid.NewString()
	token, err := createSessionToken(playerID, name, sessionTTL)
	if err != nil {
		logging.Error("failed to sign session token", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateSession})
		return
	}
	if _, err := h.repo.GetOrCreateProfile(playerID, name); err != nil {
		logging.Error("failed to create player profile", err, logging.Fields{constants.LogFieldPlayerID: playerID})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateSession})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":        token,
		"player_id":    playerID,
		"display_name": name,
		"expires_in":   int(sessionTTL.Seconds()),
	})
}
