package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/veilduel/veilduel-backend/internal/constants"
	"github.com/veilduel/veilduel-backend/internal/logging"
	"github.com/veilduel/veilduel-backend/internal/service"
)

type joinQueueRequest struct {
	Character string `json:"character"`
	MaxHealth int    `json:"max_health"`
	Damage    int    `json:"damage"`
}

// JoinQueue enters ranked matchmaking. Clients poll this endpoint while
// waiting; the response flips to matched=true once an opponent is found.
func (h *BattleHandler) JoinQueue(c *gin.Context) {
	playerID, playerName := playerIdentity(c)
	var req joinQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	ch := h.characterForRequest(req.Character, req.MaxHealth, req.Damage)

	m, matched, err := service.JoinQueue(h.repo, playerID, playerName, ch, h.cfg.RatingTolerance, h.queueExpiry())
	if err != nil {
		logging.Error("matchmaking join failed", err, logging.Fields{constants.LogFieldPlayerID: playerID})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedJoinQueue})
		return
	}
	if !matched {
		profile, perr := h.repo.GetOrCreateProfile(playerID, playerName)
		if perr != nil {
			logging.Error("failed to load profile for rating window", perr, logging.Fields{constants.LogFieldPlayerID: playerID})
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedJoinQueue})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			constants.JSONKeyMatched: false,
			"rating_window": gin.H{
				"min": profile.Rating - h.cfg.RatingTolerance,
				"max": profile.Rating + h.cfg.RatingTolerance,
			},
		})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(m)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedJoinQueue})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMatched: true, "match": out})
}

// CancelQueue removes the caller from ranked matchmaking.
func (h *BattleHandler) CancelQueue(c *gin.Context) {
	playerID, _ := playerIdentity(c)
	if err := service.CancelQueue(h.repo, playerID); err != nil {
		logging.Error("matchmaking cancel failed", err, logging.Fields{constants.LogFieldPlayerID: playerID})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedLeaveQueue})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Left matchmaking queue"})
}
