package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veilduel/veilduel-backend/internal/constants"
	"github.com/veilduel/veilduel-backend/internal/logging"
	"github.com/veilduel/veilduel-backend/internal/storage"
)

// Leaderboard returns the top players ordered by rating.
func (h *BattleHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	players, err := h.repo.GetTopPlayers(limit)
	if err != nil {
		logging.Error("failed to fetch leaderboard", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(players)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	c.JSON(http.StatusOK, out)
}

// Profile returns the authenticated player's rating and aggregate stats.
func (h *BattleHandler) Profile(c *gin.Context) {
	playerID, playerName := playerIdentity(c)
	profile, err := h.repo.GetProfile(playerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Sessions can outlive a recreated database; re-seed the
			// profile rather than failing the request.
			profile, err = h.repo.GetOrCreateProfile(playerID, playerName)
		}
		if err != nil {
			logging.Error("failed to fetch profile", err, logging.Fields{constants.LogFieldPlayerID: playerID})
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchProfile})
			return
		}
	}
	out, err := MarshalIntoSnakeTimestamps(profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchProfile})
		return
	}
	c.JSON(http.StatusOK, out)
}
