package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/veilduel/veilduel-backend/internal/constants"
	"github.com/veilduel/veilduel-backend/internal/keys"
	"github.com/veilduel/veilduel-backend/internal/logging"
	"github.com/veilduel/veilduel-backend/internal/service"
)

type createMatchRequest struct {
	Character string `json:"character"`
	MaxHealth int    `json:"max_health"`
	Damage    int    `json:"damage"`
}

type joinMatchRequest struct {
	MatchCode string `json:"match_code"`
	Character string `json:"character"`
	MaxHealth int    `json:"max_health"`
	Damage    int    `json:"damage"`
}

// CreateMatch opens a private match and returns its shareable join code.
func (h *BattleHandler) CreateMatch(c *gin.Context) {
	playerID, _ := playerIdentity(c)
	var req createMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	ch := h.characterForRequest(req.Character, req.MaxHealth, req.Damage)

	m, err := service.CreatePrivateMatch(h.repo, playerID, ch)
	if err != nil {
		logging.Error("failed to create private match", err, logging.Fields{constants.LogFieldPlayerID: playerID})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateMatch})
		return
	}
	logging.Info("private match created", logging.Fields{
		constants.LogFieldMatchID:   m.ID,
		constants.LogFieldMatchCode: m.JoinCode,
		constants.LogFieldPlayerID:  playerID,
	})
	out, err := MarshalIntoSnakeTimestamps(m)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateMatch})
		return
	}
	c.JSON(http.StatusCreated, out)
}

// JoinMatch seats the caller into a waiting match by join code.
func (h *BattleHandler) JoinMatch(c *gin.Context) {
	playerID, _ := playerIdentity(c)
	var req joinMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	code := keys.NormalizeJoinCode(req.MatchCode)
	if code == "" || !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidMatchCode})
		return
	}
	ch := h.characterForRequest(req.Character, req.MaxHealth, req.Damage)

	m, err := service.JoinMatch(h.repo, code, playerID, ch)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMatchNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrMatchNotFound})
		case errors.Is(err, service.ErrMatchNotJoinable):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrMatchNotJoinable})
		default:
			logging.Error("failed to join match", err, logging.Fields{constants.LogFieldMatchCode: code})
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateMatch})
		}
		return
	}
	out, err := MarshalIntoSnakeTimestamps(m)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchMatch})
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetMatch returns the match and its current round for polling clients.
func (h *BattleHandler) GetMatch(c *gin.Context) {
	playerID, _ := playerIdentity(c)
	code, ok := matchCodeParam(c)
	if !ok {
		return
	}
	m, rd, err := service.GetMatch(h.repo, code, playerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMatchNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrMatchNotFound})
		case errors.Is(err, service.ErrNotAParticipant):
			c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotAParticipant})
		default:
			logging.Error("failed to fetch match", err, logging.Fields{constants.LogFieldMatchCode: code})
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchMatch})
		}
		return
	}
	out, err := MarshalIntoSnakeTimestamps(gin.H{"match": m, "round": rd})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchMatch})
		return
	}
	c.JSON(http.StatusOK, out)
}
