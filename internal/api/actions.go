package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/veilduel/veilduel-backend/internal/battle"
	"github.com/veilduel/veilduel-backend/internal/constants"
	"github.com/veilduel/veilduel-backend/internal/logging"
	"github.com/veilduel/veilduel-backend/internal/service"
)

type commitRequest struct {
	CommitHash string `json:"commit_hash"`
	Salt       string `json:"salt"`
}

type revealRequest struct {
	Action string `json:"action"`
}

// roundError maps coordinator errors onto HTTP responses shared by the
// round-action handlers.
func roundError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMatchNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrMatchNotFound})
	case errors.Is(err, service.ErrRoundNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrRoundNotFound})
	case errors.Is(err, service.ErrNotAParticipant):
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotAParticipant})
	case errors.Is(err, service.ErrMatchNotInProgress):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrMatchNotInProgress})
	case errors.Is(err, service.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidAction})
	case errors.Is(err, service.ErrAlreadyRevealed):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrAlreadyRevealed})
	case errors.Is(err, service.ErrCommitLocked):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrCommitLocked})
	case errors.Is(err, service.ErrNoCommitment):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNoCommitment})
	case errors.Is(err, service.ErrNotAllCommitted):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotAllCommitted})
	case errors.Is(err, service.ErrCommitMismatch):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrCommitMismatch})
	case errors.Is(err, service.ErrNotAllRevealed):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotAllRevealed})
	case errors.Is(err, service.ErrRoundNotEnded):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrRoundNotEnded})
	default:
		logging.Error("round action failed", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStoreTurn})
	}
}

// CommitAction stores the caller's hashed action for the current turn.
func (h *BattleHandler) CommitAction(c *gin.Context) {
	playerID, _ := playerIdentity(c)
	code, ok := matchCodeParam(c)
	if !ok {
		return
	}
	roundNumber, ok := roundNumberParam(c)
	if !ok {
		return
	}
	var req commitRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CommitHash == "" || req.Salt == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	rd, err := service.CommitAction(h.repo, code, roundNumber, playerID, req.CommitHash, req.Salt)
	if err != nil {
		roundError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		constants.JSONKeyMessage: "Action committed. Waiting for opponent.",
		"both_committed":         rd.BothCommitted(),
	})
}

// RevealAction discloses the caller's action, verified against the
// stored commitment.
func (h *BattleHandler) RevealAction(c *gin.Context) {
	playerID, _ := playerIdentity(c)
	code, ok := matchCodeParam(c)
	if !ok {
		return
	}
	roundNumber, ok := roundNumberParam(c)
	if !ok {
		return
	}
	var req revealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	rd, err := service.RevealAction(h.repo, code, roundNumber, playerID, battle.Action(req.Action))
	if err != nil {
		roundError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		constants.JSONKeyMessage: "Action revealed.",
		"both_revealed":          rd.BothRevealed(),
	})
}

// ResolveTurn computes the turn outcome once both players revealed.
// Both clients call it; the duplicate caller receives the cached result.
func (h *BattleHandler) ResolveTurn(c *gin.Context) {
	playerID, _ := playerIdentity(c)
	code, ok := matchCodeParam(c)
	if !ok {
		return
	}
	roundNumber, ok := roundNumberParam(c)
	if !ok {
		return
	}

	res, err := service.ResolveTurn(h.repo, code, roundNumber, playerID)
	if err != nil {
		roundError(c, err)
		return
	}
	out, err := MarshalIntoSnakeTimestamps(res)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedResolve})
		return
	}
	c.JSON(http.StatusOK, out)
}

// ReadyForNextRound acknowledges a decided round; when both players have
// acknowledged, the match advances.
func (h *BattleHandler) ReadyForNextRound(c *gin.Context) {
	playerID, _ := playerIdentity(c)
	code, ok := matchCodeParam(c)
	if !ok {
		return
	}
	roundNumber, ok := roundNumberParam(c)
	if !ok {
		return
	}

	m, rd, err := service.ReadyForNextRound(h.repo, code, roundNumber, playerID)
	if err != nil {
		roundError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		constants.JSONKeyStatus: m.Status,
		"current_round":         m.CurrentRound,
		"both_ready":            rd.Player1Ready && rd.Player2Ready,
	})
}
