package api

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veilduel/veilduel-backend/internal/battle"
	"github.com/veilduel/veilduel-backend/internal/constants"
	"github.com/veilduel/veilduel-backend/internal/keys"
)

var joinCodeRegex = regexp.MustCompile("^[A-HJ-NP-Z2-9]{6}$")

// matchCodeParam validates and normalizes the :matchCode path
// parameter, writing the error response itself on failure.
func matchCodeParam(c *gin.Context) (string, bool) {
	code := keys.NormalizeJoinCode(c.Param("matchCode"))
	if code == "" || !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidMatchCode})
		return "", false
	}
	return code, true
}

// roundNumberParam parses the :roundNumber path parameter.
func roundNumberParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("roundNumber"))
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRoundParam})
		return 0, false
	}
	return n, true
}

// characterForRequest resolves a character's combat stats. The config
// roster is the source of truth for known names; unknown names fall
// back to the stats supplied by the client, clamped to sane defaults.
func (h *BattleHandler) characterForRequest(name string, maxHealth, damage int) battle.Character {
	if ch, ok := h.cfg.FindCharacter(name); ok {
		return ch
	}
	if maxHealth <= 0 {
		maxHealth = 200
	}
	if damage <= 0 {
		damage = 30
	}
	return battle.Character{Name: name, MaxHealth: maxHealth, Damage: damage}
}

// normalizeTimestamps recursively renames GORM timestamp keys from
// CamelCase (CreatedAt, UpdatedAt, DeletedAt) to snake_case so clients
// consistently receive snake_case keys.
func normalizeTimestamps(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		for k, val := range vv {
			vv[k] = normalizeTimestamps(val)
		}
		if val, ok := vv["CreatedAt"]; ok {
			vv["created_at"] = val
			delete(vv, "CreatedAt")
		}
		if val, ok := vv["UpdatedAt"]; ok {
			vv["updated_at"] = val
			delete(vv, "UpdatedAt")
		}
		if val, ok := vv["DeletedAt"]; ok {
			vv["deleted_at"] = val
			delete(vv, "DeletedAt")
		}
		return vv
	case []interface{}:
		for i := range vv {
			vv[i] = normalizeTimestamps(vv[i])
		}
		return vv
	default:
		return v
	}
}

// MarshalIntoSnakeTimestamps marshals the given value into JSON, then
// decodes into an interface{} and normalizes timestamp keys to
// snake_case. It is used to produce API responses with consistent
// snake_case timestamp keys.
func MarshalIntoSnakeTimestamps(v interface{}) (interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return normalizeTimestamps(out), nil
}
