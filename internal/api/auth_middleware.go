package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/veilduel/veilduel-backend/internal/constants"
)

// AuthRequired validates the bearer session token and injects the
// player's identity into the request context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(constants.HeaderAuthorization)
		if !strings.HasPrefix(header, constants.BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		token := strings.TrimPrefix(header, constants.BearerPrefix)
		claims, err := parseAndValidateSession(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
			return
		}
		c.Set("playerID", claims.Subject)
		c.Set("playerName", claims.Name)
		c.Next()
	}
}

// playerIdentity extracts the authenticated player's ID and display name
// from the context. An empty ID means the middleware did not run.
func playerIdentity(c *gin.Context) (string, string) {
	id, _ := c.Get("playerID")
	name, _ := c.Get("playerName")
	idStr, _ := id.(string)
	nameStr, _ := name.(string)
	return idStr, nameStr
}
