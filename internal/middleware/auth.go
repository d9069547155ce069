package middleware

import (
	"net/http"
	"strings"

	"lifora/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	RequesterKey  = "requester"
	SessionUserID = "user_id"
)

// LoadUser resolves the requester from a bearer token, falling back to the
// session cookie. A bad token leaves the request anonymous.
func LoadUser(tokens *services.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := bearerUser(c, tokens); uid != "" {
			c.Set(RequesterKey, services.Requester{UserID: uid})
			c.Next()
			return
		}

		session := sessions.Default(c)
		if uid, ok := session.Get(SessionUserID).(string); ok && uid != "" {
			c.Set(RequesterKey, services.Requester{UserID: uid})
		}
		c.Next()
	}
}

func bearerUser(c *gin.Context, tokens *services.TokenIssuer) string {
	authz := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(authz, "Bearer ")
	if !ok || token == "" || tokens == nil {
		return ""
	}
	uid, err := tokens.Parse(strings.TrimSpace(token))
	if err != nil {
		return ""
	}
	return uid
}

// AuthRequired aborts with 401 unless LoadUser found a requester.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if RequesterFrom(c).UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		c.Next()
	}
}

func RequesterFrom(c *gin.Context) services.Requester {
	if v, ok := c.Get(RequesterKey); ok {
		if r, ok := v.(services.Requester); ok {
			return r
		}
	}
	return services.Requester{}
}
