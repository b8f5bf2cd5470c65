package authapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/movers-solution/movers/internal/auth"
	"github.com/movers-solution/movers/internal/models"
)

const (
	authCookie = "movers_auth"
	sessionTTL = 7 * 24 * time.Hour
)

func setSession(c *gin.Context, sessionData *auth.SessionData) {
	c.Set("session", sessionData)
}

// GetSessionData returns the session resolved by SessionMiddleware
func GetSessionData(c *gin.Context) (*auth.SessionData, bool) {
	session, exists := c.Get("session")
	if !exists {
		return nil, false
	}

	sessionData, ok := session.(*auth.SessionData)
	return sessionData, ok
}

// SessionMiddleware resolves the login cookie to a user. A missing or bad
// cookie is not an error: the request simply carries no session.
func SessionMiddleware(db *gorm.DB, tokens *auth.Issuer, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(authCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			log.Debug().Err(err).Msg("Ignoring invalid auth cookie")
			c.Next()
			return
		}

		var user models.User
		if err := models.FindByID(db, claims.Subject, &user); err != nil {
			log.Warn().Err(err).Str("user_id", claims.Subject).Msg("Auth cookie names unknown user")
			c.Next()
			return
		}

		setSession(c, &auth.SessionData{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.Role,
		})
		c.Next()
	}
}

func (s *Server) setAuthCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookie, token, maxAge, "/", "", false, true)
}
