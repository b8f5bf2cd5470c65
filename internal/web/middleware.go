package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/movers-solution/movers/internal/access"
	"github.com/movers-solution/movers/internal/navigation"
	"github.com/movers-solution/movers/internal/session"
)

const (
	sessionCookie = "movers_session"
	// one year; the store's idle sweep bounds the real lifetime
	sessionCookieMaxAge = 365 * 24 * 60 * 60

	ctxSessionKey = "session_key"
	ctxSession    = "session"
	ctxNavView    = "nav_view"
)

// sessionMiddleware identifies the client by a signed cookie carrying its
// session key, issuing a fresh key when the cookie is missing or invalid,
// and loads the client's session and navigation bar
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := s.sessionKeyFromCookie(c)
		if key == "" {
			key = session.NewKey()
			token, err := s.cookies.Issue(key, "")
			if err != nil {
				s.logger.Error().Err(err).Msg("Failed to sign session cookie")
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, token, sessionCookieMaxAge, "/", "", s.config.Server.SecureCookies, true)

			// Anonymous clients are stored too, so the idle sweep and the
			// stored-sessions gauge see them
			if err := s.sessions.Set(c.Request.Context(), key, session.Empty()); err != nil {
				s.logger.Warn().Err(err).Str("session_key", key).Msg("Failed to store new session")
			}
		}

		view, sess, err := s.nav.Render(c.Request.Context(), key)
		if err != nil {
			// Render fell back to the anonymous view
			s.logger.Error().Err(err).Str("session_key", key).Msg("Failed to load session")
		}

		c.Set(ctxSessionKey, key)
		c.Set(ctxSession, sess)
		c.Set(ctxNavView, view)
		c.Next()
	}
}

func (s *Server) sessionKeyFromCookie(c *gin.Context) string {
	token, err := c.Cookie(sessionCookie)
	if err != nil || token == "" {
		return ""
	}
	claims, err := s.cookies.Validate(token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Ignoring invalid session cookie")
		return ""
	}
	return claims.Subject
}

func sessionKey(c *gin.Context) string {
	return c.GetString(ctxSessionKey)
}

func currentSession(c *gin.Context) session.Session {
	if v, ok := c.Get(ctxSession); ok {
		if sess, ok := v.(session.Session); ok {
			return sess
		}
	}
	return session.Empty()
}

func currentView(c *gin.Context) navigation.View {
	if v, ok := c.Get(ctxNavView); ok {
		if view, ok := v.(navigation.View); ok {
			return view
		}
	}
	return navigation.View{}
}

// requireRoute lets the request through only when the access policy lists
// route for the client's session
func (s *Server) requireRoute(route access.RouteID) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if !sess.IsAuthenticated() {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		if !s.nav.Policy().Allows(sess, route) {
			s.logger.Warn().
				Str("user_id", sess.UserID()).
				Str("role", string(sess.Role)).
				Str("route", string(route)).
				Msg("Route not allowed for role")
			s.renderError(c, http.StatusForbidden, "Forbidden", "You do not have access to this page.")
			c.Abort()
			return
		}

		c.Next()
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}
