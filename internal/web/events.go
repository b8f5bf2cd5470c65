package web

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/movers-solution/movers/internal/navigation"
)

// sessionEvents streams the navigation bar as server-sent "session" events:
// once on connect, then whenever the client's session changes
func (s *Server) sessionEvents(c *gin.Context) {
	key := sessionKey(c)
	updates, cancel := s.sessions.Subscribe(key)
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("session", currentView(c))
	c.Writer.Flush()

	policy := s.nav.Policy()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-s.done:
			return false
		case sess, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("session", navigation.Render(policy, sess))
			return true
		}
	})

	s.logger.Debug().Str("session_key", key).Msg("Session event stream closed")
}
