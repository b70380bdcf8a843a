package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CookieName is the session cookie set on login.
const CookieName = "session_id"

const (
	contextKeySession   = "session"
	contextKeySessionID = "session_id"
)

// SessionFromContext returns the session and its ID set by RequireSession.
func SessionFromContext(c *gin.Context) (Session, string) {
	sess, _ := c.Get(contextKeySession)
	id, _ := c.Get(contextKeySessionID)
	s, _ := sess.(Session)
	sid, _ := id.(string)
	return s, sid
}

// RequireSession returns a middleware that loads the session behind the
// cookie and puts it in context. Missing, unknown or anonymous sessions get
// a 303 redirect to the login page rather than an error response.
func RequireSession(sessions Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(CookieName)
		if err != nil || sessionID == "" {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		sess, ok, err := sessions.Get(c.Request.Context(), sessionID)
		if err != nil || !ok || !sess.Authenticated() {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Set(contextKeySession, sess)
		c.Set(contextKeySessionID, sessionID)
		c.Next()
	}
}
