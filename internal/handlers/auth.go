package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/faithingod1/parish-record/internal/auth"
	"github.com/faithingod1/parish-record/internal/dto"
	"github.com/faithingod1/parish-record/internal/service"
)

// AuthHandler handles the login form, login submit and logout.
type AuthHandler struct {
	sessions  auth.Store
	guard     *auth.Guard
	userSvc   *service.UserService
	cookieTTL int
}

// NewAuthHandler returns a new AuthHandler. cookieTTL is the session cookie
// Max-Age in seconds.
func NewAuthHandler(sessions auth.Store, guard *auth.Guard, userSvc *service.UserService, cookieTTL int) *AuthHandler {
	return &AuthHandler{sessions: sessions, guard: guard, userSvc: userSvc, cookieTTL: cookieTTL}
}

// Root redirects to the dashboard when a session exists, to login otherwise.
func (h *AuthHandler) Root(c *gin.Context) {
	if sess, _, ok := h.currentSession(c); ok && sess.Authenticated() {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

// LoginPage renders the login form. An anonymous session is created if
// needed to carry the CSRF token.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	_, sessionID, ok := h.currentSession(c)
	if !ok {
		var err error
		sessionID, err = h.sessions.Create(c.Request.Context(), auth.Session{})
		if err != nil {
			c.String(http.StatusInternalServerError, "failed to create session")
			return
		}
		h.setCookie(c, sessionID)
	}
	token, err := h.guard.IssueToken(c.Request.Context(), sessionID)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to issue token")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{"CSRFToken": token})
}

// Login validates CSRF and credentials. A bad login re-renders the form with
// a generic error and a fresh token; success swaps the anonymous session for
// an authenticated one under a new ID.
func (h *AuthHandler) Login(c *gin.Context) {
	var form dto.LoginForm
	_ = c.ShouldBind(&form)

	_, sessionID, ok := h.currentSession(c)
	if !ok {
		c.String(http.StatusBadRequest, "invalid CSRF token")
		return
	}
	if err := h.guard.Validate(c.Request.Context(), sessionID, form.CSRFToken); err != nil {
		c.String(http.StatusBadRequest, "invalid CSRF token")
		return
	}

	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			token, terr := h.guard.IssueToken(c.Request.Context(), sessionID)
			if terr != nil {
				c.String(http.StatusInternalServerError, "failed to issue token")
				return
			}
			c.HTML(http.StatusBadRequest, "login.html", gin.H{
				"Error":     "Invalid username or password",
				"CSRFToken": token,
			})
			return
		}
		c.String(http.StatusInternalServerError, "login failed")
		return
	}

	// New session ID on privilege change.
	_ = h.sessions.Delete(c.Request.Context(), sessionID)
	newID, err := h.sessions.Create(c.Request.Context(), auth.Session{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to create session")
		return
	}
	h.setCookie(c, newID)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Logout clears the session unconditionally once the CSRF token checks out.
func (h *AuthHandler) Logout(c *gin.Context) {
	var form dto.CSRFForm
	_ = c.ShouldBind(&form)

	_, sessionID, ok := h.currentSession(c)
	if !ok {
		c.String(http.StatusBadRequest, "invalid CSRF token")
		return
	}
	if err := h.guard.Validate(c.Request.Context(), sessionID, form.CSRFToken); err != nil {
		c.String(http.StatusBadRequest, "invalid CSRF token")
		return
	}
	_ = h.sessions.Delete(c.Request.Context(), sessionID)
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) currentSession(c *gin.Context) (auth.Session, string, bool) {
	sessionID, err := c.Cookie(auth.CookieName)
	if err != nil || sessionID == "" {
		return auth.Session{}, "", false
	}
	sess, ok, err := h.sessions.Get(c.Request.Context(), sessionID)
	if err != nil || !ok {
		return auth.Session{}, "", false
	}
	return sess, sessionID, true
}

func (h *AuthHandler) setCookie(c *gin.Context, sessionID string) {
	c.SetCookie(auth.CookieName, sessionID, h.cookieTTL, "/", "", false, true) // httpOnly
}
