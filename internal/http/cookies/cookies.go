package cookies

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Cookie names for the two session tokens
const (
	AccessToken  = "access_token"
	RefreshToken = "refresh_token"
)

// Writer sets and clears the session cookies. Tokens travel only as
// httpOnly, Secure, SameSite=Strict cookies, never in response bodies.
type Writer struct {
	Secure     bool
	Domain     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// NewWriter creates a cookie writer
func NewWriter(secure bool, domain string, accessTTL, refreshTTL time.Duration) Writer {
	return Writer{
		Secure:     secure,
		Domain:     domain,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
}

// SetAccess attaches the access token cookie
func (w Writer) SetAccess(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessToken, token, int(w.AccessTTL.Seconds()), "/", w.Domain, w.Secure, true)
}

// SetRefresh attaches the refresh token cookie
func (w Writer) SetRefresh(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshToken, token, int(w.RefreshTTL.Seconds()), "/", w.Domain, w.Secure, true)
}

// Clear expires both session cookies
func (w Writer) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessToken, "", -1, "/", w.Domain, w.Secure, true)
	c.SetCookie(RefreshToken, "", -1, "/", w.Domain, w.Secure, true)
}
