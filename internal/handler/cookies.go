package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/videotube/internal/domain"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// CookieOptions controls the session cookies.
type CookieOptions struct {
	Secure        bool
	Domain        string
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
}

func (o CookieOptions) setSession(c *gin.Context, tokens domain.TokenPair) {
	o.set(c, accessTokenCookie, tokens.AccessToken, int(o.AccessMaxAge.Seconds()))
	o.set(c, refreshTokenCookie, tokens.RefreshToken, int(o.RefreshMaxAge.Seconds()))
}

func (o CookieOptions) clearSession(c *gin.Context) {
	o.set(c, accessTokenCookie, "", -1)
	o.set(c, refreshTokenCookie, "", -1)
}

func (o CookieOptions) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", o.Domain, o.Secure, true)
}
