package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const flashCookie = "flash"

// setFlash stores a one-shot notice shown on the next rendered page.
func (h *Handler) setFlash(c *gin.Context, msg string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, msg, 60, "/", "", h.cfg.Session.Secure, true)
}

// popFlash returns the pending notice, if any, and clears it.
func (h *Handler) popFlash(c *gin.Context) string {
	msg, err := c.Cookie(flashCookie)
	if err != nil || msg == "" {
		return ""
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, "", -1, "/", "", h.cfg.Session.Secure, true)
	return msg
}

// redirectWithFlash is the usual POST-redirect-GET exit.
func (h *Handler) redirectWithFlash(c *gin.Context, location, msg string) {
	if msg != "" {
		h.setFlash(c, msg)
	}
	c.Redirect(http.StatusFound, location)
}
