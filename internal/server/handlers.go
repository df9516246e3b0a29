package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/oggyb/muzz-web/internal/db"
	svcErr "github.com/oggyb/muzz-web/internal/errors"
	"github.com/oggyb/muzz-web/internal/logger"
)

const userKey = "user"

// currentUser returns the user LoadUser attached, or nil for anonymous requests.
func currentUser(c *gin.Context) *db.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*db.User); ok {
			return u
		}
	}
	return nil
}

// LoadUser resolves the session cookie, if any. Anonymous requests pass through.
func (h *Handler) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(h.cfg.Session.CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, err := h.accounts.CurrentUser(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(userKey, user)
			h.setSession(c, token) // keep the cookie in step with the sliding Redis TTL
			c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), user.ID))
		case errors.Is(err, svcErr.ErrUnauthenticated):
			h.clearSession(c)
		default:
			h.fail(c, http.StatusInternalServerError, err)
			return
		}
		c.Next()
	}
}

// RequireUser sends anonymous callers to the login page.
func (h *Handler) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			h.redirectWithFlash(c, "/login", svcErr.Notice(svcErr.ErrUnauthenticated))
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *Handler) setSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Session.CookieName, token, int(h.appCtx.Sessions.TTL().Seconds()), "/", "", h.cfg.Session.Secure, true)
}

func (h *Handler) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Session.CookieName, "", -1, "/", "", h.cfg.Session.Secure, true)
}

// render executes a page template with the signed-in user and any pending flash.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = currentUser(c)
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = h.popFlash(c)
	}
	c.HTML(status, name, data)
}

// fail aborts with an error page. 5xx causes are recorded for the request log.
func (h *Handler) fail(c *gin.Context, status int, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.HTML(status, "error.html", gin.H{
		"User":    currentUser(c),
		"Status":    status,
		"Message":   http.StatusText(status),
		"RequestID": logger.RequestID(c.Request.Context()),
	})
	c.Abort()
}

// failErr picks the status from the error.
func (h *Handler) failErr(c *gin.Context, err error) {
	h.fail(c, svcErr.HTTPStatus(err), err)
}

// pathID parses a positive numeric path param. Anything else is a 404.
func (h *Handler) pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		h.fail(c, http.StatusNotFound, nil)
		return 0, false
	}
	return id, true
}

// bindNotice turns a form binding failure into a flash message.
func bindNotice(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid form submission."
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Please fill in the %s field.", field)
	case "max":
		return fmt.Sprintf("The %s field must be at most %s characters.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

// Index is the landing page.
func (h *Handler) Index(c *gin.Context) {
	h.render(c, http.StatusOK, "index.html", nil)
}

// Health pings the database.
func (h *Handler) Health(c *gin.Context) {
	sqlDB, err := h.appCtx.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.cfg.App.Name})
}
