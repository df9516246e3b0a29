package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	svcErr "github.com/oggyb/muzz-web/internal/errors"
	"github.com/oggyb/muzz-web/internal/service/account"
)

type registerForm struct {
	Username string `form:"username" binding:"required,max=150"`
	Password string `form:"password" binding:"required,max=72"`
	Gender   string `form:"gender" binding:"required,max=10"`
}

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *Handler) RegisterPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", nil)
}

// Register creates the account, signs it in and lands on the profile page.
func (h *Handler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		h.redirectWithFlash(c, "/register", bindNotice(err))
		return
	}

	_, token, err := h.accounts.Register(c.Request.Context(), account.RegisterInput{
		Username: form.Username,
		Password: form.Password,
		Gender:   form.Gender,
	})
	if errors.Is(err, svcErr.ErrDuplicateUsername) || errors.Is(err, svcErr.ErrInvalidInput) {
		h.redirectWithFlash(c, "/register", svcErr.Notice(err))
		return
	}
	if err != nil {
		h.failErr(c, err)
		return
	}

	h.setSession(c, token)
	c.Redirect(http.StatusFound, "/profile")
}

func (h *Handler) LoginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", nil)
}

// Login re-renders the form with a notice on bad credentials.
func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusOK, "login.html", gin.H{"Flash": bindNotice(err)})
		return
	}

	_, token, err := h.accounts.Login(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, svcErr.ErrInvalidCredentials) {
		h.render(c, http.StatusOK, "login.html", gin.H{"Flash": svcErr.Notice(err)})
		return
	}
	if err != nil {
		h.failErr(c, err)
		return
	}

	h.setSession(c, token)
	c.Redirect(http.StatusFound, "/profile")
}

func (h *Handler) Logout(c *gin.Context) {
	token, _ := c.Cookie(h.cfg.Session.CookieName)
	if err := h.accounts.Logout(c.Request.Context(), token); err != nil {
		h.failErr(c, err)
		return
	}
	h.clearSession(c)
	c.Redirect(http.StatusFound, "/")
}
