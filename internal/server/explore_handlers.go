package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	svcErr "github.com/oggyb/muzz-web/internal/errors"
	"github.com/oggyb/muzz-web/internal/service/explore"
)

// Users lists everyone else, filtered by the gender and bio query params.
func (h *Handler) Users(c *gin.Context) {
	ctx := c.Request.Context()
	me := currentUser(c)

	f := explore.Filter{Gender: c.Query("gender"), Bio: c.Query("bio")}
	users, err := h.explore.ListUsers(ctx, me.ID, f)
	if err != nil {
		h.failErr(c, err)
		return
	}
	liked, err := h.explore.LikedSet(ctx, me.ID)
	if err != nil {
		h.failErr(c, err)
		return
	}

	h.render(c, http.StatusOK, "users.html", gin.H{
		"Users":  users,
		"Liked":  liked,
		"Gender": f.Gender,
		"Bio":    f.Bio,
	})
}

func (h *Handler) Like(c *gin.Context) {
	targetID, ok := h.pathID(c, "user_id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	target, err := h.accounts.GetUser(ctx, targetID)
	if err != nil {
		h.failErr(c, err)
		return
	}

	mutual, err := h.explore.Like(ctx, currentUser(c).ID, targetID)
	if errors.Is(err, svcErr.ErrSelfAction) {
		h.redirectWithFlash(c, "/users", svcErr.Notice(err))
		return
	}
	if err != nil {
		h.failErr(c, err)
		return
	}

	msg := fmt.Sprintf("You have liked %s.", target.Username)
	if mutual {
		msg = fmt.Sprintf("You have liked %s. You matched!", target.Username)
	}
	h.redirectWithFlash(c, "/users", msg)
}

func (h *Handler) Unlike(c *gin.Context) {
	targetID, ok := h.pathID(c, "user_id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	target, err := h.accounts.GetUser(ctx, targetID)
	if err != nil {
		h.failErr(c, err)
		return
	}
	if err := h.explore.Unlike(ctx, currentUser(c).ID, targetID); err != nil {
		h.failErr(c, err)
		return
	}
	h.redirectWithFlash(c, "/users", fmt.Sprintf("You have unliked %s.", target.Username))
}

func (h *Handler) Matches(c *gin.Context) {
	matches, err := h.explore.Matches(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.failErr(c, err)
		return
	}
	h.render(c, http.StatusOK, "matches.html", gin.H{"Matches": matches})
}
