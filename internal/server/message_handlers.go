package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/muzz-web/internal/db"
	svcErr "github.com/oggyb/muzz-web/internal/errors"
)

// Messages shows the conversation roster and, with a recipient_id, the
// thread with that user.
func (h *Handler) Messages(c *gin.Context) {
	ctx := c.Request.Context()
	me := currentUser(c)

	roster, err := h.messages.Conversations(ctx, me.ID)
	if err != nil {
		h.failErr(c, err)
		return
	}

	data := gin.H{"Conversations": roster}
	if c.Param("recipient_id") != "" {
		otherID, ok := h.pathID(c, "recipient_id")
		if !ok {
			return
		}
		other, err := h.accounts.GetUser(ctx, otherID)
		if err != nil {
			h.failErr(c, err)
			return
		}
		thread, err := h.messages.Conversation(ctx, me.ID, otherID)
		if err != nil {
			h.failErr(c, err)
			return
		}
		data["Recipient"] = other
		data["Thread"] = thread
	} else {
		data["Thread"] = []db.Message{}
	}

	h.render(c, http.StatusOK, "messages.html", data)
}

func (h *Handler) SendMessage(c *gin.Context) {
	recipientID, ok := h.pathID(c, "recipient_id")
	if !ok {
		return
	}
	thread := fmt.Sprintf("/messages/%d", recipientID)

	_, err := h.messages.Send(c.Request.Context(), currentUser(c).ID, recipientID, c.PostForm("body"))
	switch {
	case err == nil:
		h.redirectWithFlash(c, thread, "Your message has been sent.")
	case errors.Is(err, svcErr.ErrInvalidRecipient):
		h.fail(c, http.StatusNotFound, nil)
	case errors.Is(err, svcErr.ErrEmptyMessage):
		h.redirectWithFlash(c, thread, svcErr.Notice(err))
	default:
		h.failErr(c, err)
	}
}
