package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	svcErr "github.com/oggyb/muzz-web/internal/errors"
	"github.com/oggyb/muzz-web/internal/service/account"
)

func (h *Handler) Profile(c *gin.Context) {
	h.render(c, http.StatusOK, "profile.html", nil)
}

// UpdateProfile takes a multipart form with an optional bio and an
// optional profile_picture file.
func (h *Handler) UpdateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)

	var upd account.ProfileUpdate
	if bio, ok := c.GetPostForm("bio"); ok {
		upd.Bio = &bio
	}

	fh, err := c.FormFile("profile_picture")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// bio-only update
	case err != nil:
		h.redirectWithFlash(c, "/profile", svcErr.Notice(fmt.Errorf("%w: %v", svcErr.ErrInvalidUpload, err)))
		return
	case fh.Filename != "":
		uploads := h.appCtx.Uploads
		if err := uploads.Check(fh); err != nil {
			if errors.Is(err, svcErr.ErrInvalidUpload) {
				h.redirectWithFlash(c, "/profile", svcErr.Notice(err))
				return
			}
			h.failErr(c, err)
			return
		}

		name := uploads.NameFor(user.ID, fh.Filename)
		path, err := uploads.Path(name)
		if err != nil {
			h.redirectWithFlash(c, "/profile", svcErr.Notice(fmt.Errorf("%w: bad file name", svcErr.ErrInvalidUpload)))
			return
		}
		if err := c.SaveUploadedFile(fh, path); err != nil {
			h.fail(c, http.StatusInternalServerError, fmt.Errorf("save upload: %w", err))
			return
		}
		upd.Picture = &name
	}

	if _, err := h.accounts.UpdateProfile(ctx, user.ID, upd); err != nil {
		if errors.Is(err, svcErr.ErrInvalidInput) {
			h.redirectWithFlash(c, "/profile", svcErr.Notice(err))
			return
		}
		h.failErr(c, err)
		return
	}

	h.redirectWithFlash(c, "/profile", "Your profile has been updated.")
}

// ServeUpload streams a stored upload by name.
func (h *Handler) ServeUpload(c *gin.Context) {
	path, err := h.appCtx.Uploads.Path(c.Param("filename"))
	if err != nil {
		h.fail(c, http.StatusNotFound, nil)
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		h.fail(c, http.StatusNotFound, nil)
		return
	}
	c.File(path)
}
