package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"altheia/internal/apiclient"
	"altheia/internal/middleware"
	"altheia/internal/views"
)

func (h *Handler) ShowProfile(c *gin.Context) {
	render(c, http.StatusOK, views.Profile(h.chrome(c, "Profile", "profile"), "", ""))
}

type profileForm struct {
	Name  string `form:"name"`
	Email string `form:"email"`
	Phone string `form:"phone"`
}

// UpdateProfile saves the profile remotely and then refreshes the session
// snapshot with the record the API returns.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var form profileForm
	if err := c.ShouldBind(&form); err != nil || strings.TrimSpace(form.Name) == "" || strings.TrimSpace(form.Email) == "" {
		render(c, http.StatusBadRequest, views.Profile(h.chrome(c, "Profile", "profile"), "Name and email are required.", ""))
		return
	}

	updated, err := h.api.UpdateProfile(apiContext(c), apiclient.ProfileUpdate{
		Name:  strings.TrimSpace(form.Name),
		Email: strings.TrimSpace(form.Email),
		Phone: strings.TrimSpace(form.Phone),
	})
	if err != nil {
		render(c, http.StatusBadRequest, views.Profile(h.chrome(c, "Profile", "profile"), formError(err), ""))
		return
	}

	store := middleware.Store(c)
	if current := store.User(); current != nil && updated.Role == "" {
		updated.Role = current.Role
	}

	ctx := c.Request.Context()
	if err := store.Replace(ctx, updated); err != nil {
		h.log.ErrorContext(ctx, "refresh session after profile update", "error", err)
		render(c, http.StatusInternalServerError, views.Profile(h.chrome(c, "Profile", "profile"), "Your profile was saved but the session could not be refreshed. Sign in again.", ""))
		return
	}
	c.Set(middleware.CtxKeyCurrentUser, store.User())

	render(c, http.StatusOK, views.Profile(h.chrome(c, "Profile", "profile"), "", "Profile updated."))
}
