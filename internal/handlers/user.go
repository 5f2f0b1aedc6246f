package handlers

import (
	"net/http"

	"github.com/crucial707/blogfeed/internal/models"
	"github.com/crucial707/blogfeed/internal/service"
	"github.com/go-chi/chi/v5"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Users *service.UserService
}

type profileRequest struct {
	Username *string   `json:"username" validate:"omitempty,min=1,max=64"`
	Email    *string   `json:"email" validate:"omitempty,email,max=254"`
	Password *string   `json:"password" validate:"omitempty,min=1,max=72"`
	Tags     *[]string `json:"tags" validate:"omitempty,max=50,dive,max=64"`
	Role     *string   `json:"role"`
}

// ==========================
// Get Profile
// ==========================
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ==========================
// Update Profile (partial; role is changed through UpdateRole only)
// ==========================
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input profileRequest
	if !decodeJSON(w, r, &input) || !validateStruct(w, input) {
		return
	}
	if input.Role != nil {
		JSONValidationError(w, "validation failed",
			map[string]string{"role": "cannot be changed through the profile"}, http.StatusBadRequest)
		return
	}

	upd := models.ProfileUpdate{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	}
	if input.Tags != nil {
		upd.Tags = *input.Tags
		upd.SetTags = true
	}
	updated, err := h.Users.UpdateProfile(r.Context(), user, upd)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ==========================
// Tags
// ==========================

// AddTags unions a JSON array of tags into the caller's interests.
func (h *UserHandler) AddTags(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var tags []string
	if !decodeJSON(w, r, &tags) {
		return
	}
	added, err := h.Users.AddTags(r.Context(), user, tags)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	msg := "tags added successfully"
	if !added {
		msg = "tags already present"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": msg, "added": added})
}

// RemoveTags removes a JSON array of tags from the caller's interests.
func (h *UserHandler) RemoveTags(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var tags []string
	if !decodeJSON(w, r, &tags) {
		return
	}
	if err := h.Users.RemoveTags(r.Context(), user, tags); err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "tags removed successfully"})
}

// ==========================
// Update Role (admin only, never on self)
// ==========================
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input struct {
		Role string `json:"role" validate:"required"`
	}
	if !decodeJSON(w, r, &input) || !validateStruct(w, input) {
		return
	}
	if err := h.Users.SetRole(r.Context(), user, chi.URLParam(r, "id"), input.Role); err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "role updated successfully"})
}
