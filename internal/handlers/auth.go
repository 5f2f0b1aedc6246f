package handlers

import (
	"errors"
	"mime"
	"net/http"

	"github.com/crucial707/blogfeed/internal/apperr"
	"github.com/crucial707/blogfeed/internal/metrics"
	"github.com/crucial707/blogfeed/internal/service"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users *service.UserService
}

type registerRequest struct {
	Username string   `json:"username" validate:"required,max=64"`
	Email    string   `json:"email" validate:"required,email,max=254"`
	Password string   `json:"password" validate:"required,max=72"`
	Role     string   `json:"role" validate:"omitempty,oneof=user admin"`
	Tags     []string `json:"tags" validate:"max=50,dive,max=64"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ==========================
// Register
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input registerRequest
	if !decodeJSON(w, r, &input) || !validateStruct(w, input) {
		return
	}

	id, err := h.Users.Register(r.Context(), service.RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
		Tags:     input.Tags,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	metrics.IncRegistrations()

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":      id,
		"message": "user created successfully",
	})
}

// ==========================
// Login (JSON body or form-encoded username/password)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			JSONError(w, "invalid form", http.StatusBadRequest)
			return
		}
		input.Username = r.PostForm.Get("username")
		input.Password = r.PostForm.Get("password")
	} else if !decodeJSON(w, r, &input) {
		return
	}
	if !validateStruct(w, input) {
		return
	}

	token, _, err := h.Users.Login(r.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidCredentials) {
			metrics.RecordLogin(false)
			w.Header().Set("WWW-Authenticate", "Bearer")
		}
		WriteError(w, r, err)
		return
	}
	metrics.RecordLogin(true)

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func isForm(r *http.Request) bool {
	ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data"
}
