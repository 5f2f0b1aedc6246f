package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crucial707/blogfeed/internal/apperr"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"invalid token", apperr.ErrInvalidToken, http.StatusUnauthorized, "could not validate credentials"},
		{"bad login", apperr.ErrInvalidCredentials, http.StatusUnauthorized, "incorrect username or password"},
		{"conflict with detail", fmt.Errorf("%w: username taken", apperr.ErrConflict), http.StatusConflict, "username taken"},
		{"wrapped not found", fmt.Errorf("get blog: %w", apperr.ErrNotFound), http.StatusNotFound, "not found"},
		{"forbidden", fmt.Errorf("%w: nope", apperr.ErrForbidden), http.StatusForbidden, "nope"},
		{"invalid argument", apperr.ErrInvalidArgument, http.StatusBadRequest, "invalid argument"},
		{"unknown", errors.New("connection reset by peer"), http.StatusInternalServerError, ErrMessageInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, httptest.NewRequest("GET", "/", nil), tt.err)
			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			var out map[string]string
			decodeBody(t, rr, &out)
			if out["error"] != tt.wantMsg {
				t.Errorf("message: got %q, want %q", out["error"], tt.wantMsg)
			}
		})
	}
}

func TestWriteError_InvalidTokenChallenge(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, httptest.NewRequest("GET", "/", nil), apperr.ErrInvalidToken)
	if rr.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Errorf("missing WWW-Authenticate header")
	}
}
