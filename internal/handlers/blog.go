package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/crucial707/blogfeed/internal/apperr"
	"github.com/crucial707/blogfeed/internal/metrics"
	"github.com/crucial707/blogfeed/internal/models"
	"github.com/crucial707/blogfeed/internal/service"
	"github.com/go-chi/chi/v5"
)

// ==========================
// BlogHandler
// ==========================
type BlogHandler struct {
	Blogs *service.BlogService
}

// blogRequest is the writable part of a blog. An "author" field in the body is ignored.
type blogRequest struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags" validate:"max=50,dive,max=64"`
}

func (b blogRequest) input() models.BlogInput {
	return models.BlogInput{Title: b.Title, Content: b.Content, Tags: b.Tags}
}

func writeBlogError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		JSONError(w, "blog not found", http.StatusNotFound)
		return
	}
	WriteError(w, r, err)
}

// ==========================
// Create Blog
// ==========================
func (h *BlogHandler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input blogRequest
	if !decodeJSON(w, r, &input) || !validateStruct(w, input) {
		return
	}
	id, err := h.Blogs.Create(r.Context(), user, input.input())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	metrics.IncBlogsCreated()
	writeJSON(w, http.StatusCreated, map[string]string{"id": id, "message": "blog created successfully"})
}

// ==========================
// List Blogs (page/limit; totals in headers)
// ==========================
func (h *BlogHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	result, err := h.Blogs.List(r.Context(), page, limit)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(result.Total, 10))
	w.Header().Set("X-Has-More", strconv.FormatBool(result.HasMore))
	writeJSON(w, http.StatusOK, result.Items)
}

// ==========================
// Get Blog
// ==========================
func (h *BlogHandler) GetBlog(w http.ResponseWriter, r *http.Request) {
	blog, err := h.Blogs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeBlogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

// ==========================
// Update Blog (author only)
// ==========================
func (h *BlogHandler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var input blogRequest
	if !decodeJSON(w, r, &input) || !validateStruct(w, input) {
		return
	}
	if err := h.Blogs.Update(r.Context(), user, chi.URLParam(r, "id"), input.input()); err != nil {
		writeBlogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "blog updated successfully"})
}

// ==========================
// Delete Blog (author or admin)
// ==========================
func (h *BlogHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.Blogs.Delete(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		writeBlogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "blog deleted successfully"})
}
