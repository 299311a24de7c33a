package blog

import (
	"errors"
	"net/http"
	"time"

	"github.com/devfolio/portfolio-backend/internal/db"
	"github.com/devfolio/portfolio-backend/internal/httpx"
	"github.com/devfolio/portfolio-backend/internal/token"
	"github.com/devfolio/portfolio-backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Handler struct {
	Tokens *token.Service
}

// List returns the caller's blogs.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var blogs []Blog
	if err := db.DB.Find(&blogs, "author_id = ?", userID).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch blogs")
		return
	}
	httpx.OK(w, http.StatusOK, "Blogs fetched", blogs)
}

func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	var b Blog
	if err := db.DB.First(&b, "slug = ?", chi.URLParam(r, "slug")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "Blog not found")
		return
	}
	httpx.OK(w, http.StatusOK, "Blog fetched", b)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req struct {
		Title   string          `json:"title"`
		Content string          `json:"content"`
		Tags    utils.ListField `json:"tags"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Title == "" || req.Content == "" {
		httpx.Fail(w, http.StatusBadRequest, "Title and content are required")
		return
	}

	slug := utils.Slugify(req.Title)
	if slug == "" {
		httpx.Fail(w, http.StatusBadRequest, "Title must contain at least one letter or digit")
		return
	}

	// Friendly pre-check; the unique index on slug settles concurrent
	// creates.
	var existing Blog
	if err := db.DB.First(&existing, "slug = ?", slug).Error; err == nil {
		httpx.Fail(w, http.StatusConflict, "Blog with this title already exists")
		return
	}

	b := Blog{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Slug:        slug,
		Content:     req.Content,
		Tags:        req.Tags.Normalize(),
		AuthorID:    userID,
		PublishedAt: time.Now(),
	}
	if err := db.DB.Create(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httpx.Fail(w, http.StatusConflict, "Blog with this title already exists")
			return
		}
		httpx.Fail(w, http.StatusInternalServerError, "Failed to create blog")
		return
	}

	httpx.OK(w, http.StatusCreated, "Blog created", b)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var b Blog
	if err := db.DB.First(&b, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "Blog not found")
		return
	}
	if !utils.OwnedBy(b.AuthorID, userID) {
		httpx.Fail(w, http.StatusForbidden, "Not authorized to update this blog")
		return
	}

	var req struct {
		Title   *string          `json:"title"`
		Content *string          `json:"content"`
		Tags    *utils.ListField `json:"tags"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	updates := map[string]any{"published_at": time.Now()}

	// The slug is re-derived only when the title actually changes, and the
	// collision check excludes this record.
	if req.Title != nil && *req.Title != "" && *req.Title != b.Title {
		newSlug := utils.Slugify(*req.Title)
		if newSlug == "" {
			httpx.Fail(w, http.StatusBadRequest, "Title must contain at least one letter or digit")
			return
		}
		var existing Blog
		if err := db.DB.First(&existing, "slug = ? AND id <> ?", newSlug, b.ID).Error; err == nil {
			httpx.Fail(w, http.StatusConflict, "Blog with this title already exists")
			return
		}
		updates["title"] = *req.Title
		updates["slug"] = newSlug
	}
	if req.Content != nil && *req.Content != "" {
		updates["content"] = *req.Content
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(req.Tags.Normalize())
	}

	if err := db.DB.Model(&b).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httpx.Fail(w, http.StatusConflict, "Blog with this title already exists")
			return
		}
		httpx.Fail(w, http.StatusInternalServerError, "Failed to update blog")
		return
	}

	if err := db.DB.First(&b, "id = ?", b.ID).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to update blog")
		return
	}
	httpx.OK(w, http.StatusOK, "Blog updated", b)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var b Blog
	if err := db.DB.First(&b, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "Blog not found")
		return
	}
	if !utils.OwnedBy(b.AuthorID, userID) {
		httpx.Fail(w, http.StatusForbidden, "Not authorized to delete this blog")
		return
	}

	if err := db.DB.Delete(&b).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to delete blog")
		return
	}
	httpx.OK(w, http.StatusOK, "Blog deleted", nil)
}
