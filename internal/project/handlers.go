package project

import (
	"net/http"
	"strings"

	"github.com/devfolio/portfolio-backend/internal/db"
	"github.com/devfolio/portfolio-backend/internal/httpx"
	"github.com/devfolio/portfolio-backend/internal/storage"
	"github.com/devfolio/portfolio-backend/internal/token"
	"github.com/devfolio/portfolio-backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const maxImages = 5

type Handler struct {
	Tokens *token.Service
	Files  storage.Store
}

// List returns the caller's projects.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var projects []Project
	if err := db.DB.Find(&projects, "user_id = ?", userID).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch projects")
		return
	}
	httpx.OK(w, http.StatusOK, "Projects fetched", projects)
}

// ListPublic returns every project, for the public site.
func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	var projects []Project
	if err := db.DB.Find(&projects).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch projects")
		return
	}
	if len(projects) == 0 {
		httpx.Fail(w, http.StatusNotFound, "No active projects found")
		return
	}
	httpx.OK(w, http.StatusOK, "Public projects fetched successfully", projects)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	var p Project
	if err := db.DB.First(&p, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "Project not found")
		return
	}
	httpx.OK(w, http.StatusOK, "Project fetched", p)
}

type projectPatch struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	TechStack   *utils.ListField `json:"techStack"`
	GithubLink  *string          `json:"githubLink"`
	LiveLink    *string          `json:"liveLink"`
	Status      *string          `json:"status"`
}

// decodePatch reads the partial update from either a multipart form or a
// JSON body. Only fields the client supplied come back non-nil.
func decodePatch(r *http.Request) (projectPatch, error) {
	var p projectPatch
	if httpx.IsMultipart(r) {
		if err := r.ParseMultipartForm(storage.MaxFileSize + 1<<20); err != nil {
			return p, err
		}
		if v, ok := httpx.FormValue(r, "title"); ok {
			p.Title = &v
		}
		if v, ok := httpx.FormValue(r, "description"); ok {
			p.Description = &v
		}
		if v, ok := httpx.FormValue(r, "techStack"); ok {
			lf := utils.ListField(strings.Split(v, ","))
			p.TechStack = &lf
		}
		if v, ok := httpx.FormValue(r, "githubLink"); ok {
			p.GithubLink = &v
		}
		if v, ok := httpx.FormValue(r, "liveLink"); ok {
			p.LiveLink = &v
		}
		if v, ok := httpx.FormValue(r, "status"); ok {
			p.Status = &v
		}
		return p, nil
	}
	return p, httpx.Decode(r, &p)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	req, err := decodePatch(r)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Title == nil || *req.Title == "" {
		httpx.Fail(w, http.StatusBadRequest, "Title is required")
		return
	}

	p := Project{
		ID:     uuid.New().String(),
		UserID: userID,
		Title:  *req.Title,
		Status: "active",
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.TechStack != nil {
		p.TechStack = req.TechStack.Normalize()
	}
	if req.GithubLink != nil {
		p.GithubLink = *req.GithubLink
	}
	if req.LiveLink != nil {
		p.LiveLink = *req.LiveLink
	}
	if req.Status != nil && *req.Status != "" {
		if !validStatus(*req.Status) {
			httpx.Fail(w, http.StatusBadRequest, "Status must be active or archived")
			return
		}
		p.Status = *req.Status
	}

	for _, fh := range storage.FormFiles(r, "images", maxImages) {
		url, err := h.Files.Save(r.Context(), userID, fh, storage.KindImage)
		if err != nil {
			h.Files.Remove(r.Context(), p.Images...)
			httpx.Fail(w, http.StatusBadRequest, "File upload error: "+err.Error())
			return
		}
		p.Images = append(p.Images, url)
	}

	if err := db.DB.Create(&p).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to create project")
		return
	}
	httpx.OK(w, http.StatusCreated, "Project created", p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var p Project
	if err := db.DB.First(&p, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "Project not found")
		return
	}
	if !utils.OwnedBy(p.UserID, userID) {
		httpx.Fail(w, http.StatusForbidden, "Not authorized to update this project")
		return
	}

	req, err := decodePatch(r)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	updates := make(map[string]any)
	if req.Title != nil && *req.Title != "" {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.TechStack != nil {
		updates["tech_stack"] = pq.StringArray(req.TechStack.Normalize())
	}
	if req.GithubLink != nil {
		updates["github_link"] = *req.GithubLink
	}
	if req.LiveLink != nil {
		updates["live_link"] = *req.LiveLink
	}
	if req.Status != nil && *req.Status != "" {
		if !validStatus(*req.Status) {
			httpx.Fail(w, http.StatusBadRequest, "Status must be active or archived")
			return
		}
		updates["status"] = *req.Status
	}

	// Replacement images supplant the whole set; the old files are cleaned
	// up after the record commits.
	var oldImages []string
	if files := storage.FormFiles(r, "images", maxImages); len(files) > 0 {
		var newImages pq.StringArray
		for _, fh := range files {
			url, err := h.Files.Save(r.Context(), userID, fh, storage.KindImage)
			if err != nil {
				h.Files.Remove(r.Context(), newImages...)
				httpx.Fail(w, http.StatusBadRequest, "File upload error: "+err.Error())
				return
			}
			newImages = append(newImages, url)
		}
		oldImages = p.Images
		updates["images"] = newImages
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&p).Updates(updates).Error; err != nil {
			httpx.Fail(w, http.StatusInternalServerError, "Failed to update project")
			return
		}
	}

	if len(oldImages) > 0 {
		h.Files.Remove(r.Context(), oldImages...)
	}

	if err := db.DB.First(&p, "id = ?", p.ID).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to update project")
		return
	}
	httpx.OK(w, http.StatusOK, "Project updated", p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var p Project
	if err := db.DB.First(&p, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "Project not found")
		return
	}
	if !utils.OwnedBy(p.UserID, userID) {
		httpx.Fail(w, http.StatusForbidden, "Not authorized to delete this project")
		return
	}

	if err := db.DB.Delete(&p).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to delete project")
		return
	}

	if len(p.Images) > 0 {
		h.Files.Remove(r.Context(), p.Images...)
	}
	httpx.OK(w, http.StatusOK, "Project deleted", nil)
}
