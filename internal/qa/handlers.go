package qa

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

type Handler struct {
	Tokens *token.Service
	Files  storage.Store
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var records []Record
	if err := db.DB.Find(&records, "user_id = ?", userID).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch QA records")
		return
	}
	httpx.OK(w, http.StatusOK, "QA records fetched", records)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	var rec Record
	if err := db.DB.First(&rec, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "QA record not found")
		return
	}
	httpx.OK(w, http.StatusOK, "QA record fetched", rec)
}

type qaPatch struct {
	Title       *string          `json:"title"`
	Type        *string          `json:"type"`
	ToolsUsed   *utils.ListField `json:"toolsUsed"`
	Description *string          `json:"description"`
	ReportLink  *string          `json:"reportLink"`
}

func decodePatch(r *http.Request) (qaPatch, error) {
	var p qaPatch
	if httpx.IsMultipart(r) {
		if err := r.ParseMultipartForm(storage.MaxFileSize + 1<<20); err != nil {
			return p, err
		}
		if v, ok := httpx.FormValue(r, "title"); ok {
			p.Title = &v
		}
		if v, ok := httpx.FormValue(r, "type"); ok {
			p.Type = &v
		}
		if v, ok := httpx.FormValue(r, "toolsUsed"); ok {
			lf := utils.ListField(strings.Split(v, ","))
			p.ToolsUsed = &lf
		}
		if v, ok := httpx.FormValue(r, "description"); ok {
			p.Description = &v
		}
		if v, ok := httpx.FormValue(r, "reportLink"); ok {
			p.ReportLink = &v
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
	if req.Title == nil || *req.Title == "" || req.Type == nil || !validType(*req.Type) {
		httpx.Fail(w, http.StatusBadRequest, "Title and type (manual or automation) are required")
		return
	}

	rec := Record{
		ID:     uuid.New().String(),
		UserID: userID,
		Title:  *req.Title,
		Type:   *req.Type,
	}
	if req.ToolsUsed != nil {
		rec.ToolsUsed = req.ToolsUsed.Normalize()
	}
	if req.Description != nil {
		rec.Description = *req.Description
	}
	if req.ReportLink != nil {
		rec.ReportLink = *req.ReportLink
	}

	// An uploaded report takes precedence over a pasted link.
	if fh := storage.FormFile(r, "reportFile"); fh != nil {
		url, err := h.Files.Save(r.Context(), userID, fh, storage.KindDocument)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "File upload error: "+err.Error())
			return
		}
		rec.ReportLink = url
	}

	if err := db.DB.Create(&rec).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to create QA record")
		return
	}
	httpx.OK(w, http.StatusCreated, "QA record created", rec)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var rec Record
	if err := db.DB.First(&rec, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "QA record not found")
		return
	}
	if !utils.OwnedBy(rec.UserID, userID) {
		httpx.Fail(w, http.StatusForbidden, "Not authorized to update this QA record")
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
	if req.Type != nil && *req.Type != "" {
		if !validType(*req.Type) {
			httpx.Fail(w, http.StatusBadRequest, "Type must be manual or automation")
			return
		}
		updates["type"] = *req.Type
	}
	if req.ToolsUsed != nil {
		updates["tools_used"] = pq.StringArray(req.ToolsUsed.Normalize())
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ReportLink != nil && *req.ReportLink != "" {
		updates["report_link"] = *req.ReportLink
	}

	oldReport := ""
	if fh := storage.FormFile(r, "reportFile"); fh != nil {
		url, err := h.Files.Save(r.Context(), userID, fh, storage.KindDocument)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "File upload error: "+err.Error())
			return
		}
		oldReport = rec.ReportLink
		updates["report_link"] = url
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&rec).Updates(updates).Error; err != nil {
			httpx.Fail(w, http.StatusInternalServerError, "Failed to update QA record")
			return
		}
	}

	if oldReport != "" {
		h.Files.Remove(r.Context(), oldReport)
	}

	if err := db.DB.First(&rec, "id = ?", rec.ID).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to update QA record")
		return
	}
	httpx.OK(w, http.StatusOK, "QA record updated", rec)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var rec Record
	if err := db.DB.First(&rec, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "QA record not found")
		return
	}
	if !utils.OwnedBy(rec.UserID, userID) {
		httpx.Fail(w, http.StatusForbidden, "Not authorized to delete this QA record")
		return
	}

	if err := db.DB.Delete(&rec).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to delete QA record")
		return
	}

	if rec.ReportLink != "" {
		h.Files.Remove(r.Context(), rec.ReportLink)
	}
	httpx.OK(w, http.StatusOK, "QA record deleted", nil)
}
