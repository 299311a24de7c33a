package experience

import (
	"net/http"

	"github.com/devfolio/portfolio-backend/internal/db"
	"github.com/devfolio/portfolio-backend/internal/httpx"
	"github.com/devfolio/portfolio-backend/internal/token"
	"github.com/devfolio/portfolio-backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Handler struct {
	Tokens *token.Service
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var experiences []Experience
	if err := db.DB.Find(&experiences, "user_id = ?", userID).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch experiences")
		return
	}
	httpx.OK(w, http.StatusOK, "Experiences fetched", experiences)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	var e Experience
	if err := db.DB.First(&e, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "Experience not found")
		return
	}
	httpx.OK(w, http.StatusOK, "Experience fetched", e)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req struct {
		CompanyName  string          `json:"companyName"`
		Role         string          `json:"role"`
		Duration     string          `json:"duration"`
		Description  string          `json:"description"`
		Technologies utils.ListField `json:"technologies"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.CompanyName == "" || req.Role == "" {
		httpx.Fail(w, http.StatusBadRequest, "Company name and role are required")
		return
	}

	e := Experience{
		ID:           uuid.New().String(),
		UserID:       userID,
		CompanyName:  req.CompanyName,
		Role:         req.Role,
		Duration:     req.Duration,
		Description:  req.Description,
		Technologies: req.Technologies.Normalize(),
	}
	if err := db.DB.Create(&e).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to create experience")
		return
	}
	httpx.OK(w, http.StatusCreated, "Experience created", e)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var e Experience
	if err := db.DB.First(&e, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "Experience not found")
		return
	}
	if !utils.OwnedBy(e.UserID, userID) {
		httpx.Fail(w, http.StatusForbidden, "Not authorized to update this experience")
		return
	}

	var req struct {
		CompanyName  *string          `json:"companyName"`
		Role         *string          `json:"role"`
		Duration     *string          `json:"duration"`
		Description  *string          `json:"description"`
		Technologies *utils.ListField `json:"technologies"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	updates := make(map[string]any)
	if req.CompanyName != nil && *req.CompanyName != "" {
		updates["company_name"] = *req.CompanyName
	}
	if req.Role != nil && *req.Role != "" {
		updates["role"] = *req.Role
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Technologies != nil {
		updates["technologies"] = pq.StringArray(req.Technologies.Normalize())
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&e).Updates(updates).Error; err != nil {
			httpx.Fail(w, http.StatusInternalServerError, "Failed to update experience")
			return
		}
	}

	if err := db.DB.First(&e, "id = ?", e.ID).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to update experience")
		return
	}
	httpx.OK(w, http.StatusOK, "Experience updated", e)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var e Experience
	if err := db.DB.First(&e, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "Experience not found")
		return
	}
	if !utils.OwnedBy(e.UserID, userID) {
		httpx.Fail(w, http.StatusForbidden, "Not authorized to delete this experience")
		return
	}

	if err := db.DB.Delete(&e).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to delete experience")
		return
	}
	httpx.OK(w, http.StatusOK, "Experience deleted", nil)
}
