package skill

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
)

type Handler struct {
	Tokens *token.Service
	Files  storage.Store
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var skills []Skill
	if err := db.DB.Find(&skills, "user_id = ?", userID).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch skills")
		return
	}
	httpx.OK(w, http.StatusOK, "Skills fetched", skills)
}

// publicSkill is the display shape the public site renders.
type publicSkill struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Level int    `json:"level"`
}

// Fixed per-category display hints for the frontend.
var categoryDisplay = map[string]publicSkill{
	"frontend": {Icon: "Code2", Level: 90},
	"backend":  {Icon: "Database", Level: 80},
	"qa":       {Icon: "Smartphone", Level: 75},
	"uiux":     {Icon: "Palette", Level: 85},
}

func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	var skills []Skill
	if err := db.DB.Select("name", "category").Find(&skills).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch skills")
		return
	}
	if len(skills) == 0 {
		httpx.Fail(w, http.StatusNotFound, "No skills found")
		return
	}

	formatted := make([]publicSkill, len(skills))
	for i, s := range skills {
		disp, ok := categoryDisplay[strings.ToLower(s.Category)]
		if !ok {
			disp = publicSkill{Icon: "Code2", Level: 70}
		}
		formatted[i] = publicSkill{Name: s.Name, Icon: disp.Icon, Level: disp.Level}
	}
	httpx.OK(w, http.StatusOK, "Public skills fetched successfully", formatted)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	var s Skill
	if err := db.DB.First(&s, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "Skill not found")
		return
	}
	httpx.OK(w, http.StatusOK, "Skill fetched", s)
}

type skillPatch struct {
	Name     *string `json:"name"`
	Level    *string `json:"level"`
	Category *string `json:"category"`
}

func decodePatch(r *http.Request) (skillPatch, error) {
	var p skillPatch
	if httpx.IsMultipart(r) {
		if err := r.ParseMultipartForm(storage.MaxFileSize + 1<<20); err != nil {
			return p, err
		}
		if v, ok := httpx.FormValue(r, "name"); ok {
			p.Name = &v
		}
		if v, ok := httpx.FormValue(r, "level"); ok {
			p.Level = &v
		}
		if v, ok := httpx.FormValue(r, "category"); ok {
			p.Category = &v
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
	if req.Name == nil || *req.Name == "" {
		httpx.Fail(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.Level != nil && !validLevel(*req.Level) {
		httpx.Fail(w, http.StatusBadRequest, "Level must be beginner, intermediate or expert")
		return
	}

	s := Skill{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   *req.Name,
	}
	if req.Level != nil {
		s.Level = *req.Level
	}
	if req.Category != nil {
		s.Category = *req.Category
	}

	if fh := storage.FormFile(r, "icon"); fh != nil {
		url, err := h.Files.Save(r.Context(), userID, fh, storage.KindImage)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "File upload error: "+err.Error())
			return
		}
		s.Icon = url
	}

	if err := db.DB.Create(&s).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to create skill")
		return
	}
	httpx.OK(w, http.StatusCreated, "Skill created", s)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var s Skill
	if err := db.DB.First(&s, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "Skill not found")
		return
	}
	if !utils.OwnedBy(s.UserID, userID) {
		httpx.Fail(w, http.StatusForbidden, "Not authorized to update this skill")
		return
	}

	req, err := decodePatch(r)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	updates := make(map[string]any)
	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.Level != nil && *req.Level != "" {
		if !validLevel(*req.Level) {
			httpx.Fail(w, http.StatusBadRequest, "Level must be beginner, intermediate or expert")
			return
		}
		updates["level"] = *req.Level
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}

	oldIcon := ""
	if fh := storage.FormFile(r, "icon"); fh != nil {
		url, err := h.Files.Save(r.Context(), userID, fh, storage.KindImage)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "File upload error: "+err.Error())
			return
		}
		oldIcon = s.Icon
		updates["icon"] = url
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&s).Updates(updates).Error; err != nil {
			httpx.Fail(w, http.StatusInternalServerError, "Failed to update skill")
			return
		}
	}

	if oldIcon != "" {
		h.Files.Remove(r.Context(), oldIcon)
	}

	if err := db.DB.First(&s, "id = ?", s.ID).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to update skill")
		return
	}
	httpx.OK(w, http.StatusOK, "Skill updated", s)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var s Skill
	if err := db.DB.First(&s, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "Skill not found")
		return
	}
	if !utils.OwnedBy(s.UserID, userID) {
		httpx.Fail(w, http.StatusForbidden, "Not authorized to delete this skill")
		return
	}

	if err := db.DB.Delete(&s).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to delete skill")
		return
	}

	if s.Icon != "" {
		h.Files.Remove(r.Context(), s.Icon)
	}
	httpx.OK(w, http.StatusOK, "Skill deleted", nil)
}
