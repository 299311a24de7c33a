package testimonial

import (
	"net/http"
	"strconv"

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

	var testimonials []Testimonial
	if err := db.DB.Find(&testimonials, "user_id = ?", userID).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch testimonials")
		return
	}
	httpx.OK(w, http.StatusOK, "Testimonials fetched", testimonials)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	var t Testimonial
	if err := db.DB.First(&t, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "Testimonial not found")
		return
	}
	httpx.OK(w, http.StatusOK, "Testimonial fetched", t)
}

type testimonialPatch struct {
	Name        *string `json:"name"`
	Designation *string `json:"designation"`
	Company     *string `json:"company"`
	Feedback    *string `json:"feedback"`
	Rating      *int    `json:"rating"`
}

func decodePatch(r *http.Request) (testimonialPatch, error) {
	var p testimonialPatch
	if httpx.IsMultipart(r) {
		if err := r.ParseMultipartForm(storage.MaxFileSize + 1<<20); err != nil {
			return p, err
		}
		if v, ok := httpx.FormValue(r, "name"); ok {
			p.Name = &v
		}
		if v, ok := httpx.FormValue(r, "designation"); ok {
			p.Designation = &v
		}
		if v, ok := httpx.FormValue(r, "company"); ok {
			p.Company = &v
		}
		if v, ok := httpx.FormValue(r, "feedback"); ok {
			p.Feedback = &v
		}
		if v, ok := httpx.FormValue(r, "rating"); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return p, err
			}
			p.Rating = &n
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
	if req.Name == nil || *req.Name == "" || req.Feedback == nil || *req.Feedback == "" {
		httpx.Fail(w, http.StatusBadRequest, "Name and feedback are required")
		return
	}
	if req.Rating != nil && !validRating(*req.Rating) {
		httpx.Fail(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	t := Testimonial{
		ID:       uuid.New().String(),
		UserID:   userID,
		Name:     *req.Name,
		Feedback: *req.Feedback,
	}
	if req.Designation != nil {
		t.Designation = *req.Designation
	}
	if req.Company != nil {
		t.Company = *req.Company
	}
	if req.Rating != nil {
		t.Rating = *req.Rating
	}

	if fh := storage.FormFile(r, "image"); fh != nil {
		url, err := h.Files.Save(r.Context(), userID, fh, storage.KindImage)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "File upload error: "+err.Error())
			return
		}
		t.Image = url
	}

	if err := db.DB.Create(&t).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to create testimonial")
		return
	}
	httpx.OK(w, http.StatusCreated, "Testimonial created", t)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var t Testimonial
	if err := db.DB.First(&t, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "Testimonial not found")
		return
	}
	if !utils.OwnedBy(t.UserID, userID) {
		httpx.Fail(w, http.StatusForbidden, "Not authorized to update this testimonial")
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
	if req.Designation != nil {
		updates["designation"] = *req.Designation
	}
	if req.Company != nil {
		updates["company"] = *req.Company
	}
	if req.Feedback != nil && *req.Feedback != "" {
		updates["feedback"] = *req.Feedback
	}
	if req.Rating != nil {
		if !validRating(*req.Rating) {
			httpx.Fail(w, http.StatusBadRequest, "Rating must be between 1 and 5")
			return
		}
		updates["rating"] = *req.Rating
	}

	oldImage := ""
	if fh := storage.FormFile(r, "image"); fh != nil {
		url, err := h.Files.Save(r.Context(), userID, fh, storage.KindImage)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "File upload error: "+err.Error())
			return
		}
		oldImage = t.Image
		updates["image"] = url
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&t).Updates(updates).Error; err != nil {
			httpx.Fail(w, http.StatusInternalServerError, "Failed to update testimonial")
			return
		}
	}

	if oldImage != "" {
		h.Files.Remove(r.Context(), oldImage)
	}

	if err := db.DB.First(&t, "id = ?", t.ID).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to update testimonial")
		return
	}
	httpx.OK(w, http.StatusOK, "Testimonial updated", t)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var t Testimonial
	if err := db.DB.First(&t, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "Testimonial not found")
		return
	}
	if !utils.OwnedBy(t.UserID, userID) {
		httpx.Fail(w, http.StatusForbidden, "Not authorized to delete this testimonial")
		return
	}

	if err := db.DB.Delete(&t).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to delete testimonial")
		return
	}

	if t.Image != "" {
		h.Files.Remove(r.Context(), t.Image)
	}
	httpx.OK(w, http.StatusOK, "Testimonial deleted", nil)
}
