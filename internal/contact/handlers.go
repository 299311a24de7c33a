package contact

import (
	"net/http"
	"strings"

	"github.com/devfolio/portfolio-backend/internal/db"
	"github.com/devfolio/portfolio-backend/internal/httpx"
	"github.com/devfolio/portfolio-backend/internal/token"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	Tokens *token.Service
}

type createRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		httpx.Fail(w, http.StatusBadRequest, "Name, email and message are required")
		return
	}

	msg := Message{
		ID:      uuid.New().String(),
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
		Status:  "unread",
	}
	if err := db.DB.Create(&msg).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to send message")
		return
	}
	httpx.OK(w, http.StatusCreated, "Message sent successfully", msg)
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	var msgs []Message
	if err := db.DB.Order("created_at DESC").Find(&msgs).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}
	httpx.OK(w, http.StatusOK, "Messages fetched", msgs)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	var msg Message
	if err := db.DB.First(&msg, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "Message not found")
		return
	}
	httpx.OK(w, http.StatusOK, "Message fetched", msg)
}

type updateRequest struct {
	Status string `json:"status"`
}

// Update only transitions the read status; message content is immutable.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var msg Message
	if err := db.DB.First(&msg, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "Message not found")
		return
	}

	var req updateRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if !validStatus(req.Status) {
		httpx.Fail(w, http.StatusBadRequest, "Status must be unread or read")
		return
	}

	if err := db.DB.Model(&msg).Update("status", req.Status).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to update message")
		return
	}

	if err := db.DB.First(&msg, "id = ?", msg.ID).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to update message")
		return
	}
	httpx.OK(w, http.StatusOK, "Message updated", msg)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var msg Message
	if err := db.DB.First(&msg, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "Message not found")
		return
	}

	if err := db.DB.Delete(&msg).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to delete message")
		return
	}
	httpx.OK(w, http.StatusOK, "Message deleted", nil)
}
