package user

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/devfolio/portfolio-backend/internal/db"
	"github.com/devfolio/portfolio-backend/internal/httpx"
	"github.com/devfolio/portfolio-backend/internal/storage"
	"github.com/devfolio/portfolio-backend/internal/token"
	"github.com/devfolio/portfolio-backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Handler carries the process-wide collaborators; constructed once in main.
type Handler struct {
	Tokens *token.Service
	Files  storage.Store
}

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// decodeCredentials reads name/email/password from either a JSON body or a
// multipart form (registration accepts an avatar upload alongside).
func decodeCredentials(r *http.Request) (credentials, error) {
	var c credentials
	if httpx.IsMultipart(r) {
		if err := r.ParseMultipartForm(storage.MaxFileSize + 1<<20); err != nil {
			return c, err
		}
		c.Name = r.FormValue("name")
		c.Email = r.FormValue("email")
		c.Password = r.FormValue("password")
		return c, nil
	}
	return c, httpx.Decode(r, &c)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(r)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		httpx.Fail(w, http.StatusBadRequest, "All fields are required")
		return
	}

	// Friendly pre-check; the unique index on email is what actually
	// guarantees no duplicates under concurrent registration.
	var existing User
	if err := db.DB.First(&existing, "email = ?", req.Email).Error; err == nil {
		httpx.Fail(w, http.StatusConflict, "User already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	u := User{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: string(hashed),
	}

	if fh := storage.FormFile(r, "profilePicture"); fh != nil {
		url, err := h.Files.Save(r.Context(), u.ID, fh, storage.KindImage)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "File upload error: "+err.Error())
			return
		}
		u.ProfilePicture = url
	}

	if err := db.DB.Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httpx.Fail(w, http.StatusConflict, "User already exists")
			return
		}
		httpx.Fail(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	tok, err := h.Tokens.Issue(u.ID)
	if err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	httpx.OK(w, http.StatusCreated, "User registered successfully", map[string]any{
		"user":  toProfile(u),
		"token": tok,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.Fail(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	var u User
	if err := db.DB.First(&u, "email = ?", req.Email).Error; err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(req.Password)); err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tok, err := h.Tokens.Issue(u.ID)
	if err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	httpx.OK(w, http.StatusOK, "Login successful", map[string]any{
		"user":  toProfile(u),
		"token": tok,
	})
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := httpx.Decode(r, &req); err != nil || req.Email == "" {
		httpx.Fail(w, http.StatusBadRequest, "Email is required")
		return
	}

	// Revealing whether the email exists is a known information leak, kept
	// for the admin frontend that depends on the distinction.
	var u User
	if err := db.DB.First(&u, "email = ?", req.Email).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "User not found")
		return
	}

	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to generate reset token")
		return
	}
	resetToken := hex.EncodeToString(raw)
	sum := sha256.Sum256([]byte(resetToken))
	expires := time.Now().Add(time.Hour)

	// Issuing a new ticket overwrites any prior one: at most one active
	// ticket per user.
	err := db.DB.Model(&u).Updates(map[string]any{
		"reset_token_hash": hex.EncodeToString(sum[:]),
		"reset_expires_at": expires,
	}).Error
	if err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to save reset token")
		return
	}

	// In a real deployment the token goes out by email; returned here for
	// simplicity, matching the frontend contract.
	httpx.OK(w, http.StatusOK, "Reset token generated", map[string]string{"resetToken": resetToken})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := httpx.Decode(r, &req); err != nil || req.Password == "" {
		httpx.Fail(w, http.StatusBadRequest, "Password is required")
		return
	}

	sum := sha256.Sum256([]byte(chi.URLParam(r, "token")))

	var u User
	err := db.DB.First(&u, "reset_token_hash = ? AND reset_expires_at > ?",
		hex.EncodeToString(sum[:]), time.Now()).Error
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid or expired token")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	// The ticket is consumed in the same update that changes the password.
	err = db.DB.Model(&u).Updates(map[string]any{
		"hashed_password":  string(hashed),
		"reset_token_hash": "",
		"reset_expires_at": nil,
	}).Error
	if err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	httpx.OK(w, http.StatusOK, "Password reset successful", nil)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var u User
	if err := db.DB.First(&u, "id = ?", userID).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "User not found")
		return
	}

	httpx.OK(w, http.StatusOK, "User profile fetched", toProfile(u))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var u User
	if err := db.DB.First(&u, "id = ?", userID).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "User not found")
		return
	}

	req, err := decodeCredentials(r)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	updates := make(map[string]any)
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}

	oldAvatar := ""
	if fh := storage.FormFile(r, "profilePicture"); fh != nil {
		url, err := h.Files.Save(r.Context(), u.ID, fh, storage.KindImage)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "File upload error: "+err.Error())
			return
		}
		oldAvatar = u.ProfilePicture
		updates["profile_picture"] = url
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&u).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				httpx.Fail(w, http.StatusConflict, "Email already in use")
				return
			}
			httpx.Fail(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
	}

	if oldAvatar != "" {
		h.Files.Remove(r.Context(), oldAvatar)
	}

	if err := db.DB.First(&u, "id = ?", u.ID).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	httpx.OK(w, http.StatusOK, "Profile updated", toProfile(u))
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		httpx.Fail(w, http.StatusBadRequest, "All password fields are required")
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		httpx.Fail(w, http.StatusBadRequest, "New passwords do not match")
		return
	}
	if err := ValidatePassword(req.NewPassword); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	var u User
	if err := db.DB.First(&u, "id = ?", userID).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "User not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(req.CurrentPassword)); err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to update password")
		return
	}
	if err := db.DB.Model(&u).Update("hashed_password", string(hashed)).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	httpx.OK(w, http.StatusOK, "Password updated successfully", nil)
}

// Create is the admin-style variant of Register: no token is minted.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(r)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		httpx.Fail(w, http.StatusBadRequest, "All fields are required")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	u := User{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: string(hashed),
	}

	if fh := storage.FormFile(r, "profilePicture"); fh != nil {
		url, err := h.Files.Save(r.Context(), u.ID, fh, storage.KindImage)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "File upload error: "+err.Error())
			return
		}
		u.ProfilePicture = url
	}

	if err := db.DB.Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httpx.Fail(w, http.StatusConflict, "User already exists")
			return
		}
		httpx.Fail(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	httpx.OK(w, http.StatusCreated, "User created successfully", toProfile(u))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var u User
	if err := db.DB.First(&u, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "User not found")
		return
	}

	req, err := decodeCredentials(r)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	updates := make(map[string]any)
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			httpx.Fail(w, http.StatusInternalServerError, "Failed to update user")
			return
		}
		updates["hashed_password"] = string(hashed)
	}

	oldAvatar := ""
	if fh := storage.FormFile(r, "profilePicture"); fh != nil {
		url, err := h.Files.Save(r.Context(), u.ID, fh, storage.KindImage)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "File upload error: "+err.Error())
			return
		}
		oldAvatar = u.ProfilePicture
		updates["profile_picture"] = url
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&u).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				httpx.Fail(w, http.StatusConflict, "Email already in use")
				return
			}
			httpx.Fail(w, http.StatusInternalServerError, "Failed to update user")
			return
		}
	}

	if oldAvatar != "" {
		h.Files.Remove(r.Context(), oldAvatar)
	}

	if err := db.DB.First(&u, "id = ?", u.ID).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	httpx.OK(w, http.StatusOK, "User updated successfully", toProfile(u))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var u User
	if err := db.DB.First(&u, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "User not found")
		return
	}

	if err := db.DB.Delete(&u).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	if u.ProfilePicture != "" {
		h.Files.Remove(r.Context(), u.ProfilePicture)
	}

	httpx.OK(w, http.StatusOK, "User deleted successfully", nil)
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	var users []User
	if err := db.DB.Find(&users).Error; err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	if len(users) == 0 {
		httpx.Fail(w, http.StatusNotFound, "No users found")
		return
	}

	profiles := make([]profile, len(users))
	for i, u := range users {
		profiles[i] = toProfile(u)
	}
	httpx.OK(w, http.StatusOK, "Users fetched successfully", profiles)
}
