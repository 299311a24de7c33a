package user

import (
	"github.com/devfolio/portfolio-backend/internal/db"
)

// RoleInfo satisfies middleware.RoleFetcher for the admin-gated routes.
type RoleInfo struct{}

func (RoleInfo) FindRoleByUserID(id string) (string, error) {
	var u User
	if err := db.DB.Select("role").First(&u, "id = ?", id).Error; err != nil {
		return "", err
	}
	return u.Role, nil
}
