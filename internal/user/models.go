package user

import "time"

type User struct {
	ID             string     `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"not null" json:"name"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string     `json:"-"`
	Role           string     `gorm:"default:'user'" json:"role"`
	ProfilePicture string     `json:"profilePicture"`
	ResetTokenHash string     `gorm:"index" json:"-"`
	ResetExpiresAt *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (User) TableName() string { return "app_auth.users" }

// profile is the client-facing shape; the hash and reset-ticket fields never
// leave the package.
type profile struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture"`
}

func toProfile(u User) profile {
	return profile{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
	}
}
