package project

import (
	"time"

	"github.com/lib/pq"
)

type Project struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	UserID      string         `gorm:"index" json:"userId"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	TechStack   pq.StringArray `gorm:"type:text[]" json:"techStack"`
	GithubLink  string         `json:"githubLink"`
	LiveLink    string         `json:"liveLink"`
	Images      pq.StringArray `gorm:"type:text[]" json:"images"`
	Status      string         `gorm:"default:'active'" json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (Project) TableName() string { return "portfolio.projects" }

func validStatus(s string) bool {
	return s == "" || s == "active" || s == "archived"
}
