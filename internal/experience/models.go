package experience

import (
	"time"

	"github.com/lib/pq"
)

type Experience struct {
	ID           string         `gorm:"primaryKey" json:"id"`
	UserID       string         `gorm:"index" json:"userId"`
	CompanyName  string         `gorm:"not null" json:"companyName"`
	Role         string         `gorm:"not null" json:"role"`
	Duration     string         `json:"duration"`
	Description  string         `json:"description"`
	Technologies pq.StringArray `gorm:"type:text[]" json:"technologies"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (Experience) TableName() string { return "portfolio.experiences" }
