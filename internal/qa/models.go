package qa

import (
	"time"

	"github.com/lib/pq"
)

type Record struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	UserID      string         `gorm:"index" json:"userId"`
	Title       string         `gorm:"not null" json:"title"`
	Type        string         `gorm:"not null" json:"type"` // manual or automation
	ToolsUsed   pq.StringArray `gorm:"type:text[]" json:"toolsUsed"`
	Description string         `json:"description"`
	ReportLink  string         `json:"reportLink"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (Record) TableName() string { return "portfolio.qa_records" }

func validType(t string) bool { return t == "manual" || t == "automation" }
