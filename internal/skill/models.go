package skill

import "time"

type Skill struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index" json:"userId"`
	Name      string    `gorm:"not null" json:"name"`
	Level     string    `json:"level"`
	Category  string    `json:"category"` // frontend / backend / qa
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Skill) TableName() string { return "portfolio.skills" }

func validLevel(l string) bool {
	return l == "" || l == "beginner" || l == "intermediate" || l == "expert"
}
