package blog

import (
	"time"

	"github.com/lib/pq"
)

type Blog struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Content     string         `gorm:"not null" json:"content"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	AuthorID    string         `gorm:"index" json:"authorId"`
	PublishedAt time.Time      `json:"publishedAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (Blog) TableName() string { return "portfolio.blogs" }
