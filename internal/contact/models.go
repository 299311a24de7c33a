package contact

import "time"

type Message struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Message   string    `gorm:"not null" json:"message"`
	Status    string    `gorm:"default:'unread'" json:"status"` // unread or read
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Message) TableName() string { return "portfolio.contact_messages" }

func validStatus(s string) bool { return s == "unread" || s == "read" }
