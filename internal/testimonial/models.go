package testimonial

import "time"

type Testimonial struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"index" json:"userId"`
	Name        string    `gorm:"not null" json:"name"`
	Designation string    `json:"designation"`
	Company     string    `json:"company"`
	Feedback    string    `gorm:"not null" json:"feedback"`
	Rating      int       `json:"rating"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Testimonial) TableName() string { return "portfolio.testimonials" }

func validRating(r int) bool { return r >= 1 && r <= 5 }
