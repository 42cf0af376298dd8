package models

import "time"

type Question struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Subject  string `gorm:"size:100;not null" json:"subject"`
	Content  string `gorm:"type:text;not null" json:"content"`
	AuthorID int    `json:"author_id"`
	User     User   `gorm:"foreignKey:AuthorID" json:"user"`

	// Answers are owned by the question; deleting the question removes them.
	Answers []Answer `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type QuestionRequest struct {
	Subject string `json:"subject" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type QuestionList struct {
	Total int64      `json:"total"`
	Items []Question `json:"items"`
}
