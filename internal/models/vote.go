package models

import "time"

// QuestionVote records that a user voted on a question. One row per
// (user, question); the composite unique index is what actually enforces
// vote-once-per-user under concurrent inserts.
type QuestionVote struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	UserID     int       `gorm:"not null;uniqueIndex:idx_question_voter" json:"user_id"`
	QuestionID int       `gorm:"not null;uniqueIndex:idx_question_voter" json:"question_id"`
	Question   Question  `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// AnswerVote is the same membership fact for answers.
type AnswerVote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_answer_voter" json:"user_id"`
	AnswerID  int       `gorm:"not null;uniqueIndex:idx_answer_voter" json:"answer_id"`
	Answer    Answer    `gorm:"foreignKey:AnswerID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
