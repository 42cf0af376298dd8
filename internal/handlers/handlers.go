package handlers

import (
	"gorm.io/gorm"

	"qna-service/internal/auth"
	"qna-service/internal/service"
	"qna-service/internal/storage"
)

// Handler combines all handler types
type Handler struct {
	Auth     *AuthHandler
	Question *QuestionHandler
	Answer   *AnswerHandler

	Users service.UserService
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, tokens *auth.Manager, avatars *storage.AvatarStore) *Handler {
	users := service.NewUserService(db)
	questions := service.NewQuestionService(db)
	answers := service.NewAnswerService(db)

	return &Handler{
		Auth:     NewAuthHandler(users, tokens, avatars),
		Question: NewQuestionHandler(questions, answers),
		Answer:   NewAnswerHandler(answers),
		Users:    users,
	}
}
