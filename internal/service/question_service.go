package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"qna-service/internal/models"
)

type QuestionService interface {
	Create(ctx context.Context, authorID int, req *models.QuestionRequest) (*models.Question, error)
	List(ctx context.Context, page, size int) (int64, []models.Question, error)
	Get(ctx context.Context, id int) (*models.Question, error)
	Update(ctx context.Context, id, userID int, req *models.QuestionRequest) (*models.Question, error)
	Delete(ctx context.Context, id, userID int) error
	Vote(ctx context.Context, id, userID int) (VoteOutcome, error)
	CountVotes(ctx context.Context, id int) (int64, error)
}

type questionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) QuestionService {
	return &questionService{db: db}
}

func (s *questionService) Create(ctx context.Context, authorID int, req *models.QuestionRequest) (*models.Question, error) {
	subject := strings.TrimSpace(req.Subject)
	content := strings.TrimSpace(req.Content)
	if subject == "" || content == "" {
		return nil, ErrEmptyField
	}

	question := &models.Question{
		Subject:  subject,
		Content:  content,
		AuthorID: authorID,
	}
	if err := s.db.WithContext(ctx).Create(question).Error; err != nil {
		return nil, err
	}

	s.db.WithContext(ctx).Preload("User").First(question, question.ID)
	return question, nil
}

// List returns a page of questions, newest first, along with the total count.
func (s *questionService) List(ctx context.Context, page, size int) (int64, []models.Question, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Question{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var questions []models.Question
	err := s.db.WithContext(ctx).
		Preload("User").
		Order("created_at desc").
		Offset((page - 1) * size).
		Limit(size).
		Find(&questions).Error
	if err != nil {
		return 0, nil, err
	}
	return total, questions, nil
}

func (s *questionService) Get(ctx context.Context, id int) (*models.Question, error) {
	var question models.Question
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Answers").
		Preload("Answers.User").
		First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// Update applies the ownership guard: absent resource, then author check,
// then the mutation.
func (s *questionService) Update(ctx context.Context, id, userID int, req *models.QuestionRequest) (*models.Question, error) {
	var question models.Question
	if err := s.db.WithContext(ctx).First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if question.AuthorID != userID {
		return nil, ErrForbidden
	}

	subject := strings.TrimSpace(req.Subject)
	content := strings.TrimSpace(req.Content)
	if subject == "" || content == "" {
		return nil, ErrEmptyField
	}

	question.Subject = subject
	question.Content = content
	if err := s.db.WithContext(ctx).Save(&question).Error; err != nil {
		return nil, err
	}

	s.db.WithContext(ctx).Preload("User").First(&question, question.ID)
	return &question, nil
}

func (s *questionService) Delete(ctx context.Context, id, userID int) error {
	var question models.Question
	if err := s.db.WithContext(ctx).First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if question.AuthorID != userID {
		return ErrForbidden
	}

	// Answers and vote rows go with it via the FK cascades.
	return s.db.WithContext(ctx).Delete(&question).Error
}

// Vote records at most one vote per (user, question). The membership row is
// inserted directly, never through the question's collections; a concurrent
// duplicate insert fails the unique index and is reported as VoteAlreadyCast.
func (s *questionService) Vote(ctx context.Context, id, userID int) (VoteOutcome, error) {
	var question models.Question
	if err := s.db.WithContext(ctx).First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	if question.AuthorID == userID {
		return VoteSelfRejected, nil
	}

	var existing models.QuestionVote
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, id).
		First(&existing).Error
	if err == nil {
		return VoteAlreadyCast, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	vote := models.QuestionVote{UserID: userID, QuestionID: id}
	if err := s.db.WithContext(ctx).Create(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return VoteAlreadyCast, nil
		}
		return 0, err
	}
	return VoteRecorded, nil
}

func (s *questionService) CountVotes(ctx context.Context, id int) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.QuestionVote{}).
		Where("question_id = ?", id).
		Count(&count).Error
	return count, err
}
