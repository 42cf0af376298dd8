package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"qna-service/internal/models"
)

type AnswerService interface {
	Create(ctx context.Context, questionID, authorID int, req *models.AnswerRequest) (*models.Answer, error)
	Get(ctx context.Context, id int) (*models.Answer, error)
	Update(ctx context.Context, id, userID int, req *models.AnswerRequest) (*models.Answer, error)
	Delete(ctx context.Context, id, userID int) error
	Vote(ctx context.Context, id, userID int) (VoteOutcome, error)
	CountVotes(ctx context.Context, id int) (int64, error)
}

type answerService struct {
	db *gorm.DB
}

func NewAnswerService(db *gorm.DB) AnswerService {
	return &answerService{db: db}
}

func (s *answerService) Create(ctx context.Context, questionID, authorID int, req *models.AnswerRequest) (*models.Answer, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyField
	}

	// An answer cannot exist without its parent question.
	var question models.Question
	if err := s.db.WithContext(ctx).First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	answer := &models.Answer{
		Content:    content,
		QuestionID: question.ID,
		AuthorID:   authorID,
	}
	if err := s.db.WithContext(ctx).Create(answer).Error; err != nil {
		return nil, err
	}

	s.db.WithContext(ctx).Preload("User").First(answer, answer.ID)
	return answer, nil
}

func (s *answerService) Get(ctx context.Context, id int) (*models.Answer, error) {
	var answer models.Answer
	if err := s.db.WithContext(ctx).Preload("User").First(&answer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &answer, nil
}

func (s *answerService) Update(ctx context.Context, id, userID int, req *models.AnswerRequest) (*models.Answer, error) {
	var answer models.Answer
	if err := s.db.WithContext(ctx).First(&answer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if answer.AuthorID != userID {
		return nil, ErrForbidden
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyField
	}

	answer.Content = content
	if err := s.db.WithContext(ctx).Save(&answer).Error; err != nil {
		return nil, err
	}

	s.db.WithContext(ctx).Preload("User").First(&answer, answer.ID)
	return &answer, nil
}

func (s *answerService) Delete(ctx context.Context, id, userID int) error {
	var answer models.Answer
	if err := s.db.WithContext(ctx).First(&answer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if answer.AuthorID != userID {
		return ErrForbidden
	}

	return s.db.WithContext(ctx).Delete(&answer).Error
}

func (s *answerService) Vote(ctx context.Context, id, userID int) (VoteOutcome, error) {
	var answer models.Answer
	if err := s.db.WithContext(ctx).First(&answer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	if answer.AuthorID == userID {
		return VoteSelfRejected, nil
	}

	var existing models.AnswerVote
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND answer_id = ?", userID, id).
		First(&existing).Error
	if err == nil {
		return VoteAlreadyCast, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	vote := models.AnswerVote{UserID: userID, AnswerID: id}
	if err := s.db.WithContext(ctx).Create(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return VoteAlreadyCast, nil
		}
		return 0, err
	}
	return VoteRecorded, nil
}

func (s *answerService) CountVotes(ctx context.Context, id int) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.AnswerVote{}).
		Where("answer_id = ?", id).
		Count(&count).Error
	return count, err
}
