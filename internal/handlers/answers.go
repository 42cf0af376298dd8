package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"qna-service/internal/middleware"
	"qna-service/internal/models"
	"qna-service/internal/service"
)

type AnswerHandler struct {
	answers service.AnswerService
}

func NewAnswerHandler(answers service.AnswerService) *AnswerHandler {
	return &AnswerHandler{answers: answers}
}

// CreateAnswer posts an answer to a question (PROTECTED)
// @Summary      Answer a question
// @Tags         answers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "question id"
// @Param        request body models.AnswerRequest true "answer"
// @Success      201 {object} models.Answer
// @Failure      404 {object} map[string]string
// @Router       /questions/{id}/answers [post]
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	questionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	var input models.AnswerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.answers.Create(c.Request.Context(), questionID, user.ID, &input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		case errors.Is(err, service.ErrEmptyField):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Content must not be blank"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create answer"})
		}
		return
	}

	c.JSON(http.StatusCreated, answer)
}

// GetAnswer returns a single answer by ID
// @Summary      Answer detail
// @Tags         answers
// @Produce      json
// @Param        id path int true "answer id"
// @Success      200 {object} models.Answer
// @Failure      404 {object} map[string]string
// @Router       /answers/{id} [get]
func (h *AnswerHandler) GetAnswer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	answer, err := h.answers.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch answer"})
		return
	}

	votes, _ := h.answers.CountVotes(c.Request.Context(), answer.ID)
	c.JSON(http.StatusOK, gin.H{
		"id":          answer.ID,
		"content":     answer.Content,
		"question_id": answer.QuestionID,
		"author_id":   answer.AuthorID,
		"user":        answer.User,
		"votes":       votes,
		"created_at":  answer.CreatedAt,
		"updated_at":  answer.UpdatedAt,
	})
}

// UpdateAnswer updates an answer (PROTECTED - requires ownership)
// @Summary      Update an answer
// @Tags         answers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "answer id"
// @Param        request body models.AnswerRequest true "answer"
// @Success      200 {object} models.Answer
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /answers/{id} [put]
func (h *AnswerHandler) UpdateAnswer(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	var input models.AnswerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.answers.Update(c.Request.Context(), id, user.ID, &input)
	if err != nil {
		writeMutationError(c, err, "answer")
		return
	}

	c.JSON(http.StatusOK, answer)
}

// DeleteAnswer deletes an answer (PROTECTED - requires ownership)
// @Summary      Delete an answer
// @Tags         answers
// @Security     BearerAuth
// @Param        id path int true "answer id"
// @Success      204
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /answers/{id} [delete]
func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	if err := h.answers.Delete(c.Request.Context(), id, user.ID); err != nil {
		writeMutationError(c, err, "answer")
		return
	}

	c.Status(http.StatusNoContent)
}

// VoteAnswer records the caller's vote (PROTECTED)
// @Summary      Vote on an answer
// @Tags         answers
// @Security     BearerAuth
// @Param        id path int true "answer id"
// @Success      204
// @Failure      400 {object} map[string]string
// @Router       /answers/{id}/vote [post]
func (h *AnswerHandler) VoteAnswer(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Answer not found"})
		return
	}

	outcome, err := h.answers.Vote(c.Request.Context(), id, user.ID)
	writeVoteResult(c, outcome, err)
}
