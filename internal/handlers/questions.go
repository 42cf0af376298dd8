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

type QuestionHandler struct {
	questions service.QuestionService
	answers   service.AnswerService
}

func NewQuestionHandler(questions service.QuestionService, answers service.AnswerService) *QuestionHandler {
	return &QuestionHandler{questions: questions, answers: answers}
}

// GetQuestions returns a page of questions, newest first
// @Summary      List questions
// @Tags         questions
// @Produce      json
// @Param        page query int false "page number" default(1)
// @Param        size query int false "page size" default(10)
// @Success      200 {object} models.QuestionList
// @Router       /questions [get]
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	total, questions, err := h.questions.List(c.Request.Context(), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch questions"})
		return
	}

	items := make([]gin.H, 0, len(questions))
	for _, q := range questions {
		votes, _ := h.questions.CountVotes(c.Request.Context(), q.ID)
		items = append(items, gin.H{
			"id":         q.ID,
			"subject":    q.Subject,
			"content":    q.Content,
			"author_id":  q.AuthorID,
			"user":       q.User,
			"votes":      votes,
			"created_at": q.CreatedAt,
			"updated_at": q.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"total": total, "items": items})
}

// GetQuestion returns a single question with its answers
// @Summary      Question detail
// @Tags         questions
// @Produce      json
// @Param        id path int true "question id"
// @Success      200 {object} models.Question
// @Failure      404 {object} map[string]string
// @Router       /questions/{id} [get]
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	question, err := h.questions.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch question"})
		return
	}

	votes, _ := h.questions.CountVotes(c.Request.Context(), question.ID)
	answers := make([]gin.H, 0, len(question.Answers))
	for _, a := range question.Answers {
		answerVotes, _ := h.answers.CountVotes(c.Request.Context(), a.ID)
		answers = append(answers, gin.H{
			"id":         a.ID,
			"content":    a.Content,
			"author_id":  a.AuthorID,
			"user":       a.User,
			"votes":      answerVotes,
			"created_at": a.CreatedAt,
			"updated_at": a.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         question.ID,
		"subject":    question.Subject,
		"content":    question.Content,
		"author_id":  question.AuthorID,
		"user":       question.User,
		"votes":      votes,
		"answers":    answers,
		"created_at": question.CreatedAt,
		"updated_at": question.UpdatedAt,
	})
}

// CreateQuestion creates a new question (PROTECTED)
// @Summary      Create a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.QuestionRequest true "question"
// @Success      201 {object} models.Question
// @Failure      400 {object} map[string]string
// @Router       /questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var input models.QuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.questions.Create(c.Request.Context(), user.ID, &input)
	if err != nil {
		if errors.Is(err, service.ErrEmptyField) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Subject and content must not be blank"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create question"})
		return
	}

	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion updates an existing question (PROTECTED - requires ownership)
// @Summary      Update a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "question id"
// @Param        request body models.QuestionRequest true "question"
// @Success      200 {object} models.Question
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	var input models.QuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.questions.Update(c.Request.Context(), id, user.ID, &input)
	if err != nil {
		writeMutationError(c, err, "question")
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion deletes a question and its answers (PROTECTED - requires ownership)
// @Summary      Delete a question
// @Tags         questions
// @Security     BearerAuth
// @Param        id path int true "question id"
// @Success      204
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	if err := h.questions.Delete(c.Request.Context(), id, user.ID); err != nil {
		writeMutationError(c, err, "question")
		return
	}

	c.Status(http.StatusNoContent)
}

// VoteQuestion records the caller's vote (PROTECTED)
// @Summary      Vote on a question
// @Tags         questions
// @Security     BearerAuth
// @Param        id path int true "question id"
// @Success      204
// @Failure      400 {object} map[string]string
// @Router       /questions/{id}/vote [post]
func (h *QuestionHandler) VoteQuestion(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question not found"})
		return
	}

	outcome, err := h.questions.Vote(c.Request.Context(), id, user.ID)
	writeVoteResult(c, outcome, err)
}

// writeMutationError maps ownership-guard outcomes for update/delete.
// Ownership mismatch is 403 for both operations.
func writeMutationError(c *gin.Context, err error, resource string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only modify your own " + resource + "s"})
	case errors.Is(err, service.ErrEmptyField):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Required fields must not be blank"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to modify " + resource})
	}
}

// writeVoteResult maps vote-ledger outcomes. A duplicate vote is a no-op and
// answers exactly like a recorded one; a missing target is a soft 400.
func writeVoteResult(c *gin.Context, outcome service.VoteOutcome, err error) {
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Resource not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record vote"})
		return
	}

	if outcome == service.VoteSelfRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot vote on your own post"})
		return
	}

	c.Status(http.StatusNoContent)
}
