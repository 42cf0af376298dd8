package service

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"qna-service/internal/database"
	"qna-service/internal/models"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	pg, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("qna_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err == nil {
		dsn, dsnErr := pg.ConnectionString(ctx, "sslmode=disable")
		if dsnErr == nil {
			db, openErr := gorm.Open(postgres.Open(dsn), &gorm.Config{
				Logger:         logger.Default.LogMode(logger.Silent),
				TranslateError: true,
			})
			if openErr == nil && database.Migrate(db) == nil {
				testDB = db
			}
		}
	}

	code := m.Run()
	if pg != nil {
		_ = pg.Terminate(ctx)
	}
	os.Exit(code)
}

func dbForTest(t *testing.T) *gorm.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("docker unavailable, skipping database tests")
	}
	return testDB
}

func registerUser(t *testing.T, users UserService, name string) *models.User {
	t.Helper()
	user, err := users.Register(context.Background(), &models.RegisterRequest{
		Username:  name,
		Email:     name + "@example.com",
		Password1: "secret-password",
		Password2: "secret-password",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterAndAuthenticate(t *testing.T) {
	db := dbForTest(t)
	users := NewUserService(db)
	ctx := context.Background()

	alice := registerUser(t, users, "reg_alice")
	assert.NotZero(t, alice.ID)
	assert.NotEqual(t, "secret-password", alice.Password)

	// Same username again.
	_, err := users.Register(ctx, &models.RegisterRequest{
		Username:  "reg_alice",
		Email:     "other@example.com",
		Password1: "secret-password",
		Password2: "secret-password",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// Same email, different username.
	_, err = users.Register(ctx, &models.RegisterRequest{
		Username:  "reg_alice2",
		Email:     "reg_alice@example.com",
		Password1: "secret-password",
		Password2: "secret-password",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Blank fields never reach the store.
	_, err = users.Register(ctx, &models.RegisterRequest{
		Username:  "   ",
		Email:     "blank@example.com",
		Password1: "secret-password",
		Password2: "secret-password",
	})
	assert.ErrorIs(t, err, ErrEmptyField)

	// Wrong password and unknown email collapse to the same outcome.
	_, err = users.Authenticate(ctx, "reg_alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.Authenticate(ctx, "nobody@example.com", "secret-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, err := users.Authenticate(ctx, "reg_alice@example.com", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
}

func TestQuestionOwnershipGuard(t *testing.T) {
	db := dbForTest(t)
	users := NewUserService(db)
	questions := NewQuestionService(db)
	ctx := context.Background()

	alice := registerUser(t, users, "own_alice")
	bob := registerUser(t, users, "own_bob")

	q, err := questions.Create(ctx, alice.ID, &models.QuestionRequest{Subject: "Q1", Content: "C1"})
	require.NoError(t, err)

	// Author may update.
	updated, err := questions.Update(ctx, q.ID, alice.ID, &models.QuestionRequest{Subject: "Q1b", Content: "C1b"})
	require.NoError(t, err)
	assert.Equal(t, "Q1b", updated.Subject)

	// Anyone else may not.
	_, err = questions.Update(ctx, q.ID, bob.ID, &models.QuestionRequest{Subject: "X", Content: "Y"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, questions.Delete(ctx, q.ID, bob.ID), ErrForbidden)

	// Missing resources are not-found, never a panic or a forbidden.
	_, err = questions.Update(ctx, 999999, alice.ID, &models.QuestionRequest{Subject: "X", Content: "Y"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, questions.Delete(ctx, 999999, alice.ID), ErrNotFound)

	// Blank updates are rejected after the ownership check.
	_, err = questions.Update(ctx, q.ID, alice.ID, &models.QuestionRequest{Subject: "  ", Content: "C"})
	assert.ErrorIs(t, err, ErrEmptyField)

	require.NoError(t, questions.Delete(ctx, q.ID, alice.ID))
	_, err = questions.Get(ctx, q.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnswerOwnershipGuard(t *testing.T) {
	db := dbForTest(t)
	users := NewUserService(db)
	questions := NewQuestionService(db)
	answers := NewAnswerService(db)
	ctx := context.Background()

	alice := registerUser(t, users, "aown_alice")
	bob := registerUser(t, users, "aown_bob")

	q, err := questions.Create(ctx, alice.ID, &models.QuestionRequest{Subject: "Q", Content: "C"})
	require.NoError(t, err)

	// Parent must exist.
	_, err = answers.Create(ctx, 999999, bob.ID, &models.AnswerRequest{Content: "orphan"})
	assert.ErrorIs(t, err, ErrNotFound)

	a, err := answers.Create(ctx, q.ID, bob.ID, &models.AnswerRequest{Content: "A1"})
	require.NoError(t, err)

	updated, err := answers.Update(ctx, a.ID, bob.ID, &models.AnswerRequest{Content: "A1b"})
	require.NoError(t, err)
	assert.Equal(t, "A1b", updated.Content)

	_, err = answers.Update(ctx, a.ID, alice.ID, &models.AnswerRequest{Content: "X"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, answers.Delete(ctx, a.ID, alice.ID), ErrForbidden)

	_, err = answers.Update(ctx, 999999, bob.ID, &models.AnswerRequest{Content: "X"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, answers.Delete(ctx, a.ID, bob.ID))
	_, err = answers.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVoteLedger(t *testing.T) {
	db := dbForTest(t)
	users := NewUserService(db)
	questions := NewQuestionService(db)
	answers := NewAnswerService(db)
	ctx := context.Background()

	alice := registerUser(t, users, "vote_alice")
	bob := registerUser(t, users, "vote_bob")

	q, err := questions.Create(ctx, alice.ID, &models.QuestionRequest{Subject: "Q", Content: "C"})
	require.NoError(t, err)
	a, err := answers.Create(ctx, q.ID, alice.ID, &models.AnswerRequest{Content: "A"})
	require.NoError(t, err)

	// Self-vote writes nothing.
	outcome, err := questions.Vote(ctx, q.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, VoteSelfRejected, outcome)
	count, err := questions.CountVotes(ctx, q.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// First vote records, second is an idempotent no-op.
	outcome, err = questions.Vote(ctx, q.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, VoteRecorded, outcome)

	outcome, err = questions.Vote(ctx, q.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, VoteAlreadyCast, outcome)

	count, err = questions.CountVotes(ctx, q.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// Same semantics for answers.
	outcome, err = answers.Vote(ctx, a.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, VoteSelfRejected, outcome)

	outcome, err = answers.Vote(ctx, a.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, VoteRecorded, outcome)
	outcome, err = answers.Vote(ctx, a.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, VoteAlreadyCast, outcome)

	// Missing target is a soft not-found.
	_, err = questions.Vote(ctx, 999999, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = answers.Vote(ctx, 999999, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVoteDuplicateInsertRace(t *testing.T) {
	db := dbForTest(t)
	users := NewUserService(db)
	questions := NewQuestionService(db)
	ctx := context.Background()

	alice := registerUser(t, users, "race_alice")
	bob := registerUser(t, users, "race_bob")

	q, err := questions.Create(ctx, alice.ID, &models.QuestionRequest{Subject: "Q", Content: "C"})
	require.NoError(t, err)

	// Simulate a racer that slipped past the existence check: the row is
	// already there when the service inserts, and the unique index must
	// resolve the conflict as AlreadyCast rather than an error.
	require.NoError(t, db.Create(&models.QuestionVote{UserID: bob.ID, QuestionID: q.ID}).Error)

	err = db.Create(&models.QuestionVote{UserID: bob.ID, QuestionID: q.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	outcome, err := questions.Vote(ctx, q.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, VoteAlreadyCast, outcome)

	count, err := questions.CountVotes(ctx, q.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestDeleteQuestionCascades(t *testing.T) {
	db := dbForTest(t)
	users := NewUserService(db)
	questions := NewQuestionService(db)
	answers := NewAnswerService(db)
	ctx := context.Background()

	alice := registerUser(t, users, "casc_alice")
	bob := registerUser(t, users, "casc_bob")

	q, err := questions.Create(ctx, alice.ID, &models.QuestionRequest{Subject: "Q", Content: "C"})
	require.NoError(t, err)
	a, err := answers.Create(ctx, q.ID, bob.ID, &models.AnswerRequest{Content: "A"})
	require.NoError(t, err)

	_, err = questions.Vote(ctx, q.ID, bob.ID)
	require.NoError(t, err)
	_, err = answers.Vote(ctx, a.ID, alice.ID)
	require.NoError(t, err)

	require.NoError(t, questions.Delete(ctx, q.ID, alice.ID))

	_, err = answers.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var qVotes, aVotes int64
	require.NoError(t, db.Model(&models.QuestionVote{}).Where("question_id = ?", q.ID).Count(&qVotes).Error)
	require.NoError(t, db.Model(&models.AnswerVote{}).Where("answer_id = ?", a.ID).Count(&aVotes).Error)
	assert.EqualValues(t, 0, qVotes)
	assert.EqualValues(t, 0, aVotes)
}

func TestQuestionListPaging(t *testing.T) {
	db := dbForTest(t)
	users := NewUserService(db)
	questions := NewQuestionService(db)
	ctx := context.Background()

	alice := registerUser(t, users, "list_alice")

	var lastSubject string
	for i := 0; i < 3; i++ {
		lastSubject = fmt.Sprintf("list question %d", i)
		_, err := questions.Create(ctx, alice.ID, &models.QuestionRequest{
			Subject: lastSubject,
			Content: "content",
		})
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond) // distinct created_at for a stable order
	}

	total, page, err := questions.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, int64(3))
	require.Len(t, page, 2)
	assert.Equal(t, lastSubject, page[0].Subject, "newest first")
}
