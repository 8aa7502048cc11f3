package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-prep-api/internal/models"
)

func otherLetter(letter string) string {
	if letter == "a" {
		return "b"
	}
	return "a"
}

func TestScore(t *testing.T) {
	questions := []models.Question{
		{ID: 1, CorrectAnswer: "a"},
		{ID: 2, CorrectAnswer: "c"},
		{ID: 3, CorrectAnswer: "d"},
	}
	result := Score(questions, models.AnswerSheet{1: "A", 2: "b", 99: "a"})

	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 1, result.Incorrect)
	assert.Equal(t, 1, result.Unanswered)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 33.33, result.Score)
	assert.Equal(t, models.AnswerSheet{1: "a", 2: "b"}, result.Answers)
	require.Len(t, result.Results, 3)
	assert.True(t, result.Results[0].IsCorrect)
	assert.Equal(t, "c", result.Results[1].CorrectAnswer)

	empty := Score(nil, nil)
	assert.Zero(t, empty.Score)
	assert.NotNil(t, empty.Results)
}

func TestAttemptSubmitAndList(t *testing.T) {
	papers, store := newPaperService()
	ctx := context.Background()
	paper, err := papers.Create(ctx, CreatePaperRequest{Title: "Mock", UserID: 3, QuestionIDs: []int64{49587, 49590}})
	require.NoError(t, err)

	full, err := papers.Get(ctx, paper.ID)
	require.NoError(t, err)
	first, second := full.Questions[0], full.Questions[1]

	svc := NewAttemptService(store, papers, NewMetricsService(), zap.NewNop())
	svc.now = func() time.Time { return fixedNow }

	result, err := svc.Submit(ctx, paper.ID, SubmitAttemptRequest{
		UserID:  3,
		Answers: models.AnswerSheet{first.ID: first.CorrectAnswer, second.ID: otherLetter(second.CorrectAnswer)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.ID)
	assert.Equal(t, 50.0, result.Score)
	assert.Equal(t, "2024-03-01T10:00:00.000Z", result.SubmittedAt)

	attempts, err := svc.ListByUser(ctx, 3)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, paper.ID, attempts[0].PaperID)
	assert.Equal(t, 1, attempts[0].Correct)
}

func TestAttemptSubmitErrors(t *testing.T) {
	papers, store := newPaperService()
	svc := NewAttemptService(store, papers, nil, nil)
	ctx := context.Background()

	_, err := svc.Submit(ctx, 1, SubmitAttemptRequest{})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, err = svc.Submit(ctx, 404, SubmitAttemptRequest{UserID: 1})
	assert.Equal(t, http.StatusNotFound, statusOf(err))

	_, err = svc.ListByUser(ctx, 0)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}
