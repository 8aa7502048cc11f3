package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-prep-api/internal/filter"
	"github.com/noah-isme/exam-prep-api/internal/models"
	"github.com/noah-isme/exam-prep-api/internal/repository"
	appErrors "github.com/noah-isme/exam-prep-api/pkg/errors"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newPaperService() (*PaperService, *repository.MemoryStore) {
	store := repository.NewSeededMemoryStore()
	svc := NewPaperService(store, NewMetricsService(), nil, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc, store
}

func paperQuestionIDs(p *models.PaperWithQuestions) []int64 {
	out := make([]int64, len(p.Questions))
	for i, q := range p.Questions {
		out[i] = q.ID
	}
	return out
}

func TestPaperCreateRoundTripKeepsSelectionOrder(t *testing.T) {
	svc, _ := newPaperService()
	ctx := context.Background()
	desc := "warm-up"

	paper, err := svc.Create(ctx, CreatePaperRequest{
		Title:       "Test Paper",
		Description: &desc,
		UserID:      1,
		QuestionIDs: []int64{49587, 49590, 49592},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), paper.ID)
	assert.Equal(t, "2024-03-01T10:00:00.000Z", paper.CreatedAt)

	got, err := svc.Get(ctx, paper.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Paper", got.Title)
	assert.Equal(t, []int64{49587, 49590, 49592}, paperQuestionIDs(got))
}

func TestPaperCreateRejectsMissingFieldsWithoutWriting(t *testing.T) {
	svc, store := newPaperService()
	ctx := context.Background()

	cases := []CreatePaperRequest{
		{UserID: 1, QuestionIDs: []int64{49587}},
		{Title: "   ", UserID: 1, QuestionIDs: []int64{49587}},
		{Title: "No user", QuestionIDs: []int64{49587}},
		{Title: "No questions", UserID: 1},
	}
	for _, req := range cases {
		_, err := svc.Create(ctx, req)
		require.Error(t, err)
		appErr := appErrors.FromError(err)
		assert.Equal(t, http.StatusBadRequest, appErr.Status)
		assert.Equal(t, "Missing required fields", appErr.Message)
	}

	papers, err := store.ListPapersByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, papers)

	paper, err := svc.Create(ctx, CreatePaperRequest{Title: "First", UserID: 1, QuestionIDs: []int64{}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), paper.ID)
}

func TestPaperDuplicateQuestionIDsAreKept(t *testing.T) {
	svc, store := newPaperService()
	ctx := context.Background()

	paper, err := svc.Create(ctx, CreatePaperRequest{Title: "Dupes", UserID: 2, QuestionIDs: []int64{49587, 49587}})
	require.NoError(t, err)

	links, err := store.ListPaperQuestions(ctx, paper.ID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, 0, links[0].OrderIndex)
	assert.Equal(t, 1, links[1].OrderIndex)

	got, err := svc.Get(ctx, paper.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{49587, 49587}, paperQuestionIDs(got))
}

func TestPaperGetSkipsDanglingQuestions(t *testing.T) {
	svc, _ := newPaperService()
	ctx := context.Background()

	paper, err := svc.Create(ctx, CreatePaperRequest{Title: "Gaps", UserID: 1, QuestionIDs: []int64{49590, 1, 49592}})
	require.NoError(t, err)

	got, err := svc.Get(ctx, paper.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{49590, 49592}, paperQuestionIDs(got))
}

func TestPaperGetNotFound(t *testing.T) {
	svc, _ := newPaperService()
	_, err := svc.Get(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusOf(err))
	assert.Equal(t, "Paper not found", appErrors.FromError(err).Message)
}

func TestPaperListByUser(t *testing.T) {
	svc, _ := newPaperService()
	ctx := context.Background()

	_, err := svc.ListByUser(ctx, 0)
	require.Error(t, err)
	assert.Equal(t, "User ID is required", appErrors.FromError(err).Message)

	for _, req := range []CreatePaperRequest{
		{Title: "A", UserID: 1, QuestionIDs: []int64{}},
		{Title: "B", UserID: 2, QuestionIDs: []int64{}},
		{Title: "C", UserID: 1, QuestionIDs: []int64{}},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	papers, err := svc.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, papers, 2)
	assert.Equal(t, "A", papers[0].Title)
	assert.Equal(t, "C", papers[1].Title)

	none, err := svc.ListByUser(ctx, 9)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestPaperGenerateIsDeterministicForSeed(t *testing.T) {
	svc, store := newPaperService()
	ctx := context.Background()
	seed := int64(42)
	req := GeneratePaperRequest{
		Title:      "Generated",
		UserID:     1,
		Filters:    map[string]interface{}{"chapterId": float64(4), "topicId": "all"},
		ExcludeIDs: []int64{49587},
		Count:      5,
		Seed:       &seed,
	}

	first, err := svc.Generate(ctx, req)
	require.NoError(t, err)
	second, err := svc.Generate(ctx, req)
	require.NoError(t, err)

	a, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	b, err := svc.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, paperQuestionIDs(a), paperQuestionIDs(b))
	require.Len(t, a.Questions, 5)

	seen := map[int64]bool{}
	for _, q := range a.Questions {
		assert.False(t, seen[q.ID], "duplicate %d", q.ID)
		seen[q.ID] = true
		assert.NotEqual(t, int64(49587), q.ID)
		assert.Equal(t, int64(4), q.ChapterID)
	}

	pool, err := store.FilterQuestions(ctx, filter.Criteria{ChapterID: filter.Eq(4)})
	require.NoError(t, err)
	assert.Len(t, pool, 27)
}

func TestPaperGenerateNeedsEnoughQuestions(t *testing.T) {
	svc, store := newPaperService()
	ctx := context.Background()

	_, err := svc.Generate(ctx, GeneratePaperRequest{Title: "Too many", UserID: 1, Filters: map[string]interface{}{"topicId": "1"}, Count: 200})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, err = svc.Generate(ctx, GeneratePaperRequest{Title: "Zero", UserID: 1, Count: 0})
	require.Error(t, err)
	assert.Equal(t, "Missing required fields", appErrors.FromError(err).Message)

	papers, err := store.ListPapersByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, papers)
}
