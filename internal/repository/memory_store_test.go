package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/exam-prep-api/internal/filter"
	"github.com/noah-isme/exam-prep-api/internal/models"
)

func questionIDs(qs []models.Question) []int64 {
	out := make([]int64, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestSeededStoreHoldsSampleCatalogue(t *testing.T) {
	ctx := context.Background()
	store := NewSeededMemoryStore()

	all, err := store.FilterQuestions(ctx, filter.Criteria{})
	require.NoError(t, err)
	require.Len(t, all, 27)
	assert.Equal(t, []int64{49587, 49590, 49592, 49595, 49597, 49598}, questionIDs(all[:6]))
	assert.Equal(t, int64(49620), all[26].ID)

	for _, q := range all {
		idx, ok := models.AnswerIndex(q.CorrectAnswer)
		require.True(t, ok, "question %d", q.ID)
		assert.Less(t, idx, len(q.Options))
		assert.Equal(t, q.HasDiagram, q.DiagramSVG != nil, "question %d", q.ID)
	}

	subjects, err := store.ListSubjects(ctx)
	require.NoError(t, err)
	assert.Len(t, subjects, 4)
	assert.Equal(t, "PHYSICS", subjects[0].Name)
}

func TestFilterBySubjectAndChapterMatchesAllSeedQuestions(t *testing.T) {
	store := NewSeededMemoryStore()
	c := filter.Criteria{SubjectID: filter.Eq(1), ChapterID: filter.Eq(4)}

	got, err := store.FilterQuestions(context.Background(), c)
	require.NoError(t, err)
	assert.Len(t, got, 27)
}

func TestFilterByTopicAndExclusion(t *testing.T) {
	store := NewSeededMemoryStore()
	c := filter.Criteria{TopicID: filter.Eq(2)}.Exclude(49592)

	got, err := store.FilterQuestions(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, []int64{49597}, questionIDs(got))
}

func TestReferenceParentFilters(t *testing.T) {
	ctx := context.Background()
	store := NewSeededMemoryStore()

	chapters, err := store.ListChapters(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, chapters, 4)

	chapters, err = store.ListChapters(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, chapters)

	topics, err := store.ListTopics(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, topics, 4)

	topics, err = store.ListTopics(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, topics)
}

func TestQuestionLookupReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewSeededMemoryStore()

	q, err := store.FindQuestionByID(ctx, 49587)
	require.NoError(t, err)
	q.Options[0] = "tampered"

	again, err := store.FindQuestionByID(ctx, 49587)
	require.NoError(t, err)
	assert.Equal(t, "r√2", again.Options[0])

	_, err = store.FindQuestionByID(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateQuestionsContinuesAfterSeed(t *testing.T) {
	ctx := context.Background()
	store := NewSeededMemoryStore()

	created, err := store.CreateQuestions(ctx, []models.Question{
		{Content: "one", Options: models.Options{"a", "b", "c", "d"}, CorrectAnswer: "a", SubjectID: 2, ChapterID: 1, DifficultyLevelID: 1, QuestionTypeID: 1},
		{Content: "two", Options: models.Options{"a", "b", "c", "d"}, CorrectAnswer: "b", SubjectID: 2, ChapterID: 1, DifficultyLevelID: 1, QuestionTypeID: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{FirstImportedQuestionID, FirstImportedQuestionID + 1}, questionIDs(created))

	all, err := store.FilterQuestions(ctx, filter.Criteria{SubjectID: filter.Eq(2)})
	require.NoError(t, err)
	assert.Equal(t, questionIDs(created), questionIDs(all))
}

func TestPaperRoundTripKeepsSelectionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewSeededMemoryStore()

	paper := &models.Paper{Title: "T", UserID: 1, CreatedAt: "2024-01-01T00:00:00.000Z"}
	require.NoError(t, store.CreatePaper(ctx, paper, []int64{49592, 49587, 49587}))
	assert.Equal(t, int64(1), paper.ID)

	links, err := store.ListPaperQuestions(ctx, paper.ID)
	require.NoError(t, err)
	require.Len(t, links, 3)
	for i, link := range links {
		assert.Equal(t, i, link.OrderIndex)
		assert.Equal(t, int64(i+1), link.ID)
		assert.Equal(t, paper.ID, link.PaperID)
	}
	assert.Equal(t, int64(49587), links[1].QuestionID)
	assert.Equal(t, int64(49587), links[2].QuestionID)

	stored, err := store.FindPaperByID(ctx, paper.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", stored.Title)

	_, err = store.FindPaperByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountersAreNeverReused(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := &models.Paper{Title: "a", UserID: 1}
	second := &models.Paper{Title: "b", UserID: 2}
	require.NoError(t, store.CreatePaper(ctx, first, []int64{1, 2}))
	require.NoError(t, store.CreatePaper(ctx, second, []int64{3}))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	links, err := store.ListPaperQuestions(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, int64(3), links[0].ID)

	mine, err := store.ListPapersByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "a", mine[0].Title)

	none, err := store.ListPapersByUser(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	user := &models.User{Username: "asha", PasswordHash: "hash"}
	require.NoError(t, store.CreateUser(ctx, user))
	assert.Equal(t, int64(1), user.ID)

	found, err := store.FindUserByUsername(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = store.FindUserByUsername(ctx, "ASHA")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.FindUserByID(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttempts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	attempt := &models.Attempt{PaperID: 1, UserID: 7, Answers: models.AnswerSheet{49587: "c"}, Correct: 1, Total: 1, Score: 100}
	require.NoError(t, store.CreateAttempt(ctx, attempt))
	attempt.Answers[49587] = "a"

	list, err := store.ListAttemptsByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c", list[0].Answers[49587])
	assert.Equal(t, int64(1), list[0].ID)
}

func TestConcurrentPaperCreationKeepsLinksContiguous(t *testing.T) {
	ctx := context.Background()
	store := NewSeededMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.CreatePaper(ctx, &models.Paper{Title: "p", UserID: 1}, []int64{49587, 49590, 49592})
		}()
	}
	wg.Wait()

	papers, err := store.ListPapersByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, papers, 20)

	seen := map[int64]bool{}
	for _, p := range papers {
		assert.False(t, seen[p.ID])
		seen[p.ID] = true
		links, err := store.ListPaperQuestions(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, links, 3)
		for i, link := range links {
			assert.Equal(t, i, link.OrderIndex)
		}
	}
}
