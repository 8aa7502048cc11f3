package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/exam-prep-api/internal/models"
	appErrors "github.com/noah-isme/exam-prep-api/pkg/errors"
)

type referenceStore interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ListChapters(ctx context.Context, subjectID int64) ([]models.Chapter, error)
	ListTopics(ctx context.Context, chapterID int64) ([]models.Topic, error)
	ListQuestionTypes(ctx context.Context) ([]models.QuestionType, error)
	ListDifficultyLevels(ctx context.Context) ([]models.DifficultyLevel, error)
}

// ReferenceService lists the lookup tables that drive the filter controls.
type ReferenceService struct {
	store  referenceStore
	cache  *CacheService
	logger *zap.Logger
}

// NewReferenceService creates a reference data service.
func NewReferenceService(store referenceStore, cache *CacheService, logger *zap.Logger) *ReferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceService{store: store, cache: cache, logger: logger}
}

// Subjects returns every subject.
func (s *ReferenceService) Subjects(ctx context.Context) ([]models.Subject, error) {
	return cachedList(ctx, s.cache, cachePrefixReference+"subjects", "Failed to fetch subjects", s.store.ListSubjects)
}

// Chapters returns chapters, narrowed to subjectID when it is non-zero.
func (s *ReferenceService) Chapters(ctx context.Context, subjectID int64) ([]models.Chapter, error) {
	key := cachePrefixReference + "chapters:" + strconv.FormatInt(subjectID, 10)
	return cachedList(ctx, s.cache, key, "Failed to fetch chapters", func(ctx context.Context) ([]models.Chapter, error) {
		return s.store.ListChapters(ctx, subjectID)
	})
}

// Topics returns topics, narrowed to chapterID when it is non-zero.
func (s *ReferenceService) Topics(ctx context.Context, chapterID int64) ([]models.Topic, error) {
	key := cachePrefixReference + "topics:" + strconv.FormatInt(chapterID, 10)
	return cachedList(ctx, s.cache, key, "Failed to fetch topics", func(ctx context.Context) ([]models.Topic, error) {
		return s.store.ListTopics(ctx, chapterID)
	})
}

// QuestionTypes returns every question type.
func (s *ReferenceService) QuestionTypes(ctx context.Context) ([]models.QuestionType, error) {
	return cachedList(ctx, s.cache, cachePrefixReference+"question-types", "Failed to fetch question types", s.store.ListQuestionTypes)
}

// DifficultyLevels returns every difficulty level.
func (s *ReferenceService) DifficultyLevels(ctx context.Context) ([]models.DifficultyLevel, error) {
	return cachedList(ctx, s.cache, cachePrefixReference+"difficulty-levels", "Failed to fetch difficulty levels", s.store.ListDifficultyLevels)
}

func cachedList[T any](ctx context.Context, cache *CacheService, key, failure string, load func(context.Context) ([]T, error)) ([]T, error) {
	var cached []T
	if cache.Get(ctx, key, &cached) && cached != nil {
		return cached, nil
	}
	items, err := load(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, failure)
	}
	if items == nil {
		items = []T{}
	}
	cache.Set(ctx, key, items)
	return items, nil
}
