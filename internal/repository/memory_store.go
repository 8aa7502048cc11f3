package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/noah-isme/exam-prep-api/internal/filter"
	"github.com/noah-isme/exam-prep-api/internal/models"
)

// ErrNotFound signals that a keyed lookup found no record.
var ErrNotFound = errors.New("record not found")

// MemoryStore keeps every entity kind in keyed maps with an insertion-order index.
// A single RWMutex guards all kinds so multi-row writes (a paper and its questions,
// an import batch) are observed atomically. Readers always receive copies.
type MemoryStore struct {
	mu sync.RWMutex

	users     map[int64]models.User
	userOrder []int64

	questions     map[int64]models.Question
	questionOrder []int64

	papers         map[int64]models.Paper
	paperOrder     []int64
	paperQuestions map[int64][]models.PaperQuestion

	attempts     map[int64]models.Attempt
	attemptOrder []int64

	subjects         []models.Subject
	chapters         []models.Chapter
	topics           []models.Topic
	questionTypes    []models.QuestionType
	difficultyLevels []models.DifficultyLevel

	nextUserID          int64
	nextQuestionID      int64
	nextPaperID         int64
	nextPaperQuestionID int64
	nextAttemptID       int64
}

// NewMemoryStore returns an empty store. Every counter starts at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:               make(map[int64]models.User),
		questions:           make(map[int64]models.Question),
		papers:              make(map[int64]models.Paper),
		paperQuestions:      make(map[int64][]models.PaperQuestion),
		attempts:            make(map[int64]models.Attempt),
		nextUserID:          1,
		nextQuestionID:      1,
		nextPaperID:         1,
		nextPaperQuestionID: 1,
		nextAttemptID:       1,
	}
}

// NewSeededMemoryStore returns a store loaded with the sample catalogue.
func NewSeededMemoryStore() *MemoryStore {
	s := NewMemoryStore()
	s.Load(DefaultSeed())
	return s
}

// Load inserts seed records with their fixed ids and advances the question counter past them.
func (s *MemoryStore) Load(seed SeedData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subjects = append(s.subjects, seed.Subjects...)
	s.chapters = append(s.chapters, seed.Chapters...)
	s.topics = append(s.topics, seed.Topics...)
	s.questionTypes = append(s.questionTypes, seed.QuestionTypes...)
	s.difficultyLevels = append(s.difficultyLevels, seed.DifficultyLevels...)

	for _, q := range seed.Questions {
		if _, exists := s.questions[q.ID]; !exists {
			s.questionOrder = append(s.questionOrder, q.ID)
		}
		s.questions[q.ID] = q.Clone()
		if q.ID >= s.nextQuestionID {
			s.nextQuestionID = q.ID + 1
		}
	}
}

// Ping always succeeds; the store has no external dependency.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// CreateUser assigns the next user id and stores the record.
func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = s.nextUserID
	s.nextUserID++
	s.users[user.ID] = *user
	s.userOrder = append(s.userOrder, user.ID)
	return nil
}

// FindUserByID returns the user or ErrNotFound.
func (s *MemoryStore) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

// FindUserByUsername returns the first user with an exactly matching username.
func (s *MemoryStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, uid := range s.userOrder {
		if user := s.users[uid]; user.Username == username {
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// FindQuestionByID returns a copy of the question or ErrNotFound.
func (s *MemoryStore) FindQuestionByID(_ context.Context, id int64) (*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := q.Clone()
	return &out, nil
}

// FindQuestionsByIDs resolves the ids that exist. Missing ids are simply absent from the map.
func (s *MemoryStore) FindQuestionsByIDs(_ context.Context, ids []int64) (map[int64]models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64]models.Question, len(ids))
	for _, qid := range ids {
		if q, ok := s.questions[qid]; ok {
			out[qid] = q.Clone()
		}
	}
	return out, nil
}

// FilterQuestions returns matching questions in insertion order.
func (s *MemoryStore) FilterQuestions(_ context.Context, c filter.Criteria) ([]models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Question, 0, len(s.questionOrder))
	for _, qid := range s.questionOrder {
		q := s.questions[qid]
		if c.Matches(q) {
			out = append(out, q.Clone())
		}
	}
	return out, nil
}

// CreateQuestions assigns consecutive ids to the batch under one lock and returns the stored copies.
func (s *MemoryStore) CreateQuestions(_ context.Context, questions []models.Question) ([]models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		q = q.Clone()
		q.ID = s.nextQuestionID
		s.nextQuestionID++
		s.questions[q.ID] = q
		s.questionOrder = append(s.questionOrder, q.ID)
		created = append(created, q.Clone())
	}
	return created, nil
}

// ListSubjects returns every subject.
func (s *MemoryStore) ListSubjects(context.Context) ([]models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Subject{}, s.subjects...), nil
}

// ListChapters returns chapters, narrowed to one subject when subjectID is non-zero.
func (s *MemoryStore) ListChapters(_ context.Context, subjectID int64) ([]models.Chapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Chapter, 0, len(s.chapters))
	for _, ch := range s.chapters {
		if subjectID == 0 || ch.SubjectID == subjectID {
			out = append(out, ch)
		}
	}
	return out, nil
}

// ListTopics returns topics, narrowed to one chapter when chapterID is non-zero.
func (s *MemoryStore) ListTopics(_ context.Context, chapterID int64) ([]models.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Topic, 0, len(s.topics))
	for _, t := range s.topics {
		if chapterID == 0 || t.ChapterID == chapterID {
			out = append(out, t)
		}
	}
	return out, nil
}

// ListQuestionTypes returns every question type.
func (s *MemoryStore) ListQuestionTypes(context.Context) ([]models.QuestionType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.QuestionType{}, s.questionTypes...), nil
}

// ListDifficultyLevels returns every difficulty level.
func (s *MemoryStore) ListDifficultyLevels(context.Context) ([]models.DifficultyLevel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.DifficultyLevel{}, s.difficultyLevels...), nil
}

// CreatePaper stores the paper and one link per question id, orderIndex following input order.
// Duplicate ids produce duplicate links; ids are not checked against the question collection.
func (s *MemoryStore) CreatePaper(_ context.Context, paper *models.Paper, questionIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	paper.ID = s.nextPaperID
	s.nextPaperID++
	s.papers[paper.ID] = clonePaper(*paper)
	s.paperOrder = append(s.paperOrder, paper.ID)

	links := make([]models.PaperQuestion, 0, len(questionIDs))
	for i, qid := range questionIDs {
		links = append(links, models.PaperQuestion{
			ID:         s.nextPaperQuestionID,
			PaperID:    paper.ID,
			QuestionID: qid,
			OrderIndex: i,
		})
		s.nextPaperQuestionID++
	}
	s.paperQuestions[paper.ID] = links
	return nil
}

// FindPaperByID returns the paper without its questions, or ErrNotFound.
func (s *MemoryStore) FindPaperByID(_ context.Context, id int64) (*models.Paper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paper, ok := s.papers[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := clonePaper(paper)
	return &out, nil
}

// ListPapersByUser returns the user's papers in creation order.
func (s *MemoryStore) ListPapersByUser(_ context.Context, userID int64) ([]models.Paper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Paper, 0)
	for _, pid := range s.paperOrder {
		if p := s.papers[pid]; p.UserID == userID {
			out = append(out, clonePaper(p))
		}
	}
	return out, nil
}

// ListPaperQuestions returns a paper's links sorted by orderIndex.
func (s *MemoryStore) ListPaperQuestions(_ context.Context, paperID int64) ([]models.PaperQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]models.PaperQuestion{}, s.paperQuestions[paperID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

// CreateAttempt assigns the next attempt id and stores the scored attempt.
func (s *MemoryStore) CreateAttempt(_ context.Context, attempt *models.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt.ID = s.nextAttemptID
	s.nextAttemptID++
	s.attempts[attempt.ID] = cloneAttempt(*attempt)
	s.attemptOrder = append(s.attemptOrder, attempt.ID)
	return nil
}

// ListAttemptsByUser returns the user's attempts in submission order.
func (s *MemoryStore) ListAttemptsByUser(_ context.Context, userID int64) ([]models.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Attempt, 0)
	for _, aid := range s.attemptOrder {
		if a := s.attempts[aid]; a.UserID == userID {
			out = append(out, cloneAttempt(a))
		}
	}
	return out, nil
}

func clonePaper(p models.Paper) models.Paper {
	if p.Description != nil {
		desc := *p.Description
		p.Description = &desc
	}
	return p
}

func cloneAttempt(a models.Attempt) models.Attempt {
	if a.Answers != nil {
		answers := make(models.AnswerSheet, len(a.Answers))
		for k, v := range a.Answers {
			answers[k] = v
		}
		a.Answers = answers
	}
	return a
}
