// Package filter narrows the question collection with optional equality predicates.
//
// Filter values arrive from clients as a loosely typed JSON object whose values may be
// strings or numbers. Parse turns that bag into an explicit Criteria at the boundary:
//   - absent, null, "", 0 and false leave a predicate unset (no narrowing);
//   - a value that does not parse as an integer marks the predicate Invalid, and an
//     Invalid predicate never matches, so the result is empty rather than an error;
//   - topicId "all" (any case) or the All topic id leaves the topic predicate unset.
//     The All topic row is a real reference row, so the sentinel applies regardless of
//     the chapter being filtered.
package filter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/exam-prep-api/internal/models"
)

// AllTopicID is the id of the seeded "All" topic row.
const AllTopicID int64 = 4

const allTopicToken = "all"

// Wire keys accepted in the filters object.
const (
	KeySubjectID         = "subjectId"
	KeyChapterID         = "chapterId"
	KeyTopicID           = "topicId"
	KeyDifficultyLevelID = "difficultyLevelId"
	KeyQuestionTypeID    = "questionTypeId"
)

// Predicate is one optional equality test.
type Predicate struct {
	Set     bool
	Value   int64
	Invalid bool
}

// Eq returns a set predicate matching value.
func Eq(value int64) Predicate {
	return Predicate{Set: true, Value: value}
}

// Matches reports whether v passes the predicate. Unset predicates pass everything.
func (p Predicate) Matches(v int64) bool {
	if !p.Set {
		return true
	}
	if p.Invalid {
		return false
	}
	return v == p.Value
}

// MatchesOptional is Matches for nullable columns; nil only passes an unset predicate.
func (p Predicate) MatchesOptional(v *int64) bool {
	if !p.Set {
		return true
	}
	if v == nil {
		return false
	}
	return p.Matches(*v)
}

func (p Predicate) key() string {
	switch {
	case !p.Set:
		return "*"
	case p.Invalid:
		return "!"
	default:
		return strconv.FormatInt(p.Value, 10)
	}
}

// Criteria is the parsed filter object plus the exclusion set.
type Criteria struct {
	SubjectID         Predicate
	ChapterID         Predicate
	TopicID           Predicate
	DifficultyLevelID Predicate
	QuestionTypeID    Predicate
	ExcludeIDs        map[int64]struct{}
}

// Field pairs a storage column with its predicate.
type Field struct {
	Column    string
	Predicate Predicate
}

// Fields lists the predicates in evaluation order, keyed by storage column.
func (c Criteria) Fields() []Field {
	return []Field{
		{Column: "subject_id", Predicate: c.SubjectID},
		{Column: "chapter_id", Predicate: c.ChapterID},
		{Column: "topic_id", Predicate: c.TopicID},
		{Column: "difficulty_level_id", Predicate: c.DifficultyLevelID},
		{Column: "question_type_id", Predicate: c.QuestionTypeID},
	}
}

// Exclude adds ids to the exclusion set and returns the criteria for chaining.
func (c Criteria) Exclude(ids ...int64) Criteria {
	if len(ids) == 0 {
		return c
	}
	merged := make(map[int64]struct{}, len(c.ExcludeIDs)+len(ids))
	for id := range c.ExcludeIDs {
		merged[id] = struct{}{}
	}
	for _, id := range ids {
		merged[id] = struct{}{}
	}
	c.ExcludeIDs = merged
	return c
}

// Excluded returns the exclusion set in ascending order.
func (c Criteria) Excluded() []int64 {
	out := make([]int64, 0, len(c.ExcludeIDs))
	for id := range c.ExcludeIDs {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Matches applies the predicates in order: subject, chapter, topic, difficulty, type, exclusion.
func (c Criteria) Matches(q models.Question) bool {
	if !c.SubjectID.Matches(q.SubjectID) {
		return false
	}
	if !c.ChapterID.Matches(q.ChapterID) {
		return false
	}
	if !c.TopicID.MatchesOptional(q.TopicID) {
		return false
	}
	if !c.DifficultyLevelID.Matches(q.DifficultyLevelID) {
		return false
	}
	if !c.QuestionTypeID.Matches(q.QuestionTypeID) {
		return false
	}
	if _, excluded := c.ExcludeIDs[q.ID]; excluded {
		return false
	}
	return true
}

// Key is a canonical representation used for cache keys.
func (c Criteria) Key() string {
	var b strings.Builder
	for i, f := range c.Fields() {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(f.Column)
		b.WriteByte('=')
		b.WriteString(f.Predicate.key())
	}
	if len(c.ExcludeIDs) > 0 {
		b.WriteString(";exclude=")
		for i, id := range c.Excluded() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatInt(id, 10))
		}
	}
	return b.String()
}

// Apply returns the questions matching c, preserving input order. The result is never nil.
func Apply(questions []models.Question, c Criteria) []models.Question {
	out := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		if c.Matches(q) {
			out = append(out, q)
		}
	}
	return out
}

// Parse converts a decoded filters object into Criteria. Unknown keys are ignored.
func Parse(raw map[string]interface{}) Criteria {
	var c Criteria
	if raw == nil {
		return c
	}
	c.SubjectID = parsePredicate(raw[KeySubjectID])
	c.ChapterID = parsePredicate(raw[KeyChapterID])
	c.DifficultyLevelID = parsePredicate(raw[KeyDifficultyLevelID])
	c.QuestionTypeID = parsePredicate(raw[KeyQuestionTypeID])
	if !isAllTopic(raw[KeyTopicID]) {
		c.TopicID = parsePredicate(raw[KeyTopicID])
	}
	return c
}

// ParseJSON decodes the filters query parameter. An empty string yields empty Criteria.
func ParseJSON(raw string) (Criteria, error) {
	if strings.TrimSpace(raw) == "" {
		return Criteria{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var bag map[string]interface{}
	if err := dec.Decode(&bag); err != nil {
		return Criteria{}, fmt.Errorf("decode filters: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after filters object")
		}
		return Criteria{}, fmt.Errorf("decode filters: %w", err)
	}
	return Parse(bag), nil
}

// ParseIDList parses a comma-separated id list, dropping entries that are not integers.
func ParseIDList(raw string) []int64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

func isAllTopic(v interface{}) bool {
	if s, ok := v.(string); ok && strings.EqualFold(strings.TrimSpace(s), allTopicToken) {
		return true
	}
	p := parsePredicate(v)
	return p.Set && !p.Invalid && p.Value == AllTopicID
}

func parsePredicate(v interface{}) Predicate {
	switch val := v.(type) {
	case nil:
		return Predicate{}
	case bool:
		if !val {
			return Predicate{}
		}
		return Predicate{Set: true, Invalid: true}
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return Predicate{}
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Predicate{Set: true, Invalid: true}
		}
		return Eq(id)
	case json.Number:
		if id, err := val.Int64(); err == nil {
			return fromInt(id)
		}
		f, err := val.Float64()
		if err != nil {
			return Predicate{Set: true, Invalid: true}
		}
		return fromFloat(f)
	case float64:
		return fromFloat(val)
	case int:
		return fromInt(int64(val))
	case int64:
		return fromInt(val)
	default:
		return Predicate{Set: true, Invalid: true}
	}
}

func fromInt(v int64) Predicate {
	if v == 0 {
		return Predicate{}
	}
	return Eq(v)
}

func fromFloat(f float64) Predicate {
	if f == 0 {
		return Predicate{}
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return Predicate{Set: true, Invalid: true}
	}
	return Eq(int64(f))
}
