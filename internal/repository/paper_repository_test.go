package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/exam-prep-api/internal/models"
)

func TestCreatePaperInsertsLinksInOrder(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaperRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO papers (title, description, user_id, created_at) VALUES ($1, $2, $3, $4) RETURNING id")).
		WithArgs("T", nil, int64(1), "2024-01-01T00:00:00.000Z").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	for i, qid := range []int64{49587, 49590, 49587} {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO paper_questions (paper_id, question_id, order_index) VALUES ($1, $2, $3)")).
			WithArgs(int64(3), qid, i).
			WillReturnResult(sqlmock.NewResult(int64(i+1), 1))
	}
	mock.ExpectCommit()

	paper := &models.Paper{Title: "T", UserID: 1, CreatedAt: "2024-01-01T00:00:00.000Z"}
	require.NoError(t, repo.CreatePaper(context.Background(), paper, []int64{49587, 49590, 49587}))
	assert.Equal(t, int64(3), paper.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePaperRollsBackWhenLinkFails(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaperRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO papers").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec("INSERT INTO paper_questions").WillReturnError(errors.New("link failed"))
	mock.ExpectRollback()

	err := repo.CreatePaper(context.Background(), &models.Paper{Title: "T", UserID: 1}, []int64{49587})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPaperQuestions(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaperRepository(db)

	rows := sqlmock.NewRows([]string{"id", "paper_id", "question_id", "order_index"}).
		AddRow(1, 2, 49592, 0).
		AddRow(2, 2, 49587, 1)
	mock.ExpectQuery(regexp.QuoteMeta("FROM paper_questions WHERE paper_id = $1 ORDER BY order_index ASC")).
		WithArgs(int64(2)).
		WillReturnRows(rows)

	links, err := repo.ListPaperQuestions(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, int64(49587), links[1].QuestionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindPaperByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaperRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM papers WHERE id = $1 LIMIT 1")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "user_id", "created_at"}))

	_, err := repo.FindPaperByID(context.Background(), 4)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPapersByUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaperRepository(db)

	rows := sqlmock.NewRows([]string{"id", "title", "description", "user_id", "created_at"}).
		AddRow(1, "Mock 1", "weekly", 7, "2024-01-01T00:00:00.000Z")
	mock.ExpectQuery(regexp.QuoteMeta("FROM papers WHERE user_id = $1 ORDER BY id ASC")).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	papers, err := repo.ListPapersByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, papers, 1)
	require.NotNil(t, papers[0].Description)
	assert.Equal(t, "weekly", *papers[0].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}
