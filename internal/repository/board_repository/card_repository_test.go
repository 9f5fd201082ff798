package board_repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cardCols = []string{"id", "column_id", "title", "description", "image_url", "due_date", "completed", "position"}

func TestCreateCardAppendsPosition(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCardRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(position) + 1, 0) FROM cards WHERE column_id = $1`)).
		WithArgs("col-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO cards`)).
		WithArgs(sqlmock.AnyArg(), "col-1", "Write docs", "", nil, nil, 2).
		WillReturnRows(sqlmock.NewRows(cardCols).
			AddRow("card-3", "col-1", "Write docs", "", nil, nil, false, 2))
	mock.ExpectCommit()

	card, err := repo.CreateCard(context.Background(), "col-1", "Write docs", "", nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, card.Position)
	assert.False(t, card.Completed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCardWithLabels(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCardRepo(db)

	labelCols := []string{"id", "card_id", "text"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(position) + 1, 0) FROM cards WHERE column_id = $1`)).
		WithArgs("col-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO cards`)).
		WillReturnRows(sqlmock.NewRows(cardCols).
			AddRow("card-1", "col-1", "Task", "", nil, nil, false, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO labels (id, card_id, text) VALUES ($1, $2, $3) RETURNING *;`)).
		WithArgs(sqlmock.AnyArg(), "card-1", "urgent").
		WillReturnRows(sqlmock.NewRows(labelCols).AddRow("label-1", "card-1", "urgent"))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO labels (id, card_id, text) VALUES ($1, $2, $3) RETURNING *;`)).
		WithArgs(sqlmock.AnyArg(), "card-1", "backend").
		WillReturnRows(sqlmock.NewRows(labelCols).AddRow("label-2", "card-1", "backend"))
	mock.ExpectCommit()

	card, err := repo.CreateCard(context.Background(), "col-1", "Task", "", nil, nil, nil, []string{"urgent", "backend"})
	require.NoError(t, err)
	require.Len(t, card.Labels, 2)
	assert.Equal(t, "urgent", card.Labels[0].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCardReplacesLabelsWholesale(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCardRepo(db)

	labels := []string{"rewritten"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE cards`)).
		WillReturnRows(sqlmock.NewRows(cardCols).
			AddRow("card-1", "col-1", "Task", "", nil, nil, false, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM labels WHERE card_id = $1;`)).
		WithArgs("card-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO labels`)).
		WithArgs(sqlmock.AnyArg(), "card-1", "rewritten").
		WillReturnRows(sqlmock.NewRows([]string{"id", "card_id", "text"}).AddRow("label-9", "card-1", "rewritten"))
	mock.ExpectCommit()

	card, err := repo.UpdateCard(context.Background(), "card-1", nil, nil, nil, nil, &labels)
	require.NoError(t, err)
	require.Len(t, card.Labels, 1)
	assert.Equal(t, "rewritten", card.Labels[0].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleCompleteIsPureComplement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCardRepo(db)

	toggleQuery := regexp.QuoteMeta(`UPDATE cards SET completed = NOT completed WHERE id = $1 RETURNING *;`)
	labelQuery := regexp.QuoteMeta(`SELECT * FROM labels WHERE card_id = $1`)

	mock.ExpectQuery(toggleQuery).
		WithArgs("card-1").
		WillReturnRows(sqlmock.NewRows(cardCols).
			AddRow("card-1", "col-1", "Task", "", nil, nil, true, 0))
	mock.ExpectQuery(labelQuery).WithArgs("card-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "card_id", "text"}))

	mock.ExpectQuery(toggleQuery).
		WithArgs("card-1").
		WillReturnRows(sqlmock.NewRows(cardCols).
			AddRow("card-1", "col-1", "Task", "", nil, nil, false, 0))
	mock.ExpectQuery(labelQuery).WithArgs("card-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "card_id", "text"}))

	first, err := repo.ToggleComplete(context.Background(), "card-1")
	require.NoError(t, err)
	assert.True(t, first.Completed)

	second, err := repo.ToggleComplete(context.Background(), "card-1")
	require.NoError(t, err)
	assert.False(t, second.Completed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoveCardReparentsAndCompactsSource(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCardRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT column_id, position FROM cards WHERE id = $1 FOR UPDATE;`)).
		WithArgs("card-7").
		WillReturnRows(sqlmock.NewRows([]string{"column_id", "position"}).AddRow("col-a", 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE cards SET position = position + 1 WHERE column_id = $1 AND position >= $2 AND id <> $3;`)).
		WithArgs("col-b", 2, "card-7").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE cards SET column_id = $1, position = $2 WHERE id = $3;`)).
		WithArgs("col-b", 2, "card-7").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE cards SET position = position - 1 WHERE column_id = $1 AND position > $2;`)).
		WithArgs("col-a", 1).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.MoveCard(context.Background(), "card-7", "col-b", 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoveCardNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCardRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT column_id, position FROM cards WHERE id = $1 FOR UPDATE;`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"column_id", "position"}))
	mock.ExpectRollback()

	err := repo.MoveCard(context.Background(), "missing", "col-b", 0)
	assert.ErrorIs(t, err, ErrCardNotFound)
}
