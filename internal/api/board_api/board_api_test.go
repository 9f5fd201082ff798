package board_api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/api/middlewares"
	"taskboard/internal/repository/board_repository"
	"taskboard/internal/services/board_services"
)

type resolverStub struct {
	byColumn func(columnID string) (int, error)
}

func (r *resolverStub) OwnerID(ctx context.Context, boardID string) (int, error) {
	return 0, board_repository.ErrBoardNotFound
}

func (r *resolverStub) OwnerIDByColumn(ctx context.Context, columnID string) (int, error) {
	return r.byColumn(columnID)
}

func (r *resolverStub) OwnerIDByCard(ctx context.Context, cardID string) (int, error) {
	return 0, board_repository.ErrCardNotFound
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func authedRequest(method, path, body string, vars map[string]string, userID int) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req.WithContext(middlewares.WithUserID(req.Context(), userID))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestCreateBoardRequiresTitle(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewBoardHandler(board_services.NewBoardService(board_repository.NewBoardRepo(db)), nil)

	rec := httptest.NewRecorder()
	h.createBoard(rec, authedRequest("POST", "/boards", `{"title":"  "}`, nil, 7))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBoardEmptyBodyIsBadRequest(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewBoardHandler(board_services.NewBoardService(board_repository.NewBoardRepo(db)), nil)

	rec := httptest.NewRecorder()
	h.createBoard(rec, authedRequest("POST", "/boards", "", nil, 7))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCardTruncatedBodyIsBadRequest(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewCardHandler(board_services.NewCardService(board_repository.NewCardRepo(db)), nil, &resolverStub{})

	rec := httptest.NewRecorder()
	h.updateCard(rec, authedRequest("PUT", "/cards/card-1", `{"title":"half`, map[string]string{"cardID": "card-1"}, 7))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllUserBoardsFiltersByOwner(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewBoardHandler(board_services.NewBoardService(board_repository.NewBoardRepo(db)), nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM boards WHERE user_id = $1`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "description", "created_at", "updated_at"}).
			AddRow("board-1", 7, "My Board", "", time.Now(), nil))

	rec := httptest.NewRecorder()
	h.getAllUserBoards(rec, authedRequest("GET", "/boards", "", nil, 7))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	boards := body["data"].(map[string]any)["boards"].([]any)
	assert.Len(t, boards, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoveCardForeignTargetColumn(t *testing.T) {
	db, mock := newMockDB(t)
	owners := &resolverStub{byColumn: func(string) (int, error) { return 9, nil }}
	h := NewCardHandler(board_services.NewCardService(board_repository.NewCardRepo(db)), nil, owners)

	rec := httptest.NewRecorder()
	h.moveCard(rec, authedRequest("POST", "/cards/card-7/move",
		`{"column_id":"col-b","position":2}`, map[string]string{"cardID": "card-7"}, 7))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	// No SQL was expected and none may have run.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoveCardMissingTargetColumn(t *testing.T) {
	db, mock := newMockDB(t)
	owners := &resolverStub{byColumn: func(string) (int, error) { return 0, board_repository.ErrColumnNotFound }}
	h := NewCardHandler(board_services.NewCardService(board_repository.NewCardRepo(db)), nil, owners)

	rec := httptest.NewRecorder()
	h.moveCard(rec, authedRequest("POST", "/cards/card-7/move",
		`{"column_id":"missing","position":0}`, map[string]string{"cardID": "card-7"}, 7))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoveCardValidatesBody(t *testing.T) {
	db, _ := newMockDB(t)
	h := NewCardHandler(board_services.NewCardService(board_repository.NewCardRepo(db)), nil, &resolverStub{})

	rec := httptest.NewRecorder()
	h.moveCard(rec, authedRequest("POST", "/cards/card-7/move", `{}`, map[string]string{"cardID": "card-7"}, 7))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReorderColumnsChecksEveryPairBeforeWriting(t *testing.T) {
	db, mock := newMockDB(t)
	owners := &resolverStub{byColumn: func(columnID string) (int, error) {
		if columnID == "col-2" {
			return 9, nil // someone else's column
		}
		return 7, nil
	}}
	h := NewColumnHandler(board_services.NewColumnService(board_repository.NewColumnRepo(db)), nil, owners)

	rec := httptest.NewRecorder()
	h.reorderColumns(rec, authedRequest("POST", "/columns/reorder",
		`{"columns":[{"id":"col-1","position":0},{"id":"col-2","position":1}]}`, nil, 7))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderColumnsHappyPath(t *testing.T) {
	db, mock := newMockDB(t)
	owners := &resolverStub{byColumn: func(string) (int, error) { return 7, nil }}
	h := NewColumnHandler(board_services.NewColumnService(board_repository.NewColumnRepo(db)), nil, owners)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE columns SET position = $1 WHERE id = $2;`)).
		WithArgs(0, "col-2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE columns SET position = $1 WHERE id = $2;`)).
		WithArgs(1, "col-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec := httptest.NewRecorder()
	h.reorderColumns(rec, authedRequest("POST", "/columns/reorder",
		`{"columns":[{"id":"col-2","position":0},{"id":"col-1","position":1}]}`, nil, 7))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderColumnsEmptyBatch(t *testing.T) {
	db, _ := newMockDB(t)
	h := NewColumnHandler(board_services.NewColumnService(board_repository.NewColumnRepo(db)), nil, &resolverStub{})

	rec := httptest.NewRecorder()
	h.reorderColumns(rec, authedRequest("POST", "/columns/reorder", `{"columns":[]}`, nil, 7))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleCompleteEnvelope(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewCardHandler(board_services.NewCardService(board_repository.NewCardRepo(db)), nil, &resolverStub{})

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE cards SET completed = NOT completed WHERE id = $1 RETURNING *;`)).
		WithArgs("card-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "column_id", "title", "description", "image_url", "due_date", "completed", "position"}).
			AddRow("card-1", "col-1", "Task", "", nil, nil, true, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM labels WHERE card_id = $1`)).
		WithArgs("card-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "card_id", "text"}))

	rec := httptest.NewRecorder()
	h.toggleComplete(rec, authedRequest("PUT", "/cards/card-1/toggle-complete", "", map[string]string{"cardID": "card-1"}, 7))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	card := body["data"].(map[string]any)["card"].(map[string]any)
	assert.Equal(t, true, card["completed"])
}
