package board_repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taskboard/internal/model/board_model"
)

var (
	ErrBoardNotFound      = errors.New("board not found")
	ErrColumnCreateFailed = errors.New("column creation failed")
)

// defaultColumns are created with every new board, positions 0..2.
var defaultColumns = []board_model.Column{
	{Title: "Todo", Color: "#e2e8f0"},
	{Title: "In Progress", Color: "#bfdbfe"},
	{Title: "Done", Color: "#bbf7d0"},
}

type BoardRepo struct {
	DB *sqlx.DB
}

func NewBoardRepo(db *sqlx.DB) *BoardRepo {
	return &BoardRepo{DB: db}
}

func (r *BoardRepo) CreateBoard(ctx context.Context, userID int, title, description string) (*board_model.Board, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer tx.Rollback()

	board, err := insertBoardWithDefaults(ctx, tx, userID, title, description)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("transaction commit failed: %w", err)
	}
	return board, nil
}

// ProvisionIfEmpty creates the default board for a first-time user. The
// zero-board check runs again inside the transaction, so two racing first
// logins can only both provision within the commit window.
func (r *BoardRepo) ProvisionIfEmpty(ctx context.Context, userID int, title string) (*board_model.Board, bool, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("could not start transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM boards WHERE user_id = $1`, userID); err != nil {
		return nil, false, fmt.Errorf("failed to count boards: %w", err)
	}
	if count > 0 {
		return nil, false, nil
	}

	board, err := insertBoardWithDefaults(ctx, tx, userID, title, "")
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("transaction commit failed: %w", err)
	}
	return board, true, nil
}

func insertBoardWithDefaults(ctx context.Context, tx *sqlx.Tx, userID int, title, description string) (*board_model.Board, error) {
	boardID := uuid.New().String()
	board := &board_model.Board{}

	qBoard := `INSERT INTO boards (id, user_id, title, description) VALUES ($1, $2, $3, $4) RETURNING *;`
	err := tx.QueryRowxContext(ctx, qBoard, boardID, userID, title, description).StructScan(board)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	qColumn := `INSERT INTO columns (id, board_id, title, color, position) VALUES ($1, $2, $3, $4, $5);`
	for i, col := range defaultColumns {
		_, err = tx.ExecContext(ctx, qColumn, uuid.New().String(), board.ID, col.Title, col.Color, i)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrColumnCreateFailed, err)
		}
	}

	return board, nil
}

func (r *BoardRepo) GetAllUserBoards(ctx context.Context, userID int) ([]*board_model.Board, error) {
	boards := []*board_model.Board{}
	q := `SELECT * FROM boards WHERE user_id = $1 ORDER BY created_at;`
	if err := r.DB.SelectContext(ctx, &boards, q, userID); err != nil {
		return nil, err
	}
	return boards, nil
}

func (r *BoardRepo) GetOneBoard(ctx context.Context, boardID string) (*board_model.BoardWithColumns, error) {
	var board board_model.Board
	err := r.DB.GetContext(ctx, &board, `SELECT * FROM boards WHERE id = $1`, boardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}

	columns := []*board_model.Column{}
	err = r.DB.SelectContext(ctx, &columns,
		`SELECT id, board_id, title, color, position FROM columns WHERE board_id = $1 ORDER BY position`, boardID)
	if err != nil {
		return nil, err
	}

	if len(columns) > 0 {
		columnIDs := make([]string, len(columns))
		columnMap := make(map[string]*board_model.Column)
		for i, col := range columns {
			columnIDs[i] = col.ID
			columnMap[col.ID] = col
		}

		query, args, err := sqlx.In(`SELECT * FROM cards WHERE column_id IN (?) ORDER BY column_id, position`, columnIDs)
		if err != nil {
			return nil, err
		}
		query = r.DB.Rebind(query)

		cards := []*board_model.Card{}
		if err := r.DB.SelectContext(ctx, &cards, query, args...); err != nil {
			return nil, err
		}

		if len(cards) > 0 {
			cardIDs := make([]string, len(cards))
			cardMap := make(map[string]*board_model.Card)
			for i, card := range cards {
				card.Labels = []*board_model.Label{}
				cardIDs[i] = card.ID
				cardMap[card.ID] = card
			}

			query, args, err = sqlx.In(`SELECT * FROM labels WHERE card_id IN (?)`, cardIDs)
			if err != nil {
				return nil, err
			}
			query = r.DB.Rebind(query)

			labels := []*board_model.Label{}
			if err := r.DB.SelectContext(ctx, &labels, query, args...); err != nil {
				return nil, err
			}
			for _, label := range labels {
				if card, ok := cardMap[label.CardID]; ok {
					card.Labels = append(card.Labels, label)
				}
			}
		}

		for _, card := range cards {
			if col, ok := columnMap[card.ColumnID]; ok {
				col.Cards = append(col.Cards, card)
			}
		}
	}

	return &board_model.BoardWithColumns{
		ID:          board.ID,
		Title:       board.Title,
		Description: board.Description,
		Columns:     columns,
	}, nil
}

func (r *BoardRepo) UpdateBoard(ctx context.Context, boardID, title, description string) (*board_model.Board, error) {
	q := `UPDATE boards SET title = $1, description = $2, updated_at = NOW() WHERE id = $3 RETURNING *;`
	var board board_model.Board
	err := r.DB.QueryRowxContext(ctx, q, title, description, boardID).StructScan(&board)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}
	return &board, nil
}

// DeleteBoard removes the board; columns, cards and labels go with it via
// ON DELETE CASCADE, so no orphan can survive a concurrent insert.
func (r *BoardRepo) DeleteBoard(ctx context.Context, boardID string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM boards WHERE id = $1;`, boardID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrBoardNotFound
	}
	return nil
}

func (r *BoardRepo) OwnerID(ctx context.Context, boardID string) (int, error) {
	var ownerID int
	q := `SELECT user_id FROM boards WHERE id = $1`
	err := r.DB.GetContext(ctx, &ownerID, q, boardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrBoardNotFound
		}
		return 0, fmt.Errorf("failed to get board owner: %w", err)
	}
	return ownerID, nil
}

// OwnerIDByColumn walks Column → Board → owner.
func (r *BoardRepo) OwnerIDByColumn(ctx context.Context, columnID string) (int, error) {
	var ownerID int
	q := `
        SELECT b.user_id
        FROM boards b
        JOIN columns c ON b.id = c.board_id
        WHERE c.id = $1;
    `
	err := r.DB.GetContext(ctx, &ownerID, q, columnID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrColumnNotFound
		}
		return 0, fmt.Errorf("failed to get board owner by column: %w", err)
	}
	return ownerID, nil
}

// OwnerIDByCard walks Card → Column → Board → owner.
func (r *BoardRepo) OwnerIDByCard(ctx context.Context, cardID string) (int, error) {
	var ownerID int
	q := `
        SELECT b.user_id
        FROM boards b
        JOIN columns c ON b.id = c.board_id
        JOIN cards ca ON c.id = ca.column_id
        WHERE ca.id = $1;
    `
	err := r.DB.GetContext(ctx, &ownerID, q, cardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrCardNotFound
		}
		return 0, fmt.Errorf("failed to get board owner by card: %w", err)
	}
	return ownerID, nil
}
