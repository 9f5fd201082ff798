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
	ErrColumnNotFound     = errors.New("column not found")
	ErrColumnReorderEmpty = errors.New("no columns to reorder")
)

type ColumnRepo struct {
	DB *sqlx.DB
}

func NewColumnRepo(db *sqlx.DB) *ColumnRepo {
	return &ColumnRepo{DB: db}
}

// CreateColumn inserts a column under the board. Without an explicit
// position it appends at max(position)+1, or 0 for an empty board.
func (r *ColumnRepo) CreateColumn(ctx context.Context, boardID, title, color string, position *int) (*board_model.Column, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer tx.Rollback()

	newPosition := 0
	if position != nil {
		newPosition = *position
	} else {
		qPos := `SELECT COALESCE(MAX(position) + 1, 0) FROM columns WHERE board_id = $1`
		if err := tx.GetContext(ctx, &newPosition, qPos, boardID); err != nil {
			return nil, fmt.Errorf("failed to get max position: %w", err)
		}
	}

	column := &board_model.Column{}
	qInsert := `INSERT INTO columns (id, board_id, title, color, position) VALUES ($1, $2, $3, $4, $5) RETURNING *;`
	err = tx.QueryRowxContext(ctx, qInsert, uuid.New().String(), boardID, title, color, newPosition).StructScan(column)
	if err != nil {
		return nil, fmt.Errorf("failed to insert column: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("transaction commit failed: %w", err)
	}
	return column, nil
}

// UpdateColumn updates only the fields that are non-nil.
func (r *ColumnRepo) UpdateColumn(ctx context.Context, columnID string, title, color *string, position *int) (*board_model.Column, error) {
	q := `
        UPDATE columns
        SET title = COALESCE($1, title),
            color = COALESCE($2, color),
            position = COALESCE($3, position)
        WHERE id = $4
        RETURNING *;
    `
	var column board_model.Column
	err := r.DB.QueryRowxContext(ctx, q, title, color, position, columnID).StructScan(&column)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrColumnNotFound
		}
		return nil, err
	}
	return &column, nil
}

// DeleteColumn removes the column (cards and labels cascade) and closes the
// position gap it leaves behind.
func (r *ColumnRepo) DeleteColumn(ctx context.Context, columnID string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}
	defer tx.Rollback()

	var deleted struct {
		BoardID  string `db:"board_id"`
		Position int    `db:"position"`
	}
	qFind := `SELECT board_id, position FROM columns WHERE id = $1 FOR UPDATE;`
	err = tx.GetContext(ctx, &deleted, qFind, columnID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrColumnNotFound
		}
		return fmt.Errorf("failed to get column position: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM columns WHERE id = $1;`, columnID)
	if err != nil {
		return fmt.Errorf("failed to delete column: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrColumnNotFound
	}

	qCompact := `UPDATE columns SET position = position - 1 WHERE board_id = $1 AND position > $2;`
	if _, err := tx.ExecContext(ctx, qCompact, deleted.BoardID, deleted.Position); err != nil {
		return fmt.Errorf("failed to update positions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

// Reorder applies the (id, position) pairs in the submitted order inside a
// single transaction, so a partial reorder is never observable. Callers must
// have verified ownership of every pair before calling.
func (r *ColumnRepo) Reorder(ctx context.Context, items []board_model.ReorderItem) error {
	if len(items) == 0 {
		return ErrColumnReorderEmpty
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}
	defer tx.Rollback()

	q := `UPDATE columns SET position = $1 WHERE id = $2;`
	for _, item := range items {
		result, err := tx.ExecContext(ctx, q, item.Position, item.ID)
		if err != nil {
			return fmt.Errorf("failed to reorder column %s: %w", item.ID, err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return ErrColumnNotFound
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}
