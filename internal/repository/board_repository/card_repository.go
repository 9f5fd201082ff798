package board_repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taskboard/internal/model/board_model"
)

var (
	ErrCardNotFound   = errors.New("card not found")
	ErrCardMoveFailed = errors.New("card move failed")
)

type CardRepo struct {
	DB *sqlx.DB
}

func NewCardRepo(db *sqlx.DB) *CardRepo {
	return &CardRepo{DB: db}
}

// CreateCard inserts a card under the column. Without an explicit position
// it appends at max(position)+1, or 0 for an empty column.
func (r *CardRepo) CreateCard(ctx context.Context, columnID, title, description string, imageURL *string, dueDate *time.Time, position *int, labels []string) (*board_model.Card, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer tx.Rollback()

	newPosition := 0
	if position != nil {
		newPosition = *position
	} else {
		qPos := `SELECT COALESCE(MAX(position) + 1, 0) FROM cards WHERE column_id = $1`
		if err := tx.GetContext(ctx, &newPosition, qPos, columnID); err != nil {
			return nil, fmt.Errorf("failed to get max position: %w", err)
		}
	}

	card := &board_model.Card{}
	qInsert := `
        INSERT INTO cards (id, column_id, title, description, image_url, due_date, position)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING *;
    `
	err = tx.QueryRowxContext(ctx, qInsert, uuid.New().String(), columnID, title, description, imageURL, dueDate, newPosition).StructScan(card)
	if err != nil {
		return nil, fmt.Errorf("failed to insert card: %w", err)
	}

	card.Labels, err = insertLabels(ctx, tx, card.ID, labels)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("transaction commit failed: %w", err)
	}
	return card, nil
}

func (r *CardRepo) GetCard(ctx context.Context, cardID string) (*board_model.Card, error) {
	var card board_model.Card
	err := r.DB.GetContext(ctx, &card, `SELECT * FROM cards WHERE id = $1`, cardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	card.Labels = []*board_model.Label{}
	err = r.DB.SelectContext(ctx, &card.Labels, `SELECT * FROM labels WHERE card_id = $1`, cardID)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// UpdateCard updates the non-nil fields. A non-nil label slice replaces the
// card's whole label set (delete all, then recreate) in the same transaction.
func (r *CardRepo) UpdateCard(ctx context.Context, cardID string, title, description, imageURL *string, dueDate *time.Time, labels *[]string) (*board_model.Card, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer tx.Rollback()

	q := `
        UPDATE cards
        SET title = COALESCE($1, title),
            description = COALESCE($2, description),
            image_url = COALESCE($3, image_url),
            due_date = COALESCE($4, due_date)
        WHERE id = $5
        RETURNING *;
    `
	card := &board_model.Card{}
	err = tx.QueryRowxContext(ctx, q, title, description, imageURL, dueDate, cardID).StructScan(card)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	if labels != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM labels WHERE card_id = $1;`, cardID); err != nil {
			return nil, fmt.Errorf("failed to delete old labels: %w", err)
		}
		card.Labels, err = insertLabels(ctx, tx, cardID, *labels)
		if err != nil {
			return nil, err
		}
	} else {
		card.Labels = []*board_model.Label{}
		if err := tx.SelectContext(ctx, &card.Labels, `SELECT * FROM labels WHERE card_id = $1`, cardID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("transaction commit failed: %w", err)
	}
	return card, nil
}

// DeleteCard removes the card (labels cascade) and closes the position gap.
func (r *CardRepo) DeleteCard(ctx context.Context, cardID string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}
	defer tx.Rollback()

	var deleted struct {
		ColumnID string `db:"column_id"`
		Position int    `db:"position"`
	}
	qFind := `SELECT column_id, position FROM cards WHERE id = $1 FOR UPDATE;`
	err = tx.GetContext(ctx, &deleted, qFind, cardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCardNotFound
		}
		return fmt.Errorf("failed to get card position: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE id = $1;`, cardID)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrCardNotFound
	}

	qCompact := `UPDATE cards SET position = position - 1 WHERE column_id = $1 AND position > $2;`
	if _, err := tx.ExecContext(ctx, qCompact, deleted.ColumnID, deleted.Position); err != nil {
		return fmt.Errorf("failed to update positions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

// MoveCard re-parents the card into targetColumnID at position in one
// atomic step and closes the gap left in the source column.
func (r *CardRepo) MoveCard(ctx context.Context, cardID, targetColumnID string, position int) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}
	defer tx.Rollback()

	var current struct {
		ColumnID string `db:"column_id"`
		Position int    `db:"position"`
	}
	qFind := `SELECT column_id, position FROM cards WHERE id = $1 FOR UPDATE;`
	err = tx.GetContext(ctx, &current, qFind, cardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCardNotFound
		}
		return fmt.Errorf("failed to get card: %w", err)
	}

	qMakeRoom := `UPDATE cards SET position = position + 1 WHERE column_id = $1 AND position >= $2 AND id <> $3;`
	if _, err := tx.ExecContext(ctx, qMakeRoom, targetColumnID, position, cardID); err != nil {
		return fmt.Errorf("%w: failed to shift target positions: %v", ErrCardMoveFailed, err)
	}

	qMove := `UPDATE cards SET column_id = $1, position = $2 WHERE id = $3;`
	if _, err := tx.ExecContext(ctx, qMove, targetColumnID, position, cardID); err != nil {
		return fmt.Errorf("%w: %v", ErrCardMoveFailed, err)
	}

	if current.ColumnID != targetColumnID {
		qCompact := `UPDATE cards SET position = position - 1 WHERE column_id = $1 AND position > $2;`
		if _, err := tx.ExecContext(ctx, qCompact, current.ColumnID, current.Position); err != nil {
			return fmt.Errorf("%w: failed to compact source positions: %v", ErrCardMoveFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

// ToggleComplete flips the completed flag. Pure complement, not set-to-true:
// two toggles restore the original value.
func (r *CardRepo) ToggleComplete(ctx context.Context, cardID string) (*board_model.Card, error) {
	q := `UPDATE cards SET completed = NOT completed WHERE id = $1 RETURNING *;`
	var card board_model.Card
	err := r.DB.QueryRowxContext(ctx, q, cardID).StructScan(&card)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	card.Labels = []*board_model.Label{}
	if err := r.DB.SelectContext(ctx, &card.Labels, `SELECT * FROM labels WHERE card_id = $1`, cardID); err != nil {
		return nil, err
	}
	return &card, nil
}

func insertLabels(ctx context.Context, tx *sqlx.Tx, cardID string, texts []string) ([]*board_model.Label, error) {
	labels := make([]*board_model.Label, 0, len(texts))
	q := `INSERT INTO labels (id, card_id, text) VALUES ($1, $2, $3) RETURNING *;`
	for _, text := range texts {
		label := &board_model.Label{}
		if err := tx.QueryRowxContext(ctx, q, uuid.New().String(), cardID, text).StructScan(label); err != nil {
			return nil, fmt.Errorf("failed to insert label: %w", err)
		}
		labels = append(labels, label)
	}
	return labels, nil
}
