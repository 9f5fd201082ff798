package board_model

import (
	"time"
)

type Board struct {
	ID          string     `db:"id" json:"id"`
	UserID      int        `db:"user_id" json:"user_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

type Column struct {
	ID       string  `db:"id" json:"id"`
	BoardID  string  `db:"board_id" json:"board_id"`
	Title    string  `db:"title" json:"title"`
	Color    string  `db:"color" json:"color"`
	Position int     `db:"position" json:"position"`
	Cards    []*Card `db:"-" json:"cards,omitempty"`
}

type Card struct {
	ID          string     `db:"id" json:"id"`
	ColumnID    string     `db:"column_id" json:"column_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	ImageURL    *string    `db:"image_url" json:"image_url,omitempty"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	Completed   bool       `db:"completed" json:"completed"`
	Position    int        `db:"position" json:"position"`
	Labels      []*Label   `db:"-" json:"labels"`
}

type Label struct {
	ID     string `db:"id" json:"id"`
	CardID string `db:"card_id" json:"card_id"`
	Text   string `db:"text" json:"text"`
}

type BoardWithColumns struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Columns     []*Column `json:"columns"`
}

// ReorderItem is one (id, position) pair of a batch column reorder.
type ReorderItem struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}
