package board_services

import (
	"context"

	"taskboard/internal/model/board_model"
	"taskboard/internal/repository/board_repository"
)

type ColumnService struct {
	Repo *board_repository.ColumnRepo
}

func NewColumnService(r *board_repository.ColumnRepo) *ColumnService {
	return &ColumnService{Repo: r}
}

func (s *ColumnService) CreateColumn(ctx context.Context, boardID, title, color string, position *int) (*board_model.Column, error) {
	return s.Repo.CreateColumn(ctx, boardID, title, color, position)
}

func (s *ColumnService) UpdateColumn(ctx context.Context, columnID string, title, color *string, position *int) (*board_model.Column, error) {
	return s.Repo.UpdateColumn(ctx, columnID, title, color, position)
}

func (s *ColumnService) DeleteColumn(ctx context.Context, columnID string) error {
	return s.Repo.DeleteColumn(ctx, columnID)
}

func (s *ColumnService) Reorder(ctx context.Context, items []board_model.ReorderItem) error {
	return s.Repo.Reorder(ctx, items)
}
