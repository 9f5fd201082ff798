package board_services

import (
	"context"

	"taskboard/internal/model/board_model"
	"taskboard/internal/repository/board_repository"
)

type BoardService struct {
	Repo *board_repository.BoardRepo
}

func NewBoardService(r *board_repository.BoardRepo) *BoardService {
	return &BoardService{Repo: r}
}

func (s *BoardService) CreateBoard(ctx context.Context, userID int, title, description string) (*board_model.Board, error) {
	return s.Repo.CreateBoard(ctx, userID, title, description)
}

func (s *BoardService) GetAllUserBoards(ctx context.Context, userID int) ([]*board_model.Board, error) {
	return s.Repo.GetAllUserBoards(ctx, userID)
}

func (s *BoardService) GetOneBoard(ctx context.Context, boardID string) (*board_model.BoardWithColumns, error) {
	return s.Repo.GetOneBoard(ctx, boardID)
}

func (s *BoardService) UpdateBoard(ctx context.Context, boardID, title, description string) (*board_model.Board, error) {
	return s.Repo.UpdateBoard(ctx, boardID, title, description)
}

func (s *BoardService) DeleteBoard(ctx context.Context, boardID string) error {
	return s.Repo.DeleteBoard(ctx, boardID)
}

// ProvisionIfEmpty creates the default board for a user with no boards yet.
func (s *BoardService) ProvisionIfEmpty(ctx context.Context, userID int, title string) (*board_model.Board, bool, error) {
	return s.Repo.ProvisionIfEmpty(ctx, userID, title)
}
