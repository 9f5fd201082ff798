package board_services

import (
	"context"
	"time"

	"taskboard/internal/model/board_model"
	"taskboard/internal/repository/board_repository"
)

type CardService struct {
	Repo *board_repository.CardRepo
}

func NewCardService(r *board_repository.CardRepo) *CardService {
	return &CardService{Repo: r}
}

func (s *CardService) CreateCard(ctx context.Context, columnID, title, description string, imageURL *string, dueDate *time.Time, position *int, labels []string) (*board_model.Card, error) {
	return s.Repo.CreateCard(ctx, columnID, title, description, imageURL, dueDate, position, labels)
}

func (s *CardService) GetCard(ctx context.Context, cardID string) (*board_model.Card, error) {
	return s.Repo.GetCard(ctx, cardID)
}

func (s *CardService) UpdateCard(ctx context.Context, cardID string, title, description, imageURL *string, dueDate *time.Time, labels *[]string) (*board_model.Card, error) {
	return s.Repo.UpdateCard(ctx, cardID, title, description, imageURL, dueDate, labels)
}

func (s *CardService) DeleteCard(ctx context.Context, cardID string) error {
	return s.Repo.DeleteCard(ctx, cardID)
}

func (s *CardService) MoveCard(ctx context.Context, cardID, targetColumnID string, position int) error {
	return s.Repo.MoveCard(ctx, cardID, targetColumnID, position)
}

func (s *CardService) ToggleComplete(ctx context.Context, cardID string) (*board_model.Card, error) {
	return s.Repo.ToggleComplete(ctx, cardID)
}
