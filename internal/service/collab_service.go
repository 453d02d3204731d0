package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hekayat-server/internal/model"
	"hekayat-server/internal/repository"
)

// CollabService - коллективные истории: основатель пишет первую главу,
// вторую и третью забирают первые откликнувшиеся авторы, третья глава
// завершает проект.
type CollabService interface {
	List(ctx context.Context) ([]model.CollabProject, error)
	Create(ctx context.Context, starter, title, description, day1 string) (*model.CollabProject, error)
	Contribute(ctx context.Context, collabID, author, text string) (*model.CollabProject, error)
}

type collabServiceImpl struct {
	collabRepo repository.CollabRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewCollabService создает сервис коллективных проектов.
func NewCollabService(collabRepo repository.CollabRepository, logger *zap.Logger) CollabService {
	return &collabServiceImpl{
		collabRepo: collabRepo,
		logger:     logger.Named("CollabService"),
		now:        time.Now,
	}
}

func (s *collabServiceImpl) List(ctx context.Context) ([]model.CollabProject, error) {
	return s.collabRepo.List(ctx)
}

func (s *collabServiceImpl) Create(ctx context.Context, starter, title, description, day1 string) (*model.CollabProject, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(day1) == "" {
		return nil, fmt.Errorf("%w: title and first chapter are required", model.ErrValidation)
	}

	collab := model.CollabProject{
		ID:          uuid.New().String(),
		Title:       title,
		Starter:     starter,
		Description: description,
		Day1:        day1,
		Status:      model.CollabActive,
		Timestamp:   s.now().UTC().Format(time.RFC3339),
	}
	if err := s.collabRepo.Create(ctx, collab); err != nil {
		return nil, err
	}
	s.logger.Info("Collab created", zap.String("collabID", collab.ID), zap.String("starter", starter))
	return &collab, nil
}

// Contribute отдает следующую свободную главу первому пришедшему.
// Проверка занятости - чтение перед записью: при одновременных заявках
// на одну главу побеждает последняя запись.
func (s *collabServiceImpl) Contribute(ctx context.Context, collabID, author, text string) (*model.CollabProject, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: chapter text is required", model.ErrValidation)
	}

	collab, err := s.collabRepo.GetByID(ctx, collabID)
	if err != nil {
		return nil, err
	}
	if collab.Status == model.CollabCompleted {
		return nil, fmt.Errorf("%w: collab is already completed", model.ErrValidation)
	}

	fields := map[string]interface{}{}
	switch {
	case collab.Day2 == "":
		collab.Day2 = text
		collab.Day2Author = author
		fields["day2"] = text
		fields["day2Author"] = author
	case collab.Day3 == "":
		collab.Day3 = text
		collab.Day3Author = author
		collab.Status = model.CollabCompleted
		fields["day3"] = text
		fields["day3Author"] = author
		fields["status"] = string(model.CollabCompleted)
	default:
		return nil, fmt.Errorf("%w: all chapters are already taken", model.ErrValidation)
	}

	if err := s.collabRepo.UpdateFields(ctx, collabID, fields); err != nil {
		return nil, err
	}
	s.logger.Info("Collab contribution accepted",
		zap.String("collabID", collabID),
		zap.String("author", author),
		zap.String("status", string(collab.Status)),
	)
	return collab, nil
}
