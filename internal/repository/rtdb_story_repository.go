package repository

import (
	"context"
	"fmt"
	"sort"

	"firebase.google.com/go/v4/db"
	"go.uber.org/zap"

	"hekayat-server/internal/model"
)

// Compile-time check to ensure rtdbStoryRepository implements StoryRepository
var _ StoryRepository = (*rtdbStoryRepository)(nil)

type rtdbStoryRepository struct {
	ref    *db.Ref
	logger *zap.Logger
}

// NewRTDBStoryRepository создает репозиторий историй поверх Realtime Database.
func NewRTDBStoryRepository(client *db.Client, basePath string, logger *zap.Logger) StoryRepository {
	return &rtdbStoryRepository{
		ref:    client.NewRef(basePath + "/stories"),
		logger: logger.Named("RTDBStoryRepo"),
	}
}

// List читает всю коллекцию историй. Порядок стабилен: по убыванию
// StartDate, при равенстве - по ID.
func (r *rtdbStoryRepository) List(ctx context.Context) ([]model.Story, error) {
	var raw map[string]model.Story
	if err := r.ref.Get(ctx, &raw); err != nil {
		r.logger.Error("Failed to load stories collection", zap.Error(err))
		return nil, fmt.Errorf("failed to load stories: %w", err)
	}

	stories := make([]model.Story, 0, len(raw))
	for id, s := range raw {
		if s.ID == "" {
			s.ID = id
		}
		stories = append(stories, s)
	}
	sort.Slice(stories, func(i, j int) bool {
		if stories[i].StartDate != stories[j].StartDate {
			return stories[i].StartDate > stories[j].StartDate
		}
		return stories[i].ID < stories[j].ID
	})

	r.logger.Debug("Stories collection loaded", zap.Int("count", len(stories)))
	return stories, nil
}

func (r *rtdbStoryRepository) GetByID(ctx context.Context, id string) (*model.Story, error) {
	var s model.Story
	if err := r.ref.Child(id).Get(ctx, &s); err != nil {
		r.logger.Error("Failed to load story", zap.String("storyID", id), zap.Error(err))
		return nil, fmt.Errorf("failed to load story %s: %w", id, err)
	}
	// RTDB возвращает null для отсутствующего узла - структура остается нулевой.
	if s.ID == "" && s.Title == "" {
		return nil, model.ErrNotFound
	}
	if s.ID == "" {
		s.ID = id
	}
	return &s, nil
}

// UpsertMany пишет истории точечными обновлениями по ключу за один вызов.
// Коллекция целиком никогда не заменяется.
func (r *rtdbStoryRepository) UpsertMany(ctx context.Context, stories []model.Story) error {
	if len(stories) == 0 {
		return nil
	}
	updates := make(map[string]interface{}, len(stories))
	for _, s := range stories {
		updates[s.ID] = s
	}
	if err := r.ref.Update(ctx, updates); err != nil {
		r.logger.Error("Failed to upsert stories", zap.Int("count", len(stories)), zap.Error(err))
		return fmt.Errorf("failed to upsert %d stories: %w", len(stories), err)
	}
	r.logger.Debug("Stories upserted", zap.Int("count", len(stories)))
	return nil
}

func (r *rtdbStoryRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := r.ref.Child(id).Update(ctx, fields); err != nil {
		r.logger.Error("Failed to update story fields", zap.String("storyID", id), zap.Error(err))
		return fmt.Errorf("failed to update story %s: %w", id, err)
	}
	return nil
}
