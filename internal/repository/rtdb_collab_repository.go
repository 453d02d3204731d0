package repository

import (
	"context"
	"fmt"
	"sort"

	"firebase.google.com/go/v4/db"
	"go.uber.org/zap"

	"hekayat-server/internal/model"
)

// Compile-time check to ensure rtdbCollabRepository implements CollabRepository
var _ CollabRepository = (*rtdbCollabRepository)(nil)

type rtdbCollabRepository struct {
	ref    *db.Ref
	logger *zap.Logger
}

// NewRTDBCollabRepository создает репозиторий коллективных проектов.
func NewRTDBCollabRepository(client *db.Client, basePath string, logger *zap.Logger) CollabRepository {
	return &rtdbCollabRepository{
		ref:    client.NewRef(basePath + "/collabs"),
		logger: logger.Named("RTDBCollabRepo"),
	}
}

func (r *rtdbCollabRepository) List(ctx context.Context) ([]model.CollabProject, error) {
	var raw map[string]model.CollabProject
	if err := r.ref.Get(ctx, &raw); err != nil {
		r.logger.Error("Failed to load collabs collection", zap.Error(err))
		return nil, fmt.Errorf("failed to load collabs: %w", err)
	}

	collabs := make([]model.CollabProject, 0, len(raw))
	for id, c := range raw {
		if c.ID == "" {
			c.ID = id
		}
		collabs = append(collabs, c)
	}
	sort.Slice(collabs, func(i, j int) bool { return collabs[i].Timestamp > collabs[j].Timestamp })
	return collabs, nil
}

func (r *rtdbCollabRepository) GetByID(ctx context.Context, id string) (*model.CollabProject, error) {
	var c model.CollabProject
	if err := r.ref.Child(id).Get(ctx, &c); err != nil {
		r.logger.Error("Failed to load collab", zap.String("collabID", id), zap.Error(err))
		return nil, fmt.Errorf("failed to load collab %s: %w", id, err)
	}
	if c.ID == "" && c.Starter == "" {
		return nil, model.ErrNotFound
	}
	if c.ID == "" {
		c.ID = id
	}
	return &c, nil
}

func (r *rtdbCollabRepository) Create(ctx context.Context, collab model.CollabProject) error {
	if err := r.ref.Child(collab.ID).Set(ctx, collab); err != nil {
		r.logger.Error("Failed to create collab", zap.String("collabID", collab.ID), zap.Error(err))
		return fmt.Errorf("failed to create collab %s: %w", collab.ID, err)
	}
	return nil
}

func (r *rtdbCollabRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := r.ref.Child(id).Update(ctx, fields); err != nil {
		r.logger.Error("Failed to update collab", zap.String("collabID", id), zap.Error(err))
		return fmt.Errorf("failed to update collab %s: %w", id, err)
	}
	return nil
}
