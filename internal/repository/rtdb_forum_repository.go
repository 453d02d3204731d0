package repository

import (
	"context"
	"fmt"
	"sort"

	"firebase.google.com/go/v4/db"
	"go.uber.org/zap"

	"hekayat-server/internal/model"
)

// Compile-time check to ensure rtdbForumRepository implements ForumRepository
var _ ForumRepository = (*rtdbForumRepository)(nil)

type rtdbForumRepository struct {
	ref    *db.Ref
	logger *zap.Logger
}

// NewRTDBForumRepository создает репозиторий постов форума.
func NewRTDBForumRepository(client *db.Client, basePath string, logger *zap.Logger) ForumRepository {
	return &rtdbForumRepository{
		ref:    client.NewRef(basePath + "/forum"),
		logger: logger.Named("RTDBForumRepo"),
	}
}

// List возвращает посты, свежие первыми.
func (r *rtdbForumRepository) List(ctx context.Context) ([]model.ForumPost, error) {
	var raw map[string]model.ForumPost
	if err := r.ref.Get(ctx, &raw); err != nil {
		r.logger.Error("Failed to load forum collection", zap.Error(err))
		return nil, fmt.Errorf("failed to load forum posts: %w", err)
	}

	posts := make([]model.ForumPost, 0, len(raw))
	for id, p := range raw {
		if p.ID == "" {
			p.ID = id
		}
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].Timestamp > posts[j].Timestamp })
	return posts, nil
}

func (r *rtdbForumRepository) GetByID(ctx context.Context, id string) (*model.ForumPost, error) {
	var p model.ForumPost
	if err := r.ref.Child(id).Get(ctx, &p); err != nil {
		r.logger.Error("Failed to load forum post", zap.String("postID", id), zap.Error(err))
		return nil, fmt.Errorf("failed to load forum post %s: %w", id, err)
	}
	if p.ID == "" && p.Author == "" {
		return nil, model.ErrNotFound
	}
	if p.ID == "" {
		p.ID = id
	}
	return &p, nil
}

func (r *rtdbForumRepository) Create(ctx context.Context, post model.ForumPost) error {
	if err := r.ref.Child(post.ID).Set(ctx, post); err != nil {
		r.logger.Error("Failed to create forum post", zap.String("postID", post.ID), zap.Error(err))
		return fmt.Errorf("failed to create forum post %s: %w", post.ID, err)
	}
	return nil
}

func (r *rtdbForumRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := r.ref.Child(id).Update(ctx, fields); err != nil {
		r.logger.Error("Failed to update forum post", zap.String("postID", id), zap.Error(err))
		return fmt.Errorf("failed to update forum post %s: %w", id, err)
	}
	return nil
}

// AddComment дописывает комментарий в карту comments документа поста.
func (r *rtdbForumRepository) AddComment(ctx context.Context, postID string, comment model.Comment) error {
	ref := r.ref.Child(postID).Child("comments").Child(comment.ID)
	if err := ref.Set(ctx, comment); err != nil {
		r.logger.Error("Failed to add comment",
			zap.String("postID", postID),
			zap.String("commentID", comment.ID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to add comment to post %s: %w", postID, err)
	}
	return nil
}
