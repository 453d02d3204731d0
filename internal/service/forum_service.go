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

// ForumService - посты форума, лайки, репосты и комментарии.
type ForumService interface {
	List(ctx context.Context) ([]model.ForumPost, error)
	CreatePost(ctx context.Context, author, title, content string, tags []string) (*model.ForumPost, error)
	// Like и Repost инкрементируют счетчики чтением-записью: хранилище
	// без транзакций, одновременные инкременты могут потеряться.
	Like(ctx context.Context, postID string) error
	Repost(ctx context.Context, postID string) error
	AddComment(ctx context.Context, postID, username, text string) (*model.Comment, error)
}

type forumServiceImpl struct {
	forumRepo repository.ForumRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewForumService создает сервис форума.
func NewForumService(forumRepo repository.ForumRepository, logger *zap.Logger) ForumService {
	return &forumServiceImpl{
		forumRepo: forumRepo,
		logger:    logger.Named("ForumService"),
		now:       time.Now,
	}
}

func (s *forumServiceImpl) List(ctx context.Context) ([]model.ForumPost, error) {
	return s.forumRepo.List(ctx)
}

func (s *forumServiceImpl) CreatePost(ctx context.Context, author, title, content string, tags []string) (*model.ForumPost, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", model.ErrValidation)
	}
	if tags == nil {
		tags = []string{}
	}

	post := model.ForumPost{
		ID:        uuid.New().String(),
		Author:    author,
		Title:     title,
		Content:   content,
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Tags:      tags,
	}
	if err := s.forumRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	s.logger.Info("Forum post created", zap.String("postID", post.ID), zap.String("author", author))
	return &post, nil
}

func (s *forumServiceImpl) Like(ctx context.Context, postID string) error {
	post, err := s.forumRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	return s.forumRepo.UpdateFields(ctx, postID, map[string]interface{}{
		"likes": post.Likes + 1,
	})
}

func (s *forumServiceImpl) Repost(ctx context.Context, postID string) error {
	post, err := s.forumRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	return s.forumRepo.UpdateFields(ctx, postID, map[string]interface{}{
		"reposts": post.Reposts + 1,
	})
}

func (s *forumServiceImpl) AddComment(ctx context.Context, postID, username, text string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text is required", model.ErrValidation)
	}
	// Проверка существования поста до записи комментария.
	if _, err := s.forumRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := model.Comment{
		ID:        uuid.New().String(),
		UserName:  username,
		Text:      text,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.forumRepo.AddComment(ctx, postID, comment); err != nil {
		return nil, err
	}
	s.logger.Info("Comment added", zap.String("postID", postID), zap.String("commentID", comment.ID))
	return &comment, nil
}
