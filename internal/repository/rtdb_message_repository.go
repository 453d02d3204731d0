package repository

import (
	"context"
	"fmt"
	"sort"

	"firebase.google.com/go/v4/db"
	"go.uber.org/zap"

	"hekayat-server/internal/model"
)

// Compile-time check to ensure rtdbMessageRepository implements MessageRepository
var _ MessageRepository = (*rtdbMessageRepository)(nil)

type rtdbMessageRepository struct {
	ref    *db.Ref
	logger *zap.Logger
}

// NewRTDBMessageRepository создает репозиторий личных сообщений.
func NewRTDBMessageRepository(client *db.Client, basePath string, logger *zap.Logger) MessageRepository {
	return &rtdbMessageRepository{
		ref:    client.NewRef(basePath + "/messages"),
		logger: logger.Named("RTDBMessageRepo"),
	}
}

// ListForUser читает всю коллекцию и фильтрует на клиенте:
// серверных запросов по двум полям хранилище не дает.
func (r *rtdbMessageRepository) ListForUser(ctx context.Context, username string) ([]model.Message, error) {
	var raw map[string]model.Message
	if err := r.ref.Get(ctx, &raw); err != nil {
		r.logger.Error("Failed to load messages collection", zap.Error(err))
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	messages := make([]model.Message, 0)
	for id, m := range raw {
		if m.Sender != username && m.Receiver != username {
			continue
		}
		if m.ID == "" {
			m.ID = id
		}
		messages = append(messages, m)
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].Timestamp < messages[j].Timestamp })
	return messages, nil
}

func (r *rtdbMessageRepository) Create(ctx context.Context, msg model.Message) error {
	if err := r.ref.Child(msg.ID).Set(ctx, msg); err != nil {
		r.logger.Error("Failed to create message", zap.String("messageID", msg.ID), zap.Error(err))
		return fmt.Errorf("failed to create message %s: %w", msg.ID, err)
	}
	return nil
}

func (r *rtdbMessageRepository) MarkRead(ctx context.Context, id string) error {
	if err := r.ref.Child(id).Update(ctx, map[string]interface{}{"isRead": true}); err != nil {
		r.logger.Error("Failed to mark message read", zap.String("messageID", id), zap.Error(err))
		return fmt.Errorf("failed to mark message %s read: %w", id, err)
	}
	return nil
}
