// Package repository содержит доступ к данным: документное хранилище
// Firebase Realtime Database для контента и Redis для refresh-сессий.
// Хранилище не дает транзакций и серверной фильтрации - вся фильтрация
// происходит на клиенте после полного чтения коллекции, записи всегда
// идут точечными upsert по ключу, никогда заменой коллекции целиком.
package repository

import (
	"context"
	"time"

	"hekayat-server/internal/model"
)

// StoryRepository - операции над коллекцией историй.
type StoryRepository interface {
	// List читает всю коллекцию историй.
	List(ctx context.Context) ([]model.Story, error)
	// GetByID возвращает историю или model.ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.Story, error)
	// UpsertMany записывает истории точечно по их ID.
	UpsertMany(ctx context.Context, stories []model.Story) error
	// UpdateFields обновляет отдельные поля документа истории.
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
}

// UserRepository - операции над пользователями, ключ - username.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// Create создает пользователя; model.ErrUserExists при занятом имени.
	Create(ctx context.Context, user model.User) error
	List(ctx context.Context) ([]model.User, error)
}

// ForumRepository - операции над постами форума.
type ForumRepository interface {
	List(ctx context.Context) ([]model.ForumPost, error)
	GetByID(ctx context.Context, id string) (*model.ForumPost, error)
	Create(ctx context.Context, post model.ForumPost) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	// AddComment дописывает комментарий внутрь документа поста.
	AddComment(ctx context.Context, postID string, comment model.Comment) error
}

// CollabRepository - операции над коллективными проектами.
type CollabRepository interface {
	List(ctx context.Context) ([]model.CollabProject, error)
	GetByID(ctx context.Context, id string) (*model.CollabProject, error)
	Create(ctx context.Context, collab model.CollabProject) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
}

// MessageRepository - операции над личными сообщениями.
type MessageRepository interface {
	// ListForUser возвращает сообщения, где username - отправитель или получатель.
	ListForUser(ctx context.Context, username string) ([]model.Message, error)
	Create(ctx context.Context, msg model.Message) error
	MarkRead(ctx context.Context, id string) error
}

// SessionRepository - refresh-сессии с TTL.
type SessionRepository interface {
	Set(ctx context.Context, session model.Session, ttl time.Duration) error
	// GetUsername возвращает владельца сессии или model.ErrSessionNotFound.
	GetUsername(ctx context.Context, refreshUUID string) (string, error)
	Delete(ctx context.Context, refreshUUID string) error
}
