package repository

import (
	"context"
	"fmt"
	"sort"

	"firebase.google.com/go/v4/db"
	"go.uber.org/zap"

	"hekayat-server/internal/model"
)

// Compile-time check to ensure rtdbUserRepository implements UserRepository
var _ UserRepository = (*rtdbUserRepository)(nil)

type rtdbUserRepository struct {
	ref    *db.Ref
	logger *zap.Logger
}

// NewRTDBUserRepository создает репозиторий пользователей. Ключ документа - username.
func NewRTDBUserRepository(client *db.Client, basePath string, logger *zap.Logger) UserRepository {
	return &rtdbUserRepository{
		ref:    client.NewRef(basePath + "/users"),
		logger: logger.Named("RTDBUserRepo"),
	}
}

func (r *rtdbUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.ref.Child(username).Get(ctx, &u); err != nil {
		r.logger.Error("Failed to load user", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("failed to load user %s: %w", username, err)
	}
	if u.Username == "" {
		return nil, model.ErrNotFound
	}
	return &u, nil
}

// Create создает пользователя. Проверка занятости имени выполняется
// чтением перед записью: хранилище не дает уникальных ограничений,
// гонка двух одновременных регистраций одного имени остается возможной.
func (r *rtdbUserRepository) Create(ctx context.Context, user model.User) error {
	existing, err := r.GetByUsername(ctx, user.Username)
	if err != nil && err != model.ErrNotFound {
		return err
	}
	if existing != nil {
		return model.ErrUserExists
	}

	if err := r.ref.Child(user.Username).Set(ctx, user); err != nil {
		r.logger.Error("Failed to create user", zap.String("username", user.Username), zap.Error(err))
		return fmt.Errorf("failed to create user %s: %w", user.Username, err)
	}
	r.logger.Info("User created", zap.String("username", user.Username))
	return nil
}

func (r *rtdbUserRepository) List(ctx context.Context) ([]model.User, error) {
	var raw map[string]model.User
	if err := r.ref.Get(ctx, &raw); err != nil {
		r.logger.Error("Failed to load users collection", zap.Error(err))
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	users := make([]model.User, 0, len(raw))
	for username, u := range raw {
		if u.Username == "" {
			u.Username = username
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}
