package repository

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// RTDBConfig содержит настройки подключения к Firebase Realtime Database.
type RTDBConfig struct {
	CredentialsPath string
	DatabaseURL     string
	// BasePath - корневой узел, под которым лежат все коллекции приложения.
	BasePath string
}

// NewDatabaseClient создает клиент Realtime Database.
// Если CredentialsPath пуст, используются Application Default Credentials.
func NewDatabaseClient(ctx context.Context, cfg RTDBConfig) (*db.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: cfg.DatabaseURL}, opts...)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации Firebase App: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения клиента Realtime Database: %w", err)
	}

	return client, nil
}
