package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию сервиса, загружаемую из переменных окружения.
type Config struct {
	Environment string `envconfig:"ENV" default:"development"`

	// Настройки HTTP сервера
	ServerPort          int      `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSeconds  int      `envconfig:"SERVER_READ_TIMEOUT" default:"15"`
	WriteTimeoutSeconds int      `envconfig:"SERVER_WRITE_TIMEOUT" default:"15"`
	IdleTimeoutSeconds  int      `envconfig:"SERVER_IDLE_TIMEOUT" default:"60"`
	CORSAllowedOrigins  []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`

	// Настройки логирования
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	// Настройки Firebase Realtime Database (хранилище документов)
	FirebaseCredentialsPath string `envconfig:"FIREBASE_CREDENTIALS_PATH" default:""`
	FirebaseDatabaseURL     string `envconfig:"FIREBASE_DATABASE_URL" default:""`
	// Корневой путь всех коллекций в базе
	FirebaseBasePath string `envconfig:"FIREBASE_BASE_PATH" default:"hekayat"`

	// Настройки Redis (refresh-сессии)
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Настройки AI (OpenRouter/OpenAI-совместимый или локальный Ollama)
	AIClientType     string        `envconfig:"AI_CLIENT_TYPE" default:"openai"`
	AIBaseURL        string        `envconfig:"AI_BASE_URL" default:"https://openrouter.ai/api/v1"`
	AIModel          string        `envconfig:"AI_MODEL" default:"deepseek/deepseek-chat"`
	AIImageModel     string        `envconfig:"AI_IMAGE_MODEL" default:""`
	AITimeout        time.Duration `envconfig:"AI_TIMEOUT" default:"180s"`
	AIMaxAttempts    int           `envconfig:"AI_MAX_ATTEMPTS" default:"3"`
	AIBaseRetryDelay time.Duration `envconfig:"AI_BASE_RETRY_DELAY" default:"1s"`
	AIAPIKey         string        `envconfig:"AI_API_KEY" default:""`

	// Настройки JWT
	JWTSecret       string        `envconfig:"JWT_SECRET" default:"your-256-bit-secret"`
	AccessTokenTTL  time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"60m"`
	RefreshTokenTTL time.Duration `envconfig:"JWT_REFRESH_TOKEN_TTL" default:"168h"`

	// Предельное время одного прохода синхронизации целиком
	SyncTimeout time.Duration `envconfig:"SYNC_TIMEOUT" default:"10m"`
}

// Load загружает конфигурацию из переменных окружения.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Проверка обязательных настроек
	if cfg.AIClientType == "openai" && cfg.AIAPIKey == "" {
		return nil, fmt.Errorf("AI_API_KEY not set")
	}
	if cfg.FirebaseDatabaseURL == "" {
		return nil, fmt.Errorf("FIREBASE_DATABASE_URL not set")
	}

	return &cfg, nil
}
