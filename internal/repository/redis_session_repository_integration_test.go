package repository_test // Используем _test пакет для изоляции

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"hekayat-server/internal/model"
	"hekayat-server/internal/repository"
)

// SessionRepoIntegrationSuite поднимает реальный Redis в контейнере
// и гоняет хранилище сессий против него.
type SessionRepoIntegrationSuite struct {
	suite.Suite
	ctx         context.Context
	rdContainer *tcredis.RedisContainer
	redisClient *redis.Client
	repo        repository.SessionRepository
	logger      *zap.Logger
}

func (s *SessionRepoIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error

	s.logger, err = zap.NewDevelopment()
	require.NoError(s.T(), err, "Failed to create logger for tests")

	// Запускаем контейнер Redis
	s.rdContainer, err = tcredis.Run(s.ctx,
		"docker.io/redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("* Ready to accept connections").
				WithOccurrence(1).
				WithStartupTimeout(1*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start redis container")

	redisHost, err := s.rdContainer.Host(s.ctx)
	require.NoError(s.T(), err)
	redisPort, err := s.rdContainer.MappedPort(s.ctx, "6379/tcp")
	require.NoError(s.T(), err)
	redisAddr := fmt.Sprintf("%s:%s", redisHost, redisPort.Port())

	s.redisClient = redis.NewClient(&redis.Options{Addr: redisAddr})
	_, err = s.redisClient.Ping(s.ctx).Result()
	require.NoError(s.T(), err, "Failed to connect to test redis")

	s.repo = repository.NewRedisSessionRepository(s.redisClient, s.logger)
}

func (s *SessionRepoIntegrationSuite) TearDownSuite() {
	if s.redisClient != nil {
		_ = s.redisClient.Close()
	}
	if s.rdContainer != nil {
		_ = s.rdContainer.Terminate(s.ctx)
	}
}

func (s *SessionRepoIntegrationSuite) TestSetAndGet() {
	session := model.Session{RefreshUUID: "it-uuid-1", Username: "amina"}
	err := s.repo.Set(s.ctx, session, time.Minute)
	s.Require().NoError(err)

	username, err := s.repo.GetUsername(s.ctx, "it-uuid-1")
	s.Require().NoError(err)
	s.Equal("amina", username)
}

func (s *SessionRepoIntegrationSuite) TestGetMissing() {
	_, err := s.repo.GetUsername(s.ctx, "does-not-exist")
	s.Require().ErrorIs(err, model.ErrSessionNotFound)
}

func (s *SessionRepoIntegrationSuite) TestDeleteRevokesSession() {
	session := model.Session{RefreshUUID: "it-uuid-2", Username: "karim"}
	s.Require().NoError(s.repo.Set(s.ctx, session, time.Minute))

	s.Require().NoError(s.repo.Delete(s.ctx, "it-uuid-2"))

	_, err := s.repo.GetUsername(s.ctx, "it-uuid-2")
	s.Require().ErrorIs(err, model.ErrSessionNotFound)

	// Повторное удаление идемпотентно.
	s.Require().NoError(s.repo.Delete(s.ctx, "it-uuid-2"))
}

func (s *SessionRepoIntegrationSuite) TestTTLExpiry() {
	session := model.Session{RefreshUUID: "it-uuid-3", Username: "yusuf"}
	s.Require().NoError(s.repo.Set(s.ctx, session, time.Second))

	time.Sleep(1500 * time.Millisecond)

	_, err := s.repo.GetUsername(s.ctx, "it-uuid-3")
	s.Require().ErrorIs(err, model.ErrSessionNotFound)
}

func TestSessionRepoIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(SessionRepoIntegrationSuite))
}
