package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hekayat-server/internal/mocks"
	"hekayat-server/internal/model"
)

func newAuthService(userRepo *mocks.MockUserRepository, sessionRepo *mocks.MockSessionRepository) AuthService {
	return NewAuthService(userRepo, sessionRepo, "test-secret", time.Minute, time.Hour, zap.NewNop())
}

func TestRegisterHashesPassword(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	sessionRepo := new(mocks.MockSessionRepository)
	svc := newAuthService(userRepo, sessionRepo)

	var created model.User
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		created = u
		return u.Username == "amina"
	})).Return(nil).Once()

	user, err := svc.Register(context.Background(), "amina", "secret123")
	require.NoError(t, err)

	// Наружу хэш не отдается, в хранилище лежит bcrypt, не плейнтекст.
	assert.Empty(t, user.PasswordHash)
	assert.NotEqual(t, "secret123", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret123")))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	sessionRepo := new(mocks.MockSessionRepository)
	svc := newAuthService(userRepo, sessionRepo)

	userRepo.On("Create", mock.Anything, mock.Anything).Return(model.ErrUserExists).Once()

	_, err := svc.Register(context.Background(), "amina", "secret123")
	assert.ErrorIs(t, err, model.ErrUserExists)
}

func TestRegisterValidation(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	sessionRepo := new(mocks.MockSessionRepository)
	svc := newAuthService(userRepo, sessionRepo)

	_, err := svc.Register(context.Background(), "  ", "secret123")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Register(context.Background(), "amina", "short")
	assert.ErrorIs(t, err, model.ErrValidation)

	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	sessionRepo := new(mocks.MockSessionRepository)
	svc := newAuthService(userRepo, sessionRepo)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	userRepo.On("GetByUsername", mock.Anything, "amina").
		Return(&model.User{Username: "amina", PasswordHash: string(hash)}, nil).Once()
	sessionRepo.On("Set", mock.Anything, mock.MatchedBy(func(s model.Session) bool {
		return s.Username == "amina" && s.RefreshUUID != ""
	}), time.Hour).Return(nil).Once()

	pair, err := svc.Login(context.Background(), "amina", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// Выданный access-токен парсится обратно в username.
	username, err := svc.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "amina", username)
}

func TestLoginWrongPassword(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	sessionRepo := new(mocks.MockSessionRepository)
	svc := newAuthService(userRepo, sessionRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	userRepo.On("GetByUsername", mock.Anything, "amina").
		Return(&model.User{Username: "amina", PasswordHash: string(hash)}, nil).Once()

	_, err := svc.Login(context.Background(), "amina", "wrong")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	sessionRepo.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginUnknownUserSameError(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	sessionRepo := new(mocks.MockSessionRepository)
	svc := newAuthService(userRepo, sessionRepo)

	userRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, model.ErrNotFound).Once()

	// Несуществующий пользователь неотличим от неверного пароля.
	_, err := svc.Login(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestRefreshRotatesSession(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	sessionRepo := new(mocks.MockSessionRepository)
	svc := newAuthService(userRepo, sessionRepo)

	sessionRepo.On("GetUsername", mock.Anything, "old-uuid").Return("amina", nil).Once()
	sessionRepo.On("Delete", mock.Anything, "old-uuid").Return(nil).Once()
	sessionRepo.On("Set", mock.Anything, mock.MatchedBy(func(s model.Session) bool {
		return s.Username == "amina" && s.RefreshUUID != "old-uuid"
	}), time.Hour).Return(nil).Once()

	pair, err := svc.Refresh(context.Background(), "old-uuid")
	require.NoError(t, err)
	assert.NotEqual(t, "old-uuid", pair.RefreshToken)
	sessionRepo.AssertExpectations(t)
}

func TestRefreshExpiredSession(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	sessionRepo := new(mocks.MockSessionRepository)
	svc := newAuthService(userRepo, sessionRepo)

	sessionRepo.On("GetUsername", mock.Anything, "gone").Return("", model.ErrSessionNotFound).Once()

	_, err := svc.Refresh(context.Background(), "gone")
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	sessionRepo := new(mocks.MockSessionRepository)
	svc := newAuthService(userRepo, sessionRepo)

	_, err := svc.ParseAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}
