package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hekayat-server/internal/model"
	"hekayat-server/internal/repository"
)

// TokenPair - пара токенов, выдаваемая при входе и обновлении.
// RefreshToken - непрозрачный UUID, привязанный к сессии в Redis.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService - регистрация, вход и управление сессиями.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	// Refresh обменивает живую refresh-сессию на новую пару токенов.
	// Старая сессия отзывается (ротация).
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	// ParseAccessToken проверяет подпись и срок токена, возвращает username.
	ParseAccessToken(token string) (string, error)
}

type authServiceImpl struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	jwtSecret   []byte
	accessTTL   time.Duration
	refreshTTL  time.Duration
	logger      *zap.Logger
}

// NewAuthService создает сервис аутентификации.
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	jwtSecret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	logger *zap.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   []byte(jwtSecret),
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		logger:      logger.Named("AuthService"),
	}
}

func (s *authServiceImpl) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", model.ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", model.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Username:     username,
		PasswordHash: string(hash),
		Level:        "Novice",
		Badges:       []string{},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUserExists) {
			s.logger.Warn("Registration with taken username", zap.String("username", username))
		}
		return nil, err
	}

	s.logger.Info("User registered", zap.String("username", username))
	public := user.PublicProfile()
	return &public, nil
}

func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Failed login attempt", zap.String("username", username))
		return nil, model.ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, username)
	if err != nil {
		return nil, err
	}
	s.logger.Info("User logged in", zap.String("username", username))
	return pair, nil
}

func (s *authServiceImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	username, err := s.sessionRepo.GetUsername(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	// Ротация: старая сессия отзывается до выдачи новой.
	if err := s.sessionRepo.Delete(ctx, refreshToken); err != nil {
		return nil, err
	}

	pair, err := s.issueTokens(ctx, username)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Session refreshed", zap.String("username", username))
	return pair, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if err := s.sessionRepo.Delete(ctx, refreshToken); err != nil {
		return err
	}
	s.logger.Info("User logged out")
	return nil
}

func (s *authServiceImpl) ParseAccessToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", model.ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", model.ErrInvalidCredentials
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return "", model.ErrInvalidCredentials
	}
	return username, nil
}

func (s *authServiceImpl) issueTokens(ctx context.Context, username string) (*TokenPair, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.accessTTL).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshUUID := uuid.New().String()
	session := model.Session{RefreshUUID: refreshUUID, Username: username}
	if err := s.sessionRepo.Set(ctx, session, s.refreshTTL); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refreshUUID}, nil
}
