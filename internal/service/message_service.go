package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hekayat-server/internal/model"
	"hekayat-server/internal/repository"
)

// Notifier доставляет событие подключенному пользователю.
// Реализуется websocket-хабом; офлайн-получатель просто не получает пуш.
type Notifier interface {
	NotifyUser(username string, event string, payload interface{})
}

// MessageService - личные сообщения 1:1.
type MessageService interface {
	Send(ctx context.Context, sender, receiver, text string) (*model.Message, error)
	ListForUser(ctx context.Context, username string) ([]model.Message, error)
	MarkRead(ctx context.Context, id string) error
}

type messageServiceImpl struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	notifier    Notifier
	logger      *zap.Logger
	now         func() time.Time
}

// NewMessageService создает сервис сообщений. notifier может быть nil.
func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	logger *zap.Logger,
) MessageService {
	return &messageServiceImpl{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		logger:      logger.Named("MessageService"),
		now:         time.Now,
	}
}

func (s *messageServiceImpl) Send(ctx context.Context, sender, receiver, text string) (*model.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: message text is required", model.ErrValidation)
	}
	if sender == receiver {
		return nil, fmt.Errorf("%w: cannot message yourself", model.ErrValidation)
	}
	if _, err := s.userRepo.GetByUsername(ctx, receiver); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("%w: receiver %q does not exist", model.ErrValidation, receiver)
		}
		return nil, err
	}

	msg := model.Message{
		ID:        uuid.New().String(),
		Sender:    sender,
		Receiver:  receiver,
		Text:      text,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	s.logger.Info("Message sent", zap.String("messageID", msg.ID), zap.String("receiver", receiver))

	if s.notifier != nil {
		s.notifier.NotifyUser(receiver, "message", msg)
	}
	return &msg, nil
}

func (s *messageServiceImpl) ListForUser(ctx context.Context, username string) ([]model.Message, error) {
	return s.messageRepo.ListForUser(ctx, username)
}

func (s *messageServiceImpl) MarkRead(ctx context.Context, id string) error {
	return s.messageRepo.MarkRead(ctx, id)
}
