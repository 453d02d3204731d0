package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"hekayat-server/internal/model"
)

// MockUserRepository is a mock type for the UserRepository type
type MockUserRepository struct {
	mock.Mock
}

func (_m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	ret := _m.Called(ctx, username)

	var r0 *model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.User)
	}
	return r0, ret.Error(1)
}

func (_m *MockUserRepository) Create(ctx context.Context, user model.User) error {
	ret := _m.Called(ctx, user)
	return ret.Error(0)
}

func (_m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	ret := _m.Called(ctx)

	var r0 []model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.User)
	}
	return r0, ret.Error(1)
}

// MockForumRepository is a mock type for the ForumRepository type
type MockForumRepository struct {
	mock.Mock
}

func (_m *MockForumRepository) List(ctx context.Context) ([]model.ForumPost, error) {
	ret := _m.Called(ctx)

	var r0 []model.ForumPost
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.ForumPost)
	}
	return r0, ret.Error(1)
}

func (_m *MockForumRepository) GetByID(ctx context.Context, id string) (*model.ForumPost, error) {
	ret := _m.Called(ctx, id)

	var r0 *model.ForumPost
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.ForumPost)
	}
	return r0, ret.Error(1)
}

func (_m *MockForumRepository) Create(ctx context.Context, post model.ForumPost) error {
	ret := _m.Called(ctx, post)
	return ret.Error(0)
}

func (_m *MockForumRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	ret := _m.Called(ctx, id, fields)
	return ret.Error(0)
}

func (_m *MockForumRepository) AddComment(ctx context.Context, postID string, comment model.Comment) error {
	ret := _m.Called(ctx, postID, comment)
	return ret.Error(0)
}

// MockCollabRepository is a mock type for the CollabRepository type
type MockCollabRepository struct {
	mock.Mock
}

func (_m *MockCollabRepository) List(ctx context.Context) ([]model.CollabProject, error) {
	ret := _m.Called(ctx)

	var r0 []model.CollabProject
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.CollabProject)
	}
	return r0, ret.Error(1)
}

func (_m *MockCollabRepository) GetByID(ctx context.Context, id string) (*model.CollabProject, error) {
	ret := _m.Called(ctx, id)

	var r0 *model.CollabProject
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.CollabProject)
	}
	return r0, ret.Error(1)
}

func (_m *MockCollabRepository) Create(ctx context.Context, collab model.CollabProject) error {
	ret := _m.Called(ctx, collab)
	return ret.Error(0)
}

func (_m *MockCollabRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	ret := _m.Called(ctx, id, fields)
	return ret.Error(0)
}

// MockMessageRepository is a mock type for the MessageRepository type
type MockMessageRepository struct {
	mock.Mock
}

func (_m *MockMessageRepository) ListForUser(ctx context.Context, username string) ([]model.Message, error) {
	ret := _m.Called(ctx, username)

	var r0 []model.Message
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Message)
	}
	return r0, ret.Error(1)
}

func (_m *MockMessageRepository) Create(ctx context.Context, msg model.Message) error {
	ret := _m.Called(ctx, msg)
	return ret.Error(0)
}

func (_m *MockMessageRepository) MarkRead(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// MockSessionRepository is a mock type for the SessionRepository type
type MockSessionRepository struct {
	mock.Mock
}

func (_m *MockSessionRepository) Set(ctx context.Context, session model.Session, ttl time.Duration) error {
	ret := _m.Called(ctx, session, ttl)
	return ret.Error(0)
}

func (_m *MockSessionRepository) GetUsername(ctx context.Context, refreshUUID string) (string, error) {
	ret := _m.Called(ctx, refreshUUID)
	return ret.String(0), ret.Error(1)
}

func (_m *MockSessionRepository) Delete(ctx context.Context, refreshUUID string) error {
	ret := _m.Called(ctx, refreshUUID)
	return ret.Error(0)
}
