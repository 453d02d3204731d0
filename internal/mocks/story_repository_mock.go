package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hekayat-server/internal/model"
)

// MockStoryRepository is a mock type for the StoryRepository type
type MockStoryRepository struct {
	mock.Mock
}

// List provides a mock function with given fields: ctx
func (_m *MockStoryRepository) List(ctx context.Context) ([]model.Story, error) {
	ret := _m.Called(ctx)

	var r0 []model.Story
	if rf, ok := ret.Get(0).(func(context.Context) []model.Story); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.Story)
		}
	}

	return r0, ret.Error(1)
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *MockStoryRepository) GetByID(ctx context.Context, id string) (*model.Story, error) {
	ret := _m.Called(ctx, id)

	var r0 *model.Story
	if rf, ok := ret.Get(0).(func(context.Context, string) *model.Story); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.Story)
		}
	}

	return r0, ret.Error(1)
}

// UpsertMany provides a mock function with given fields: ctx, stories
func (_m *MockStoryRepository) UpsertMany(ctx context.Context, stories []model.Story) error {
	ret := _m.Called(ctx, stories)
	return ret.Error(0)
}

// UpdateFields provides a mock function with given fields: ctx, id, fields
func (_m *MockStoryRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	ret := _m.Called(ctx, id, fields)
	return ret.Error(0)
}
