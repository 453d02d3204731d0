package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hekayat-server/internal/model"
)

// MockGenerator is a mock type for the ai.Generator type
type MockGenerator struct {
	mock.Mock
}

// GenerateBatch provides a mock function with given fields: ctx, existingTitles, count
func (_m *MockGenerator) GenerateBatch(ctx context.Context, existingTitles []string, count int) ([]model.StoryDraft, error) {
	ret := _m.Called(ctx, existingTitles, count)

	var r0 []model.StoryDraft
	if rf, ok := ret.Get(0).(func(context.Context, []string, int) []model.StoryDraft); ok {
		r0 = rf(ctx, existingTitles, count)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.StoryDraft)
		}
	}

	return r0, ret.Error(1)
}

// CompleteChapters provides a mock function with given fields: ctx, story
func (_m *MockGenerator) CompleteChapters(ctx context.Context, story model.Story) (model.ChapterSet, error) {
	ret := _m.Called(ctx, story)

	var r0 model.ChapterSet
	if rf, ok := ret.Get(0).(func(context.Context, model.Story) model.ChapterSet); ok {
		r0 = rf(ctx, story)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(model.ChapterSet)
		}
	}

	return r0, ret.Error(1)
}

// Remix provides a mock function with given fields: ctx, story, twist
func (_m *MockGenerator) Remix(ctx context.Context, story model.Story, twist string) (model.RemixDraft, error) {
	ret := _m.Called(ctx, story, twist)

	var r0 model.RemixDraft
	if rf, ok := ret.Get(0).(func(context.Context, model.Story, string) model.RemixDraft); ok {
		r0 = rf(ctx, story, twist)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(model.RemixDraft)
		}
	}

	return r0, ret.Error(1)
}

// GenerateCoverImage provides a mock function with given fields: ctx, prompt
func (_m *MockGenerator) GenerateCoverImage(ctx context.Context, prompt string) (string, error) {
	ret := _m.Called(ctx, prompt)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, string) string); ok {
		r0 = rf(ctx, prompt)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(string)
		}
	}

	return r0, ret.Error(1)
}
