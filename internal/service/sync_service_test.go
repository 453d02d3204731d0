package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hekayat-server/internal/lifecycle"
	"hekayat-server/internal/mocks"
	"hekayat-server/internal/model"
)

// syncFixture собирает оркестратор с моками и фиксированным временем.
type syncFixture struct {
	storyRepo  *mocks.MockStoryRepository
	forumRepo  *mocks.MockForumRepository
	collabRepo *mocks.MockCollabRepository
	userRepo   *mocks.MockUserRepository
	generator  *mocks.MockGenerator
	view       *StoryView
	svc        *syncServiceImpl
	now        time.Time
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	f := &syncFixture{
		storyRepo:  new(mocks.MockStoryRepository),
		forumRepo:  new(mocks.MockForumRepository),
		collabRepo: new(mocks.MockCollabRepository),
		userRepo:   new(mocks.MockUserRepository),
		generator:  new(mocks.MockGenerator),
		view:       NewStoryView(),
		now:        time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
	svc := NewSyncService(
		f.storyRepo, f.forumRepo, f.collabRepo, f.userRepo,
		f.generator, f.view, time.Minute, zap.NewNop(),
	).(*syncServiceImpl)
	svc.now = func() time.Time { return f.now }
	f.svc = svc

	// Сопутствующие коллекции всегда читаются параллельно с историями.
	f.forumRepo.On("List", mock.Anything).Return(nil, nil)
	f.collabRepo.On("List", mock.Anything).Return(nil, nil)
	f.userRepo.On("List", mock.Anything).Return(nil, nil)
	return f
}

// machineStory создает завершенную машинную историю со стартом start.
func machineStory(id string, start time.Time) model.Story {
	return model.Story{
		ID: id, Title: "t-" + id, Genre: model.GenreDrama,
		Day1: "a", Day2: "b", Day3: "c",
		StartDate: start.Format(time.RFC3339),
	}
}

func TestSyncAllQuotaMetIsNoop(t *testing.T) {
	f := newSyncFixture(t)

	stories := make([]model.Story, 0, lifecycle.DailyQuota)
	for i := 0; i < lifecycle.DailyQuota; i++ {
		stories = append(stories, machineStory(string(rune('a'+i)), f.now))
	}
	f.storyRepo.On("List", mock.Anything).Return(stories, nil)

	f.svc.SyncAll(context.Background())
	// Повторный проход по выполненной квоте тоже ничего не пишет.
	f.svc.SyncAll(context.Background())

	f.generator.AssertNotCalled(t, "GenerateBatch", mock.Anything, mock.Anything, mock.Anything)
	f.generator.AssertNotCalled(t, "CompleteChapters", mock.Anything, mock.Anything)
	f.storyRepo.AssertNotCalled(t, "UpsertMany", mock.Anything, mock.Anything)
	assert.Len(t, f.view.Snapshot(), lifecycle.DailyQuota)
}

func TestSyncAllTopUpRequestsFullBatch(t *testing.T) {
	f := newSyncFixture(t)

	// 8 историй стартовали сегодня, 2 вчера: вчерашние в квоту не входят.
	initial := make([]model.Story, 0, 10)
	for i := 0; i < 8; i++ {
		initial = append(initial, machineStory(string(rune('a'+i)), f.now))
	}
	initial = append(initial,
		machineStory("y1", f.now.Add(-24*time.Hour)),
		machineStory("y2", f.now.Add(-24*time.Hour)),
	)

	drafts := []model.StoryDraft{
		{Title: "New One", Genre: model.GenreLove, Day1: "1", Day2: "2", Day3: "3"},
		{Title: "New Two", Genre: model.GenreHorror, Day1: "1", Day2: "2", Day3: "3"},
	}

	afterPersist := append([]model.Story{}, initial...)
	afterPersist = append(afterPersist,
		machineStory("n1", f.now),
		machineStory("n2", f.now),
	)

	f.storyRepo.On("List", mock.Anything).Return(initial, nil).Once()
	f.generator.On("GenerateBatch", mock.Anything, mock.Anything, lifecycle.DailyQuota).Return(drafts, nil).Once()
	f.generator.On("GenerateCoverImage", mock.Anything, mock.Anything).Return("", nil)
	f.storyRepo.On("UpsertMany", mock.Anything, mock.MatchedBy(func(s []model.Story) bool {
		return len(s) == 2
	})).Return(nil).Once()
	f.storyRepo.On("List", mock.Anything).Return(afterPersist, nil).Once()

	f.svc.SyncAll(context.Background())

	// Генератор вернул меньше квоты - сохраняется что есть, второго
	// захода за остатком в этом проходе нет.
	f.generator.AssertNumberOfCalls(t, "GenerateBatch", 1)
	f.storyRepo.AssertExpectations(t)
	assert.Len(t, f.view.Snapshot(), 12)
}

func TestSyncAllRepairsFreshIncompleteDrafts(t *testing.T) {
	f := newSyncFixture(t)

	drafts := []model.StoryDraft{
		{Title: "Torn", Genre: model.GenreDrama, Day1: "only first chapter"},
	}
	incomplete := model.Story{
		ID: "fresh", Title: "Torn", Genre: model.GenreDrama,
		Day1: "only first chapter", StartDate: f.now.Format(time.RFC3339),
	}
	repairedSet := []model.Story{incomplete}
	repairedSet[0].Day2 = "2"
	repairedSet[0].Day3 = "3"

	f.storyRepo.On("List", mock.Anything).Return([]model.Story{}, nil).Once()
	f.generator.On("GenerateBatch", mock.Anything, mock.Anything, lifecycle.DailyQuota).Return(drafts, nil).Once()
	f.generator.On("GenerateCoverImage", mock.Anything, mock.Anything).Return("", nil)
	f.storyRepo.On("UpsertMany", mock.Anything, mock.Anything).Return(nil)
	// Перезагрузка после пачки: недописанный черновик виден проходу ремонта.
	f.storyRepo.On("List", mock.Anything).Return([]model.Story{incomplete}, nil).Once()
	f.generator.On("CompleteChapters", mock.Anything, mock.MatchedBy(func(s model.Story) bool {
		return s.ID == "fresh"
	})).Return(model.ChapterSet{Day1: "only first chapter", Day2: "2", Day3: "3"}, nil).Once()
	f.storyRepo.On("List", mock.Anything).Return(repairedSet, nil).Once()

	f.svc.SyncAll(context.Background())

	f.generator.AssertExpectations(t)
	snapshot := f.view.Snapshot()
	require.Len(t, snapshot, 1)
	assert.True(t, snapshot[0].IsComplete())
}

func TestSyncAllGeneratorFailureLeavesViewStanding(t *testing.T) {
	f := newSyncFixture(t)

	existing := []model.Story{machineStory("old", f.now.Add(-48 * time.Hour))}
	f.storyRepo.On("List", mock.Anything).Return(existing, nil).Once()
	f.generator.On("GenerateBatch", mock.Anything, mock.Anything, lifecycle.DailyQuota).
		Return(nil, errors.New("ai backend down")).Once()

	f.svc.SyncAll(context.Background())

	// Хранилище не тронуто, лента стоит на загруженном наборе.
	f.storyRepo.AssertNotCalled(t, "UpsertMany", mock.Anything, mock.Anything)
	assert.Len(t, f.view.Snapshot(), 1)
}

func TestSyncAllLoadFailureDegradesToEmpty(t *testing.T) {
	f := newSyncFixture(t)

	f.storyRepo.On("List", mock.Anything).Return(nil, errors.New("store unavailable"))
	f.generator.On("GenerateBatch", mock.Anything, mock.Anything, lifecycle.DailyQuota).
		Return(nil, errors.New("ai backend down"))

	// Не паникует и не возвращает ошибку наверх.
	f.svc.SyncAll(context.Background())

	assert.Empty(t, f.view.Snapshot())
}

func TestSyncAllRepairPersistsOnlySuccesses(t *testing.T) {
	f := newSyncFixture(t)

	today := f.now
	broken1 := model.Story{ID: "b1", Title: "B1", Day1: "x", StartDate: today.Format(time.RFC3339)}
	broken2 := model.Story{ID: "b2", Title: "B2", Day1: "x", StartDate: today.Format(time.RFC3339)}
	full := make([]model.Story, 0, lifecycle.DailyQuota)
	for i := 0; i < lifecycle.DailyQuota-2; i++ {
		full = append(full, machineStory(string(rune('a'+i)), today))
	}
	full = append(full, broken1, broken2)

	f.storyRepo.On("List", mock.Anything).Return(full, nil).Once()
	f.generator.On("CompleteChapters", mock.Anything, mock.MatchedBy(func(s model.Story) bool {
		return s.ID == "b1"
	})).Return(model.ChapterSet{Day1: "x", Day2: "y", Day3: "z"}, nil).Once()
	f.generator.On("CompleteChapters", mock.Anything, mock.MatchedBy(func(s model.Story) bool {
		return s.ID == "b2"
	})).Return(model.ChapterSet{}, errors.New("timeout")).Once()
	f.storyRepo.On("UpsertMany", mock.Anything, mock.MatchedBy(func(s []model.Story) bool {
		return len(s) == 1 && s[0].ID == "b1" && s[0].IsComplete()
	})).Return(nil).Once()
	f.storyRepo.On("List", mock.Anything).Return(full, nil).Once()

	f.svc.SyncAll(context.Background())

	f.generator.AssertExpectations(t)
	f.storyRepo.AssertExpectations(t)
}
