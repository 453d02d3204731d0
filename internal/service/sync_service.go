package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hekayat-server/internal/lifecycle"
	"hekayat-server/internal/model"
	"hekayat-server/internal/repository"
	"hekayat-server/pkg/ai"
)

// recentTitleSeed - сколько последних заголовков передается генератору
// для защиты от повторов.
const recentTitleSeed = 5

// SyncService - оркестратор ежедневного жизненного цикла контента.
type SyncService interface {
	// SyncAll выполняет полный проход синхронизации: загрузка, публикация
	// активного вида, дневная догенерация, ремонт незавершенных историй.
	// Никогда не возвращает ошибку наверх - все сбои логируются и
	// самоизлечиваются на следующем проходе.
	SyncAll(ctx context.Context)
}

type syncServiceImpl struct {
	storyRepo  repository.StoryRepository
	forumRepo  repository.ForumRepository
	collabRepo repository.CollabRepository
	userRepo   repository.UserRepository
	generator  ai.Generator
	view       *StoryView
	timeout    time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewSyncService создает оркестратор синхронизации.
func NewSyncService(
	storyRepo repository.StoryRepository,
	forumRepo repository.ForumRepository,
	collabRepo repository.CollabRepository,
	userRepo repository.UserRepository,
	generator ai.Generator,
	view *StoryView,
	timeout time.Duration,
	logger *zap.Logger,
) SyncService {
	return &syncServiceImpl{
		storyRepo:  storyRepo,
		forumRepo:  forumRepo,
		collabRepo: collabRepo,
		userRepo:   userRepo,
		generator:  generator,
		view:       view,
		timeout:    timeout,
		logger:     logger.Named("SyncService"),
		now:        time.Now,
	}
}

func (s *syncServiceImpl) SyncAll(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Sync pass panicked", zap.Any("panic", r))
		}
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := s.now()
	s.logger.Info("Sync pass started")

	// Четыре независимые коллекции читаются параллельно. Сбой чтения
	// деградирует до пустого набора: лента встанет на прошлом снимке,
	// а следующий проход попробует снова.
	stories := s.loadAll(ctx)

	now := s.now()
	s.view.Publish(lifecycle.ActiveStories(stories, now))
	s.logger.Info("Active view published", zap.Int("total", len(stories)))

	stories = s.topUp(ctx, stories, now)
	s.view.Publish(lifecycle.ActiveStories(stories, s.now()))

	stories = s.repairIncomplete(ctx, stories)
	s.view.Publish(lifecycle.ActiveStories(stories, s.now()))
	s.logger.Info("Sync pass finished", zap.Duration("took", s.now().Sub(started)))
}

// loadAll параллельно загружает все коллекции. Форум, коллабы и пользователи
// читаются только для прогрева и логов объема - их жизненным циклом
// синхронизация не управляет.
func (s *syncServiceImpl) loadAll(ctx context.Context) []model.Story {
	var (
		wg      sync.WaitGroup
		stories []model.Story
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		loaded, err := s.storyRepo.List(ctx)
		if err != nil {
			s.logger.Error("Failed to load stories, degrading to empty set", zap.Error(err))
			return
		}
		stories = loaded
	}()
	go func() {
		defer wg.Done()
		posts, err := s.forumRepo.List(ctx)
		if err != nil {
			s.logger.Warn("Failed to load forum posts", zap.Error(err))
			return
		}
		s.logger.Debug("Forum posts loaded", zap.Int("count", len(posts)))
	}()
	go func() {
		defer wg.Done()
		collabs, err := s.collabRepo.List(ctx)
		if err != nil {
			s.logger.Warn("Failed to load collabs", zap.Error(err))
			return
		}
		s.logger.Debug("Collabs loaded", zap.Int("count", len(collabs)))
	}()
	go func() {
		defer wg.Done()
		users, err := s.userRepo.List(ctx)
		if err != nil {
			s.logger.Warn("Failed to load users", zap.Error(err))
			return
		}
		s.logger.Debug("Users loaded", zap.Int("count", len(users)))
	}()
	wg.Wait()

	return stories
}

// topUp догенерирует дневную пачку, если машинных историй со стартом
// сегодня меньше квоты. Запрашивается полная пачка; сколько вернулось -
// столько и сохраняется, повторных заходов до квоты нет.
func (s *syncServiceImpl) topUp(ctx context.Context, stories []model.Story, now time.Time) []model.Story {
	startedToday := lifecycle.CountStartedOn(stories, now)
	if startedToday >= lifecycle.DailyQuota {
		s.logger.Info("Daily quota already met", zap.Int("startedToday", startedToday))
		return stories
	}

	s.logger.Info("Daily top-up needed",
		zap.Int("startedToday", startedToday),
		zap.Int("quota", lifecycle.DailyQuota),
	)

	drafts, err := s.generator.GenerateBatch(ctx, recentTitles(stories), lifecycle.DailyQuota)
	if err != nil {
		// Хранилище не трогаем, опубликованный вид продолжает стоять.
		s.logger.Error("Daily batch generation failed", zap.Error(err))
		return stories
	}

	fresh := make([]model.Story, 0, len(drafts))
	for _, d := range drafts {
		story := model.Story{
			ID:         uuid.New().String(),
			Title:      d.Title,
			Genre:      d.Genre,
			Category:   d.Category,
			Characters: d.Characters,
			Day1:       d.Day1,
			Day2:       d.Day2,
			Day3:       d.Day3,
			Summary:    d.Summary,
			StartDate:  now.Format(time.RFC3339),
		}
		if cover, imgErr := s.generator.GenerateCoverImage(ctx, d.ImagePrompt); imgErr != nil {
			s.logger.Warn("Cover generation failed, story published without cover",
				zap.String("title", d.Title), zap.Error(imgErr))
		} else {
			story.CoverImage = cover
		}
		fresh = append(fresh, story)
	}

	if err := s.storyRepo.UpsertMany(ctx, fresh); err != nil {
		s.logger.Error("Failed to persist daily batch", zap.Error(err))
		return stories
	}
	s.logger.Info("Daily batch persisted", zap.Int("count", len(fresh)))

	return s.reload(ctx, stories)
}

// repairIncomplete дочиняет истории с пустыми главами. Проверяется полный
// набор, не только активное окно: сюда попадают и сегодняшние черновики
// из только что сохраненной пачки.
func (s *syncServiceImpl) repairIncomplete(ctx context.Context, stories []model.Story) []model.Story {
	incomplete := lifecycle.IncompleteStories(stories)
	if len(incomplete) == 0 {
		return stories
	}
	s.logger.Info("Repairing incomplete stories", zap.Int("count", len(incomplete)))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		repaired []model.Story
	)
	for _, story := range incomplete {
		wg.Add(1)
		go func(story model.Story) {
			defer wg.Done()
			chapters, err := s.generator.CompleteChapters(ctx, story)
			if err != nil {
				s.logger.Warn("Chapter completion failed",
					zap.String("storyID", story.ID), zap.Error(err))
				return
			}
			// Подставляются только недостающие главы, готовый текст не трогаем.
			if story.Day1 == "" {
				story.Day1 = chapters.Day1
			}
			if story.Day2 == "" {
				story.Day2 = chapters.Day2
			}
			if story.Day3 == "" {
				story.Day3 = chapters.Day3
			}
			mu.Lock()
			repaired = append(repaired, story)
			mu.Unlock()
		}(story)
	}
	wg.Wait()

	if len(repaired) == 0 {
		return stories
	}
	if err := s.storyRepo.UpsertMany(ctx, repaired); err != nil {
		s.logger.Error("Failed to persist repaired stories", zap.Error(err))
		return stories
	}
	s.logger.Info("Repaired stories persisted", zap.Int("count", len(repaired)))

	return s.reload(ctx, stories)
}

// reload перечитывает коллекцию после записи; при сбое возвращает прежний набор.
func (s *syncServiceImpl) reload(ctx context.Context, fallback []model.Story) []model.Story {
	stories, err := s.storyRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to reload stories after write", zap.Error(err))
		return fallback
	}
	return stories
}

// recentTitles возвращает заголовки последних историй для затравки генератора.
// Коллекция приходит отсортированной по убыванию StartDate.
func recentTitles(stories []model.Story) []string {
	titles := make([]string, 0, recentTitleSeed)
	for _, s := range stories {
		if len(titles) == recentTitleSeed {
			break
		}
		titles = append(titles, s.Title)
	}
	return titles
}
