package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hekayat-server/internal/lifecycle"
	"hekayat-server/internal/model"
	"hekayat-server/internal/repository"
	"hekayat-server/pkg/ai"
)

// StoryFilter - фильтр ленты.
type StoryFilter string

const (
	FilterAll       StoryFilter = "all"
	FilterAI        StoryFilter = "ai"
	FilterCommunity StoryFilter = "community"
)

// FeedItem - история в выдаче наружу: к документу добавлен номер
// открытой главы, а закрытые главы вырезаны.
type FeedItem struct {
	model.Story
	UnlockedDay int `json:"unlockedDay"`
}

// UserStoryInput - заявка на публикацию пользовательской истории.
// Все три главы подаются сразу, частичных публикаций нет.
type UserStoryInput struct {
	Title      string           `json:"title"`
	Genre      model.StoryGenre `json:"genre"`
	Category   string           `json:"category"`
	Characters []string         `json:"characters"`
	Day1       string           `json:"day1"`
	Day2       string           `json:"day2"`
	Day3       string           `json:"day3"`
	Summary    string           `json:"summary"`
	CoverImage string           `json:"coverImage"`
}

// StoryService - операции чтения и записи над историями.
type StoryService interface {
	Feed(filter StoryFilter) []FeedItem
	GetStory(ctx context.Context, id string) (*FeedItem, error)
	// SubmitRating применяет оценку и возвращает перезагруженную коллекцию.
	SubmitRating(ctx context.Context, id string, rating int) ([]model.Story, error)
	Share(ctx context.Context, id string) error
	SubmitUserStory(ctx context.Context, author string, input UserStoryInput) (*model.Story, error)
	Remix(ctx context.Context, author string, storyID string, twist string) (*model.Story, error)
}

type storyServiceImpl struct {
	storyRepo repository.StoryRepository
	generator ai.Generator
	view      *StoryView
	logger    *zap.Logger
	now       func() time.Time
}

// NewStoryService создает сервис историй.
func NewStoryService(
	storyRepo repository.StoryRepository,
	generator ai.Generator,
	view *StoryView,
	logger *zap.Logger,
) StoryService {
	return &storyServiceImpl{
		storyRepo: storyRepo,
		generator: generator,
		view:      view,
		logger:    logger.Named("StoryService"),
		now:       time.Now,
	}
}

// Feed отдает опубликованный снимок: никакого I/O на пути чтения ленты.
func (s *storyServiceImpl) Feed(filter StoryFilter) []FeedItem {
	now := s.now()
	stories := s.view.Snapshot()

	items := make([]FeedItem, 0, len(stories))
	for _, story := range stories {
		switch filter {
		case FilterAI:
			if story.IsUserStory {
				continue
			}
		case FilterCommunity:
			if !story.IsUserStory {
				continue
			}
		}
		items = append(items, s.render(story, now))
	}
	return items
}

func (s *storyServiceImpl) GetStory(ctx context.Context, id string) (*FeedItem, error) {
	story, err := s.storyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item := s.render(*story, s.now())
	return &item, nil
}

// render вычисляет открытую главу и вырезает еще закрытые главы
// машинной истории. Пользовательские истории отдаются целиком.
func (s *storyServiceImpl) render(story model.Story, now time.Time) FeedItem {
	day := lifecycle.UnlockedDayFor(&story, now)
	if day < 2 {
		story.Day2 = ""
	}
	if day < 3 {
		story.Day3 = ""
	}
	return FeedItem{Story: story, UnlockedDay: day}
}

// SubmitRating пересчитывает среднюю оценку инкрементально:
// newAvg = round1((avg*count + rating) / (count+1)). Чтение и запись
// не атомарны - при двух одновременных оценках последняя запись
// побеждает, это осознанно унаследованное поведение хранилища без
// транзакций. Отсутствующая история - не ошибка: запись пропускается,
// перезагруженная коллекция возвращается все равно.
func (s *storyServiceImpl) SubmitRating(ctx context.Context, id string, rating int) ([]model.Story, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be in [1,5], got %d", model.ErrValidation, rating)
	}

	story, err := s.storyRepo.GetByID(ctx, id)
	switch {
	case errors.Is(err, model.ErrNotFound):
		s.logger.Warn("Rating submitted for missing story, skipping write", zap.String("storyID", id))
	case err != nil:
		return nil, err
	default:
		avg := 0.0
		if story.AverageRating != nil {
			avg = *story.AverageRating
		}
		count := story.UserRatingsCount
		newAvg := round1((avg*float64(count) + float64(rating)) / float64(count+1))

		fields := map[string]interface{}{
			"average_rating":     newAvg,
			"user_ratings_count": count + 1,
		}
		if err := s.storyRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
		s.logger.Info("Rating applied",
			zap.String("storyID", id),
			zap.Int("rating", rating),
			zap.Float64("newAverage", newAvg),
			zap.Int("newCount", count+1),
		)
	}

	stories, err := s.storyRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.view.Publish(lifecycle.ActiveStories(stories, s.now()))
	return stories, nil
}

func (s *storyServiceImpl) Share(ctx context.Context, id string) error {
	story, err := s.storyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	fields := map[string]interface{}{
		"share_count": story.ShareCount + 1,
	}
	if err := s.storyRepo.UpdateFields(ctx, id, fields); err != nil {
		return err
	}
	s.logger.Info("Story shared", zap.String("storyID", id), zap.Int("shareCount", story.ShareCount+1))
	return nil
}

// SubmitUserStory валидирует заявку до любого I/O и публикует историю
// сразу целиком: у пользовательских историй нет календарного гейта.
func (s *storyServiceImpl) SubmitUserStory(ctx context.Context, author string, input UserStoryInput) (*model.Story, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if input.Day1 == "" || input.Day2 == "" || input.Day3 == "" {
		return nil, fmt.Errorf("%w: all three chapters are required", model.ErrValidation)
	}
	if !input.Genre.Valid() {
		return nil, fmt.Errorf("%w: unknown genre %q", model.ErrValidation, input.Genre)
	}

	story := model.Story{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Genre:       input.Genre,
		Category:    input.Category,
		Characters:  input.Characters,
		Day1:        input.Day1,
		Day2:        input.Day2,
		Day3:        input.Day3,
		Summary:     input.Summary,
		StartDate:   s.now().Format(time.RFC3339),
		IsUserStory: true,
		CoverImage:  input.CoverImage,
		AuthorName:  author,
	}

	if err := s.storyRepo.UpsertMany(ctx, []model.Story{story}); err != nil {
		return nil, err
	}
	s.logger.Info("User story published", zap.String("storyID", story.ID), zap.String("author", author))

	s.republish(ctx)
	return &story, nil
}

// Remix переписывает существующую историю вокруг твиста и публикует
// результат как пользовательскую историю со ссылкой на оригинал.
func (s *storyServiceImpl) Remix(ctx context.Context, author string, storyID string, twist string) (*model.Story, error) {
	if strings.TrimSpace(twist) == "" {
		return nil, fmt.Errorf("%w: twist is required", model.ErrValidation)
	}

	original, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}

	draft, err := s.generator.Remix(ctx, *original, twist)
	if err != nil {
		return nil, err
	}

	story := model.Story{
		ID:          uuid.New().String(),
		Title:       draft.Title,
		Genre:       original.Genre,
		Category:    original.Category,
		Characters:  original.Characters,
		Day1:        draft.Day1,
		Day2:        draft.Day2,
		Day3:        draft.Day3,
		Summary:     draft.Summary,
		StartDate:   s.now().Format(time.RFC3339),
		IsUserStory: true,
		RemixOf:     original.ID,
		AuthorName:  author,
	}
	if cover, imgErr := s.generator.GenerateCoverImage(ctx, draft.ImagePrompt); imgErr == nil {
		story.CoverImage = cover
	}

	if err := s.storyRepo.UpsertMany(ctx, []model.Story{story}); err != nil {
		return nil, err
	}
	s.logger.Info("Remix published",
		zap.String("storyID", story.ID),
		zap.String("remixOf", original.ID),
		zap.String("author", author),
	)

	s.republish(ctx)
	return &story, nil
}

// republish перечитывает коллекцию и обновляет снимок после записи.
// Сбой здесь не фатален: снимок догонит следующая синхронизация.
func (s *storyServiceImpl) republish(ctx context.Context) {
	stories, err := s.storyRepo.List(ctx)
	if err != nil {
		s.logger.Warn("Failed to republish view after write", zap.Error(err))
		return
	}
	s.view.Publish(lifecycle.ActiveStories(stories, s.now()))
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
