package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openaigo "github.com/sashabaranov/go-openai"

	"hekayat-server/internal/model"
)

var log = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

// Generator - высокоуровневый интерфейс генератора контента.
type Generator interface {
	// GenerateBatch генерирует count новых историй. existingTitles передаются
	// модели, чтобы избежать повторов заголовков.
	GenerateBatch(ctx context.Context, existingTitles []string, count int) ([]model.StoryDraft, error)
	// CompleteChapters дозаполняет пустые главы истории.
	CompleteChapters(ctx context.Context, story model.Story) (model.ChapterSet, error)
	// Remix переписывает историю вокруг твиста.
	Remix(ctx context.Context, story model.Story, twist string) (model.RemixDraft, error)
	// GenerateCoverImage возвращает обложку как data URI или пустую строку,
	// если бэкенд не поддерживает изображения.
	GenerateCoverImage(ctx context.Context, prompt string) (string, error)
}

// Client реализует Generator поверх текстового AI-бэкенда.
type Client struct {
	text        TextClient
	imageClient *openaigo.Client // nil, если бэкенд без изображений
	imageModel  string
	timeout     time.Duration
	maxAttempts int
	baseDelay   time.Duration
}

// Config содержит конфигурацию генератора контента.
type Config struct {
	ClientType string
	APIKey     string
	BaseURL    string
	Model      string
	ImageModel string
	Timeout    time.Duration
	// MaxAttempts - попытки на одну операцию, BaseDelay - стартовая задержка ретрая.
	MaxAttempts int
	BaseDelay   time.Duration
}

// Compile-time check to ensure Client implements Generator
var _ Generator = (*Client)(nil)

// New создает генератор контента.
func New(cfg Config) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 180 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}

	text, err := NewTextClient(BackendConfig{
		ClientType: cfg.ClientType,
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Timeout:    cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}

	c := &Client{
		text:        text,
		timeout:     cfg.Timeout,
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
	}

	// Изображения умеет только OpenAI-совместимый бэкенд.
	if strings.ToLower(cfg.ClientType) == "openai" && cfg.ImageModel != "" {
		openaiConfig := openaigo.DefaultConfig(cfg.APIKey)
		openaiConfig.BaseURL = cfg.BaseURL
		openaiConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
		c.imageClient = openaigo.NewClientWithConfig(openaiConfig)
		c.imageModel = cfg.ImageModel
	}

	return c, nil
}

// generateWithRetry выполняет текстовый запрос с повторами.
// Задержка растет экспоненциально с небольшим джиттером.
func (c *Client) generateWithRetry(ctx context.Context, op string, systemPrompt string, userInput string, params GenerationParams) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		text, _, err := c.text.GenerateText(callCtx, systemPrompt, userInput, params)
		cancel()
		if err == nil {
			return text, nil
		}
		lastErr = err
		log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Int("maxAttempts", c.maxAttempts).Msg("Попытка генерации не удалась")

		if attempt == c.maxAttempts {
			break
		}
		delay := c.baseDelay * time.Duration(1<<(attempt-1))
		delay += time.Duration(rand.Int63n(int64(c.baseDelay)))
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(delay):
		}
	}
	return "", fmt.Errorf("%s: не удалось после %d попыток: %w", op, c.maxAttempts, lastErr)
}

func (c *Client) GenerateBatch(ctx context.Context, existingTitles []string, count int) ([]model.StoryDraft, error) {
	if count <= 0 {
		return nil, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Write %d new stories.\n", count)
	if len(existingTitles) > 0 {
		sb.WriteString("Titles already in use (do not reuse):\n")
		for _, t := range existingTitles {
			fmt.Fprintf(&sb, "- %s\n", t)
		}
	}

	temp := 0.9
	params := GenerationParams{Temperature: &temp}

	text, err := c.generateWithRetry(ctx, "generate_batch", batchSystemPrompt, sb.String(), params)
	if err != nil {
		return nil, err
	}

	drafts, err := parseDrafts(text)
	if err != nil {
		return nil, fmt.Errorf("generate_batch: %w", err)
	}
	log.Info().Int("requested", count).Int("parsed", len(drafts)).Msg("Пачка историй сгенерирована")
	return drafts, nil
}

func (c *Client) CompleteChapters(ctx context.Context, story model.Story) (model.ChapterSet, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"title":      story.Title,
		"genre":      story.Genre,
		"category":   story.Category,
		"characters": story.Characters,
		"summary":    story.Summary,
		"day1":       story.Day1,
		"day2":       story.Day2,
		"day3":       story.Day3,
	})
	if err != nil {
		return model.ChapterSet{}, fmt.Errorf("complete_chapters: ошибка сериализации истории: %w", err)
	}

	temp := 0.7
	params := GenerationParams{Temperature: &temp}

	text, err := c.generateWithRetry(ctx, "complete_chapters", completeSystemPrompt, string(payload), params)
	if err != nil {
		return model.ChapterSet{}, err
	}

	cs, err := parseChapterSet(text)
	if err != nil {
		return model.ChapterSet{}, fmt.Errorf("complete_chapters: %w", err)
	}
	return cs, nil
}

func (c *Client) Remix(ctx context.Context, story model.Story, twist string) (model.RemixDraft, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"title":   story.Title,
		"genre":   story.Genre,
		"summary": story.Summary,
		"day1":    story.Day1,
		"day2":    story.Day2,
		"day3":    story.Day3,
		"twist":   twist,
	})
	if err != nil {
		return model.RemixDraft{}, fmt.Errorf("remix: ошибка сериализации истории: %w", err)
	}

	temp := 0.9
	params := GenerationParams{Temperature: &temp}

	text, err := c.generateWithRetry(ctx, "remix", remixSystemPrompt, string(payload), params)
	if err != nil {
		return model.RemixDraft{}, err
	}

	rd, err := parseRemix(text)
	if err != nil {
		return model.RemixDraft{}, fmt.Errorf("remix: %w", err)
	}
	return rd, nil
}

// GenerateCoverImage генерирует обложку. Отсутствие обложки не ошибка:
// истории публикуются и без изображений.
func (c *Client) GenerateCoverImage(ctx context.Context, prompt string) (string, error) {
	if c.imageClient == nil || strings.TrimSpace(prompt) == "" {
		return "", nil
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.imageClient.CreateImage(callCtx, openaigo.ImageRequest{
		Model:          c.imageModel,
		Prompt:         prompt,
		N:              1,
		Size:           openaigo.CreateImageSize512x512,
		ResponseFormat: openaigo.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Ошибка генерации обложки")
		return "", fmt.Errorf("ошибка генерации обложки: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", nil
	}

	return "data:image/png;base64," + resp.Data[0].B64JSON, nil
}
