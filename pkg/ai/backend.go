package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"
	"github.com/prometheus/client_golang/prometheus"
	openaigo "github.com/sashabaranov/go-openai"
)

// ErrGenerationFailed - ошибка при генерации текста AI
var ErrGenerationFailed = errors.New("ошибка генерации текста AI")

// GenerationParams - параметры генерации. Используем указатели,
// чтобы отличить 0/0.0 от отсутствия.
type GenerationParams struct {
	Temperature *float64
	MaxTokens   *int
	TopP        *float64
}

// UsageInfo - информация об использовании токенов за один запрос.
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// TextClient - низкоуровневый клиент текстовой генерации.
// Реализации: OpenAI-совместимый API и Ollama.
type TextClient interface {
	GenerateText(ctx context.Context, systemPrompt string, userInput string, params GenerationParams) (string, UsageInfo, error)
}

// BackendConfig - конфигурация низкоуровневого AI-бэкенда.
type BackendConfig struct {
	// ClientType: "openai" или "ollama".
	ClientType string
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
}

// --- OpenAI Client Implementation ---

type openAIClient struct {
	client *openaigo.Client
	model  string
}

// GenerateText генерирует текст через OpenAI-совместимый API.
func (c *openAIClient) GenerateText(ctx context.Context, systemPrompt string, userInput string, params GenerationParams) (string, UsageInfo, error) {
	usageInfo := UsageInfo{}
	if strings.TrimSpace(systemPrompt) == "" {
		return "", usageInfo, fmt.Errorf("%w: системный промт пуст", ErrGenerationFailed)
	}

	messages := []openaigo.ChatCompletionMessage{
		{
			Role:    openaigo.ChatMessageRoleSystem,
			Content: systemPrompt,
		},
	}
	if userInput != "" {
		messages = append(messages, openaigo.ChatCompletionMessage{
			Role:    openaigo.ChatMessageRoleUser,
			Content: userInput,
		})
	}

	startTime := time.Now()
	log.Debug().
		Str("model", c.model).
		Int("systemPromptBytes", len(systemPrompt)).
		Int("userInputBytes", len(userInput)).
		Msg("Отправка запроса к AI")

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openaigo.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			Temperature: float32Val(params.Temperature),
			MaxTokens:   intVal(params.MaxTokens),
			TopP:        float32Val(params.TopP),
		},
	)

	duration := time.Since(startTime)

	if err != nil {
		log.Error().Err(err).Dur("duration", duration).Msg("Ошибка от AI API")
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Error().Dur("duration", duration).Msg("AI API вернул пустой ответ")
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error_empty_response"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: получен пустой ответ", ErrGenerationFailed)
	}

	aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"model": c.model}).Observe(duration.Seconds())

	generatedText := resp.Choices[0].Message.Content
	log.Debug().Dur("duration", duration).Int("responseChars", len(generatedText)).Msg("Ответ от AI API получен")

	if resp.Usage.TotalTokens > 0 {
		usageInfo.PromptTokens = resp.Usage.PromptTokens
		usageInfo.CompletionTokens = resp.Usage.CompletionTokens
		usageInfo.TotalTokens = resp.Usage.TotalTokens
	} else {
		// Некоторые OpenAI-совместимые шлюзы не возвращают Usage -
		// считаем токены примерно через tiktoken.
		tke, tkeErr := tiktoken.EncodingForModel(c.model)
		if tkeErr != nil {
			tke, tkeErr = tiktoken.GetEncoding("cl100k_base")
		}
		if tkeErr == nil {
			usageInfo.PromptTokens = len(tke.Encode(systemPrompt, nil, nil)) + len(tke.Encode(userInput, nil, nil))
			usageInfo.CompletionTokens = len(tke.Encode(generatedText, nil, nil))
			usageInfo.TotalTokens = usageInfo.PromptTokens + usageInfo.CompletionTokens
			log.Debug().
				Int("promptTokens", usageInfo.PromptTokens).
				Int("completionTokens", usageInfo.CompletionTokens).
				Msg("Usage не получен от API, токены оценены через tiktoken")
		}
	}

	if usageInfo.TotalTokens > 0 {
		aiPromptTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(usageInfo.PromptTokens))
		aiCompletionTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(usageInfo.CompletionTokens))
		aiTotalTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(usageInfo.TotalTokens))
	}

	return generatedText, usageInfo, nil
}

// --- Ollama Client Implementation ---

type ollamaClient struct {
	client  *api.Client
	model   string
	timeout time.Duration
}

func newOllamaClient(cfg BackendConfig) (TextClient, error) {
	httpClient := &http.Client{
		Timeout: cfg.Timeout,
	}

	// api.NewClient требует URL без суффикса /v1.
	ollamaBaseURL := strings.TrimSuffix(cfg.BaseURL, "/v1")
	ollamaBaseURL = strings.TrimSuffix(ollamaBaseURL, "/")

	parsedURL, err := url.Parse(ollamaBaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга Ollama Base URL '%s': %w", ollamaBaseURL, err)
	}

	client := api.NewClient(parsedURL, httpClient)

	log.Info().Str("baseURL", ollamaBaseURL).Str("model", cfg.Model).Dur("timeout", cfg.Timeout).Msg("Ollama клиент создан")

	return &ollamaClient{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// GenerateText генерирует текст с использованием Ollama.
func (c *ollamaClient) GenerateText(ctx context.Context, systemPrompt string, userInput string, params GenerationParams) (string, UsageInfo, error) {
	usageInfo := UsageInfo{}

	if strings.TrimSpace(systemPrompt) == "" {
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: системный промт пуст", ErrGenerationFailed)
	}

	messages := []api.Message{
		{Role: "system", Content: systemPrompt},
	}
	if userInput != "" {
		messages = append(messages, api.Message{Role: "user", Content: userInput})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   &stream,
		Options: map[string]interface{}{
			"temperature": params.Temperature,
			"top_p":       params.TopP,
			"num_predict": intVal(params.MaxTokens),
		},
	}

	requestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	startTime := time.Now()
	log.Debug().
		Str("model", c.model).
		Int("systemPromptBytes", len(systemPrompt)).
		Int("userInputBytes", len(userInput)).
		Msg("Отправка запроса к Ollama")

	var resp api.ChatResponse
	err := c.client.Chat(requestCtx, req, func(r api.ChatResponse) error {
		resp = r
		return nil
	})

	duration := time.Since(startTime)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Error().Err(err).Dur("timeout", c.timeout).Dur("duration", duration).Msg("Таймаут запроса к Ollama API")
		} else {
			log.Error().Err(err).Dur("duration", duration).Msg("Ошибка от Ollama API")
		}
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if resp.Message.Content == "" {
		log.Error().Dur("duration", duration).Msg("Ollama API вернул пустой ответ")
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error_empty_response"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: получен пустой ответ", ErrGenerationFailed)
	}

	aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"model": c.model}).Observe(duration.Seconds())

	generatedText := resp.Message.Content
	log.Debug().Dur("duration", duration).Int("responseChars", len(generatedText)).Msg("Ответ от Ollama API получен")

	usageInfo.PromptTokens = resp.PromptEvalCount
	usageInfo.CompletionTokens = resp.EvalCount
	usageInfo.TotalTokens = resp.PromptEvalCount + resp.EvalCount

	if usageInfo.TotalTokens > 0 {
		aiPromptTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(usageInfo.PromptTokens))
		aiCompletionTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(usageInfo.CompletionTokens))
		aiTotalTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(usageInfo.TotalTokens))
	}

	return generatedText, usageInfo, nil
}

// --- Factory Function ---

// NewTextClient создает низкоуровневый AI-клиент в зависимости от конфигурации.
func NewTextClient(cfg BackendConfig) (TextClient, error) {
	switch strings.ToLower(cfg.ClientType) {
	case "openai":
		if cfg.APIKey == "" {
			return nil, errors.New("не указан API ключ для OpenAI-совместимого бэкенда")
		}
		openaiConfig := openaigo.DefaultConfig(cfg.APIKey)
		openaiConfig.BaseURL = cfg.BaseURL
		openaiConfig.HTTPClient = &http.Client{
			Timeout: cfg.Timeout,
		}
		client := openaigo.NewClientWithConfig(openaiConfig)
		log.Info().Str("baseURL", cfg.BaseURL).Str("model", cfg.Model).Dur("timeout", cfg.Timeout).Msg("OpenAI клиент создан")
		return &openAIClient{
			client: client,
			model:  cfg.Model,
		}, nil
	case "ollama":
		return newOllamaClient(cfg)
	default:
		return nil, fmt.Errorf("неизвестный тип AI клиента: '%s'", cfg.ClientType)
	}
}

func float32Val(f64 *float64) float32 {
	if f64 == nil {
		return 1.0
	}
	return float32(*f64)
}

func intVal(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
