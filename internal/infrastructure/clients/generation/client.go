package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/makerworks/safetytraining/backend/internal/domain/providers"
	"github.com/makerworks/safetytraining/backend/pkg/config"
	apperrors "github.com/makerworks/safetytraining/backend/pkg/errors"
	"github.com/makerworks/safetytraining/backend/pkg/retry"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultMaxAttempts = 4

	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
	backoffFactor  = 2.0

	temperature      = 0.7
	maxTokens        = 2048
	topP             = 1.0
	frequencyPenalty = 0.0
	presencePenalty  = 0.0
)

// errMalformedOutput marks responses that decoded fine but failed quiz format
// validation. Shares the transport retry budget.
var errMalformedOutput = errors.New("generation output failed quiz format validation")

// errMissingContent marks 2xx responses without the expected content field.
// Treated like malformed output: retried under the same budget.
var errMissingContent = errors.New("generation response missing content field")

// Client calls the external chat-completions service with retry, backoff and
// format validation. Sampling parameters are fixed; model, key and attempt
// ceiling come from configuration, read once at construction.
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	maxAttempts int
	httpClient  *http.Client
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewClient creates a new generation client.
func NewClient(cfg *config.GenerationConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("generation api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	return &Client{
		apiKey:      cfg.APIKey,
		model:       model,
		baseURL:     baseURL,
		maxAttempts: maxAttempts,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// NewClientWithOptions allows overriding the HTTP client and backoff sleep
// primitive (used for tests).
func NewClientWithOptions(apiKey, model, baseURL string, maxAttempts int, httpClient *http.Client, sleep func(ctx context.Context, d time.Duration) error) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Client{
		apiKey:      apiKey,
		model:       model,
		baseURL:     baseURL,
		maxAttempts: maxAttempts,
		httpClient:  httpClient,
		sleep:       sleep,
	}
}

type chatRequest struct {
	Model            string              `json:"model"`
	Messages         []providers.Message `json:"messages"`
	Temperature      float64             `json:"temperature"`
	MaxTokens        int                 `json:"max_tokens"`
	TopP             float64             `json:"top_p"`
	FrequencyPenalty float64             `json:"frequency_penalty"`
	PresencePenalty  float64             `json:"presence_penalty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateQuizText returns raw quiz-format text. Transient HTTP failures and
// malformed outputs retry under one shared backoff budget; the caller receives
// either validated text or a typed, attempt-annotated failure.
func (c *Client) GenerateQuizText(ctx context.Context, system, user providers.Message) (string, error) {
	return c.generate(ctx, system, user, true)
}

// GenerateAnswer returns free-text output without quiz format validation.
func (c *Client) GenerateAnswer(ctx context.Context, system, user providers.Message) (string, error) {
	return c.generate(ctx, system, user, false)
}

func (c *Client) generate(ctx context.Context, system, user providers.Message, validateQuiz bool) (string, error) {
	cfg := retry.Config{
		MaxAttempts:   c.maxAttempts,
		InitialDelay:  initialBackoff,
		MaxDelay:      maxBackoff,
		BackoffFactor: backoffFactor,
		Sleep:         c.sleep,
	}

	var result string
	attempts := 0
	err := retry.Do(ctx, cfg, func() error {
		attempts++
		content, err := c.doRequest(ctx, []providers.Message{system, user})
		if err != nil {
			return err
		}
		if validateQuiz && !looksLikeQuiz(content) {
			return errMalformedOutput
		}
		result = content
		return nil
	})
	if err != nil {
		if errors.Is(err, errMalformedOutput) || errors.Is(err, errMissingContent) {
			return "", apperrors.New(apperrors.ErrorTypeMalformedGeneration,
				fmt.Sprintf("generation produced unusable output after %d attempts", attempts), err)
		}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return "", appErr
		}
		return "", apperrors.New(apperrors.ErrorTypeGenerationHTTP,
			fmt.Sprintf("generation request failed after %d attempts", attempts), err)
	}
	return result, nil
}

func (c *Client) doRequest(ctx context.Context, messages []providers.Message) (string, error) {
	payload := chatRequest{
		Model:            c.model,
		Messages:         messages,
		Temperature:      temperature,
		MaxTokens:        maxTokens,
		TopP:             topP,
		FrequencyPenalty: frequencyPenalty,
		PresencePenalty:  presencePenalty,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", retry.Permanent(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", retry.Permanent(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordGenerationMetric(ctx, c.model, 0, time.Since(start), err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		statusErr := fmt.Errorf("generation request failed with status %d: %s", resp.StatusCode, string(respBody))
		recordGenerationMetric(ctx, c.model, resp.StatusCode, time.Since(start), statusErr)

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return "", statusErr
		}
		return "", retry.Permanent(apperrors.New(apperrors.ErrorTypeGenerationHTTP, statusErr.Error(), nil))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		recordGenerationMetric(ctx, c.model, resp.StatusCode, time.Since(start), err)
		return "", err
	}

	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		recordGenerationMetric(ctx, c.model, resp.StatusCode, time.Since(start), errMissingContent)
		return "", errMissingContent
	}

	recordGenerationMetric(ctx, c.model, resp.StatusCode, time.Since(start), nil)
	return decoded.Choices[0].Message.Content, nil
}

var _ providers.GenerationProvider = (*Client)(nil)

type generationMetrics struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
}

var (
	generationMetricsOnce sync.Once
	generationMetricsInit bool
	genMetrics            generationMetrics
)

func ensureGenerationMetrics() {
	generationMetricsOnce.Do(initGenerationMetrics)
}

func initGenerationMetrics() {
	meter := otel.Meter("github.com/makerworks/safetytraining/backend/generation")

	requestCount, err := meter.Int64Counter(
		"ai.generation.request.count",
		metric.WithDescription("Number of generation requests"),
	)
	if err != nil {
		return
	}
	requestDuration, err := meter.Float64Histogram(
		"ai.generation.request.duration",
		metric.WithDescription("Generation request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return
	}
	requestErrors, err := meter.Int64Counter(
		"ai.generation.request.errors",
		metric.WithDescription("Number of generation request errors"),
	)
	if err != nil {
		return
	}

	genMetrics = generationMetrics{
		requestCount:    requestCount,
		requestDuration: requestDuration,
		requestErrors:   requestErrors,
	}
	generationMetricsInit = true
}

func recordGenerationMetric(ctx context.Context, model string, statusCode int, duration time.Duration, err error) {
	ensureGenerationMetrics()
	if !generationMetricsInit {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("ai.model", model),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	genMetrics.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	genMetrics.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		genMetrics.requestErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
