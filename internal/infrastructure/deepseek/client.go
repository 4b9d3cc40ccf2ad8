package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/deepseek-assistant-bot/internal/domain/entity"
	"github.com/yourusername/deepseek-assistant-bot/internal/domain/repository"
)

const (
	DefaultEndpoint = "https://api.deepseek.com/v1/chat/completions"
	DefaultModel    = "deepseek-chat"
	DefaultTimeout  = 120 * time.Second
)

// Options DeepSeek client sozlamalari
type Options struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

type deepseekClient struct {
	endpoint string
	apiKey   string
	model    string
	http     *http.Client
	logger   *slog.Logger
}

type chatCompletionRequest struct {
	Model    string               `json:"model"`
	Messages []entity.ChatMessage `json:"messages"`
	Stream   bool                 `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewDeepSeekClient yangi DeepSeek client yaratish
func NewDeepSeekClient(opts Options, logger *slog.Logger) repository.AIRepository {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &deepseekClient{
		endpoint: opts.Endpoint,
		apiKey:   opts.APIKey,
		model:    opts.Model,
		http:     &http.Client{Timeout: opts.Timeout},
		logger:   logger,
	}
}

// Complete so'rovni bir marta yuborish, qayta urinish yo'q
func (c *deepseekClient) Complete(ctx context.Context, req entity.CompletionRequest) entity.CompletionResult {
	logger := c.logger.With("request_id", uuid.New().String(), "model", c.model)
	start := time.Now()

	logger.Info("completion request", "messages", len(req.Messages()), "user_chars", entity.CharCount(req.UserMessage))

	text, status, err := c.do(ctx, req)
	if err != nil {
		kind := ClassifyError(err)
		logger.Error("completion failed", "kind", kind, "status", status, "duration", time.Since(start), "err", err)
		return entity.Failure(kind, err)
	}

	logger.Info("completion succeeded", "status", status, "duration", time.Since(start))
	return entity.Success(text)
}

func (c *deepseekClient) do(ctx context.Context, req entity.CompletionRequest) (string, int, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:    c.model,
		Messages: req.Messages(),
		Stream:   false,
	})
	if err != nil {
		return "", 0, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", 0, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return "", resp.StatusCode, &StatusError{Code: resp.StatusCode, Body: truncate(string(raw), 512)}
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", resp.StatusCode, errors.New("deepseek: empty choices")
	}

	return out.Choices[0].Message.Content, resp.StatusCode, nil
}

// StatusError API 4xx/5xx qaytarganda
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("deepseek http %d: %s", e.Code, e.Body)
}

// ClassifyError transport xatosini xato turiga aylantirish
func ClassifyError(err error) entity.FailureKind {
	if err == nil {
		return entity.KindOK
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return entity.KindHTTPStatus
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return entity.KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return entity.KindTimeout
	}

	// Timeout bo'lmagan transport xatolari - ulanish muammosi
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return entity.KindConnection
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return entity.KindConnection
	}

	return entity.KindUnexpected
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
