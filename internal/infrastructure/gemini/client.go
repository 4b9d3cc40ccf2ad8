package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/yourusername/deepseek-assistant-bot/internal/domain/entity"
	"github.com/yourusername/deepseek-assistant-bot/internal/domain/repository"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.0-flash"

// Options Gemini client sozlamalari
type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type geminiClient struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
	logger    *slog.Logger
}

// NewGeminiClient yangi Gemini AI client yaratish
func NewGeminiClient(ctx context.Context, opts Options, logger *slog.Logger) (repository.AIRepository, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &geminiClient{
		client:    client,
		modelName: opts.Model,
		timeout:   opts.Timeout,
		logger:    logger,
	}, nil
}

// Complete so'rovni Gemini ga yuborish
func (g *geminiClient) Complete(ctx context.Context, req entity.CompletionRequest) entity.CompletionResult {
	logger := g.logger.With("request_id", uuid.New().String(), "model", g.modelName)
	start := time.Now()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	system, prompt := splitMessages(req.Messages())

	// System instruction har so'rovda tarixga qarab o'zgaradi
	model := g.client.GenerativeModel(g.modelName)
	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	logger.Info("completion request", "user_chars", entity.CharCount(prompt))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		kind := ClassifyError(err)
		logger.Error("completion failed", "kind", kind, "duration", time.Since(start), "err", err)
		return entity.Failure(kind, err)
	}

	text := extractText(resp)
	if text == "" {
		err := errors.New("gemini: empty candidates")
		logger.Error("completion failed", "kind", entity.KindUnexpected, "err", err)
		return entity.Failure(entity.KindUnexpected, err)
	}

	logger.Info("completion succeeded", "duration", time.Since(start))
	return entity.Success(text)
}

// splitMessages system xabarlarni instruction ga, user xabarni prompt ga ajratish
func splitMessages(messages []entity.ChatMessage) (system, prompt string) {
	var systemParts, userParts []string
	for _, msg := range messages {
		switch msg.Role {
		case entity.RoleSystem:
			systemParts = append(systemParts, msg.Content)
		case entity.RoleUser:
			userParts = append(userParts, msg.Content)
		}
	}
	return strings.Join(systemParts, "\n\n"), strings.Join(userParts, "\n\n")
}

// extractText javobdan textni ajratib olish
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return ""
	}

	var result strings.Builder
	for _, part := range cand.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			result.WriteString(string(text))
		}
	}
	return result.String()
}

// ClassifyError Gemini xatosini xato turiga aylantirish
func ClassifyError(err error) entity.FailureKind {
	if err == nil {
		return entity.KindOK
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return entity.KindHTTPStatus
	}
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPCode() > 0 {
		return entity.KindHTTPStatus
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return entity.KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return entity.KindTimeout
		}
		return entity.KindConnection
	}

	return entity.KindUnexpected
}

// Close client ni yopish
func (g *geminiClient) Close() error {
	return g.client.Close()
}
