package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yourusername/deepseek-assistant-bot/config"
	httpdelivery "github.com/yourusername/deepseek-assistant-bot/internal/delivery/http"
	"github.com/yourusername/deepseek-assistant-bot/internal/delivery/telegram"
	"github.com/yourusername/deepseek-assistant-bot/internal/domain/repository"
	"github.com/yourusername/deepseek-assistant-bot/internal/infrastructure/deepseek"
	"github.com/yourusername/deepseek-assistant-bot/internal/infrastructure/gemini"
	"github.com/yourusername/deepseek-assistant-bot/internal/infrastructure/storage"
	"github.com/yourusername/deepseek-assistant-bot/internal/observability"
	"github.com/yourusername/deepseek-assistant-bot/internal/usecase"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "assistant-bot",
		Short:         "Personal Telegram assistant backed by a chat-completion API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(cmd.Context(), v); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().String("env-file", "", "Path to a .env file (defaults to ./.env when present).")
	cmd.Flags().String("port", "", "Liveness server port (overrides PORT).")
	cmd.Flags().String("log-level", "", "Logging level: debug|info|warn|error.")
	cmd.Flags().String("log-format", "", "Logging format: text|json.")

	_ = v.BindPFlag("env_file", cmd.Flags().Lookup("env-file"))
	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))
	_ = v.BindPFlag("log_level", cmd.Flags().Lookup("log-level"))
	_ = v.BindPFlag("log_format", cmd.Flags().Lookup("log-format"))

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})

	return cmd
}

func run(parent context.Context, v *viper.Viper) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	scope, err := usecase.ParseHistoryScope(cfg.HistoryScope)
	if err != nil {
		return err
	}

	historyRepo, err := newHistoryRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeQuietly(historyRepo, logger)
	logger.Info("history storage ready", "backend", cfg.HistoryBackend, "scope", scope)

	aiRepo, err := newAIRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeQuietly(aiRepo, logger)
	logger.Info("completion provider ready", "provider", cfg.Provider)

	chatUseCase := usecase.NewChatUseCase(aiRepo, historyRepo, scope, cfg.SystemPrompt)
	historyUseCase := usecase.NewHistoryUseCase(historyRepo, scope, cfg.PreviewLimit, cfg.MaxDocumentBytes)

	handler, err := telegram.NewBotHandler(
		cfg.TelegramToken,
		storage.NewAllowList(cfg.AllowedUserIDs),
		chatUseCase,
		historyUseCase,
		telegram.HandlerOptions{
			MaxMessageLength: cfg.MaxMessageLength,
			Logger:           logger,
		},
	)
	if err != nil {
		return err
	}

	server := httpdelivery.NewServer(cfg.Port, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() { errCh <- server.Run(ctx) }()
	go func() { errCh <- handler.Start(ctx) }()

	// Birinchi tugagan komponent qolganini ham to'xtatadi
	var firstErr error
	for i := 0; i < 2; i++ {
		err := <-errCh
		cancel()
		if err != nil && !errors.Is(err, context.Canceled) && firstErr == nil {
			firstErr = err
		}
	}

	logger.Info("shutdown complete")
	return firstErr
}

func newHistoryRepository(ctx context.Context, cfg *config.Config) (repository.HistoryRepository, error) {
	switch cfg.HistoryBackend {
	case config.BackendSQLite:
		return storage.NewSQLiteHistoryRepository(cfg.HistoryDBPath)
	case config.BackendRedis:
		return storage.NewRedisHistoryRepository(ctx, storage.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	default:
		return storage.NewMemoryHistoryRepository(), nil
	}
}

func newAIRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.AIRepository, error) {
	if cfg.Provider == config.ProviderGemini {
		return gemini.NewGeminiClient(ctx, gemini.Options{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.CompletionTimeout,
		}, logger)
	}

	return deepseek.NewDeepSeekClient(deepseek.Options{
		Endpoint: cfg.CompletionURL,
		APIKey:   cfg.DeepSeekAPIKey,
		Model:    cfg.CompletionModel,
		Timeout:  cfg.CompletionTimeout,
	}, logger), nil
}

func closeQuietly(v any, logger *slog.Logger) {
	if c, ok := v.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Warn("close failed", "err", err)
		}
	}
}
