package httpdelivery

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPort = "10000"

	aliveText  = "🤖 Bot is alive and running!"
	healthText = "✅ OK"
)

// NewRouter hosting health-check uchun marshrutlar
func NewRouter(logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), withLogging(logger))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, aliveText)
	})
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, healthText)
	})

	return r
}

// withLogging har bir so'rovni loglash
func withLogging(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Server liveness HTTP server
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer yangi server yaratish
func NewServer(port string, logger *slog.Logger) *Server {
	if port == "" {
		port = DefaultPort
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort("0.0.0.0", port),
			Handler:           NewRouter(logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Run ctx bekor qilinguncha tinglash
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("liveness server listening", "addr", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}
