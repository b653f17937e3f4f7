// Package web реализует HTTP часть бота: страницу квиза для Telegram Web App,
// API для нее и прием webhook-обновлений.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/letsssgooo/quizwebapp/internal/client"
	"github.com/letsssgooo/quizwebapp/internal/domain/models"
	"github.com/letsssgooo/quizwebapp/internal/storage"
)

//go:embed templates/*.html
var templatesFS embed.FS

const shutdownTimeout = 10 * time.Second

// UpdateHandler обрабатывает обновления Telegram, пришедшие через webhook.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update client.Update) error
}

// Pinger реализуют хранилища, доступность которых проверяет /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Notifier сообщает о сохраненном результате.
type Notifier interface {
	NotifyResult(ctx context.Context, quiz models.Quiz, result models.Result) error
}

// Options содержит настройки HTTP сервера.
type Options struct {
	// AllowOrigins - источники, которым разрешены запросы к API. Пусто - любые.
	AllowOrigins []string

	// WebhookSecret должен совпадать с заголовком X-Telegram-Bot-Api-Secret-Token.
	// Пустой - /webhook не принимает обновления.
	WebhookSecret string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	Logger *slog.Logger
}

// Server - HTTP сервер Web App.
type Server struct {
	repo     storage.Repository
	updates  UpdateHandler
	notifier Notifier
	log      *slog.Logger
	opts     Options
	router   *gin.Engine
}

// NewServer создает сервер и регистрирует маршруты. updates и notifier могут быть nil.
func NewServer(repo storage.Repository, updates UpdateHandler, notifier Notifier, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		repo:     repo,
		updates:  updates,
		notifier: notifier,
		log:      opts.Logger,
		opts:     opts,
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(gin.Recovery(), requestID(), accessLog(s.log), cors.New(corsConfig(opts.AllowOrigins)))

	router.GET("/health", s.health)
	router.GET("/quiz/:code", s.quizPage)
	router.POST("/webhook", s.webhook)

	api := router.Group("/api")
	{
		api.GET("/get_quiz/:code", s.getQuiz)
		api.POST("/submit_result", s.submitResult)
	}

	s.router = router

	return s, nil
}

// Handler возвращает http.Handler со всеми маршрутами.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run слушает addr до отмены ctx, после чего плавно останавливает сервер.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		s.log.Info("http server started", slog.String("addr", addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}

	s.log.Info("http server stopped")

	return nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}

	return cfg
}
