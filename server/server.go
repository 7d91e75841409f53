package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"creativerenamer/internal/config"
	"creativerenamer/server/handlers"
	"creativerenamer/server/middleware"
	"creativerenamer/server/monitoring"
	"creativerenamer/server/services"
)

// Server HTTP сервер переименования креативов
type Server struct {
	config      *config.Config
	httpServer  *http.Server
	httpHandler http.Handler
	handlerOnce sync.Once
	mu          sync.Mutex
	renamer     *handlers.RenamerHandler
	metrics     *monitoring.MetricsCollector
	startTime   time.Time
}

// New создает сервер с указанной конфигурацией
func New(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.GetDefaults()
	}
	service := services.NewRenamerService(cfg)
	return &Server{
		config:    cfg,
		renamer:   handlers.NewRenamerHandler(service, cfg.MaxUploadSize),
		metrics:   monitoring.NewMetricsCollector(),
		startTime: time.Now(),
	}
}

// Addr адрес, на котором слушает сервер
func (s *Server) Addr() string {
	return ":" + s.config.Port
}

// Start запускает HTTP сервер и блокируется до его остановки
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.Addr(), err)
	}
	return s.Serve(ln)
}

// Serve обслуживает соединения на переданном listener
func (s *Server) Serve(ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	log.Printf("Starting HTTP server on %s...", ln.Addr())
	LogInfo(context.Background(), "Server started",
		"addr", ln.Addr().String(),
		"max_upload_size", s.config.MaxUploadSize,
		"strategy", s.config.Match.Strategy,
	)

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) handler() http.Handler {
	s.handlerOnce.Do(func() {
		s.httpHandler = s.buildHTTPHandler()
	})
	return s.httpHandler
}

func (s *Server) buildHTTPHandler() http.Handler {
	// Режим можно переопределить через GIN_MODE
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.GinRequestIDMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	// Архив и так сжат
	router.Use(middleware.GinGzipMiddleware("/api/rename"))
	router.Use(middleware.GinLoggerMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinMetricsMiddleware(s.metrics))
	router.Use(middleware.GinRateLimitMiddleware(s.config.RateLimitPerSec, s.config.RateLimitBurst))

	handlers.RegisterSwaggerRoutes(router, "localhost:"+s.config.Port)
	s.renamer.RegisterRoutes(router)
	handlers.NewMetricsHandler(s.metrics).RegisterRoutes(router)
	router.NoRoute(middleware.GinNoRouteHandler())

	return router
}

// ServeHTTP реализует http.Handler для тестов и вспомогательных утилит
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler().ServeHTTP(w, r)
}

// Uptime время с момента создания сервера
func (s *Server) Uptime() time.Duration {
	return time.Since(s.startTime)
}

// Shutdown останавливает HTTP сервер gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	start := time.Now()
	log.Println("Initiating graceful shutdown...")
	if err := srv.Shutdown(ctx); err != nil {
		LogError(ctx, err, "Graceful shutdown failed")
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}

	LogDuration(ctx, "shutdown", start, "uptime", s.Uptime().String())
	return nil
}
