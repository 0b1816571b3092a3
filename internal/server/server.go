// Package server 组装配置、术语表客户端、服务与 HTTP 路由
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"atlasdcat/internal/attribute"
	"atlasdcat/internal/config"
	"atlasdcat/internal/handler"
	"atlasdcat/internal/metrics"
	"atlasdcat/internal/middleware"
	"atlasdcat/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Server 应用实例
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	loader   *attribute.Loader

	catalogService   *service.CatalogService
	attributeService *service.AttributeService
	router           *gin.Engine
}

// New 按配置创建应用实例
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// 加载属性名映射
	loader := attribute.NewLoader(cfg.Attribute.FilePath, logger)
	if err := loader.Load(); err != nil {
		return nil, err
	}

	// 初始化指标
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// 初始化术语表客户端
	client, err := service.NewGlossaryClient(ctx, cfg, logger, m)
	if err != nil {
		return nil, err
	}
	logger.Info("Glossary client ready",
		slog.String("backend", cfg.Glossary.Backend),
		slog.String("endpoint", client.EndpointURL()),
		slog.String("glossary", cfg.Glossary.GlossaryID))

	s := &Server{
		cfg:              cfg,
		logger:           logger,
		registry:         registry,
		loader:           loader,
		catalogService:   service.NewCatalogService(client, cfg, loader, logger, m),
		attributeService: service.NewAttributeService(loader),
	}
	s.router = s.newRouter()
	return s, nil
}

// CatalogService 目录服务
func (s *Server) CatalogService() *service.CatalogService {
	return s.catalogService
}

// Router HTTP 路由
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger(s.logger))
	router.Use(middleware.Recovery(s.logger))
	router.Use(middleware.CORS())

	handler.RegisterRoutes(router.Group("/api/v1"),
		handler.NewCatalogHandler(s.catalogService),
		handler.NewAttributeHandler(s.attributeService))

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	router.NoRoute(func(c *gin.Context) {
		handler.Error(c, http.StatusNotFound, "not found")
	})

	return router
}

// Run 启动 HTTP 服务，ctx 结束时优雅关闭
func (s *Server) Run(ctx context.Context) error {
	if s.loader.FilePath() != "" {
		watcher, err := attribute.NewWatcher(s.loader, s.logger)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	addr := fmt.Sprintf(":%s", s.cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting",
			slog.String("addr", addr),
			slog.String("api", fmt.Sprintf("http://localhost%s/api/v1", addr)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
