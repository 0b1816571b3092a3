package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"atlasdcat/internal/config"
	"atlasdcat/internal/glossary"
	"atlasdcat/internal/metrics"
	"atlasdcat/internal/storage"
)

// NewGlossaryClient 按配置创建术语表客户端
func NewGlossaryClient(ctx context.Context, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (glossary.Client, error) {
	switch cfg.Glossary.Backend {
	case config.BackendAtlas:
		opts := []glossary.Option{
			glossary.WithHTTPClient(&http.Client{Timeout: cfg.Glossary.Timeout}),
			glossary.WithLogger(logger),
			glossary.WithMetrics(m),
		}
		switch {
		case cfg.Glossary.UsesServicePrincipal():
			opts = append(opts, glossary.WithAuthenticator(glossary.NewServicePrincipalAuth(
				cfg.Glossary.TenantID, cfg.Glossary.ClientID, cfg.Glossary.ClientSecret)))
		case cfg.Glossary.Username != "":
			opts = append(opts, glossary.WithAuthenticator(glossary.BasicAuth{
				Username: cfg.Glossary.Username,
				Password: cfg.Glossary.Password,
			}))
		}
		return glossary.NewHTTPClient(cfg.Glossary.EndpointURL, opts...), nil

	case config.BackendFile:
		store := storage.NewTermStorage(storage.NewPathManager(cfg.Data.RootPath))
		if err := ensureGlossary(ctx, store, cfg.Glossary.GlossaryID); err != nil {
			return nil, err
		}
		logger.Info("Using file glossary backend", slog.String("root", cfg.Data.RootPath))
		return store, nil

	default:
		return nil, fmt.Errorf("unknown glossary backend %q", cfg.Glossary.Backend)
	}
}

// ensureGlossary 文件后端首次使用时创建空术语表
func ensureGlossary(ctx context.Context, store *storage.TermStorage, id string) error {
	_, err := store.GetGlossary(ctx, id, false)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if _, err := store.PutGlossary(ctx, glossary.Glossary{GUID: id, QualifiedName: id, Name: id}); err != nil {
		return fmt.Errorf("failed to create glossary %s: %w", id, err)
	}
	return nil
}
