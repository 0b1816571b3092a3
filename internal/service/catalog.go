package service

import (
	"context"
	"log/slog"
	"sync"

	"atlasdcat/internal/attribute"
	"atlasdcat/internal/config"
	"atlasdcat/internal/dcat"
	"atlasdcat/internal/glossary"
	"atlasdcat/internal/mapper"
	"atlasdcat/internal/metrics"
)

// MappingSource 提供当前属性名映射
type MappingSource interface {
	Mapping() attribute.Mapping
}

// CatalogService 目录服务
type CatalogService struct {
	client     glossary.Client
	cfg        *config.Config
	attributes MappingSource
	logger     *slog.Logger
	metrics    *metrics.Metrics

	// 导入串行执行，映射器只允许单写者
	importMu sync.Mutex
}

// NewCatalogService 创建目录服务
func NewCatalogService(client glossary.Client, cfg *config.Config, attributes MappingSource, logger *slog.Logger, m *metrics.Metrics) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		client:     client,
		cfg:        cfg,
		attributes: attributes,
		logger:     logger,
		metrics:    m,
	}
}

// newMapper 每个请求使用独立的映射器与最新的属性映射
func (s *CatalogService) newMapper(ctx context.Context) (*mapper.Mapper, error) {
	m, err := mapper.New(s.client, s.cfg.MapperConfig(s.attributes.Mapping()),
		mapper.WithLogger(s.logger),
		mapper.WithMetrics(s.metrics))
	if err != nil {
		return nil, err
	}
	if err := m.FetchGlossary(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// ExportCatalog 读取术语表并生成目录
func (s *CatalogService) ExportCatalog(ctx context.Context) (*dcat.Catalog, error) {
	m, err := s.newMapper(ctx)
	if err != nil {
		return nil, err
	}
	return m.MapGlossaryTermsToDatasetCatalog()
}

// PreviewImport 映射目录但不保存
func (s *CatalogService) PreviewImport(ctx context.Context, catalog *dcat.Catalog) ([]mapper.PendingTerm, error) {
	m, err := s.newMapper(ctx)
	if err != nil {
		return nil, err
	}
	return m.MapDatasetCatalogToGlossaryTerms(catalog)
}

// ImportCatalog 映射目录并保存到术语表，返回已持久化的术语
func (s *CatalogService) ImportCatalog(ctx context.Context, catalog *dcat.Catalog) ([]mapper.PendingTerm, error) {
	s.importMu.Lock()
	defer s.importMu.Unlock()

	m, err := s.newMapper(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := m.MapDatasetCatalogToGlossaryTerms(catalog); err != nil {
		return nil, err
	}
	if err := m.SaveGlossaryTerms(ctx); err != nil {
		return nil, err
	}

	saved := m.PendingTerms()
	s.logger.Info("Catalog imported",
		slog.String("catalog", catalog.Identifier),
		slog.Int("terms", len(saved)))
	return saved, nil
}

// Terms 返回术语表中的全部术语
func (s *CatalogService) Terms(ctx context.Context) ([]glossary.Term, error) {
	m, err := s.newMapper(ctx)
	if err != nil {
		return nil, err
	}
	return m.GlossaryTerms()
}
