// Package mapper 术语表与 DCAT 目录之间的双向映射
package mapper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"atlasdcat/internal/attribute"
	"atlasdcat/internal/glossary"
	"atlasdcat/internal/metrics"
)

// DefaultLanguage 默认内容语言
const DefaultLanguage = "nb"

// guidPlaceholder URI 模板中的术语标识占位符
const guidPlaceholder = "{guid}"

// unpersistedPrefix 未持久化术语的临时键前缀，仅用于展示
const unpersistedPrefix = "tmp-"

// Config 映射器配置
type Config struct {
	GlossaryID              string
	CatalogURI              string
	CatalogLanguage         string
	CatalogTitle            string
	CatalogPublisher        string
	DatasetURITemplate      string
	DistributionURITemplate string
	Language                string
	Attributes              attribute.Mapping
	// Nested 为 nil 时根据术语表端点自动判断
	Nested       *bool
	OnlyApproved bool
}

// Validate 校验配置
func (c *Config) Validate() error {
	var errs []error
	if c.GlossaryID == "" {
		errs = append(errs, errors.New("glossary id is required"))
	}
	if !strings.Contains(c.DatasetURITemplate, guidPlaceholder) {
		errs = append(errs, fmt.Errorf("dataset URI template %q must contain %s", c.DatasetURITemplate, guidPlaceholder))
	}
	if !strings.Contains(c.DistributionURITemplate, guidPlaceholder) {
		errs = append(errs, fmt.Errorf("distribution URI template %q must contain %s", c.DistributionURITemplate, guidPlaceholder))
	}
	return errors.Join(errs...)
}

// Identity 术语标识：已持久化时 Key 为 guid，否则为临时键
type Identity struct {
	Key       string
	Persisted bool
}

func newIdentity() Identity {
	return Identity{Key: unpersistedPrefix + uuid.NewString()}
}

func persistedIdentity(guid string) Identity {
	return Identity{Key: guid, Persisted: true}
}

// PendingTerm 待保存的术语
type PendingTerm struct {
	Identity Identity      `json:"identity"`
	Type     TermType      `json:"-"`
	Term     glossary.Term `json:"term"`
}

// Mapper 术语表与目录映射器，单写者使用
type Mapper struct {
	client  glossary.Client
	cfg     Config
	names   attribute.Mapping
	nested  bool
	schema  schema
	logger  *slog.Logger
	metrics *metrics.Metrics

	snapshot *glossary.Glossary
	pending  []PendingTerm
}

// Option 映射器选项
type Option func(*Mapper)

// WithLogger 设置日志
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mapper) {
		m.logger = logger
	}
}

// WithMetrics 设置指标
func WithMetrics(metrics *metrics.Metrics) Option {
	return func(m *Mapper) {
		m.metrics = metrics
	}
}

// New 创建映射器
func New(client glossary.Client, cfg Config, opts ...Option) (*Mapper, error) {
	if client == nil {
		return nil, errors.New("glossary client is required")
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mapper config: %w", err)
	}

	nested := glossary.IsPurviewEndpoint(client.EndpointURL())
	if cfg.Nested != nil {
		nested = *cfg.Nested
	}

	// 覆盖表在构造后不可变
	names := cfg.Attributes.Clone()
	cfg.Attributes = nil

	m := &Mapper{
		client: client,
		cfg:    cfg,
		names:  names,
		nested: nested,
		schema: newSchema(nested, names),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Nested 是否使用 Purview 嵌套属性布局
func (m *Mapper) Nested() bool {
	return m.nested
}

// AttributeName 返回属性在术语表中的有效名称
func (m *Mapper) AttributeName(attr attribute.Attribute) string {
	return m.names.Name(attr)
}

// FetchGlossary 获取术语表快照，替换当前快照
func (m *Mapper) FetchGlossary(ctx context.Context) error {
	g, err := m.client.GetGlossary(ctx, m.cfg.GlossaryID, true)
	if err != nil {
		return fmt.Errorf("failed to fetch glossary %s: %w", m.cfg.GlossaryID, err)
	}
	m.snapshot = g

	m.logger.Debug("Fetched glossary",
		slog.String("glossary", m.cfg.GlossaryID),
		slog.Int("terms", len(g.TermInfo)),
		slog.Bool("nested", m.nested))
	return nil
}

// GlossaryTerms 返回已持久化的术语快照
func (m *Mapper) GlossaryTerms() ([]glossary.Term, error) {
	if m.snapshot == nil {
		return nil, m.invalidState("glossary terms")
	}
	return m.snapshot.OrderedTerms(), nil
}

// PendingTerms 返回待保存的术语
func (m *Mapper) PendingTerms() []PendingTerm {
	result := make([]PendingTerm, len(m.pending))
	for i, p := range m.pending {
		result[i] = p
		result[i].Term = p.Term.Clone()
	}
	return result
}

func (m *Mapper) invalidState(operation string) error {
	m.metrics.IncMappingError(string(KindInvalidState))
	return newError(KindInvalidState, "%s requires a fetched glossary, call FetchGlossary first", operation)
}

func (m *Mapper) fail(err error) error {
	var mapErr *Error
	if errors.As(err, &mapErr) {
		m.metrics.IncMappingError(string(mapErr.Kind))
	}
	return err
}

// expandTemplate 替换模板中的 {guid}
func expandTemplate(template, guid string) string {
	return strings.ReplaceAll(template, guidPlaceholder, guid)
}

// extractGUID 去掉模板前后缀，得到术语标识
func extractGUID(identifier, template string) (string, bool) {
	prefix, suffix, ok := strings.Cut(template, guidPlaceholder)
	if !ok {
		return "", false
	}
	if len(identifier) <= len(prefix)+len(suffix) ||
		!strings.HasPrefix(identifier, prefix) || !strings.HasSuffix(identifier, suffix) {
		return "", false
	}
	return identifier[len(prefix) : len(identifier)-len(suffix)], true
}
