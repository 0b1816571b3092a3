package glossary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"atlasdcat/internal/metrics"
)

// maxResponseSize 限制响应体大小
const maxResponseSize = 32 * 1024 * 1024

// purviewDomain Purview 托管服务域名
const purviewDomain = "purview.azure.com"

// Client 术语表客户端
type Client interface {
	GetGlossary(ctx context.Context, id string, detailed bool) (*Glossary, error)
	CreateTerm(ctx context.Context, term Term) (*Term, error)
	UpdateTerm(ctx context.Context, term Term) (*Term, error)
	EndpointURL() string
}

// IsPurviewEndpoint 判断端点是否为 Purview 托管服务
func IsPurviewEndpoint(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == purviewDomain || strings.HasSuffix(host, "."+purviewDomain)
}

// APIError 术语表服务返回的错误
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("glossary API %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// HTTPClient Atlas REST v2 术语表客户端
type HTTPClient struct {
	endpoint   string
	httpClient *http.Client
	auth       Authenticator
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Option 客户端选项
type Option func(*HTTPClient)

// WithHTTPClient 设置 HTTP 客户端
func WithHTTPClient(c *http.Client) Option {
	return func(client *HTTPClient) {
		client.httpClient = c
	}
}

// WithAuthenticator 设置认证方式
func WithAuthenticator(auth Authenticator) Option {
	return func(client *HTTPClient) {
		client.auth = auth
	}
}

// WithLogger 设置日志
func WithLogger(logger *slog.Logger) Option {
	return func(client *HTTPClient) {
		client.logger = logger
	}
}

// WithMetrics 设置指标
func WithMetrics(m *metrics.Metrics) Option {
	return func(client *HTTPClient) {
		client.metrics = m
	}
}

// NewHTTPClient 创建术语表客户端
func NewHTTPClient(endpointURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		endpoint: strings.TrimSuffix(endpointURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// EndpointURL 返回服务端点
func (c *HTTPClient) EndpointURL() string {
	return c.endpoint
}

// GetGlossary 获取术语表，detailed 为 true 时包含全部术语详情
func (c *HTTPClient) GetGlossary(ctx context.Context, id string, detailed bool) (*Glossary, error) {
	path := "/glossary/" + url.PathEscape(id)
	if detailed {
		path += "/detailed"
	}

	var glossary Glossary
	if err := c.do(ctx, "get_glossary", http.MethodGet, path, nil, &glossary); err != nil {
		return nil, err
	}
	return &glossary, nil
}

// CreateTerm 创建术语，返回带 guid 的术语
func (c *HTTPClient) CreateTerm(ctx context.Context, term Term) (*Term, error) {
	var created Term
	if err := c.do(ctx, "create_term", http.MethodPost, "/glossary/term", term, &created); err != nil {
		return nil, err
	}
	if created.GUID == "" {
		return nil, fmt.Errorf("glossary API returned term without guid")
	}
	return &created, nil
}

// UpdateTerm 更新术语
func (c *HTTPClient) UpdateTerm(ctx context.Context, term Term) (*Term, error) {
	if term.GUID == "" {
		return nil, fmt.Errorf("cannot update term without guid")
	}

	var updated Term
	path := "/glossary/term/" + url.PathEscape(term.GUID)
	if err := c.do(ctx, "update_term", http.MethodPut, path, term, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *HTTPClient) do(ctx context.Context, operation, method, path string, body, out any) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveRequest(operation, start, err)
	}()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	requestURL := c.endpoint + path
	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.auth != nil {
		if err := c.auth.Authenticate(ctx, req); err != nil {
			return fmt.Errorf("failed to authenticate request: %w", err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, requestURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("Glossary request",
		slog.String("operation", operation),
		slog.String("method", method),
		slog.String("url", requestURL),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Method:     method,
			URL:        requestURL,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
