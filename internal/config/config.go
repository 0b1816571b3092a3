package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"atlasdcat/internal/attribute"
	"atlasdcat/internal/mapper"
)

const (
	// BackendAtlas 远程 Atlas / Purview 术语表
	BackendAtlas = "atlas"
	// BackendFile 本地文件术语表
	BackendFile = "file"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Glossary  GlossaryConfig
	Catalog   CatalogConfig
	Attribute AttributeConfig
	Data      DataConfig
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port string
	Mode string
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string
	Format string
}

// GlossaryConfig 术语表配置
type GlossaryConfig struct {
	Backend      string
	EndpointURL  string
	Username     string
	Password     string
	TenantID     string
	ClientID     string
	ClientSecret string
	GlossaryID   string
	Timeout      time.Duration
	// Purview 取值 auto、true 或 false
	Purview      string
	OnlyApproved bool
}

// CatalogConfig 目录配置
type CatalogConfig struct {
	URI                     string
	Language                string
	Title                   string
	Publisher               string
	DatasetURITemplate      string
	DistributionURITemplate string
	ContentLanguage         string
}

// AttributeConfig 属性名映射配置
type AttributeConfig struct {
	FilePath string
}

// DataConfig 数据存储配置
type DataConfig struct {
	RootPath string
}

// Load 加载配置，未指定 env 文件时尝试加载 .env，不存在也不报错
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	timeout, err := getEnvDuration("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Mode: getEnv("SERVER_MODE", "debug"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Glossary: GlossaryConfig{
			Backend:      getEnv("GLOSSARY_BACKEND", BackendAtlas),
			EndpointURL:  getEnv("ATLAS_ENDPOINT_URL", ""),
			Username:     getEnv("BASIC_AUTH_USERNAME", ""),
			Password:     getEnv("BASIC_AUTH_PASSWORD", ""),
			TenantID:     getEnv("SERVICE_PRINCIPLE_TENANT_ID", ""),
			ClientID:     getEnv("SERVICE_PRINCIPLE_CLIENT_ID", ""),
			ClientSecret: getEnv("SERVICE_PRINCIPLE_CLIENT_SECRET", ""),
			GlossaryID:   getEnv("GLOSSARY_ID", ""),
			Timeout:      timeout,
			Purview:      strings.ToLower(getEnv("PURVIEW", "auto")),
			OnlyApproved: getEnvBool("ONLY_APPROVED", false),
		},
		Catalog: CatalogConfig{
			URI:                     getEnv("CATALOG_URI", ""),
			Language:                getEnv("CATALOG_LANGUAGE", mapper.DefaultLanguage),
			Title:                   getEnv("CATALOG_TITLE", ""),
			Publisher:               getEnv("CATALOG_PUBLISHER", ""),
			DatasetURITemplate:      getEnv("DATASET_URI_TEMPLATE", ""),
			DistributionURITemplate: getEnv("DISTRIBUTION_URI_TEMPLATE", ""),
			ContentLanguage:         getEnv("CONTENT_LANGUAGE", mapper.DefaultLanguage),
		},
		Attribute: AttributeConfig{
			FilePath: getEnv("ATTRIBUTE_MAPPING_FILE", ""),
		},
		Data: DataConfig{
			RootPath: getEnv("DATA_ROOT_PATH", "./data"),
		},
	}

	return config, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	var errs []error

	switch c.Glossary.Backend {
	case BackendAtlas:
		if c.Glossary.EndpointURL == "" {
			errs = append(errs, errors.New("ATLAS_ENDPOINT_URL is required for the atlas backend"))
		}
	case BackendFile:
		if c.Data.RootPath == "" {
			errs = append(errs, errors.New("DATA_ROOT_PATH is required for the file backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown GLOSSARY_BACKEND %q", c.Glossary.Backend))
	}

	if c.Glossary.GlossaryID == "" {
		errs = append(errs, errors.New("GLOSSARY_ID is required"))
	}
	if c.Catalog.URI == "" {
		errs = append(errs, errors.New("CATALOG_URI is required"))
	}
	if !strings.Contains(c.Catalog.DatasetURITemplate, "{guid}") {
		errs = append(errs, errors.New("DATASET_URI_TEMPLATE must contain {guid}"))
	}
	if !strings.Contains(c.Catalog.DistributionURITemplate, "{guid}") {
		errs = append(errs, errors.New("DISTRIBUTION_URI_TEMPLATE must contain {guid}"))
	}
	if _, err := c.Glossary.Nested(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// Nested 解析 PURVIEW，auto 返回 nil 表示按端点自动判断
func (g GlossaryConfig) Nested() (*bool, error) {
	switch g.Purview {
	case "", "auto":
		return nil, nil
	}
	v, err := strconv.ParseBool(g.Purview)
	if err != nil {
		return nil, fmt.Errorf("PURVIEW must be auto, true or false, got %q", g.Purview)
	}
	return &v, nil
}

// UsesServicePrincipal 是否配置了 Azure 服务主体
func (g GlossaryConfig) UsesServicePrincipal() bool {
	return g.TenantID != "" && g.ClientID != "" && g.ClientSecret != ""
}

// MapperConfig 构造映射器配置
func (c *Config) MapperConfig(attrs attribute.Mapping) mapper.Config {
	nested, _ := c.Glossary.Nested()
	return mapper.Config{
		GlossaryID:              c.Glossary.GlossaryID,
		CatalogURI:              c.Catalog.URI,
		CatalogLanguage:         c.Catalog.Language,
		CatalogTitle:            c.Catalog.Title,
		CatalogPublisher:        c.Catalog.Publisher,
		DatasetURITemplate:      c.Catalog.DatasetURITemplate,
		DistributionURITemplate: c.Catalog.DistributionURITemplate,
		Language:                c.Catalog.ContentLanguage,
		Attributes:              attrs,
		Nested:                  nested,
		OnlyApproved:            c.Glossary.OnlyApproved,
	}
}

// SlogLevel 日志级别
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger 按配置创建日志记录器
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
