package attribute

import (
	"fmt"
	"log/slog"
	"sync"
)

// Loader 属性映射加载器
type Loader struct {
	parser  *Parser
	mapping Mapping
	logger  *slog.Logger
	mu      sync.RWMutex
}

// NewLoader 创建新的加载器，filePath 为空时只使用默认名称
func NewLoader(filePath string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{
		mapping: Mapping{},
		logger:  logger,
	}
	if filePath != "" {
		l.parser = NewParser(filePath)
	}
	return l
}

// Load 加载并验证映射文件
func (l *Loader) Load() error {
	if l.parser == nil {
		return nil
	}

	file, err := l.parser.Parse()
	if err != nil {
		return fmt.Errorf("failed to parse attribute mapping: %w", err)
	}

	mapping, err := NewValidator(file).Validate()
	if err != nil {
		return fmt.Errorf("attribute mapping validation failed: %w", err)
	}

	l.mu.Lock()
	l.mapping = mapping
	l.mu.Unlock()

	l.logger.Info("Attribute mapping loaded",
		slog.String("path", l.parser.filePath),
		slog.Int("overrides", len(mapping)))

	return nil
}

// Reload 重新加载映射文件（用于热重载），失败时保留旧映射
func (l *Loader) Reload() error {
	return l.Load()
}

// Mapping 返回当前映射表的副本
func (l *Loader) Mapping() Mapping {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.mapping.Clone()
}

// FilePath 返回映射文件路径
func (l *Loader) FilePath() string {
	if l.parser == nil {
		return ""
	}
	return l.parser.filePath
}
