package attribute

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MappingFile 属性映射文件
type MappingFile struct {
	Version    string            `yaml:"version"`
	Attributes map[string]string `yaml:"attributes"`
}

// Parser 属性映射文件解析器
type Parser struct {
	filePath string
}

// NewParser 创建新的解析器
func NewParser(filePath string) *Parser {
	return &Parser{
		filePath: filePath,
	}
}

// Parse 解析 YAML 文件
func (p *Parser) Parse() (*MappingFile, error) {
	data, err := os.ReadFile(p.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read attribute mapping file: %w", err)
	}

	return ParseBytes(data)
}

// ParseBytes 解析 YAML 内容
func ParseBytes(data []byte) (*MappingFile, error) {
	var file MappingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &file, nil
}
