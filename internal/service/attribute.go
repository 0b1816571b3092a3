package service

import (
	"atlasdcat/internal/attribute"
)

// AttributeInfo 属性名信息
type AttributeInfo struct {
	Key     attribute.Attribute `json:"key"`
	Default string              `json:"default"`
	Name    string              `json:"name"`
}

// AttributeService 属性映射服务
type AttributeService struct {
	source MappingSource
}

// NewAttributeService 创建属性映射服务
func NewAttributeService(source MappingSource) *AttributeService {
	return &AttributeService{
		source: source,
	}
}

// Attributes 列出全部规范属性及其生效名称
func (s *AttributeService) Attributes() []AttributeInfo {
	mapping := s.source.Mapping()
	keys := attribute.All()
	result := make([]AttributeInfo, 0, len(keys))
	for _, key := range keys {
		result = append(result, AttributeInfo{
			Key:     key,
			Default: key.Default(),
			Name:    mapping.Name(key),
		})
	}
	return result
}

// Attribute 获取单个属性
func (s *AttributeService) Attribute(name string) (*AttributeInfo, error) {
	key, err := attribute.Parse(name)
	if err != nil {
		return nil, err
	}
	return &AttributeInfo{
		Key:     key,
		Default: key.Default(),
		Name:    s.source.Mapping().Name(key),
	}, nil
}
