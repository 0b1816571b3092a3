package attribute

import (
	"fmt"
	"sort"
	"strings"
)

// Validator 属性映射验证器
type Validator struct {
	file *MappingFile
}

// NewValidator 创建新的验证器
func NewValidator(file *MappingFile) *Validator {
	return &Validator{
		file: file,
	}
}

// Validate 验证映射文件并返回映射表
func (v *Validator) Validate() (Mapping, error) {
	if v.file.Version == "" {
		return nil, fmt.Errorf("version is required")
	}

	// 按键排序，保证错误信息稳定
	keys := make([]string, 0, len(v.file.Attributes))
	for k := range v.file.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mapping := make(Mapping, len(keys))
	owners := make(map[string]string)
	for _, key := range keys {
		attr, err := Parse(key)
		if err != nil {
			return nil, fmt.Errorf("attributes[%s]: %w", key, err)
		}

		name := strings.TrimSpace(v.file.Attributes[key])
		if name == "" {
			return nil, fmt.Errorf("attributes[%s]: name is required", key)
		}

		if owner, exists := owners[name]; exists {
			return nil, fmt.Errorf("duplicate attribute name '%s' for '%s' and '%s'", name, owner, key)
		}
		owners[name] = key

		mapping[attr] = name
	}

	// 未覆盖的默认名称也不能与覆盖名称冲突
	for _, attr := range all {
		if _, overridden := mapping[attr]; overridden {
			continue
		}
		if owner, exists := owners[attr.Default()]; exists {
			return nil, fmt.Errorf("attribute name '%s' of '%s' collides with default name of '%s'", attr.Default(), owner, attr)
		}
	}

	return mapping, nil
}
