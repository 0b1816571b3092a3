// Package attribute 定义术语表属性的规范键，并解析为具体术语表部署中使用的名称
package attribute

import "fmt"

// Attribute 规范属性键
type Attribute string

// 规范属性键，字符串值同时是术语表中的默认属性名
const (
	AccessRights              Attribute = "accessRights"
	AccessURL                 Attribute = "accessURL"
	ContactEmail              Attribute = "contactEmail"
	ContactName               Attribute = "contactName"
	Dataset                   Attribute = "Dataset"
	Distribution              Attribute = "Distribution"
	DownloadURL               Attribute = "downloadURL"
	Format                    Attribute = "format"
	Frequency                 Attribute = "frequency"
	Generated                 Attribute = "generated"
	IncludeInDCAT             Attribute = "includeInDCAT"
	Keyword                   Attribute = "keyword"
	License                   Attribute = "license"
	Publisher                 Attribute = "publisher"
	Spatial                   Attribute = "spatial"
	SpatialResolutionInMeters Attribute = "spatialResolutionInMeters"
	TemporalStartDate         Attribute = "temporalStartDate"
	TemporalEndDate           Attribute = "temporalEndDate"
	TemporalResolution        Attribute = "temporalResolution"
	Theme                     Attribute = "theme"
	Title                     Attribute = "title"
)

var all = []Attribute{
	AccessRights,
	AccessURL,
	ContactEmail,
	ContactName,
	Dataset,
	Distribution,
	DownloadURL,
	Format,
	Frequency,
	Generated,
	IncludeInDCAT,
	Keyword,
	License,
	Publisher,
	Spatial,
	SpatialResolutionInMeters,
	TemporalStartDate,
	TemporalEndDate,
	TemporalResolution,
	Theme,
	Title,
}

// All 返回全部规范属性键
func All() []Attribute {
	result := make([]Attribute, len(all))
	copy(result, all)
	return result
}

// Default 返回属性的默认名称
func (a Attribute) Default() string {
	return string(a)
}

// Valid 判断是否为规范属性键
func (a Attribute) Valid() bool {
	for _, attr := range all {
		if attr == a {
			return true
		}
	}
	return false
}

// Parse 解析规范属性名
func Parse(name string) (Attribute, error) {
	attr := Attribute(name)
	if !attr.Valid() {
		return "", fmt.Errorf("unknown attribute '%s'", name)
	}
	return attr, nil
}

// Mapping 属性名称映射表（规范键 -> 有效名称）
// 未配置的属性使用默认名称
type Mapping map[Attribute]string

// Name 返回属性的有效名称
func (m Mapping) Name(attr Attribute) string {
	if name, ok := m[attr]; ok && name != "" {
		return name
	}
	return attr.Default()
}

// Clone 复制映射表
func (m Mapping) Clone() Mapping {
	result := make(Mapping, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// Resolved 返回所有规范属性的有效名称
func (m Mapping) Resolved() map[Attribute]string {
	result := make(map[Attribute]string, len(all))
	for _, attr := range all {
		result[attr] = m.Name(attr)
	}
	return result
}
