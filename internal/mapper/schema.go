package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"atlasdcat/internal/attribute"
	"atlasdcat/internal/glossary"
)

// TermType 术语类型
type TermType int

const (
	TermUnknown TermType = iota
	TermDataset
	TermDistribution
)

func (t TermType) String() string {
	switch t {
	case TermDataset:
		return "dataset"
	case TermDistribution:
		return "distribution"
	default:
		return "unknown"
	}
}

// marker 类型对应的标记属性
func (t TermType) marker() attribute.Attribute {
	if t == TermDataset {
		return attribute.Dataset
	}
	return attribute.Distribution
}

// schema 术语属性存储布局
type schema interface {
	// lookup 返回字段原始值；属性容器缺失时返回错误
	lookup(term *glossary.Term, typ TermType, field attribute.Attribute) (string, bool, error)
	set(term *glossary.Term, typ TermType, field attribute.Attribute, value string)
	detect(term *glossary.Term) TermType
}

func newSchema(nested bool, names attribute.Mapping) schema {
	if nested {
		return nestedSchema{names: names}
	}
	return flatSchema{names: names}
}

// nestedSchema Purview 布局：attributes[<类型标记>][<字段>]
type nestedSchema struct {
	names attribute.Mapping
}

func (s nestedSchema) lookup(term *glossary.Term, typ TermType, field attribute.Attribute) (string, bool, error) {
	if term.Attributes == nil {
		return "", false, newError(KindMapping, "term %q has no attributes", term.GUID)
	}
	wrapper, ok := term.Attributes[s.names.Name(typ.marker())].(map[string]any)
	if !ok {
		return "", false, nil
	}
	return stringValue(wrapper[s.names.Name(field)])
}

func (s nestedSchema) set(term *glossary.Term, typ TermType, field attribute.Attribute, value string) {
	if term.Attributes == nil {
		term.Attributes = make(map[string]any)
	}
	marker := s.names.Name(typ.marker())
	wrapper, ok := term.Attributes[marker].(map[string]any)
	if !ok {
		wrapper = make(map[string]any)
		term.Attributes[marker] = wrapper
	}
	wrapper[s.names.Name(field)] = value
}

func (s nestedSchema) detect(term *glossary.Term) TermType {
	if term.Attributes == nil {
		return TermUnknown
	}
	if _, ok := term.Attributes[s.names.Name(attribute.Dataset)]; ok {
		return TermDataset
	}
	if _, ok := term.Attributes[s.names.Name(attribute.Distribution)]; ok {
		return TermDistribution
	}
	return TermUnknown
}

// flatSchema Atlas 布局：additionalAttributes["<类型标记>_<字段>"]
type flatSchema struct {
	names attribute.Mapping
}

func (s flatSchema) key(typ TermType, field attribute.Attribute) string {
	return s.names.Name(typ.marker()) + "_" + s.names.Name(field)
}

func (s flatSchema) lookup(term *glossary.Term, typ TermType, field attribute.Attribute) (string, bool, error) {
	if term.AdditionalAttributes == nil {
		return "", false, newError(KindMapping, "term %q has no additional attributes", term.GUID)
	}
	return stringValue(term.AdditionalAttributes[s.key(typ, field)])
}

func (s flatSchema) set(term *glossary.Term, typ TermType, field attribute.Attribute, value string) {
	if term.AdditionalAttributes == nil {
		term.AdditionalAttributes = make(map[string]any)
	}
	term.AdditionalAttributes[s.key(typ, field)] = value
}

func (s flatSchema) detect(term *glossary.Term) TermType {
	if hasPrefixedKey(term.AdditionalAttributes, s.names.Name(attribute.Dataset)+"_") {
		return TermDataset
	}
	if hasPrefixedKey(term.AdditionalAttributes, s.names.Name(attribute.Distribution)+"_") {
		return TermDistribution
	}
	return TermUnknown
}

func hasPrefixedKey(m map[string]any, prefix string) bool {
	for k := range m {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

// stringValue 将 JSON 解码后的值转为字符串，nil 视为不存在
func stringValue(v any) (string, bool, error) {
	switch val := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return val, true, nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true, nil
	case bool:
		return strconv.FormatBool(val), true, nil
	default:
		return fmt.Sprint(val), true, nil
	}
}
