package mapper

import (
	"strings"

	"atlasdcat/internal/attribute"
	"atlasdcat/internal/glossary"
)

const (
	valueSeparator = ";"
	codeSeparator  = "|"
)

// excludeTokens 标记术语不发布到目录的取值
var excludeTokens = map[string]bool{
	"nei":   true,
	"n":     true,
	"no":    true,
	"false": true,
}

// parseValue 解析 "code | description; code2 | description" 为 [code code2]
func parseValue(value string) []string {
	if value == "" {
		return []string{}
	}

	parts := strings.Split(value, valueSeparator)
	codes := make([]string, 0, len(parts))
	for _, part := range parts {
		code, _, _ := strings.Cut(part, codeSeparator)
		codes = append(codes, strings.Trim(code, " "))
	}
	return codes
}

// encodeValues parseValue 的逆过程，仅有代码没有描述
func encodeValues(values []string) string {
	return strings.Join(values, valueSeparator)
}

func firstOf(values []string) string {
	if len(values) > 0 {
		return values[0]
	}
	return ""
}

// values 读取字段值，字段不存在时返回空列表
func (m *Mapper) values(term *glossary.Term, typ TermType, field attribute.Attribute, parse bool) ([]string, error) {
	raw, ok, err := m.schema.lookup(term, typ, field)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}
	if parse {
		return parseValue(raw), nil
	}
	return []string{raw}, nil
}

// shouldInclude 判断术语是否发布到目录
func (m *Mapper) shouldInclude(term *glossary.Term, typ TermType) (bool, error) {
	values, err := m.values(term, typ, attribute.IncludeInDCAT, false)
	if err != nil {
		return false, err
	}
	if excludeTokens[strings.ToLower(strings.TrimSpace(firstOf(values)))] {
		return false, nil
	}

	// 仅 Purview 术语携带审批状态
	if m.cfg.OnlyApproved && m.nested && !strings.EqualFold(term.Status, "approved") {
		return false, nil
	}
	return true, nil
}

// fieldReader 读取单个术语的字段，首个错误之后的读取均返回空值
type fieldReader struct {
	m    *Mapper
	term *glossary.Term
	typ  TermType
	err  error
}

func (m *Mapper) reader(term *glossary.Term, typ TermType) *fieldReader {
	return &fieldReader{m: m, term: term, typ: typ}
}

func (r *fieldReader) read(field attribute.Attribute, parse bool) []string {
	if r.err != nil {
		return []string{}
	}
	values, err := r.m.values(r.term, r.typ, field, parse)
	if err != nil {
		r.err = err
		return []string{}
	}
	return values
}

// all 全部解析值
func (r *fieldReader) all(field attribute.Attribute) []string {
	return r.read(field, true)
}

// first 第一个解析值
func (r *fieldReader) first(field attribute.Attribute) string {
	return firstOf(r.read(field, true))
}

// raw 未解析的原始值
func (r *fieldReader) raw(field attribute.Attribute) string {
	return firstOf(r.read(field, false))
}
