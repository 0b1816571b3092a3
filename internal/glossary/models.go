// Package glossary 术语表模型与远程术语表客户端（Apache Atlas / Microsoft Purview）
package glossary

import (
	"encoding/json"
	"sort"
)

// Term 术语表术语
type Term struct {
	GUID                 string         `json:"guid,omitempty"`
	QualifiedName        string         `json:"qualifiedName,omitempty"`
	Name                 string         `json:"name,omitempty"`
	LongDescription      string         `json:"longDescription,omitempty"`
	Anchor               *Anchor        `json:"anchor,omitempty"`
	Attributes           map[string]any `json:"attributes,omitempty"`
	AdditionalAttributes map[string]any `json:"additionalAttributes,omitempty"`
	SeeAlso              []RelatedTerm  `json:"seeAlso,omitempty"`
	Status               string         `json:"status,omitempty"`
}

// Anchor 术语所属术语表
type Anchor struct {
	GlossaryGUID string `json:"glossaryGuid"`
	RelationGUID string `json:"relationGuid,omitempty"`
}

// RelatedTerm 相关术语链接
type RelatedTerm struct {
	TermGUID    string `json:"termGuid"`
	DisplayText string `json:"displayText,omitempty"`
}

// TermHeader 术语表中的术语引用
type TermHeader struct {
	TermGUID     string `json:"termGuid"`
	RelationGUID string `json:"relationGuid,omitempty"`
	DisplayText  string `json:"displayText,omitempty"`
}

// Glossary 术语表（detailed 接口返回 termInfo）
type Glossary struct {
	GUID          string          `json:"guid"`
	QualifiedName string          `json:"qualifiedName,omitempty"`
	Name          string          `json:"name,omitempty"`
	Terms         []TermHeader    `json:"terms,omitempty"`
	TermInfo      map[string]Term `json:"termInfo,omitempty"`
}

// OrderedTerms 按 terms 列表顺序返回 termInfo 中的术语，其余术语按 guid 排序追加
func (g *Glossary) OrderedTerms() []Term {
	result := make([]Term, 0, len(g.TermInfo))
	seen := make(map[string]bool, len(g.TermInfo))

	for _, header := range g.Terms {
		term, ok := g.TermInfo[header.TermGUID]
		if !ok || seen[header.TermGUID] {
			continue
		}
		seen[header.TermGUID] = true
		result = append(result, term)
	}

	rest := make([]string, 0)
	for guid := range g.TermInfo {
		if !seen[guid] {
			rest = append(rest, guid)
		}
	}
	sort.Strings(rest)
	for _, guid := range rest {
		result = append(result, g.TermInfo[guid])
	}

	return result
}

// Clone 深拷贝术语
func (t Term) Clone() Term {
	clone := t
	if t.Anchor != nil {
		anchor := *t.Anchor
		clone.Anchor = &anchor
	}
	clone.Attributes = cloneMap(t.Attributes)
	clone.AdditionalAttributes = cloneMap(t.AdditionalAttributes)
	if t.SeeAlso != nil {
		clone.SeeAlso = make([]RelatedTerm, len(t.SeeAlso))
		copy(clone.SeeAlso, t.SeeAlso)
	}
	return clone
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			result[k] = cloneMap(nested)
			continue
		}
		result[k] = v
	}
	return result
}

// String 以 JSON 形式输出术语，便于日志
func (t Term) String() string {
	data, err := json.Marshal(t)
	if err != nil {
		return t.GUID
	}
	return string(data)
}
