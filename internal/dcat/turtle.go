package dcat

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"unicode"
)

// MIMETurtle Turtle 媒体类型
const MIMETurtle = "text/turtle"

// defaultPrefixes DCAT-AP-NO 使用的命名空间前缀
func defaultPrefixes() map[string]string {
	return map[string]string{
		"dcat":  "http://www.w3.org/ns/dcat#",
		"dct":   "http://purl.org/dc/terms/",
		"foaf":  "http://xmlns.com/foaf/0.1/",
		"rdf":   "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"vcard": "http://www.w3.org/2006/vcard/ns#",
		"xsd":   "http://www.w3.org/2001/XMLSchema#",
	}
}

// statement 谓词及其对象（已格式化）
type statement struct {
	predicate string
	objects   []string
}

// TurtleWriter 以 Turtle 格式输出 RDF
type TurtleWriter struct {
	prefixes map[string]string
	sb       strings.Builder
}

// NewTurtleWriter 创建 Turtle 输出器
func NewTurtleWriter() *TurtleWriter {
	return &TurtleWriter{
		prefixes: defaultPrefixes(),
	}
}

// WritePrefixes 按前缀名排序输出前缀声明
func (w *TurtleWriter) WritePrefixes() {
	keys := make([]string, 0, len(w.prefixes))
	for k := range w.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, prefix := range keys {
		w.sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", prefix, w.prefixes[prefix]))
	}
	w.sb.WriteString("\n")
}

// writeSubject 输出一个主语块，跳过没有对象的谓词
func (w *TurtleWriter) writeSubject(subject, typ string, stmts []statement) {
	w.sb.WriteString(subject)
	w.sb.WriteString(" a ")
	w.sb.WriteString(typ)
	for _, s := range stmts {
		if len(s.objects) == 0 {
			continue
		}
		w.sb.WriteString(" ;\n    ")
		w.sb.WriteString(s.predicate)
		w.sb.WriteString(" ")
		w.sb.WriteString(strings.Join(s.objects, ",\n        "))
	}
	w.sb.WriteString(" .\n\n")
}

// String 返回输出内容
func (w *TurtleWriter) String() string {
	return w.sb.String()
}

// Turtle 将目录序列化为 Turtle
func (c *Catalog) Turtle() string {
	w := NewTurtleWriter()
	w.WritePrefixes()

	subjects := make([]string, len(c.Datasets))
	for i, ds := range c.Datasets {
		subjects[i] = subjectRef(ds.Identifier, fmt.Sprintf("dataset%d", i+1))
	}

	w.writeSubject(subjectRef(c.Identifier, "catalog"), "dcat:Catalog", []statement{
		{"dct:title", langLiterals(c.Title)},
		{"dct:publisher", resources(c.Publisher)},
		{"dct:language", resources(c.Language...)},
		{"dct:license", resources(c.License)},
		{"dcat:dataset", subjects},
	})

	for i, ds := range c.Datasets {
		writeDataset(w, subjects[i], fmt.Sprintf("dataset%d", i+1), ds)
	}

	return w.String()
}

func writeDataset(w *TurtleWriter, subject, blank string, ds Dataset) {
	distributions := make([]string, len(ds.Distributions))
	for i, dist := range ds.Distributions {
		distributions[i] = subjectRef(dist.Identifier, fmt.Sprintf("%s-distribution%d", blank, i+1))
	}

	spatial := make([]string, 0, len(ds.Spatial))
	for _, loc := range ds.Spatial {
		spatial = append(spatial, resources(loc.Identifier)...)
	}

	temporal := make([]string, 0, len(ds.Temporal))
	for _, period := range ds.Temporal {
		temporal = append(temporal, blankNode("dct:PeriodOfTime", []statement{
			{"dcat:startDate", typedLiterals("xsd:date", period.StartDate)},
			{"dcat:endDate", typedLiterals("xsd:date", period.EndDate)},
		}))
	}

	var contact []string
	if ds.ContactPoint != nil {
		var email []string
		if ds.ContactPoint.Email != "" {
			email = resources("mailto:" + strings.TrimPrefix(ds.ContactPoint.Email, "mailto:"))
		}
		contact = []string{blankNode("vcard:Organization", []statement{
			{"vcard:fn", langLiterals(ds.ContactPoint.Name)},
			{"vcard:hasEmail", email},
		})}
	}

	w.writeSubject(subject, "dcat:Dataset", []statement{
		{"dct:title", langLiterals(ds.Title)},
		{"dct:description", langLiterals(ds.Description)},
		{"dct:accrualPeriodicity", resources(ds.Frequency)},
		{"dct:publisher", resources(ds.Publisher)},
		{"dcat:theme", resources(ds.Theme...)},
		{"dct:accessRights", resources(ds.AccessRights)},
		{"dcat:keyword", keywordLiterals(ds.Keyword)},
		{"dct:spatial", spatial},
		{"dcat:spatialResolutionInMeters", typedLiterals("xsd:decimal", ds.SpatialResolutionInMeters...)},
		{"dct:temporal", temporal},
		{"dcat:temporalResolution", typedLiterals("xsd:duration", ds.TemporalResolution...)},
		{"dcat:contactPoint", contact},
		{"dct:license", resources(ds.License)},
		{"dcat:distribution", distributions},
	})

	for i, dist := range ds.Distributions {
		w.writeSubject(distributions[i], "dcat:Distribution", []statement{
			{"dct:title", langLiterals(dist.Title)},
			{"dct:description", langLiterals(dist.Description)},
			{"dct:format", resources(dist.Formats...)},
			{"dcat:accessURL", resources(dist.AccessURL)},
			{"dcat:downloadURL", resources(dist.DownloadURL)},
			{"dct:license", resources(dist.License)},
			{"dcat:temporalResolution", typedLiterals("xsd:duration", dist.TemporalResolution...)},
		})
	}
}

func subjectRef(identifier, blank string) string {
	if ref, ok := iriRef(identifier); ok {
		return ref
	}
	return "_:" + blank
}

func blankNode(typ string, stmts []statement) string {
	var sb strings.Builder
	sb.WriteString("[ a ")
	sb.WriteString(typ)
	for _, s := range stmts {
		if len(s.objects) == 0 {
			continue
		}
		sb.WriteString(" ; ")
		sb.WriteString(s.predicate)
		sb.WriteString(" ")
		sb.WriteString(strings.Join(s.objects, ", "))
	}
	sb.WriteString(" ]")
	return sb.String()
}

// resources 将 IRI 格式的值输出为资源，其余输出为字面量
func resources(values ...string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if ref, ok := iriRef(v); ok {
			result = append(result, ref)
			continue
		}
		result = append(result, fmt.Sprintf("\"%s\"", escapeString(v)))
	}
	return result
}

func typedLiterals(datatype string, values ...string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		result = append(result, fmt.Sprintf("\"%s\"^^%s", escapeString(v), datatype))
	}
	return result
}

func langLiterals(l LangString) []string {
	langs := sortedLangs(l)
	result := make([]string, 0, len(langs))
	for _, lang := range langs {
		if l[lang] == "" {
			continue
		}
		result = append(result, fmt.Sprintf("\"%s\"@%s", escapeString(l[lang]), lang))
	}
	return result
}

// keywordLiterals 关键词以逗号拼接存储，输出时拆分为多个字面量
func keywordLiterals(l LangString) []string {
	result := make([]string, 0)
	for _, lang := range sortedLangs(l) {
		for _, kw := range strings.Split(l[lang], ",") {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			result = append(result, fmt.Sprintf("\"%s\"@%s", escapeString(kw), lang))
		}
	}
	return result
}

func sortedLangs(l LangString) []string {
	langs := make([]string, 0, len(l))
	for lang := range l {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// iriForbidden IRIREF 中不允许出现的字符
const iriForbidden = "<>\"{}|^`\\"

// iriRef 值是绝对 IRI 时返回 <...> 形式，不允许的字符按百分号编码
func iriRef(v string) (string, bool) {
	if v == "" || strings.ContainsFunc(v, unicode.IsSpace) {
		return "", false
	}
	u, err := url.Parse(v)
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return "", false
	}

	var sb strings.Builder
	sb.WriteString("<")
	for _, r := range v {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(iriForbidden, r) {
			fmt.Fprintf(&sb, "%%%02X", r)
			continue
		}
		sb.WriteRune(r)
	}
	sb.WriteString(">")
	return sb.String(), true
}

// escapeString 转义 Turtle 字符串字面量
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
