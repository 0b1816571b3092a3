// Package dcat DCAT-AP-NO 目录模型
package dcat

// LangString 按语言标记的文本
type LangString map[string]string

// Get 返回指定语言的文本
func (l LangString) Get(lang string) (string, bool) {
	if l == nil {
		return "", false
	}
	v, ok := l[lang]
	return v, ok
}

// Catalog 数据目录
type Catalog struct {
	Identifier string     `json:"identifier"`
	Title      LangString `json:"title,omitempty"`
	Publisher  string     `json:"publisher,omitempty"`
	Language   []string   `json:"language,omitempty"`
	License    string     `json:"license,omitempty"`
	Datasets   []Dataset  `json:"datasets,omitempty"`
}

// HasLanguage 判断目录语言列表是否包含 lang
func (c *Catalog) HasLanguage(lang string) bool {
	for _, l := range c.Language {
		if l == lang {
			return true
		}
	}
	return false
}

// Dataset 数据集
type Dataset struct {
	Identifier                string         `json:"identifier,omitempty"`
	Title                     LangString     `json:"title,omitempty"`
	Description               LangString     `json:"description,omitempty"`
	Frequency                 string         `json:"frequency,omitempty"`
	Publisher                 string         `json:"publisher,omitempty"`
	Theme                     []string       `json:"theme,omitempty"`
	AccessRights              string         `json:"accessRights,omitempty"`
	Keyword                   LangString     `json:"keyword,omitempty"`
	Spatial                   []Location     `json:"spatial,omitempty"`
	SpatialResolutionInMeters []string       `json:"spatialResolutionInMeters,omitempty"`
	Temporal                  []PeriodOfTime `json:"temporal,omitempty"`
	TemporalResolution        []string       `json:"temporalResolution,omitempty"`
	ContactPoint              *Contact       `json:"contactPoint,omitempty"`
	License                   string         `json:"license,omitempty"`
	Distributions             []Distribution `json:"distributions,omitempty"`
}

// Distribution 数据集分发
type Distribution struct {
	Identifier         string     `json:"identifier,omitempty"`
	Title              LangString `json:"title,omitempty"`
	Description        LangString `json:"description,omitempty"`
	Formats            []string   `json:"formats,omitempty"`
	AccessURL          string     `json:"accessURL,omitempty"`
	DownloadURL        string     `json:"downloadURL,omitempty"`
	License            string     `json:"license,omitempty"`
	TemporalResolution []string   `json:"temporalResolution,omitempty"`
}

// Contact 联系点
type Contact struct {
	Name  LangString `json:"name,omitempty"`
	Email string     `json:"email,omitempty"`
}

// Location 地理范围
type Location struct {
	Identifier string `json:"identifier"`
}

// PeriodOfTime 时间范围，日期格式为 YYYY-MM-DD
type PeriodOfTime struct {
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}
