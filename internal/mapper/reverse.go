package mapper

import (
	"log/slog"
	"strings"

	"atlasdcat/internal/attribute"
	"atlasdcat/internal/dcat"
	"atlasdcat/internal/glossary"
)

// MapDatasetCatalogToGlossaryTerms 将目录映射为待保存的术语，替换当前待保存批次
func (m *Mapper) MapDatasetCatalogToGlossaryTerms(catalog *dcat.Catalog) ([]PendingTerm, error) {
	if m.snapshot == nil {
		return nil, m.invalidState("mapping a dataset catalog to glossary terms")
	}
	m.pending = nil

	if catalog == nil {
		return nil, m.fail(newError(KindMapping, "catalog is required"))
	}
	if !catalog.HasLanguage(m.cfg.Language) {
		return nil, m.fail(newError(KindMapping, "catalog language %v does not contain %q", catalog.Language, m.cfg.Language))
	}

	pending := make([]PendingTerm, 0)
	for i := range catalog.Datasets {
		dataset := &catalog.Datasets[i]
		datasetTerm, err := m.datasetToTerm(dataset)
		if err != nil {
			return nil, m.fail(err)
		}
		pending = append(pending, datasetTerm)

		for j := range dataset.Distributions {
			distTerm, err := m.distributionToTerm(&dataset.Distributions[j], &datasetTerm.Term)
			if err != nil {
				return nil, m.fail(err)
			}
			pending = append(pending, distTerm)
		}
	}

	m.pending = pending
	m.metrics.AddMappedDatasets("reverse", len(catalog.Datasets))
	m.logger.Info("Mapped catalog to glossary terms",
		slog.String("glossary", m.cfg.GlossaryID),
		slog.Int("datasets", len(catalog.Datasets)),
		slog.Int("terms", len(pending)))

	return m.PendingTerms(), nil
}

func (m *Mapper) datasetToTerm(dataset *dcat.Dataset) (PendingTerm, error) {
	lang := m.cfg.Language

	title, ok := dataset.Title.Get(lang)
	if !ok || strings.TrimSpace(title) == "" {
		return PendingTerm{}, newError(KindMapping, "dataset %q has no title in language %q", dataset.Identifier, lang)
	}
	description, ok := dataset.Description.Get(lang)
	if !ok {
		return PendingTerm{}, newError(KindMapping, "dataset %q has no description in language %q", dataset.Identifier, lang)
	}
	var keywords []string
	if len(dataset.Keyword) > 0 {
		joined, ok := dataset.Keyword.Get(lang)
		if !ok {
			return PendingTerm{}, newError(KindMapping, "dataset %q has no keywords in language %q", dataset.Identifier, lang)
		}
		keywords = splitKeywords(joined)
	}

	pending, err := m.resolveTerm(dataset.Identifier, TermDataset, title)
	if err != nil {
		return PendingTerm{}, err
	}
	term := &pending.Term
	term.LongDescription = description

	spatial := make([]string, 0, len(dataset.Spatial))
	for _, loc := range dataset.Spatial {
		spatial = append(spatial, loc.Identifier)
	}

	var start, end string
	if len(dataset.Temporal) > 0 {
		start = dataset.Temporal[0].StartDate
		end = dataset.Temporal[0].EndDate
	}

	var contactName, contactEmail string
	if dataset.ContactPoint != nil {
		contactName, _ = dataset.ContactPoint.Name.Get(lang)
		contactEmail = dataset.ContactPoint.Email
	}

	m.setFields(term, TermDataset, map[attribute.Attribute]string{
		attribute.Title:                     title,
		attribute.Publisher:                 dataset.Publisher,
		attribute.Frequency:                 dataset.Frequency,
		attribute.AccessRights:              dataset.AccessRights,
		attribute.Theme:                     encodeValues(dataset.Theme),
		attribute.Keyword:                   encodeValues(keywords),
		attribute.Spatial:                   encodeValues(spatial),
		attribute.SpatialResolutionInMeters: encodeValues(dataset.SpatialResolutionInMeters),
		attribute.TemporalStartDate:         start,
		attribute.TemporalEndDate:           end,
		attribute.TemporalResolution:        encodeValues(dataset.TemporalResolution),
		attribute.ContactName:               contactName,
		attribute.ContactEmail:              contactEmail,
		attribute.License:                   dataset.License,
	})

	return pending, nil
}

func (m *Mapper) distributionToTerm(distribution *dcat.Distribution, datasetTerm *glossary.Term) (PendingTerm, error) {
	lang := m.cfg.Language

	title, ok := distribution.Title.Get(lang)
	if !ok || strings.TrimSpace(title) == "" {
		return PendingTerm{}, newError(KindMapping, "distribution %q has no title in language %q", distribution.Identifier, lang)
	}
	description, ok := distribution.Description.Get(lang)
	if !ok {
		return PendingTerm{}, newError(KindMapping, "distribution %q has no description in language %q", distribution.Identifier, lang)
	}

	pending, err := m.resolveTerm(distribution.Identifier, TermDistribution, title)
	if err != nil {
		return PendingTerm{}, err
	}
	term := &pending.Term
	term.LongDescription = description

	m.setFields(term, TermDistribution, map[attribute.Attribute]string{
		attribute.Title:              title,
		attribute.Format:             encodeValues(distribution.Formats),
		attribute.AccessURL:          distribution.AccessURL,
		attribute.DownloadURL:        distribution.DownloadURL,
		attribute.License:            distribution.License,
		attribute.TemporalResolution: encodeValues(distribution.TemporalResolution),
	})

	// 分发术语关联回数据集术语
	if !hasLink(term.SeeAlso, datasetTerm.GUID) {
		term.SeeAlso = append(term.SeeAlso, glossary.RelatedTerm{
			TermGUID:    datasetTerm.GUID,
			DisplayText: datasetTerm.Name,
		})
	}

	return pending, nil
}

// resolveTerm 有标识时复用已持久化术语，否则创建新术语
func (m *Mapper) resolveTerm(identifier string, typ TermType, title string) (PendingTerm, error) {
	if identifier == "" {
		id := newIdentity()
		name := strings.ToLower(strings.ReplaceAll(title, " ", ""))
		return PendingTerm{
			Identity: id,
			Type:     typ,
			Term: glossary.Term{
				GUID:          id.Key,
				Name:          name,
				QualifiedName: name + "@" + m.snapshot.QualifiedName,
				Anchor:        &glossary.Anchor{GlossaryGUID: m.glossaryGUID()},
			},
		}, nil
	}

	own, sibling := m.cfg.DatasetURITemplate, m.cfg.DistributionURITemplate
	if typ == TermDistribution {
		own, sibling = sibling, own
	}
	guid, ok := extractGUID(identifier, own)
	if !ok {
		guid, ok = extractGUID(identifier, sibling)
	}
	if !ok {
		return PendingTerm{}, newError(KindMapping, "%s identifier %q does not match a URI template", typ, identifier)
	}

	existing, ok := m.snapshot.TermInfo[guid]
	if !ok {
		return PendingTerm{}, newError(KindMapping, "%s identifier %q refers to unknown term %q", typ, identifier, guid)
	}
	if found := m.schema.detect(&existing); found != typ {
		return PendingTerm{}, newError(KindMapping, "%s identifier %q refers to %s term %q", typ, identifier, found, guid)
	}

	return PendingTerm{
		Identity: persistedIdentity(guid),
		Type:     typ,
		Term:     existing.Clone(),
	}, nil
}

func (m *Mapper) setFields(term *glossary.Term, typ TermType, fields map[attribute.Attribute]string) {
	for _, attr := range attribute.All() {
		if value, ok := fields[attr]; ok {
			m.schema.set(term, typ, attr, value)
		}
	}
}

func (m *Mapper) glossaryGUID() string {
	if m.snapshot.GUID != "" {
		return m.snapshot.GUID
	}
	return m.cfg.GlossaryID
}

func splitKeywords(joined string) []string {
	keywords := make([]string, 0)
	for _, kw := range strings.Split(joined, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

func hasLink(links []glossary.RelatedTerm, guid string) bool {
	for _, link := range links {
		if link.TermGUID == guid {
			return true
		}
	}
	return false
}
