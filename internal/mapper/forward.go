package mapper

import (
	"log/slog"
	"strings"

	"atlasdcat/internal/attribute"
	"atlasdcat/internal/dcat"
	"atlasdcat/internal/glossary"
)

// MapGlossaryTermsToDatasetCatalog 将术语表快照映射为 DCAT 目录
func (m *Mapper) MapGlossaryTermsToDatasetCatalog() (*dcat.Catalog, error) {
	if m.snapshot == nil {
		return nil, m.invalidState("mapping glossary terms to a dataset catalog")
	}

	datasetTerms := make([]glossary.Term, 0)
	distributionTerms := make(map[string]glossary.Term)

	// 按类型划分术语
	for _, term := range m.snapshot.OrderedTerms() {
		typ := m.schema.detect(&term)
		if typ == TermUnknown {
			continue
		}
		include, err := m.shouldInclude(&term, typ)
		if err != nil {
			return nil, m.fail(err)
		}
		if !include {
			continue
		}
		if typ == TermDataset {
			datasetTerms = append(datasetTerms, term)
		} else {
			distributionTerms[term.GUID] = term
		}
	}

	catalog := &dcat.Catalog{
		Identifier: m.cfg.CatalogURI,
		Title:      dcat.LangString{m.cfg.Language: m.cfg.CatalogTitle},
		Publisher:  m.cfg.CatalogPublisher,
		Language:   []string{m.cfg.CatalogLanguage},
		License:    "",
		Datasets:   make([]dcat.Dataset, 0, len(datasetTerms)),
	}

	for i := range datasetTerms {
		dataset, err := m.mapDataset(&datasetTerms[i], distributionTerms)
		if err != nil {
			return nil, m.fail(err)
		}
		catalog.Datasets = append(catalog.Datasets, dataset)
	}

	m.metrics.AddMappedDatasets("forward", len(catalog.Datasets))
	m.logger.Info("Mapped glossary to catalog",
		slog.String("glossary", m.cfg.GlossaryID),
		slog.Int("datasets", len(catalog.Datasets)),
		slog.Int("distributions", len(distributionTerms)))

	return catalog, nil
}

func (m *Mapper) mapDataset(term *glossary.Term, distributionTerms map[string]glossary.Term) (dcat.Dataset, error) {
	lang := m.cfg.Language
	r := m.reader(term, TermDataset)

	dataset := dcat.Dataset{
		Identifier:                expandTemplate(m.cfg.DatasetURITemplate, term.GUID),
		Title:                     dcat.LangString{lang: r.raw(attribute.Title)},
		Description:               dcat.LangString{lang: term.LongDescription},
		Frequency:                 r.first(attribute.Frequency),
		Publisher:                 r.first(attribute.Publisher),
		Theme:                     r.all(attribute.Theme),
		AccessRights:              r.first(attribute.AccessRights),
		Keyword:                   m.mapKeywords(r.all(attribute.Keyword)),
		Spatial:                   mapLocations(r.all(attribute.Spatial)),
		SpatialResolutionInMeters: r.all(attribute.SpatialResolutionInMeters),
		TemporalResolution:        r.all(attribute.TemporalResolution),
		License:                   r.first(attribute.License),
		Distributions:             make([]dcat.Distribution, 0),
	}

	start := r.raw(attribute.TemporalStartDate)
	end := r.raw(attribute.TemporalEndDate)
	contact := m.mapContact(r.raw(attribute.ContactName), r.raw(attribute.ContactEmail))
	if r.err != nil {
		return dcat.Dataset{}, r.err
	}

	if start != "" || end != "" {
		period, err := dcat.NewPeriodOfTime(start, end)
		if err != nil {
			return dcat.Dataset{}, wrapError(KindTemporal, err, "dataset term %q has invalid temporal coverage", term.GUID)
		}
		dataset.Temporal = []dcat.PeriodOfTime{period}
	}
	dataset.ContactPoint = contact

	// 按关联顺序挂载分发
	for _, related := range term.SeeAlso {
		distTerm, ok := distributionTerms[related.TermGUID]
		if !ok {
			continue
		}
		distribution, err := m.mapDistribution(&distTerm)
		if err != nil {
			return dcat.Dataset{}, err
		}
		dataset.Distributions = append(dataset.Distributions, distribution)
	}

	return dataset, nil
}

func (m *Mapper) mapDistribution(term *glossary.Term) (dcat.Distribution, error) {
	lang := m.cfg.Language
	r := m.reader(term, TermDistribution)

	distribution := dcat.Distribution{
		Identifier:         expandTemplate(m.cfg.DistributionURITemplate, term.GUID),
		Title:              dcat.LangString{lang: r.raw(attribute.Title)},
		Description:        dcat.LangString{lang: term.LongDescription},
		Formats:            r.all(attribute.Format),
		AccessURL:          r.first(attribute.AccessURL),
		DownloadURL:        r.first(attribute.DownloadURL),
		License:            r.first(attribute.License),
		TemporalResolution: r.all(attribute.TemporalResolution),
	}
	if r.err != nil {
		return dcat.Distribution{}, r.err
	}

	for _, format := range distribution.Formats {
		if err := dcat.ValidateURI(format); err != nil {
			return dcat.Distribution{}, wrapError(KindFormat, err, "distribution term %q has invalid format", term.GUID)
		}
	}

	return distribution, nil
}

// mapKeywords 关键词以逗号拼接，没有关键词时返回 nil
func (m *Mapper) mapKeywords(keywords []string) dcat.LangString {
	if len(keywords) == 0 {
		return nil
	}
	return dcat.LangString{m.cfg.Language: strings.Join(keywords, ",")}
}

func (m *Mapper) mapContact(name, email string) *dcat.Contact {
	if name == "" && email == "" {
		return nil
	}
	return &dcat.Contact{
		Name:  dcat.LangString{m.cfg.Language: name},
		Email: email,
	}
}

func mapLocations(values []string) []dcat.Location {
	locations := make([]dcat.Location, 0, len(values))
	for _, v := range values {
		locations = append(locations, dcat.Location{Identifier: v})
	}
	return locations
}
