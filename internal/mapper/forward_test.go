package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlasdcat/internal/attribute"
	"atlasdcat/internal/dcat"
	"atlasdcat/internal/glossary"
)

func populationTerms() []glossary.Term {
	return []glossary.Term{
		nestedTerm("ds-1", "Dataset", map[string]any{
			"title":                     "Befolkning",
			"frequency":                 "http://publications.europa.eu/resource/authority/frequency/ANNUAL | Årlig",
			"publisher":                 "https://data.norge.no/organizations/1 | Kommunen",
			"theme":                     "http://publications.europa.eu/resource/authority/data-theme/SOCI | Samfunn; http://publications.europa.eu/resource/authority/data-theme/REGI | Regioner",
			"accessRights":              "PUBLIC | Offentlig",
			"keyword":                   "befolkning; kommune",
			"spatial":                   "https://data.geonorge.no/kommune/0301 | Oslo; https://data.geonorge.no/kommune/4601 | Bergen",
			"spatialResolutionInMeters": "10",
			"temporalStartDate":         "2020-01-01",
			"temporalEndDate":           "2020-12-31",
			"temporalResolution":        "P1D",
			"contactName":               "Team Data",
			"contactEmail":              "data@example.org",
			"license":                   "http://creativecommons.org/licenses/by/4.0/ | CC BY 4.0",
			"includeInDCAT":             "Ja",
		}, "dist-2", "dist-1", "dist-3", "unknown-term"),
		nestedTerm("dist-1", "Distribution", map[string]any{
			"title":              "CSV",
			"format":             "https://www.iana.org/assignments/media-types/text/csv | CSV",
			"accessURL":          "https://example.org/access/1",
			"downloadURL":        "https://example.org/download/1.csv",
			"license":            "http://creativecommons.org/licenses/by/4.0/",
			"temporalResolution": "P1M",
		}),
		nestedTerm("dist-2", "Distribution", map[string]any{
			"title":  "JSON",
			"format": "https://www.iana.org/assignments/media-types/application/json",
		}),
		nestedTerm("dist-3", "Distribution", map[string]any{
			"title":         "Skjult",
			"includeInDCAT": "false",
		}),
		nestedTerm("dist-unlinked", "Distribution", map[string]any{"title": "Løs"}),
		nestedTerm("ds-hidden", "Dataset", map[string]any{"title": "Skjult", "includeInDCAT": "Nei"}),
		nestedTerm("unknown-term", "Other", map[string]any{"title": "Annet"}),
	}
}

func TestMapGlossaryTermsToDatasetCatalog(t *testing.T) {
	m := newFetchedMapper(t, testConfig(true), populationTerms()...)

	catalog, err := m.MapGlossaryTermsToDatasetCatalog()
	require.NoError(t, err)

	assert.Equal(t, "https://data.norge.no/catalog/1", catalog.Identifier)
	assert.Equal(t, dcat.LangString{"nb": "Katalog"}, catalog.Title)
	assert.Equal(t, "https://organization-catalog.fellesdatakatalog.digdir.no/organizations/123456789", catalog.Publisher)
	assert.Equal(t, []string{"nb"}, catalog.Language)
	assert.Empty(t, catalog.License)

	require.Len(t, catalog.Datasets, 1)
	ds := catalog.Datasets[0]
	assert.Equal(t, "http://data.norge.no/datasets/ds-1", ds.Identifier)
	assert.Equal(t, dcat.LangString{"nb": "Befolkning"}, ds.Title)
	assert.Equal(t, dcat.LangString{"nb": "Beskrivelse av ds-1"}, ds.Description)
	assert.Equal(t, "http://publications.europa.eu/resource/authority/frequency/ANNUAL", ds.Frequency)
	assert.Equal(t, "https://data.norge.no/organizations/1", ds.Publisher)
	assert.Equal(t, []string{
		"http://publications.europa.eu/resource/authority/data-theme/SOCI",
		"http://publications.europa.eu/resource/authority/data-theme/REGI",
	}, ds.Theme)
	assert.Equal(t, "PUBLIC", ds.AccessRights)
	assert.Equal(t, dcat.LangString{"nb": "befolkning,kommune"}, ds.Keyword)
	assert.Equal(t, []dcat.Location{
		{Identifier: "https://data.geonorge.no/kommune/0301"},
		{Identifier: "https://data.geonorge.no/kommune/4601"},
	}, ds.Spatial)
	assert.Equal(t, []string{"10"}, ds.SpatialResolutionInMeters)
	assert.Equal(t, []dcat.PeriodOfTime{{StartDate: "2020-01-01", EndDate: "2020-12-31"}}, ds.Temporal)
	assert.Equal(t, []string{"P1D"}, ds.TemporalResolution)
	assert.Equal(t, &dcat.Contact{Name: dcat.LangString{"nb": "Team Data"}, Email: "data@example.org"}, ds.ContactPoint)
	assert.Equal(t, "http://creativecommons.org/licenses/by/4.0/", ds.License)

	// 分发按关联顺序，排除的分发与未知术语不出现
	require.Len(t, ds.Distributions, 2)
	json, csv := ds.Distributions[0], ds.Distributions[1]
	assert.Equal(t, "http://data.norge.no/distributions/dist-2", json.Identifier)
	assert.Equal(t, dcat.LangString{"nb": "JSON"}, json.Title)
	assert.Equal(t, []string{"https://www.iana.org/assignments/media-types/application/json"}, json.Formats)
	assert.Empty(t, json.AccessURL)
	assert.Empty(t, json.TemporalResolution)

	assert.Equal(t, "http://data.norge.no/distributions/dist-1", csv.Identifier)
	assert.Equal(t, dcat.LangString{"nb": "Beskrivelse av dist-1"}, csv.Description)
	assert.Equal(t, []string{"https://www.iana.org/assignments/media-types/text/csv"}, csv.Formats)
	assert.Equal(t, "https://example.org/access/1", csv.AccessURL)
	assert.Equal(t, "https://example.org/download/1.csv", csv.DownloadURL)
	assert.Equal(t, "http://creativecommons.org/licenses/by/4.0/", csv.License)
	assert.Equal(t, []string{"P1M"}, csv.TemporalResolution)
}

func TestMapDatasetWithoutOptionalFields(t *testing.T) {
	m := newFetchedMapper(t, testConfig(true), nestedTerm("ds-1", "Dataset", map[string]any{"title": "Tom"}))

	catalog, err := m.MapGlossaryTermsToDatasetCatalog()
	require.NoError(t, err)
	require.Len(t, catalog.Datasets, 1)

	ds := catalog.Datasets[0]
	assert.Empty(t, ds.Frequency)
	assert.Empty(t, ds.Theme)
	assert.Nil(t, ds.Keyword)
	assert.Empty(t, ds.Spatial)
	assert.Nil(t, ds.Temporal)
	assert.Nil(t, ds.ContactPoint)
	assert.Empty(t, ds.Distributions)
}

func TestMapFlatSchemaWithOverrides(t *testing.T) {
	cfg := testConfig(false)
	cfg.Attributes = attribute.Mapping{
		attribute.Dataset:      "Datasett",
		attribute.Distribution: "Distribusjon",
		attribute.Title:        "Tittel",
		attribute.Format:       "Format",
		attribute.Theme:        "Tema",
	}

	dataset := glossary.Term{
		GUID:            "ds-1",
		LongDescription: "Flatt datasett",
		AdditionalAttributes: map[string]any{
			"Datasett_Tittel": "Befolkning",
			"Datasett_Tema":   "http://theme/A | A",
		},
		SeeAlso: []glossary.RelatedTerm{{TermGUID: "dist-1"}},
	}
	distribution := glossary.Term{
		GUID: "dist-1",
		AdditionalAttributes: map[string]any{
			"Distribusjon_Tittel": "CSV",
			"Distribusjon_Format": "https://www.iana.org/assignments/media-types/text/csv",
		},
	}
	ignored := glossary.Term{
		GUID:                 "default-names",
		AdditionalAttributes: map[string]any{"Dataset_title": "Standardnavn"},
	}

	m := newFetchedMapper(t, cfg, dataset, distribution, ignored)
	catalog, err := m.MapGlossaryTermsToDatasetCatalog()
	require.NoError(t, err)

	require.Len(t, catalog.Datasets, 1)
	ds := catalog.Datasets[0]
	assert.Equal(t, dcat.LangString{"nb": "Befolkning"}, ds.Title)
	assert.Equal(t, []string{"http://theme/A"}, ds.Theme)
	require.Len(t, ds.Distributions, 1)
	assert.Equal(t, dcat.LangString{"nb": "CSV"}, ds.Distributions[0].Title)
	assert.Equal(t, []string{"https://www.iana.org/assignments/media-types/text/csv"}, ds.Distributions[0].Formats)
}

func TestMapApprovedOnly(t *testing.T) {
	approved := nestedTerm("ds-approved", "Dataset", map[string]any{"title": "Godkjent"})
	approved.Status = "APPROVED"
	draft := nestedTerm("ds-draft", "Dataset", map[string]any{"title": "Utkast"})
	draft.Status = "Draft"

	cfg := testConfig(true)
	cfg.OnlyApproved = true
	m := newFetchedMapper(t, cfg, approved, draft)

	catalog, err := m.MapGlossaryTermsToDatasetCatalog()
	require.NoError(t, err)
	require.Len(t, catalog.Datasets, 1)
	assert.Equal(t, "http://data.norge.no/datasets/ds-approved", catalog.Datasets[0].Identifier)
}

func TestMapInvalidTemporalCoverage(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		cause error
	}{
		{"end before start", "2021-01-01", "2020-01-01", dcat.ErrInvalidDateInterval},
		{"malformed start", "01.01.2020", "", dcat.ErrInvalidDate},
		{"malformed end", "", "2020-02-30", dcat.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newFetchedMapper(t, testConfig(true), nestedTerm("ds-1", "Dataset", map[string]any{
				"title":             "Befolkning",
				"temporalStartDate": tt.start,
				"temporalEndDate":   tt.end,
			}))

			catalog, err := m.MapGlossaryTermsToDatasetCatalog()
			assert.Nil(t, catalog)
			assert.ErrorIs(t, err, ErrTemporal)
			assert.ErrorIs(t, err, ErrMapping)
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestMapInvalidFormat(t *testing.T) {
	m := newFetchedMapper(t, testConfig(true),
		nestedTerm("ds-1", "Dataset", map[string]any{"title": "Befolkning"}, "dist-1"),
		nestedTerm("dist-1", "Distribution", map[string]any{
			"format": "https://www.iana.org/assignments/media-types/text/csv; CSV | kommaseparert",
		}),
	)

	catalog, err := m.MapGlossaryTermsToDatasetCatalog()
	assert.Nil(t, catalog)
	assert.ErrorIs(t, err, ErrFormat)
	assert.ErrorIs(t, err, dcat.ErrInvalidURI)
	assert.NotErrorIs(t, err, ErrTemporal)
}

func TestMapIgnoresLinksToMissingTerms(t *testing.T) {
	cfg := testConfig(false)
	dataset := glossary.Term{
		GUID:                 "ds-1",
		AdditionalAttributes: map[string]any{"Dataset_title": "Befolkning"},
		SeeAlso:              []glossary.RelatedTerm{{TermGUID: "dist-1"}},
	}
	m := newFetchedMapper(t, cfg, dataset)

	catalog, err := m.MapGlossaryTermsToDatasetCatalog()
	require.NoError(t, err)
	assert.Empty(t, catalog.Datasets[0].Distributions)
}
