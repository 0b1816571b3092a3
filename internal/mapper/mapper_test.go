package mapper

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlasdcat/internal/attribute"
	"atlasdcat/internal/dcat"
	"atlasdcat/internal/glossary"
	"atlasdcat/internal/metrics"
)

const (
	testGlossaryID       = "glossary-1"
	datasetTemplate      = "http://data.norge.no/datasets/{guid}"
	distributionTemplate = "http://data.norge.no/distributions/{guid}"
)

// fakeClient 内存术语表客户端
type fakeClient struct {
	endpoint string
	glossary *glossary.Glossary
	err      error
	created  []glossary.Term
	updated  []glossary.Term
}

func (f *fakeClient) GetGlossary(_ context.Context, _ string, _ bool) (*glossary.Glossary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.glossary, nil
}

func (f *fakeClient) CreateTerm(_ context.Context, term glossary.Term) (*glossary.Term, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, term)
	term.GUID = fmt.Sprintf("created-%d", len(f.created))
	return &term, nil
}

func (f *fakeClient) UpdateTerm(_ context.Context, term glossary.Term) (*glossary.Term, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updated = append(f.updated, term)
	return &term, nil
}

func (f *fakeClient) EndpointURL() string {
	return f.endpoint
}

func testConfig(nested bool) Config {
	return Config{
		GlossaryID:              testGlossaryID,
		CatalogURI:              "https://data.norge.no/catalog/1",
		CatalogLanguage:         "nb",
		CatalogTitle:            "Katalog",
		CatalogPublisher:        "https://organization-catalog.fellesdatakatalog.digdir.no/organizations/123456789",
		DatasetURITemplate:      datasetTemplate,
		DistributionURITemplate: distributionTemplate,
		Nested:                  &nested,
	}
}

func testGlossary(terms ...glossary.Term) *glossary.Glossary {
	g := &glossary.Glossary{
		GUID:          testGlossaryID,
		QualifiedName: "datasets",
		TermInfo:      make(map[string]glossary.Term, len(terms)),
	}
	for _, term := range terms {
		g.Terms = append(g.Terms, glossary.TermHeader{TermGUID: term.GUID})
		g.TermInfo[term.GUID] = term
	}
	return g
}

func nestedTerm(guid, marker string, fields map[string]any, links ...string) glossary.Term {
	term := glossary.Term{
		GUID:            guid,
		Name:            guid,
		LongDescription: "Beskrivelse av " + guid,
		Anchor:          &glossary.Anchor{GlossaryGUID: testGlossaryID},
		Attributes:      map[string]any{marker: fields},
	}
	for _, link := range links {
		term.SeeAlso = append(term.SeeAlso, glossary.RelatedTerm{TermGUID: link})
	}
	return term
}

func newFetchedMapper(t *testing.T, cfg Config, terms ...glossary.Term) *Mapper {
	t.Helper()

	m, err := New(&fakeClient{endpoint: "http://atlas", glossary: testGlossary(terms...)}, cfg)
	require.NoError(t, err)
	require.NoError(t, m.FetchGlossary(context.Background()))
	return m
}

func TestConfigValidate(t *testing.T) {
	client := &fakeClient{endpoint: "http://atlas"}

	cfg := testConfig(false)
	cfg.DatasetURITemplate = "http://data.norge.no/datasets/"
	_, err := New(client, cfg)
	assert.ErrorContains(t, err, "dataset URI template")

	cfg = testConfig(false)
	cfg.GlossaryID = ""
	cfg.DistributionURITemplate = ""
	_, err = New(client, cfg)
	assert.ErrorContains(t, err, "glossary id is required")
	assert.ErrorContains(t, err, "distribution URI template")

	_, err = New(nil, testConfig(false))
	assert.Error(t, err)

	m, err := New(client, testConfig(false))
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, m.cfg.Language)
}

func TestSchemaVariantDetection(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		override *bool
		want     bool
	}{
		{"purview endpoint", "https://myaccount.purview.azure.com/catalog/api/atlas/v2", nil, true},
		{"atlas endpoint", "http://atlas:21000/api/atlas/v2", nil, false},
		{"explicit flat on purview", "https://myaccount.purview.azure.com", boolPtr(false), false},
		{"explicit nested on atlas", "http://atlas", boolPtr(true), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(false)
			cfg.Nested = tt.override
			m, err := New(&fakeClient{endpoint: tt.endpoint}, cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Nested())
		})
	}
}

func TestAttributeOverridesAreCopied(t *testing.T) {
	cfg := testConfig(true)
	cfg.Attributes = attribute.Mapping{attribute.Title: "Tittel"}
	m, err := New(&fakeClient{}, cfg)
	require.NoError(t, err)

	cfg.Attributes[attribute.Title] = "Endret"
	assert.Equal(t, "Tittel", m.AttributeName(attribute.Title))
	assert.Equal(t, "Dataset", m.AttributeName(attribute.Dataset))
}

func TestOperationsRequireFetch(t *testing.T) {
	reg := prometheus.NewRegistry()
	met := metrics.New(reg)
	m, err := New(&fakeClient{endpoint: "http://atlas"}, testConfig(true), WithMetrics(met))
	require.NoError(t, err)

	_, err = m.MapGlossaryTermsToDatasetCatalog()
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.ErrorIs(t, err, ErrMapping)

	_, err = m.MapDatasetCatalogToGlossaryTerms(&dcat.Catalog{Language: []string{"nb"}})
	assert.ErrorIs(t, err, ErrInvalidState)

	err = m.SaveGlossaryTerms(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = m.GlossaryTerms()
	assert.ErrorIs(t, err, ErrInvalidState)

	assert.Empty(t, m.PendingTerms())
	assert.Equal(t, 4.0, testutil.ToFloat64(met.MappingErrors.WithLabelValues("invalid_state")))
}

func TestFetchGlossaryPropagatesClientError(t *testing.T) {
	clientErr := &glossary.APIError{StatusCode: 401, Body: "unauthorized"}
	m, err := New(&fakeClient{err: clientErr}, testConfig(false))
	require.NoError(t, err)

	err = m.FetchGlossary(context.Background())
	require.Error(t, err)

	var apiErr *glossary.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.NotErrorIs(t, err, ErrMapping)
}

func TestGlossaryTermsAfterFetch(t *testing.T) {
	m := newFetchedMapper(t, testConfig(true),
		nestedTerm("b", "Dataset", map[string]any{}),
		nestedTerm("a", "Distribution", map[string]any{}),
	)

	terms, err := m.GlossaryTerms()
	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, "b", terms[0].GUID)
	assert.Equal(t, "a", terms[1].GUID)
}

func TestErrorKinds(t *testing.T) {
	cause := dcat.ErrInvalidDateInterval
	err := fmt.Errorf("mapping: %w", wrapError(KindTemporal, cause, "bad dates"))

	assert.ErrorIs(t, err, ErrTemporal)
	assert.ErrorIs(t, err, ErrMapping)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrFormat)
	assert.NotErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, "mapping: bad dates: invalid date interval", err.Error())

	plain := newError(KindMapping, "missing %s", "title")
	assert.ErrorIs(t, plain, ErrMapping)
	assert.NotErrorIs(t, plain, ErrTemporal)
	assert.Equal(t, "missing title", plain.Error())
}

func TestExtractGUID(t *testing.T) {
	guid, ok := extractGUID("http://data.norge.no/datasets/abc-123", datasetTemplate)
	assert.True(t, ok)
	assert.Equal(t, "abc-123", guid)

	guid, ok = extractGUID("urn:term:abc:v1", "urn:term:{guid}:v1")
	assert.True(t, ok)
	assert.Equal(t, "abc", guid)

	_, ok = extractGUID("http://data.norge.no/datasets/", datasetTemplate)
	assert.False(t, ok)
	_, ok = extractGUID("http://other.org/abc", datasetTemplate)
	assert.False(t, ok)
	_, ok = extractGUID("http://data.norge.no/datasets/abc", "no placeholder")
	assert.False(t, ok)
}

func boolPtr(v bool) *bool {
	return &v
}
