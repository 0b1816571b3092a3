package attribute

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var norwegian = Mapping{
	AccessRights:              "Tilgangsnivå",
	AccessURL:                 "TilgangsUrl",
	ContactEmail:              "DataeierEpost",
	ContactName:               "Dataeier",
	Dataset:                   "Datasett",
	Distribution:              "Distribusjon",
	DownloadURL:               "Nedlastningslenke",
	Format:                    "Format",
	Frequency:                 "Oppdateringsfrekvens",
	IncludeInDCAT:             "PubliseresPåFellesDatakatalog",
	Keyword:                   "Emneord",
	License:                   "Lisens",
	Publisher:                 "Utgiver",
	Spatial:                   "GeografiskAvgrensning",
	SpatialResolutionInMeters: "GeografiskOppløsning",
	Theme:                     "Tema",
	Title:                     "Tittel",
	TemporalStartDate:         "StartPåPerioden",
	TemporalEndDate:           "SluttPåPerioden",
	TemporalResolution:        "PeriodeOppløsning",
}

func TestMappingName(t *testing.T) {
	defaults := map[Attribute]string{
		AccessRights:              "accessRights",
		AccessURL:                 "accessURL",
		ContactEmail:              "contactEmail",
		ContactName:               "contactName",
		Dataset:                   "Dataset",
		Distribution:              "Distribution",
		DownloadURL:               "downloadURL",
		Format:                    "format",
		Frequency:                 "frequency",
		Generated:                 "generated",
		IncludeInDCAT:             "includeInDCAT",
		Keyword:                   "keyword",
		License:                   "license",
		Publisher:                 "publisher",
		Spatial:                   "spatial",
		SpatialResolutionInMeters: "spatialResolutionInMeters",
		TemporalStartDate:         "temporalStartDate",
		TemporalEndDate:           "temporalEndDate",
		TemporalResolution:        "temporalResolution",
		Theme:                     "theme",
		Title:                     "title",
	}
	require.Len(t, All(), len(defaults))

	t.Run("defaults", func(t *testing.T) {
		var m Mapping
		for _, attr := range All() {
			assert.Equal(t, defaults[attr], m.Name(attr), attr)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		for _, attr := range All() {
			want, ok := norwegian[attr]
			if !ok {
				want = defaults[attr]
			}
			assert.Equal(t, want, norwegian.Name(attr), attr)
		}
	})

	t.Run("resolved table", func(t *testing.T) {
		resolved := norwegian.Resolved()
		assert.Len(t, resolved, len(defaults))
		assert.Equal(t, "Tittel", resolved[Title])
		assert.Equal(t, "generated", resolved[Generated])
	})
}

func TestMappingClone(t *testing.T) {
	clone := norwegian.Clone()
	clone[Title] = "Changed"
	assert.Equal(t, "Tittel", norwegian.Name(Title))
}

func TestParse(t *testing.T) {
	attr, err := Parse("spatialResolutionInMeters")
	require.NoError(t, err)
	assert.Equal(t, SpatialResolutionInMeters, attr)

	_, err = Parse("Tittel")
	assert.Error(t, err)
}

func TestValidator(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
		want    Mapping
	}{
		{
			name: "valid",
			content: `
version: "1"
attributes:
  title: Tittel
  Dataset: Datasett
`,
			want: Mapping{Title: "Tittel", Dataset: "Datasett"},
		},
		{
			name:    "missing version",
			content: "attributes:\n  title: Tittel\n",
			wantErr: "version is required",
		},
		{
			name:    "unknown key",
			content: "version: \"1\"\nattributes:\n  Tittel: title\n",
			wantErr: "unknown attribute 'Tittel'",
		},
		{
			name:    "empty name",
			content: "version: \"1\"\nattributes:\n  title: \"  \"\n",
			wantErr: "name is required",
		},
		{
			name:    "duplicate name",
			content: "version: \"1\"\nattributes:\n  title: Navn\n  keyword: Navn\n",
			wantErr: "duplicate attribute name 'Navn'",
		},
		{
			name:    "collides with default",
			content: "version: \"1\"\nattributes:\n  keyword: title\n",
			wantErr: "collides with default name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := ParseBytes([]byte(tt.content))
			require.NoError(t, err)

			mapping, err := NewValidator(file).Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, mapping)
		})
	}
}

func writeMapping(t *testing.T, path, title string) {
	t.Helper()
	content := "version: \"1\"\nattributes:\n  title: " + title + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoader(t *testing.T) {
	t.Run("no file uses defaults", func(t *testing.T) {
		loader := NewLoader("", nil)
		require.NoError(t, loader.Load())
		assert.Equal(t, "title", loader.Mapping().Name(Title))
	})

	t.Run("loads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "attributes.yaml")
		writeMapping(t, path, "Tittel")

		loader := NewLoader(path, nil)
		require.NoError(t, loader.Load())
		assert.Equal(t, "Tittel", loader.Mapping().Name(Title))
	})

	t.Run("failed reload keeps previous mapping", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "attributes.yaml")
		writeMapping(t, path, "Tittel")

		loader := NewLoader(path, nil)
		require.NoError(t, loader.Load())

		require.NoError(t, os.WriteFile(path, []byte("attributes: ["), 0644))
		assert.Error(t, loader.Reload())
		assert.Equal(t, "Tittel", loader.Mapping().Name(Title))
	})

	t.Run("missing file", func(t *testing.T) {
		loader := NewLoader(filepath.Join(t.TempDir(), "missing.yaml"), nil)
		assert.Error(t, loader.Load())
	})
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attributes.yaml")
	writeMapping(t, path, "Tittel")

	loader := NewLoader(path, nil)
	require.NoError(t, loader.Load())

	watcher, err := NewWatcher(loader, nil)
	require.NoError(t, err)
	watcher.debounce = 10 * time.Millisecond
	defer watcher.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	writeMapping(t, path, "Overskrift")

	select {
	case <-watcher.Reloaded():
	case <-time.After(5 * time.Second):
		t.Fatal("attribute mapping was not reloaded")
	}
	assert.Equal(t, "Overskrift", loader.Mapping().Name(Title))
}

func TestNewWatcherRequiresFile(t *testing.T) {
	_, err := NewWatcher(NewLoader("", nil), nil)
	assert.Error(t, err)
}

func TestExampleMappingFile(t *testing.T) {
	file, err := NewParser(filepath.Join("..", "..", "config", "attributes.example.yaml")).Parse()
	require.NoError(t, err)

	mapping, err := NewValidator(file).Validate()
	require.NoError(t, err)
	assert.Equal(t, "Datasett", mapping.Name(Dataset))
	assert.Equal(t, "Emneord", mapping.Name(Keyword))
	assert.Equal(t, "publisher", mapping.Name(Publisher))
}
