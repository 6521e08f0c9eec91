// internal/catalog/source_test.go
package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"festival-matcher/internal/matching"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

const sampleDocument = `{
	"version": "2026-06-01",
	"festivals": [
		{
			"id": "tomorrowland",
			"name": "Tomorrowland",
			"city": "Boom",
			"country": "Belgium",
			"region": "western-europe",
			"genres": ["EDM", "House"],
			"vibes": ["party"],
			"cost": {"min": 800, "max": 1500},
			"months": [7, "August"],
			"durationDays": 3,
			"crowdSize": "massive",
			"amenities": {"camping": true, "glamping": true}
		},
		{
			"id": "fuji-rock",
			"name": "Fuji Rock",
			"country": "Japan",
			"genres": ["rock"],
			"months": ["jul"]
		}
	]
}`

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// ==========================
// DecodeDocument Tests
// ==========================

func TestDecodeDocument_Valid(t *testing.T) {
	doc, err := DecodeDocument([]byte(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, "2026-06-01", doc.Version)
	require.Len(t, doc.Festivals, 2)

	tl := doc.Festivals[0]
	assert.Equal(t, matching.CrowdMassive, tl.CrowdSize)
	assert.Equal(t, matching.MonthList{time.July, time.August}, tl.Months)
	require.NotNil(t, tl.Cost)
	assert.Equal(t, 1500.0, tl.Cost.Max)
	require.NotNil(t, tl.Amenities.Camping)
	assert.True(t, *tl.Amenities.Camping)
	assert.Nil(t, tl.Amenities.FamilyFriendly)

	fuji := doc.Festivals[1]
	assert.Nil(t, fuji.Cost)
	assert.Equal(t, matching.CrowdUnknown, fuji.CrowdSize)
	assert.Equal(t, matching.MonthList{time.July}, fuji.Months)
}

func TestDecodeDocument_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"festivals": [`},
		{"missing festivals", `{"version": "1"}`},
		{"missing id", `{"festivals": [{"name": "No Id"}]}`},
		{"empty id", `{"festivals": [{"id": "", "name": "Empty"}]}`},
		{"negative cost", `{"festivals": [{"id": "a", "name": "A", "cost": {"min": -1, "max": 10}}]}`},
		{"month out of range", `{"festivals": [{"id": "a", "name": "A", "months": [13]}]}`},
		{"unknown crowd size", `{"festivals": [{"id": "a", "name": "A", "crowdSize": "gigantic"}]}`},
		{"amenity not boolean", `{"festivals": [{"id": "a", "name": "A", "amenities": {"camping": "yes"}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDocument([]byte(tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCatalogInvalid)
		})
	}
}

// ==========================
// FileSource Tests
// ==========================

func TestFileSource_Load(t *testing.T) {
	src := NewFileSource(writeCatalog(t, sampleDocument))
	assert.Equal(t, "file", src.Name())

	doc, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, doc.Festivals, 2)
}

func TestFileSource_MissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.json"))

	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestFileSource_InvalidContent(t *testing.T) {
	src := NewFileSource(writeCatalog(t, `{"festivals": "nope"}`))

	_, err := src.Load(context.Background())
	assert.ErrorIs(t, err, ErrCatalogInvalid)
}
