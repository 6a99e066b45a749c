package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"athens-property-lab/internal/domain"
)

func TestDecodeRawArray(t *testing.T) {
	input := `[
		{"url": "https://www.spitogatos.gr/en/property/1", "price": "€95,000", "sqm": "91 τ.μ.", "energy_class": "D", "neighborhood": "Exarchia", "rooms": 3, "floor": "2"},
		{"url": "https://www.spitogatos.gr/en/property/2", "price": 120000, "size": 75.5}
	]`

	raws, err := DecodeRaw(strings.NewReader(input), domain.SourceFile, 1700000000000)
	require.NoError(t, err)
	require.Len(t, raws, 2)

	assert.Equal(t, "https://www.spitogatos.gr/en/property/1", raws[0].URL)
	assert.Equal(t, "€95,000", raws[0].Price)
	assert.Equal(t, "91 τ.μ.", raws[0].Size)
	assert.Equal(t, "D", raws[0].EnergyClass)
	assert.Equal(t, "3", raws[0].Rooms)
	assert.Equal(t, "2", raws[0].Floor)
	assert.Equal(t, domain.SourceFile, raws[0].Source)
	assert.Equal(t, int64(1700000000000), raws[0].CollectedAt)

	// JSON numbers are carried as their literal text.
	assert.Equal(t, "120000", raws[1].Price)
	assert.Equal(t, "75.5", raws[1].Size)
}

func TestDecodeRawNDJSON(t *testing.T) {
	input := `{"url": "https://www.spitogatos.gr/en/property/1", "price": "€95,000", "sqm": "91"}
{"url": "https://www.spitogatos.gr/en/property/2", "price": "€120,000", "sqm": "75"}
{"url": "https://www.spitogatos.gr/en/property/3", "price": "€80,000", "sqm": "60"}
`

	raws, err := DecodeRaw(strings.NewReader(input), domain.SourceFile, 1)
	require.NoError(t, err)
	require.Len(t, raws, 3)
	assert.Equal(t, "https://www.spitogatos.gr/en/property/3", raws[2].URL)
	assert.Equal(t, "€80,000", raws[2].Price)
}

func TestDecodeRawEmptyInput(t *testing.T) {
	raws, err := DecodeRaw(strings.NewReader(""), domain.SourceFile, 1)
	require.NoError(t, err)
	assert.Empty(t, raws)
}

func TestDecodeRawRejectsScalarTopLevel(t *testing.T) {
	_, err := DecodeRaw(strings.NewReader(`42`), domain.SourceFile, 1)
	assert.Error(t, err)
}

func TestDecodeRawRecord(t *testing.T) {
	raw, err := DecodeRawRecord([]byte(`{"url": "https://x.gr/p/9", "price": "€50,000", "sqm": "40", "rooms": null}`), domain.SourceFeed, 7)
	require.NoError(t, err)
	assert.Equal(t, "https://x.gr/p/9", raw.URL)
	assert.Equal(t, "", raw.Rooms)
	assert.Equal(t, domain.SourceFeed, raw.Source)

	_, err = DecodeRawRecord([]byte(`not json`), domain.SourceFeed, 7)
	assert.Error(t, err)
}
