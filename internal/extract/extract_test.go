package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `
<html><head><title>results</title></head><body>
<h1>Riverside Spring 5K</h1>
<p>June 14, 2025   Springfield, MA</p>
<table>
<tr><th>Place</th><th>Num</th><th>Name</th><th>Age</th><th>Gender</th><th>Gun Time</th></tr>
<tr><td>1</td><td>101</td><td>Doe, Jane</td><td>30</td><td>F</td><td>16:30</td></tr>
<tr><td>2</td><td>102</td><td>John Smith</td><td>44</td><td>M</td><td>17:02</td></tr>
<tr><td>3</td><td>103</td><td>Roe, Ann</td><td></td><td>F</td><td>18:11</td></tr>
<tr><td>4</td><td>103</td><td>Roe, Ann</td><td></td><td>F</td><td>18:11</td></tr>
<tr><td></td><td>105</td><td>No Place</td><td>50</td><td>M</td><td>19:00</td></tr>
<tr><td>6</td><td>106</td><td>No Time</td><td>50</td><td>M</td><td></td></tr>
</table>
</body></html>`

func TestExtractResultsTable(t *testing.T) {
	race, err := Extract([]byte(resultsPage), "https://example.com/spring5k")
	require.NoError(t, err)

	assert.Equal(t, "Riverside Spring 5K", race.Name)
	assert.Equal(t, time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC), race.Date)
	assert.Equal(t, "Springfield, MA", race.Location)
	assert.True(t, race.MilesKnown)
	assert.InDelta(t, 3.1, race.Miles, 0.001)
	assert.Equal(t, "https://example.com/spring5k", race.SourceURL)

	// Duplicate bib 103 deduplicated; rows without place or time skipped.
	require.Len(t, race.Results, 3)
	require.Len(t, race.Runners, 3)

	jane := race.Runners[0]
	assert.Equal(t, "Jane", jane.FirstName)
	assert.Equal(t, "Doe", jane.LastName)
	assert.Equal(t, "F", jane.Gender)
	assert.Equal(t, 30, jane.Age)
	assert.False(t, jane.AgeAssumed)

	first := race.Results[0]
	assert.Equal(t, 1, first.Place)
	assert.Equal(t, "00:16:30", first.GunTime)
	assert.Equal(t, "101", first.Bib)

	// "First Last" order detected by the absence of a comma.
	assert.Equal(t, "John", race.Runners[1].FirstName)
	assert.Equal(t, "Smith", race.Runners[1].LastName)

	// Missing age falls back to the policy default and is flagged.
	assert.Equal(t, FallbackAge, race.Runners[2].Age)
	assert.True(t, race.Runners[2].AgeAssumed)
}

func TestExtractPrefersHintedTable(t *testing.T) {
	page := `<html><body><h1>Harvest 10K</h1>
<table><tr><th>Sponsor</th></tr><tr><td>Acme</td><td>Shoes</td><td>Inc</td></tr></table>
<table>
<tr><th>Pl</th><th>Bib</th><th>Name</th><th>Time</th></tr>
<tr><td>1</td><td>7</td><td>Doe, Jane</td><td>41:20</td></tr>
</table></body></html>`

	race, err := Extract([]byte(page), "u")
	require.NoError(t, err)
	require.Len(t, race.Results, 1)
	assert.Equal(t, "00:41:20", race.Results[0].GunTime)
	assert.InDelta(t, 6.2, race.Miles, 0.001)
}

func TestExtractNoTable(t *testing.T) {
	race, err := Extract([]byte("<html><body><h1>Turkey Trot</h1><pre>1 Jane Doe 16:30</pre></body></html>"), "u")
	require.NoError(t, err)
	assert.Empty(t, race.Results)
	assert.Equal(t, "Turkey Trot", race.Name)
}

func TestExtractGenTotColumns(t *testing.T) {
	page := `<html><body><h1>Bay Half Marathon</h1><table>
<tr><th>Place</th><th>Num</th><th>Name</th><th>Gen/Tot</th><th>Div/Tot</th><th>Gun Time</th></tr>
<tr><td>5</td><td>11</td><td>Doe, Jane</td><td>2/40</td><td>1/12</td><td>1:31:05</td></tr>
</table></body></html>`

	race, err := Extract([]byte(page), "u")
	require.NoError(t, err)
	require.Len(t, race.Results, 1)
	assert.Equal(t, 2, race.Results[0].GenderPlace)
	assert.Equal(t, 1, race.Results[0].AgeGroupPlace)
	assert.InDelta(t, 13.1, race.Miles, 0.001)
}

func TestInferDistance(t *testing.T) {
	tests := []struct {
		name  string
		miles float64
		known bool
	}{
		{"City Half Marathon", 13.1, true},
		{"City Marathon", 26.2, true},
		{"Harvest 10K", 6.2, true},
		{"Freaky 5k Fun Run", 3.1, true},
		{"River 15K Classic", 9.3, true},
		{"Main Street Mile", 1.0, true},
		{"4 Mile Challenge", 4.0, true},
		{"8k Frostbite", 4.971, true},
		{"Spring Four Miler", 0, false},
		{"Turkey Trot", 0, false},
	}
	for _, tt := range tests {
		miles, known := inferDistance(tt.name)
		assert.Equal(t, tt.known, known, tt.name)
		if tt.known {
			assert.InDelta(t, tt.miles, miles, 0.01, tt.name)
		}
	}
}

func TestParseDateLocationFallbacks(t *testing.T) {
	now := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)

	date, loc := parseDateLocation("results posted 11/02/2024 by the club", now)
	assert.Equal(t, time.Date(2024, time.November, 2, 0, 0, 0, 0, time.UTC), date)
	assert.Empty(t, loc)

	date, _ = parseDateLocation("updated 2024-06-01", now)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), date)

	date, _ = parseDateLocation("no date anywhere", now)
	assert.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), date)
}

func TestParseName(t *testing.T) {
	first, last := parseName("Doe, Jane", "", "")
	assert.Equal(t, "Jane", first)
	assert.Equal(t, "Doe", last)

	first, last = parseName("Jane van Doe", "", "")
	assert.Equal(t, "Jane", first)
	assert.Equal(t, "van Doe", last)

	first, last = parseName("", "Jane", "Doe")
	assert.Equal(t, "Jane", first)
	assert.Equal(t, "Doe", last)
}

func TestRankNumerator(t *testing.T) {
	assert.Equal(t, 12, rankNumerator("12/87"))
	assert.Equal(t, 3, rankNumerator("3"))
	assert.Equal(t, 0, rankNumerator(""))
	assert.Equal(t, 0, rankNumerator("n/a"))
}
