package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raceseries/internal/extract"
)

func goodRunner() extract.ExtractedRunner {
	return extract.ExtractedRunner{
		Bib: "101", FirstName: "Jane", LastName: "Doe", Gender: "F", Age: 30,
	}
}

func goodResult() extract.ExtractedResult {
	return extract.ExtractedResult{Bib: "101", Place: 1, GunTime: "00:16:30"}
}

func TestCheckRunnerHardErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*extract.ExtractedRunner)
	}{
		{"time in first name", func(r *extract.ExtractedRunner) { r.FirstName = "16:30" }},
		{"gender marker as name", func(r *extract.ExtractedRunner) { r.FirstName = "F" }},
		{"all-numeric name", func(r *extract.ExtractedRunner) { r.LastName = "1234" }},
		{"empty last name", func(r *extract.ExtractedRunner) { r.LastName = " " }},
		{"invalid gender", func(r *extract.ExtractedRunner) { r.Gender = "X" }},
		{"age too high", func(r *extract.ExtractedRunner) { r.Age = 150 }},
		{"age too low", func(r *extract.ExtractedRunner) { r.Age = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := goodRunner()
			tt.mutate(&r)
			f := CheckRunner(r)
			assert.False(t, f.Valid)
			assert.NotEmpty(t, f.Errors)
		})
	}
}

func TestCheckRunnerSoftWarnings(t *testing.T) {
	r := goodRunner()
	r.Bib = "ABCDEFG"
	f := CheckRunner(r)
	assert.True(t, f.Valid, "warnings must not reject the record")
	assert.Len(t, f.Warnings, 2, "non-numeric and over-long bib")

	r = goodRunner()
	r.Club = "18:30"
	f = CheckRunner(r)
	assert.True(t, f.Valid)
	assert.NotEmpty(t, f.Warnings)
}

func TestCheckResult(t *testing.T) {
	f := CheckResult(goodResult())
	assert.True(t, f.Valid)
	assert.Empty(t, f.Warnings)

	bad := goodResult()
	bad.Place = 0
	assert.False(t, CheckResult(bad).Valid)

	bad = goodResult()
	bad.GunTime = "16:75"
	assert.False(t, CheckResult(bad).Valid, "seconds above 59 are malformed")

	bad = goodResult()
	bad.GunTime = ""
	assert.False(t, CheckResult(bad).Valid)

	warned := goodResult()
	warned.Place = 2
	warned.GenderPlace = 5
	f = CheckResult(warned)
	assert.True(t, f.Valid)
	assert.NotEmpty(t, f.Warnings, "category rank above overall place is suspicious")
}

func TestValidClock(t *testing.T) {
	assert.True(t, validClock("16:30"))
	assert.True(t, validClock("1:05:09"))
	assert.True(t, validClock("4:29.4"))
	assert.False(t, validClock("99:99"))
	assert.False(t, validClock("1:2:3"))
	assert.False(t, validClock("abc"))
}

func TestPartition(t *testing.T) {
	runners := []extract.ExtractedRunner{
		goodRunner(),
		{Bib: "102", FirstName: "16:30", LastName: "Doe", Gender: "M", Age: 40},
		{Bib: "ABCDEF", FirstName: "Ann", LastName: "Roe", Gender: "F", Age: 52},
	}
	results := []extract.ExtractedResult{
		goodResult(),
		{Bib: "102", Place: 2, GunTime: "00:17:00"},
		{Bib: "ABCDEF", Place: 3, GunTime: "00:18:00"},
	}

	vr, vs, rejected, report := Partition(runners, results)
	require.Len(t, vr, 2)
	require.Len(t, vs, 2)
	require.Len(t, rejected, 1)
	assert.Equal(t, "102", rejected[0].Bib)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Valid)
	assert.Equal(t, 1, report.Invalid)
	assert.GreaterOrEqual(t, report.Warnings, 1, "non-numeric bib warns but passes")
}

func TestSimilarNames(t *testing.T) {
	assert.True(t, SimilarNames("Jane", "Doe", "jane", "DOE"))
	assert.True(t, SimilarNames("Rob", "Smith", "Robert", "Smith"), "nickname table")
	assert.True(t, SimilarNames("Liz", "Jones", "Elizabeth", "Jones"))
	assert.True(t, SimilarNames("Dan", "Brown", "Danny", "Brown"), "prefix match")
	assert.False(t, SimilarNames("Jane", "Doe", "Jane", "Smith"), "different last name")
	assert.False(t, SimilarNames("Mark", "Doe", "Mike", "Doe"))
	assert.False(t, SimilarNames("", "", "", ""))
}
