// Package extract turns fetched race-result pages into structured race,
// runner and result records. Result pages are externally controlled and
// wildly inconsistent, so everything here is heuristic: partial extraction
// is always preferred over total failure.
package extract

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"raceseries/internal/raceclock"
)

// FallbackAge is substituted when a row has no parseable age. It exists to
// satisfy the non-null age requirement downstream; rows carrying it are
// flagged via AgeAssumed so it is never mistaken for an observed age.
const FallbackAge = 35

// ExtractedRunner is a runner row as read off the page, before validation.
type ExtractedRunner struct {
	Bib        string
	FirstName  string
	LastName   string
	Gender     string
	Age        int
	AgeAssumed bool
	Club       string
}

// ExtractedResult is a result row as read off the page, paired with its
// runner by index and bib.
type ExtractedResult struct {
	Bib           string
	Place         int
	GenderPlace   int // 0 when the column is absent
	AgeGroupPlace int // 0 when the column is absent
	GunTime       string
	ChipTime      string
	Pace          string
}

// ExtractedRace carries race metadata plus parallel runner/result lists,
// deduplicated by bib within the document.
type ExtractedRace struct {
	Name       string
	Date       time.Time
	Miles      float64
	MilesKnown bool
	Location   string
	SourceURL  string
	Runners    []ExtractedRunner
	Results    []ExtractedResult
}

// Extract parses a fetched result document. A page without a recognizable
// results table yields zero results, not an error: the caller decides
// whether that counts as a failure.
func Extract(doc []byte, sourceURL string) (*ExtractedRace, error) {
	page, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}

	race := &ExtractedRace{SourceURL: sourceURL}
	race.Name = pageHeading(page)
	race.Date, race.Location = parseDateLocation(page.Text(), time.Now())
	race.Miles, race.MilesKnown = inferDistance(race.Name)

	table := findResultsTable(page)
	if table == nil {
		log.Warn().
			Str("url", sourceURL).
			Str("race", race.Name).
			Msg("No results table found, page likely needs a new extraction rule")
		return race, nil
	}

	rows := table.Find("tr")
	if rows.Length() < 2 {
		return race, nil
	}

	cols := mapHeader(cellTexts(rows.First()))
	seen := make(map[string]bool)
	skipped := 0

	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		cells := cellTexts(row)
		if len(cells) < 3 {
			return
		}
		runner, result, ok := parseRow(cells, cols)
		if !ok {
			skipped++
			return
		}
		if seen[result.Bib] {
			return
		}
		seen[result.Bib] = true
		race.Runners = append(race.Runners, runner)
		race.Results = append(race.Results, result)
	})

	log.Debug().
		Str("race", race.Name).
		Int("rows", len(race.Results)).
		Int("skipped", skipped).
		Msg("Extracted results table")

	return race, nil
}

// pageHeading returns the document's primary heading, falling back to the
// title.
func pageHeading(page *goquery.Document) string {
	for _, sel := range []string{"h1", "h2", "title"} {
		if text := strings.TrimSpace(page.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// findResultsTable prefers a table whose content hints at results over the
// page's first table. Nil means the page uses a non-tabular layout.
func findResultsTable(page *goquery.Document) *goquery.Selection {
	tables := page.Find("table")
	if tables.Length() == 0 {
		return nil
	}

	var hinted *goquery.Selection
	tables.EachWithBreak(func(_ int, t *goquery.Selection) bool {
		text := strings.ToLower(t.Text())
		hints := 0
		for _, kw := range []string{"place", "time", "bib"} {
			if strings.Contains(text, kw) {
				hints++
			}
		}
		if hints >= 2 {
			hinted = t
			return false
		}
		return true
	})
	if hinted != nil {
		return hinted
	}
	return tables.First()
}

func cellTexts(row *goquery.Selection) []string {
	var cells []string
	row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(cell.Text()))
	})
	return cells
}

// parseRow maps one data row through the header map. Rows missing a place
// or a gun time are skipped (ok=false); everything else degrades to
// defaults instead of failing.
func parseRow(cells []string, cols map[field]int) (ExtractedRunner, ExtractedResult, bool) {
	var runner ExtractedRunner
	var result ExtractedResult

	place := rankNumerator(cellAt(cells, cols, fieldPlace))
	if place <= 0 {
		return runner, result, false
	}
	result.Place = place

	gun := raceclock.Normalize(cellAt(cells, cols, fieldGunTime))
	if gun == raceclock.Zero {
		return runner, result, false
	}
	result.GunTime = gun

	bib := cellAt(cells, cols, fieldBib)
	if bib == "" {
		// No bib column: fall back to the place number so in-document
		// dedup and registration keying still have a stable key.
		bib = strconv.Itoa(place)
	}
	result.Bib = bib
	runner.Bib = bib

	runner.FirstName, runner.LastName = parseName(
		cellAt(cells, cols, fieldName),
		cellAt(cells, cols, fieldFirstName),
		cellAt(cells, cols, fieldLastName),
	)
	runner.Gender = normalizeGender(cellAt(cells, cols, fieldGender))
	runner.Club = cellAt(cells, cols, fieldClub)

	if age, err := strconv.Atoi(cellAt(cells, cols, fieldAge)); err == nil && age > 0 {
		runner.Age = age
	} else {
		runner.Age = FallbackAge
		runner.AgeAssumed = true
	}

	result.GenderPlace = rankNumerator(cellAt(cells, cols, fieldGenderPlace))
	result.AgeGroupPlace = rankNumerator(cellAt(cells, cols, fieldAgeGroupPlace))
	if chip := cellAt(cells, cols, fieldChipTime); chip != "" {
		result.ChipTime = raceclock.Normalize(chip)
	}
	result.Pace = cellAt(cells, cols, fieldPace)

	return runner, result, true
}

func cellAt(cells []string, cols map[field]int, f field) string {
	idx, ok := cols[f]
	if !ok || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

// rankNumerator parses "12" or the "12/87" gen-tot format, keeping only
// the numerator. Zero means absent or unparseable.
func rankNumerator(s string) int {
	if s == "" {
		return 0
	}
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// parseName handles dedicated first/last columns, "Last, First" and
// "First Last" single-column forms.
func parseName(full, first, last string) (string, string) {
	if first != "" || last != "" {
		return first, last
	}
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	if i := strings.IndexByte(full, ','); i >= 0 {
		return strings.TrimSpace(full[i+1:]), strings.TrimSpace(full[:i])
	}
	parts := strings.Fields(full)
	if len(parts) == 1 {
		return "", parts[0]
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func normalizeGender(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	switch s[0] {
	case 'M':
		return "M"
	case 'F', 'W':
		return "F"
	}
	return ""
}
