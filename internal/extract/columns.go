package extract

import "strings"

// Semantic fields a result-table column can map to.
type field int

const (
	fieldNone field = iota
	fieldPlace
	fieldBib
	fieldName
	fieldFirstName
	fieldLastName
	fieldAge
	fieldGender
	fieldGenderPlace
	fieldAgeGroupPlace
	fieldGunTime
	fieldChipTime
	fieldPace
	fieldClub
)

// colRule maps header keywords to a semantic field. Rules are evaluated
// top to bottom per header cell and the first hit wins, so the more
// specific keywords ("chip time", "gen/tot") sit above the generic ones
// ("time", "gender"). New source formats are handled by appending rows.
type colRule struct {
	keywords []string
	field    field
}

var colRules = []colRule{
	{[]string{"gen/tot", "gender place", "sex pl"}, fieldGenderPlace},
	{[]string{"div/tot", "div pl", "age group", "ag pl"}, fieldAgeGroupPlace},
	{[]string{"first"}, fieldFirstName},
	{[]string{"last"}, fieldLastName},
	{[]string{"name"}, fieldName},
	{[]string{"age"}, fieldAge},
	{[]string{"gender", "sex", "m/f", "gen"}, fieldGender},
	{[]string{"bib", "num", "no."}, fieldBib},
	{[]string{"chip", "net"}, fieldChipTime},
	{[]string{"pace"}, fieldPace},
	{[]string{"gun", "time", "finish"}, fieldGunTime},
	{[]string{"club", "team"}, fieldClub},
	{[]string{"place", "pos", "pl"}, fieldPlace},
}

// mapHeader builds the field → column-index map from a header row.
// Unrecognized headers are ignored; a field claimed twice keeps its first
// column.
func mapHeader(cells []string) map[field]int {
	cols := make(map[field]int, len(cells))
	for i, cell := range cells {
		f := matchHeader(cell)
		if f == fieldNone {
			continue
		}
		if _, taken := cols[f]; !taken {
			cols[f] = i
		}
	}
	return cols
}

func matchHeader(cell string) field {
	h := strings.ToLower(strings.TrimSpace(cell))
	if h == "" {
		return fieldNone
	}
	for _, rule := range colRules {
		for _, kw := range rule.keywords {
			if strings.Contains(h, kw) {
				return rule.field
			}
		}
	}
	return fieldNone
}
