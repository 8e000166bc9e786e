// Package validate gates extracted records before any database write.
// Hard errors reject a record (usually a mis-mapped column: a clock time in
// the name field, a bib in the age field); soft warnings keep the record
// but flag it in the batch report.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"raceseries/internal/extract"
)

var (
	clockShapeRe = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?(\.\d+)?$`)
	allDigitsRe  = regexp.MustCompile(`^\d+$`)
	nameCharsRe  = regexp.MustCompile(`^[\p{L} .'\-]+$`)
)

// Finding is the outcome of checking one record.
type Finding struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

func (f *Finding) errorf(format string, args ...interface{}) {
	f.Errors = append(f.Errors, fmt.Sprintf(format, args...))
	f.Valid = false
}

func (f *Finding) warnf(format string, args ...interface{}) {
	f.Warnings = append(f.Warnings, fmt.Sprintf(format, args...))
}

// CheckRunner validates an extracted runner record.
func CheckRunner(r extract.ExtractedRunner) Finding {
	f := Finding{Valid: true}

	if r.Gender != "M" && r.Gender != "F" {
		f.errorf("missing or invalid gender %q", r.Gender)
	}
	if r.Age < 1 || r.Age > 120 {
		f.errorf("age %d out of range", r.Age)
	}
	checkNameField(&f, "first name", r.FirstName)
	checkNameField(&f, "last name", r.LastName)
	if strings.TrimSpace(r.LastName) == "" {
		f.errorf("empty last name")
	}

	if !allDigitsRe.MatchString(r.Bib) {
		f.warnf("non-numeric bib %q", r.Bib)
	}
	if len(r.Bib) > 6 {
		f.warnf("bib %q longer than 6 characters", r.Bib)
	}
	if club := strings.TrimSpace(r.Club); club != "" {
		if strings.Contains(club, ":") || club == "M" || club == "F" {
			f.warnf("club %q looks like a mis-mapped time or gender column", club)
		}
	}

	return f
}

func checkNameField(f *Finding, label, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if strings.Contains(name, ":") {
		f.errorf("%s %q contains a colon, likely a mis-mapped time column", label, name)
		return
	}
	if len(name) == 1 && (name == "M" || name == "F") {
		f.errorf("%s %q matches the gender enum, likely a mis-mapped gender column", label, name)
		return
	}
	if allDigitsRe.MatchString(name) {
		f.errorf("%s %q is all digits, likely a mis-mapped bib or age column", label, name)
		return
	}
	if len(name) < 2 {
		f.warnf("unusually short %s %q", label, name)
	}
	if !nameCharsRe.MatchString(name) {
		f.warnf("unusual characters in %s %q", label, name)
	}
}

// CheckResult validates an extracted result record.
func CheckResult(r extract.ExtractedResult) Finding {
	f := Finding{Valid: true}

	if r.Place <= 0 {
		f.errorf("missing or non-positive place %d", r.Place)
	}
	if r.GunTime == "" {
		f.errorf("missing gun time")
	} else if !validClock(r.GunTime) {
		f.errorf("malformed gun time %q", r.GunTime)
	}

	if r.GenderPlace > 0 && r.Place > 0 && r.GenderPlace > r.Place {
		f.warnf("gender place %d greater than overall place %d", r.GenderPlace, r.Place)
	}
	if r.AgeGroupPlace > 0 && r.Place > 0 && r.AgeGroupPlace > r.Place {
		f.warnf("age-group place %d greater than overall place %d", r.AgeGroupPlace, r.Place)
	}

	return f
}

// validClock checks the H{1,2}:MM(:SS)?(.frac)? shape with minute and
// second fields below 60.
func validClock(s string) bool {
	if !clockShapeRe.MatchString(s) {
		return false
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, ":")
	for _, p := range parts[1:] {
		n, err := strconv.Atoi(p)
		if err != nil || n > 59 {
			return false
		}
	}
	return true
}

// Rejected pairs a rejected record's bib with the reasons it was dropped.
type Rejected struct {
	Bib     string
	Reasons []string
}

// BatchReport summarizes a partitioned batch.
type BatchReport struct {
	Total    int
	Valid    int
	Invalid  int
	Warnings int
}

// Partition splits parallel runner/result lists into the valid pairs and
// the rejected ones with reasons. This is the gate in front of every
// database write: bad rows are reported, never silently dropped and never
// fatal.
func Partition(runners []extract.ExtractedRunner, results []extract.ExtractedResult) (
	[]extract.ExtractedRunner, []extract.ExtractedResult, []Rejected, BatchReport) {

	var validRunners []extract.ExtractedRunner
	var validResults []extract.ExtractedResult
	var rejected []Rejected
	report := BatchReport{Total: len(runners)}

	for i, runner := range runners {
		rf := CheckRunner(runner)
		sf := CheckResult(results[i])
		warnings := append(rf.Warnings, sf.Warnings...)
		report.Warnings += len(warnings)

		if rf.Valid && sf.Valid {
			validRunners = append(validRunners, runner)
			validResults = append(validResults, results[i])
			report.Valid++
			continue
		}

		reasons := append(rf.Errors, sf.Errors...)
		rejected = append(rejected, Rejected{Bib: runner.Bib, Reasons: reasons})
		report.Invalid++
		log.Warn().
			Str("bib", runner.Bib).
			Strs("reasons", reasons).
			Msg("Rejected extracted record")
	}

	return validRunners, validResults, rejected, report
}
