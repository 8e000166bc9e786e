package validate

import "strings"

// nicknames holds common first-name equivalences, keyed both directions at
// init. A match here is a review signal for operators hunting duplicate
// runner identities, never an automatic merge.
var nicknames = map[string]string{
	"rob":    "robert",
	"bob":    "robert",
	"liz":    "elizabeth",
	"beth":   "elizabeth",
	"bill":   "william",
	"will":   "william",
	"jim":    "james",
	"jamie":  "james",
	"mike":   "michael",
	"dan":    "daniel",
	"danny":  "daniel",
	"dave":   "david",
	"chris":  "christopher",
	"kate":   "katherine",
	"katie":  "katherine",
	"kathy":  "katherine",
	"tom":    "thomas",
	"tony":   "anthony",
	"steve":  "steven",
	"rick":   "richard",
	"dick":   "richard",
	"ed":     "edward",
	"ted":    "edward",
	"andy":   "andrew",
	"drew":   "andrew",
	"joe":    "joseph",
	"nick":   "nicholas",
	"matt":   "matthew",
	"pat":    "patricia",
	"trish":  "patricia",
	"peggy":  "margaret",
	"maggie": "margaret",
	"sue":    "susan",
	"suzie":  "susan",
	"jen":    "jennifer",
	"jenny":  "jennifer",
	"greg":   "gregory",
	"sam":    "samuel",
	"ben":    "benjamin",
	"alex":   "alexander",
}

// SimilarNames reports whether two runner names plausibly belong to the
// same person: identical normalized full names, shared last name with one
// first name a prefix of the other, or a known nickname pair. False
// positives are possible and acceptable.
func SimilarNames(firstA, lastA, firstB, lastB string) bool {
	fa, la := normalizeName(firstA), normalizeName(lastA)
	fb, lb := normalizeName(firstB), normalizeName(lastB)

	if fa+la == fb+lb && fa+la != "" {
		return true
	}
	if la == "" || la != lb {
		return false
	}
	if fa != "" && fb != "" &&
		(strings.HasPrefix(fa, fb) || strings.HasPrefix(fb, fa)) {
		return true
	}
	return canonicalFirst(fa) == canonicalFirst(fb) && fa != ""
}

// normalizeName lowercases and strips everything but letters.
func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func canonicalFirst(name string) string {
	if full, ok := nicknames[name]; ok {
		return full
	}
	return name
}
