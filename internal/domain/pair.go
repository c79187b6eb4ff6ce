package domain

import (
	"regexp"
	"strings"
)

// Pair is the canonical "<QUOTE>_<BASE>" key of one exchange rate,
// always in the direction it was fetched (quote currency priced in base).
type Pair string

// PairSeparator joins the two currency codes of a pair key.
const PairSeparator = "_"

var pairRe = regexp.MustCompile(`^[A-Z0-9]{2,5}_[A-Z0-9]{2,5}$`)

// MakePair builds the canonical pair key for from priced in to.
func MakePair(from, to string) Pair {
	return Pair(strings.ToUpper(from) + PairSeparator + strings.ToUpper(to))
}

// SplitPair returns the two currency codes of a canonical pair key.
func SplitPair(p Pair) (from, to string, ok bool) {
	from, to, ok = strings.Cut(string(p), PairSeparator)
	if !ok || from == "" || to == "" {
		return "", "", false
	}
	return strings.ToUpper(from), strings.ToUpper(to), true
}

// ValidPair reports whether p is a well-formed canonical pair key.
func ValidPair(p Pair) bool {
	return pairRe.MatchString(string(p))
}
