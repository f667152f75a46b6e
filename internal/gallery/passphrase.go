package gallery

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// defaultPhoneticThreshold is the minimum Jaro-Winkler score a raw token must
// reach against a literal before the phonetic fallback accepts it.
const defaultPhoneticThreshold = 0.88

// MatcherOption is a functional option for configuring a [Matcher].
type MatcherOption func(*Matcher)

// WithPhoneticFallback enables phonetic matching of alphabetic literals for
// transcription near-misses ("ripely" for "ripley"). threshold is the minimum
// Jaro-Winkler score; values ≤ 0 select the default of 0.88.
//
// The fallback only ever widens acceptance — the exact normalization rules
// remain authoritative and are always checked first.
func WithPhoneticFallback(threshold float64) MatcherOption {
	return func(m *Matcher) {
		m.phonetic = true
		if threshold > 0 {
			m.phoneticThreshold = threshold
		}
	}
}

// Matcher decides whether a free-form spoken transcription matches an access
// phrase. It is pure and safe for concurrent use — a Matcher is read-only
// after construction.
type Matcher struct {
	phonetic          bool
	phoneticThreshold float64
}

// NewMatcher returns a [Matcher] configured with the supplied options.
// Without options the matcher applies only the exact normalization rules.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{phoneticThreshold: defaultPhoneticThreshold}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Normalize lower-cases raw and removes commas, hyphens, periods, and all
// whitespace, producing a single contiguous token string.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		switch {
		case r == ',' || r == '-' || r == '.':
			continue
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Matches reports whether raw matches the access phrase described by
// literals and orderedTokens.
//
// Acceptance rules, applied to the normalized phrase:
//
//  1. The phrase contains any of the literals as a substring.
//  2. All orderedTokens appear as substrings and their first-occurrence
//     positions are strictly increasing left to right. This tolerates
//     transcription noise such as spelled-out digits.
//
// When the phonetic fallback is enabled, a third pass compares each word of
// the raw phrase against each alphabetic literal by Jaro-Winkler similarity
// gated on Double Metaphone overlap.
func (m *Matcher) Matches(raw string, literals []string, orderedTokens []string) bool {
	norm := Normalize(raw)
	if norm == "" {
		return false
	}

	for _, lit := range literals {
		nl := Normalize(lit)
		if nl != "" && strings.Contains(norm, nl) {
			return true
		}
	}

	if matchesOrdered(norm, orderedTokens) {
		return true
	}

	if m.phonetic {
		return m.matchesPhonetic(raw, literals)
	}
	return false
}

// matchesOrdered checks the ordered-token rule against the normalized phrase.
func matchesOrdered(norm string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	last := -1
	for _, tok := range tokens {
		nt := Normalize(tok)
		if nt == "" {
			return false
		}
		pos := strings.Index(norm, nt)
		if pos < 0 || pos <= last {
			return false
		}
		last = pos
	}
	return true
}

// matchesPhonetic compares each whitespace-separated word of the raw phrase
// against each alphabetic literal. A word matches when its Double Metaphone
// codes overlap the literal's and the Jaro-Winkler score clears the threshold.
func (m *Matcher) matchesPhonetic(raw string, literals []string) bool {
	words := strings.Fields(strings.ToLower(raw))
	for _, lit := range literals {
		nl := Normalize(lit)
		if nl == "" || !isAlphabetic(nl) {
			continue
		}
		lp, ls := matchr.DoubleMetaphone(nl)
		for _, w := range words {
			w = Normalize(w)
			if w == "" {
				continue
			}
			wp, ws := matchr.DoubleMetaphone(w)
			if !codesOverlap(lp, ls, wp, ws) {
				continue
			}
			if matchr.JaroWinkler(w, nl, false) >= m.phoneticThreshold {
				return true
			}
		}
	}
	return false
}

// codesOverlap reports whether the two Double Metaphone code pairs share a
// non-empty code.
func codesOverlap(a1, a2, b1, b2 string) bool {
	for _, a := range [...]string{a1, a2} {
		if a == "" {
			continue
		}
		if a == b1 || (b2 != "" && a == b2) {
			return true
		}
	}
	return false
}

// isAlphabetic reports whether s consists solely of ASCII letters.
func isAlphabetic(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) > 0
}
