// Package textscan provides the label-anchored search primitives and pattern
// matchers used to read identity fields out of OCR line corpora.
//
// Every search is deterministic and first-match-wins: lines are scanned top to
// bottom, and when a label occurrence yields nothing the scan moves on to the
// next occurrence. Labels are matched on an uppercased, NFC-composed copy of
// each line while returned values keep the original casing and diacritics.
package textscan

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the matching form of a line: trimmed, NFC-composed and uppercased.
func Normalize(line string) string {
	// A Caser keeps state, so each call builds its own.
	return cases.Upper(language.Und).String(norm.NFC.String(strings.TrimSpace(line)))
}

// Labels is a set of label aliases. A line matches when it contains any alias
// (or every token for All), and none of the excluded tokens.
type Labels struct {
	any    []string
	all    []string
	except []string
}

// Any matches lines containing at least one of the aliases.
func Any(aliases ...string) Labels {
	return Labels{any: normalizeAll(aliases)}
}

// All matches lines containing every one of the tokens.
func All(tokens ...string) Labels {
	return Labels{all: normalizeAll(tokens)}
}

// Except returns a copy of l that rejects lines containing any of tokens.
func (l Labels) Except(tokens ...string) Labels {
	except := make([]string, 0, len(l.except)+len(tokens))
	except = append(except, l.except...)
	except = append(except, normalizeAll(tokens)...)
	l.except = except
	return l
}

// Matches reports whether line carries one of the labels.
func (l Labels) Matches(line string) bool {
	return l.matchesNormalized(Normalize(line))
}

func (l Labels) matchesNormalized(upper string) bool {
	if len(l.any) == 0 && len(l.all) == 0 {
		return false
	}
	for _, token := range l.except {
		if strings.Contains(upper, token) {
			return false
		}
	}
	for _, token := range l.all {
		if !strings.Contains(upper, token) {
			return false
		}
	}
	if len(l.any) == 0 {
		return true
	}
	for _, alias := range l.any {
		if strings.Contains(upper, alias) {
			return true
		}
	}
	return false
}

// Equals reports whether the normalized line is exactly one of words.
func Equals(line string, words ...string) bool {
	upper := Normalize(line)
	for _, w := range words {
		if upper == Normalize(w) {
			return true
		}
	}
	return false
}

var nameLinePattern = regexp.MustCompile(`^[A-ZÁÉÍÓÚÑ\s]+$`)

// IsNameLine reports whether line looks like an uppercase personal name.
func IsNameLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return utf8.RuneCountInString(trimmed) > 1 && nameLinePattern.MatchString(trimmed)
}

// HasDigit reports whether line contains a decimal digit.
func HasDigit(line string) bool {
	return strings.IndexFunc(line, unicode.IsDigit) >= 0
}

func normalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := Normalize(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}
