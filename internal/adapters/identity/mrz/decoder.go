// Package mrz reads the machine readable zone printed on the back of ID cards.
package mrz

import (
	"regexp"
	"strconv"
	"strings"

	"3tcapital/ms_kyc_core/internal/core/identity"
)

const minMRZLength = 20

var (
	sexLinePattern  = regexp.MustCompile(`^\d{7}[MF]\d{7}`)
	sexFieldPattern = regexp.MustCompile(`\d{6}\d([MF])`)
	namesPattern    = regexp.MustCompile(`^[A-Z]+<`)
)

// Fields holds the values recovered from an MRZ block. Nil means not recovered.
type Fields struct {
	IDNumber *string
	Surnames *string
	Names    *string
	Sex      *string
}

// Decoder decodes TD1 style MRZ blocks for one issuing country.
type Decoder struct {
	prefix    string
	male      string
	female    string
	idPattern *regexp.Regexp
	sexLine   bool
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithSexLine also accepts lines opening with birth date, sex and expiry
// ("0506225M3401169..."), which some cards print without filler runs.
func WithSexLine() Option {
	return func(d *Decoder) {
		d.sexLine = true
	}
}

// NewDecoder returns a decoder whose document line starts with prefix
// (e.g. "I<ECU") and ends with an idDigits long national number. male and
// female are the sex values written into decoded Fields. An empty prefix
// leaves only filler runs to mark a line.
func NewDecoder(prefix string, idDigits int, male, female string, opts ...Option) *Decoder {
	d := &Decoder{
		prefix:    prefix,
		male:      male,
		female:    female,
		idPattern: regexp.MustCompile(`(\d{` + strconv.Itoa(max(idDigits, 1)) + `})$`),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// IsCandidate reports whether line has the shape of an MRZ line for this
// country. Lines are matched as read.
func (d *Decoder) IsCandidate(line string) bool {
	if strings.Contains(line, "<<") && len(line) > minMRZLength {
		return true
	}
	if d.prefix != "" && strings.HasPrefix(line, d.prefix) {
		return true
	}
	return d.sexLine && sexLinePattern.MatchString(line)
}

// Candidates returns the MRZ-shaped lines in corpus order.
func (d *Decoder) Candidates(lines []string) []string {
	var out []string
	for _, line := range lines {
		if d.IsCandidate(line) {
			out = append(out, line)
		}
	}
	return out
}

// Join returns the candidate lines joined by newlines, or false when there are none.
func (d *Decoder) Join(lines []string) (string, bool) {
	candidates := d.Candidates(lines)
	if len(candidates) == 0 {
		return "", false
	}
	return strings.Join(candidates, "\n"), true
}

// Decode parses the MRZ block found in lines. It needs at least two candidate
// lines and returns whatever subset of fields it could recover.
func (d *Decoder) Decode(lines []string) (Fields, bool) {
	candidates := d.Candidates(lines)
	if len(candidates) < 2 {
		return Fields{}, false
	}

	var f Fields
	for _, line := range candidates {
		if d.prefix != "" && strings.HasPrefix(line, d.prefix) {
			if f.IDNumber == nil {
				if m := d.idPattern.FindStringSubmatch(line); m != nil {
					f.IDNumber = str(m[1])
				}
			}
			continue
		}
		if f.Sex == nil {
			if m := sexFieldPattern.FindStringSubmatch(line); m != nil {
				if m[1] == "M" {
					f.Sex = str(d.male)
				} else {
					f.Sex = str(d.female)
				}
				continue
			}
		}
		if f.Surnames == nil && namesPattern.MatchString(line) {
			surnames, names := splitNames(line)
			if surnames != "" {
				f.Surnames = str(surnames)
			}
			if names != "" {
				f.Names = str(names)
			}
		}
	}

	return f, f.IDNumber != nil || f.Surnames != nil || f.Names != nil || f.Sex != nil
}

// splitNames splits "LEMA<YAUCAN<<DIEGO<ARMANDO<<<" into surnames and names.
func splitNames(line string) (string, string) {
	parts := strings.SplitN(line, "<<", 2)
	surnames := fillerToSpace(parts[0])
	if len(parts) < 2 {
		return surnames, ""
	}
	return surnames, fillerToSpace(parts[1])
}

func fillerToSpace(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "<", " ")), " ")
}

func str(s string) *string {
	return &s
}

// Enrich fills the empty identity fields of front from f.
// Values already read from the printed side are never replaced.
func (f Fields) Enrich(front *identity.FrontFields) {
	if front == nil {
		return
	}
	if identity.IsEmpty(front.IDNumber) && f.IDNumber != nil {
		front.IDNumber = f.IDNumber
	}
	if identity.IsEmpty(front.Surnames) && f.Surnames != nil {
		front.Surnames = f.Surnames
	}
	if identity.IsEmpty(front.Names) && f.Names != nil {
		front.Names = f.Names
	}
	if identity.IsEmpty(front.Sex) && f.Sex != nil {
		front.Sex = f.Sex
	}
}
