package textscan

import (
	"regexp"
	"strings"
)

// Matcher extracts a value of a fixed shape from a single line.
type Matcher func(line string) (string, bool)

var (
	nuiPattern            = regexp.MustCompile(`(?i)NUI[.\s]*(\d{10})`)
	documentNumberPattern = regexp.MustCompile(`\b(\d{9,10})\b`)
	tenDigitPattern       = regexp.MustCompile(`\b(\d{10})\b`)
	groupedIDPattern      = regexp.MustCompile(`\d{1,3}[.,]\d{3}[.,]\d{3}(?:[.,]\d{3})?`)
	rawIDPattern          = regexp.MustCompile(`\b\d{8,10}\b`)

	spanishDatePattern = regexp.MustCompile(`(?i)\b(\d{1,2}\s+[A-Z]{3}\s+\d{4})\b`)
	numericDatePattern = regexp.MustCompile(`\b\d{2}[/-]\d{2}[/-]\d{4}\b|\b\d{4}\b`)

	bloodTypePattern           = regexp.MustCompile(`(?i)\b(?:AB|O|A|B)\s*[+-]|N/R\b`)
	strictBloodTypePattern     = regexp.MustCompile(`(?i)^(?:AB|O|A|B)\s*[+-]$`)
	standaloneBloodTypePattern = regexp.MustCompile(`(?:^|\s)((?:AB|O|A|B)[+-])(?:\s|$)`)

	fingerprintPattern   = regexp.MustCompile(`\b([A-Z]\d{4}[A-Z]?\d{4,5})\b`)
	voterKeyPattern      = regexp.MustCompile(`[A-Z]{6}\d{8}[A-Z]\d{3}`)
	voterKeyLoosePattern = regexp.MustCompile(`[A-Z]{4,6}\d{6,14}[A-Z0-9]*`)
	curpPattern          = regexp.MustCompile(`[A-Z]{4}\d{6}[HM][A-Z]{2}[A-Z]{3}[A-Z0-9]\d`)
	licensePattern       = regexp.MustCompile(`[A-Z]\d{7,8}`)
)

// EcuadorNUI matches the ten-digit NUI printed after its "NUI" caption.
func EcuadorNUI(line string) (string, bool) {
	return submatch(nuiPattern, line, 1)
}

// DocumentNumber matches a standalone nine or ten digit number.
func DocumentNumber(line string) (string, bool) {
	return submatch(documentNumberPattern, line, 1)
}

// TenDigitID matches a standalone ten digit number.
func TenDigitID(line string) (string, bool) {
	return submatch(tenDigitPattern, line, 1)
}

// ColombianID matches a cédula number either grouped with dots or commas,
// returned without the separators, or as a bare run of eight to ten digits.
func ColombianID(line string) (string, bool) {
	if m := groupedIDPattern.FindString(line); m != "" {
		return strings.NewReplacer(".", "", ",", "").Replace(m), true
	}
	return submatch(rawIDPattern, line, 0)
}

// SpanishDate matches dates such as "22 JUN 2005".
func SpanishDate(line string) (string, bool) {
	return submatch(spanishDatePattern, line, 1)
}

// NumericDate matches DD/MM/YYYY or DD-MM-YYYY dates, falling back to a bare year.
func NumericDate(line string) (string, bool) {
	return submatch(numericDatePattern, line, 0)
}

// BloodType matches an ABO group with its Rh sign, or the "N/R" marker.
func BloodType(line string) (string, bool) {
	return submatch(bloodTypePattern, line, 0)
}

// StrictBloodType matches a line that holds nothing but a blood type.
func StrictBloodType(line string) (string, bool) {
	return submatch(strictBloodTypePattern, strings.TrimSpace(line), 0)
}

// StandaloneBloodType matches a blood type written as its own token, such as "O+".
func StandaloneBloodType(line string) (string, bool) {
	return submatch(standaloneBloodTypePattern, line, 1)
}

// FingerprintCode matches the Ecuadorian dactylar code, e.g. "E334412244" or "A1131A1121".
func FingerprintCode(line string) (string, bool) {
	return submatch(fingerprintPattern, line, 1)
}

// VoterKey matches a Mexican clave de elector, preferring the canonical 18 character form.
func VoterKey(line string) (string, bool) {
	if v, ok := submatch(voterKeyPattern, line, 0); ok {
		return v, true
	}
	return submatch(voterKeyLoosePattern, line, 0)
}

// CURP matches a Mexican population registry key.
func CURP(line string) (string, bool) {
	return submatch(curpPattern, line, 0)
}

// LicenseNumber matches a US driver license number: one letter and seven or eight digits.
func LicenseNumber(line string) (string, bool) {
	return submatch(licensePattern, line, 0)
}

func submatch(re *regexp.Regexp, line string, group int) (string, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil || group >= len(m) {
		return "", false
	}
	v := strings.TrimSpace(m[group])
	if v == "" {
		return "", false
	}
	return v, true
}
