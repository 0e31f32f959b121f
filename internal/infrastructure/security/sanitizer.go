// Package security masks credentials and personal data before they reach logs.
package security

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode"
)

// Sensitive header names that should be redacted.
var sensitiveHeaders = map[string]bool{
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"proxy-authorization": true,
}

// Credential field names in JSON bodies and query strings.
var sensitiveFields = []string{
	"password",
	"secret",
	"token",
	"authorization",
	"api_key",
	"apikey",
	"client_secret",
	"private_key",
	"credential",
}

// Personal data fields of extraction results and KYC documents.
var personalFields = map[string]bool{
	"id_number":        true,
	"surnames":         true,
	"names":            true,
	"birth_date":       true,
	"birth_place":      true,
	"spouse":           true,
	"father_name":      true,
	"mother_name":      true,
	"fingerprint_code": true,
	"mrz":              true,
	"documentnumber":   true,
	"fullname":         true,
	"firstname":        true,
	"lastname":         true,
	"dateofbirth":      true,
	"rawextractedtext": true,
	"text":             true,
}

const (
	redactedValue = "[REDACTED]"
	mrzValue      = "[MRZ]"
	maskRune      = '*'

	// Digit runs shorter than this are left readable (days, months, heights).
	minMaskedDigits = 4
	visibleDigits   = 2
)

// SanitizeHeaders removes sensitive headers from an HTTP header map.
// Returns a new map with sensitive values redacted.
func SanitizeHeaders(headers http.Header) map[string]string {
	sanitized := make(map[string]string, len(headers))
	for key, values := range headers {
		if sensitiveHeaders[strings.ToLower(key)] {
			sanitized[key] = redactedValue
			continue
		}
		sanitized[key] = strings.Join(values, ", ")
	}
	return sanitized
}

// MaskLine hides identifying numbers in an OCR line. Digit runs of four or
// more keep only their last two digits and MRZ lines are replaced whole.
func MaskLine(line string) string {
	if strings.Contains(line, "<<") {
		return mrzValue
	}

	runes := []rune(line)
	for start := 0; start < len(runes); {
		if !unicode.IsDigit(runes[start]) {
			start++
			continue
		}
		end := start
		for end < len(runes) && unicode.IsDigit(runes[end]) {
			end++
		}
		if end-start >= minMaskedDigits {
			for i := start; i < end-visibleDigits; i++ {
				runes[i] = maskRune
			}
		}
		start = end
	}
	return string(runes)
}

// MaskLines applies MaskLine to every line.
func MaskLines(lines []string) []string {
	masked := make([]string, len(lines))
	for i, line := range lines {
		masked[i] = MaskLine(line)
	}
	return masked
}

// SanitizeBody redacts credentials and personal data from a JSON body.
// Bodies over maxSize are replaced by a size summary; non-JSON bodies are
// reported by size only.
func SanitizeBody(body []byte, maxSize int) json.RawMessage {
	if len(body) == 0 {
		return nil
	}

	if maxSize > 0 && len(body) > maxSize {
		return summarize(len(body), "truncated")
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return summarize(len(body), "text")
	}

	result, err := json.Marshal(sanitizeValue(data))
	if err != nil {
		return summarize(len(body), "text")
	}
	return json.RawMessage(result)
}

func summarize(size int, format string) json.RawMessage {
	result, _ := json.Marshal(map[string]any{
		"_format": format,
		"_size":   size,
	})
	return json.RawMessage(result)
}

func sanitizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return sanitizeMap(val)
	case []any:
		sanitized := make([]any, len(val))
		for i, item := range val {
			sanitized[i] = sanitizeValue(item)
		}
		return sanitized
	default:
		return val
	}
}

func sanitizeMap(m map[string]any) map[string]any {
	sanitized := make(map[string]any, len(m))
	for key, value := range m {
		if isSensitiveKey(key) {
			sanitized[key] = redactedValue
			continue
		}
		sanitized[key] = sanitizeValue(value)
	}
	return sanitized
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	if personalFields[lower] {
		return true
	}
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

// SanitizeURL redacts credential query parameters from a URL or raw query.
func SanitizeURL(url string) string {
	for _, field := range sensitiveFields {
		url = redactQueryParam(url, field)
	}
	return url
}

func redactQueryParam(url, param string) string {
	idx := strings.Index(strings.ToLower(url), param+"=")
	if idx == -1 {
		return url
	}

	start := idx + len(param) + 1
	end := strings.IndexByte(url[start:], '&')
	if end == -1 {
		return url[:start] + redactedValue
	}
	return url[:start] + redactedValue + url[start+end:]
}
