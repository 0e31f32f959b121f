package identity

import "strings"

// CountryCode is an ISO 3166-1 alpha-2 code selecting an extraction strategy.
type CountryCode string

const (
	Ecuador  CountryCode = "EC"
	Colombia CountryCode = "CO"
	Mexico   CountryCode = "MX"
	USA      CountryCode = "US"
)

// ParseCountryCode normalizes caller input such as " ec " into a CountryCode.
// It does not check whether a strategy exists for the code.
func ParseCountryCode(raw string) CountryCode {
	return CountryCode(strings.ToUpper(strings.TrimSpace(raw)))
}

func (c CountryCode) String() string {
	return string(c)
}
