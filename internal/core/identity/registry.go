package identity

import (
	"fmt"
	"sort"
)

// Strategy extracts identity fields for one country's document layouts.
// Implementations must be pure: the same corpora always yield the same result.
type Strategy interface {
	CountryCode() CountryCode
	CountryName() string
	Extract(front, back Lines) (ExtractionResult, error)
}

// Registry maps country codes to their strategies.
// It is built once by the caller and is read-only afterwards.
type Registry struct {
	strategies map[CountryCode]Strategy
}

// NewRegistry builds a registry from the given strategies.
// A later strategy for the same country replaces an earlier one.
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{strategies: make(map[CountryCode]Strategy, len(strategies))}
	for _, s := range strategies {
		if s == nil {
			continue
		}
		r.strategies[s.CountryCode()] = s
	}
	return r
}

// Lookup returns the strategy registered for code.
func (r *Registry) Lookup(code CountryCode) (Strategy, error) {
	s, ok := r.strategies[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCountry, code)
	}
	return s, nil
}

// Supports reports whether a strategy is registered for code.
func (r *Registry) Supports(code CountryCode) bool {
	_, ok := r.strategies[code]
	return ok
}

// Codes lists the registered country codes in lexical order.
func (r *Registry) Codes() []CountryCode {
	codes := make([]CountryCode, 0, len(r.strategies))
	for code := range r.strategies {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Extract selects the strategy for code and runs it over the corpora.
// The country is validated before any line is read. A panic inside the
// strategy is reported as ErrInternalExtraction.
func (r *Registry) Extract(code CountryCode, front, back Lines) (result ExtractionResult, err error) {
	s, err := r.Lookup(code)
	if err != nil {
		return ExtractionResult{}, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = ExtractionResult{}
			err = fmt.Errorf("%w: %s strategy: %v", ErrInternalExtraction, code, rec)
		}
	}()

	result, err = s.Extract(front, back)
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("extract %s document: %w", code, err)
	}
	return result, nil
}
