// Package regex implements a baseline entity extractor using regular
// expression patterns. Fast, free and deterministic, with limited
// recall; a reasonable starting point for domain-specific extraction.
package regex

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/mindexhq/mindex/internal/core/domain"
	"github.com/mindexhq/mindex/internal/core/ports/driven"
)

// DefaultPatterns covers common entity types found in research text.
var DefaultPatterns = map[string]string{
	// Strain identifiers: 2-4 uppercase letters + 3-6 alphanumeric.
	// Examples: CCNA001, YPH499, BY4741
	"strain": `\b[A-Z]{2,4}[A-Z0-9]{3,6}\b`,

	// Gene symbols: 2-5 uppercase letters + 1-2 digits.
	// Examples: BRCA1, TP53, MYC2
	"gene": `\b[A-Z]{2,5}[0-9]{1,2}\b`,

	// Protein identifiers: like genes but may carry lowercase prefixes.
	// Examples: p53, HER2, CD4
	"protein": `\b[a-zA-Z]{2,4}[0-9]{1,3}\b`,

	// Email addresses.
	"email": `\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`,

	// DOI (Digital Object Identifier).
	"doi": `\b10\.\d{4,}/[-._;()/:a-zA-Z0-9]+\b`,

	// PubMed IDs.
	"pmid": `\bPMID:?\s*(\d{7,8})\b`,

	// Accession numbers (generic: 1-3 letters + 5-7 digits).
	"accession": `\b[A-Z]{1,3}\d{5,7}\b`,
}

// DefaultMinConfidence filters matches the heuristic scores too low.
const DefaultMinConfidence = 0.5

// Option configures an Extractor.
type Option func(*options)

type options struct {
	patterns      map[string]string
	caseSensitive bool
	minConfidence float64
}

// WithPatterns replaces the default pattern set entirely.
func WithPatterns(patterns map[string]string) Option {
	return func(o *options) { o.patterns = patterns }
}

// WithCaseInsensitive compiles all patterns case-insensitively.
func WithCaseInsensitive() Option {
	return func(o *options) { o.caseSensitive = false }
}

// WithMinConfidence sets the minimum confidence threshold.
func WithMinConfidence(min float64) Option {
	return func(o *options) { o.minConfidence = min }
}

// Extractor finds entity mentions by regex. It keeps entity types in a
// sorted order so extraction output is deterministic.
type Extractor struct {
	patterns      map[string]*regexp.Regexp
	order         []string
	caseSensitive bool
	minConfidence float64
}

var _ driven.EntityExtractor = (*Extractor)(nil)

// New compiles the configured patterns into an Extractor. An invalid
// pattern fails construction.
func New(opts ...Option) (*Extractor, error) {
	o := options{
		patterns:      DefaultPatterns,
		caseSensitive: true,
		minConfidence: DefaultMinConfidence,
	}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Extractor{
		patterns:      make(map[string]*regexp.Regexp, len(o.patterns)),
		caseSensitive: o.caseSensitive,
		minConfidence: o.minConfidence,
	}
	for entityType, pattern := range o.patterns {
		if err := e.AddPattern(entityType, pattern); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Name identifies the extractor for logging.
func (e *Extractor) Name() string {
	return "regex"
}

// Extract returns candidate entities found in text. Matches are
// de-duplicated per (type, name) and scored by a specificity heuristic;
// matches below the confidence threshold are dropped.
func (e *Extractor) Extract(text string) []domain.ExtractedEntity {
	var entities []domain.ExtractedEntity
	seen := make(map[[2]string]bool)

	for _, entityType := range e.order {
		pattern := e.patterns[entityType]
		for _, match := range pattern.FindAllString(text, -1) {
			name := strings.TrimSpace(match)
			if name == "" {
				continue
			}
			key := [2]string{entityType, name}
			if seen[key] {
				continue
			}
			seen[key] = true

			confidence := confidenceFor(entityType, name)
			if confidence < e.minConfidence {
				continue
			}
			entities = append(entities, domain.ExtractedEntity{
				Type:       entityType,
				Name:       name,
				Confidence: confidence,
			})
		}
	}
	return entities
}

// AddPattern registers or replaces the pattern for an entity type.
func (e *Extractor) AddPattern(entityType, pattern string) error {
	if !e.caseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern for %q: %w", entityType, err)
	}
	if _, exists := e.patterns[entityType]; !exists {
		e.order = append(e.order, entityType)
		sort.Strings(e.order)
	}
	e.patterns[entityType] = re
	return nil
}

// RemovePattern stops extraction of an entity type.
func (e *Extractor) RemovePattern(entityType string) {
	if _, exists := e.patterns[entityType]; !exists {
		return
	}
	delete(e.patterns, entityType)
	for i, t := range e.order {
		if t == entityType {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// Patterns returns the current pattern strings by entity type.
func (e *Extractor) Patterns() map[string]string {
	out := make(map[string]string, len(e.patterns))
	for entityType, re := range e.patterns {
		out[entityType] = re.String()
	}
	return out
}

// confidenceFor scores a match on pattern specificity and string
// characteristics. Regex matches start at moderate confidence; length,
// mixed case, digits and high-specificity types raise it.
func confidenceFor(entityType, name string) float64 {
	confidence := 0.7

	if len(name) >= 6 {
		confidence += 0.1
	}
	if name != strings.ToUpper(name) && name != strings.ToLower(name) {
		confidence += 0.1
	}
	if strings.ContainsFunc(name, unicode.IsDigit) {
		confidence += 0.05
	}
	switch entityType {
	case "email", "doi", "pmid":
		confidence += 0.2
	}

	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}
