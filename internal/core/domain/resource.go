package domain

import "time"

// InformationResource represents a registered source document.
// It is unique per (namespace, source URI); re-ingesting a known URI
// updates the record in place rather than creating a second row.
type InformationResource struct {
	// ID is the opaque identifier for the resource.
	ID string

	// Namespace partitions corpora; all uniqueness checks and queries
	// are scoped to it.
	Namespace string

	// SourceType is the kind of source (pdf, md, txt).
	SourceType string

	// SourceURI is the canonical stable locator, e.g. file:///doc.pdf.
	SourceURI string

	// ContentHash fingerprints the raw bytes for change detection.
	ContentHash string

	// Metadata holds arbitrary key/value pairs about the source.
	Metadata map[string]string

	// CreatedAt is when the resource was first registered.
	CreatedAt time.Time

	// UpdatedAt is when the resource was last re-ingested.
	UpdatedAt time.Time
}

// PageText is one unit of extracted source text, ordered by page.
// Produced by a TextExtractor collaborator.
type PageText struct {
	// Page is the 1-based page or section number.
	Page int

	// Text is the raw extracted text for that page.
	Text string
}
