package domain

import "time"

// ResourceSegment is a deterministic unit of retrievable text. Its ID is
// derived from content and provenance, so re-ingesting identical bytes
// reproduces identical segments.
type ResourceSegment struct {
	// ID is the content-derived stable identifier (see SegmentID).
	ID string

	// ResourceID references the owning InformationResource.
	ResourceID string

	// SegmentIndex is the global ordinal of the segment within its
	// resource, ascending across pages.
	SegmentIndex int

	// Text is the segment text as stored (whitespace already normalized).
	Text string

	// Provenance locates the segment within the source document.
	Provenance Provenance

	// TextHash fingerprints the normalized text alone.
	TextHash string

	// CreatedAt is when the segment was first stored.
	CreatedAt time.Time
}

// Provenance pins a segment to its location in the source. Which fields
// are set depends on the source format: PDFs set Page, markdown sets
// HeadingPath and Para, plain text sets Line, tabular sources set Table,
// Row and Col. Sentence is the index of the first sentence in the
// segment's window.
type Provenance struct {
	Page          int               `json:"page,omitempty"`
	HeadingPath   string            `json:"heading_path,omitempty"`
	Para          int               `json:"para,omitempty"`
	Line          int               `json:"line,omitempty"`
	Table         string            `json:"table,omitempty"`
	Row           int               `json:"row,omitempty"`
	Col           int               `json:"col,omitempty"`
	Sentence      int               `json:"sentence,omitempty"`
	SentenceCount int               `json:"sentence_count,omitempty"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// Embedding is a vector representation of one segment under one model.
// A segment carries at most one embedding; re-embedding replaces it.
type Embedding struct {
	SegmentID string
	Model     string
	Vector    []float32
	CreatedAt time.Time
}
