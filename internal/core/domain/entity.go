package domain

import (
	"fmt"
	"strings"
	"time"
)

// Entity is a canonical named thing mentioned in segments. Entities are
// unique per (namespace, type, name); repeated mentions converge on one
// record.
type Entity struct {
	// ID is the opaque identifier for the entity.
	ID string

	// Namespace scopes the entity to one corpus partition.
	Namespace string

	// Type classifies the entity (strain, gene, protein, email, ...).
	Type string

	// Name is the canonical name.
	Name string

	// Aliases are alternative names, order-preserving and de-duplicated.
	Aliases []string

	// Metadata holds arbitrary key/value pairs about the entity.
	Metadata map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MergeAliases appends the given aliases to the entity, skipping any it
// already carries. Existing order is preserved.
func (e *Entity) MergeAliases(aliases []string) {
	seen := make(map[string]bool, len(e.Aliases))
	for _, a := range e.Aliases {
		seen[a] = true
	}
	for _, a := range aliases {
		if a == "" || seen[a] {
			continue
		}
		e.Aliases = append(e.Aliases, a)
		seen[a] = true
	}
}

// MergeMetadata overlays the given metadata onto the entity's existing
// metadata, keeping keys the update does not mention.
func (e *Entity) MergeMetadata(metadata map[string]string) {
	if len(metadata) == 0 {
		return
	}
	if e.Metadata == nil {
		e.Metadata = make(map[string]string, len(metadata))
	}
	for k, v := range metadata {
		e.Metadata[k] = v
	}
}

// EntityLink connects a segment to an entity mentioned in it. Links are
// unique per (segment, entity, link type).
type EntityLink struct {
	SegmentID  string
	EntityID   string
	LinkType   string
	Confidence float64
	CreatedAt  time.Time
}

// NewEntityLink builds a validated link. Confidence outside [0, 1] is
// rejected.
func NewEntityLink(segmentID, entityID, linkType string, confidence float64) (EntityLink, error) {
	if segmentID == "" || entityID == "" {
		return EntityLink{}, fmt.Errorf("link requires segment and entity IDs: %w", ErrInvalidInput)
	}
	if linkType == "" {
		linkType = "mentions"
	}
	if confidence < 0 || confidence > 1 {
		return EntityLink{}, fmt.Errorf("link %s -> %s: %w", segmentID, entityID, ErrInvalidConfidence)
	}
	return EntityLink{
		SegmentID:  segmentID,
		EntityID:   entityID,
		LinkType:   linkType,
		Confidence: confidence,
	}, nil
}

// ExtractedEntity is a candidate mention produced by an entity extractor,
// before canonicalisation into a stored Entity.
type ExtractedEntity struct {
	Type       string
	Name       string
	Aliases    []string
	Confidence float64
	Metadata   map[string]string
}

// Validate reports whether the candidate is well formed.
func (c ExtractedEntity) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("extracted entity has empty name: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(c.Type) == "" {
		return fmt.Errorf("extracted entity %q has empty type: %w", c.Name, ErrInvalidInput)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("extracted entity %q: %w", c.Name, ErrInvalidConfidence)
	}
	return nil
}
