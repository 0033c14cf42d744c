package domain

// SearchResult is one ranked hit from semantic search.
type SearchResult struct {
	SegmentID  string     `json:"segment_id"`
	Text       string     `json:"text"`
	Provenance Provenance `json:"provenance"`
	SourceURI  string     `json:"source_uri"`
	Namespace  string     `json:"namespace"`
	Score      float64    `json:"score"`
}

// EntityMatch is one segment that mentions a recalled entity, with the
// link that connects them.
type EntityMatch struct {
	SegmentID  string     `json:"segment_id"`
	Text       string     `json:"text"`
	Provenance Provenance `json:"provenance"`
	SourceURI  string     `json:"source_uri"`
	Namespace  string     `json:"namespace"`
	LinkType   string     `json:"link_type"`
	Confidence float64    `json:"confidence"`
}

// LinkedEntity pairs an entity with the link that attaches it to a
// segment, the inverse view of EntityMatch.
type LinkedEntity struct {
	Entity     Entity  `json:"entity"`
	LinkType   string  `json:"link_type"`
	Confidence float64 `json:"confidence"`
}

// EntityMention pairs an entity with how many segments mention it.
type EntityMention struct {
	Entity       Entity `json:"entity"`
	MentionCount int    `json:"mention_count"`
}

// Stats summarises one namespace of the knowledge base.
type Stats struct {
	Namespace       string `json:"namespace"`
	ResourceCount   int    `json:"resource_count"`
	SegmentCount    int    `json:"segment_count"`
	EntityCount     int    `json:"entity_count"`
	EntityTypeCount int    `json:"entity_type_count"`
}
