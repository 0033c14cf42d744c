package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// NormalizeText collapses all whitespace runs to single spaces and trims
// the result. Identity derivation and stored segment text both pass
// through here, so formatting-only differences never change a segment.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SegmentID derives the content-addressed identifier for a segment:
// the SHA-256 of namespace, source URI, provenance key and normalized
// text joined with "|". Identical inputs always produce identical IDs.
func SegmentID(namespace, sourceURI, provenanceKey, text string) string {
	h := sha256.Sum256([]byte(namespace + "|" + sourceURI + "|" + provenanceKey + "|" + NormalizeText(text)))
	return hex.EncodeToString(h[:])
}

// TextHash fingerprints normalized text alone, independent of location.
func TextHash(text string) string {
	h := sha256.Sum256([]byte(NormalizeText(text)))
	return hex.EncodeToString(h[:])
}

// ContentHash fingerprints raw source bytes for change detection.
func ContentHash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Key renders provenance as the canonical location string used in
// identity derivation, e.g. "5:3" for page 5, sentence 3. The shape
// depends on which fields are set; unknown shapes fall back to joining
// extra values under sorted keys so the key stays deterministic.
func (p Provenance) Key() string {
	switch {
	case p.Page > 0:
		return fmt.Sprintf("%d:%d", p.Page, p.Sentence)
	case p.HeadingPath != "":
		return fmt.Sprintf("%s:%d:%d", p.HeadingPath, p.Para, p.Sentence)
	case p.Line > 0:
		return fmt.Sprintf("%d:%d", p.Line, p.Sentence)
	case p.Table != "" && p.Row > 0:
		return fmt.Sprintf("%s:%d:%d", p.Table, p.Row, p.Col)
	}
	if len(p.Extra) == 0 {
		return fmt.Sprintf("%d", p.Sentence)
	}
	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, p.Extra[k])
	}
	return strings.Join(values, ":")
}

// NewResourceID mints an opaque identifier for an information resource.
func NewResourceID() string {
	return uuid.NewString()
}

// NewEntityID mints an opaque identifier for an entity.
func NewEntityID() string {
	return uuid.NewString()
}
