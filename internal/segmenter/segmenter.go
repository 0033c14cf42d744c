// Package segmenter turns extracted source text into deterministic,
// provenance-tracked segments. Segmentation is by sentence, not token
// count, so identical source bytes always reproduce identical segments
// with identical content-derived IDs.
package segmenter

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mindexhq/mindex/internal/core/domain"
)

const (
	// DefaultSentencesPerSegment is the window size when none is set.
	DefaultSentencesPerSegment = 3

	// minSentenceLength filters out fragments that are likely extraction
	// artifacts rather than real sentences.
	minSentenceLength = 20
)

// sentenceBoundary matches a terminator followed by whitespace and an
// uppercase letter. Go's regexp has no lookaround, so the boundary is
// located via submatch indexes instead of a split pattern.
var sentenceBoundary = regexp.MustCompile(`([.!?])\s+([A-Z])`)

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithSentencesPerSegment sets the sentence window size. Values below 1
// are ignored.
func WithSentencesPerSegment(n int) Option {
	return func(s *Segmenter) {
		if n >= 1 {
			s.sentencesPerSegment = n
		}
	}
}

// Segmenter groups sentences into fixed-size windows and derives stable
// segment identities from namespace, source URI, location and text.
type Segmenter struct {
	sentencesPerSegment int
}

// New creates a Segmenter with the given options.
func New(opts ...Option) *Segmenter {
	s := &Segmenter{sentencesPerSegment: DefaultSentencesPerSegment}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SegmentPages segments page-ordered text (PDF extraction output).
// Provenance carries the page number and the index of the window's
// first sentence; segment indexes ascend globally across pages.
func (s *Segmenter) SegmentPages(pages []domain.PageText, resourceID, namespace, sourceURI string) []domain.ResourceSegment {
	var segments []domain.ResourceSegment
	globalIndex := 0

	for _, page := range pages {
		sentences := SplitSentences(page.Text)
		for sentIdx := 0; sentIdx < len(sentences); sentIdx += s.sentencesPerSegment {
			batch := sentences[sentIdx:min(sentIdx+s.sentencesPerSegment, len(sentences))]
			text := strings.Join(batch, " ")
			if strings.TrimSpace(text) == "" {
				continue
			}
			prov := domain.Provenance{
				Page:          page.Page,
				Sentence:      sentIdx,
				SentenceCount: len(batch),
			}
			segments = append(segments, s.build(resourceID, namespace, sourceURI, text, prov, globalIndex))
			globalIndex++
		}
	}
	return segments
}

// SegmentMarkdown segments markdown with heading-based provenance.
// Non-blank lines accumulate into the current paragraph; a heading line
// flushes the accumulator, switches the heading and advances the
// paragraph index. Content before the first heading falls under "root".
func (s *Segmenter) SegmentMarkdown(text, resourceID, namespace, sourceURI string) []domain.ResourceSegment {
	var segments []domain.ResourceSegment
	globalIndex := 0

	heading := "root"
	var para []string
	paraIndex := 0

	flush := func() {
		if len(para) == 0 {
			return
		}
		segs := s.segmentParagraph(para, heading, paraIndex, resourceID, namespace, sourceURI, &globalIndex)
		segments = append(segments, segs...)
		paraIndex++
		para = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "#") {
			flush()
			heading = strings.TrimSpace(strings.TrimLeft(line, "#"))
			continue
		}
		if strings.TrimSpace(line) != "" {
			para = append(para, line)
		}
	}
	flush()

	return segments
}

func (s *Segmenter) segmentParagraph(paraLines []string, heading string, paraIndex int, resourceID, namespace, sourceURI string, globalIndex *int) []domain.ResourceSegment {
	sentences := SplitSentences(strings.Join(paraLines, " "))

	var segments []domain.ResourceSegment
	for sentIdx := 0; sentIdx < len(sentences); sentIdx += s.sentencesPerSegment {
		batch := sentences[sentIdx:min(sentIdx+s.sentencesPerSegment, len(sentences))]
		text := strings.Join(batch, " ")
		if strings.TrimSpace(text) == "" {
			continue
		}
		prov := domain.Provenance{
			HeadingPath:   heading,
			Para:          paraIndex,
			Sentence:      sentIdx,
			SentenceCount: len(batch),
		}
		segments = append(segments, s.build(resourceID, namespace, sourceURI, text, prov, *globalIndex))
		*globalIndex++
	}
	return segments
}

// SegmentText segments plain text with sentence-position provenance.
func (s *Segmenter) SegmentText(text, resourceID, namespace, sourceURI string) []domain.ResourceSegment {
	sentences := SplitSentences(text)

	var segments []domain.ResourceSegment
	for sentIdx := 0; sentIdx < len(sentences); sentIdx += s.sentencesPerSegment {
		batch := sentences[sentIdx:min(sentIdx+s.sentencesPerSegment, len(sentences))]
		segText := strings.Join(batch, " ")
		if strings.TrimSpace(segText) == "" {
			continue
		}
		prov := domain.Provenance{
			Sentence:      sentIdx,
			SentenceCount: len(batch),
		}
		segments = append(segments, s.build(resourceID, namespace, sourceURI, segText, prov, len(segments)))
	}
	return segments
}

func (s *Segmenter) build(resourceID, namespace, sourceURI, text string, prov domain.Provenance, index int) domain.ResourceSegment {
	normalized := domain.NormalizeText(text)
	return domain.ResourceSegment{
		ID:           domain.SegmentID(namespace, sourceURI, prov.Key(), text),
		ResourceID:   resourceID,
		SegmentIndex: index,
		Text:         normalized,
		Provenance:   prov,
		TextHash:     domain.TextHash(text),
	}
}

// SplitSentences splits text on sentence terminators followed by an
// uppercase start, trims the pieces and drops fragments shorter than
// minSentenceLength.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, m := range sentenceBoundary.FindAllStringSubmatchIndex(text, -1) {
		// m[3] is the end of the terminator group, m[4] the start of the
		// next sentence's uppercase letter.
		sentences = appendSentence(sentences, text[start:m[3]])
		start = m[4]
	}
	sentences = appendSentence(sentences, text[start:])
	return sentences
}

func appendSentence(sentences []string, s string) []string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) >= minSentenceLength {
		sentences = append(sentences, s)
	}
	return sentences
}
