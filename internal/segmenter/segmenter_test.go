package segmenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindexhq/mindex/internal/core/domain"
)

const fourSentences = "The first sentence is long enough to count. " +
	"The second sentence also counts here. " +
	"The third sentence is similarly long. " +
	"The fourth sentence completes the test."

func TestSplitSentences(t *testing.T) {
	sentences := SplitSentences(fourSentences)

	require.Len(t, sentences, 4)
	assert.Equal(t, "The first sentence is long enough to count.", sentences[0])
	assert.Equal(t, "The fourth sentence completes the test.", sentences[3])
}

func TestSplitSentences_DropsShortFragments(t *testing.T) {
	sentences := SplitSentences("Short. The real sentence continues with enough length here.")

	require.Len(t, sentences, 1)
	assert.Equal(t, "The real sentence continues with enough length here.", sentences[0])
}

func TestSplitSentences_MinLengthCountsRunes(t *testing.T) {
	// 19 runes but 21 bytes: multi-byte letters must not push a short
	// fragment over the threshold.
	assert.Empty(t, SplitSentences("Ähnlich kürzer Satz"))

	sentences := SplitSentences("Müller prüfte die Größenverteilung im Labor.")
	require.Len(t, sentences, 1)
}

func TestSplitSentences_NoBoundaryWithoutCapital(t *testing.T) {
	// "e.g. something" must not split: no uppercase after the period.
	sentences := SplitSentences("This sentence mentions e.g. something and keeps going on.")

	require.Len(t, sentences, 1)
}

func TestSegmentPages_WindowsAndProvenance(t *testing.T) {
	s := New()
	pages := []domain.PageText{{Page: 1, Text: fourSentences}}

	segments := s.SegmentPages(pages, "ir-1", "ns", "file:///doc.pdf")

	require.Len(t, segments, 2)

	first := segments[0]
	assert.Equal(t, 0, first.SegmentIndex)
	assert.Equal(t, 1, first.Provenance.Page)
	assert.Equal(t, 0, first.Provenance.Sentence)
	assert.Equal(t, 3, first.Provenance.SentenceCount)
	assert.Contains(t, first.Text, "The first sentence")
	assert.Contains(t, first.Text, "The third sentence")

	second := segments[1]
	assert.Equal(t, 1, second.SegmentIndex)
	assert.Equal(t, 3, second.Provenance.Sentence)
	assert.Equal(t, 1, second.Provenance.SentenceCount)
}

func TestSegmentPages_GlobalIndexAcrossPages(t *testing.T) {
	s := New()
	pages := []domain.PageText{
		{Page: 1, Text: fourSentences},
		{Page: 2, Text: fourSentences},
	}

	segments := s.SegmentPages(pages, "ir-1", "ns", "file:///doc.pdf")

	require.Len(t, segments, 4)
	for i, seg := range segments {
		assert.Equal(t, i, seg.SegmentIndex, "segment index must ascend across pages")
	}
	assert.Equal(t, 2, segments[2].Provenance.Page)
}

func TestSegmentPages_Deterministic(t *testing.T) {
	s := New()
	pages := []domain.PageText{{Page: 1, Text: fourSentences}}

	first := s.SegmentPages(pages, "ir-1", "ns", "file:///doc.pdf")
	second := s.SegmentPages(pages, "ir-other", "ns", "file:///doc.pdf")

	require.Equal(t, len(first), len(second))
	for i := range first {
		// IDs depend on namespace, URI, location and text, not the IR id.
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].TextHash, second[i].TextHash)
	}
}

func TestSegmentPages_ChangedTextChangesID(t *testing.T) {
	s := New()
	a := s.SegmentPages([]domain.PageText{{Page: 1, Text: fourSentences}}, "ir", "ns", "file:///d.pdf")
	b := s.SegmentPages([]domain.PageText{{Page: 1, Text: fourSentences + " One extra trailing sentence appears here."}}, "ir", "ns", "file:///d.pdf")

	require.Len(t, a, 2)
	require.Len(t, b, 2)
	// The untouched first window keeps its identity; the changed one
	// gets a new one.
	assert.Equal(t, a[0].ID, b[0].ID)
	assert.NotEqual(t, a[1].ID, b[1].ID)
}

func TestSegmentMarkdown_Headings(t *testing.T) {
	s := New()
	text := "# Intro\n" +
		"This introduction sentence is long enough. Another introductory sentence follows here.\n" +
		"\n" +
		"# Methods\n" +
		"The methods section sentence is sufficiently long. A second methods sentence is also long enough.\n"

	segments := s.SegmentMarkdown(text, "ir-1", "ns", "file:///doc.md")

	require.Len(t, segments, 2)
	assert.Equal(t, "Intro", segments[0].Provenance.HeadingPath)
	assert.Equal(t, 0, segments[0].Provenance.Para)
	assert.Equal(t, "Methods", segments[1].Provenance.HeadingPath)
	assert.Equal(t, 1, segments[1].Provenance.Para)
	assert.Equal(t, 0, segments[0].SegmentIndex)
	assert.Equal(t, 1, segments[1].SegmentIndex)
}

func TestSegmentMarkdown_RootBeforeFirstHeading(t *testing.T) {
	s := New()
	text := "Content before any heading is attributed to the root section.\n\n# Later\nThe later section holds a sufficiently long sentence."

	segments := s.SegmentMarkdown(text, "ir-1", "ns", "file:///doc.md")

	require.Len(t, segments, 2)
	assert.Equal(t, "root", segments[0].Provenance.HeadingPath)
	assert.Equal(t, "Later", segments[1].Provenance.HeadingPath)
}

func TestSegmentText(t *testing.T) {
	s := New()

	segments := s.SegmentText(fourSentences, "ir-1", "ns", "file:///doc.txt")

	require.Len(t, segments, 2)
	assert.Equal(t, 0, segments[0].Provenance.Sentence)
	assert.Equal(t, 3, segments[1].Provenance.Sentence)
	assert.Zero(t, segments[0].Provenance.Page)
	assert.Empty(t, segments[0].Provenance.HeadingPath)
}

func TestWithSentencesPerSegment(t *testing.T) {
	s := New(WithSentencesPerSegment(2))

	segments := s.SegmentText(fourSentences, "ir-1", "ns", "file:///doc.txt")

	require.Len(t, segments, 2)
	assert.Equal(t, 2, segments[0].Provenance.SentenceCount)
	assert.Equal(t, 2, segments[1].Provenance.SentenceCount)
}

func TestSegmentText_NormalizesStoredText(t *testing.T) {
	s := New()

	segments := s.SegmentText("This   sentence has    odd spacing but is long enough.", "ir-1", "ns", "file:///doc.txt")

	require.Len(t, segments, 1)
	assert.Equal(t, "This sentence has odd spacing but is long enough.", segments[0].Text)
}
