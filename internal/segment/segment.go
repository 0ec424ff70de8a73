// Package segment partitions raw extracted document text into a two-level
// hierarchy of sections and size-bounded chunks. The engine is pure and
// stateless: it reads its input, allocates local structures, and returns a
// result, so independent documents may be segmented concurrently without
// coordination.
package segment

import (
	"fmt"
	"strings"
)

// DefaultChunkSize is the token budget applied when a Config leaves
// ChunkSize zero.
const DefaultChunkSize = 500

// Chunk is one size-bounded span of document text paired with the heading
// of the section it came from. Heading is empty when no section applies.
type Chunk struct {
	Text    string
	Heading string
}

// Segmenter partitions raw document text into ordered chunks.
type Segmenter interface {
	Segment(text string) []Chunk
}

// LeadingPolicy controls what happens to document text that precedes the
// first detected heading.
type LeadingPolicy int

const (
	// LeadingDrop discards text before the first heading (front matter
	// treated as noise).
	LeadingDrop LeadingPolicy = iota
	// LeadingEmit emits it as an untitled leading section.
	LeadingEmit
)

// Config controls segmentation behavior.
type Config struct {
	ChunkSize int           // Token budget per chunk; 0 means DefaultChunkSize.
	Counter   TokenCounter  // nil means EstimateTokens.
	Leading   LeadingPolicy // Pre-first-heading text policy.
	Observer  Observer      // nil means NopObserver.
}

func (c *Config) normalize() error {
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.Counter == nil {
		c.Counter = EstimateTokens
	}
	if c.Observer == nil {
		c.Observer = NopObserver
	}
	return nil
}

// SectionSegmenter splits a document along detected heading boundaries and
// chunks each section independently, propagating the section heading to
// every chunk produced from it.
type SectionSegmenter struct {
	cfg Config
}

// NewSectionSegmenter validates cfg and returns a section-based segmenter.
func NewSectionSegmenter(cfg Config) (*SectionSegmenter, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &SectionSegmenter{cfg: cfg}, nil
}

// Segment partitions text into section-attributed chunks in source order.
// With no detectable headings the whole document is chunked as one
// implicit, heading-less section.
func (s *SectionSegmenter) Segment(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	headings := DetectHeadings(text)
	for _, h := range headings {
		s.cfg.Observer.HeadingDetected(h)
	}
	if len(headings) == 0 {
		s.cfg.Observer.FallbackTriggered("no headings detected")
		return untitled(Split(text, s.cfg.ChunkSize, s.cfg.Counter))
	}

	var out []Chunk
	if s.cfg.Leading == LeadingEmit && headings[0].Pos > 0 {
		if lead := strings.TrimSpace(text[:headings[0].Pos]); lead != "" {
			out = append(out, untitled(Split(lead, s.cfg.ChunkSize, s.cfg.Counter))...)
		}
	}

	for i, h := range headings {
		end := len(text)
		if i+1 < len(headings) {
			end = headings[i+1].Pos
		}
		section := strings.TrimSpace(text[h.Pos:end])

		// Body is everything past the heading's matched span, which may
		// start on the heading's own line for bracket and paren markers.
		bodyStart := h.End
		if bodyStart > end {
			bodyStart = end
		}
		if strings.TrimSpace(text[bodyStart:end]) == "" {
			// Heading with no body: emit the heading itself so every
			// detected section yields at least one searchable record.
			out = append(out, Chunk{Text: h.Text, Heading: h.Text})
			s.cfg.Observer.SectionChunked(h.Text, 1)
			continue
		}

		pieces := Split(section, s.cfg.ChunkSize, s.cfg.Counter)
		if len(pieces) == 0 {
			pieces = []string{section}
		}
		n := 0
		for _, p := range pieces {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			out = append(out, Chunk{Text: p, Heading: h.Text})
			n++
		}
		s.cfg.Observer.SectionChunked(h.Text, n)
	}

	if len(out) == 0 {
		s.cfg.Observer.FallbackTriggered("sections produced no chunks")
		return untitled(Split(text, s.cfg.ChunkSize, s.cfg.Counter))
	}
	return out
}

// FlatSegmenter is the older, simpler strategy: it chunks the whole
// document in one pass and assigns each chunk the nearest preceding
// heading by re-locating the chunk's text in the source. Association is
// heuristic rather than true section membership; retained for
// output-compatibility with the section-based mode.
type FlatSegmenter struct {
	cfg Config
}

// NewFlatSegmenter validates cfg and returns a flat segmenter.
func NewFlatSegmenter(cfg Config) (*FlatSegmenter, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &FlatSegmenter{cfg: cfg}, nil
}

func (s *FlatSegmenter) Segment(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	headings := DetectHeadings(text)
	for _, h := range headings {
		s.cfg.Observer.HeadingDetected(h)
	}
	if len(headings) == 0 {
		s.cfg.Observer.FallbackTriggered("no headings detected")
	}

	pieces := Split(text, s.cfg.ChunkSize, s.cfg.Counter)
	overlap := OverlapTokens(s.cfg.ChunkSize)

	out := make([]Chunk, 0, len(pieces))
	cursor := 0
	for _, p := range pieces {
		start := strings.Index(text[cursor:], p)
		if start < 0 {
			start = cursor
		} else {
			start += cursor
		}
		// Advance past this chunk minus the overlap, always by at least
		// one byte so the scan terminates.
		next := start + len(p) - overlap
		if next <= cursor {
			next = cursor + 1
		}
		cursor = next

		heading := ""
		for _, h := range headings {
			if h.Pos > start {
				break
			}
			heading = h.Text
		}
		out = append(out, Chunk{Text: p, Heading: heading})
	}
	return out
}

func untitled(pieces []string) []Chunk {
	out := make([]Chunk, 0, len(pieces))
	for _, p := range pieces {
		out = append(out, Chunk{Text: p})
	}
	return out
}
