// Package chunker splits documents into overlapping passages sized for embedding.
//
// Splitting is recursive: a span longer than the chunk size is cut at the
// first separator that occurs in it (paragraph, line, sentence, clause, word),
// and pieces still too long are cut at the next separator, down to a raw rune
// cut. The resulting atoms are merged greedily into chunks; each new chunk
// starts with the tail atoms of the previous one that fit in the overlap.
package chunker

import (
	"unicode"

	"github.com/kailas-cloud/ragdesk/internal/domain/chunk"
)

// DefaultChunkSize is the maximum chunk length in characters.
const DefaultChunkSize = 512

// DefaultChunkOverlap is the maximum overlap between consecutive chunks.
const DefaultChunkOverlap = 50

// DefaultSeparators are tried in order, coarsest first.
var DefaultSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", "; ", ", ", " "}

// Splitter cuts text into chunks. Safe for concurrent use.
type Splitter struct {
	size       int
	overlap    int
	separators [][]rune
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.size = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		size:       DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: toRunes(DefaultSeparators),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.overlap >= s.size {
		s.overlap = s.size / 4
	}
	return s
}

// Size returns the configured chunk size.
func (s *Splitter) Size() int { return s.size }

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Split chunks every document and returns the pieces in document order,
// then in-document order. Blank documents contribute nothing.
func (s *Splitter) Split(docs []string) []chunk.Piece {
	var out []chunk.Piece
	for i, doc := range docs {
		out = append(out, s.splitDoc(i, []rune(doc))...)
	}
	return out
}

type span struct{ start, end int }

func (sp span) len() int { return sp.end - sp.start }

func (s *Splitter) splitDoc(docIndex int, doc []rune) []chunk.Piece {
	atoms := s.atoms(doc, 0, len(doc), 0, nil)

	var pieces []chunk.Piece
	emit := func(cur []span) {
		start, end := trimSpace(doc, cur[0].start, cur[len(cur)-1].end)
		if start == end {
			return
		}
		// an overlap tail followed only by whitespace adds nothing new
		if n := len(pieces); n > 0 && end <= pieces[n-1].End {
			return
		}
		pieces = append(pieces, chunk.Piece{
			DocIndex: docIndex,
			Start:    start,
			End:      end,
			Content:  string(doc[start:end]),
		})
	}

	var cur []span
	for _, a := range atoms {
		if a.len() == 0 {
			continue
		}
		total := spanLen(cur)
		if len(cur) > 0 && total+a.len() > s.size {
			emit(cur)
			// keep a tail within the overlap that still leaves room for a
			for len(cur) > 0 && (total > s.overlap || total+a.len() > s.size) {
				cur = cur[1:]
				total = spanLen(cur)
			}
		}
		cur = append(cur, a)
	}
	if len(cur) > 0 {
		emit(cur)
	}

	return pieces
}

// atoms breaks doc[lo:hi] into contiguous spans no longer than the chunk size.
func (s *Splitter) atoms(doc []rune, lo, hi, level int, out []span) []span {
	if hi-lo <= s.size {
		return append(out, span{lo, hi})
	}

	if level >= len(s.separators) {
		for p := lo; p < hi; p += s.size {
			out = append(out, span{p, min(p+s.size, hi)})
		}
		return out
	}

	sep := s.separators[level]
	for start := lo; start < hi; {
		end := hi
		if i := indexRunes(doc[start:hi], sep); i >= 0 {
			end = start + i + len(sep) // separator stays with the preceding piece
		}
		out = s.atoms(doc, start, end, level+1, out)
		start = end
	}
	return out
}

func spanLen(cur []span) int {
	if len(cur) == 0 {
		return 0
	}
	return cur[len(cur)-1].end - cur[0].start
}

func trimSpace(doc []rune, start, end int) (int, int) {
	for start < end && unicode.IsSpace(doc[start]) {
		start++
	}
	for end > start && unicode.IsSpace(doc[end-1]) {
		end--
	}
	return start, end
}

func indexRunes(hay, needle []rune) int {
	n := len(needle)
outer:
	for i := 0; i+n <= len(hay); i++ {
		for j := range n {
			if hay[i+j] != needle[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}

func toRunes(seps []string) [][]rune {
	out := make([][]rune, 0, len(seps))
	for _, sep := range seps {
		if sep != "" {
			out = append(out, []rune(sep))
		}
	}
	return out
}
