// Package source holds the position and span primitives shared by every
// stage of the compiler: the lexer, the parser, the AST, and every
// diagnostic.
package source

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rivo/uniseg"
)

// File is a source file involved in compilation. It doesn't need to
// correspond to a real filesystem path; it is only used to label
// diagnostics and to look up text for spans.
type File struct {
	// Path is a human-readable label for this file, used in diagnostics.
	Path string
	// Text is the complete UTF-8 contents of the file.
	Text string
}

// Position is a 1-indexed line/column pair together with the 0-indexed
// byte offset it corresponds to.
//
// Column is not simply Offset with the length of previous lines subtracted
// off: it accounts for Unicode display width (a wide CJK rune counts as two
// columns, a combining grapheme cluster counts as one), via uniseg.
type Position struct {
	Line, Column int
	Offset       int
}

// Zero reports whether p is the zero Position, used as a sentinel for
// "no position" (e.g. an unindexed synthetic node).
func (p Position) Zero() bool {
	return p == Position{}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open byte range [Start, End) within a File.
type Span struct {
	File  *Index
	Start int
	End   int
}

// Synthetic reports whether this span was fabricated by a compiler pass
// (e.g. canonicalization) rather than lexed from real source text. Such
// spans are zero-length and sit at their parent's start offset.
func (s Span) Synthetic() bool {
	return s.Start == s.End
}

// Text returns the source text covered by this span.
func (s Span) Text() string {
	if s.File == nil {
		return ""
	}
	return s.File.Text()[s.Start:s.End]
}

// StartPos returns the user-displayable start position of this span.
func (s Span) StartPos() Position {
	if s.File == nil {
		return Position{}
	}
	return s.File.Search(s.Start)
}

// EndPos returns the user-displayable end position of this span.
func (s Span) EndPos() Position {
	if s.File == nil {
		return Position{}
	}
	return s.File.Search(s.End)
}

func (s Span) String() string {
	if s.File == nil {
		return fmt.Sprintf("<synthetic>[%d:%d]", s.Start, s.End)
	}
	return fmt.Sprintf("%s[%d:%d]", s.File.Path(), s.Start, s.End)
}

// Join returns the smallest span that contains both s and other: the
// minimum of their starts and the maximum of their ends. A zero span on
// either side is ignored.
func Join(s, other Span) Span {
	if s.File == nil {
		return other
	}
	if other.File == nil {
		return s
	}
	joined := s
	if other.Start < joined.Start {
		joined.Start = other.Start
	}
	if other.End > joined.End {
		joined.End = other.End
	}
	return joined
}

// Synthesize returns a zero-length span sitting at at's start offset,
// for use by passes (chiefly canon) that fabricate nodes with no literal
// source text of their own.
func Synthesize(at Span) Span {
	return Span{File: at.File, Start: at.Start, End: at.Start}
}

// Index is a line/column index over a File, permitting O(log n)
// calculation of Positions from byte offsets. The zero value is not
// usable; construct with NewIndex.
type Index struct {
	file File

	once  sync.Once
	lines []int // byte offset of the start of each line
}

// NewIndex builds a line index over file. Indexing is deferred until the
// first call that needs it.
func NewIndex(file File) *Index {
	return &Index{file: file}
}

// File returns the indexed file.
func (ix *Index) File() File { return ix.file }

// Path returns ix.File().Path.
func (ix *Index) Path() string { return ix.file.Path }

// Text returns ix.File().Text.
func (ix *Index) Text() string { return ix.file.Text }

// Span returns the span covering [start, end) in this file.
func (ix *Index) Span(start, end int) Span {
	return Span{File: ix, Start: start, End: end}
}

// Search computes the full Position for a byte offset into this file.
func (ix *Index) Search(offset int) Position {
	ix.once.Do(ix.buildIndex)

	line, exact := slices.BinarySearch(ix.lines, offset)
	if !exact {
		line--
	}

	column := displayWidth(ix.file.Text[ix.lines[line]:offset])
	return Position{
		Line:   line + 1,
		Column: column + 1,
		Offset: offset,
	}
}

func (ix *Index) buildIndex() {
	var next int
	text := ix.file.Text
	for {
		nl := strings.IndexByte(text, '\n') + 1
		if nl == 0 {
			break
		}
		text = text[nl:]
		ix.lines = append(ix.lines, next)
		next += nl
	}
	ix.lines = append(ix.lines, next)
}

// tabstopWidth is the column width the index assigns to a tab character.
const tabstopWidth = 4

// displayWidth computes the rendered column width of text, honoring
// tabstops and grapheme-cluster-aware Unicode widths.
func displayWidth(text string) int {
	var column int
	for text != "" {
		next := text
		haveTab := false
		if i := strings.IndexByte(text, '\t'); i != -1 {
			next, text = text[:i], text[i+1:]
			haveTab = true
		} else {
			text = ""
		}

		column += uniseg.StringWidth(next)

		if haveTab {
			column += tabstopWidth - (column % tabstopWidth)
		}
	}
	return column
}
