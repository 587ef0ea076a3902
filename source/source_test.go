package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emberlang/ember/source"
)

func TestSpan_TextReturnsCoveredSlice(t *testing.T) {
	idx := source.NewIndex(source.File{Path: "t", Text: "hello world"})
	span := idx.Span(6, 11)
	assert.Equal(t, "world", span.Text())
}

func TestSpan_JoinTakesMinStartMaxEnd(t *testing.T) {
	idx := source.NewIndex(source.File{Path: "t", Text: "0123456789"})
	a := idx.Span(2, 5)
	b := idx.Span(3, 8)
	joined := source.Join(a, b)
	assert.Equal(t, 2, joined.Start)
	assert.Equal(t, 8, joined.End)
}

func TestSpan_JoinIgnoresZeroSideWithNoFile(t *testing.T) {
	idx := source.NewIndex(source.File{Path: "t", Text: "0123456789"})
	real := idx.Span(2, 5)
	var zero source.Span
	assert.Equal(t, real, source.Join(real, zero))
	assert.Equal(t, real, source.Join(zero, real))
}

func TestSpan_Synthetic(t *testing.T) {
	idx := source.NewIndex(source.File{Path: "t", Text: "abc"})
	real := idx.Span(1, 2)
	assert.False(t, real.Synthetic())
	synth := source.Synthesize(real)
	assert.True(t, synth.Synthetic())
	assert.Equal(t, real.Start, synth.Start)
	assert.Equal(t, real.Start, synth.End)
}

func TestIndex_SearchLineAndColumn(t *testing.T) {
	idx := source.NewIndex(source.File{Path: "t", Text: "ab\ncd\nef"})
	pos := idx.Search(4) // 'd' on line 2
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 2, pos.Column)
	assert.Equal(t, 4, pos.Offset)
}

func TestIndex_SearchFirstLine(t *testing.T) {
	idx := source.NewIndex(source.File{Path: "t", Text: "abc\ndef"})
	pos := idx.Search(0)
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, 1, pos.Column)
}

// Columns account for grapheme-cluster display width, not byte count: a
// multi-byte emoji advances the column by its display width (spec.md §3
// grounds column tracking on uniseg).
func TestIndex_SearchGraphemeAwareColumn(t *testing.T) {
	// "a" + family emoji (multi-codepoint grapheme cluster) + "b"
	text := "a\U0001F468‍\U0001F469‍\U0001F467b"
	idx := source.NewIndex(source.File{Path: "t", Text: text})
	offsetOfB := len(text) - 1
	pos := idx.Search(offsetOfB)
	assert.Equal(t, 1, pos.Line)
	// column 1 is 'a', column 2 is the whole family grapheme cluster
	// (uniseg counts it as a double-wide cluster), 'b' starts after it.
	assert.Greater(t, pos.Column, 2)
}

func TestIndex_SearchHonorsTabstops(t *testing.T) {
	idx := source.NewIndex(source.File{Path: "t", Text: "\tx"})
	pos := idx.Search(1) // the character right after the tab
	assert.Equal(t, 5, pos.Column)
}

func TestPosition_ZeroSentinel(t *testing.T) {
	var p source.Position
	assert.True(t, p.Zero())
	p.Line = 1
	assert.False(t, p.Zero())
}

func TestSpan_StringOnSyntheticSpanHasNoFile(t *testing.T) {
	var s source.Span
	assert.Contains(t, s.String(), "synthetic")
}
