package cursor

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"vexlayout/pkg/boxes"
	"vexlayout/pkg/dom"
	"vexlayout/pkg/geom"
	"vexlayout/pkg/graphics"
)

// MoveResult tells how a move ended.
type MoveResult int

const (
	// Moved means the move found its target.
	Moved MoveResult = iota
	// AtBoundary means there is no further content in the direction of the
	// move; the offset did not change.
	AtBoundary
	// NoNeighbour means no box was found in the direction of the move and
	// the caret fell back to the enclosing node.
	NoNeighbour
)

func (r MoveResult) String() string {
	switch r {
	case Moved:
		return "moved"
	case AtBoundary:
		return "at boundary"
	case NoNeighbour:
		return "no neighbour"
	}
	return "unknown"
}

// State is what a move sees of the cursor.
type State struct {
	Graphics   graphics.Graphics
	Topology   *ContentTopology
	Offset     int
	Box        boxes.ContentBox
	HotArea    geom.Rectangle
	PreferredX int
}

// Move computes the next caret offset.
type Move interface {
	CalculateNewOffset(s State) (int, MoveResult)
	// PreferX reports whether the caret position after the move becomes
	// the new preferred horizontal position.
	PreferX() bool
}

type MoveLeft struct{}

func (MoveLeft) CalculateNewOffset(s State) (int, MoveResult) {
	if s.Offset <= s.Topology.FirstOffset() {
		return s.Topology.FirstOffset(), AtBoundary
	}
	return s.Offset - 1, Moved
}

func (MoveLeft) PreferX() bool { return true }

type MoveRight struct{}

func (MoveRight) CalculateNewOffset(s State) (int, MoveResult) {
	if s.Offset >= s.Topology.LastOffset() {
		return s.Topology.LastOffset(), AtBoundary
	}
	return s.Offset + 1, Moved
}

func (MoveRight) PreferX() bool { return true }

type MoveToDocumentStart struct{}

func (MoveToDocumentStart) CalculateNewOffset(s State) (int, MoveResult) {
	return boundaryMove(s.Offset, s.Topology.FirstOffset())
}

func (MoveToDocumentStart) PreferX() bool { return true }

type MoveToDocumentEnd struct{}

func (MoveToDocumentEnd) CalculateNewOffset(s State) (int, MoveResult) {
	return boundaryMove(s.Offset, s.Topology.LastOffset())
}

func (MoveToDocumentEnd) PreferX() bool { return true }

func boundaryMove(from, to int) (int, MoveResult) {
	if from == to {
		return to, AtBoundary
	}
	return to, Moved
}

// MoveToOffset puts the caret on Offset, clamped to the document.
type MoveToOffset struct {
	Offset int
}

func (m MoveToOffset) CalculateNewOffset(s State) (int, MoveResult) {
	return min(max(m.Offset, s.Topology.FirstOffset()), s.Topology.LastOffset()), Moved
}

func (MoveToOffset) PreferX() bool { return true }

// MoveToLineStart goes to the first offset of the line of the caret.
type MoveToLineStart struct{}

func (MoveToLineStart) CalculateNewOffset(s State) (int, MoveResult) {
	line := lineOf(s.Box)
	if len(line) == 0 {
		return s.Offset, AtBoundary
	}
	return boundaryMove(s.Offset, line[0].StartOffset())
}

func (MoveToLineStart) PreferX() bool { return true }

// MoveToLineEnd goes to the last offset of the line of the caret. On the
// last line of a node this is the end of the node.
type MoveToLineEnd struct{}

func (MoveToLineEnd) CalculateNewOffset(s State) (int, MoveResult) {
	line := lineOf(s.Box)
	if len(line) == 0 {
		return s.Offset, AtBoundary
	}
	last := line[len(line)-1]
	end := last.EndOffset()
	if text, ok := last.(*boxes.TextContent); ok {
		if parent := boxes.ParentContentBox(text); parent == nil || end == parent.EndOffset()-1 {
			end++
		}
	}
	return boundaryMove(s.Offset, end)
}

func (MoveToLineEnd) PreferX() bool { return true }

// lineOf returns the leaf content boxes on the paragraph line holding b.
func lineOf(b boxes.Box) []boxes.ContentBox {
	if b == nil {
		return nil
	}
	var child boxes.Box = b
	for p := b.Parent(); p != nil; child, p = p, p.Parent() {
		paragraph, ok := p.(*boxes.Paragraph)
		if !ok {
			continue
		}
		i := paragraph.LineOf(child)
		if i < 0 {
			return nil
		}
		var leaves []boxes.ContentBox
		for _, inline := range paragraph.Lines()[i].Boxes {
			collectLeaves(inline, nil, func(c boxes.ContentBox) { leaves = append(leaves, c) })
		}
		return leaves
	}
	return nil
}

// MoveToNextWord goes to the start of the next word within the text run of
// the caret, then to the end of the run, then past the boundary after it.
type MoveToNextWord struct{}

func (MoveToNextWord) CalculateNewOffset(s State) (int, MoveResult) {
	if s.Offset >= s.Topology.LastOffset() {
		return s.Offset, AtBoundary
	}
	content := contentOf(s)
	if content == nil || content.IsTagMarker(s.Offset) {
		return s.Offset + 1, Moved
	}
	run := textRun(content, s.Offset)
	for _, start := range wordStarts(content, run) {
		if start > s.Offset {
			return start, Moved
		}
	}
	return run.End + 1, Moved
}

func (MoveToNextWord) PreferX() bool { return true }

// MoveToPreviousWord goes to the start of the word before the caret, then
// to the start of the text run, then before the boundary in front of it.
type MoveToPreviousWord struct{}

func (MoveToPreviousWord) CalculateNewOffset(s State) (int, MoveResult) {
	if s.Offset <= s.Topology.FirstOffset() {
		return s.Offset, AtBoundary
	}
	content := contentOf(s)
	if content == nil || content.IsTagMarker(s.Offset-1) {
		return s.Offset - 1, Moved
	}
	run := textRun(content, s.Offset-1)
	starts := wordStarts(content, run)
	for i := len(starts) - 1; i >= 0; i-- {
		if starts[i] < s.Offset {
			return starts[i], Moved
		}
	}
	return run.Start, Moved
}

func (MoveToPreviousWord) PreferX() bool { return true }

func contentOf(s State) *dom.Content {
	if s.Box != nil {
		return s.Box.Content()
	}
	if outmost := s.Topology.OutmostContentBox(); outmost != nil {
		return outmost.Content()
	}
	return nil
}

// textRun returns the range of text between the tag markers around offset.
func textRun(content *dom.Content, offset int) dom.Range {
	start, end := offset, offset
	for start > 0 && !content.IsTagMarker(start-1) {
		start--
	}
	for end < content.Length()-1 && !content.IsTagMarker(end+1) {
		end++
	}
	return dom.NewRange(start, end)
}

// wordStarts returns the offsets at which words begin within run, using
// Unicode word segmentation.
func wordStarts(content *dom.Content, run dom.Range) []int {
	var starts []int
	text := content.Text(run)
	offset := run.Start
	state := -1
	for text != "" {
		var word string
		word, text, state = uniseg.FirstWordInString(text, state)
		if r, _ := utf8.DecodeRuneInString(word); unicode.IsLetter(r) || unicode.IsDigit(r) {
			starts = append(starts, offset)
		}
		offset += utf8.RuneCountInString(word)
	}
	return starts
}

// MovePageDown goes down by Height pixels at the preferred horizontal
// position.
type MovePageDown struct {
	Height int
}

func (m MovePageDown) CalculateNewOffset(s State) (int, MoveResult) {
	return movePage(s, m.Height)
}

func (MovePageDown) PreferX() bool { return false }

// MovePageUp goes up by Height pixels at the preferred horizontal position.
type MovePageUp struct {
	Height int
}

func (m MovePageUp) CalculateNewOffset(s State) (int, MoveResult) {
	return movePage(s, -m.Height)
}

func (MovePageUp) PreferX() bool { return false }

func movePage(s State, dy int) (int, MoveResult) {
	y := s.HotArea.Y + s.HotArea.Height/2 + dy
	box := s.Topology.FindClosestBoxByCoordinates(s.PreferredX, y)
	if box == nil {
		return s.Offset, AtBoundary
	}
	offset := landOn(s.Graphics, box, s.PreferredX, y)
	if offset == s.Offset {
		return offset, AtBoundary
	}
	return offset, Moved
}

// landOn maps the absolute point to an offset of box: the start of an
// empty box, otherwise the offset under the point clamped into the box.
func landOn(g graphics.Graphics, box boxes.ContentBox, x, y int) int {
	if box.IsEmpty() {
		return box.StartOffset()
	}
	relX := min(max(x-box.AbsoluteLeft(), 0), box.Width())
	relY := min(max(y-box.AbsoluteTop(), 0), max(box.Height()-1, 0))
	return box.OffsetForCoordinates(g, relX, relY)
}
