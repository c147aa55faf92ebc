package cursor

import (
	"testing"

	"vexlayout/pkg/dom"
)

// sections parses two sections, each holding a paragraph with text and an
// empty paragraph:
//
//	section0 2..18: para 3..15 (text 4..14), empty para 16..17
//	section1 19..35: para 20..32 (text 21..31), empty para 33..34
func sections(t *testing.T) *dom.Document {
	t.Helper()
	doc, err := dom.Parse(`<doc><section><para>Hello World</para><para></para></section><section><para>Hello World</para><para></para></section></doc>`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return doc
}

type selection struct {
	start, end, caret int
}

func stateOf(s *BalancingSelector) selection {
	return selection{s.StartOffset(), s.EndOffset(), s.CaretOffset()}
}

func TestBalancingSelector(t *testing.T) {
	tests := []struct {
		name      string
		mark, end int
		want      selection
	}{
		{"forward within text", 7, 8, selection{7, 8, 8}},
		{"backward within text", 7, 6, selection{6, 7, 6}},
		{"backward over paragraph start", 4, 3, selection{3, 16, 3}},
		{"forward over paragraph end", 15, 16, selection{3, 16, 16}},
		{"into empty paragraph", 16, 17, selection{16, 18, 18}},
		{"backward into previous section", 25, 19, selection{19, 36, 19}},
		{"forward into empty paragraph", 7, 17, selection{3, 18, 18}},
		{"backward from empty paragraph", 34, 32, selection{20, 35, 20}},
		{"forward over paragraph start", 3, 4, selection{3, 16, 16}},
		{"text of one paragraph", 15, 4, selection{4, 15, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewBalancingSelector(sections(t))
			s.SetMark(tt.mark)
			s.MoveEndTo(tt.end)
			if got := stateOf(s); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
			if !s.IsActive() {
				t.Errorf("expected an active selection")
			}
		})
	}
}

func TestBalancingSelectorAbsoluteEnd(t *testing.T) {
	s := NewBalancingSelector(sections(t))
	s.SetMark(7)
	s.MoveEndTo(17)
	s.SetEndAbsoluteTo(17)
	if got, want := stateOf(s), (selection{3, 18, 18}); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestBalancingSelectorCrossingBack(t *testing.T) {
	s := NewBalancingSelector(sections(t))
	s.SetMark(34)
	s.MoveEndTo(32)
	s.MoveEndTo(19)
	if got, want := stateOf(s), (selection{19, 36, 19}); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if got, want := s.Range(), dom.NewRange(19, 35); got != want {
		t.Errorf("expected range %v, got %v", want, got)
	}
}

func TestBalancingSelectorShrinksToNothing(t *testing.T) {
	s := NewBalancingSelector(sections(t))
	s.SetMark(3)
	s.MoveEndTo(4)
	s.MoveEndTo(3)
	if s.IsActive() {
		t.Errorf("expected no selection, got %+v", stateOf(s))
	}
}

func TestBalancingSelectorMark(t *testing.T) {
	s := NewBalancingSelector(sections(t))
	s.SetMark(9)
	if s.IsActive() || s.Mark() != 9 || s.CaretOffset() != 9 {
		t.Errorf("expected an inactive selection at 9, got %+v", stateOf(s))
	}
	s.SetDocument(sections(t))
	if s.Mark() != 0 {
		t.Errorf("expected a new document to reset the mark, got %d", s.Mark())
	}
}
