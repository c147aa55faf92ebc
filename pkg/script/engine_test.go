package script

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dop251/goja"

	"vexlayout/pkg/css"
	"vexlayout/pkg/dom"
	"vexlayout/pkg/view"
)

func newEngine(t *testing.T) (*Engine, *view.View, *bytes.Buffer) {
	t.Helper()
	doc, err := dom.Parse(`<root><block>line1 line2 line3</block><block>line1 line2 line3</block></root>`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	resolver := css.NewResolver(css.ScreenDevice, css.MustParseStyleSheet(`root, block { display: block }`))
	v := view.New(doc, resolver, view.WithWidth(36))
	var out bytes.Buffer
	return New(v, WithOutput(&out, &out)), v, &out
}

func TestConsole(t *testing.T) {
	engine, _, out := newEngine(t)
	if err := engine.Run(`console.log("length", document.length()); console.warn("careful")`); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "length 42\nWARN: careful\n" {
		t.Errorf("unexpected console output %q", got)
	}
}

func TestCursorNavigation(t *testing.T) {
	engine, v, _ := newEngine(t)
	err := engine.Run(`
		cursor.moveTo(3);
		var seen = [];
		for (var i = 0; i < 4; i++) {
			cursor.moveDown();
			seen.push(cursor.offset);
		}
		if (seen.join(",") !== "9,15,21,22") throw new Error("unexpected offsets: " + seen);
		if (cursor.moveUp() !== "moved") throw new Error("expected a move up");
	`)
	if err != nil {
		t.Fatal(err)
	}
	if v.Offset() != 21 {
		t.Errorf("expected the caret at 21, got %d", v.Offset())
	}
}

func TestCursorBoundaryResult(t *testing.T) {
	engine, _, _ := newEngine(t)
	err := engine.Run(`
		cursor.moveTo(5);
		var r = cursor.moveUp();
		if (r !== "no neighbour") throw new Error("unexpected result: " + r);
		if (cursor.offset !== 2) throw new Error("unexpected offset: " + cursor.offset);
	`)
	if err != nil {
		t.Fatal(err)
	}
}

func TestSelectionAndTyping(t *testing.T) {
	engine, v, _ := newEngine(t)
	err := engine.Run(`
		cursor.moveTo(10);
		cursor.selectTo(25);
		var s = cursor.selection();
		if (s.start !== 2 || s.end !== 39) throw new Error("unexpected selection " + s.start + ".." + s.end);
		cursor.moveTo(4);
		cursor.selectTo(7);
		cursor.type("X");
	`)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Document().RootElement().ChildNodes()[0].(*dom.Element).Text(); got != "lX1 line2 line3" {
		t.Errorf("unexpected text %q", got)
	}
}

func TestDocumentEditing(t *testing.T) {
	engine, v, _ := newEngine(t)
	err := engine.Run(`
		var el = document.insertElement(21, "block");
		if (el.start !== 21 || el.end !== 22 || el.name !== "block") throw new Error("unexpected element");
		document.insertText(22, "new");
		if (document.text(22, 24) !== "new") throw new Error("unexpected text " + document.text(22, 24));
		document.delete(2, 20);
	`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(v.Document().String(), "<block>new</block>") {
		t.Errorf("unexpected document %s", v.Document().String())
	}
}

func TestLayoutWidth(t *testing.T) {
	engine, v, _ := newEngine(t)
	if err := engine.Run(`if (layout(1000) !== 24) throw new Error("unexpected height")`); err != nil {
		t.Fatal(err)
	}
	if v.Width() != 1000 {
		t.Errorf("expected width 1000, got %d", v.Width())
	}
}

func TestEditErrorBecomesException(t *testing.T) {
	engine, _, _ := newEngine(t)
	err := engine.Run(`
		try {
			document.insertText(0, "x");
			throw new Error("expected an exception");
		} catch (e) {
			if (e.message === "expected an exception") throw e;
		}
	`)
	if err != nil {
		t.Fatal(err)
	}
}

func TestScriptError(t *testing.T) {
	engine, _, _ := newEngine(t)
	err := engine.Run(`var ok = 1;`, `undefinedFunction()`)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.HasPrefix(err.Error(), "script 1: ") {
		t.Errorf("expected the failing script index, got %v", err)
	}
	var exception *goja.Exception
	if !errors.As(err, &exception) {
		t.Errorf("expected a wrapped goja exception, got %T", errors.Unwrap(err))
	}
}

func TestMissingArguments(t *testing.T) {
	engine, _, _ := newEngine(t)
	err := engine.Run(`cursor.moveTo()`)
	if err == nil || !strings.Contains(err.Error(), "moveTo") {
		t.Errorf("expected a type error naming moveTo, got %v", err)
	}
}
