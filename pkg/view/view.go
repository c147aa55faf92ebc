// Package view ties a document to its box tree, the cursor moving through
// it, and the edits applied to it.
package view

import (
	"log"
	"sync"

	"vexlayout/pkg/boxes"
	"vexlayout/pkg/css"
	"vexlayout/pkg/cursor"
	"vexlayout/pkg/dom"
	"vexlayout/pkg/geom"
	"vexlayout/pkg/graphics"
	"vexlayout/pkg/images"
	"vexlayout/pkg/visualization"
)

const DefaultWidth = 800

// Option configures a View.
type Option func(*View)

// WithWidth sets the layout width in pixels.
func WithWidth(width int) Option {
	return func(v *View) { v.width = width }
}

// WithGraphics sets the context used to measure during layout and cursor
// moves. The default is the headless graphics.Fake.
func WithGraphics(g graphics.Graphics) Option {
	return func(v *View) { v.g = g }
}

func WithLogger(logger *log.Logger) Option {
	return func(v *View) { v.logger = logger }
}

// WithOverwrite starts the cursor in overwrite mode.
func WithOverwrite(overwrite bool) Option {
	return func(v *View) { v.overwrite = overwrite }
}

// WithImages sets the cache images referenced by the styles load from.
func WithImages(cache *images.Cache) Option {
	return func(v *View) { v.images = cache }
}

// View owns the box tree of one document. All methods are safe for
// concurrent use; a renderer may paint while edits are applied, it only
// ever sees a settled tree.
type View struct {
	mu sync.Mutex

	doc      *dom.Document
	styles   *css.Resolver
	builder  *visualization.CSSBasedBuilder
	root     *boxes.RootBox
	topology *cursor.ContentTopology
	selector *cursor.BalancingSelector
	cursor   *cursor.Cursor

	g         graphics.Graphics
	images    *images.Cache
	logger    *log.Logger
	width     int
	overwrite bool

	laidOut bool
	changes []dom.Change
}

func New(doc *dom.Document, styles *css.Resolver, opts ...Option) *View {
	v := &View{doc: doc, styles: styles, width: DefaultWidth}
	for _, opt := range opts {
		opt(v)
	}
	if v.g == nil {
		v.g = graphics.NewFake()
	}
	v.builder = visualization.NewCSSBasedBuilder(styles, v.images)
	v.builder.Logger = v.logger
	v.root = v.builder.VisualizeRoot(doc)
	v.topology = cursor.NewContentTopology(v.root)
	v.selector = cursor.NewBalancingSelector(doc)
	v.cursor = cursor.New(v.topology, v.selector)
	v.cursor.Overwrite = v.overwrite
	doc.AddChangeListener(func(c dom.Change) { v.changes = append(v.changes, c) })
	return v
}

func (v *View) logf(format string, args ...any) {
	if v.logger != nil {
		v.logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

func (v *View) Document() *dom.Document { return v.doc }

// Graphics returns the measuring context of the view.
func (v *View) Graphics() graphics.Graphics { return v.g }

func (v *View) Width() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width
}

// SetWidth changes the layout width. The next Layout lays out the whole
// tree again.
func (v *View) SetWidth(width int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if width == v.width {
		return
	}
	v.width = width
	v.laidOut = false
}

// Height is the height of the laid out tree.
func (v *View) Height() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ensureLayout()
	return v.root.Height()
}

// Size returns the layout width and the height of the tree laid out at
// that width, read together.
func (v *View) Size() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ensureLayout()
	return v.width, v.root.Height()
}

// Layout lays out the tree if the width changed since the last layout.
func (v *View) Layout() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ensureLayout()
}

// Relayout rebuilds the whole tree from the document and lays it out.
func (v *View) Relayout() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rebuild()
}

func (v *View) ensureLayout() {
	if v.laidOut {
		return
	}
	v.root.SetWidth(v.width)
	v.root.Layout(v.g)
	v.laidOut = true
}

func (v *View) rebuild() {
	v.styles.Flush()
	v.root = v.builder.VisualizeRoot(v.doc)
	v.topology.SetRootBox(v.root)
	v.laidOut = false
	v.ensureLayout()
}

// Paint draws the tree, the selection and the caret with the origin of g
// at the top left corner of the tree.
func (v *View) Paint(g graphics.Graphics) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ensureLayout()
	v.root.Paint(g)
	v.cursor.Paint(g)
}

// PaintSized paints onto the graphics newGraphics creates for the current
// size. A concurrent SetWidth takes effect either before or after, never
// between sizing and painting.
func (v *View) PaintSized(newGraphics func(width, height int) graphics.Graphics) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ensureLayout()
	g := newGraphics(v.width, v.root.Height())
	v.root.Paint(g)
	v.cursor.Paint(g)
}

// Dump returns the indented outline of the box tree.
func (v *View) Dump() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ensureLayout()
	return boxes.Dump(v.root)
}

// BoxAt returns the innermost content box at the absolute point.
func (v *View) BoxAt(x, y int) boxes.ContentBox {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ensureLayout()
	return v.topology.FindBoxForCoordinates(x, y)
}

// BoxForOffset returns the content box owning offset.
func (v *View) BoxForOffset(offset int) boxes.ContentBox {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ensureLayout()
	return v.topology.FindBoxForPosition(offset)
}

// BoxForRange returns the innermost content box covering r.
func (v *View) BoxForRange(r dom.Range) boxes.ContentBox {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ensureLayout()
	return v.topology.FindBoxForRange(r)
}

// CaretArea is the absolute hot area of the caret.
func (v *View) CaretArea() geom.Rectangle {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ensureLayout()
	if caret := v.cursor.Caret(v.g); caret != nil {
		return caret.HotArea()
	}
	return geom.NullRectangle
}

// Offset is the caret offset.
func (v *View) Offset() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cursor.Offset()
}

// Selection returns the selected range, if any.
func (v *View) Selection() (dom.Range, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.cursor.HasSelection() {
		return dom.Range{}, false
	}
	return v.cursor.SelectedRange(), true
}

func (v *View) SetOverwrite(overwrite bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cursor.Overwrite = overwrite
}

// AddPositionListener registers fn for caret movements. It is called with
// the view locked and must not call back into the view.
func (v *View) AddPositionListener(fn func(offset int)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cursor.AddPositionListener(fn)
}

// Move applies m and drops the selection.
func (v *View) Move(m cursor.Move) cursor.MoveResult {
	return v.apply(m, false)
}

// Select applies m extending the selection.
func (v *View) Select(m cursor.Move) cursor.MoveResult {
	return v.apply(m, true)
}

func (v *View) apply(m cursor.Move, selecting bool) cursor.MoveResult {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ensureLayout()
	if selecting {
		v.cursor.Select(m)
	} else {
		v.cursor.Move(m)
	}
	results := v.cursor.ApplyMoves(v.g)
	if len(results) == 0 {
		return cursor.AtBoundary
	}
	return results[len(results)-1]
}
