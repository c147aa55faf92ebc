package boxes

import (
	"fmt"
	"strconv"
	"strings"

	"vexlayout/pkg/graphics"
)

// bulletGap separates the bullet from the content of a list item.
const bulletGap = 6

type BulletType int

const (
	BulletDisc BulletType = iota
	BulletCircle
	BulletSquare
	BulletDecimal
	BulletDecimalLeadingZero
	BulletLowerAlpha
	BulletUpperAlpha
	BulletLowerRoman
	BulletUpperRoman
	BulletNone
)

// IsGraphical reports whether the bullet is drawn rather than written.
func (t BulletType) IsGraphical() bool {
	return t == BulletDisc || t == BulletCircle || t == BulletSquare
}

type BulletStyle struct {
	Type BulletType
	Text TextStyle
}

// BulletFactory creates the bullet of the item at index (counting from
// zero) of a list with count items. It returns nil for no bullet.
type BulletFactory func(style BulletStyle, index, count int) InlineBox

// DefaultBulletFactory draws graphical bullets as squares sized after the
// font and writes all others as text.
func DefaultBulletFactory(style BulletStyle, index, count int) InlineBox {
	switch {
	case style.Type == BulletNone:
		return nil
	case style.Type.IsGraphical():
		size := max(3, int(style.Text.Font.Size/3))
		shape := ShapeSquare
		switch style.Type {
		case BulletDisc:
			shape = ShapeDisc
		case BulletCircle:
			shape = ShapeCircle
		}
		return NewSquare(size, shape, style.Text.Color)
	}
	return NewStaticText(FormatBullet(style.Type, index, count), style.Text)
}

// FormatBullet returns the text of a numbered bullet.
func FormatBullet(t BulletType, index, count int) string {
	n := index + 1
	switch t {
	case BulletDecimal:
		return strconv.Itoa(n) + "."
	case BulletDecimalLeadingZero:
		digits := max(2, len(strconv.Itoa(count)))
		return fmt.Sprintf("%0*d.", digits, n)
	case BulletLowerAlpha:
		return strings.ToLower(alpha(n)) + "."
	case BulletUpperAlpha:
		return alpha(n) + "."
	case BulletLowerRoman:
		return strings.ToLower(roman(n)) + "."
	case BulletUpperRoman:
		return roman(n) + "."
	}
	return ""
}

// alpha numbers 1..26 as A..Z, then AA, AB and so on.
func alpha(n int) string {
	var letters []byte
	for n > 0 {
		n--
		letters = append([]byte{byte('A' + n%26)}, letters...)
		n /= 26
	}
	return string(letters)
}

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(n int) string {
	if n <= 0 || n >= 4000 {
		return strconv.Itoa(n)
	}
	var sb strings.Builder
	for _, numeral := range romanNumerals {
		for n >= numeral.value {
			sb.WriteString(numeral.symbol)
			n -= numeral.value
		}
	}
	return sb.String()
}

// List numbers the list items below its component and gives all of them
// a common bullet column.
type List struct {
	base
	component StructuralBox

	BulletStyle   BulletStyle
	BulletFactory BulletFactory
}

func NewList(component StructuralBox, style BulletStyle) *List {
	l := &List{BulletStyle: style}
	if component != nil {
		l.SetComponent(component)
	}
	return l
}

func (l *List) SetWidth(width int) { l.width = max(0, width) }

func (l *List) Component() StructuralBox { return l.component }

func (l *List) SetComponent(component StructuralBox) {
	adopt(l, component)
	l.component = component
}

// Items returns the items of this list; items of nested lists are left out.
func (l *List) Items() []*ListItem {
	var items []*ListItem
	Walk(l.component, func(b Box) bool {
		switch b := b.(type) {
		case *ListItem:
			items = append(items, b)
			return false
		case *List:
			return false
		}
		return true
	})
	return items
}

func (l *List) Layout(g graphics.Graphics) {
	if l.component == nil {
		l.height = 0
		return
	}
	factory := l.BulletFactory
	if factory == nil {
		factory = DefaultBulletFactory
	}
	items := l.Items()
	column := -1
	for i, item := range items {
		bullet := factory(l.BulletStyle, i, len(items))
		item.SetBullet(bullet)
		if bullet != nil {
			bullet.SetMaxWidth(l.width)
			bullet.Layout(g)
			column = max(column, bullet.Width())
		}
	}
	for _, item := range items {
		item.bulletColumn = 0
		if column >= 0 {
			item.bulletColumn = column + bulletGap
		}
	}

	l.component.SetPosition(0, 0)
	l.component.SetWidth(l.width)
	l.component.Layout(g)
	l.height = l.component.Height()
}

func (l *List) ReconcileLayout(g graphics.Graphics) []Box {
	old := l.height
	if l.component != nil {
		l.height = l.component.Height()
	}
	return invalidateParentIf(l, old != l.height)
}

func (l *List) Paint(g graphics.Graphics) {
	if l.component != nil {
		paintChild(g, l.component)
	}
}

func (l *List) Accept(v Visitor) { v.VisitList(l) }

// ListItem places its bullet in a column left of its content, on the
// baseline of the first line of the content.
type ListItem struct {
	base
	bullet       InlineBox
	component    StructuralBox
	bulletColumn int
}

func NewListItem(component StructuralBox) *ListItem {
	li := &ListItem{}
	if component != nil {
		li.SetComponent(component)
	}
	return li
}

func (li *ListItem) SetWidth(width int) { li.width = max(0, width) }

func (li *ListItem) Bullet() InlineBox { return li.bullet }

func (li *ListItem) SetBullet(bullet InlineBox) {
	if li.bullet != nil {
		release(li.bullet)
	}
	li.bullet = nil
	if bullet != nil {
		adopt(li, bullet)
		li.bullet = bullet
	}
}

func (li *ListItem) Component() StructuralBox { return li.component }

func (li *ListItem) SetComponent(component StructuralBox) {
	adopt(li, component)
	li.component = component
}

func (li *ListItem) Layout(g graphics.Graphics) {
	column := li.bulletColumn
	if li.bullet != nil {
		li.bullet.SetMaxWidth(li.width)
		li.bullet.Layout(g)
		if column == 0 {
			column = li.bullet.Width() + bulletGap
		}
	}
	if li.component != nil {
		li.component.SetPosition(0, column)
		li.component.SetWidth(li.width - column)
		li.component.Layout(g)
	}
	li.arrange(column)
}

func (li *ListItem) arrange(column int) {
	li.height = 0
	if li.component != nil {
		li.height = li.component.Height()
	}
	if li.bullet == nil {
		return
	}
	baseline := li.bullet.Baseline()
	if first, ok := li.firstBaseline(); ok {
		baseline = first
	}
	top := max(0, baseline-li.bullet.Baseline())
	li.bullet.SetPosition(top, column-bulletGap-li.bullet.Width())
	li.height = max(li.height, top+li.bullet.Height())
}

// firstBaseline returns the baseline of the first line of the content,
// relative to the item.
func (li *ListItem) firstBaseline() (int, bool) {
	found := FindFirst(li.component, func(b Box) bool {
		p, ok := b.(*Paragraph)
		return ok && len(p.lines) > 0
	})
	if found == nil {
		return 0, false
	}
	p := found.(*Paragraph)
	return p.AbsoluteTop() - li.AbsoluteTop() + p.lines[0].Top + p.lines[0].Baseline, true
}

func (li *ListItem) ReconcileLayout(g graphics.Graphics) []Box {
	old := li.height
	column := li.bulletColumn
	if column == 0 && li.bullet != nil {
		column = li.bullet.Width() + bulletGap
	}
	li.arrange(column)
	return invalidateParentIf(li, old != li.height)
}

func (li *ListItem) Paint(g graphics.Graphics) {
	if li.bullet != nil {
		paintChild(g, li.bullet)
	}
	if li.component != nil {
		paintChild(g, li.component)
	}
}

func (li *ListItem) Accept(v Visitor) { v.VisitListItem(li) }
