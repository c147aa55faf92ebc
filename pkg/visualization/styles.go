package visualization

import (
	"vexlayout/pkg/boxes"
	"vexlayout/pkg/css"
)

func textStyle(styles *css.Styles) boxes.TextStyle {
	return boxes.TextStyle{Font: styles.Font, Color: styles.Color, LineHeight: styles.LineHeight}
}

func newParagraph(styles *css.Styles) *boxes.Paragraph {
	p := boxes.NewParagraph()
	p.TextAlign = styles.TextAlign
	return p
}

// structuralFrame wraps content into a frame if the styles decorate it.
func structuralFrame(content boxes.StructuralBox, styles *css.Styles) boxes.StructuralBox {
	if !styles.HasBoxDecoration() {
		return content
	}
	f := boxes.NewStructuralFrame(content)
	f.Margin, f.Border, f.Padding = styles.Margin, styles.Border, styles.Padding
	f.BackgroundColor = styles.BackgroundColor
	return f
}

func inlineFrame(content boxes.InlineBox, styles *css.Styles) boxes.InlineBox {
	if !styles.HasBoxDecoration() {
		return content
	}
	f := boxes.NewInlineFrame(content)
	f.Margin, f.Border, f.Padding = styles.Margin, styles.Border, styles.Padding
	f.BackgroundColor = styles.BackgroundColor
	return f
}

var bulletTypes = map[css.ListStyleType]boxes.BulletType{
	css.ListStyleDisc:               boxes.BulletDisc,
	css.ListStyleCircle:             boxes.BulletCircle,
	css.ListStyleSquare:             boxes.BulletSquare,
	css.ListStyleDecimal:            boxes.BulletDecimal,
	css.ListStyleDecimalLeadingZero: boxes.BulletDecimalLeadingZero,
	css.ListStyleLowerAlpha:         boxes.BulletLowerAlpha,
	css.ListStyleUpperAlpha:         boxes.BulletUpperAlpha,
	css.ListStyleLowerRoman:         boxes.BulletLowerRoman,
	css.ListStyleUpperRoman:         boxes.BulletUpperRoman,
	css.ListStyleNone:               boxes.BulletNone,
}

func bulletStyle(styles *css.Styles) boxes.BulletStyle {
	return boxes.BulletStyle{Type: bulletTypes[styles.ListStyleType], Text: textStyle(styles)}
}
