package dom

import (
	"fmt"
	"strings"
)

// IncludeElementName is the element name read as an IncludeNode.
const IncludeElementName = "xi:include"

// ParseOption configures Parse.
type ParseOption func(*parser)

// WithPreserveWhitespace makes text inside elements for which preserve
// returns true keep its whitespace verbatim. All other text is collapsed;
// whitespace-only runs between tags are dropped unless they separate two
// nodes on one line.
func WithPreserveWhitespace(preserve func(elementName string) bool) ParseOption {
	return func(p *parser) { p.preserve = preserve }
}

// WithValidator attaches v to the parsed document. Parsing itself does not
// validate.
func WithValidator(v Validator) ParseOption {
	return func(p *parser) { p.validator = v }
}

type parser struct {
	preserve  func(string) bool
	validator Validator
	doc       *Document
	stack     []Node
	preDepth  int
	pending   []Token
}

// Parse builds a Document from markup. The first element becomes the root;
// comments and processing instructions before it are kept at document level.
func Parse(input string, opts ...ParseOption) (*Document, error) {
	p := &parser{preserve: func(string) bool { return false }}
	for _, opt := range opts {
		opt(p)
	}
	tokenizer := NewTokenizer(input)
	for {
		token, err := tokenizer.NextToken()
		if err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
		if token.Type == TokenEOF {
			break
		}
		if err := p.handle(token); err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
	}
	if p.doc == nil {
		return nil, fmt.Errorf("parse: no root element")
	}
	if len(p.stack) > 0 {
		return nil, fmt.Errorf("parse: unclosed element %q", StartMarker(p.stack[len(p.stack)-1]))
	}
	p.doc.SetValidator(p.validator)
	return p.doc, nil
}

func (p *parser) current() Node {
	if len(p.stack) == 0 {
		return p.doc
	}
	return p.stack[len(p.stack)-1]
}

func (p *parser) handle(token Token) error {
	if p.doc == nil {
		if token.Type != TokenStartTag {
			// Only nodes allowed before the root are kept until it exists.
			if token.Type == TokenComment || token.Type == TokenProcessingInstruction {
				p.pending = append(p.pending, token)
			}
			return nil
		}
		p.doc = NewDocument(token.TagName)
		for _, pending := range p.pending {
			if err := p.appendLeaf(p.doc, p.doc.RootElement().StartOffset(), pending); err != nil {
				return err
			}
		}
		p.pending = nil
		root := p.doc.RootElement()
		for _, a := range token.Attributes {
			root.SetAttribute(a.Name, a.Value)
		}
		if !token.SelfClosing {
			p.push(root)
		}
		return nil
	}

	parent := p.current()
	switch token.Type {
	case TokenStartTag:
		if parent == nil {
			// Inside an include element: content is ignored.
			if !token.SelfClosing {
				p.push(nil)
			}
			return nil
		}
		if _, ok := parent.(*Element); !ok {
			return fmt.Errorf("element %q after the root element", token.TagName)
		}
		if token.TagName == IncludeElementName {
			if _, err := p.doc.insertInclude(parent.EndOffset(), token.Attributes); err != nil {
				return err
			}
			if !token.SelfClosing {
				p.push(nil)
			}
			return nil
		}
		el := &Element{name: token.TagName, attributes: token.Attributes}
		p.doc.attach(parent.(container), el, parent.EndOffset())
		if !token.SelfClosing {
			p.push(el)
		}
	case TokenEndTag:
		if len(p.stack) == 0 {
			return fmt.Errorf("unexpected end tag %q", token.TagName)
		}
		top := p.stack[len(p.stack)-1]
		if el, ok := top.(*Element); ok && el.Name() != token.TagName {
			return fmt.Errorf("end tag %q does not match %q", token.TagName, el.Name())
		}
		p.pop()
	case TokenText:
		if parent == nil {
			// Inside an include element: content is ignored.
			return nil
		}
		if _, ok := parent.(*Element); !ok {
			if strings.TrimSpace(token.Text) == "" {
				return nil
			}
			return fmt.Errorf("text outside the root element")
		}
		text := token.Text
		if p.preDepth == 0 {
			if strings.TrimSpace(text) == "" && !followsSibling(parent.(container), text) {
				return nil
			}
			text = normalizeWhitespace(text)
		}
		p.doc.content.InsertText(parent.EndOffset(), text)
	case TokenComment, TokenProcessingInstruction:
		if parent == nil {
			return nil
		}
		return p.appendLeaf(parent.(container), parent.EndOffset(), token)
	}
	return nil
}

func (p *parser) appendLeaf(parent container, offset int, token Token) error {
	var n Node
	switch token.Type {
	case TokenComment:
		n = &Comment{}
	case TokenProcessingInstruction:
		n = &ProcessingInstruction{target: token.TagName}
	default:
		return nil
	}
	p.doc.attach(parent, n, offset)
	if token.Text != "" {
		p.doc.content.InsertText(n.EndOffset(), token.Text)
	}
	return nil
}

// followsSibling reports whether a whitespace-only run directly follows a
// sibling node on the same line, as the space in "<b>x</b> <i>y</i>" does.
// Runs holding a line break are indentation.
func followsSibling(parent container, space string) bool {
	if strings.ContainsAny(space, "\r\n") {
		return false
	}
	children := *parent.childList()
	if len(children) == 0 {
		return false
	}
	return children[len(children)-1].EndOffset() == parent.EndOffset()-1
}

func (p *parser) push(n Node) {
	p.stack = append(p.stack, n)
	if el, ok := n.(*Element); ok && (p.preDepth > 0 || p.preserve(el.Name())) {
		p.preDepth++
	}
}

func (p *parser) pop() {
	n := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	if _, ok := n.(*Element); ok && p.preDepth > 0 {
		p.preDepth--
	}
}
