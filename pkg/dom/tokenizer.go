package dom

import (
	"fmt"
	gohtml "html"
	"strings"
	"unicode"
)

type TokenType int

const (
	TokenStartTag TokenType = iota
	TokenEndTag
	TokenText
	TokenComment
	TokenProcessingInstruction
	TokenEOF
)

type Token struct {
	Type        TokenType
	TagName     string
	Attributes  []Attribute
	Text        string
	SelfClosing bool // <tag/>
}

// Tokenizer splits XML-ish markup into tokens. Unlike an HTML tokenizer it
// keeps the case of names and reports comments and processing instructions
// instead of skipping them, since both are editable document nodes.
type Tokenizer struct {
	input string
	pos   int
}

func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: input, pos: 0}
}

func (t *Tokenizer) NextToken() (Token, error) {
	if t.pos >= len(t.input) {
		return Token{Type: TokenEOF}, nil
	}
	if t.input[t.pos] == '<' {
		return t.readTag()
	}
	return t.readText(), nil
}

func (t *Tokenizer) readTag() (Token, error) {
	t.pos++

	if strings.HasPrefix(t.input[t.pos:], "!--") {
		t.pos += 3
		end := strings.Index(t.input[t.pos:], "-->")
		if end < 0 {
			return Token{}, fmt.Errorf("unterminated comment at position %d", t.pos)
		}
		text := t.input[t.pos : t.pos+end]
		t.pos += end + 3
		return Token{Type: TokenComment, Text: text}, nil
	}

	if strings.HasPrefix(t.input[t.pos:], "![CDATA[") {
		t.pos += 8
		end := strings.Index(t.input[t.pos:], "]]>")
		if end < 0 {
			return Token{}, fmt.Errorf("unterminated CDATA section at position %d", t.pos)
		}
		text := t.input[t.pos : t.pos+end]
		t.pos += end + 3
		return Token{Type: TokenText, Text: text}, nil
	}

	if t.pos < len(t.input) && t.input[t.pos] == '?' {
		t.pos++
		target := t.readName()
		end := strings.Index(t.input[t.pos:], "?>")
		if end < 0 {
			return Token{}, fmt.Errorf("unterminated processing instruction at position %d", t.pos)
		}
		data := strings.TrimSpace(t.input[t.pos : t.pos+end])
		t.pos += end + 2
		if strings.EqualFold(target, "xml") {
			// The XML declaration is not a node.
			return t.NextToken()
		}
		return Token{Type: TokenProcessingInstruction, TagName: target, Text: data}, nil
	}

	// <!DOCTYPE ...>
	if t.pos < len(t.input) && t.input[t.pos] == '!' {
		if err := t.skipTo('>'); err != nil {
			return Token{}, err
		}
		t.pos++
		return t.NextToken()
	}

	isEndTag := false
	if t.pos < len(t.input) && t.input[t.pos] == '/' {
		isEndTag = true
		t.pos++
	}
	tagName := t.readName()
	if tagName == "" {
		return Token{}, fmt.Errorf("expected tag name at position %d", t.pos)
	}
	if isEndTag {
		if err := t.skipTo('>'); err != nil {
			return Token{}, err
		}
		t.pos++
		return Token{Type: TokenEndTag, TagName: tagName}, nil
	}
	var attributes []Attribute
	for {
		t.skipWhitespace()
		if t.pos >= len(t.input) {
			return Token{}, fmt.Errorf("unexpected EOF in tag %q", tagName)
		}
		if t.input[t.pos] == '>' {
			t.pos++
			break
		}
		if t.input[t.pos] == '/' {
			t.pos++
			t.skipWhitespace()
			if t.pos < len(t.input) && t.input[t.pos] == '>' {
				t.pos++
				return Token{Type: TokenStartTag, TagName: tagName, Attributes: attributes, SelfClosing: true}, nil
			}
			continue
		}
		name, value, err := t.readAttribute()
		if err != nil {
			return Token{}, err
		}
		attributes = append(attributes, Attribute{Name: name, Value: value})
	}
	return Token{Type: TokenStartTag, TagName: tagName, Attributes: attributes}, nil
}

func (t *Tokenizer) readName() string {
	start := t.pos
	for t.pos < len(t.input) && isNameChar(t.input[t.pos]) {
		t.pos++
	}
	return t.input[start:t.pos]
}

func (t *Tokenizer) readAttribute() (string, string, error) {
	name := t.readName()
	if name == "" {
		return "", "", fmt.Errorf("expected attribute name at position %d", t.pos)
	}
	t.skipWhitespace()
	if t.pos >= len(t.input) || t.input[t.pos] != '=' {
		return name, "", nil
	}
	t.pos++
	t.skipWhitespace()
	value, err := t.readAttributeValue()
	if err != nil {
		return "", "", err
	}
	return name, gohtml.UnescapeString(value), nil
}

func (t *Tokenizer) readAttributeValue() (string, error) {
	if t.pos >= len(t.input) {
		return "", fmt.Errorf("expected attribute value at position %d", t.pos)
	}
	quote := t.input[t.pos]
	if quote == '"' || quote == '\'' {
		t.pos++
		start := t.pos
		for t.pos < len(t.input) && t.input[t.pos] != quote {
			t.pos++
		}
		if t.pos >= len(t.input) {
			return "", fmt.Errorf("unterminated attribute value")
		}
		value := t.input[start:t.pos]
		t.pos++
		return value, nil
	}
	start := t.pos
	for t.pos < len(t.input) && !unicode.IsSpace(rune(t.input[t.pos])) && t.input[t.pos] != '>' && t.input[t.pos] != '/' {
		t.pos++
	}
	return t.input[start:t.pos], nil
}

// readText returns raw text with entities resolved. Whitespace handling is
// left to the builder, which knows whether the enclosing element preserves it.
func (t *Tokenizer) readText() Token {
	start := t.pos
	for t.pos < len(t.input) && t.input[t.pos] != '<' {
		t.pos++
	}
	return Token{Type: TokenText, Text: gohtml.UnescapeString(t.input[start:t.pos])}
}

// normalizeWhitespace collapses runs of whitespace to a single space,
// keeping one space at either boundary so that "a <b>b</b> c" keeps its
// word breaks.
func normalizeWhitespace(s string) string {
	hasLeading := len(s) > 0 && unicode.IsSpace(rune(s[0]))
	hasTrailing := len(s) > 0 && unicode.IsSpace(rune(s[len(s)-1]))

	fields := strings.Fields(s)
	if len(fields) == 0 {
		if hasLeading || hasTrailing {
			return " "
		}
		return ""
	}

	result := strings.Join(fields, " ")
	if hasLeading {
		result = " " + result
	}
	if hasTrailing {
		result = result + " "
	}
	return result
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.input) && unicode.IsSpace(rune(t.input[t.pos])) {
		t.pos++
	}
}

func (t *Tokenizer) skipTo(target byte) error {
	for t.pos < len(t.input) && t.input[t.pos] != target {
		t.pos++
	}
	if t.pos >= len(t.input) {
		return fmt.Errorf("expected '%c' but reached EOF", target)
	}
	return nil
}

func isNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' || c == ':' || c == '.'
}
