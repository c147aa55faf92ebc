package css

import (
	"fmt"
	"strings"
)

type Combinator int

const (
	DescendantCombinator Combinator = iota // a b
	ChildCombinator                        // a > b
	AdjacentSiblingCombinator              // a + b
)

// SelectorPart is one compound selector: name, classes, id, attributes.
type SelectorPart struct {
	Element    string // "" or "*" matches any element
	ID         string
	Classes    []string
	Attributes []AttributeSelector
}

type AttributeSelector struct {
	Name     string
	Operator string // "", "=", "~=", "^=", "$=", "*="
	Value    string
}

// Selector is a complex selector. Parts are in document order, Combinators
// sit between them: Combinators[i] joins Parts[i] and Parts[i+1].
type Selector struct {
	Raw           string
	Parts         []SelectorPart
	Combinators   []Combinator
	PseudoElement string // "before", "after" or ""
	Specificity   int
}

// Rule is one selector with its declarations. Order is the position of the
// rule in its sheet; it breaks specificity ties.
type Rule struct {
	Selector     Selector
	Declarations map[string]string
	Order        int
}

// StyleSheet is a parsed list of rules.
type StyleSheet struct {
	Rules []Rule
}

// ParseStyleSheet parses CSS text. Malformed rules are skipped, the way a
// browser recovers from them; an error is only returned for unbalanced
// braces.
func ParseStyleSheet(css string) (*StyleSheet, error) {
	sheet := &StyleSheet{}
	css = stripComments(css)
	if strings.TrimSpace(css) == "" {
		return sheet, nil
	}

	rules, err := splitRules(css)
	if err != nil {
		return nil, err
	}
	for _, ruleStr := range rules {
		parsed, err := parseRule(ruleStr)
		if err != nil {
			continue
		}
		for _, rule := range parsed {
			rule.Order = len(sheet.Rules)
			sheet.Rules = append(sheet.Rules, rule)
		}
	}
	return sheet, nil
}

// MustParseStyleSheet is ParseStyleSheet for fixed, known-good input.
func MustParseStyleSheet(css string) *StyleSheet {
	sheet, err := ParseStyleSheet(css)
	if err != nil {
		panic(err)
	}
	return sheet
}

func stripComments(css string) string {
	var sb strings.Builder
	for {
		start := strings.Index(css, "/*")
		if start < 0 {
			sb.WriteString(css)
			return sb.String()
		}
		sb.WriteString(css[:start])
		end := strings.Index(css[start+2:], "*/")
		if end < 0 {
			return sb.String()
		}
		css = css[start+2+end+2:]
	}
}

// splitRules splits CSS into individual "selector { declarations }" chunks.
func splitRules(css string) ([]string, error) {
	var rules []string
	depth := 0
	start := 0

	for i, ch := range css {
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unexpected '}' at position %d", i)
			}
			if depth == 0 {
				ruleStr := css[start : i+1]
				if strings.TrimSpace(ruleStr) != "" {
					rules = append(rules, ruleStr)
				}
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unterminated rule")
	}
	return rules, nil
}

// parseRule parses one rule. A selector group "a, b" yields one rule per
// selector.
func parseRule(ruleStr string) ([]Rule, error) {
	bracePos := strings.Index(ruleStr, "{")
	if bracePos == -1 {
		return nil, fmt.Errorf("no opening brace found")
	}
	selectorStr := strings.TrimSpace(ruleStr[:bracePos])
	if selectorStr == "" || strings.HasPrefix(selectorStr, "@") {
		return nil, fmt.Errorf("unsupported rule %q", selectorStr)
	}

	declEnd := strings.LastIndex(ruleStr, "}")
	declarations := parseDeclarations(ruleStr[bracePos+1 : declEnd])

	var rules []Rule
	for _, s := range strings.Split(selectorStr, ",") {
		selector, err := parseSelector(s)
		if err != nil {
			return nil, err
		}
		rules = append(rules, Rule{Selector: selector, Declarations: declarations})
	}
	return rules, nil
}

// parseSelector parses a complex selector such as "section > title.big::before".
func parseSelector(selectorStr string) (Selector, error) {
	selectorStr = strings.TrimSpace(selectorStr)
	selector := Selector{Raw: selectorStr}

	if i := strings.Index(selectorStr, "::"); i >= 0 {
		selector.PseudoElement = strings.TrimSpace(selectorStr[i+2:])
		selectorStr = selectorStr[:i]
	} else if i := strings.LastIndex(selectorStr, ":"); i >= 0 {
		// CSS2 single colon pseudo-elements
		switch pseudo := strings.TrimSpace(selectorStr[i+1:]); pseudo {
		case "before", "after":
			selector.PseudoElement = pseudo
			selectorStr = selectorStr[:i]
		default:
			return Selector{}, fmt.Errorf("unsupported pseudo-class %q", pseudo)
		}
	}

	tokens := strings.Fields(strings.NewReplacer(">", " > ", "+", " + ").Replace(selectorStr))
	pendingCombinator := DescendantCombinator
	for _, token := range tokens {
		switch token {
		case ">":
			pendingCombinator = ChildCombinator
			continue
		case "+":
			pendingCombinator = AdjacentSiblingCombinator
			continue
		}
		part, err := parseSelectorPart(token)
		if err != nil {
			return Selector{}, err
		}
		if len(selector.Parts) > 0 {
			selector.Combinators = append(selector.Combinators, pendingCombinator)
		}
		selector.Parts = append(selector.Parts, part)
		pendingCombinator = DescendantCombinator
	}
	if len(selector.Parts) == 0 {
		if selector.PseudoElement == "" {
			return Selector{}, fmt.Errorf("empty selector")
		}
		selector.Parts = []SelectorPart{{Element: "*"}}
	}
	selector.Specificity = specificity(selector)
	return selector, nil
}

func parseSelectorPart(s string) (SelectorPart, error) {
	var part SelectorPart
	i := 0
	readName := func() string {
		start := i
		for i < len(s) && s[i] != '.' && s[i] != '#' && s[i] != '[' {
			i++
		}
		return s[start:i]
	}
	part.Element = readName()
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			part.Classes = append(part.Classes, readName())
		case '#':
			i++
			part.ID = readName()
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return SelectorPart{}, fmt.Errorf("unterminated attribute selector in %q", s)
			}
			part.Attributes = append(part.Attributes, parseAttributeSelector(s[i+1:i+end]))
			i += end + 1
		default:
			return SelectorPart{}, fmt.Errorf("unexpected %q in selector %q", s[i], s)
		}
	}
	return part, nil
}

func parseAttributeSelector(s string) AttributeSelector {
	for _, op := range []string{"~=", "^=", "$=", "*=", "="} {
		if i := strings.Index(s, op); i >= 0 {
			return AttributeSelector{
				Name:     strings.TrimSpace(s[:i]),
				Operator: op,
				Value:    strings.Trim(strings.TrimSpace(s[i+len(op):]), `"'`),
			}
		}
	}
	return AttributeSelector{Name: strings.TrimSpace(s)}
}

// specificity follows CSS: ids count 100, classes and attributes 10,
// element names and pseudo-elements 1.
func specificity(selector Selector) int {
	score := 0
	for _, part := range selector.Parts {
		if part.ID != "" {
			score += 100
		}
		score += 10 * (len(part.Classes) + len(part.Attributes))
		if part.Element != "" && part.Element != "*" {
			score++
		}
	}
	if selector.PseudoElement != "" {
		score++
	}
	return score
}

// parseDeclarations parses "a: b; c: d" into a property map, expanding
// shorthands.
func parseDeclarations(declStr string) map[string]string {
	style := NewStyle()
	for _, part := range splitDeclarations(declStr) {
		colonPos := strings.Index(part, ":")
		if colonPos == -1 {
			continue
		}
		property := strings.ToLower(strings.TrimSpace(part[:colonPos]))
		value := strings.TrimSpace(part[colonPos+1:])
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
		if property != "" && value != "" {
			expandShorthand(style, property, value)
		}
	}
	return style.Properties
}

// splitDeclarations splits at semicolons outside quotes, so that
// content: "a;b" survives.
func splitDeclarations(s string) []string {
	var parts []string
	var quote rune
	start := 0
	for i, ch := range s {
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == ';':
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}
