package css

import (
	"slices"
	"strings"

	"vexlayout/pkg/dom"
)

// MatchesSelector returns true if the element matches the complex selector.
// The pseudo-element of the selector is not considered here.
func MatchesSelector(element *dom.Element, selector Selector) bool {
	if element == nil || len(selector.Parts) == 0 {
		return false
	}
	// Start matching from the rightmost part (the target element)
	return matchesCompoundSelector(element, selector, len(selector.Parts)-1)
}

// matchesCompoundSelector checks the part at partIndex against element and
// then walks left through the combinators.
func matchesCompoundSelector(element *dom.Element, selector Selector, partIndex int) bool {
	if !matchesSelectorPart(element, selector.Parts[partIndex]) {
		return false
	}
	if partIndex == 0 {
		return true
	}

	prevPartIndex := partIndex - 1
	switch selector.Combinators[prevPartIndex] {
	case DescendantCombinator:
		for ancestor := element.ParentElement(); ancestor != nil; ancestor = ancestor.ParentElement() {
			if matchesCompoundSelector(ancestor, selector, prevPartIndex) {
				return true
			}
		}
		return false
	case ChildCombinator:
		parent := element.ParentElement()
		return parent != nil && matchesCompoundSelector(parent, selector, prevPartIndex)
	case AdjacentSiblingCombinator:
		prev := previousSiblingElement(element)
		return prev != nil && matchesCompoundSelector(prev, selector, prevPartIndex)
	}
	return false
}

func matchesSelectorPart(element *dom.Element, part SelectorPart) bool {
	if part.Element != "" && part.Element != "*" {
		name := strings.ReplaceAll(part.Element, "|", ":")
		if element.Name() != name && element.LocalName() != name {
			return false
		}
	}

	if part.ID != "" {
		if id, ok := element.Attribute("id"); !ok || id != part.ID {
			return false
		}
	}

	if len(part.Classes) > 0 {
		classAttr, _ := element.Attribute("class")
		nodeClasses := strings.Fields(classAttr)
		for _, requiredClass := range part.Classes {
			if !slices.Contains(nodeClasses, requiredClass) {
				return false
			}
		}
	}

	for _, attrSel := range part.Attributes {
		if !matchesAttributeSelector(element, attrSel) {
			return false
		}
	}
	return true
}

func matchesAttributeSelector(element *dom.Element, attr AttributeSelector) bool {
	value, ok := element.Attribute(attr.Name)
	if !ok {
		return false
	}

	switch attr.Operator {
	case "":
		return true
	case "=":
		return value == attr.Value
	case "^=":
		return strings.HasPrefix(value, attr.Value)
	case "$=":
		return strings.HasSuffix(value, attr.Value)
	case "*=":
		return strings.Contains(value, attr.Value)
	case "~=":
		return slices.Contains(strings.Fields(value), attr.Value)
	}
	return false
}

func previousSiblingElement(element *dom.Element) *dom.Element {
	parent, ok := element.Parent().(dom.ParentNode)
	if !ok {
		return nil
	}
	var prev *dom.Element
	for _, sibling := range parent.ChildNodes() {
		if sibling == dom.Node(element) {
			return prev
		}
		if el, ok := sibling.(*dom.Element); ok {
			prev = el
		}
	}
	return nil
}

// FindMatchingRules returns the rules of sheet matching element for the
// given pseudo-element ("" for the element itself).
func FindMatchingRules(element *dom.Element, sheet *StyleSheet, pseudoElement string) []Rule {
	var matches []Rule
	for _, rule := range sheet.Rules {
		if rule.Selector.PseudoElement != pseudoElement {
			continue
		}
		if MatchesSelector(element, rule.Selector) {
			matches = append(matches, rule)
		}
	}
	return matches
}
