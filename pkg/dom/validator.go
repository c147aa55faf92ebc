package dom

import "slices"

// PCDATA is the pseudo element name standing for character data in a
// content model.
const PCDATA = "#PCDATA"

// Validator tells which items may occur as content of an element.
type Validator interface {
	ValidItems(element *Element) []string
}

// SchemaValidator is a Validator backed by a fixed content model table.
// Elements missing from the table accept character data only.
type SchemaValidator struct {
	model map[string][]string
}

func NewSchemaValidator(model map[string][]string) *SchemaValidator {
	return &SchemaValidator{model: model}
}

func (v *SchemaValidator) ValidItems(element *Element) []string {
	if items, ok := v.model[element.Name()]; ok {
		return items
	}
	return []string{PCDATA}
}

// CanContainText reports whether element accepts character data. Without a
// validator every element does.
func CanContainText(v Validator, element *Element) bool {
	if v == nil {
		return true
	}
	return slices.Contains(v.ValidItems(element), PCDATA)
}

// CanHaveChildren reports whether element accepts any content at all.
func CanHaveChildren(v Validator, element *Element) bool {
	if v == nil {
		return true
	}
	return len(v.ValidItems(element)) > 0
}
