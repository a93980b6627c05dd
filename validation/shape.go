// Package validation turns untyped request payloads into checked values.
//
// Each DTO declares a Shape: a table of fields with a kind, a required flag and
// optional validator rules. A single Engine interprets every shape, so adding
// a DTO never needs reflection over tagged structs.
package validation

// Kind is the JSON type a field must decode to.
type Kind int

const (
	String Kind = iota
	Object
	StringList
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Object:
		return "object"
	case StringList:
		return "array"
	}
	return "unknown"
}

// Field is one row of a Shape.
//
// Rules are go-playground/validator tags applied to the whole value (for a
// StringList, to the decoded []string). ElemRules apply to each list element.
// Shape, when set on an Object field, is validated recursively in the same
// mode as the parent.
type Field struct {
	Name      string
	Kind      Kind
	Required  bool
	Rules     string
	ElemRules string
	Shape     *Shape
}

// Shape is the declarative constraint table of a DTO.
type Shape struct {
	Name   string
	Fields []Field
}

// Mode selects how required fields are treated.
type Mode int

const (
	// Strict reports every missing required field. Used on create.
	Strict Mode = iota
	// Partial lets any field be missing. Used on update.
	Partial
)

func (m Mode) String() string {
	if m == Partial {
		return "partial"
	}
	return "strict"
}
