package validation

import (
	"errors"
	"strconv"

	"github.com/Maxbrain0/echo_posts/apperr"
	"github.com/go-playground/validator/v10"
)

// Engine validates payloads against shapes. It is safe for concurrent use.
type Engine struct {
	validate *validator.Validate
}

// New returns an Engine backed by a fresh validator instance.
func New() *Engine {
	return &Engine{validate: validator.New()}
}

// Validate checks payload against shape in the given mode. On success the
// returned Values contain every declared field that was present; unknown
// fields are dropped. On failure the error is an *apperr.ValidationError
// listing all violations.
func (e *Engine) Validate(shape *Shape, payload map[string]any, mode Mode) (Values, error) {
	var violations []apperr.Violation
	out := e.walk(shape, payload, mode, "", &violations)
	if len(violations) > 0 {
		return nil, &apperr.ValidationError{Violations: violations}
	}
	return out, nil
}

func (e *Engine) walk(shape *Shape, payload map[string]any, mode Mode, prefix string, violations *[]apperr.Violation) Values {
	out := make(Values, len(shape.Fields))

	for _, f := range shape.Fields {
		path := prefix + f.Name
		raw, ok := payload[f.Name]
		if !ok || raw == nil {
			if f.Required && mode == Strict {
				*violations = append(*violations, apperr.Violation{Field: path, Constraint: "required"})
			}
			continue
		}

		switch f.Kind {
		case String:
			s, ok := raw.(string)
			if !ok {
				*violations = append(*violations, apperr.Violation{Field: path, Constraint: f.Kind.String()})
				continue
			}
			if e.check(s, f.Rules, path, violations) {
				out[f.Name] = s
			}

		case Object:
			m, ok := raw.(map[string]any)
			if !ok {
				*violations = append(*violations, apperr.Violation{Field: path, Constraint: f.Kind.String()})
				continue
			}
			if f.Shape == nil {
				out[f.Name] = Values(m)
				continue
			}
			out[f.Name] = e.walk(f.Shape, m, mode, path+".", violations)

		case StringList:
			items, ok := raw.([]any)
			if !ok {
				*violations = append(*violations, apperr.Violation{Field: path, Constraint: f.Kind.String()})
				continue
			}
			if list, ok := e.stringList(f, items, path, violations); ok {
				out[f.Name] = list
			}
		}
	}

	return out
}

func (e *Engine) stringList(f Field, items []any, path string, violations *[]apperr.Violation) ([]string, bool) {
	list := make([]string, 0, len(items))
	valid := true
	for i, item := range items {
		elemPath := path + "[" + strconv.Itoa(i) + "]"
		s, ok := item.(string)
		if !ok {
			*violations = append(*violations, apperr.Violation{Field: elemPath, Constraint: String.String()})
			valid = false
			continue
		}
		if !e.check(s, f.ElemRules, elemPath, violations) {
			valid = false
			continue
		}
		list = append(list, s)
	}
	if !e.check(list, f.Rules, path, violations) {
		valid = false
	}
	return list, valid
}

// check runs validator rules against value and records one violation per
// failed tag.
func (e *Engine) check(value any, rules, path string, violations *[]apperr.Violation) bool {
	if rules == "" {
		return true
	}
	err := e.validate.Var(value, rules)
	if err == nil {
		return true
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			*violations = append(*violations, apperr.Violation{Field: path, Constraint: fe.Tag()})
		}
		return false
	}

	*violations = append(*violations, apperr.Violation{Field: path, Constraint: rules})
	return false
}
