package validation

// Values holds the fields that passed validation. Only fields declared in the
// shape and present in the payload appear in it.
type Values map[string]any

// Has reports whether name was supplied.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

func (v Values) String(name string) (string, bool) {
	s, ok := v[name].(string)
	return s, ok
}

func (v Values) Strings(name string) ([]string, bool) {
	s, ok := v[name].([]string)
	return s, ok
}

func (v Values) Object(name string) (Values, bool) {
	o, ok := v[name].(Values)
	return o, ok
}
