// Package dto declares the request payload shapes of the API and the typed
// values built from them once validation passes.
package dto

import "github.com/Maxbrain0/echo_posts/validation"

// Loader is implemented by every DTO: it copies validated values into the
// typed struct. Fields absent from v stay nil.
type Loader interface {
	Load(v validation.Values)
}

func optional(v validation.Values, name string) *string {
	s, ok := v.String(name)
	if !ok {
		return nil
	}
	return &s
}
