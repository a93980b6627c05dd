package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessages(t *testing.T) {
	cause := errors.New("socket closed")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation lists every violation",
			err: &ValidationError{Violations: []Violation{
				{Field: "title", Constraint: "required"},
				{Field: "address.city", Constraint: "string"},
			}},
			want: "validation failed: title: required, address.city: string",
		},
		{name: "unauthenticated with cause", err: Unauthenticated("invalid token", cause), want: "invalid token: socket closed"},
		{name: "forbidden", err: Forbidden("not yours"), want: "not yours"},
		{name: "not found names the id", err: NotFound("post", "abc"), want: "post with id abc not found"},
		{name: "conflict", err: &ConflictError{Message: "taken"}, want: "taken"},
		{name: "persistence", err: Persistence("insert post", cause), want: "insert post: socket closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")

	assert.ErrorIs(t, Unauthenticated("x", cause), cause)
	assert.ErrorIs(t, Persistence("op", cause), cause)
	assert.ErrorIs(t, PartiallyApplied("op", cause), cause)
}

func TestRetryable(t *testing.T) {
	assert.False(t, Persistence("op", errors.New("x")).Retryable)
	assert.True(t, PartiallyApplied("op", errors.New("x")).Retryable)
	assert.True(t, Forbidden("x").Forbidden)
	assert.False(t, Unauthenticated("x", nil).Forbidden)
}
