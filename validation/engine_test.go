package validation

import (
	"testing"

	"github.com/Maxbrain0/echo_posts/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAddress = &Shape{
	Name: "address",
	Fields: []Field{
		{Name: "city", Kind: String, Required: true},
		{Name: "street", Kind: String},
	},
}

var testUser = &Shape{
	Name: "user",
	Fields: []Field{
		{Name: "name", Kind: String, Required: true, Rules: "min=1"},
		{Name: "email", Kind: String, Required: true, Rules: "email"},
		{Name: "address", Kind: Object, Shape: testAddress},
		{Name: "meta", Kind: Object},
		{Name: "ids", Kind: StringList, Rules: "min=1", ElemRules: "mongodb"},
	},
}

func violations(t *testing.T, err error) []apperr.Violation {
	t.Helper()
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Violations
}

func TestValidate_StrictReportsEveryMissingRequiredField(t *testing.T) {
	_, err := New().Validate(testUser, map[string]any{}, Strict)

	assert.ElementsMatch(t, []apperr.Violation{
		{Field: "name", Constraint: "required"},
		{Field: "email", Constraint: "required"},
	}, violations(t, err))
}

func TestValidate_PartialOmitsMissingFields(t *testing.T) {
	v, err := New().Validate(testUser, map[string]any{"email": "a@b.io"}, Partial)

	require.NoError(t, err)
	assert.Equal(t, Values{"email": "a@b.io"}, v)
	assert.False(t, v.Has("name"))
}

func TestValidate_UnknownFieldsAreDropped(t *testing.T) {
	v, err := New().Validate(testUser, map[string]any{
		"name":    "Ann",
		"email":   "ann@example.com",
		"isAdmin": true,
		"posts":   []any{"x"},
	}, Strict)

	require.NoError(t, err)
	assert.Len(t, v, 2)
	assert.False(t, v.Has("isAdmin"))
}

func TestValidate_NullCountsAsAbsent(t *testing.T) {
	_, err := New().Validate(testUser, map[string]any{"name": nil, "email": "ann@example.com"}, Strict)

	assert.Equal(t, []apperr.Violation{{Field: "name", Constraint: "required"}}, violations(t, err))
}

func TestValidate_TypeAndRuleViolations(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    []apperr.Violation
	}{
		{
			name:    "number instead of string",
			payload: map[string]any{"name": 42.0, "email": "ann@example.com"},
			want:    []apperr.Violation{{Field: "name", Constraint: "string"}},
		},
		{
			name:    "bad email and empty name",
			payload: map[string]any{"name": "", "email": "nope"},
			want: []apperr.Violation{
				{Field: "name", Constraint: "min"},
				{Field: "email", Constraint: "email"},
			},
		},
		{
			name:    "address not an object",
			payload: map[string]any{"name": "Ann", "email": "ann@example.com", "address": "Main st"},
			want:    []apperr.Violation{{Field: "address", Constraint: "object"}},
		},
		{
			name:    "ids not an array",
			payload: map[string]any{"name": "Ann", "email": "ann@example.com", "ids": "x"},
			want:    []apperr.Violation{{Field: "ids", Constraint: "array"}},
		},
		{
			name:    "empty ids",
			payload: map[string]any{"name": "Ann", "email": "ann@example.com", "ids": []any{}},
			want:    []apperr.Violation{{Field: "ids", Constraint: "min"}},
		},
		{
			name: "bad list elements are indexed",
			payload: map[string]any{"name": "Ann", "email": "ann@example.com", "ids": []any{
				"5f1d7f4b8f1b2c3d4e5f6a7b", 7.0, "zzz",
			}},
			want: []apperr.Violation{
				{Field: "ids[1]", Constraint: "string"},
				{Field: "ids[2]", Constraint: "mongodb"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Validate(testUser, tt.payload, Strict)
			assert.Equal(t, tt.want, violations(t, err))
		})
	}
}

func TestValidate_NestedShapeIsValidatedRecursively(t *testing.T) {
	engine := New()

	_, err := engine.Validate(testUser, map[string]any{
		"name":    "Ann",
		"email":   "ann@example.com",
		"address": map[string]any{"street": 5.0},
	}, Strict)
	assert.ElementsMatch(t, []apperr.Violation{
		{Field: "address.city", Constraint: "required"},
		{Field: "address.street", Constraint: "string"},
	}, violations(t, err))

	v, err := engine.Validate(testUser, map[string]any{
		"address": map[string]any{"street": "Main st", "zip": "123"},
	}, Partial)
	require.NoError(t, err)
	addr, ok := v.Object("address")
	require.True(t, ok)
	assert.Equal(t, Values{"street": "Main st"}, addr)
}

func TestValidate_ObjectWithoutShapeIsOnlyTypeChecked(t *testing.T) {
	v, err := New().Validate(testUser, map[string]any{
		"meta": map[string]any{"anything": 1.0},
	}, Partial)

	require.NoError(t, err)
	meta, ok := v.Object("meta")
	require.True(t, ok)
	assert.Equal(t, 1.0, meta["anything"])
}

func TestValidate_StringListValues(t *testing.T) {
	v, err := New().Validate(testUser, map[string]any{
		"ids": []any{"5f1d7f4b8f1b2c3d4e5f6a7b", "5f1d7f4b8f1b2c3d4e5f6a7c"},
	}, Partial)

	require.NoError(t, err)
	ids, ok := v.Strings("ids")
	require.True(t, ok)
	assert.Equal(t, []string{"5f1d7f4b8f1b2c3d4e5f6a7b", "5f1d7f4b8f1b2c3d4e5f6a7c"}, ids)
}
