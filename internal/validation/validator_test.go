package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string `json:"name" validate:"required,min=3,max=5"`
	Email  string `form:"email" validate:"omitempty,email"`
	Count  int    `json:"count" validate:"gt=0"`
	Kind   string `json:"kind" validate:"omitempty,oneof=a b"`
	Hidden string `json:"-" validate:"omitempty,min=2"`
}

func TestValidate(t *testing.T) {
	v := New()
	require.NoError(t, v.Validate(&sample{Name: "abc", Count: 1}))
	require.Error(t, v.Validate(&sample{}))
}

func TestFieldErrors(t *testing.T) {
	v := New()

	err := v.Validate(&sample{Name: "ab", Email: "nope", Count: 0, Kind: "c"})
	fields := FieldErrors(err)
	require.Equal(t, "ensure this field has at least 3 characters", fields["name"])
	require.Equal(t, "enter a valid email address", fields["email"])
	require.Equal(t, "ensure this value is greater than 0", fields["count"])
	require.Equal(t, "must be one of: a b", fields["kind"])

	fields = FieldErrors(v.Validate(&sample{Count: 1}))
	require.Equal(t, map[string]string{"name": "this field is required"}, fields)

	fields = FieldErrors(v.Validate(&sample{Name: "toolong", Count: 1}))
	require.Equal(t, "ensure this field has no more than 5 characters", fields["name"])

	require.Nil(t, FieldErrors(errors.New("plain")))
	require.Nil(t, FieldErrors(nil))
}
