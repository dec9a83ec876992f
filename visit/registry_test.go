package visit

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Dispatch(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	var ints, strs []any
	Register(r, func(n int) error {
		ints = append(ints, n)
		return nil
	})
	Register(r, func(s string) error {
		strs = append(strs, s)
		return nil
	})

	require.NoError(t, r.Validate(reflect.TypeOf((*int)(nil)).Elem(), reflect.TypeOf((*string)(nil)).Elem()))

	require.NoError(t, r.Visit(41))
	require.NoError(t, r.Visit("x"))
	assert.Equal(t, []any{41}, ints)
	assert.Equal(t, []any{"x"}, strs)
}

func TestRegistry_Unhandled(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	Register(r, func(int) error { return nil })

	err := r.Visit("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, Unhandled)
	assert.Contains(t, err.Error(), "string")

	assert.NoError(t, r.Visit(nil))
}

func TestRegistry_HandlerErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := NewRegistry()
	Register(r, func(int) error { return boom })

	assert.Same(t, boom, r.Visit(1))
}

func TestRegistry_ValidateMissing(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	Register(r, func(int) error { return nil })

	err := r.Validate(reflect.TypeOf((*int)(nil)).Elem(), reflect.TypeOf((*string)(nil)).Elem(), reflect.TypeOf((*bool)(nil)).Elem())
	require.Error(t, err)
	assert.ErrorIs(t, err, Unhandled)
	assert.Contains(t, err.Error(), "bool, string")
}

func TestRegistry_DuplicateIsSetupError(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	Register(r, func(int) error { return nil })
	Register(r, func(int) error { return nil })

	err := r.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate handler for int")
}

func TestRegistry_InfallibleRejectsFallible(t *testing.T) {
	t.Parallel()

	r := NewInfallibleRegistry()
	Register(r, func(int) error { return nil })

	err := r.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "infallible registry")

	// The offending handler stays out of the table.
	assert.ErrorIs(t, r.Visit(1), Unhandled)
}

func TestRegistry_Infallible(t *testing.T) {
	t.Parallel()

	r := NewInfallibleRegistry()

	var got []string
	RegisterInfallible(r, func(s string) {
		got = append(got, s)
	})

	require.NoError(t, r.Validate(reflect.TypeOf((*string)(nil)).Elem()))
	require.NoError(t, r.Visit("a"))
	assert.Equal(t, []string{"a"}, got)
}
