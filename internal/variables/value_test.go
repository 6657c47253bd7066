package variables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeLookupAndDerive(t *testing.T) {
	root := NewScope(map[string]Value{
		"opt": String("yes"),
	})

	require.True(t, root.IsAvailable("opt"))
	require.False(t, root.IsAvailable("missing"))

	derived := root.Derive("opt", String("no"))
	s, err := derived.GetString("opt")
	require.NoError(t, err)
	assert.Equal(t, "no", s)

	s, err = root.GetString("opt")
	require.NoError(t, err)
	assert.Equal(t, "yes", s)
}

func TestScopeMissingVariable(t *testing.T) {
	s := Empty()
	_, err := s.GetVariable("nope")
	require.Error(t, err)
	var missing *MissingVariableError
	assert.ErrorAs(t, err, &missing)
	assert.Equal(t, "nope", missing.Name)
}

func TestGetStringCoercion(t *testing.T) {
	s := NewScope(map[string]Value{
		"count": Integer(42),
		"debug": Boolean(true),
		"name":  String("gcc"),
	})

	v, err := s.GetString("count")
	require.NoError(t, err)
	assert.Equal(t, "42", v)

	v, err = s.GetString("debug")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	v, err = s.GetString("name")
	require.NoError(t, err)
	assert.Equal(t, "gcc", v)
}

func TestGetStringFailsOnSequenceOrStructure(t *testing.T) {
	s := NewScope(map[string]Value{
		"paths": Sequence([]Value{String("a")}),
		"rec":   Structure(map[string]Value{"x": String("1")}),
	})

	_, err := s.GetString("paths")
	require.Error(t, err)
	var expErr *ExpansionFailedError
	assert.ErrorAs(t, err, &expErr)

	_, err = s.GetString("rec")
	require.Error(t, err)
	assert.ErrorAs(t, err, &expErr)
}

func TestIsTruthy(t *testing.T) {
	s := NewScope(map[string]Value{
		"emptyStr": String(""),
		"str":      String("x"),
		"zero":     Integer(0),
		"nonzero":  Integer(-3),
		"tru":      Boolean(true),
		"fal":      Boolean(false),
		"emptySeq": Sequence(nil),
		"seq":      Sequence([]Value{Integer(1)}),
		"rec":      Structure(nil),
	})

	cases := map[string]bool{
		"emptyStr": false,
		"str":      true,
		"zero":     false,
		"nonzero":  true,
		"tru":      true,
		"fal":      false,
		"emptySeq": false,
		"seq":      true,
		"rec":      true,
	}
	for name, want := range cases {
		got, err := s.IsTruthy(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestLazyArtifactSequenceMaterializesOnce(t *testing.T) {
	calls := 0
	expander := func(name string) ([]Value, error) {
		calls++
		return []Value{String("out/a.o"), String("out/b.o")}, nil
	}

	s := NewScope(map[string]Value{
		"objects": LazyArtifactSequence("objects"),
	})

	got, err := s.GetSequence("objects", expander)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.GetSequence("objects", expander)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, calls, "expander must be invoked exactly once")
}

func TestIsAvailableDoesNotForceLazyMaterialization(t *testing.T) {
	called := false
	expander := func(name string) ([]Value, error) {
		called = true
		return []Value{String("out/a.o")}, nil
	}
	s := NewScope(map[string]Value{
		"objects": LazyArtifactSequence("objects"),
	})
	require.True(t, s.IsAvailable("objects"))
	assert.False(t, called)

	_, err := s.GetSequence("objects", expander)
	require.NoError(t, err)
	assert.True(t, called, "only GetSequence materializes the sequence")
}

func TestStructureFieldAccess(t *testing.T) {
	v := Structure(map[string]Value{
		"name": String("gcc"),
	})

	field, err := v.Field("name")
	require.NoError(t, err)
	s, err := field.asString()
	require.NoError(t, err)
	assert.Equal(t, "gcc", s)

	_, err = v.Field("missing")
	require.Error(t, err)
}

func TestEqualString(t *testing.T) {
	s := NewScope(map[string]Value{
		"mode": String("release"),
	})
	ok, err := s.Equal("mode", "release")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Equal("mode", "debug")
	require.NoError(t, err)
	assert.False(t, ok)
}
