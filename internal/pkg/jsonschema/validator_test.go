package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"type": "object",
	"required": ["name", "age"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"age": {"type": "integer", "minimum": 0}
	}
}`

func TestValidator(t *testing.T) {
	v := MustCompile(personSchema)

	require.NoError(t, v.ValidateBytes([]byte(`{"name":"a","age":3}`)))
	require.NoError(t, v.ValidateGo(map[string]any{"name": "a", "age": 3}))

	err := v.ValidateBytes([]byte(`{"name":"","age":-1}`))
	require.ErrorIs(t, err, ErrInvalidDocument)
	assert.Contains(t, err.Error(), "name")

	err = v.ValidateBytes([]byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestMustCompile_PanicsOnBadSchema(t *testing.T) {
	assert.Panics(t, func() { MustCompile(`{"type": 12}`) })
}
