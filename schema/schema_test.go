package schema_test

import (
	"reflect"
	"testing"

	"github.com/effective-security/expressmcp/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Format string

type Box struct {
	Length float64 `json:"length,omitempty" jsonschema:"description=Length in cm"`
}

type Request struct {
	From   string  `json:"from" jsonschema:"description=Origin address"`
	To     string  `json:"to" jsonschema:"description=Destination address"`
	Weight float64 `json:"weight,omitempty" jsonschema:"description=Weight in kg,default=1"`
	Box    *Box    `json:"box,omitempty" jsonschema:"description=Package box"`
	Format Format  `json:"format,omitempty" jsonschema:"enum=text,enum=json"`
}

func TestSchema(t *testing.T) {
	s, err := schema.New(reflect.TypeOf(Request{}))
	require.NoError(t, err)

	assert.Equal(t, []string{"from", "to", "weight", "box", "format"}, s.PropertyNames())
	assert.Equal(t, []string{"from", "to"}, s.Parameters.Required)
	assert.Equal(t, "object", s.Parameters.Type)

	box, ok := s.Parameters.Properties.Get("box")
	require.True(t, ok)
	assert.Empty(t, box.Ref, "refs must be resolved")
	assert.Equal(t, "object", box.Type)

	str := s.String()
	assert.Contains(t, str, `"description": "Origin address"`)
	assert.Contains(t, str, `"default"`)
	assert.NotContains(t, str, "$defs")

	// cached
	s2, err := schema.New(reflect.TypeOf(&Request{}))
	require.NoError(t, err)
	assert.Same(t, s, s2)
}

func TestSchema_NotStruct(t *testing.T) {
	_, err := schema.New(reflect.TypeOf("string"))
	assert.EqualError(t, err, "expected struct, got string")

	assert.Panics(t, func() {
		schema.Must(reflect.TypeOf(1))
	})
}
