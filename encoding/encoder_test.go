package encoding_test

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/expressmcp/encoding"
	jsonenc "github.com/effective-security/expressmcp/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quote struct {
	Courier string  `json:"courier" yaml:"courier" toml:"courier"`
	Price   float64 `json:"price" yaml:"price" toml:"price"`
}

type result struct {
	Quotes []quote `json:"quotes" yaml:"quotes" toml:"quotes"`
}

var testResult = result{
	Quotes: []quote{
		{Courier: "韵达", Price: 5},
		{Courier: "顺丰", Price: 12.5},
	},
}

const testTemplate = `{{range $i, $q := .Quotes}}{{add1 $i}}. {{$q.Courier}} {{printf "%.2f" $q.Price}}
{{end}}`

func TestPredefinedEncoder(t *testing.T) {
	tcases := []struct {
		format encoding.Format
		exp    string
	}{
		{"", "1. 韵达 5.00\n2. 顺丰 12.50"},
		{encoding.FormatText, "1. 韵达 5.00\n2. 顺丰 12.50"},
		{"JSON", "{\n\t\"quotes\": [\n\t\t{\n\t\t\t\"courier\": \"韵达\",\n\t\t\t\"price\": 5\n\t\t},\n\t\t{\n\t\t\t\"courier\": \"顺丰\",\n\t\t\t\"price\": 12.5\n\t\t}\n\t]\n}"},
		{encoding.FormatYAML, "quotes:\n  - courier: 韵达\n    price: 5\n  - courier: 顺丰\n    price: 12.5\n"},
	}
	for _, tc := range tcases {
		t.Run(tc.format, func(t *testing.T) {
			enc, err := encoding.PredefinedEncoder(tc.format, testTemplate)
			require.NoError(t, err)
			out, err := enc.Marshal(testResult)
			require.NoError(t, err)
			assert.Equal(t, tc.exp, string(out))
		})
	}

	enc, err := encoding.PredefinedEncoder(encoding.FormatTOML, "")
	require.NoError(t, err)
	out, err := enc.Marshal(testResult)
	require.NoError(t, err)
	assert.Contains(t, string(out), "[[quotes]]")
	assert.Contains(t, string(out), `courier = "顺丰"`)

	var decoded result
	_, err = toml.Decode(string(out), &decoded)
	require.NoError(t, err)
	assert.Equal(t, testResult, decoded)

	_, err = encoding.PredefinedEncoder("xml", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, encoding.ErrUnsupportedFormat))
	assert.EqualError(t, err, `"xml": unsupported format`)

	_, err = encoding.PredefinedEncoder(encoding.FormatText, "")
	assert.EqualError(t, err, "template is required")

	_, err = encoding.PredefinedEncoder(encoding.FormatText, "{{.Broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse template")
}

func TestJSON_Lenient(t *testing.T) {
	type args struct {
		From   string  `json:"from"`
		Weight float64 `json:"weight"`
	}

	enc := jsonenc.Default

	var a args
	require.NoError(t, enc.Unmarshal([]byte("Sure: {\"from\":\"上海\",\"weight\":2.5} thanks"), &a))
	assert.Equal(t, "上海", a.From)
	assert.Equal(t, 2.5, a.Weight)

	require.NoError(t, enc.Unmarshal([]byte("```json\n{\"from\":\"北京\",\"weight\":3}\n```"), &a))
	assert.Equal(t, "北京", a.From)
	assert.Equal(t, 3.0, a.Weight)
	assert.Error(t, enc.Unmarshal([]byte("no json here"), &a))
}
