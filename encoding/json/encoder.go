package json

import (
	"bytes"
	"encoding/json"

	"github.com/bububa/ljson"
	"github.com/effective-security/expressmcp/utils"
)

// Default is the shared encoder, it has no state
var Default = NewEncoder()

type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "\t")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Unmarshal is lenient: surrounding text is trimmed,
// and numbers given as strings are accepted.
func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	data := utils.CleanJSON(bs)
	return ljson.Unmarshal(data, ret)
}
