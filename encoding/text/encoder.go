package text

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
)

// Encoder renders values with a text template,
// sprig functions are available in the template.
type Encoder struct {
	tmpl *template.Template
}

func NewEncoder(text string) (*Encoder, error) {
	if text == "" {
		return nil, errors.New("template is required")
	}
	tmpl, err := template.New("text").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse template")
	}
	return &Encoder{tmpl: tmpl}, nil
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, v); err != nil {
		return nil, errors.Wrap(err, "failed to render template")
	}
	return []byte(strings.TrimRight(buf.String(), "\n")), nil
}
