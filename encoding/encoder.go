// Package encoding renders tool results in the requested output format.
package encoding

import (
	"strings"

	"github.com/cockroachdb/errors"
	jsonenc "github.com/effective-security/expressmcp/encoding/json"
	textenc "github.com/effective-security/expressmcp/encoding/text"
	tomlenc "github.com/effective-security/expressmcp/encoding/toml"
	yamlenc "github.com/effective-security/expressmcp/encoding/yaml"
)

// ErrUnsupportedFormat is returned for unknown output format.
var ErrUnsupportedFormat = errors.New("unsupported format")

type Encoder interface {
	Marshal(v any) ([]byte, error)
}

type Format = string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats is the list of supported formats
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatTOML}

// FormatDefault is used when the format is not specified
var FormatDefault = FormatText

// PredefinedEncoder returns the encoder for the format,
// textTemplate is used only by the text format.
func PredefinedEncoder(format Format, textTemplate string) (Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "":
		if FormatDefault == "" {
			return nil, errors.WithStack(ErrUnsupportedFormat)
		}
		return PredefinedEncoder(FormatDefault, textTemplate)
	case FormatText:
		return textenc.NewEncoder(textTemplate)
	case FormatJSON:
		return jsonenc.NewEncoder(), nil
	case FormatYAML:
		return yamlenc.NewEncoder(), nil
	case FormatTOML:
		return tomlenc.NewEncoder(), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
}

var (
	_ Encoder = (*jsonenc.Encoder)(nil)
	_ Encoder = (*textenc.Encoder)(nil)
	_ Encoder = (*tomlenc.Encoder)(nil)
	_ Encoder = (*yamlenc.Encoder)(nil)
)
