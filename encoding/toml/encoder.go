package toml

import (
	"github.com/BurntSushi/toml"
)

type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

// Marshal requires a struct or a map,
// TOML has no top level arrays.
func (e *Encoder) Marshal(v any) ([]byte, error) {
	return toml.Marshal(v)
}
