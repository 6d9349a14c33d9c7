package config

import (
	"errors"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
)

// Decode maps the node onto out, a pointer to a struct with mapstructure tags.
// INI values are strings, so inputs are weakly typed: "10" decodes into an
// int field and "5s" into a time.Duration.
//
// When defaults is not nil it must be a value of the same struct type;
// every field left zero after decoding is filled from it.
func Decode(n *Node, out any, defaults any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return errors.Join(ErrDecode, err)
	}

	if n != nil {
		if err := dec.Decode(n.ToMap()); err != nil {
			return errors.Join(ErrDecode, err)
		}
	}

	if defaults != nil {
		if err := mergo.Merge(out, defaults); err != nil {
			return errors.Join(ErrDecode, err)
		}
	}

	return nil
}
