package lang

import (
	"bytes"
	"encoding/json"

	"github.com/goccy/go-yaml"
)

// MarshalJSON renders the leaf as a JSON string.
func (l *Leaf) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Value)
}

// MarshalJSON renders the object as a JSON object with members in
// insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, name := range o.names {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')

		member, err := json.Marshal(o.member[name])
		if err != nil {
			return nil, err
		}

		buf.Write(member)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// ToNative converts a resolved value into plain Go values: string for
// leaves, map[string]any for objects. Member order is lost; use
// [ToMapSlice] when order matters.
func ToNative(v ResolvedValue) any {
	switch rv := v.(type) {
	case *Leaf:
		return rv.Value

	case *Object:
		m := make(map[string]any, rv.Len())
		for name, member := range rv.All() {
			m[name] = ToNative(member)
		}

		return m

	default:
		return nil
	}
}

// ToMapSlice converts a resolved value into an order-preserving form
// suitable for YAML encoding: string for leaves, [yaml.MapSlice] for
// objects.
func ToMapSlice(v ResolvedValue) any {
	switch rv := v.(type) {
	case *Leaf:
		return rv.Value

	case *Object:
		ms := make(yaml.MapSlice, 0, rv.Len())
		for name, member := range rv.All() {
			ms = append(ms, yaml.MapItem{Key: name, Value: ToMapSlice(member)})
		}

		return ms

	default:
		return nil
	}
}
