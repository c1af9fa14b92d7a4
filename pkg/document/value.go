package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"github.com/arthur-debert/m8db/pkg/errors"
)

// Kind identifies which JSON type a Value holds
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = map[Kind]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindNumber: "number",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is an immutable JSON value.
//
// The zero Value is null. Internally the value is held as nil, bool, json.Number,
// string, []any or map[string]any, with nested values following the same rules.
type Value struct {
	v any
}

// Null returns the JSON null value
func Null() Value {
	return Value{}
}

// NewValue converts any JSON-marshalable Go value into a Value.
func NewValue(v any) (Value, error) {
	switch tv := v.(type) {
	case Value:
		return tv, nil
	case *Value:
		if tv == nil {
			return Null(), nil
		}
		return *tv, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return Value{}, errors.Wrapf(err, errors.ErrInvalidInput, "value of type %T is not representable as JSON", v)
	}
	return decodeValue(data)
}

// MustValue is like NewValue but panics when v is not representable as JSON.
func MustValue(v any) Value {
	val, err := NewValue(v)
	if err != nil {
		panic(err)
	}
	return val
}

// ParseValue parses a JSON literal typed by a user, e.g. `{"x": 1}`, `42` or `"text"`.
// Anything after the first complete value other than whitespace is rejected.
func ParseValue(text string) (Value, error) {
	val, err := decodeValue([]byte(text))
	if err != nil {
		return Value{}, errors.Wrapf(err, errors.ErrInvalidInput, "invalid JSON value %q", text)
	}
	return val, nil
}

func decodeValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("unexpected data after JSON value")
	}
	return Value{v: v}, nil
}

// Kind reports the JSON type held by v
func (v Value) Kind() Kind {
	switch v.v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case json.Number:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	}
	return KindNull
}

// Interface returns the normalised representation. Numbers are json.Number.
// The result shares memory with v and must not be modified.
func (v Value) Interface() any {
	return v.v
}

// Native returns a deep copy of v with numbers converted to int64 when they are
// integral and float64 otherwise. Encoders that do not understand json.Number
// (YAML, TOML) should be given this form.
func (v Value) Native() any {
	return native(v.v)
}

func native(v any) any {
	switch tv := v.(type) {
	case json.Number:
		if i, err := tv.Int64(); err == nil {
			return i
		}
		f, _ := tv.Float64()
		return f
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = native(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, item := range tv {
			out[k] = native(item)
		}
		return out
	}
	return v
}

// Equal reports structural equality. Numbers compare by their JSON text.
func (v Value) Equal(other Value) bool {
	return reflect.DeepEqual(v.v, other.v)
}

// String returns the compact JSON encoding of v
func (v Value) String() string {
	data, err := marshal(v.v, "")
	if err != nil {
		return fmt.Sprintf("%v", v.v)
	}
	return string(data)
}

// Indented returns the JSON encoding of v using the on-disk indentation
func (v Value) Indented() ([]byte, error) {
	return marshal(v.v, Indent)
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	return marshal(v.v, "")
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	val, err := decodeValue(data)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// marshal encodes without HTML escaping and without the encoder's trailing newline
func marshal(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
