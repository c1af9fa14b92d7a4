package document

import (
	"encoding/json"
	"sort"

	"github.com/arthur-debert/m8db/pkg/errors"
)

// Indent is the indentation used for the on-disk document
const Indent = "    "

// Document is the full contents of a database: unique keys bound to values
type Document map[string]Value

// Keys returns the document keys in ascending order
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy of d. Values are immutable so sharing them is safe.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Native returns the document as plain Go maps with native numbers, see Value.Native
func (d Document) Native() map[string]any {
	out := make(map[string]any, len(d))
	for k, v := range d {
		out[k] = v.Native()
	}
	return out
}

// String returns the compact JSON encoding of d
func (d Document) String() string {
	if d == nil {
		d = Document{}
	}
	data, err := marshal(map[string]Value(d), "")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Encode renders d in its on-disk form: a JSON object indented with four spaces,
// followed by a newline. A nil document encodes as an empty object.
func Encode(d Document) ([]byte, error) {
	if d == nil {
		d = Document{}
	}
	data, err := marshal(map[string]Value(d), Indent)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode document")
	}
	return append(data, '\n'), nil
}

// Decode parses the on-disk form. The top level must be a JSON object.
func Decode(data []byte) (Document, error) {
	var d map[string]Value
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, errors.New(errors.ErrInvalidInput, "document is not a JSON object")
	}
	return Document(d), nil
}
