package store

import (
	"fmt"

	"github.com/arthur-debert/m8db/pkg/document"
)

// Entry is the result of reading a single key
type Entry struct {
	Key   string
	Value document.Value
	Found bool
}

// String renders the value, or the not-found indicator when the key is absent
func (e Entry) String() string {
	if !e.Found {
		return NotFoundMessage(e.Key)
	}
	return e.Value.String()
}

// NotFoundMessage is the text reported when reading a missing key
func NotFoundMessage(key string) string {
	return fmt.Sprintf("Key '%s' not found.", key)
}
