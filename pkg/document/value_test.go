package document

import (
	"encoding/json"
	"testing"

	"github.com/arthur-debert/m8db/pkg/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValueKinds(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind Kind
		str  string
	}{
		{"nil", nil, KindNull, "null"},
		{"bool", true, KindBool, "true"},
		{"int", 42, KindNumber, "42"},
		{"float", 2.5, KindNumber, "2.5"},
		{"string", "hi <there>", KindString, `"hi <there>"`},
		{"slice", []int{1, 2}, KindArray, "[1,2]"},
		{"map", map[string]any{"x": 1}, KindObject, `{"x":1}`},
		{"struct", struct {
			Name string `json:"name"`
		}{"m8"}, KindObject, `{"name":"m8"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewValue(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.str, v.String())
		})
	}
}

func TestNewValueRejectsUnrepresentable(t *testing.T) {
	_, err := NewValue(make(chan int))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	assert.Panics(t, func() { MustValue(func() {}) })
}

func TestNewValuePassesValuesThrough(t *testing.T) {
	orig := MustValue([]any{"a"})

	v, err := NewValue(orig)
	require.NoError(t, err)
	assert.True(t, orig.Equal(v))

	v, err = NewValue(&orig)
	require.NoError(t, err)
	assert.True(t, orig.Equal(v))

	var nilPtr *Value
	v, err = NewValue(nilPtr)
	require.NoError(t, err)
	assert.Equal(t, KindNull, v.Kind())
}

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	assert.Equal(t, KindNull, v.Kind())
	assert.True(t, v.Equal(Null()))
	assert.Equal(t, "null", v.String())
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    Value
		wantErr bool
	}{
		{name: "object", text: `{"x": 1}`, want: MustValue(map[string]int{"x": 1})},
		{name: "number", text: " 7 ", want: MustValue(7)},
		{name: "string", text: `"text"`, want: MustValue("text")},
		{name: "null", text: "null", want: Null()},
		{name: "bare word", text: "hello", wantErr: true},
		{name: "trailing data", text: `{"x": 1} 2`, wantErr: true},
		{name: "empty", text: "", wantErr: true},
		{name: "truncated", text: `{"x":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.ErrInvalidInput, errors.GetErrorCode(err))
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want.Interface(), got.Interface()); diff != "" {
				t.Errorf("ParseValue(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestEqualAcrossJSONRoundTrip(t *testing.T) {
	v := MustValue(map[string]any{
		"int":    1,
		"float":  1.5,
		"list":   []any{"a", nil, false},
		"nested": map[string]any{"deep": []int{3}},
	})

	data, err := json.Marshal(v)
	require.NoError(t, err)

	var back Value
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, v.Equal(back))
	assert.False(t, v.Equal(MustValue(map[string]any{"int": 2})))
}

func TestNative(t *testing.T) {
	v := MustValue(map[string]any{"i": 3, "f": 0.5, "l": []any{1, "x"}})

	want := map[string]any{"i": int64(3), "f": 0.5, "l": []any{int64(1), "x"}}
	if diff := cmp.Diff(want, v.Native()); diff != "" {
		t.Errorf("Native() mismatch (-want +got):\n%s", diff)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
