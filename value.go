package benc

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInteger
	KindString
	KindList
	KindDict
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	default:
		return "invalid"
	}
}

// Value is one node of a decoded tree: a signed integer, a raw byte
// string, a list, or a dictionary keyed by byte strings. The zero Value
// is invalid and fails every accessor. Values returned by the decoder
// own their contents and never alias the input buffer.
type Value struct {
	kind Kind

	num  int64
	raw  []byte
	list []Value
	dict map[string]Value
}

// Int creates an integer value from any signed integer type.
func Int[T constraints.Signed](v T) Value {
	return Value{kind: KindInteger, num: int64(v)}
}

// Str creates a byte-string value from a string.
func Str(s string) Value {
	return Value{kind: KindString, raw: []byte(s)}
}

// Bytes creates a byte-string value. The slice is not copied.
func Bytes(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{kind: KindString, raw: b}
}

// List creates a list value from elements in order.
func List(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindList, list: elems}
}

// Dict creates a dictionary value. The map is not copied.
func Dict(entries map[string]Value) Value {
	if entries == nil {
		entries = map[string]Value{}
	}
	return Value{kind: KindDict, dict: entries}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// AsInt returns the integer value.
func (v Value) AsInt() (int64, error) {
	if v.kind != KindInteger {
		return 0, fmt.Errorf("benc: expected integer, got %s", v.kind)
	}
	return v.num, nil
}

// AsBytes returns the byte-string contents.
func (v Value) AsBytes() ([]byte, error) {
	if v.kind != KindString {
		return nil, fmt.Errorf("benc: expected string, got %s", v.kind)
	}
	return v.raw, nil
}

// AsString returns the byte-string contents as a string. The bytes are
// not required to be valid text; the conversion is verbatim.
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", fmt.Errorf("benc: expected string, got %s", v.kind)
	}
	return string(v.raw), nil
}

// AsList returns the list elements.
func (v Value) AsList() ([]Value, error) {
	if v.kind != KindList {
		return nil, fmt.Errorf("benc: expected list, got %s", v.kind)
	}
	return v.list, nil
}

// AsDict returns the dictionary entries.
func (v Value) AsDict() (map[string]Value, error) {
	if v.kind != KindDict {
		return nil, fmt.Errorf("benc: expected dict, got %s", v.kind)
	}
	return v.dict, nil
}

// Len returns the byte length of a string, the element count of a
// list, or the entry count of a dictionary. Other kinds report zero.
func (v Value) Len() int {
	switch v.kind {
	case KindString:
		return len(v.raw)
	case KindList:
		return len(v.list)
	case KindDict:
		return len(v.dict)
	default:
		return 0
	}
}

// Get returns the dictionary entry for key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindDict {
		return Value{}, false
	}
	e, ok := v.dict[key]
	return e, ok
}

// Index returns the i-th list element.
func (v Value) Index(i int) (Value, error) {
	if v.kind != KindList {
		return Value{}, fmt.Errorf("benc: expected list, got %s", v.kind)
	}
	if i < 0 || i >= len(v.list) {
		return Value{}, fmt.Errorf("benc: index %d out of bounds (len=%d)", i, len(v.list))
	}
	return v.list[i], nil
}

// Keys returns dictionary keys in byte-lexicographic order. Iterating
// Keys visits entries in the same order the encoder emits them.
func (v Value) Keys() []string {
	if v.kind != KindDict {
		return nil
	}
	keys := make([]string, 0, len(v.dict))
	for k := range v.dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Interface converts the tree to native Go shapes: int64, []byte,
// []any, and map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindInteger:
		return v.num
	case KindString:
		return v.raw
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Interface()
		}
		return out
	case KindDict:
		out := make(map[string]any, len(v.dict))
		for k, e := range v.dict {
			out[k] = e.Interface()
		}
		return out
	default:
		return nil
	}
}

// Equal reports whether two trees hold the same structure and contents.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInteger:
		return v.num == o.num
	case KindString:
		return bytes.Equal(v.raw, o.raw)
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindDict:
		if len(v.dict) != len(o.dict) {
			return false
		}
		for k, e := range v.dict {
			oe, ok := o.dict[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders the tree for debugging. Byte strings print quoted,
// dictionaries print in key order.
func (v Value) String() string {
	var b strings.Builder
	v.render(&b)
	return b.String()
}

func (v Value) render(b *strings.Builder) {
	switch v.kind {
	case KindInteger:
		b.WriteString(strconv.FormatInt(v.num, 10))
	case KindString:
		b.WriteString(strconv.Quote(string(v.raw)))
	case KindList:
		b.WriteByte('[')
		for i, e := range v.list {
			if i > 0 {
				b.WriteString(", ")
			}
			e.render(b)
		}
		b.WriteByte(']')
	case KindDict:
		b.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(": ")
			v.dict[k].render(b)
		}
		b.WriteByte('}')
	default:
		b.WriteString("<invalid>")
	}
}
