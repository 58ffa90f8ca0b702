package benc

import (
	"fmt"
	"math"
	"reflect"
)

var valueType = reflect.TypeOf(Value{})

// Marshal encodes a Go value to bencode. Supported inputs: Value,
// signed and unsigned integers, strings, []byte, slices and arrays,
// maps with string keys, and structs. Struct fields honor the
// `bencode` tag (rename, "-" to skip, ",omitempty"); untagged exported
// fields use their Go name. Bencode has no null, so nil slices and
// maps encode as empty; a nil pointer or interface is an error unless
// omitted by tag.
func Marshal(v any) ([]byte, error) {
	val, err := valueOf(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	return Encode(val)
}

func valueOf(rv reflect.Value) (Value, error) {
	if !rv.IsValid() {
		return Value{}, fmt.Errorf("%w: untyped nil", ErrUnsupportedType)
	}
	if rv.Type() == valueType {
		return rv.Interface().(Value), nil
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Value{}, fmt.Errorf("%w: nil %s", ErrUnsupportedType, rv.Type())
		}
		return valueOf(rv.Elem())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Value{}, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedType, u)
		}
		return Int(int64(u)), nil
	case reflect.String:
		return Str(rv.String()), nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Bytes(rv.Bytes()), nil
		}
		return listOf(rv)
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return Bytes(b), nil
		}
		return listOf(rv)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("%w: map key %s", ErrUnsupportedType, rv.Type().Key())
		}
		entries := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			ev, err := valueOf(iter.Value())
			if err != nil {
				return Value{}, err
			}
			entries[iter.Key().String()] = ev
		}
		return Dict(entries), nil
	case reflect.Struct:
		fields := cachedFields(rv.Type())
		entries := make(map[string]Value, len(fields))
		for _, f := range fields {
			fv := rv.FieldByIndex(f.index)
			if f.omitEmpty && isEmptyValue(fv) {
				continue
			}
			ev, err := valueOf(fv)
			if err != nil {
				return Value{}, err
			}
			entries[f.name] = ev
		}
		return Dict(entries), nil
	default:
		return Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Type())
	}
}

func listOf(rv reflect.Value) (Value, error) {
	elems := make([]Value, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		ev, err := valueOf(rv.Index(i))
		if err != nil {
			return Value{}, err
		}
		elems[i] = ev
	}
	return List(elems...), nil
}

func isEmptyValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
