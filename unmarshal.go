package benc

import (
	"fmt"
	"reflect"
)

// Unmarshal decodes data into v, which must be a non-nil pointer.
// Unlike Decode, the whole input must be one value: leftover bytes
// fail with ErrTrailingData at the offset where they begin.
//
// Targets: *Value takes the tree as-is; integers check for overflow;
// strings and []byte take byte-string contents; slices and arrays take
// lists ([N]byte additionally accepts an N-byte string); maps with
// string keys and structs take dictionaries, structs resolving keys
// through the `bencode` tag with unknown keys ignored; any takes the
// Interface form.
func Unmarshal(data []byte, v any) error {
	return UnmarshalWithLimits(data, v, DefaultLimits())
}

// UnmarshalWithLimits is Unmarshal with caller-chosen limits.
func UnmarshalWithLimits(data []byte, v any, limits Limits) error {
	val, rest, err := DecodeWithLimits(data, limits)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return &SyntaxError{Offset: len(data) - len(rest), Err: ErrTrailingData}
	}
	return assign(val, v)
}

func assign(val Value, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: target must be a non-nil pointer, have %T", ErrUnsupportedType, v)
	}
	return assignValue(val, rv.Elem())
}

func assignValue(val Value, rv reflect.Value) error {
	if rv.Type() == valueType {
		rv.Set(reflect.ValueOf(val))
		return nil
	}
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return assignValue(val, rv.Elem())
	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Type())
		}
		rv.Set(reflect.ValueOf(val.Interface()))
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := val.AsInt()
		if err != nil {
			return err
		}
		if rv.OverflowInt(n) {
			return fmt.Errorf("benc: %d overflows %s", n, rv.Type())
		}
		rv.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := val.AsInt()
		if err != nil {
			return err
		}
		if n < 0 || rv.OverflowUint(uint64(n)) {
			return fmt.Errorf("benc: %d overflows %s", n, rv.Type())
		}
		rv.SetUint(uint64(n))
		return nil
	case reflect.String:
		s, err := val.AsString()
		if err != nil {
			return err
		}
		rv.SetString(s)
		return nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b, err := val.AsBytes()
			if err != nil {
				return err
			}
			rv.SetBytes(append([]byte(nil), b...))
			return nil
		}
		elems, err := val.AsList()
		if err != nil {
			return err
		}
		out := reflect.MakeSlice(rv.Type(), len(elems), len(elems))
		for i, e := range elems {
			if err := assignValue(e, out.Index(i)); err != nil {
				return err
			}
		}
		rv.Set(out)
		return nil
	case reflect.Array:
		return assignArray(val, rv)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%w: map key %s", ErrUnsupportedType, rv.Type().Key())
		}
		entries, err := val.AsDict()
		if err != nil {
			return err
		}
		out := reflect.MakeMapWithSize(rv.Type(), len(entries))
		elem := rv.Type().Elem()
		for k, e := range entries {
			ev := reflect.New(elem).Elem()
			if err := assignValue(e, ev); err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()), ev)
		}
		rv.Set(out)
		return nil
	case reflect.Struct:
		entries, err := val.AsDict()
		if err != nil {
			return err
		}
		for _, f := range cachedFields(rv.Type()) {
			e, ok := entries[f.name]
			if !ok {
				continue
			}
			if err := assignValue(e, rv.FieldByIndex(f.index)); err != nil {
				return fmt.Errorf("field %q: %w", f.name, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Type())
	}
}

func assignArray(val Value, rv reflect.Value) error {
	if rv.Type().Elem().Kind() == reflect.Uint8 && val.Kind() == KindString {
		b, _ := val.AsBytes()
		if len(b) != rv.Len() {
			return fmt.Errorf("benc: %d bytes into %s", len(b), rv.Type())
		}
		reflect.Copy(rv, reflect.ValueOf(b))
		return nil
	}
	elems, err := val.AsList()
	if err != nil {
		return err
	}
	if len(elems) > rv.Len() {
		return fmt.Errorf("benc: %d elements into %s", len(elems), rv.Type())
	}
	for i, e := range elems {
		if err := assignValue(e, rv.Index(i)); err != nil {
			return err
		}
	}
	for i := len(elems); i < rv.Len(); i++ {
		rv.Index(i).SetZero()
	}
	return nil
}
