package benc

import "strconv"

// Encode serializes a tree to its wire form: i<n>e integers,
// length-prefixed strings, l...e lists, and d...e dictionaries with
// keys emitted in byte-lexicographic order. Encoding a decoded tree
// therefore yields canonical bytes even when the input dictionaries
// arrived unsorted. The decoder never calls into this path.
func Encode(v Value) ([]byte, error) {
	return AppendValue(nil, v)
}

// AppendValue appends the wire form of v to dst and returns the
// extended buffer. An invalid value anywhere in the tree fails with
// ErrInvalidValue.
func AppendValue(dst []byte, v Value) ([]byte, error) {
	var err error
	switch v.kind {
	case KindInteger:
		dst = append(dst, 'i')
		dst = strconv.AppendInt(dst, v.num, 10)
		dst = append(dst, 'e')
	case KindString:
		dst = strconv.AppendInt(dst, int64(len(v.raw)), 10)
		dst = append(dst, ':')
		dst = append(dst, v.raw...)
	case KindList:
		dst = append(dst, 'l')
		for _, e := range v.list {
			if dst, err = AppendValue(dst, e); err != nil {
				return nil, err
			}
		}
		dst = append(dst, 'e')
	case KindDict:
		dst = append(dst, 'd')
		for _, k := range v.Keys() {
			dst = strconv.AppendInt(dst, int64(len(k)), 10)
			dst = append(dst, ':')
			dst = append(dst, k...)
			if dst, err = AppendValue(dst, v.dict[k]); err != nil {
				return nil, err
			}
		}
		dst = append(dst, 'e')
	default:
		return nil, ErrInvalidValue
	}
	return dst, nil
}
