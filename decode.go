package benc

import "strconv"

// DefaultMaxDepth bounds list/dictionary nesting when the caller does
// not choose a limit. Decoding is recursive, so the bound exists to
// fail cleanly on pathological input instead of exhausting the stack.
const DefaultMaxDepth = 2048

// Limits constrains decoder resource use.
type Limits struct {
	// MaxDepth is the deepest list/dictionary nesting accepted.
	// Values <= 0 select DefaultMaxDepth.
	MaxDepth int
}

func DefaultLimits() Limits {
	return Limits{MaxDepth: DefaultMaxDepth}
}

// Decode decodes the first value in data and returns it with the
// unconsumed suffix. Trailing bytes are not an error here; callers that
// require full consumption check the remainder (Unmarshal does).
//
// The grammar is selected by the leading byte, tried in a fixed order:
// integer ('i'), byte string (decimal digit), list ('l'), dictionary
// ('d'). Empty input fails with ErrTruncated; a leading '-' fails with
// ErrMalformedLength (a signed string length); any other leading byte
// fails with ErrUnknownPrefix. On failure the remainder is the
// original input and the error is a *SyntaxError wrapping one of the
// package sentinels.
func Decode(data []byte) (Value, []byte, error) {
	return DecodeWithLimits(data, DefaultLimits())
}

// DecodeWithLimits is Decode with caller-chosen limits.
func DecodeWithLimits(data []byte, limits Limits) (Value, []byte, error) {
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = DefaultMaxDepth
	}
	d := &decoder{buf: data, limits: limits}
	v, err := d.value()
	if err != nil {
		return Value{}, data, err
	}
	return v, data[d.off:], nil
}

// decoder is a cursor over one input buffer. Each grammar method
// consumes its production from buf[off:] and advances off, or reports
// a *SyntaxError at the offending offset and leaves the cursor there.
type decoder struct {
	buf    []byte
	off    int
	depth  int
	limits Limits
}

func (d *decoder) fail(err error) error {
	return &SyntaxError{Offset: d.off, Err: err}
}

// value dispatches on the leading byte. Grammar order is fixed:
// integer, byte string, list, dictionary.
func (d *decoder) value() (Value, error) {
	if d.off >= len(d.buf) {
		return Value{}, d.fail(ErrTruncated)
	}
	switch c := d.buf[d.off]; {
	case c == 'i':
		return d.integer()
	case c >= '0' && c <= '9':
		return d.byteString()
	case c == '-':
		// A sign can only begin a string length, which must not be
		// negative.
		return Value{}, d.fail(ErrMalformedLength)
	case c == 'l':
		return d.list()
	case c == 'd':
		return d.dict()
	default:
		return Value{}, d.fail(ErrUnknownPrefix)
	}
}

// integer consumes i<digits>e with an optional leading '-'. Zero
// digits, a non-digit before the closing 'e', and 64-bit overflow all
// fail with ErrMalformedInteger; running out of input before 'e' fails
// with ErrTruncated. Leading zeros and -0 are accepted.
func (d *decoder) integer() (Value, error) {
	d.off++
	start := d.off
	if d.off < len(d.buf) && d.buf[d.off] == '-' {
		d.off++
	}
	digits := 0
	for d.off < len(d.buf) && d.buf[d.off] >= '0' && d.buf[d.off] <= '9' {
		d.off++
		digits++
	}
	if digits == 0 {
		return Value{}, d.fail(ErrMalformedInteger)
	}
	if d.off >= len(d.buf) {
		return Value{}, d.fail(ErrTruncated)
	}
	if d.buf[d.off] != 'e' {
		return Value{}, d.fail(ErrMalformedInteger)
	}
	n, err := strconv.ParseInt(string(d.buf[start:d.off]), 10, 64)
	if err != nil {
		return Value{}, &SyntaxError{Offset: start, Err: ErrMalformedInteger}
	}
	d.off++
	return Value{kind: KindInteger, num: n}, nil
}

// byteString consumes <decimal-length>:<raw-bytes>. The length must be
// one or more digits; a missing ':' fails with ErrMalformedLength, and
// fewer remaining bytes than declared fail with ErrTruncated. The
// captured bytes are copied, never aliased.
func (d *decoder) byteString() (Value, error) {
	start := d.off
	for d.off < len(d.buf) && d.buf[d.off] >= '0' && d.buf[d.off] <= '9' {
		d.off++
	}
	if d.off == start {
		return Value{}, d.fail(ErrMalformedLength)
	}
	if d.off >= len(d.buf) {
		return Value{}, d.fail(ErrTruncated)
	}
	if d.buf[d.off] != ':' {
		return Value{}, d.fail(ErrMalformedLength)
	}
	n, err := strconv.Atoi(string(d.buf[start:d.off]))
	if err != nil {
		// Digit run too long to represent; it cannot name a length
		// the buffer could satisfy.
		return Value{}, &SyntaxError{Offset: start, Err: ErrMalformedLength}
	}
	d.off++
	if len(d.buf)-d.off < n {
		return Value{}, d.fail(ErrTruncated)
	}
	raw := make([]byte, n)
	copy(raw, d.buf[d.off:d.off+n])
	d.off += n
	return Value{kind: KindString, raw: raw}, nil
}

// list consumes l<value>*e, dispatching for each element. An element
// failure propagates unchanged; exhausting input before the closing
// 'e' fails with ErrTruncated.
func (d *decoder) list() (Value, error) {
	if err := d.push(); err != nil {
		return Value{}, err
	}
	defer d.pop()
	d.off++
	elems := make([]Value, 0)
	for {
		if d.off >= len(d.buf) {
			return Value{}, d.fail(ErrTruncated)
		}
		if d.buf[d.off] == 'e' {
			d.off++
			return Value{kind: KindList, list: elems}, nil
		}
		elem, err := d.value()
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, elem)
	}
}

// dict consumes d(<byte-string><value>)*e. Keys go through the
// byte-string grammar only: a key position not starting with a digit
// fails with ErrInvalidKey, and a key that starts with a digit but
// breaks mid-grammar propagates the byte-string failure unchanged. A
// repeated key keeps the last value seen.
func (d *decoder) dict() (Value, error) {
	if err := d.push(); err != nil {
		return Value{}, err
	}
	defer d.pop()
	d.off++
	entries := make(map[string]Value)
	for {
		if d.off >= len(d.buf) {
			return Value{}, d.fail(ErrTruncated)
		}
		if d.buf[d.off] == 'e' {
			d.off++
			return Value{kind: KindDict, dict: entries}, nil
		}
		if c := d.buf[d.off]; c < '0' || c > '9' {
			return Value{}, d.fail(ErrInvalidKey)
		}
		key, err := d.byteString()
		if err != nil {
			return Value{}, err
		}
		val, err := d.value()
		if err != nil {
			return Value{}, err
		}
		entries[string(key.raw)] = val
	}
}

func (d *decoder) push() error {
	d.depth++
	if d.depth > d.limits.MaxDepth {
		return d.fail(ErrDepthExceeded)
	}
	return nil
}

func (d *decoder) pop() {
	d.depth--
}
