package benc

import (
	"errors"
	"io"
)

// Decoder reads consecutive bencode values from a stream. The stream
// is read fully the first time a value is requested; values are then
// served from the buffered bytes. io.EOF reports clean exhaustion. A
// read failure is latched and returned by every later call.
type Decoder struct {
	r        io.Reader
	buf      []byte
	consumed int
	loaded   bool
	readErr  error
	limits   Limits
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, limits: DefaultLimits()}
}

// SetLimits replaces the limits applied to subsequent values.
func (d *Decoder) SetLimits(limits Limits) {
	d.limits = limits
}

func (d *Decoder) load() error {
	if d.loaded {
		return d.readErr
	}
	d.loaded = true
	b, err := io.ReadAll(d.r)
	if err != nil {
		d.readErr = err
		return err
	}
	d.buf = b
	return nil
}

// DecodeValue decodes the next value from the stream. Syntax error
// offsets are positions in the whole stream, not in the bytes left
// after earlier values.
func (d *Decoder) DecodeValue() (Value, error) {
	if err := d.load(); err != nil {
		return Value{}, err
	}
	if len(d.buf) == 0 {
		return Value{}, io.EOF
	}
	v, rest, err := DecodeWithLimits(d.buf, d.limits)
	if err != nil {
		var se *SyntaxError
		if errors.As(err, &se) {
			se.Offset += d.consumed
		}
		return Value{}, err
	}
	d.consumed += len(d.buf) - len(rest)
	d.buf = rest
	return v, nil
}

// Decode decodes the next value into v under Unmarshal's target rules.
func (d *Decoder) Decode(v any) error {
	val, err := d.DecodeValue()
	if err != nil {
		return err
	}
	return assign(val, v)
}

// More reports whether undecoded bytes remain.
func (d *Decoder) More() bool {
	if err := d.load(); err != nil {
		return false
	}
	return len(d.buf) > 0
}
