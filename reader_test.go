package benc

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecoderConsecutiveValues(t *testing.T) {
	d := NewDecoder(strings.NewReader("i1e4:spamle"))

	v, err := d.DecodeValue()
	require.NoError(t, err)
	require.True(t, v.Equal(Int(1)))

	v, err = d.DecodeValue()
	require.NoError(t, err)
	require.True(t, v.Equal(Str("spam")))

	require.True(t, d.More())
	v, err = d.DecodeValue()
	require.NoError(t, err)
	require.True(t, v.Equal(List()))

	require.False(t, d.More())
	_, err = d.DecodeValue()
	require.ErrorIs(t, err, io.EOF)
}

func TestDecoderIntoTargets(t *testing.T) {
	type msg struct {
		Op  string `bencode:"op"`
		Seq int    `bencode:"seq"`
	}
	d := NewDecoder(strings.NewReader("d2:op3:get3:seqi1eed2:op3:put3:seqi2ee"))

	var first, second msg
	require.NoError(t, d.Decode(&first))
	require.NoError(t, d.Decode(&second))
	require.Equal(t, msg{Op: "get", Seq: 1}, first)
	require.Equal(t, msg{Op: "put", Seq: 2}, second)

	require.ErrorIs(t, d.Decode(&first), io.EOF)
}

func TestDecoderStreamOffsets(t *testing.T) {
	// The first value consumes three bytes; the error in the second
	// reports its position in the whole stream.
	d := NewDecoder(strings.NewReader("i1ei-e"))

	_, err := d.DecodeValue()
	require.NoError(t, err)

	_, err = d.DecodeValue()
	require.ErrorIs(t, err, ErrMalformedInteger)
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	require.Equal(t, 5, se.Offset)
}

func TestDecoderSetLimits(t *testing.T) {
	d := NewDecoder(strings.NewReader("lli1eee"))
	d.SetLimits(Limits{MaxDepth: 1})
	_, err := d.DecodeValue()
	require.ErrorIs(t, err, ErrDepthExceeded)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("backing store went away")
}

func TestDecoderReadError(t *testing.T) {
	d := NewDecoder(failingReader{})
	_, err := d.DecodeValue()
	require.EqualError(t, err, "backing store went away")
	require.False(t, d.More())
}

type countingFlakyReader struct {
	reads int
}

func (r *countingFlakyReader) Read(p []byte) (int, error) {
	r.reads++
	if r.reads == 1 {
		return copy(p, "i1e"), nil
	}
	return 0, errors.New("connection reset")
}

func TestDecoderReadErrorLatched(t *testing.T) {
	r := &countingFlakyReader{}
	d := NewDecoder(r)

	_, err := d.DecodeValue()
	require.EqualError(t, err, "connection reset")
	reads := r.reads

	// Retries repeat the failure; the reader is not touched again and
	// the bytes read before the failure are not served as a value.
	_, err = d.DecodeValue()
	require.EqualError(t, err, "connection reset")
	require.False(t, d.More())
	require.Equal(t, reads, r.reads)
}
