package benc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalScalars(t *testing.T) {
	got, err := Marshal(42)
	require.NoError(t, err)
	require.Equal(t, "i42e", string(got))

	got, err = Marshal(int8(-5))
	require.NoError(t, err)
	require.Equal(t, "i-5e", string(got))

	got, err = Marshal(uint32(7))
	require.NoError(t, err)
	require.Equal(t, "i7e", string(got))

	got, err = Marshal("spam")
	require.NoError(t, err)
	require.Equal(t, "4:spam", string(got))

	got, err = Marshal([]byte{0x01, 0x02})
	require.NoError(t, err)
	require.Equal(t, "2:\x01\x02", string(got))
}

func TestMarshalComposites(t *testing.T) {
	got, err := Marshal([]string{"a", "bb"})
	require.NoError(t, err)
	require.Equal(t, "l1:a2:bbe", string(got))

	got, err = Marshal([2]int{3, 4})
	require.NoError(t, err)
	require.Equal(t, "li3ei4ee", string(got))

	got, err = Marshal([3]byte{'a', 'b', 'c'})
	require.NoError(t, err)
	require.Equal(t, "3:abc", string(got))

	got, err = Marshal(map[string]int{"b": 2, "a": 1})
	require.NoError(t, err)
	require.Equal(t, "d1:ai1e1:bi2ee", string(got))

	var nilSlice []int
	got, err = Marshal(nilSlice)
	require.NoError(t, err)
	require.Equal(t, "le", string(got))

	var nilMap map[string]int
	got, err = Marshal(nilMap)
	require.NoError(t, err)
	require.Equal(t, "de", string(got))
}

func TestMarshalStruct(t *testing.T) {
	type info struct {
		Name        string `bencode:"name"`
		PieceLength int64  `bencode:"piece length"`
		Private     int    `bencode:"private,omitempty"`
		Internal    string `bencode:"-"`
	}
	type torrent struct {
		Announce string `bencode:"announce"`
		Info     info   `bencode:"info"`
	}

	got, err := Marshal(torrent{
		Announce: "http://tracker/announce",
		Info: info{
			Name:        "file.iso",
			PieceLength: 262144,
			Internal:    "dropped",
		},
	})
	require.NoError(t, err)
	want := "d8:announce23:http://tracker/announce" +
		"4:infod4:name8:file.iso12:piece lengthi262144eee"
	require.Equal(t, want, string(got))
}

func TestMarshalStructUntaggedAndEmbedded(t *testing.T) {
	type Base struct {
		ID int
	}
	type Node struct {
		Base
		Name string
	}

	got, err := Marshal(Node{Base: Base{ID: 9}, Name: "n"})
	require.NoError(t, err)
	require.Equal(t, "d2:IDi9e4:Name1:ne", string(got))
}

func TestMarshalStructShadowing(t *testing.T) {
	type Base struct {
		Name string
	}
	type Node struct {
		Base
		Name string `bencode:"Name"`
	}

	// The outer field shadows the promoted one.
	got, err := Marshal(Node{Base: Base{Name: "inner"}, Name: "outer"})
	require.NoError(t, err)
	require.Equal(t, "d4:Name5:outere", string(got))
}

func TestMarshalOmitEmpty(t *testing.T) {
	type opts struct {
		Tags  []string       `bencode:"tags,omitempty"`
		Extra map[string]int `bencode:"extra,omitempty"`
		Note  string         `bencode:"note,omitempty"`
		Count int            `bencode:"count,omitempty"`
	}

	got, err := Marshal(opts{})
	require.NoError(t, err)
	require.Equal(t, "de", string(got))

	got, err = Marshal(opts{Note: "x", Count: 2})
	require.NoError(t, err)
	require.Equal(t, "d5:counti2e4:note1:xe", string(got))
}

func TestMarshalValuePassthrough(t *testing.T) {
	v := Dict(map[string]Value{"k": List(Int(1))})
	got, err := Marshal(v)
	require.NoError(t, err)
	require.Equal(t, "d1:kli1eee", string(got))

	type wrapper struct {
		Payload Value `bencode:"payload"`
	}
	got, err = Marshal(wrapper{Payload: Str("raw")})
	require.NoError(t, err)
	require.Equal(t, "d7:payload3:rawe", string(got))
}

func TestMarshalPointerAndInterface(t *testing.T) {
	n := 5
	got, err := Marshal(&n)
	require.NoError(t, err)
	require.Equal(t, "i5e", string(got))

	var boxed any = "s"
	got, err = Marshal([]any{boxed, 1})
	require.NoError(t, err)
	require.Equal(t, "l1:si1ee", string(got))
}

func TestMarshalUnsupported(t *testing.T) {
	_, err := Marshal(true)
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Marshal(3.14)
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Marshal(nil)
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Marshal(map[int]string{1: "x"})
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Marshal(uint64(math.MaxUint64))
	require.ErrorIs(t, err, ErrUnsupportedType)

	var p *int
	_, err = Marshal(p)
	require.ErrorIs(t, err, ErrUnsupportedType)
}
