package benc

import (
	"reflect"
	"strings"
	"sync"
)

const tagName = "bencode"

// field is one marshalable struct field, located through its index
// path so embedded struct members resolve correctly.
type field struct {
	name      string
	index     []int
	omitEmpty bool
}

var fieldCache sync.Map // reflect.Type -> []field

func cachedFields(t reflect.Type) []field {
	if f, ok := fieldCache.Load(t); ok {
		return f.([]field)
	}
	f, _ := fieldCache.LoadOrStore(t, structFields(t))
	return f.([]field)
}

// structFields walks t breadth-first so fields of the struct itself
// shadow fields promoted from embedded structs. At equal depth an
// explicitly tagged field wins; names that stay ambiguous are dropped
// without error. Embedded non-struct and embedded pointer fields are
// not promoted.
func structFields(t reflect.Type) []field {
	type queued struct {
		t      reflect.Type
		parent []int
	}
	type candidate struct {
		f        field
		explicit bool
	}

	queue := []queued{{t: t}}
	byName := map[string][]candidate{}
	var order []string

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		for i := 0; i < item.t.NumField(); i++ {
			sf := item.t.Field(i)
			if !sf.IsExported() {
				continue
			}
			name, opts, explicit := parseTag(sf)
			if name == "" {
				continue
			}
			parent := item.parent
			index := append(parent[:len(parent):len(parent)], i)

			if sf.Anonymous && !explicit {
				if sf.Type.Kind() != reflect.Struct {
					continue
				}
				queue = append(queue, queued{t: sf.Type, parent: index})
				continue
			}

			if len(byName[name]) == 0 {
				order = append(order, name)
			}
			byName[name] = append(byName[name], candidate{
				f:        field{name: name, index: index, omitEmpty: opts.omitEmpty},
				explicit: explicit,
			})
		}
	}

	fields := make([]field, 0, len(order))
	for _, name := range order {
		cands := byName[name]
		// BFS appends shallow fields first, so the shortest index
		// length is at the front; only that depth competes.
		n := 1
		for n < len(cands) && len(cands[n].f.index) == len(cands[0].f.index) {
			n++
		}
		top := cands[:n]
		if len(top) == 1 {
			fields = append(fields, top[0].f)
			continue
		}
		var explicit []candidate
		for _, c := range top {
			if c.explicit {
				explicit = append(explicit, c)
			}
		}
		if len(explicit) == 1 {
			fields = append(fields, explicit[0].f)
		}
	}
	return fields
}

type tagOpts struct {
	omitEmpty bool
}

func parseTag(sf reflect.StructField) (string, tagOpts, bool) {
	tag := sf.Tag.Get(tagName)
	if tag == "" {
		return sf.Name, tagOpts{}, false
	}
	if tag == "-" {
		return "", tagOpts{}, true
	}
	name := tag
	var opts tagOpts
	if idx := strings.IndexByte(tag, ','); idx >= 0 {
		name = tag[:idx]
		opts.omitEmpty = strings.Contains(tag[idx+1:], "omitempty")
	}
	if name == "" {
		return sf.Name, opts, false
	}
	return name, opts, true
}
