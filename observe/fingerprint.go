package observe

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// fingerprint summarizes a value for change detection. Collections are
// reduced to their instance identity plus a hash of member identities, so
// swapping in a new instance and mutating the old one in place both register.
type fingerprint struct {
	collection bool
	identity   uintptr
	length     int
	sum        uint64
}

func fingerprintOf(v any) fingerprint {
	items, ok := Items(v)
	if !ok {
		return fingerprint{}
	}

	fp := fingerprint{
		collection: true,
		identity:   identityOf(v),
		length:     len(items),
	}

	d := xxhash.New()
	buf := make([]byte, 0, 8)
	for _, item := range items {
		if id := identityOf(item); id != 0 {
			buf = binary.LittleEndian.AppendUint64(buf[:0], uint64(id))
			d.Write(buf)
			continue
		}
		fmt.Fprintf(d, "%T:%#v;", item, item)
	}
	fp.sum = d.Sum64()
	return fp
}

// identityOf returns the address behind reference-like values, zero otherwise.
func identityOf(v any) uintptr {
	if v == nil {
		return 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Slice:
		return rv.Pointer()
	default:
		return 0
	}
}

// equal compares with == where the dynamic types allow it. Comparable
// structs holding uncomparable interface values fall back to DeepEqual.
func equal(a, b any) (eq bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}

// Equal is the equality used by change suppression across the module.
func Equal(a, b any) bool {
	return equal(a, b)
}
