/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagevalue

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/go-openapi/strfmt"
)

// Kind is the storage category of a Go value.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindCollection
	KindTimestamp
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindCollection:
		return "collection"
	case KindTimestamp:
		return "timestamp"
	case KindOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Classify reports the Kind of v. Pointers are followed; a nil pointer and
// the zero time are KindNull.
func Classify(v any) Kind {
	v = indirect(v)
	switch tv := v.(type) {
	case nil:
		return KindNull
	case time.Time:
		if tv.IsZero() {
			return KindNull
		}
		return KindTimestamp
	case strfmt.DateTime:
		if time.Time(tv).IsZero() {
			return KindNull
		}
		return KindTimestamp
	case json.Number:
		return KindNumber
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindNumber
	case reflect.Slice, reflect.Array, reflect.Map:
		// Identifier types such as uuid.UUID are arrays with a string form.
		if hasTextForm(v) {
			return KindOpaque
		}
		return KindCollection
	default:
		return KindOpaque
	}
}

// IsIdentifier reports whether v is an opaque value with its own text form,
// such as uuid.UUID. Strings and booleans are not identifiers.
func IsIdentifier(v any) bool {
	v = indirect(v)
	if Classify(v) != KindOpaque {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.String, reflect.Bool:
		return false
	}
	return hasTextForm(v)
}

func hasTextForm(v any) bool {
	switch v.(type) {
	case fmt.Stringer, encoding.TextMarshaler:
		return true
	}
	return false
}

// indirect dereferences pointers until a non-pointer or nil is reached.
func indirect(v any) any {
	for v != nil {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		v = rv.Elem().Interface()
	}
	return nil
}
