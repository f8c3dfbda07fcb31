// Package patch models partial-update payloads where a JSON key may be
// absent, explicitly null, or carry a value.
package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var ErrNullNotAllowed = errors.New("may not be null")

// Field is one optional member of an update payload.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Value returns a Field carrying v.
func Value[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a Field that clears the column.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.Null = true
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Present returns the carried value, or a nil *T when the field is absent
// or null. Validators use it to see through the wrapper: an `omitnil` rule
// skips the nil pointer while a supplied zero value is still checked.
func (f Field[T]) Present() interface{} {
	if !f.Set || f.Null {
		return (*T)(nil)
	}
	return f.Value
}

func (f Field[T]) state() (set, null bool, value interface{}) {
	return f.Set, f.Null, f.Value
}

type stateful interface {
	state() (set, null bool, value interface{})
}

// FieldError reports which payload member was rejected.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Changes flattens a payload struct into a column -> value map holding only
// the members that were supplied. Keys come from the json tag. An explicit
// null becomes a nil value, and is rejected unless the member is tagged
// `patch:"nullable"`.
func Changes(v interface{}) (map[string]interface{}, error) {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("patch: %T is not a struct", v)
	}
	rt := rv.Type()
	out := make(map[string]interface{})
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		f, ok := rv.Field(i).Interface().(stateful)
		if !ok {
			continue
		}
		name := jsonName(sf)
		if name == "" {
			continue
		}
		set, null, value := f.state()
		if !set {
			continue
		}
		if null {
			if !nullable(sf) {
				return nil, &FieldError{Field: name, Err: ErrNullNotAllowed}
			}
			out[name] = nil
			continue
		}
		out[name] = value
	}
	return out, nil
}

func jsonName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return sf.Name
	}
	return name
}

func nullable(sf reflect.StructField) bool {
	for _, opt := range strings.Split(sf.Tag.Get("patch"), ",") {
		if strings.TrimSpace(opt) == "nullable" {
			return true
		}
	}
	return false
}
