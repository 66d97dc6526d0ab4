package dsl

import (
	"context"
	"fmt"
	"reflect"

	gdlevel "github.com/reoring/gdlevel"
)

// ToStruct maps a dict onto struct T by resolved field keys (see
// gdlevel.ResolveStructKey) and back. Missing entries leave the zero value.
func ToStruct[T any]() gdlevel.Transform {
	rt := structType[T]()
	idx := map[string]int{}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := gdlevel.ResolveStructKey(sf)
		if name == "-" || name == "" {
			continue
		}
		idx[name] = i
	}
	return structT[T]{t: rt, fieldByKey: idx}
}

// FromTuple maps a []any onto the exported fields of struct T in declaration order.
func FromTuple[T any]() gdlevel.Transform {
	rt := structType[T]()
	var fields []int
	for i := 0; i < rt.NumField(); i++ {
		if rt.Field(i).IsExported() {
			fields = append(fields, i)
		}
	}
	return tupleStructT[T]{t: rt, fields: fields}
}

func structType[T any]() reflect.Type {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if rt.Kind() != reflect.Struct {
		panic(fmt.Sprintf("dsl: %v is not a struct", rt))
	}
	return rt
}

type structT[T any] struct {
	t          reflect.Type
	fieldByKey map[string]int // dict key -> struct field index
}

func (s structT[T]) Keys() []string {
	out := make([]string, 0, len(s.fieldByKey))
	for k := range s.fieldByKey {
		out = append(out, k)
	}
	return out
}

func (s structT[T]) Analyze(_ context.Context, data any) (any, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, invalidType("expected dict", data)
	}
	rv := reflect.New(s.t).Elem()
	for key, i := range s.fieldByKey {
		val, ok := m[key]
		if !ok {
			continue
		}
		if err := setField(rv.Field(i), val); err != nil {
			return nil, gdlevel.Rebase(err, key)
		}
	}
	return rv.Interface().(T), nil
}

func (s structT[T]) Compile(_ context.Context, value any, _ map[string]any) (any, error) {
	rv, err := structValue[T](value)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(s.fieldByKey))
	for key, i := range s.fieldByKey {
		out[key] = rv.Field(i).Interface()
	}
	return out, nil
}

type tupleStructT[T any] struct {
	t      reflect.Type
	fields []int
}

func (s tupleStructT[T]) Analyze(_ context.Context, data any) (any, error) {
	items, ok := data.([]any)
	if !ok {
		return nil, invalidType("expected list", data)
	}
	if len(items) != len(s.fields) {
		return nil, gdlevel.Fail(gdlevel.CodeInvalidFormat, gdlevel.ErrInvalidValue,
			fmt.Sprintf("%v needs %d items, got %d", s.t, len(s.fields), len(items)))
	}
	rv := reflect.New(s.t).Elem()
	for n, i := range s.fields {
		if err := setField(rv.Field(i), items[n]); err != nil {
			return nil, gdlevel.Rebase(err, fmt.Sprint(n))
		}
	}
	return rv.Interface().(T), nil
}

func (s tupleStructT[T]) Compile(_ context.Context, value any, _ map[string]any) (any, error) {
	rv, err := structValue[T](value)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(s.fields))
	for n, i := range s.fields {
		out[n] = rv.Field(i).Interface()
	}
	return out, nil
}

func structValue[T any](value any) (reflect.Value, error) {
	switch v := value.(type) {
	case T:
		return reflect.ValueOf(v), nil
	case *T:
		if v != nil {
			return reflect.ValueOf(v).Elem(), nil
		}
	}
	var zero T
	return reflect.Value{}, invalidType(fmt.Sprintf("expected %T", zero), value)
}

func setField(fv reflect.Value, val any) error {
	// Gracefully handle nulls for nillable fields
	if val == nil {
		switch fv.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map:
			fv.Set(reflect.Zero(fv.Type()))
		}
		return nil
	}
	vv := reflect.ValueOf(val)
	switch {
	case vv.Type().AssignableTo(fv.Type()):
		fv.Set(vv)
	case vv.Type().ConvertibleTo(fv.Type()) && vv.Kind() != reflect.String && fv.Kind() != reflect.String:
		fv.Set(vv.Convert(fv.Type()))
	default:
		return invalidType("field type mismatch: expected "+fv.Type().String(), val)
	}
	return nil
}
