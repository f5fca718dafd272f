package interpolation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

const tagName = "env_interpolation"

// InterpolateStruct expands fields tagged `env_interpolation:"yes"` in place using the process
// environment. See Expander.InterpolateStruct.
func InterpolateStruct(v any) error {
	return NewExpander(nil).InterpolateStruct(v)
}

// InterpolateStruct expands fields tagged `env_interpolation:"yes"` in place. Tagged fields may
// be strings, string slices, string maps, or structs (and pointers or slices of structs), which
// are walked recursively.
func (e *Expander) InterpolateStruct(v any) error {
	if v == nil {
		return nil
	}
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("expected struct or pointer to struct, got %T", v)
	}
	if !val.CanAddr() {
		return fmt.Errorf("cannot interpolate non-addressable %T, pass a pointer", v)
	}
	return e.walkStruct(val)
}

func (e *Expander) walkStruct(val reflect.Value) error {
	typ := val.Type()
	var errs []error

	for i := range val.NumField() {
		field := val.Field(i)
		ft := typ.Field(i)
		if !field.CanSet() || !strings.EqualFold(ft.Tag.Get(tagName), "yes") {
			continue
		}
		if err := e.walkValue(field); err != nil {
			errs = append(errs, fmt.Errorf("field %s: %w", ft.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (e *Expander) walkValue(field reflect.Value) error {
	switch field.Kind() {
	case reflect.String:
		return e.setString(field)

	case reflect.Slice:
		var errs []error
		for j := range field.Len() {
			if err := e.walkValue(field.Index(j)); err != nil {
				errs = append(errs, fmt.Errorf("[%d]: %w", j, err))
			}
		}
		return errors.Join(errs...)

	case reflect.Map:
		if field.IsNil() || field.Type().Key().Kind() != reflect.String ||
			field.Type().Elem().Kind() != reflect.String {
			return nil
		}
		var errs []error
		for _, key := range field.MapKeys() {
			out, err := e.Expand(field.MapIndex(key).String())
			if err != nil {
				errs = append(errs, fmt.Errorf("[%s]: %w", key.String(), err))
				continue
			}
			field.SetMapIndex(key, reflect.ValueOf(out).Convert(field.Type().Elem()))
		}
		return errors.Join(errs...)

	case reflect.Struct:
		return e.walkStruct(field)

	case reflect.Ptr:
		if field.IsNil() || field.Elem().Kind() != reflect.Struct {
			return nil
		}
		return e.walkStruct(field.Elem())
	}
	return nil
}

func (e *Expander) setString(field reflect.Value) error {
	original := field.String()
	if original == "" {
		return nil
	}
	out, err := e.Expand(original)
	if err != nil {
		return err
	}
	field.SetString(out)
	return nil
}
