package types

import "reflect"

// IsAbsent returns true if the value is nil or a nil pointer, map, slice, channel, function or interface.
func IsAbsent(value any) bool {
	if value == nil {
		return true
	}

	switch reflectedValue := reflect.ValueOf(value); reflectedValue.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return reflectedValue.IsNil()
	default:
		return false
	}
}
