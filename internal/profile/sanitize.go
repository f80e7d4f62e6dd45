package profile

import (
	"math"
	"reflect"
)

// sanitize walks v and zeroes every NaN or infinite float so the snapshot
// only ever holds plain JSON values
func sanitize(v interface{}) {
	walk(reflect.ValueOf(v))
}

func walk(v reflect.Value) {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if !v.IsNil() {
			walk(v.Elem())
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				walk(v.Field(i))
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			walk(v.Index(i))
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			// map values are not addressable; copy, clean, store back
			elem := reflect.New(iter.Value().Type()).Elem()
			elem.Set(iter.Value())
			walk(elem)
			v.SetMapIndex(iter.Key(), elem)
		}
	case reflect.Float32, reflect.Float64:
		if f := v.Float(); (math.IsNaN(f) || math.IsInf(f, 0)) && v.CanSet() {
			v.SetFloat(0)
		}
	}
}
