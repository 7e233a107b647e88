package analytics

import (
	"math"
	"reflect"
	"testing"
)

func approxEqual(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	return diff <= 1e-9*scale
}

// assertFinite fails when any float64 field of v (recursing into structs) is NaN or Inf.
func assertFinite(t *testing.T, v interface{}) {
	t.Helper()
	walkFloats(t, reflect.ValueOf(v), reflect.TypeOf(v).Name())
}

func walkFloats(t *testing.T, v reflect.Value, path string) {
	t.Helper()
	switch v.Kind() {
	case reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Fatalf("%s is not finite: %v", path, f)
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			walkFloats(t, v.Field(i), path+"."+v.Type().Field(i).Name)
		}
	}
}
