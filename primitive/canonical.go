package primitive

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

type (
	decimalKey string
	timeKey    string
	// nanKey makes NaN keys equal to each other, so a NaN key identifies one item.
	nanKey struct{}
)

// Canonical returns a comparable representation of v suitable for hashing and equality:
// equal field values yield equal results regardless of pointer identity, time location or
// decimal exponent. A nil pointer yields nil.
func Canonical(v reflect.Value) any {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	if !v.IsValid() || !v.CanInterface() {
		return nil
	}

	return canonicalCell(v.Interface())
}

func canonicalCell(x any) any {
	switch t := x.(type) {
	case nil:
		return nil
	case []byte:
		return string(t)
	case decimal.Decimal:
		return decimalKey(t.String())
	case time.Time:
		return timeKey(t.UTC().Format(time.RFC3339Nano))
	}

	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if n := rv.Uint(); n <= math.MaxInt64 {
			return int64(n)
		}
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		switch {
		case math.IsNaN(f):
			return nanKey{}
		case f == 0:
			return float64(0) // folds -0
		}
		return f
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	}

	if rv.Type().Comparable() {
		return x
	}

	return fmt.Sprintf("%#v", x)
}
