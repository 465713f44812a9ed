package primitive

import (
	"database/sql"
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"rowgraph/options"
)

// maxScale bounds the decimal scale a source may report (SQL NUMERIC precision limit).
const maxScale = 38

var (
	bytesType           = reflect.TypeFor[[]byte]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Converter converts cell values into field types. It is immutable and safe for
// concurrent use.
//
// String targets, and named string types without enum members, receive text cells
// verbatim. Text read as a boolean or an enum member is trimmed, with double quotes
// folded into single quotes. Text read into any other type is trimmed.
type Converter struct {
	categories  options.CategoryEnum
	affirmative string
}

func NewConverter(o options.Options) *Converter {
	affirmative := strings.ToLower(strings.TrimSpace(o.Affirmative))
	if affirmative == "" {
		affirmative = options.DefaultAffirmative
	}

	return &Converter{categories: o.Categories, affirmative: affirmative}
}

// Convert converts cell into a value of type target. A nil cell (NULL) yields the zero
// value of target.
func (c *Converter) Convert(cell any, target reflect.Type) (reflect.Value, error) {
	return c.ConvertScaled(cell, target, 0)
}

// ConvertScaled is Convert for a column whose source reports a decimal scale. When
// unscaled decimals are enabled and the cell renders without a fractional separator,
// it is divided by 10^scale first.
func (c *Converter) ConvertScaled(cell any, target reflect.Type, scale int) (reflect.Value, error) {
	if cell == nil {
		return reflect.Zero(target), nil
	}

	// nullable wrapper: unwrap, convert, rewrap
	if target.Kind() == reflect.Ptr {
		inner, err := c.ConvertScaled(cell, target.Elem(), scale)
		if err != nil {
			return reflect.Value{}, err
		}

		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(inner)

		return ptr, nil
	}

	if b, ok := cell.([]byte); ok && target != bytesType {
		cell = string(b)
	}

	if scale > 0 && c.categories.Has(options.CategoryUnscaledDecimal) {
		if d, ok := unscale(cell, scale); ok {
			cell = d
		}
	}

	v, err := c.convert(cell, target)
	if err != nil {
		return reflect.Value{}, &ConversionError{Value: cell, Target: target, Err: err}
	}

	return v, nil
}

func (c *Converter) convert(cell any, target reflect.Type) (reflect.Value, error) {
	if reflect.TypeOf(cell) == target {
		return reflect.ValueOf(cell), nil
	}

	to := FromReflectType(target)
	if to == 0 {
		return reflect.Value{}, ErrUnsupported
	}

	if cat := Category(FromValue(cell), to); cat != options.CategoryNone && !c.categories.Has(cat) {
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrCategoryDisabled, cat)
	}

	switch to {
	case KindScanner:
		ptr := reflect.New(target)
		if err := ptr.Interface().(sql.Scanner).Scan(cell); err != nil {
			return reflect.Value{}, err
		}

		return ptr.Elem(), nil

	case KindPrimitiveEnum:
		return c.toEnum(cell, target)
	}

	x, err := c.toKind(cell, to)
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(x).Convert(target), nil
}

func (c *Converter) toEnum(cell any, target reflect.Type) (reflect.Value, error) {
	if members := Members(target); members != nil {
		v, ok := lookupMember(members, cell)
		if !ok {
			return reflect.Value{}, ErrNoEnumMember
		}

		return reflect.ValueOf(v).Convert(target), nil
	}

	if text, ok := cell.(string); ok && reflect.PointerTo(target).Implements(textUnmarshalerType) {
		ptr := reflect.New(target)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(normalizeText(text))); err != nil {
			return reflect.Value{}, err
		}

		return ptr.Elem(), nil
	}

	x, err := c.toKind(cell, Underlying(target))
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(x).Convert(target), nil
}

// toKind produces a value of the builtin type behind kind; the caller converts it to the
// exact (possibly named) target type.
func (c *Converter) toKind(cell any, kind KindEnum) (any, error) {
	switch {
	case kind == KindBool:
		if text, ok := cell.(string); ok {
			return strings.ToLower(normalizeText(text)) == c.affirmative, nil
		}

		if FromValue(cell).IsInteger() {
			n, err := cast.ToInt64E(cell)
			return n != 0, err
		}

		return cast.ToBoolE(cell)

	case kind == KindString:
		// not normalized
		return toString(cell)

	case kind == KindBytes:
		s, err := toString(cell)
		return []byte(s), err

	case kind.IsSigned():
		n, err := toInt64(cell)
		if err != nil {
			return nil, err
		}

		if kind.Bits() < 64 && (n < -(1<<(kind.Bits()-1)) || n > 1<<(kind.Bits()-1)-1) {
			return nil, ErrOverflow
		}

		return n, nil

	case kind.IsUnsigned():
		n, err := toUint64(cell)
		if err != nil {
			return nil, err
		}

		if kind.Bits() < 64 && n > 1<<kind.Bits()-1 {
			return nil, ErrOverflow
		}

		return n, nil

	case kind.IsFloat():
		f, err := toFloat64(cell)
		if err != nil {
			return nil, err
		}

		if kind == KindFloat32 && math.Abs(f) > math.MaxFloat32 && !math.IsInf(f, 0) {
			return nil, ErrOverflow
		}

		return f, nil

	case kind == KindTime:
		if text, ok := cell.(string); ok {
			return cast.ToTimeE(strings.TrimSpace(text))
		}

		return cast.ToTimeE(cell)

	case kind == KindDuration:
		if text, ok := cell.(string); ok {
			return cast.ToDurationE(strings.TrimSpace(text))
		}

		return cast.ToDurationE(cell)

	case kind == KindDecimal:
		return toDecimal(cell)
	}

	return nil, ErrUnsupported
}

func toString(cell any) (string, error) {
	switch v := cell.(type) {
	case decimal.Decimal:
		return v.String(), nil
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	}

	return cast.ToStringE(cell)
}

func toInt64(cell any) (int64, error) {
	switch v := cell.(type) {
	case string:
		return strconv.ParseInt(trimNumber(v), 10, 64)
	case decimal.Decimal:
		return v.IntPart(), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, ErrOverflow
		}
	}

	return cast.ToInt64E(cell)
}

func toUint64(cell any) (uint64, error) {
	switch v := cell.(type) {
	case string:
		return strconv.ParseUint(trimNumber(v), 10, 64)
	case decimal.Decimal:
		if v.IsNegative() {
			return 0, ErrOverflow
		}

		return strconv.ParseUint(v.Truncate(0).String(), 10, 64)
	}

	return cast.ToUint64E(cell)
}

func toFloat64(cell any) (float64, error) {
	switch v := cell.(type) {
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case decimal.Decimal:
		return v.InexactFloat64(), nil
	}

	return cast.ToFloat64E(cell)
}

func toDecimal(cell any) (decimal.Decimal, error) {
	switch v := cell.(type) {
	case decimal.Decimal:
		return v, nil
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case uint, uint32, uint64:
		return decimal.NewFromString(fmt.Sprint(v))
	}

	n, err := cast.ToInt64E(cell)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return decimal.NewFromInt(n), nil
}

// unscale divides numeric cells rendered without a fractional separator by 10^scale.
func unscale(cell any, scale int) (decimal.Decimal, bool) {
	if scale < 1 || scale > maxScale {
		return decimal.Decimal{}, false
	}

	var rendering string

	switch v := cell.(type) {
	case decimal.Decimal:
		rendering = v.String()
	case string:
		rendering = strings.TrimSpace(v)
	default:
		if !FromValue(cell).IsNumber() {
			return decimal.Decimal{}, false
		}

		rendering = fmt.Sprint(cell)
	}

	if strings.ContainsAny(rendering, ".,eE") {
		return decimal.Decimal{}, false
	}

	d, err := toDecimal(cell)
	if err != nil {
		return decimal.Decimal{}, false
	}

	return d.Shift(int32(-scale)), true
}

// normalizeText trims text cells and folds double quotes into single quotes.
func normalizeText(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), `"`, `'`)
}

// trimNumber trims text and drops an all-zero fraction ("12.00" reads as 12).
func trimNumber(s string) string {
	s = strings.TrimSpace(s)

	if i := strings.IndexByte(s, '.'); i >= 0 && strings.Trim(s[i+1:], "0") == "" {
		s = s[:i]
	}

	return s
}

func cellText(cell any) (string, bool) {
	switch v := cell.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	}

	s, err := cast.ToStringE(cell)

	return s, err == nil
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
