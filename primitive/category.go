package primitive

import "rowgraph/options"

// ConversionPair is a cell kind converted into a field kind.
type ConversionPair struct {
	From, To KindEnum
}

var conversionPairs map[ConversionPair]options.CategoryEnum

func init() {
	conversionPairs = make(map[ConversionPair]options.CategoryEnum)

	for from := KindEnum(1); int(from) < KindTotal; from++ {
		for to := KindEnum(1); int(to) < KindTotal; to++ {
			if from == to {
				continue
			}

			if cat := categorize(from, to); cat != options.CategoryNone {
				conversionPairs[ConversionPair{from, to}] = cat
			}
		}
	}
}

// Category returns the category a conversion from one kind into another belongs to.
// Identical kinds, and pairs no category governs, report CategoryNone.
func Category(from, to KindEnum) options.CategoryEnum {
	return conversionPairs[ConversionPair{from, to}]
}

func categorize(from, to KindEnum) options.CategoryEnum {
	switch {
	case from.IsNumber() && to.IsNumber():
		if isSafeNumber(from, to) {
			return options.CategorySafeNumber
		}
		return options.CategoryUnsafeNumber

	case from.IsTextual() && to.IsNumber():
		return options.CategoryTextNumber
	case from.IsNumber() && to == KindString:
		return options.CategoryTextNumber

	case from.IsInteger() && to == KindBool, from == KindBool && to.IsInteger():
		return options.CategoryNumericBool
	case from.IsTextual() && to == KindBool:
		return options.CategoryTextualBool

	case from.IsTextual() && to == KindTime, from == KindTime && to == KindString:
		return options.CategoryDatetime
	case from.IsInteger() && to == KindTime:
		return options.CategoryTimestamp

	case from.IsTextual() && to == KindDuration:
		return options.CategoryDuration
	case from.IsInteger() && to == KindDuration:
		return options.CategoryNanoseconds

	case (from.IsTextual() || from.IsInteger()) && to == KindPrimitiveEnum:
		return options.CategoryEnumString

	case (from.IsNumber() || from.IsTextual()) && to == KindDecimal:
		return options.CategoryDecimal
	case from == KindDecimal && (to.IsNumber() || to == KindString):
		return options.CategoryDecimal
	}

	return options.CategoryNone
}

// isSafeNumber reports conversions that never lose precision or range.
func isSafeNumber(from, to KindEnum) bool {
	switch {
	case from.IsSigned() && to.IsSigned(), from.IsUnsigned() && to.IsUnsigned():
		return to.Bits() >= from.Bits()
	case from.IsUnsigned() && to.IsSigned():
		return to.Bits() > from.Bits()
	case from.IsInteger() && to.IsFloat():
		return from.Bits() < mantissaBits(to)
	case from.IsFloat() && to.IsFloat():
		return to.Bits() >= from.Bits()
	}

	return false
}

func mantissaBits(k KindEnum) int {
	if k == KindFloat32 {
		return 24
	}

	return 53
}
