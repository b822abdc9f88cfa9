package primitive

// CategoryEnum is a set of conversion families a Registry accepts beyond exact-kind
// conversions: lenient textual forms when parsing field text, and cross-kind conversions
// when a bound property type differs from the field's handler kind.
type CategoryEnum int

type ConversionPair struct {
	From, To KindEnum
}

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                          // int, uint, float with precision loss
	CategoryTextNumber                            // int, uint, float <-> string: textual number representation
	CategoryNumericBool                           // int <-> bool, and "1"/"0" field text for booleans
	CategoryTextualBool                           // yes, no, on, off, y, n field text for booleans
	CategoryDatetime                              // string(RFC3339Nano) <-> time.Time: default layout for unformatted time fields
	CategoryTimestamp                             // int(Unix seconds) <-> time.Time: digits-only time field text
	CategoryDuration                              // string(2h45m) <-> time.Duration: textual duration representation
	CategoryNanoseconds                           // int(nanoseconds) <-> time.Duration: digits-only duration field text
	CategorySeconds                               // float(seconds) <-> time.Duration: numerical (floating-point) duration representation
	CategoryEnumString                            // string <-> enum: named string and integer types

	CategoryAll  CategoryEnum = (1 << iota) - 1 // all categories combined
	CategoryNone CategoryEnum = 0               // no categories selected

	// CategoryDefault is what NewRegistry enables when no categories are given.
	CategoryDefault = CategorySafeNumber | CategoryTextNumber | CategoryTextualBool |
		CategoryNumericBool | CategoryDatetime | CategoryDuration | CategoryEnumString
)

var conversionPairs map[CategoryEnum]map[ConversionPair]struct{}

func init() {
	conversionPairs = make(map[CategoryEnum]map[ConversionPair]struct{})

	numbers := kindsWhere(KindEnum.IsNumber)
	integers := kindsWhere(KindEnum.IsInteger)

	conversionPairs[CategorySafeNumber] = safeNumberConversionPairs()

	conversionPairs[CategoryUnsafeNumber] = map[ConversionPair]struct{}{}
	for _, from := range numbers {
		for _, to := range numbers {
			pair := ConversionPair{from, to}
			if _, ok := conversionPairs[CategorySafeNumber][pair]; !ok {
				conversionPairs[CategoryUnsafeNumber][pair] = struct{}{}
			}
		}
	}

	conversionPairs[CategoryTextNumber] = symmetric(numbers, KindString)
	conversionPairs[CategoryNumericBool] = symmetric(integers, KindBool)
	conversionPairs[CategoryTextualBool] = symmetric([]KindEnum{KindString}, KindBool)
	conversionPairs[CategoryDatetime] = symmetric([]KindEnum{KindString}, KindTime)
	conversionPairs[CategoryTimestamp] = symmetric(integers, KindTime)
	conversionPairs[CategoryDuration] = symmetric([]KindEnum{KindString}, KindDuration)
	conversionPairs[CategoryNanoseconds] = symmetric(kindsWhere(func(k KindEnum) bool {
		return k.IsInteger() && k != KindUint64
	}), KindDuration)
	conversionPairs[CategorySeconds] = symmetric([]KindEnum{KindFloat32, KindFloat64}, KindDuration)
	conversionPairs[CategoryEnumString] = map[ConversionPair]struct{}{
		{KindString, KindPrimitiveEnum}:        {},
		{KindPrimitiveEnum, KindString}:        {},
		{KindPrimitiveEnum, KindPrimitiveEnum}: {},
	}

	for _, k := range integers {
		conversionPairs[CategoryEnumString][ConversionPair{k, KindPrimitiveEnum}] = struct{}{}
		conversionPairs[CategoryEnumString][ConversionPair{KindPrimitiveEnum, k}] = struct{}{}
	}
}

func kindsWhere(pred func(KindEnum) bool) []KindEnum {
	var kinds []KindEnum

	for k := KindEnum(1); int(k) < KindTotal; k++ {
		if pred(k) {
			kinds = append(kinds, k)
		}
	}

	return kinds
}

func symmetric(kinds []KindEnum, other KindEnum) map[ConversionPair]struct{} {
	pairs := make(map[ConversionPair]struct{}, 2*len(kinds))
	for _, k := range kinds {
		pairs[ConversionPair{k, other}] = struct{}{}
		pairs[ConversionPair{other, k}] = struct{}{}
	}

	return pairs
}

// Has reports whether every category in other is enabled in c.
func (c CategoryEnum) Has(other CategoryEnum) bool {
	return c&other == other
}

// Allows reports whether a value of kind from may be converted to kind to under the
// enabled categories. Identical kinds always convert.
func (c CategoryEnum) Allows(from, to KindEnum) bool {
	if from == to && from != KindPrimitiveEnum {
		return true
	}

	pair := ConversionPair{from, to}
	for category, pairs := range conversionPairs {
		if !c.Has(category) {
			continue
		}

		if _, ok := pairs[pair]; ok {
			return true
		}
	}

	return false
}

func safeNumberConversionPairs() map[ConversionPair]struct{} {
	return map[ConversionPair]struct{}{
		{KindInt, KindInt}:   {}, // int can be any wide from 32 upto 64
		{KindInt, KindInt64}: {},

		{KindInt8, KindInt}:     {}, // int8 can be safely converted to any signed int
		{KindInt8, KindInt16}:   {},
		{KindInt8, KindInt32}:   {},
		{KindInt8, KindInt64}:   {},
		{KindInt8, KindFloat32}: {},
		{KindInt8, KindFloat64}: {},

		{KindInt16, KindInt}:     {},
		{KindInt16, KindInt32}:   {},
		{KindInt16, KindInt64}:   {},
		{KindInt16, KindFloat32}: {},
		{KindInt16, KindFloat64}: {},

		{KindInt32, KindInt}:     {},
		{KindInt32, KindInt64}:   {},
		{KindInt32, KindFloat64}: {}, // int32 is wider than float32 mantissa

		{KindInt64, KindInt}: {}, // int is 64 bits wide on supported platforms

		{KindUint, KindUint64}: {},

		{KindUint8, KindUint}:    {},
		{KindUint8, KindUint16}:  {},
		{KindUint8, KindUint32}:  {},
		{KindUint8, KindUint64}:  {},
		{KindUint8, KindInt}:     {},
		{KindUint8, KindInt16}:   {},
		{KindUint8, KindInt32}:   {},
		{KindUint8, KindInt64}:   {},
		{KindUint8, KindFloat32}: {},
		{KindUint8, KindFloat64}: {},

		{KindUint16, KindUint}:    {},
		{KindUint16, KindUint32}:  {},
		{KindUint16, KindUint64}:  {},
		{KindUint16, KindInt}:     {},
		{KindUint16, KindInt32}:   {},
		{KindUint16, KindInt64}:   {},
		{KindUint16, KindFloat32}: {},
		{KindUint16, KindFloat64}: {},

		{KindUint32, KindUint64}:  {},
		{KindUint32, KindInt64}:   {},
		{KindUint32, KindFloat64}: {},

		{KindFloat32, KindFloat64}: {},
	}
}
