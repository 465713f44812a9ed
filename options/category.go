package options

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// CategoryEnum is a bit set of value conversions the converter is allowed to perform
// when a cell's runtime kind differs from the target field's kind.
type CategoryEnum int

const (
	CategorySafeNumber      CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                             // int, uint, float with precision loss
	CategoryTextNumber                               // string -> int, uint, float, decimal: textual number representation
	CategoryNumericBool                              // int -> bool: 0, 1 representation of boolean values
	CategoryTextualBool                              // string -> bool: affirmative marker representation ('y', 'n')
	CategoryDatetime                                 // string -> time.Time: textual date and time representation
	CategoryTimestamp                                // int(Unix seconds) -> time.Time: Unix timestamp representation
	CategoryDuration                                 // string(2h45m) -> time.Duration: textual duration representation
	CategoryNanoseconds                              // int(nanoseconds) -> time.Duration: numerical duration representation
	CategoryEnumString                               // string, int -> enum: raw value or member name lookup
	CategoryDecimal                                  // int, float, string <-> decimal.Decimal
	CategoryUnscaledDecimal                          // unscaled integer rendering divided by 10^scale reported by the source

	CategoryAll     CategoryEnum = (1 << iota) - 1                  // all categories combined
	CategoryNone    CategoryEnum = 0                                // no categories selected
	CategoryDefault              = CategoryAll &^ CategoryUnscaledDecimal // everything except provider quirks
)

var categoryNames = map[CategoryEnum]string{
	CategorySafeNumber:      "safe_number",
	CategoryUnsafeNumber:    "unsafe_number",
	CategoryTextNumber:      "text_number",
	CategoryNumericBool:     "numeric_bool",
	CategoryTextualBool:     "textual_bool",
	CategoryDatetime:        "datetime",
	CategoryTimestamp:       "timestamp",
	CategoryDuration:        "duration",
	CategoryNanoseconds:     "nanoseconds",
	CategoryEnumString:      "enum_string",
	CategoryDecimal:         "decimal",
	CategoryUnscaledDecimal: "unscaled_decimal",
}

// Has reports whether every category of other is enabled in c.
func (c CategoryEnum) Has(other CategoryEnum) bool {
	return c&other == other
}

// String returns the '|' separated names of the enabled categories.
func (c CategoryEnum) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryAll:
		return "all"
	}

	names := c.Names()
	if len(names) == 0 {
		return fmt.Sprintf("CategoryEnum(%d)", int(c))
	}

	return strings.Join(names, "|")
}

// Names returns the sorted names of the enabled categories.
func (c CategoryEnum) Names() []string {
	var names []string

	for bit, name := range categoryNames {
		if c&bit != 0 {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}

// ParseCategory resolves a single category name; "all", "none" and "default" are accepted too.
func ParseCategory(name string) (CategoryEnum, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	switch name {
	case "all":
		return CategoryAll, nil
	case "none":
		return CategoryNone, nil
	case "default":
		return CategoryDefault, nil
	}

	for bit, n := range categoryNames {
		if n == name {
			return bit, nil
		}
	}

	return CategoryNone, fmt.Errorf("unknown conversion category %q", name)
}

// UnmarshalYAML accepts either a single category name or a list of names.
func (c *CategoryEnum) UnmarshalYAML(value *yaml.Node) error {
	var names []string

	switch value.Kind {
	case yaml.ScalarNode:
		names = []string{value.Value}
	case yaml.SequenceNode:
		if err := value.Decode(&names); err != nil {
			return err
		}
	default:
		return fmt.Errorf("line %d: categories must be a name or a list of names", value.Line)
	}

	var out CategoryEnum

	for _, name := range names {
		cat, err := ParseCategory(name)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}

		out |= cat
	}

	*c = out

	return nil
}

// MarshalYAML writes the enabled categories as a list of names.
func (c CategoryEnum) MarshalYAML() (any, error) {
	return c.Names(), nil
}
