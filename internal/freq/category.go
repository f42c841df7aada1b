package freq

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Kind identifies how a category specification matches tokens.
type Kind int

const (
	KindExactText      Kind = iota // Case-insensitive string equality
	KindExactNumber                // Numeric equality, e.g. "5"
	KindRange                      // Inclusive range, e.g. "1-3"
	KindLessThan                   // "<N"
	KindGreaterThan                // ">N"
	KindLessOrEqual                // "≤N"
	KindGreaterOrEqual             // "≥N"
)

var kindNames = map[Kind]string{
	KindExactText:      "text",
	KindExactNumber:    "number",
	KindRange:          "range",
	KindLessThan:       "less-than",
	KindGreaterThan:    "greater-than",
	KindLessOrEqual:    "less-or-equal",
	KindGreaterOrEqual: "greater-or-equal",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Numeric reports whether the kind filters tokens down to numbers first.
func (k Kind) Numeric() bool {
	return k != KindExactText
}

// Category is a classified category specification.
type Category struct {
	Spec string // The specification as entered
	Kind Kind

	// Text is the match target for KindExactText.
	Text string

	// Low and High hold the bounds. Comparison kinds and KindExactNumber
	// only use Low.
	Low  float64
	High float64

	// Valid is false when a numeric bound could not be parsed. Such a
	// category never matches anything.
	Valid bool
}

// comparisons are checked in order after the range rule.
var comparisons = []struct {
	prefix string
	kind   Kind
}{
	{"<", KindLessThan},
	{">", KindGreaterThan},
	{"≤", KindLessOrEqual},
	{"≥", KindGreaterOrEqual},
}

// Classify decides what kind of category spec is. The first matching rule
// wins: a whole number, then a dash range, then a comparison prefix, and
// finally exact text. "-5" is therefore a number, not a range.
func Classify(spec string) Category {
	if n, ok := ParseNumber(spec); ok {
		return Category{Spec: spec, Kind: KindExactNumber, Low: n, High: n, Valid: true}
	}

	if strings.Contains(spec, "-") {
		parts := strings.Split(spec, "-")
		low, okLow := ParseNumber(parts[0])
		high, okHigh := ParseNumber(parts[1])
		return Category{Spec: spec, Kind: KindRange, Low: low, High: high, Valid: okLow && okHigh}
	}

	for _, c := range comparisons {
		if rest, found := strings.CutPrefix(spec, c.prefix); found {
			limit, ok := ParseNumber(strings.TrimSpace(rest))
			return Category{Spec: spec, Kind: c.kind, Low: limit, High: limit, Valid: ok}
		}
	}

	return Category{Spec: spec, Kind: KindExactText, Text: spec, Valid: true}
}

// Matches reports whether a numeric value satisfies the category.
// It is always false for text categories and malformed bounds.
func (c Category) Matches(v float64) bool {
	if !c.Valid {
		return false
	}
	switch c.Kind {
	case KindExactNumber:
		return v == c.Low
	case KindRange:
		return v >= c.Low && v <= c.High
	case KindLessThan:
		return v < c.Low
	case KindGreaterThan:
		return v > c.Low
	case KindLessOrEqual:
		return v <= c.Low
	case KindGreaterOrEqual:
		return v >= c.Low
	}
	return false
}

// Match counts the tokens that fall into the category.
func Match(c Category, tokens []string) int {
	if !c.Valid {
		return 0
	}

	count := 0
	if !c.Kind.Numeric() {
		fold := cases.Fold()
		target := fold.String(c.Text)
		for _, tok := range tokens {
			if fold.String(tok) == target {
				count++
			}
		}
		return count
	}

	for _, v := range Numbers(tokens) {
		if c.Matches(v) {
			count++
		}
	}
	return count
}

// Numbers returns the values of the tokens that parse as numbers, in order.
func Numbers(tokens []string) []float64 {
	var nums []float64
	for _, tok := range tokens {
		if v, ok := ParseNumber(tok); ok {
			nums = append(nums, v)
		}
	}
	return nums
}

// ParseNumber parses s as a plain number. Surrounding whitespace is ignored.
// Decimal and exponent forms, "Infinity" and 0x/0o/0b integer literals are
// accepted; empty strings and NaN are not.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return 0, false
			}
			return float64(n), true
		}
	}

	// strconv also takes "inf", "nan", underscores and hex floats.
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != 'e' && r != 'E' && r != '+' && r != '-' {
			return 0, false
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return v, true
		}
		return 0, false
	}
	return v, true
}
