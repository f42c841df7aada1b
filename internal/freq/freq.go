// Package freq tallies how often tokens fall into text and numeric categories.
package freq

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

const (
	// TotalLabel is the category name of the synthetic last row.
	TotalLabel = "Total"
	// TotalPercentage is always shown for the Total row, even when
	// categories overlap or miss tokens.
	TotalPercentage = "100%"
)

var (
	ErrNoData       = errors.New("no data provided")
	ErrNoCategories = errors.New("no categories provided")
	ErrNoTokens     = errors.New("no tokens to analyze")
)

// Result is one row of an analysis.
type Result struct {
	Category   string `json:"category" yaml:"category"`
	Frequency  int    `json:"frequency" yaml:"frequency"`
	Percentage string `json:"percentage" yaml:"percentage"`
}

// ResultSet holds one Result per category in input order, followed by the
// Total row.
type ResultSet []Result

// Categories returns the rows without the trailing Total.
func (rs ResultSet) Categories() []Result {
	if len(rs) == 0 {
		return nil
	}
	return rs[:len(rs)-1]
}

// Total returns the trailing Total row.
func (rs ResultSet) Total() Result {
	if len(rs) == 0 {
		return Result{Category: TotalLabel, Percentage: TotalPercentage}
	}
	return rs[len(rs)-1]
}

// Tokenize splits raw input on runs of whitespace and commas.
func Tokenize(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, strings.TrimSpace(f))
	}
	return tokens
}

// SplitCategories splits a comma-separated list of category specs.
// Specs are trimmed; empty ones are dropped.
func SplitCategories(input string) []string {
	var specs []string
	for _, part := range strings.Split(input, ",") {
		if spec := strings.TrimSpace(part); spec != "" {
			specs = append(specs, spec)
		}
	}
	return specs
}

// Percentage formats frequency as a share of total with two decimals.
func Percentage(frequency, total int) string {
	return FormatFixed2(float64(frequency)/float64(total)*100) + "%"
}

// FormatFixed2 formats v with two decimals. Rounding uses the exact binary
// value of v, and a value exactly halfway rounds away from zero, so 3.125
// gives "3.13" while 1.005 (stored just below) gives "1.00". Negative
// values keep their sign even when they round to zero.
func FormatFixed2(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}

	r := new(big.Rat).SetFloat64(v)
	neg := r.Sign() < 0
	r.Abs(r)
	r.Mul(r, big.NewRat(100, 1))
	r.Add(r, big.NewRat(1, 2))
	n := new(big.Int).Quo(r.Num(), r.Denom())

	digits := n.String()
	for len(digits) < 3 {
		digits = "0" + digits
	}
	out := digits[:len(digits)-2] + "." + digits[len(digits)-2:]
	if neg {
		out = "-" + out
	}
	return out
}

// Analyze computes the row for a single category spec. The percentage is
// relative to all tokens, numeric or not.
func Analyze(tokens []string, spec string) (Result, error) {
	if len(tokens) == 0 {
		return Result{}, ErrNoTokens
	}
	n := Match(Classify(spec), tokens)
	return Result{
		Category:   spec,
		Frequency:  n,
		Percentage: Percentage(n, len(tokens)),
	}, nil
}

// Aggregate analyzes every spec in order and appends the Total row.
func Aggregate(specs []string, tokens []string) (ResultSet, error) {
	if len(tokens) == 0 {
		return nil, ErrNoTokens
	}

	rs := make(ResultSet, 0, len(specs)+1)
	total := 0
	for _, spec := range specs {
		r, err := Analyze(tokens, spec)
		if err != nil {
			return nil, err
		}
		total += r.Frequency
		rs = append(rs, r)
	}

	rs = append(rs, Result{
		Category:   TotalLabel,
		Frequency:  total,
		Percentage: TotalPercentage,
	})
	return rs, nil
}

// AnalyzeInput validates raw data and category text, then aggregates them.
func AnalyzeInput(data, categories string) (ResultSet, error) {
	data = strings.TrimSpace(data)
	categories = strings.TrimSpace(categories)
	if data == "" {
		return nil, ErrNoData
	}
	if categories == "" {
		return nil, ErrNoCategories
	}

	specs := SplitCategories(categories)
	if len(specs) == 0 {
		return nil, ErrNoCategories
	}

	rs, err := Aggregate(specs, Tokenize(data))
	if err != nil {
		return nil, fmt.Errorf("aggregating: %w", err)
	}
	return rs, nil
}

// Series is chart input: parallel slices without the Total row.
type Series struct {
	Labels      []string
	Frequencies []int
	Percentages []float64
}

// Len returns the number of data points.
func (s Series) Len() int {
	return len(s.Labels)
}

// ChartData slices off the Total row and converts percentages back to
// numbers.
func ChartData(rs ResultSet) Series {
	rows := rs.Categories()
	s := Series{
		Labels:      make([]string, 0, len(rows)),
		Frequencies: make([]int, 0, len(rows)),
		Percentages: make([]float64, 0, len(rows)),
	}
	for _, r := range rows {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(r.Percentage, "%"), 64)
		if err != nil {
			pct = 0
		}
		s.Labels = append(s.Labels, r.Category)
		s.Frequencies = append(s.Frequencies, r.Frequency)
		s.Percentages = append(s.Percentages, pct)
	}
	return s
}
