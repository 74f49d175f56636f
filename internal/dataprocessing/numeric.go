package dataprocessing

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericSubstring matches digits with at most one decimal point and an
// optional leading sign. Flags and footnote markers around the number
// ("78.5 b", "e 81.2") are ignored.
var numericSubstring = regexp.MustCompile(`[-+]?(?:\d+(?:\.\d*)?|\.\d+)`)

// ExtractNumeric returns the first numeric substring of raw
func ExtractNumeric(raw string) (string, bool) {
	m := numericSubstring.FindString(raw)
	if m == "" {
		return "", false
	}
	return m, true
}

// CoerceValue extracts and parses the numeric part of a value cell.
// Digits too large for float64 still count as numeric and come back as
// an infinity so the overflow surfaces when types are finalized.
func CoerceValue(raw string) (float64, bool) {
	s, ok := ExtractNumeric(raw)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return v, true
		}
		return 0, false
	}
	return v, true
}

// CoerceYear parses a year label. Surrounding whitespace is ignored;
// NaN and infinities are not years.
func CoerceYear(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
