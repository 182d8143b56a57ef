package csvload

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// header maps normalized column names to indices. "DEF RTG", "def_rtg" and
// "Def_Rtg" all normalize to "def_rtg".
type header map[string]int

func newHeader(cols []string) header {
	h := make(header, len(cols))
	for i, c := range cols {
		key := normalizeColumn(c)
		if _, dup := h[key]; !dup {
			h[key] = i
		}
	}
	return h
}

func normalizeColumn(c string) string {
	c = strings.TrimPrefix(c, "\ufeff")
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(c)), " ", "_")
}

// lookup returns the index of the first alias present, or -1.
func (h header) lookup(aliases ...string) int {
	for _, a := range aliases {
		if i, ok := h[a]; ok {
			return i
		}
	}
	return -1
}

func (h header) require(table string, aliases ...string) (int, error) {
	if i := h.lookup(aliases...); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("%w: %s: %s", ErrMissingColumn, table, aliases[0])
}

// cell returns the trimmed value at i, or "" when the column is absent.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// optionalFloat treats empty, non-numeric and NaN cells as missing.
func optionalFloat(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func requiredFloat(table string, line int, column, s string) (float64, error) {
	v := optionalFloat(s)
	if v == nil {
		return 0, fmt.Errorf("%w: %s line %d: %s %q", ErrInvalidValue, table, line, column, s)
	}
	return *v, nil
}
