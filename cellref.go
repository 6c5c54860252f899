package sheets

import (
	"fmt"
	"strconv"
	"strings"
)

// columnIndex converts column letters to a 0-based index. The letters
// form a bijective base-26 number: A=1..Z=26 per digit, so A->0, Z->25,
// AA->26.
func columnIndex(letters string) (int, error) {
	if letters == "" {
		return 0, fmt.Errorf("empty column: %w", ErrMalformedReference)
	}
	result := 0
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("column %q: %w", letters, ErrMalformedReference)
		}
		result = result*26 + int(c-'A') + 1
	}
	return result - 1, nil
}

// columnName is the inverse of columnIndex.
func columnName(n int) string {
	var buf [16]byte
	i := len(buf)
	for n >= 0 {
		i--
		buf[i] = byte('A' + n%26)
		n = n/26 - 1
	}
	return string(buf[i:])
}

// parseRef splits a cell reference like "AB12" into its letter and digit
// halves and decodes them to 0-based (col, row) coordinates.
func parseRef(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) && !isDigit(ref[i]) {
		i++
	}
	letters, digits := ref[:i], ref[i:]
	if letters == "" || digits == "" {
		return 0, 0, fmt.Errorf("cell reference %q: %w", ref, ErrMalformedReference)
	}
	n, aerr := strconv.Atoi(digits)
	if aerr != nil || n < 1 {
		return 0, 0, fmt.Errorf("cell reference %q: %w", ref, ErrMalformedReference)
	}
	col, err = columnIndex(letters)
	if err != nil {
		return 0, 0, fmt.Errorf("cell reference %q: %w", ref, ErrMalformedReference)
	}
	return col, n - 1, nil
}

// shapeFromRange converts a dimension range like "A1:C3" into exclusive
// (width, height) bounds, assuming the range starts at A1. A single-cell
// dimension ("A1", written by Excel for one-cell sheets) counts as its
// own bottom-right corner.
func shapeFromRange(dim string) (width, height int, err error) {
	tl, br, found := strings.Cut(dim, ":")
	if !found {
		br = tl
	}
	if _, _, err = parseRef(tl); err != nil {
		return 0, 0, err
	}
	col, row, err := parseRef(br)
	if err != nil {
		return 0, 0, err
	}
	return col + 1, row + 1, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
