package sheets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColumnIndex(t *testing.T) {
	for letters, want := range map[string]int{
		"A":  0,
		"B":  1,
		"Z":  25,
		"AA": 26,
		"AB": 27,
		"ab": 27,
		"ZZ": 701,
	} {
		got, err := columnIndex(letters)
		require.NoError(t, err)
		require.Equal(t, want, got, letters)
	}
}

func TestColumnIndexInvalid(t *testing.T) {
	for _, letters := range []string{"", "A1", "$B", "Ä"} {
		_, err := columnIndex(letters)
		require.ErrorIs(t, err, ErrMalformedReference, letters)
	}
}

func TestColumnRoundTrip(t *testing.T) {
	// through every one-, two- and three-letter column
	for n := 0; n < 26+676+17576; n++ {
		got, err := columnIndex(columnName(n))
		require.NoError(t, err)
		require.Equal(t, n, got)
	}
}

func TestParseRef(t *testing.T) {
	col, row, err := parseRef("A1")
	require.NoError(t, err)
	require.Equal(t, 0, col)
	require.Equal(t, 0, row)

	col, row, err = parseRef("AB12")
	require.NoError(t, err)
	require.Equal(t, 27, col)
	require.Equal(t, 11, row)
}

func TestParseRefMalformed(t *testing.T) {
	for _, ref := range []string{"12A", "A", "12", "", "A0", "A1B", "A1B2"} {
		_, _, err := parseRef(ref)
		require.ErrorIs(t, err, ErrMalformedReference, ref)
	}
}

func TestShapeFromRange(t *testing.T) {
	width, height, err := shapeFromRange("A1:C3")
	require.NoError(t, err)
	require.Equal(t, 3, width)
	require.Equal(t, 3, height)

	width, height, err = shapeFromRange("A1:AB12")
	require.NoError(t, err)
	require.Equal(t, 28, width)
	require.Equal(t, 12, height)

	// single-cell dimension, as Excel writes for one-cell sheets
	width, height, err = shapeFromRange("A1")
	require.NoError(t, err)
	require.Equal(t, 1, width)
	require.Equal(t, 1, height)

	_, _, err = shapeFromRange("A1:")
	require.ErrorIs(t, err, ErrMalformedReference)
}
