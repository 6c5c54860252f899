package sheets

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Sheet is one worksheet of an open Book. Its width and height come
// from the worksheet's declared dimension range and are fixed at
// construction; every addressed cell must fall inside them.
type Sheet struct {
	book   *Book
	name   string
	raw    []byte
	width  int
	height int
	cols   map[string]int
}

func newSheet(book *Book, name string, raw []byte) (*Sheet, error) {
	sheet := &Sheet{
		book: book,
		name: name,
		raw:  raw,
		cols: make(map[string]int),
	}

	dim, err := findDimension(raw)
	if err != nil {
		return nil, fmt.Errorf("worksheet %s: %w", name, err)
	}
	sheet.width, sheet.height, err = shapeFromRange(dim)
	if err != nil {
		return nil, fmt.Errorf("worksheet %s: %w", name, err)
	}
	return sheet, nil
}

// findDimension scans the worksheet header for the declared dimension
// range. It stops at sheetData: a worksheet that declares no dimension
// before its cells has no usable shape.
func findDimension(raw []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	for t, err := decoder.Token(); err == nil; t, err = decoder.Token() {
		start, ok := t.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "worksheet":
			//
		case "dimension":
			for _, attr := range start.Attr {
				if attr.Name.Local == "ref" {
					return attr.Value, nil
				}
			}
			return "", fmt.Errorf("dimension without ref: %w", ErrMalformedReference)
		case "sheetData":
			return "", fmt.Errorf("no dimension declared: %w", ErrMalformedReference)
		default:
			if err := decoder.Skip(); err != nil {
				return "", err
			}
		}
	}
	return "", fmt.Errorf("no dimension declared: %w", ErrMalformedReference)
}

// Name returns the sheet's derived name: the zero-padded relationship
// id plus the manifest name ("01-Sales"), or the raw entry stem when
// the manifest declared no name for it.
func (s *Sheet) Name() string {
	return s.name
}

// Dimensions returns the declared (width, height) of the sheet.
func (s *Sheet) Dimensions() (width, height int) {
	return s.width, s.height
}

// coords decodes a cell reference to 0-based coordinates, memoizing
// column decodes per sheet.
func (s *Sheet) coords(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) && !isDigit(ref[i]) {
		i++
	}
	letters := ref[:i]
	if cached, ok := s.cols[letters]; ok {
		digits := ref[i:]
		n, aerr := strconv.Atoi(digits)
		if digits == "" || aerr != nil || n < 1 {
			return 0, 0, fmt.Errorf("cell reference %q: %w", ref, ErrMalformedReference)
		}
		return cached, n - 1, nil
	}

	col, row, err = parseRef(ref)
	if err != nil {
		return 0, 0, err
	}
	s.cols[letters] = col
	return col, row, nil
}

// cell is one decoded cell element: its 0-based coordinates and its
// resolved value, nil for a blank.
type cell struct {
	col, row int
	val      *string
}

// cellScanner streams the worksheet's cell elements in document order.
type cellScanner struct {
	sheet   *Sheet
	decoder *xml.Decoder
	shared  []string
}

func (s *Sheet) newScanner() (*cellScanner, error) {
	shared, err := s.book.SharedStrings()
	if err != nil {
		return nil, err
	}
	return &cellScanner{
		sheet:   s,
		decoder: xml.NewDecoder(bytes.NewReader(s.raw)),
		shared:  shared,
	}, nil
}

// next returns the next cell element, or ok=false at end of sheet.
func (cs *cellScanner) next() (cell, bool, error) {
	for t, err := cs.decoder.Token(); err == nil; t, err = cs.decoder.Token() {
		start, ok := t.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "worksheet", "sheetData", "row":
			//
		case "c":
			c, err := cs.readCell(start)
			if err != nil {
				return cell{}, false, err
			}
			return c, true, nil
		default:
			if err := cs.decoder.Skip(); err != nil {
				return cell{}, false, err
			}
		}
	}
	return cell{}, false, nil
}

func (cs *cellScanner) readCell(start xml.StartElement) (cell, error) {
	var ref, typ string
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "r":
			ref = attr.Value
		case "t":
			typ = attr.Value
		}
	}

	col, row, err := cs.sheet.coords(ref)
	if err != nil {
		return cell{}, fmt.Errorf("worksheet %s: %w", cs.sheet.name, err)
	}
	if col >= cs.sheet.width || row >= cs.sheet.height {
		return cell{}, fmt.Errorf("worksheet %s: cell %s outside declared dimension: %w",
			cs.sheet.name, ref, ErrMalformedReference)
	}

	text, hasValue, err := cs.readValue()
	if err != nil {
		return cell{}, err
	}
	if !hasValue {
		return cell{col: col, row: row}, nil
	}

	value := text
	if typ == "s" {
		idx, err := strconv.Atoi(text)
		if err != nil || idx < 0 || idx >= len(cs.shared) {
			return cell{}, fmt.Errorf("worksheet %s: cell %s index %q: %w",
				cs.sheet.name, ref, text, ErrSharedStringIndex)
		}
		value = cs.shared[idx]
	}
	if cs.sheet.book.sanitize {
		value = sanitizeValue(value)
	}
	return cell{col: col, row: row, val: &value}, nil
}

// readValue consumes the rest of a <c> element, collecting the text of
// its <v> child. No <v> means a blank cell, not an error.
func (cs *cellScanner) readValue() (string, bool, error) {
	var text strings.Builder
	hasValue := false
	isV := false
	depth := 1
	for depth > 0 {
		t, err := cs.decoder.Token()
		if err != nil {
			return "", false, err
		}
		switch token := t.(type) {
		case xml.StartElement:
			depth++
			if token.Name.Local == "v" {
				isV = true
				hasValue = true
			}
		case xml.EndElement:
			depth--
			if token.Name.Local == "v" {
				isV = false
			}
		case xml.CharData:
			if isV {
				text.Write(token)
			}
		}
	}
	return text.String(), hasValue, nil
}

// sanitizeValue trims a cell value and folds its line breaks: split on
// line terminators, drop empty fragments, rejoin with single spaces.
// Idempotent.
func sanitizeValue(s string) string {
	parts := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == '\n' || r == '\r'
	})
	return strings.Join(parts, " ")
}

// Table materializes the sheet as a dense height×width grid, missing
// cells nil. Later duplicate addresses overwrite earlier ones.
func (s *Sheet) Table() ([][]*string, error) {
	grid := make([][]*string, s.height)
	for i := range grid {
		grid[i] = make([]*string, s.width)
	}

	scanner, err := s.newScanner()
	if err != nil {
		return nil, err
	}
	for {
		c, ok, err := scanner.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return grid, nil
		}
		grid[c.row][c.col] = c.val
	}
}

// Rows returns a lazy row iterator over the sheet. A row is emitted
// whenever a cell addresses a later row, with empty rows filling any
// gap, and the tail is padded to the declared height, so the sequence
// always matches Table row for row. Cells are expected in document row
// order; an out-of-order row is an error.
func (s *Sheet) Rows() (*RowIter, error) {
	scanner, err := s.newScanner()
	if err != nil {
		return nil, err
	}
	return &RowIter{
		sheet:   s,
		scanner: scanner,
		buf:     make([]*string, s.width),
	}, nil
}

// RowIter produces a sheet's rows one at a time, filling one row-sized
// buffer per row from the sheet's cell stream.
type RowIter struct {
	sheet   *Sheet
	scanner *cellScanner
	buf     []*string
	row     []*string
	cur     int
	pending *cell
	done    bool
	err     error
}

// Next advances to the next row. It returns false at the end of the
// sheet or on error.
func (it *RowIter) Next() bool {
	if it.err != nil || it.cur >= it.sheet.height {
		return false
	}
	for {
		if it.pending != nil {
			if it.pending.row > it.cur {
				it.flush()
				return true
			}
			it.buf[it.pending.col] = it.pending.val
			it.pending = nil
		}

		if it.done {
			it.flush()
			return true
		}

		c, ok, err := it.scanner.next()
		if err != nil {
			it.err = err
			return false
		}
		if !ok {
			it.done = true
			continue
		}
		if c.row < it.cur {
			it.err = fmt.Errorf("worksheet %s: cell out of row order at row %d", it.sheet.name, c.row+1)
			return false
		}
		it.pending = &c
	}
}

func (it *RowIter) flush() {
	it.row = it.buf
	it.buf = make([]*string, it.sheet.width)
	it.cur++
}

// Row returns the current row.
func (it *RowIter) Row() []*string {
	return it.row
}

// Err returns the first error hit while iterating.
func (it *RowIter) Err() error {
	return it.err
}
