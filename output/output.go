// Package output renders extracted sheets as CSV, JSON or YAML files.
package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	sheets "github.com/nuno-andre/sheet-happens"
)

// ErrConflict reports that an output directory could not be prepared,
// typically because the path exists as a regular file.
var ErrConflict = errors.New("can not prepare output directory")

// Format tags one of the supported output formats.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	YAML Format = "yaml"
)

// WriterFunc renders one sheet to a stream.
type WriterFunc func(w io.Writer, sheet *sheets.Sheet) error

// Writers is the closed set of supported formats.
var Writers = map[Format]WriterFunc{
	CSV:  WriteCSV,
	JSON: WriteJSON,
	YAML: WriteYAML,
}

// WriteCSV streams the sheet's rows as CSV, blank cells as empty
// fields.
func WriteCSV(w io.Writer, sheet *sheets.Sheet) error {
	writer := csv.NewWriter(w)
	it, err := sheet.Rows()
	if err != nil {
		return err
	}
	for it.Next() {
		row := it.Row()
		record := make([]string, len(row))
		for i, val := range row {
			if val != nil {
				record[i] = *val
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	if err := it.Err(); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON renders the sheet's records as a pretty-printed array.
func WriteJSON(w io.Writer, sheet *sheets.Sheet) error {
	records, err := sheet.Records()
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(records)
}

// WriteYAML renders the sheet's records as a block-style sequence.
func WriteYAML(w io.Writer, sheet *sheets.Sheet) error {
	records, err := sheet.Records()
	if err != nil {
		return err
	}
	encoder := yaml.NewEncoder(w)
	if err := encoder.Encode(records); err != nil {
		_ = encoder.Close()
		return err
	}
	return encoder.Close()
}

// TargetPath derives the output path for one sheet:
// <dir>/<input-stem>.<sheet-name>.<format>, with dir defaulting to the
// input file's directory.
func TargetPath(input, dir, sheetName string, format Format) string {
	if dir == "" {
		dir = filepath.Dir(input)
	}
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, fmt.Sprintf("%s.%s.%s", stem, sheetName, format))
}

// Save renders one sheet into its derived output path, creating the
// output directory as needed.
func Save(sheet *sheets.Sheet, input, dir string, format Format) (string, error) {
	write, ok := Writers[format]
	if !ok {
		return "", fmt.Errorf("unknown output format %q", format)
	}

	target := TargetPath(input, dir, sheet.Name(), format)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrConflict)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", err
	}
	if err := write(f, sheet); err != nil {
		_ = f.Close()
		return "", err
	}
	return target, f.Close()
}
