package sheets

import (
	"archive/zip"
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	workbookXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="People" sheetId="1" r:id="rId1"/></sheets>
</workbook>`

	sharedStringsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="2" uniqueCount="2"><si><t>Name</t></si><si><t>Age</t></si></sst>`

	peopleSheetXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><dimension ref="A1:B2"/><sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>
<row r="2"><c r="A2"><v>Alice</v></c><c r="B2"><v>30</v></c></row>
</sheetData></worksheet>`
)

// packFixture builds an xlsx package in memory from entry name/content
// pairs.
func packFixture(t *testing.T, entries map[string]string) *bytes.Reader {
	t.Helper()

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := writer.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(entries[name]))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	return bytes.NewReader(buf.Bytes())
}

func openFixture(t *testing.T, entries map[string]string, opts *Options) *Book {
	t.Helper()

	br := packFixture(t, entries)
	book, err := New(br, br.Size(), opts)
	require.NoError(t, err)
	return book
}

func peopleFixture(t *testing.T) *Book {
	return openFixture(t, map[string]string{
		"xl/workbook.xml":          workbookXML,
		"xl/sharedStrings.xml":     sharedStringsXML,
		"xl/worksheets/sheet1.xml": peopleSheetXML,
	}, nil)
}

func ptr(s string) *string {
	return &s
}
