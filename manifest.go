package sheets

import (
	"encoding/xml"
	"io"
	"strconv"
)

// sheetDecl is one <sheet> declaration from the workbook manifest:
// the numeric part of its relationship id paired with its display name.
type sheetDecl struct {
	ID   int
	Name string
}

type manifest struct {
	XMLName xml.Name `xml:"workbook"`
	Sheets  []struct {
		Name string `xml:"name,attr"`
		ID   string `xml:"id,attr"`
	} `xml:"sheets>sheet"`
}

// readManifest decodes xl/workbook.xml and returns the sheet
// declarations in document order, first declaration winning on a
// repeated relationship id.
func readManifest(rd io.Reader) ([]sheetDecl, error) {
	decoder := xml.NewDecoder(rd)
	data := &manifest{}
	err := decoder.Decode(data)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(data.Sheets))
	decls := make([]sheetDecl, 0, len(data.Sheets))
	for _, sheet := range data.Sheets {
		id, ok := relIndex(sheet.ID)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		decls = append(decls, sheetDecl{ID: id, Name: sheet.Name})
	}
	return decls, nil
}

// relIndex strips the alphabetic prefix from a relationship id
// ("rId3" -> 3).
func relIndex(id string) (int, bool) {
	i := 0
	for i < len(id) && !isDigit(id[i]) {
		i++
	}
	if i == len(id) {
		return 0, false
	}
	n, err := strconv.Atoi(id[i:])
	if err != nil {
		return 0, false
	}
	return n, true
}
