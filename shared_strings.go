package sheets

import (
	"encoding/xml"
	"io"
	"strconv"
)

// readSharedStrings parses xl/sharedStrings.xml into the ordered string
// table. Every <t> text node under an <si> item is collected in document
// order; rich-text runs (<r>) concatenate into one entry.
func readSharedStrings(reader io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(reader)

	var result []string
	ar := &arena{}
	isT := false
	isR := false
	str := ""
	for t, err := decoder.Token(); err == nil; t, err = decoder.Token() {
		switch token := t.(type) {
		case xml.StartElement:
			switch token.Name.Local {
			case "si":
				str = ""
			case "t":
				isT = true
			case "r":
				isR = true
			case "sst":
				uniqCount := 0
				count := 0
				for _, attr := range token.Attr {
					switch attr.Name.Local {
					case "uniqueCount":
						uniqCount, err = strconv.Atoi(attr.Value)
						if err != nil {
							return nil, err
						}
					case "count":
						count, err = strconv.Atoi(attr.Value)
						if err != nil {
							return nil, err
						}
					}
				}
				if uniqCount != 0 {
					result = make([]string, 0, uniqCount)
				} else {
					result = make([]string, 0, count)
				}
			default:
				_ = decoder.Skip()
			}
		case xml.EndElement:
			switch token.Name.Local {
			case "si":
				result = append(result, str)
			case "t":
				isT = false
			case "r":
				isR = false
			}
		case xml.CharData:
			if isT {
				if isR {
					str += ar.toString(token)
				} else {
					str = ar.toString(token)
				}
			}
		}
	}
	return result, nil
}
