package sheets

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Field is one header/value pair of a projected record.
type Field struct {
	Name  string
	Value *string
}

// Record is one table row keyed by the header row, in column order.
// It marshals to a JSON/YAML object whose keys keep that order, which
// a Go map would not.
type Record []Field

// MarshalJSON renders the record as an ordered object; nil values
// become null.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(field.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		if field.Value == nil {
			buf.WriteString("null")
		} else {
			value, err := json.Marshal(*field.Value)
			if err != nil {
				return nil, err
			}
			buf.Write(value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML renders the record as a mapping node in column order.
func (r Record) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, field := range r {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: field.Name}
		value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		if field.Value != nil {
			value = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: *field.Value}
		}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

// Records projects a row sequence into records: the first row is the
// header, every later row zips against it positionally, truncated to
// the shorter of the two. Nil header cells become empty field names and
// duplicate names are kept as-is. An empty sequence has no header row
// and fails with ErrEmptyTable.
func Records(rows [][]*string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	header := rows[0]

	result := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		n := len(header)
		if len(row) < n {
			n = len(row)
		}
		record := make(Record, n)
		for i := 0; i < n; i++ {
			name := ""
			if header[i] != nil {
				name = *header[i]
			}
			record[i] = Field{Name: name, Value: row[i]}
		}
		result = append(result, record)
	}
	return result, nil
}

// Records projects the sheet through its lazy row sequence.
func (s *Sheet) Records() ([]Record, error) {
	it, err := s.Rows()
	if err != nil {
		return nil, err
	}

	var rows [][]*string
	for it.Next() {
		rows = append(rows, it.Row())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return Records(rows)
}
