package access

import (
	"strconv"
	"strings"

	"github.com/All23tor/DiscoBD/common"
	"github.com/All23tor/DiscoBD/errors"
	"github.com/All23tor/DiscoBD/storage/table/column"
	"github.com/All23tor/DiscoBD/storage/table/schema"
	"github.com/All23tor/DiscoBD/types"
)

const ErrBadSchema = errors.Error("malformed csv schema line")
const ErrBadField = errors.Error("malformed csv field")

// ReadColumns parses the first CSV line: comma-separated name#TYPE
// tokens, TYPE one of INT, FLOAT, BOOL, STRING. Names are truncated
// to their on-disk 16 bytes.
func ReadColumns(schemaLine string) ([]*column.Column, error) {
	var columns []*column.Column
	for _, token := range strings.Split(schemaLine, ",") {
		sep := strings.IndexByte(token, '#')
		if sep == -1 {
			return nil, ErrBadSchema
		}
		name := token[:sep]
		if len(name) > common.NameSize {
			name = name[:common.NameSize]
		}
		columnType, err := types.NewTypeIDFromString(strings.TrimSpace(token[sep+1:]))
		if err != nil {
			return nil, ErrBadSchema
		}
		columns = append(columns, column.NewColumn(name, columnType))
	}
	if len(columns) == 0 {
		return nil, ErrBadSchema
	}
	return columns, nil
}

// fieldScanner walks a CSV record line field by field.
type fieldScanner struct {
	line string
	pos  int
}

// nextField reads up to the next comma (or end of line) and consumes
// the comma.
func (s *fieldScanner) nextField() string {
	if s.pos >= len(s.line) {
		return ""
	}
	rest := s.line[s.pos:]
	end := strings.IndexByte(rest, ',')
	if end == -1 {
		s.pos = len(s.line)
		return rest
	}
	s.pos += end + 1
	return rest[:end]
}

// quotedField reads a "…" field with backslash escapes; the comma
// after the closing quote is consumed.
func (s *fieldScanner) quotedField() (string, error) {
	s.pos++ // opening quote
	var field strings.Builder
	for s.pos < len(s.line) {
		c := s.line[s.pos]
		switch c {
		case '\\':
			if s.pos+1 >= len(s.line) {
				return "", ErrBadField
			}
			field.WriteByte(s.line[s.pos+1])
			s.pos += 2
		case '"':
			s.pos++
			if s.pos < len(s.line) && s.line[s.pos] == ',' {
				s.pos++
			}
			return field.String(), nil
		default:
			field.WriteByte(c)
			s.pos++
		}
	}
	return "", ErrBadField
}

// EncodeRecord parses one CSV record line into the fixed-width
// on-disk image described by the schema. Empty numeric fields encode
// as zero; a BOOL is 1 only for the exact field "yes"; strings are
// NUL-padded to their 64-byte slot.
func EncodeRecord(line string, sc *schema.Schema, record []byte) error {
	scanner := fieldScanner{line: line}
	for _, col := range sc.GetColumns() {
		slot := record[col.GetOffset() : col.GetOffset()+col.FixedLength()]
		switch col.GetType() {
		case types.Int:
			field := scanner.nextField()
			if field == "" {
				field = "0"
			}
			val, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return ErrBadField
			}
			types.NewInteger(val).SerializeTo(slot)
		case types.Float:
			field := scanner.nextField()
			if field == "" {
				field = "0"
			}
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return ErrBadField
			}
			types.NewFloat(val).SerializeTo(slot)
		case types.Bool:
			field := scanner.nextField()
			types.NewBoolean(field == "yes").SerializeTo(slot)
		case types.String:
			var field string
			if scanner.pos < len(scanner.line) && scanner.line[scanner.pos] == '"' {
				quoted, err := scanner.quotedField()
				if err != nil {
					return err
				}
				field = quoted
			} else {
				field = scanner.nextField()
			}
			types.NewString(field).SerializeTo(slot)
		}
	}
	return nil
}
