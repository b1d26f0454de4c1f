// this code is based on https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package schema

import (
	"math"

	"github.com/All23tor/DiscoBD/storage/table/column"
)

// Schema is a table's column list with precomputed field offsets.
// The record size (Length) is the sum of the column type sizes.
type Schema struct {
	length  uint32
	columns []*column.Column
}

func NewSchema(columns []*column.Column) *Schema {
	schema := &Schema{}

	var currentOffset uint32
	for i := 0; i < len(columns); i++ {
		column := columns[i]
		column.SetOffset(currentOffset)
		currentOffset += column.FixedLength()
		schema.columns = append(schema.columns, column)
	}
	schema.length = currentOffset
	return schema
}

func (s *Schema) GetColumn(colIndex uint32) *column.Column {
	return s.columns[colIndex]
}

func (s *Schema) GetColumnCount() uint32 {
	return uint32(len(s.columns))
}

// Length is the fixed record size in bytes.
func (s *Schema) Length() uint32 {
	return s.length
}

// GetColIndex returns the index of the named column, or
// math.MaxUint32 when the schema has no such column.
func (s *Schema) GetColIndex(columnName string) uint32 {
	for i := uint32(0); i < s.GetColumnCount(); i++ {
		if s.columns[i].GetColumnName() == columnName {
			return i
		}
	}
	return math.MaxUint32
}

func (s *Schema) GetColumns() []*column.Column {
	return s.columns
}