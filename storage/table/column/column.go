// this code is based on https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package column

import (
	"bytes"

	"github.com/All23tor/DiscoBD/common"
	"github.com/All23tor/DiscoBD/types"
)

// Column is a named, typed field of a table, laid out on disk as a
// fixed-16-byte NUL-padded name followed by the type word.
type Column struct {
	columnName   string
	columnType   types.TypeID
	columnOffset uint32 // offset of the field inside a record
}

// OnDiskSize is the packed size of one column entry in a table
// header sector.
const OnDiskSize = common.NameSize + types.TypeIDSize

func NewColumn(name string, columnType types.TypeID) *Column {
	return &Column{name, columnType, 0}
}

func (c *Column) GetColumnName() string {
	return c.columnName
}

func (c *Column) GetType() types.TypeID {
	return c.columnType
}

// FixedLength is the on-disk size of this column's field.
func (c *Column) FixedLength() uint32 {
	return c.columnType.Size()
}

func (c *Column) GetOffset() uint32 {
	return c.columnOffset
}

func (c *Column) SetOffset(offset uint32) {
	c.columnOffset = offset
}

// SerializeTo packs the column into buf (at least OnDiskSize bytes).
func (c *Column) SerializeTo(buf []byte) {
	name := buf[:common.NameSize]
	n := copy(name, c.columnName)
	for i := n; i < len(name); i++ {
		name[i] = 0
	}
	copy(buf[common.NameSize:], c.columnType.Serialize())
}

// NewColumnFromBytes unpacks a column entry. The stored name is the
// NUL-terminated prefix of its 16-byte slot.
func NewColumnFromBytes(data []byte) *Column {
	name := data[:common.NameSize]
	end := bytes.IndexByte(name, 0)
	if end == -1 {
		end = len(name)
	}
	columnType := types.NewTypeIDFromBytes(data[common.NameSize:])
	return &Column{string(name[:end]), columnType, 0}
}