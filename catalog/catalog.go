package catalog

import (
	"bytes"

	"github.com/All23tor/DiscoBD/common"
	"github.com/All23tor/DiscoBD/errors"
	"github.com/All23tor/DiscoBD/storage/access"
	"github.com/All23tor/DiscoBD/storage/buffer"
	"github.com/All23tor/DiscoBD/storage/disk"
	"github.com/All23tor/DiscoBD/storage/table/column"
	"github.com/All23tor/DiscoBD/storage/table/schema"
	"github.com/All23tor/DiscoBD/types"
)

const ErrTableNotFound = errors.Error("table does not exist")
const ErrCatalogFull = errors.Error("catalog sector has no free entry")
const ErrSchemaTooWide = errors.Error("columns do not fit in a header sector")

// EntrySize is the packed size of one catalog entry: a fixed-16-byte
// NUL-padded table name and its header sector address.
const EntrySize = common.NameSize + types.SectorAddressSize

// Catalog is the array of {name, header} entries packed into sector 0
// right after the disk geometry, terminated by an entry whose first
// name byte is NUL. Used slots form a dense prefix.
type Catalog struct {
	bufferManager *buffer.BufferManager
}

func NewCatalog(bufferManager *buffer.BufferManager) *Catalog {
	return &Catalog{bufferManager}
}

// entryName returns the NUL-trimmed name stored in a catalog entry.
func entryName(entry []byte) string {
	name := entry[:common.NameSize]
	end := bytes.IndexByte(name, 0)
	if end == -1 {
		end = len(name)
	}
	return string(name[:end])
}

// storedName truncates a table name to its on-disk 16 bytes.
func storedName(name string) string {
	if len(name) > common.NameSize {
		return name[:common.NameSize]
	}
	return name
}

// SearchTable walks the catalog and returns the named table's header
// address, or null when no entry matches.
func (c *Catalog) SearchTable(name string) (types.SectorAddress, error) {
	guard, err := access.AcquireSector(c.bufferManager, 0, buffer.ReadMode)
	if err != nil {
		return types.NullSectorAddress, err
	}
	defer guard.Release()

	want := storedName(name)
	g := c.bufferManager.Geometry()
	for offset := int32(disk.GeometrySize); offset+EntrySize <= g.Bytes; offset += EntrySize {
		entry := guard.Bytes(offset, EntrySize)
		if entry[0] == 0 {
			break
		}
		if entryName(entry) == want {
			return types.NewSectorAddressFromBytes(entry[common.NameSize:]), nil
		}
	}
	return types.NullSectorAddress, nil
}

// CreateTable claims the first free catalog slot, allocates a header
// sector, and initialises it with a null chain and the packed column
// list. Returns the header address.
func (c *Catalog) CreateTable(name string, columns []*column.Column) (types.SectorAddress, error) {
	g := c.bufferManager.Geometry()
	if int32(access.SectorBodyOffset)+int32(len(columns))*column.OnDiskSize > g.Bytes {
		return types.NullSectorAddress, ErrSchemaTooWide
	}

	guard, err := access.AcquireSector(c.bufferManager, 0, buffer.WriteMode)
	if err != nil {
		return types.NullSectorAddress, err
	}
	defer guard.Release()

	slot := int32(-1)
	for offset := int32(disk.GeometrySize); offset+EntrySize <= g.Bytes; offset += EntrySize {
		if guard.Bytes(offset, EntrySize)[0] == 0 {
			slot = offset
			break
		}
	}
	if slot == -1 {
		return types.NullSectorAddress, ErrCatalogFull
	}

	headerAddr, err := access.RequestEmptySector(c.bufferManager)
	if err != nil {
		return types.NullSectorAddress, err
	}

	entry := guard.Bytes(slot, EntrySize)
	nameBytes := entry[:common.NameSize]
	n := copy(nameBytes, storedName(name))
	for i := n; i < len(nameBytes); i++ {
		nameBytes[i] = 0
	}
	copy(entry[common.NameSize:], headerAddr.Serialize())

	header, err := access.AcquireSector(c.bufferManager, headerAddr, buffer.WriteMode)
	if err != nil {
		return types.NullSectorAddress, err
	}
	defer header.Release()
	header.SetNextSector(types.NullSectorAddress)
	header.WriteColumns(columns)
	return headerAddr, nil
}

// GetTableMetadata resolves a table name to its header address and
// schema, reading the column list back from the header sector.
func (c *Catalog) GetTableMetadata(name string) (*TableMetadata, error) {
	headerAddr, err := c.SearchTable(name)
	if err != nil {
		return nil, err
	}
	if headerAddr.IsNull() {
		return nil, ErrTableNotFound
	}

	header, err := access.AcquireSector(c.bufferManager, headerAddr, buffer.ReadMode)
	if err != nil {
		return nil, err
	}
	defer header.Release()
	columns := header.ReadColumns()
	return &TableMetadata{name: name, header: headerAddr, schema: schema.NewSchema(columns)}, nil
}
