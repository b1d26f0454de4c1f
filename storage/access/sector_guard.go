package access

import (
	"github.com/All23tor/DiscoBD/common"
	"github.com/All23tor/DiscoBD/storage/buffer"
	"github.com/All23tor/DiscoBD/storage/table/column"
	"github.com/All23tor/DiscoBD/types"
)

// On-disk sector layouts. A table header sector and a data sector
// share their first two fields:
//
//	0  next_sector  (4, little-endian, -1 = null)
//	4  column_count (header) / record_count (data)
//	8  columns, packed      / live bitmap then packed records
const (
	offsetNextSector = 0
	offsetCount      = types.SectorAddressSize
	offsetSectorBody = types.SectorAddressSize + 4
	sizeSectorHeader = types.SectorAddressSize + 4
)

// SectorBodyOffset is where a sector's body (packed columns of a
// header sector, bitmap of a data sector) begins.
const SectorBodyOffset = offsetSectorBody

// SectorGuard is a scoped pin on one sector: acquiring loads the
// sector and pins its page, Release unpins it. Field accessors go
// back through the buffer manager on every call, so the guard never
// caches a slice that eviction could invalidate.
type SectorGuard struct {
	bufferManager *buffer.BufferManager
	addr          types.SectorAddress
	mode          buffer.AccessMode
}

// AcquireSector pins the sector's page for the guard's lifetime.
func AcquireSector(bufferManager *buffer.BufferManager, addr types.SectorAddress, mode buffer.AccessMode) (*SectorGuard, error) {
	if _, err := bufferManager.LoadSector(addr, mode); err != nil {
		return nil, err
	}
	if err := bufferManager.Pin(addr); err != nil {
		return nil, err
	}
	return &SectorGuard{bufferManager, addr, mode}, nil
}

// Release unpins the sector. Safe to call more than once.
func (g *SectorGuard) Release() {
	if g.addr.IsNull() {
		return
	}
	g.bufferManager.Unpin(g.addr)
	g.addr = types.NullSectorAddress
}

func (g *SectorGuard) Address() types.SectorAddress {
	return g.addr
}

// data reloads the sector image. The page is pinned, so this cannot
// miss; it only moves the page to the MRU end and counts the access.
func (g *SectorGuard) data() []byte {
	data, err := g.bufferManager.LoadSector(g.addr, g.mode)
	common.DbAssert(err == nil, "pinned sector failed to load")
	return data
}

// Bytes returns a raw byte range of the sector, for callers that lay
// out their own structures (the sector-0 catalog).
func (g *SectorGuard) Bytes(offset int32, length int32) []byte {
	return g.data()[offset : offset+length]
}

func (g *SectorGuard) NextSector() types.SectorAddress {
	return types.NewSectorAddressFromBytes(g.data()[offsetNextSector:])
}

func (g *SectorGuard) SetNextSector(next types.SectorAddress) {
	copy(g.data()[offsetNextSector:], next.Serialize())
}

func (g *SectorGuard) RecordCount() int32 {
	return int32(types.NewSectorAddressFromBytes(g.data()[offsetCount:]))
}

func (g *SectorGuard) SetRecordCount(count int32) {
	copy(g.data()[offsetCount:], types.SectorAddress(count).Serialize())
}

// ColumnCount is the same field as RecordCount, read from a table
// header sector.
func (g *SectorGuard) ColumnCount() int32 {
	return g.RecordCount()
}

// LiveBit reports whether slot recordIdx holds a visible record.
func (g *SectorGuard) LiveBit(recordIdx int32) bool {
	bitmap := g.data()[offsetSectorBody:]
	return (bitmap[recordIdx/8]>>(recordIdx%8))&1 == 1
}

func (g *SectorGuard) SetLiveBit(recordIdx int32) {
	bitmap := g.data()[offsetSectorBody:]
	bitmap[recordIdx/8] |= 1 << (recordIdx % 8)
}

func (g *SectorGuard) ClearLiveBit(recordIdx int32) {
	bitmap := g.data()[offsetSectorBody:]
	bitmap[recordIdx/8] &^= 1 << (recordIdx % 8)
}

// ZeroBitmap clears the whole live bitmap of a fresh data sector.
func (g *SectorGuard) ZeroBitmap(bitmapSize int32) {
	bitmap := g.data()[offsetSectorBody : offsetSectorBody+int(bitmapSize)]
	for i := range bitmap {
		bitmap[i] = 0
	}
}

// RecordData returns the slot's byte image inside the sector.
func (g *SectorGuard) RecordData(bitmapSize int32, recordIdx int32, recordSize uint32) []byte {
	begin := offsetSectorBody + int(bitmapSize) + int(recordIdx)*int(recordSize)
	return g.data()[begin : begin+int(recordSize)]
}

// ReadColumns unpacks the column list of a table header sector.
func (g *SectorGuard) ReadColumns() []*column.Column {
	data := g.data()
	count := g.ColumnCount()
	columns := make([]*column.Column, 0, count)
	for idx := int32(0); idx < count; idx++ {
		begin := offsetSectorBody + int(idx)*column.OnDiskSize
		columns = append(columns, column.NewColumnFromBytes(data[begin:begin+column.OnDiskSize]))
	}
	return columns
}

// WriteColumns packs the column list into a table header sector and
// sets the column count.
func (g *SectorGuard) WriteColumns(columns []*column.Column) {
	g.SetRecordCount(int32(len(columns)))
	data := g.data()
	for idx, col := range columns {
		begin := offsetSectorBody + idx*column.OnDiskSize
		col.SerializeTo(data[begin : begin+column.OnDiskSize])
	}
}
