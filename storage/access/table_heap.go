package access

import (
	"github.com/All23tor/DiscoBD/storage/buffer"
	"github.com/All23tor/DiscoBD/storage/disk"
	"github.com/All23tor/DiscoBD/storage/table/schema"
	"github.com/All23tor/DiscoBD/types"
)

// RecordsPerSector is how many fixed-width records plus their live
// bits fit in a sector body after the next pointer and the count.
func RecordsPerSector(g *disk.DiskGeometry, recordSize uint32) int32 {
	return 8 * (g.Bytes - sizeSectorHeader) / (8*int32(recordSize) + 1)
}

func BitmapSize(capacity int32) int32 {
	return (capacity + 7) / 8
}

// TableHeap is a table's chain of data sectors, reached from its
// header sector. Record slots are append-only: deletion clears a
// live bit and never reuses the slot.
type TableHeap struct {
	bufferManager *buffer.BufferManager
	headerAddr    types.SectorAddress
	schema        *schema.Schema
	recordSize    uint32
	capacity      int32
	bitmapSize    int32
	tailAddr      types.SectorAddress // cached chain tail, null until located
}

func NewTableHeap(bufferManager *buffer.BufferManager, headerAddr types.SectorAddress, sc *schema.Schema) *TableHeap {
	recordSize := sc.Length()
	capacity := RecordsPerSector(bufferManager.Geometry(), recordSize)
	return &TableHeap{
		bufferManager: bufferManager,
		headerAddr:    headerAddr,
		schema:        sc,
		recordSize:    recordSize,
		capacity:      capacity,
		bitmapSize:    BitmapSize(capacity),
		tailAddr:      types.NullSectorAddress,
	}
}

func (h *TableHeap) Schema() *schema.Schema {
	return h.schema
}

func (h *TableHeap) RecordSize() uint32 {
	return h.recordSize
}

func (h *TableHeap) Capacity() int32 {
	return h.capacity
}

// appendSector allocates a free sector, links it after prev (the
// header sector or the current tail) and initialises it as an empty
// data sector.
func (h *TableHeap) appendSector(prev *SectorGuard) (*SectorGuard, error) {
	addr, err := RequestEmptySector(h.bufferManager)
	if err != nil {
		return nil, err
	}
	fresh, err := AcquireSector(h.bufferManager, addr, buffer.WriteMode)
	if err != nil {
		return nil, err
	}
	prev.SetNextSector(addr)
	fresh.SetNextSector(types.NullSectorAddress)
	fresh.SetRecordCount(0)
	fresh.ZeroBitmap(h.bitmapSize)
	return fresh, nil
}

// locateTail walks the chain once and caches the last sector's
// address; later inserts start from the cache.
func (h *TableHeap) locateTail() error {
	if !h.tailAddr.IsNull() {
		return nil
	}

	header, err := AcquireSector(h.bufferManager, h.headerAddr, buffer.ReadMode)
	if err != nil {
		return err
	}
	addr := header.NextSector()
	header.Release()

	for !addr.IsNull() {
		sector, err := AcquireSector(h.bufferManager, addr, buffer.ReadMode)
		if err != nil {
			return err
		}
		next := sector.NextSector()
		sector.Release()
		if next.IsNull() {
			h.tailAddr = addr
			return nil
		}
		addr = next
	}
	return nil // empty chain; tail stays null
}

// InsertRecord appends one encoded record at the tail of the chain,
// growing the chain by a fresh sector when the tail is full (or the
// chain is empty).
func (h *TableHeap) InsertRecord(record []byte) error {
	if err := h.locateTail(); err != nil {
		return err
	}

	var tail *SectorGuard
	var err error
	if h.tailAddr.IsNull() {
		header, herr := AcquireSector(h.bufferManager, h.headerAddr, buffer.WriteMode)
		if herr != nil {
			return herr
		}
		tail, err = h.appendSector(header)
		header.Release()
		if err != nil {
			return err
		}
	} else {
		tail, err = AcquireSector(h.bufferManager, h.tailAddr, buffer.WriteMode)
		if err != nil {
			return err
		}
		if tail.RecordCount() == h.capacity {
			fresh, aerr := h.appendSector(tail)
			tail.Release()
			if aerr != nil {
				return aerr
			}
			tail = fresh
		}
	}
	defer tail.Release()
	h.tailAddr = tail.Address()

	slot := tail.RecordCount()
	copy(tail.RecordData(h.bitmapSize, slot, h.recordSize), record)
	tail.SetLiveBit(slot)
	tail.SetRecordCount(slot + 1)
	return nil
}

// RecordVisitor sees every used slot of the chain, live or
// tombstoned; it checks the live bit through the guard and may clear
// it when scanning in write mode.
type RecordVisitor func(record []byte, recordIdx int32, sector *SectorGuard) error

// VisitRecords walks the chain from the header's first data sector,
// acquiring each sector in the given mode, and calls the visitor for
// every slot below the sector's record count. Traversal stops at the
// null tail.
func (h *TableHeap) VisitRecords(mode buffer.AccessMode, visit RecordVisitor) error {
	header, err := AcquireSector(h.bufferManager, h.headerAddr, buffer.ReadMode)
	if err != nil {
		return err
	}
	addr := header.NextSector()
	header.Release()

	for !addr.IsNull() {
		sector, err := AcquireSector(h.bufferManager, addr, mode)
		if err != nil {
			return err
		}
		count := sector.RecordCount()
		for idx := int32(0); idx < count; idx++ {
			record := sector.RecordData(h.bitmapSize, idx, h.recordSize)
			if err := visit(record, idx, sector); err != nil {
				sector.Release()
				return err
			}
		}
		next := sector.NextSector()
		sector.Release()
		addr = next
	}
	return nil
}
