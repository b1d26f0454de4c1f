package access

import (
	"testing"

	"github.com/All23tor/DiscoBD/storage/buffer"
	"github.com/All23tor/DiscoBD/storage/disk"
	"github.com/All23tor/DiscoBD/storage/table/column"
	"github.com/All23tor/DiscoBD/storage/table/schema"
	testingpkg "github.com/All23tor/DiscoBD/testing/testing_util"
	"github.com/All23tor/DiscoBD/types"
)

// 1 plate * 2 surfaces * 1 track * 8 sectors = 16 sectors of 32
// bytes. One INT column gives a record size of 8, so a data sector
// holds 8*(32-8)/(8*8+1) = 2 records.
func testHeapSetup(t *testing.T) (*buffer.BufferManager, *TableHeap) {
	g := &disk.DiskGeometry{Plates: 1, Tracks: 1, Sectors: 8, Bytes: 32, BlockSize: 2}
	bm := buffer.NewBufferManager(4, disk.NewVirtualDiskManagerImpl(g))

	columns := []*column.Column{column.NewColumn("n", types.Int)}
	sc := schema.NewSchema(columns)

	headerAddr, err := RequestEmptySector(bm)
	testingpkg.Ok(t, err)
	header, err := AcquireSector(bm, headerAddr, buffer.WriteMode)
	testingpkg.Ok(t, err)
	header.SetNextSector(types.NullSectorAddress)
	header.WriteColumns(columns)
	header.Release()

	return bm, NewTableHeap(bm, headerAddr, sc)
}

func insertInt(t *testing.T, heap *TableHeap, n int64) {
	record := make([]byte, heap.RecordSize())
	types.NewInteger(n).SerializeTo(record)
	testingpkg.Ok(t, heap.InsertRecord(record))
}

func collectLive(t *testing.T, heap *TableHeap) []int64 {
	var got []int64
	err := heap.VisitRecords(buffer.ReadMode, func(record []byte, recordIdx int32, sector *SectorGuard) error {
		if !sector.LiveBit(recordIdx) {
			return nil
		}
		got = append(got, types.NewValueFromBytes(record, types.Int).ToInteger())
		return nil
	})
	testingpkg.Ok(t, err)
	return got
}

func TestCapacityFormula(t *testing.T) {
	g := &disk.DiskGeometry{Plates: 1, Tracks: 1, Sectors: 8, Bytes: 32, BlockSize: 2}
	testingpkg.Equals(t, int32(2), RecordsPerSector(g, 8))
	testingpkg.Equals(t, int32(1), BitmapSize(2))

	g512 := &disk.DiskGeometry{Plates: 1, Tracks: 1, Sectors: 16, Bytes: 512, BlockSize: 4}
	testingpkg.Equals(t, int32(6), RecordsPerSector(g512, 64+8+1))
}

func TestRequestEmptySectorSkipsClaimedSectors(t *testing.T) {
	g := &disk.DiskGeometry{Plates: 1, Tracks: 1, Sectors: 8, Bytes: 32, BlockSize: 2}
	bm := buffer.NewBufferManager(4, disk.NewVirtualDiskManagerImpl(g))

	// sector 0 holds the geometry (first word = plates = 1), so the
	// first free sector is 1
	addr, err := RequestEmptySector(bm)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, types.SectorAddress(1), addr)

	// claiming it (null next pointer is -1, not 0) moves allocation on
	guard, err := AcquireSector(bm, addr, buffer.WriteMode)
	testingpkg.Ok(t, err)
	guard.SetNextSector(types.NullSectorAddress)
	guard.Release()

	addr, err = RequestEmptySector(bm)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, types.SectorAddress(2), addr)
}

func TestRequestEmptySectorOutOfSpace(t *testing.T) {
	g := &disk.DiskGeometry{Plates: 1, Tracks: 1, Sectors: 1, Bytes: 32, BlockSize: 1}
	bm := buffer.NewBufferManager(2, disk.NewVirtualDiskManagerImpl(g))

	// 2 sectors total; claim the only free one
	addr, err := RequestEmptySector(bm)
	testingpkg.Ok(t, err)
	guard, err := AcquireSector(bm, addr, buffer.WriteMode)
	testingpkg.Ok(t, err)
	guard.SetNextSector(types.NullSectorAddress)
	guard.Release()

	_, err = RequestEmptySector(bm)
	testingpkg.Equals(t, error(ErrOutOfSpace), err)
}

func TestInsertGrowsTheChain(t *testing.T) {
	_, heap := testHeapSetup(t)

	for n := int64(1); n <= 5; n++ {
		insertInt(t, heap, n)
	}
	// 5 records at 2 per sector span 3 data sectors, insertion order kept
	testingpkg.Equals(t, []int64{1, 2, 3, 4, 5}, collectLive(t, heap))
}

func TestTombstonesStayCounted(t *testing.T) {
	_, heap := testHeapSetup(t)
	for n := int64(1); n <= 4; n++ {
		insertInt(t, heap, n)
	}

	// clear the live bit of every even record
	err := heap.VisitRecords(buffer.WriteMode, func(record []byte, recordIdx int32, sector *SectorGuard) error {
		if types.NewValueFromBytes(record, types.Int).ToInteger()%2 == 0 {
			sector.ClearLiveBit(recordIdx)
		}
		return nil
	})
	testingpkg.Ok(t, err)

	testingpkg.Equals(t, []int64{1, 3}, collectLive(t, heap))

	// record counts never decrease: the visitor still sees 4 slots
	slots := 0
	err = heap.VisitRecords(buffer.ReadMode, func(record []byte, recordIdx int32, sector *SectorGuard) error {
		slots++
		return nil
	})
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, 4, slots)
}

func TestInsertAfterReopenFindsTheTail(t *testing.T) {
	bm, heap := testHeapSetup(t)
	insertInt(t, heap, 1)
	insertInt(t, heap, 2)
	insertInt(t, heap, 3)

	// a fresh heap over the same header must append, not restart
	reopened := NewTableHeap(bm, heap.headerAddr, heap.schema)
	record := make([]byte, reopened.RecordSize())
	types.NewInteger(4).SerializeTo(record)
	testingpkg.Ok(t, reopened.InsertRecord(record))

	testingpkg.Equals(t, []int64{1, 2, 3, 4}, collectLive(t, heap))
}

func TestHeaderColumnsRoundTrip(t *testing.T) {
	g := &disk.DiskGeometry{Plates: 1, Tracks: 1, Sectors: 8, Bytes: 128, BlockSize: 2}
	bm := buffer.NewBufferManager(4, disk.NewVirtualDiskManagerImpl(g))

	columns := []*column.Column{
		column.NewColumn("name", types.String),
		column.NewColumn("age", types.Int),
	}
	addr, err := RequestEmptySector(bm)
	testingpkg.Ok(t, err)
	header, err := AcquireSector(bm, addr, buffer.WriteMode)
	testingpkg.Ok(t, err)
	header.SetNextSector(types.NullSectorAddress)
	header.WriteColumns(columns)

	read := header.ReadColumns()
	header.Release()
	testingpkg.Equals(t, 2, len(read))
	testingpkg.Equals(t, "name", read[0].GetColumnName())
	testingpkg.Equals(t, types.String, read[0].GetType())
	testingpkg.Equals(t, "age", read[1].GetColumnName())
	testingpkg.Equals(t, types.Int, read[1].GetType())
}
