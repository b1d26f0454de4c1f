package disk

import (
	"os"
	"path/filepath"
	"testing"

	testingpkg "github.com/All23tor/DiscoBD/testing/testing_util"
	"github.com/All23tor/DiscoBD/types"
)

func TestGeometryRoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "disk")
	geometry := &DiskGeometry{Plates: 1, Tracks: 2, Sectors: 4, Bytes: 64, BlockSize: 2}
	testingpkg.Ok(t, CreateDisk(root, geometry, nil))

	read, err := ReadGeometry(root)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, geometry, read)
}

func TestCreateDiskFilesAreSectorSized(t *testing.T) {
	root := filepath.Join(t.TempDir(), "disk")
	geometry := &DiskGeometry{Plates: 1, Tracks: 1, Sectors: 2, Bytes: 32, BlockSize: 1}
	testingpkg.Ok(t, CreateDisk(root, geometry, nil))

	for addr := types.SectorAddress(0); int32(addr) < geometry.TotalSectors(); addr++ {
		info, err := os.Stat(SectorPath(root, geometry, addr))
		testingpkg.Ok(t, err)
		testingpkg.Equals(t, int64(geometry.Bytes), info.Size())
	}
}

func TestGeometryValidation(t *testing.T) {
	bad := []DiskGeometry{
		{Plates: 0, Tracks: 1, Sectors: 1, Bytes: 16, BlockSize: 1},
		{Plates: 1, Tracks: 0, Sectors: 1, Bytes: 16, BlockSize: 1},
		{Plates: 1, Tracks: 1, Sectors: 0, Bytes: 16, BlockSize: 1},
		{Plates: 1, Tracks: 1, Sectors: 1, Bytes: 15, BlockSize: 1},
		{Plates: 1, Tracks: 1, Sectors: 1, Bytes: 16, BlockSize: 0},
	}
	for _, g := range bad {
		testingpkg.Nok(t, g.Validate())
	}
	good := DiskGeometry{Plates: 1, Tracks: 1, Sectors: 1, Bytes: 16, BlockSize: 1}
	testingpkg.Ok(t, good.Validate())
}

func TestSectorPathDecoding(t *testing.T) {
	geometry := &DiskGeometry{Plates: 2, Tracks: 3, Sectors: 4, Bytes: 32, BlockSize: 1}

	// plate fastest, then sector, then track, then surface
	testingpkg.Equals(t,
		filepath.Join("disk", "p0", "f0", "t0", "s0"),
		SectorPath("disk", geometry, 0))

	// plate=1 surface=1 track=2 sector=3 packs to
	// 1 + 2*(3 + 4*(2 + 3*1)) = 47
	testingpkg.Equals(t,
		filepath.Join("disk", "p1", "f1", "t2", "s3"),
		SectorPath("disk", geometry, 47))

	// contiguous addresses walk plates first
	testingpkg.Equals(t,
		filepath.Join("disk", "p1", "f0", "t0", "s0"),
		SectorPath("disk", geometry, 1))
	testingpkg.Equals(t,
		filepath.Join("disk", "p0", "f0", "t0", "s1"),
		SectorPath("disk", geometry, 2))
}

func TestSectorReadWrite(t *testing.T) {
	root := filepath.Join(t.TempDir(), "disk")
	geometry := &DiskGeometry{Plates: 1, Tracks: 1, Sectors: 4, Bytes: 32, BlockSize: 1}
	testingpkg.Ok(t, CreateDisk(root, geometry, nil))

	dm, err := NewDiskManagerImpl(root)
	testingpkg.Ok(t, err)
	defer dm.ShutDown()

	payload := make([]byte, geometry.Bytes)
	for i := range payload {
		payload[i] = byte(i)
	}
	testingpkg.Ok(t, dm.WriteSector(3, payload))

	got := make([]byte, geometry.Bytes)
	testingpkg.Ok(t, dm.ReadSector(3, got))
	testingpkg.Equals(t, payload, got)
}

func TestVirtualDiskManager(t *testing.T) {
	geometry := &DiskGeometry{Plates: 1, Tracks: 1, Sectors: 4, Bytes: 32, BlockSize: 2}
	dm := NewVirtualDiskManagerImpl(geometry)
	defer dm.ShutDown()

	// the geometry is persisted in sector 0 like on a real disk
	sector0 := make([]byte, geometry.Bytes)
	testingpkg.Ok(t, dm.ReadSector(0, sector0))
	testingpkg.Equals(t, geometry, NewDiskGeometryFromBytes(sector0[:GeometrySize]))

	payload := make([]byte, geometry.Bytes)
	copy(payload, "hello sector")
	testingpkg.Ok(t, dm.WriteSector(2, payload))
	got := make([]byte, geometry.Bytes)
	testingpkg.Ok(t, dm.ReadSector(2, got))
	testingpkg.Equals(t, payload, got)
}
