package disk

import (
	"github.com/All23tor/DiscoBD/common"
	"github.com/All23tor/DiscoBD/types"
	"github.com/dsnet/golib/memfile"
	"github.com/sasha-s/go-deadlock"
)

// VirtualDiskManagerImpl keeps the whole disk in one in-memory file,
// sector addresses mapped to offsets. Tests use it so they never
// touch a real directory tree.
type VirtualDiskManagerImpl struct {
	db        *memfile.File
	geometry  *DiskGeometry
	fileMutex deadlock.Mutex
}

// NewVirtualDiskManagerImpl creates a zero-filled virtual disk with
// the geometry already persisted in sector 0.
func NewVirtualDiskManagerImpl(g *DiskGeometry) DiskManager {
	backing := make([]byte, g.TotalBytes())
	g.SerializeTo(backing[:GeometrySize])
	return &VirtualDiskManagerImpl{db: memfile.New(backing), geometry: g}
}

func (d *VirtualDiskManagerImpl) Geometry() *DiskGeometry {
	return d.geometry
}

// SectorPath reports the path the sector would have on a real disk
// tree rooted at the conventional directory.
func (d *VirtualDiskManagerImpl) SectorPath(addr types.SectorAddress) string {
	return SectorPath(common.DiskRootDirName, d.geometry, addr)
}

func (d *VirtualDiskManagerImpl) ReadSector(addr types.SectorAddress, data []byte) error {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()

	offset := int64(addr) * int64(d.geometry.Bytes)
	_, err := d.db.ReadAt(data[:d.geometry.Bytes], offset)
	return err
}

func (d *VirtualDiskManagerImpl) WriteSector(addr types.SectorAddress, data []byte) error {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()

	offset := int64(addr) * int64(d.geometry.Bytes)
	_, err := d.db.WriteAt(data[:d.geometry.Bytes], offset)
	return err
}

func (d *VirtualDiskManagerImpl) ShutDown() {
	// nothing to close
}
