package disk

import (
	"encoding/binary"

	"github.com/All23tor/DiscoBD/errors"
)

// DiskGeometry describes the simulated disk: number of plates (each
// with two surfaces), tracks per surface, sectors per track, bytes
// per sector and sectors per page ("block"). It is persisted once,
// little-endian, at the start of sector 0 and is read-only after
// disk creation.
type DiskGeometry struct {
	Plates    int32
	Tracks    int32
	Sectors   int32
	Bytes     int32
	BlockSize int32
}

// GeometrySize is the on-disk size of the geometry prefix of sector 0.
const GeometrySize = 20

const ErrInvalidGeometry = errors.Error("invalid disk geometry")

func (g *DiskGeometry) Validate() error {
	if g.Plates < 1 || g.Tracks < 1 || g.Sectors < 1 || g.Bytes < 16 || g.BlockSize < 1 {
		return ErrInvalidGeometry
	}
	return nil
}

func (g *DiskGeometry) SerializeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:], uint32(g.Plates))
	binary.LittleEndian.PutUint32(buf[4:], uint32(g.Tracks))
	binary.LittleEndian.PutUint32(buf[8:], uint32(g.Sectors))
	binary.LittleEndian.PutUint32(buf[12:], uint32(g.Bytes))
	binary.LittleEndian.PutUint32(buf[16:], uint32(g.BlockSize))
}

func NewDiskGeometryFromBytes(data []byte) *DiskGeometry {
	return &DiskGeometry{
		Plates:    int32(binary.LittleEndian.Uint32(data[0:])),
		Tracks:    int32(binary.LittleEndian.Uint32(data[4:])),
		Sectors:   int32(binary.LittleEndian.Uint32(data[8:])),
		Bytes:     int32(binary.LittleEndian.Uint32(data[12:])),
		BlockSize: int32(binary.LittleEndian.Uint32(data[16:])),
	}
}

// TotalSectors is plates * 2 surfaces * tracks * sectors.
func (g *DiskGeometry) TotalSectors() int32 {
	return g.Plates * 2 * g.Tracks * g.Sectors
}

func (g *DiskGeometry) TotalBytes() int64 {
	return int64(g.TotalSectors()) * int64(g.Bytes)
}

// PageSize is the in-memory size of one buffer-pool page.
func (g *DiskGeometry) PageSize() int32 {
	return g.BlockSize * g.Bytes
}
