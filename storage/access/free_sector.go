package access

import (
	"github.com/All23tor/DiscoBD/errors"
	"github.com/All23tor/DiscoBD/storage/buffer"
	"github.com/All23tor/DiscoBD/types"
)

const ErrOutOfSpace = errors.Error("no free sector available")

// A sector is free iff its first four bytes are zero. Null chain
// pointers are -1, so a tail sector never looks free. Sector 0 holds
// the geometry, whose plate count is at least 1.

// RequestEmptySector linearly scans the disk, block-major so the walk
// stays inside one resident page as long as possible, and returns the
// first free address. Only whole pages are scanned: when the sector
// count is not a multiple of the block size, the trailing sectors
// past the last whole page are never returned.
func RequestEmptySector(bufferManager *buffer.BufferManager) (types.SectorAddress, error) {
	g := bufferManager.Geometry()
	totalBlocks := g.TotalSectors() / g.BlockSize
	for block := int32(0); block < totalBlocks; block++ {
		for offset := int32(0); offset < g.BlockSize; offset++ {
			addr := types.SectorAddress(block*g.BlockSize + offset)
			data, err := bufferManager.LoadSector(addr, buffer.ReadMode)
			if err != nil {
				return types.NullSectorAddress, err
			}
			if types.NewSectorAddressFromBytes(data) == 0 {
				return addr, nil
			}
		}
	}
	return types.NullSectorAddress, ErrOutOfSpace
}
