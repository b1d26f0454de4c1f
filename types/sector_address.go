// this code is based on https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package types

import (
	"bytes"
	"encoding/binary"
)

// SectorAddress identifies one sector of the simulated disk. The
// decoding into plate/surface/track/sector lives in storage/disk;
// everywhere else an address is just a signed integer.
type SectorAddress int32

// NullSectorAddress terminates sector chains. It is distinct from 0,
// so a sector whose first field is null is never mistaken for free.
const NullSectorAddress = SectorAddress(-1)

// SectorAddressSize is the on-disk size of an address.
const SectorAddressSize = 4

func (a SectorAddress) IsNull() bool {
	return a == NullSectorAddress
}

// Serialize casts it to []byte
func (a SectorAddress) Serialize() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, int32(a))
	return buf.Bytes()
}

// NewSectorAddressFromBytes creates an address from []byte
func NewSectorAddressFromBytes(data []byte) (ret SectorAddress) {
	var raw int32
	binary.Read(bytes.NewBuffer(data), binary.LittleEndian, &raw)
	return SectorAddress(raw)
}

// PageID is the type of the buffer-pool page identifier. A page is
// block_size contiguous sectors.
type PageID int32

// PageID returns the enclosing page of the address.
func (a SectorAddress) PageID(blockSize int32) PageID {
	return PageID(int32(a) / blockSize)
}

// BlockOffset returns the sector's position within its page.
func (a SectorAddress) BlockOffset(blockSize int32) int32 {
	return int32(a) % blockSize
}

// FirstSector returns the address of the page's first sector.
func (p PageID) FirstSector(blockSize int32) SectorAddress {
	return SectorAddress(int32(p) * blockSize)
}