// this code is based on https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package disk

import (
	"github.com/All23tor/DiscoBD/types"
)

// DiskManager is responsible for interacting with the simulated disk.
// All sector I/O besides the initial geometry read goes through the
// buffer manager, which is the only caller of ReadSector/WriteSector.
type DiskManager interface {
	ReadSector(types.SectorAddress, []byte) error
	WriteSector(types.SectorAddress, []byte) error
	Geometry() *DiskGeometry
	SectorPath(types.SectorAddress) string
	ShutDown()
}