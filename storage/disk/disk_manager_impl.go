// this code is based on https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package disk

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/All23tor/DiscoBD/errors"
	"github.com/All23tor/DiscoBD/types"
	"github.com/sasha-s/go-deadlock"
)

const ErrShortSector = errors.Error("sector file shorter than geometry bytes")

// DiskManagerImpl backs the disk with a directory tree of fixed-size
// sector files: root/p{plate}/f{surface}/t{track}/s{sector}.
type DiskManagerImpl struct {
	root      string
	geometry  *DiskGeometry
	fileMutex deadlock.Mutex
}

// SectorPath maps an address to its sector file. The ordering (plate
// fastest, then sector, then track, then surface) makes contiguous
// addresses walk a cylinder before seeking.
func SectorPath(root string, g *DiskGeometry, addr types.SectorAddress) string {
	a := int32(addr)
	plate := a % g.Plates
	a /= g.Plates
	sector := a % g.Sectors
	a /= g.Sectors
	track := a % g.Tracks
	a /= g.Tracks
	surface := a % 2

	return filepath.Join(root,
		fmt.Sprintf("p%d", plate),
		fmt.Sprintf("f%d", surface),
		fmt.Sprintf("t%d", track),
		fmt.Sprintf("s%d", sector))
}

// CreateDisk builds the directory tree with a zero-filled file of
// exactly g.Bytes octets per sector, then writes the geometry into
// the first GeometrySize bytes of sector 0. Called exactly once per
// disk. When tree is non-nil the created paths are echoed to it, the
// way disk creation prints its progress.
func CreateDisk(root string, g *DiskGeometry, tree io.Writer) error {
	if err := g.Validate(); err != nil {
		return err
	}

	if err := os.Mkdir(root, 0755); err != nil {
		return err
	}
	if tree != nil {
		fmt.Fprintf(tree, "%s\n", root)
	}
	zeroed := make([]byte, g.Bytes)
	for plate := int32(0); plate < g.Plates; plate++ {
		platePath := filepath.Join(root, fmt.Sprintf("p%d", plate))
		if err := os.Mkdir(platePath, 0755); err != nil {
			return err
		}
		if tree != nil {
			fmt.Fprintf(tree, "╚═ %s\n", platePath)
		}
		for surface := int32(0); surface < 2; surface++ {
			surfacePath := filepath.Join(platePath, fmt.Sprintf("f%d", surface))
			if err := os.Mkdir(surfacePath, 0755); err != nil {
				return err
			}
			if tree != nil {
				fmt.Fprintf(tree, "   ╚═ %s\n", surfacePath)
			}
			for track := int32(0); track < g.Tracks; track++ {
				trackPath := filepath.Join(surfacePath, fmt.Sprintf("t%d", track))
				if err := os.Mkdir(trackPath, 0755); err != nil {
					return err
				}
				if tree != nil {
					fmt.Fprintf(tree, "      ╚═ %s\n", trackPath)
				}
				for sector := int32(0); sector < g.Sectors; sector++ {
					sectorPath := filepath.Join(trackPath, fmt.Sprintf("s%d", sector))
					if err := os.WriteFile(sectorPath, zeroed, 0644); err != nil {
						return err
					}
					if tree != nil {
						fmt.Fprintf(tree, "         ╚═ %s\n", sectorPath)
					}
				}
			}
		}
	}

	firstPath := filepath.Join(root, "p0", "f0", "t0", "s0")
	first, err := os.OpenFile(firstPath, os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer first.Close()
	buf := make([]byte, GeometrySize)
	g.SerializeTo(buf)
	_, err = first.WriteAt(buf, 0)
	return err
}

// ReadGeometry reads the geometry back from sector 0. This is the
// only disk access performed outside the buffer manager; everything
// else needs the page size it yields.
func ReadGeometry(root string) (*DiskGeometry, error) {
	firstPath := filepath.Join(root, "p0", "f0", "t0", "s0")
	first, err := os.Open(firstPath)
	if err != nil {
		return nil, err
	}
	defer first.Close()
	buf := make([]byte, GeometrySize)
	if _, err := io.ReadFull(first, buf); err != nil {
		return nil, err
	}
	return NewDiskGeometryFromBytes(buf), nil
}

// NewDiskManagerImpl opens an existing disk tree.
func NewDiskManagerImpl(root string) (DiskManager, error) {
	geometry, err := ReadGeometry(root)
	if err != nil {
		return nil, err
	}
	return &DiskManagerImpl{root: root, geometry: geometry}, nil
}

func (d *DiskManagerImpl) Geometry() *DiskGeometry {
	return d.geometry
}

func (d *DiskManagerImpl) SectorPath(addr types.SectorAddress) string {
	return SectorPath(d.root, d.geometry, addr)
}

// ReadSector reads a whole sector file into data.
func (d *DiskManagerImpl) ReadSector(addr types.SectorAddress, data []byte) error {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()

	file, err := os.Open(SectorPath(d.root, d.geometry, addr))
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := io.ReadFull(file, data[:d.geometry.Bytes]); err != nil {
		return ErrShortSector
	}
	return nil
}

// WriteSector rewrites a whole sector file from data.
func (d *DiskManagerImpl) WriteSector(addr types.SectorAddress, data []byte) error {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()

	file, err := os.OpenFile(SectorPath(d.root, d.geometry, addr), os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := file.WriteAt(data[:d.geometry.Bytes], 0); err != nil {
		return err
	}
	return file.Sync()
}

func (d *DiskManagerImpl) ShutDown() {
	// sector files are opened per call, nothing is held open
}