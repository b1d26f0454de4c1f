// this code is based on https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	"fmt"
	"io"

	"github.com/All23tor/DiscoBD/common"
	"github.com/All23tor/DiscoBD/errors"
	"github.com/All23tor/DiscoBD/storage/disk"
	"github.com/All23tor/DiscoBD/storage/page"
	"github.com/All23tor/DiscoBD/types"
	"github.com/sasha-s/go-deadlock"
	"github.com/spaolacci/murmur3"
)

// AccessMode selects whether LoadSector marks the frame dirty.
type AccessMode int

const (
	ReadMode AccessMode = iota
	WriteMode
)

const ErrAllPinned = errors.Error("everything is pinned")
const ErrInvalidAddress = errors.Error("sector address out of range")

// BufferManager is the single owner of all in-memory page content.
// It keeps at most capacity frames resident, evicts the least
// recently used unpinned page, writes dirty frames back sector by
// sector and counts accesses and hits.
//
// Byte slices returned by LoadSector stay valid until a later call
// may evict the page; callers that hold a slice across further calls
// must Pin the address first.
type BufferManager struct {
	capacity    uint32
	diskManager disk.DiskManager
	pool        map[types.PageID]*page.Frame
	recency     *recencyList
	totalAccess uint64
	hits        uint64
	poolMutex   deadlock.Mutex
}

// NewBufferManager returns an empty buffer manager of the given
// frame capacity.
func NewBufferManager(capacity uint32, diskManager disk.DiskManager) *BufferManager {
	return &BufferManager{
		capacity:    capacity,
		diskManager: diskManager,
		pool:        make(map[types.PageID]*page.Frame),
		recency:     newRecencyList(),
	}
}

func (b *BufferManager) Geometry() *disk.DiskGeometry {
	return b.diskManager.Geometry()
}

// LoadSector returns the resident image of one sector: a slice of
// length geometry.Bytes inside the enclosing page's frame. WriteMode
// sets the frame's dirty bit.
func (b *BufferManager) LoadSector(addr types.SectorAddress, mode AccessMode) ([]byte, error) {
	b.poolMutex.Lock()
	defer b.poolMutex.Unlock()

	g := b.diskManager.Geometry()
	if addr < 0 || int32(addr) >= g.TotalSectors() {
		return nil, ErrInvalidAddress
	}

	b.totalAccess++
	frame, hit, err := b.fetchFrame(addr.PageID(g.BlockSize))
	if err != nil {
		return nil, err
	}
	if hit {
		b.hits++
	}

	if mode == WriteMode {
		frame.SetIsDirty(true)
	}
	offset := addr.BlockOffset(g.BlockSize) * g.Bytes
	return frame.Data()[offset : offset+g.Bytes], nil
}

// fetchFrame makes the page resident and returns its frame, moving
// it to the MRU end. The caller holds poolMutex.
func (b *BufferManager) fetchFrame(pageID types.PageID) (*page.Frame, bool, error) {
	if frame, ok := b.pool[pageID]; ok {
		common.DbPrintf(common.CACHE_OP, "Updating %d\n", pageID)
		b.recency.moveToBack(pageID)
		return frame, true, nil
	}

	if uint32(len(b.pool)) < b.capacity {
		common.DbPrintf(common.CACHE_OP, "Adding %d\n", pageID)
		frame, err := b.loadPage(pageID)
		if err != nil {
			return nil, false, err
		}
		b.pool[pageID] = frame
		b.recency.pushBack(pageID)
		return frame, false, nil
	}

	// eviction scan from the LRU end; pinned pages keep their position
	victim := b.recency.head
	for victim != nil && b.pool[victim.key].PinCount() != 0 {
		common.DbPrintf(common.CACHE_OP, "Ignoring %d\n", victim.key)
		victim = victim.next
	}
	if victim == nil {
		return nil, false, ErrAllPinned
	}

	victimID := victim.key
	common.DbPrintf(common.CACHE_OP, "Erasing %d\n", victimID)
	victimFrame := b.pool[victimID]
	if victimFrame.IsDirty() {
		if err := b.flushFrame(victimFrame); err != nil {
			return nil, false, err
		}
	}
	b.recency.remove(victimID)
	delete(b.pool, victimID)

	common.DbPrintf(common.CACHE_OP, "Replacing with %d\n", pageID)
	frame, err := b.loadPage(pageID)
	if err != nil {
		return nil, false, err
	}
	b.pool[pageID] = frame
	b.recency.pushBack(pageID)
	return frame, false, nil
}

// loadPage concatenates the page's block_size sector files into a
// fresh frame.
func (b *BufferManager) loadPage(pageID types.PageID) (*page.Frame, error) {
	g := b.diskManager.Geometry()
	data := make([]byte, g.PageSize())
	first := pageID.FirstSector(g.BlockSize)
	for sector := int32(0); sector < g.BlockSize; sector++ {
		begin := sector * g.Bytes
		if err := b.diskManager.ReadSector(first+types.SectorAddress(sector), data[begin:begin+g.Bytes]); err != nil {
			return nil, err
		}
	}
	return page.NewFrame(pageID, data), nil
}

// flushFrame splits the frame back into block_size sector writes.
func (b *BufferManager) flushFrame(frame *page.Frame) error {
	g := b.diskManager.Geometry()
	first := frame.ID().FirstSector(g.BlockSize)
	for sector := int32(0); sector < g.BlockSize; sector++ {
		begin := sector * g.Bytes
		if err := b.diskManager.WriteSector(first+types.SectorAddress(sector), frame.Data()[begin:begin+g.Bytes]); err != nil {
			return err
		}
	}
	return nil
}

// Pin makes the page enclosing addr resident if needed, then raises
// its pin count so it cannot be evicted.
func (b *BufferManager) Pin(addr types.SectorAddress) error {
	b.poolMutex.Lock()
	defer b.poolMutex.Unlock()

	g := b.diskManager.Geometry()
	if addr < 0 || int32(addr) >= g.TotalSectors() {
		return ErrInvalidAddress
	}
	frame, _, err := b.fetchFrame(addr.PageID(g.BlockSize))
	if err != nil {
		return err
	}
	frame.IncPinCount()
	return nil
}

// Unpin lowers the pin count of the enclosing page, saturating at
// zero. Unpinning a non-resident page is a no-op.
func (b *BufferManager) Unpin(addr types.SectorAddress) {
	b.poolMutex.Lock()
	defer b.poolMutex.Unlock()

	g := b.diskManager.Geometry()
	if frame, ok := b.pool[addr.PageID(g.BlockSize)]; ok {
		frame.DecPinCount()
	}
}

// FlushAll writes every dirty frame back to its sector files and
// clears the dirty bits. It is the teardown contract: nothing dirty
// may outlive the buffer manager.
func (b *BufferManager) FlushAll() error {
	b.poolMutex.Lock()
	defer b.poolMutex.Unlock()

	for _, frame := range b.pool {
		if frame.IsDirty() {
			if err := b.flushFrame(frame); err != nil {
				return err
			}
			frame.SetIsDirty(false)
		}
	}
	return nil
}

// Print writes a diagnostic snapshot: pool contents in recency order
// (0 = most recent), dirty bits, pin counts, a murmur3 fingerprint
// of each frame, and the hit statistics.
func (b *BufferManager) Print(w io.Writer) {
	b.poolMutex.Lock()
	defer b.poolMutex.Unlock()

	fmt.Fprintf(w, "ID\tL/W\tDIRTY\tPINS\tMRU\tFP\n")
	idx := 0
	for n := b.recency.tail; n != nil; n = n.prev {
		frame := b.pool[n.key]
		mode := 'L'
		dirty := 0
		if frame.IsDirty() {
			mode = 'W'
			dirty = 1
		}
		fmt.Fprintf(w, "%d\t%c\t%d\t%d\t%d\t%016x\n",
			n.key, mode, dirty, frame.PinCount(), idx, murmur3.Sum64(frame.Data()))
		idx++
	}
	fmt.Fprintf(w, "\nTotal access %d\tHits %d\n", b.totalAccess, b.hits)
	hitRate := float32(0)
	if b.totalAccess > 0 {
		hitRate = float32(b.hits) * 100 / float32(b.totalAccess)
	}
	fmt.Fprintf(w, "Hit rate %v%%\n", hitRate)
}

// Size returns the number of resident pages.
func (b *BufferManager) Size() uint32 {
	b.poolMutex.Lock()
	defer b.poolMutex.Unlock()
	return uint32(len(b.pool))
}

func (b *BufferManager) TotalAccess() uint64 {
	return b.totalAccess
}

func (b *BufferManager) Hits() uint64 {
	return b.hits
}