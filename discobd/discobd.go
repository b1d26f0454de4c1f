package discobd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/All23tor/DiscoBD/catalog"
	"github.com/All23tor/DiscoBD/common"
	"github.com/All23tor/DiscoBD/errors"
	"github.com/All23tor/DiscoBD/execution/expression"
	"github.com/All23tor/DiscoBD/storage/access"
	"github.com/All23tor/DiscoBD/storage/buffer"
	"github.com/All23tor/DiscoBD/storage/disk"
	"github.com/All23tor/DiscoBD/storage/table/schema"
	"github.com/All23tor/DiscoBD/types"
	mapset "github.com/deckarep/golang-set/v2"
)

const ErrNotBoolean = errors.Error("predicate does not evaluate to a boolean")
const ErrEmptyCsv = errors.Error("csv file has no schema line")

// DiscoBD owns the disk geometry, the buffer manager and the
// catalog, and exposes the table operations the command surface
// dispatches to.
type DiscoBD struct {
	diskManager   disk.DiskManager
	bufferManager *buffer.BufferManager
	catalog       *catalog.Catalog
}

// NewDiscoBD builds a database handle over an already-opened disk.
func NewDiscoBD(diskManager disk.DiskManager, poolSize uint32) *DiscoBD {
	bufferManager := buffer.NewBufferManager(poolSize, diskManager)
	return &DiscoBD{diskManager, bufferManager, catalog.NewCatalog(bufferManager)}
}

// OpenDiscoBD opens the disk tree at root with the default pool size.
func OpenDiscoBD(root string) (*DiscoBD, error) {
	diskManager, err := disk.NewDiskManagerImpl(root)
	if err != nil {
		return nil, err
	}
	return NewDiscoBD(diskManager, common.DefaultPoolSize), nil
}

func (d *DiscoBD) BufferManager() *buffer.BufferManager {
	return d.bufferManager
}

func (d *DiscoBD) Geometry() *disk.DiskGeometry {
	return d.diskManager.Geometry()
}

// Shutdown writes every dirty frame back and closes the disk. The
// teardown contract: no dirty frame survives it.
func (d *DiscoBD) Shutdown() error {
	if err := d.bufferManager.FlushAll(); err != nil {
		return err
	}
	d.diskManager.ShutDown()
	return nil
}

// LoadCSV loads name.csv from the working directory into the table
// of the same name. A new table takes its schema from the first
// line; re-loading an existing table reuses the stored schema and
// appends from the tail of its chain.
func (d *DiscoBD) LoadCSV(name string) error {
	file, err := os.Open(name + ".csv")
	if err != nil {
		return err
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)

	headerAddr, err := d.catalog.SearchTable(name)
	if err != nil {
		return err
	}

	var sc *schema.Schema
	if headerAddr.IsNull() {
		if !scanner.Scan() {
			return ErrEmptyCsv
		}
		columns, err := access.ReadColumns(strings.TrimRight(scanner.Text(), "\r"))
		if err != nil {
			return err
		}
		headerAddr, err = d.catalog.CreateTable(name, columns)
		if err != nil {
			return err
		}
		sc = schema.NewSchema(columns)
	} else {
		metadata, err := d.catalog.GetTableMetadata(name)
		if err != nil {
			return err
		}
		sc = metadata.Schema()
		scanner.Scan() // the stored schema wins; skip the file's schema line
	}

	// the header stays pinned for the whole load
	if err := d.bufferManager.Pin(headerAddr); err != nil {
		return err
	}
	defer d.bufferManager.Unpin(headerAddr)

	heap := access.NewTableHeap(d.bufferManager, headerAddr, sc)
	record := make([]byte, sc.Length())
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if err := access.EncodeRecord(line, sc, record); err != nil {
			return err
		}
		if err := heap.InsertRecord(record); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// printRecord emits one record: column values in schema order with
// '#' between them, then a newline.
func printRecord(w io.Writer, record []byte, sc *schema.Schema) {
	for idx, col := range sc.GetColumns() {
		if idx > 0 {
			fmt.Fprint(w, "#")
		}
		value := types.NewValueFromBytes(record[col.GetOffset():], col.GetType())
		fmt.Fprint(w, value.String())
	}
	fmt.Fprintln(w)
}

// SelectAll prints every live record of the table in slot order.
func (d *DiscoBD) SelectAll(w io.Writer, name string) error {
	metadata, err := d.catalog.GetTableMetadata(name)
	if err != nil {
		return err
	}
	if err := d.bufferManager.Pin(metadata.Header()); err != nil {
		return err
	}
	defer d.bufferManager.Unpin(metadata.Header())

	heap := access.NewTableHeap(d.bufferManager, metadata.Header(), metadata.Schema())
	return heap.VisitRecords(buffer.ReadMode, func(record []byte, recordIdx int32, sector *access.SectorGuard) error {
		if !sector.LiveBit(recordIdx) {
			return nil
		}
		printRecord(w, record, metadata.Schema())
		return nil
	})
}

// evaluatePredicate runs the parsed predicate over one record and
// insists on a boolean result.
func evaluatePredicate(tree expression.Expression, record []byte, sc *schema.Schema) (bool, error) {
	value, err := tree.Evaluate(record, sc)
	if err != nil {
		return false, err
	}
	if value.ValueType() != types.Bool {
		return false, ErrNotBoolean
	}
	return value.ToBoolean(), nil
}

// SelectAllWhere prints the live records for which the predicate
// evaluates to true.
func (d *DiscoBD) SelectAllWhere(w io.Writer, name string, expr string) error {
	metadata, err := d.catalog.GetTableMetadata(name)
	if err != nil {
		return err
	}
	tree, err := expression.ParseExpression(expr, metadata.Schema())
	if err != nil {
		return err
	}
	if err := d.bufferManager.Pin(metadata.Header()); err != nil {
		return err
	}
	defer d.bufferManager.Unpin(metadata.Header())

	heap := access.NewTableHeap(d.bufferManager, metadata.Header(), metadata.Schema())
	return heap.VisitRecords(buffer.ReadMode, func(record []byte, recordIdx int32, sector *access.SectorGuard) error {
		if !sector.LiveBit(recordIdx) {
			return nil
		}
		selected, err := evaluatePredicate(tree, record, metadata.Schema())
		if err != nil {
			return err
		}
		if selected {
			printRecord(w, record, metadata.Schema())
		}
		return nil
	})
}

// DeleteWhere prints each matching live record and clears its live
// bit. Record counts never decrease; the slot stays a tombstone.
func (d *DiscoBD) DeleteWhere(w io.Writer, name string, expr string) error {
	metadata, err := d.catalog.GetTableMetadata(name)
	if err != nil {
		return err
	}
	tree, err := expression.ParseExpression(expr, metadata.Schema())
	if err != nil {
		return err
	}
	if err := d.bufferManager.Pin(metadata.Header()); err != nil {
		return err
	}
	defer d.bufferManager.Unpin(metadata.Header())

	heap := access.NewTableHeap(d.bufferManager, metadata.Header(), metadata.Schema())
	return heap.VisitRecords(buffer.WriteMode, func(record []byte, recordIdx int32, sector *access.SectorGuard) error {
		if !sector.LiveBit(recordIdx) {
			return nil
		}
		selected, err := evaluatePredicate(tree, record, metadata.Schema())
		if err != nil {
			return err
		}
		if selected {
			printRecord(w, record, metadata.Schema())
			sector.ClearLiveBit(recordIdx)
		}
		return nil
	})
}

// DiskInfo reports the total capacity, lists every free sector and
// sums up free and used space. A sector is free iff its first four
// bytes are zero.
func (d *DiscoBD) DiskInfo(w io.Writer) error {
	g := d.Geometry()
	totalSectors := g.TotalSectors()
	fmt.Fprintf(w, "Total disk capacity: %d bytes\n", g.TotalBytes())

	freeSectors := mapset.NewSet[types.SectorAddress]()
	fmt.Fprintf(w, "Available sectors:\n")
	for addr := types.SectorAddress(0); int32(addr) < totalSectors; addr++ {
		data, err := d.bufferManager.LoadSector(addr, buffer.ReadMode)
		if err != nil {
			return err
		}
		if types.NewSectorAddressFromBytes(data) == 0 {
			freeSectors.Add(addr)
			fmt.Fprintf(w, "%s\n", d.diskManager.SectorPath(addr))
		}
	}

	free := int32(freeSectors.Cardinality())
	fmt.Fprintf(w, "In total there are %d available sectors\n", free)
	fmt.Fprintf(w, "In total there are %d occupied sectors\n", totalSectors-free)
	freeBytes := int64(free) * int64(g.Bytes)
	fmt.Fprintf(w, "The disk has %d bytes available\n", freeBytes)
	fmt.Fprintf(w, "The disk has %d bytes occupied\n", g.TotalBytes()-freeBytes)
	return nil
}
