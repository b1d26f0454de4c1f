package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/All23tor/DiscoBD/common"
	"github.com/All23tor/DiscoBD/discobd"
	"github.com/All23tor/DiscoBD/discobd/discobd_util"
	"github.com/All23tor/DiscoBD/storage/buffer"
	"github.com/All23tor/DiscoBD/storage/disk"
	"github.com/All23tor/DiscoBD/types"
)

func promptInt(stdin *bufio.Scanner, label string) (int32, bool) {
	fmt.Printf("%s: ", label)
	if !stdin.Scan() {
		return 0, false
	}
	val, err := strconv.ParseInt(strings.TrimSpace(stdin.Text()), 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(val), true
}

// promptGeometry asks for the five geometry values on first run.
func promptGeometry(stdin *bufio.Scanner) (*disk.DiskGeometry, bool) {
	geometry := &disk.DiskGeometry{}
	fields := []struct {
		label string
		dest  *int32
	}{
		{"Number of plates", &geometry.Plates},
		{"Number of tracks per surface", &geometry.Tracks},
		{"Number of sectors per track", &geometry.Sectors},
		{"Number of bytes per sector", &geometry.Bytes},
		{"Number of sectors per block", &geometry.BlockSize},
	}
	for _, field := range fields {
		val, ok := promptInt(stdin, field.label)
		if !ok {
			return nil, false
		}
		*field.dest = val
	}
	if err := geometry.Validate(); err != nil {
		return nil, false
	}
	return geometry, true
}

// pageAddress turns a REPL page index into its first sector address.
func pageAddress(words []string, blockSize int32) (types.SectorAddress, bool) {
	if len(words) < 2 {
		return 0, false
	}
	pageIdx, err := strconv.ParseInt(words[1], 10, 32)
	if err != nil {
		return 0, false
	}
	return types.PageID(pageIdx).FirstSector(blockSize), true
}

func handleInputs(db *discobd.DiscoBD, stdin *bufio.Scanner) {
	g := db.Geometry()
	fmt.Println("Disk information:")
	fmt.Printf("Number of plates: %d\n", g.Plates)
	fmt.Printf("Number of tracks per surface: %d\n", g.Tracks)
	fmt.Printf("Number of sectors per track: %d\n", g.Sectors)
	fmt.Printf("Number of bytes per sector: %d\n", g.Bytes)
	fmt.Printf("Number of sectors per block: %d\n\n", g.BlockSize)

	for {
		fmt.Print("  > ")
		if !stdin.Scan() {
			break
		}
		line := stdin.Text()
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		switch words[0] {
		case "LOAD":
			if len(words) < 2 {
				continue
			}
			name := words[1]
			if err := db.LoadCSV(name); err != nil {
				fmt.Fprintln(os.Stderr, err)
			} else {
				fmt.Printf("\tTable %s loaded successfully\n", name)
			}
		case "SELECT":
			if len(words) < 4 || words[1] != "*" || words[2] != "FROM" {
				continue
			}
			tableName := words[3]
			var err error
			if len(words) > 4 && words[4] == "WHERE" {
				clause := line[strings.Index(line, "WHERE")+len("WHERE"):]
				err = db.SelectAllWhere(os.Stdout, tableName, clause)
			} else {
				err = db.SelectAll(os.Stdout, tableName)
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case "DELETE":
			if len(words) < 5 || words[1] != "FROM" || words[3] != "WHERE" {
				continue
			}
			clause := line[strings.Index(line, "WHERE")+len("WHERE"):]
			if err := db.DeleteWhere(os.Stdout, words[2], clause); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case "BUFFER":
			db.BufferManager().Print(os.Stdout)
		case "REQUEST":
			addr, ok := pageAddress(words, g.BlockSize)
			if !ok || len(words) < 3 {
				continue
			}
			mode := buffer.ReadMode
			if words[2] == "W" {
				mode = buffer.WriteMode
			}
			if _, err := db.BufferManager().LoadSector(addr, mode); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case "PIN":
			if addr, ok := pageAddress(words, g.BlockSize); ok {
				if err := db.BufferManager().Pin(addr); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
			}
		case "UNPIN":
			if addr, ok := pageAddress(words, g.BlockSize); ok {
				db.BufferManager().Unpin(addr)
			}
		case "INFO":
			if err := db.DiskInfo(os.Stdout); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
	}
	fmt.Println()
}

func main() {
	stdin := bufio.NewScanner(os.Stdin)

	if !discobd_util.FileExists(common.DiskRootDirName) {
		fmt.Print("The disk does not exist yet, it will be created now\n\n")
		geometry, ok := promptGeometry(stdin)
		if !ok {
			fmt.Fprintln(os.Stderr, "invalid disk geometry")
			os.Exit(1)
		}
		if err := disk.CreateDisk(common.DiskRootDirName, geometry, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	db, err := discobd.OpenDiscoBD(common.DiskRootDirName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	handleInputs(db, stdin)

	if err := db.Shutdown(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
