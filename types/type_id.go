package types

import (
	"bytes"
	"encoding/binary"

	"github.com/All23tor/DiscoBD/errors"
)

type TypeID uint64

const (
	Int TypeID = iota
	Float
	Bool
	String
)

const ErrUnknownType = errors.Error("unknown column type")

// TypeIDSize is the on-disk size of a TypeID (a little-endian
// machine-word-sized unsigned integer).
const TypeIDSize = 8

// Size returns the fixed on-disk size of a field of this type.
func (t TypeID) Size() uint32 {
	switch t {
	case Int:
		return 8
	case Float:
		return 8
	case Bool:
		return 1
	case String:
		return 64
	}
	panic("unknown TypeID")
}

func (t TypeID) String() string {
	switch t {
	case Int:
		return "INT"
	case Float:
		return "FLOAT"
	case Bool:
		return "BOOL"
	case String:
		return "STRING"
	}
	return "INVALID"
}

// NewTypeIDFromString parses a schema token type name ("INT", "FLOAT",
// "BOOL", "STRING"). Surrounding whitespace is the caller's problem.
func NewTypeIDFromString(name string) (TypeID, error) {
	switch name {
	case "INT":
		return Int, nil
	case "FLOAT":
		return Float, nil
	case "BOOL":
		return Bool, nil
	case "STRING":
		return String, nil
	}
	return 0, ErrUnknownType
}

// Serialize casts it to []byte
func (t TypeID) Serialize() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, uint64(t))
	return buf.Bytes()
}

// NewTypeIDFromBytes creates a TypeID from []byte
func NewTypeIDFromBytes(data []byte) (ret TypeID) {
	var raw uint64
	binary.Read(bytes.NewBuffer(data), binary.LittleEndian, &raw)
	return TypeID(raw)
}
