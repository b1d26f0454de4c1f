// this code is based on https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package types

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
)

// A Value is a run-time typed view over one field of a record. All
// values have a type, comparison functions and arithmetic where the
// type combination defines it. The caller is responsible for only
// combining matching types; the expression evaluator checks operand
// types before dispatching here.
type Value struct {
	valueType TypeID
	integer   *int64
	float     *float64
	boolean   *bool
	str       *string
}

func NewInteger(value int64) Value {
	return Value{Int, &value, nil, nil, nil}
}

func NewFloat(value float64) Value {
	return Value{Float, nil, &value, nil, nil}
}

func NewBoolean(value bool) Value {
	return Value{Bool, nil, nil, &value, nil}
}

func NewString(value string) Value {
	return Value{String, nil, nil, nil, &value}
}

// NewValueFromBytes decodes one field from its on-disk image. All
// integers are little-endian; a string field is the NUL-terminated
// prefix of its 64-byte slot.
func NewValueFromBytes(data []byte, valueType TypeID) *Value {
	switch valueType {
	case Int:
		v := int64(binary.LittleEndian.Uint64(data))
		vInteger := NewInteger(v)
		return &vInteger
	case Float:
		v := math.Float64frombits(binary.LittleEndian.Uint64(data))
		vFloat := NewFloat(v)
		return &vFloat
	case Bool:
		vBoolean := NewBoolean(data[0] != 0)
		return &vBoolean
	case String:
		slot := data[:String.Size()]
		end := bytes.IndexByte(slot, 0)
		if end == -1 {
			end = len(slot)
		}
		vString := NewString(string(slot[:end]))
		return &vString
	}
	panic("illegal valueType is passed")
}

// SerializeTo writes the field's on-disk image into buf, which must
// be at least v.ValueType().Size() bytes. String slots are
// right-padded with NUL, over-long strings truncated.
func (v Value) SerializeTo(buf []byte) {
	switch v.valueType {
	case Int:
		binary.LittleEndian.PutUint64(buf, uint64(*v.integer))
	case Float:
		binary.LittleEndian.PutUint64(buf, math.Float64bits(*v.float))
	case Bool:
		if *v.boolean {
			buf[0] = 1
		} else {
			buf[0] = 0
		}
	case String:
		slot := buf[:String.Size()]
		n := copy(slot, *v.str)
		for i := n; i < len(slot); i++ {
			slot[i] = 0
		}
	}
}

func (v Value) ValueType() TypeID {
	return v.valueType
}

func (v Value) ToInteger() int64 {
	return *v.integer
}

func (v Value) ToFloat() float64 {
	return *v.float
}

func (v Value) ToBoolean() bool {
	return *v.boolean
}

func (v Value) ToString() string {
	return *v.str
}

// String returns the textual form used when printing records:
// booleans print as 0/1, numbers in the host's default formatting,
// strings as their NUL-terminated prefix.
func (v Value) String() string {
	switch v.valueType {
	case Int:
		return strconv.FormatInt(*v.integer, 10)
	case Float:
		return strconv.FormatFloat(*v.float, 'g', -1, 64)
	case Bool:
		if *v.boolean {
			return "1"
		}
		return "0"
	case String:
		return *v.str
	}
	return "INVALID"
}

func (v Value) CompareEquals(right Value) bool {
	switch v.valueType {
	case Int:
		return *v.integer == *right.integer
	case Float:
		return *v.float == *right.float
	case Bool:
		return *v.boolean == *right.boolean
	case String:
		return *v.str == *right.str
	}
	return false
}

func (v Value) CompareNotEquals(right Value) bool {
	return !v.CompareEquals(right)
}

func (v Value) CompareGreaterThan(right Value) bool {
	switch v.valueType {
	case Int:
		return *v.integer > *right.integer
	case Float:
		return *v.float > *right.float
	case String:
		return *v.str > *right.str
	}
	return false
}

func (v Value) CompareGreaterThanOrEqual(right Value) bool {
	switch v.valueType {
	case Int:
		return *v.integer >= *right.integer
	case Float:
		return *v.float >= *right.float
	case String:
		return *v.str >= *right.str
	}
	return false
}

func (v Value) CompareLessThan(right Value) bool {
	switch v.valueType {
	case Int:
		return *v.integer < *right.integer
	case Float:
		return *v.float < *right.float
	case String:
		return *v.str < *right.str
	}
	return false
}

func (v Value) CompareLessThanOrEqual(right Value) bool {
	switch v.valueType {
	case Int:
		return *v.integer <= *right.integer
	case Float:
		return *v.float <= *right.float
	case String:
		return *v.str <= *right.str
	}
	return false
}

func (v Value) Add(right Value) Value {
	switch v.valueType {
	case Int:
		return NewInteger(*v.integer + *right.integer)
	case Float:
		return NewFloat(*v.float + *right.float)
	}
	panic("Add on non numeric Value")
}

func (v Value) Subtract(right Value) Value {
	switch v.valueType {
	case Int:
		return NewInteger(*v.integer - *right.integer)
	case Float:
		return NewFloat(*v.float - *right.float)
	}
	panic("Subtract on non numeric Value")
}

func (v Value) Multiply(right Value) Value {
	switch v.valueType {
	case Int:
		return NewInteger(*v.integer * *right.integer)
	case Float:
		return NewFloat(*v.float * *right.float)
	}
	panic("Multiply on non numeric Value")
}

func (v Value) Divide(right Value) Value {
	switch v.valueType {
	case Int:
		return NewInteger(*v.integer / *right.integer)
	case Float:
		return NewFloat(*v.float / *right.float)
	}
	panic("Divide on non numeric Value")
}

func (v Value) Modulo(right Value) Value {
	switch v.valueType {
	case Int:
		return NewInteger(*v.integer % *right.integer)
	}
	panic("Modulo on non Int Value")
}

// IsZero reports whether a numeric value is zero. Used to guard
// Divide and Modulo.
func (v Value) IsZero() bool {
	switch v.valueType {
	case Int:
		return *v.integer == 0
	case Float:
		return *v.float == 0
	}
	return false
}