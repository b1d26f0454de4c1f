package expression

import (
	"github.com/All23tor/DiscoBD/errors"
	"github.com/All23tor/DiscoBD/storage/table/schema"
	"github.com/All23tor/DiscoBD/types"
)

const ErrBadOperands = errors.Error("invalid operands")
const ErrDivisionByZero = errors.Error("division by zero")

// Expression is the base of all nodes of a parsed WHERE predicate.
// Evaluation needs a context: one record's byte image and the
// table's schema.
type Expression interface {
	Evaluate(record []byte, sc *schema.Schema) (types.Value, error)
}

// ConstantValue is a literal operand.
type ConstantValue struct {
	value types.Value
}

func NewConstantValue(value types.Value) Expression {
	return &ConstantValue{value}
}

func (c *ConstantValue) Evaluate(record []byte, sc *schema.Schema) (types.Value, error) {
	return c.value, nil
}

// ColumnValue reads one field out of the record, typed by the
// schema's column.
type ColumnValue struct {
	colIndex uint32
}

func NewColumnValue(colIndex uint32) Expression {
	return &ColumnValue{colIndex}
}

func (c *ColumnValue) Evaluate(record []byte, sc *schema.Schema) (types.Value, error) {
	col := sc.GetColumn(c.colIndex)
	return *types.NewValueFromBytes(record[col.GetOffset():], col.GetType()), nil
}
