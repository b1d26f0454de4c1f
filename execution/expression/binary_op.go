package expression

import (
	"github.com/All23tor/DiscoBD/storage/table/schema"
	"github.com/All23tor/DiscoBD/types"
)

type OperationType int

// Operation kinds, one per operator glyph of the predicate grammar.
const (
	LogicalOr OperationType = iota
	LogicalAnd
	GreaterThanOrEqual
	LessThanOrEqual
	GreaterThan
	LessThan
	Equal
	NotEqual
	Add
	Subtract
	Multiply
	Divide
	Modulo
)

// BinaryOp applies an operator to its two evaluated operands,
// dispatching on their run-time types. Combinations without a
// definition fail with ErrBadOperands.
type BinaryOp struct {
	opType OperationType
	left   Expression
	right  Expression
}

func NewBinaryOp(opType OperationType, left Expression, right Expression) Expression {
	return &BinaryOp{opType, left, right}
}

func (b *BinaryOp) Evaluate(record []byte, sc *schema.Schema) (types.Value, error) {
	lhs, err := b.left.Evaluate(record, sc)
	if err != nil {
		return types.Value{}, err
	}
	rhs, err := b.right.Evaluate(record, sc)
	if err != nil {
		return types.Value{}, err
	}
	return performOperation(b.opType, lhs, rhs)
}

func isNumeric(t types.TypeID) bool {
	return t == types.Int || t == types.Float
}

func boolAsInteger(v types.Value) types.Value {
	if v.ToBoolean() {
		return types.NewInteger(1)
	}
	return types.NewInteger(0)
}

func performOperation(opType OperationType, lhs types.Value, rhs types.Value) (types.Value, error) {
	lt, rt := lhs.ValueType(), rhs.ValueType()

	switch opType {
	case LogicalOr, LogicalAnd:
		if lt != types.Bool || rt != types.Bool {
			return types.Value{}, ErrBadOperands
		}
		if opType == LogicalAnd {
			return types.NewBoolean(lhs.ToBoolean() && rhs.ToBoolean()), nil
		}
		return types.NewBoolean(lhs.ToBoolean() || rhs.ToBoolean()), nil

	case Equal, NotEqual:
		// booleans are stored as 0/1 and predicates compare them
		// against integer literals (alive==1); equality coerces the
		// boolean side
		if lt == types.Bool && rt == types.Int {
			lhs, lt = boolAsInteger(lhs), types.Int
		} else if lt == types.Int && rt == types.Bool {
			rhs, rt = boolAsInteger(rhs), types.Int
		}
		if lt != rt {
			return types.Value{}, ErrBadOperands
		}
		if opType == Equal {
			return types.NewBoolean(lhs.CompareEquals(rhs)), nil
		}
		return types.NewBoolean(lhs.CompareNotEquals(rhs)), nil

	case GreaterThanOrEqual, LessThanOrEqual, GreaterThan, LessThan:
		// ordered comparison needs a matching numeric pair or two
		// strings (compared as NUL-terminated values)
		if lt != rt || lt == types.Bool {
			return types.Value{}, ErrBadOperands
		}
		switch opType {
		case GreaterThanOrEqual:
			return types.NewBoolean(lhs.CompareGreaterThanOrEqual(rhs)), nil
		case LessThanOrEqual:
			return types.NewBoolean(lhs.CompareLessThanOrEqual(rhs)), nil
		case GreaterThan:
			return types.NewBoolean(lhs.CompareGreaterThan(rhs)), nil
		default:
			return types.NewBoolean(lhs.CompareLessThan(rhs)), nil
		}

	case Add, Subtract, Multiply, Divide:
		if lt != rt || !isNumeric(lt) {
			return types.Value{}, ErrBadOperands
		}
		switch opType {
		case Add:
			return lhs.Add(rhs), nil
		case Subtract:
			return lhs.Subtract(rhs), nil
		case Multiply:
			return lhs.Multiply(rhs), nil
		default:
			if rhs.IsZero() {
				return types.Value{}, ErrDivisionByZero
			}
			return lhs.Divide(rhs), nil
		}

	case Modulo:
		if lt != types.Int || rt != types.Int {
			return types.Value{}, ErrBadOperands
		}
		if rhs.IsZero() {
			return types.Value{}, ErrDivisionByZero
		}
		return lhs.Modulo(rhs), nil
	}
	return types.Value{}, ErrBadOperands
}
