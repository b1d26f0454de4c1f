package expression

import (
	"math"
	"strconv"
	"strings"

	"github.com/All23tor/DiscoBD/errors"
	"github.com/All23tor/DiscoBD/storage/table/schema"
	"github.com/All23tor/DiscoBD/types"
	stack "github.com/golang-collections/collections/stack"
	pair "github.com/notEpsilon/go-pair"
)

const ErrUnbalancedParens = errors.Error("unbalanced parentheses")
const ErrEmptyExpression = errors.Error("empty expression")
const ErrBadLiteral = errors.Error("unknown identifier or malformed literal")

type operationInfo struct {
	glyph  string
	opType OperationType
}

// operations in fixed precedence order, lowest first. The first
// operator with a top-level occurrence becomes the root of the
// subtree, which is why comparisons bind looser than arithmetic
// here: predicates written against the original engine keep their
// meaning.
var operations = []operationInfo{
	{"||", LogicalOr},
	{"&&", LogicalAnd},
	{">=", GreaterThanOrEqual},
	{"<=", LessThanOrEqual},
	{">", GreaterThan},
	{"<", LessThan},
	{"==", Equal},
	{"!=", NotEqual},
	{"+", Add},
	{"-", Subtract},
	{"*", Multiply},
	{"/", Divide},
	{"%", Modulo},
}

// ParseExpression compiles a textual WHERE predicate against a
// table's schema. Spaces are insignificant and stripped up front.
func ParseExpression(expr string, sc *schema.Schema) (Expression, error) {
	stripped := strings.ReplaceAll(expr, " ", "")
	if err := checkParens(stripped); err != nil {
		return nil, err
	}
	return makeTree(stripped, sc)
}

func checkParens(expr string) error {
	opened := stack.New()
	for _, c := range expr {
		switch c {
		case '(':
			opened.Push(c)
		case ')':
			if opened.Len() == 0 {
				return ErrUnbalancedParens
			}
			opened.Pop()
		}
	}
	if opened.Len() != 0 {
		return ErrUnbalancedParens
	}
	return nil
}

// fullyWrapped reports whether the outermost '(' and ')' match each
// other, i.e. no proper prefix closes back to depth zero.
func fullyWrapped(expr string) bool {
	depth := 0
	for i := 0; i < len(expr)-1; i++ {
		switch expr[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 {
			return false
		}
	}
	return true
}

func isAlphanumeric(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// findTopLevel returns the leftmost occurrence of the operator at
// parenthesis depth zero, or -1. A '-' only counts when its left
// neighbour is alphanumeric; anything else makes it a sign, not an
// operator.
func findTopLevel(expr string, op operationInfo) int {
	depth := 0
	for i := 0; i+len(op.glyph) <= len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
			continue
		case ')':
			depth--
			continue
		}
		if depth != 0 {
			continue
		}
		if expr[i:i+len(op.glyph)] != op.glyph {
			continue
		}
		if op.glyph == "-" && (i == 0 || !isAlphanumeric(expr[i-1])) {
			continue
		}
		return i
	}
	return -1
}

// findLowest scans the operator table in precedence order and
// returns the split position and operation of the first operator
// with a top-level occurrence.
func findLowest(expr string) *pair.Pair[int, operationInfo] {
	for _, op := range operations {
		if pos := findTopLevel(expr, op); pos != -1 {
			return &pair.Pair[int, operationInfo]{First: pos, Second: op}
		}
	}
	return nil
}

func makeTree(expr string, sc *schema.Schema) (Expression, error) {
	for len(expr) >= 2 && expr[0] == '(' && expr[len(expr)-1] == ')' && fullyWrapped(expr) {
		expr = expr[1 : len(expr)-1]
	}
	if expr == "" {
		return nil, ErrEmptyExpression
	}

	split := findLowest(expr)
	if split == nil {
		return parseAtom(expr, sc)
	}

	left, err := makeTree(expr[:split.First], sc)
	if err != nil {
		return nil, err
	}
	right, err := makeTree(expr[split.First+len(split.Second.glyph):], sc)
	if err != nil {
		return nil, err
	}
	return NewBinaryOp(split.Second.opType, left, right), nil
}

// parseAtom classifies an operator-free expression: a column name,
// a boolean, a float (contains '.'), a quoted string, or an integer.
func parseAtom(expr string, sc *schema.Schema) (Expression, error) {
	if idx := sc.GetColIndex(expr); idx != math.MaxUint32 {
		return NewColumnValue(idx), nil
	}
	if expr == "true" {
		return NewConstantValue(types.NewBoolean(true)), nil
	}
	if expr == "false" {
		return NewConstantValue(types.NewBoolean(false)), nil
	}
	if strings.ContainsRune(expr, '.') {
		val, err := strconv.ParseFloat(expr, 64)
		if err != nil {
			return nil, ErrBadLiteral
		}
		return NewConstantValue(types.NewFloat(val)), nil
	}
	if expr[0] == '"' {
		if len(expr) < 2 || expr[len(expr)-1] != '"' {
			return nil, ErrBadLiteral
		}
		return NewConstantValue(types.NewString(expr[1 : len(expr)-1])), nil
	}
	val, err := strconv.ParseInt(expr, 10, 64)
	if err != nil {
		return nil, ErrBadLiteral
	}
	return NewConstantValue(types.NewInteger(val)), nil
}
