package expression

import (
	"testing"

	"github.com/All23tor/DiscoBD/storage/access"
	"github.com/All23tor/DiscoBD/storage/table/column"
	"github.com/All23tor/DiscoBD/storage/table/schema"
	testingpkg "github.com/All23tor/DiscoBD/testing/testing_util"
	"github.com/All23tor/DiscoBD/types"
)

func testSchema() *schema.Schema {
	return schema.NewSchema([]*column.Column{
		column.NewColumn("name", types.String),
		column.NewColumn("age", types.Int),
		column.NewColumn("alive", types.Bool),
		column.NewColumn("score", types.Float),
	})
}

func testRecord(t *testing.T, sc *schema.Schema, line string) []byte {
	record := make([]byte, sc.Length())
	testingpkg.Ok(t, access.EncodeRecord(line, sc, record))
	return record
}

func evalOn(t *testing.T, expr string, line string) types.Value {
	sc := testSchema()
	tree, err := ParseExpression(expr, sc)
	testingpkg.Ok(t, err)
	value, err := tree.Evaluate(testRecord(t, sc, line), sc)
	testingpkg.Ok(t, err)
	return value
}

func TestArithmeticGroupsRightOfTheSplit(t *testing.T) {
	sc := testSchema()

	// a+b*c parses as (+ a (* b c)): the leftmost top-level + is the root
	tree, err := ParseExpression("age+2*3", sc)
	testingpkg.Ok(t, err)
	root, ok := tree.(*BinaryOp)
	testingpkg.Assert(t, ok, "root is not a binary op")
	testingpkg.Equals(t, Add, root.opType)
	_, ok = root.left.(*ColumnValue)
	testingpkg.Assert(t, ok, "left is not the column")
	right, ok := root.right.(*BinaryOp)
	testingpkg.Assert(t, ok, "right is not a binary op")
	testingpkg.Equals(t, Multiply, right.opType)
}

func TestParenthesesOverrideTheSplit(t *testing.T) {
	sc := testSchema()

	// (a+b)*c parses as (* (+ a b) c)
	tree, err := ParseExpression("(age+2)*3", sc)
	testingpkg.Ok(t, err)
	root, ok := tree.(*BinaryOp)
	testingpkg.Assert(t, ok, "root is not a binary op")
	testingpkg.Equals(t, Multiply, root.opType)
	left, ok := root.left.(*BinaryOp)
	testingpkg.Assert(t, ok, "left is not a binary op")
	testingpkg.Equals(t, Add, left.opType)
}

func TestUnaryMinusIsNotASplitPoint(t *testing.T) {
	sc := testSchema()

	tree, err := ParseExpression("-5", sc)
	testingpkg.Ok(t, err)
	constant, ok := tree.(*ConstantValue)
	testingpkg.Assert(t, ok, "-5 is not a literal")
	testingpkg.Equals(t, int64(-5), constant.value.ToInteger())

	tree, err = ParseExpression("age-5", sc)
	testingpkg.Ok(t, err)
	root, ok := tree.(*BinaryOp)
	testingpkg.Assert(t, ok, "age-5 is not a binary op")
	testingpkg.Equals(t, Subtract, root.opType)
}

func TestComparisonBindsLooserThanArithmetic(t *testing.T) {
	// age+10==40 groups as (age+10)==40 because == splits first
	testingpkg.Equals(t, true, evalOn(t, "age+10==40", "Ann,30,yes,1.5").ToBoolean())
	testingpkg.Equals(t, true, evalOn(t, "age>10+10", "Ann,30,yes,1.5").ToBoolean())
}

func TestPredicateEvaluation(t *testing.T) {
	line := "Ann,30,yes,1.5"
	testingpkg.Equals(t, false, evalOn(t, "age>30", line).ToBoolean())
	testingpkg.Equals(t, true, evalOn(t, "age>=30", line).ToBoolean())
	testingpkg.Equals(t, true, evalOn(t, "alive&&true", line).ToBoolean())
	testingpkg.Equals(t, false, evalOn(t, "alive&&false", line).ToBoolean())
	testingpkg.Equals(t, true, evalOn(t, `name=="Ann"`, line).ToBoolean())
	testingpkg.Equals(t, true, evalOn(t, `name<"Bob"`, line).ToBoolean())
	testingpkg.Equals(t, true, evalOn(t, "score==1.5", line).ToBoolean())
	testingpkg.Equals(t, true, evalOn(t, "age%7==2", line).ToBoolean())
	testingpkg.Equals(t, true, evalOn(t, "(age>40)||(score<2.0)", line).ToBoolean())
}

func TestBooleanEqualsIntegerLiteral(t *testing.T) {
	line := "Ann,30,yes,1.5"
	testingpkg.Equals(t, true, evalOn(t, "alive==1", line).ToBoolean())
	testingpkg.Equals(t, false, evalOn(t, "alive==0", line).ToBoolean())
	testingpkg.Equals(t, true, evalOn(t, "alive!=0", line).ToBoolean())
}

func TestSpacesAreInsignificant(t *testing.T) {
	testingpkg.Equals(t, true, evalOn(t, " age  >= 30 ", "Ann,30,yes,1.5").ToBoolean())
}

func TestRedundantParenthesesPeel(t *testing.T) {
	testingpkg.Equals(t, true, evalOn(t, "((age>=30))", "Ann,30,yes,1.5").ToBoolean())
}

func TestParseErrors(t *testing.T) {
	sc := testSchema()

	_, err := ParseExpression("(age>30", sc)
	testingpkg.Equals(t, error(ErrUnbalancedParens), err)

	_, err = ParseExpression("", sc)
	testingpkg.Equals(t, error(ErrEmptyExpression), err)

	_, err = ParseExpression("age>", sc)
	testingpkg.Equals(t, error(ErrEmptyExpression), err)

	_, err = ParseExpression("unknown>30", sc)
	testingpkg.Equals(t, error(ErrBadLiteral), err)
}

func TestEvaluationErrors(t *testing.T) {
	sc := testSchema()
	record := testRecord(t, sc, "Ann,30,yes,1.5")

	tree, err := ParseExpression("age&&true", sc)
	testingpkg.Ok(t, err)
	_, err = tree.Evaluate(record, sc)
	testingpkg.Equals(t, error(ErrBadOperands), err)

	tree, err = ParseExpression(`name>30`, sc)
	testingpkg.Ok(t, err)
	_, err = tree.Evaluate(record, sc)
	testingpkg.Equals(t, error(ErrBadOperands), err)

	tree, err = ParseExpression("age/0==1", sc)
	testingpkg.Ok(t, err)
	_, err = tree.Evaluate(record, sc)
	testingpkg.Equals(t, error(ErrDivisionByZero), err)
}
