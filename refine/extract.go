package refine

import (
	"math/big"

	"github.com/emberlang/ember/ast"
)

// Extract converts a source predicate expression into a symbolic Pred,
// per spec.md §4.4. Shapes the extractor does not recognize (lambdas,
// match expressions, etc., which cannot appear in a well-formed
// refinement predicate but might reach here from malformed input) become
// Unknown, so the solver always has something to leave "open" rather than
// panicking (spec.md §7: "never aborts a pass").
func Extract(e ast.Expr) Pred {
	switch e := e.(type) {
	case nil:
		return Unknown
	case *ast.LiteralExpr:
		return extractLiteral(e)
	case *ast.IdentExpr:
		return Var{Name: e.Name}
	case *ast.FieldExpr:
		return Field{Receiver: Extract(e.Receiver), Name: e.Field}
	case *ast.UnaryExpr:
		if e.Op == ast.UnaryNot {
			return Not{Operand: Extract(e.Operand)}
		}
		// unary negation of an arithmetic term: -x is 0 - x
		return Arith{Op: ArithSub, Left: IntLit{Value: new(big.Int)}, Right: Extract(e.Operand)}
	case *ast.BinaryExpr:
		return extractBinary(e)
	case *ast.CallExpr:
		return extractCall(e)
	default:
		return Unknown
	}
}

func extractLiteral(e *ast.LiteralExpr) Pred {
	switch e.Kind {
	case ast.LitInt:
		return IntLit{Value: e.Int}
	case ast.LitBool:
		if e.Bool {
			return True
		}
		return False
	case ast.LitString:
		return StringLit{Value: e.String}
	default:
		return Unknown
	}
}

func extractBinary(e *ast.BinaryExpr) Pred {
	left, right := Extract(e.Left), Extract(e.Right)
	switch e.Op {
	case ast.BinAnd:
		return And{Left: left, Right: right}
	case ast.BinOr:
		return Or{Left: left, Right: right}
	case ast.BinEq:
		return Cmp{Op: CmpEq, Left: left, Right: right}
	case ast.BinNeq:
		return Cmp{Op: CmpNeq, Left: left, Right: right}
	case ast.BinLt:
		return Cmp{Op: CmpLt, Left: left, Right: right}
	case ast.BinLe:
		return Cmp{Op: CmpLe, Left: left, Right: right}
	case ast.BinGt:
		return Cmp{Op: CmpGt, Left: left, Right: right}
	case ast.BinGe:
		return Cmp{Op: CmpGe, Left: left, Right: right}
	case ast.BinAdd:
		return Arith{Op: ArithAdd, Left: left, Right: right}
	case ast.BinSub:
		return Arith{Op: ArithSub, Left: left, Right: right}
	case ast.BinMul:
		return Arith{Op: ArithMul, Left: left, Right: right}
	case ast.BinDiv:
		return Arith{Op: ArithDiv, Left: left, Right: right}
	case ast.BinMod:
		return Arith{Op: ArithMod, Left: left, Right: right}
	default:
		return Unknown
	}
}

func extractCall(e *ast.CallExpr) Pred {
	callee, ok := e.Callee.(*ast.IdentExpr)
	if !ok {
		return Unknown
	}
	args := make([]Pred, len(e.Args))
	for i, a := range e.Args {
		args[i] = Extract(a)
	}
	return Call{Name: callee.Name, Args: args}
}
