package construct

import (
	"fmt"

	"rvsdgc/internal/errors"
	"rvsdgc/internal/rvsdg"
	"rvsdgc/internal/types"
)

// buildOperation maps a TAC opcode string (the toy textual frontend's
// vocabulary — see internal/frontend) to the rvsdg Operation it
// constructs, given already-resolved operand types. "assign", "const" and
// "match" are handled by the caller (buildBlock in builder.go) and never
// reach here.
func buildOperation(op string, operandTypes []types.Type) (rvsdg.Operation, error) {
	bitsFrom := func(i int) *types.BitStringType {
		bt, _ := operandTypes[i].(*types.BitStringType)
		return bt
	}
	switch op {
	case "add":
		return rvsdg.NewBitBinaryOp(rvsdg.BitAdd, bitsFrom(0)), nil
	case "sub":
		return rvsdg.NewBitBinaryOp(rvsdg.BitSub, bitsFrom(0)), nil
	case "mul":
		return rvsdg.NewBitBinaryOp(rvsdg.BitMul, bitsFrom(0)), nil
	case "and":
		return rvsdg.NewBitBinaryOp(rvsdg.BitAnd, bitsFrom(0)), nil
	case "or":
		return rvsdg.NewBitBinaryOp(rvsdg.BitOr, bitsFrom(0)), nil
	case "xor":
		return rvsdg.NewBitBinaryOp(rvsdg.BitXor, bitsFrom(0)), nil
	case "eq":
		return rvsdg.NewBitCompareOp(rvsdg.PredEQ, bitsFrom(0)), nil
	case "slt":
		return rvsdg.NewBitCompareOp(rvsdg.PredSLT, bitsFrom(0)), nil
	default:
		return nil, errors.NewUnsupportedConstruct(errors.CodeUnsupportedOperation,
			fmt.Sprintf("unsupported TAC operation %q", op), errors.Position{})
	}
}
