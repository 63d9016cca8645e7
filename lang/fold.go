package lang

// fold converts the flat sequence operands[0] ops[0] operands[1] ... into a
// left-leaning tree: ((o1 op1 o2) op2 o3) ... The right child of every
// BinaryOp is always one of the original operands. With no operators the
// single operand is returned unchanged.
func fold(operands []Node, ops []Operator) Node {
	if len(operands) == 0 {
		return nil
	}

	acc := operands[0]

	for i, op := range ops {
		if i+1 >= len(operands) {
			break
		}

		acc = BinaryOp{Operator: op, Left: acc, Right: operands[i+1]}
	}

	return acc
}
