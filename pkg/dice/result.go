package dice

import (
	"strconv"
	"strings"
)

// Part is the outcome of one term.
type Part struct {
	Term  Term
	Rolls []int
	Kept  []bool
}

// Result is a rolled expression.
type Result struct {
	Expression string
	Parts      []Part
	Total      int
}

// String renders the result with dropped dice in parentheses:
//
//	2d20 K1 = [17, (3)] = 17
func (r *Result) String() string {
	var sb strings.Builder
	sb.WriteString(r.Expression)
	sb.WriteString(" =")
	for i, p := range r.Parts {
		switch {
		case p.Term.Sign < 0:
			sb.WriteString(" - ")
		case i > 0:
			sb.WriteString(" + ")
		default:
			sb.WriteString(" ")
		}
		if !p.Term.IsRoll() {
			sb.WriteString(strconv.Itoa(p.Term.Const))
			continue
		}
		sb.WriteString("[")
		for j, v := range p.Rolls {
			if j > 0 {
				sb.WriteString(", ")
			}
			if p.Kept[j] {
				sb.WriteString(strconv.Itoa(v))
			} else {
				sb.WriteString("(" + strconv.Itoa(v) + ")")
			}
		}
		sb.WriteString("]")
	}
	sb.WriteString(" = ")
	sb.WriteString(strconv.Itoa(r.Total))
	return sb.String()
}
