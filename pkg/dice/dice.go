// Package dice parses and rolls dice expressions such as "3d6 + 5",
// "2d20 K1" (keep the highest die) and "2d20 k1" (keep the lowest die).
package dice

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	MaxDice  = 1000
	MaxSides = 1_000_000
	MaxConst = 1_000_000
)

var (
	ErrSyntax      = errors.New("invalid dice expression")
	ErrNoDice      = errors.New("dice count must be at least 1")
	ErrTooManyDice = fmt.Errorf("dice count must be at most %d", MaxDice)
	ErrBadSides    = fmt.Errorf("dice sides must be between 1 and %d", MaxSides)
	ErrBadKeep     = errors.New("keep count must be between 1 and the dice count")
)

// Term is one signed operand of an expression: either a constant or a dice roll.
type Term struct {
	Sign        int // +1 or -1
	Const       int
	Count       int
	Sides       int
	Keep        int // 0 keeps every die
	KeepHighest bool
}

// IsRoll reports whether the term rolls dice.
func (t Term) IsRoll() bool {
	return t.Sides != 0 || t.Count != 0
}

// Expression is a parsed dice expression, ready to roll.
type Expression struct {
	Source string
	Terms  []Term
}

// Parse checks the syntax of expr and builds an Expression. Whether the dice
// can actually be rolled (sides, counts, keep clauses) is checked by Roll.
func Parse(expr string) (*Expression, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	ast, err := parser.ParseString("", expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if ast.Head == nil {
		return nil, fmt.Errorf("%w: missing operand", ErrSyntax)
	}

	head, err := buildTerm(1, ast.Head)
	if err != nil {
		return nil, err
	}
	e := &Expression{Source: strings.TrimSpace(expr), Terms: []Term{head}}
	for _, op := range ast.Tail {
		sign := 1
		if op.Op == "-" {
			sign = -1
		}
		t, err := buildTerm(sign, op.Operand)
		if err != nil {
			return nil, err
		}
		e.Terms = append(e.Terms, t)
	}
	return e, nil
}

func buildTerm(sign int, o *operand) (Term, error) {
	if o.Const != nil {
		n, err := strconv.Atoi(*o.Const)
		if err != nil {
			return Term{}, fmt.Errorf("%w: constant %q: %v", ErrSyntax, *o.Const, err)
		}
		if n > MaxConst {
			return Term{}, fmt.Errorf("%w: constant %d is larger than %d", ErrSyntax, n, MaxConst)
		}
		return Term{Sign: sign, Const: n}, nil
	}

	count, sides, _ := strings.Cut(strings.ToLower(o.Roll.Dice), "d")
	t := Term{Sign: sign, Count: 1}
	var err error
	if count != "" {
		if t.Count, err = strconv.Atoi(count); err != nil {
			return Term{}, fmt.Errorf("%w: dice count %q: %v", ErrSyntax, count, err)
		}
	}
	if t.Sides, err = strconv.Atoi(sides); err != nil {
		return Term{}, fmt.Errorf("%w: dice sides %q: %v", ErrSyntax, sides, err)
	}

	if o.Roll.Keep != nil {
		k := *o.Roll.Keep
		// K keeps the highest, k the lowest, unless h/l says otherwise.
		t.KeepHighest = k[0] == 'K'
		k = k[1:]
		switch k[0] {
		case 'h', 'H':
			t.KeepHighest = true
			k = k[1:]
		case 'l', 'L':
			t.KeepHighest = false
			k = k[1:]
		}
		if t.Keep, err = strconv.Atoi(k); err != nil {
			return Term{}, fmt.Errorf("%w: keep count %q: %v", ErrSyntax, k, err)
		}
	}
	return t, nil
}

func (t Term) validate() error {
	switch {
	case t.Count < 1:
		return ErrNoDice
	case t.Count > MaxDice:
		return ErrTooManyDice
	case t.Sides < 1 || t.Sides > MaxSides:
		return ErrBadSides
	case t.Keep < 0 || t.Keep > t.Count:
		return ErrBadKeep
	}
	return nil
}

// Roller rolls expressions. It is not safe for concurrent use when built
// with a seeded *rand.Rand.
type Roller struct {
	die func(sides int) int
}

// NewRoller returns a Roller drawing from rng, or from the global
// math/rand/v2 source when rng is nil.
func NewRoller(rng *rand.Rand) *Roller {
	if rng == nil {
		return &Roller{die: func(sides int) int { return rand.IntN(sides) + 1 }}
	}
	return &Roller{die: func(sides int) int { return rng.IntN(sides) + 1 }}
}

// Evaluate parses and rolls expr, returning the formatted result.
func (r *Roller) Evaluate(expr string) (string, error) {
	e, err := Parse(expr)
	if err != nil {
		return "", err
	}
	res, err := r.Roll(e)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

// Roll rolls every term of e.
func (r *Roller) Roll(e *Expression) (*Result, error) {
	res := &Result{Expression: e.Source}
	for _, t := range e.Terms {
		if !t.IsRoll() {
			res.Parts = append(res.Parts, Part{Term: t})
			res.Total += t.Sign * t.Const
			continue
		}
		if err := t.validate(); err != nil {
			return nil, fmt.Errorf("roll %dd%d: %w", t.Count, t.Sides, err)
		}
		p := Part{Term: t, Rolls: make([]int, t.Count)}
		for i := range p.Rolls {
			p.Rolls[i] = r.die(t.Sides)
		}
		p.Kept = keep(p.Rolls, t.Keep, t.KeepHighest)
		for i, v := range p.Rolls {
			if p.Kept[i] {
				res.Total += t.Sign * v
			}
		}
		res.Parts = append(res.Parts, p)
	}
	return res, nil
}

// keep marks which rolls count toward the total. Ties go to the earlier die.
func keep(rolls []int, n int, highest bool) []bool {
	kept := make([]bool, len(rolls))
	if n == 0 || n >= len(rolls) {
		for i := range kept {
			kept[i] = true
		}
		return kept
	}
	for range n {
		best := -1
		for i, v := range rolls {
			if kept[i] {
				continue
			}
			if best < 0 || (highest && v > rolls[best]) || (!highest && v < rolls[best]) {
				best = i
			}
		}
		kept[best] = true
	}
	return kept
}
