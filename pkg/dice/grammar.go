package dice

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Rules are tried in order, so Dice must come before Int.
var diceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Dice", Pattern: `\d*[dD]\d+`},
	{Name: "Keep", Pattern: `[Kk][HhLl]?\d+`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Op", Pattern: `[-+]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// expression is a sum of operands: 3d6 + 5 - 1d4
type expression struct {
	Head *operand     `parser:"@@"`
	Tail []*operation `parser:"@@*"`
}

type operation struct {
	Op      string   `parser:"@Op"`
	Operand *operand `parser:"@@"`
}

type operand struct {
	Roll  *rollTerm `parser:"  @@"`
	Const *string   `parser:"| @Int"`
}

// rollTerm is NdS with an optional keep clause: 2d20 K1, 4d6kh3
type rollTerm struct {
	Dice string  `parser:"@Dice"`
	Keep *string `parser:"@Keep?"`
}

var parser = participle.MustBuild[expression](
	participle.Lexer(diceLexer),
	participle.Elide("Whitespace"),
)
