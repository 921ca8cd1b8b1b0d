package latex

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var mathLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Number", Pattern: `[0-9]*\.?[0-9]+`},
	{Name: "Frac", Pattern: `\\[dt]?frac\b`},
	{Name: "Sqrt", Pattern: `\\sqrt\b`},
	{Name: "Func", Pattern: `\\(?:arcsin|arccos|arctan|sinh|cosh|tanh|sin|cos|tan|sec|csc|cot|exp|ln|log)\b`},
	{Name: "LVert", Pattern: `\\lvert\b`},
	{Name: "RVert", Pattern: `\\rvert\b`},
	{Name: "Times", Pattern: `\\(?:cdot|times)\b`},
	{Name: "Command", Pattern: `\\[a-zA-Z]+`},
	{Name: "Ident", Pattern: `[a-zA-Z]`},
	{Name: "Punct", Pattern: `[-+*/^(){}\[\]]`},
})

var mathParser = participle.MustBuild[sumNode](
	participle.Lexer(mathLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// sum := term (("+" | "-") term)*
type sumNode struct {
	Head *termNode `@@`
	Tail []*opTerm `@@*`
}

type opTerm struct {
	Op   string    `@("+" | "-")`
	Term *termNode `@@`
}

// term := "-"? power (("*" | "/" | \cdot | \times)? power)*
//
// A missing operator is implicit multiplication, as in 2x or x\sin x.
type termNode struct {
	Neg  bool        `@"-"?`
	Head *powNode    `@@`
	Tail []*opFactor `@@*`
}

type opFactor struct {
	Op     string   `@("*" | "/" | Times)?`
	Factor *powNode `@@`
}

type powNode struct {
	Base *primary  `@@`
	Exp  *exponent `("^" @@)?`
}

type exponent struct {
	Group *sumNode    `  "{" @@ "}"`
	Atom  *signedAtom `| @@`
}

type signedAtom struct {
	Neg  bool     `@"-"?`
	Atom *primary `@@`
}

type primary struct {
	Number  *string   `  @Number`
	Frac    *fracNode `| @@`
	Sqrt    *sqrtNode `| @@`
	Call    *callNode `| @@`
	Abs     *sumNode  `| LVert @@ RVert`
	Command *string   `| @Command`
	Ident   *string   `| @Ident`
	Paren   *sumNode  `| "(" @@ ")"`
	Group   *sumNode  `| "{" @@ "}"`
}

type fracNode struct {
	Num *sumNode `Frac "{" @@ "}"`
	Den *sumNode `"{" @@ "}"`
}

type sqrtNode struct {
	Index *sumNode `Sqrt ("[" @@ "]")?`
	Arg   *sumNode `"{" @@ "}"`
}

// callNode covers \sin x, \sin(x), \sin^{2} x and \sin^{-1}(x).
type callNode struct {
	Name  string    `@Func`
	Power *exponent `("^" @@)?`
	Arg   *callArg  `@@`
}

type callArg struct {
	Paren *sumNode `  "(" @@ ")"`
	Group *sumNode `| "{" @@ "}"`
	Bare  *bareArg `| @@`
}

// bareArg is an unbracketed argument such as the 2x in \sin 2x. It runs
// until the next operator or function name, so \sin x \cos x is a product.
type bareArg struct {
	Factors []*bareFactor `@@+`
}

type bareFactor struct {
	Base *bareAtom `@@`
	Exp  *exponent `("^" @@)?`
}

type bareAtom struct {
	Number  *string   `  @Number`
	Frac    *fracNode `| @@`
	Sqrt    *sqrtNode `| @@`
	Command *string   `| @Command`
	Ident   *string   `| @Ident`
}
