package ast

import (
	"fmt"
	"strings"
)

// Print renders n back to canonical pattern text: parsing that text with
// token.Scan and Parse reproduces a structurally identical tree (modulo
// capture-group ids, which Resolve assigns and Print has no opinion
// about). Print is a type switch over Node, the same shape compile.go's
// compileNode uses to walk the tree — there is no separate Visitor
// interface here, just one function per variant.
//
// This is the printer's only real use today: proving the parser/scanner
// round-trip property. A future wire/serialization format would likely
// want it too, but none exists yet.
func Print(n Node) string {
	switch v := n.(type) {
	case *Expression:
		return printExpression(v)
	case *SubExpression:
		return printSubExpression(v)
	case *Group:
		return printGroup(v)
	case *Match:
		return Print(v.Item)
	case *AnyChar:
		return "."
	case *Character:
		return escapeLiteral(v.Rune)
	case *CharacterGroup:
		return printCharacterGroup(v)
	case *CharRange:
		return escapeLiteral(v.From) + "-" + escapeLiteral(v.To)
	case *ClassWord:
		return `\w`
	case *ClassNotWord:
		return `\W`
	case *ClassDigit:
		return `\d`
	case *ClassNotDigit:
		return `\D`
	case *ClassSpace:
		return `\s`
	case *ClassNotSpace:
		return `\S`
	case *Backreference:
		return fmt.Sprintf(`\%d`, v.Group)
	case *StartOfString:
		return "^"
	case *EndOfString:
		return "$"
	case *WordBoundary:
		return `\b`
	case *NotWordBoundary:
		return `\B`
	case *StartOfText:
		return `\A`
	case *EndOfText:
		return `\z`
	case *EndOfTextZ:
		return `\Z`
	case *StartOfAttempt:
		return `\G`
	case *ZeroOrOne:
		return Print(v.Child) + "?" + lazySuffix(v.Lazy)
	case *ZeroOrMore:
		return Print(v.Child) + "*" + lazySuffix(v.Lazy)
	case *OneOrMore:
		return Print(v.Child) + "+" + lazySuffix(v.Lazy)
	case *Range:
		return Print(v.Child) + printRangeBound(v) + lazySuffix(v.Lazy)
	default:
		panic(fmt.Sprintf("ast: Print: unhandled node type %T", n))
	}
}

func printExpression(e *Expression) string {
	s := Print(e.Sub)
	if e.Alt != nil {
		s += "|" + Print(e.Alt)
	}
	return s
}

func printSubExpression(s *SubExpression) string {
	var b strings.Builder
	for _, item := range s.Items {
		b.WriteString(Print(item))
	}
	return b.String()
}

func printGroup(g *Group) string {
	inner := Print(g.Expr)
	switch {
	case g.Atomic:
		return "(?>" + inner + ")"
	case g.Name != "":
		return "(?<" + g.Name + ">" + inner + ")"
	case g.NonCapturing:
		return "(?:" + inner + ")"
	default:
		return "(" + inner + ")"
	}
}

func printCharacterGroup(cg *CharacterGroup) string {
	var b strings.Builder
	b.WriteByte('[')
	if cg.Negative {
		b.WriteByte('^')
	}
	for _, item := range cg.Items {
		b.WriteString(Print(item))
	}
	b.WriteByte(']')
	return b.String()
}

func printRangeBound(r *Range) string {
	if r.Fixed {
		return fmt.Sprintf("{%d}", r.Low)
	}
	if r.Up == nil {
		return fmt.Sprintf("{%d,}", r.Low)
	}
	return fmt.Sprintf("{%d,%d}", r.Low, *r.Up)
}

func lazySuffix(lazy bool) string {
	if lazy {
		return "?"
	}
	return ""
}

// specialRunes are the punctuators that carry structural meaning at top
// level or inside a character group; a literal occurrence of any of them
// must be escaped so re-scanning the printed text reads it back as the
// same literal Character rather than as a sigil.
const specialRunes = `()[]{}.+*?|,:<>-^$\`

func escapeLiteral(r rune) string {
	if strings.ContainsRune(specialRunes, r) {
		return `\` + string(r)
	}
	return string(r)
}
