package ast

import (
	"fmt"

	"github.com/corebt/btregex/token"
)

// Parse runs the recursive-descent parser over tokens (as produced by
// token.Scan) and returns the root Expression. The root always spans the
// entire token stream; a trailing token other than EOF is a SyntaxError.
func Parse(tokens []token.Token) (*Expression, error) {
	p := &parser{tokens: tokens}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != token.EOF {
		return nil, p.errorf("unexpected token %s", p.peek().Kind)
	}
	return expr, nil
}

type parser struct {
	tokens []token.Token
	pos    int
}

func (p *parser) peek() token.Token {
	return p.tokens[p.pos]
}

func (p *parser) peekAt(offset int) token.Token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[i]
}

func (p *parser) advance() token.Token {
	t := p.tokens[p.pos]
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(k token.Kind, what string) (token.Token, error) {
	if p.peek().Kind != k {
		return token.Token{}, p.errorf("expected %s, got %s", what, p.peek().Kind)
	}
	return p.advance(), nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Pos: p.peek().Pos, Message: fmt.Sprintf(format, args...)}
}

// parseExpression implements "SubExpression ('|' Expression)?".
func (p *parser) parseExpression() (*Expression, error) {
	sub, err := p.parseSubExpression()
	if err != nil {
		return nil, err
	}
	expr := &Expression{Sub: sub}
	if p.peek().Kind == token.Pipe {
		p.advance()
		alt, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expr.Alt = alt
	}
	return expr, nil
}

// parseSubExpression implements "(Anchor | Group | Match | Backreference)*".
// An empty sequence is accepted (it realizes an empty match, needed for
// both the empty-pattern boundary case and empty alternation branches
// like "a|"), rather than enforcing the grammar's literal one-or-more —
// real-world regex engines accept empty branches and so does this one.
func (p *parser) parseSubExpression() (*SubExpression, error) {
	sub := &SubExpression{}
	for {
		tok := p.peek()
		if tok.Kind == token.EOF || tok.Kind == token.Pipe || tok.Kind == token.RParen {
			return sub, nil
		}

		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		sub.Items = append(sub.Items, item)
	}
}

// parseItem parses one Anchor, Group, Match, or Backreference, along with
// any trailing Quantifier.
func (p *parser) parseItem() (Node, error) {
	tok := p.peek()

	switch tok.Kind {
	case token.LParen:
		return p.parseGroup()

	case token.Caret:
		p.advance()
		return p.maybeQuantify(&StartOfString{})
	case token.Dollar:
		p.advance()
		return p.maybeQuantify(&EndOfString{})
	case token.AnchorWordBoundary:
		p.advance()
		return p.maybeQuantify(&WordBoundary{})
	case token.AnchorNotWordBoundary:
		p.advance()
		return p.maybeQuantify(&NotWordBoundary{})
	case token.AnchorStartOfText:
		p.advance()
		return p.maybeQuantify(&StartOfText{})
	case token.AnchorEndOfTextZ:
		p.advance()
		return p.maybeQuantify(&EndOfText{})
	case token.AnchorEndOfTextZUpper:
		p.advance()
		return p.maybeQuantify(&EndOfTextZ{})
	case token.AnchorStartOfAttempt:
		p.advance()
		return p.maybeQuantify(&StartOfAttempt{})

	case token.Escape:
		if tok.Value == 0 {
			// A dangling backslash at the end of the pattern escapes nothing.
			return nil, p.errorf("dangling backslash at end of pattern")
		}
		if isDigitRune(tok.Value) {
			return p.parseBackreference()
		}
		// Unrecognized escape letter: treat as a literal character, the
		// way an unknown backslash sequence degrades in practice.
		p.advance()
		return p.parseMatchQuantified(&Character{Rune: tok.Value})

	default:
		return p.parseMatch()
	}
}

// parseMatch implements "('.' | CharacterGroup | CharacterClass | Char) Quantifier?".
func (p *parser) parseMatch() (Node, error) {
	tok := p.peek()

	switch tok.Kind {
	case token.Dot:
		p.advance()
		return p.parseMatchQuantified(&AnyChar{})
	case token.LBracket:
		cg, err := p.parseCharacterGroup()
		if err != nil {
			return nil, err
		}
		return p.parseMatchQuantified(cg)
	case token.ClassWord:
		p.advance()
		return p.parseMatchQuantified(&ClassWord{})
	case token.ClassNotWord:
		p.advance()
		return p.parseMatchQuantified(&ClassNotWord{})
	case token.ClassDigit:
		p.advance()
		return p.parseMatchQuantified(&ClassDigit{})
	case token.ClassNotDigit:
		p.advance()
		return p.parseMatchQuantified(&ClassNotDigit{})
	case token.ClassSpace:
		p.advance()
		return p.parseMatchQuantified(&ClassSpace{})
	case token.ClassNotSpace:
		p.advance()
		return p.parseMatchQuantified(&ClassNotSpace{})
	case token.Int, token.Letter, token.ASCII, token.Char,
		token.Colon, token.LAngle, token.RAngle, token.Hyphen:
		// These punctuators only have a structural role inside a group
		// sigil '(?...)' or a character group '[...]'; parseGroup and
		// parseCharacterGroup consume them there directly, so reaching
		// here means the rune is a plain literal.
		p.advance()
		return p.parseMatchQuantified(&Character{Rune: tok.Value})
	default:
		return nil, p.errorf("unexpected token %s", tok.Kind)
	}
}

// parseMatchQuantified wraps atom in a Match node and applies an optional
// trailing Quantifier.
func (p *parser) parseMatchQuantified(atom Node) (Node, error) {
	match := &Match{Item: atom}
	return p.maybeQuantify(match)
}

// maybeQuantify consumes a trailing Quantifier, if present, and wraps
// child in the corresponding quantifier node. It is applied uniformly to
// Match, Group, and Anchor nodes; the resolver is responsible for
// rejecting quantified anchors and quantified quantifiers.
func (p *parser) maybeQuantify(child Node) (Node, error) {
	var q Node
	switch p.peek().Kind {
	case token.Star:
		p.advance()
		q = &ZeroOrMore{Child: child, Lazy: p.consumeLazy()}
	case token.Plus:
		p.advance()
		q = &OneOrMore{Child: child, Lazy: p.consumeLazy()}
	case token.Question:
		p.advance()
		q = &ZeroOrOne{Child: child, Lazy: p.consumeLazy()}
	case token.LBrace:
		r, err := p.parseRangeQuantifier(child)
		if err != nil {
			return nil, err
		}
		q = r
	default:
		return child, nil
	}
	// A further quantifier wraps this one, leaving the rejection to the
	// resolver.
	return p.maybeQuantify(q)
}

func (p *parser) consumeLazy() bool {
	if p.peek().Kind == token.Question {
		p.advance()
		return true
	}
	return false
}

// parseRangeQuantifier implements '{' Int (',' Int?)? '}' '?'?.
func (p *parser) parseRangeQuantifier(child Node) (Node, error) {
	p.advance() // '{'

	low, err := p.parseInt()
	if err != nil {
		return nil, err
	}

	r := &Range{Child: child, Low: low, Fixed: true}

	if p.peek().Kind == token.Comma {
		p.advance()
		r.Fixed = false
		if p.peek().Kind == token.Int {
			up, err := p.parseInt()
			if err != nil {
				return nil, err
			}
			r.Up = &up
		}
	}

	if _, err := p.expect(token.RBrace, "'}'"); err != nil {
		return nil, err
	}

	if r.Up != nil && low > *r.Up {
		return nil, &RangeError{Pos: p.peek().Pos, Message: fmt.Sprintf("range {%d,%d} has low > up", low, *r.Up)}
	}

	r.Lazy = p.consumeLazy()
	return r, nil
}

// parseInt consumes one or more Int tokens and assembles their digits
// into a decimal integer.
func (p *parser) parseInt() (int, error) {
	if p.peek().Kind != token.Int {
		return 0, p.errorf("expected integer, got %s", p.peek().Kind)
	}
	n := 0
	for p.peek().Kind == token.Int {
		n = n*10 + int(p.advance().Value-'0')
	}
	return n, nil
}

// parseBackreference implements '\' Int+ starting from an Escape token
// carrying the first digit (the scanner cannot combine "\1" into a
// single token, since the class-escape table only recognizes letters).
func (p *parser) parseBackreference() (Node, error) {
	first := p.advance() // Escape token carrying the first digit
	n := int(first.Value - '0')
	for p.peek().Kind == token.Int {
		n = n*10 + int(p.advance().Value-'0')
	}
	return &Backreference{Group: n}, nil
}

// parseGroup implements:
//
//	"(" ("?:" | "?<" GroupName ">" | "?>")? Expression ")" Quantifier?
func (p *parser) parseGroup() (Node, error) {
	p.advance() // '('

	g := &Group{}

	if p.peek().Kind == token.Question {
		switch p.peekAt(1).Kind {
		case token.Colon:
			p.advance()
			p.advance()
			g.NonCapturing = true
		case token.RAngle:
			p.advance()
			p.advance()
			g.NonCapturing = true
			g.Atomic = true
		case token.LAngle:
			p.advance()
			p.advance()
			name, err := p.parseGroupName()
			if err != nil {
				return nil, err
			}
			g.Name = name
		default:
			return nil, p.errorf("unrecognized group sigil after '(?'")
		}
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	g.Expr = expr

	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return nil, err
	}

	return p.maybeQuantify(g)
}

// parseGroupName consumes the characters of a (?<name>...) group name up
// to the closing '>'.
func (p *parser) parseGroupName() (string, error) {
	var runes []rune
	for {
		tok := p.peek()
		if tok.Kind == token.RAngle {
			p.advance()
			break
		}
		if tok.Kind == token.EOF {
			return "", p.errorf("unterminated group name")
		}
		runes = append(runes, tok.Value)
		p.advance()
	}
	if len(runes) == 0 {
		return "", &SyntaxError{Pos: p.peek().Pos, Message: "empty group name"}
	}
	return string(runes), nil
}

// parseCharacterGroup implements:
//
//	"[" "^"? (CharacterClass | CharacterRange | Literal)+ "]"
func (p *parser) parseCharacterGroup() (*CharacterGroup, error) {
	p.advance() // '['

	cg := &CharacterGroup{}
	if p.peek().Kind == token.Caret {
		p.advance()
		cg.Negative = true
	}

	for p.peek().Kind != token.RBracket {
		if p.peek().Kind == token.EOF {
			return nil, p.errorf("unterminated character group")
		}
		item, err := p.parseCharacterGroupItem()
		if err != nil {
			return nil, err
		}
		cg.Items = append(cg.Items, item)
	}
	p.advance() // ']'

	if len(cg.Items) == 0 {
		return nil, &SyntaxError{Pos: p.peek().Pos, Message: "empty character group"}
	}
	return cg, nil
}

func (p *parser) parseCharacterGroupItem() (Node, error) {
	switch p.peek().Kind {
	case token.ClassWord:
		p.advance()
		return &ClassWord{}, nil
	case token.ClassNotWord:
		p.advance()
		return &ClassNotWord{}, nil
	case token.ClassDigit:
		p.advance()
		return &ClassDigit{}, nil
	case token.ClassNotDigit:
		p.advance()
		return &ClassNotDigit{}, nil
	case token.ClassSpace:
		p.advance()
		return &ClassSpace{}, nil
	case token.ClassNotSpace:
		p.advance()
		return &ClassNotSpace{}, nil
	}

	from, err := p.parseGroupLiteral()
	if err != nil {
		return nil, err
	}

	// A '-' is a range operator only when both flanks are literal
	// characters and the right flank is not ']', EOF, or a class escape;
	// otherwise '-' is itself a literal.
	if p.peek().Kind == token.Hyphen && p.rangeRightFlankOK() {
		pos := p.peek().Pos
		p.advance() // '-'
		to, err := p.parseGroupLiteral()
		if err != nil {
			return nil, err
		}
		if from > to {
			return nil, &RangeError{Pos: pos, Message: fmt.Sprintf("character range %q-%q is out of order", from, to)}
		}
		return &CharRange{From: from, To: to}, nil
	}

	return &Character{Rune: from}, nil
}

// rangeRightFlankOK reports whether the token after a pending '-' can
// serve as the upper bound of a character range.
func (p *parser) rangeRightFlankOK() bool {
	next := p.peekAt(1)
	switch next.Kind {
	case token.RBracket, token.EOF:
		return false
	case token.ClassWord, token.ClassNotWord, token.ClassDigit, token.ClassNotDigit,
		token.ClassSpace, token.ClassNotSpace:
		return false
	default:
		return true
	}
}

// parseGroupLiteral consumes a single literal character inside a
// character group, unescaping ASCII escapes transparently (the scanner
// already folds \] \- etc. into ASCII tokens).
func (p *parser) parseGroupLiteral() (rune, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.RBracket, token.EOF, token.Pipe:
		return 0, p.errorf("unexpected token %s in character group", tok.Kind)
	default:
		p.advance()
		return tok.Value, nil
	}
}

func isDigitRune(r rune) bool {
	return r >= '0' && r <= '9'
}
