package ast

import "fmt"

// Resolved carries the results of the resolver pass: the number of
// capturing groups found (excluding non-capturing and atomic groups, and
// excluding the implicit group 0 the compiler wraps around the whole
// pattern) and a map from group id to name for named groups.
type Resolved struct {
	GroupCount int
	GroupNames map[int]string
}

// Resolve walks expr, assigning capture-group ids in source order of '('
// occurrence (starting at 1 — id 0 is reserved for the whole-pattern group
// the compiler adds), validating that every quantifier targets a
// quantifiable node, and building the group-name map.
func Resolve(expr *Expression) (*Resolved, error) {
	r := &resolver{nextID: 1, names: make(map[int]string)}
	if err := r.walkExpression(expr); err != nil {
		return nil, err
	}
	return &Resolved{GroupCount: r.nextID - 1, GroupNames: r.names}, nil
}

type resolver struct {
	nextID int // next capture id to assign; starts at 1
	names  map[int]string
}

func (r *resolver) walkExpression(e *Expression) error {
	if e == nil {
		return nil
	}
	if err := r.walkSubExpression(e.Sub); err != nil {
		return err
	}
	return r.walkExpression(e.Alt)
}

func (r *resolver) walkSubExpression(s *SubExpression) error {
	if s == nil {
		return nil
	}
	for _, item := range s.Items {
		if err := r.walkNode(item); err != nil {
			return err
		}
	}
	return nil
}

// walkNode dispatches on the dynamic type of n, recursing into children
// and assigning group ids to capturing Groups in the order encountered —
// which, because this walk proceeds left to right in parse order, matches
// source order of '(' occurrence exactly.
func (r *resolver) walkNode(n Node) error {
	switch v := n.(type) {
	case *Group:
		if !v.NonCapturing {
			v.GroupID = r.nextID
			r.nextID++
			if v.Name != "" {
				r.names[v.GroupID] = v.Name
			}
		}
		return r.walkExpression(v.Expr)

	case *Match:
		return nil // atoms carry no nested groups

	case *Backreference:
		return nil

	case *StartOfString, *EndOfString, *WordBoundary, *NotWordBoundary,
		*StartOfText, *EndOfText, *EndOfTextZ, *StartOfAttempt:
		return nil

	case *ZeroOrOne:
		if err := r.checkQuantifiable(v.Child); err != nil {
			return err
		}
		return r.walkNode(v.Child)
	case *ZeroOrMore:
		if err := r.checkQuantifiable(v.Child); err != nil {
			return err
		}
		return r.walkNode(v.Child)
	case *OneOrMore:
		if err := r.checkQuantifiable(v.Child); err != nil {
			return err
		}
		return r.walkNode(v.Child)
	case *Range:
		if err := r.checkQuantifiable(v.Child); err != nil {
			return err
		}
		return r.walkNode(v.Child)

	default:
		return fmt.Errorf("ast: resolver: unknown node type %T", n)
	}
}

// checkQuantifiable rejects anchors and other quantifiers as the target
// of a quantifier, per the resolver's grammar-enforced rule.
func (r *resolver) checkQuantifiable(child Node) error {
	switch child.(type) {
	case *StartOfString, *EndOfString, *WordBoundary, *NotWordBoundary,
		*StartOfText, *EndOfText, *EndOfTextZ, *StartOfAttempt:
		return &SemanticError{Message: "anchors cannot be quantified"}
	case *ZeroOrOne, *ZeroOrMore, *OneOrMore, *Range:
		return &SemanticError{Message: "a quantifier cannot itself be quantified"}
	default:
		return nil
	}
}

// ValidateBackreferences walks expr and fails with a SemanticError if any
// Backreference refers to a group id beyond groupCount. This is run after
// Resolve (it needs the final group count) and mirrors the compiler's own
// compile-time bound check (§4.4's "Outer capture" step), kept here too so
// callers get a SemanticError rather than a compiler-internal error.
func ValidateBackreferences(expr *Expression, groupCount int) error {
	return validateBackrefsExpr(expr, groupCount)
}

func validateBackrefsExpr(e *Expression, groupCount int) error {
	if e == nil {
		return nil
	}
	if err := validateBackrefsSub(e.Sub, groupCount); err != nil {
		return err
	}
	return validateBackrefsExpr(e.Alt, groupCount)
}

func validateBackrefsSub(s *SubExpression, groupCount int) error {
	if s == nil {
		return nil
	}
	for _, item := range s.Items {
		if err := validateBackrefsNode(item, groupCount); err != nil {
			return err
		}
	}
	return nil
}

func validateBackrefsNode(n Node, groupCount int) error {
	switch v := n.(type) {
	case *Backreference:
		if v.Group < 1 || v.Group > groupCount {
			return &SemanticError{Message: fmt.Sprintf("backreference to unknown group %d", v.Group)}
		}
		return nil
	case *Group:
		return validateBackrefsExpr(v.Expr, groupCount)
	case *ZeroOrOne:
		return validateBackrefsNode(v.Child, groupCount)
	case *ZeroOrMore:
		return validateBackrefsNode(v.Child, groupCount)
	case *OneOrMore:
		return validateBackrefsNode(v.Child, groupCount)
	case *Range:
		return validateBackrefsNode(v.Child, groupCount)
	default:
		return nil
	}
}
