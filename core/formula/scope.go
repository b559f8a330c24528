package formula

// ScopeElement is either a single Token or a nested Scope. Brackets
// never appear themselves; they only delimit the nesting that Scope
// represents.
type ScopeElement struct {
	Token    Token
	SubScope Scope
	isScope  bool
}

func tokenElement(t Token) ScopeElement { return ScopeElement{Token: t} }
func scopeElement(s Scope) ScopeElement { return ScopeElement{SubScope: s, isScope: true} }

// IsScope reports whether this element is a nested Scope rather than a
// single Token.
func (e ScopeElement) IsScope() bool { return e.isScope }

// Scope is a sequence of tokens and nested scopes, one bracket level
// of the parse tree.
type Scope []ScopeElement

// BuildScope turns a flat token stream into a tree of scopes. `(` opens
// a nested Scope; `)` closes it. Depth underflow (a `)` with nothing
// open) or an unclosed `(` both fail with ErrUnmatchedBrackets.
// Whitespace tokens are carried through unchanged at this stage — the
// implicit-multiplication pass is the one that strips them.
func BuildScope(tokens []Token) (Scope, error) {
	scope, _, err := buildScope(tokens, false)
	return scope, err
}

// buildScope consumes elements for one bracket level. When nested is
// true it expects to be terminated by a TokenCloseBracket and returns
// the tokens following it; running out of input first means the
// opening `(` was never closed. When nested is false (top level) a
// TokenCloseBracket encountered here has no matching open.
func buildScope(tokens []Token, nested bool) (Scope, []Token, error) {
	var scope Scope
	for len(tokens) > 0 {
		head := tokens[0]
		switch head.Kind {
		case TokenCloseBracket:
			if !nested {
				return nil, nil, ErrUnmatchedBrackets
			}
			return scope, tokens[1:], nil
		case TokenOpenBracket:
			inner, rest, err := buildScope(tokens[1:], true)
			if err != nil {
				return nil, nil, err
			}
			scope = append(scope, scopeElement(inner))
			tokens = rest
		default:
			scope = append(scope, tokenElement(head))
			tokens = tokens[1:]
		}
	}
	if nested {
		return nil, nil, ErrUnmatchedBrackets
	}
	return scope, tokens, nil
}
