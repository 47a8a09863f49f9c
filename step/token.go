package step

// TokenKind discriminates the structural token variants produced by Tokenize.
type TokenKind uint8

const (
	TokenNull    TokenKind = iota // $
	TokenDerived                  // *
	TokenRef                      // #123
	TokenString                   // 'text'
	TokenInt                      // 42
	TokenFloat                    // 4.2E1
	TokenEnum                     // .NAME.
	TokenList                     // (a, b, c)
	TokenTyped                    // NAME(args)
)

func (k TokenKind) String() string {
	switch k {
	case TokenNull:
		return "null"
	case TokenDerived:
		return "derived"
	case TokenRef:
		return "reference"
	case TokenString:
		return "string"
	case TokenInt:
		return "integer"
	case TokenFloat:
		return "float"
	case TokenEnum:
		return "enum"
	case TokenList:
		return "list"
	case TokenTyped:
		return "typed value"
	}
	return "unknown"
}

// Token is one node of the structural token tree for an entity's argument
// span. List holds nested list items or a typed value's arguments; Str holds
// string content, an enum name, or a typed value's name.
type Token struct {
	List  []Token
	Str   string
	Float float64
	Int   int64
	Ref   EntityID
	Kind  TokenKind
}
