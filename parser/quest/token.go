// Package quest implements the questline language parser.
// token.go defines the token stream produced by the lexer.
package quest

// TokenKind identifies the type of a lexical token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenString
	TokenNumber
	TokenComment

	// Keywords (identifier text checked against the keyword table)
	TokenQuest
	TokenGoal
	TokenGraph
	TokenNodes
	TokenStart
	TokenEnd
	TokenType
	TokenDescription
	TokenTransitions
	TokenOptions
	TokenTitle
	TokenModule
	TokenImport
	TokenExport
	TokenFrom
	TokenInitial
	TokenAction
	TokenEnding

	// Single-character symbols
	TokenSemicolon // ;
	TokenColon     // :
	TokenComma     // ,
	TokenDot       // .
	TokenAt        // @
	TokenLBrace    // {
	TokenRBrace    // }
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenLParen    // (
	TokenRParen    // )
)

var tokenNames = map[TokenKind]string{
	TokenEOF:         "end of input",
	TokenIdent:       "identifier",
	TokenString:      "string",
	TokenNumber:      "number",
	TokenComment:     "comment",
	TokenQuest:       "'quest'",
	TokenGoal:        "'goal'",
	TokenGraph:       "'graph'",
	TokenNodes:       "'nodes'",
	TokenStart:       "'start'",
	TokenEnd:         "'end'",
	TokenType:        "'type'",
	TokenDescription: "'description'",
	TokenTransitions: "'transitions'",
	TokenOptions:     "'options'",
	TokenTitle:       "'title'",
	TokenModule:      "'module'",
	TokenImport:      "'import'",
	TokenExport:      "'export'",
	TokenFrom:        "'from'",
	TokenInitial:     "'initial'",
	TokenAction:      "'action'",
	TokenEnding:      "'ending'",
	TokenSemicolon:   "';'",
	TokenColon:       "':'",
	TokenComma:       "','",
	TokenDot:         "'.'",
	TokenAt:          "'@'",
	TokenLBrace:      "'{'",
	TokenRBrace:      "'}'",
	TokenLBracket:    "'['",
	TokenRBracket:    "']'",
	TokenLParen:      "'('",
	TokenRParen:      "')'",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "unknown"
}

// keywords maps identifier text to the matching keyword kind.
var keywords = map[string]TokenKind{
	"quest":       TokenQuest,
	"goal":        TokenGoal,
	"graph":       TokenGraph,
	"nodes":       TokenNodes,
	"start":       TokenStart,
	"end":         TokenEnd,
	"type":        TokenType,
	"description": TokenDescription,
	"transitions": TokenTransitions,
	"options":     TokenOptions,
	"title":       TokenTitle,
	"module":      TokenModule,
	"import":      TokenImport,
	"export":      TokenExport,
	"from":        TokenFrom,
	"initial":     TokenInitial,
	"action":      TokenAction,
	"ending":      TokenEnding,
}

// symbols maps single-character punctuation to token kinds.
var symbols = map[rune]TokenKind{
	';': TokenSemicolon,
	':': TokenColon,
	',': TokenComma,
	'.': TokenDot,
	'@': TokenAt,
	'{': TokenLBrace,
	'}': TokenRBrace,
	'[': TokenLBracket,
	']': TokenRBracket,
	'(': TokenLParen,
	')': TokenRParen,
}

// Token is a single lexical unit. Positions are 1-based line and column of
// the token start; StartByte/EndByte are byte offsets [start, end) into the
// source.
type Token struct {
	Kind      TokenKind
	Literal   string
	Line      int
	Column    int
	StartByte int
	EndByte   int
}

// IsKeyword reports whether text is a reserved word of the language.
func IsKeyword(text string) bool {
	_, ok := keywords[text]
	return ok
}
