// Package quest implements the questline language parser.
// lexer.go converts source text into a position-tagged token stream.
package quest

import (
	"fmt"
	"unicode/utf8"
)

// LexError reports an unrecognized character or an unterminated string,
// anchored to the start position of the offending token.
type LexError struct {
	Msg    string
	Line   int
	Column int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Msg, e.Line, e.Column)
}

// lexer scans left to right over the raw source bytes, decoding runes as it
// goes so byte offsets stay exact for multi-byte identifiers.
type lexer struct {
	src    string
	pos    int // byte offset of the current rune
	ch     rune
	width  int // byte width of ch
	line   int
	column int
}

func newLexer(src string) *lexer {
	l := &lexer{src: src, line: 1, column: 1}
	l.decode()
	return l
}

// decode loads the rune at l.pos without advancing position counters.
func (l *lexer) decode() {
	if l.pos >= len(l.src) {
		l.ch = 0
		l.width = 0
		return
	}
	l.ch, l.width = utf8.DecodeRuneInString(l.src[l.pos:])
}

// advance moves past the current rune, maintaining line and column counters.
func (l *lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else if l.width > 0 {
		l.column++
	}
	l.pos += l.width
	l.decode()
}

func (l *lexer) peek() rune {
	if l.pos+l.width >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos+l.width:])
	return r
}

// Tokenize converts source text into an ordered token stream in a single
// pass. The stream always ends with an EOF token. Comment tokens are emitted
// by the scan and filtered here so the raw stream stays recoverable for
// diagnostics.
func Tokenize(src string) ([]Token, error) {
	raw, err := TokenizeRaw(src)
	if err != nil {
		return nil, err
	}
	tokens := make([]Token, 0, len(raw))
	for _, tok := range raw {
		if tok.Kind == TokenComment {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// TokenizeRaw is Tokenize without the comment filter.
func TokenizeRaw(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) next() (Token, error) {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.advance()
	}

	start := l.pos
	line, column := l.line, l.column

	switch {
	case l.ch == 0:
		return Token{Kind: TokenEOF, Line: line, Column: column, StartByte: start, EndByte: start}, nil

	case l.ch == '/' && l.peek() == '/':
		for l.ch != 0 && l.ch != '\n' {
			l.advance()
		}
		return Token{Kind: TokenComment, Literal: l.src[start:l.pos], Line: line, Column: column, StartByte: start, EndByte: l.pos}, nil

	case l.ch == '"':
		l.advance() // opening quote
		lit := l.pos
		for l.ch != '"' {
			if l.ch == 0 {
				return Token{}, &LexError{Msg: "unterminated string", Line: line, Column: column}
			}
			l.advance()
		}
		text := l.src[lit:l.pos]
		l.advance() // closing quote
		return Token{Kind: TokenString, Literal: text, Line: line, Column: column, StartByte: start, EndByte: l.pos}, nil

	case isDigit(l.ch):
		for isDigit(l.ch) {
			l.advance()
		}
		if l.ch == '.' && isDigit(l.peek()) {
			l.advance()
			for isDigit(l.ch) {
				l.advance()
			}
		}
		return Token{Kind: TokenNumber, Literal: l.src[start:l.pos], Line: line, Column: column, StartByte: start, EndByte: l.pos}, nil

	case isLetter(l.ch):
		for isLetter(l.ch) || isDigit(l.ch) {
			l.advance()
		}
		text := l.src[start:l.pos]
		kind := TokenIdent
		if kw, ok := keywords[text]; ok {
			kind = kw
		}
		return Token{Kind: kind, Literal: text, Line: line, Column: column, StartByte: start, EndByte: l.pos}, nil

	default:
		if kind, ok := symbols[l.ch]; ok {
			text := string(l.ch)
			l.advance()
			return Token{Kind: kind, Literal: text, Line: line, Column: column, StartByte: start, EndByte: l.pos}, nil
		}
		return Token{}, &LexError{Msg: fmt.Sprintf("unexpected character %q", l.ch), Line: line, Column: column}
	}
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// isLetter covers the Latin and Cyrillic alphabetic ranges plus the letter ё,
// which sits outside the contiguous Cyrillic block, and underscore.
func isLetter(ch rune) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		return true
	case ch >= 'А' && ch <= 'я':
		return true
	case ch == 'ё' || ch == 'Ё':
		return true
	case ch == '_':
		return true
	}
	return false
}
