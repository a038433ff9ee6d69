// Package quest implements the questline language parser.
// parser.go contains the parsing logic and helper routines.
package quest

import (
	"fmt"
)

// Grammar:
//   Program     := 'quest' IDENT ';' Goal Import* Graph 'end' ';'
//   Module      := 'module' IDENT ';' ( Import | NodeBlock | ExportBlock )*
//   Goal        := 'goal' STRING ';'
//   Import      := 'import' IDENT 'from' STRING ';'
//   Graph       := 'graph' '{' ( NodeBlock | 'start' ':' IDENT ';' )* '}'
//   NodeBlock   := 'nodes' '{' ( IDENT ':' '{' NodeBody '}' )* '}'
//   NodeBody    := ( TypeClause | DescClause | TransClause | OptClause | TitleClause )*
//   TypeClause  := 'type' ':' ( 'initial' | 'action' | 'ending' ) ';'
//   DescClause  := 'description' ':' STRING ';'
//   TransClause := 'transitions' ':' '[' [ Target { ',' Target } ] ']' ';'
//   OptClause   := 'options' ':' '[' [ Option { ',' Option } ] ']' ';'
//   Option      := '(' STRING ',' Target ')'
//   TitleClause := 'title' ':' STRING ';'
//   Target      := '@' IDENT '.' IDENT | IDENT
//   ExportBlock := 'export' '[' [ IDENT { ',' IDENT } ] ']' ';'
//
// The parser performs no recovery: the first structural violation aborts the
// whole parse.

// ParseError is a grammar violation at a source position.
type ParseError struct {
	Msg      string
	Position Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s", e.Msg, e.Position)
}

type parser struct {
	tokens   []Token
	pos      int
	filename string
}

// ParseProgram parses source text as a standalone quest program.
func ParseProgram(src string) (*Program, error) {
	return ParseProgramFile(src, "")
}

// ParseProgramFile tracks the source file for error messages.
func ParseProgramFile(src, filename string) (*Program, error) {
	p, err := newParser(src, filename)
	if err != nil {
		return nil, err
	}
	return p.parseProgram()
}

// ParseModuleFile parses source text as a module definition.
func ParseModuleFile(src, filename string) (*Module, error) {
	p, err := newParser(src, filename)
	if err != nil {
		return nil, err
	}
	return p.parseModule()
}

// ParseAnyFile dispatches on the leading keyword: sources opening with
// 'module' parse as a Module, everything else as a Program. Exactly one of
// the results is non-nil on success.
func ParseAnyFile(src, filename string) (*Program, *Module, error) {
	p, err := newParser(src, filename)
	if err != nil {
		return nil, nil, err
	}
	if p.cur().Kind == TokenModule {
		mod, err := p.parseModule()
		if err != nil {
			return nil, nil, err
		}
		return nil, mod, nil
	}
	prog, err := p.parseProgram()
	if err != nil {
		return nil, nil, err
	}
	return prog, nil, nil
}

// ParseAny is ParseAnyFile without a filename.
func ParseAny(src string) (*Program, *Module, error) {
	return ParseAnyFile(src, "")
}

func newParser(src, filename string) (*parser, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return &parser{tokens: tokens, filename: filename}, nil
}

func (p *parser) cur() Token {
	return p.tokens[p.pos]
}

func (p *parser) next() {
	if p.cur().Kind != TokenEOF {
		p.pos++
	}
}

func (p *parser) position() Position {
	tok := p.cur()
	return Position{Line: tok.Line, Column: tok.Column, File: p.filename}
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Position: p.position()}
}

func (p *parser) got() string {
	tok := p.cur()
	if tok.Kind == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", tok.Literal)
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	tok := p.cur()
	if tok.Kind != kind {
		return Token{}, p.errorf("expected %s, got %s", kind, p.got())
	}
	p.next()
	return tok, nil
}

func (p *parser) parseProgram() (*Program, error) {
	pos := p.position()

	if _, err := p.expect(TokenQuest); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, p.errorf("expected quest name, got %s", p.got())
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	prog := &Program{Name: name.Literal, Position: pos}

	if _, err := p.expect(TokenGoal); err != nil {
		return nil, err
	}
	goal, err := p.expect(TokenString)
	if err != nil {
		return nil, p.errorf("expected goal text, got %s", p.got())
	}
	prog.Goal = goal.Literal
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	for p.cur().Kind == TokenImport {
		imp, err := p.parseImport()
		if err != nil {
			return nil, err
		}
		prog.Imports = append(prog.Imports, imp)
	}

	graph, err := p.parseGraph()
	if err != nil {
		return nil, err
	}
	prog.Graph = graph

	if _, err := p.expect(TokenEnd); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	if p.cur().Kind != TokenEOF {
		return nil, p.errorf("expected end of input, got %s", p.got())
	}
	return prog, nil
}

func (p *parser) parseModule() (*Module, error) {
	pos := p.position()

	if _, err := p.expect(TokenModule); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, p.errorf("expected module name, got %s", p.got())
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	mod := &Module{Name: name.Literal, Nodes: map[string]Node{}, Position: pos}
	graph := &Graph{Nodes: mod.Nodes}

	// Body clauses are order-independent and repeatable.
	for p.cur().Kind != TokenEOF {
		switch p.cur().Kind {
		case TokenImport:
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			mod.Imports = append(mod.Imports, imp)
		case TokenNodes:
			if err := p.parseNodeBlock(graph); err != nil {
				return nil, err
			}
		case TokenExport:
			exports, err := p.parseExportBlock()
			if err != nil {
				return nil, err
			}
			mod.Exports = append(mod.Exports, exports...)
		default:
			return nil, p.errorf("expected 'import', 'nodes', or 'export', got %s", p.got())
		}
	}
	mod.Order = graph.Order
	return mod, nil
}

func (p *parser) parseImport() (*Import, error) {
	pos := p.position()

	if _, err := p.expect(TokenImport); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, p.errorf("expected module name after 'import', got %s", p.got())
	}
	if _, err := p.expect(TokenFrom); err != nil {
		return nil, err
	}
	path, err := p.expect(TokenString)
	if err != nil {
		return nil, p.errorf("expected module path string, got %s", p.got())
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return &Import{Name: name.Literal, Path: path.Literal, Position: pos}, nil
}

func (p *parser) parseGraph() (*Graph, error) {
	if _, err := p.expect(TokenGraph); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}

	graph := &Graph{Nodes: map[string]Node{}}
	for p.cur().Kind != TokenRBrace {
		switch p.cur().Kind {
		case TokenNodes:
			if err := p.parseNodeBlock(graph); err != nil {
				return nil, err
			}
		case TokenStart:
			p.next()
			if _, err := p.expect(TokenColon); err != nil {
				return nil, err
			}
			start, err := p.expect(TokenIdent)
			if err != nil {
				return nil, p.errorf("expected start node id, got %s", p.got())
			}
			if _, err := p.expect(TokenSemicolon); err != nil {
				return nil, err
			}
			graph.Start = start.Literal
		default:
			return nil, p.errorf("expected 'nodes', 'start', or '}', got %s", p.got())
		}
	}
	p.next() // consume '}'
	return graph, nil
}

func (p *parser) parseNodeBlock(graph *Graph) error {
	if _, err := p.expect(TokenNodes); err != nil {
		return err
	}
	if _, err := p.expect(TokenLBrace); err != nil {
		return err
	}

	for p.cur().Kind != TokenRBrace {
		id, err := p.expect(TokenIdent)
		if err != nil {
			return p.errorf("expected node id, got %s", p.got())
		}
		if _, err := p.expect(TokenColon); err != nil {
			return err
		}
		node, err := p.parseNodeBody(id)
		if err != nil {
			return err
		}
		if _, exists := graph.Nodes[id.Literal]; exists {
			// Last declaration wins; the redefinition is kept for lint
			// reporting instead of being silently dropped.
			graph.Redefined = append(graph.Redefined, id.Literal)
		} else {
			graph.Order = append(graph.Order, id.Literal)
		}
		graph.Nodes[id.Literal] = node
	}
	p.next() // consume '}'
	return nil
}

// parseNodeBody collects clauses until the closing brace, then builds the
// variant selected by the type clause. Repeated clauses keep the final
// occurrence; clauses not applicable to the selected variant are dropped.
func (p *parser) parseNodeBody(id Token) (Node, error) {
	pos := Position{Line: id.Line, Column: id.Column, File: p.filename}

	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}

	var (
		hasType     bool
		kind        NodeKind
		description string
		title       string
		transitions []string
		options     []Choice
	)

	for p.cur().Kind != TokenRBrace {
		switch p.cur().Kind {
		case TokenType:
			p.next()
			if _, err := p.expect(TokenColon); err != nil {
				return nil, err
			}
			switch p.cur().Kind {
			case TokenInitial:
				kind = KindInitial
			case TokenAction:
				kind = KindAction
			case TokenEnding:
				kind = KindEnding
			default:
				return nil, p.errorf("expected 'initial', 'action', or 'ending', got %s", p.got())
			}
			hasType = true
			p.next()
			if _, err := p.expect(TokenSemicolon); err != nil {
				return nil, err
			}

		case TokenDescription:
			p.next()
			if _, err := p.expect(TokenColon); err != nil {
				return nil, err
			}
			str, err := p.expect(TokenString)
			if err != nil {
				return nil, p.errorf("expected description text, got %s", p.got())
			}
			description = str.Literal
			if _, err := p.expect(TokenSemicolon); err != nil {
				return nil, err
			}

		case TokenTitle:
			p.next()
			if _, err := p.expect(TokenColon); err != nil {
				return nil, err
			}
			str, err := p.expect(TokenString)
			if err != nil {
				return nil, p.errorf("expected title text, got %s", p.got())
			}
			title = str.Literal
			if _, err := p.expect(TokenSemicolon); err != nil {
				return nil, err
			}

		case TokenTransitions:
			p.next()
			if _, err := p.expect(TokenColon); err != nil {
				return nil, err
			}
			targets, err := p.parseTargetList()
			if err != nil {
				return nil, err
			}
			transitions = targets
			if _, err := p.expect(TokenSemicolon); err != nil {
				return nil, err
			}

		case TokenOptions:
			p.next()
			if _, err := p.expect(TokenColon); err != nil {
				return nil, err
			}
			choices, err := p.parseOptionList()
			if err != nil {
				return nil, err
			}
			options = choices
			if _, err := p.expect(TokenSemicolon); err != nil {
				return nil, err
			}

		default:
			return nil, p.errorf("unknown clause %s in node %q", p.got(), id.Literal)
		}
	}
	p.next() // consume '}'

	if !hasType {
		return nil, &ParseError{Msg: fmt.Sprintf("node %q has no type clause", id.Literal), Position: pos}
	}

	switch kind {
	case KindInitial:
		return &InitialNode{ID: id.Literal, Description: description, Transitions: transitions, Position: pos}, nil
	case KindAction:
		return &ActionNode{ID: id.Literal, Description: description, Options: options, Position: pos}, nil
	default:
		return &EndingNode{ID: id.Literal, Description: description, Title: title, Position: pos}, nil
	}
}

func (p *parser) parseTargetList() ([]string, error) {
	if _, err := p.expect(TokenLBracket); err != nil {
		return nil, err
	}
	var targets []string
	if p.cur().Kind != TokenRBracket {
		for {
			target, err := p.parseTarget()
			if err != nil {
				return nil, err
			}
			targets = append(targets, target)
			if p.cur().Kind != TokenComma {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(TokenRBracket); err != nil {
		return nil, err
	}
	return targets, nil
}

func (p *parser) parseOptionList() ([]Choice, error) {
	if _, err := p.expect(TokenLBracket); err != nil {
		return nil, err
	}
	var options []Choice
	if p.cur().Kind != TokenRBracket {
		for {
			if _, err := p.expect(TokenLParen); err != nil {
				return nil, err
			}
			text, err := p.expect(TokenString)
			if err != nil {
				return nil, p.errorf("expected option text, got %s", p.got())
			}
			if _, err := p.expect(TokenComma); err != nil {
				return nil, err
			}
			target, err := p.parseTarget()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenRParen); err != nil {
				return nil, err
			}
			options = append(options, Choice{Text: text.Literal, Target: target})
			if p.cur().Kind != TokenComma {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(TokenRBracket); err != nil {
		return nil, err
	}
	return options, nil
}

// parseTarget reads a local or qualified reference. Both forms collapse to
// one raw string consumed uniformly downstream.
func (p *parser) parseTarget() (string, error) {
	if p.cur().Kind == TokenAt {
		p.next()
		mod, err := p.expect(TokenIdent)
		if err != nil {
			return "", p.errorf("expected module name after '@', got %s", p.got())
		}
		if _, err := p.expect(TokenDot); err != nil {
			return "", err
		}
		node, err := p.expect(TokenIdent)
		if err != nil {
			return "", p.errorf("expected node id after '.', got %s", p.got())
		}
		return "@" + mod.Literal + "." + node.Literal, nil
	}
	target, err := p.expect(TokenIdent)
	if err != nil {
		return "", p.errorf("expected target node id, got %s", p.got())
	}
	return target.Literal, nil
}

func (p *parser) parseExportBlock() ([]string, error) {
	if _, err := p.expect(TokenExport); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLBracket); err != nil {
		return nil, err
	}
	var exports []string
	if p.cur().Kind != TokenRBracket {
		for {
			name, err := p.expect(TokenIdent)
			if err != nil {
				return nil, p.errorf("expected exported node id, got %s", p.got())
			}
			exports = append(exports, name.Literal)
			if p.cur().Kind != TokenComma {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(TokenRBracket); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return exports, nil
}
