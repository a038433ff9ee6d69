// Package quest implements the questline language parser.
// ast.go defines the AST structures shared by the parser, loader, and engine.
package quest

import (
	"fmt"
	"strings"
)

// Position of a construct in source text.
type Position struct {
	Line   int
	Column int
	File   string
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// NodeKind discriminates the three node variants.
type NodeKind int

const (
	KindInitial NodeKind = iota
	KindAction
	KindEnding
)

func (k NodeKind) String() string {
	switch k {
	case KindInitial:
		return "initial"
	case KindAction:
		return "action"
	case KindEnding:
		return "ending"
	}
	return "unknown"
}

// Node is the closed union over the three node variants. The only
// implementations are InitialNode, ActionNode, and EndingNode; consumers
// switch exhaustively on the concrete type.
type Node interface {
	Kind() NodeKind
	NodeID() string
	Describe() string
	GetPosition() Position
}

// InitialNode is an entry node. Transitions holds local or qualified targets
// in declaration order; the first is the auto-advance default.
type InitialNode struct {
	ID          string
	Description string
	Transitions []string
	Position    Position
}

func (n *InitialNode) Kind() NodeKind        { return KindInitial }
func (n *InitialNode) NodeID() string        { return n.ID }
func (n *InitialNode) Describe() string      { return n.Description }
func (n *InitialNode) GetPosition() Position { return n.Position }

// Choice is one (display text, target) pair of an action node. Order is
// meaningful: choices are addressed by index at execution time.
type Choice struct {
	Text   string
	Target string
}

// ActionNode is a branch point with ordered choices.
type ActionNode struct {
	ID          string
	Description string
	Options     []Choice
	Position    Position
}

func (n *ActionNode) Kind() NodeKind        { return KindAction }
func (n *ActionNode) NodeID() string        { return n.ID }
func (n *ActionNode) Describe() string      { return n.Description }
func (n *ActionNode) GetPosition() Position { return n.Position }

// EndingNode is a terminal node with no outgoing edges.
type EndingNode struct {
	ID          string
	Description string
	Title       string
	Position    Position
}

func (n *EndingNode) Kind() NodeKind        { return KindEnding }
func (n *EndingNode) NodeID() string        { return n.ID }
func (n *EndingNode) Describe() string      { return n.Description }
func (n *EndingNode) GetPosition() Position { return n.Position }

// Graph is a node mapping plus the designated start node. Order preserves
// node declaration order for deterministic validation reports. Redefined
// records ids declared more than once; the map keeps the last declaration.
type Graph struct {
	Nodes     map[string]Node
	Order     []string
	Start     string
	Redefined []string
}

// OutgoingEdges returns the transition targets of a node in declaration
// order. Ending nodes have none.
func OutgoingEdges(n Node) []string {
	switch node := n.(type) {
	case *InitialNode:
		return node.Transitions
	case *ActionNode:
		targets := make([]string, len(node.Options))
		for i, opt := range node.Options {
			targets[i] = opt.Target
		}
		return targets
	case *EndingNode:
		return nil
	}
	return nil
}

// Import declares a module dependency.
type Import struct {
	Name     string // local module name as declared
	Path     string // module path as written in source
	Position Position
}

// Program is a standalone quest: the top-level parse result.
type Program struct {
	Name     string
	Goal     string
	Graph    *Graph
	Imports  []*Import
	Position Position
}

// Module is a reusable named collection of nodes with an export allow-list.
type Module struct {
	Name     string
	Nodes    map[string]Node
	Order    []string
	Exports  []string
	Imports  []*Import
	Position Position
}

// SplitQualified decomposes a raw target into its module and node parts.
// Targets are stored as single raw strings at parse time; a target is
// qualified only when it starts with '@' and carries a '.' separator with
// text on both sides. This is the one place the decomposition lives; loader
// and engine both call it.
func SplitQualified(target string) (module, node string, ok bool) {
	if !strings.HasPrefix(target, "@") {
		return "", "", false
	}
	rest := target[1:]
	dot := strings.Index(rest, ".")
	if dot <= 0 || dot == len(rest)-1 {
		return "", "", false
	}
	return rest[:dot], rest[dot+1:], true
}
