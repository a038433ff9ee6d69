// Package engine executes parsed quest programs.
// validate.go checks the structural integrity of the quest graph.
package engine

import (
	"fmt"

	"github.com/avolkhin/questline/loader"
	"github.com/avolkhin/questline/parser/quest"
)

// Report is the outcome of structural validation. Warnings flag suspicious
// but legal constructs and do not affect validity.
type Report struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

// Validate checks the program graph without touching interpreter state.
// Errors come in a fixed order: the start-node check, then per-node
// reference checks in node declaration order, then unreachable-node checks
// in declaration order.
func (in *Interpreter) Validate() Report {
	var report Report
	graph := in.program.Graph

	startOK := false
	switch {
	case graph.Start == "":
		report.Errors = append(report.Errors, "no start node declared")
	default:
		if _, ok := graph.Nodes[graph.Start]; !ok {
			report.Errors = append(report.Errors, fmt.Sprintf("start node %q does not exist", graph.Start))
		} else {
			startOK = true
		}
	}

	for _, id := range graph.Order {
		node := graph.Nodes[id]
		for _, target := range quest.OutgoingEdges(node) {
			if msg := in.checkReference(id, target); msg != "" {
				report.Errors = append(report.Errors, msg)
			}
		}
	}

	if startOK {
		// One shared visited set across the whole traversal keeps this
		// safe under cycles; each node is visited once.
		visited := map[string]bool{}
		in.reach(graph, graph.Start, visited)
		for _, id := range graph.Order {
			if !visited[id] {
				report.Errors = append(report.Errors, fmt.Sprintf("node %q is unreachable from start node %q", id, graph.Start))
			}
		}
	}

	for _, id := range graph.Redefined {
		report.Warnings = append(report.Warnings, fmt.Sprintf("node %q is declared more than once; the last declaration wins", id))
	}

	report.IsValid = len(report.Errors) == 0
	return report
}

// checkReference validates one outgoing edge. For qualified targets the
// named module must be registered and must export the referenced node.
func (in *Interpreter) checkReference(fromID, target string) string {
	if modName, nodeID, ok := quest.SplitQualified(target); ok {
		if in.registry == nil {
			return fmt.Sprintf("node %q references %q but no modules are loaded", fromID, target)
		}
		if _, err := in.registry.ResolveExport(modName, nodeID); err != nil {
			return fmt.Sprintf("node %q references %q: %v", fromID, target, err)
		}
		return ""
	}
	if _, ok := in.program.Graph.Nodes[target]; !ok {
		return fmt.Sprintf("node %q references non-existent target %q", fromID, target)
	}
	return ""
}

// reach marks every local node reachable from id. Qualified targets leave
// the local graph and ending nodes are leaves, so neither is descended into.
func (in *Interpreter) reach(graph *quest.Graph, id string, visited map[string]bool) {
	if visited[id] {
		return
	}
	node, ok := graph.Nodes[id]
	if !ok {
		return
	}
	visited[id] = true
	if node.Kind() == quest.KindEnding {
		return
	}
	for _, target := range quest.OutgoingEdges(node) {
		if _, _, qualified := quest.SplitQualified(target); qualified {
			continue
		}
		in.reach(graph, target, visited)
	}
}

// ValidateSource never returns an error: lex and parse failures are folded
// into the report as a single error string, so authoring tools need no
// separate failure path.
func ValidateSource(src, filename string, host loader.ModuleHost) Report {
	in, err := Interpret(src, filename, host)
	if err != nil {
		return Report{IsValid: false, Errors: []string{err.Error()}}
	}
	return in.Validate()
}
