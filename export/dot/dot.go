// Package dot renders quest graphs as Graphviz DOT documents.
package dot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/avolkhin/questline/parser/quest"
)

// Generate converts a parsed quest into a DOT digraph string. Node shape
// follows the node type, the start node is marked, and cross-module edges
// are drawn dashed. Output order is deterministic.
func Generate(prog *quest.Program) (string, error) {
	if prog == nil {
		return "", fmt.Errorf("nil program")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", quoteID(prog.Name))
	fmt.Fprintf(&b, "    label=%s;\n", quote(prog.Goal))
	b.WriteString("    rankdir=LR;\n")

	ids := make([]string, 0, len(prog.Graph.Nodes))
	for id := range prog.Graph.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		node := prog.Graph.Nodes[id]
		attrs := []string{fmt.Sprintf("shape=%s", shapeFor(node.Kind()))}
		if title := endingTitle(node); title != "" {
			attrs = append(attrs, fmt.Sprintf("label=%s", quote(id+"\\n"+title)))
		}
		if id == prog.Graph.Start {
			attrs = append(attrs, "penwidth=2")
		}
		fmt.Fprintf(&b, "    %s [%s];\n", quoteID(id), strings.Join(attrs, ", "))
	}

	for _, id := range ids {
		for _, edge := range quest.OutgoingEdges(prog.Graph.Nodes[id]) {
			if _, _, ok := quest.SplitQualified(edge); ok {
				fmt.Fprintf(&b, "    %s -> %s [style=dashed];\n", quoteID(id), quoteID(edge))
				continue
			}
			fmt.Fprintf(&b, "    %s -> %s;\n", quoteID(id), quoteID(edge))
		}
	}

	b.WriteString("}\n")
	return b.String(), nil
}

// WriteFile renders prog as DOT and writes it to path.
func WriteFile(prog *quest.Program, path string) error {
	doc, err := Generate(prog)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(doc), 0644)
}

func shapeFor(kind quest.NodeKind) string {
	switch kind {
	case quest.KindInitial:
		return "circle"
	case quest.KindEnding:
		return "doublecircle"
	default:
		return "box"
	}
}

func endingTitle(node quest.Node) string {
	if ending, ok := node.(*quest.EndingNode); ok {
		return ending.Title
	}
	return ""
}

// quoteID wraps an identifier in quotes when DOT would reject it bare.
// Qualified targets contain '@' and '.', which always need quoting.
func quoteID(id string) string {
	for _, r := range id {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return quote(id)
		}
	}
	return id
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
